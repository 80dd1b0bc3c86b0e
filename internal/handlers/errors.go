package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	apierrors "github.com/yukikurage/dropoff-point-api/internal/errors"
	"github.com/yukikurage/dropoff-point-api/internal/middleware"
	"github.com/yukikurage/dropoff-point-api/internal/models"
	"github.com/yukikurage/dropoff-point-api/internal/services"
)

type errorResponse struct {
	target  error
	respond func(c *gin.Context, message string)
	message string
}

var errorResponses = []errorResponse{
	{services.ErrAccountNotFound, apierrors.NotFound, "User not found"},
	{services.ErrMembershipNotFound, apierrors.NotFound, "Membership not found"},
	{services.ErrDropOffPointNotFound, apierrors.NotFound, "Drop off point not found"},
	{services.ErrMemberNotInOrganization, apierrors.NotFound, "Member not found in organization"},
	{services.ErrMembershipExists, apierrors.Conflict, "Membership already exists"},
	{services.ErrEmailTaken, apierrors.Conflict, "User with this email already exists"},
	{services.ErrPermissionDenied, apierrors.Forbidden, "Not enough permissions"},
	{services.ErrNotOrganization, apierrors.Forbidden, "The user is not an organization"},
	{services.ErrCannotDeleteSelf, apierrors.Forbidden, "Super users are not allowed to delete themselves"},
	{services.ErrCannotInviteSelf, apierrors.BadRequest, "An organization cannot invite itself"},
	{services.ErrInvalidEmail, apierrors.BadRequest, "Invalid email address"},
	{services.ErrInvalidFullName, apierrors.BadRequest, "Full name must be at most 255 characters"},
	{services.ErrInvalidTitle, apierrors.BadRequest, "Title must be between 1 and 255 characters"},
}

// respondError maps a service error to its API response. Unknown errors
// become 500 and are attached to the context for the request logger.
func respondError(c *gin.Context, err error) {
	for _, r := range errorResponses {
		if errors.Is(err, r.target) {
			r.respond(c, r.message)
			return
		}
	}

	_ = c.Error(err)
	apierrors.InternalError(c, "")
}

// bindJSON decodes the request body into req, answering 400 with the
// binding error as details when it does not fit.
func bindJSON(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		apierrors.BadRequestWithDetails(c, "Invalid request body", err.Error())
		return false
	}
	return true
}

func currentAccount(c *gin.Context) (*models.Account, bool) {
	account, ok := middleware.GetAccount(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return nil, false
	}
	return account, true
}

func uuidParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		apierrors.BadRequest(c, "Invalid "+name)
		return uuid.Nil, false
	}
	return id, true
}
