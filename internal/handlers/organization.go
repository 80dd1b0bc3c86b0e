package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/dropoff-point-api/internal/dto"
	apierrors "github.com/yukikurage/dropoff-point-api/internal/errors"
	"github.com/yukikurage/dropoff-point-api/internal/services"
)

type OrganizationHandler struct {
	memberships *services.MembershipService
}

func NewOrganizationHandler(memberships *services.MembershipService) *OrganizationHandler {
	return &OrganizationHandler{memberships: memberships}
}

// Invite invites the account with the given email to the organization
func (h *OrganizationHandler) Invite(c *gin.Context) {
	organization, ok := currentAccount(c)
	if !ok {
		return
	}

	email := c.Query("email")
	if email == "" {
		apierrors.BadRequest(c, "email is required")
		return
	}

	member, err := h.memberships.Invite(c.Request.Context(), organization, email)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToMemberInfoDTO(*member))
}

// ListMembers returns every member of the organization, pending or not
func (h *OrganizationHandler) ListMembers(c *gin.Context) {
	organization, ok := currentAccount(c)
	if !ok {
		return
	}

	members, err := h.memberships.ListMembers(c.Request.Context(), organization)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToMemberListResponse(members))
}

// RemoveMember revokes the membership of a member account
func (h *OrganizationHandler) RemoveMember(c *gin.Context) {
	organization, ok := currentAccount(c)
	if !ok {
		return
	}

	memberID, ok := uuidParam(c, "member_id")
	if !ok {
		return
	}

	if err := h.memberships.RevokeMember(c.Request.Context(), organization, memberID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.MessageResponse{Message: "Member removed successfully"})
}
