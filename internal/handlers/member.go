package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/dropoff-point-api/internal/dto"
	"github.com/yukikurage/dropoff-point-api/internal/services"
)

type MemberHandler struct {
	memberships *services.MembershipService
}

func NewMemberHandler(memberships *services.MembershipService) *MemberHandler {
	return &MemberHandler{memberships: memberships}
}

// ListOrganizations returns the memberships of the current account
func (h *MemberHandler) ListOrganizations(c *gin.Context) {
	account, ok := currentAccount(c)
	if !ok {
		return
	}

	memberships, err := h.memberships.ListMembershipsAsMember(c.Request.Context(), account)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToOrganizationMembershipListResponse(memberships))
}

// AcceptInvitation accepts a pending invitation
func (h *MemberHandler) AcceptInvitation(c *gin.Context) {
	account, ok := currentAccount(c)
	if !ok {
		return
	}

	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	if err := h.memberships.AcceptInvitation(c.Request.Context(), account, id); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.MessageResponse{Message: "Invitation accepted"})
}

// LeaveOrganization deletes a membership of the current account
func (h *MemberHandler) LeaveOrganization(c *gin.Context) {
	account, ok := currentAccount(c)
	if !ok {
		return
	}

	id, ok := uuidParam(c, "membership_id")
	if !ok {
		return
	}

	if err := h.memberships.LeaveOrRevoke(c.Request.Context(), account, id, services.AsMember); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.MessageResponse{Message: "Membership deleted successfully"})
}
