package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/dropoff-point-api/internal/dto"
	apierrors "github.com/yukikurage/dropoff-point-api/internal/errors"
	"github.com/yukikurage/dropoff-point-api/internal/services"
	"github.com/yukikurage/dropoff-point-api/internal/utils"
)

type AccountHandler struct {
	accounts *services.AccountService
}

func NewAccountHandler(accounts *services.AccountService) *AccountHandler {
	return &AccountHandler{accounts: accounts}
}

// Signup registers a new account
func (h *AccountHandler) Signup(c *gin.Context) {
	var req dto.SignupRequest
	if !bindJSON(c, &req) {
		return
	}

	account, err := h.accounts.Signup(c.Request.Context(), services.SignupInput{
		Email:          req.Email,
		FullName:       req.FullName,
		IsOrganization: req.IsOrganization,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToAccountDTO(*account))
}

// GetMe returns the current account
func (h *AccountHandler) GetMe(c *gin.Context) {
	account, ok := currentAccount(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, dto.ToAccountDTO(*account))
}

// UpdateMe updates the current account's profile
func (h *AccountHandler) UpdateMe(c *gin.Context) {
	account, ok := currentAccount(c)
	if !ok {
		return
	}

	var req dto.UpdateAccountRequest
	if !bindJSON(c, &req) {
		return
	}

	updated, err := h.accounts.Update(c.Request.Context(), account, services.UpdateAccountInput{
		Email:          req.Email,
		FullName:       req.FullName,
		IsOrganization: req.IsOrganization,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToAccountDTO(*updated))
}

// DeleteMe deletes the current account
func (h *AccountHandler) DeleteMe(c *gin.Context) {
	account, ok := currentAccount(c)
	if !ok {
		return
	}

	if err := h.accounts.Delete(c.Request.Context(), account, account.ID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.MessageResponse{Message: "User deleted successfully"})
}

// ListAccounts returns a page of accounts, for superusers
func (h *AccountHandler) ListAccounts(c *gin.Context) {
	params, err := utils.GetPaginationParams(c)
	if err != nil {
		apierrors.BadRequest(c, err.Error())
		return
	}

	accounts, count, err := h.accounts.List(c.Request.Context(), params)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToAccountListResponse(accounts, count))
}

// DeleteAccount deletes any account, for superusers
func (h *AccountHandler) DeleteAccount(c *gin.Context) {
	account, ok := currentAccount(c)
	if !ok {
		return
	}

	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	if err := h.accounts.Delete(c.Request.Context(), account, id); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.MessageResponse{Message: "User deleted successfully"})
}
