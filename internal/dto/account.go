package dto

import (
	"github.com/google/uuid"
	"github.com/yukikurage/dropoff-point-api/internal/models"
)

// AccountDTO represents an account in API responses
type AccountDTO struct {
	ID             uuid.UUID `json:"id"`
	Email          string    `json:"email"`
	FullName       *string   `json:"full_name"`
	IsActive       bool      `json:"is_active"`
	IsSuperuser    bool      `json:"is_superuser"`
	IsOrganization bool      `json:"is_organization"`
}

// AccountListResponse represents a page of accounts
type AccountListResponse struct {
	Data  []AccountDTO `json:"data"`
	Count int64        `json:"count"`
}

// SignupRequest is the body of POST /accounts/signup
type SignupRequest struct {
	Email          string  `json:"email" binding:"required"`
	FullName       *string `json:"full_name"`
	IsOrganization bool    `json:"is_organization"`
}

// UpdateAccountRequest is the body of PATCH /accounts/me
type UpdateAccountRequest struct {
	Email          *string `json:"email"`
	FullName       *string `json:"full_name"`
	IsOrganization *bool   `json:"is_organization"`
}

// MessageResponse carries a human readable confirmation
type MessageResponse struct {
	Message string `json:"message"`
}

// ToAccountDTO converts an account to DTO
func ToAccountDTO(account models.Account) AccountDTO {
	return AccountDTO{
		ID:             account.ID,
		Email:          account.Email,
		FullName:       account.FullName,
		IsActive:       account.IsActive,
		IsSuperuser:    account.IsSuperuser,
		IsOrganization: account.IsOrganization,
	}
}

// ToAccountListResponse converts a page of accounts to DTO
func ToAccountListResponse(accounts []models.Account, count int64) AccountListResponse {
	data := make([]AccountDTO, len(accounts))
	for i, account := range accounts {
		data[i] = ToAccountDTO(account)
	}
	return AccountListResponse{Data: data, Count: count}
}
