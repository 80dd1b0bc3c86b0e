package dto

import (
	"github.com/google/uuid"
	"github.com/yukikurage/dropoff-point-api/internal/repository"
)

// MemberInfoDTO represents a member of an organization
type MemberInfoDTO struct {
	MembershipID   uuid.UUID `json:"membership_id"`
	ID             uuid.UUID `json:"id"`
	Email          string    `json:"email"`
	FullName       *string   `json:"full_name"`
	IsActive       bool      `json:"is_active"`
	IsSuperuser    bool      `json:"is_superuser"`
	IsOrganization bool      `json:"is_organization"`
	IsPending      bool      `json:"is_pending"`
}

// OrganizationMembershipDTO represents a membership seen from the member side
type OrganizationMembershipDTO struct {
	ID               uuid.UUID `json:"id"`
	OrganizationID   uuid.UUID `json:"organization_id"`
	Email            string    `json:"email"`
	MemberID         uuid.UUID `json:"member_id"`
	IsPending        bool      `json:"is_pending"`
	OrganizationName *string   `json:"organization_name"`
}

// MemberListResponse represents the members of an organization
type MemberListResponse struct {
	Data  []MemberInfoDTO `json:"data"`
	Count int64           `json:"count"`
}

// OrganizationMembershipListResponse represents the memberships of an account
type OrganizationMembershipListResponse struct {
	Data  []OrganizationMembershipDTO `json:"data"`
	Count int64                       `json:"count"`
}

// ToMemberInfoDTO converts a membership joined with its member to DTO
func ToMemberInfoDTO(m repository.MembershipWithMember) MemberInfoDTO {
	return MemberInfoDTO{
		MembershipID:   m.ID,
		ID:             m.MemberID,
		Email:          m.MemberEmail,
		FullName:       m.MemberFullName,
		IsActive:       m.MemberIsActive,
		IsSuperuser:    m.MemberIsSuperuser,
		IsOrganization: m.MemberIsOrganization,
		IsPending:      m.IsPending,
	}
}

// ToMemberListResponse converts the members of an organization to DTO
func ToMemberListResponse(members []repository.MembershipWithMember) MemberListResponse {
	data := make([]MemberInfoDTO, len(members))
	for i, m := range members {
		data[i] = ToMemberInfoDTO(m)
	}
	return MemberListResponse{Data: data, Count: int64(len(data))}
}

// ToOrganizationMembershipListResponse converts memberships joined with
// their organization to DTO
func ToOrganizationMembershipListResponse(memberships []repository.MembershipWithOrganization) OrganizationMembershipListResponse {
	data := make([]OrganizationMembershipDTO, len(memberships))
	for i, m := range memberships {
		data[i] = OrganizationMembershipDTO{
			ID:               m.ID,
			OrganizationID:   m.OrganizationID,
			Email:            m.OrganizationEmail,
			MemberID:         m.MemberID,
			IsPending:        m.IsPending,
			OrganizationName: m.OrganizationName,
		}
	}
	return OrganizationMembershipListResponse{Data: data, Count: int64(len(data))}
}
