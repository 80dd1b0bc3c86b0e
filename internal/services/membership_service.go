package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/yukikurage/dropoff-point-api/internal/models"
	"github.com/yukikurage/dropoff-point-api/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrMembershipNotFound = errors.New("membership not found")
	ErrMembershipExists   = errors.New("membership already exists for this pair of accounts")
	ErrCannotInviteSelf   = errors.New("an organization cannot invite itself")
)

// Side identifies which end of a membership the caller acts from.
type Side int

const (
	AsMember Side = iota
	AsOrganization
)

func (s Side) String() string {
	if s == AsOrganization {
		return "organization"
	}
	return "member"
}

// MembershipService manages invitations and organization memberships.
type MembershipService struct {
	store *repository.Store
	options
}

// NewMembershipService creates a new MembershipService.
func NewMembershipService(store *repository.Store, opts ...Option) *MembershipService {
	return &MembershipService{
		store:   store,
		options: newOptions(opts),
	}
}

// Invite creates a pending membership of the account with email in
// organization. Only one membership may exist per pair of accounts,
// whichever side invited.
func (s *MembershipService) Invite(ctx context.Context, organization *models.Account, email string) (*repository.MembershipWithMember, error) {
	if err := RequireOrganization(organization); err != nil {
		return nil, err
	}

	target, err := s.store.Accounts.FindByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, fmt.Errorf("failed to find account: %w", err)
	}

	if target.ID == organization.ID {
		return nil, ErrCannotInviteSelf
	}

	membership := &models.Membership{
		OrganizationID: organization.ID,
		MemberID:       target.ID,
		IsPending:      true,
	}

	err = s.store.RunInTx(ctx, func(store *repository.Store) error {
		if _, err := store.Memberships.FindByPair(ctx, organization.ID, target.ID); err == nil {
			return ErrMembershipExists
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("failed to check membership: %w", err)
		}

		if err := store.Memberships.Create(ctx, membership); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrMembershipExists
			}
			return fmt.Errorf("failed to create membership: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.metrics.IncrementInvitationsCreated()
	s.logger.Info("invitation created",
		"membership", membership.ID,
		"organization", organization.ID,
		"member", target.ID)

	return &repository.MembershipWithMember{
		Membership:           *membership,
		MemberEmail:          target.Email,
		MemberFullName:       target.FullName,
		MemberIsActive:       target.IsActive,
		MemberIsSuperuser:    target.IsSuperuser,
		MemberIsOrganization: target.IsOrganization,
	}, nil
}

// ListMembershipsAsMember returns the memberships of account, pending or
// not, with the organization's email and name.
func (s *MembershipService) ListMembershipsAsMember(ctx context.Context, account *models.Account) ([]repository.MembershipWithOrganization, error) {
	memberships, err := s.store.Memberships.ListByMember(ctx, account.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list memberships: %w", err)
	}
	return memberships, nil
}

// AcceptInvitation accepts a pending invitation addressed to account.
// Unknown, foreign and already accepted invitations all yield
// ErrMembershipNotFound.
func (s *MembershipService) AcceptInvitation(ctx context.Context, account *models.Account, membershipID uuid.UUID) error {
	accepted, err := s.store.Memberships.Accept(ctx, membershipID, account.ID)
	if err != nil {
		return fmt.Errorf("failed to accept invitation: %w", err)
	}
	if !accepted {
		return ErrMembershipNotFound
	}

	s.metrics.IncrementInvitationsAccepted()
	s.logger.Info("invitation accepted", "membership", membershipID, "member", account.ID)
	return nil
}

// LeaveOrRevoke deletes a membership the account is part of on the given
// side. Drop-off points delegated through it lose their responsible member.
func (s *MembershipService) LeaveOrRevoke(ctx context.Context, account *models.Account, membershipID uuid.UUID, side Side) error {
	err := s.store.RunInTx(ctx, func(store *repository.Store) error {
		membership, err := store.Memberships.FindByID(ctx, membershipID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrMembershipNotFound
			}
			return fmt.Errorf("failed to find membership: %w", err)
		}

		switch side {
		case AsMember:
			if membership.MemberID != account.ID {
				return ErrMembershipNotFound
			}
		case AsOrganization:
			if membership.OrganizationID != account.ID {
				return ErrMembershipNotFound
			}
		default:
			return fmt.Errorf("unknown membership side %d", side)
		}

		if err := store.Memberships.Delete(ctx, membership.ID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrMembershipNotFound
			}
			return fmt.Errorf("failed to delete membership: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.metrics.IncrementMembershipsRemoved(side.String())
	s.logger.Info("membership removed", "membership", membershipID, "by", account.ID, "side", side)
	return nil
}

// RevokeMember removes the membership of the member account from organization.
func (s *MembershipService) RevokeMember(ctx context.Context, organization *models.Account, memberID uuid.UUID) error {
	if err := RequireOrganization(organization); err != nil {
		return err
	}

	membership, err := s.store.Memberships.FindByOrganizationAndMember(ctx, organization.ID, memberID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrMembershipNotFound
		}
		return fmt.Errorf("failed to find membership: %w", err)
	}

	return s.LeaveOrRevoke(ctx, organization, membership.ID, AsOrganization)
}

// ListMembers returns every membership of organization with the member's profile.
func (s *MembershipService) ListMembers(ctx context.Context, organization *models.Account) ([]repository.MembershipWithMember, error) {
	if err := RequireOrganization(organization); err != nil {
		return nil, err
	}

	members, err := s.store.Memberships.ListByOrganization(ctx, organization.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list members: %w", err)
	}
	return members, nil
}
