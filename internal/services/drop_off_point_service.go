package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/yukikurage/dropoff-point-api/internal/constants"
	"github.com/yukikurage/dropoff-point-api/internal/geocode"
	"github.com/yukikurage/dropoff-point-api/internal/models"
	"github.com/yukikurage/dropoff-point-api/internal/repository"
	"github.com/yukikurage/dropoff-point-api/internal/utils"
	"gorm.io/gorm"
)

var (
	ErrDropOffPointNotFound    = errors.New("drop-off point not found")
	ErrInvalidTitle            = errors.New("title must be between 1 and 255 characters")
	ErrMemberNotInOrganization = errors.New("member not found in organization")
)

// DropOffPointService provides business logic for drop-off points.
type DropOffPointService struct {
	store    *repository.Store
	geocoder geocode.Client
	options
}

// NewDropOffPointService creates a new DropOffPointService. A nil geocoder
// leaves coordinates unset.
func NewDropOffPointService(store *repository.Store, geocoder geocode.Client, opts ...Option) *DropOffPointService {
	return &DropOffPointService{
		store:    store,
		geocoder: geocoder,
		options:  newOptions(opts),
	}
}

// CreateDropOffPointInput represents parameters to create a drop-off point.
type CreateDropOffPointInput struct {
	Title         string
	Description   *string
	Address       *string
	ResponsibleID *uuid.UUID
}

// UpdateDropOffPointInput represents parameters to update a drop-off point.
// Nil Title, Description and Address keep their current value; ResponsibleID
// always replaces the current one, so nil removes the responsible member.
type UpdateDropOffPointInput struct {
	Title         *string
	Description   *string
	Address       *string
	ResponsibleID *uuid.UUID
}

func validateTitle(title string) error {
	n := utf8.RuneCountInString(strings.TrimSpace(title))
	if n == 0 || utf8.RuneCountInString(title) > constants.MaxTitleLength {
		return ErrInvalidTitle
	}
	return nil
}

// List returns the drop-off points visible to actor and their total count.
// Superusers see every point; other accounts see the points they own and the
// points delegated to them through an accepted membership.
func (s *DropOffPointService) List(ctx context.Context, actor *models.Account, page utils.PaginationParams) ([]repository.DropOffPointWithOwner, int64, error) {
	filter := repository.DropOffPointFilter{Page: page}
	if !actor.IsSuperuser {
		id := actor.ID
		filter.VisibleTo = &id
	}

	points, total, err := s.store.DropOffPoints.List(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list drop-off points: %w", err)
	}
	return points, total, nil
}

// Get returns a drop-off point owned by actor, or any point for a superuser.
// Being the responsible member of a point does not grant access here.
func (s *DropOffPointService) Get(ctx context.Context, actor *models.Account, id uuid.UUID) (*repository.DropOffPointWithOwner, error) {
	point, err := s.store.DropOffPoints.FindWithOwner(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDropOffPointNotFound
		}
		return nil, fmt.Errorf("failed to find drop-off point: %w", err)
	}

	if !CanManage(actor, &point.DropOffPoint) {
		return nil, ErrPermissionDenied
	}
	return point, nil
}

// Create creates a drop-off point owned by actor.
func (s *DropOffPointService) Create(ctx context.Context, actor *models.Account, input CreateDropOffPointInput) (*repository.DropOffPointWithOwner, error) {
	if err := validateTitle(input.Title); err != nil {
		return nil, err
	}

	point := &models.DropOffPoint{
		Title:         input.Title,
		Description:   input.Description,
		Address:       input.Address,
		OwnerID:       actor.ID,
		ResponsibleID: input.ResponsibleID,
	}
	point.SetCoordinates(s.resolveCoordinates(ctx, input.Address))

	err := s.store.RunInTx(ctx, func(store *repository.Store) error {
		if point.ResponsibleID != nil {
			if err := checkResponsible(ctx, store, actor, *point.ResponsibleID); err != nil {
				return err
			}
		}

		if err := store.DropOffPoints.Create(ctx, point); err != nil {
			return fmt.Errorf("failed to create drop-off point: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.metrics.IncrementDropOffPointsCreated()
	s.logger.Info("drop-off point created", "id", point.ID, "owner", actor.ID)

	return &repository.DropOffPointWithOwner{
		DropOffPoint:  *point,
		OwnerFullName: actor.FullName,
	}, nil
}

// Update changes a drop-off point managed by actor. Coordinates are resolved
// again from the resulting address. The point is re-read and locked inside
// the transaction, so a concurrent Delete wins and yields
// ErrDropOffPointNotFound.
func (s *DropOffPointService) Update(ctx context.Context, actor *models.Account, id uuid.UUID, input UpdateDropOffPointInput) (*repository.DropOffPointWithOwner, error) {
	if input.Title != nil {
		if err := validateTitle(*input.Title); err != nil {
			return nil, err
		}
	}

	// Geocoding runs before the row is locked.
	current, err := findManaged(ctx, s.store.DropOffPoints.FindByID, actor, id)
	if err != nil {
		return nil, err
	}
	address := current.Address
	if input.Address != nil {
		address = input.Address
	}
	lat, lon, resolved := s.resolveCoordinates(ctx, address)

	err = s.store.RunInTx(ctx, func(store *repository.Store) error {
		point, err := findManaged(ctx, store.DropOffPoints.FindByIDForUpdate, actor, id)
		if err != nil {
			return err
		}

		if input.Title != nil {
			point.Title = *input.Title
		}
		if input.Description != nil {
			point.Description = input.Description
		}
		if input.Address != nil {
			point.Address = input.Address
		}
		point.ResponsibleID = input.ResponsibleID

		if !sameAddress(point.Address, address) {
			lat, lon, resolved = s.resolveCoordinates(ctx, point.Address)
		}
		point.SetCoordinates(lat, lon, resolved)

		if point.ResponsibleID != nil {
			owner := actor
			if owner.ID != point.OwnerID {
				found, err := store.Accounts.FindByID(ctx, point.OwnerID)
				if err != nil {
					return fmt.Errorf("failed to find owner: %w", err)
				}
				owner = found
			}
			if err := checkResponsible(ctx, store, owner, *point.ResponsibleID); err != nil {
				return err
			}
		}

		if err := store.DropOffPoints.Update(ctx, point); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrDropOffPointNotFound
			}
			return fmt.Errorf("failed to update drop-off point: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	updated, err := s.store.DropOffPoints.FindWithOwner(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to reload drop-off point: %w", err)
	}
	return updated, nil
}

// Delete removes a drop-off point managed by actor.
func (s *DropOffPointService) Delete(ctx context.Context, actor *models.Account, id uuid.UUID) error {
	err := s.store.RunInTx(ctx, func(store *repository.Store) error {
		if _, err := findManaged(ctx, store.DropOffPoints.FindByIDForUpdate, actor, id); err != nil {
			return err
		}

		if err := store.DropOffPoints.Delete(ctx, id); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrDropOffPointNotFound
			}
			return fmt.Errorf("failed to delete drop-off point: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.metrics.IncrementDropOffPointsDeleted()
	s.logger.Info("drop-off point deleted", "id", id, "by", actor.ID)
	return nil
}

// findManaged loads a point with find and checks that actor may manage it.
func findManaged(ctx context.Context, find func(context.Context, uuid.UUID) (*models.DropOffPoint, error), actor *models.Account, id uuid.UUID) (*models.DropOffPoint, error) {
	point, err := find(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDropOffPointNotFound
		}
		return nil, fmt.Errorf("failed to find drop-off point: %w", err)
	}

	if !CanManage(actor, point) {
		return nil, ErrPermissionDenied
	}
	return point, nil
}

func sameAddress(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

// checkResponsible verifies that membershipID is an accepted membership of
// the organization account.
func checkResponsible(ctx context.Context, store *repository.Store, organization *models.Account, membershipID uuid.UUID) error {
	if !organization.IsOrganization {
		return ErrMemberNotInOrganization
	}

	if _, err := store.Memberships.FindAccepted(ctx, organization.ID, membershipID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrMemberNotInOrganization
		}
		return fmt.Errorf("failed to find membership: %w", err)
	}
	return nil
}

// resolveCoordinates geocodes address. Failures are logged and counted and
// leave the point without coordinates.
func (s *DropOffPointService) resolveCoordinates(ctx context.Context, address *string) (lat, lon float64, ok bool) {
	if address == nil || strings.TrimSpace(*address) == "" || s.geocoder == nil {
		return 0, 0, false
	}

	start := time.Now()
	lat, lon, err := geocode.Resolve(ctx, s.geocoder, *address)
	s.metrics.ObserveGeocode(start)
	if err != nil {
		s.metrics.IncrementGeocodeFailures()
		s.logger.Error("failed to geocode address", "address", *address, "err", err)
		return 0, 0, false
	}
	return lat, lon, true
}
