package services

import (
	"errors"

	"github.com/yukikurage/dropoff-point-api/internal/models"
)

var (
	ErrPermissionDenied = errors.New("not enough permissions")
	ErrNotOrganization  = errors.New("account is not an organization")
)

// CanManage reports whether actor may read or modify point.
func CanManage(actor *models.Account, point *models.DropOffPoint) bool {
	return actor.IsSuperuser || point.OwnerID == actor.ID
}

// RequireOrganization returns ErrNotOrganization unless actor is an organization.
func RequireOrganization(actor *models.Account) error {
	if !actor.IsOrganization {
		return ErrNotOrganization
	}
	return nil
}
