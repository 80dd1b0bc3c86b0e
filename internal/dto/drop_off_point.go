package dto

import (
	"github.com/google/uuid"
	"github.com/yukikurage/dropoff-point-api/internal/repository"
)

// DropOffPointDTO represents a drop-off point in API responses
type DropOffPointDTO struct {
	Title         string     `json:"title"`
	Description   *string    `json:"description"`
	Address       *string    `json:"address"`
	Latitude      *float64   `json:"latitude"`
	Longitude     *float64   `json:"longitude"`
	ID            uuid.UUID  `json:"id"`
	OwnerID       uuid.UUID  `json:"owner_id"`
	OwnerFullName *string    `json:"owner_full_name"`
	ResponsibleID *uuid.UUID `json:"responsible_id"`
}

// DropOffPointListResponse represents a page of drop-off points
type DropOffPointListResponse struct {
	Data  []DropOffPointDTO `json:"data"`
	Count int64             `json:"count"`
}

// CreateDropOffPointRequest is the body of POST /drop-off-points/
type CreateDropOffPointRequest struct {
	Title         string     `json:"title" binding:"required"`
	Description   *string    `json:"description"`
	Address       *string    `json:"address"`
	ResponsibleID *uuid.UUID `json:"responsible_id"`
}

// UpdateDropOffPointRequest is the body of PUT /drop-off-points/{id}.
// Omitting responsible_id removes the responsible member. Omitted or null
// title, description and address keep their current value, so description
// and address cannot be cleared once set.
type UpdateDropOffPointRequest struct {
	Title         *string    `json:"title"`
	Description   *string    `json:"description"`
	Address       *string    `json:"address"`
	ResponsibleID *uuid.UUID `json:"responsible_id"`
}

// ToDropOffPointDTO converts a drop-off point to DTO
func ToDropOffPointDTO(p repository.DropOffPointWithOwner) DropOffPointDTO {
	return DropOffPointDTO{
		Title:         p.Title,
		Description:   p.Description,
		Address:       p.Address,
		Latitude:      p.Latitude,
		Longitude:     p.Longitude,
		ID:            p.ID,
		OwnerID:       p.OwnerID,
		OwnerFullName: p.OwnerFullName,
		ResponsibleID: p.ResponsibleID,
	}
}

// ToDropOffPointListResponse converts a page of drop-off points to DTO
func ToDropOffPointListResponse(points []repository.DropOffPointWithOwner, count int64) DropOffPointListResponse {
	data := make([]DropOffPointDTO, len(points))
	for i, p := range points {
		data[i] = ToDropOffPointDTO(p)
	}
	return DropOffPointListResponse{Data: data, Count: count}
}
