package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/dropoff-point-api/internal/dto"
	apierrors "github.com/yukikurage/dropoff-point-api/internal/errors"
	"github.com/yukikurage/dropoff-point-api/internal/services"
	"github.com/yukikurage/dropoff-point-api/internal/utils"
)

type DropOffPointHandler struct {
	points *services.DropOffPointService
}

func NewDropOffPointHandler(points *services.DropOffPointService) *DropOffPointHandler {
	return &DropOffPointHandler{points: points}
}

// ListDropOffPoints returns the drop-off points visible to the current account
func (h *DropOffPointHandler) ListDropOffPoints(c *gin.Context) {
	account, ok := currentAccount(c)
	if !ok {
		return
	}

	params, err := utils.GetPaginationParams(c)
	if err != nil {
		apierrors.BadRequest(c, err.Error())
		return
	}

	points, count, err := h.points.List(c.Request.Context(), account, params)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToDropOffPointListResponse(points, count))
}

// GetDropOffPoint returns a single drop-off point
func (h *DropOffPointHandler) GetDropOffPoint(c *gin.Context) {
	account, ok := currentAccount(c)
	if !ok {
		return
	}

	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	point, err := h.points.Get(c.Request.Context(), account, id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToDropOffPointDTO(*point))
}

// CreateDropOffPoint creates a drop-off point owned by the current account
func (h *DropOffPointHandler) CreateDropOffPoint(c *gin.Context) {
	account, ok := currentAccount(c)
	if !ok {
		return
	}

	var req dto.CreateDropOffPointRequest
	if !bindJSON(c, &req) {
		return
	}

	point, err := h.points.Create(c.Request.Context(), account, services.CreateDropOffPointInput{
		Title:         req.Title,
		Description:   req.Description,
		Address:       req.Address,
		ResponsibleID: req.ResponsibleID,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToDropOffPointDTO(*point))
}

// UpdateDropOffPoint updates a drop-off point
func (h *DropOffPointHandler) UpdateDropOffPoint(c *gin.Context) {
	account, ok := currentAccount(c)
	if !ok {
		return
	}

	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	var req dto.UpdateDropOffPointRequest
	if !bindJSON(c, &req) {
		return
	}

	point, err := h.points.Update(c.Request.Context(), account, id, services.UpdateDropOffPointInput{
		Title:         req.Title,
		Description:   req.Description,
		Address:       req.Address,
		ResponsibleID: req.ResponsibleID,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToDropOffPointDTO(*point))
}

// DeleteDropOffPoint deletes a drop-off point
func (h *DropOffPointHandler) DeleteDropOffPoint(c *gin.Context) {
	account, ok := currentAccount(c)
	if !ok {
		return
	}

	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	if err := h.points.Delete(c.Request.Context(), account, id); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.MessageResponse{Message: "Drop off point deleted successfully"})
}
