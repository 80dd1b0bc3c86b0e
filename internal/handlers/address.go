package handlers

import (
	"net/http"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"
	apierrors "github.com/yukikurage/dropoff-point-api/internal/errors"
	"github.com/yukikurage/dropoff-point-api/internal/geocode"
)

type AddressHandler struct {
	geocoder geocode.Client
	logger   *log.Logger
}

func NewAddressHandler(geocoder geocode.Client, logger *log.Logger) *AddressHandler {
	return &AddressHandler{geocoder: geocoder, logger: logger}
}

// Search proxies an address search and returns the upstream feature
// collection with the upstream default number of suggestions
func (h *AddressHandler) Search(c *gin.Context) {
	query := strings.TrimSpace(c.Query("query"))
	if query == "" {
		apierrors.BadRequest(c, "query is required")
		return
	}

	result, err := h.geocoder.Search(c.Request.Context(), query, 0)
	if err != nil {
		h.logger.Error("address search failed", "query", query, "err", err)
		apierrors.ServiceUnavailable(c, "Address search is unavailable")
		return
	}

	c.JSON(http.StatusOK, result)
}
