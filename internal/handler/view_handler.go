package handler

import (
	"context"
	"net/url"

	"github.com/gin-gonic/gin"

	"github.com/BenjiKandl/apertif/internal/dto"
	"github.com/BenjiKandl/apertif/internal/view"
	"github.com/BenjiKandl/apertif/pkg/middleware"
	"github.com/BenjiKandl/apertif/pkg/response"
)

// ViewRenderer assembles the state of the screen a URL addresses
type ViewRenderer interface {
	Render(ctx context.Context, query url.Values, deviceID string) (*view.AppState, error)
}

// ViewHandler serves the single-page app state
type ViewHandler struct {
	renderer ViewRenderer
}

// NewViewHandler creates a new ViewHandler
func NewViewHandler(renderer ViewRenderer) *ViewHandler {
	return &ViewHandler{renderer: renderer}
}

// Render handles GET /view?event=...&rsvp=...&host=...
func (h *ViewHandler) Render(c *gin.Context) {
	state, err := h.renderer.Render(c.Request.Context(), c.Request.URL.Query(), middleware.GetDeviceID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, state)
}

// Options handles GET /options
func (h *ViewHandler) Options(c *gin.Context) {
	response.Success(c, dto.NewOptionsResponse())
}
