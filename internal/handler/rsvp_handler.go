package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/BenjiKandl/apertif/internal/dto"
	"github.com/BenjiKandl/apertif/internal/service"
	"github.com/BenjiKandl/apertif/pkg/middleware"
	"github.com/BenjiKandl/apertif/pkg/response"
)

// RSVPHandler handles guest replies
type RSVPHandler struct {
	rsvpService service.RSVPService
}

// NewRSVPHandler creates a new RSVPHandler
func NewRSVPHandler(rsvpService service.RSVPService) *RSVPHandler {
	return &RSVPHandler{
		rsvpService: rsvpService,
	}
}

// Submit handles POST /events/:id/rsvps
func (h *RSVPHandler) Submit(c *gin.Context) {
	var req dto.RSVPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindingError(c, err)
		return
	}

	resp, err := h.rsvpService.SubmitRSVP(c.Request.Context(), middleware.GetDeviceID(c), c.Param("id"), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	response.Created(c, resp)
}
