package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/BenjiKandl/apertif/internal/calendar"
	"github.com/BenjiKandl/apertif/internal/dto"
	"github.com/BenjiKandl/apertif/internal/service"
	"github.com/BenjiKandl/apertif/pkg/response"
)

// EventHandler handles event-related HTTP requests
type EventHandler struct {
	eventService service.EventService
}

// NewEventHandler creates a new EventHandler
func NewEventHandler(eventService service.EventService) *EventHandler {
	return &EventHandler{
		eventService: eventService,
	}
}

// Create handles POST /events - stores a new event and returns its links
func (h *EventHandler) Create(c *gin.Context) {
	var req dto.CreateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindingError(c, err)
		return
	}

	resp, err := h.eventService.CreateEvent(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	response.Created(c, resp)
}

// Get handles GET /events/:id - returns the stored document
func (h *EventHandler) Get(c *gin.Context) {
	id := c.Param("id")

	doc, err := h.eventService.GetEvent(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	resp := dto.NewEventResponse(id, doc)
	if doc.Event.IsAnonymous {
		// Names only leave the server through the numbered guest list
		for i := range resp.Guests {
			resp.Guests[i].Name = ""
		}
	}
	response.Success(c, resp)
}

// Guests handles GET /events/:id/guests - returns the rendered guest list
func (h *EventHandler) Guests(c *gin.Context) {
	list, err := h.eventService.GuestList(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, list)
}

// Calendar handles GET /events/:id/calendar.ics - downloads the event
func (h *EventHandler) Calendar(c *gin.Context) {
	ics, err := h.eventService.Calendar(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+calendar.FileName+`"`)
	c.Data(http.StatusOK, calendar.ContentType, ics)
}
