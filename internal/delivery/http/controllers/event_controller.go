package controllers

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"eventbooking/internal/delivery/http/helpers"
	"eventbooking/internal/delivery/http/middleware"
	"eventbooking/internal/domain"

	"github.com/shopspring/decimal"
)

// parseDate accepts an RFC 3339 timestamp or a plain YYYY-MM-DD date (midnight UTC).
func parseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UTC(), true
	}
	if t, err := time.Parse(time.DateOnly, s); err == nil {
		return t, true
	}
	return time.Time{}, false
}

// CreateEventRequest is the request body for POST /events.
type CreateEventRequest struct {
	Title       string           `json:"title"`
	Description string           `json:"description"`
	Location    string           `json:"location"`
	Date        string           `json:"date" example:"2025-06-01T19:00:00Z"`
	TotalSeats  *int             `json:"total_seats"`
	Price       *decimal.Decimal `json:"price" swaggertype:"number"`
	Img         string           `json:"img"`
}

// Validate implements Validator.
func (c CreateEventRequest) Validate() []string {
	if strings.TrimSpace(c.Title) == "" || strings.TrimSpace(c.Description) == "" ||
		strings.TrimSpace(c.Location) == "" || strings.TrimSpace(c.Date) == "" ||
		c.TotalSeats == nil || *c.TotalSeats == 0 || c.Price == nil {
		return []string{"Missing required fields"}
	}
	if _, ok := parseDate(c.Date); !ok {
		return []string{"Invalid date format"}
	}
	return nil
}

// UpdateEventRequest is the request body for PUT /events/{id}. All fields optional; omitted fields are unchanged.
type UpdateEventRequest struct {
	Title       *string          `json:"title"`
	Description *string          `json:"description"`
	Location    *string          `json:"location"`
	Date        *string          `json:"date" example:"2025-06-01T19:00:00Z"`
	TotalSeats  *int             `json:"total_seats"`
	Price       *decimal.Decimal `json:"price" swaggertype:"number"`
	Img         *string          `json:"img"`
}

// Validate implements Validator.
func (u UpdateEventRequest) Validate() []string {
	if u.Date != nil {
		if _, ok := parseDate(*u.Date); !ok {
			return []string{"Invalid date format"}
		}
	}
	return nil
}

func (u UpdateEventRequest) toDomain() domain.EventUpdate {
	upd := domain.EventUpdate{
		Title:       u.Title,
		Description: u.Description,
		Location:    u.Location,
		TotalSeats:  u.TotalSeats,
		Price:       u.Price,
		Img:         u.Img,
	}
	if u.Date != nil {
		d, _ := parseDate(*u.Date)
		upd.Date = &d
	}
	return upd
}

// UpdateEventResponse is the response body for PUT /events/{id}.
type UpdateEventResponse struct {
	Message string        `json:"message"`
	Event   *domain.Event `json:"event"`
}

type EventController struct {
	Logger  *slog.Logger
	Service domain.EventService
}

func NewEventController(logger *slog.Logger, svc domain.EventService) *EventController {
	return &EventController{
		Logger:  logger,
		Service: svc,
	}
}

// ListEvents godoc
// @Summary List events
// @Description All events ordered by date ascending. upcoming=true keeps only events dated now or later.
// @Tags events
// @Produce json
// @Param upcoming query string false "true to list upcoming events only"
// @Success 200 {array} domain.Event
// @Failure 500 {object} helpers.ErrorResponse
// @Router /events [get]
func (c *EventController) ListEvents(w http.ResponseWriter, r *http.Request) {
	upcoming := r.URL.Query().Get("upcoming") == "true"
	events, err := c.Service.ListEvents(r.Context(), upcoming)
	if err != nil {
		writeError(w, r, c.Logger, err, failure{internal: "Failed to fetch events"})
		return
	}
	helpers.WriteJSON(w, http.StatusOK, events)
}

// GetEvent godoc
// @Summary Get an event by ID
// @Tags events
// @Produce json
// @Param id path string true "Event ID (UUID)"
// @Success 200 {object} domain.Event
// @Failure 404 {object} helpers.ErrorResponse "Event not found"
// @Failure 500 {object} helpers.ErrorResponse
// @Router /events/{id} [get]
func (c *EventController) GetEvent(w http.ResponseWriter, r *http.Request) {
	event, err := c.Service.GetEvent(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, r, c.Logger, err, failure{notFound: "Event not found", internal: "Failed to fetch event"})
		return
	}
	helpers.WriteJSON(w, http.StatusOK, event)
}

// ListMyEvents godoc
// @Summary List the caller's events
// @Tags events
// @Produce json
// @Security BearerAuth
// @Success 200 {array} domain.Event
// @Failure 401 {object} helpers.ErrorResponse
// @Failure 500 {object} helpers.ErrorResponse
// @Router /events/user/my-events [get]
func (c *EventController) ListMyEvents(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, "Authentication required")
		return
	}
	events, err := c.Service.ListMyEvents(r.Context(), userID)
	if err != nil {
		writeError(w, r, c.Logger, err, failure{internal: "Failed to fetch events"})
		return
	}
	helpers.WriteJSON(w, http.StatusOK, events)
}

// CreateEvent godoc
// @Summary Create an event
// @Description The authenticated user becomes the owner. available_seats starts at total_seats.
// @Tags events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param event body CreateEventRequest true "Event data"
// @Success 201 {object} domain.Event
// @Failure 400 {object} helpers.ErrorResponse "Missing required fields"
// @Failure 401 {object} helpers.ErrorResponse
// @Failure 500 {object} helpers.ErrorResponse
// @Router /events [post]
func (c *EventController) CreateEvent(w http.ResponseWriter, r *http.Request) {
	var req CreateEventRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, "Authentication required")
		return
	}
	date, _ := parseDate(req.Date)
	event := domain.NewEvent(req.Title, req.Description, req.Location, date, *req.TotalSeats, *req.Price, req.Img, userID, time.Now())
	if err := c.Service.CreateEvent(r.Context(), event); err != nil {
		writeError(w, r, c.Logger, err, failure{internal: "Failed to create event"})
		return
	}
	helpers.WriteJSON(w, http.StatusCreated, event)
}

// UpdateEvent godoc
// @Summary Update an event
// @Description Owner only. Omitted fields keep their value. Changing total_seats keeps booked seats booked; a total below the booked count is rejected.
// @Tags events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Event ID (UUID)"
// @Param event body UpdateEventRequest true "Fields to change"
// @Success 200 {object} controllers.UpdateEventResponse
// @Failure 400 {object} helpers.ErrorResponse
// @Failure 401 {object} helpers.ErrorResponse
// @Failure 404 {object} helpers.ErrorResponse "Event not found or unauthorized"
// @Failure 500 {object} helpers.ErrorResponse
// @Router /events/{id} [put]
func (c *EventController) UpdateEvent(w http.ResponseWriter, r *http.Request) {
	var req UpdateEventRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, "Authentication required")
		return
	}
	event, err := c.Service.UpdateEvent(r.Context(), r.PathValue("id"), userID, req.toDomain())
	if err != nil {
		writeError(w, r, c.Logger, err, failure{notFound: "Event not found or unauthorized", internal: "Failed to update event"})
		return
	}
	helpers.WriteJSON(w, http.StatusOK, UpdateEventResponse{Message: "Event updated successfully", Event: event})
}

// DeleteEvent godoc
// @Summary Delete an event
// @Description Owner only. Existing bookings are kept.
// @Tags events
// @Produce json
// @Security BearerAuth
// @Param id path string true "Event ID (UUID)"
// @Success 200 {object} helpers.MessageResponse
// @Failure 401 {object} helpers.ErrorResponse
// @Failure 404 {object} helpers.ErrorResponse "Event not found or unauthorized"
// @Failure 500 {object} helpers.ErrorResponse
// @Router /events/{id} [delete]
func (c *EventController) DeleteEvent(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, "Authentication required")
		return
	}
	if err := c.Service.DeleteEvent(r.Context(), r.PathValue("id"), userID); err != nil {
		writeError(w, r, c.Logger, err, failure{notFound: "Event not found or unauthorized", internal: "Failed to delete event"})
		return
	}
	helpers.WriteMessage(w, http.StatusOK, "Event deleted successfully")
}
