package controllers

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"eventbooking/internal/delivery/http/helpers"
	"eventbooking/internal/delivery/http/middleware"
	"eventbooking/internal/domain"
)

// CreateBookingRequest is the request body for POST /bookings.
type CreateBookingRequest struct {
	EventID  string `json:"event_id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Mobile   string `json:"mobile"`
	Quantity int    `json:"quantity"`
}

type BookingController struct {
	Logger  *slog.Logger
	Service domain.BookingService
}

func NewBookingController(logger *slog.Logger, svc domain.BookingService) *BookingController {
	return &BookingController{
		Logger:  logger,
		Service: svc,
	}
}

// CreateBooking godoc
// @Summary Book seats
// @Description Reserves quantity seats if enough remain and records the booking. A valid Bearer token links the booking to the caller; anonymous bookings are allowed.
// @Tags bookings
// @Accept json
// @Produce json
// @Param booking body CreateBookingRequest true "Booking data"
// @Success 201 {object} domain.Booking
// @Failure 400 {object} helpers.ErrorResponse "Missing required fields or Not enough seats available"
// @Failure 404 {object} helpers.ErrorResponse "Event not found"
// @Failure 429 {object} helpers.ErrorResponse
// @Failure 500 {object} helpers.ErrorResponse
// @Router /bookings [post]
func (c *BookingController) CreateBooking(w http.ResponseWriter, r *http.Request) {
	var req CreateBookingRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	var caller *domain.Identity
	if id, ok := middleware.IdentityFromContext(r.Context()); ok {
		caller = &id
	}
	booking, err := c.Service.CreateBooking(r.Context(), domain.BookingRequest{
		EventID:  req.EventID,
		Name:     req.Name,
		Email:    req.Email,
		Mobile:   req.Mobile,
		Quantity: req.Quantity,
	}, caller)
	if err != nil {
		writeError(w, r, c.Logger, err, failure{notFound: "Event not found", internal: "Failed to create booking"})
		return
	}
	helpers.WriteJSON(w, http.StatusCreated, booking)
}

// ListEventBookings godoc
// @Summary List bookings for an event
// @Description Owner only, newest first.
// @Tags bookings
// @Produce json
// @Security BearerAuth
// @Param eventId path string true "Event ID (UUID)"
// @Success 200 {array} domain.Booking
// @Failure 401 {object} helpers.ErrorResponse
// @Failure 404 {object} helpers.ErrorResponse "Event not found or unauthorized"
// @Failure 500 {object} helpers.ErrorResponse
// @Router /bookings/event/{eventId} [get]
func (c *BookingController) ListEventBookings(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, "Authentication required")
		return
	}
	bookings, err := c.Service.ListEventBookings(r.Context(), r.PathValue("eventId"), userID)
	if err != nil {
		writeError(w, r, c.Logger, err, failure{notFound: "Event not found or unauthorized", internal: "Failed to fetch bookings"})
		return
	}
	helpers.WriteJSON(w, http.StatusOK, bookings)
}

// Ticket godoc
// @Summary Download a booking ticket
// @Description One-page PDF with a QR code of the booking id.
// @Tags bookings
// @Produce application/pdf
// @Param id path string true "Booking ID (UUID)"
// @Success 200 {file} file
// @Failure 404 {object} helpers.ErrorResponse "Booking not found"
// @Failure 500 {object} helpers.ErrorResponse
// @Router /bookings/{id}/ticket [get]
func (c *BookingController) Ticket(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	pdf, err := c.Service.Ticket(r.Context(), id)
	if err != nil {
		writeError(w, r, c.Logger, err, failure{notFound: "Booking not found", internal: "Failed to render ticket"})
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("inline; filename=%q", "ticket-"+id+".pdf"))
	w.Header().Set("Content-Length", strconv.Itoa(len(pdf)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(pdf)
}
