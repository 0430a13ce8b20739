package handler

import (
	"encoding/json"
	"net/http"

	"rentwheels/internal/bookings/service"
	authmw "rentwheels/internal/identity/middleware"
	httputil "rentwheels/pkg/http"
	"rentwheels/pkg/logger"
	"rentwheels/pkg/model"

	"github.com/julienschmidt/httprouter"
)

type BookingHandler struct {
	service service.BookingService
	auth    *authmw.Authenticator
	log     *logger.Logger
}

func NewBookingHandler(service service.BookingService, auth *authmw.Authenticator, log *logger.Logger) *BookingHandler {
	return &BookingHandler{
		service: service,
		auth:    auth,
		log:     log,
	}
}

func (h *BookingHandler) CheckAvailability(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req model.CheckAvailabilityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteJSON(w, http.StatusOK, httputil.Envelope{
			"success": false,
			"message": "Invalid request body",
		})
		return
	}

	cars, err := h.service.CheckAvailability(r.Context(), &req)
	if err != nil {
		httputil.WriteFailure(w, err)
		return
	}

	httputil.WriteSuccess(w, httputil.Envelope{"availableCars": cars})
}

func (h *BookingHandler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	user, ok := authmw.UserFrom(r.Context())
	if !ok {
		httputil.WriteJSON(w, http.StatusOK, httputil.Envelope{
			"success": false,
			"message": "not authorized",
		})
		return
	}

	var req model.CreateBookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteJSON(w, http.StatusOK, httputil.Envelope{
			"success": false,
			"message": "Invalid request body",
		})
		return
	}

	if err := h.service.Create(r.Context(), user, &req); err != nil {
		httputil.WriteFailure(w, err)
		return
	}

	httputil.WriteMessage(w, "Booking created successfully")
}

func (h *BookingHandler) UserBookings(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	user, ok := authmw.UserFrom(r.Context())
	if !ok {
		httputil.WriteJSON(w, http.StatusOK, httputil.Envelope{
			"success": false,
			"message": "not authorized",
		})
		return
	}

	bookings, err := h.service.UserBookings(r.Context(), user.ID)
	if err != nil {
		httputil.WriteFailure(w, err)
		return
	}

	httputil.WriteSuccess(w, httputil.Envelope{"bookings": bookings})
}

func (h *BookingHandler) OwnerBookings(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	owner, ok := authmw.UserFrom(r.Context())
	if !ok {
		httputil.WriteJSON(w, http.StatusOK, httputil.Envelope{
			"success": false,
			"message": "not authorized",
		})
		return
	}

	bookings, err := h.service.OwnerBookings(r.Context(), owner.ID)
	if err != nil {
		httputil.WriteFailure(w, err)
		return
	}

	httputil.WriteSuccess(w, httputil.Envelope{"bookings": bookings})
}

func (h *BookingHandler) UpdateStatus(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	owner, ok := authmw.UserFrom(r.Context())
	if !ok {
		httputil.WriteJSON(w, http.StatusOK, httputil.Envelope{
			"success": false,
			"message": "not authorized",
		})
		return
	}

	var req model.UpdateBookingStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteJSON(w, http.StatusOK, httputil.Envelope{
			"success": false,
			"message": "Invalid request body",
		})
		return
	}

	if err := h.service.UpdateStatus(r.Context(), owner.ID, &req); err != nil {
		httputil.WriteFailure(w, err)
		return
	}

	httputil.WriteMessage(w, "Booking status updated successfully")
}

func (h *BookingHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/booking/check-availability", h.CheckAvailability)
	router.POST("/api/booking/create", h.auth.RequireRenter(h.Create))
	router.GET("/api/booking/user-bookings", h.auth.Authenticated(h.UserBookings))
	router.GET("/api/booking/owner-bookings", h.auth.RequireOwner(h.OwnerBookings))
	router.POST("/api/booking/update-status", h.auth.RequireOwner(h.UpdateStatus))
}
