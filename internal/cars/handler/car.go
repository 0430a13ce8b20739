package handler

import (
	"encoding/json"
	"net/http"

	"rentwheels/internal/cars/service"
	authmw "rentwheels/internal/identity/middleware"
	httputil "rentwheels/pkg/http"
	"rentwheels/pkg/logger"
	"rentwheels/pkg/model"

	"github.com/julienschmidt/httprouter"
)

const maxImageMemory = 8 << 20

type CarHandler struct {
	service service.CarService
	auth    *authmw.Authenticator
	log     *logger.Logger
}

func NewCarHandler(service service.CarService, auth *authmw.Authenticator, log *logger.Logger) *CarHandler {
	return &CarHandler{
		service: service,
		auth:    auth,
		log:     log,
	}
}

// GetCar serves both catalog routes: httprouter cannot mix the static
// "all" segment with the :id wildcard, so /api/cars/all dispatches here
// too and is told apart by the path parameter.
func (h *CarHandler) GetCar(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := ps.ByName("id")
	if id == "all" {
		h.listAvailable(w, r)
		return
	}

	car, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		httputil.WriteFailure(w, err)
		return
	}

	httputil.WriteSuccess(w, httputil.Envelope{"car": car})
}

func (h *CarHandler) listAvailable(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	cars, err := h.service.ListAvailable(
		r.Context(),
		query.Get("location"),
		query.Get("pickupDate"),
		query.Get("returnDate"),
	)
	if err != nil {
		httputil.WriteFailure(w, err)
		return
	}

	httputil.WriteSuccess(w, httputil.Envelope{"cars": cars})
}

func (h *CarHandler) AddCar(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	owner, ok := authmw.UserFrom(r.Context())
	if !ok {
		httputil.WriteJSON(w, http.StatusOK, httputil.Envelope{
			"success": false,
			"message": "not authorized",
		})
		return
	}

	if err := r.ParseMultipartForm(maxImageMemory); err != nil {
		httputil.WriteJSON(w, http.StatusOK, httputil.Envelope{
			"success": false,
			"message": "Invalid multipart form data",
		})
		return
	}

	var car model.Car
	if err := json.Unmarshal([]byte(r.FormValue("carData")), &car); err != nil {
		httputil.WriteJSON(w, http.StatusOK, httputil.Envelope{
			"success": false,
			"message": "Invalid car data",
		})
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		httputil.WriteJSON(w, http.StatusOK, httputil.Envelope{
			"success": false,
			"message": "Car image is required",
		})
		return
	}
	defer file.Close()

	upload := &service.ImageUpload{
		Reader:      file,
		Size:        header.Size,
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
	}

	if err := h.service.AddCar(r.Context(), owner.ID, &car, upload); err != nil {
		httputil.WriteFailure(w, err)
		return
	}

	httputil.WriteMessage(w, "Car listed successfully")
}

func (h *CarHandler) OwnerCars(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	owner, ok := authmw.UserFrom(r.Context())
	if !ok {
		httputil.WriteJSON(w, http.StatusOK, httputil.Envelope{
			"success": false,
			"message": "not authorized",
		})
		return
	}

	cars, err := h.service.OwnerCars(r.Context(), owner.ID)
	if err != nil {
		httputil.WriteFailure(w, err)
		return
	}

	httputil.WriteSuccess(w, httputil.Envelope{"cars": cars})
}

func (h *CarHandler) ToggleCar(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	owner, ok := authmw.UserFrom(r.Context())
	if !ok {
		httputil.WriteJSON(w, http.StatusOK, httputil.Envelope{
			"success": false,
			"message": "not authorized",
		})
		return
	}

	var req model.CarIDRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteJSON(w, http.StatusOK, httputil.Envelope{
			"success": false,
			"message": "Invalid request body",
		})
		return
	}

	car, err := h.service.ToggleAvailability(r.Context(), owner.ID, req.CarID)
	if err != nil {
		httputil.WriteFailure(w, err)
		return
	}

	httputil.WriteSuccess(w, httputil.Envelope{"car": car})
}

func (h *CarHandler) DeleteCar(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	owner, ok := authmw.UserFrom(r.Context())
	if !ok {
		httputil.WriteJSON(w, http.StatusOK, httputil.Envelope{
			"success": false,
			"message": "not authorized",
		})
		return
	}

	var req model.CarIDRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteJSON(w, http.StatusOK, httputil.Envelope{
			"success": false,
			"message": "Invalid request body",
		})
		return
	}

	if err := h.service.DeleteCar(r.Context(), owner.ID, req.CarID); err != nil {
		httputil.WriteFailure(w, err)
		return
	}

	httputil.WriteMessage(w, "Car deleted successfully")
}

func (h *CarHandler) Dashboard(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	owner, ok := authmw.UserFrom(r.Context())
	if !ok {
		httputil.WriteJSON(w, http.StatusOK, httputil.Envelope{
			"success": false,
			"message": "not authorized",
		})
		return
	}

	data, err := h.service.Dashboard(r.Context(), owner.ID)
	if err != nil {
		httputil.WriteFailure(w, err)
		return
	}

	httputil.WriteSuccess(w, httputil.Envelope{"data": data})
}

func (h *CarHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/api/cars/:id", h.GetCar)

	router.POST("/api/owner/add-car", h.auth.RequireOwner(h.AddCar))
	router.GET("/api/owner/cars", h.auth.RequireOwner(h.OwnerCars))
	router.POST("/api/owner/toggle-car", h.auth.RequireOwner(h.ToggleCar))
	router.POST("/api/owner/delete-car", h.auth.RequireOwner(h.DeleteCar))
	router.GET("/api/owner/dashboard-data", h.auth.RequireOwner(h.Dashboard))
}
