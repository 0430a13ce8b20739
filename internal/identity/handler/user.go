package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	authmw "rentwheels/internal/identity/middleware"
	"rentwheels/internal/identity/service"
	"rentwheels/pkg/config"
	httputil "rentwheels/pkg/http"
	"rentwheels/pkg/logger"
	"rentwheels/pkg/model"

	"github.com/julienschmidt/httprouter"
)

type UserHandler struct {
	service service.IdentityService
	auth    *authmw.Authenticator
	cfg     *config.Config
	log     *logger.Logger
}

func NewUserHandler(service service.IdentityService, auth *authmw.Authenticator, cfg *config.Config, log *logger.Logger) *UserHandler {
	return &UserHandler{
		service: service,
		auth:    auth,
		cfg:     cfg,
		log:     log,
	}
}

func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req model.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteJSON(w, http.StatusOK, httputil.Envelope{
			"success": false,
			"message": "Invalid request body",
		})
		return
	}

	result, err := h.service.Register(r.Context(), &req)
	if err != nil {
		httputil.WriteFailure(w, err)
		return
	}

	if result.Token != "" {
		httputil.WriteSuccess(w, httputil.Envelope{"token": result.Token})
		return
	}

	payload := httputil.Envelope{"message": result.Message}
	if result.RequiresEmailVerification {
		payload["requiresEmailVerification"] = true
	}
	if result.PendingApproval {
		payload["pendingApproval"] = true
	}
	httputil.WriteSuccess(w, payload)
}

func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req model.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteJSON(w, http.StatusOK, httputil.Envelope{
			"success": false,
			"message": "Invalid request body",
		})
		return
	}

	token, err := h.service.Login(r.Context(), &req)
	if err != nil {
		httputil.WriteFailure(w, err)
		return
	}

	httputil.WriteSuccess(w, httputil.Envelope{"token": token})
}

func (h *UserHandler) Data(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	user, ok := authmw.UserFrom(r.Context())
	if !ok {
		httputil.WriteJSON(w, http.StatusOK, httputil.Envelope{
			"success": false,
			"message": "not authorized",
		})
		return
	}

	httputil.WriteSuccess(w, httputil.Envelope{"user": user})
}

func (h *UserHandler) VerifyEmail(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	result, err := h.service.VerifyEmail(r.Context(), ps.ByName("token"))
	if err != nil {
		httputil.WriteHTML(w, http.StatusOK, errorPage(
			"Invalid or Expired Link",
			"This verification link is invalid or has expired. Verification links are valid for 24 hours. Please register again to receive a new verification link.",
		))
		return
	}

	redirectURL := fmt.Sprintf("%s?token=%s&verified=true&name=%s",
		h.cfg.FrontendURL,
		url.QueryEscape(result.Token),
		url.QueryEscape(result.User.Name),
	)
	httputil.WriteHTML(w, http.StatusOK, verifiedPage(result.User, redirectURL))
}

func (h *UserHandler) Approve(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	user, err := h.service.Approve(r.Context(), ps.ByName("token"))
	if err != nil {
		httputil.WriteHTML(w, http.StatusOK, errorPage(
			"Invalid Token",
			"This approval link is invalid or has expired.",
		))
		return
	}

	httputil.WriteHTML(w, http.StatusOK, decisionPage(
		"success",
		"User Approved Successfully!",
		"The user has been notified via email and can now login to the platform.",
		user,
	))
}

func (h *UserHandler) Reject(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	user, err := h.service.Reject(r.Context(), ps.ByName("token"))
	if err != nil {
		httputil.WriteHTML(w, http.StatusOK, errorPage(
			"Invalid Token",
			"This rejection link is invalid or has expired.",
		))
		return
	}

	httputil.WriteHTML(w, http.StatusOK, decisionPage(
		"warning",
		"Registration Rejected",
		"The registration has been rejected and the user has been notified via email.",
		user,
	))
}

func (h *UserHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/user/register", h.Register)
	router.POST("/api/user/login", h.Login)
	router.GET("/api/user/data", h.auth.Authenticated(h.Data))
	router.GET("/api/user/verify-email/:token", h.VerifyEmail)
	router.GET("/api/user/approve/:token", h.Approve)
	router.GET("/api/user/reject/:token", h.Reject)
}
