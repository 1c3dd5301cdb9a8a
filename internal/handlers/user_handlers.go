package handlers

import (
	"net/http"

	"github.com/stayspot/stayspot/internal/domain"
)

func (h *Handlers) Register(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateUserRequest
	if !h.decode(w, r, &req) {
		return
	}

	user, err := h.users.Register(r.Context(), &req)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, user)
}

func (h *Handlers) Login(w http.ResponseWriter, r *http.Request) {
	var req domain.LoginRequest
	if !h.decode(w, r, &req) {
		return
	}

	token, user, err := h.users.Login(r.Context(), &req)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	if user == nil {
		h.writeError(w, http.StatusUnauthorized, "invalid email or password", "invalid_credentials")
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"token": token,
		"user":  user,
	})
}

func (h *Handlers) Me(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r)

	user, err := h.users.GetByID(r.Context(), claims.Sub)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, user)
}

func (h *Handlers) BecomeOwner(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r)

	var req domain.PropertyOwnerRequest
	if !h.decode(w, r, &req) {
		return
	}

	user, err := h.users.BecomeOwner(r.Context(), claims.Sub, &req)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, user)
}
