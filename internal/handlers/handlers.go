package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/stayspot/stayspot/internal/domain"
	"github.com/stayspot/stayspot/internal/repository"
	"github.com/stayspot/stayspot/internal/service"
	"github.com/stayspot/stayspot/internal/storage"
	"github.com/stayspot/stayspot/pkg/auth"
	"github.com/stayspot/stayspot/pkg/logger"
)

type contextKey string

const claimsKey contextKey = "claims"

type Handlers struct {
	users     service.UserService
	rooms     service.RoomService
	pictures  service.PictureService
	cities    service.CityService
	uploads   *storage.Local
	throttle  repository.ThrottleStore
	jwtSecret string
}

func New(
	users service.UserService,
	rooms service.RoomService,
	pictures service.PictureService,
	cities service.CityService,
	uploads *storage.Local,
	throttle repository.ThrottleStore,
	jwtSecret string,
) *Handlers {
	return &Handlers{
		users:     users,
		rooms:     rooms,
		pictures:  pictures,
		cities:    cities,
		uploads:   uploads,
		throttle:  throttle,
		jwtSecret: jwtSecret,
	}
}

func (h *Handlers) Routes(r chi.Router) {
	r.Route("/api", func(r chi.Router) {
		r.With(h.Throttle("register", 10, time.Minute)).Post("/users", h.Register)
		r.With(h.Throttle("login", 10, time.Minute)).Post("/users/login", h.Login)

		r.Get("/provinces", h.ListProvinces)
		r.Get("/provinces/{id}/cities", h.ListCitiesByProvince)
		r.Get("/cities", h.SearchCities)

		r.Get("/rooms", h.SearchRooms)
		r.Get("/rooms/{id}", h.RoomDetails)
		r.Get("/rooms/{id}/pictures", h.ListPictures)
		r.Get("/rooms/{id}/pictures/cover", h.CoverPicture)

		r.Group(func(r chi.Router) {
			r.Use(h.RequireAuth)

			r.Get("/users/me", h.Me)
			r.Post("/users/owner", h.BecomeOwner)

			r.Post("/rooms", h.CreateRoom)
			r.Put("/rooms/{id}", h.UpdateRoom)
			r.Patch("/rooms/{id}/availability", h.ToggleRoomAvailability)
			r.Delete("/rooms/{id}", h.DeleteRoom)
			r.Get("/my/rooms", h.MyRooms)

			r.Post("/rooms/{id}/pictures", h.UploadPictures)
			r.Put("/pictures/order", h.SwapPictureOrder)
			r.Delete("/pictures/{id}", h.DeletePicture)

			r.Get("/favorites", h.ListFavorites)
			r.Get("/favorites/ids", h.ListFavoriteIDs)
			r.Put("/favorites/{roomID}", h.AddFavorite)
			r.Delete("/favorites/{roomID}", h.RemoveFavorite)
		})
	})
}

// RequireAuth validates the bearer token and stores the claims on the
// request context.
func (h *Handlers) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			h.writeError(w, http.StatusUnauthorized, "missing or malformed authorization header", "unauthorized")
			return
		}

		claims, err := auth.Parse(token, h.jwtSecret)
		if err != nil {
			h.writeError(w, http.StatusUnauthorized, "invalid or expired token", "unauthorized")
			return
		}

		ctx := context.WithValue(r.Context(), claimsKey, claims)
		ctx = context.WithValue(ctx, logger.UserIDKey, claims.Sub)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// Throttle rate-limits an endpoint per client address. A throttle backend
// outage lets requests through.
func (h *Handlers) Throttle(name string, limit int, window time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := name + ":" + clientIP(r)
			allowed, err := h.throttle.Allow(r.Context(), key, limit, window)
			if err != nil {
				logger.WarnContext(r.Context(), "Throttle check failed", "error", err)
			}
			if !allowed {
				h.writeError(w, http.StatusTooManyRequests, "too many requests, slow down", "rate_limited")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		if ip, _, ok := strings.Cut(fwd, ","); ok {
			return strings.TrimSpace(ip)
		}
		return strings.TrimSpace(fwd)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func claimsFrom(r *http.Request) *auth.Claims {
	claims, _ := r.Context().Value(claimsKey).(*auth.Claims)
	return claims
}

func urlParamInt64(r *http.Request, name string) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, name), 10, 64)
}

func (h *Handlers) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		if err := json.NewEncoder(w).Encode(v); err != nil {
			logger.Error("Failed to encode response", "error", err)
		}
	}
}

func (h *Handlers) writeError(w http.ResponseWriter, status int, message, code string) {
	h.writeJSON(w, status, map[string]string{
		"error": message,
		"code":  code,
	})
}

// writeServiceError maps domain errors onto HTTP statuses; anything
// unrecognized is a 500 with the detail kept out of the response.
func (h *Handlers) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var validationErrs domain.ValidationErrors
	if errors.As(err, &validationErrs) {
		h.writeJSON(w, http.StatusBadRequest, map[string]interface{}{
			"error":  "invalid input",
			"code":   "validation_error",
			"fields": validationErrs,
		})
		return
	}

	var blocked *domain.BlockedError
	if errors.As(err, &blocked) {
		h.writeError(w, http.StatusTooManyRequests, blocked.Error(), "account_blocked")
		return
	}

	switch {
	case errors.Is(err, domain.ErrEmailTaken):
		h.writeError(w, http.StatusConflict, err.Error(), "email_taken")
	case errors.Is(err, domain.ErrUserNotFound),
		errors.Is(err, domain.ErrRoomNotFound),
		errors.Is(err, domain.ErrPictureNotFound):
		h.writeError(w, http.StatusNotFound, err.Error(), "not_found")
	case errors.Is(err, domain.ErrNotAnOwner),
		errors.Is(err, domain.ErrWrongOwner):
		h.writeError(w, http.StatusForbidden, err.Error(), "forbidden")
	case errors.Is(err, domain.ErrInvalidSwapInput):
		h.writeError(w, http.StatusBadRequest, err.Error(), "invalid_input")
	case errors.Is(err, storage.ErrTooManyFiles),
		errors.Is(err, storage.ErrFileTooLarge),
		errors.Is(err, storage.ErrUnsupportedFormat):
		h.writeError(w, http.StatusBadRequest, err.Error(), "invalid_upload")
	default:
		logger.ErrorContext(r.Context(), "Request failed", "error", err)
		h.writeError(w, http.StatusInternalServerError, "internal server error", "internal_error")
	}
}

func (h *Handlers) decode(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body", "invalid_body")
		return false
	}
	return true
}
