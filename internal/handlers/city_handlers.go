package handlers

import (
	"net/http"

	"github.com/stayspot/stayspot/internal/domain"
)

func (h *Handlers) SearchCities(w http.ResponseWriter, r *http.Request) {
	cities, err := h.cities.Search(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	if cities == nil {
		cities = []domain.City{}
	}
	h.writeJSON(w, http.StatusOK, cities)
}

func (h *Handlers) ListCitiesByProvince(w http.ResponseWriter, r *http.Request) {
	provinceID, err := urlParamInt64(r, "id")
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid province id", "invalid_id")
		return
	}

	cities, err := h.cities.ListByProvince(r.Context(), provinceID)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	if cities == nil {
		cities = []domain.City{}
	}
	h.writeJSON(w, http.StatusOK, cities)
}

func (h *Handlers) ListProvinces(w http.ResponseWriter, r *http.Request) {
	provinces, err := h.cities.ListProvinces(r.Context())
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	if provinces == nil {
		provinces = []domain.Province{}
	}
	h.writeJSON(w, http.StatusOK, provinces)
}
