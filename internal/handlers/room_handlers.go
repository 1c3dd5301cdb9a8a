package handlers

import (
	"net/http"
	"strconv"

	"github.com/stayspot/stayspot/internal/domain"
)

func (h *Handlers) CreateRoom(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r)

	var in domain.RoomInput
	if !h.decode(w, r, &in) {
		return
	}
	in.OwnerID = claims.Sub

	room, err := h.rooms.Create(r.Context(), &in)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, room)
}

func (h *Handlers) UpdateRoom(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r)

	roomID, err := urlParamInt64(r, "id")
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid room id", "invalid_id")
		return
	}

	var in domain.RoomInput
	if !h.decode(w, r, &in) {
		return
	}
	in.OwnerID = claims.Sub

	room, err := h.rooms.Update(r.Context(), roomID, &in)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, room)
}

func (h *Handlers) ToggleRoomAvailability(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r)

	roomID, err := urlParamInt64(r, "id")
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid room id", "invalid_id")
		return
	}

	room, err := h.rooms.ToggleAvailability(r.Context(), roomID, claims.Sub)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	if room == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	h.writeJSON(w, http.StatusOK, room)
}

func (h *Handlers) DeleteRoom(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r)

	roomID, err := urlParamInt64(r, "id")
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid room id", "invalid_id")
		return
	}

	if err := h.rooms.Delete(r.Context(), roomID, claims.Sub); err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) SearchRooms(w http.ResponseWriter, r *http.Request) {
	search, err := parseRoomSearch(r)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, err.Error(), "invalid_query")
		return
	}

	rooms, err := h.rooms.Search(r.Context(), search)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	if rooms == nil {
		rooms = []domain.RoomResult{}
	}
	h.writeJSON(w, http.StatusOK, rooms)
}

func (h *Handlers) RoomDetails(w http.ResponseWriter, r *http.Request) {
	roomID, err := urlParamInt64(r, "id")
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid room id", "invalid_id")
		return
	}

	room, err := h.rooms.Details(r.Context(), roomID)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, room)
}

func (h *Handlers) MyRooms(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r)

	rooms, err := h.rooms.ListByOwner(r.Context(), claims.Sub)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	if rooms == nil {
		rooms = []domain.RoomResult{}
	}
	h.writeJSON(w, http.StatusOK, rooms)
}

func (h *Handlers) AddFavorite(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r)

	roomID, err := urlParamInt64(r, "roomID")
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid room id", "invalid_id")
		return
	}

	if err := h.rooms.AddFavorite(r.Context(), claims.Sub, roomID); err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) RemoveFavorite(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r)

	roomID, err := urlParamInt64(r, "roomID")
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid room id", "invalid_id")
		return
	}

	if err := h.rooms.RemoveFavorite(r.Context(), claims.Sub, roomID); err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) ListFavoriteIDs(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r)

	ids, err := h.rooms.FavoriteIDs(r.Context(), claims.Sub)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	if ids == nil {
		ids = []int64{}
	}
	h.writeJSON(w, http.StatusOK, ids)
}

func (h *Handlers) ListFavorites(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r)

	rooms, err := h.rooms.Favorites(r.Context(), claims.Sub)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	if rooms == nil {
		rooms = []domain.RoomResult{}
	}
	h.writeJSON(w, http.StatusOK, rooms)
}

// parseRoomSearch reads the search filters from the query string. Absent
// parameters place no constraint.
func parseRoomSearch(r *http.Request) (*domain.RoomSearch, error) {
	q := r.URL.Query()
	search := &domain.RoomSearch{
		RoomType:     domain.RoomType(q.Get("roomType")),
		BathroomType: domain.BathroomType(q.Get("bathroomType")),
		Gender:       domain.Gender(q.Get("gender")),
		Description:  q.Get("description"),
		SortBy:       q.Get("sortBy"),
		SortDir:      q.Get("sortDir"),
	}

	var err error
	if search.CityID, err = queryInt64(q.Get("cityId")); err != nil {
		return nil, err
	}
	if search.RentPriceMin, err = queryFloat(q.Get("rentPriceMin")); err != nil {
		return nil, err
	}
	if search.RentPriceMax, err = queryFloat(q.Get("rentPriceMax")); err != nil {
		return nil, err
	}
	if search.SizeMin, err = queryInt(q.Get("sizeMin")); err != nil {
		return nil, err
	}
	if search.SizeMax, err = queryInt(q.Get("sizeMax")); err != nil {
		return nil, err
	}
	if search.NumberOfRoomsMin, err = queryInt(q.Get("numberOfRoomsMin")); err != nil {
		return nil, err
	}
	if search.NumberOfRoomsMax, err = queryInt(q.Get("numberOfRoomsMax")); err != nil {
		return nil, err
	}
	return search, nil
}

func queryInt64(v string) (*int64, error) {
	if v == "" {
		return nil, nil
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return nil, err
	}
	return &n, nil
}

func queryInt(v string) (*int, error) {
	if v == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return nil, err
	}
	return &n, nil
}

func queryFloat(v string) (*float64, error) {
	if v == "" {
		return nil, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return nil, err
	}
	return &f, nil
}
