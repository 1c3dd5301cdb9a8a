package handlers

import (
	"net/http"

	"github.com/stayspot/stayspot/internal/domain"
)

// UploadPictures accepts a multipart form with one or more files under the
// "pictures" field, stores them, and attaches them to the room.
func (h *Handlers) UploadPictures(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r)

	roomID, err := urlParamInt64(r, "id")
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid room id", "invalid_id")
		return
	}

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid multipart form", "invalid_body")
		return
	}
	files := r.MultipartForm.File["pictures"]
	if len(files) == 0 {
		h.writeError(w, http.StatusBadRequest, "at least one picture is required", "invalid_body")
		return
	}

	urls, err := h.uploads.SaveAll(files)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	pictures, err := h.pictures.Upload(r.Context(), &domain.PictureUpload{
		RoomID:  roomID,
		URLs:    urls,
		OwnerID: claims.Sub,
	})
	if err != nil {
		// the files are orphaned otherwise
		for _, url := range urls {
			h.uploads.Remove(url)
		}
		h.writeServiceError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, pictures)
}

func (h *Handlers) SwapPictureOrder(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r)

	var req domain.PictureSwapRequest
	if !h.decode(w, r, &req) {
		return
	}
	req.OwnerID = claims.Sub

	picture, err := h.pictures.SwapOrder(r.Context(), &req)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, picture)
}

func (h *Handlers) DeletePicture(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r)

	pictureID, err := urlParamInt64(r, "id")
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid picture id", "invalid_id")
		return
	}

	if err := h.pictures.Delete(r.Context(), pictureID, claims.Sub); err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) ListPictures(w http.ResponseWriter, r *http.Request) {
	roomID, err := urlParamInt64(r, "id")
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid room id", "invalid_id")
		return
	}

	pictures, err := h.pictures.ListByRoom(r.Context(), roomID)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	if pictures == nil {
		pictures = []domain.RoomPicture{}
	}
	h.writeJSON(w, http.StatusOK, pictures)
}

func (h *Handlers) CoverPicture(w http.ResponseWriter, r *http.Request) {
	roomID, err := urlParamInt64(r, "id")
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid room id", "invalid_id")
		return
	}

	url, err := h.pictures.CoverURL(r.Context(), roomID)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]string{"url": url})
}
