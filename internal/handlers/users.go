package handlers

import (
	"net/http"
)

func (h *Handler) DeleteMe(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	if err := h.users.Delete(r.Context(), userID, userID); err != nil {
		respondServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type profilePictureRequest struct {
	Filename *string `json:"filename"`
}

// SetProfilePicture takes a file name under /static/profile_pictures/;
// null resets to the default picture.
func (h *Handler) SetProfilePicture(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	var req profilePictureRequest
	if err := decodeJSON(r, &req); err != nil {
		respondServiceError(w, r, err)
		return
	}
	user, err := h.users.SetProfilePicture(r.Context(), userID, req.Filename)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, newUserResponse(user))
}
