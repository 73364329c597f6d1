package recipients

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/kilianp07/supplymate/core/allocation"
	"github.com/kilianp07/supplymate/core/model"
)

// Roster is the set of recipients competing in allocation runs.
type Roster interface {
	Recipients() []*model.Recipient
	AddRecipient(r *model.Recipient) error
	RemoveRecipient(id string) error
	SetRecipientActive(id string, active bool) error
}

// NewRosterHandler serves /api/recipients. GET lists the roster, POST adds
// a recipient from its JSON form, PATCH ?id=&active= toggles a recipient and
// DELETE ?id= removes it.
func NewRosterHandler(roster Roster) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			writeJSON(w, http.StatusOK, roster.Recipients())
		case http.MethodPost:
			var rec model.Recipient
			if err := json.NewDecoder(r.Body).Decode(&rec); err != nil {
				http.Error(w, "invalid recipient", http.StatusBadRequest)
				return
			}
			if err := roster.AddRecipient(&rec); err != nil {
				http.Error(w, err.Error(), statusFor(err))
				return
			}
			writeJSON(w, http.StatusCreated, &rec)
		case http.MethodPatch:
			active, err := strconv.ParseBool(r.URL.Query().Get("active"))
			if err != nil {
				http.Error(w, "invalid active flag", http.StatusBadRequest)
				return
			}
			if err := roster.SetRecipientActive(r.URL.Query().Get("id"), active); err != nil {
				http.Error(w, err.Error(), statusFor(err))
				return
			}
			w.WriteHeader(http.StatusNoContent)
		case http.MethodDelete:
			if err := roster.RemoveRecipient(r.URL.Query().Get("id")); err != nil {
				http.Error(w, err.Error(), statusFor(err))
				return
			}
			w.WriteHeader(http.StatusNoContent)
		default:
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		}
	})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, allocation.ErrUnknownRecipient):
		return http.StatusNotFound
	case errors.Is(err, allocation.ErrDuplicateRecipient):
		return http.StatusConflict
	case errors.Is(err, model.ErrInvalidRecipient):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
