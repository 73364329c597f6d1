package recipients

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/kilianp07/supplymate/core/status"
)

// NewStatusHandler returns an HTTP handler exposing recipient status data via GET /api/recipients/status.
func NewStatusHandler(store status.Store) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		f := status.Filter{Status: r.URL.Query().Get("status")}
		if s := r.URL.Query().Get("active"); s != "" {
			active, err := strconv.ParseBool(s)
			if err != nil {
				http.Error(w, "invalid active filter", http.StatusBadRequest)
				return
			}
			f.ActiveOnly = active
		}
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(store.List(f)); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
	})
}
