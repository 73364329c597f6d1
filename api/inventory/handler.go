package inventory

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/kilianp07/supplymate/core/allocation"
	"github.com/kilianp07/supplymate/core/model"
)

// SnapshotSource exposes the current inventory.
type SnapshotSource interface {
	InventorySnapshot() model.Snapshot
}

// Mutator changes stock between runs. Sources implementing it accept POST
// and DELETE requests.
type Mutator interface {
	AddSupply(s *model.Supply) error
	RemoveSupply(name string, qty int) error
}

// NewHandler returns an HTTP handler exposing the inventory via GET /api/inventory.
// When src is also a Mutator, POST adds the JSON supply in the body and
// DELETE ?name=&qty= removes stock.
func NewHandler(src SnapshotSource) http.Handler {
	mut, _ := src.(Mutator)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodGet:
		case r.Method == http.MethodPost && mut != nil:
			var s model.Supply
			if err := json.NewDecoder(r.Body).Decode(&s); err != nil {
				http.Error(w, "invalid supply", http.StatusBadRequest)
				return
			}
			if s.Category == model.CategoryOther {
				s.Category = model.CategoryFromName(s.Name)
			}
			if err := mut.AddSupply(&s); err != nil {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
		case r.Method == http.MethodDelete && mut != nil:
			qty, err := strconv.Atoi(r.URL.Query().Get("qty"))
			if err != nil || qty <= 0 {
				http.Error(w, "invalid quantity", http.StatusBadRequest)
				return
			}
			if err := mut.RemoveSupply(r.URL.Query().Get("name"), qty); err != nil {
				code := http.StatusConflict
				if errors.Is(err, model.ErrUnknownSupply) {
					code = http.StatusNotFound
				} else if !errors.Is(err, allocation.ErrInsufficientStock) {
					code = http.StatusInternalServerError
				}
				http.Error(w, err.Error(), code)
				return
			}
		default:
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(src.InventorySnapshot()); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
	})
}
