package allocation

import (
	"context"
	"net/http"

	coreallocation "github.com/kilianp07/supplymate/core/allocation"
	"github.com/kilianp07/supplymate/core/allocation/logging"
)

// Runner triggers allocation runs. The core allocation Manager implements it.
type Runner interface {
	Run(ctx context.Context) (coreallocation.Result, error)
	Rebalance(ctx context.Context) (coreallocation.Result, error)
	Simulate(ctx context.Context) (coreallocation.Result, error)
}

// NewRunHandler returns an HTTP handler triggering a run via POST /api/allocation/run.
// The optional kind query parameter selects allocate (default), rebalance or simulate.
func NewRunHandler(runner Runner, token string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		if !authorized(r, token) {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		var run func(context.Context) (coreallocation.Result, error)
		switch r.URL.Query().Get("kind") {
		case "", logging.KindAllocate:
			run = runner.Run
		case logging.KindRebalance:
			run = runner.Rebalance
		case coreallocation.KindSimulate:
			run = runner.Simulate
		default:
			http.Error(w, "unknown run kind", http.StatusBadRequest)
			return
		}
		res, err := run(r.Context())
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, res)
	})
}
