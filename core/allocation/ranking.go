package allocation

import (
	"sort"

	"github.com/kilianp07/supplymate/core/model"
)

// RankKey orders recipients: lower keys are served first.
func RankKey(r *model.Recipient) float64 { return -r.PriorityScore() }

// Rank returns the active recipients ordered by descending priority score.
// The sort is stable, so recipients with equal scores keep their input order.
func Rank(recipients []*model.Recipient) []*model.Recipient {
	ranked := make([]*model.Recipient, 0, len(recipients))
	for _, r := range recipients {
		if r != nil && r.Active() {
			ranked = append(ranked, r)
		}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return RankKey(ranked[i]) < RankKey(ranked[j])
	})
	return ranked
}
