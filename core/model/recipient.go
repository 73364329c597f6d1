package model

import (
	"encoding/json"
	"errors"
	"fmt"
)

const (
	MinUrgency = 1
	MaxUrgency = 10
)

// ErrInvalidRecipient is returned by Validate for recipients that cannot be ranked.
var ErrInvalidRecipient = errors.New("invalid recipient")

// Recipient is a household competing for relief supplies. The priority score
// is recomputed eagerly by every setter, so ranking only ever reads it.
type Recipient struct {
	id       string
	size     int
	distance float64 // km from the relief center
	urgency  int     // 1-10, 10 being most urgent
	active   bool
	priority float64
}

// NewRecipient returns an active recipient. Urgency is clamped to [1,10].
func NewRecipient(id string, size int, distance float64, urgency int) *Recipient {
	r := &Recipient{id: id, size: size, distance: distance, urgency: clampUrgency(urgency), active: true}
	r.score()
	return r
}

func clampUrgency(u int) int {
	if u < MinUrgency {
		return MinUrgency
	}
	if u > MaxUrgency {
		return MaxUrgency
	}
	return u
}

// PriorityScore computes 0.5*urgency + 0.3*size + 0.2*proximity where
// proximity is 1/distance, or 1 when the distance is not positive.
func PriorityScore(urgency, size int, distance float64) float64 {
	proximity := 1.0
	if distance > 0 {
		proximity = 1 / distance
	}
	return float64(urgency)*0.5 + float64(size)*0.3 + proximity*0.2
}

func (r *Recipient) score() { r.priority = PriorityScore(r.urgency, r.size, r.distance) }

func (r *Recipient) ID() string             { return r.id }
func (r *Recipient) Size() int              { return r.size }
func (r *Recipient) Distance() float64      { return r.distance }
func (r *Recipient) Urgency() int           { return r.urgency }
func (r *Recipient) Active() bool           { return r.active }
func (r *Recipient) PriorityScore() float64 { return r.priority }

func (r *Recipient) SetSize(size int) {
	r.size = size
	r.score()
}

func (r *Recipient) SetDistance(d float64) {
	r.distance = d
	r.score()
}

// SetUrgency clamps u to [1,10] before storing it.
func (r *Recipient) SetUrgency(u int) {
	r.urgency = clampUrgency(u)
	r.score()
}

func (r *Recipient) SetActive(active bool) { r.active = active }

// Equal compares recipients by id only.
func (r *Recipient) Equal(o *Recipient) bool {
	return r != nil && o != nil && r.id == o.id
}

// Clone returns an independent copy.
func (r *Recipient) Clone() *Recipient {
	cp := *r
	return &cp
}

// Validate checks the fields the ranking formula relies on.
func (r *Recipient) Validate() error {
	if r.id == "" {
		return fmt.Errorf("%w: empty id", ErrInvalidRecipient)
	}
	if r.size < 1 {
		return fmt.Errorf("%w: %s size must be at least 1", ErrInvalidRecipient, r.id)
	}
	if r.distance <= 0 {
		return fmt.Errorf("%w: %s distance must be positive", ErrInvalidRecipient, r.id)
	}
	return nil
}

func (r *Recipient) String() string {
	return fmt.Sprintf("Recipient[ID=%s, Size=%d, Distance=%.1fkm, Urgency=%d, Priority=%.2f, Active=%t]",
		r.id, r.size, r.distance, r.urgency, r.priority, r.active)
}

type recipientJSON struct {
	ID       string  `json:"id"`
	Size     int     `json:"size"`
	Distance float64 `json:"distance"`
	Urgency  int     `json:"urgency"`
	Active   bool    `json:"active"`
	Priority float64 `json:"priority_score"`
}

// MarshalJSON exposes the recipient and its derived priority.
func (r *Recipient) MarshalJSON() ([]byte, error) {
	return json.Marshal(recipientJSON{
		ID:       r.id,
		Size:     r.size,
		Distance: r.distance,
		Urgency:  r.urgency,
		Active:   r.active,
		Priority: r.priority,
	})
}

// UnmarshalJSON decodes a recipient. A missing active flag defaults to true
// and the priority is always recomputed.
func (r *Recipient) UnmarshalJSON(b []byte) error {
	raw := struct {
		ID       string  `json:"id"`
		Size     int     `json:"size"`
		Distance float64 `json:"distance"`
		Urgency  int     `json:"urgency"`
		Active   *bool   `json:"active"`
	}{}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	*r = *NewRecipient(raw.ID, raw.Size, raw.Distance, raw.Urgency)
	if raw.Active != nil {
		r.active = *raw.Active
	}
	return nil
}
