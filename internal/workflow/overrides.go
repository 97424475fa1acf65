package workflow

import (
	"encoding/json"
	"fmt"

	"arqueria/archery-app/internal/domain"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Override is one pending per-slot adjustment. A nil field means the value
// is cleared to null for this assignment, not that it falls back to the
// routine or catalog value; setting an override replaces the whole entry.
type Override struct {
	Arrows      *int     `json:"arrows_override,omitempty"`
	DistanceM   *float64 `json:"distance_override_m,omitempty"`
	Description *string  `json:"description_override,omitempty"`
}

// OverrideSet accumulates pending overrides for one assignment in progress,
// keyed by the routine day-exercise slot ID. The set lives and dies with
// its flow: it never touches the routine and is discarded on cancel.
type OverrideSet struct {
	pending map[primitive.ObjectID]Override
}

// NewOverrideSet returns an empty set.
func NewOverrideSet() *OverrideSet {
	return &OverrideSet{pending: make(map[primitive.ObjectID]Override)}
}

// Set records an override for a slot, replacing any previous entry whole.
func (s *OverrideSet) Set(slotID primitive.ObjectID, ov Override) {
	s.pending[slotID] = ov
}

// Remove drops the pending entry for a slot, restoring stored-then-catalog
// resolution.
func (s *OverrideSet) Remove(slotID primitive.ObjectID) {
	delete(s.pending, slotID)
}

// Get returns the pending entry for a slot, if any.
func (s *OverrideSet) Get(slotID primitive.ObjectID) (Override, bool) {
	ov, ok := s.pending[slotID]
	return ov, ok
}

// Len reports how many slots have pending overrides.
func (s *OverrideSet) Len() int { return len(s.pending) }

// Reset empties the set.
func (s *OverrideSet) Reset() {
	s.pending = make(map[primitive.ObjectID]Override)
}

// EffectiveValues is what one slot resolves to for display. Nil fields were
// cleared by a pending override.
type EffectiveValues struct {
	Arrows      *int
	DistanceM   *float64
	Description *string
}

// Effective resolves a slot's display values: a pending entry wins whole
// (its nil fields stay null); otherwise the routine's stored override wins
// per field; otherwise the catalog exercise's defaults apply. base may be
// nil when the exercise is missing from the catalog.
func (s *OverrideSet) Effective(slot domain.RoutineDayExercise, base *domain.Exercise) EffectiveValues {
	if ov, ok := s.pending[slot.ID]; ok {
		return EffectiveValues{
			Arrows:      ov.Arrows,
			DistanceM:   ov.DistanceM,
			Description: ov.Description,
		}
	}
	var eff EffectiveValues
	if slot.ArrowsOverride != nil {
		eff.Arrows = slot.ArrowsOverride
	} else if base != nil {
		arrows := base.ArrowsCount
		eff.Arrows = &arrows
	}
	if slot.DistanceOverrideM != nil {
		eff.DistanceM = slot.DistanceOverrideM
	} else if base != nil {
		dist := base.DistanceM
		eff.DistanceM = &dist
	}
	if base != nil && base.Description != "" {
		desc := base.Description
		eff.Description = &desc
	}
	return eff
}

// overrideEnvelope is the JSON shape carried in the assignment notes field.
// Keys are slot IDs in hex.
type overrideEnvelope struct {
	TemporaryOverrides map[string]Override `json:"temporary_overrides"`
}

// Serialize encodes the pending set, empty or not, as the notes envelope.
func (s *OverrideSet) Serialize() (string, error) {
	env := overrideEnvelope{TemporaryOverrides: make(map[string]Override, len(s.pending))}
	for id, ov := range s.pending {
		env.TemporaryOverrides[id.Hex()] = ov
	}
	raw, err := json.Marshal(env)
	if err != nil {
		return "", fmt.Errorf("encoding overrides: %w", err)
	}
	return string(raw), nil
}

// ParseOverrides decodes the notes envelope of a stored assignment. Notes
// that are empty or not an envelope yield an empty map, not an error, since
// notes may also carry free text.
func ParseOverrides(notes string) map[primitive.ObjectID]Override {
	out := make(map[primitive.ObjectID]Override)
	if notes == "" {
		return out
	}
	var env overrideEnvelope
	if err := json.Unmarshal([]byte(notes), &env); err != nil {
		return out
	}
	for hex, ov := range env.TemporaryOverrides {
		id, err := primitive.ObjectIDFromHex(hex)
		if err != nil {
			continue
		}
		out[id] = ov
	}
	return out
}
