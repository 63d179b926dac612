package domain

import (
	"strconv"
	"time"
)

// WorkoutTemplate is a pre-built workout owned by the external catalog. The
// engine treats templates as read-only input; it never creates or mutates
// catalog entries.
type WorkoutTemplate struct {
	TemplateID          string    `bson:"_id" json:"template_id"`
	Name                string    `bson:"name" json:"name"`
	Modality            Modality  `bson:"modality" json:"modality"`
	Category            string    `bson:"category,omitempty" json:"category,omitempty"`
	Adaptation          string    `bson:"adaptation" json:"adaptation"`
	EstimatedLoad       float64   `bson:"estimatedLoad,omitempty" json:"estimated_load,omitempty"`
	TimeRequiredMinutes float64   `bson:"timeRequiredMinutes" json:"time_required_minutes"`
	EquipmentRequired   []string  `bson:"equipmentRequired,omitempty" json:"equipment_required,omitempty"`
	Structure           []Block   `bson:"structure" json:"structure"`
	CreatedAt           time.Time `bson:"createdAt,omitempty" json:"-"`
	UpdatedAt           time.Time `bson:"updatedAt,omitempty" json:"-"`
}

// Validate checks the structural invariants a template must satisfy before it
// enters the catalog: a known modality, a positive time budget, and every
// block populating exactly one duration shape.
func (t WorkoutTemplate) Validate() error {
	if _, err := ParseModality(string(t.Modality)); err != nil {
		return err
	}
	if t.TemplateID == "" {
		return ErrTemplateInvalid("template_id is required")
	}
	if t.TimeRequiredMinutes <= 0 {
		return ErrTemplateInvalid("time_required_minutes must be positive")
	}
	for i, b := range t.Structure {
		if b.IsInterval() == (b.DurationMinutes > 0) {
			return ErrTemplateInvalid("block " + strconv.Itoa(i) + " must be either continuous or interval, not both or neither")
		}
	}
	return nil
}

// ErrTemplateInvalid marks a template that failed structural validation.
type ErrTemplateInvalid string

func (e ErrTemplateInvalid) Error() string { return "invalid template: " + string(e) }
