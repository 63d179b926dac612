package domain

import (
	"fmt"
	"strings"
)

// Modality is the exercise discipline a session belongs to.
type Modality string

const (
	ModalityRunning  Modality = "running"
	ModalityCycling  Modality = "cycling"
	ModalitySwimming Modality = "swimming"
)

// ParseModality normalizes and validates a modality string.
func ParseModality(s string) (Modality, error) {
	switch Modality(strings.ToLower(strings.TrimSpace(s))) {
	case ModalityRunning:
		return ModalityRunning, nil
	case ModalityCycling:
		return ModalityCycling, nil
	case ModalitySwimming:
		return ModalitySwimming, nil
	}
	return "", fmt.Errorf("unknown modality %q", s)
}

// Zone is a discrete effort band, Z1 (easiest) through Z5 (hardest).
type Zone string

const (
	ZoneZ1 Zone = "Z1"
	ZoneZ2 Zone = "Z2"
	ZoneZ3 Zone = "Z3"
	ZoneZ4 Zone = "Z4"
	ZoneZ5 Zone = "Z5"
)

// ZoneOrder lists all zones from easiest to hardest. Iteration over zone maps
// should follow this order so results stay deterministic.
var ZoneOrder = []Zone{ZoneZ1, ZoneZ2, ZoneZ3, ZoneZ4, ZoneZ5}

// NormalizeZone maps loose inputs ("z2", " Z3 ") onto a canonical Zone.
// Unrecognized values fall back to Z2.
func NormalizeZone(s string) Zone {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "Z1":
		return ZoneZ1
	case "Z2":
		return ZoneZ2
	case "Z3":
		return ZoneZ3
	case "Z4":
		return ZoneZ4
	case "Z5":
		return ZoneZ5
	}
	return ZoneZ2
}

// BlockType distinguishes the role of a block within a session.
type BlockType string

const (
	BlockWarmup   BlockType = "warmup"
	BlockMain     BlockType = "main"
	BlockCooldown BlockType = "cooldown"
)

// Block is one segment of a structured session. Exactly one duration shape is
// populated: DurationMinutes for continuous blocks, or Sets/WorkDurationS/
// RestDurationS for interval blocks.
type Block struct {
	BlockType       BlockType `bson:"blockType" json:"block_type"`
	Intensity       Zone      `bson:"intensity" json:"intensity"`
	DurationMinutes float64   `bson:"durationMinutes,omitempty" json:"duration_minutes,omitempty"`
	Sets            int       `bson:"sets,omitempty" json:"sets,omitempty"`
	WorkDurationS   float64   `bson:"workDurationS,omitempty" json:"work_duration_s,omitempty"`
	RestDurationS   float64   `bson:"restDurationS,omitempty" json:"rest_duration_s,omitempty"`
}

// IsInterval reports whether the block uses the sets/work/rest shape.
func (b Block) IsInterval() bool {
	return b.Sets > 0 && b.WorkDurationS > 0
}

// IsContinuous reports whether the block uses the flat duration shape.
func (b Block) IsContinuous() bool {
	return b.DurationMinutes > 0 && !b.IsInterval()
}

// TotalMinutes is the wall-clock length of the block.
func (b Block) TotalMinutes() float64 {
	if b.IsInterval() {
		return float64(b.Sets) * (b.WorkDurationS + b.RestDurationS) / 60.0
	}
	return b.DurationMinutes
}

// WorkMinutes is the time spent at the block's intensity, excluding rest.
func (b Block) WorkMinutes() float64 {
	if b.IsInterval() {
		return float64(b.Sets) * b.WorkDurationS / 60.0
	}
	return b.DurationMinutes
}

// PlannedSession describes the session the athlete intended to do. Either
// Structure or the flat Intensity zone is set; RPE is optional self-reported
// effort (1-10).
type PlannedSession struct {
	Modality        Modality `json:"modality"`
	DurationMinutes float64  `json:"duration_minutes"`
	Adaptation      string   `json:"adaptation"`
	Intensity       Zone     `json:"intensity,omitempty"`
	Structure       []Block  `json:"structure,omitempty"`
	RPE             float64  `json:"rpe,omitempty"`
}

// IntensityProfile is a coarse label derived from the primary zone.
type IntensityProfile string

const (
	ProfileHigh         IntensityProfile = "high"
	ProfileModerateHigh IntensityProfile = "moderate_high"
	ProfileModerate     IntensityProfile = "moderate"
)

// SessionAnalysis is the normalized view of a planned session the rest of the
// pipeline works from.
type SessionAnalysis struct {
	ZoneDistribution map[Zone]float64 `json:"zone_distribution"`
	PrimaryZone      Zone             `json:"primary_zone"`
	IntensityProfile IntensityProfile `json:"intensity_profile"`
	TotalMinutes     float64          `json:"total_minutes"`
}
