package engine

import (
	"fmt"
	"math"
	"strings"

	"github.com/kemurphy3/ignite-fitness-sub004/internal/domain"
)

// This file is the single source of truth for cross-modality conversion
// factors. The additive per-zone adjustment variant is canonical; do not
// reintroduce the scaled zone-multiplier table alongside it.

// ErrNoConversion is returned when no time factor exists for a modality pair.
var ErrNoConversion = fmt.Errorf("no conversion factor for modality pair")

func pairKey(from, to domain.Modality) string {
	return string(from) + "_to_" + string(to)
}

// baseTimeFactors convert minutes in the source modality into minutes in the
// target modality at equal training stress. A factor above 1 means the target
// modality needs more time to reproduce the stress.
var baseTimeFactors = map[string]float64{
	"running_to_cycling":  1.25,
	"cycling_to_running":  0.75,
	"running_to_swimming": 0.50,
	"swimming_to_running": 1.80,
	"cycling_to_swimming": 0.40,
	"swimming_to_cycling": 2.40,
}

// zoneTimeAdjustments are added to the base factor. Harder zones converge
// across modalities, so the adjustment shrinks toward (and past) zero.
var zoneTimeAdjustments = map[domain.Zone]float64{
	domain.ZoneZ1: 0.05,
	domain.ZoneZ2: 0.00,
	domain.ZoneZ3: -0.02,
	domain.ZoneZ4: -0.05,
	domain.ZoneZ5: -0.08,
}

// loadFactors express how a load scalar computed in the "from" modality
// translates into the "to" modality's terms. Missing pairs default to 1.0.
var loadFactors = map[string]float64{
	"running_to_cycling":  1.40,
	"cycling_to_running":  0.70,
	"running_to_swimming": 0.90,
	"swimming_to_running": 1.10,
	"cycling_to_swimming": 0.65,
	"swimming_to_cycling": 1.55,
}

// adaptationFamilies is the adjacency list of adaptations that are close
// enough to substitute for one another.
var adaptationFamilies = map[string][]string{
	"aerobic_base":      {"endurance", "recovery", "general"},
	"endurance":         {"aerobic_base", "general", "tempo"},
	"recovery":          {"aerobic_base", "general"},
	"general":           {"aerobic_base", "endurance", "recovery"},
	"lactate_threshold": {"tempo", "threshold"},
	"tempo":             {"lactate_threshold", "threshold", "endurance"},
	"threshold":         {"lactate_threshold", "tempo"},
	"vo2_max":           {"vo2", "aerobic_power", "speed_endurance"},
	"vo2":               {"vo2_max", "aerobic_power"},
	"aerobic_power":     {"vo2_max", "vo2"},
	"speed_endurance":   {"vo2_max", "speed"},
	"speed":             {"speed_endurance"},
}

// zoneDurationLimits bound how long a single session can sensibly spend at a
// zone, in minutes.
var zoneDurationLimits = map[domain.Zone][2]float64{
	domain.ZoneZ1: {15, 300},
	domain.ZoneZ2: {10, 240},
	domain.ZoneZ3: {5, 90},
	domain.ZoneZ4: {1, 45},
	domain.ZoneZ5: {0.5, 20},
}

// Confidence scoring weights.
const (
	confidenceBase         = 0.85
	bonusExactMatch        = 0.10
	bonusCompatibleMatch   = 0.05
	penaltyIncompatible    = -0.15
	penaltyZoneZ4          = -0.05
	penaltyZoneZ5          = -0.10
	penaltyShortDuration   = -0.05
	penaltyLongDuration    = -0.05
	penaltyHighVariance    = -0.10
	acceptableVariance     = 0.15
	shortDurationThreshold = 10.0
	longDurationThreshold  = 120.0
)

// TimeFactor returns the minutes-conversion factor between two modalities at
// a given zone. Same-modality pairs are always 1.0.
func TimeFactor(from, to domain.Modality, zone domain.Zone) (float64, error) {
	if from == to {
		return 1.0, nil
	}
	base, ok := baseTimeFactors[pairKey(from, to)]
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrNoConversion, pairKey(from, to))
	}
	return base + zoneTimeAdjustments[zone], nil
}

// LoadFactor returns the load-unit conversion between two modalities,
// defaulting to 1.0 when no entry exists.
func LoadFactor(from, to domain.Modality) float64 {
	if from == to {
		return 1.0
	}
	if f, ok := loadFactors[pairKey(from, to)]; ok {
		return f
	}
	return 1.0
}

// Compatibility is the outcome of comparing two adaptation tags.
type Compatibility struct {
	Compatible      bool
	Match           domain.AdaptationMatch
	ConfidenceBonus float64
}

// NormalizeAdaptation lowercases an adaptation tag and reduces it to
// [a-z_], mapping separators to underscores. Empty input means "general".
func NormalizeAdaptation(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	var b strings.Builder
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z':
			b.WriteRune(r)
		case r == '_' || r == ' ' || r == '-':
			b.WriteByte('_')
		}
	}
	out := b.String()
	if out == "" {
		return "general"
	}
	return out
}

// CheckAdaptationCompatibility compares a session's adaptation with a
// candidate's. Exact matches earn the full bonus; family members a smaller
// one; everything else a penalty.
func CheckAdaptationCompatibility(source, target string) Compatibility {
	src := NormalizeAdaptation(source)
	dst := NormalizeAdaptation(target)
	if src == dst {
		return Compatibility{Compatible: true, Match: domain.MatchExact, ConfidenceBonus: bonusExactMatch}
	}
	for _, rel := range adaptationFamilies[src] {
		if rel == dst {
			return Compatibility{Compatible: true, Match: domain.MatchCompatible, ConfidenceBonus: bonusCompatibleMatch}
		}
	}
	return Compatibility{Compatible: false, ConfidenceBonus: penaltyIncompatible}
}

// DurationCheck is the result of validating a duration against zone limits.
type DurationCheck struct {
	Valid  bool
	Reason string
}

// ValidateDurationLimits checks whether minutes at the given zone fall inside
// the per-zone sensible range.
func ValidateDurationLimits(zone domain.Zone, minutes float64) DurationCheck {
	limits, ok := zoneDurationLimits[zone]
	if !ok {
		return DurationCheck{Valid: false, Reason: fmt.Sprintf("unknown zone %s", zone)}
	}
	if minutes < limits[0] {
		return DurationCheck{Valid: false, Reason: fmt.Sprintf("%.1f minutes is below the %s minimum of %.1f minutes", minutes, zone, limits[0])}
	}
	if minutes > limits[1] {
		return DurationCheck{Valid: false, Reason: fmt.Sprintf("%.1f minutes exceeds the %s maximum of %.1f minutes", minutes, zone, limits[1])}
	}
	return DurationCheck{Valid: true}
}

// ConfidenceParams feed the confidence score for a scaled candidate.
type ConfidenceParams struct {
	AdaptationBonus float64
	Zone            domain.Zone
	DurationMinutes float64
	LoadVariance    float64
}

// CalculateConfidence combines adaptation fit, zone difficulty, duration
// extremes, and load variance into a [0,1] confidence score.
func CalculateConfidence(p ConfidenceParams) float64 {
	score := confidenceBase + p.AdaptationBonus
	switch p.Zone {
	case domain.ZoneZ4:
		score += penaltyZoneZ4
	case domain.ZoneZ5:
		score += penaltyZoneZ5
	}
	if p.DurationMinutes < shortDurationThreshold {
		score += penaltyShortDuration
	} else if p.DurationMinutes > longDurationThreshold {
		score += penaltyLongDuration
	}
	if p.LoadVariance > acceptableVariance {
		score += penaltyHighVariance
	}
	return math.Max(0, math.Min(1, score))
}

// RulesSnapshot is a read-only dump of the canonical tables, served by the
// rules endpoint so clients can display the conversion assumptions.
type RulesSnapshot struct {
	TimeFactors         map[string]float64            `json:"time_factors"`
	ZoneTimeAdjustments map[domain.Zone]float64       `json:"zone_time_adjustments"`
	LoadFactors         map[string]float64            `json:"load_factors"`
	AdaptationFamilies  map[string][]string           `json:"adaptation_families"`
	ZoneDurationLimits  map[domain.Zone][2]float64    `json:"zone_duration_limits"`
	ZoneLoadMultipliers map[domain.Zone]float64       `json:"zone_load_multipliers"`
	METTable            map[domain.Modality]zoneTable `json:"met_table"`
}

// Snapshot copies the tables so callers cannot mutate the canonical versions.
func Snapshot() RulesSnapshot {
	s := RulesSnapshot{
		TimeFactors:         make(map[string]float64, len(baseTimeFactors)),
		ZoneTimeAdjustments: make(map[domain.Zone]float64, len(zoneTimeAdjustments)),
		LoadFactors:         make(map[string]float64, len(loadFactors)),
		AdaptationFamilies:  make(map[string][]string, len(adaptationFamilies)),
		ZoneDurationLimits:  make(map[domain.Zone][2]float64, len(zoneDurationLimits)),
		ZoneLoadMultipliers: make(map[domain.Zone]float64, len(zoneLoadMultipliers)),
		METTable:            make(map[domain.Modality]zoneTable, len(metTable)),
	}
	for k, v := range baseTimeFactors {
		s.TimeFactors[k] = v
	}
	for k, v := range zoneTimeAdjustments {
		s.ZoneTimeAdjustments[k] = v
	}
	for k, v := range loadFactors {
		s.LoadFactors[k] = v
	}
	for k, v := range adaptationFamilies {
		s.AdaptationFamilies[k] = append([]string(nil), v...)
	}
	for k, v := range zoneDurationLimits {
		s.ZoneDurationLimits[k] = v
	}
	for k, v := range zoneLoadMultipliers {
		s.ZoneLoadMultipliers[k] = v
	}
	for k, v := range metTable {
		tbl := make(zoneTable, len(v))
		for z, m := range v {
			tbl[z] = m
		}
		s.METTable[k] = tbl
	}
	return s
}
