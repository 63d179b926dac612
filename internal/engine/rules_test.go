package engine

import (
	"errors"
	"testing"

	"github.com/kemurphy3/ignite-fitness-sub004/internal/domain"
)

var allModalities = []domain.Modality{domain.ModalityRunning, domain.ModalityCycling, domain.ModalitySwimming}

func TestTimeFactor_SameModalityIsIdentity(t *testing.T) {
	for _, m := range allModalities {
		for _, zone := range domain.ZoneOrder {
			factor, err := TimeFactor(m, m, zone)
			if err != nil {
				t.Fatalf("TimeFactor(%s, %s, %s) error = %v", m, m, zone, err)
			}
			if factor != 1.0 {
				t.Errorf("TimeFactor(%s, %s, %s) = %v, want 1.0", m, m, zone, factor)
			}
		}
	}
}

func TestTimeFactor_CrossModality(t *testing.T) {
	tests := []struct {
		from, to domain.Modality
		zone     domain.Zone
		want     float64
	}{
		{domain.ModalityRunning, domain.ModalityCycling, domain.ZoneZ2, 1.25},
		{domain.ModalityRunning, domain.ModalityCycling, domain.ZoneZ1, 1.30},
		{domain.ModalityRunning, domain.ModalityCycling, domain.ZoneZ5, 1.17},
		{domain.ModalityCycling, domain.ModalityRunning, domain.ZoneZ2, 0.75},
		{domain.ModalityRunning, domain.ModalitySwimming, domain.ZoneZ2, 0.50},
		{domain.ModalitySwimming, domain.ModalityCycling, domain.ZoneZ3, 2.38},
	}

	for _, tt := range tests {
		got, err := TimeFactor(tt.from, tt.to, tt.zone)
		if err != nil {
			t.Fatalf("TimeFactor(%s, %s, %s) error = %v", tt.from, tt.to, tt.zone, err)
		}
		if diff := got - tt.want; diff > 1e-9 || diff < -1e-9 {
			t.Errorf("TimeFactor(%s, %s, %s) = %v, want %v", tt.from, tt.to, tt.zone, got, tt.want)
		}
	}
}

func TestTimeFactor_UnknownPair(t *testing.T) {
	_, err := TimeFactor(domain.Modality("rowing"), domain.ModalityRunning, domain.ZoneZ2)
	if !errors.Is(err, ErrNoConversion) {
		t.Errorf("TimeFactor(rowing, running) error = %v, want ErrNoConversion", err)
	}
}

func TestLoadFactor(t *testing.T) {
	if got := LoadFactor(domain.ModalityRunning, domain.ModalityRunning); got != 1.0 {
		t.Errorf("same-modality LoadFactor = %v, want 1.0", got)
	}
	if got := LoadFactor(domain.ModalityCycling, domain.ModalityRunning); got != 0.70 {
		t.Errorf("LoadFactor(cycling, running) = %v, want 0.70", got)
	}
	// Unknown pairs default to 1.0 rather than failing.
	if got := LoadFactor(domain.Modality("rowing"), domain.ModalityRunning); got != 1.0 {
		t.Errorf("LoadFactor(rowing, running) = %v, want 1.0", got)
	}
}

func TestCheckAdaptationCompatibility(t *testing.T) {
	tests := []struct {
		name           string
		source, target string
		wantCompatible bool
		wantMatch      domain.AdaptationMatch
		wantBonus      float64
	}{
		{"identical", "vo2_max", "vo2_max", true, domain.MatchExact, 0.10},
		{"normalized exact", "Aerobic Base", "aerobic_base", true, domain.MatchExact, 0.10},
		{"family member", "aerobic_base", "endurance", true, domain.MatchCompatible, 0.05},
		{"threshold family", "lactate_threshold", "tempo", true, domain.MatchCompatible, 0.05},
		{"incompatible", "aerobic_base", "vo2_max", false, "", -0.15},
		{"empty defaults to general", "", "aerobic_base", true, domain.MatchCompatible, 0.05},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CheckAdaptationCompatibility(tt.source, tt.target)
			if got.Compatible != tt.wantCompatible {
				t.Errorf("Compatible = %v, want %v", got.Compatible, tt.wantCompatible)
			}
			if got.Match != tt.wantMatch {
				t.Errorf("Match = %q, want %q", got.Match, tt.wantMatch)
			}
			if got.ConfidenceBonus != tt.wantBonus {
				t.Errorf("ConfidenceBonus = %v, want %v", got.ConfidenceBonus, tt.wantBonus)
			}
		})
	}
}

func TestCheckAdaptationCompatibility_SelfIsAlwaysExact(t *testing.T) {
	for adaptation := range adaptationFamilies {
		got := CheckAdaptationCompatibility(adaptation, adaptation)
		if !got.Compatible || got.Match != domain.MatchExact || got.ConfidenceBonus != 0.10 {
			t.Errorf("CheckAdaptationCompatibility(%q, %q) = %+v, want exact match with +0.10", adaptation, adaptation, got)
		}
	}
}

func TestValidateDurationLimits(t *testing.T) {
	tests := []struct {
		zone      domain.Zone
		minutes   float64
		wantValid bool
	}{
		{domain.ZoneZ5, 30, false}, // above the 20 minute Z5 cap
		{domain.ZoneZ5, 10, true},
		{domain.ZoneZ5, 0.2, false},
		{domain.ZoneZ1, 10, false}, // below the 15 minute Z1 floor
		{domain.ZoneZ1, 120, true},
		{domain.ZoneZ2, 60, true},
		{domain.ZoneZ3, 95, false},
	}

	for _, tt := range tests {
		got := ValidateDurationLimits(tt.zone, tt.minutes)
		if got.Valid != tt.wantValid {
			t.Errorf("ValidateDurationLimits(%s, %v).Valid = %v, want %v", tt.zone, tt.minutes, got.Valid, tt.wantValid)
		}
		if !got.Valid && got.Reason == "" {
			t.Errorf("ValidateDurationLimits(%s, %v) invalid without a reason", tt.zone, tt.minutes)
		}
	}
}

func TestValidateDurationLimits_UnknownZone(t *testing.T) {
	got := ValidateDurationLimits(domain.Zone("Z9"), 30)
	if got.Valid {
		t.Error("unknown zone should not validate")
	}
}

func TestCalculateConfidence(t *testing.T) {
	tests := []struct {
		name   string
		params ConfidenceParams
		want   float64
	}{
		{
			name:   "exact match easy zone",
			params: ConfidenceParams{AdaptationBonus: 0.10, Zone: domain.ZoneZ2, DurationMinutes: 60, LoadVariance: 0.03},
			want:   0.95,
		},
		{
			name:   "compatible match Z4",
			params: ConfidenceParams{AdaptationBonus: 0.05, Zone: domain.ZoneZ4, DurationMinutes: 45, LoadVariance: 0.05},
			want:   0.85,
		},
		{
			name:   "everything penalized",
			params: ConfidenceParams{AdaptationBonus: -0.15, Zone: domain.ZoneZ5, DurationMinutes: 5, LoadVariance: 0.30},
			want:   0.45,
		},
		{
			name:   "very long session",
			params: ConfidenceParams{AdaptationBonus: 0.10, Zone: domain.ZoneZ1, DurationMinutes: 150, LoadVariance: 0.02},
			want:   0.90,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CalculateConfidence(tt.params)
			if diff := got - tt.want; diff > 1e-9 || diff < -1e-9 {
				t.Errorf("CalculateConfidence() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCalculateConfidence_AlwaysInUnitRange(t *testing.T) {
	bonuses := []float64{-0.5, -0.15, 0, 0.05, 0.10, 0.5}
	durations := []float64{0, 5, 30, 90, 150, 500}
	variances := []float64{0, 0.05, 0.2, 1, 10}
	for _, bonus := range bonuses {
		for _, zone := range domain.ZoneOrder {
			for _, dur := range durations {
				for _, v := range variances {
					got := CalculateConfidence(ConfidenceParams{AdaptationBonus: bonus, Zone: zone, DurationMinutes: dur, LoadVariance: v})
					if got < 0 || got > 1 {
						t.Fatalf("CalculateConfidence(bonus=%v zone=%s dur=%v var=%v) = %v, out of [0,1]", bonus, zone, dur, v, got)
					}
				}
			}
		}
	}
}

func TestSnapshot_CopiesTables(t *testing.T) {
	s := Snapshot()
	s.TimeFactors["running_to_cycling"] = 99
	s.AdaptationFamilies["aerobic_base"][0] = "mutated"

	if baseTimeFactors["running_to_cycling"] == 99 {
		t.Error("Snapshot must not alias the canonical time factor table")
	}
	if adaptationFamilies["aerobic_base"][0] == "mutated" {
		t.Error("Snapshot must not alias the canonical adaptation families")
	}
}
