package engine

import (
	"errors"
	"math"
	"testing"

	"github.com/kemurphy3/ignite-fitness-sub004/internal/domain"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestComputeLoad_RPETakesPriority(t *testing.T) {
	// RPE wins even when zone data is present; the ordering is contractual.
	session := domain.PlannedSession{
		Modality:        domain.ModalityRunning,
		DurationMinutes: 60,
		RPE:             7,
		Structure: []domain.Block{
			{BlockType: domain.BlockMain, Intensity: domain.ZoneZ2, DurationMinutes: 60},
		},
	}

	load, err := ComputeLoad(session)
	if err != nil {
		t.Fatalf("ComputeLoad() error = %v", err)
	}
	if load.MethodUsed != domain.MethodRPEDuration {
		t.Errorf("MethodUsed = %s, want RPE_Duration", load.MethodUsed)
	}
	if !almostEqual(load.TotalLoad, 420) {
		t.Errorf("TotalLoad = %v, want 420", load.TotalLoad)
	}
	if load.Confidence != 0.75 {
		t.Errorf("Confidence = %v, want 0.75", load.Confidence)
	}
}

func TestComputeLoad_RPEClamped(t *testing.T) {
	session := domain.PlannedSession{Modality: domain.ModalityRunning, DurationMinutes: 10, RPE: 15}

	load, err := ComputeLoad(session)
	if err != nil {
		t.Fatalf("ComputeLoad() error = %v", err)
	}
	if !almostEqual(load.TotalLoad, 100) {
		t.Errorf("TotalLoad = %v, want 100 (RPE clamped to 10)", load.TotalLoad)
	}
}

func TestComputeLoad_ZoneDistribution(t *testing.T) {
	session := domain.PlannedSession{
		Modality: domain.ModalityRunning,
		Structure: []domain.Block{
			{BlockType: domain.BlockMain, Intensity: domain.ZoneZ2, DurationMinutes: 30},
			{BlockType: domain.BlockMain, Intensity: domain.ZoneZ4, DurationMinutes: 10},
		},
	}

	load, err := ComputeLoad(session)
	if err != nil {
		t.Fatalf("ComputeLoad() error = %v", err)
	}
	if load.MethodUsed != domain.MethodZoneRPE {
		t.Errorf("MethodUsed = %s, want Zone_RPE", load.MethodUsed)
	}
	// 30x2 + 10x7 = 130
	if !almostEqual(load.TotalLoad, 130) {
		t.Errorf("TotalLoad = %v, want 130", load.TotalLoad)
	}
	if load.Confidence != 0.85 {
		t.Errorf("Confidence = %v, want 0.85", load.Confidence)
	}
}

func TestComputeLoad_FlatIntensityUsesZoneMethod(t *testing.T) {
	// A flat-intensity session yields a single-entry zone distribution, so
	// the zone method applies before the MET fallback.
	session := domain.PlannedSession{
		Modality:        domain.ModalityRunning,
		DurationMinutes: 50,
		Intensity:       domain.ZoneZ2,
	}

	load, err := ComputeLoad(session)
	if err != nil {
		t.Fatalf("ComputeLoad() error = %v", err)
	}
	if load.MethodUsed != domain.MethodZoneRPE {
		t.Errorf("MethodUsed = %s, want Zone_RPE", load.MethodUsed)
	}
	if !almostEqual(load.TotalLoad, 100) {
		t.Errorf("TotalLoad = %v, want 100", load.TotalLoad)
	}
}

func TestComputeLoad_METFallback(t *testing.T) {
	// Structure without main blocks leaves the zone distribution empty, so
	// the MET method is the only one left.
	session := domain.PlannedSession{
		Modality:        domain.ModalityCycling,
		DurationMinutes: 40,
		Intensity:       domain.ZoneZ3,
		Structure: []domain.Block{
			{BlockType: domain.BlockWarmup, Intensity: domain.ZoneZ1, DurationMinutes: 10},
		},
	}

	load, err := ComputeLoad(session)
	if err != nil {
		t.Fatalf("ComputeLoad() error = %v", err)
	}
	if load.MethodUsed != domain.MethodMETMinutes {
		t.Errorf("MethodUsed = %s, want MET_Minutes", load.MethodUsed)
	}
	// MET[cycling][Z3]=8.5, 8.5 x 40 x 0.8 = 272
	if !almostEqual(load.TotalLoad, 272) {
		t.Errorf("TotalLoad = %v, want 272", load.TotalLoad)
	}
	if load.Confidence != 0.65 {
		t.Errorf("Confidence = %v, want 0.65", load.Confidence)
	}
}

func TestComputeLoad_InsufficientData(t *testing.T) {
	tests := []struct {
		name    string
		session domain.PlannedSession
	}{
		{"empty session", domain.PlannedSession{Modality: domain.ModalityRunning}},
		{"intensity without duration", domain.PlannedSession{Modality: domain.ModalityRunning, Intensity: domain.ZoneZ2}},
		{"rpe without duration", domain.PlannedSession{Modality: domain.ModalityRunning, RPE: 6}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ComputeLoad(tt.session)
			if !errors.Is(err, ErrInsufficientData) {
				t.Errorf("ComputeLoad() error = %v, want ErrInsufficientData", err)
			}
		})
	}
}
