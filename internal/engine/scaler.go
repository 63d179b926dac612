package engine

import (
	"errors"
	"fmt"
	"math"

	"github.com/kemurphy3/ignite-fitness-sub004/internal/domain"
)

// ErrInvalidConversion is returned when the time factor for a modality pair
// is missing or degenerate.
var ErrInvalidConversion = errors.New("invalid time conversion factor")

const (
	minWorkSeconds     = 10.0
	minRestSeconds     = 5.0
	minBlockMinutes    = 1.0
	maxRestFactor      = 1.2
	correctionDeadband = 0.05
	correctionFloor    = 0.8
	correctionCeiling  = 1.2
)

// ScaleCandidate rescales a catalog template so its training load matches the
// target. One bounded corrective pass may follow the initial scaling; the
// corrected version is kept only if it strictly improves load variance.
func ScaleCandidate(
	template domain.WorkoutTemplate,
	analysis domain.SessionAnalysis,
	target domain.TargetLoad,
	sourceModality, targetModality domain.Modality,
	compat Compatibility,
) (domain.ScaledCandidate, error) {
	factor, err := TimeFactor(sourceModality, targetModality, analysis.PrimaryZone)
	if err != nil {
		return domain.ScaledCandidate{}, fmt.Errorf("%w: %v", ErrInvalidConversion, err)
	}
	if factor <= 0 || math.IsNaN(factor) || math.IsInf(factor, 0) {
		return domain.ScaledCandidate{}, fmt.Errorf("%w: factor %v for %s to %s", ErrInvalidConversion, factor, sourceModality, targetModality)
	}

	scaled := applyScaling(template.Structure, factor)
	calcLoad, variance := measureScaled(scaled, targetModality, sourceModality, target.TotalLoad)

	appliedFactor := factor
	if calcLoad > 0 {
		correction := target.TotalLoad / calcLoad
		if math.Abs(correction-1) > correctionDeadband {
			correction = math.Max(correctionFloor, math.Min(correctionCeiling, correction))
			corrected := applyScaling(template.Structure, factor*correction)
			correctedLoad, correctedVariance := measureScaled(corrected, targetModality, sourceModality, target.TotalLoad)
			if correctedVariance < variance {
				scaled = corrected
				calcLoad = correctedLoad
				variance = correctedVariance
				appliedFactor = factor * correction
			}
		}
	}

	duration := structureMinutes(scaled)
	confidence := CalculateConfidence(ConfidenceParams{
		AdaptationBonus: compat.ConfidenceBonus,
		Zone:            analysis.PrimaryZone,
		DurationMinutes: duration,
		LoadVariance:    variance,
	})

	return domain.ScaledCandidate{
		Template:               template,
		ScaledDuration:         duration,
		ScaledStructure:        scaled,
		ScalingFactor:          appliedFactor,
		CalculatedLoad:         calcLoad,
		LoadVariance:           variance,
		LoadVariancePercentage: variance * 100,
		ConfidenceScore:        confidence,
		AdaptationMatch:        compat.Match,
		Warnings:               durationWarnings(scaled),
		IsSubstitution:         true,
	}, nil
}

// durationWarnings flags scaled zones whose accumulated minutes fall outside
// the per-zone sensible range. Warnings annotate the candidate; they never
// drop it.
func durationWarnings(structure []domain.Block) []string {
	perZone := map[domain.Zone]float64{}
	for _, block := range structure {
		if block.BlockType != domain.BlockMain {
			continue
		}
		perZone[block.Intensity] += block.WorkMinutes()
	}

	var warnings []string
	for _, zone := range domain.ZoneOrder {
		minutes, ok := perZone[zone]
		if !ok {
			continue
		}
		if check := ValidateDurationLimits(zone, minutes); !check.Valid {
			warnings = append(warnings, fmt.Sprintf("scaled %s time: %s", zone, check.Reason))
		}
	}
	return warnings
}

// applyScaling builds a new structure with main blocks rescaled by factor.
// Warmup and cooldown blocks pass through unchanged. Blocks are copied, never
// mutated in place.
func applyScaling(structure []domain.Block, factor float64) []domain.Block {
	scaled := make([]domain.Block, 0, len(structure))
	for _, block := range structure {
		if block.BlockType != domain.BlockMain {
			scaled = append(scaled, block)
			continue
		}
		next := block
		if block.IsInterval() {
			next.WorkDurationS = math.Max(minWorkSeconds, math.Floor(block.WorkDurationS*factor))
			if block.RestDurationS > 0 {
				next.RestDurationS = math.Max(minRestSeconds, math.Floor(block.RestDurationS*math.Min(maxRestFactor, factor)))
			}
		} else {
			next.DurationMinutes = math.Max(minBlockMinutes, math.Floor(block.DurationMinutes*factor))
		}
		scaled = append(scaled, next)
	}
	return scaled
}

// measureScaled computes the load of a scaled structure expressed in the
// source modality's units, plus its variance against the target load.
func measureScaled(structure []domain.Block, targetModality, sourceModality domain.Modality, targetLoad float64) (load, variance float64) {
	scaledSession := domain.PlannedSession{
		Modality:        targetModality,
		DurationMinutes: structureMinutes(structure),
		Structure:       structure,
	}
	computed, err := ComputeLoad(scaledSession)
	if err != nil {
		// A structure with no main blocks has no measurable load; report it
		// as maximally divergent rather than failing the candidate outright.
		return 0, 1
	}
	load = computed.TotalLoad * LoadFactor(targetModality, sourceModality)
	variance = math.Abs(load-targetLoad) / math.Max(targetLoad, 1)
	return load, variance
}

func structureMinutes(structure []domain.Block) float64 {
	var total float64
	for _, block := range structure {
		total += block.TotalMinutes()
	}
	return total
}
