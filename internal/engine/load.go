package engine

import (
	"errors"
	"math"

	"github.com/kemurphy3/ignite-fitness-sub004/internal/domain"
)

// ErrInsufficientData is returned when no load method can be applied to a
// session.
var ErrInsufficientData = errors.New("insufficient data to compute training load")

// zoneLoadMultipliers weight minutes at each zone into load units.
var zoneLoadMultipliers = map[domain.Zone]float64{
	domain.ZoneZ1: 1,
	domain.ZoneZ2: 2,
	domain.ZoneZ3: 4,
	domain.ZoneZ4: 7,
	domain.ZoneZ5: 10,
}

type zoneTable map[domain.Zone]float64

// metTable holds approximate MET values per modality and zone, used as the
// lowest-confidence fallback when no zone minutes are available.
var metTable = map[domain.Modality]zoneTable{
	domain.ModalityRunning:  {domain.ZoneZ1: 6.0, domain.ZoneZ2: 8.0, domain.ZoneZ3: 10.0, domain.ZoneZ4: 12.5, domain.ZoneZ5: 14.5},
	domain.ModalityCycling:  {domain.ZoneZ1: 4.0, domain.ZoneZ2: 6.8, domain.ZoneZ3: 8.5, domain.ZoneZ4: 10.5, domain.ZoneZ5: 12.5},
	domain.ModalitySwimming: {domain.ZoneZ1: 6.0, domain.ZoneZ2: 8.3, domain.ZoneZ3: 10.0, domain.ZoneZ4: 11.5, domain.ZoneZ5: 13.5},
}

const metDurationScale = 0.8

// ComputeLoad converts a session into a single comparable load scalar.
// Methods are tried in a fixed priority order and the first applicable one
// wins: RPE x duration, then zone minutes x multipliers, then the MET
// fallback. The RPE-first ordering is part of the contract; callers depend on
// method_used and must not see it reordered.
func ComputeLoad(session domain.PlannedSession) (domain.TargetLoad, error) {
	if session.RPE > 0 && session.DurationMinutes > 0 {
		rpe := math.Max(1, math.Min(10, session.RPE))
		return domain.TargetLoad{
			TotalLoad:  rpe * session.DurationMinutes,
			MethodUsed: domain.MethodRPEDuration,
			Confidence: 0.75,
		}, nil
	}

	analysis := AnalyzeSession(session)
	if total := distributionMinutes(analysis.ZoneDistribution); total > 0 {
		var load float64
		for _, zone := range domain.ZoneOrder {
			load += analysis.ZoneDistribution[zone] * zoneLoadMultipliers[zone]
		}
		return domain.TargetLoad{
			TotalLoad:  load,
			MethodUsed: domain.MethodZoneRPE,
			Confidence: 0.85,
		}, nil
	}

	if session.Intensity != "" && session.DurationMinutes > 0 {
		mets, ok := metTable[session.Modality]
		if ok {
			zone := domain.NormalizeZone(string(session.Intensity))
			return domain.TargetLoad{
				TotalLoad:  mets[zone] * session.DurationMinutes * metDurationScale,
				MethodUsed: domain.MethodMETMinutes,
				Confidence: 0.65,
			}, nil
		}
	}

	return domain.TargetLoad{}, ErrInsufficientData
}

func distributionMinutes(dist map[domain.Zone]float64) float64 {
	var total float64
	for _, minutes := range dist {
		total += minutes
	}
	return total
}
