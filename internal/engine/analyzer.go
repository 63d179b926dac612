package engine

import (
	"github.com/kemurphy3/ignite-fitness-sub004/internal/domain"
)

// AnalyzeSession turns a planned session into a normalized analysis. It is
// best-effort: there are no error paths, only progressively weaker defaults.
//
// Zone minutes accumulate from main-type blocks only; warmup and cooldown do
// not shape the primary zone. Interval blocks contribute work time, not rest.
func AnalyzeSession(session domain.PlannedSession) domain.SessionAnalysis {
	analysis := domain.SessionAnalysis{
		ZoneDistribution: map[domain.Zone]float64{},
	}

	if len(session.Structure) > 0 {
		for _, block := range session.Structure {
			analysis.TotalMinutes += block.TotalMinutes()
			if block.BlockType != domain.BlockMain {
				continue
			}
			analysis.ZoneDistribution[block.Intensity] += block.WorkMinutes()
		}
	} else if session.Intensity != "" {
		zone := domain.NormalizeZone(string(session.Intensity))
		analysis.ZoneDistribution[zone] = session.DurationMinutes
		analysis.TotalMinutes = session.DurationMinutes
	}

	analysis.PrimaryZone = primaryZone(analysis.ZoneDistribution)
	if len(analysis.ZoneDistribution) == 0 && session.Intensity != "" {
		// Structure without main blocks: fall back to the flat intensity.
		analysis.PrimaryZone = domain.NormalizeZone(string(session.Intensity))
		analysis.IntensityProfile = profileFor(analysis.PrimaryZone)
		return analysis
	}
	analysis.IntensityProfile = profileFor(analysis.PrimaryZone)
	return analysis
}

// primaryZone picks the zone with the most accumulated minutes. Ties go to
// the lower-numbered zone so repeated calls stay deterministic.
func primaryZone(dist map[domain.Zone]float64) domain.Zone {
	best := domain.ZoneZ2
	bestMinutes := -1.0
	for _, zone := range domain.ZoneOrder {
		minutes, ok := dist[zone]
		if !ok {
			continue
		}
		if minutes > bestMinutes {
			best = zone
			bestMinutes = minutes
		}
	}
	return best
}

func profileFor(zone domain.Zone) domain.IntensityProfile {
	switch zone {
	case domain.ZoneZ4, domain.ZoneZ5:
		return domain.ProfileHigh
	case domain.ZoneZ3:
		return domain.ProfileModerateHigh
	default:
		return domain.ProfileModerate
	}
}
