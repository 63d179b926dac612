package engine

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/kemurphy3/ignite-fitness-sub004/internal/domain"
)

const (
	qualityBase          = 50.0
	varianceWeight       = 40.0
	varianceCap          = 0.25
	confidenceWeight     = 30.0
	bonusExactAdaptation = 20.0
	bonusCompatible      = 10.0
	bonusNoEquipment     = 5.0
	bonusGoodDuration    = 5.0
	qualityCeiling       = 100.0
)

// QualityScore combines variance, confidence, and fit bonuses into a 0-100
// score. The raw formula can exceed 100 on a perfect match, so it is capped;
// ties introduced by the cap are resolved by the ranking tie-break.
func QualityScore(c domain.ScaledCandidate) float64 {
	score := qualityBase
	score += varianceWeight * (1 - math.Min(c.LoadVariance, varianceCap))
	score += confidenceWeight * c.ConfidenceScore
	switch c.AdaptationMatch {
	case domain.MatchExact:
		score += bonusExactAdaptation
	case domain.MatchCompatible:
		score += bonusCompatible
	}
	if len(c.Template.EquipmentRequired) == 0 {
		score += bonusNoEquipment
	}
	if c.ScaledDuration >= 15 && c.ScaledDuration <= 120 {
		score += bonusGoodDuration
	}
	return math.Min(score, qualityCeiling)
}

// RankCandidates scores and sorts candidates, returning at most max results.
// Ordering is deterministic: quality descending, then load variance
// ascending, then template ID.
func RankCandidates(candidates []domain.ScaledCandidate, max int) []domain.ScaledCandidate {
	ranked := make([]domain.ScaledCandidate, len(candidates))
	copy(ranked, candidates)
	for i := range ranked {
		ranked[i].QualityScore = QualityScore(ranked[i])
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].QualityScore != ranked[j].QualityScore {
			return ranked[i].QualityScore > ranked[j].QualityScore
		}
		if ranked[i].LoadVariance != ranked[j].LoadVariance {
			return ranked[i].LoadVariance < ranked[j].LoadVariance
		}
		return ranked[i].Template.TemplateID < ranked[j].Template.TemplateID
	})
	if max > 0 && len(ranked) > max {
		ranked = ranked[:max]
	}
	for i := range ranked {
		ranked[i].Reasoning = BuildReasoning(ranked[i])
	}
	return ranked
}

// BuildReasoning produces the human-readable justification for one candidate:
// duration change, load closeness, adaptation fit, equipment needs, and a
// confidence verdict, joined into a short paragraph.
func BuildReasoning(c domain.ScaledCandidate) string {
	var sentences []string

	original := c.Template.TimeRequiredMinutes
	if original > 0 {
		pct := (c.ScaledDuration - original) / original * 100
		if math.Abs(pct) >= 10 {
			direction := "longer"
			if pct < 0 {
				direction = "shorter"
			}
			sentences = append(sentences, fmt.Sprintf("Duration adjusted from %.0f to %.0f minutes (%.0f%% %s)", original, c.ScaledDuration, math.Abs(pct), direction))
		} else {
			sentences = append(sentences, "Similar duration to the original workout")
		}
	}

	pctVar := c.LoadVariancePercentage
	switch {
	case pctVar <= 5:
		sentences = append(sentences, fmt.Sprintf("Training load is equivalent to your planned session (%.1f%% difference)", pctVar))
	case pctVar <= 10:
		sentences = append(sentences, fmt.Sprintf("Training load is very similar to your planned session (%.1f%% difference)", pctVar))
	default:
		sentences = append(sentences, fmt.Sprintf("Training load is comparable to your planned session (%.1f%% difference)", pctVar))
	}

	if c.AdaptationMatch == domain.MatchExact {
		sentences = append(sentences, fmt.Sprintf("Targets the same training adaptation (%s)", NormalizeAdaptation(c.Template.Adaptation)))
	} else {
		sentences = append(sentences, fmt.Sprintf("Targets a compatible training adaptation (%s)", NormalizeAdaptation(c.Template.Adaptation)))
	}

	if len(c.Template.EquipmentRequired) > 0 {
		sentences = append(sentences, "Requires: "+strings.Join(c.Template.EquipmentRequired, ", "))
	} else {
		sentences = append(sentences, "Needs minimal equipment")
	}

	switch {
	case c.ConfidenceScore >= 0.9:
		sentences = append(sentences, "High confidence match")
	case c.ConfidenceScore >= 0.75:
		sentences = append(sentences, "Good match for your session")
	default:
		sentences = append(sentences, "Reasonable alternative")
	}

	return strings.Join(sentences, ". ") + "."
}
