package domain

// LoadMethod identifies which formula produced a TargetLoad.
type LoadMethod string

const (
	MethodRPEDuration LoadMethod = "RPE_Duration"
	MethodZoneRPE     LoadMethod = "Zone_RPE"
	MethodMETMinutes  LoadMethod = "MET_Minutes"
)

// TargetLoad is the training stress the substitution must reproduce.
// Computed fresh per request; never persisted.
type TargetLoad struct {
	TotalLoad  float64    `json:"total_load"`
	MethodUsed LoadMethod `json:"method_used"`
	Confidence float64    `json:"confidence"`
}

// AdaptationMatch describes how well a candidate's adaptation lines up with
// the planned session's.
type AdaptationMatch string

const (
	MatchExact      AdaptationMatch = "exact"
	MatchCompatible AdaptationMatch = "compatible"
)

// GuardrailStatus records the outcome of the safety check on a candidate.
type GuardrailStatus string

const (
	GuardrailPassed      GuardrailStatus = "passed"
	GuardrailBlocked     GuardrailStatus = "blocked"
	GuardrailUnavailable GuardrailStatus = "unavailable"
)

// UserContext carries the caller's constraints and the passthrough data the
// guardrail policy engine needs.
type UserContext struct {
	Equipment            []string                 `json:"equipment,omitempty"`
	AvailableTimeMinutes float64                  `json:"available_time_minutes,omitempty"`
	UserProfile          map[string]interface{}   `json:"user_profile,omitempty"`
	RecentSessions       []map[string]interface{} `json:"recent_sessions,omitempty"`
	Readiness            map[string]interface{}   `json:"readiness,omitempty"`
}

// HasEquipment reports whether every item in required is available.
// An empty requirement list is always satisfied.
func (u UserContext) HasEquipment(required []string) bool {
	if len(required) == 0 {
		return true
	}
	have := make(map[string]bool, len(u.Equipment))
	for _, e := range u.Equipment {
		have[e] = true
	}
	for _, r := range required {
		if !have[r] {
			return false
		}
	}
	return true
}

// GuardrailResult is the external policy engine's verdict on one candidate.
type GuardrailResult struct {
	IsAllowed       bool                     `json:"isAllowed"`
	Warnings        []string                 `json:"warnings,omitempty"`
	AutoAdjustments []map[string]interface{} `json:"autoAdjustments,omitempty"`
	Blocks          []string                 `json:"blocks,omitempty"`
}

// ScaledCandidate is one ranked substitution proposal. Built per request per
// candidate and discarded after the response.
type ScaledCandidate struct {
	Template               WorkoutTemplate `json:"template"`
	ScaledDuration         float64         `json:"scaled_duration"`
	ScaledStructure        []Block         `json:"scaled_structure"`
	ScalingFactor          float64         `json:"scaling_factor"`
	CalculatedLoad         float64         `json:"calculated_load"`
	LoadVariance           float64         `json:"load_variance"`
	LoadVariancePercentage float64         `json:"load_variance_percentage"`
	ConfidenceScore        float64         `json:"confidence_score"`
	AdaptationMatch        AdaptationMatch `json:"adaptation_match"`
	QualityScore           float64         `json:"quality_score"`
	GuardrailStatus        GuardrailStatus `json:"guardrail_status"`
	Warnings               []string        `json:"warnings,omitempty"`
	Reasoning              string          `json:"reasoning"`
	IsSubstitution         bool            `json:"is_substitution"`
}
