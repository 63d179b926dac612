package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/kemurphy3/ignite-fitness-sub004/internal/domain"
	"github.com/kemurphy3/ignite-fitness-sub004/internal/engine"
	"github.com/kemurphy3/ignite-fitness-sub004/internal/service"

	"github.com/gin-gonic/gin"
)

// SubstitutionHandler holds the substitution service dependency.
type SubstitutionHandler struct {
	substitutionService service.SubstitutionService
}

// NewSubstitutionHandler creates a new SubstitutionHandler.
func NewSubstitutionHandler(substitutionService service.SubstitutionService) *SubstitutionHandler {
	return &SubstitutionHandler{substitutionService: substitutionService}
}

// --- DTOs for API (Data Transfer Objects) ---

// BlockRequest defines one block of a structured session or template.
type BlockRequest struct {
	BlockType       string  `json:"block_type" binding:"required,oneof=warmup main cooldown"`
	Intensity       string  `json:"intensity" binding:"required"`
	DurationMinutes float64 `json:"duration_minutes,omitempty"`
	Sets            int     `json:"sets,omitempty"`
	WorkDurationS   float64 `json:"work_duration_s,omitempty"`
	RestDurationS   float64 `json:"rest_duration_s,omitempty"`
}

// PlannedSessionRequest defines the planned session in the request body.
type PlannedSessionRequest struct {
	Modality        string         `json:"modality" binding:"required"`
	DurationMinutes float64        `json:"duration_minutes"`
	Adaptation      string         `json:"adaptation"`
	Intensity       string         `json:"intensity,omitempty"`
	Structure       []BlockRequest `json:"structure,omitempty"`
	RPE             float64        `json:"rpe,omitempty"`
}

// UserContextRequest defines caller constraints and guardrail passthrough.
type UserContextRequest struct {
	Equipment            []string                 `json:"equipment,omitempty"`
	AvailableTimeMinutes float64                  `json:"available_time_minutes,omitempty"`
	UserProfile          map[string]interface{}   `json:"user_profile,omitempty"`
	RecentSessions       []map[string]interface{} `json:"recent_sessions,omitempty"`
	Readiness            map[string]interface{}   `json:"readiness,omitempty"`
}

// SubstitutionRequest is the POST /substitutions body.
type SubstitutionRequest struct {
	PlannedSession PlannedSessionRequest `json:"planned_session" binding:"required"`
	TargetModality string                `json:"target_modality" binding:"required"`
	UserContext    UserContextRequest    `json:"user_context"`
}

// CandidateResponse is the DTO for one ranked substitution.
type CandidateResponse struct {
	TemplateID             string         `json:"template_id"`
	Name                   string         `json:"name"`
	Modality               string         `json:"modality"`
	Category               string         `json:"category,omitempty"`
	Adaptation             string         `json:"adaptation"`
	EquipmentRequired      []string       `json:"equipment_required,omitempty"`
	TimeRequiredMinutes    float64        `json:"time_required_minutes"`
	ScaledDuration         float64        `json:"scaled_duration"`
	ScaledStructure        []domain.Block `json:"scaled_structure"`
	ScalingFactor          float64        `json:"scaling_factor"`
	CalculatedLoad         float64        `json:"calculated_load"`
	LoadVariance           float64        `json:"load_variance"`
	LoadVariancePercentage float64        `json:"load_variance_percentage"`
	ConfidenceScore        float64        `json:"confidence_score"`
	AdaptationMatch        string         `json:"adaptation_match"`
	QualityScore           float64        `json:"quality_score"`
	GuardrailStatus        string         `json:"guardrail_status"`
	Warnings               []string       `json:"warnings,omitempty"`
	Reasoning              string         `json:"reasoning"`
	IsSubstitution         bool           `json:"is_substitution"`
}

// SubstitutionMetadata describes how the suggestions were produced.
type SubstitutionMetadata struct {
	RequestID  string  `json:"request_id,omitempty"`
	Count      int     `json:"count"`
	TargetLoad float64 `json:"target_load"`
	LoadMethod string  `json:"load_method"`
	Confidence float64 `json:"load_confidence"`
	ElapsedMS  int64   `json:"elapsed_ms"`
}

// SubstitutionResponse is the 200 envelope.
type SubstitutionResponse struct {
	Success       bool                 `json:"success"`
	Substitutions []CandidateResponse  `json:"substitutions"`
	Metadata      SubstitutionMetadata `json:"metadata"`
}

func mapBlock(b BlockRequest) domain.Block {
	return domain.Block{
		BlockType:       domain.BlockType(b.BlockType),
		Intensity:       domain.NormalizeZone(b.Intensity),
		DurationMinutes: b.DurationMinutes,
		Sets:            b.Sets,
		WorkDurationS:   b.WorkDurationS,
		RestDurationS:   b.RestDurationS,
	}
}

func mapSession(req PlannedSessionRequest) domain.PlannedSession {
	session := domain.PlannedSession{
		Modality:        domain.Modality(req.Modality),
		DurationMinutes: req.DurationMinutes,
		Adaptation:      req.Adaptation,
		RPE:             req.RPE,
	}
	if req.Intensity != "" {
		session.Intensity = domain.NormalizeZone(req.Intensity)
	}
	for _, b := range req.Structure {
		session.Structure = append(session.Structure, mapBlock(b))
	}
	return session
}

func mapUserContext(req UserContextRequest) domain.UserContext {
	return domain.UserContext{
		Equipment:            req.Equipment,
		AvailableTimeMinutes: req.AvailableTimeMinutes,
		UserProfile:          req.UserProfile,
		RecentSessions:       req.RecentSessions,
		Readiness:            req.Readiness,
	}
}

// MapCandidateToResponse converts a domain.ScaledCandidate to its DTO.
func MapCandidateToResponse(c domain.ScaledCandidate) CandidateResponse {
	return CandidateResponse{
		TemplateID:             c.Template.TemplateID,
		Name:                   c.Template.Name,
		Modality:               string(c.Template.Modality),
		Category:               c.Template.Category,
		Adaptation:             c.Template.Adaptation,
		EquipmentRequired:      c.Template.EquipmentRequired,
		TimeRequiredMinutes:    c.Template.TimeRequiredMinutes,
		ScaledDuration:         c.ScaledDuration,
		ScaledStructure:        c.ScaledStructure,
		ScalingFactor:          c.ScalingFactor,
		CalculatedLoad:         c.CalculatedLoad,
		LoadVariance:           c.LoadVariance,
		LoadVariancePercentage: c.LoadVariancePercentage,
		ConfidenceScore:        c.ConfidenceScore,
		AdaptationMatch:        string(c.AdaptationMatch),
		QualityScore:           c.QualityScore,
		GuardrailStatus:        string(c.GuardrailStatus),
		Warnings:               c.Warnings,
		Reasoning:              c.Reasoning,
		IsSubstitution:         c.IsSubstitution,
	}
}

// --- Handler Methods ---

// SuggestSubstitutions handles POST /substitutions.
func (h *SubstitutionHandler) SuggestSubstitutions(c *gin.Context) {
	var req SubstitutionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	started := time.Now()
	result, err := h.substitutionService.SuggestSubstitutions(
		c.Request.Context(),
		mapSession(req.PlannedSession),
		domain.Modality(req.TargetModality),
		mapUserContext(req.UserContext),
	)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidModality):
			abortWithError(c, http.StatusBadRequest, err.Error())
		case errors.Is(err, service.ErrNoSuitableTemplates):
			abortWithError(c, http.StatusNotFound, err.Error())
		case errors.Is(err, service.ErrSafetyBlocked):
			abortWithError(c, http.StatusUnprocessableEntity, err.Error())
		case errors.Is(err, engine.ErrInsufficientData), errors.Is(err, engine.ErrInvalidConversion):
			abortWithError(c, http.StatusInternalServerError, err.Error())
		default:
			abortWithError(c, http.StatusInternalServerError, "Failed to suggest substitutions.")
		}
		return
	}

	substitutions := make([]CandidateResponse, len(result.Substitutions))
	for i, candidate := range result.Substitutions {
		substitutions[i] = MapCandidateToResponse(candidate)
	}

	c.JSON(http.StatusOK, SubstitutionResponse{
		Success:       true,
		Substitutions: substitutions,
		Metadata: SubstitutionMetadata{
			RequestID:  getRequestID(c),
			Count:      len(substitutions),
			TargetLoad: result.TargetLoad.TotalLoad,
			LoadMethod: string(result.TargetLoad.MethodUsed),
			Confidence: result.TargetLoad.Confidence,
			ElapsedMS:  time.Since(started).Milliseconds(),
		},
	})
}

// GetEquivalenceRules handles GET /substitutions/rules. It serves the
// canonical conversion tables so clients can display the assumptions behind
// a suggestion.
func (h *SubstitutionHandler) GetEquivalenceRules(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"rules":   engine.Snapshot(),
	})
}
