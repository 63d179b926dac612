package service

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/kemurphy3/ignite-fitness-sub004/internal/domain"
	"github.com/kemurphy3/ignite-fitness-sub004/internal/engine"
	"github.com/kemurphy3/ignite-fitness-sub004/internal/guardrail"
	"github.com/kemurphy3/ignite-fitness-sub004/internal/repository"
)

// --- Error Definitions ---
var (
	ErrInvalidModality     = errors.New("invalid or missing modality")
	ErrNoSuitableTemplates = errors.New("no suitable workouts found for substitution")
	ErrSafetyBlocked       = errors.New("all candidate workouts were blocked by safety guardrails")
)

// SubstitutionResult is the outcome of one suggestion request: the ranked
// candidates plus the target load they were matched against.
type SubstitutionResult struct {
	Substitutions []domain.ScaledCandidate
	TargetLoad    domain.TargetLoad
}

// --- Service Interface ---
type SubstitutionService interface {
	// SuggestSubstitutions runs the full pipeline: analyze the planned
	// session, compute its load, find catalog candidates in the target
	// modality, scale each to match, validate against guardrails, and rank
	// the survivors.
	SuggestSubstitutions(ctx context.Context, session domain.PlannedSession, targetModality domain.Modality, userCtx domain.UserContext) (*SubstitutionResult, error)
}

// Options tune the substitution pipeline.
type Options struct {
	MaxSuggestions       int
	DefaultAvailableTime float64
	// FailOpenOnGuardrailError keeps a candidate (with a warning) when the
	// guardrail call errors, instead of dropping it. Safety-relevant; the
	// default configuration enables it to match the platform's behavior.
	FailOpenOnGuardrailError bool
}

// --- Service Implementation ---

// substitutionService implements SubstitutionService. It is stateless across
// calls; every invocation is independent and safe to run concurrently.
type substitutionService struct {
	catalog    repository.WorkoutCatalog
	guardrails guardrail.Manager // nil when no policy engine is configured
	opts       Options
}

// NewSubstitutionService creates a new substitution service. guardrails may
// be nil; candidates are then passed through with an "unavailable" warning.
func NewSubstitutionService(catalog repository.WorkoutCatalog, guardrails guardrail.Manager, opts Options) SubstitutionService {
	if opts.MaxSuggestions <= 0 {
		opts.MaxSuggestions = 3
	}
	if opts.DefaultAvailableTime <= 0 {
		opts.DefaultAvailableTime = 180
	}
	return &substitutionService{
		catalog:    catalog,
		guardrails: guardrails,
		opts:       opts,
	}
}

func (s *substitutionService) SuggestSubstitutions(ctx context.Context, session domain.PlannedSession, targetModality domain.Modality, userCtx domain.UserContext) (*SubstitutionResult, error) {
	sourceModality, err := domain.ParseModality(string(session.Modality))
	if err != nil {
		return nil, fmt.Errorf("%w: planned session: %v", ErrInvalidModality, err)
	}
	target, err := domain.ParseModality(string(targetModality))
	if err != nil {
		return nil, fmt.Errorf("%w: target: %v", ErrInvalidModality, err)
	}

	analysis := engine.AnalyzeSession(session)

	targetLoad, err := engine.ComputeLoad(session)
	if err != nil {
		return nil, err
	}

	candidates, err := s.findCandidates(ctx, target, session.Adaptation, userCtx)
	if err != nil {
		return nil, err
	}

	var survivors []domain.ScaledCandidate
	blocked := 0
	for _, candidate := range candidates {
		scaled, err := engine.ScaleCandidate(candidate.template, analysis, targetLoad, sourceModality, target, candidate.compat)
		if err != nil {
			return nil, err
		}

		kept, ok := s.applyGuardrails(ctx, scaled, userCtx)
		if !ok {
			blocked++
			continue
		}
		survivors = append(survivors, kept)
	}

	if len(survivors) == 0 {
		if blocked > 0 {
			return nil, ErrSafetyBlocked
		}
		return nil, ErrNoSuitableTemplates
	}

	return &SubstitutionResult{
		Substitutions: engine.RankCandidates(survivors, s.opts.MaxSuggestions),
		TargetLoad:    targetLoad,
	}, nil
}

// scoredTemplate pairs a catalog template with its adaptation compatibility,
// so the scaler does not re-run the check.
type scoredTemplate struct {
	template domain.WorkoutTemplate
	compat   engine.Compatibility
}

// findCandidates filters the catalog for the target modality by adaptation
// compatibility, equipment availability, and the caller's time budget.
func (s *substitutionService) findCandidates(ctx context.Context, target domain.Modality, sourceAdaptation string, userCtx domain.UserContext) ([]scoredTemplate, error) {
	templates, err := s.catalog.GetByModality(ctx, target)
	if err != nil {
		return nil, fmt.Errorf("catalog lookup for %s: %w", target, err)
	}

	availableTime := userCtx.AvailableTimeMinutes
	if availableTime <= 0 {
		availableTime = s.opts.DefaultAvailableTime
	}

	var candidates []scoredTemplate
	for _, template := range templates {
		compat := engine.CheckAdaptationCompatibility(sourceAdaptation, template.Adaptation)
		if !compat.Compatible {
			continue
		}
		if !userCtx.HasEquipment(template.EquipmentRequired) {
			continue
		}
		if template.TimeRequiredMinutes > availableTime {
			continue
		}
		candidates = append(candidates, scoredTemplate{template: template, compat: compat})
	}

	if len(candidates) == 0 {
		return nil, fmt.Errorf("%w: modality %s", ErrNoSuitableTemplates, target)
	}
	return candidates, nil
}

// applyGuardrails runs the external safety check on one candidate. Guardrail
// checks are issued sequentially, one candidate at a time. Returns the
// candidate (possibly annotated with warnings) and whether it survives.
func (s *substitutionService) applyGuardrails(ctx context.Context, candidate domain.ScaledCandidate, userCtx domain.UserContext) (domain.ScaledCandidate, bool) {
	if s.guardrails == nil {
		candidate.GuardrailStatus = domain.GuardrailUnavailable
		candidate.Warnings = append(candidate.Warnings, "guardrail check unavailable")
		return candidate, true
	}

	result, err := s.guardrails.ValidateWorkout(ctx, candidate, userCtx.UserProfile, userCtx.RecentSessions, userCtx.Readiness)
	if err != nil {
		if s.opts.FailOpenOnGuardrailError {
			log.Printf("WARN: guardrail check failed for template %s, failing open: %v", candidate.Template.TemplateID, err)
			candidate.GuardrailStatus = domain.GuardrailUnavailable
			candidate.Warnings = append(candidate.Warnings, "guardrail check unavailable")
			return candidate, true
		}
		log.Printf("WARN: guardrail check failed for template %s, dropping candidate: %v", candidate.Template.TemplateID, err)
		return candidate, false
	}

	if !result.IsAllowed {
		log.Printf("INFO: guardrails blocked template %s: %v", candidate.Template.TemplateID, result.Blocks)
		return candidate, false
	}

	candidate.GuardrailStatus = domain.GuardrailPassed
	candidate.Warnings = append(candidate.Warnings, result.Warnings...)
	return candidate, true
}
