package guardrail

import (
	"context"

	"github.com/kemurphy3/ignite-fitness-sub004/internal/domain"
)

// Manager is the contract of the external safety policy engine. The engine
// consumes only this contract; the rule set behind it is not ours.
type Manager interface {
	// ValidateWorkout asks the policy engine whether a scaled candidate is
	// safe for this athlete given their profile, recent sessions, and
	// readiness data.
	ValidateWorkout(
		ctx context.Context,
		workout domain.ScaledCandidate,
		userProfile map[string]interface{},
		recentSessions []map[string]interface{},
		readiness map[string]interface{},
	) (*domain.GuardrailResult, error)
}
