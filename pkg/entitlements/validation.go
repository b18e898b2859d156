package entitlements

import (
	"context"

	"github.com/sirupsen/logrus"
)

// ValidationGate decides whether a user's premium role entitlements
// require an active paid subscription.
//
// Its fail direction is the opposite of the classifier's: a failed
// sub-query inside classification yields fewer privileges, but a failure
// of the gate itself yields ShouldValidate = true, so an ambiguous state
// can never silently grant premium access.
type ValidationGate struct {
	classifier *Classifier
	log        *logrus.Logger
}

// NewValidationGate creates a new ValidationGate
func NewValidationGate(classifier *Classifier, log *logrus.Logger) *ValidationGate {
	if log == nil {
		log = logrus.New()
	}
	return &ValidationGate{classifier: classifier, log: log}
}

// Decide projects the user's role classification into a validation
// decision. It never returns an error; orchestration failures produce
// the conservative "validation required" decision.
func (g *ValidationGate) Decide(ctx context.Context, userID string) *ValidationDecision {
	rc, err := g.classifier.Classify(ctx, userID)
	if err != nil {
		g.log.WithError(err).WithField("user_id", userID).
			Error("role classification failed, requiring subscription validation")
		return &ValidationDecision{
			UserID:         userID,
			ShouldValidate: true,
			Reason:         "classification failed, unknown state requires validation: " + err.Error(),
		}
	}

	decision := &ValidationDecision{
		UserID:         userID,
		ShouldValidate: rc.RequiresSubscriptionValidation,
		Reason:         rc.Reason,
	}
	for _, admin := range rc.AdministrativeRoles {
		decision.ExemptRoles = append(decision.ExemptRoles, admin.Role)
	}
	for _, ur := range rc.UserRoles {
		decision.EnforcedRoles = append(decision.EnforcedRoles, ur.Role)
	}

	return decision
}
