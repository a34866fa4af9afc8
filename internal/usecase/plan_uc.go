package usecase

import (
	"fmt"
	"sort"

	"spectux-billing/internal/domain"
	"spectux-billing/internal/domain/model"
)

// PlanUseCase is the single authority mapping a plan key to billing
// parameters. Every component that needs an amount, interval, or start-date
// rule goes through Resolve; nothing else re-encodes the catalog.
type PlanUseCase struct {
	plans map[string]*model.PlanDefinition
}

// NewPlanUseCase builds the resolver from the configured catalog. Duplicate
// keys are a configuration error.
func NewPlanUseCase(plans []*model.PlanDefinition) (*PlanUseCase, error) {
	m := make(map[string]*model.PlanDefinition, len(plans))
	for _, p := range plans {
		if _, ok := m[p.Key]; ok {
			return nil, fmt.Errorf("%w: duplicate plan key %q", domain.ErrInvalidArgument, p.Key)
		}
		m[p.Key] = p
	}
	return &PlanUseCase{plans: m}, nil
}

// Resolve returns the definition for key, or domain.ErrNotFound. No side
// effects, no network access; callers rely on this to reject unknown plans
// before any provider call is made.
func (uc *PlanUseCase) Resolve(key string) (*model.PlanDefinition, error) {
	p, ok := uc.plans[key]
	if !ok {
		return nil, fmt.Errorf("%w: plan %q", domain.ErrNotFound, key)
	}
	return p, nil
}

// Keys lists the configured plan keys in stable order.
func (uc *PlanUseCase) Keys() []string {
	keys := make([]string, 0, len(uc.plans))
	for k := range uc.plans {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
