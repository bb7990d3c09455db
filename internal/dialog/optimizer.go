package dialog

import "context"

// Optimizer selects what conversation context to hand the provider while
// staying inside a token budget.
type Optimizer struct {
	store     *ContextStore
	estimator TokenEstimator
	config    Config
}

// NewOptimizer creates an Optimizer over the given store. A nil estimator
// defaults to WordEstimator.
func NewOptimizer(store *ContextStore, estimator TokenEstimator, cfg Config) *Optimizer {
	if estimator == nil {
		estimator = WordEstimator{}
	}
	return &Optimizer{
		store:     store,
		estimator: estimator,
		config:    cfg.withDefaults(),
	}
}

// Optimized returns the context slice for the user under the given budget.
// A budget <= 0 uses the configured default.
//
// Selection, cheapest sufficient representation first:
//  1. empty window → empty
//  2. window fits the budget → the full window
//  3. over budget, summary available → a single system turn carrying it
//  4. over budget, no summary → the newest TailTurns turns
func (o *Optimizer) Optimized(ctx context.Context, userID string, budget int) []Turn {
	if budget <= 0 {
		budget = o.config.TokenBudget
	}

	window := o.store.Get(ctx, userID, o.config.WindowSize/2)
	if len(window) == 0 {
		return nil
	}

	if estimateTurns(o.estimator, window) <= budget {
		return window
	}

	if summary, ok := o.store.Summary(ctx, userID); ok {
		return []Turn{{Role: RoleSystem, Content: summary}}
	}

	tail := o.config.TailTurns
	if len(window) > tail {
		window = window[len(window)-tail:]
	}
	return window
}
