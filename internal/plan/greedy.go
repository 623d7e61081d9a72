package plan

import (
	"context"
	"fmt"
	"math"
)

// greedySelector builds a sequence slot by slot, always committing the
// candidate that scores best at the current position given the prefix chosen
// so far. O(pool x slots) with no backtracking; a locally optimal choice can
// be globally suboptimal, which the 2-opt refinement mitigates.
type greedySelector struct {
	scorer *scorer
	slots  int
}

// Select fills positions in order. Ties go to the earliest candidate in the
// pool's ascending-ID order, keeping results reproducible.
func (sel *greedySelector) Select(ctx context.Context, pool []Exercise) ([]scoredSlot, float64, error) {
	if len(pool) < sel.slots {
		return nil, 0, fmt.Errorf("candidate pool size %d is below slot count %d", len(pool), sel.slots)
	}

	// Static scores do not depend on position; compute them once.
	statics := make([]float64, len(pool))
	for i, ex := range pool {
		statics[i] = sel.scorer.staticScore(ex)
	}

	chosen := make([]bool, len(pool))
	prefix := make([]Exercise, 0, sel.slots)
	slots := make([]scoredSlot, 0, sel.slots)
	total := 0.0

	for position := range sel.slots {
		if err := ctx.Err(); err != nil {
			return nil, 0, fmt.Errorf("greedy selection cancelled: %w", err)
		}

		bestIdx := -1
		bestScore := math.Inf(-1)
		bestDynamic := 0.0

		for i, ex := range pool {
			if chosen[i] {
				continue
			}
			dynamic := sel.scorer.dynamicScore(ex, position, prefix)
			if score := statics[i] + dynamic; score > bestScore {
				bestScore = score
				bestIdx = i
				bestDynamic = dynamic
			}
		}

		chosen[bestIdx] = true
		slots = append(slots, scoredSlot{
			exercise: pool[bestIdx],
			static:   statics[bestIdx],
			dynamic:  bestDynamic,
		})
		prefix = append(prefix, pool[bestIdx])
		total += bestScore
	}

	return slots, total, nil
}
