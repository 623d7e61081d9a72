package plan

import (
	"context"
	"fmt"
	"math"
)

// selector chooses an ordered set of slots from a candidate pool and returns
// the per-slot breakdown together with the sequence total.
type selector interface {
	Select(ctx context.Context, pool []Exercise) ([]scoredSlot, float64, error)
}

// exhaustiveSelector searches every size-slots subset of the pool and every
// ordering of each subset, and returns the provably optimal sequence.
//
// Cost is C(n, slots) x slots! evaluations, so the orchestrator only dispatches
// here for pools at or below the exhaustive threshold.
type exhaustiveSelector struct {
	scorer *scorer
	slots  int
}

// Select enumerates subsets in ascending candidate order and orderings in
// lexicographic order, keeping the first sequence that reaches the maximum
// total. The fixed enumeration order makes ties reproducible.
func (sel *exhaustiveSelector) Select(ctx context.Context, pool []Exercise) ([]scoredSlot, float64, error) {
	if len(pool) < sel.slots {
		return nil, 0, fmt.Errorf("candidate pool size %d is below slot count %d", len(pool), sel.slots)
	}

	bestTotal := math.Inf(-1)
	var bestSlots []scoredSlot

	combo := make([]Exercise, sel.slots)
	perm := make([]Exercise, sel.slots)
	permUsed := make([]bool, sel.slots)

	var permute func(depth int)
	permute = func(depth int) {
		if depth == sel.slots {
			total, slots := sel.scorer.scoreSequence(perm)
			if total > bestTotal {
				bestTotal = total
				bestSlots = slots
			}
			return
		}
		for i := range combo {
			if permUsed[i] {
				continue
			}
			permUsed[i] = true
			perm[depth] = combo[i]
			permute(depth + 1)
			permUsed[i] = false
		}
	}

	var combine func(start, depth int) error
	combine = func(start, depth int) error {
		if depth == sel.slots {
			// Cancellation boundary: the run has no side effects, so
			// abandoning it mid-search simply discards the work done.
			if err := ctx.Err(); err != nil {
				return fmt.Errorf("exhaustive search cancelled: %w", err)
			}
			permute(0)
			return nil
		}
		for i := start; i <= len(pool)-(sel.slots-depth); i++ {
			combo[depth] = pool[i]
			if err := combine(i+1, depth+1); err != nil {
				return err
			}
		}
		return nil
	}

	if err := combine(0, 0); err != nil {
		return nil, 0, err
	}

	return bestSlots, bestTotal, nil
}
