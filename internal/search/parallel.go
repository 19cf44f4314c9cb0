package search

import (
	"context"
	"math"
	"sync"
	"sync/atomic"

	"schedulecreator/internal/model"
)

// runParallel distributes the root occurrence's candidate triples across
// workers. Each worker owns an independent assignment and occupancy-index
// clone; the only shared state is the atomic index of the lowest solved root,
// used to skip roots that can no longer influence the outcome.
//
// Roots are assigned to workers round-robin and each worker gets an equal
// slice of the node budget, so the reported result is identical to a
// sequential run over the same roots regardless of scheduling: the outcome is
// always the lowest-indexed solved root, and every root below it is explored
// in full.
func (e *backtracker) runParallel(ctx context.Context) Result {
	probe := e.compiled.Clone()
	empty := model.NewAssignment(len(e.model.Occurrences))

	if empty.Complete() {
		return Result{Status: StatusSolved, Assignment: empty}
	}
	root, candidates, dead := e.choose(probe, empty)
	if dead {
		return Result{Status: StatusInfeasible, Assignment: empty, Blocked: []int{root}}
	}

	workers := min(e.options.Parallelism, len(candidates))
	budget := e.options.MaxNodes
	if budget > 0 {
		budget = (budget + int64(workers) - 1) / int64(workers)
	}

	var solvedRoot atomic.Int64
	solvedRoot.Store(math.MaxInt64)

	results := make([]Result, len(candidates))
	attempted := make([]bool, len(candidates))
	var nodes atomic.Int64

	var wg sync.WaitGroup
	for worker := 0; worker < workers; worker++ {
		worker := worker
		wg.Add(1)
		go func() {
			defer wg.Done()
			remaining := budget
			for index := worker; index < len(candidates); index += workers {
				if ctx.Err() != nil || int64(index) > solvedRoot.Load() {
					continue
				}

				compiled := e.compiled.Clone()
				asg := model.NewAssignment(len(e.model.Occurrences))
				compiled.Place(root, candidates[index], asg)

				result := e.search(ctx, compiled, asg, remaining)
				nodes.Add(result.Nodes)
				if budget > 0 {
					remaining -= result.Nodes
					if remaining <= 0 && result.Status != StatusSolved {
						results[index] = result
						attempted[index] = true
						break
					}
				}
				results[index] = result
				attempted[index] = true

				if result.Status == StatusSolved {
					lowerSolved(&solvedRoot, int64(index))
					break
				}
			}
		}()
	}
	wg.Wait()

	return e.merge(results, attempted, nodes.Load())
}

func lowerSolved(slot *atomic.Int64, index int64) {
	for {
		current := slot.Load()
		if index >= current || slot.CompareAndSwap(current, index) {
			return
		}
	}
}

// merge selects the final outcome: the lowest solved root wins; otherwise any
// budget-bound root makes the whole search Exhausted, and only when every
// root was refuted is the instance reported Infeasible.
func (e *backtracker) merge(results []Result, attempted []bool, nodes int64) Result {
	merged := Result{Status: StatusInfeasible, Nodes: nodes}

	for index, result := range results {
		if attempted[index] && result.Status == StatusSolved {
			result.Nodes = nodes
			return result
		}
	}

	var blocked []int
	for index, result := range results {
		if !attempted[index] {
			// Skipped roots without a solved lower root only happen on
			// cancellation; treat them as unexplored space.
			merged.Status = StatusExhausted
			continue
		}
		if result.Status == StatusExhausted {
			merged.Status = StatusExhausted
		}
		if merged.Assignment == nil || result.Assignment.Placed > merged.Assignment.Placed {
			merged.Assignment = result.Assignment
		}
		blocked = append(blocked, result.Blocked...)
	}
	if merged.Assignment == nil {
		merged.Assignment = model.NewAssignment(len(e.model.Occurrences))
	}

	merged.Blocked = dedupe(blocked)
	return merged
}

func dedupe(blocked []int) []int {
	seen := make(map[int]bool, len(blocked))
	var unique []int
	for _, occ := range blocked {
		if !seen[occ] {
			seen[occ] = true
			unique = append(unique, occ)
		}
	}
	return unique
}
