package search

import (
	"context"
	"slices"

	"schedulecreator/internal/constraint"
	"schedulecreator/internal/model"
)

type backtracker struct {
	model    *model.ValidatedModel
	compiled *constraint.Compiled
	options  Options
}

// frame is one level of the explicit backtracking stack: the occurrence being
// decided, its feasible candidates at push time and the cursor into them.
type frame struct {
	occ        int
	candidates []model.Triple
	next       int
	placed     bool
}

func (e *backtracker) Run(ctx context.Context) Result {
	if e.options.Parallelism > 1 {
		return e.runParallel(ctx)
	}

	compiled := e.compiled.Clone()
	asg := model.NewAssignment(len(e.model.Occurrences))
	return e.search(ctx, compiled, asg, e.options.MaxNodes)
}

// search runs the backtracking loop on an owned compiled/assignment pair. The
// assignment may arrive partially filled (parallel root splitting); budget
// bounds the candidates tried by this call, zero meaning unbounded.
func (e *backtracker) search(ctx context.Context, compiled *constraint.Compiled, asg *model.Assignment, budget int64) Result {
	nodes := int64(0)
	best := asg.Clone()
	blocked := map[int]int{}

	if asg.Complete() {
		return Result{Status: StatusSolved, Assignment: asg.Clone()}
	}

	//** Seed the stack with the most constrained occurrence
	occ, candidates, dead := e.choose(compiled, asg)
	if dead {
		blocked[occ]++
		return Result{Status: StatusInfeasible, Assignment: best, Blocked: rankBlocked(blocked)}
	}
	stack := []*frame{{occ: occ, candidates: candidates}}

	for len(stack) > 0 {
		// Budget and cancellation checks sit at candidate granularity: a
		// worker signalled to stop finishes its current evaluation first.
		if ctx.Err() != nil || (budget > 0 && nodes >= budget) {
			return Result{Status: StatusExhausted, Assignment: best, Nodes: nodes, Blocked: rankBlocked(blocked)}
		}

		top := stack[len(stack)-1]
		if top.placed {
			compiled.Unplace(top.occ, asg)
			top.placed = false
		}
		if top.next >= len(top.candidates) {
			blocked[top.occ]++
			stack = stack[:len(stack)-1]
			continue
		}

		candidate := top.candidates[top.next]
		top.next++
		nodes++

		if compiled.Conflicts(top.occ, candidate) {
			continue
		}
		compiled.Place(top.occ, candidate, asg)
		top.placed = true

		if asg.Complete() {
			return Result{Status: StatusSolved, Assignment: asg.Clone(), Nodes: nodes}
		}
		if asg.Placed > best.Placed {
			best = asg.Clone()
		}

		//** Forward checking: a future occurrence with no feasible triple left
		//** means this branch is dead, so try the next candidate right away
		next, candidates, dead := e.choose(compiled, asg)
		if dead {
			blocked[next]++
			continue
		}
		stack = append(stack, &frame{occ: next, candidates: candidates})
	}

	return Result{Status: StatusInfeasible, Assignment: best, Nodes: nodes, Blocked: rankBlocked(blocked)}
}

// choose picks the next occurrence to decide: the unassigned one with the
// fewest remaining feasible triples, ties broken by declaration order. dead
// is true when some unassigned occurrence has no feasible triple left; that
// occurrence is returned for diagnostics.
func (e *backtracker) choose(compiled *constraint.Compiled, asg *model.Assignment) (occ int, candidates []model.Triple, dead bool) {
	occ = -1
	for i := range e.model.Occurrences {
		if asg.Assigned(i) {
			continue
		}
		feasible := e.feasible(compiled, i)
		if len(feasible) == 0 {
			return i, nil, true
		}
		if occ < 0 || len(feasible) < len(candidates) {
			occ, candidates = i, feasible
		}
	}
	return occ, candidates, false
}

func (e *backtracker) feasible(compiled *constraint.Compiled, occ int) []model.Triple {
	candidates := make([]model.Triple, 0, len(e.model.Candidates[occ]))
	for _, candidate := range e.model.Candidates[occ] {
		if !compiled.Conflicts(occ, candidate) {
			candidates = append(candidates, candidate)
		}
	}
	return candidates
}

// rankBlocked orders blocked occurrences by how often their candidate lists
// emptied, most frequent first, ties by declaration order.
func rankBlocked(blocked map[int]int) []int {
	occurrences := make([]int, 0, len(blocked))
	for occ := range blocked {
		occurrences = append(occurrences, occ)
	}
	slices.SortFunc(occurrences, func(a, b int) int {
		if blocked[a] != blocked[b] {
			return blocked[b] - blocked[a]
		}
		return a - b
	})
	return occurrences
}
