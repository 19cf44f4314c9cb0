package constraint

import (
	"fmt"

	"schedulecreator/internal/model"
)

const free = -1

// Compiled holds the slot-occupancy indices tracking one assignment. The
// indices make the hard-conflict check O(1) per covered slot instead of a
// rescan of the whole assignment.
//
// A Compiled instance tracks exactly one assignment at a time: Place and
// Unplace keep the indices in sync, and Rebuild re-derives them from scratch.
// Search workers and optimizer trajectories each own an independent clone.
type Compiled struct {
	model *model.ValidatedModel
	softs []Soft

	teacherBusy [][]int // teacher x slot -> occupying occurrence, or free
	roomBusy    [][]int // room x slot -> occupying occurrence, or free
	courseBusy  [][]int // course x slot -> occupying occurrence count
	teacherDay  [][]int // teacher x day -> occupied period count
}

// Model returns the validated model the checks were compiled against.
func (c *Compiled) Model() *model.ValidatedModel { return c.model }

// Softs returns the compiled soft constraint kinds.
func (c *Compiled) Softs() []Soft { return c.softs }

func (c *Compiled) reset() {
	in := c.model.Instance
	slots := len(c.model.Slots)

	c.teacherBusy = freshIndex(len(in.Teachers), slots, free)
	c.roomBusy = freshIndex(len(in.Rooms), slots, free)
	c.courseBusy = freshIndex(len(in.Courses), slots, 0)
	c.teacherDay = freshIndex(len(in.Teachers), in.Days, 0)
}

func freshIndex(rows, columns, fill int) [][]int {
	index := make([][]int, rows)
	for i := range index {
		index[i] = make([]int, columns)
		for j := range index[i] {
			index[i][j] = fill
		}
	}
	return index
}

// Clone returns an independent copy sharing the immutable model and softs.
func (c *Compiled) Clone() *Compiled {
	clone := &Compiled{model: c.model, softs: c.softs}
	clone.teacherBusy = copyIndex(c.teacherBusy)
	clone.roomBusy = copyIndex(c.roomBusy)
	clone.courseBusy = copyIndex(c.courseBusy)
	clone.teacherDay = copyIndex(c.teacherDay)
	return clone
}

func copyIndex(index [][]int) [][]int {
	clone := make([][]int, len(index))
	for i, row := range index {
		clone[i] = make([]int, len(row))
		copy(clone[i], row)
	}
	return clone
}

// Rebuild re-derives the indices from an existing assignment, e.g. when a
// worker adopts an assignment it did not construct itself.
func (c *Compiled) Rebuild(asg *model.Assignment) {
	c.reset()
	for occ := range asg.Triples {
		if !asg.Assigned(occ) {
			continue
		}
		c.occupy(occ, asg.Triples[occ])
	}
}

// Conflicts reports whether placing triple t for occurrence occ would violate
// a hard constraint against the assignment currently tracked by the indices.
func (c *Compiled) Conflicts(occ int, t model.Triple) bool {
	occurrence := c.model.Occurrences[occ]
	course := c.model.Instance.Courses[occurrence.Course]

	for offset := 0; offset < occurrence.Duration; offset++ {
		slot := c.model.SlotIndex(model.TimeSlot{Day: t.Slot.Day, Period: t.Slot.Period + offset})
		if c.teacherBusy[t.Teacher][slot] != free || c.roomBusy[t.Room][slot] != free {
			return true
		}
		if c.courseBusy[occurrence.Course][slot] > 0 && !course.AllowConcurrent {
			return true
		}
	}

	limit := c.model.Instance.Teachers[t.Teacher].MaxDailyLoad
	if limit > 0 && c.teacherDay[t.Teacher][t.Slot.Day]+occurrence.Duration > limit {
		return true
	}

	return false
}

// Place commits triple t for occurrence occ, updating both the assignment and
// the occupancy indices. The caller must have checked Conflicts first.
func (c *Compiled) Place(occ int, t model.Triple, asg *model.Assignment) {
	c.occupy(occ, t)
	asg.Triples[occ] = t
	asg.Placed++
}

// Unplace retracts the triple of occurrence occ. An index disagreeing with
// the assignment it tracks is a programming error and panics: continuing
// could hand out an assignment that secretly violates a hard constraint.
func (c *Compiled) Unplace(occ int, asg *model.Assignment) {
	t := asg.Triples[occ]
	occurrence := c.model.Occurrences[occ]

	for offset := 0; offset < occurrence.Duration; offset++ {
		slot := c.model.SlotIndex(model.TimeSlot{Day: t.Slot.Day, Period: t.Slot.Period + offset})
		if c.teacherBusy[t.Teacher][slot] != occ || c.roomBusy[t.Room][slot] != occ {
			panic(fmt.Sprintf("occupancy index out of sync with assignment at occurrence %v", occ))
		}
		c.teacherBusy[t.Teacher][slot] = free
		c.roomBusy[t.Room][slot] = free
		c.courseBusy[occurrence.Course][slot]--
	}
	c.teacherDay[t.Teacher][t.Slot.Day] -= occurrence.Duration

	asg.Triples[occ] = model.Triple{Teacher: model.Unassigned, Room: model.Unassigned}
	asg.Placed--
}

func (c *Compiled) occupy(occ int, t model.Triple) {
	occurrence := c.model.Occurrences[occ]
	for offset := 0; offset < occurrence.Duration; offset++ {
		slot := c.model.SlotIndex(model.TimeSlot{Day: t.Slot.Day, Period: t.Slot.Period + offset})
		c.teacherBusy[t.Teacher][slot] = occ
		c.roomBusy[t.Room][slot] = occ
		c.courseBusy[occurrence.Course][slot]++
	}
	c.teacherDay[t.Teacher][t.Slot.Day] += occurrence.Duration
}

// Cost evaluates the total soft cost of an assignment.
func (c *Compiled) Cost(asg *model.Assignment) float64 {
	total := 0.0
	for _, soft := range c.softs {
		total += soft.Cost(c.model, asg)
	}
	return total
}

// Delta returns the soft-cost change of moving occurrence occ from old to
// new. occ must be unplaced in asg when called.
func (c *Compiled) Delta(asg *model.Assignment, occ int, old, new model.Triple) float64 {
	total := 0.0
	for _, soft := range c.softs {
		total += soft.Delta(c.model, asg, occ, old, new)
	}
	return total
}

// SoftReport breaks the soft cost of an assignment down per constraint kind,
// one violation entry per kind with non-zero cost.
func (c *Compiled) SoftReport(asg *model.Assignment) []model.Violation {
	var violations []model.Violation
	for _, soft := range c.softs {
		cost := soft.Cost(c.model, asg)
		if cost > 0 {
			violations = append(violations, model.Violation{
				Constraint: soft.Name(),
				Severity:   model.SeveritySoft,
				Cost:       cost,
			})
		}
	}
	return violations
}
