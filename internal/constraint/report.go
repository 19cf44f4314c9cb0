package constraint

import (
	"fmt"
	"slices"

	"schedulecreator/internal/model"
)

// HardViolations evaluates every hard constraint against an assignment by
// full rescan, independently of the incremental indices. It backs the
// best-effort report for infeasible instances and the final cross-check of
// solved ones.
func (c *Compiled) HardViolations(asg *model.Assignment) []model.Violation {
	m := c.model
	in := m.Instance

	var violations []model.Violation
	teacherAt := make(map[[2]int]int) // (teacher, slot) -> occurrence
	roomAt := make(map[[2]int]int)
	courseAt := make(map[[2]int]int) // (course, slot) -> occurrence
	dailyLoad := make(map[[2]int]int)

	for occ := range asg.Triples {
		if !asg.Assigned(occ) {
			continue
		}
		t := asg.Triples[occ]
		occurrence := m.Occurrences[occ]
		course := in.Courses[occurrence.Course]

		if !slices.Contains(m.Candidates[occ], t) {
			violations = append(violations, model.Violation{
				Constraint: "eligibility",
				Severity:   model.SeverityHard,
				Entities:   []string{m.OccurrenceName(occ), in.Teachers[t.Teacher].ID, in.Rooms[t.Room].ID},
				Cost:       1,
			})
		}

		for _, slot := range covered(occurrence, t) {
			index := m.SlotIndex(slot)

			if m.TeacherUnavailable(t.Teacher, slot) {
				violations = append(violations, model.Violation{
					Constraint: "teacher-availability",
					Severity:   model.SeverityHard,
					Entities:   []string{in.Teachers[t.Teacher].ID, m.OccurrenceName(occ), slotName(slot)},
					Cost:       1,
				})
			}

			if other, taken := teacherAt[[2]int{t.Teacher, index}]; taken {
				violations = append(violations, model.Violation{
					Constraint: "teacher-double-booked",
					Severity:   model.SeverityHard,
					Entities:   []string{in.Teachers[t.Teacher].ID, m.OccurrenceName(other), m.OccurrenceName(occ), slotName(slot)},
					Cost:       1,
				})
			} else {
				teacherAt[[2]int{t.Teacher, index}] = occ
			}

			if other, taken := roomAt[[2]int{t.Room, index}]; taken {
				violations = append(violations, model.Violation{
					Constraint: "room-double-booked",
					Severity:   model.SeverityHard,
					Entities:   []string{in.Rooms[t.Room].ID, m.OccurrenceName(other), m.OccurrenceName(occ), slotName(slot)},
					Cost:       1,
				})
			} else {
				roomAt[[2]int{t.Room, index}] = occ
			}

			if other, taken := courseAt[[2]int{occurrence.Course, index}]; taken && !course.AllowConcurrent {
				violations = append(violations, model.Violation{
					Constraint: "course-slot-exclusivity",
					Severity:   model.SeverityHard,
					Entities:   []string{course.ID, m.OccurrenceName(other), m.OccurrenceName(occ), slotName(slot)},
					Cost:       1,
				})
			} else if !taken {
				courseAt[[2]int{occurrence.Course, index}] = occ
			}
		}

		dailyLoad[[2]int{t.Teacher, t.Slot.Day}] += occurrence.Duration
	}

	keys := make([][2]int, 0, len(dailyLoad))
	for key := range dailyLoad {
		keys = append(keys, key)
	}
	slices.SortFunc(keys, func(a, b [2]int) int {
		if a[0] != b[0] {
			return a[0] - b[0]
		}
		return a[1] - b[1]
	})
	for _, key := range keys {
		load := dailyLoad[key]
		limit := in.Teachers[key[0]].MaxDailyLoad
		if limit > 0 && load > limit {
			violations = append(violations, model.Violation{
				Constraint: "teacher-daily-load",
				Severity:   model.SeverityHard,
				Entities:   []string{in.Teachers[key[0]].ID, fmt.Sprintf("day %v", key[1])},
				Cost:       float64(load - limit),
			})
		}
	}

	return violations
}

func slotName(slot model.TimeSlot) string {
	return fmt.Sprintf("day %v period %v", slot.Day, slot.Period)
}
