package constraint

import "schedulecreator/internal/model"

// covered lists the slots an occurrence spans when placed at triple t.
func covered(occurrence model.Occurrence, t model.Triple) []model.TimeSlot {
	slots := make([]model.TimeSlot, occurrence.Duration)
	for offset := 0; offset < occurrence.Duration; offset++ {
		slots[offset] = model.TimeSlot{Day: t.Slot.Day, Period: t.Slot.Period + offset}
	}
	return slots
}

// AvoidMorning charges one unit per occurrence of a tagged course that covers
// a morning period.
type AvoidMorning struct{}

func (AvoidMorning) Name() string { return "avoid-morning" }

func (a AvoidMorning) Cost(m *model.ValidatedModel, asg *model.Assignment) float64 {
	total := 0.0
	for occ := range asg.Triples {
		if asg.Assigned(occ) {
			total += a.occurrenceCost(m, occ, asg.Triples[occ])
		}
	}
	return total
}

func (a AvoidMorning) Delta(m *model.ValidatedModel, _ *model.Assignment, occ int, old, new model.Triple) float64 {
	return a.occurrenceCost(m, occ, new) - a.occurrenceCost(m, occ, old)
}

func (AvoidMorning) occurrenceCost(m *model.ValidatedModel, occ int, t model.Triple) float64 {
	if t.Teacher == model.Unassigned {
		return 0
	}
	occurrence := m.Occurrences[occ]
	if !m.Instance.Courses[occurrence.Course].AvoidMorning {
		return 0
	}
	for _, slot := range covered(occurrence, t) {
		if m.Instance.Morning(slot) {
			return 1
		}
	}
	return 0
}

// SlotPreference charges each teacher's per-slot dislike weight for every
// covered slot.
type SlotPreference struct{}

func (SlotPreference) Name() string { return "slot-preference" }

func (s SlotPreference) Cost(m *model.ValidatedModel, asg *model.Assignment) float64 {
	total := 0.0
	for occ := range asg.Triples {
		if asg.Assigned(occ) {
			total += s.occurrenceCost(m, occ, asg.Triples[occ])
		}
	}
	return total
}

func (s SlotPreference) Delta(m *model.ValidatedModel, _ *model.Assignment, occ int, old, new model.Triple) float64 {
	return s.occurrenceCost(m, occ, new) - s.occurrenceCost(m, occ, old)
}

func (SlotPreference) occurrenceCost(m *model.ValidatedModel, occ int, t model.Triple) float64 {
	if t.Teacher == model.Unassigned {
		return 0
	}
	penalties := m.Instance.Teachers[t.Teacher].SlotPenalty
	if len(penalties) == 0 {
		return 0
	}
	total := 0.0
	for _, slot := range covered(m.Occurrences[occ], t) {
		total += penalties[slot]
	}
	return total
}

// LunchBreak charges one unit per covered lunch period.
type LunchBreak struct{}

func (LunchBreak) Name() string { return "lunch-break" }

func (l LunchBreak) Cost(m *model.ValidatedModel, asg *model.Assignment) float64 {
	total := 0.0
	for occ := range asg.Triples {
		if asg.Assigned(occ) {
			total += l.occurrenceCost(m, occ, asg.Triples[occ])
		}
	}
	return total
}

func (l LunchBreak) Delta(m *model.ValidatedModel, _ *model.Assignment, occ int, old, new model.Triple) float64 {
	return l.occurrenceCost(m, occ, new) - l.occurrenceCost(m, occ, old)
}

func (LunchBreak) occurrenceCost(m *model.ValidatedModel, occ int, t model.Triple) float64 {
	if t.Teacher == model.Unassigned {
		return 0
	}
	total := 0.0
	for _, slot := range covered(m.Occurrences[occ], t) {
		if m.Instance.Lunch(slot) {
			total++
		}
	}
	return total
}

// EveningHours charges one unit per covered evening period.
type EveningHours struct{}

func (EveningHours) Name() string { return "evening-hours" }

func (e EveningHours) Cost(m *model.ValidatedModel, asg *model.Assignment) float64 {
	total := 0.0
	for occ := range asg.Triples {
		if asg.Assigned(occ) {
			total += e.occurrenceCost(m, occ, asg.Triples[occ])
		}
	}
	return total
}

func (e EveningHours) Delta(m *model.ValidatedModel, _ *model.Assignment, occ int, old, new model.Triple) float64 {
	return e.occurrenceCost(m, occ, new) - e.occurrenceCost(m, occ, old)
}

func (EveningHours) occurrenceCost(m *model.ValidatedModel, occ int, t model.Triple) float64 {
	if t.Teacher == model.Unassigned {
		return 0
	}
	total := 0.0
	for _, slot := range covered(m.Occurrences[occ], t) {
		if m.Instance.Evening(slot) {
			total++
		}
	}
	return total
}

// BalanceDailyLoad scores the variance of per-teacher daily occurrence
// counts: the flatter the weekly load, the lower the cost.
type BalanceDailyLoad struct{}

func (BalanceDailyLoad) Name() string { return "balance-daily-load" }

func (b BalanceDailyLoad) Cost(m *model.ValidatedModel, asg *model.Assignment) float64 {
	return b.with(m, asg, model.Triple{Teacher: model.Unassigned})
}

func (b BalanceDailyLoad) Delta(m *model.ValidatedModel, asg *model.Assignment, _ int, old, new model.Triple) float64 {
	return b.with(m, asg, new) - b.with(m, asg, old)
}

// with evaluates the variance of asg plus one extra hypothetical triple.
func (BalanceDailyLoad) with(m *model.ValidatedModel, asg *model.Assignment, extra model.Triple) float64 {
	teachers, days := len(m.Instance.Teachers), m.Instance.Days
	if teachers == 0 || days == 0 {
		return 0
	}

	counts := make([]int, teachers*days)
	total := 0
	add := func(t model.Triple) {
		counts[t.Teacher*days+t.Slot.Day]++
		total++
	}
	for occ := range asg.Triples {
		if asg.Assigned(occ) {
			add(asg.Triples[occ])
		}
	}
	if extra.Teacher != model.Unassigned {
		add(extra)
	}

	mean := float64(total) / float64(len(counts))
	variance := 0.0
	for _, count := range counts {
		deviation := float64(count) - mean
		variance += deviation * deviation
	}
	return variance / float64(len(counts))
}

// MinimizeGaps counts the idle periods between each teacher's first and last
// occupied period per day.
type MinimizeGaps struct{}

func (MinimizeGaps) Name() string { return "minimize-gaps" }

func (g MinimizeGaps) Cost(m *model.ValidatedModel, asg *model.Assignment) float64 {
	return g.with(m, asg, -1, model.Triple{Teacher: model.Unassigned})
}

func (g MinimizeGaps) Delta(m *model.ValidatedModel, asg *model.Assignment, occ int, old, new model.Triple) float64 {
	return g.with(m, asg, occ, new) - g.with(m, asg, occ, old)
}

// with evaluates the gap count of asg plus occurrence occ placed at extra.
func (MinimizeGaps) with(m *model.ValidatedModel, asg *model.Assignment, occ int, extra model.Triple) float64 {
	periods := m.Instance.PeriodsPerDay
	busy := make(map[[2]int][]bool) // (teacher, day) -> occupied periods

	mark := func(occurrence model.Occurrence, t model.Triple) {
		key := [2]int{t.Teacher, t.Slot.Day}
		if busy[key] == nil {
			busy[key] = make([]bool, periods)
		}
		for _, slot := range covered(occurrence, t) {
			busy[key][slot.Period] = true
		}
	}
	for i := range asg.Triples {
		if asg.Assigned(i) {
			mark(m.Occurrences[i], asg.Triples[i])
		}
	}
	if extra.Teacher != model.Unassigned {
		mark(m.Occurrences[occ], extra)
	}

	gaps := 0.0
	for _, day := range busy {
		first, last, occupied := -1, -1, 0
		for period, taken := range day {
			if !taken {
				continue
			}
			if first < 0 {
				first = period
			}
			last = period
			occupied++
		}
		if occupied > 0 {
			gaps += float64(last - first + 1 - occupied)
		}
	}
	return gaps
}
