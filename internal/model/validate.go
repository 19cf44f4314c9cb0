package model

import (
	"errors"
	"fmt"
	"slices"

	"github.com/samber/lo"
)

// ErrSlotUniverseEmpty is returned when the instance defines no time slots.
var ErrSlotUniverseEmpty = errors.New("slot universe is empty")

// DanglingReferenceError reports a course referencing an unknown teacher or room.
type DanglingReferenceError struct {
	Course string
	Kind   string // "teacher" or "room"
	ID     string
}

func (e *DanglingReferenceError) Error() string {
	return fmt.Sprintf("course %v references unknown %v %v", e.Course, e.Kind, e.ID)
}

// EmptyEligibilityError reports a course with no eligible teacher or room for
// its subject.
type EmptyEligibilityError struct {
	Course string
	Kind   string // "teacher" or "room"
}

func (e *EmptyEligibilityError) Error() string {
	return fmt.Sprintf("course %v has no eligible %v for subject", e.Course, e.Kind)
}

// ValidatedModel is the indexed, immutable view of an instance produced by
// Validate. Candidate triples are precomputed once per occurrence so that the
// search never considers ineligible combinations.
type ValidatedModel struct {
	Instance    *Instance
	Slots       []TimeSlot
	Occurrences []Occurrence
	// Candidates holds, per occurrence, the eligible triples in deterministic
	// order: slot, then teacher index, then room index.
	Candidates [][]Triple

	TeacherIndex map[string]int
	RoomIndex    map[string]int
	CourseIndex  map[string]int

	unavailable [][]bool // teacher index x slot index
}

// SlotIndex returns the position of a slot in the ordered universe.
func (m *ValidatedModel) SlotIndex(s TimeSlot) int {
	return s.Day*m.Instance.PeriodsPerDay + s.Period
}

// TeacherUnavailable reports whether teacher t is unavailable at slot s.
func (m *ValidatedModel) TeacherUnavailable(t int, s TimeSlot) bool {
	return m.unavailable[t][m.SlotIndex(s)]
}

// OccurrenceName resolves an occurrence index to a human-readable identifier.
func (m *ValidatedModel) OccurrenceName(occ int) string {
	o := m.Occurrences[occ]
	return fmt.Sprintf("%v#%v", m.Instance.Courses[o.Course].ID, o.Seq)
}

// Validate checks the raw instance and produces the indexed view consumed by
// the constraint registry and the search engine. It fails on malformed input
// (dangling references, empty eligibility sets, empty slot universe); an
// instance that validates but admits no feasible assignment is not an error
// here, it surfaces later as an infeasible search result.
func Validate(in *Instance) (*ValidatedModel, error) {
	if in.Days <= 0 || in.PeriodsPerDay <= 0 {
		return nil, ErrSlotUniverseEmpty
	}

	m := &ValidatedModel{
		Instance:     in,
		TeacherIndex: make(map[string]int, len(in.Teachers)),
		RoomIndex:    make(map[string]int, len(in.Rooms)),
		CourseIndex:  make(map[string]int, len(in.Courses)),
	}

	//** Build the ordered slot universe
	m.Slots = make([]TimeSlot, 0, in.Days*in.PeriodsPerDay)
	for day := 0; day < in.Days; day++ {
		for period := 0; period < in.PeriodsPerDay; period++ {
			m.Slots = append(m.Slots, TimeSlot{Day: day, Period: period})
		}
	}

	//** Index entities by identifier
	for i, teacher := range in.Teachers {
		m.TeacherIndex[teacher.ID] = i
	}
	for i, room := range in.Rooms {
		m.RoomIndex[room.ID] = i
	}
	for i, course := range in.Courses {
		m.CourseIndex[course.ID] = i
	}

	//** Precompute teacher unavailability over the slot universe
	m.unavailable = make([][]bool, len(in.Teachers))
	for i, teacher := range in.Teachers {
		m.unavailable[i] = make([]bool, len(m.Slots))
		for _, slot := range teacher.Unavailable {
			// Slots outside the universe cannot be occupied anyway.
			if slot.Day >= 0 && slot.Day < in.Days && slot.Period >= 0 && slot.Period < in.PeriodsPerDay {
				m.unavailable[i][m.SlotIndex(slot)] = true
			}
		}
	}

	//** Resolve per-course eligibility and expand occurrences
	for courseIdx, course := range in.Courses {
		teachers, rooms, err := m.eligibility(&in.Courses[courseIdx])
		if err != nil {
			return nil, err
		}

		duration := max(course.Duration, 1)
		for seq := 0; seq < max(course.Occurrences, 1); seq++ {
			occurrence := Occurrence{
				Course:   courseIdx,
				Seq:      seq,
				Duration: duration,
			}
			if pin, ok := course.Pins[seq]; ok {
				occurrence.Pinned = true
				occurrence.Pin = pin
			}
			m.Occurrences = append(m.Occurrences, occurrence)
			m.Candidates = append(m.Candidates, m.candidates(occurrence, teachers, rooms))
		}
	}

	return m, nil
}

// eligibility resolves a course's teacher and room references, filtering by
// qualification, capacity and room tags.
func (m *ValidatedModel) eligibility(course *Course) (teachers []int, rooms []int, err error) {
	in := m.Instance

	for _, id := range course.Teachers {
		idx, ok := m.TeacherIndex[id]
		if !ok {
			return nil, nil, &DanglingReferenceError{Course: course.ID, Kind: "teacher", ID: id}
		}
		qualified := in.Teachers[idx].Qualified
		if len(qualified) == 0 || slices.Contains(qualified, course.Subject) {
			teachers = append(teachers, idx)
		}
	}
	if len(teachers) == 0 {
		return nil, nil, &EmptyEligibilityError{Course: course.ID, Kind: "teacher"}
	}

	for _, id := range course.Rooms {
		idx, ok := m.RoomIndex[id]
		if !ok {
			return nil, nil, &DanglingReferenceError{Course: course.ID, Kind: "room", ID: id}
		}
		room := in.Rooms[idx]
		fits := room.Capacity == 0 || room.Capacity >= course.Size
		supports := len(room.Tags) == 0 || slices.Contains(room.Tags, course.Subject)
		if fits && supports {
			rooms = append(rooms, idx)
		}
	}
	if len(rooms) == 0 {
		return nil, nil, &EmptyEligibilityError{Course: course.ID, Kind: "room"}
	}

	return teachers, rooms, nil
}

// candidates builds the deterministic candidate-triple list for one
// occurrence: the cross product of slots, eligible teachers and eligible
// rooms, pruned by teacher unavailability, day boundaries and pins.
func (m *ValidatedModel) candidates(occurrence Occurrence, teachers, rooms []int) []Triple {
	starts := m.Slots
	if occurrence.Pinned {
		starts = []TimeSlot{occurrence.Pin}
	}

	candidates := make([]Triple, 0, len(starts)*len(teachers)*len(rooms))
	for _, start := range starts {
		// A pinned start may lie outside the universe; such an occurrence has
		// no candidates and surfaces as infeasible.
		if start.Day < 0 || start.Day >= m.Instance.Days || start.Period < 0 ||
			start.Period+occurrence.Duration > m.Instance.PeriodsPerDay {
			continue
		}
		available := lo.Filter(teachers, func(teacher int, _ int) bool {
			for offset := 0; offset < occurrence.Duration; offset++ {
				covered := TimeSlot{Day: start.Day, Period: start.Period + offset}
				if m.TeacherUnavailable(teacher, covered) {
					return false
				}
			}
			return true
		})
		for _, teacher := range available {
			for _, room := range rooms {
				candidates = append(candidates, Triple{Slot: start, Teacher: teacher, Room: room})
			}
		}
	}
	return candidates
}
