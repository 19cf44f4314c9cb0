package model

// TimeSlot identifies a (day, period) pair within a schedule instance. The slot
// universe is fixed per instance and totally ordered by day, then period.
type TimeSlot struct {
	Day    int
	Period int
}

// Teacher is an input entity. It is never mutated during a scheduling run:
// availability and load limits are constraint inputs, not engine state.
type Teacher struct {
	ID           string
	Unavailable  []TimeSlot
	MaxDailyLoad int // 0 means unlimited
	Qualified    []string
	// SlotPenalty assigns a soft dislike weight to individual slots. Slots
	// absent from the map carry no penalty.
	SlotPenalty map[TimeSlot]float64
}

// Room is an input entity with the same lifecycle as Teacher.
type Room struct {
	ID       string
	Capacity int
	// Tags lists the subjects (or equipment classes) the room supports. An
	// empty list means the room supports any subject.
	Tags []string
}

// Course is an input entity describing one course and its weekly demand.
type Course struct {
	ID          string
	Subject     string
	Occurrences int
	Duration    int // consecutive periods per occurrence, at least 1
	Size        int // enrolled students, checked against room capacity
	Teachers    []string
	Rooms       []string
	// AvoidMorning tags the course for the avoid-morning soft preference.
	AvoidMorning bool
	// AllowConcurrent permits two occurrences of the same course to share a
	// slot (concurrent sections).
	AllowConcurrent bool
	// Pins fixes the starting slot of specific occurrences (keyed by the
	// occurrence's sequence index).
	Pins map[int]TimeSlot
}

// Instance is the raw, already-parsed input to a scheduling run. The engine
// never reads files itself: external collaborators build an Instance and hand
// it over.
type Instance struct {
	Days           int
	PeriodsPerDay  int
	MorningPeriods int // periods with index < MorningPeriods count as morning
	LunchPeriod    int // -1 when the instance has no lunch break
	EveningPeriods int // trailing periods per day counted as evening, 0 = none
	Teachers       []Teacher
	Rooms          []Room
	Courses        []Course
}

// Morning reports whether a slot falls in the instance's morning band.
func (in *Instance) Morning(s TimeSlot) bool {
	return s.Period < in.MorningPeriods
}

// Lunch reports whether a slot is the instance's lunch-break period.
func (in *Instance) Lunch(s TimeSlot) bool {
	return in.LunchPeriod >= 0 && s.Period == in.LunchPeriod
}

// Evening reports whether a slot falls in the instance's evening band.
func (in *Instance) Evening(s TimeSlot) bool {
	return in.EveningPeriods > 0 && s.Period >= in.PeriodsPerDay-in.EveningPeriods
}
