package model

// Unassigned marks a Triple whose occurrence has not been placed yet.
const Unassigned = -1

// Triple binds one course occurrence to a starting slot, a teacher and a room.
// Teacher and Room are indices into the validated model's entity tables.
type Triple struct {
	Slot    TimeSlot
	Teacher int
	Room    int
}

// Occurrence is one weekly repeat of a course, identified by the course index
// and a sequence number within the course.
type Occurrence struct {
	Course   int
	Seq      int
	Duration int
	Pinned   bool
	Pin      TimeSlot
}

// Assignment maps every occurrence to at most one triple. It is mutated
// exclusively by the search engine (through the compiled constraint indices)
// and handed read-only to the optimizer and the facade.
type Assignment struct {
	Triples []Triple
	Placed  int
}

// NewAssignment returns an empty assignment for n occurrences.
func NewAssignment(n int) *Assignment {
	asg := &Assignment{Triples: make([]Triple, n)}
	for i := range asg.Triples {
		asg.Triples[i].Teacher = Unassigned
		asg.Triples[i].Room = Unassigned
	}
	return asg
}

// Assigned reports whether occurrence occ has a triple.
func (asg *Assignment) Assigned(occ int) bool {
	return asg.Triples[occ].Teacher != Unassigned
}

// Complete reports whether every occurrence has a triple.
func (asg *Assignment) Complete() bool {
	return asg.Placed == len(asg.Triples)
}

// Clone returns an independent copy of the assignment.
func (asg *Assignment) Clone() *Assignment {
	triples := make([]Triple, len(asg.Triples))
	copy(triples, asg.Triples)
	return &Assignment{Triples: triples, Placed: asg.Placed}
}

// Severity distinguishes hard violations from soft ones in a report.
type Severity int

const (
	SeverityHard Severity = iota
	SeveritySoft
)

func (s Severity) String() string {
	if s == SeverityHard {
		return "hard"
	}
	return "soft"
}

// Violation names one unsatisfied constraint and the entities involved.
type Violation struct {
	Constraint string
	Severity   Severity
	Entities   []string
	Cost       float64
}

// Entry is one row of the final schedule, resolved back to entity identifiers.
type Entry struct {
	Course  string
	Seq     int
	Day     int
	Period  int
	Teacher string
	Room    string
}

// Schedule is the final artifact of a scheduling run: a complete (or
// best-effort) assignment resolved to entity identifiers, plus the violation
// report. Rendering it is an external collaborator's concern.
type Schedule struct {
	Entries    []Entry
	Cost       float64
	Violations []Violation
}
