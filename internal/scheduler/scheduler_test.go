package scheduler

import (
	"context"
	"testing"

	. "github.com/onsi/gomega"

	"schedulecreator/internal/model"
)

func feasibleInstance() *model.Instance {
	return &model.Instance{
		Days:          1,
		PeriodsPerDay: 3,
		LunchPeriod:   -1,
		Teachers:      []model.Teacher{{ID: "ada"}},
		Rooms:         []model.Room{{ID: "r1", Capacity: 100}},
		Courses: []model.Course{
			{ID: "alpha", Subject: "math", Occurrences: 1, Duration: 1, Teachers: []string{"ada"}, Rooms: []string{"r1"}},
			{ID: "beta", Subject: "math", Occurrences: 1, Duration: 1, Teachers: []string{"ada"}, Rooms: []string{"r1"}},
		},
	}
}

func TestSolveFeasibleInstance(t *testing.T) {
	g := NewWithT(t)

	// Act
	outcome, err := Solve(context.Background(), feasibleInstance(), Config{AcceptabilityThreshold: -1})

	// Assert
	g.Expect(err).ToNot(HaveOccurred())
	g.Expect(outcome.Status).To(Equal(StatusSolved))
	g.Expect(outcome.Schedule.Entries).To(HaveLen(2))

	slots := map[[2]int]bool{}
	for _, entry := range outcome.Schedule.Entries {
		slots[[2]int{entry.Day, entry.Period}] = true
	}
	g.Expect(slots).To(HaveLen(2), "occurrences must land on distinct slots")
}

func TestSolveRejectsMalformedInstance(t *testing.T) {
	g := NewWithT(t)

	// Arrange
	instance := feasibleInstance()
	instance.Courses[0].Teachers = []string{"ghost"}

	// Act
	_, err := Solve(context.Background(), instance, Config{})

	// Assert
	g.Expect(err).To(HaveOccurred())
	g.Expect(err.Error()).To(ContainSubstring("ghost"))
}

func TestSolveInfeasibleUnavailableTeacher(t *testing.T) {
	g := NewWithT(t)

	// Arrange: ada is unavailable at every slot
	instance := feasibleInstance()
	instance.Teachers[0].Unavailable = []model.TimeSlot{
		{Day: 0, Period: 0}, {Day: 0, Period: 1}, {Day: 0, Period: 2},
	}

	// Act
	outcome, err := Solve(context.Background(), instance, Config{})

	// Assert: the report names the blocked occurrence and its teacher
	g.Expect(err).ToNot(HaveOccurred())
	g.Expect(outcome.Status).To(Equal(StatusInfeasible))

	var blocking *model.Violation
	for i, violation := range outcome.Schedule.Violations {
		if violation.Constraint == "no-feasible-candidate" {
			blocking = &outcome.Schedule.Violations[i]
			break
		}
	}
	g.Expect(blocking).ToNot(BeNil())
	g.Expect(blocking.Entities).To(ContainElement("ada"))
}

func TestSolveExhaustedIsNotInfeasible(t *testing.T) {
	g := NewWithT(t)

	// Act
	outcome, err := Solve(context.Background(), feasibleInstance(), Config{MaxSearchNodes: 1})

	// Assert
	g.Expect(err).ToNot(HaveOccurred())
	g.Expect(outcome.Status).To(Equal(StatusExhausted))
}

func TestSolveBudgetMonotonicity(t *testing.T) {
	g := NewWithT(t)

	// Act: a budget large enough to solve must keep solving when raised
	small, err := Solve(context.Background(), feasibleInstance(), Config{MaxSearchNodes: 50, AcceptabilityThreshold: -1})
	g.Expect(err).ToNot(HaveOccurred())
	large, err := Solve(context.Background(), feasibleInstance(), Config{MaxSearchNodes: 5000, AcceptabilityThreshold: -1})
	g.Expect(err).ToNot(HaveOccurred())

	// Assert
	g.Expect(small.Status).To(Equal(StatusSolved))
	g.Expect(large.Status).To(Equal(StatusSolved))
	g.Expect(large.Schedule.Entries).To(Equal(small.Schedule.Entries))
}

func TestSolveIdempotentUnderSeed(t *testing.T) {
	g := NewWithT(t)

	// Arrange: enough slack that the optimizer has real choices
	instance := feasibleInstance()
	instance.Days = 3
	instance.MorningPeriods = 1
	instance.Courses[0].AvoidMorning = true
	instance.Courses[0].Occurrences = 2
	instance.Teachers = append(instance.Teachers, model.Teacher{ID: "bob"})
	instance.Courses[1].Teachers = []string{"ada", "bob"}

	config := Config{RandomSeed: 99, AcceptabilityThreshold: -1}

	// Act
	first, err := Solve(context.Background(), instance, config)
	g.Expect(err).ToNot(HaveOccurred())
	second, err := Solve(context.Background(), instance, config)
	g.Expect(err).ToNot(HaveOccurred())

	// Assert
	g.Expect(second.Schedule).To(Equal(first.Schedule))
}

func TestSolveAcceptabilityThreshold(t *testing.T) {
	g := NewWithT(t)

	// Arrange: a single tagged course forced into the only (morning) slot
	instance := &model.Instance{
		Days:           1,
		PeriodsPerDay:  1,
		MorningPeriods: 1,
		LunchPeriod:    -1,
		Teachers:       []model.Teacher{{ID: "ada"}},
		Rooms:          []model.Room{{ID: "r1"}},
		Courses: []model.Course{
			{ID: "alpha", Subject: "math", Occurrences: 1, Duration: 1, AvoidMorning: true,
				Teachers: []string{"ada"}, Rooms: []string{"r1"}},
		},
	}

	// Act
	strict, err := Solve(context.Background(), instance, Config{AcceptabilityThreshold: 0})
	g.Expect(err).ToNot(HaveOccurred())
	relaxed, err := Solve(context.Background(), instance, Config{AcceptabilityThreshold: 10})
	g.Expect(err).ToNot(HaveOccurred())

	// Assert: the cost of 1 is above the strict ceiling and below the
	// relaxed one; both keep the schedule itself
	g.Expect(strict.Status).To(Equal(StatusSolvedWithViolations))
	g.Expect(relaxed.Status).To(Equal(StatusSolved))
	g.Expect(strict.Schedule.Cost).To(BeNumerically("==", 1))
	g.Expect(strict.Schedule.Violations).To(ContainElement(model.Violation{
		Constraint: "avoid-morning",
		Severity:   model.SeveritySoft,
		Cost:       1,
	}))
}

func TestSolveOptimizerPicksAfternoon(t *testing.T) {
	g := NewWithT(t)

	// Arrange: the distilled two-slot preference scenario
	instance := &model.Instance{
		Days:           1,
		PeriodsPerDay:  2,
		MorningPeriods: 1,
		LunchPeriod:    -1,
		Teachers:       []model.Teacher{{ID: "ada"}},
		Rooms:          []model.Room{{ID: "r1"}},
		Courses: []model.Course{
			{ID: "alpha", Subject: "math", Occurrences: 1, Duration: 1, AvoidMorning: true,
				Teachers: []string{"ada"}, Rooms: []string{"r1"}},
		},
	}

	// Act
	outcome, err := Solve(context.Background(), instance, Config{AcceptabilityThreshold: 0})

	// Assert
	g.Expect(err).ToNot(HaveOccurred())
	g.Expect(outcome.Status).To(Equal(StatusSolved))
	g.Expect(outcome.Schedule.Cost).To(BeZero())
	g.Expect(outcome.Schedule.Entries[0].Period).To(Equal(1))
}

func TestSolveParallelConfig(t *testing.T) {
	g := NewWithT(t)

	// Act
	outcome, err := Solve(context.Background(), feasibleInstance(), Config{Parallelism: 4, AcceptabilityThreshold: -1})

	// Assert
	g.Expect(err).ToNot(HaveOccurred())
	g.Expect(outcome.Status).To(Equal(StatusSolved))
	g.Expect(outcome.Schedule.Entries).To(HaveLen(2))
}
