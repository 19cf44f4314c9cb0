package constraint

import (
	"testing"

	"github.com/stretchr/testify/require"

	"schedulecreator/internal/model"
)

// fixture builds a 2-day, 4-period instance with two teachers, two rooms and
// two single-occurrence courses, validated and compiled.
func fixture(t *testing.T, mutate func(*model.Instance)) (*model.ValidatedModel, *Compiled) {
	t.Helper()

	instance := &model.Instance{
		Days:           2,
		PeriodsPerDay:  4,
		MorningPeriods: 1,
		LunchPeriod:    2,
		EveningPeriods: 1,
		Teachers: []model.Teacher{
			{ID: "ada"},
			{ID: "bob"},
		},
		Rooms: []model.Room{
			{ID: "r1", Capacity: 30},
			{ID: "r2", Capacity: 30},
		},
		Courses: []model.Course{
			{
				ID: "alpha", Subject: "math", Occurrences: 1, Duration: 1, Size: 20,
				Teachers: []string{"ada", "bob"}, Rooms: []string{"r1", "r2"},
			},
			{
				ID: "beta", Subject: "math", Occurrences: 1, Duration: 1, Size: 20,
				Teachers: []string{"ada", "bob"}, Rooms: []string{"r1", "r2"},
			},
		},
	}
	if mutate != nil {
		mutate(instance)
	}

	m, err := model.Validate(instance)
	require.NoError(t, err)
	return m, Compile(m)
}

func triple(day, period, teacher, room int) model.Triple {
	return model.Triple{Slot: model.TimeSlot{Day: day, Period: period}, Teacher: teacher, Room: room}
}
