package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func twoTeacherInstance() *Instance {
	return &Instance{
		Days:           1,
		PeriodsPerDay:  2,
		MorningPeriods: 1,
		LunchPeriod:    -1,
		Teachers: []Teacher{
			{ID: "ada"},
			{ID: "bob"},
		},
		Rooms: []Room{
			{ID: "r1", Capacity: 30},
			{ID: "r2", Capacity: 30},
		},
		Courses: []Course{
			{
				ID:          "c1",
				Subject:     "math",
				Occurrences: 1,
				Duration:    1,
				Size:        20,
				Teachers:    []string{"ada", "bob"},
				Rooms:       []string{"r1", "r2"},
			},
		},
	}
}

func TestValidateEmptySlotUniverse(t *testing.T) {
	// Arrange
	instance := twoTeacherInstance()
	instance.Days = 0

	// Act
	_, err := Validate(instance)

	// Assert
	assert.ErrorIs(t, err, ErrSlotUniverseEmpty)
}

func TestValidateDanglingReference(t *testing.T) {
	t.Run("unknown teacher", func(t *testing.T) {
		// Arrange
		instance := twoTeacherInstance()
		instance.Courses[0].Teachers = append(instance.Courses[0].Teachers, "ghost")

		// Act
		_, err := Validate(instance)

		// Assert
		var dangling *DanglingReferenceError
		require.ErrorAs(t, err, &dangling)
		assert.Equal(t, "teacher", dangling.Kind)
		assert.Equal(t, "ghost", dangling.ID)
	})

	t.Run("unknown room", func(t *testing.T) {
		// Arrange
		instance := twoTeacherInstance()
		instance.Courses[0].Rooms = []string{"r1", "basement"}

		// Act
		_, err := Validate(instance)

		// Assert
		var dangling *DanglingReferenceError
		require.ErrorAs(t, err, &dangling)
		assert.Equal(t, "room", dangling.Kind)
		assert.Equal(t, "basement", dangling.ID)
	})
}

func TestValidateEmptyEligibility(t *testing.T) {
	t.Run("no qualified teacher", func(t *testing.T) {
		// Arrange
		instance := twoTeacherInstance()
		instance.Teachers[0].Qualified = []string{"history"}
		instance.Teachers[1].Qualified = []string{"history"}

		// Act
		_, err := Validate(instance)

		// Assert
		var empty *EmptyEligibilityError
		require.ErrorAs(t, err, &empty)
		assert.Equal(t, "teacher", empty.Kind)
	})

	t.Run("no fitting room", func(t *testing.T) {
		// Arrange
		instance := twoTeacherInstance()
		instance.Courses[0].Size = 100

		// Act
		_, err := Validate(instance)

		// Assert
		var empty *EmptyEligibilityError
		require.ErrorAs(t, err, &empty)
		assert.Equal(t, "room", empty.Kind)
	})
}

func TestValidateCandidateOrder(t *testing.T) {
	// Arrange
	instance := twoTeacherInstance()

	// Act
	m, err := Validate(instance)

	// Assert: slot first, then teacher index, then room index
	require.NoError(t, err)
	require.Len(t, m.Candidates, 1)
	assert.Equal(t, []Triple{
		{Slot: TimeSlot{Day: 0, Period: 0}, Teacher: 0, Room: 0},
		{Slot: TimeSlot{Day: 0, Period: 0}, Teacher: 0, Room: 1},
		{Slot: TimeSlot{Day: 0, Period: 0}, Teacher: 1, Room: 0},
		{Slot: TimeSlot{Day: 0, Period: 0}, Teacher: 1, Room: 1},
		{Slot: TimeSlot{Day: 0, Period: 1}, Teacher: 0, Room: 0},
		{Slot: TimeSlot{Day: 0, Period: 1}, Teacher: 0, Room: 1},
		{Slot: TimeSlot{Day: 0, Period: 1}, Teacher: 1, Room: 0},
		{Slot: TimeSlot{Day: 0, Period: 1}, Teacher: 1, Room: 1},
	}, m.Candidates[0])
}

func TestValidateCandidatePruning(t *testing.T) {
	t.Run("teacher unavailability prunes triples", func(t *testing.T) {
		// Arrange
		instance := twoTeacherInstance()
		instance.Teachers[0].Unavailable = []TimeSlot{{Day: 0, Period: 0}}

		// Act
		m, err := Validate(instance)

		// Assert
		require.NoError(t, err)
		for _, candidate := range m.Candidates[0] {
			if candidate.Teacher == 0 {
				assert.Equal(t, 1, candidate.Slot.Period)
			}
		}
	})

	t.Run("pin restricts starting slots", func(t *testing.T) {
		// Arrange
		instance := twoTeacherInstance()
		instance.Courses[0].Pins = map[int]TimeSlot{0: {Day: 0, Period: 1}}

		// Act
		m, err := Validate(instance)

		// Assert
		require.NoError(t, err)
		require.NotEmpty(t, m.Candidates[0])
		for _, candidate := range m.Candidates[0] {
			assert.Equal(t, TimeSlot{Day: 0, Period: 1}, candidate.Slot)
		}
	})

	t.Run("duration must fit within the day", func(t *testing.T) {
		// Arrange
		instance := twoTeacherInstance()
		instance.Courses[0].Duration = 2

		// Act
		m, err := Validate(instance)

		// Assert: only period 0 leaves room for two consecutive periods
		require.NoError(t, err)
		require.NotEmpty(t, m.Candidates[0])
		for _, candidate := range m.Candidates[0] {
			assert.Equal(t, 0, candidate.Slot.Period)
		}
	})

	t.Run("out-of-range unavailability is ignored", func(t *testing.T) {
		// Arrange: slots outside the universe, including negative coordinates
		instance := twoTeacherInstance()
		instance.Teachers[0].Unavailable = []TimeSlot{
			{Day: -1, Period: 0}, {Day: 0, Period: -1}, {Day: 7, Period: 0}, {Day: 0, Period: 9},
		}

		// Act
		m, err := Validate(instance)

		// Assert: no slot of the universe is marked, so nothing is pruned
		require.NoError(t, err)
		assert.Len(t, m.Candidates[0], 8)
	})

	t.Run("pin outside the universe yields empty candidates, not a panic", func(t *testing.T) {
		// Arrange
		instance := twoTeacherInstance()
		instance.Courses[0].Pins = map[int]TimeSlot{0: {Day: -1, Period: 0}}

		// Act
		m, err := Validate(instance)

		// Assert
		require.NoError(t, err)
		assert.Empty(t, m.Candidates[0])

		instance = twoTeacherInstance()
		instance.Courses[0].Pins = map[int]TimeSlot{0: {Day: 0, Period: -1}}
		m, err = Validate(instance)
		require.NoError(t, err)
		assert.Empty(t, m.Candidates[0])
	})

	t.Run("fully unavailable teacher yields empty candidates, not an error", func(t *testing.T) {
		// Arrange
		instance := twoTeacherInstance()
		instance.Courses[0].Teachers = []string{"ada"}
		instance.Teachers[0].Unavailable = []TimeSlot{{Day: 0, Period: 0}, {Day: 0, Period: 1}}

		// Act
		m, err := Validate(instance)

		// Assert
		require.NoError(t, err)
		assert.Empty(t, m.Candidates[0])
	})
}

func TestValidateExpandsOccurrences(t *testing.T) {
	// Arrange
	instance := twoTeacherInstance()
	instance.Courses[0].Occurrences = 3

	// Act
	m, err := Validate(instance)

	// Assert
	require.NoError(t, err)
	require.Len(t, m.Occurrences, 3)
	for seq, occurrence := range m.Occurrences {
		assert.Equal(t, 0, occurrence.Course)
		assert.Equal(t, seq, occurrence.Seq)
	}
	assert.Equal(t, "c1#2", m.OccurrenceName(2))
}
