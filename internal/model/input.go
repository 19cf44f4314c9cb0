package model

import (
	"encoding/json"
	"os"

	"github.com/mitchellh/mapstructure"
)

// Wire representation of an instance file. Slot-keyed maps are flattened into
// record lists so the document stays plain JSON.

type slotRecord struct {
	Day    int
	Period int
}

type penaltyRecord struct {
	Day    int
	Period int
	Weight float64
}

type pinRecord struct {
	Seq    int
	Day    int
	Period int
}

type teacherInput struct {
	ID           string `mapstructure:"id"`
	Unavailable  []slotRecord
	MaxDailyLoad int `mapstructure:"maxDailyLoad"`
	Qualified    []string
	SlotPenalty  []penaltyRecord `mapstructure:"slotPenalty"`
}

type roomInput struct {
	ID       string `mapstructure:"id"`
	Capacity int
	Tags     []string
}

type courseInput struct {
	ID              string `mapstructure:"id"`
	Subject         string
	Occurrences     int
	Duration        int
	Size            int
	Teachers        []string
	Rooms           []string
	AvoidMorning    bool `mapstructure:"avoidMorning"`
	AllowConcurrent bool `mapstructure:"allowConcurrent"`
	Pins            []pinRecord
}

type instanceInput struct {
	Days           int
	PeriodsPerDay  int  `mapstructure:"periodsPerDay"`
	MorningPeriods int  `mapstructure:"morningPeriods"`
	LunchPeriod    *int `mapstructure:"lunchPeriod"`
	EveningPeriods int  `mapstructure:"eveningPeriods"`
	Teachers       []teacherInput
	Rooms          []roomInput
	Courses        []courseInput
}

func (input instanceInput) toInstance() *Instance {
	instance := &Instance{
		Days:           input.Days,
		PeriodsPerDay:  input.PeriodsPerDay,
		MorningPeriods: input.MorningPeriods,
		LunchPeriod:    -1,
		EveningPeriods: input.EveningPeriods,
	}
	if input.LunchPeriod != nil {
		instance.LunchPeriod = *input.LunchPeriod
	}

	for _, teacher := range input.Teachers {
		entity := Teacher{
			ID:           teacher.ID,
			MaxDailyLoad: teacher.MaxDailyLoad,
			Qualified:    teacher.Qualified,
		}
		for _, slot := range teacher.Unavailable {
			entity.Unavailable = append(entity.Unavailable, TimeSlot{Day: slot.Day, Period: slot.Period})
		}
		if len(teacher.SlotPenalty) > 0 {
			entity.SlotPenalty = make(map[TimeSlot]float64, len(teacher.SlotPenalty))
			for _, penalty := range teacher.SlotPenalty {
				entity.SlotPenalty[TimeSlot{Day: penalty.Day, Period: penalty.Period}] = penalty.Weight
			}
		}
		instance.Teachers = append(instance.Teachers, entity)
	}

	for _, room := range input.Rooms {
		instance.Rooms = append(instance.Rooms, Room{ID: room.ID, Capacity: room.Capacity, Tags: room.Tags})
	}

	for _, course := range input.Courses {
		entity := Course{
			ID:              course.ID,
			Subject:         course.Subject,
			Occurrences:     course.Occurrences,
			Duration:        course.Duration,
			Size:            course.Size,
			Teachers:        course.Teachers,
			Rooms:           course.Rooms,
			AvoidMorning:    course.AvoidMorning,
			AllowConcurrent: course.AllowConcurrent,
		}
		if len(course.Pins) > 0 {
			entity.Pins = make(map[int]TimeSlot, len(course.Pins))
			for _, pin := range course.Pins {
				entity.Pins[pin.Seq] = TimeSlot{Day: pin.Day, Period: pin.Period}
			}
		}
		instance.Courses = append(instance.Courses, entity)
	}

	return instance
}

// InputFromJSON loads a scheduling instance from a JSON file. This is a
// convenience for the cmd collaborators; the engine itself only ever sees the
// resulting Instance.
func InputFromJSON(file string) (*Instance, error) {
	bytes, err := os.ReadFile(file)
	if err != nil {
		return nil, err
	}

	var inputJson map[string]any
	if err := json.Unmarshal(bytes, &inputJson); err != nil {
		return nil, err
	}

	var input instanceInput
	if err := mapstructure.Decode(inputJson, &input); err != nil {
		return nil, err
	}

	return input.toInstance(), nil
}
