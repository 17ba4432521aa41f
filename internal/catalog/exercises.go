package catalog

import "sort"

// ExerciseType is one entry of the quest pool.
type ExerciseType struct {
	ID             string
	Name           string
	Icon           string
	Description    string
	Unit           string
	BaseDifficulty int
	BaseReward     int
	FatigueDelta   int
	StatBonus      string
}

var exercises = map[string]ExerciseType{
	"pushups": {
		ID: "pushups", Name: "Push-ups", Icon: "🤸", Description: "Complete the required reps",
		Unit: "reps", BaseDifficulty: 10, BaseReward: 30, FatigueDelta: 15, StatBonus: "str",
	},
	"squats": {
		ID: "squats", Name: "Squats", Icon: "🦵", Description: "Complete the required reps",
		Unit: "reps", BaseDifficulty: 15, BaseReward: 30, FatigueDelta: 15, StatBonus: "end",
	},
	"plank": {
		ID: "plank", Name: "Plank Hold", Icon: "⏱️", Description: "Hold for required time",
		Unit: "sec", BaseDifficulty: 30, BaseReward: 25, FatigueDelta: 10, StatBonus: "vit",
	},
	"jumping_jacks": {
		ID: "jumping_jacks", Name: "Jumping Jacks", Icon: "🙌", Description: "Complete the required reps",
		Unit: "reps", BaseDifficulty: 20, BaseReward: 20, FatigueDelta: 12, StatBonus: "agi",
	},
	"run": {
		ID: "run", Name: "Cardio Sprint", Icon: "🏃", Description: "Run in place",
		Unit: "sec", BaseDifficulty: 60, BaseReward: 35, FatigueDelta: 20, StatBonus: "end",
	},
}

// ExerciseTypes returns the quest pool sorted by id, so that sampling with a
// seeded source is reproducible.
func ExerciseTypes() []ExerciseType {
	out := make([]ExerciseType, 0, len(exercises))
	for _, e := range exercises {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Exercise looks up an exercise type by id.
func Exercise(id string) (ExerciseType, bool) {
	e, ok := exercises[id]
	return e, ok
}
