package challenge

import (
	"time"
)

type Category string

const (
	CategoryPositivity Category = "POSITIVITY"
	CategoryLearning   Category = "LEARNING"
	CategoryConnection Category = "CONNECTION"
)

// XPReward is the fixed experience reward of every challenge.
const XPReward = 20

// Categories lists the closed set in display order.
var Categories = []Category{CategoryPositivity, CategoryLearning, CategoryConnection}

func (c Category) Valid() bool {
	switch c {
	case CategoryPositivity, CategoryLearning, CategoryConnection:
		return true
	}
	return false
}

type Challenge struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Category    Category   `json:"category"`
	XPReward    int        `json:"xpReward"`
	Completed   bool       `json:"completed"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
	Reflection  string     `json:"reflection,omitempty"`
}

// Find returns the index of the challenge with the given id, or -1.
func Find(list []Challenge, id string) int {
	for i := range list {
		if list[i].ID == id {
			return i
		}
	}
	return -1
}
