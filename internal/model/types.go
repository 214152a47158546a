package model

import "time"

// Default category ids. The category list itself comes from config.
const (
	CategoryFood     = 1
	CategoryExercise = 2
)

// Activity is a logged food or exercise entry.
type Activity struct {
	ID        string
	Category  int
	Name      string
	Calories  int
	CreatedAt time.Time
	UpdatedAt time.Time
}

// SameContent reports whether two activities carry the same user-editable
// values, ignoring storage timestamps.
func (a Activity) SameContent(b Activity) bool {
	return a.ID == b.ID &&
		a.Category == b.Category &&
		a.Name == b.Name &&
		a.Calories == b.Calories
}

// Category is one selectable activity category.
type Category struct {
	ID   int    `yaml:"id" json:"id"`
	Name string `yaml:"name" json:"name"`
}

// DefaultCategories returns the built-in category list.
func DefaultCategories() []Category {
	return []Category{
		{ID: CategoryFood, Name: "Food"},
		{ID: CategoryExercise, Name: "Exercise"},
	}
}

// CategoryName looks up a category name by id, falling back to "?".
func CategoryName(categories []Category, id int) string {
	for _, c := range categories {
		if c.ID == id {
			return c.Name
		}
	}
	return "?"
}

// Summary aggregates calories over a set of activities.
type Summary struct {
	Consumed  int
	Burned    int
	Net       int
	Goal      int // 0 when no goal is configured
	Remaining int
	Count     int
}

// HasGoal reports whether a daily goal is configured.
func (s Summary) HasGoal() bool {
	return s.Goal > 0
}

// Summarize totals food calories as consumed and exercise calories as burned.
func Summarize(activities []Activity, goal int) Summary {
	s := Summary{Goal: goal, Count: len(activities)}
	for _, a := range activities {
		switch a.Category {
		case CategoryFood:
			s.Consumed += a.Calories
		case CategoryExercise:
			s.Burned += a.Calories
		}
	}
	s.Net = s.Consumed - s.Burned
	if goal > 0 {
		s.Remaining = goal - s.Net
	}
	return s
}
