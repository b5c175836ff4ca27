// Package model contains domain models passed between layers.
package model

// Activity is an extracurricular offering. Its name is the key it is stored
// under and is not part of the record.
type Activity struct {
	Description     string   `json:"description"`
	Schedule        string   `json:"schedule"`
	MaxParticipants int      `json:"max_participants"`
	Participants    []string `json:"participants"`
}

// Clone returns a deep copy so callers cannot alias the roster.
func (a Activity) Clone() Activity {
	a.Participants = append(make([]string, 0, len(a.Participants)), a.Participants...)
	return a
}

// Full reports whether the roster has reached MaxParticipants.
func (a Activity) Full() bool {
	return a.MaxParticipants > 0 && len(a.Participants) >= a.MaxParticipants
}

// SeedActivities returns the activities every process starts with.
func SeedActivities() map[string]Activity {
	return map[string]Activity{
		"Chess Club": {
			Description:     "Learn strategies and compete in chess tournaments",
			Schedule:        "Fridays, 3:30 PM - 5:00 PM",
			MaxParticipants: 12,
			Participants:    []string{"michael@mergington.edu", "daniel@mergington.edu"},
		},
		"Programming Class": {
			Description:     "Learn programming fundamentals and build software projects",
			Schedule:        "Tuesdays and Thursdays, 3:30 PM - 4:30 PM",
			MaxParticipants: 20,
			Participants:    []string{"emma@mergington.edu", "sophia@mergington.edu"},
		},
		"Gym Class": {
			Description:     "Physical education and sports activities",
			Schedule:        "Mondays, Wednesdays, Fridays, 2:00 PM - 3:00 PM",
			MaxParticipants: 30,
			Participants:    []string{"john@mergington.edu", "olivia@mergington.edu"},
		},
	}
}
