package user

import "github.com/prospectbd/cadence/internal/sdlc"

type SkillLevel string

const (
	SkillEntry        SkillLevel = "Entry"
	SkillIntermediate SkillLevel = "Intermediate"
	SkillAdvanced     SkillLevel = "Advanced"
	SkillExpert       SkillLevel = "Expert"
)

type Skill struct {
	Name  string     `json:"name"`
	Level SkillLevel `json:"level"`
}

// TimeSlot is an HH:mm working interval within a day.
type TimeSlot struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// DaySchedule is one weekday's availability.
type DaySchedule struct {
	Day       string     `json:"day"`
	IsEnabled bool       `json:"is_enabled"`
	Slots     []TimeSlot `json:"slots"`
}

// User is a directory record. The role stored here is informational; the
// acting role on role-sensitive mutations always comes from the caller.
type User struct {
	ID                   string        `json:"id"`
	Name                 string        `json:"name"`
	Email                string        `json:"email"`
	Role                 sdlc.Role     `json:"role"`
	ContractHoursPerWeek float64       `json:"contract_hours_per_week"`
	AvailableHours       float64       `json:"available_hours"`
	Skills               []Skill       `json:"skills"`
	Timezone             string        `json:"timezone"`
	WeeklyAvailability   []DaySchedule `json:"weekly_availability"`
}

type CreateUserInput struct {
	ID                   string        `json:"id"`
	Name                 string        `json:"name"`
	Email                string        `json:"email"`
	Role                 sdlc.Role     `json:"role"`
	ContractHoursPerWeek float64       `json:"contract_hours_per_week"`
	AvailableHours       float64       `json:"available_hours"`
	Skills               []Skill       `json:"skills"`
	Timezone             string        `json:"timezone"`
	WeeklyAvailability   []DaySchedule `json:"weekly_availability"`
}

type UpdateUserInput struct {
	Name                 *string        `json:"name"`
	Email                *string        `json:"email"`
	Role                 *sdlc.Role     `json:"role"`
	ContractHoursPerWeek *float64       `json:"contract_hours_per_week"`
	AvailableHours       *float64       `json:"available_hours"`
	Skills               *[]Skill       `json:"skills"`
	Timezone             *string        `json:"timezone"`
	WeeklyAvailability   *[]DaySchedule `json:"weekly_availability"`
}
