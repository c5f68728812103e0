package team

import "time"

type TeamStatus string

const (
	TeamActive   TeamStatus = "Active"
	TeamInactive TeamStatus = "Inactive"
)

// Member is one user's membership in a team. UserID is unique within a
// team.
type Member struct {
	UserID   string `json:"user_id"`
	Role     string `json:"role"`
	JoinDate string `json:"join_date"`
	Status   string `json:"status"`
}

// SubTeam holds a subset of the parent team's member user ids. Modules may
// reference a sub-team by id.
type SubTeam struct {
	ID          string   `json:"id"`
	TeamID      string   `json:"team_id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	LeadID      *string  `json:"lead_id"`
	Members     []string `json:"members"`
}

type Team struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	CreatedAt   time.Time  `json:"created_at"`
	Status      TeamStatus `json:"status"`
	LeadID      *string    `json:"lead_id"`
	Members     []Member   `json:"members"`
	SubTeams    []SubTeam  `json:"sub_teams"`
}

type CreateTeamInput struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Status      TeamStatus `json:"status"`
	LeadID      *string    `json:"lead_id"`
}

type UpdateTeamInput struct {
	Name        *string     `json:"name"`
	Description *string     `json:"description"`
	Status      *TeamStatus `json:"status"`
	LeadID      *string     `json:"lead_id"`
}

type UpdateMemberInput struct {
	Role   *string `json:"role"`
	Status *string `json:"status"`
}

type CreateSubTeamInput struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	LeadID      *string `json:"lead_id"`
}
