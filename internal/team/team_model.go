package team

import (
	"database/sql/driver"

	"gorm.io/gorm"

	"github.com/DhavalSuthar-24/crickpro/internal/match"
	"github.com/DhavalSuthar-24/crickpro/internal/models"
)

// Players is a squad stored as a JSON column.
type Players []match.Player

func (p Players) Value() (driver.Value, error) {
	return models.JSONValue(p)
}

func (p *Players) Scan(src interface{}) error {
	return models.ScanJSON(src, p, "Players")
}

// TeamRoster is one of a user's saved teams. TeamKey is the match team id.
type TeamRoster struct {
	gorm.Model
	UserID  uint    `json:"user_id" gorm:"uniqueIndex:idx_roster_user_team;not null"`
	TeamKey string  `json:"team_id" gorm:"uniqueIndex:idx_roster_user_team;size:64;not null"`
	Name    string  `json:"name" gorm:"not null"`
	Color   string  `json:"color"`
	Logo    string  `json:"logo"`
	Players Players `json:"players" gorm:"type:text"`
}

func rosterFromTeam(userID uint, t match.Team) TeamRoster {
	return TeamRoster{
		UserID:  userID,
		TeamKey: t.ID,
		Name:    t.Name,
		Color:   t.Color,
		Logo:    t.Logo,
		Players: Players(t.Players),
	}
}

func (r TeamRoster) Team() match.Team {
	players := []match.Player(r.Players)
	if players == nil {
		players = []match.Player{}
	}
	return match.Team{
		ID:      r.TeamKey,
		Name:    r.Name,
		Color:   r.Color,
		Logo:    r.Logo,
		Players: players,
	}
}
