package match

import (
	"database/sql/driver"

	"github.com/DhavalSuthar-24/crickpro/internal/models"
	"gorm.io/gorm"
)

// MatchPhase is the lifecycle stage of a single match.
type MatchPhase string

const (
	PhaseLanding      MatchPhase = "LANDING"
	PhaseSetupTeams   MatchPhase = "SETUP_TEAMS"
	PhaseSetupOvers   MatchPhase = "SETUP_OVERS"
	PhaseLive         MatchPhase = "LIVE"
	PhaseInningsBreak MatchPhase = "INNINGS_BREAK"
	PhaseResult       MatchPhase = "RESULT"
)

// DismissalType for cricket wickets
type DismissalType string

const (
	DismissalTypeBowled    DismissalType = "Bowled"
	DismissalTypeCaught    DismissalType = "Caught"
	DismissalTypeLBW       DismissalType = "LBW"
	DismissalTypeRunOut    DismissalType = "Run Out"
	DismissalTypeStumped   DismissalType = "Stumped"
	DismissalTypeHitWicket DismissalType = "Hit Wicket"
	DismissalTypeRetired   DismissalType = "Retired"
)

// Valid reports whether d is one of the supported dismissal kinds.
func (d DismissalType) Valid() bool {
	switch d {
	case DismissalTypeBowled, DismissalTypeCaught, DismissalTypeLBW, DismissalTypeRunOut,
		DismissalTypeStumped, DismissalTypeHitWicket, DismissalTypeRetired:
		return true
	}
	return false
}

// NeedsFielder reports whether the dismissal credits a fielder.
func (d DismissalType) NeedsFielder() bool {
	return d == DismissalTypeCaught || d == DismissalTypeRunOut || d == DismissalTypeStumped
}

// CreditsBowler reports whether the bowler is awarded the wicket.
func (d DismissalType) CreditsBowler() bool {
	return d != DismissalTypeRunOut
}

// PlayerRole is the position a player was picked for.
type PlayerRole string

const (
	RoleBatsman    PlayerRole = "Batsman"
	RoleBowler     PlayerRole = "Bowler"
	RoleAllRounder PlayerRole = "All-Rounder"
	RoleKeeper     PlayerRole = "Keeper"
)

// TeamSide tags which of the two configured teams a value refers to.
// Team names are display data only; sides are the stable identity.
type TeamSide string

const (
	SideA TeamSide = "A"
	SideB TeamSide = "B"
)

// Other returns the opposing side.
func (s TeamSide) Other() TeamSide {
	if s == SideA {
		return SideB
	}
	return SideA
}

const (
	TieMarker      = "TIE"
	BallsPerOver   = 6
	MaxRecentBalls = 8
	TeamSize       = 11
	SchemaVersion  = 1

	welcomeCommentary = "Welcome to the match! The players are taking the field."
	defaultOvers      = 5
)

// PlayerStats is the running per-match record of a player.
type PlayerStats struct {
	// Batting
	Runs     int `json:"runs"`
	Balls    int `json:"balls"`
	Fours    int `json:"fours"`
	Sixes    int `json:"sixes"`
	DotBalls int `json:"dot_balls"` // dots faced when batting, dots bowled when bowling

	// Bowling
	Wickets      int `json:"wickets"`
	OversBowled  int `json:"overs_bowled"`
	RunsConceded int `json:"runs_conceded"`

	// Fielding
	Catches   int `json:"catches"`
	RunOuts   int `json:"run_outs"`
	Stumpings int `json:"stumpings"`

	// Milestones
	Thirties    int `json:"thirties"`
	Fifties     int `json:"fifties"`
	Hundreds    int `json:"hundreds"`
	FiveWickets int `json:"five_wickets"`
}

type Player struct {
	ID    string      `json:"id"`
	Name  string      `json:"name"`
	Role  PlayerRole  `json:"role"`
	Photo string      `json:"photo,omitempty"`
	Stats PlayerStats `json:"stats"`
}

// Team owns its players; slice order is the batting order.
type Team struct {
	ID      string   `json:"id"`
	Name    string   `json:"name"`
	Players []Player `json:"players"`
	Color   string   `json:"color"`
	Logo    string   `json:"logo,omitempty"`
}

// Partnership tracks the current unbroken batting pair.
type Partnership struct {
	Runs  int `json:"runs"`
	Balls int `json:"balls"`
	Fours int `json:"fours"`
	Sixes int `json:"sixes"`
}

// PlayerRef locates a player without relying on the player id being unique
// across both teams.
type PlayerRef struct {
	Side  TeamSide `json:"side"`
	Index int      `json:"index"`
}

// MatchState is the canonical snapshot of one match. The engine treats it as
// a value: every transition returns a new state and never mutates its input.
type MatchState struct {
	SchemaVersion int        `json:"schema_version"`
	Revision      int64      `json:"revision"`
	Phase         MatchPhase `json:"phase"`
	TeamA         Team       `json:"team_a"`
	TeamB         Team       `json:"team_b"`
	TotalOvers    int        `json:"total_overs"`
	BattingFirst  string     `json:"batting_first,omitempty"` // team name, informational

	CurrentInnings int      `json:"current_innings"`
	Target         *int     `json:"target"`
	Winner         string   `json:"winner,omitempty"` // team name or TieMarker
	WinningSide    TeamSide `json:"winning_side,omitempty"`

	BattingSide     TeamSide `json:"batting_side"`
	BattingTeamName string   `json:"batting_team_name"`
	BowlingTeamName string   `json:"bowling_team_name"`

	Score   int `json:"score"`
	Wickets int `json:"wickets"`
	Overs   int `json:"overs"` // completed overs
	Balls   int `json:"balls"` // balls in the current over, 0..5

	StrikerID       string `json:"striker_id"`
	NonStrikerID    string `json:"non_striker_id"`
	CurrentBowlerID string `json:"current_bowler_id"`

	RecentBalls        []string    `json:"recent_balls"`
	LastCommentary     string      `json:"last_commentary"`
	CurrentPartnership Partnership `json:"current_partnership"`
}

// NewMatchState returns the state a fresh session starts in.
func NewMatchState() MatchState {
	return MatchState{
		SchemaVersion:  SchemaVersion,
		Phase:          PhaseLanding,
		TeamA:          Team{ID: "1", Players: []Player{}},
		TeamB:          Team{ID: "2", Players: []Player{}},
		TotalOvers:     defaultOvers,
		CurrentInnings: 1,
		BattingSide:    SideA,
		RecentBalls:    []string{},
		LastCommentary: welcomeCommentary,
	}
}

// Team returns the team on the given side.
func (s *MatchState) Team(side TeamSide) *Team {
	if side == SideB {
		return &s.TeamB
	}
	return &s.TeamA
}

// BattingTeam returns the team currently batting.
func (s *MatchState) BattingTeam() *Team { return s.Team(s.BattingSide) }

// BowlingTeam returns the team currently bowling.
func (s *MatchState) BowlingTeam() *Team { return s.Team(s.BattingSide.Other()) }

// Player resolves a reference, reporting false when it points nowhere.
func (s *MatchState) Player(ref PlayerRef) (*Player, bool) {
	t := s.Team(ref.Side)
	if ref.Index < 0 || ref.Index >= len(t.Players) {
		return nil, false
	}
	return &t.Players[ref.Index], true
}

// Find looks a player id up on one side.
func (s *MatchState) Find(side TeamSide, id string) (PlayerRef, bool) {
	if id == "" {
		return PlayerRef{}, false
	}
	for i, p := range s.Team(side).Players {
		if p.ID == id {
			return PlayerRef{Side: side, Index: i}, true
		}
	}
	return PlayerRef{}, false
}

// TargetValue returns the target, or 0 when none is set.
func (s *MatchState) TargetValue() int {
	if s.Target == nil {
		return 0
	}
	return *s.Target
}

// Clone returns a deep copy that shares no slices or pointers with s.
func (s MatchState) Clone() MatchState {
	c := s
	c.TeamA = s.TeamA.clone()
	c.TeamB = s.TeamB.clone()
	c.RecentBalls = append([]string{}, s.RecentBalls...)
	if s.Target != nil {
		t := *s.Target
		c.Target = &t
	}
	return c
}

func (t Team) clone() Team {
	c := t
	c.Players = append([]Player{}, t.Players...)
	return c
}

func (s *MatchState) syncTeamNames() {
	s.BattingTeamName = s.BattingTeam().Name
	s.BowlingTeamName = s.BowlingTeam().Name
}

// Value stores the state as a JSON column.
func (s MatchState) Value() (driver.Value, error) {
	return models.JSONValue(s)
}

// Scan reads a JSON column into the state.
func (s *MatchState) Scan(src interface{}) error {
	return models.ScanJSON(src, s, "MatchState")
}

// MatchSnapshot is the persisted copy of a user's current match.
type MatchSnapshot struct {
	gorm.Model
	UserID   uint       `json:"user_id" gorm:"uniqueIndex;not null"`
	Phase    MatchPhase `json:"phase" gorm:"index"`
	Revision int64      `json:"revision"`
	Winner   string     `json:"winner,omitempty"`
	State    MatchState `json:"state" gorm:"type:text"`
}
