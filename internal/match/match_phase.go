package match

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrInvalidPhase     = errors.New("command not allowed in the current phase")
	ErrInvalidTeam      = errors.New("invalid team setup")
	ErrInvalidOvers     = errors.New("invalid overs setup")
	ErrNotEnoughPlayers = errors.New("not enough players to open the innings")
)

var defaultTeamColors = map[TeamSide]string{SideA: "#06b6d4", SideB: "#ef4444"}

// Batting positions 0-3 are batsmen, 4-5 all-rounders, 10 keeps wicket.
var rolesByBattingOrder = []PlayerRole{RoleBatsman, RoleBatsman, RoleBatsman, RoleBatsman, RoleAllRounder, RoleAllRounder}

const keeperPosition = 10

// TeamSetup is the user input for one side of the match.
type TeamSetup struct {
	ID          string   `json:"id" binding:"omitempty,max=64"`
	Name        string   `json:"name" binding:"required,max=60"`
	Color       string   `json:"color" binding:"omitempty,max=16"`
	Logo        string   `json:"logo" binding:"omitempty,max=2048"`
	PlayerNames []string `json:"player_names" binding:"max=11,dive,max=60"`
}

// OversSetup is the user input that starts play.
type OversSetup struct {
	TotalOvers   int      `json:"total_overs" binding:"required,min=1,max=50"`
	BattingFirst TeamSide `json:"batting_first" binding:"omitempty,oneof=A B"`
	Target       int      `json:"target" binding:"min=0"` // > 0 starts a chase in innings 2
}

func requirePhase(s MatchState, want MatchPhase) error {
	if s.Phase != want {
		return fmt.Errorf("%w: phase is %s, want %s", ErrInvalidPhase, s.Phase, want)
	}
	return nil
}

// StartSetup moves a fresh match into team selection.
func StartSetup(s MatchState) (MatchState, error) {
	if err := requirePhase(s, PhaseLanding); err != nil {
		return s, err
	}
	next := s.Clone()
	next.Phase = PhaseSetupTeams
	next.Revision++
	return next, nil
}

// ConfigureTeams builds both eleven-player squads.
func ConfigureTeams(s MatchState, a, b TeamSetup) (MatchState, error) {
	if err := requirePhase(s, PhaseSetupTeams); err != nil {
		return s, err
	}
	teamA, err := buildTeam(a, SideA)
	if err != nil {
		return s, err
	}
	teamB, err := buildTeam(b, SideB)
	if err != nil {
		return s, err
	}

	next := s.Clone()
	next.TeamA = teamA
	next.TeamB = teamB
	next.Phase = PhaseSetupOvers
	next.Revision++
	return next, nil
}

func buildTeam(in TeamSetup, side TeamSide) (Team, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return Team{}, fmt.Errorf("%w: team %s needs a name", ErrInvalidTeam, side)
	}
	if len(in.PlayerNames) > TeamSize {
		return Team{}, fmt.Errorf("%w: team %s has %d players, at most %d allowed", ErrInvalidTeam, side, len(in.PlayerNames), TeamSize)
	}

	compact := strings.ReplaceAll(name, " ", "")
	t := Team{
		ID:      strings.TrimSpace(in.ID),
		Name:    name,
		Color:   in.Color,
		Logo:    in.Logo,
		Players: make([]Player, TeamSize),
	}
	if t.ID == "" {
		t.ID = strings.ToLower(compact) + "-" + strings.ToLower(string(side))
	}
	if t.Color == "" {
		t.Color = defaultTeamColors[side]
	}

	for i := range t.Players {
		playerName := ""
		if i < len(in.PlayerNames) {
			playerName = strings.TrimSpace(in.PlayerNames[i])
		}
		if playerName == "" {
			playerName = fmt.Sprintf("%s Player %d", name, i+1)
		}
		t.Players[i] = Player{
			ID:   fmt.Sprintf("%s-%d", compact, i),
			Name: playerName,
			Role: roleFor(i),
		}
	}
	return t, nil
}

func roleFor(position int) PlayerRole {
	switch {
	case position < len(rolesByBattingOrder):
		return rolesByBattingOrder[position]
	case position == keeperPosition:
		return RoleKeeper
	default:
		return RoleBowler
	}
}

// ConfigureOvers sets the match length and who bats, and starts play. A
// positive target skips straight to a second-innings chase.
func ConfigureOvers(s MatchState, in OversSetup) (MatchState, error) {
	if err := requirePhase(s, PhaseSetupOvers); err != nil {
		return s, err
	}
	if in.TotalOvers <= 0 {
		return s, fmt.Errorf("%w: total overs must be positive, got %d", ErrInvalidOvers, in.TotalOvers)
	}
	side := in.BattingFirst
	switch side {
	case "":
		side = SideA
	case SideA, SideB:
	default:
		return s, fmt.Errorf("%w: unknown side %q", ErrInvalidOvers, side)
	}

	next := s.Clone()
	next.TotalOvers = in.TotalOvers
	next.BattingSide = side
	next.BattingFirst = next.Team(side).Name
	next.syncTeamNames()
	next.CurrentInnings = 1
	next.Target = nil
	if in.Target > 0 {
		target := in.Target
		next.CurrentInnings = 2
		next.Target = &target
	}
	next.Winner, next.WinningSide = "", ""
	next.resetInnings()
	next.Phase = PhaseLive
	next = assignOpeners(next)
	next.Revision++
	return next, nil
}

// AssignOpeners puts the first two batters in and hands the ball to the last
// player of the bowling side. It does nothing once a striker is set.
func AssignOpeners(s MatchState) (MatchState, error) {
	if err := requirePhase(s, PhaseLive); err != nil {
		return s, err
	}
	if s.StrikerID != "" {
		return s, nil
	}
	if len(s.BattingTeam().Players) < 2 || len(s.BowlingTeam().Players) < 1 {
		return s, ErrNotEnoughPlayers
	}
	next := assignOpeners(s.Clone())
	next.Revision++
	return next, nil
}

func assignOpeners(s MatchState) MatchState {
	batting, bowling := s.BattingTeam().Players, s.BowlingTeam().Players
	if s.StrikerID != "" || len(batting) < 2 || len(bowling) < 1 {
		return s
	}
	s.StrikerID = batting[0].ID
	s.NonStrikerID = batting[1].ID
	s.CurrentBowlerID = bowling[len(bowling)-1].ID
	s.CurrentPartnership = Partnership{}
	return s
}

// StartSecondInnings swaps the sides after an innings break.
func StartSecondInnings(s MatchState) (MatchState, error) {
	if err := requirePhase(s, PhaseInningsBreak); err != nil {
		return s, err
	}
	next := s.Clone()
	next.BattingSide = s.BattingSide.Other()
	next.syncTeamNames()
	next.CurrentInnings = 2
	next.resetInnings()
	next.Phase = PhaseLive
	next = assignOpeners(next)
	next.Revision++
	return next, nil
}

// SwapStrike exchanges striker and non-striker by hand.
func SwapStrike(s MatchState) (MatchState, error) {
	if err := requirePhase(s, PhaseLive); err != nil {
		return s, err
	}
	next := s.Clone()
	next.StrikerID, next.NonStrikerID = s.NonStrikerID, s.StrikerID
	next.Revision++
	return next, nil
}

// Reset discards the match.
func Reset() MatchState {
	return NewMatchState()
}

func (s *MatchState) resetInnings() {
	s.Score, s.Wickets, s.Overs, s.Balls = 0, 0, 0, 0
	s.RecentBalls = []string{}
	s.StrikerID, s.NonStrikerID, s.CurrentBowlerID = "", "", ""
	s.CurrentPartnership = Partnership{}
}
