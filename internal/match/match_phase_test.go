package match

import (
	"errors"
	"reflect"
	"testing"
)

func TestNewMatchState(t *testing.T) {
	s := NewMatchState()
	if s.Phase != PhaseLanding || s.TotalOvers != 5 || s.CurrentInnings != 1 {
		t.Fatalf("unexpected initial state: %+v", s)
	}
	if s.TeamA.ID != "1" || s.TeamB.ID != "2" {
		t.Fatalf("team ids = %q/%q", s.TeamA.ID, s.TeamB.ID)
	}
	if s.LastCommentary != "Welcome to the match! The players are taking the field." {
		t.Fatalf("commentary = %q", s.LastCommentary)
	}
	if s.Target != nil || s.Winner != "" {
		t.Fatalf("target/winner should be empty")
	}
}

func TestCommandsRejectWrongPhase(t *testing.T) {
	fresh := NewMatchState()
	tests := []struct {
		name string
		run  func(MatchState) (MatchState, error)
	}{
		{"configure teams", func(s MatchState) (MatchState, error) {
			return ConfigureTeams(s, TeamSetup{Name: "A"}, TeamSetup{Name: "B"})
		}},
		{"configure overs", func(s MatchState) (MatchState, error) {
			return ConfigureOvers(s, OversSetup{TotalOvers: 5})
		}},
		{"assign openers", AssignOpeners},
		{"second innings", StartSecondInnings},
		{"swap strike", SwapStrike},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.run(fresh)
			if !errors.Is(err, ErrInvalidPhase) {
				t.Fatalf("err = %v, want ErrInvalidPhase", err)
			}
			if !reflect.DeepEqual(got, fresh) {
				t.Fatalf("state changed on rejected command")
			}
		})
	}

	live := liveMatch(t, 5, 0)
	if _, err := StartSetup(live); !errors.Is(err, ErrInvalidPhase) {
		t.Fatalf("StartSetup while live: err = %v", err)
	}
}

func TestConfigureTeamsBuildsSquads(t *testing.T) {
	s, _ := StartSetup(NewMatchState())
	names := []string{"Rohit", "", "  Virat  "}
	s, err := ConfigureTeams(s,
		TeamSetup{Name: "Mumbai Indians", PlayerNames: names},
		TeamSetup{ID: "saved-team", Name: "Chennai", Color: "#ffff00"},
	)
	if err != nil {
		t.Fatalf("ConfigureTeams: %v", err)
	}
	if s.Phase != PhaseSetupOvers {
		t.Fatalf("phase = %s", s.Phase)
	}

	a := s.TeamA
	if len(a.Players) != TeamSize || a.ID != "mumbaiindians-a" || a.Color != "#06b6d4" {
		t.Fatalf("team A = id %q color %q players %d", a.ID, a.Color, len(a.Players))
	}
	if a.Players[0].Name != "Rohit" || a.Players[1].Name != "Mumbai Indians Player 2" || a.Players[2].Name != "Virat" {
		t.Fatalf("names = %q, %q, %q", a.Players[0].Name, a.Players[1].Name, a.Players[2].Name)
	}
	if a.Players[4].ID != "MumbaiIndians-4" {
		t.Fatalf("player id = %q", a.Players[4].ID)
	}

	b := s.TeamB
	if b.ID != "saved-team" || b.Color != "#ffff00" {
		t.Fatalf("team B = id %q color %q", b.ID, b.Color)
	}

	wantRoles := []PlayerRole{
		RoleBatsman, RoleBatsman, RoleBatsman, RoleBatsman,
		RoleAllRounder, RoleAllRounder,
		RoleBowler, RoleBowler, RoleBowler, RoleBowler,
		RoleKeeper,
	}
	for i, p := range b.Players {
		if p.Role != wantRoles[i] {
			t.Fatalf("position %d role = %s, want %s", i, p.Role, wantRoles[i])
		}
	}
}

func TestConfigureTeamsValidation(t *testing.T) {
	s, _ := StartSetup(NewMatchState())
	tooMany := make([]string, TeamSize+1)

	tests := []struct {
		name string
		a, b TeamSetup
	}{
		{name: "blank name", a: TeamSetup{Name: "   "}, b: TeamSetup{Name: "B"}},
		{name: "too many players", a: TeamSetup{Name: "A"}, b: TeamSetup{Name: "B", PlayerNames: tooMany}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ConfigureTeams(s, tt.a, tt.b); !errors.Is(err, ErrInvalidTeam) {
				t.Fatalf("err = %v, want ErrInvalidTeam", err)
			}
		})
	}
}

func TestConfigureOvers(t *testing.T) {
	s, _ := StartSetup(NewMatchState())
	s, _ = ConfigureTeams(s, TeamSetup{Name: "Lions"}, TeamSetup{Name: "Tigers"})

	if _, err := ConfigureOvers(s, OversSetup{TotalOvers: 0}); !errors.Is(err, ErrInvalidOvers) {
		t.Fatalf("zero overs: err = %v", err)
	}
	if _, err := ConfigureOvers(s, OversSetup{TotalOvers: 3, BattingFirst: "C"}); !errors.Is(err, ErrInvalidOvers) {
		t.Fatalf("bad side: err = %v", err)
	}

	live, err := ConfigureOvers(s, OversSetup{TotalOvers: 3, BattingFirst: SideB})
	if err != nil {
		t.Fatalf("ConfigureOvers: %v", err)
	}
	if live.Phase != PhaseLive || live.TotalOvers != 3 || live.CurrentInnings != 1 || live.Target != nil {
		t.Fatalf("unexpected live state: phase=%s overs=%d innings=%d", live.Phase, live.TotalOvers, live.CurrentInnings)
	}
	if live.BattingSide != SideB || live.BattingTeamName != "Tigers" || live.BowlingTeamName != "Lions" || live.BattingFirst != "Tigers" {
		t.Fatalf("batting = %s %q vs %q", live.BattingSide, live.BattingTeamName, live.BowlingTeamName)
	}
	if live.StrikerID != "Tigers-0" || live.NonStrikerID != "Tigers-1" || live.CurrentBowlerID != "Lions-10" {
		t.Fatalf("openers = %q/%q bowler %q", live.StrikerID, live.NonStrikerID, live.CurrentBowlerID)
	}

	chase, err := ConfigureOvers(s, OversSetup{TotalOvers: 3, Target: 40})
	if err != nil {
		t.Fatalf("ConfigureOvers chase: %v", err)
	}
	if chase.CurrentInnings != 2 || chase.TargetValue() != 40 || chase.BattingSide != SideA {
		t.Fatalf("chase innings=%d target=%d side=%s", chase.CurrentInnings, chase.TargetValue(), chase.BattingSide)
	}
}

func TestAssignOpenersIdempotent(t *testing.T) {
	s := liveMatch(t, 5, 0)
	again, err := AssignOpeners(s)
	if err != nil {
		t.Fatalf("AssignOpeners: %v", err)
	}
	if !reflect.DeepEqual(again, s) {
		t.Fatalf("second AssignOpeners changed the state")
	}

	s.StrikerID = ""
	s.TeamB.Players = nil
	if _, err := AssignOpeners(s); !errors.Is(err, ErrNotEnoughPlayers) {
		t.Fatalf("err = %v, want ErrNotEnoughPlayers", err)
	}
}

func TestStartSecondInnings(t *testing.T) {
	s := liveMatch(t, 1, 0)
	s, _ = bowl(t, s, Ball{Runs: 4}, Ball{Runs: 6}, Ball{Runs: 1}, Ball{Runs: 0}, wicket(Bowled()), Ball{Runs: 2})
	if s.Phase != PhaseInningsBreak {
		t.Fatalf("phase = %s", s.Phase)
	}

	next, err := StartSecondInnings(s)
	if err != nil {
		t.Fatalf("StartSecondInnings: %v", err)
	}
	if next.Phase != PhaseLive || next.CurrentInnings != 2 || next.TargetValue() != 14 {
		t.Fatalf("phase=%s innings=%d target=%d", next.Phase, next.CurrentInnings, next.TargetValue())
	}
	if next.BattingSide != SideB || next.BattingTeamName != "Tigers" || next.BowlingTeamName != "Lions" {
		t.Fatalf("sides not swapped: %s %q/%q", next.BattingSide, next.BattingTeamName, next.BowlingTeamName)
	}
	if next.Score != 0 || next.Wickets != 0 || next.Overs != 0 || next.Balls != 0 || len(next.RecentBalls) != 0 {
		t.Fatalf("innings counters not reset")
	}
	if next.StrikerID != "Tigers-0" || next.NonStrikerID != "Tigers-1" || next.CurrentBowlerID != "Lions-10" {
		t.Fatalf("openers = %q/%q bowler %q", next.StrikerID, next.NonStrikerID, next.CurrentBowlerID)
	}
	if next.TeamA.Players[0].Stats.Runs != 11 {
		t.Fatalf("first innings stats lost")
	}
}

func TestSwapStrike(t *testing.T) {
	s := liveMatch(t, 5, 0)
	got, err := SwapStrike(s)
	if err != nil {
		t.Fatalf("SwapStrike: %v", err)
	}
	if got.StrikerID != s.NonStrikerID || got.NonStrikerID != s.StrikerID {
		t.Fatalf("not swapped: %q/%q", got.StrikerID, got.NonStrikerID)
	}
	if got.Revision != s.Revision+1 {
		t.Fatalf("revision = %d", got.Revision)
	}
}

func TestReset(t *testing.T) {
	if !reflect.DeepEqual(Reset(), NewMatchState()) {
		t.Fatalf("Reset differs from NewMatchState")
	}
}

func TestWicketNormalize(t *testing.T) {
	tests := []struct {
		in   Wicket
		want string
	}{
		{Wicket{Kind: DismissalTypeLBW, FielderID: "x"}, ""},
		{Wicket{Kind: DismissalTypeHitWicket, FielderID: "x"}, ""},
		{Wicket{Kind: DismissalTypeRetired, FielderID: "x"}, ""},
		{Caught("x"), "x"},
		{RunOut("x"), "x"},
		{Stumped("x"), "x"},
	}
	for _, tt := range tests {
		if got := tt.in.Normalize().FielderID; got != tt.want {
			t.Fatalf("%s: fielder = %q, want %q", tt.in.Kind, got, tt.want)
		}
	}
}
