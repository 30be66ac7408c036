package match

import (
	"fmt"
	"strconv"
)

// Wicket is a tagged dismissal. Only Caught, Run Out and Stumped carry a
// fielder; use the constructors or Normalize to keep that true.
type Wicket struct {
	Kind      DismissalType `json:"type"`
	FielderID string        `json:"fielder_id,omitempty"`
}

func Bowled() Wicket    { return Wicket{Kind: DismissalTypeBowled} }
func LBW() Wicket       { return Wicket{Kind: DismissalTypeLBW} }
func HitWicket() Wicket { return Wicket{Kind: DismissalTypeHitWicket} }
func Retired() Wicket   { return Wicket{Kind: DismissalTypeRetired} }

func Caught(fielderID string) Wicket  { return Wicket{Kind: DismissalTypeCaught, FielderID: fielderID} }
func RunOut(fielderID string) Wicket  { return Wicket{Kind: DismissalTypeRunOut, FielderID: fielderID} }
func Stumped(fielderID string) Wicket { return Wicket{Kind: DismissalTypeStumped, FielderID: fielderID} }

// Normalize drops a fielder from dismissal kinds that cannot have one.
func (w Wicket) Normalize() Wicket {
	if !w.Kind.NeedsFielder() {
		w.FielderID = ""
	}
	return w
}

// Ball is one scoring event. Extras are entered as Runs=1 with label "WD" or
// "NB" and are counted as a legal delivery.
type Ball struct {
	Runs     int     `json:"runs"`
	IsWicket bool    `json:"is_wicket"`
	Label    string  `json:"label"`
	Wicket   *Wicket `json:"wicket,omitempty"`
}

func (b Ball) label() string {
	if b.Label != "" {
		return b.Label
	}
	if b.IsWicket {
		return "W"
	}
	return strconv.Itoa(b.Runs)
}

// Outcome describes what a single ApplyBall call did.
type Outcome struct {
	Applied      bool        `json:"applied"`
	Label        string      `json:"label,omitempty"`
	OverComplete bool        `json:"over_complete"`
	Dismissal    string      `json:"dismissal,omitempty"` // "<Kind>[ by <fielder>]"
	Milestones   []Milestone `json:"milestones,omitempty"`
	InningsEnded bool        `json:"innings_ended"`
	MatchEnded   bool        `json:"match_ended"`
}

// rosterIndex maps player ids to their slot, per side. Ids are only unique
// within a team.
type rosterIndex map[TeamSide]map[string]int

func newRosterIndex(s *MatchState) rosterIndex {
	idx := make(rosterIndex, 2)
	for _, side := range []TeamSide{SideA, SideB} {
		players := s.Team(side).Players
		m := make(map[string]int, len(players))
		for i := len(players) - 1; i >= 0; i-- {
			m[players[i].ID] = i // first occurrence wins
		}
		idx[side] = m
	}
	return idx
}

func (idx rosterIndex) lookup(side TeamSide, id string) (PlayerRef, bool) {
	if id == "" {
		return PlayerRef{}, false
	}
	i, ok := idx[side][id]
	if !ok {
		return PlayerRef{}, false
	}
	return PlayerRef{Side: side, Index: i}, true
}

// ApplyBall folds one delivery into the match. It never mutates prev. Outside
// the LIVE phase, or for runs outside 0..6, the state is returned unchanged
// with Applied=false.
func ApplyBall(prev MatchState, b Ball) (MatchState, Outcome) {
	if prev.Phase != PhaseLive || b.Runs < 0 || b.Runs > 6 {
		return prev, Outcome{}
	}

	s := prev.Clone()
	if s.freshInnings() {
		s = assignOpeners(s)
	}

	var wicket *Wicket
	if b.IsWicket && b.Wicket != nil {
		w := b.Wicket.Normalize()
		wicket = &w
	}

	out := Outcome{Applied: true, Label: b.label()}
	idx := newRosterIndex(&s)
	batSide, bowlSide := s.BattingSide, s.BattingSide.Other()
	batting := s.BattingTeam()
	bowling := s.BowlingTeam()

	// over accounting
	s.Balls++
	if s.Balls == BallsPerOver {
		s.Balls = 0
		s.Overs++
		out.OverComplete = true
	}

	// striker
	if ref, ok := idx.lookup(batSide, s.StrikerID); ok {
		p, _ := s.Player(ref)
		out.Milestones = append(out.Milestones, creditBatter(p, b.Runs, batSide)...)
	}

	// bowler
	if ref, ok := idx.lookup(bowlSide, s.CurrentBowlerID); ok {
		p, _ := s.Player(ref)
		out.Milestones = append(out.Milestones, creditBowler(p, b.Runs, b.IsWicket, wicket, bowlSide)...)
	}

	// fielder
	if wicket != nil {
		out.Dismissal = string(wicket.Kind)
		if ref, ok := idx.lookup(bowlSide, wicket.FielderID); ok {
			p, _ := s.Player(ref)
			creditFielder(p, wicket.Kind)
			out.Dismissal = fmt.Sprintf("%s by %s", wicket.Kind, p.Name)
		}
	}

	// partnership
	if b.IsWicket {
		s.CurrentPartnership = Partnership{}
	} else {
		s.CurrentPartnership.Runs += b.Runs
		s.CurrentPartnership.Balls++
		switch b.Runs {
		case 4:
			s.CurrentPartnership.Fours++
		case 6:
			s.CurrentPartnership.Sixes++
		}
	}

	// strike rotation and replacement
	if b.IsWicket {
		s.StrikerID = nextBatter(idx, batSide, batting, s.StrikerID, s.NonStrikerID)
	} else if b.Runs%2 != 0 {
		s.StrikerID, s.NonStrikerID = s.NonStrikerID, s.StrikerID
	}
	if out.OverComplete {
		s.StrikerID, s.NonStrikerID = s.NonStrikerID, s.StrikerID
	}

	// bowler rotation
	if out.OverComplete {
		s.CurrentBowlerID = nextBowler(idx, bowlSide, bowling, s.CurrentBowlerID)
	}

	s.Score += b.Runs
	if b.IsWicket {
		s.Wickets++
	}
	s.evaluateResult(out.OverComplete, &out)

	recent := make([]string, 0, MaxRecentBalls)
	recent = append(recent, out.Label)
	recent = append(recent, s.RecentBalls...)
	if len(recent) > MaxRecentBalls {
		recent = recent[:MaxRecentBalls]
	}
	s.RecentBalls = recent
	s.Revision++

	return s, out
}

// nextBatter returns the id that takes strike after a wicket: the player
// after the deeper of the two current batters. An empty id means nobody is
// left to come in.
func nextBatter(idx rosterIndex, side TeamSide, team *Team, strikerID, nonStrikerID string) string {
	striker, ok1 := idx.lookup(side, strikerID)
	nonStriker, ok2 := idx.lookup(side, nonStrikerID)
	if !ok1 || !ok2 {
		return ""
	}
	next := max(striker.Index, nonStriker.Index) + 1
	if next >= len(team.Players) {
		return ""
	}
	return team.Players[next].ID
}

// nextBowler picks the first bowler in list order who did not bowl the over
// just completed, falling back to the current bowler.
func nextBowler(idx rosterIndex, side TeamSide, team *Team, currentID string) string {
	current := -1
	if ref, ok := idx.lookup(side, currentID); ok {
		current = ref.Index
	}
	for i, p := range team.Players {
		if i != current {
			return p.ID
		}
	}
	return currentID
}

func (s *MatchState) evaluateResult(overComplete bool, out *Outcome) {
	maxWickets := len(s.BattingTeam().Players) - 1
	exhausted := s.Wickets >= maxWickets || (overComplete && s.Overs >= s.TotalOvers)

	switch s.CurrentInnings {
	case 2:
		if s.Target != nil && s.Score >= *s.Target {
			s.finish(s.BattingSide)
			out.InningsEnded, out.MatchEnded = true, true
			return
		}
		if !exhausted {
			return
		}
		if s.Target == nil || s.Score == *s.Target-1 {
			s.tie()
		} else {
			s.finish(s.BattingSide.Other())
		}
		out.InningsEnded, out.MatchEnded = true, true
	case 1:
		if exhausted {
			target := s.Score + 1
			s.Target = &target
			s.Phase = PhaseInningsBreak
			out.InningsEnded = true
		}
	}
}

func (s *MatchState) finish(winner TeamSide) {
	s.Phase = PhaseResult
	s.WinningSide = winner
	s.Winner = s.Team(winner).Name
}

func (s *MatchState) tie() {
	s.Phase = PhaseResult
	s.WinningSide = ""
	s.Winner = TieMarker
}

// freshInnings reports whether no delivery has been bowled in the current
// innings and openers are still missing.
func (s *MatchState) freshInnings() bool {
	return s.StrikerID == "" && s.Overs == 0 && s.Balls == 0 && s.Wickets == 0
}
