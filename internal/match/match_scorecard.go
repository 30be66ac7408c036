package match

import (
	"fmt"
	"math"
)

// Scorecard is a read-only projection of a MatchState for display.
type Scorecard struct {
	BattingTeam string    `json:"batting_team"`
	BowlingTeam string    `json:"bowling_team"`
	Innings     int       `json:"innings"`
	Score       int       `json:"score"`
	Wickets     int       `json:"wickets"`
	Overs       string    `json:"overs"` // "3.4"
	RunRate     float64   `json:"run_rate"`
	Projected   int       `json:"projected_score"`
	Chase       *Chase    `json:"chase,omitempty"`
	Teams       []Innings `json:"teams"`
}

// Chase holds the second-innings equation.
type Chase struct {
	Target          int     `json:"target"`
	RunsNeeded      int     `json:"runs_needed"`
	BallsRemaining  int     `json:"balls_remaining"`
	RequiredRunRate float64 `json:"required_run_rate"`
}

// Innings groups one team's batting, bowling and fielding figures.
type Innings struct {
	Side     TeamSide       `json:"side"`
	Team     string         `json:"team"`
	Batting  []BattingLine  `json:"batting"`
	Bowling  []BowlingLine  `json:"bowling"`
	Fielding []FieldingLine `json:"fielding"`
}

type BattingLine struct {
	PlayerID        string  `json:"player_id"`
	Name            string  `json:"name"`
	Runs            int     `json:"runs"`
	Balls           int     `json:"balls"`
	Fours           int     `json:"fours"`
	Sixes           int     `json:"sixes"`
	StrikeRate      float64 `json:"strike_rate"`
	DotPercent      float64 `json:"dot_percent"`
	BoundaryPercent float64 `json:"boundary_percent"`
	Fifties         int     `json:"fifties"`
	Hundreds        int     `json:"hundreds"`
}

type BowlingLine struct {
	PlayerID     string  `json:"player_id"`
	Name         string  `json:"name"`
	Overs        int     `json:"overs"`
	RunsConceded int     `json:"runs_conceded"`
	Wickets      int     `json:"wickets"`
	Economy      float64 `json:"economy"`
	FiveWickets  int     `json:"five_wickets"`
}

type FieldingLine struct {
	PlayerID  string `json:"player_id"`
	Name      string `json:"name"`
	Catches   int    `json:"catches"`
	RunOuts   int    `json:"run_outs"`
	Stumpings int    `json:"stumpings"`
}

// BuildScorecard derives the display figures for s.
func BuildScorecard(s MatchState) Scorecard {
	bowled := s.Overs*BallsPerOver + s.Balls
	totalBalls := s.TotalOvers * BallsPerOver

	sc := Scorecard{
		BattingTeam: s.BattingTeamName,
		BowlingTeam: s.BowlingTeamName,
		Innings:     s.CurrentInnings,
		Score:       s.Score,
		Wickets:     s.Wickets,
		Overs:       oversString(s.Overs, s.Balls),
	}
	if s.Overs > 0 {
		sc.RunRate = round2(float64(s.Score) / (float64(s.Overs) + float64(s.Balls)/BallsPerOver))
	}
	if bowled > 0 {
		sc.Projected = int(math.Floor(float64(s.Score) / float64(bowled) * float64(totalBalls)))
	}

	if s.CurrentInnings == 2 && s.Target != nil {
		c := &Chase{
			Target:         *s.Target,
			RunsNeeded:     max(*s.Target-s.Score, 0),
			BallsRemaining: max(totalBalls-bowled, 0),
		}
		oversLeft := float64(s.TotalOvers) - (float64(s.Overs) + float64(s.Balls)/BallsPerOver)
		if oversLeft > 0 {
			c.RequiredRunRate = round2(float64(*s.Target-s.Score) / oversLeft)
		}
		sc.Chase = c
	}

	for _, side := range []TeamSide{SideA, SideB} {
		sc.Teams = append(sc.Teams, inningsFor(s.Team(side), side))
	}
	return sc
}

func inningsFor(t *Team, side TeamSide) Innings {
	in := Innings{
		Side:     side,
		Team:     t.Name,
		Batting:  []BattingLine{},
		Bowling:  []BowlingLine{},
		Fielding: []FieldingLine{},
	}
	for _, p := range t.Players {
		st := p.Stats
		in.Batting = append(in.Batting, BattingLine{
			PlayerID:        p.ID,
			Name:            p.Name,
			Runs:            st.Runs,
			Balls:           st.Balls,
			Fours:           st.Fours,
			Sixes:           st.Sixes,
			StrikeRate:      StrikeRate(st),
			DotPercent:      percent(st.DotBalls, st.Balls),
			BoundaryPercent: percent(st.Fours+st.Sixes, st.Balls),
			Fifties:         st.Fifties,
			Hundreds:        st.Hundreds,
		})
		if st.OversBowled > 0 || st.Balls > 0 || st.RunsConceded > 0 || st.Wickets > 0 {
			in.Bowling = append(in.Bowling, BowlingLine{
				PlayerID:     p.ID,
				Name:         p.Name,
				Overs:        st.OversBowled,
				RunsConceded: st.RunsConceded,
				Wickets:      st.Wickets,
				Economy:      Economy(st),
				FiveWickets:  st.FiveWickets,
			})
		}
		if st.Catches > 0 || st.RunOuts > 0 || st.Stumpings > 0 {
			in.Fielding = append(in.Fielding, FieldingLine{
				PlayerID:  p.ID,
				Name:      p.Name,
				Catches:   st.Catches,
				RunOuts:   st.RunOuts,
				Stumpings: st.Stumpings,
			})
		}
	}
	return in
}

// StrikeRate is runs per hundred balls faced.
func StrikeRate(st PlayerStats) float64 {
	if st.Balls == 0 {
		return 0
	}
	return round2(float64(st.Runs) / float64(st.Balls) * 100)
}

// Economy is runs conceded per over. The partial over comes from the balls
// counter, as the scoreboard has always shown it.
func Economy(st PlayerStats) float64 {
	overs := float64(st.OversBowled) + float64(st.Balls%BallsPerOver)/BallsPerOver
	if overs <= 0 {
		return 0
	}
	return round2(float64(st.RunsConceded) / overs)
}

func percent(part, whole int) float64 {
	if whole == 0 {
		return 0
	}
	return round2(float64(part) / float64(whole) * 100)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func oversString(overs, balls int) string {
	return fmt.Sprintf("%d.%d", overs, balls)
}
