// Package commentary produces one-line ball commentary for the live match.
package commentary

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strings"

	"github.com/DhavalSuthar-24/crickpro/internal/match"
)

// Generator writes a commentary line for the ball that produced s.
type Generator interface {
	Generate(ctx context.Context, s match.MatchState, label, extra string) (string, error)
}

var stockPhrases = []string{
	"Good line and length.",
	"Played with soft hands.",
	"Driven beautifully!",
	"That's a solid defensive shot.",
	"The fielder cuts it off.",
	"Big appeal! But not given.",
	"Edged... and safe!",
	"Direct hit would have been close!",
	"Excellent running between the wickets.",
	"What a delivery!",
}

// Fallback picks a stock phrase. It never fails.
type Fallback struct {
	pick func(n int) int
}

func NewFallback() *Fallback {
	return &Fallback{pick: rand.IntN}
}

func (f *Fallback) Phrase() string {
	return stockPhrases[f.pick(len(stockPhrases))]
}

func (f *Fallback) Generate(_ context.Context, _ match.MatchState, _, _ string) (string, error) {
	return f.Phrase(), nil
}

// Prompt builds the request sent to the language model.
func Prompt(s match.MatchState, label, extra string) string {
	strikerName, strikerRuns := "unknown", 0
	if ref, ok := s.Find(s.BattingSide, s.StrikerID); ok {
		p, _ := s.Player(ref)
		strikerName, strikerRuns = p.Name, p.Stats.Runs
	}
	bowlerName := "unknown"
	if ref, ok := s.Find(s.BattingSide.Other(), s.CurrentBowlerID); ok {
		p, _ := s.Player(ref)
		bowlerName = p.Name
	}

	var b strings.Builder
	b.WriteString("You are a world-class cricket commentator like Harsha Bhogle or Danny Morrison.\n")
	fmt.Fprintf(&b, "Match: %s (%d/%d) vs %s.\n", s.BattingTeamName, s.Score, s.Wickets, s.BowlingTeamName)
	fmt.Fprintf(&b, "Striker: %s (%d). Bowler: %s.\n", strikerName, strikerRuns, bowlerName)
	fmt.Fprintf(&b, "Event: %s.", label)
	if extra != "" {
		fmt.Fprintf(&b, " Detail: %s", extra)
	}
	b.WriteString("\nTask: Generate one short, exciting commentary sentence (max 20 words). Use cricket terminology.")
	return b.String()
}
