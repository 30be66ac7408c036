package commentary

import (
	"context"
	"errors"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/DhavalSuthar-24/crickpro/internal/match"
)

type stubGenerator struct {
	text  string
	err   error
	calls int
	wait  time.Duration
}

func (g *stubGenerator) Generate(ctx context.Context, _ match.MatchState, _, _ string) (string, error) {
	g.calls++
	if g.wait > 0 {
		select {
		case <-time.After(g.wait):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	return g.text, g.err
}

func liveState(t *testing.T) match.MatchState {
	t.Helper()
	s, _ := match.StartSetup(match.NewMatchState())
	s, err := match.ConfigureTeams(s,
		match.TeamSetup{Name: "India", PlayerNames: []string{"Rohit", "Gill"}},
		match.TeamSetup{Name: "Australia", PlayerNames: []string{"", "", "", "", "", "", "", "", "", "", "Cummins"}},
	)
	if err != nil {
		t.Fatalf("ConfigureTeams: %v", err)
	}
	s, err = match.ConfigureOvers(s, match.OversSetup{TotalOvers: 5})
	if err != nil {
		t.Fatalf("ConfigureOvers: %v", err)
	}
	return s
}

func TestFallbackPicksStockPhrase(t *testing.T) {
	f := &Fallback{pick: func(n int) int { return n - 1 }}
	got, err := f.Generate(context.Background(), match.NewMatchState(), "4", "")
	if err != nil || got != "What a delivery!" {
		t.Fatalf("Generate = %q, %v", got, err)
	}
	if !slices.Contains(stockPhrases, NewFallback().Phrase()) {
		t.Fatalf("random phrase not from the stock list")
	}
}

func TestPrompt(t *testing.T) {
	s := liveState(t)
	s.Score, s.Wickets = 42, 3

	got := Prompt(s, "W", "Caught by Cummins")
	for _, want := range []string{
		"Match: India (42/3) vs Australia.",
		"Striker: Rohit (0). Bowler: Cummins.",
		"Event: W. Detail: Caught by Cummins",
		"max 20 words",
	} {
		if !strings.Contains(got, want) {
			t.Fatalf("prompt missing %q:\n%s", want, got)
		}
	}
	if strings.Contains(Prompt(s, "1", ""), "Detail:") {
		t.Fatalf("detail written without extra info")
	}
}

func TestResilientFallsBack(t *testing.T) {
	tests := []struct {
		name    string
		primary Generator
	}{
		{name: "no primary"},
		{name: "primary error", primary: &stubGenerator{err: errors.New("boom")}},
		{name: "quota", primary: &stubGenerator{err: ErrQuotaExceeded}},
		{name: "timeout", primary: &stubGenerator{text: "too late", wait: time.Second}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewResilient(tt.primary, 0, 20*time.Millisecond)
			got, err := r.Generate(context.Background(), liveState(t), "0", "")
			if err != nil {
				t.Fatalf("Generate error: %v", err)
			}
			if !slices.Contains(stockPhrases, got) {
				t.Fatalf("got %q, want a stock phrase", got)
			}
		})
	}
}

func TestResilientUsesPrimary(t *testing.T) {
	primary := &stubGenerator{text: "Smashed over long-on!"}
	r := NewResilient(primary, 0, time.Second)
	got, _ := r.Generate(context.Background(), liveState(t), "6", "")
	if got != "Smashed over long-on!" {
		t.Fatalf("got %q", got)
	}
}

func TestResilientRateLimit(t *testing.T) {
	primary := &stubGenerator{text: "From the model."}
	r := NewResilient(primary, 2, time.Second)
	s := liveState(t)
	for i := 0; i < 5; i++ {
		r.Generate(context.Background(), s, "1", "")
	}
	if primary.calls != 2 {
		t.Fatalf("primary called %d times, want 2", primary.calls)
	}
}
