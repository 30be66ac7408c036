package match

import "time"

// MilestoneKind identifies a celebration-worthy achievement.
type MilestoneKind string

const (
	MilestoneFifty         MilestoneKind = "50"
	MilestoneHundred       MilestoneKind = "100"
	MilestoneFiveWickets   MilestoneKind = "5W"
	MilestonePlayerOfMatch MilestoneKind = "MOM"
)

// MilestoneDisplay is how long clients keep a celebration on screen.
const MilestoneDisplay = 5 * time.Second

const (
	thirtyRuns     = 30
	fiftyRuns      = 50
	hundredRuns    = 100
	fiveWicketHaul = 5
)

// Milestone is a transient notification. It is never stored in MatchState.
type Milestone struct {
	Kind       MilestoneKind `json:"kind"`
	PlayerID   string        `json:"player_id"`
	PlayerName string        `json:"player_name"`
	Side       TeamSide      `json:"side"`
}

func newMilestone(kind MilestoneKind, p *Player, side TeamSide) Milestone {
	return Milestone{Kind: kind, PlayerID: p.ID, PlayerName: p.Name, Side: side}
}

// creditBatter adds one delivery faced to p and reports the run milestones
// crossed on it. Thirties are counted but not announced.
func creditBatter(p *Player, runs int, side TeamSide) []Milestone {
	before := p.Stats.Runs
	p.Stats.Runs += runs
	p.Stats.Balls++
	switch runs {
	case 0:
		p.Stats.DotBalls++
	case 4:
		p.Stats.Fours++
	case 6:
		p.Stats.Sixes++
	}

	var out []Milestone
	if crossed(before, p.Stats.Runs, thirtyRuns) {
		p.Stats.Thirties++
	}
	if crossed(before, p.Stats.Runs, fiftyRuns) {
		p.Stats.Fifties++
		out = append(out, newMilestone(MilestoneFifty, p, side))
	}
	if crossed(before, p.Stats.Runs, hundredRuns) {
		p.Stats.Hundreds++
		out = append(out, newMilestone(MilestoneHundred, p, side))
	}
	return out
}

// creditBowler charges the delivery to p. A wicket counts for the bowler
// unless the dismissal is a run out.
func creditBowler(p *Player, runs int, isWicket bool, w *Wicket, side TeamSide) []Milestone {
	before := p.Stats.Wickets
	p.Stats.RunsConceded += runs
	if runs == 0 && !isWicket {
		p.Stats.DotBalls++
	}
	if !isWicket || (w != nil && !w.Kind.CreditsBowler()) {
		return nil
	}
	p.Stats.Wickets++
	if before < fiveWicketHaul && p.Stats.Wickets == fiveWicketHaul {
		p.Stats.FiveWickets++
		return []Milestone{newMilestone(MilestoneFiveWickets, p, side)}
	}
	return nil
}

func creditFielder(p *Player, kind DismissalType) {
	switch kind {
	case DismissalTypeCaught:
		p.Stats.Catches++
	case DismissalTypeRunOut:
		p.Stats.RunOuts++
	case DismissalTypeStumped:
		p.Stats.Stumpings++
	}
}

func crossed(before, after, threshold int) bool {
	return before < threshold && after >= threshold
}
