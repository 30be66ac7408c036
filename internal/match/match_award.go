package match

// Points scores a player's all-round contribution for the match award.
func Points(p Player) int {
	return p.Stats.Runs + 20*p.Stats.Wickets + 10*p.Stats.Catches + 10*p.Stats.RunOuts
}

// BestPlayer returns the Player of the Match: the highest Points across team A
// then team B in batting order, earliest player on a tie. It returns nil when
// neither team has players.
func BestPlayer(s MatchState) *Player {
	ref, ok := bestPlayerRef(&s)
	if !ok {
		return nil
	}
	p, _ := s.Player(ref)
	best := *p
	return &best
}

func bestPlayerRef(s *MatchState) (PlayerRef, bool) {
	var best PlayerRef
	bestPoints := -1
	for _, side := range []TeamSide{SideA, SideB} {
		for i, p := range s.Team(side).Players {
			if pts := Points(p); pts > bestPoints {
				best, bestPoints = PlayerRef{Side: side, Index: i}, pts
			}
		}
	}
	return best, bestPoints >= 0
}
