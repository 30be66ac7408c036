package match

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/DhavalSuthar-24/crickpro/internal/events"
	"github.com/DhavalSuthar-24/crickpro/internal/telemetry"
)

// ErrMatchNotFinished is returned when the award is asked for before RESULT.
var ErrMatchNotFinished = errors.New("match has not finished")

// RosterStore keeps the user's saved teams in step with the match.
type RosterStore interface {
	SaveTeam(ctx context.Context, userID uint, t Team) error
}

// Commentator writes the commentary line for a ball.
type Commentator interface {
	Generate(ctx context.Context, s MatchState, label, extra string) (string, error)
}

// Publisher receives the service's domain events.
type Publisher interface {
	Publish(e events.Event)
}

// BallApplied is the payload of a ball_applied event.
type BallApplied struct {
	State   MatchState `json:"state"`
	Outcome Outcome    `json:"outcome"`
}

// MilestoneReached is the payload of a milestone event.
type MilestoneReached struct {
	Milestone
	DisplayMillis int64 `json:"display_ms"`
}

// CommentaryLine is the payload of a commentary event.
type CommentaryLine struct {
	Text     string `json:"text"`
	Revision int64  `json:"revision"`
}

// InningsBreak is the payload of an innings_break event.
type InningsBreak struct {
	Target          int    `json:"target"`
	BattingTeamName string `json:"batting_team_name"`
	Score           int    `json:"score"`
	Wickets         int    `json:"wickets"`
}

// MatchResult is the payload of a match_result event.
type MatchResult struct {
	Winner        string   `json:"winner"`
	WinningSide   TeamSide `json:"winning_side,omitempty"`
	PlayerOfMatch *Player  `json:"player_of_match,omitempty"`
}

type ServiceConfig struct {
	PersistTimeout    time.Duration
	CommentaryTimeout time.Duration
	// SessionIdleTimeout is how long an untouched match stays in memory.
	SessionIdleTimeout time.Duration
}

type session struct {
	mu       sync.Mutex
	loaded   bool
	evicted  bool // set under mu when the session leaves the map
	epoch    int  // bumped by Reset so stale commentary never lands on a new match
	lastUsed time.Time
	state    MatchState
}

// Service owns every user's live match. Transitions for one match are
// serialised by the session lock; different users never contend.
type Service struct {
	repo       MatchRepository
	rosters    RosterStore // optional
	commentary Commentator // optional
	bus        Publisher
	cfg        ServiceConfig
	newTeamID  func() string
	now        func() time.Time

	mu       sync.Mutex
	sessions map[uint]*session

	pending sync.WaitGroup
}

func NewService(repo MatchRepository, rosters RosterStore, commentary Commentator, bus Publisher, cfg ServiceConfig) *Service {
	if cfg.PersistTimeout <= 0 {
		cfg.PersistTimeout = 5 * time.Second
	}
	if cfg.CommentaryTimeout <= 0 {
		cfg.CommentaryTimeout = 8 * time.Second
	}
	if cfg.SessionIdleTimeout <= 0 {
		cfg.SessionIdleTimeout = 30 * time.Minute
	}
	return &Service{
		repo:       repo,
		rosters:    rosters,
		commentary: commentary,
		bus:        bus,
		cfg:        cfg,
		newTeamID:  uuid.NewString,
		now:        time.Now,
		sessions:   make(map[uint]*session),
	}
}

// Wait blocks until in-flight commentary requests have finished.
func (s *Service) Wait() {
	s.pending.Wait()
}

func (s *Service) session(userID uint) *session {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[userID]
	if !ok {
		sess = &session{}
		s.sessions[userID] = sess
	}
	return sess
}

// lockSession returns the user's session locked and loaded. Load failures
// are logged and the user starts from a fresh match.
func (s *Service) lockSession(ctx context.Context, userID uint) *session {
	for {
		sess := s.session(userID)
		sess.mu.Lock()
		if sess.evicted {
			sess.mu.Unlock()
			continue
		}
		sess.lastUsed = s.now()
		if sess.loaded {
			return sess
		}
		sess.state = NewMatchState()
		saved, err := s.repo.Load(ctx, userID)
		switch {
		case err != nil:
			telemetry.Errorf("match: load for user %d failed, starting fresh: %v", userID, err)
		case saved != nil:
			sess.state = *saved
		}
		sess.loaded = true
		return sess
	}
}

// EvictIdle drops sessions untouched for longer than the idle timeout. Their
// state is already persisted and is loaded again on the next request. Busy
// sessions are skipped. It returns the number evicted.
func (s *Service) EvictIdle() int {
	cutoff := s.now().Add(-s.cfg.SessionIdleTimeout)
	s.mu.Lock()
	defer s.mu.Unlock()

	evicted := 0
	for userID, sess := range s.sessions {
		if !sess.mu.TryLock() {
			continue
		}
		if sess.lastUsed.Before(cutoff) {
			sess.evicted = true
			delete(s.sessions, userID)
			evicted++
		}
		sess.mu.Unlock()
	}
	return evicted
}

// RunEviction calls EvictIdle every interval until ctx is done.
func (s *Service) RunEviction(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := s.EvictIdle(); n > 0 {
				telemetry.Debugf("match: evicted %d idle sessions", n)
			}
		}
	}
}

// Sessions reports how many matches are held in memory.
func (s *Service) Sessions() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// State returns the user's current match.
func (s *Service) State(ctx context.Context, userID uint) MatchState {
	sess := s.lockSession(ctx, userID)
	defer sess.mu.Unlock()
	return sess.state.Clone()
}

// Scorecard projects the user's current match.
func (s *Service) Scorecard(ctx context.Context, userID uint) Scorecard {
	return BuildScorecard(s.State(ctx, userID))
}

// Award returns the player of the match once the match is over.
func (s *Service) Award(ctx context.Context, userID uint) (*Player, error) {
	st := s.State(ctx, userID)
	if st.Phase != PhaseResult {
		return nil, fmt.Errorf("%w: phase is %s", ErrMatchNotFinished, st.Phase)
	}
	return BestPlayer(st), nil
}

// mutate runs one command under the session lock and, when it is accepted,
// persists and announces the new state.
func (s *Service) mutate(ctx context.Context, userID uint, cmd func(MatchState) (MatchState, error)) (MatchState, error) {
	sess := s.lockSession(ctx, userID)
	defer sess.mu.Unlock()

	next, err := cmd(sess.state)
	if err != nil {
		return sess.state.Clone(), err
	}
	sess.state = next
	s.persist(ctx, userID, next)
	s.publish(userID, events.EventStateChanged, next.Clone())
	return next.Clone(), nil
}

func (s *Service) StartSetup(ctx context.Context, userID uint) (MatchState, error) {
	return s.mutate(ctx, userID, StartSetup)
}

// ConfigureTeams gives unsaved teams a fresh id before building the squads.
func (s *Service) ConfigureTeams(ctx context.Context, userID uint, a, b TeamSetup) (MatchState, error) {
	if a.ID == "" {
		a.ID = s.newTeamID()
	}
	if b.ID == "" {
		b.ID = s.newTeamID()
	}
	return s.mutate(ctx, userID, func(st MatchState) (MatchState, error) {
		return ConfigureTeams(st, a, b)
	})
}

func (s *Service) ConfigureOvers(ctx context.Context, userID uint, in OversSetup) (MatchState, error) {
	return s.mutate(ctx, userID, func(st MatchState) (MatchState, error) {
		return ConfigureOvers(st, in)
	})
}

func (s *Service) SwapStrike(ctx context.Context, userID uint) (MatchState, error) {
	return s.mutate(ctx, userID, SwapStrike)
}

func (s *Service) StartSecondInnings(ctx context.Context, userID uint) (MatchState, error) {
	return s.mutate(ctx, userID, StartSecondInnings)
}

// Reset discards the user's match and its saved snapshot.
func (s *Service) Reset(ctx context.Context, userID uint) MatchState {
	sess := s.lockSession(ctx, userID)
	defer sess.mu.Unlock()

	sess.state = Reset()
	sess.epoch++

	cctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.cfg.PersistTimeout)
	defer cancel()
	if err := s.repo.Clear(cctx, userID); err != nil {
		telemetry.Metrics.PersistErrors.Inc()
		telemetry.Errorf("match: clear for user %d failed: %v", userID, err)
	}
	s.publish(userID, events.EventMatchReset, sess.state.Clone())
	return sess.state.Clone()
}

// ApplyBall scores one delivery. A ball that is not applied leaves the match
// untouched and is reported through Outcome.Applied, not as an error.
func (s *Service) ApplyBall(ctx context.Context, userID uint, b Ball) (MatchState, Outcome) {
	sess := s.lockSession(ctx, userID)
	defer sess.mu.Unlock()

	next, out := ApplyBall(sess.state, b)
	if !out.Applied {
		telemetry.Metrics.BallsRejected.Inc()
		return sess.state.Clone(), out
	}
	telemetry.Metrics.BallsApplied.Inc()

	if out.MatchEnded {
		if ref, ok := bestPlayerRef(&next); ok {
			best, _ := next.Player(ref)
			out.Milestones = append(out.Milestones, newMilestone(MilestonePlayerOfMatch, best, ref.Side))
		}
	}

	sess.state = next
	s.persist(ctx, userID, next)

	s.publish(userID, events.EventBallApplied, BallApplied{State: next.Clone(), Outcome: out})
	for _, m := range out.Milestones {
		s.publish(userID, events.EventMilestone, MilestoneReached{Milestone: m, DisplayMillis: MilestoneDisplay.Milliseconds()})
	}
	switch next.Phase {
	case PhaseInningsBreak:
		s.publish(userID, events.EventInningsBreak, InningsBreak{
			Target:          next.TargetValue(),
			BattingTeamName: next.BattingTeamName,
			Score:           next.Score,
			Wickets:         next.Wickets,
		})
	case PhaseResult:
		s.publish(userID, events.EventMatchResult, MatchResult{
			Winner:        next.Winner,
			WinningSide:   next.WinningSide,
			PlayerOfMatch: BestPlayer(next),
		})
	case PhaseLive:
		s.requestCommentary(userID, sess.epoch, next.Clone(), out.Label, out.Dismissal)
	}
	return next.Clone(), out
}

// persist saves the snapshot and both rosters concurrently. Each save is
// independent, so one failing never cancels the others. Failures are logged
// and never reach the scorer.
func (s *Service) persist(ctx context.Context, userID uint, st MatchState) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.cfg.PersistTimeout)
	defer cancel()

	var (
		g    errgroup.Group
		mu   sync.Mutex
		errs []error
	)
	record := func(err error) {
		mu.Lock()
		errs = append(errs, err)
		mu.Unlock()
	}
	g.Go(func() error {
		if err := s.repo.Save(ctx, userID, st); err != nil {
			record(fmt.Errorf("save match: %w", err))
		}
		return nil
	})
	if s.rosters != nil {
		for _, t := range []Team{st.TeamA, st.TeamB} {
			if len(t.Players) == 0 {
				continue
			}
			g.Go(func() error {
				if err := s.rosters.SaveTeam(ctx, userID, t); err != nil {
					record(fmt.Errorf("save team %s: %w", t.ID, err))
				}
				return nil
			})
		}
	}
	g.Wait()
	if err := errors.Join(errs...); err != nil {
		telemetry.Metrics.PersistErrors.Inc()
		telemetry.Errorf("match: persist for user %d failed: %v", userID, err)
	}
}

func (s *Service) publish(userID uint, t events.EventType, payload any) {
	if s.bus == nil {
		return
	}
	s.bus.Publish(events.New(t, userID, payload))
}

// requestCommentary asks for a line in the background. The line is applied
// only while the match is still at the revision that asked for it.
func (s *Service) requestCommentary(userID uint, epoch int, snap MatchState, label, extra string) {
	if s.commentary == nil {
		return
	}
	s.pending.Add(1)
	go func() {
		defer s.pending.Done()
		ctx, cancel := context.WithTimeout(context.Background(), s.cfg.CommentaryTimeout)
		defer cancel()

		text, err := s.commentary.Generate(ctx, snap, label, extra)
		if err != nil || text == "" {
			telemetry.Warnf("match: no commentary for user %d: %v", userID, err)
			return
		}
		s.applyCommentary(userID, epoch, snap.Revision, text)
	}()
}

func (s *Service) applyCommentary(userID uint, epoch int, revision int64, text string) {
	sess := s.session(userID)
	sess.mu.Lock()
	defer sess.mu.Unlock()

	// An evicted and recreated session has not been loaded yet; the line
	// belongs to a state this session never held.
	if !sess.loaded || sess.epoch != epoch || sess.state.Revision != revision {
		telemetry.Metrics.CommentaryStale.Inc()
		telemetry.Debugf("match: dropping stale commentary for user %d (rev %d)", userID, revision)
		return
	}
	sess.state.LastCommentary = text
	s.persist(context.Background(), userID, sess.state)
	s.publish(userID, events.EventCommentary, CommentaryLine{Text: text, Revision: revision})
}
