package match

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/DhavalSuthar-24/crickpro/internal/events"
)

type fakeRepo struct {
	mu      sync.Mutex
	saved   map[uint]MatchState
	saves   int
	clears  int
	saveErr error
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{saved: make(map[uint]MatchState)}
}

func (r *fakeRepo) Save(_ context.Context, userID uint, s MatchState) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.saves++
	if r.saveErr != nil {
		return r.saveErr
	}
	r.saved[userID] = s.Clone()
	return nil
}

func (r *fakeRepo) Load(_ context.Context, userID uint) (*MatchState, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.saved[userID]
	if !ok {
		return nil, nil
	}
	c := s.Clone()
	return &c, nil
}

func (r *fakeRepo) Clear(_ context.Context, userID uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.clears++
	delete(r.saved, userID)
	return nil
}

func (r *fakeRepo) ListAll(context.Context, int, int) ([]MatchSnapshot, int64, error) {
	return nil, 0, nil
}

type fakeRosters struct {
	mu    sync.Mutex
	teams map[string]Team
}

func (f *fakeRosters) SaveTeam(_ context.Context, _ uint, t Team) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.teams == nil {
		f.teams = make(map[string]Team)
	}
	f.teams[t.ID] = t
	return nil
}

// slowRepo takes a moment to save and gives up if its context is cancelled
// first.
type slowRepo struct {
	*fakeRepo
}

func (r slowRepo) Save(ctx context.Context, userID uint, s MatchState) error {
	select {
	case <-time.After(20 * time.Millisecond):
	case <-ctx.Done():
		return ctx.Err()
	}
	return r.fakeRepo.Save(ctx, userID, s)
}

type brokenRosters struct{}

func (brokenRosters) SaveTeam(context.Context, uint, Team) error {
	return errors.New("value too long for type character varying(64)")
}

type recordingBus struct {
	mu     sync.Mutex
	events []events.Event
}

func (b *recordingBus) Publish(e events.Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, e)
}

func (b *recordingBus) ofType(t events.EventType) []events.Event {
	b.mu.Lock()
	defer b.mu.Unlock()
	var out []events.Event
	for _, e := range b.events {
		if e.Type == t {
			out = append(out, e)
		}
	}
	return out
}

// gatedCommentator answers once release is closed, naming the ball it was
// asked about.
type gatedCommentator struct {
	release chan struct{}
}

func (g *gatedCommentator) Generate(ctx context.Context, _ MatchState, label, _ string) (string, error) {
	select {
	case <-g.release:
	case <-ctx.Done():
		return "", ctx.Err()
	}
	return "line for " + label, nil
}

func startedService(t *testing.T, svc *Service, userID uint, overs, target int) {
	t.Helper()
	ctx := context.Background()
	if _, err := svc.StartSetup(ctx, userID); err != nil {
		t.Fatalf("StartSetup: %v", err)
	}
	if _, err := svc.ConfigureTeams(ctx, userID, TeamSetup{Name: "Lions"}, TeamSetup{Name: "Tigers"}); err != nil {
		t.Fatalf("ConfigureTeams: %v", err)
	}
	if _, err := svc.ConfigureOvers(ctx, userID, OversSetup{TotalOvers: overs, BattingFirst: SideA, Target: target}); err != nil {
		t.Fatalf("ConfigureOvers: %v", err)
	}
}

func TestServiceLoadsSavedMatch(t *testing.T) {
	repo := newFakeRepo()
	saved := liveMatch(t, 5, 0)
	saved.Score = 77
	repo.saved[9] = saved

	svc := NewService(repo, nil, nil, nil, ServiceConfig{})
	if got := svc.State(context.Background(), 9); got.Score != 77 || got.Phase != PhaseLive {
		t.Fatalf("state = %s %d", got.Phase, got.Score)
	}
	if got := svc.State(context.Background(), 10); got.Phase != PhaseLanding {
		t.Fatalf("unknown user phase = %s, want LANDING", got.Phase)
	}
}

func TestServiceConfigureTeamsSavesRosters(t *testing.T) {
	rosters := &fakeRosters{}
	svc := NewService(newFakeRepo(), rosters, nil, nil, ServiceConfig{})
	ids := []string{"id-a", "id-b"}
	svc.newTeamID = func() string {
		id := ids[0]
		ids = ids[1:]
		return id
	}
	startedService(t, svc, 1, 5, 0)

	st := svc.State(context.Background(), 1)
	if st.TeamA.ID != "id-a" || st.TeamB.ID != "id-b" {
		t.Fatalf("team ids = %q/%q", st.TeamA.ID, st.TeamB.ID)
	}
	if len(rosters.teams) != 2 || len(rosters.teams["id-a"].Players) != TeamSize {
		t.Fatalf("rosters = %+v", rosters.teams)
	}
}

func TestServiceApplyBall(t *testing.T) {
	repo := newFakeRepo()
	bus := &recordingBus{}
	svc := NewService(repo, nil, nil, bus, ServiceConfig{})
	ctx := context.Background()

	_, out := svc.ApplyBall(ctx, 1, Ball{Runs: 4})
	if out.Applied {
		t.Fatalf("ball applied before the match started")
	}
	if repo.saves != 0 {
		t.Fatalf("rejected ball persisted")
	}

	startedService(t, svc, 1, 5, 0)
	st, out := svc.ApplyBall(ctx, 1, Ball{Runs: 4})
	if !out.Applied || st.Score != 4 {
		t.Fatalf("applied=%v score=%d", out.Applied, st.Score)
	}
	if repo.saved[1].Score != 4 {
		t.Fatalf("saved score = %d", repo.saved[1].Score)
	}
	got := bus.ofType(events.EventBallApplied)
	if len(got) != 1 || got[0].UserID != 1 {
		t.Fatalf("ball events = %+v", got)
	}
	if p := got[0].Payload.(BallApplied); p.State.Score != 4 || p.Outcome.Label != "4" {
		t.Fatalf("payload = %+v", p)
	}
}

func TestServiceSerialisesBalls(t *testing.T) {
	svc := NewService(newFakeRepo(), nil, nil, nil, ServiceConfig{})
	startedService(t, svc, 1, 5, 0)
	before := svc.State(context.Background(), 1).Revision

	var wg sync.WaitGroup
	for i := 0; i < 24; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			svc.ApplyBall(context.Background(), 1, Ball{Runs: 1})
		}()
	}
	wg.Wait()

	st := svc.State(context.Background(), 1)
	if st.Score != 24 || st.Overs != 4 || st.Balls != 0 {
		t.Fatalf("score=%d overs=%d.%d", st.Score, st.Overs, st.Balls)
	}
	if st.Revision != before+24 {
		t.Fatalf("revision = %d, want %d", st.Revision, before+24)
	}
}

func TestServiceResultEmitsPlayerOfMatch(t *testing.T) {
	bus := &recordingBus{}
	svc := NewService(newFakeRepo(), nil, nil, bus, ServiceConfig{})
	startedService(t, svc, 1, 5, 1)

	st, out := svc.ApplyBall(context.Background(), 1, Ball{Runs: 6})
	if st.Phase != PhaseResult || st.Winner != "Lions" {
		t.Fatalf("phase=%s winner=%q", st.Phase, st.Winner)
	}
	if len(out.Milestones) != 1 || out.Milestones[0].Kind != MilestonePlayerOfMatch || out.Milestones[0].PlayerID != "Lions-0" {
		t.Fatalf("milestones = %+v", out.Milestones)
	}
	results := bus.ofType(events.EventMatchResult)
	if len(results) != 1 {
		t.Fatalf("result events = %d", len(results))
	}
	if r := results[0].Payload.(MatchResult); r.WinningSide != SideA || r.PlayerOfMatch == nil || r.PlayerOfMatch.ID != "Lions-0" {
		t.Fatalf("result = %+v", r)
	}
	if len(bus.ofType(events.EventMilestone)) != 1 {
		t.Fatalf("milestone event missing")
	}

	p, err := svc.Award(context.Background(), 1)
	if err != nil || p.ID != "Lions-0" {
		t.Fatalf("Award = %+v, %v", p, err)
	}
}

func TestServiceAwardBeforeResult(t *testing.T) {
	svc := NewService(newFakeRepo(), nil, nil, nil, ServiceConfig{})
	if _, err := svc.Award(context.Background(), 1); !errors.Is(err, ErrMatchNotFinished) {
		t.Fatalf("err = %v, want ErrMatchNotFinished", err)
	}
}

func TestServiceCommentary(t *testing.T) {
	bus := &recordingBus{}
	gate := &gatedCommentator{release: make(chan struct{})}
	svc := NewService(newFakeRepo(), nil, gate, bus, ServiceConfig{})
	startedService(t, svc, 1, 5, 0)
	ctx := context.Background()

	svc.ApplyBall(ctx, 1, Ball{Runs: 1})
	svc.ApplyBall(ctx, 1, Ball{Runs: 4})
	close(gate.release)
	svc.Wait()

	if got := svc.State(ctx, 1).LastCommentary; got != "line for 4" {
		t.Fatalf("commentary = %q, want the latest ball's line", got)
	}
	lines := bus.ofType(events.EventCommentary)
	if len(lines) != 1 || lines[0].Payload.(CommentaryLine).Text != "line for 4" {
		t.Fatalf("commentary events = %+v", lines)
	}
}

func TestServiceCommentaryDroppedAfterReset(t *testing.T) {
	gate := &gatedCommentator{release: make(chan struct{})}
	svc := NewService(newFakeRepo(), nil, gate, nil, ServiceConfig{})
	startedService(t, svc, 1, 5, 0)
	ctx := context.Background()

	svc.ApplyBall(ctx, 1, Ball{Runs: 2})
	svc.Reset(ctx, 1)
	close(gate.release)
	svc.Wait()

	if got := svc.State(ctx, 1).LastCommentary; got != welcomeCommentary {
		t.Fatalf("commentary = %q after reset", got)
	}
}

func TestServiceReset(t *testing.T) {
	repo := newFakeRepo()
	bus := &recordingBus{}
	svc := NewService(repo, nil, nil, bus, ServiceConfig{})
	startedService(t, svc, 1, 5, 0)

	st := svc.Reset(context.Background(), 1)
	if st.Phase != PhaseLanding || repo.clears != 1 {
		t.Fatalf("phase=%s clears=%d", st.Phase, repo.clears)
	}
	if _, ok := repo.saved[1]; ok {
		t.Fatalf("snapshot survived reset")
	}
	if len(bus.ofType(events.EventMatchReset)) != 1 {
		t.Fatalf("reset event missing")
	}
}

func TestServicePersistFailureIsMasked(t *testing.T) {
	repo := newFakeRepo()
	repo.saveErr = errors.New("disk full")
	svc := NewService(repo, nil, nil, nil, ServiceConfig{})
	startedService(t, svc, 1, 5, 0)

	st, out := svc.ApplyBall(context.Background(), 1, Ball{Runs: 3})
	if !out.Applied || st.Score != 3 {
		t.Fatalf("applied=%v score=%d", out.Applied, st.Score)
	}
	if svc.State(context.Background(), 1).Score != 3 {
		t.Fatalf("in-memory state lost on persist failure")
	}
}

func TestServiceRejectsWrongPhase(t *testing.T) {
	svc := NewService(newFakeRepo(), nil, nil, nil, ServiceConfig{})
	if _, err := svc.SwapStrike(context.Background(), 1); !errors.Is(err, ErrInvalidPhase) {
		t.Fatalf("err = %v, want ErrInvalidPhase", err)
	}
}

func TestServiceRosterFailureKeepsSnapshot(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(slowRepo{repo}, brokenRosters{}, nil, nil, ServiceConfig{})
	startedService(t, svc, 1, 5, 0)

	svc.ApplyBall(context.Background(), 1, Ball{Runs: 4})

	repo.mu.Lock()
	saved := repo.saved[1]
	repo.mu.Unlock()
	if saved.Phase != PhaseLive || saved.Score != 4 {
		t.Fatalf("saved snapshot = %s %d, want LIVE 4", saved.Phase, saved.Score)
	}
}

func TestServiceEvictsIdleSessions(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, nil, nil, nil, ServiceConfig{SessionIdleTimeout: time.Minute})
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	startedService(t, svc, 1, 5, 0)
	svc.ApplyBall(context.Background(), 1, Ball{Runs: 2})
	svc.State(context.Background(), 2)
	if got := svc.Sessions(); got != 2 {
		t.Fatalf("sessions = %d, want 2", got)
	}

	now = now.Add(30 * time.Second)
	if n := svc.EvictIdle(); n != 0 {
		t.Fatalf("evicted %d fresh sessions", n)
	}

	now = now.Add(2 * time.Minute)
	busy := svc.session(2)
	busy.mu.Lock()
	if n := svc.EvictIdle(); n != 1 {
		t.Fatalf("evicted %d, want only the idle one", n)
	}
	busy.mu.Unlock()
	if got := svc.Sessions(); got != 1 {
		t.Fatalf("sessions = %d, want 1", got)
	}

	st := svc.State(context.Background(), 1)
	if st.Phase != PhaseLive || st.Score != 2 {
		t.Fatalf("reloaded state = %s %d, want LIVE 2", st.Phase, st.Score)
	}
}
