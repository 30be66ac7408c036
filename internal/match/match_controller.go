package match

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/DhavalSuthar-24/crickpro/internal/common"
	"github.com/DhavalSuthar-24/crickpro/internal/events"
	"github.com/DhavalSuthar-24/crickpro/internal/middleware"
	"github.com/DhavalSuthar-24/crickpro/pkg/matchresponse"
)

// LiveFeed streams a user's match events to a WebSocket spectator.
type LiveFeed interface {
	Serve(w http.ResponseWriter, r *http.Request, userID uint, hello events.Event)
}

// MatchController handles match-related HTTP requests
type MatchController struct {
	svc  *Service
	repo MatchRepository
	feed LiveFeed
}

// NewMatchController creates a new match controller
func NewMatchController(svc *Service, repo MatchRepository, feed LiveFeed) *MatchController {
	return &MatchController{svc: svc, repo: repo, feed: feed}
}

type TeamsRequest struct {
	TeamA TeamSetup `json:"team_a" binding:"required"`
	TeamB TeamSetup `json:"team_b" binding:"required"`
}

type WicketRequest struct {
	Type      DismissalType `json:"type" binding:"required"`
	FielderID string        `json:"fielder_id" binding:"omitempty,max=64"`
}

type BallRequest struct {
	Runs     int            `json:"runs" binding:"min=0,max=6"`
	IsWicket bool           `json:"is_wicket"`
	Label    string         `json:"label" binding:"omitempty,max=4"`
	Wicket   *WicketRequest `json:"wicket"`
}

func (r BallRequest) ball() (Ball, error) {
	b := Ball{Runs: r.Runs, IsWicket: r.IsWicket, Label: r.Label}
	if r.IsWicket && r.Wicket != nil {
		if !r.Wicket.Type.Valid() {
			return Ball{}, fmt.Errorf("unknown dismissal type %q", r.Wicket.Type)
		}
		w := Wicket{Kind: r.Wicket.Type, FielderID: r.Wicket.FielderID}.Normalize()
		b.Wicket = &w
	}
	return b, nil
}

func userOrAbort(c *gin.Context) (uint, bool) {
	userID, err := middleware.GetUserIDFromContext(c)
	if err != nil {
		matchresponse.ErrorResponse(c, http.StatusUnauthorized, "User not authenticated")
		return 0, false
	}
	return userID, true
}

// respond maps a command result onto the response envelope.
func respond(c *gin.Context, st MatchState, err error) {
	switch {
	case err == nil:
		matchresponse.SuccessResponse(c, http.StatusOK, st)
	case errors.Is(err, ErrInvalidPhase):
		matchresponse.ConflictResponse(c, err.Error(), st)
	case errors.Is(err, ErrInvalidTeam), errors.Is(err, ErrInvalidOvers), errors.Is(err, ErrNotEnoughPlayers):
		matchresponse.ErrorResponse(c, http.StatusBadRequest, err.Error())
	default:
		matchresponse.ErrorResponse(c, http.StatusInternalServerError, err.Error())
	}
}

// GetState godoc
// @Summary Current match
// @Description Returns the caller's current match, or a fresh one.
// @Tags Match
// @Produce json
// @Success 200 {object} matchresponse.SuccessBody{data=MatchState}
// @Failure 401 {object} matchresponse.ErrorBody
// @Security ApiKeyAuth
// @Router /match [get]
func (mc *MatchController) GetState(c *gin.Context) {
	userID, ok := userOrAbort(c)
	if !ok {
		return
	}
	matchresponse.SuccessResponse(c, http.StatusOK, mc.svc.State(c.Request.Context(), userID))
}

// StartSetup godoc
// @Summary Start a new match setup
// @Tags Match
// @Produce json
// @Success 200 {object} matchresponse.SuccessBody{data=MatchState}
// @Failure 409 {object} matchresponse.ErrorBody "Not on the landing screen"
// @Security ApiKeyAuth
// @Router /match/start [post]
func (mc *MatchController) StartSetup(c *gin.Context) {
	userID, ok := userOrAbort(c)
	if !ok {
		return
	}
	st, err := mc.svc.StartSetup(c.Request.Context(), userID)
	respond(c, st, err)
}

// ConfigureTeams godoc
// @Summary Configure both teams
// @Description Builds two eleven-player squads and saves them to the caller's teams.
// @Tags Match
// @Accept json
// @Produce json
// @Param teams body TeamsRequest true "Teams"
// @Success 200 {object} matchresponse.SuccessBody{data=MatchState}
// @Failure 400 {object} matchresponse.ErrorBody
// @Failure 409 {object} matchresponse.ErrorBody
// @Security ApiKeyAuth
// @Router /match/teams [post]
func (mc *MatchController) ConfigureTeams(c *gin.Context) {
	userID, ok := userOrAbort(c)
	if !ok {
		return
	}
	var req TeamsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		matchresponse.ValidationErrorResponse(c, err)
		return
	}
	st, err := mc.svc.ConfigureTeams(c.Request.Context(), userID, req.TeamA, req.TeamB)
	respond(c, st, err)
}

// ConfigureOvers godoc
// @Summary Configure overs and start play
// @Description A positive target starts directly in a second-innings chase.
// @Tags Match
// @Accept json
// @Produce json
// @Param overs body OversSetup true "Overs"
// @Success 200 {object} matchresponse.SuccessBody{data=MatchState}
// @Failure 400 {object} matchresponse.ErrorBody
// @Failure 409 {object} matchresponse.ErrorBody
// @Security ApiKeyAuth
// @Router /match/overs [post]
func (mc *MatchController) ConfigureOvers(c *gin.Context) {
	userID, ok := userOrAbort(c)
	if !ok {
		return
	}
	var req OversSetup
	if err := c.ShouldBindJSON(&req); err != nil {
		matchresponse.ValidationErrorResponse(c, err)
		return
	}
	st, err := mc.svc.ConfigureOvers(c.Request.Context(), userID, req)
	respond(c, st, err)
}

// ApplyBall godoc
// @Summary Score a ball
// @Description Applies one delivery. Outside live play the match is unchanged and 409 is returned.
// @Tags Match
// @Accept json
// @Produce json
// @Param ball body BallRequest true "Ball"
// @Success 200 {object} matchresponse.SuccessBody{data=BallApplied}
// @Failure 400 {object} matchresponse.ErrorBody
// @Failure 409 {object} matchresponse.ErrorBody "Ball not applied"
// @Security ApiKeyAuth
// @Router /match/balls [post]
func (mc *MatchController) ApplyBall(c *gin.Context) {
	userID, ok := userOrAbort(c)
	if !ok {
		return
	}
	var req BallRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		matchresponse.ValidationErrorResponse(c, err)
		return
	}
	b, err := req.ball()
	if err != nil {
		matchresponse.ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	st, out := mc.svc.ApplyBall(c.Request.Context(), userID, b)
	if !out.Applied {
		matchresponse.ConflictResponse(c, fmt.Sprintf("ball not applied in phase %s", st.Phase), BallApplied{State: st, Outcome: out})
		return
	}
	matchresponse.SuccessResponse(c, http.StatusOK, BallApplied{State: st, Outcome: out})
}

// SwapStrike godoc
// @Summary Swap striker and non-striker
// @Tags Match
// @Produce json
// @Success 200 {object} matchresponse.SuccessBody{data=MatchState}
// @Failure 409 {object} matchresponse.ErrorBody
// @Security ApiKeyAuth
// @Router /match/swap [post]
func (mc *MatchController) SwapStrike(c *gin.Context) {
	userID, ok := userOrAbort(c)
	if !ok {
		return
	}
	st, err := mc.svc.SwapStrike(c.Request.Context(), userID)
	respond(c, st, err)
}

// StartSecondInnings godoc
// @Summary Start the second innings
// @Tags Match
// @Produce json
// @Success 200 {object} matchresponse.SuccessBody{data=MatchState}
// @Failure 409 {object} matchresponse.ErrorBody
// @Security ApiKeyAuth
// @Router /match/second-innings [post]
func (mc *MatchController) StartSecondInnings(c *gin.Context) {
	userID, ok := userOrAbort(c)
	if !ok {
		return
	}
	st, err := mc.svc.StartSecondInnings(c.Request.Context(), userID)
	respond(c, st, err)
}

// Reset godoc
// @Summary Abandon the current match
// @Tags Match
// @Produce json
// @Success 200 {object} matchresponse.SuccessBody{data=MatchState}
// @Security ApiKeyAuth
// @Router /match/reset [post]
func (mc *MatchController) Reset(c *gin.Context) {
	userID, ok := userOrAbort(c)
	if !ok {
		return
	}
	matchresponse.SuccessResponse(c, http.StatusOK, mc.svc.Reset(c.Request.Context(), userID))
}

// Scorecard godoc
// @Summary Full scorecard
// @Tags Match
// @Produce json
// @Success 200 {object} matchresponse.SuccessBody{data=Scorecard}
// @Security ApiKeyAuth
// @Router /match/scorecard [get]
func (mc *MatchController) Scorecard(c *gin.Context) {
	userID, ok := userOrAbort(c)
	if !ok {
		return
	}
	matchresponse.SuccessResponse(c, http.StatusOK, mc.svc.Scorecard(c.Request.Context(), userID))
}

// Award godoc
// @Summary Player of the match
// @Tags Match
// @Produce json
// @Success 200 {object} matchresponse.SuccessBody{data=Player}
// @Failure 404 {object} matchresponse.ErrorBody "No players"
// @Failure 409 {object} matchresponse.ErrorBody "Match not finished"
// @Security ApiKeyAuth
// @Router /match/award [get]
func (mc *MatchController) Award(c *gin.Context) {
	userID, ok := userOrAbort(c)
	if !ok {
		return
	}
	p, err := mc.svc.Award(c.Request.Context(), userID)
	switch {
	case errors.Is(err, ErrMatchNotFinished):
		matchresponse.ConflictResponse(c, err.Error(), nil)
	case err != nil:
		matchresponse.ErrorResponse(c, http.StatusInternalServerError, err.Error())
	case p == nil:
		matchresponse.ErrorResponse(c, http.StatusNotFound, "No players in this match")
	default:
		matchresponse.SuccessResponse(c, http.StatusOK, gin.H{
			"player": p,
			"points": Points(*p),
		})
	}
}

// Live godoc
// @Summary Live feed
// @Description Upgrades to a WebSocket streaming the caller's match events. Browsers pass the token as access_token.
// @Tags Match
// @Param access_token query string false "Access token"
// @Success 101
// @Security ApiKeyAuth
// @Router /match/live [get]
func (mc *MatchController) Live(c *gin.Context) {
	userID, ok := userOrAbort(c)
	if !ok {
		return
	}
	st := mc.svc.State(c.Request.Context(), userID)
	mc.feed.Serve(c.Writer, c.Request, userID, events.New(events.EventStateChanged, userID, st))
}

// ListMatches godoc
// @Summary List all saved matches
// @Tags Admin
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param page_size query int false "Page size" default(20)
// @Success 200 {object} matchresponse.PaginatedBody{data=[]MatchSnapshot}
// @Failure 403 {object} matchresponse.ErrorBody
// @Security ApiKeyAuth
// @Router /admin/matches [get]
func (mc *MatchController) ListMatches(c *gin.Context) {
	page, pageSize, err := common.ParsePagination(c)
	if err != nil {
		matchresponse.ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	snaps, total, err := mc.repo.ListAll(c.Request.Context(), page, pageSize)
	if err != nil {
		matchresponse.ErrorResponse(c, http.StatusInternalServerError, "Failed to list matches: "+err.Error())
		return
	}
	matchresponse.PaginatedResponse(c, http.StatusOK, snaps, page, pageSize, total)
}
