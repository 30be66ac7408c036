package team

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/DhavalSuthar-24/crickpro/internal/match"
	"github.com/DhavalSuthar-24/crickpro/internal/middleware"
	"github.com/DhavalSuthar-24/crickpro/pkg/matchresponse"
)

// TeamController handles saved team HTTP requests
type TeamController struct {
	repo TeamRepository
}

// NewTeamController creates a new team controller
func NewTeamController(repo TeamRepository) *TeamController {
	return &TeamController{repo: repo}
}

type SaveTeamRequest struct {
	ID      string         `json:"id" binding:"omitempty,max=64"`
	Name    string         `json:"name" binding:"required,max=60"`
	Color   string         `json:"color" binding:"omitempty,max=16"`
	Logo    string         `json:"logo" binding:"omitempty,max=2048"`
	Players []match.Player `json:"players" binding:"max=11"`
}

// PlayerEntry is a saved player with the team it belongs to.
type PlayerEntry struct {
	match.Player
	TeamID   string `json:"team_id"`
	TeamName string `json:"team_name"`
}

// ListTeams godoc
// @Summary List saved teams
// @Description Returns every team the authenticated user has saved.
// @Tags Teams
// @Produce json
// @Success 200 {object} matchresponse.SuccessBody{data=[]match.Team}
// @Failure 401 {object} matchresponse.ErrorBody
// @Failure 500 {object} matchresponse.ErrorBody
// @Security ApiKeyAuth
// @Router /teams [get]
func (tc *TeamController) ListTeams(c *gin.Context) {
	userID, err := middleware.GetUserIDFromContext(c)
	if err != nil {
		matchresponse.ErrorResponse(c, http.StatusUnauthorized, "User not authenticated")
		return
	}
	teams, err := tc.repo.ListTeams(c.Request.Context(), userID)
	if err != nil {
		matchresponse.ErrorResponse(c, http.StatusInternalServerError, "Failed to retrieve teams: "+err.Error())
		return
	}
	matchresponse.SuccessResponse(c, http.StatusOK, teams)
}

// SaveTeam godoc
// @Summary Save a team
// @Description Creates or replaces a saved team. A missing id is generated.
// @Tags Teams
// @Accept json
// @Produce json
// @Param team body SaveTeamRequest true "Team"
// @Success 200 {object} matchresponse.SuccessBody{data=match.Team}
// @Failure 400 {object} matchresponse.ErrorBody
// @Failure 401 {object} matchresponse.ErrorBody
// @Failure 500 {object} matchresponse.ErrorBody
// @Security ApiKeyAuth
// @Router /teams [post]
func (tc *TeamController) SaveTeam(c *gin.Context) {
	userID, err := middleware.GetUserIDFromContext(c)
	if err != nil {
		matchresponse.ErrorResponse(c, http.StatusUnauthorized, "User not authenticated")
		return
	}

	var req SaveTeamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		matchresponse.ValidationErrorResponse(c, err)
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		matchresponse.ErrorResponse(c, http.StatusBadRequest, "Team name must not be blank")
		return
	}

	t := match.Team{
		ID:      req.ID,
		Name:    strings.TrimSpace(req.Name),
		Color:   req.Color,
		Logo:    req.Logo,
		Players: req.Players,
	}
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	if t.Players == nil {
		t.Players = []match.Player{}
	}

	if err := tc.repo.SaveTeam(c.Request.Context(), userID, t); err != nil {
		matchresponse.ErrorResponse(c, http.StatusInternalServerError, "Failed to save team: "+err.Error())
		return
	}
	matchresponse.SuccessResponse(c, http.StatusOK, t)
}

// ListPlayers godoc
// @Summary Search saved players
// @Description Lists players across the user's saved teams, filtered by player or team name.
// @Tags Teams
// @Produce json
// @Param q query string false "Case-insensitive name filter"
// @Success 200 {object} matchresponse.SuccessBody{data=[]PlayerEntry}
// @Failure 401 {object} matchresponse.ErrorBody
// @Failure 500 {object} matchresponse.ErrorBody
// @Security ApiKeyAuth
// @Router /players [get]
func (tc *TeamController) ListPlayers(c *gin.Context) {
	userID, err := middleware.GetUserIDFromContext(c)
	if err != nil {
		matchresponse.ErrorResponse(c, http.StatusUnauthorized, "User not authenticated")
		return
	}
	teams, err := tc.repo.ListTeams(c.Request.Context(), userID)
	if err != nil {
		matchresponse.ErrorResponse(c, http.StatusInternalServerError, "Failed to retrieve players: "+err.Error())
		return
	}
	matchresponse.SuccessResponse(c, http.StatusOK, SearchPlayers(teams, c.Query("q")))
}

// SearchPlayers flattens the teams into player entries whose name or team
// name contains q, ignoring case. An empty q matches everyone.
func SearchPlayers(teams []match.Team, q string) []PlayerEntry {
	q = strings.ToLower(strings.TrimSpace(q))
	out := []PlayerEntry{}
	for _, t := range teams {
		teamMatches := strings.Contains(strings.ToLower(t.Name), q)
		for _, p := range t.Players {
			if teamMatches || strings.Contains(strings.ToLower(p.Name), q) {
				out = append(out, PlayerEntry{Player: p, TeamID: t.ID, TeamName: t.Name})
			}
		}
	}
	return out
}
