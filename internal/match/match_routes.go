package match

import (
	"github.com/gin-gonic/gin"
)

// MatchRoutes sets up the match routes. api must already require
// authentication; admin must also require the admin role.
func MatchRoutes(api, admin *gin.RouterGroup, matchController *MatchController) {
	m := api.Group("/match")
	{
		m.GET("", matchController.GetState)
		m.POST("/start", matchController.StartSetup)
		m.POST("/teams", matchController.ConfigureTeams)
		m.POST("/overs", matchController.ConfigureOvers)
		m.POST("/balls", matchController.ApplyBall)
		m.POST("/swap", matchController.SwapStrike)
		m.POST("/second-innings", matchController.StartSecondInnings)
		m.POST("/reset", matchController.Reset)
		m.GET("/scorecard", matchController.Scorecard)
		m.GET("/award", matchController.Award)
		m.GET("/live", matchController.Live)
	}

	admin.GET("/matches", matchController.ListMatches)
}
