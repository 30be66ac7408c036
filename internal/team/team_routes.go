package team

import (
	"github.com/gin-gonic/gin"
)

// TeamRoutes sets up the saved team routes. router must already require
// authentication.
func TeamRoutes(router *gin.RouterGroup, repo TeamRepository) {
	teamController := NewTeamController(repo)

	router.GET("/teams", teamController.ListTeams)
	router.POST("/teams", teamController.SaveTeam)
	router.GET("/players", teamController.ListPlayers)
}
