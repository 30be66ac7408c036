// Package docs registers the OpenAPI document served under /swagger.
// Regenerate with `swag init` after changing handler annotations.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/auth/register": {"post": {"tags": ["Auth"], "summary": "Register a scorer", "responses": {"201": {"description": "Created"}, "409": {"description": "Email or username taken"}}}},
        "/auth/login": {"post": {"tags": ["Auth"], "summary": "Login", "responses": {"200": {"description": "OK"}, "401": {"description": "Invalid credentials"}}}},
        "/auth/refresh-token": {"post": {"tags": ["Auth"], "summary": "Refresh tokens", "responses": {"200": {"description": "OK"}, "401": {"description": "Invalid or expired refresh token"}}}},
        "/auth/me": {"get": {"security": [{"ApiKeyAuth": []}], "tags": ["Auth"], "summary": "Current user", "responses": {"200": {"description": "OK"}}}},
        "/auth/logout": {"post": {"security": [{"ApiKeyAuth": []}], "tags": ["Auth"], "summary": "Logout", "responses": {"200": {"description": "OK"}}}},
        "/match": {"get": {"security": [{"ApiKeyAuth": []}], "tags": ["Match"], "summary": "Current match", "responses": {"200": {"description": "OK"}}}},
        "/match/start": {"post": {"security": [{"ApiKeyAuth": []}], "tags": ["Match"], "summary": "Start a new match setup", "responses": {"200": {"description": "OK"}, "409": {"description": "Not on the landing screen"}}}},
        "/match/teams": {"post": {"security": [{"ApiKeyAuth": []}], "tags": ["Match"], "summary": "Configure both teams", "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}, "409": {"description": "Conflict"}}}},
        "/match/overs": {"post": {"security": [{"ApiKeyAuth": []}], "tags": ["Match"], "summary": "Configure overs and start play", "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}, "409": {"description": "Conflict"}}}},
        "/match/balls": {"post": {"security": [{"ApiKeyAuth": []}], "tags": ["Match"], "summary": "Score a ball", "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}, "409": {"description": "Ball not applied"}}}},
        "/match/swap": {"post": {"security": [{"ApiKeyAuth": []}], "tags": ["Match"], "summary": "Swap striker and non-striker", "responses": {"200": {"description": "OK"}, "409": {"description": "Conflict"}}}},
        "/match/second-innings": {"post": {"security": [{"ApiKeyAuth": []}], "tags": ["Match"], "summary": "Start the second innings", "responses": {"200": {"description": "OK"}, "409": {"description": "Conflict"}}}},
        "/match/reset": {"post": {"security": [{"ApiKeyAuth": []}], "tags": ["Match"], "summary": "Abandon the current match", "responses": {"200": {"description": "OK"}}}},
        "/match/scorecard": {"get": {"security": [{"ApiKeyAuth": []}], "tags": ["Match"], "summary": "Full scorecard", "responses": {"200": {"description": "OK"}}}},
        "/match/award": {"get": {"security": [{"ApiKeyAuth": []}], "tags": ["Match"], "summary": "Player of the match", "responses": {"200": {"description": "OK"}, "404": {"description": "No players"}, "409": {"description": "Match not finished"}}}},
        "/match/live": {"get": {"security": [{"ApiKeyAuth": []}], "tags": ["Match"], "summary": "Live feed", "responses": {"101": {"description": "Switching Protocols"}}}},
        "/teams": {
            "get": {"security": [{"ApiKeyAuth": []}], "tags": ["Teams"], "summary": "List saved teams", "responses": {"200": {"description": "OK"}}},
            "post": {"security": [{"ApiKeyAuth": []}], "tags": ["Teams"], "summary": "Save a team", "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}}}
        },
        "/players": {"get": {"security": [{"ApiKeyAuth": []}], "tags": ["Teams"], "summary": "Search saved players", "responses": {"200": {"description": "OK"}}}},
        "/admin/matches": {"get": {"security": [{"ApiKeyAuth": []}], "tags": ["Admin"], "summary": "List all saved matches", "responses": {"200": {"description": "OK"}, "403": {"description": "Forbidden"}}}}
    },
    "securityDefinitions": {
        "ApiKeyAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8088",
	BasePath:         "/api",
	Schemes:          []string{},
	Title:            "CrickPro Live Scoring API",
	Description:      "Ball-by-ball cricket scoring with live commentary.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
