package main

import (
	"os"

	"cardtrack/internal/cli"
)

// @title           CardTrack API
// @version         1.0
// @description     Kanban boards, columns and cards shared through board memberships, with a realtime channel per board.

// @host      localhost:8080
// @BasePath  /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Token" or "Bearer" followed by a space and the token.

// @schemes http
func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
