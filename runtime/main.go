package main

import (
	"github.com/deutschai/deutschai_api/services"

	"github.com/alphabatem/common/context"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

// @title DeutschAI API
// @version 1.0
// @description Language learning backend: progression tracking, vocabulary ledger and AI tutoring sessions.
// @securityDefinitions.apikey Bearer
// @in header
// @name Authorization
func main() {
	if err := godotenv.Load(); err != nil {
		log.Warn().Err(err).Msg("No .env file loaded")
	}

	ctx, err := context.NewCtx(
		&services.MonitoringService{},
		&services.SqlService{},
		&services.RedisService{},
		&services.JWTService{},
		&services.AuthService{},
		&services.ProgressService{},
		&services.UserService{},
		&services.VocabularyService{},
		&services.OpenRouterService{},
		&services.TutorService{},
		&services.RateLimitService{},

		&services.HttpService{},
	)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to build service context")
		return
	}

	err = ctx.Run()
	if err != nil {
		log.Fatal().Err(err).Msg("Service context stopped")
		return
	}
}
