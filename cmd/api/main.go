package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/yigit/examportal/internal/pkg/logger"
	"github.com/yigit/examportal/internal/server"
)

// @title Special Exam Registration Portal API
// @version 1.0
// @description Student registration for special exams and the admin review workflow

// @host localhost:8080
// @BasePath /api
// @schemes http https

// @securityDefinitions.apikey SessionCookie
// @in cookie
// @name admin_session

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv, err := server.NewServer()
	if err != nil {
		logger.Error().Err(err).Msg("Exam portal API could not start")
		os.Exit(1)
	}

	if err := srv.Run(ctx); err != nil {
		logger.Error().Err(err).Msg("Exam portal API stopped with errors")
		os.Exit(1)
	}
}
