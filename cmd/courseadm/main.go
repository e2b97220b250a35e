package main

import (
	"os"

	"go.uber.org/zap"

	"course-service/internal/config"
	"course-service/internal/db"
	"course-service/internal/observability"
	"course-service/internal/repositories"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		observability.Logger().Fatal("load config", zap.Error(err))
	}
	logger, err := observability.NewLogger(cfg.LogLevel, cfg.Environment)
	if err != nil {
		observability.Logger().Fatal("build logger", zap.Error(err))
	}
	observability.SetLogger(logger)

	database, err := db.Connect(cfg.DBDriver, cfg.DBDSN)
	if err != nil {
		logger.Fatal("open database", zap.Error(err))
	}

	cli := commandLine{
		db:    database,
		users: repositories.NewUserRepo(database),
		out:   os.Stdout,
	}
	err = cli.run(os.Args)
	_ = database.Close()
	if err != nil {
		if err != errHelp {
			logger.Error("command failed", zap.Error(err))
		}
		os.Exit(1)
	}
}
