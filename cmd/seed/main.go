package main

import (
	"go.uber.org/zap"

	"github.com/yuvan-fsdev/billing-system/internal/seed"
	"github.com/yuvan-fsdev/billing-system/pkg/config"
	"github.com/yuvan-fsdev/billing-system/pkg/database"
	"github.com/yuvan-fsdev/billing-system/pkg/logger"
)

func main() {
	appConfig, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	if err := logger.InitLogger(appConfig); err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	log := logger.GetLogger()
	defer log.Sync()

	if err := database.InitDB(appConfig); err != nil {
		log.Fatal("Failed to initialize database", zap.Error(err))
	}

	if err := seed.Run(database.GetDB()); err != nil {
		log.Fatal("Failed to seed data", zap.Error(err))
	}
	log.Info("Seed data inserted")
}
