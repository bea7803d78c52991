// Command seed populates MongoDB with demo herds and default preferences so
// the app has something to value on first run.
package main

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mamadbah2/stockyard/internal/config"
	"github.com/mamadbah2/stockyard/internal/domain/models"
	"github.com/mamadbah2/stockyard/internal/repository/mongodb"
	"github.com/mamadbah2/stockyard/pkg/logger"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		panic(err)
	}

	baseLogger := logger.Must(logger.New())
	defer func() { _ = baseLogger.Sync() }()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	repo, err := mongodb.NewMongoDBRepository(ctx, cfg.MongoDB.URI, cfg.MongoDB.DBName)
	if err != nil {
		baseLogger.Fatal("failed to init mongodb repository", zap.Error(err))
	}
	defer func() { _ = repo.Close(context.Background()) }()

	now := time.Now().UTC()

	joined := now.AddDate(0, 0, -120)
	gainChanged := now.AddDate(0, 0, -45)
	previousGain := 1.1

	demoHerds := []models.HerdGroup{
		{
			ID:              uuid.NewString(),
			Name:            "River paddock steers",
			Species:         models.SpeciesCattle,
			Breed:           "Angus",
			Category:        "Yearling Steer",
			HeadCount:       50,
			InitialWeightKg: 300,
			DailyGainKg:     0.8,
			CreatedAt:       now.AddDate(0, 0, -100),
			Saleyard:        "Wagga Wagga Livestock Marketing Centre",
		},
		{
			ID:                  uuid.NewString(),
			Name:                "Hill block weaners",
			Species:             models.SpeciesCattle,
			Breed:               "Hereford",
			Category:            "Weaner Steer",
			HeadCount:           80,
			InitialWeightKg:     230,
			DailyGainKg:         0.9,
			PreviousDailyGainKg: &previousGain,
			GainChangedAt:       &gainChanged,
			CreatedAt:           now.AddDate(0, 0, -160),
			Saleyard:            "Dubbo Regional Livestock Market",
		},
		{
			ID:              uuid.NewString(),
			Name:            "Breeding cows",
			Species:         models.SpeciesCattle,
			Breed:           "Angus",
			Category:        "Breeder",
			HeadCount:       40,
			InitialWeightKg: 480,
			DailyGainKg:     0.2,
			CreatedAt:       now.AddDate(0, 0, -300),
			IsBreeder:       true,
			IsPregnant:      true,
			JoinedAt:        &joined,
			CalvingRate:     0.85,
		},
		{
			ID:              uuid.NewString(),
			Name:            "First-cross ewes",
			Species:         models.SpeciesSheep,
			Breed:           "Border Leicester Merino",
			Category:        "Breeding Ewe",
			HeadCount:       320,
			InitialWeightKg: 55,
			DailyGainKg:     0.05,
			CreatedAt:       now.AddDate(0, 0, -220),
		},
	}

	for _, herd := range demoHerds {
		if err := herd.Validate(); err != nil {
			baseLogger.Fatal("seed herd invalid", zap.String("name", herd.Name), zap.Error(err))
		}
		if err := repo.CreateHerd(ctx, herd); err != nil {
			baseLogger.Fatal("failed seeding herd", zap.String("name", herd.Name), zap.Error(err))
		}
		baseLogger.Info("seeded herd", zap.String("herd_id", herd.ID), zap.String("name", herd.Name))
	}

	prefs := models.ValuationPreferences{
		State:                cfg.Valuation.DefaultState,
		AnnualMortalityRate:  0.02,
		MonthlyAgistmentCost: 1200,
		MonthlyFeedCost:      2500,
		MonthlyVetCost:       400,
	}
	if err := repo.SavePreferences(ctx, prefs); err != nil {
		baseLogger.Fatal("failed seeding preferences", zap.Error(err))
	}

	baseLogger.Info("seed complete", zap.Int("herds", len(demoHerds)))
}
