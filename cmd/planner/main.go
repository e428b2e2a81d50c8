package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"os"
	"sync"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"

	"crewplan/internal/adapters/observability"
	redisad "crewplan/internal/adapters/redis"
	"crewplan/internal/adapters/transitgrid"
	"crewplan/internal/app"
	"crewplan/internal/domain"
	"crewplan/internal/shared"
	mysqlrepo "crewplan/internal/storage/mysql"
)

// Batch runner: one plan per configured city for a shared arrival instant.
// PLAN_ARRIVAL is RFC3339 (defaults to now); PLAN_CONSTRAINTS is a JSON
// constraints object applied to every city.
func main() {
	ctx := context.Background()
	cfg := shared.Load()

	log.Logger = observability.NewLogger(cfg.AppEnv)

	if len(cfg.Cities) == 0 {
		log.Fatal().Msg("PLAN_CITIES is empty; nothing to plan")
	}

	arrival := time.Now().UTC()
	if v := os.Getenv("PLAN_ARRIVAL"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			log.Fatal().Err(err).Msg("PLAN_ARRIVAL must be RFC3339")
		}
		arrival = t.UTC()
	}

	var cs domain.Constraints
	if v := os.Getenv("PLAN_CONSTRAINTS"); v != "" {
		if err := json.Unmarshal([]byte(v), &cs); err != nil {
			log.Fatal().Err(err).Msg("PLAN_CONSTRAINTS must be a JSON constraints object")
		}
	}

	log.Info().
		Strs("cities", cfg.Cities).
		Int("workers", cfg.Workers).
		Time("arrival", arrival).
		Msg("planner starting")

	db, err := sql.Open("mysql", cfg.MySQLDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("sql.Open failed")
	}
	if err := db.Ping(); err != nil {
		log.Fatal().Err(err).Msg("db.Ping failed")
	}
	log.Info().Msg("db ping ok")

	repo := mysqlrepo.New(db)

	transit, err := transitgrid.New(cfg.TransitBase, cfg.TransitKey, 5)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize transitgrid client")
	}
	cache := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	plans := app.NewPlanService(repo, transit, cache, cfg.CacheTTL)

	sem := semaphore.NewWeighted(int64(cfg.Workers))
	var wg sync.WaitGroup

	for _, city := range cfg.Cities {
		city := city

		// acquire before launching the goroutine; release inside it
		if err := sem.Acquire(ctx, int64(1)); err != nil {
			log.Fatal().Err(err).Msg("semaphore acquire failed")
		}

		wg.Add(1)
		go func() {
			defer wg.Done()
			defer sem.Release(int64(1))

			prof, err := repo.GetCityProfile(ctx, city)
			if err != nil {
				log.Warn().Str("city", city).Err(err).Msg("no city profile; skipping")
				return
			}

			res, err := plans.Plan(ctx, app.PlanRequest{
				City:        city,
				ArrAirport:  prof.ArrAirport,
				Arrival:     arrival,
				Constraints: cs,
			})
			if err != nil {
				log.Warn().Str("city", city).Err(err).Msg("plan failed")
				return
			}
			ev := log.Info().Str("city", city).Int("candidates", len(res.Candidates))
			if res.Chosen != nil {
				ev = ev.Str("chosen", res.Chosen.Hotel.ID)
			}
			ev.Msg("plan ok")
		}()
	}

	wg.Wait()
	log.Info().Msg("planning completed")
}
