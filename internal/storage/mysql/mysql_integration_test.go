//go:build integration || !unit

package mysql_test

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"testing"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"

	"crewplan/internal/domain"
	mysqlrepo "crewplan/internal/storage/mysql"
)

// ---------- small helpers ----------
func pstr(s string) *string     { return &s }
func pint(i int) *int           { return &i }
func pfloat(f float64) *float64 { return &f }

func migrationsDir(t *testing.T) string {
	t.Helper()
	if v := os.Getenv("MIGRATIONS_DIR"); v != "" {
		return v
	}
	// repo-relative default: internal/storage/mysql -> ../../../migrations
	return filepath.Join("..", "..", "..", "migrations")
}

func applyMigrations(t *testing.T, db *sql.DB) {
	t.Helper()
	dir := migrationsDir(t)

	st, err := os.Stat(dir)
	if err != nil || !st.IsDir() {
		t.Fatalf("migrations dir %s is not a directory or missing", dir)
	}

	ents, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read migrations dir: %v", err)
	}
	var files []string
	for _, e := range ents {
		if !e.IsDir() && filepath.Ext(e.Name()) == ".sql" {
			files = append(files, filepath.Join(dir, e.Name()))
		}
	}
	if len(files) == 0 {
		t.Fatalf("no .sql files in %s", dir)
	}
	sort.Strings(files)

	for _, f := range files {
		sqlBytes, err := os.ReadFile(f)
		if err != nil {
			t.Fatalf("read %s: %v", f, err)
		}
		if _, err := db.Exec(string(sqlBytes)); err != nil {
			t.Fatalf("exec %s: %v", f, err)
		}
	}
}

// ---------- the test ----------
func TestRepo_MySQL_UpsertAndQuery(t *testing.T) {
	// Start isolated MySQL; let Docker pick a free host port.
	pool, err := dockertest.NewPool("")
	if err != nil {
		t.Fatalf("dockertest: %v", err)
	}

	runOpts := &dockertest.RunOptions{
		Repository: "mysql",
		Tag:        "8.0.36",
		Env: []string{
			"MYSQL_ROOT_PASSWORD=root",
			"MYSQL_DATABASE=crewplan",
		},
	}
	resource, err := pool.RunWithOptions(runOpts, func(hc *docker.HostConfig) {
		hc.AutoRemove = true
		hc.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	if err != nil {
		t.Fatalf("run mysql: %v", err)
	}
	t.Cleanup(func() { _ = pool.Purge(resource) })

	hostPort := resource.GetPort("3306/tcp")
	dsn := fmt.Sprintf("root:%s@tcp(127.0.0.1:%s)/%s?parseTime=true&multiStatements=true&charset=utf8mb4,utf8&loc=UTC",
		"root", hostPort, "crewplan")

	var db *sql.DB
	if err := pool.Retry(func() error {
		var e error
		db, e = sql.Open("mysql", dsn)
		if e != nil {
			return e
		}
		return db.Ping()
	}); err != nil {
		t.Fatalf("connect mysql: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	applyMigrations(t, db)

	repo := mysqlrepo.New(db)
	ctx := context.Background()

	// Arrange
	air := domain.Airport{
		IATA: "JFK", Name: "John F. Kennedy Intl",
		Lat: 40.6413, Lon: -73.7781,
		City: "New York", Timezone: "America/New_York",
	}
	if err := repo.UpsertAirport(ctx, air); err != nil {
		t.Fatalf("UpsertAirport: %v", err)
	}

	h := domain.Hotel{
		ID:        "h-100",
		Name:      "Runway Suites",
		Lat:       40.66,
		Lon:       -73.80,
		Address:   pstr("1 Airport Rd"),
		Brand:     pstr("RestWell"),
		Rating:    pfloat(4.2),
		Reviews:   pint(310),
		Amenities: []string{"wifi", "gym"},
		Zones:     []string{},
	}
	if err := repo.UpsertHotel(ctx, h, "New York"); err != nil {
		t.Fatalf("UpsertHotel: %v", err)
	}

	rate := domain.HotelRate{HotelID: "h-100", NightlyUSD: 149, TaxesFeesUSD: pfloat(21.5)}
	if err := repo.UpsertRate(ctx, rate); err != nil {
		t.Fatalf("UpsertRate: %v", err)
	}

	arrival := time.Date(2026, 3, 14, 22, 30, 0, 0, time.UTC)
	tt := domain.TravelTime{
		HotelID:    "h-100",
		Mode:       domain.ModeDrive,
		Minutes:    18,
		DistanceKm: 9.4,
		ValidFrom:  arrival.Add(-2 * time.Hour),
		ValidTo:    arrival.Add(2 * time.Hour),
	}
	if err := repo.UpsertTravelTimes(ctx, []domain.TravelTime{tt}); err != nil {
		t.Fatalf("UpsertTravelTimes: %v", err)
	}

	prof := domain.CityProfile{City: "New York", ArrAirport: "JFK", RiskTags: []string{}, Curfew: false}
	if err := repo.UpsertCityProfile(ctx, prof); err != nil {
		t.Fatalf("UpsertCityProfile: %v", err)
	}

	if err := repo.LogGap(ctx, "h-100", "travel-time"); err != nil {
		t.Fatalf("LogGap: %v", err)
	}
	// Re-logging the same gap must not error (seen_at refresh path).
	if err := repo.LogGap(ctx, "h-100", "travel-time"); err != nil {
		t.Fatalf("LogGap (dup): %v", err)
	}

	// Assert
	gotAir, err := repo.GetAirport(ctx, "JFK")
	if err != nil {
		t.Fatalf("GetAirport: %v", err)
	}
	if gotAir.City != "New York" || gotAir.Timezone != "America/New_York" {
		t.Fatalf("unexpected airport: %+v", gotAir)
	}

	hotels, err := repo.ListHotelsByCity(ctx, "New York")
	if err != nil {
		t.Fatalf("ListHotelsByCity: %v", err)
	}
	if len(hotels) != 1 {
		t.Fatalf("expected 1 hotel, got %d", len(hotels))
	}
	got := hotels[0]
	if got.ID != "h-100" || got.Brand == nil || *got.Brand != "RestWell" {
		t.Fatalf("unexpected hotel: %+v", got)
	}
	if got.Rating == nil || *got.Rating != 4.2 || got.Reviews == nil || *got.Reviews != 310 {
		t.Fatalf("rating/reviews not round-tripped: %+v", got)
	}
	if len(got.Amenities) != 2 {
		t.Fatalf("amenities not round-tripped: %+v", got.Amenities)
	}

	rates, err := repo.GetRates(ctx, []string{"h-100", "h-missing"})
	if err != nil {
		t.Fatalf("GetRates: %v", err)
	}
	if len(rates) != 1 {
		t.Fatalf("expected 1 rate, got %d", len(rates))
	}
	if r := rates["h-100"]; r.TotalUSD() != 170.5 {
		t.Fatalf("unexpected rate total: %v", r.TotalUSD())
	}

	tts, err := repo.ListTravelTimes(ctx, "h-100", arrival)
	if err != nil {
		t.Fatalf("ListTravelTimes: %v", err)
	}
	if len(tts) != 1 || tts[0].Mode != domain.ModeDrive || tts[0].Minutes != 18 {
		t.Fatalf("unexpected travel times: %+v", tts)
	}
	// Outside the validity window nothing should come back.
	late, err := repo.ListTravelTimes(ctx, "h-100", arrival.Add(3*time.Hour))
	if err != nil {
		t.Fatalf("ListTravelTimes (late): %v", err)
	}
	if len(late) != 0 {
		t.Fatalf("expected no coverage outside window, got %+v", late)
	}

	gotProf, err := repo.GetCityProfile(ctx, "New York")
	if err != nil {
		t.Fatalf("GetCityProfile: %v", err)
	}
	if gotProf.ArrAirport != "JFK" || gotProf.Curfew {
		t.Fatalf("unexpected profile: %+v", gotProf)
	}

	if _, err := repo.GetAirport(ctx, "ZZZ"); err != domain.ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := repo.GetCityProfile(ctx, "Nowhere"); err != domain.ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
