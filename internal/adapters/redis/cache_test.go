package redisad_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"

	redisad "crewplan/internal/adapters/redis"
	"crewplan/internal/domain"
)

func newTestCache(t *testing.T) *redisad.Cache {
	t.Helper()
	mr := miniredis.RunT(t)
	return redisad.New(mr.Addr(), "", 0)
}

func TestCache_RoundTripTravelTimes(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	in := []domain.TravelTime{{
		HotelID:    "h1",
		Mode:       domain.ModeDrive,
		Minutes:    20,
		DistanceKm: 11,
		ValidFrom:  time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC),
		ValidTo:    time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC),
	}}
	if err := c.Set(ctx, "tt:JFK:h1:22", in, 60); err != nil {
		t.Fatalf("set: %v", err)
	}

	var out []domain.TravelTime
	ok, err := c.Get(ctx, "tt:JFK:h1:22", &out)
	if err != nil || !ok {
		t.Fatalf("get: ok=%v err=%v", ok, err)
	}
	if len(out) != 1 || out[0].HotelID != "h1" || out[0].Minutes != 20 {
		t.Fatalf("unexpected value: %+v", out)
	}
}

func TestCache_MissIsNotAnError(t *testing.T) {
	c := newTestCache(t)

	var out domain.CityProfile
	ok, err := c.Get(context.Background(), "cityprofile:nowhere", &out)
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if ok {
		t.Fatalf("expected miss")
	}
}

func TestCache_Del(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	p := domain.CityProfile{City: "New York", ArrAirport: "JFK", Curfew: true}
	if err := c.Set(ctx, "cityprofile:New York", p, 60); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := c.Del(ctx, "cityprofile:New York"); err != nil {
		t.Fatalf("del: %v", err)
	}
	var out domain.CityProfile
	if ok, _ := c.Get(ctx, "cityprofile:New York", &out); ok {
		t.Fatalf("expected key gone after del")
	}
}
