package transitgrid

import (
	"context"
	crand "crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"crewplan/internal/adapters/observability"
	"crewplan/internal/domain"
)

// Client talks to the TransitGrid matrix API: per-mode airport->hotel travel
// times for a given arrival instant. Calls are rate limited client-side and
// retried on 429/5xx.
type Client struct {
	base string
	hc   *http.Client
	key  string
	rl   *rate.Limiter
}

func New(base, key string, rps int) (*Client, error) {
	if key == "" {
		return nil, fmt.Errorf("API key is required")
	}
	if rps <= 0 {
		rps = 5
	}
	return &Client{
		base: base,
		hc:   &http.Client{Timeout: 20 * time.Second},
		key:  key,
		rl:   rate.NewLimiter(rate.Limit(rps), rps),
	}, nil
}

var (
	// ErrNotFound wraps the domain sentinel so callers behind the
	// TravelTimeClient port can treat it as a plain data gap.
	ErrNotFound     = fmt.Errorf("transitgrid: %w", domain.ErrNotFound)
	ErrUnauthorized = errors.New("transitgrid: unauthorized")
	ErrForbidden    = errors.New("transitgrid: forbidden")
)

// matrixEntry is the provider's wire shape for one mode.
type matrixEntry struct {
	Mode       string    `json:"mode"`
	Minutes    int       `json:"minutes"`
	DistanceKm float64   `json:"distance_km"`
	ValidFrom  time.Time `json:"valid_from"`
	ValidTo    time.Time `json:"valid_to"`
}

// Matrix fetches every available mode for the origin/hotel pair around the
// arrival instant. A pair the provider has never measured is ErrNotFound,
// which callers treat as a data gap, not a failure.
func (c *Client) Matrix(ctx context.Context, origin domain.Airport, hotel domain.Hotel, arrival time.Time) ([]domain.TravelTime, error) {
	q := url.Values{}
	q.Set("olat", strconv.FormatFloat(origin.Lat, 'f', -1, 64))
	q.Set("olon", strconv.FormatFloat(origin.Lon, 'f', -1, 64))
	q.Set("dlat", strconv.FormatFloat(hotel.Lat, 'f', -1, 64))
	q.Set("dlon", strconv.FormatFloat(hotel.Lon, 'f', -1, 64))
	q.Set("arrival", arrival.UTC().Format(time.RFC3339))

	var entries []matrixEntry
	if err := c.get(ctx, fmt.Sprintf("%s/v1/matrix?%s", c.base, q.Encode()), &entries); err != nil {
		return nil, err
	}

	out := make([]domain.TravelTime, 0, len(entries))
	for _, e := range entries {
		mode := domain.TravelMode(e.Mode)
		switch mode {
		case domain.ModeDrive, domain.ModeTransit, domain.ModeShuttle:
		default:
			continue // unknown mode, skip rather than guess
		}
		out = append(out, domain.TravelTime{
			HotelID:    hotel.ID,
			Mode:       mode,
			Minutes:    e.Minutes,
			DistanceKm: e.DistanceKm,
			ValidFrom:  e.ValidFrom,
			ValidTo:    e.ValidTo,
		})
	}
	if len(out) == 0 {
		return nil, ErrNotFound
	}
	return out, nil
}

// get performs a GET with client-side rate limiting, retries, and JSON
// decode into out. Retries on 429 and transient 5xx, honoring Retry-After.
func (c *Client) get(ctx context.Context, u string, out any) error {
	if err := c.rl.Wait(ctx); err != nil {
		return err
	}

	start := time.Now()
	var lastErr error
	for i := 0; i < 4; i++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
		if err != nil {
			return err
		}
		req.Header.Set("X-API-Key", c.key)
		req.Header.Set("Accept", "application/json")
		req.Header.Set("User-Agent", "crewplan/1.0")

		resp, err := c.hc.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			lastErr = err
			if i < 3 && sleepCtx(ctx, backoff(i)) {
				continue
			}
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return lastErr
		}

		observability.ObserveExternal("transitgrid", "matrix", resp.StatusCode, time.Since(start))

		switch resp.StatusCode {
		case http.StatusOK:
			err := json.NewDecoder(resp.Body).Decode(out)
			resp.Body.Close()
			return err

		case http.StatusNoContent:
			io.Copy(io.Discard, resp.Body)
			resp.Body.Close()
			return ErrNotFound

		case http.StatusNotFound:
			resp.Body.Close()
			return ErrNotFound

		case http.StatusUnauthorized:
			resp.Body.Close()
			return ErrUnauthorized

		case http.StatusForbidden:
			resp.Body.Close()
			return ErrForbidden

		case http.StatusTooManyRequests, http.StatusInternalServerError,
			http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
			wait := retryAfter(resp)
			resp.Body.Close()
			if wait == 0 {
				wait = backoff(i)
			}
			lastErr = fmt.Errorf("remote %d", resp.StatusCode)
			if i < 3 && sleepCtx(ctx, wait) {
				continue
			}
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return lastErr

		default:
			b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
			resp.Body.Close()
			return fmt.Errorf("bad status %d: %s", resp.StatusCode, strings.TrimSpace(string(b)))
		}
	}

	return lastErr
}

// sleepCtx waits for d or returns early if ctx is done.
func sleepCtx(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return true
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

// retryAfter parses Retry-After (seconds or HTTP-date). 0 if absent/invalid.
func retryAfter(resp *http.Response) time.Duration {
	h := resp.Header.Get("Retry-After")
	if h == "" {
		return 0
	}
	if secs, err := strconv.Atoi(strings.TrimSpace(h)); err == nil && secs >= 0 {
		return time.Duration(secs) * time.Second
	}
	if t, err := http.ParseTime(h); err == nil {
		if d := time.Until(t); d > 0 {
			return d
		}
	}
	return 0
}

// backoff returns an exponential delay (200ms, 400ms, 800ms...) with up to
// +50% jitter to avoid thundering herds.
func backoff(i int) time.Duration {
	base := time.Duration(1<<i) * 200 * time.Millisecond
	var b [1]byte
	if _, err := crand.Read(b[:]); err != nil {
		return base
	}
	f := float64(b[0]) / 255.0
	j := time.Duration(0.5 * f * float64(base))
	return base + j
}
