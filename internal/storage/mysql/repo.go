package mysql

import (
	"context"
	"database/sql"
	"encoding/json"
	"strings"
	"time"

	"crewplan/internal/domain"
)

func valStr(p *string) any {
	if p == nil {
		return nil
	}
	return *p
}
func valInt(p *int) any {
	if p == nil {
		return nil
	}
	return *p
}
func valF64(p *float64) any {
	if p == nil {
		return nil
	}
	return *p
}

type Repo struct{ db *sql.DB }

func New(db *sql.DB) *Repo { return &Repo{db: db} }

func (r *Repo) UpsertAirport(ctx context.Context, a domain.Airport) error {
	_, err := r.db.ExecContext(ctx, upsertAirportSQL,
		a.IATA, a.Name, a.Lat, a.Lon, a.City, a.Timezone,
	)
	return err
}

func (r *Repo) UpsertHotel(ctx context.Context, h domain.Hotel, city string) error {
	amen, _ := json.Marshal(h.Amenities)
	zones, _ := json.Marshal(h.Zones)
	_, err := r.db.ExecContext(ctx, upsertHotelSQL,
		h.ID,
		city,
		h.Name,
		h.Lat,
		h.Lon,
		valStr(h.Address),
		valStr(h.Brand),
		valF64(h.Rating),
		valInt(h.Reviews),
		string(amen),
		string(zones),
	)
	return err
}

func (r *Repo) UpsertRate(ctx context.Context, rate domain.HotelRate) error {
	_, err := r.db.ExecContext(ctx, upsertRateSQL,
		rate.HotelID, rate.NightlyUSD, valF64(rate.TaxesFeesUSD),
	)
	return err
}

func (r *Repo) UpsertTravelTimes(ctx context.Context, ts []domain.TravelTime) error {
	if len(ts) == 0 {
		return nil
	}
	for _, t := range ts {
		if _, err := r.db.ExecContext(ctx, upsertTravelTimeSQL,
			t.HotelID, string(t.Mode), t.Minutes, t.DistanceKm, t.ValidFrom, t.ValidTo,
		); err != nil {
			return err
		}
	}
	return nil
}

func (r *Repo) UpsertCityProfile(ctx context.Context, p domain.CityProfile) error {
	tags, _ := json.Marshal(p.RiskTags)
	_, err := r.db.ExecContext(ctx, upsertCityProfileSQL,
		p.City, p.ArrAirport, string(tags), p.Curfew,
	)
	return err
}

func (r *Repo) LogGap(ctx context.Context, hotelID, kind string) error {
	_, err := r.db.ExecContext(ctx, insertGapSQL, hotelID, kind)
	return err
}

func (r *Repo) GetAirport(ctx context.Context, iata string) (domain.Airport, error) {
	row := r.db.QueryRowContext(ctx, getAirportSQL, iata)
	var a domain.Airport
	if err := row.Scan(&a.IATA, &a.Name, &a.Lat, &a.Lon, &a.City, &a.Timezone); err != nil {
		if err == sql.ErrNoRows {
			return domain.Airport{}, domain.ErrNotFound
		}
		return domain.Airport{}, err
	}
	return a, nil
}

func (r *Repo) ListHotelsByCity(ctx context.Context, city string) ([]domain.Hotel, error) {
	rows, err := r.db.QueryContext(ctx, listHotelsByCitySQL, city)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Hotel
	for rows.Next() {
		var h domain.Hotel
		var address, brand sql.NullString
		var rating sql.NullFloat64
		var reviews sql.NullInt64
		var amenitiesJSON, zonesJSON []byte
		if err := rows.Scan(
			&h.ID, &h.Name, &h.Lat, &h.Lon,
			&address, &brand, &rating, &reviews,
			&amenitiesJSON, &zonesJSON,
		); err != nil {
			return nil, err
		}
		if address.Valid {
			s := address.String
			h.Address = &s
		}
		if brand.Valid {
			s := brand.String
			h.Brand = &s
		}
		if rating.Valid {
			f := rating.Float64
			h.Rating = &f
		}
		if reviews.Valid {
			n := int(reviews.Int64)
			h.Reviews = &n
		}
		_ = json.Unmarshal(amenitiesJSON, &h.Amenities)
		_ = json.Unmarshal(zonesJSON, &h.Zones)
		out = append(out, h)
	}
	return out, rows.Err()
}

func (r *Repo) GetRates(ctx context.Context, hotelIDs []string) (map[string]domain.HotelRate, error) {
	out := make(map[string]domain.HotelRate, len(hotelIDs))
	if len(hotelIDs) == 0 {
		return out, nil
	}
	args := make([]any, len(hotelIDs))
	for i, id := range hotelIDs {
		args[i] = id
	}
	q := `SELECT hotel_id, nightly_usd, taxes_fees_usd
FROM hotel_rates
WHERE hotel_id IN (?` + strings.Repeat(",?", len(hotelIDs)-1) + `)`
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var rate domain.HotelRate
		var taxes sql.NullFloat64
		if err := rows.Scan(&rate.HotelID, &rate.NightlyUSD, &taxes); err != nil {
			return nil, err
		}
		if taxes.Valid {
			f := taxes.Float64
			rate.TaxesFeesUSD = &f
		}
		out[rate.HotelID] = rate
	}
	return out, rows.Err()
}

func (r *Repo) ListTravelTimes(ctx context.Context, hotelID string, at time.Time) ([]domain.TravelTime, error) {
	rows, err := r.db.QueryContext(ctx, listTravelTimesSQL, hotelID, at, at)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.TravelTime
	for rows.Next() {
		var t domain.TravelTime
		var mode string
		if err := rows.Scan(&t.HotelID, &mode, &t.Minutes, &t.DistanceKm, &t.ValidFrom, &t.ValidTo); err != nil {
			return nil, err
		}
		t.Mode = domain.TravelMode(mode)
		out = append(out, t)
	}
	return out, rows.Err()
}

func (r *Repo) GetCityProfile(ctx context.Context, city string) (domain.CityProfile, error) {
	row := r.db.QueryRowContext(ctx, getCityProfileSQL, city)
	var p domain.CityProfile
	var tagsJSON []byte
	if err := row.Scan(&p.City, &p.ArrAirport, &tagsJSON, &p.Curfew); err != nil {
		if err == sql.ErrNoRows {
			return domain.CityProfile{}, domain.ErrNotFound
		}
		return domain.CityProfile{}, err
	}
	_ = json.Unmarshal(tagsJSON, &p.RiskTags)
	return p, nil
}
