package mysql

const upsertAirportSQL = `
INSERT INTO airports
  (iata, name, lat, lon, city, timezone)
VALUES
  (?, ?, ?, ?, ?, ?)
ON DUPLICATE KEY UPDATE
  name       = VALUES(name),
  lat        = VALUES(lat),
  lon        = VALUES(lon),
  city       = VALUES(city),
  timezone   = VALUES(timezone),
  updated_at = CURRENT_TIMESTAMP
`

const upsertHotelSQL = `
INSERT INTO hotels
  (id, city, name, lat, lon, address, brand, rating, reviews, amenities, zones)
VALUES
  (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON DUPLICATE KEY UPDATE
  city       = VALUES(city),
  name       = VALUES(name),
  lat        = VALUES(lat),
  lon        = VALUES(lon),
  address    = VALUES(address),
  brand      = VALUES(brand),
  rating     = VALUES(rating),
  reviews    = VALUES(reviews),
  amenities  = VALUES(amenities),
  zones      = VALUES(zones),
  updated_at = CURRENT_TIMESTAMP
`

const upsertRateSQL = `
INSERT INTO hotel_rates
  (hotel_id, nightly_usd, taxes_fees_usd)
VALUES
  (?, ?, ?)
ON DUPLICATE KEY UPDATE
  nightly_usd    = VALUES(nightly_usd),
  taxes_fees_usd = VALUES(taxes_fees_usd),
  updated_at     = CURRENT_TIMESTAMP
`

// A record is keyed by (hotel, mode, window start); re-ingesting a window
// replaces its measurement rather than stacking duplicates.
const upsertTravelTimeSQL = `
INSERT INTO travel_times
  (hotel_id, mode, minutes, distance_km, valid_from, valid_to)
VALUES
  (?, ?, ?, ?, ?, ?)
ON DUPLICATE KEY UPDATE
  minutes     = VALUES(minutes),
  distance_km = VALUES(distance_km),
  valid_to    = VALUES(valid_to),
  updated_at  = CURRENT_TIMESTAMP
`

const upsertCityProfileSQL = `
INSERT INTO city_profiles
  (city, arr_airport, risk_tags, curfew)
VALUES
  (?, ?, ?, ?)
ON DUPLICATE KEY UPDATE
  arr_airport = VALUES(arr_airport),
  risk_tags   = VALUES(risk_tags),
  curfew      = VALUES(curfew),
  updated_at  = CURRENT_TIMESTAMP
`

const insertGapSQL = `
INSERT INTO plan_gaps (hotel_id, kind)
VALUES (?, ?)
ON DUPLICATE KEY UPDATE seen_at = CURRENT_TIMESTAMP
`

// -----------------------------------------------------------------------------
// READ QUERIES
// -----------------------------------------------------------------------------

const getAirportSQL = `
SELECT iata, name, lat, lon, city, timezone
FROM airports
WHERE iata = ?
`

const listHotelsByCitySQL = `
SELECT id, name, lat, lon, address, brand, rating, reviews, amenities, zones
FROM hotels
WHERE city = ?
ORDER BY id
`

// Only windows covering the arrival instant matter to a plan run.
const listTravelTimesSQL = `
SELECT hotel_id, mode, minutes, distance_km, valid_from, valid_to
FROM travel_times
WHERE hotel_id = ? AND valid_from <= ? AND valid_to > ?
ORDER BY mode, valid_from
`

const getCityProfileSQL = `
SELECT city, arr_airport, risk_tags, curfew
FROM city_profiles
WHERE city = ?
`
