package history

import (
	"database/sql"
	"time"
)

const observationColumns = `run_id, identifier, title, price_text, price, url, observed_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanObservation(row rowScanner) (Observation, error) {
	var (
		obs     Observation
		price   sql.NullFloat64
		stamped string
	)
	if err := row.Scan(&obs.RunID, &obs.Identifier, &obs.Title, &obs.PriceText, &price, &obs.URL, &stamped); err != nil {
		return Observation{}, err
	}
	obs.Price, obs.HasPrice = price.Float64, price.Valid
	obs.ObservedAt = parseTime(stamped)
	return obs, nil
}

func nullableFloat(value float64, ok bool) any {
	if !ok {
		return nil
	}
	return value
}

func parseTime(value string) time.Time {
	if value == "" {
		return time.Time{}
	}
	ts, err := time.Parse(time.RFC3339Nano, value)
	if err != nil {
		return time.Time{}
	}
	return ts
}
