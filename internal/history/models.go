package history

import "time"

// DayLayout formats the local calendar day used for per-day queries.
const DayLayout = "2006-01-02"

// Run summarises one recorded run.
type Run struct {
	ID         string
	StartedAt  time.Time
	MatchCount int
}

// Observation is one stored product sighting.
type Observation struct {
	RunID      string
	Identifier string
	Title      string
	PriceText  string
	Price      float64
	HasPrice   bool
	URL        string
	ObservedAt time.Time
}

// Notified is the last price delivered for an identifier.
type Notified struct {
	Identifier string
	PriceText  string
	Price      float64
	HasPrice   bool
	NotifiedAt time.Time
}

// DailyMin is the lowest price seen for an identifier on one day.
type DailyMin struct {
	Day   string
	Price float64
}

// ItemSummary aggregates everything stored for an identifier.
type ItemSummary struct {
	Identifier   string
	Title        string
	LatestPrice  string
	LowestPrice  float64
	HasLowest    bool
	Observations int
	LastSeen     time.Time
}
