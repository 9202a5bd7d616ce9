package normalize

import "github.com/nconklindev/dateline/internal/period"

// Config holds the normalization settings.
type Config struct {
	// CustomerID is the only customer kept from the order export.
	CustomerID string `mapstructure:"customer_id" default:"PINGRM"`
}

// DatesConfig controls how ambiguous textual dates are read.
type DatesConfig struct {
	// DayFirst reads 05-03-2024 as 5 March rather than 3 May. Either way a
	// form only valid in the other order, like 15-03-2024, still parses.
	DayFirst bool `mapstructure:"day_first" default:"false"`
}

func (c DatesConfig) Parser() period.Parser {
	return period.Parser{DayFirst: c.DayFirst}
}
