/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  period.Interval (unexported fields, time.Time values) from the wire
  contract.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients
  - *Response: Complex response wrappers

TIMESTAMPS:
  All instants are RFC3339 with the interval's own offset, so a client
  sees the wall-clock boundaries (00:00:00 / 23:59:59) directly.

SEE ALSO:
  - handlers.go: Uses these types
  - factory/definition.go: DefinitionJSON request body
*/
package api

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/warp/period-engine/factory"
	"github.com/warp/period-engine/period"
	"github.com/warp/period-engine/store"
)

// =============================================================================
// REQUEST/RESPONSE TYPES
// =============================================================================

// IntervalDTO represents an interval tree in API responses.
type IntervalDTO struct {
	Start        string        `json:"start"`
	End          string        `json:"end"`
	Precision    string        `json:"precision"`
	PeriodLength int           `json:"period_length"`
	Reference    string        `json:"reference"`
	Label        string        `json:"label"`
	Key          string        `json:"key"`
	Days         int           `json:"days"`
	Children     []IntervalDTO `json:"children,omitempty"`
}

// PresetDTO represents a preset in API responses.
type PresetDTO struct {
	ID          string                 `json:"id"`
	Name        string                 `json:"name"`
	Description string                 `json:"description,omitempty"`
	Definition  factory.DefinitionJSON `json:"definition"`
}

// ProrateRequest asks for a total to be split across the period's buckets.
type ProrateRequest struct {
	Definition factory.DefinitionJSON `json:"definition"`
	Total      decimal.Decimal        `json:"total"`
	Places     *int32                 `json:"places,omitempty"` // default 2
}

// ProratedBucketDTO is one bucket's share of a prorated total.
type ProratedBucketDTO struct {
	Key    string          `json:"key"`
	Label  string          `json:"label"`
	Start  string          `json:"start"`
	End    string          `json:"end"`
	Days   int             `json:"days"`
	Amount decimal.Decimal `json:"amount"`
}

// ProrateResponse wraps the prorated buckets.
type ProrateResponse struct {
	Label   string              `json:"label"`
	Total   decimal.Decimal     `json:"total"`
	Days    int                 `json:"days"`
	Buckets []ProratedBucketDTO `json:"buckets"`
}

// ErrorResponse is returned for all API errors.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// =============================================================================
// CONVERSIONS
// =============================================================================

// NewIntervalDTO converts an interval tree to its wire form.
func NewIntervalDTO(iv *period.Interval) IntervalDTO {
	dto := IntervalDTO{
		Start:        iv.Start().Format(time.RFC3339),
		End:          iv.End().Format(time.RFC3339),
		Precision:    iv.Precision().String(),
		PeriodLength: iv.PeriodLength(),
		Reference:    iv.Reference().Format(time.RFC3339),
		Label:        iv.Label(),
		Key:          iv.Key(),
		Days:         iv.Days(),
	}
	for _, c := range iv.Children() {
		dto.Children = append(dto.Children, NewIntervalDTO(c))
	}
	return dto
}

func toPresetDTO(p store.Preset) PresetDTO {
	return PresetDTO{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Definition:  p.Definition,
	}
}
