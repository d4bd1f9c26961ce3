package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/sandevgo/reliefbot/internal/storage/sqlite"
)

const (
	ToolSearchHealthFacilities = "search_health_facilities"
	ToolSearchPoliceFacilities = "search_police_facilities"
)

const facilitySearchSchema = `
{
  "type": "object",
  "properties": {
    "query": { "type": "string", "description": "Free-text filter over facility name, city or services. Empty lists all." },
    "limit": { "type": "integer", "description": "Maximum number of results, default 5" }
  },
  "required": []
}
`

type FacilityRepo interface {
	Search(ctx context.Context, kind, term string, limit int) ([]sqlite.Facility, error)
}

// Facilities exposes the hospital and police station directories as tools.
type Facilities struct {
	repo FacilityRepo
}

func NewFacilities(repo FacilityRepo) *Facilities {
	return &Facilities{repo: repo}
}

func (f *Facilities) searchKind(kind string) func(ctx context.Context, args json.RawMessage) (string, error) {
	return func(ctx context.Context, args json.RawMessage) (string, error) {
		var input struct {
			Query string `json:"query"`
			Limit int    `json:"limit"`
		}
		if len(args) > 0 {
			if err := json.Unmarshal(args, &input); err != nil {
				return "", fmt.Errorf("invalid arguments: %w", err)
			}
		}

		facilities, err := f.repo.Search(ctx, kind, input.Query, input.Limit)
		if err != nil {
			return "", fmt.Errorf("facility search: %w", err)
		}
		if len(facilities) == 0 {
			return "No matching facilities found.", nil
		}

		return formatFacilities(facilities), nil
	}
}

func formatFacilities(facilities []sqlite.Facility) string {
	var b strings.Builder
	for i, fac := range facilities {
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "- %s (%s, %s)", fac.Name, fac.Address, fac.City)
		if fac.Phone != "" {
			fmt.Fprintf(&b, ", phone: %s", fac.Phone)
		}
		if fac.Services != "" {
			fmt.Fprintf(&b, ", services: %s", fac.Services)
		}
		if fac.Latitude != 0 || fac.Longitude != 0 {
			fmt.Fprintf(&b, ", location: %v,%v", fac.Latitude, fac.Longitude)
		}
	}
	return b.String()
}

func (f *Facilities) GetDefinitions() map[string]Definition {
	return map[string]Definition{
		ToolSearchHealthFacilities: {
			Description: "Search hospitals and clinics by name, city or offered services",
			Schema:      json.RawMessage(facilitySearchSchema),
			Handler:     f.searchKind(sqlite.FacilityHospital),
		},
		ToolSearchPoliceFacilities: {
			Description: "Search police stations by name, city or offered services",
			Schema:      json.RawMessage(facilitySearchSchema),
			Handler:     f.searchKind(sqlite.FacilityPolice),
		},
	}
}
