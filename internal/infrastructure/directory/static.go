package directory

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"

	"booking-assistant/internal/application/port/output"
	"booking-assistant/internal/domain/entity"
)

var _ output.ProviderDirectoryPort = (*StaticDirectory)(nil)

const maxRecommendations = 5

// Providers carrying either marker phrase accept any insurance.
var openNetworkMarkers = []string{"most major", "all plans"}

// StaticDirectory ranks a fixed provider list. Ranking is a pure function
// of (insurance, location), so repeated calls with the same arguments
// always reproduce the same ordering.
type StaticDirectory struct {
	providers []entity.Provider
	logger    output.LoggerPort
}

func NewStaticDirectory(providers []entity.Provider, logger output.LoggerPort) *StaticDirectory {
	return &StaticDirectory{providers: providers, logger: logger}
}

// LoadProviders reads a JSON provider list from disk.
func LoadProviders(path string) ([]entity.Provider, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read providers file: %w", err)
	}

	var providers []entity.Provider
	if err := json.Unmarshal(data, &providers); err != nil {
		return nil, fmt.Errorf("parse providers file: %w", err)
	}
	return providers, nil
}

// Recommend filters to providers accepting the insurance, ranks
// location-substring matches first with rating descending as tie-break,
// and returns at most the top five. The sort is stable: equal providers
// keep their original relative order.
func (d *StaticDirectory) Recommend(ctx context.Context, insurance, location string) ([]entity.Provider, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	var matched []entity.Provider
	for _, p := range d.providers {
		if acceptsInsurance(p, insurance) {
			matched = append(matched, p)
		}
	}

	loc := strings.ToLower(strings.TrimSpace(location))
	sort.SliceStable(matched, func(i, j int) bool {
		li, lj := matchesLocation(matched[i], loc), matchesLocation(matched[j], loc)
		if li != lj {
			return li
		}
		return matched[i].Rating > matched[j].Rating
	})

	if len(matched) > maxRecommendations {
		matched = matched[:maxRecommendations]
	}

	d.logger.Debug("Providers ranked",
		"insurance", insurance, "location", location, "count", len(matched))

	return matched, nil
}

func acceptsInsurance(p entity.Provider, insurance string) bool {
	if strings.TrimSpace(insurance) == "" {
		return true
	}
	want := strings.ToLower(insurance)
	for _, accepted := range p.AcceptedInsurance {
		got := strings.ToLower(accepted)
		if strings.Contains(got, want) || strings.Contains(want, got) {
			return true
		}
		for _, marker := range openNetworkMarkers {
			if strings.Contains(got, marker) {
				return true
			}
		}
	}
	return false
}

func matchesLocation(p entity.Provider, loc string) bool {
	if loc == "" {
		return false
	}
	return strings.Contains(strings.ToLower(p.City), loc) ||
		strings.Contains(strings.ToLower(p.Address), loc)
}
