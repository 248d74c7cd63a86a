// Copyright 2026 The Flight Inspirations Authors
// SPDX-License-Identifier: Apache-2.0

package flights

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/tidwall/jsonc"

	"github.com/maisjamil1/flight-inspirations/lib/amadeus"
)

// FileSearcher serves searches from a saved flight-destinations
// response. The file is the JSON document the API returns (or just its
// "data" array) and may contain comments and trailing commas.
type FileSearcher struct {
	path         string
	destinations []amadeus.FlightDestination
}

// OpenFile reads and parses the response file at path.
func OpenFile(path string) (*FileSearcher, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("flights: reading %s: %w", path, err)
	}
	destinations, err := parseDestinations(data)
	if err != nil {
		return nil, fmt.Errorf("flights: parsing %s: %w", path, err)
	}
	return &FileSearcher{path: path, destinations: destinations}, nil
}

// parseDestinations accepts either a full response document or a bare
// array of destinations.
func parseDestinations(data []byte) ([]amadeus.FlightDestination, error) {
	clean := jsonc.ToJSON(data)
	trimmed := strings.TrimSpace(string(clean))
	if strings.HasPrefix(trimmed, "[") {
		var destinations []amadeus.FlightDestination
		if err := json.Unmarshal(clean, &destinations); err != nil {
			return nil, err
		}
		return destinations, nil
	}
	var document amadeus.FlightDestinationsResponse
	if err := json.Unmarshal(clean, &document); err != nil {
		return nil, err
	}
	return document.Data, nil
}

// Len returns the number of destinations in the file.
func (searcher *FileSearcher) Len() int { return len(searcher.destinations) }

// Path returns the file the searcher was opened from.
func (searcher *FileSearcher) Path() string { return searcher.path }

// FlightDestinations returns the destinations whose origin matches
// query.Origin (case-insensitively) and whose departure date matches
// query.DepartureDate: one date, or an inclusive "from,to" range. An
// empty departure date matches everything. OneWay keeps destinations
// without a return date; MaxPrice drops fares above it and fares whose
// total is not a number.
func (searcher *FileSearcher) FlightDestinations(ctx context.Context, query amadeus.FlightDestinationsQuery) ([]amadeus.FlightDestination, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	from, to, hasRange := strings.Cut(query.DepartureDate, ",")
	if !hasRange {
		to = from
	}

	var matches []amadeus.FlightDestination
	for _, destination := range searcher.destinations {
		if !strings.EqualFold(destination.Origin, query.Origin) {
			continue
		}
		// ISO dates compare correctly as strings.
		if from != "" && (destination.DepartureDate < from || destination.DepartureDate > to) {
			continue
		}
		if query.OneWay && destination.ReturnDate != "" {
			continue
		}
		if query.MaxPrice > 0 && !withinPrice(destination.Price.Total, query.MaxPrice) {
			continue
		}
		matches = append(matches, destination)
	}
	return matches, nil
}

func withinPrice(total string, limit int) bool {
	price, err := strconv.ParseFloat(total, 64)
	return err == nil && price <= float64(limit)
}
