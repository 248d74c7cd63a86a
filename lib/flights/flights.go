// Copyright 2026 The Flight Inspirations Authors
// SPDX-License-Identifier: Apache-2.0

package flights

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/maisjamil1/flight-inspirations/lib/amadeus"
	"github.com/maisjamil1/flight-inspirations/lib/table"
)

var (
	// ErrUpstreamSearchFailed wraps every failure of the underlying
	// Searcher.
	ErrUpstreamSearchFailed = errors.New("flights: upstream search failed")

	// ErrOriginRequired is returned by Search for a blank origin. No
	// request is made.
	ErrOriginRequired = errors.New("flights: origin is required")
)

// QueryDateLayout is the departure date format the upstream API takes.
const QueryDateLayout = "2006-01-02"

// Searcher finds flight destinations. *amadeus.Client implements it.
type Searcher interface {
	FlightDestinations(ctx context.Context, query amadeus.FlightDestinationsQuery) ([]amadeus.FlightDestination, error)
}

// Query is a user's search: an origin city code, an optional
// departure date, and the standing fare limits.
type Query struct {
	Origin string

	// DepartureDate restricts results to one day. The zero value means
	// any date.
	DepartureDate time.Time

	// OneWay restricts results to one-way fares.
	OneWay bool

	// MaxPrice bounds the total fare. Zero means no bound.
	MaxPrice int
}

// Normalize returns the query with the origin trimmed and upper-cased.
func (query Query) Normalize() Query {
	query.Origin = strings.ToUpper(strings.TrimSpace(query.Origin))
	return query
}

// upstream converts the query into the API form.
func (query Query) upstream() amadeus.FlightDestinationsQuery {
	upstream := amadeus.FlightDestinationsQuery{
		Origin:   query.Origin,
		OneWay:   query.OneWay,
		MaxPrice: query.MaxPrice,
	}
	if !query.DepartureDate.IsZero() {
		upstream.DepartureDate = query.DepartureDate.Format(QueryDateLayout)
	}
	return upstream
}

// String renders the query for logs and status lines.
func (query Query) String() string {
	text := query.Origin
	if !query.DepartureDate.IsZero() {
		text += " on " + query.DepartureDate.Format(QueryDateLayout)
	}
	if query.OneWay {
		text += ", one-way"
	}
	if query.MaxPrice > 0 {
		text += ", max " + strconv.Itoa(query.MaxPrice)
	}
	return text
}

// Search runs query against searcher and returns the results as rows.
func Search(ctx context.Context, searcher Searcher, query Query) ([]table.Row, error) {
	query = query.Normalize()
	if query.Origin == "" {
		return nil, ErrOriginRequired
	}
	destinations, err := searcher.FlightDestinations(ctx, query.upstream())
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrUpstreamSearchFailed, query, err)
	}
	return Rows(destinations), nil
}

// Rows transforms destinations into table rows. Each row has exactly
// the fields origin, destination, departureDate, returnDate, price, in
// that order, with price taken from the fare total.
func Rows(destinations []amadeus.FlightDestination) []table.Row {
	rows := make([]table.Row, 0, len(destinations))
	for _, destination := range destinations {
		rows = append(rows, table.NewRow(
			table.Field{Name: table.ColumnOrigin, Value: destination.Origin},
			table.Field{Name: table.ColumnDestination, Value: destination.Destination},
			table.Field{Name: table.ColumnDepartureDate, Value: destination.DepartureDate},
			table.Field{Name: table.ColumnReturnDate, Value: destination.ReturnDate},
			table.Field{Name: table.ColumnPrice, Value: destination.Price.Total},
		))
	}
	return rows
}

var (
	_ Searcher = (*amadeus.Client)(nil)
	_ Searcher = (*FileSearcher)(nil)
)
