// Copyright 2026 The Flight Inspirations Authors
// SPDX-License-Identifier: Apache-2.0

package amadeus

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// flightDestinationsPath is the Flight Inspiration Search endpoint.
const flightDestinationsPath = "/shopping/flight-destinations"

// FlightDestinationsQuery selects inspirations from one origin.
type FlightDestinationsQuery struct {
	// Origin is the IATA code of the departure city. Required.
	Origin string

	// DepartureDate is a date or range ("2024-05-01" or
	// "2024-05-01,2024-05-10"). Empty means any date.
	DepartureDate string

	// OneWay restricts results to one-way fares.
	OneWay bool

	// MaxPrice bounds the total price. Zero means no bound.
	MaxPrice int
}

func (query FlightDestinationsQuery) values() url.Values {
	values := url.Values{"origin": {strings.ToUpper(query.Origin)}}
	if query.DepartureDate != "" {
		values.Set("departureDate", query.DepartureDate)
	}
	if query.OneWay {
		values.Set("oneWay", "true")
	}
	if query.MaxPrice > 0 {
		values.Set("maxPrice", strconv.Itoa(query.MaxPrice))
	}
	return values
}

// FlightDestination is one inspiration: the cheapest known fare from
// the origin to a destination.
type FlightDestination struct {
	Type          string `json:"type"`
	Origin        string `json:"origin"`
	Destination   string `json:"destination"`
	DepartureDate string `json:"departureDate"`
	ReturnDate    string `json:"returnDate"`
	Price         Price  `json:"price"`
	Links         Links  `json:"links"`
}

// Price is the fare for a FlightDestination. Total is a decimal string
// in the currency given by the response metadata.
type Price struct {
	Total string `json:"total"`
}

// Links point at follow-up searches for a FlightDestination.
type Links struct {
	FlightDates  string `json:"flightDates,omitempty"`
	FlightOffers string `json:"flightOffers,omitempty"`
}

// FlightDestinationsResponse is the full response document.
type FlightDestinationsResponse struct {
	Data         []FlightDestination `json:"data"`
	Dictionaries struct {
		Currencies map[string]string `json:"currencies,omitempty"`
		Locations  map[string]struct {
			SubType      string `json:"subType"`
			DetailedName string `json:"detailedName"`
		} `json:"locations,omitempty"`
	} `json:"dictionaries"`
	Meta struct {
		Currency string `json:"currency"`
	} `json:"meta"`
}

// FlightDestinations searches for the cheapest destinations from
// query.Origin.
func (client *Client) FlightDestinations(ctx context.Context, query FlightDestinationsQuery) ([]FlightDestination, error) {
	response, err := client.FlightDestinationsDocument(ctx, query)
	if err != nil {
		return nil, err
	}
	return response.Data, nil
}

// FlightDestinationsDocument is FlightDestinations returning the whole
// response, including currency and location dictionaries.
func (client *Client) FlightDestinationsDocument(ctx context.Context, query FlightDestinationsQuery) (*FlightDestinationsResponse, error) {
	if strings.TrimSpace(query.Origin) == "" {
		return nil, fmt.Errorf("amadeus: origin is required")
	}
	body, err := client.get(ctx, flightDestinationsPath, query.values())
	if err != nil {
		return nil, err
	}
	var response FlightDestinationsResponse
	if err := decodeJSON(body, &response); err != nil {
		return nil, fmt.Errorf("amadeus: decoding flight destinations: %w", err)
	}
	return &response, nil
}
