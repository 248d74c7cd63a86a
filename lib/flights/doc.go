// Copyright 2026 The Flight Inspirations Authors
// SPDX-License-Identifier: Apache-2.0

// Package flights connects the table to a source of flight
// inspirations. [Search] runs a query against a [Searcher] and turns
// the destinations into table rows with the fixed field order origin,
// destination, departureDate, returnDate, price.
//
// Two Searchers exist: *amadeus.Client for live data, and
// [FileSearcher] for a saved response file used offline and in demos.
//
// Every search failure is returned wrapped in [ErrUpstreamSearchFailed]
// so the presentation layer can show one message without knowing where
// the data came from. Searches are never retried here.
package flights
