// Copyright 2026 The Flight Inspirations Authors
// SPDX-License-Identifier: Apache-2.0

// Package config loads the YAML configuration for flight-inspirations.
//
// Configuration comes from one file, named by the --config flag or the
// FLIGHTS_CONFIG environment variable. Without either, [Resolve] uses
// [Default]: the Amadeus test environment with credentials taken from
// AMADEUS_API_KEY and AMADEUS_API_SECRET.
//
// The file may contain environment sections (test, production) whose
// amadeus and storage values override the base values when
// [Config].Environment matches.
//
// After loading, ${VAR} and ${VAR:-default} references are expanded in
// the Amadeus base URL and credentials and in the storage path. No
// other environment variables override config values.
//
// This package depends on no other packages in the module.
package config
