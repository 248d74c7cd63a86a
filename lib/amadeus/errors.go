// Copyright 2026 The Flight Inspirations Authors
// SPDX-License-Identifier: Apache-2.0

package amadeus

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// APIError represents a non-2xx response from the Amadeus API. Amadeus
// returns a JSON body with an "errors" array on API endpoints, and a
// flat OAuth2 error object on the token endpoint; both are parsed into
// Details.
type APIError struct {
	// StatusCode is the HTTP response status code.
	StatusCode int

	// Details are the individual errors the server reported. Empty if
	// the body was not a recognized error document.
	Details []ErrorDetail

	// Body is the raw response body when it could not be parsed.
	Body string
}

// ErrorDetail is one entry of an Amadeus error document.
type ErrorDetail struct {
	Status int          `json:"status"`
	Code   int          `json:"code"`
	Title  string       `json:"title"`
	Detail string       `json:"detail"`
	Source *ErrorSource `json:"source,omitempty"`
}

// ErrorSource points at the request element that caused an error.
type ErrorSource struct {
	Parameter string `json:"parameter,omitempty"`
	Pointer   string `json:"pointer,omitempty"`
	Example   string `json:"example,omitempty"`
}

func (err *APIError) Error() string {
	var builder strings.Builder
	fmt.Fprintf(&builder, "amadeus: HTTP %d", err.StatusCode)
	if len(err.Details) == 0 {
		if err.Body != "" {
			fmt.Fprintf(&builder, ": %s", err.Body)
		} else {
			fmt.Fprintf(&builder, ": %s", http.StatusText(err.StatusCode))
		}
		return builder.String()
	}
	for index, detail := range err.Details {
		if index == 0 {
			builder.WriteString(": ")
		} else {
			builder.WriteString("; ")
		}
		builder.WriteString(detail.Title)
		if detail.Detail != "" {
			fmt.Fprintf(&builder, " (%s)", detail.Detail)
		}
		if detail.Source != nil && detail.Source.Parameter != "" {
			fmt.Fprintf(&builder, " [parameter %s]", detail.Source.Parameter)
		}
	}
	return builder.String()
}

// IsUnauthorized reports whether err is an Amadeus 401 response:
// missing, invalid, or expired credentials.
func IsUnauthorized(err error) bool {
	var apiError *APIError
	return errors.As(err, &apiError) && apiError.StatusCode == http.StatusUnauthorized
}

// IsRateLimited reports whether err is an Amadeus 429 response.
func IsRateLimited(err error) bool {
	var apiError *APIError
	return errors.As(err, &apiError) && apiError.StatusCode == http.StatusTooManyRequests
}

// IsNotFound reports whether err is an Amadeus 404 response. The
// inspiration endpoint answers 404 when it has no data for an origin.
func IsNotFound(err error) bool {
	var apiError *APIError
	return errors.As(err, &apiError) && apiError.StatusCode == http.StatusNotFound
}

// parseAPIError builds an APIError from a status code and body.
func parseAPIError(statusCode int, body []byte) *APIError {
	apiError := &APIError{StatusCode: statusCode}

	var document struct {
		Errors []ErrorDetail `json:"errors"`

		// Token endpoint format.
		Error            string `json:"error"`
		ErrorDescription string `json:"error_description"`
		Code             int    `json:"code"`
		Title            string `json:"title"`
	}
	if json.Unmarshal(body, &document) == nil {
		switch {
		case len(document.Errors) > 0:
			apiError.Details = document.Errors
			return apiError
		case document.Error != "":
			title := document.Title
			if title == "" {
				title = document.Error
			}
			apiError.Details = []ErrorDetail{{
				Status: statusCode,
				Code:   document.Code,
				Title:  title,
				Detail: document.ErrorDescription,
			}}
			return apiError
		}
	}
	apiError.Body = strings.TrimSpace(string(body))
	return apiError
}

// decodeJSON unmarshals a successful response body.
func decodeJSON(body []byte, v any) error {
	return json.Unmarshal(body, v)
}
