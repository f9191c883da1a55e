// Package http provides the JSON API server for the bill tracker.
//
// This file implements utilities for parsing and validating HTTP request
// data. It reduces code duplication by providing reusable functions for
// body decoding, view parameter extraction, and input sanitization.

package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strings"

	"bollette/internal/core"
)

// maxBodyBytes caps request bodies. Bill payloads are tiny.
const maxBodyBytes = 1 << 20

// ViewParams holds the parsed filter and sort selection from query
// parameters. Nil fields mean the parameter was absent and the currently
// selected view stays in effect.
type ViewParams struct {
	Filter *core.Filter
	Sort   *core.SortOrder
}

// ParseViewParams extracts filter and sort from query parameters. Absent
// parameters stay nil, unknown values are an error.
func ParseViewParams(query url.Values) (ViewParams, error) {
	var params ViewParams
	if query.Has("filter") {
		filter, err := core.ParseFilter(strings.TrimSpace(query.Get("filter")))
		if err != nil {
			return ViewParams{}, err
		}
		params.Filter = &filter
	}
	if query.Has("sort") {
		sort, err := core.ParseSortOrder(strings.TrimSpace(query.Get("sort")))
		if err != nil {
			return ViewParams{}, err
		}
		params.Sort = &sort
	}
	return params, nil
}

// amountPayload is the JSON shape of a monetary amount in request bodies.
type amountPayload struct {
	Value    json.Number `json:"value"`
	Currency string      `json:"currency"`
}

// billCreatePayload is the JSON body accepted by bill creation.
type billCreatePayload struct {
	Category      string         `json:"category"`
	DisplayName   string         `json:"displayName"`
	PaymentMethod string         `json:"paymentMethod"`
	Status        string         `json:"status"`
	Amount        *amountPayload `json:"amount"`
}

// billPatchPayload is the JSON body accepted by bill updates. Absent fields
// leave the bill untouched.
type billPatchPayload struct {
	Amount *amountPayload `json:"amount"`
	Status *string        `json:"status"`
}

// DecodeJSON reads and decodes the request body into v. Unknown fields are
// rejected so typos surface instead of silently dropping data.
func DecodeJSON(r *http.Request, v any) error {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		return err
	}
	if len(body) == 0 {
		return errors.New("empty request body")
	}

	dec := json.NewDecoder(strings.NewReader(string(body)))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return err
	}
	return nil
}

// RequireMethod checks if the request method matches the expected method(s).
// Returns an error response builder if the method doesn't match.
func RequireMethod(r *http.Request, methods ...string) *JSONResponseBuilder {
	for _, m := range methods {
		if r.Method == m {
			return nil
		}
	}
	return MethodNotAllowedError(strings.Join(methods, ", "))
}

// sanitizeInput removes potentially dangerous characters and trims whitespace.
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	result := strings.Map(func(r rune) rune {
		if r < 32 && r != 9 && r != 10 && r != 13 {
			return -1
		}
		return r
	}, s)
	return result
}
