package http

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"bollette/internal/core"
)

func TestParseViewParams(t *testing.T) {
	paid := core.FilterPaid
	pending := core.FilterPending
	amountDesc := core.SortAmountDesc

	tests := []struct {
		name       string
		query      string
		wantFilter *core.Filter
		wantSort   *core.SortOrder
		wantErr    bool
	}{
		{
			name:  "absent parameters stay nil",
			query: "",
		},
		{
			name:       "explicit filter and sort",
			query:      "filter=Paid&sort=AmountDesc",
			wantFilter: &paid,
			wantSort:   &amountDesc,
		},
		{
			name:       "surrounding whitespace is trimmed",
			query:      "filter=%20Pending%20",
			wantFilter: &pending,
		},
		{
			name:    "unknown filter",
			query:   "filter=Overdue",
			wantErr: true,
		},
		{
			name:    "unknown sort",
			query:   "sort=Random",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			values, err := url.ParseQuery(tt.query)
			if err != nil {
				t.Fatalf("parse query: %v", err)
			}
			params, err := ParseViewParams(values)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseViewParams() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				return
			}
			if (params.Filter == nil) != (tt.wantFilter == nil) ||
				(params.Filter != nil && *params.Filter != *tt.wantFilter) {
				t.Errorf("ParseViewParams() filter = %v, want %v", params.Filter, tt.wantFilter)
			}
			if (params.Sort == nil) != (tt.wantSort == nil) ||
				(params.Sort != nil && *params.Sort != *tt.wantSort) {
				t.Errorf("ParseViewParams() sort = %v, want %v", params.Sort, tt.wantSort)
			}
		})
	}
}

func TestDecodeJSON(t *testing.T) {
	newReq := func(body string) *http.Request {
		return httptest.NewRequest(http.MethodPost, "/bills", strings.NewReader(body))
	}

	t.Run("valid payload", func(t *testing.T) {
		var p billCreatePayload
		err := DecodeJSON(newReq(`{"category":"Energy","amount":{"value":1.5,"currency":"EUR"}}`), &p)
		if err != nil {
			t.Fatalf("DecodeJSON() error = %v", err)
		}
		if p.Category != "Energy" || p.Amount == nil || p.Amount.Value.String() != "1.5" {
			t.Errorf("unexpected payload %+v", p)
		}
	})

	t.Run("empty body", func(t *testing.T) {
		var p billCreatePayload
		if err := DecodeJSON(newReq(""), &p); err == nil {
			t.Errorf("DecodeJSON() should reject an empty body")
		}
	})

	t.Run("unknown field", func(t *testing.T) {
		var p billCreatePayload
		if err := DecodeJSON(newReq(`{"category":"Energy","extra":true}`), &p); err == nil {
			t.Errorf("DecodeJSON() should reject unknown fields")
		}
	})

	t.Run("malformed", func(t *testing.T) {
		var p billCreatePayload
		if err := DecodeJSON(newReq(`{"category":`), &p); err == nil {
			t.Errorf("DecodeJSON() should reject malformed JSON")
		}
	})
}

func TestSanitizeInput(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"  Energia elettrica  ", "Energia elettrica"},
		{"bad\x00chars\x1f", "badchars"},
		{"keeps\ttabs and\nnewlines", "keeps\ttabs and\nnewlines"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := sanitizeInput(tt.in); got != tt.want {
			t.Errorf("sanitizeInput(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
