package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestJSONResponseBuilder(t *testing.T) {
	t.Run("body and status", func(t *testing.T) {
		rr := httptest.NewRecorder()
		NewJSONResponse().
			Status(http.StatusCreated).
			Body(map[string]string{"hello": "world"}).
			Write(rr)

		if rr.Code != http.StatusCreated {
			t.Errorf("status = %d, want 201", rr.Code)
		}
		if ct := rr.Header().Get("Content-Type"); ct != "application/json; charset=utf-8" {
			t.Errorf("content type = %q", ct)
		}
		var body map[string]string
		if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		if body["hello"] != "world" {
			t.Errorf("body = %+v", body)
		}
	})

	t.Run("custom header", func(t *testing.T) {
		rr := httptest.NewRecorder()
		NewJSONResponse().Header("Retry-After", "60").Write(rr)
		if rr.Header().Get("Retry-After") != "60" {
			t.Errorf("missing custom header")
		}
	})

	t.Run("empty body omits content type", func(t *testing.T) {
		rr := httptest.NewRecorder()
		NewJSONResponse().Status(http.StatusNoContent).Write(rr)
		if rr.Code != http.StatusNoContent {
			t.Errorf("status = %d, want 204", rr.Code)
		}
		if rr.Body.Len() != 0 {
			t.Errorf("expected empty body, got %s", rr.Body.String())
		}
	})
}

func TestErrorResponses(t *testing.T) {
	tests := []struct {
		name       string
		builder    *JSONResponseBuilder
		wantStatus int
	}{
		{"bad request", BadRequestError("nope"), http.StatusBadRequest},
		{"unprocessable", UnprocessableEntityError("nope"), http.StatusUnprocessableEntity},
		{"not found", NotFoundError("nope"), http.StatusNotFound},
		{"bad gateway", BadGatewayError("nope"), http.StatusBadGateway},
		{"internal", InternalServerError("nope"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			tt.builder.Write(rr)
			if rr.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rr.Code, tt.wantStatus)
			}
			var body errorBody
			if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
				t.Fatalf("decode body: %v", err)
			}
			if body.Error != "nope" {
				t.Errorf("error message = %q", body.Error)
			}
		})
	}
}

func TestMethodNotAllowedError(t *testing.T) {
	rr := httptest.NewRecorder()
	MethodNotAllowedError("GET, POST").Write(rr)
	if rr.Code != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want 405", rr.Code)
	}
	if rr.Header().Get("Allow") != "GET, POST" {
		t.Errorf("Allow header = %q", rr.Header().Get("Allow"))
	}
}
