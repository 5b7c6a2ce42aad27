package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	sonic "github.com/bytedance/sonic"
	"github.com/go-playground/validator/v10"
	"github.com/riskibarqy/fpl-team-builder/internal/usecase"
)

func TestWriteSuccess_GoogleEnvelope(t *testing.T) {
	rec := httptest.NewRecorder()
	writeSuccess(context.Background(), rec, http.StatusOK, map[string]string{"status": "ok"})

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}

	var body map[string]any
	if err := sonic.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal response body: %v", err)
	}

	if got, _ := body["apiVersion"].(string); got != "2.0" {
		t.Fatalf("expected apiVersion=2.0, got %v", body["apiVersion"])
	}
	if _, ok := body["data"]; !ok {
		t.Fatalf("expected data key in success response")
	}
	if _, ok := body["error"]; ok {
		t.Fatalf("did not expect error key in success response")
	}
}

func TestWriteError_GoogleEnvelope(t *testing.T) {
	rec := httptest.NewRecorder()
	writeError(context.Background(), rec, fmt.Errorf("%w: bad payload", usecase.ErrInvalidInput))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rec.Code)
	}

	var body map[string]any
	if err := sonic.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal response body: %v", err)
	}

	if got, _ := body["apiVersion"].(string); got != "2.0" {
		t.Fatalf("expected apiVersion=2.0, got %v", body["apiVersion"])
	}
	errorObj, ok := body["error"].(map[string]any)
	if !ok {
		t.Fatalf("expected error object in response")
	}
	if got, _ := errorObj["status"].(string); got != "INVALID_ARGUMENT" {
		t.Fatalf("expected error status INVALID_ARGUMENT, got %v", errorObj["status"])
	}
}

func TestMapError(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		reason string
	}{
		{name: "invalid input", err: fmt.Errorf("%w: x", usecase.ErrInvalidInput), status: http.StatusBadRequest, reason: "invalidInput"},
		{name: "not found", err: fmt.Errorf("%w: x", usecase.ErrNotFound), status: http.StatusNotFound, reason: "notFound"},
		{name: "conflict", err: fmt.Errorf("%w: x", usecase.ErrConflict), status: http.StatusConflict, reason: "conflict"},
		{name: "dependency", err: fmt.Errorf("%w: upstream: %w", usecase.ErrDependencyUnavailable, context.DeadlineExceeded), status: http.StatusServiceUnavailable, reason: "dependencyUnavailable"},
		{name: "deadline", err: fmt.Errorf("list players: %w", context.DeadlineExceeded), status: http.StatusGatewayTimeout, reason: "deadlineExceeded"},
		{name: "unknown", err: fmt.Errorf("boom"), status: http.StatusInternalServerError, reason: "internalError"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := mapError(context.Background(), tt.err)
			if got.HTTPStatus != tt.status || got.Reason != tt.reason {
				t.Fatalf("mapError()=%+v want status=%d reason=%s", got, tt.status, tt.reason)
			}
		})
	}
}

func TestWriteError_MasksInternalErrors(t *testing.T) {
	rec := httptest.NewRecorder()
	writeError(context.Background(), rec, fmt.Errorf("scan row: pq: connection reset"))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected status 500, got %d", rec.Code)
	}
	if strings.Contains(rec.Body.String(), "pq:") {
		t.Fatalf("internal error detail leaked: %s", rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), internalErrorMessage) {
		t.Fatalf("expected generic message, got %s", rec.Body.String())
	}
}

func TestWriteError_DependencyUnavailableSetsRetryAfter(t *testing.T) {
	rec := httptest.NewRecorder()
	writeError(context.Background(), rec, fmt.Errorf("%w: fpl circuit open", usecase.ErrDependencyUnavailable))

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected status 503, got %d", rec.Code)
	}
	if got := rec.Header().Get("Retry-After"); got != "30" {
		t.Fatalf("unexpected Retry-After: %q", got)
	}
}

func TestWriteError_FieldErrors(t *testing.T) {
	type payload struct {
		Name   string  `json:"name" validate:"required"`
		Budget float64 `json:"budget" validate:"gt=0"`
	}
	verr := validator.New().Struct(payload{})
	if verr == nil {
		t.Fatalf("expected validation error")
	}

	rec := httptest.NewRecorder()
	writeError(context.Background(), rec, fmt.Errorf("%w: validation failed: %w", usecase.ErrInvalidInput, verr))

	var body struct {
		Error struct {
			Errors []googleErrorItem `json:"errors"`
		} `json:"error"`
	}
	if err := sonic.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal response body: %v", err)
	}
	if len(body.Error.Errors) != 2 {
		t.Fatalf("expected one item per field, got %+v", body.Error.Errors)
	}
	if body.Error.Errors[0].Location != "payload.Name" || body.Error.Errors[0].LocationType != "body" {
		t.Fatalf("unexpected first item: %+v", body.Error.Errors[0])
	}
	if body.Error.Errors[1].Message != `failed "gt" check with 0` {
		t.Fatalf("unexpected second item message: %q", body.Error.Errors[1].Message)
	}
}
