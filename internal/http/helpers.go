package http

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"bollette/internal/core"
)

// generateRequestID creates a unique request ID for tracing.
func generateRequestID() string {
	bytes := make([]byte, 8)
	if _, err := rand.Read(bytes); err != nil {
		return fmt.Sprintf("req_%d", time.Now().UnixNano())
	}
	return "req_" + hex.EncodeToString(bytes)
}

// formatTotals renders per-status totals with two decimal places, keyed by
// status name. All statuses are present even when zero.
func formatTotals(totals core.Totals) map[string]string {
	out := make(map[string]string, len(totals))
	for status, sum := range totals {
		out[string(status)] = sum.StringFixed(2)
	}
	return out
}

// parseAmountPayload converts the JSON amount shape into a validated domain
// amount.
func parseAmountPayload(p *amountPayload) (core.Amount, error) {
	value, err := core.ParseAmountValue(p.Value.String())
	if err != nil {
		return core.Amount{}, err
	}
	amount := core.NewAmount(value, sanitizeInput(p.Currency))
	if err := amount.Validate(); err != nil {
		return core.Amount{}, err
	}
	return amount, nil
}

// parseAmountValue converts just the numeric part of the amount payload.
func parseAmountValue(p *amountPayload) (decimal.Decimal, error) {
	return core.ParseAmountValue(p.Value.String())
}
