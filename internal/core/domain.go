package core

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	StatusPaid    Status = "Paid"
	StatusUnpaid  Status = "Unpaid"
	StatusPending Status = "Pending"
)

// DefaultCurrency is assumed whenever a bill carries no currency code.
const DefaultCurrency = "EUR"

type (
	Status string

	Amount struct {
		Value    decimal.Decimal
		Currency string // 3-letter code
	}

	Bill struct {
		ID            string
		Category      string
		DisplayName   string // optional, shown instead of Category when set
		PaymentMethod string
		Status        Status
		Amount        Amount
	}
)

var (
	ErrInvalidStatus   = errors.New("invalid status")
	ErrInvalidSort     = errors.New("invalid sort order")
	ErrInvalidAmount   = errors.New("invalid amount")
	ErrEmptyCategory   = errors.New("empty category")
	ErrInvalidCurrency = errors.New("invalid currency code")
)

// Statuses lists the enumerated statuses in display order.
func Statuses() []Status {
	return []Status{StatusPaid, StatusUnpaid, StatusPending}
}

// ParseStatus maps a raw status string to the enumerated set.
// An empty string defaults to Pending; any other unknown value is rejected.
func ParseStatus(s string) (Status, error) {
	switch Status(strings.TrimSpace(s)) {
	case "":
		return StatusPending, nil
	case StatusPaid:
		return StatusPaid, nil
	case StatusUnpaid:
		return StatusUnpaid, nil
	case StatusPending:
		return StatusPending, nil
	default:
		return "", ErrInvalidStatus
	}
}

// Valid reports whether the status belongs to the enumerated set.
func (s Status) Valid() bool {
	switch s {
	case StatusPaid, StatusUnpaid, StatusPending:
		return true
	default:
		return false
	}
}

// NewAmount builds an Amount, coercing negative values to zero and
// defaulting the currency to EUR when the code is missing or malformed.
func NewAmount(value decimal.Decimal, currency string) Amount {
	if value.IsNegative() {
		value = decimal.Zero
	}
	currency = strings.ToUpper(strings.TrimSpace(currency))
	if len(currency) != 3 {
		currency = DefaultCurrency
	}
	return Amount{Value: value, Currency: currency}
}

func (a Amount) Validate() error {
	if a.Value.IsNegative() {
		return ErrInvalidAmount
	}
	if len(a.Currency) != 3 {
		return ErrInvalidCurrency
	}
	for _, r := range a.Currency {
		if r < 'A' || r > 'Z' {
			return ErrInvalidCurrency
		}
	}
	return nil
}

// Label returns the name used in views: DisplayName when present,
// otherwise the category.
func (b Bill) Label() string {
	if strings.TrimSpace(b.DisplayName) != "" {
		return b.DisplayName
	}
	return b.Category
}

func (b Bill) Validate() error {
	if strings.TrimSpace(b.Category) == "" {
		return ErrEmptyCategory
	}
	if len(b.Category) > 200 {
		return errors.New("category too long (max 200 characters)")
	}
	if len(b.DisplayName) > 200 {
		return errors.New("display name too long (max 200 characters)")
	}
	if !b.Status.Valid() {
		return ErrInvalidStatus
	}
	return b.Amount.Validate()
}

// NewBillID derives a time-based identifier for bills created without one.
func NewBillID(now time.Time) string {
	return strconv.FormatInt(now.UnixNano(), 10)
}
