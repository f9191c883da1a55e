package snapshot

import (
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"

	"bollette/internal/core"
)

// Record is the plain persisted shape of one bill. Field names match the
// snapshot format stored by earlier versions of the tracker, so the JSON
// tags are frozen.
type Record struct {
	ID            string       `json:"id"`
	Category      string       `json:"category"`
	DisplayName   string       `json:"displayName,omitempty"`
	PaymentMethod string       `json:"paymentMethod"`
	Status        string       `json:"status"`
	Amount        AmountRecord `json:"amount"`
}

// AmountRecord carries the amount as a raw JSON number so no precision is
// lost between the domain decimal and the stored snapshot.
type AmountRecord struct {
	Value    json.Number `json:"value"`
	Currency string      `json:"currency"`
}

// FromBill converts a domain bill to its persisted shape.
func FromBill(b core.Bill) Record {
	return Record{
		ID:            b.ID,
		Category:      b.Category,
		DisplayName:   b.DisplayName,
		PaymentMethod: b.PaymentMethod,
		Status:        string(b.Status),
		Amount: AmountRecord{
			Value:    json.Number(b.Amount.Value.String()),
			Currency: b.Amount.Currency,
		},
	}
}

// Bill rehydrates the persisted record into a domain bill. Rehydration is
// lenient so one damaged field never loses the rest of the record: an
// unknown status collapses to Pending, a bad or negative amount value to
// zero, a missing currency to EUR.
func (r Record) Bill() core.Bill {
	status, err := core.ParseStatus(r.Status)
	if err != nil {
		status = core.StatusPending
	}

	value, err := decimal.NewFromString(r.Amount.Value.String())
	if err != nil {
		value = decimal.Zero
	}

	return core.Bill{
		ID:            r.ID,
		Category:      r.Category,
		DisplayName:   r.DisplayName,
		PaymentMethod: r.PaymentMethod,
		Status:        status,
		Amount:        core.NewAmount(value, r.Amount.Currency),
	}
}

// EncodeRecords serializes the full collection as the snapshot payload.
func EncodeRecords(bills []core.Bill) ([]byte, error) {
	records := make([]Record, 0, len(bills))
	for _, b := range bills {
		records = append(records, FromBill(b))
	}
	data, err := json.Marshal(records)
	if err != nil {
		return nil, fmt.Errorf("encode snapshot: %w", err)
	}
	return data, nil
}

// DecodeRecords deserializes a snapshot payload back into domain bills.
// Nil or empty payloads yield an empty collection.
func DecodeRecords(data []byte) ([]core.Bill, error) {
	if len(data) == 0 {
		return []core.Bill{}, nil
	}
	var records []Record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	bills := make([]core.Bill, 0, len(records))
	for _, r := range records {
		bills = append(bills, r.Bill())
	}
	return bills, nil
}
