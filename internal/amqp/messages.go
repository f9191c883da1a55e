package amqp

import (
	"encoding/json"
	"time"
)

// BillEventOp identifies which mutation produced a bill event.
type BillEventOp string

const (
	BillCreated BillEventOp = "created"
	BillUpdated BillEventOp = "updated"
	BillDeleted BillEventOp = "deleted"
)

// BillEventMessage is the lightweight change notification published after a
// snapshot save. It carries only the operation and bill ID; consumers fetch
// the current snapshot themselves.
type BillEventMessage struct {
	Op        BillEventOp `json:"op"`
	BillID    string      `json:"bill_id"`
	Timestamp time.Time   `json:"timestamp"`
}

func NewBillEventMessage(op BillEventOp, billID string) *BillEventMessage {
	return &BillEventMessage{
		Op:        op,
		BillID:    billID,
		Timestamp: time.Now(),
	}
}

// ToJSON converts the message to JSON bytes.
func (m *BillEventMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// BillEventMessageFromJSON creates a message from JSON bytes.
func BillEventMessageFromJSON(data []byte) (*BillEventMessage, error) {
	var msg BillEventMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
