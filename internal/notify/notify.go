// Package notify derives recurring reminders from birthday records and
// issues them to a notification sink. Scheduling is best-effort by
// contract: a sink failure is reported as a Result and logged, and must
// never block the record mutation that triggered it.
package notify

import (
	"context"
	"time"
)

// Request describes one yearly-repeating reminder handed to the sink.
type Request struct {
	// ID is the stable integer identifier derived from the record id.
	// The sink treats a schedule call with an existing ID as an
	// overwrite, which makes rescheduling idempotent.
	ID           int
	Title        string
	Body         string
	FireAt       time.Time
	RepeatYearly bool
	// RecordID is carried as payload metadata so a delivered
	// notification can be traced back to its record.
	RecordID string
	Channel  string
}

// ChannelConfig describes the delivery channel created once at startup.
type ChannelConfig struct {
	ID          string
	Name        string
	Description string
	Importance  int
	Vibration   bool
}

// Sink is the external notification-delivery capability. Implementations
// must treat Schedule calls with an already-known ID as overwrites.
type Sink interface {
	RequestPermission(ctx context.Context) (bool, error)
	CreateChannel(ctx context.Context, cfg ChannelConfig) error
	Schedule(ctx context.Context, req Request) error
	Cancel(ctx context.Context, id int) error
}

// Result is the recorded outcome of a best-effort scheduling call. A
// failed Result is logged by the scheduler and otherwise swallowed.
type Result struct {
	RecordID       string
	NotificationID int
	OK             bool
	Reason         string
}

// HashID derives the stable positive integer notification id from a
// record id. It is the classic 31-multiplier string hash folded into a
// signed 32-bit integer, then made absolute; the same record id always
// yields the same integer. Distinct record ids can collide, in which
// case one reminder silently overwrites the other.
func HashID(recordID string) int {
	var h int32
	for _, b := range []byte(recordID) {
		h = h<<5 - h + int32(b)
	}
	// Negate in 64-bit space: -MinInt32 does not fit in an int32.
	v := int64(h)
	if v < 0 {
		v = -v
	}
	return int(v)
}
