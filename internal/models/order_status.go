package models

import "time"

// OrderStatus is the fulfilment stage of an order.
type OrderStatus string

const (
	StatusPending   OrderStatus = "pending"
	StatusConfirmed OrderStatus = "confirmed"
	StatusPreparing OrderStatus = "preparing"
	StatusReady     OrderStatus = "ready"
	StatusCompleted OrderStatus = "completed"
	StatusCancelled OrderStatus = "cancelled"
)

// AllStatuses lists every status in pipeline order.
var AllStatuses = []OrderStatus{
	StatusPending,
	StatusConfirmed,
	StatusPreparing,
	StatusReady,
	StatusCompleted,
	StatusCancelled,
}

// Valid reports whether s is a recognised status.
func (s OrderStatus) Valid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusPreparing, StatusReady, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// Terminal reports whether no transition may leave s.
func (s OrderStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// StatusTimestamps records when each status was entered. A nil slot means the
// status was never reached.
type StatusTimestamps struct {
	Pending   *time.Time `json:"pending,omitempty"`
	Confirmed *time.Time `json:"confirmed,omitempty"`
	Preparing *time.Time `json:"preparing,omitempty"`
	Ready     *time.Time `json:"ready,omitempty"`
	Completed *time.Time `json:"completed,omitempty"`
	Cancelled *time.Time `json:"cancelled,omitempty"`
}

func (t *StatusTimestamps) slot(s OrderStatus) **time.Time {
	switch s {
	case StatusPending:
		return &t.Pending
	case StatusConfirmed:
		return &t.Confirmed
	case StatusPreparing:
		return &t.Preparing
	case StatusReady:
		return &t.Ready
	case StatusCompleted:
		return &t.Completed
	case StatusCancelled:
		return &t.Cancelled
	}
	return nil
}

// At returns the instant s was entered.
func (t StatusTimestamps) At(s OrderStatus) (time.Time, bool) {
	p := t.slot(s)
	if p == nil || *p == nil {
		return time.Time{}, false
	}
	return **p, true
}

// Record stores the entry instant for s. It returns false when s is unknown or
// already recorded; an existing entry is never overwritten.
func (t *StatusTimestamps) Record(s OrderStatus, at time.Time) bool {
	p := t.slot(s)
	if p == nil || *p != nil {
		return false
	}
	*p = &at
	return true
}

func (t StatusTimestamps) clone() StatusTimestamps {
	var out StatusTimestamps
	for _, s := range AllStatuses {
		if at, ok := t.At(s); ok {
			out.Record(s, at)
		}
	}
	return out
}
