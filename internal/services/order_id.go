package services

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

const orderIDAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// NewOrderID returns an id of the form ORD-<unix ms>-<4 base36 chars>. The
// suffix keeps ids readable, so uniqueness is enforced by the store.
func NewOrderID(now time.Time) string {
	random := uuid.New()
	var suffix [4]byte
	for i := range suffix {
		suffix[i] = orderIDAlphabet[int(random[i])%len(orderIDAlphabet)]
	}
	return fmt.Sprintf("ORD-%d-%s", now.UnixMilli(), suffix[:])
}
