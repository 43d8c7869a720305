package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// Tập chuyển trạng thái hợp lệ: Pending -> Approved, Approved -> Shipped,
// Approved -> Pending, Shipped -> Pending. Mọi cặp khác đều bị từ chối.
func TestAllowedTransition(t *testing.T) {
	allowed := [][2]string{
		{RequestStatusPending, RequestStatusApproved},
		{RequestStatusApproved, RequestStatusShipped},
		{RequestStatusApproved, RequestStatusPending},
		{RequestStatusShipped, RequestStatusPending},
	}

	statuses := []string{RequestStatusPending, RequestStatusApproved, RequestStatusShipped}

	isAllowed := func(from, to string) bool {
		for _, pair := range allowed {
			if pair[0] == from && pair[1] == to {
				return true
			}
		}
		return false
	}

	for _, from := range statuses {
		for _, to := range statuses {
			assert.Equal(t, isAllowed(from, to), AllowedTransition(from, to),
				"transition %s -> %s", from, to)
		}
	}
}

func TestAllowedTransitionUnknownStatus(t *testing.T) {
	assert.False(t, AllowedTransition("Cancelled", RequestStatusPending))
	assert.False(t, AllowedTransition(RequestStatusPending, "Cancelled"))
	assert.False(t, AllowedTransition("", ""))
}
