package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDerivePaymentStatus(t *testing.T) {
	tests := []struct {
		name  string
		paid  int64
		price int64
		want  string
	}{
		{"nothing paid", 0, 10000, PaymentUnpaid},
		{"one cent paid", 1, 10000, PaymentPartial},
		{"one cent short", 9999, 10000, PaymentPartial},
		{"exact", 10000, 10000, PaymentPaid},
		{"overpaid", 15000, 10000, PaymentPaid},
		{"free service, no payments", 0, 0, PaymentPaid},
		{"free service, tip recorded", 500, 0, PaymentPaid},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DerivePaymentStatus(tt.paid, tt.price))
		})
	}
}
