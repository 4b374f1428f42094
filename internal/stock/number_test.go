package stock

import (
	"testing"
	"time"

	"github.com/stockyardhq/stockyard-backend/pkg/enums"
)

func TestTransactionNumberFormat(t *testing.T) {
	at := time.Date(2025, time.January, 15, 12, 0, 0, 0, time.UTC)

	cases := []struct {
		txType enums.TransactionType
		seq    int64
		want   string
	}{
		{enums.TransactionTypeStockIn, 1, "SI-2501-0001"},
		{enums.TransactionTypeStockIn, 2, "SI-2501-0002"},
		{enums.TransactionTypeStockOut, 17, "SO-2501-0017"},
		{enums.TransactionTypeAdjustment, 999, "ADJ-2501-0999"},
		{enums.TransactionTypeReturn, 1000, "RET-2501-1000"},
		{enums.TransactionTypeDamaged, 3, "DMG-2501-0003"},
	}

	for _, tc := range cases {
		if got := TransactionNumber(tc.txType, at, tc.seq); got != tc.want {
			t.Errorf("TransactionNumber(%s, %d) = %s, want %s", tc.txType, tc.seq, got, tc.want)
		}
	}
}

func TestMonthBounds(t *testing.T) {
	at := time.Date(2025, time.December, 31, 23, 59, 59, 0, time.UTC)
	start, end := monthBounds(at)

	if start != time.Date(2025, time.December, 1, 0, 0, 0, 0, time.UTC) {
		t.Fatalf("unexpected month start %s", start)
	}
	if end != time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC) {
		t.Fatalf("unexpected month end %s", end)
	}
}
