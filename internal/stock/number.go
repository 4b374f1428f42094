package stock

import (
	"fmt"
	"time"

	"github.com/stockyardhq/stockyard-backend/pkg/enums"
)

// TransactionNumber formats a human-readable transaction number:
// {PREFIX}-{YY}{MM}-{NNNN}, e.g. SI-2501-0001. The sequence restarts
// each month per type.
func TransactionNumber(txType enums.TransactionType, at time.Time, seq int64) string {
	return fmt.Sprintf("%s-%s-%04d", txType.NumberPrefix(), at.Format("0601"), seq)
}

// monthBounds returns the inclusive start and exclusive end of the month
// containing at, in UTC.
func monthBounds(at time.Time) (time.Time, time.Time) {
	at = at.UTC()
	start := time.Date(at.Year(), at.Month(), 1, 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 1, 0)
}
