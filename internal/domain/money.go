package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// MoneyPlaces is the number of decimal places every monetary figure is rounded to
const MoneyPlaces = 2

// TimestampLayout is the ISO-8601 layout used for every timestamp exposed to callers.
// Timestamps are always UTC and carry no offset suffix.
const TimestampLayout = "2006-01-02T15:04:05.000000"

var hundred = decimal.NewFromInt(100)

// RoundMoney rounds an amount to 2 decimal places, half away from zero
func RoundMoney(amount decimal.Decimal) decimal.Decimal {
	return amount.Round(MoneyPlaces)
}

// FormatTimestamp renders t in UTC using TimestampLayout
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}
