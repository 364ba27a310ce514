package catalog

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)

// ============================================
// Price Period Tests
// ============================================

func TestPricePeriod_Contains(t *testing.T) {
	tests := []struct {
		name     string
		period   PricePeriod
		contains bool
	}{
		{"no bounds", PricePeriod{}, true},
		{"inside window", PricePeriod{ValidFrom: "2026-01-01", ValidTo: "2026-12-31"}, true},
		{"before window", PricePeriod{ValidFrom: "2026-07-01"}, false},
		{"after window", PricePeriod{ValidTo: "2026-05-01"}, false},
		{"open start", PricePeriod{ValidTo: "2026-12-31"}, true},
		{"open end", PricePeriod{ValidFrom: "2026-01-01"}, true},
		{"rfc3339 bounds", PricePeriod{ValidFrom: "2026-01-01T00:00:00Z", ValidTo: "2026-12-31T23:59:59Z"}, true},
		{"unparseable bound ignored", PricePeriod{ValidFrom: "not a date"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.contains, tt.period.Contains(now))
		})
	}
}

func TestCurrentPrice_FirstContainingPeriodWins(t *testing.T) {
	periods := []PricePeriod{
		{ValidTo: "2026-01-31", Price: 10},
		{ValidFrom: "2026-02-01", Price: 20},
		{Price: 30},
	}

	price, ok := CurrentPrice(periods, now)

	require.True(t, ok)
	assert.Equal(t, 20.0, price)
}

func TestCurrentPrice_ZeroPriceCountsAsNone(t *testing.T) {
	_, ok := CurrentPrice([]PricePeriod{{Price: 0}}, now)
	assert.False(t, ok)
}

func TestCurrentPrice_NoPeriods(t *testing.T) {
	_, ok := CurrentPrice(nil, now)
	assert.False(t, ok)
}

// ============================================
// Article Tests
// ============================================

func TestArticle_DisplayName(t *testing.T) {
	assert.Equal(t, "Rose bouquet", Article{NameDE: "Rosenstrauss", NameEN: "Rose bouquet"}.DisplayName())
	assert.Equal(t, "Rosenstrauss", Article{NameDE: "Rosenstrauss"}.DisplayName())
}

func TestVariant_FirstPrice(t *testing.T) {
	price, ok := Variant{PricePeriods: []PricePeriod{{Price: 12.5}, {Price: 99}}}.FirstPrice()
	require.True(t, ok)
	assert.Equal(t, 12.5, price)

	_, ok = Variant{}.FirstPrice()
	assert.False(t, ok)

	_, ok = Variant{PricePeriods: []PricePeriod{{Price: 0}}}.FirstPrice()
	assert.False(t, ok)
}
