package variant

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/benschg/klara-shop/internal/catalog"
)

var now = time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

func bouquetArticle() catalog.Article {
	return catalog.Article{
		ID:         "art-1",
		NameDE:     "Blumenstrauss",
		HasVariant: true,
		Options: []catalog.ArticleOption{
			{Name: "Grösse", Values: []string{"S", "M", "L"}},
			{Name: "Farbe", Values: []string{"Rot", "Weiss"}},
		},
	}
}

func bouquetVariants() []catalog.Variant {
	return []catalog.Variant{
		{ID: "v1", VariantOptionValues: []string{"S", "Rot"}, PricePeriods: []catalog.PricePeriod{{Price: 29.90}}},
		{ID: "v2", VariantOptionValues: []string{"M", "Rot"}, PricePeriods: []catalog.PricePeriod{{Price: 39.90}}},
		{ID: "v3", VariantOptionValues: []string{"L", "Weiss"}, PricePeriods: []catalog.PricePeriod{{Price: 49.90}}},
	}
}

// ============================================
// Available Values Tests
// ============================================

func TestResolver_AvailableValues(t *testing.T) {
	r := NewResolver(bouquetArticle(), bouquetVariants())

	available := r.AvailableValues()

	// "M"+"Weiss" and "S"+"Weiss" combinations do not exist, but each value
	// occurs in at least one variant except none here is missing.
	assert.Equal(t, []string{"S", "M", "L"}, available["Grösse"])
	assert.Equal(t, []string{"Rot", "Weiss"}, available["Farbe"])
}

func TestResolver_AvailableValues_DropsUnusedDeclaredValues(t *testing.T) {
	article := bouquetArticle()
	variants := bouquetVariants()[:2] // only S/Rot and M/Rot exist

	available := NewResolver(article, variants).AvailableValues()

	assert.Equal(t, []string{"S", "M"}, available["Grösse"])
	assert.Equal(t, []string{"Rot"}, available["Farbe"])
}

func TestResolver_AvailableValues_IgnoresMisalignedTuples(t *testing.T) {
	article := bouquetArticle()
	variants := []catalog.Variant{
		{ID: "broken", VariantOptionValues: []string{"S"}}, // one value, two axes
		{ID: "v1", VariantOptionValues: []string{"M", "Rot"}},
	}

	available := NewResolver(article, variants).AvailableValues()

	assert.Equal(t, []string{"M"}, available["Grösse"])
	assert.Equal(t, []string{"Rot"}, available["Farbe"])
}

// ============================================
// Selection Tests
// ============================================

func TestResolver_SelectedVariant_RequiresFullSelection(t *testing.T) {
	r := NewResolver(bouquetArticle(), bouquetVariants())

	_, ok := r.SelectedVariant()
	assert.False(t, ok)

	r.Select("Grösse", "M")
	_, ok = r.SelectedVariant()
	assert.False(t, ok, "partial selection must not resolve")

	r.Select("Farbe", "Rot")
	v, ok := r.SelectedVariant()
	require.True(t, ok)
	assert.Equal(t, "v2", v.ID)
}

func TestResolver_SelectedVariant_NoMatchingCombination(t *testing.T) {
	r := NewResolver(bouquetArticle(), bouquetVariants())
	r.Select("Grösse", "S")
	r.Select("Farbe", "Weiss") // combination does not exist

	_, ok := r.SelectedVariant()
	assert.False(t, ok)
}

func TestResolver_Select_ClearAxis(t *testing.T) {
	r := NewResolver(bouquetArticle(), bouquetVariants())
	r.Select("Grösse", "M")
	r.Select("Farbe", "Rot")
	r.Select("Farbe", "")

	_, ok := r.SelectedVariant()
	assert.False(t, ok)

	_, selected := r.Selected("Farbe")
	assert.False(t, selected)
}

func TestResolver_Select_UnknownAxisIgnored(t *testing.T) {
	r := NewResolver(bouquetArticle(), bouquetVariants())
	r.Select("Duft", "Stark")

	_, ok := r.Selected("Duft")
	assert.False(t, ok)
}

// ============================================
// Pricing Tests
// ============================================

func TestResolver_EffectivePrice_VariantPriceWins(t *testing.T) {
	r := NewResolver(bouquetArticle(), bouquetVariants())
	r.Select("Grösse", "L")
	r.Select("Farbe", "Weiss")

	price, ok := r.EffectivePrice(now)
	require.True(t, ok)
	assert.InDelta(t, 49.90, price, 0.001)
}

func TestResolver_EffectivePrice_FallsBackToArticlePrice(t *testing.T) {
	article := catalog.Article{
		ID:           "art-2",
		PricePeriods: []catalog.PricePeriod{{Price: 19.90}},
	}

	r := NewResolver(article, nil)

	price, ok := r.EffectivePrice(now)
	require.True(t, ok)
	assert.InDelta(t, 19.90, price, 0.001)
}

func TestResolver_EffectivePrice_ZeroVariantPriceMeansNoPrice(t *testing.T) {
	article := bouquetArticle()
	variants := []catalog.Variant{
		{ID: "v-free", VariantOptionValues: []string{"S", "Rot"}, PricePeriods: []catalog.PricePeriod{{Price: 0}}},
	}

	r := NewResolver(article, variants)
	r.Select("Grösse", "S")
	r.Select("Farbe", "Rot")

	_, ok := r.EffectivePrice(now)
	assert.False(t, ok)
}

// ============================================
// Add-to-Cart Gate Tests
// ============================================

func TestResolver_CanAddToCart(t *testing.T) {
	r := NewResolver(bouquetArticle(), bouquetVariants())

	assert.False(t, r.CanAddToCart(now), "no selection yet")

	r.Select("Grösse", "M")
	assert.False(t, r.CanAddToCart(now), "partial selection")

	r.Select("Farbe", "Rot")
	assert.True(t, r.CanAddToCart(now))
}

func TestResolver_CanAddToCart_NonVariantArticle(t *testing.T) {
	article := catalog.Article{
		ID:           "art-2",
		PricePeriods: []catalog.PricePeriod{{Price: 19.90}},
	}

	assert.True(t, NewResolver(article, nil).CanAddToCart(now))
}

func TestResolver_DataUnavailable(t *testing.T) {
	tests := []struct {
		name        string
		article     catalog.Article
		variants    []catalog.Variant
		unavailable bool
	}{
		{"variant article without variants", bouquetArticle(), nil, true},
		{"variant article without options", catalog.Article{HasVariant: true}, bouquetVariants(), true},
		{"complete variant data", bouquetArticle(), bouquetVariants(), false},
		{"non-variant article", catalog.Article{}, nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewResolver(tt.article, tt.variants)
			assert.Equal(t, tt.unavailable, r.DataUnavailable())
			if tt.unavailable {
				assert.False(t, r.CanAddToCart(now))
				_, ok := r.EffectivePrice(now)
				assert.False(t, ok)
			}
		})
	}
}
