package catalog

import "time"

// Article mirrors the catalog API article resource. Field names follow the
// upstream JSON contract (camelCase, German-first localized names).
type Article struct {
	ID             string          `json:"id,omitempty"`
	NameDE         string          `json:"nameDE"`
	NameEN         string          `json:"nameEN,omitempty"`
	DescriptionDE  string          `json:"descriptionDE,omitempty"`
	DescriptionEN  string          `json:"descriptionEN,omitempty"`
	UnitDE         string          `json:"unitDE,omitempty"`
	Barcode        string          `json:"barcode,omitempty"`
	PricePeriods   []PricePeriod   `json:"pricePeriods,omitempty"`
	ImageHrefs     []string        `json:"imageHrefs,omitempty"`
	IsArticleSet   bool            `json:"isArticleSet,omitempty"`
	ArticleNumber  string          `json:"articleNumber"`
	HasVariant     bool            `json:"hasVariant,omitempty"`
	ProductType    *ProductType    `json:"productType,omitempty"`
	AccountingTags []string        `json:"accountingTags"`
	Options        []ArticleOption `json:"options,omitempty"`
}

// PricePeriod is a price valid during a date window. Unset bounds are
// open-ended.
type PricePeriod struct {
	ValidFrom string  `json:"validFrom,omitempty"`
	ValidTo   string  `json:"validTo,omitempty"`
	Price     float64 `json:"price,omitempty"`
	Currency  string  `json:"currency,omitempty"`
}

type ProductType struct {
	ID   string `json:"id,omitempty"`
	Name string `json:"name,omitempty"`
}

// ArticleOption declares one option axis (e.g. "Size") with its values.
type ArticleOption struct {
	Name   string   `json:"name"`
	Values []string `json:"values"`
}

// Variant is a concrete sellable configuration of an article. Its
// VariantOptionValues tuple is aligned positionally with the article's
// declared option axes.
type Variant struct {
	ID                  string        `json:"id,omitempty"`
	Number              string        `json:"number,omitempty"`
	Barcode             string        `json:"barcode,omitempty"`
	NameDE              string        `json:"nameDE,omitempty"`
	NameEN              string        `json:"nameEN,omitempty"`
	Active              bool          `json:"active,omitempty"`
	PricePeriods        []PricePeriod `json:"pricePeriods,omitempty"`
	VariantOptionValues []string      `json:"variantOptionValues,omitempty"`
	ImageHrefs          []string      `json:"imageHrefs,omitempty"`
}

type ArticleCategory struct {
	ID     string `json:"id,omitempty"`
	Href   string `json:"href,omitempty"`
	Name   string `json:"name,omitempty"`
	NameDE string `json:"nameDE,omitempty"`
	NameEN string `json:"nameEN,omitempty"`
	Order  int    `json:"order,omitempty"`
}

// periodLayouts are the date formats the catalog API uses for price period
// bounds.
var periodLayouts = []string{time.RFC3339, "2006-01-02"}

func parsePeriodDate(s string) (time.Time, bool) {
	for _, layout := range periodLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// Contains reports whether now falls inside the period's validity window.
func (p PricePeriod) Contains(now time.Time) bool {
	if p.ValidFrom == "" && p.ValidTo == "" {
		return true
	}
	if p.ValidFrom != "" {
		if from, ok := parsePeriodDate(p.ValidFrom); ok && now.Before(from) {
			return false
		}
	}
	if p.ValidTo != "" {
		if to, ok := parsePeriodDate(p.ValidTo); ok && now.After(to) {
			return false
		}
	}
	return true
}

// CurrentPrice returns the price of the first period whose window contains
// now. A zero price counts as no price.
func CurrentPrice(periods []PricePeriod, now time.Time) (float64, bool) {
	for _, p := range periods {
		if p.Contains(now) {
			if p.Price == 0 {
				return 0, false
			}
			return p.Price, true
		}
	}
	return 0, false
}

// CurrentPrice returns the article's base price valid at now.
func (a Article) CurrentPrice(now time.Time) (float64, bool) {
	return CurrentPrice(a.PricePeriods, now)
}

// DisplayName prefers the English name, falling back to German.
func (a Article) DisplayName() string {
	if a.NameEN != "" {
		return a.NameEN
	}
	return a.NameDE
}

// FirstPrice returns the variant's first price period price. Variant prices
// are not date-windowed upstream, so the first period wins.
func (v Variant) FirstPrice() (float64, bool) {
	if len(v.PricePeriods) == 0 {
		return 0, false
	}
	price := v.PricePeriods[0].Price
	if price == 0 {
		return 0, false
	}
	return price, true
}
