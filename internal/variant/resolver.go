// Package variant resolves the effective price and article identity for a
// selected product variant.
package variant

import (
	"time"

	"github.com/benschg/klara-shop/internal/catalog"
)

// Resolver tracks one option selection per axis for an article and resolves
// the matching variant and effective price. Not safe for concurrent use; a
// resolver belongs to a single selection flow.
type Resolver struct {
	article  catalog.Article
	variants []catalog.Variant
	selected map[string]string // option axis name -> selected value
}

func NewResolver(article catalog.Article, variants []catalog.Variant) *Resolver {
	return &Resolver{
		article:  article,
		variants: variants,
		selected: make(map[string]string),
	}
}

// DataUnavailable reports whether the article claims variants but supplies
// no usable variant data. Such articles have no meaningful non-variant price
// and must stay blocked from the cart.
func (r *Resolver) DataUnavailable() bool {
	return r.article.HasVariant && (len(r.article.Options) == 0 || len(r.variants) == 0)
}

// AvailableValues returns, per option axis, the declared values that actually
// occur in at least one variant, preserving the declared order. Variants
// whose value tuple does not align with the axis count are ignored.
func (r *Resolver) AvailableValues() map[string][]string {
	occurring := make(map[string]map[string]bool)
	for _, opt := range r.article.Options {
		occurring[opt.Name] = make(map[string]bool)
	}

	for _, v := range r.variants {
		if len(v.VariantOptionValues) != len(r.article.Options) {
			continue
		}
		for i, opt := range r.article.Options {
			if value := v.VariantOptionValues[i]; value != "" {
				occurring[opt.Name][value] = true
			}
		}
	}

	available := make(map[string][]string, len(r.article.Options))
	for _, opt := range r.article.Options {
		values := make([]string, 0, len(opt.Values))
		for _, value := range opt.Values {
			if occurring[opt.Name][value] {
				values = append(values, value)
			}
		}
		available[opt.Name] = values
	}
	return available
}

// Select records the chosen value for an option axis. An empty value clears
// the axis. Unknown axis names are ignored.
func (r *Resolver) Select(option, value string) {
	for _, opt := range r.article.Options {
		if opt.Name != option {
			continue
		}
		if value == "" {
			delete(r.selected, option)
		} else {
			r.selected[option] = value
		}
		return
	}
}

// Selected returns the current selection for an axis.
func (r *Resolver) Selected(option string) (string, bool) {
	value, ok := r.selected[option]
	return value, ok
}

// SelectedVariant returns the single variant whose option value tuple equals
// the current selection element-for-element. It requires every axis to have
// a selection.
func (r *Resolver) SelectedVariant() (*catalog.Variant, bool) {
	if len(r.article.Options) == 0 {
		return nil, false
	}
	for _, opt := range r.article.Options {
		if _, ok := r.selected[opt.Name]; !ok {
			return nil, false
		}
	}

	for i := range r.variants {
		v := &r.variants[i]
		if len(v.VariantOptionValues) != len(r.article.Options) {
			continue
		}
		match := true
		for j, opt := range r.article.Options {
			if v.VariantOptionValues[j] != r.selected[opt.Name] {
				match = false
				break
			}
		}
		if match {
			return v, true
		}
	}
	return nil, false
}

// EffectivePrice returns the price to charge: the matched variant's price
// when a full selection resolves, otherwise the article's base price valid
// at now. No price is exposed when variant data is unavailable.
func (r *Resolver) EffectivePrice(now time.Time) (float64, bool) {
	if r.DataUnavailable() {
		return 0, false
	}
	if v, ok := r.SelectedVariant(); ok {
		return v.FirstPrice()
	}
	return r.article.CurrentPrice(now)
}

// CanAddToCart reports whether the article may currently be added to the
// cart: a priced non-variant article, or a variant article with a full
// selection resolving to exactly one priced variant.
func (r *Resolver) CanAddToCart(now time.Time) bool {
	if r.DataUnavailable() {
		return false
	}
	if r.article.HasVariant {
		if _, ok := r.SelectedVariant(); !ok {
			return false
		}
	}
	_, ok := r.EffectivePrice(now)
	return ok
}
