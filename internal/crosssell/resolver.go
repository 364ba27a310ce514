package crosssell

import (
	"context"
	"log"
	"sort"
	"strings"
	"time"

	"github.com/benschg/klara-shop/internal/catalog"
)

// articlesPerSuggestion caps how many articles are attached to a suggestion.
const articlesPerSuggestion = 5

// Suggestion is a recommended product category based on cart contents.
// Lower priority numbers take precedence.
type Suggestion struct {
	Category string           `json:"category"`
	Priority int              `json:"priority"`
	Message  string           `json:"message"`
	Articles []ArticleSummary `json:"articles,omitempty"`
}

// ArticleSummary is the slim article shape attached to suggestions.
type ArticleSummary struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	Price         float64 `json:"price"`
	ImageURL      string  `json:"image_url,omitempty"`
	ArticleNumber string  `json:"article_number"`
}

// CatalogSource lists catalog articles for suggestion enrichment.
type CatalogSource interface {
	Articles(ctx context.Context, params catalog.ArticlesParams) ([]catalog.Article, error)
}

// Resolver computes cross-sell suggestions from cart item names.
type Resolver struct {
	cfg     Config
	catalog CatalogSource
}

func NewResolver(cfg Config, source CatalogSource) *Resolver {
	return &Resolver{cfg: cfg, catalog: source}
}

// SuggestionsForCart resolves suggestions for the given cart item names and
// attaches up to five matching articles per suggestion. A failed catalog
// query degrades to a suggestion with zero articles.
func (r *Resolver) SuggestionsForCart(ctx context.Context, itemNames []string) []Suggestion {
	if len(itemNames) < r.cfg.Rules.ShowAfterItemsInCart {
		return nil
	}

	detected := classify(itemNames, r.cfg.CartKeywords)

	// Collect candidates, deduplicated by target category. On conflict the
	// lowest priority number wins.
	unique := make(map[string]Suggestion)
	for category := range detected {
		for _, s := range r.cfg.Suggestions[category] {
			existing, ok := unique[s.Category]
			if !ok || s.Priority < existing.Priority {
				unique[s.Category] = s
			}
		}
	}

	owned := classify(itemNames, r.cfg.OwnedKeywords)

	suggestions := make([]Suggestion, 0, len(unique))
	for _, s := range unique {
		if r.cfg.Rules.HideIfCategoryAlreadyInCart && owned[s.Category] {
			continue
		}
		suggestions = append(suggestions, s)
	}

	sort.Slice(suggestions, func(i, j int) bool {
		return suggestions[i].Priority < suggestions[j].Priority
	})
	if max := r.cfg.Rules.MaxSuggestions; max > 0 && len(suggestions) > max {
		suggestions = suggestions[:max]
	}

	for i := range suggestions {
		suggestions[i].Articles = r.articlesForCategory(ctx, suggestions[i].Category)
	}

	return suggestions
}

// articlesForCategory fetches online-shop articles matching a suggested
// category, preferring accounting tag matches over name keywords.
func (r *Resolver) articlesForCategory(ctx context.Context, category string) []ArticleSummary {
	if r.catalog == nil {
		return []ArticleSummary{}
	}

	onlineOnly := true
	articles, err := r.catalog.Articles(ctx, catalog.ArticlesParams{
		Limit:            100,
		SellInOnlineShop: &onlineOnly,
	})
	if err != nil {
		log.Printf("[CrossSell] Failed to fetch articles for category %s: %v", category, err)
		return []ArticleSummary{}
	}

	keywords := r.cfg.OwnedKeywords[category]
	now := time.Now()

	matched := make([]ArticleSummary, 0, articlesPerSuggestion)
	for _, a := range articles {
		if !matchesCategory(a, category, keywords) {
			continue
		}

		price, _ := a.CurrentPrice(now)
		summary := ArticleSummary{
			ID:            a.ID,
			Name:          a.NameDE,
			Price:         price,
			ArticleNumber: a.ArticleNumber,
		}
		if len(a.ImageHrefs) > 0 {
			summary.ImageURL = a.ImageHrefs[0]
		}

		matched = append(matched, summary)
		if len(matched) == articlesPerSuggestion {
			break
		}
	}
	return matched
}

func matchesCategory(a catalog.Article, category string, keywords []string) bool {
	for _, tag := range a.AccountingTags {
		if tag == category {
			return true
		}
	}
	name := strings.ToLower(a.NameDE)
	for _, kw := range keywords {
		if strings.Contains(name, kw) {
			return true
		}
	}
	return false
}

// classify returns the categories whose keywords appear in any item name.
func classify(itemNames []string, table map[string][]string) map[string]bool {
	found := make(map[string]bool)
	for _, name := range itemNames {
		lower := strings.ToLower(name)
		for category, keywords := range table {
			for _, kw := range keywords {
				if strings.Contains(lower, kw) {
					found[category] = true
					break
				}
			}
		}
	}
	return found
}
