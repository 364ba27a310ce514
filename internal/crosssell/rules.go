package crosssell

// Rules controls when and how many suggestions are shown.
type Rules struct {
	ShowAfterItemsInCart        int  `json:"show_after_items_in_cart"`
	HideIfCategoryAlreadyInCart bool `json:"hide_if_category_already_in_cart"`
	MaxSuggestions              int  `json:"max_suggestions"`
}

// Config is the cross-selling rule table. The keyword heuristics are
// best-effort marketing hints and are kept as literal configuration data
// rather than a formal category model.
type Config struct {
	Rules Rules

	// CartKeywords classifies cart item names into detected categories.
	CartKeywords map[string][]string

	// OwnedKeywords classifies cart item names into suggestible categories,
	// used both to hide suggestions for categories already in the cart and as
	// the name-matching fallback when filtering candidate articles.
	OwnedKeywords map[string][]string

	// Suggestions maps a detected category to its suggested categories.
	Suggestions map[string][]Suggestion
}

// DefaultConfig returns the built-in rule table for the flower shop.
func DefaultConfig() Config {
	return Config{
		Rules: Rules{
			ShowAfterItemsInCart:        1,
			HideIfCategoryAlreadyInCart: true,
			MaxSuggestions:              3,
		},
		CartKeywords: map[string][]string{
			"Schnittblumen": {"schnittblumen"},
			"Blumen":        {"blumen", "strauß", "bouquet"},
			"Rosen":         {"rosen", "rose"},
			"Blumenstrauss": {"blumenstrauß", "blumenstrauss"},
		},
		OwnedKeywords: map[string][]string{
			"Karten":             {"karte", "card"},
			"Pralinen":           {"praline", "schokolade"},
			"Vasen":              {"vase"},
			"Geschenkverpackung": {"geschenkpapier", "verpackung"},
		},
		Suggestions: map[string][]Suggestion{
			"Blumen": {
				{Category: "Vasen", Priority: 1, Message: "Eine passende Vase für deine Blumen?"},
				{Category: "Karten", Priority: 2, Message: "Möchtest du eine Grusskarte dazulegen?"},
				{Category: "Pralinen", Priority: 3, Message: "Pralinen machen jedes Geschenk perfekt."},
			},
			"Schnittblumen": {
				{Category: "Vasen", Priority: 1, Message: "Schnittblumen bleiben in einer Vase länger frisch."},
			},
			"Rosen": {
				{Category: "Pralinen", Priority: 1, Message: "Pralinen passen wunderbar zu Rosen."},
				{Category: "Karten", Priority: 2, Message: "Eine persönliche Karte zu deinen Rosen?"},
			},
			"Blumenstrauss": {
				{Category: "Karten", Priority: 1, Message: "Eine Grusskarte zum Strauss?"},
				{Category: "Geschenkverpackung", Priority: 2, Message: "Soll der Strauss als Geschenk verpackt werden?"},
			},
		},
	}
}
