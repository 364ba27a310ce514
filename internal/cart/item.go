package cart

// SelectedVariant identifies the concrete variant a cart line was added with.
type SelectedVariant struct {
	VariantID     string   `json:"variant_id"`
	VariantNumber string   `json:"variant_number,omitempty"`
	VariantName   string   `json:"variant_name,omitempty"`
	OptionValues  []string `json:"option_values,omitempty"`
}

// Item is one distinct cart line.
type Item struct {
	CartItemID      string           `json:"cart_item_id"`
	ArticleID       string           `json:"article_id"`
	ArticleNumber   string           `json:"article_number"`
	Name            string           `json:"name"`
	UnitPrice       float64          `json:"unit_price"`
	Quantity        int              `json:"quantity"`
	ImageURL        string           `json:"image_url,omitempty"`
	CustomText      string           `json:"custom_text,omitempty"`
	AccountingTags  []string         `json:"accounting_tags,omitempty"`
	SelectedVariant *SelectedVariant `json:"selected_variant,omitempty"`
}

// lineKey builds the deterministic identity key that decides whether two adds
// merge into the same line: same article, same variant (or none), same custom
// text (or none).
func lineKey(articleID string, variant *SelectedVariant, customText string) string {
	key := articleID
	if variant != nil && variant.VariantID != "" {
		key += "#variant:" + variant.VariantID
	}
	if customText != "" {
		key += "#text:" + customText
	}
	return key
}

// LineKey returns the item's identity key.
func (i Item) LineKey() string {
	return lineKey(i.ArticleID, i.SelectedVariant, i.CustomText)
}
