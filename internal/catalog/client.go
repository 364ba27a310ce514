package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// Client consumes the catalog API, either directly (with an API key) or
// through the proxy (which injects the key itself).
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// ArticlesParams are the supported article listing filters.
type ArticlesParams struct {
	Limit            int
	Offset           int
	ProductTypeID    string
	SellInOnlineShop *bool
}

// Articles lists catalog articles.
func (c *Client) Articles(ctx context.Context, params ArticlesParams) ([]Article, error) {
	query := url.Values{}
	if params.Limit > 0 {
		query.Set("limit", strconv.Itoa(params.Limit))
	}
	if params.Offset > 0 {
		query.Set("offset", strconv.Itoa(params.Offset))
	}
	if params.ProductTypeID != "" {
		query.Set("product-type", params.ProductTypeID)
	}
	if params.SellInOnlineShop != nil {
		query.Set("sell-in-online-shop", strconv.FormatBool(*params.SellInOnlineShop))
	}

	var articles []Article
	if err := c.get(ctx, "/core/latest/articles", query, &articles); err != nil {
		return nil, fmt.Errorf("failed to fetch articles: %w", err)
	}
	return articles, nil
}

// ArticleVariants lists the concrete variants of an article.
func (c *Client) ArticleVariants(ctx context.Context, articleID string) ([]Variant, error) {
	var variants []Variant
	path := "/core/latest/articles/" + url.PathEscape(articleID) + "/variants"
	if err := c.get(ctx, path, nil, &variants); err != nil {
		return nil, fmt.Errorf("failed to fetch variants for article %s: %w", articleID, err)
	}
	return variants, nil
}

// ArticleCategories lists the active article categories.
func (c *Client) ArticleCategories(ctx context.Context) ([]ArticleCategory, error) {
	query := url.Values{}
	query.Set("active-status", "true")

	var categories []ArticleCategory
	if err := c.get(ctx, "/core/latest/article-categories", query, &categories); err != nil {
		return nil, fmt.Errorf("failed to fetch article categories: %w", err)
	}
	return categories, nil
}

func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("X-API-Key", c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	return json.NewDecoder(resp.Body).Decode(out)
}
