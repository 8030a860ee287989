package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	log "github.com/sirupsen/logrus"
	"resty.dev/v3"

	"ymm/catalog/internal/config"
	"ymm/catalog/internal/domain"
)

// CartLine is one item to add to the storefront cart
type CartLine struct {
	VariantID int64 `json:"id"`
	Quantity  int   `json:"quantity"`
}

// CartResult is the cart state after an add
type CartResult struct {
	ItemCount int
	Cookies   []*http.Cookie // Cart cookies issued by the storefront, passed back to the shopper
}

type StorefrontClient interface {
	// ListProducts fetches a single page of at most product_limit products
	ListProducts(ctx context.Context) ([]domain.StoreProduct, error)
	AddToCart(ctx context.Context, line CartLine, cookie string) (*CartResult, error)
	// CartSection renders a theme section and returns the inner HTML of its content element
	CartSection(ctx context.Context, section, cookie string) (string, error)
}

type storefrontClient struct {
	limit      int
	httpClient *resty.Client
	parser     *sectionParser
}

func NewStorefrontClient(cfg config.StorefrontConfig) StorefrontClient {
	timeout := time.Duration(cfg.Timeout) * time.Second
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	client := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(timeout).
		SetRetryCount(0).
		SetHeader("Accept", "application/json")

	limit := cfg.ProductLimit
	if limit <= 0 {
		limit = 250
	}

	return &storefrontClient{
		limit:      limit,
		httpClient: client,
		parser:     newSectionParser(cfg.Sections),
	}
}

func (c *storefrontClient) ListProducts(ctx context.Context) ([]domain.StoreProduct, error) {
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetQueryParam("limit", strconv.Itoa(c.limit)).
		Get("/products.json")
	if err != nil {
		return nil, domain.NewRemoteCallError("storefront.products", "failed to fetch store products", err)
	}

	if !resp.IsSuccess() {
		return nil, domain.NewRemoteCallError("storefront.products",
			fmt.Sprintf("failed to fetch store products: HTTP %d", resp.StatusCode()), nil)
	}

	var body struct {
		Products []domain.StoreProduct `json:"products"`
	}
	if err := json.Unmarshal([]byte(resp.String()), &body); err != nil {
		return nil, domain.NewRemoteCallError("storefront.products", "failed to decode store products", err)
	}

	log.Debugf("Fetched %d store products", len(body.Products))
	return body.Products, nil
}

func (c *storefrontClient) AddToCart(ctx context.Context, line CartLine, cookie string) (*CartResult, error) {
	const op = "storefront.cart_add"

	if line.VariantID <= 0 || line.Quantity <= 0 {
		return nil, domain.NewValidationError(op, "variant and a positive quantity are required", nil)
	}

	req := c.httpClient.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(map[string]any{"items": []CartLine{line}})
	if cookie != "" {
		req.SetHeader("Cookie", cookie)
	}

	resp, err := req.Post("/cart/add.js")
	if err != nil {
		return nil, domain.NewRemoteCallError(op, "failed to add item to cart", err)
	}

	if !resp.IsSuccess() {
		var failure struct {
			Description string `json:"description"`
		}
		message := fmt.Sprintf("failed to add item to cart: HTTP %d", resp.StatusCode())
		if json.Unmarshal([]byte(resp.String()), &failure) == nil && failure.Description != "" {
			message = failure.Description
		}
		return nil, domain.NewRemoteCallError(op, message, nil)
	}

	result := &CartResult{Cookies: resp.Cookies()}

	// the add response has no totals, so read the cart back
	cartCookie := cookie
	for _, ck := range result.Cookies {
		if ck.Name == "cart" {
			cartCookie = ck.Name + "=" + ck.Value
		}
	}

	count, err := c.itemCount(ctx, cartCookie)
	if err != nil {
		log.Warnf("⚠️ Item added but cart count unavailable: %v", err)
		return result, nil
	}
	result.ItemCount = count

	return result, nil
}

func (c *storefrontClient) itemCount(ctx context.Context, cookie string) (int, error) {
	req := c.httpClient.R().SetContext(ctx)
	if cookie != "" {
		req.SetHeader("Cookie", cookie)
	}

	resp, err := req.Get("/cart.js")
	if err != nil {
		return 0, fmt.Errorf("failed to fetch cart: %w", err)
	}
	if !resp.IsSuccess() {
		return 0, fmt.Errorf("failed to fetch cart: HTTP %d", resp.StatusCode())
	}

	var cart struct {
		ItemCount int `json:"item_count"`
	}
	if err := json.Unmarshal([]byte(resp.String()), &cart); err != nil {
		return 0, fmt.Errorf("failed to decode cart: %w", err)
	}

	return cart.ItemCount, nil
}

func (c *storefrontClient) CartSection(ctx context.Context, section, cookie string) (string, error) {
	const op = "storefront.cart_section"

	if _, ok := c.parser.selector(section); !ok {
		return "", domain.NewValidationError(op, fmt.Sprintf("unknown section %q", section), nil)
	}

	req := c.httpClient.R().
		SetContext(ctx).
		SetHeader("Accept", "text/html").
		SetQueryParam("section_id", section)
	if cookie != "" {
		req.SetHeader("Cookie", cookie)
	}

	resp, err := req.Get("/cart")
	if err != nil {
		return "", domain.NewRemoteCallError(op, "failed to render cart section", err)
	}
	if !resp.IsSuccess() {
		return "", domain.NewRemoteCallError(op, fmt.Sprintf("failed to render cart section: HTTP %d", resp.StatusCode()), nil)
	}

	content, found, err := c.parser.ParseSection(resp.String(), section)
	if err != nil {
		return "", domain.NewRemoteCallError(op, "failed to parse cart section", err)
	}
	if !found {
		return "", domain.NewNoMatchError(op, fmt.Sprintf("section %q has no content", section), nil)
	}

	return content, nil
}
