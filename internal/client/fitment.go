package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	log "github.com/sirupsen/logrus"
	"go.uber.org/ratelimit"
	"resty.dev/v3"

	"ymm/catalog/internal/config"
	"ymm/catalog/internal/domain"
	"ymm/catalog/internal/proxy"
)

// KeySource resolves the fitment API key for the shop carried by ctx
type KeySource interface {
	FitmentKey(ctx context.Context) (string, error)
}

// PartsPage is one page of fitment records. Last is set when the page signals exhaustion.
type PartsPage struct {
	Page    int
	Records []domain.FitmentRecord
	Last    bool
}

// PageHandler receives pages in order. Returning an error stops the fetch loop.
type PageHandler func(page *PartsPage) error

type FitmentClient interface {
	FetchPartsPage(ctx context.Context, q domain.PartsQuery, page int) (*PartsPage, error)
	// FetchParts requests pages one at a time until a short or empty page, an error, or handler failure
	FetchParts(ctx context.Context, q domain.PartsQuery, handler PageHandler) error
	Facets(ctx context.Context, stage domain.VehicleStage, sel domain.VehicleSelection) ([]FacetCount, error)
	ResolveBaseVehicle(ctx context.Context, year, makeID, modelID int) (*domain.BaseVehicle, error)
}

type fitmentClient struct {
	rl            ratelimit.Limiter
	baseURL       string
	apiKey        string
	perPage       int
	facetPerPage  int
	httpClient    *resty.Client
	keys          KeySource
	proxySupplier proxy.ProxySupplier
}

func NewFitmentClient(cfg config.FitmentConfig, keys KeySource, proxySupplier proxy.ProxySupplier) FitmentClient {
	timeout := time.Duration(cfg.Timeout) * time.Second
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	client := resty.New().
		SetTimeout(timeout).
		SetRetryCount(0).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")

	if proxySupplier != nil {
		if proxyURL := proxySupplier.Get(); proxyURL != "" {
			client.SetProxy(proxyURL)
			log.Infof("🔗 Fitment client using proxy: %s", proxyURL)
		}
	}

	rl := ratelimit.NewUnlimited()
	if cfg.MaxRequestsPerSecond > 0 {
		rl = ratelimit.New(cfg.MaxRequestsPerSecond)
	}

	perPage := cfg.PerPage
	if perPage <= 0 {
		perPage = 100
	}
	facetPerPage := cfg.FacetPerPage
	if facetPerPage <= 0 {
		facetPerPage = 1000
	}

	return &fitmentClient{
		rl:            rl,
		baseURL:       cfg.BaseURL,
		apiKey:        cfg.APIKey,
		perPage:       perPage,
		facetPerPage:  facetPerPage,
		httpClient:    client,
		keys:          keys,
		proxySupplier: proxySupplier,
	}
}

func (c *fitmentClient) FetchPartsPage(ctx context.Context, q domain.PartsQuery, page int) (*PartsPage, error) {
	body := searchRequest{
		GetAutoCareSearchResults: searchParams{
			BaseVehicleID:       q.BaseVehicleID,
			BaseVehicleRegionID: q.RegionID,
			PartTypeIDs:         q.PartTypeIDs,
			IncludeParts:        true,
			IncludePartFitments: true,
			PerPage:             c.perPage,
			Page:                page,
		},
	}

	raw, err := c.post(ctx, page, body)
	if err != nil {
		return nil, err
	}

	var resp searchResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, &domain.FetchFailure{Page: page, Err: fmt.Errorf("failed to decode parts response: %w", err)}
	}

	records := make([]domain.FitmentRecord, 0, len(resp.Parts))
	for _, p := range resp.Parts {
		records = append(records, p.record())
	}

	log.Debugf("Fetched parts page %d with %d records for base vehicle %d", page, len(records), q.BaseVehicleID)

	return &PartsPage{
		Page:    page,
		Records: records,
		Last:    len(records) < c.perPage,
	}, nil
}

func (c *fitmentClient) FetchParts(ctx context.Context, q domain.PartsQuery, handler PageHandler) error {
	for page := 1; ; page++ {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("parts fetch cancelled before page %d: %w", page, err)
		}

		result, err := c.FetchPartsPage(ctx, q, page)
		if err != nil {
			return err
		}

		if err := handler(result); err != nil {
			return err
		}

		if result.Last {
			return nil
		}
	}
}

func (c *fitmentClient) Facets(ctx context.Context, stage domain.VehicleStage, sel domain.VehicleSelection) ([]FacetCount, error) {
	facet := stage.FacetName()
	body := vehicleParams(facet, filterFor(stage, sel), c.facetPerPage)

	raw, err := c.post(ctx, 1, body)
	if err != nil {
		return nil, err
	}

	return decodeFacet(raw, facet)
}

func (c *fitmentClient) ResolveBaseVehicle(ctx context.Context, year, makeID, modelID int) (*domain.BaseVehicle, error) {
	const facet = "baseVehicleFacets"

	body := vehicleParams(facet, vehicleFilter{
		Years:    []int{year},
		MakeIDs:  []int{makeID},
		ModelIDs: []int{modelID},
	}, c.facetPerPage)

	raw, err := c.post(ctx, 1, body)
	if err != nil {
		return nil, err
	}

	counts, err := decodeFacet(raw, facet)
	if err != nil {
		return nil, err
	}

	if len(counts) == 0 || counts[0].BaseVehicleID == 0 {
		return nil, domain.NewNoMatchError("vehicle.resolve",
			fmt.Sprintf("no such vehicle: %d make %d model %d", year, makeID, modelID), domain.ErrNoSuchVehicle)
	}

	return &domain.BaseVehicle{
		ID:      counts[0].BaseVehicleID,
		Year:    year,
		MakeID:  makeID,
		ModelID: modelID,
	}, nil
}

func decodeFacet(raw []byte, facet string) ([]FacetCount, error) {
	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return nil, domain.NewRemoteCallError("fitment.facets", "failed to decode vehicle facets", err)
	}

	data, ok := envelope[facet]
	if !ok || string(data) == "null" {
		return []FacetCount{}, nil
	}

	var resp facetResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, domain.NewRemoteCallError("fitment.facets", "failed to decode vehicle facets", err)
	}
	if resp.Counts == nil {
		resp.Counts = []FacetCount{}
	}

	return resp.Counts, nil
}

func (c *fitmentClient) resolveKey(ctx context.Context) (string, error) {
	if c.keys != nil {
		key, err := c.keys.FitmentKey(ctx)
		if err != nil {
			return "", fmt.Errorf("failed to resolve fitment API key: %w", err)
		}
		if key != "" {
			return key, nil
		}
	}

	if c.apiKey == "" {
		return "", domain.NewConfigurationError("fitment.key", "Fitment API key is not configured", domain.ErrMissingAPIKey)
	}
	return c.apiKey, nil
}

// post sends one request and returns the raw body. No retry happens here: any failure ends the caller's loop.
func (c *fitmentClient) post(ctx context.Context, page int, body any) ([]byte, error) {
	key, err := c.resolveKey(ctx)
	if err != nil {
		return nil, err
	}

	c.rl.Take()

	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetHeader("X-Api-Key", key).
		SetBody(body).
		Post(c.baseURL)
	if err != nil {
		if ctx.Err() != nil {
			return nil, &domain.FetchFailure{Page: page, Err: fmt.Errorf("request cancelled: %w", ctx.Err())}
		}
		return nil, &domain.FetchFailure{Page: page, Err: err}
	}

	if !resp.IsSuccess() {
		if resp.StatusCode() == http.StatusTooManyRequests {
			c.rotateProxy()
		}
		log.Warnf("⚠️ Fitment API returned %s for page %d", resp.Status(), page)
		return nil, &domain.FetchFailure{Page: page, Status: resp.StatusCode()}
	}

	return []byte(resp.String()), nil
}

// rotateProxy moves later requests to the next proxy after the API throttled the current one
func (c *fitmentClient) rotateProxy() {
	if c.proxySupplier == nil {
		return
	}
	if next := c.proxySupplier.Get(); next != "" {
		log.Infof("🔄 Switching fitment client to proxy: %s", next)
		c.httpClient.SetProxy(next)
	}
}
