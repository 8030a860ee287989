package service

import (
	"context"
	"time"

	log "github.com/sirupsen/logrus"

	"ymm/catalog/internal/client"
	"ymm/catalog/internal/domain"
	"ymm/catalog/internal/domain/event"
	"ymm/catalog/internal/queue"
)

// CartService adds matched parts to the storefront cart. Each successful add emits exactly one CartItemAdded.
type CartService struct {
	storefront client.StorefrontClient
	publisher  queue.Publisher
}

func NewCartService(storefront client.StorefrontClient, publisher queue.Publisher) *CartService {
	return &CartService{storefront: storefront, publisher: publisher}
}

func (s *CartService) Add(ctx context.Context, sessionID string, line client.CartLine, cookie string) (*client.CartResult, error) {
	const op = "cart.add"

	if line.VariantID <= 0 {
		return nil, domain.NewValidationError(op, "variantId is required", nil)
	}
	if line.Quantity <= 0 {
		line.Quantity = 1
	}

	result, err := s.storefront.AddToCart(ctx, line, cookie)
	if err != nil {
		return nil, err
	}

	e := &event.CartItemAdded{
		Meta: event.Meta{
			SessionID: sessionID,
			Shop:      domain.ShopFrom(ctx),
			At:        time.Now().UTC(),
		},
		VariantID: line.VariantID,
		Quantity:  line.Quantity,
		ItemCount: result.ItemCount,
	}
	if err := s.publisher.Publish(context.WithoutCancel(ctx), e); err != nil {
		log.Warnf("⚠️ Failed to publish cart event: %v", err)
	}

	log.Infof("🛒 Added variant %d x%d to cart (%d items)", line.VariantID, line.Quantity, result.ItemCount)
	return result, nil
}

// Section returns the refreshed HTML of a theme cart section
func (s *CartService) Section(ctx context.Context, section, cookie string) (string, error) {
	return s.storefront.CartSection(ctx, section, cookie)
}
