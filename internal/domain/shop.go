package domain

import "context"

type shopKey struct{}

// WithShop attaches the shop domain of the current request to ctx
func WithShop(ctx context.Context, shop string) context.Context {
	return context.WithValue(ctx, shopKey{}, shop)
}

// ShopFrom returns the shop stored by WithShop, or ""
func ShopFrom(ctx context.Context) string {
	shop, _ := ctx.Value(shopKey{}).(string)
	return shop
}
