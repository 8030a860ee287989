package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ymm/catalog/internal/client"
	"ymm/catalog/internal/domain"
	"ymm/catalog/internal/domain/event"
	"ymm/catalog/internal/queue"
)

func TestCartAddEmitsOneEvent(t *testing.T) {
	storefront := &fakeStorefront{}
	rec := &queue.Recorder{}
	svc := NewCartService(storefront, rec)

	result, err := svc.Add(context.Background(), "sess", client.CartLine{VariantID: 11}, "")
	require.NoError(t, err)

	assert.Equal(t, 1, result.ItemCount)
	assert.Equal(t, []client.CartLine{{VariantID: 11, Quantity: 1}}, storefront.added)

	events := rec.Events()
	require.Len(t, events, 1)
	added := events[0].(*event.CartItemAdded)
	assert.Equal(t, "sess", added.SessionID)
	assert.Equal(t, int64(11), added.VariantID)
	assert.Equal(t, 1, added.ItemCount)
}

func TestCartAddFailure(t *testing.T) {
	storefront := &fakeStorefront{err: domain.NewRemoteCallError("cart.add", "Variant is sold out", nil)}
	rec := &queue.Recorder{}
	svc := NewCartService(storefront, rec)

	_, err := svc.Add(context.Background(), "sess", client.CartLine{VariantID: 11, Quantity: 2}, "")
	assert.Equal(t, "Variant is sold out", err.Error())
	assert.Empty(t, rec.Events(), "failed adds emit nothing")

	_, err = svc.Add(context.Background(), "sess", client.CartLine{}, "")
	assert.Equal(t, domain.KindValidation, domain.KindOf(err))
}
