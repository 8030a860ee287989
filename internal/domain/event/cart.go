package event

type CartItemAdded struct {
	Meta
	VariantID int64 `json:"variant_id"`
	Quantity  int   `json:"quantity"`
	ItemCount int   `json:"item_count"` // Cart size reported by the storefront after the add
}

func (e *CartItemAdded) EventType() string {
	return TypeCartItemAdded
}

func (e *CartItemAdded) EventValue() ([]byte, error) {
	return DefaultEventValue(e)
}
