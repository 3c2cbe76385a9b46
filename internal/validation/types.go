package validation

// CartLine is one client-supplied cart row. Only the item id and quantity are
// accepted; there is deliberately no price or total field in the schema, so a
// tampering client has nothing to tamper with.
type CartLine struct {
	ItemID   string `json:"itemId" validate:"required"`
	Quantity int    `json:"quantity"` // bounds checked by Verify, see InvalidQuantityError
}

// PaymentRequest is the payload for POST /api/payment.
type PaymentRequest struct {
	Items []CartLine `json:"items" validate:"dive"`
}

// VerifiedLine is a cart row after re-pricing against the catalog.
type VerifiedLine struct {
	ItemID    string
	Quantity  int
	UnitPrice int
	Category  string
}

// VerifiedOrder is the trusted result of verification. TotalAmount is always
// recomputed server-side from catalog prices.
type VerifiedOrder struct {
	Lines       []VerifiedLine
	TotalAmount int
}
