package validation

import (
	"errors"
	"fmt"

	validatorv10 "github.com/go-playground/validator/v10"

	"github.com/jikaseimen-kirinji/order-gateway/internal/catalog"
)

// New returns the validator used for structural request validation. Domain
// rules (quantity bounds, catalog membership) live in Verify so their errors
// carry user-facing messages instead of validator field strings.
func New() *validatorv10.Validate {
	return validatorv10.New()
}

const (
	minQuantity = 1
	maxQuantity = 99
)

// ErrEmptyCart rejects a cart with no lines.
var ErrEmptyCart = errors.New("カートが空です")

// InvalidQuantityError rejects a quantity outside [1,99].
type InvalidQuantityError struct {
	Item     string
	Quantity int
}

func (e *InvalidQuantityError) Error() string {
	return fmt.Sprintf("数量が不正です: %s (quantity=%d)", e.Item, e.Quantity)
}

// UnknownItemError rejects an item id that is not on the menu. The id is
// echoed so the client can tell the user which row is stale.
type UnknownItemError struct {
	Item string
}

func (e *UnknownItemError) Error() string {
	return fmt.Sprintf("メニューにない商品です: %s", e.Item)
}

// Verify re-prices the client cart against the catalog and returns a trusted
// order. Every returned price comes from the catalog; nothing the client sent
// beyond (itemId, quantity) influences the result. Verification stops at the
// first violated rule so the error body carries a single actionable message.
func Verify(lines []CartLine, cat *catalog.Catalog) (*VerifiedOrder, error) {
	if len(lines) == 0 {
		return nil, ErrEmptyCart
	}

	verified := make([]VerifiedLine, 0, len(lines))
	total := 0
	for _, line := range lines {
		if line.Quantity < minQuantity || line.Quantity > maxQuantity {
			return nil, &InvalidQuantityError{Item: line.ItemID, Quantity: line.Quantity}
		}
		price, ok := cat.PriceOf(line.ItemID)
		if !ok {
			return nil, &UnknownItemError{Item: line.ItemID}
		}
		category, _ := cat.CategoryOf(line.ItemID)
		verified = append(verified, VerifiedLine{
			ItemID:    line.ItemID,
			Quantity:  line.Quantity,
			UnitPrice: price,
			Category:  category,
		})
		total += price * line.Quantity
	}

	return &VerifiedOrder{Lines: verified, TotalAmount: total}, nil
}
