package checkout

import (
	"context"

	"github.com/google/uuid"
	"github.com/pudimaria/storefront-backend/internal/cart"
	pkgerrors "github.com/pudimaria/storefront-backend/pkg/errors"
	"github.com/pudimaria/storefront-backend/pkg/logger"
	"github.com/shopspring/decimal"
)

// productNames resolves display names for the products referenced by the cart.
type productNames interface {
	ProductNames(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]string, error)
}

// Order is the assembled checkout hand-off: the message body, the wa.me
// link that opens the conversation, and the order total.
type Order struct {
	Message string          `json:"message"`
	Link    string          `json:"link"`
	Total   decimal.Decimal `json:"total"`
}

// Service turns a session cart into a WhatsApp order. Checkout does not
// touch inventory or persist anything; the conversation with the store is
// the order channel.
type Service interface {
	BuildOrder(ctx context.Context, c *cart.Cart) (Order, error)
}

type service struct {
	phone string
	names productNames
	logg  *logger.Logger
}

func NewService(phone string, names productNames, logg *logger.Logger) Service {
	return &service{phone: phone, names: names, logg: logg}
}

func (s *service) BuildOrder(ctx context.Context, c *cart.Cart) (Order, error) {
	if c == nil || c.IsEmpty() {
		return Order{}, pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
	}

	ids := make([]uuid.UUID, 0, len(c.Items))
	for _, item := range c.Items {
		ids = append(ids, item.ProductID)
	}
	names, err := s.names.ProductNames(ctx, ids)
	if err != nil {
		return Order{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "failed to resolve product names")
	}

	lines := make([]OrderLine, 0, len(c.Items))
	for _, item := range c.Items {
		name, ok := names[item.ProductID]
		if !ok {
			return Order{}, pkgerrors.New(pkgerrors.CodeConflict, "a cart item is no longer in the catalog")
		}
		lines = append(lines, OrderLine{
			Name:     name,
			Size:     item.Size,
			Quantity: item.Quantity,
			Subtotal: item.Subtotal(),
		})
	}

	total := c.Total()
	link, err := Link(s.phone, lines, total)
	if err != nil {
		return Order{}, err
	}
	return Order{Message: Message(lines, total), Link: link, Total: total}, nil
}
