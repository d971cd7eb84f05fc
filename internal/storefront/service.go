package storefront

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/pudimaria/storefront-backend/internal/cart"
	"github.com/pudimaria/storefront-backend/internal/checkout"
	"github.com/pudimaria/storefront-backend/internal/stock"
	"github.com/pudimaria/storefront-backend/pkg/enums"
	pkgerrors "github.com/pudimaria/storefront-backend/pkg/errors"
	"github.com/pudimaria/storefront-backend/pkg/logger"
)

// inventoryProvider reads a product's stock into a sequence-tagged snapshot.
type inventoryProvider interface {
	Snapshot(ctx context.Context, productID uuid.UUID, seq uint64) (*stock.Snapshot, error)
	ProductNames(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]string, error)
}

// Service orchestrates the session cart against the freshest known stock.
// Stock is only consulted, never mutated: the cart quantity acts as the
// session's provisional reservation against the last snapshot.
type Service interface {
	ViewCart(ctx context.Context, sessionID string) (*CartView, error)
	AddItem(ctx context.Context, sessionID string, input AddItemInput) (*CartView, error)
	UpdateItem(ctx context.Context, sessionID string, input UpdateItemInput) (*CartView, error)
	RemoveItem(ctx context.Context, sessionID string, productID uuid.UUID, size enums.Size) (*CartView, error)
	ClearCart(ctx context.Context, sessionID string) (*CartView, error)
	TogglePanel(ctx context.Context, sessionID string) (*CartView, error)
	Availability(ctx context.Context, sessionID string, productID uuid.UUID) (*AvailabilityView, error)
	Checkout(ctx context.Context, sessionID string) (checkout.Order, error)
}

type service struct {
	carts     *cart.SessionStore
	inventory inventoryProvider
	snapshots *stock.Cache
	orders    checkout.Service
	logg      *logger.Logger
}

// ServiceParams bundles the dependencies required to build the service.
type ServiceParams struct {
	Carts     *cart.SessionStore
	Inventory inventoryProvider
	Orders    checkout.Service
	Logger    *logger.Logger
}

// NewService constructs the storefront service.
func NewService(params ServiceParams) (Service, error) {
	if params.Carts == nil {
		return nil, fmt.Errorf("cart session store required")
	}
	if params.Inventory == nil {
		return nil, fmt.Errorf("inventory provider required")
	}
	if params.Orders == nil {
		return nil, fmt.Errorf("checkout service required")
	}
	return &service{
		carts:     params.Carts,
		inventory: params.Inventory,
		snapshots: stock.NewCache(),
		orders:    params.Orders,
		logg:      params.Logger,
	}, nil
}

func (s *service) ViewCart(ctx context.Context, sessionID string) (*CartView, error) {
	c := s.carts.Load(ctx, sessionID)
	return s.toView(ctx, c)
}

// AddItem runs the purchase flow server-side: refresh the snapshot, walk
// the selection through size and quantity, and commit the validated pair.
// Asking for more than available-to-promise is rejected with the remaining
// quantity, it never partially adds.
func (s *service) AddItem(ctx context.Context, sessionID string, input AddItemInput) (*CartView, error) {
	if input.Quantity < 1 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1")
	}

	c := s.carts.Load(ctx, sessionID)
	snap, err := s.refreshSnapshot(ctx, input.ProductID)
	if err != nil {
		return nil, err
	}

	sel := stock.NewSelection(input.ProductID, snap, c)
	if err := sel.SelectSize(input.Size); err != nil {
		return nil, err
	}
	if limit := sel.AvailableToPromise(); input.Quantity > limit {
		return nil, pkgerrors.InsufficientStock(limit)
	}
	sel.SetQuantity(input.Quantity)

	size, qty, err := sel.Confirm()
	if err != nil {
		return nil, err
	}

	entry, _ := snap.Entry(size)
	if err := c.Add(input.ProductID, size, qty, entry.Price); err != nil {
		return nil, err
	}
	s.carts.Save(ctx, sessionID, c)
	return s.toView(ctx, c)
}

// UpdateItem replaces the pair's quantity. Zero or less removes the line;
// a raise is capped by the snapshot stock, not by available-to-promise,
// because the replaced quantity frees its own reservation.
func (s *service) UpdateItem(ctx context.Context, sessionID string, input UpdateItemInput) (*CartView, error) {
	c := s.carts.Load(ctx, sessionID)

	if input.Quantity > 0 && c.ItemQuantity(input.ProductID, input.Size) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "item not in cart")
	}

	if input.Quantity > 0 {
		snap, err := s.refreshSnapshot(ctx, input.ProductID)
		if err != nil {
			return nil, err
		}
		entry, ok := snap.Entry(input.Size)
		if !ok {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "size not offered for this product")
		}
		if input.Quantity > entry.AvailableQuantity {
			return nil, pkgerrors.InsufficientStock(entry.AvailableQuantity)
		}
	}

	c.UpdateQuantity(input.ProductID, input.Size, input.Quantity)
	s.carts.Save(ctx, sessionID, c)
	return s.toView(ctx, c)
}

func (s *service) RemoveItem(ctx context.Context, sessionID string, productID uuid.UUID, size enums.Size) (*CartView, error) {
	c := s.carts.Load(ctx, sessionID)
	c.Remove(productID, size)
	s.carts.Save(ctx, sessionID, c)
	return s.toView(ctx, c)
}

func (s *service) ClearCart(ctx context.Context, sessionID string) (*CartView, error) {
	c := s.carts.Load(ctx, sessionID)
	c.Clear()
	s.carts.Drop(ctx, sessionID)
	return s.toView(ctx, c)
}

func (s *service) TogglePanel(ctx context.Context, sessionID string) (*CartView, error) {
	c := s.carts.Load(ctx, sessionID)
	c.Toggle()
	s.carts.Save(ctx, sessionID, c)
	return s.toView(ctx, c)
}

// Availability reports the per-size purchase state for the session. A
// snapshot refresh failure falls back to the last held snapshot; with none
// held every size reads as exhausted.
func (s *service) Availability(ctx context.Context, sessionID string, productID uuid.UUID) (*AvailabilityView, error) {
	c := s.carts.Load(ctx, sessionID)

	snap, err := s.refreshSnapshot(ctx, productID)
	if err != nil {
		typed := pkgerrors.As(err)
		if typed != nil && typed.Code() == pkgerrors.CodeNotFound {
			return nil, err
		}
		if s.logg != nil {
			s.logg.Warn(s.logg.WithProductID(ctx, productID.String()), "snapshot refresh failed, serving last known stock")
		}
		snap = s.snapshots.Get(productID)
	}

	view := &AvailabilityView{ProductID: productID}
	for _, size := range snap.Sizes() {
		entry, _ := snap.Entry(size)
		atp := stock.AvailableToPromise(snap, c, productID, size)
		view.Sizes = append(view.Sizes, SizeAvailability{
			Size:               size,
			Label:              size.Label(),
			Price:              entry.Price,
			AvailableToPromise: atp,
			Selectable:         atp > 0,
		})
		if atp > 0 {
			view.Available = true
		}
	}
	return view, nil
}

// Checkout renders the WhatsApp hand-off for the cart and clears it; the
// conversation owns the order from here.
func (s *service) Checkout(ctx context.Context, sessionID string) (checkout.Order, error) {
	c := s.carts.Load(ctx, sessionID)
	order, err := s.orders.BuildOrder(ctx, c)
	if err != nil {
		return checkout.Order{}, err
	}
	s.carts.Drop(ctx, sessionID)
	return order, nil
}

// refreshSnapshot fetches under a fresh sequence token and lets the cache
// arbitrate: an overlapping fetch that resolved later wins.
func (s *service) refreshSnapshot(ctx context.Context, productID uuid.UUID) (*stock.Snapshot, error) {
	seq := s.snapshots.NextSeq()
	snap, err := s.inventory.Snapshot(ctx, productID, seq)
	if err != nil {
		return nil, err
	}
	s.snapshots.Apply(snap)
	return s.snapshots.Get(productID), nil
}

func (s *service) toView(ctx context.Context, c *cart.Cart) (*CartView, error) {
	view := &CartView{
		Items:  []ItemView{},
		Total:  c.Total(),
		IsOpen: c.IsOpen,
	}
	if c.IsEmpty() {
		return view, nil
	}

	ids := make([]uuid.UUID, 0, len(c.Items))
	for _, item := range c.Items {
		ids = append(ids, item.ProductID)
	}
	names, err := s.inventory.ProductNames(ctx, ids)
	if err != nil {
		// The cart itself is intact; render without names rather than fail.
		if s.logg != nil {
			s.logg.Warn(ctx, "product name lookup failed, rendering cart without names")
		}
		names = map[uuid.UUID]string{}
	}

	for _, item := range c.Items {
		view.Items = append(view.Items, ItemView{
			ProductID: item.ProductID,
			Name:      names[item.ProductID],
			Size:      item.Size,
			Label:     item.Size.Label(),
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
			Subtotal:  item.Subtotal(),
		})
	}
	return view, nil
}
