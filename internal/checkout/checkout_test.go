package checkout

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/pudimaria/storefront-backend/internal/cart"
	"github.com/pudimaria/storefront-backend/pkg/enums"
	pkgerrors "github.com/pudimaria/storefront-backend/pkg/errors"
	"github.com/shopspring/decimal"
)

type fakeProductNames struct {
	names map[uuid.UUID]string
	err   error
}

func (f *fakeProductNames) ProductNames(_ context.Context, _ []uuid.UUID) (map[uuid.UUID]string, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.names, nil
}

func TestMessageFormat(t *testing.T) {
	t.Parallel()

	lines := []OrderLine{
		{Name: "Pudim Tradicional", Size: enums.Size250ml, Quantity: 2, Subtotal: decimal.NewFromFloat(37)},
		{Name: "Pudim de Chocolate", Size: enums.Size500ml, Quantity: 1, Subtotal: decimal.NewFromFloat(35)},
	}
	got := Message(lines, decimal.NewFromFloat(72))

	want := "*Pudim Tradicional*\n" +
		"Tamanho: 250ml\n" +
		"Quantidade: 2\n" +
		"Subtotal: R$ 37.00\n" +
		"\n" +
		"*Pudim de Chocolate*\n" +
		"Tamanho: 500ml\n" +
		"Quantidade: 1\n" +
		"Subtotal: R$ 35.00\n" +
		"\n*Total: R$ 72.00*"
	if got != want {
		t.Fatalf("message mismatch:\n got: %q\nwant: %q", got, want)
	}
}

func TestLinkEncoding(t *testing.T) {
	t.Parallel()

	lines := []OrderLine{
		{Name: "Pudim Tradicional", Size: enums.Size250ml, Quantity: 1, Subtotal: decimal.NewFromFloat(18.50)},
	}
	link, err := Link("5511961729140", lines, decimal.NewFromFloat(18.50))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !strings.HasPrefix(link, "https://wa.me/5511961729140?text=") {
		t.Fatalf("unexpected link prefix: %s", link)
	}
	if strings.ContainsAny(link[strings.Index(link, "=")+1:], " \n*+") {
		t.Fatalf("message must be fully percent-encoded: %s", link)
	}

	parsed, err := url.Parse(link)
	if err != nil {
		t.Fatalf("link must parse: %v", err)
	}
	if decoded := parsed.Query().Get("text"); decoded != Message(lines, decimal.NewFromFloat(18.50)) {
		t.Fatalf("decoded text mismatch: %q", decoded)
	}
}

func TestLinkRejectsEmptyOrder(t *testing.T) {
	t.Parallel()

	if _, err := Link("5511961729140", nil, decimal.Zero); pkgerrors.As(err) == nil {
		t.Fatal("empty order must be rejected")
	}
	if _, err := Link("", []OrderLine{{Name: "x", Quantity: 1}}, decimal.Zero); pkgerrors.As(err) == nil {
		t.Fatal("missing phone must be rejected")
	}
}

func TestBuildOrder(t *testing.T) {
	t.Parallel()

	productID := uuid.New()
	c := cart.New()
	if err := c.Add(productID, enums.Size250ml, 2, decimal.NewFromFloat(18.50)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	svc := NewService("5511961729140", &fakeProductNames{
		names: map[uuid.UUID]string{productID: "Pudim Tradicional"},
	}, nil)

	order, err := svc.BuildOrder(context.Background(), c)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !order.Total.Equal(decimal.NewFromFloat(37)) {
		t.Fatalf("expected total 37.00, got %s", order.Total)
	}
	if !strings.Contains(order.Message, "Subtotal: R$ 37.00") {
		t.Fatalf("message must carry the line subtotal: %q", order.Message)
	}
	if !strings.HasPrefix(order.Link, "https://wa.me/5511961729140?text=") {
		t.Fatalf("unexpected link: %s", order.Link)
	}
}

func TestBuildOrderEmptyCart(t *testing.T) {
	t.Parallel()

	svc := NewService("5511961729140", &fakeProductNames{}, nil)
	_, err := svc.BuildOrder(context.Background(), cart.New())
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("empty cart must fail validation, got %v", err)
	}
}

func TestBuildOrderMissingProduct(t *testing.T) {
	t.Parallel()

	c := cart.New()
	if err := c.Add(uuid.New(), enums.Size250ml, 1, decimal.NewFromFloat(18.50)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	svc := NewService("5511961729140", &fakeProductNames{names: map[uuid.UUID]string{}}, nil)
	_, err := svc.BuildOrder(context.Background(), c)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeConflict {
		t.Fatalf("vanished product must conflict, got %v", err)
	}
}

func TestBuildOrderLookupFailure(t *testing.T) {
	t.Parallel()

	c := cart.New()
	if err := c.Add(uuid.New(), enums.Size250ml, 1, decimal.NewFromFloat(18.50)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	svc := NewService("5511961729140", &fakeProductNames{err: errors.New("db down")}, nil)
	_, err := svc.BuildOrder(context.Background(), c)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeDependency {
		t.Fatalf("lookup failure must surface as dependency error, got %v", err)
	}
}
