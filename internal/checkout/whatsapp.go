package checkout

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/pudimaria/storefront-backend/pkg/enums"
	pkgerrors "github.com/pudimaria/storefront-backend/pkg/errors"
	"github.com/pudimaria/storefront-backend/pkg/types"
	"github.com/shopspring/decimal"
)

// OrderLine is one cart line resolved for the order message: product name,
// size, quantity and the line subtotal at the captured unit price.
type OrderLine struct {
	Name     string
	Size     enums.Size
	Quantity int
	Subtotal decimal.Decimal
}

// Message renders the order into the WhatsApp text body. Each line item
// becomes a block of bold product name, size, quantity and subtotal; the
// blocks are separated by a blank line and followed by the bold total.
func Message(lines []OrderLine, total decimal.Decimal) string {
	blocks := make([]string, 0, len(lines))
	for _, line := range lines {
		blocks = append(blocks, fmt.Sprintf(
			"*%s*\nTamanho: %s\nQuantidade: %d\nSubtotal: %s\n",
			line.Name, line.Size, line.Quantity, types.FormatBRL(line.Subtotal),
		))
	}
	return strings.Join(blocks, "\n") + fmt.Sprintf("\n*Total: %s*", types.FormatBRL(total))
}

// Link builds the wa.me deep link carrying the order message for the store
// phone in international format (digits only, country code included).
func Link(phone string, lines []OrderLine, total decimal.Decimal) (string, error) {
	if phone == "" {
		return "", pkgerrors.New(pkgerrors.CodeInternal, "store phone not configured")
	}
	if len(lines) == 0 {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
	}
	escaped := strings.ReplaceAll(url.QueryEscape(Message(lines, total)), "+", "%20")
	return fmt.Sprintf("https://wa.me/%s?text=%s", phone, escaped), nil
}
