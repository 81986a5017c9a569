package order

import (
	"fmt"
	"strings"

	"github.com/YelzhanWeb/cafebot/internal/domain"
)

// DateLayout is how order timestamps are shown to staff and admins
const DateLayout = "2006-01-02 15:04:05"

// StaffSummary is the message sent to staff for a new order
func StaffSummary(o *domain.Order, cafeAddress string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "New order #%d:\n", o.ID)
	writeDetails(&b, o)
	if o.Fulfillment == domain.FulfillmentPickup {
		fmt.Fprintf(&b, "\nPickup Location: %s", cafeAddress)
	}
	return b.String()
}

// Details renders date, drinks, total, method and contact fields without a
// trailing newline
func Details(o *domain.Order) string {
	var b strings.Builder
	writeDetails(&b, o)
	return b.String()
}

func writeDetails(b *strings.Builder, o *domain.Order) {
	fmt.Fprintf(b, "Date: %s\n", o.CreatedAt.Format(DateLayout))
	fmt.Fprintf(b, "Drinks:\n%s\n", domain.Cart(o.Items).Lines())
	fmt.Fprintf(b, "Total: %s $\n", o.TotalPrice.StringFixed(2))
	fmt.Fprintf(b, "Method: %s\n", o.Fulfillment.Label())
	if detail := o.MethodDetail(); detail != "" {
		b.WriteString(detail + "\n")
	}
	fmt.Fprintf(b, "Name: %s\n", o.CustomerName)
	fmt.Fprintf(b, "Phone: %s", o.Phone)
}
