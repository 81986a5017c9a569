package dialogue

import (
	"fmt"
	"strings"

	"github.com/YelzhanWeb/cafebot/internal/domain"
	"github.com/YelzhanWeb/cafebot/internal/interfaces"
)

// Button labels the customer taps. Free text equal to a label is treated the same.
const (
	BtnBack          = "Back"
	BtnBackToCart    = "Back to Cart"
	BtnAddMoreDrinks = "Add More Drinks"
	BtnRemoveDrink   = "Remove a Drink"
	BtnPlaceOrder    = "Place Order"
	BtnYes           = "Yes"
	BtnNo            = "No"
)

const (
	MsgGenericError   = "Something went wrong. Please try again! 😊"
	MsgCorruptSession = "Oops, something went wrong with your order. Let's start over!"
	MsgOrderCanceled  = "Order canceled. Type /start to begin again! 😊"
	MsgCanceled       = "Canceled. Type /start to begin again! 😊"

	msgChooseCategory   = "Choose a category:"
	msgChooseAnother    = "Choose another category:"
	msgEmptyCart        = "Your cart is empty! Let's add some drinks."
	msgBadCategory      = "Oops, please choose a category from the list! 😊"
	msgBadItem          = "Please choose a drink from the list! 😊"
	msgBadCartAction    = "Please choose an option!"
	msgBadFulfillment   = "Choose 'Delivery', 'Pickup', or 'Drink On-Site'! 😊"
	msgAskAddress       = "Enter your delivery address:"
	msgAskName          = "Enter your name:"
	msgAskTable         = "Enter your table number:"
	msgAskPhone         = "Enter your phone number (e.g., +1234567890):"
	msgEmptyAddress     = "Please enter your delivery address! 😊"
	msgEmptyName        = "Please enter your name! 😊"
	msgTableNotNumber   = "Please enter a valid table number (e.g., 5)!"
	msgBadPhone         = "Oops, please enter a valid phone number (e.g., +1234567890)! 😊"
	msgAskFulfillment   = "How would you like to receive your order?"
	msgDrinkRemoved     = "Drink removed! "
	msgConfirmQuestion  = "Everything correct? (Yes/No)"
	msgPlaceAnotherHint = "To place another order, tap the button below or type /start!"
)

const itemsPerRow = 3

var (
	backOnly        = [][]string{{BtnBack}}
	cartOptions     = [][]string{{BtnAddMoreDrinks, BtnRemoveDrink}, {BtnPlaceOrder}, {BtnBack}}
	confirmOptions  = [][]string{{BtnYes}, {BtnNo}}
	fulfillmentRows = func() [][]string {
		rows := make([][]string, 0, len(domain.Fulfillments)+1)
		for _, f := range domain.Fulfillments {
			rows = append(rows, []string{f.Label()})
		}
		return append(rows, []string{BtnBack})
	}()
)

// Cafe is the venue shown in greetings and pickup instructions
type Cafe struct {
	Name    string
	Address string
}

func (e *Engine) greeting() string {
	return fmt.Sprintf("Hello! 😊 Welcome to %s!\nWe are located at: %s\n%s", e.cafe.Name, e.cafe.Address, msgChooseCategory)
}

func (e *Engine) welcomeBack() string {
	return fmt.Sprintf("Welcome back! 😊 Continue your order at %s!\nWe are located at: %s", e.cafe.Name, e.cafe.Address)
}

// renderCategoryMenu is the category prompt with one category per row
func (e *Engine) renderCategoryMenu(text string) interfaces.Reply {
	categories := e.catalog.Categories()
	rows := make([][]string, len(categories))
	for i, name := range categories {
		rows[i] = []string{name}
	}
	return interfaces.Reply{Text: text, Options: rows}
}

// renderItemMenu lists the category's drinks with prices and lays the
// buttons out three per row
func (e *Engine) renderItemMenu(category, prefix string) (interfaces.Reply, error) {
	items, err := e.catalog.Items(category)
	if err != nil {
		return interfaces.Reply{}, err
	}

	lines := make([]string, len(items))
	names := make([]string, len(items))
	for i, item := range items {
		lines[i] = fmt.Sprintf("%d. %s — %s $", i+1, item.Name, item.Price.StringFixed(2))
		names[i] = item.Name
	}

	text := fmt.Sprintf("%sChoose a drink from the category %s:\n\n%s\n\nTap on the drink name below:",
		prefix, category, strings.Join(lines, "\n"))

	return interfaces.Reply{
		Text:    text,
		Options: append(chunk(names, itemsPerRow), []string{BtnBack}),
	}, nil
}

func renderCart(cart domain.Cart, prefix string) interfaces.Reply {
	summary := cart.Lines()
	if cart.IsEmpty() {
		summary = "(empty)"
	}
	text := fmt.Sprintf("%sYour cart:\n%s\nTotal: %s $\n\nWhat would you like to do next?",
		prefix, summary, cart.Total().StringFixed(2))
	return interfaces.Reply{Text: text, Options: cartOptions}
}

func renderRemoveMenu(cart domain.Cart, prefix string) interfaces.Reply {
	text := fmt.Sprintf("%sYour cart:\n%s\n\nWhich drink would you like to remove?", prefix, cart.Lines())
	return interfaces.Reply{
		Text:    text,
		Options: append(chunk(cart.Names(), itemsPerRow), []string{BtnBackToCart}),
	}
}

func renderFulfillmentMenu(text string) interfaces.Reply {
	return interfaces.Reply{Text: text, Options: fulfillmentRows}
}

func freeText(text string) interfaces.Reply {
	return interfaces.Reply{Text: text, Options: backOnly}
}

// renderConfirmSummary shows the order as it will be placed
func renderConfirmSummary(s *domain.Session) interfaces.Reply {
	var b strings.Builder
	b.WriteString("Your order:\n")
	fmt.Fprintf(&b, "Drinks:\n%s\n", s.Cart.Lines())
	fmt.Fprintf(&b, "Total: %s $\n", s.Cart.Total().StringFixed(2))
	fmt.Fprintf(&b, "Method: %s\n", s.Fulfillment.Label())
	if detail := s.MethodDetail(); detail != "" {
		b.WriteString(detail + "\n")
	}
	fmt.Fprintf(&b, "Name: %s\n", s.CustomerName)
	if s.Fulfillment != domain.FulfillmentOnSite {
		fmt.Fprintf(&b, "Phone: %s\n", s.Phone)
	}
	b.WriteString(msgConfirmQuestion)
	return interfaces.Reply{Text: b.String(), Options: confirmOptions}
}

// renderPlaced is the customer's acknowledgment after the order is stored
func (e *Engine) renderPlaced(order *domain.Order) interfaces.Reply {
	var where string
	switch order.Fulfillment {
	case domain.FulfillmentDelivery:
		where = "We will deliver it to: " + order.Address
	case domain.FulfillmentOnSite:
		where = "We will bring it to your table: " + order.TableNumber
	default:
		where = "Please pick up your order at: " + e.cafe.Address
	}

	text := fmt.Sprintf("Great! Your order is placed! Thank you! 😊\n%s\n\n%s", where, msgPlaceAnotherHint)
	return interfaces.Reply{Text: text, RestartButton: true}
}

func tableOutOfRange() string {
	return fmt.Sprintf("Please enter a table number between %d and %d!", domain.MinTableNumber, domain.MaxTableNumber)
}

func chunk(names []string, size int) [][]string {
	rows := make([][]string, 0, (len(names)+size-1)/size)
	for start := 0; start < len(names); start += size {
		end := start + size
		if end > len(names) {
			end = len(names)
		}
		rows = append(rows, names[start:end])
	}
	return rows
}
