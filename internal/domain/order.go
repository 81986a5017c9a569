package domain

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

const (
	NotSpecified = "Not specified"
	NotProvided  = "Not provided"
)

// Order is the immutable record written when a customer confirms
type Order struct {
	ID           int64
	UserID       int64
	CreatedAt    time.Time
	Items        []CartLine
	TotalPrice   decimal.Decimal
	Fulfillment  Fulfillment
	Address      string
	TableNumber  string
	CustomerName string
	Phone        string
}

// NewOrder snapshots a confirmed session. The cart is deep-copied so later
// session changes cannot reach the order.
func NewOrder(s *Session, now time.Time) (*Order, error) {
	if err := s.ReadyToConfirm(); err != nil {
		return nil, err
	}

	order := &Order{
		UserID:       s.UserID,
		CreatedAt:    now,
		Items:        s.Cart.Clone(),
		Fulfillment:  s.Fulfillment,
		Address:      orDefault(s.Address, NotSpecified),
		TableNumber:  orDefault(s.TableNumber, NotSpecified),
		CustomerName: s.CustomerName,
		Phone:        orDefault(s.Phone, NotProvided),
	}

	if order.Fulfillment != FulfillmentDelivery {
		order.Address = NotSpecified
	}
	if order.Fulfillment != FulfillmentOnSite {
		order.TableNumber = NotSpecified
	}

	if err := order.Validate(); err != nil {
		return nil, err
	}

	order.CalculateTotal()
	return order, nil
}

// Validate applies business validation rules
func (o *Order) Validate() error {
	if len(o.Items) == 0 {
		return errors.New("order must have at least one item")
	}
	for _, item := range o.Items {
		if item.Name == "" {
			return errors.New("item name is required")
		}
		if item.Price.IsNegative() {
			return fmt.Errorf("item %q has negative price", item.Name)
		}
	}
	if !o.Fulfillment.Valid() {
		return ErrInvalidFulfillment
	}
	if o.CustomerName == "" {
		return errors.New("customer name is required")
	}
	if o.Fulfillment == FulfillmentOnSite && o.TableNumber == NotSpecified {
		return errors.New("table number required for on-site orders")
	}
	return nil
}

// CalculateTotal sums the snapshot prices
func (o *Order) CalculateTotal() {
	o.TotalPrice = Cart(o.Items).Total()
}

// MethodDetail is the fulfillment-specific line: the address for delivery,
// the table for on-site, empty for pickup.
func (o *Order) MethodDetail() string {
	return methodDetail(o.Fulfillment, o.Address, o.TableNumber)
}

// MethodDetail for a session that is about to be confirmed
func (s *Session) MethodDetail() string {
	return methodDetail(s.Fulfillment, orDefault(s.Address, NotSpecified), orDefault(s.TableNumber, NotSpecified))
}

func methodDetail(f Fulfillment, address, table string) string {
	switch f {
	case FulfillmentDelivery:
		return "Address: " + address
	case FulfillmentOnSite:
		return "Table Number: " + table
	}
	return ""
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
