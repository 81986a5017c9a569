package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sessionAt(step Step) *Session {
	s := NewSession(7)
	s.Cart.Add(item("Hot Latte", "1.75"))
	s.Category = "Hot Drinks"
	s.Step = step
	return s
}

func TestSession_ValidateInvariants(t *testing.T) {
	valid := []*Session{
		NewSession(1),
		sessionAt(StepItem),
		sessionAt(StepCart),
		func() *Session { s := sessionAt(StepAddress); s.SetFulfillment(FulfillmentDelivery); return s }(),
		func() *Session {
			s := sessionAt(StepTable)
			s.SetFulfillment(FulfillmentOnSite)
			s.CustomerName = "Ana"
			return s
		}(),
		func() *Session {
			s := sessionAt(StepPhone)
			s.SetFulfillment(FulfillmentPickup)
			s.CustomerName = "Ana"
			return s
		}(),
	}
	for _, s := range valid {
		assert.NoError(t, s.Validate(), "step %s", s.Step)
	}

	corrupt := map[string]*Session{
		"unknown step": func() *Session { s := NewSession(1); s.Step = "dance"; return s }(),
		"empty cart at confirm": func() *Session {
			s := NewSession(1)
			s.Step = StepConfirm
			return s
		}(),
		"item without category": func() *Session { s := sessionAt(StepItem); s.Category = ""; return s }(),
		"address for pickup": func() *Session {
			s := sessionAt(StepAddress)
			s.SetFulfillment(FulfillmentPickup)
			return s
		}(),
		"table without on-site": func() *Session {
			s := sessionAt(StepCart)
			s.TableNumber = "4"
			return s
		}(),
		"phone for on-site": func() *Session {
			s := sessionAt(StepPhone)
			s.SetFulfillment(FulfillmentOnSite)
			s.CustomerName = "Ana"
			return s
		}(),
	}
	for name, s := range corrupt {
		assert.ErrorIs(t, s.Validate(), ErrCorruptSession, name)
	}
}

func TestSession_SetFulfillmentClearsInapplicableFields(t *testing.T) {
	s := sessionAt(StepFulfillment)
	s.SetFulfillment(FulfillmentDelivery)
	s.Address = "Street 1"
	s.Phone = "+1234567890"

	s.SetFulfillment(FulfillmentOnSite)
	assert.Empty(t, s.Address)
	assert.Empty(t, s.Phone)

	s.TableNumber = "3"
	s.SetFulfillment(FulfillmentPickup)
	assert.Empty(t, s.TableNumber)
}

func TestSession_MoveToTracksPrevious(t *testing.T) {
	s := NewSession(1)
	s.MoveTo(StepItem)
	assert.Equal(t, StepCategory, s.PreviousStep)
	s.MoveTo(StepItem)
	assert.Equal(t, StepCategory, s.PreviousStep)
	s.MoveTo(StepCart)
	assert.Equal(t, StepItem, s.PreviousStep)
}

func TestSession_CloneIsDeep(t *testing.T) {
	s := sessionAt(StepCart)
	c := s.Clone()
	c.Cart.Add(item("Kiwi Soda", "1.75"))
	c.Cart[0].Name = "changed"

	assert.Len(t, s.Cart, 1)
	assert.Equal(t, "Hot Latte", s.Cart[0].Name)
}

func TestNewOrder_Pickup(t *testing.T) {
	s := sessionAt(StepConfirm)
	s.SetFulfillment(FulfillmentPickup)
	s.CustomerName = "Ana"
	s.Phone = "+15551234567"

	now := time.Date(2026, 10, 18, 9, 30, 0, 0, time.UTC)
	order, err := NewOrder(s, now)
	require.NoError(t, err)

	assert.Equal(t, now, order.CreatedAt)
	assert.Equal(t, "1.75", order.TotalPrice.StringFixed(2))
	assert.Equal(t, FulfillmentPickup, order.Fulfillment)
	assert.Equal(t, NotSpecified, order.Address)
	assert.Equal(t, NotSpecified, order.TableNumber)
	assert.Equal(t, "+15551234567", order.Phone)
	assert.Empty(t, order.MethodDetail())
}

func TestNewOrder_OnSiteDefaults(t *testing.T) {
	s := sessionAt(StepConfirm)
	s.SetFulfillment(FulfillmentOnSite)
	s.CustomerName = "Ana"
	s.TableNumber = "7"

	order, err := NewOrder(s, time.Now())
	require.NoError(t, err)

	assert.Equal(t, "7", order.TableNumber)
	assert.Equal(t, NotSpecified, order.Address)
	assert.Equal(t, NotProvided, order.Phone)
	assert.Equal(t, "Table Number: 7", order.MethodDetail())
}

func TestNewOrder_SnapshotsCart(t *testing.T) {
	s := sessionAt(StepConfirm)
	s.SetFulfillment(FulfillmentPickup)
	s.CustomerName = "Ana"

	order, err := NewOrder(s, time.Now())
	require.NoError(t, err)

	s.Cart.Add(item("Kiwi Soda", "1.75"))
	s.Cart[0].Name = "mutated"

	assert.Len(t, order.Items, 1)
	assert.Equal(t, "Hot Latte", order.Items[0].Name)
}

func TestNewOrder_RejectsIncompleteSession(t *testing.T) {
	noName := sessionAt(StepConfirm)
	noName.SetFulfillment(FulfillmentPickup)

	noMethod := sessionAt(StepConfirm)
	noMethod.CustomerName = "Ana"

	noCart := NewSession(1)
	noCart.SetFulfillment(FulfillmentPickup)
	noCart.CustomerName = "Ana"

	for _, s := range []*Session{noName, noMethod, noCart} {
		_, err := NewOrder(s, time.Now())
		assert.ErrorIs(t, err, ErrCorruptSession)
	}

	onSiteNoTable := sessionAt(StepConfirm)
	onSiteNoTable.SetFulfillment(FulfillmentOnSite)
	onSiteNoTable.CustomerName = "Ana"
	_, err := NewOrder(onSiteNoTable, time.Now())
	assert.Error(t, err)
}
