package domain

import "strings"

// Step is a state of the ordering dialogue
type Step string

const (
	StepNone        Step = ""
	StepCategory    Step = "category"
	StepItem        Step = "item"
	StepCart        Step = "cart"
	StepRemove      Step = "remove"
	StepFulfillment Step = "fulfillment"
	StepAddress     Step = "address"
	StepName        Step = "name"
	StepTable       Step = "table"
	StepPhone       Step = "phone"
	StepConfirm     Step = "confirm"
)

var knownSteps = map[Step]bool{
	StepCategory:    true,
	StepItem:        true,
	StepCart:        true,
	StepRemove:      true,
	StepFulfillment: true,
	StepAddress:     true,
	StepName:        true,
	StepTable:       true,
	StepPhone:       true,
	StepConfirm:     true,
}

// Valid reports whether s is one of the dialogue states
func (s Step) Valid() bool {
	return knownSteps[s]
}

// NeedsCart reports whether the cart must be non-empty while the dialogue is at s
func (s Step) NeedsCart() bool {
	switch s {
	case StepFulfillment, StepAddress, StepName, StepTable, StepPhone, StepConfirm:
		return true
	}
	return false
}

func (s Step) String() string {
	if s == StepNone {
		return "none"
	}
	return string(s)
}

// Fulfillment is how the customer receives the order
type Fulfillment string

const (
	FulfillmentNone     Fulfillment = ""
	FulfillmentDelivery Fulfillment = "Delivery"
	FulfillmentPickup   Fulfillment = "Pickup"
	FulfillmentOnSite   Fulfillment = "OnSite"
)

// Fulfillments lists the methods in the order they are offered
var Fulfillments = []Fulfillment{FulfillmentDelivery, FulfillmentPickup, FulfillmentOnSite}

// Label is the text shown on the reply button and in summaries
func (f Fulfillment) Label() string {
	if f == FulfillmentOnSite {
		return "Drink On-Site"
	}
	return string(f)
}

func (f Fulfillment) Valid() bool {
	return f == FulfillmentDelivery || f == FulfillmentPickup || f == FulfillmentOnSite
}

// ParseFulfillment accepts either the stored value or the button label
func ParseFulfillment(input string) (Fulfillment, error) {
	switch strings.TrimSpace(input) {
	case string(FulfillmentDelivery):
		return FulfillmentDelivery, nil
	case string(FulfillmentPickup):
		return FulfillmentPickup, nil
	case string(FulfillmentOnSite), FulfillmentOnSite.Label():
		return FulfillmentOnSite, nil
	}
	return FulfillmentNone, ErrInvalidFulfillment
}
