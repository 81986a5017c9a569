package domain

import (
	"fmt"
	"time"
)

// Session is the per-user dialogue state persisted between turns
type Session struct {
	UserID       int64       `json:"user_id"`
	Step         Step        `json:"step"`
	PreviousStep Step        `json:"previous_step,omitempty"`
	Cart         Cart        `json:"cart"`
	Category     string      `json:"category,omitempty"`
	Fulfillment  Fulfillment `json:"fulfillment,omitempty"`
	Address      string      `json:"address,omitempty"`
	CustomerName string      `json:"customer_name,omitempty"`
	TableNumber  string      `json:"table_number,omitempty"`
	Phone        string      `json:"phone,omitempty"`
	UpdatedAt    time.Time   `json:"updated_at"`
}

// NewSession starts a dialogue at the category prompt with an empty cart
func NewSession(userID int64) *Session {
	return &Session{
		UserID:    userID,
		Step:      StepCategory,
		Cart:      Cart{},
		UpdatedAt: time.Now().UTC(),
	}
}

// MoveTo records the current step as previous and advances
func (s *Session) MoveTo(next Step) {
	if s.Step != next {
		s.PreviousStep = s.Step
	}
	s.Step = next
}

// SetFulfillment stores the method and clears fields that do not apply to it
func (s *Session) SetFulfillment(f Fulfillment) {
	s.Fulfillment = f
	if f != FulfillmentDelivery {
		s.Address = ""
	}
	if f != FulfillmentOnSite {
		s.TableNumber = ""
	}
	if f == FulfillmentOnSite {
		s.Phone = ""
	}
}

// Clone returns a deep copy
func (s *Session) Clone() *Session {
	out := *s
	out.Cart = s.Cart.Clone()
	return &out
}

// Validate checks that the stored fields support the current step.
// A failure means the session cannot be resumed and must be restarted.
func (s *Session) Validate() error {
	if !s.Step.Valid() {
		return fmt.Errorf("%w: unknown step %q", ErrCorruptSession, s.Step)
	}
	if s.Step.NeedsCart() && s.Cart.IsEmpty() {
		return fmt.Errorf("%w: step %s with empty cart", ErrCorruptSession, s.Step)
	}
	if s.Step == StepItem && s.Category == "" {
		return fmt.Errorf("%w: item step without category", ErrCorruptSession)
	}

	switch s.Step {
	case StepAddress:
		if s.Fulfillment != FulfillmentDelivery {
			return fmt.Errorf("%w: address step for %q", ErrCorruptSession, s.Fulfillment)
		}
	case StepName:
		if !s.Fulfillment.Valid() {
			return fmt.Errorf("%w: name step without fulfillment", ErrCorruptSession)
		}
	case StepTable:
		if s.Fulfillment != FulfillmentOnSite || s.CustomerName == "" {
			return fmt.Errorf("%w: table step for %q", ErrCorruptSession, s.Fulfillment)
		}
	case StepPhone:
		if s.Fulfillment == FulfillmentOnSite || !s.Fulfillment.Valid() || s.CustomerName == "" {
			return fmt.Errorf("%w: phone step for %q", ErrCorruptSession, s.Fulfillment)
		}
	}

	if s.TableNumber != "" && s.Fulfillment != FulfillmentOnSite {
		return fmt.Errorf("%w: table number without on-site fulfillment", ErrCorruptSession)
	}
	if s.Phone != "" && s.Fulfillment != FulfillmentDelivery && s.Fulfillment != FulfillmentPickup {
		return fmt.Errorf("%w: phone without delivery or pickup", ErrCorruptSession)
	}
	if s.Address != "" && s.Fulfillment != FulfillmentDelivery {
		return fmt.Errorf("%w: address without delivery", ErrCorruptSession)
	}

	return nil
}

// ReadyToConfirm re-checks what finalization needs
func (s *Session) ReadyToConfirm() error {
	if s.Cart.IsEmpty() {
		return fmt.Errorf("%w: %v", ErrCorruptSession, ErrEmptyCart)
	}
	if !s.Fulfillment.Valid() {
		return fmt.Errorf("%w: fulfillment missing", ErrCorruptSession)
	}
	if s.CustomerName == "" {
		return fmt.Errorf("%w: customer name missing", ErrCorruptSession)
	}
	return nil
}
