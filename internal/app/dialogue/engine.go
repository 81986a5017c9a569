package dialogue

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/YelzhanWeb/cafebot/internal/domain"
	"github.com/YelzhanWeb/cafebot/internal/interfaces"
)

// Action tells the caller what to do with an Outcome
type Action int

const (
	// ActionContinue: persist Outcome.Session and send the replies
	ActionContinue Action = iota
	// ActionFinalize: the customer confirmed; hand the session to the finalizer
	ActionFinalize
	// ActionEnd: the dialogue was cancelled; delete the stored session
	ActionEnd
)

func (a Action) String() string {
	switch a {
	case ActionFinalize:
		return "finalize"
	case ActionEnd:
		return "end"
	default:
		return "continue"
	}
}

// Outcome is the result of one transition
type Outcome struct {
	Action  Action
	Session *domain.Session
	Replies []interfaces.Reply
}

// Engine is the ordering state machine. It holds no per-user state; every
// call works on a copy of the session it is given.
type Engine struct {
	catalog *domain.Catalog
	cafe    Cafe
}

func NewEngine(catalog *domain.Catalog, cafe Cafe) *Engine {
	return &Engine{catalog: catalog, cafe: cafe}
}

// Welcome is the greeting for a fresh session
func (e *Engine) Welcome() interfaces.Reply {
	return e.renderCategoryMenu(e.greeting())
}

// Placed is the acknowledgment sent once an order is stored
func (e *Engine) Placed(order *domain.Order) interfaces.Reply {
	return e.renderPlaced(order)
}

// Resume re-presents the prompt of the step a stored session is waiting at
func (e *Engine) Resume(s *domain.Session) (interfaces.Reply, error) {
	if err := s.Validate(); err != nil {
		return interfaces.Reply{}, err
	}

	if s.Step == domain.StepCategory {
		return e.renderCategoryMenu(e.welcomeBack() + "\n" + msgChooseCategory), nil
	}

	reply, err := e.Prompt(s)
	if err != nil {
		return interfaces.Reply{}, err
	}
	reply.Text = e.welcomeBack() + "\n\n" + reply.Text
	return reply, nil
}

// Prompt renders what the customer is asked at the session's current step
func (e *Engine) Prompt(s *domain.Session) (interfaces.Reply, error) {
	switch s.Step {
	case domain.StepCategory:
		return e.renderCategoryMenu(msgChooseCategory), nil
	case domain.StepItem:
		reply, err := e.renderItemMenu(s.Category, "")
		if err != nil {
			return interfaces.Reply{}, fmt.Errorf("%w: stored category %q: %v", domain.ErrCorruptSession, s.Category, err)
		}
		return reply, nil
	case domain.StepCart:
		return renderCart(s.Cart, ""), nil
	case domain.StepRemove:
		return renderRemoveMenu(s.Cart, ""), nil
	case domain.StepFulfillment:
		return renderFulfillmentMenu(msgAskFulfillment), nil
	case domain.StepAddress:
		return freeText(msgAskAddress), nil
	case domain.StepName:
		return freeText(msgAskName), nil
	case domain.StepTable:
		return freeText(msgAskTable), nil
	case domain.StepPhone:
		return freeText(msgAskPhone), nil
	case domain.StepConfirm:
		return renderConfirmSummary(s), nil
	}
	return interfaces.Reply{}, fmt.Errorf("%w: unknown step %q", domain.ErrCorruptSession, s.Step)
}

// Transition applies one customer input. Invalid input never fails: it
// re-prompts and leaves the state unchanged. An error means the stored state
// cannot support the step and the session has to be restarted.
func (e *Engine) Transition(current *domain.Session, input string) (Outcome, error) {
	if err := current.Validate(); err != nil {
		return Outcome{}, err
	}

	s := current.Clone()
	input = strings.TrimSpace(input)

	switch s.Step {
	case domain.StepCategory:
		return e.onCategory(s, input)
	case domain.StepItem:
		return e.onItem(s, input)
	case domain.StepCart:
		return e.onCart(s, input)
	case domain.StepRemove:
		return e.onRemove(s, input)
	case domain.StepFulfillment:
		return e.onFulfillment(s, input)
	case domain.StepAddress:
		return e.onAddress(s, input)
	case domain.StepName:
		return e.onName(s, input)
	case domain.StepTable:
		return e.onTable(s, input)
	case domain.StepPhone:
		return e.onPhone(s, input)
	case domain.StepConfirm:
		return e.onConfirm(s, input)
	}
	return Outcome{}, fmt.Errorf("%w: unknown step %q", domain.ErrCorruptSession, s.Step)
}

func proceed(s *domain.Session, replies ...interfaces.Reply) (Outcome, error) {
	return Outcome{Action: ActionContinue, Session: s, Replies: replies}, nil
}

func (e *Engine) onCategory(s *domain.Session, input string) (Outcome, error) {
	if input == BtnBack {
		// nothing precedes the category prompt: start over
		return proceed(domain.NewSession(s.UserID), e.Welcome())
	}

	if !e.catalog.HasCategory(input) {
		return proceed(s, e.renderCategoryMenu(msgBadCategory))
	}

	s.Category = input
	s.MoveTo(domain.StepItem)
	return e.itemMenu(s, "")
}

func (e *Engine) onItem(s *domain.Session, input string) (Outcome, error) {
	if input == BtnBack {
		s.MoveTo(domain.StepCategory)
		return proceed(s, e.renderCategoryMenu(msgChooseCategory))
	}

	item, err := e.catalog.FindItem(s.Category, input)
	if errors.Is(err, domain.ErrUnknownCategory) {
		return Outcome{}, fmt.Errorf("%w: stored category %q", domain.ErrCorruptSession, s.Category)
	}
	if err != nil {
		return e.itemMenu(s, msgBadItem+"\n\n")
	}

	s.Cart.Add(item)
	s.MoveTo(domain.StepCart)
	return proceed(s, renderCart(s.Cart, ""))
}

func (e *Engine) onCart(s *domain.Session, input string) (Outcome, error) {
	switch input {
	case BtnBack:
		if e.catalog.HasCategory(s.Category) {
			s.MoveTo(domain.StepItem)
			return e.itemMenu(s, "")
		}
		s.MoveTo(domain.StepCategory)
		return proceed(s, e.renderCategoryMenu(msgChooseCategory))

	case BtnAddMoreDrinks:
		s.MoveTo(domain.StepCategory)
		return proceed(s, e.renderCategoryMenu(msgChooseAnother))

	case BtnRemoveDrink:
		if s.Cart.IsEmpty() {
			return e.emptyCart(s)
		}
		s.MoveTo(domain.StepRemove)
		return proceed(s, renderRemoveMenu(s.Cart, ""))

	case BtnPlaceOrder:
		if s.Cart.IsEmpty() {
			return e.emptyCart(s)
		}
		s.MoveTo(domain.StepFulfillment)
		return proceed(s, renderFulfillmentMenu(msgAskFulfillment))
	}

	return proceed(s, renderCart(s.Cart, msgBadCartAction+"\n\n"))
}

func (e *Engine) onRemove(s *domain.Session, input string) (Outcome, error) {
	if input == BtnBackToCart {
		s.MoveTo(domain.StepCart)
		return proceed(s, renderCart(s.Cart, ""))
	}

	prefix := msgDrinkRemoved
	if s.Cart.RemoveAllByName(input) == 0 {
		prefix = fmt.Sprintf("%q is not in your cart. ", input)
	}
	s.MoveTo(domain.StepCart)
	return proceed(s, renderCart(s.Cart, prefix))
}

func (e *Engine) onFulfillment(s *domain.Session, input string) (Outcome, error) {
	if input == BtnBack {
		s.MoveTo(domain.StepCart)
		return proceed(s, renderCart(s.Cart, ""))
	}

	f, err := domain.ParseFulfillment(input)
	if err != nil {
		return proceed(s, renderFulfillmentMenu(msgBadFulfillment))
	}

	s.SetFulfillment(f)
	if f == domain.FulfillmentDelivery {
		s.MoveTo(domain.StepAddress)
		return proceed(s, freeText(msgAskAddress))
	}
	s.MoveTo(domain.StepName)
	return proceed(s, freeText(msgAskName))
}

func (e *Engine) onAddress(s *domain.Session, input string) (Outcome, error) {
	if input == BtnBack {
		s.MoveTo(domain.StepFulfillment)
		return proceed(s, renderFulfillmentMenu(msgAskFulfillment))
	}

	address, err := domain.RequireText(input)
	if err != nil {
		return proceed(s, freeText(msgEmptyAddress))
	}

	s.Address = address
	s.MoveTo(domain.StepName)
	return proceed(s, freeText(msgAskName))
}

func (e *Engine) onName(s *domain.Session, input string) (Outcome, error) {
	if input == BtnBack {
		if s.Fulfillment == domain.FulfillmentDelivery {
			s.MoveTo(domain.StepAddress)
			return proceed(s, freeText(msgAskAddress))
		}
		s.MoveTo(domain.StepFulfillment)
		return proceed(s, renderFulfillmentMenu(msgAskFulfillment))
	}

	name, err := domain.RequireText(input)
	if err != nil {
		return proceed(s, freeText(msgEmptyName))
	}

	s.CustomerName = name
	if s.Fulfillment == domain.FulfillmentOnSite {
		s.MoveTo(domain.StepTable)
		return proceed(s, freeText(msgAskTable))
	}
	s.MoveTo(domain.StepPhone)
	return proceed(s, freeText(msgAskPhone))
}

func (e *Engine) onTable(s *domain.Session, input string) (Outcome, error) {
	if input == BtnBack {
		s.MoveTo(domain.StepName)
		return proceed(s, freeText(msgAskName))
	}

	table, err := domain.ParseTableNumber(input)
	switch {
	case errors.Is(err, domain.ErrTableOutOfRange):
		return proceed(s, freeText(tableOutOfRange()))
	case err != nil:
		return proceed(s, freeText(msgTableNotNumber))
	}

	s.TableNumber = strconv.Itoa(table)
	s.MoveTo(domain.StepConfirm)
	return proceed(s, renderConfirmSummary(s))
}

func (e *Engine) onPhone(s *domain.Session, input string) (Outcome, error) {
	if input == BtnBack {
		s.MoveTo(domain.StepName)
		return proceed(s, freeText(msgAskName))
	}

	if err := domain.ValidatePhone(input); err != nil {
		return proceed(s, freeText(msgBadPhone))
	}

	s.Phone = input
	s.MoveTo(domain.StepConfirm)
	return proceed(s, renderConfirmSummary(s))
}

func (e *Engine) onConfirm(s *domain.Session, input string) (Outcome, error) {
	if input != BtnYes {
		return Outcome{
			Action:  ActionEnd,
			Session: s,
			Replies: []interfaces.Reply{{Text: MsgOrderCanceled, RemoveKeyboard: true}},
		}, nil
	}

	if err := s.ReadyToConfirm(); err != nil {
		return Outcome{}, err
	}
	return Outcome{Action: ActionFinalize, Session: s}, nil
}

func (e *Engine) emptyCart(s *domain.Session) (Outcome, error) {
	s.MoveTo(domain.StepCategory)
	return proceed(s, e.renderCategoryMenu(msgEmptyCart+"\n"+msgChooseCategory))
}

func (e *Engine) itemMenu(s *domain.Session, prefix string) (Outcome, error) {
	reply, err := e.renderItemMenu(s.Category, prefix)
	if err != nil {
		return Outcome{}, fmt.Errorf("%w: stored category %q: %v", domain.ErrCorruptSession, s.Category, err)
	}
	return proceed(s, reply)
}
