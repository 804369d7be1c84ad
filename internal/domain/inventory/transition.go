package inventory

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/itemtrack/backend/internal/domain/identity"
	"github.com/itemtrack/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// ChangeRequest describes a requested status change of one item
type ChangeRequest struct {
	Target Status
	// Holder is the resolved receiving employee, required when Target is WITH_EMPLOYEE
	Holder *identity.Holder
	Price  *decimal.Decimal
	Notes  string
	Actor  identity.Actor
	At     time.Time
}

type edge struct {
	from Status
	to   Status
}

// transitionTable lists every permitted edge. Edges not present are refused.
var transitionTable = map[edge]bool{
	{StatusInInventory, StatusWithEmployee}:  true,
	{StatusInInventory, StatusSold}:          true,
	{StatusWithEmployee, StatusWithEmployee}: true,
	{StatusWithEmployee, StatusSold}:         true,
	{StatusWithEmployee, StatusInInventory}:  true,
	{StatusSold, StatusWithEmployee}:         true,
}

// IsAllowed reports whether the table permits moving from one status to another
func IsAllowed(from, to Status) bool {
	return transitionTable[edge{from, to}]
}

// CheckEdge returns the table verdict for a status pair
func CheckEdge(from, to Status) error {
	if !from.IsValid() {
		return ErrInvalidStatus.WithDetails(map[string]interface{}{"status": string(from)})
	}
	if !to.IsValid() {
		return ErrInvalidStatus.WithDetails(map[string]interface{}{"status": string(to)})
	}
	if from == StatusSold && to == StatusSold {
		return ErrAlreadySold
	}
	if !IsAllowed(from, to) {
		return ErrInvalidTransition.
			WithMessage(fmt.Sprintf("Cannot change status from %s to %s", from, to)).
			WithDetails(map[string]interface{}{"from": string(from), "to": string(to)})
	}
	return nil
}

// Validate decides whether the request is legal for the item. It is pure: the
// same item and request always produce the same verdict.
func Validate(item *Item, req ChangeRequest, policy ReturnPolicy) error {
	actor := req.Actor
	if !actor.CanMutate() {
		return shared.ErrAccessDenied.WithMessage("Read-only access cannot change item status")
	}
	if !actor.SameTenant(item.TenantID) {
		return shared.ErrNotFound
	}

	current := item.Status()
	if err := CheckEdge(current, req.Target); err != nil {
		return err
	}

	if actor.IsFieldEmployee() {
		if !item.IsHeldBy(actor.UserID) {
			return shared.ErrAccessDenied.WithMessage("Employees can only act on items in their care")
		}
		if req.Target == StatusWithEmployee && current != StatusSold {
			return shared.ErrAccessDenied.WithMessage("Only owners can assign items to employees")
		}
	}

	if err := validateHolder(item, req); err != nil {
		return err
	}

	if current == StatusSold && req.Target == StatusWithEmployee {
		if err := validateReturn(item, req, policy); err != nil {
			return err
		}
	}

	return validatePrice(req)
}

// Transition applies a validated change and returns the new item together with
// the event describing it. The input item is not modified.
func Transition(item *Item, req ChangeRequest, policy ReturnPolicy) (*Item, *ItemStatusChangedEvent, error) {
	if err := Validate(item, req, policy); err != nil {
		return nil, nil, err
	}

	at := req.At
	if at.IsZero() {
		at = time.Now()
	}

	next := item.clone()
	switch req.Target {
	case StatusInInventory:
		next.State = InInventory{}
	case StatusWithEmployee:
		next.State = WithEmployee{HolderID: req.Holder.UserID}
	case StatusSold:
		next.State = Sold{HolderID: item.Holder(), Price: copyPrice(req.Price)}
	}

	next.History = append(next.History, HistoryEntry{
		Status:    req.Target,
		At:        at,
		ChangedBy: req.Actor.UserID,
		Holder:    next.Holder(),
		Notes:     req.Notes,
	})
	next.Touch(at)

	event := NewItemStatusChangedEvent(item, next, req.Actor.UserID)
	next.AddDomainEvent(event)
	return next, event, nil
}

func validateHolder(item *Item, req ChangeRequest) error {
	if req.Target != StatusWithEmployee {
		if req.Holder != nil {
			return ErrInvalidHolder.WithMessage("A holder can only be set when assigning items to an employee")
		}
		return nil
	}

	h := req.Holder
	if h == nil || h.UserID == uuid.Nil {
		return ErrInvalidHolder.WithMessage("A holder is required when assigning items to an employee")
	}
	if h.TenantID != item.TenantID {
		return ErrInvalidHolder.WithMessage("Holder belongs to a different tenant")
	}
	if !h.FieldEmployee {
		return ErrInvalidHolder.WithMessage("Holder is not an active field employee")
	}
	if req.Actor.IsFieldEmployee() && h.UserID != req.Actor.UserID {
		return shared.ErrAccessDenied.WithMessage("Employees can only receive returned items themselves")
	}
	return nil
}

func validateReturn(item *Item, req ChangeRequest, policy ReturnPolicy) error {
	switch policy {
	case ReturnPolicyOwnerOnly:
		if !req.Actor.IsOwner() {
			return shared.ErrAccessDenied.WithMessage("Only owners can process returns")
		}
	case ReturnPolicySameHolder:
		seller := item.Holder()
		if seller != nil && *seller != req.Holder.UserID {
			return ErrInvalidHolder.
				WithMessage("A returned item must go back to the employee who sold it").
				WithDetails(map[string]interface{}{"expected_holder": seller.String()})
		}
	}
	return nil
}

func validatePrice(req ChangeRequest) error {
	if req.Price == nil {
		return nil
	}
	if req.Target != StatusSold {
		return ErrInvalidPrice.WithMessage("A sell price can only be recorded when selling")
	}
	if req.Price.IsNegative() {
		return ErrInvalidPrice.WithMessage("Sell price cannot be negative")
	}
	return nil
}

func copyPrice(p *decimal.Decimal) *decimal.Decimal {
	if p == nil {
		return nil
	}
	c := *p
	return &c
}
