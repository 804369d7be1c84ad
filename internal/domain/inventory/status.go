package inventory

import (
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Status is the lifecycle status of a single item
type Status string

const (
	StatusInInventory  Status = "IN_INVENTORY"
	StatusWithEmployee Status = "WITH_EMPLOYEE"
	StatusSold         Status = "SOLD"
)

// AllStatuses lists every status in lifecycle order
func AllStatuses() []Status {
	return []Status{StatusInInventory, StatusWithEmployee, StatusSold}
}

// ParseStatus converts a string into a Status, rejecting unknown values
func ParseStatus(s string) (Status, error) {
	switch st := Status(strings.ToUpper(strings.TrimSpace(s))); st {
	case StatusInInventory, StatusWithEmployee, StatusSold:
		return st, nil
	}
	return "", ErrInvalidStatus.WithDetails(map[string]interface{}{"status": s})
}

// IsValid reports whether the status is one of the known statuses
func (s Status) IsValid() bool {
	_, err := ParseStatus(string(s))
	return err == nil
}

// String returns the status name
func (s Status) String() string {
	return string(s)
}

// State is the status-tagged state of an item. Each variant carries only the
// fields that are valid for its status.
type State interface {
	Status() Status
	// Holder returns the current holder, or the employee who sold the item
	Holder() *uuid.UUID
	// SellPrice returns the recorded price for sold items
	SellPrice() *decimal.Decimal
	isState()
}

// InInventory is an item sitting in stock
type InInventory struct{}

func (InInventory) Status() Status { return StatusInInventory }
func (InInventory) Holder() *uuid.UUID { return nil }
func (InInventory) SellPrice() *decimal.Decimal { return nil }
func (InInventory) isState() {}

// WithEmployee is an item in the care of a field employee
type WithEmployee struct {
	HolderID uuid.UUID
}

func (WithEmployee) Status() Status { return StatusWithEmployee }

func (s WithEmployee) Holder() *uuid.UUID {
	h := s.HolderID
	return &h
}

func (WithEmployee) SellPrice() *decimal.Decimal { return nil }
func (WithEmployee) isState() {}

// Sold is a sold item. HolderID records the employee who made the sale, if any.
type Sold struct {
	HolderID *uuid.UUID
	Price    *decimal.Decimal
}

func (Sold) Status() Status { return StatusSold }

func (s Sold) Holder() *uuid.UUID {
	if s.HolderID == nil {
		return nil
	}
	h := *s.HolderID
	return &h
}

func (s Sold) SellPrice() *decimal.Decimal {
	if s.Price == nil {
		return nil
	}
	p := *s.Price
	return &p
}

func (Sold) isState() {}

// StateFromParts rebuilds a State from its stored columns and checks that the
// combination is one the lifecycle can produce.
func StateFromParts(status Status, holder *uuid.UUID, price *decimal.Decimal) (State, error) {
	switch status {
	case StatusInInventory:
		if holder != nil || price != nil {
			return nil, ErrInconsistentState
		}
		return InInventory{}, nil
	case StatusWithEmployee:
		if holder == nil || price != nil {
			return nil, ErrInconsistentState
		}
		return WithEmployee{HolderID: *holder}, nil
	case StatusSold:
		return Sold{HolderID: holder, Price: price}, nil
	}
	return nil, ErrInvalidStatus.WithDetails(map[string]interface{}{"status": string(status)})
}
