package inventory

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/itemtrack/backend/internal/domain/identity"
	"github.com/itemtrack/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	tenantID uuid.UUID
	typeID   uuid.UUID
	owner    identity.Actor
	emp1     identity.Holder
	emp2     identity.Holder
}

func newFixture() fixture {
	tenantID := uuid.New()
	return fixture{
		tenantID: tenantID,
		typeID:   uuid.New(),
		owner:    identity.NewActor(tenantID, uuid.New(), identity.RoleOwner),
		emp1:     identity.Holder{UserID: uuid.New(), TenantID: tenantID, FieldEmployee: true},
		emp2:     identity.Holder{UserID: uuid.New(), TenantID: tenantID, FieldEmployee: true},
	}
}

func (f fixture) employee(h identity.Holder) identity.Actor {
	return identity.NewActor(f.tenantID, h.UserID, identity.RoleEmployee)
}

func (f fixture) itemIn(state State) *Item {
	item := NewItem(f.tenantID, f.typeID, f.owner.UserID, "", time.Now())
	item.State = state
	return item
}

func price(v int64) *decimal.Decimal {
	p := decimal.NewFromInt(v)
	return &p
}

func TestTransitionTable_Completeness(t *testing.T) {
	f := newFixture()
	states := map[Status]State{
		StatusInInventory:  InInventory{},
		StatusWithEmployee: WithEmployee{HolderID: f.emp1.UserID},
		StatusSold:         Sold{HolderID: &f.emp1.UserID},
	}

	for _, from := range AllStatuses() {
		for _, to := range AllStatuses() {
			req := ChangeRequest{Target: to, Actor: f.owner}
			if to == StatusWithEmployee {
				req.Holder = &f.emp1
			}
			_, _, err := Transition(f.itemIn(states[from]), req, ReturnPolicyPermissive)

			if IsAllowed(from, to) {
				assert.NoError(t, err, "%s -> %s should be allowed", from, to)
			} else {
				assert.Error(t, err, "%s -> %s should be refused", from, to)
			}
		}
	}
}

func TestCheckEdge(t *testing.T) {
	t.Run("sold to sold is already sold", func(t *testing.T) {
		assert.True(t, errors.Is(CheckEdge(StatusSold, StatusSold), ErrAlreadySold))
	})

	t.Run("sold to inventory is invalid", func(t *testing.T) {
		assert.True(t, errors.Is(CheckEdge(StatusSold, StatusInInventory), ErrInvalidTransition))
	})

	t.Run("inventory to inventory is invalid", func(t *testing.T) {
		assert.True(t, errors.Is(CheckEdge(StatusInInventory, StatusInInventory), ErrInvalidTransition))
	})

	t.Run("unknown status is rejected", func(t *testing.T) {
		assert.True(t, errors.Is(CheckEdge(StatusInInventory, Status("LOST")), ErrInvalidStatus))
	})
}

func TestTransition_SideEffects(t *testing.T) {
	f := newFixture()

	t.Run("assigning sets holder and appends history", func(t *testing.T) {
		item := f.itemIn(InInventory{})
		next, ev, err := Transition(item, ChangeRequest{Target: StatusWithEmployee, Holder: &f.emp1, Actor: f.owner, Notes: "route A"}, DefaultReturnPolicy)
		require.NoError(t, err)

		assert.Equal(t, StatusWithEmployee, next.Status())
		assert.Equal(t, f.emp1.UserID, *next.Holder())
		require.Len(t, next.History, 2)
		assert.Equal(t, "route A", next.History[1].Notes)
		assert.Equal(t, f.owner.UserID, next.History[1].ChangedBy)
		assert.Equal(t, 2, next.Version)

		assert.Equal(t, StatusInInventory, ev.FromStatus)
		assert.Equal(t, StatusWithEmployee, ev.ToStatus)
		assert.False(t, ev.IsReturn)

		// the input is untouched
		assert.Equal(t, StatusInInventory, item.Status())
		assert.Len(t, item.History, 1)
	})

	t.Run("direct sale leaves holder unset", func(t *testing.T) {
		next, _, err := Transition(f.itemIn(InInventory{}), ChangeRequest{Target: StatusSold, Price: price(12), Actor: f.owner}, DefaultReturnPolicy)
		require.NoError(t, err)
		assert.Nil(t, next.Holder())
		assert.True(t, decimal.NewFromInt(12).Equal(*next.SellPrice()))
	})

	t.Run("sale keeps the holder for attribution", func(t *testing.T) {
		next, _, err := Transition(f.itemIn(WithEmployee{HolderID: f.emp1.UserID}), ChangeRequest{Target: StatusSold, Price: price(9), Actor: f.employee(f.emp1)}, DefaultReturnPolicy)
		require.NoError(t, err)
		assert.Equal(t, StatusSold, next.Status())
		assert.Equal(t, f.emp1.UserID, *next.Holder())
		assert.Equal(t, f.emp1.UserID, *next.History[1].Holder)
	})

	t.Run("return to stock clears the holder", func(t *testing.T) {
		next, _, err := Transition(f.itemIn(WithEmployee{HolderID: f.emp1.UserID}), ChangeRequest{Target: StatusInInventory, Actor: f.owner}, DefaultReturnPolicy)
		require.NoError(t, err)
		assert.Nil(t, next.Holder())
		assert.Nil(t, next.History[1].Holder)
	})

	t.Run("reassignment replaces the holder", func(t *testing.T) {
		next, _, err := Transition(f.itemIn(WithEmployee{HolderID: f.emp1.UserID}), ChangeRequest{Target: StatusWithEmployee, Holder: &f.emp2, Actor: f.owner}, DefaultReturnPolicy)
		require.NoError(t, err)
		assert.Equal(t, f.emp2.UserID, *next.Holder())
	})

	t.Run("return of a sold item clears the price", func(t *testing.T) {
		item := f.itemIn(Sold{HolderID: &f.emp1.UserID, Price: price(5)})
		next, ev, err := Transition(item, ChangeRequest{Target: StatusWithEmployee, Holder: &f.emp1, Actor: f.owner}, DefaultReturnPolicy)
		require.NoError(t, err)
		assert.Nil(t, next.SellPrice())
		assert.True(t, ev.IsReturn)
	})
}

func TestTransition_Holder(t *testing.T) {
	f := newFixture()

	t.Run("missing holder", func(t *testing.T) {
		_, _, err := Transition(f.itemIn(InInventory{}), ChangeRequest{Target: StatusWithEmployee, Actor: f.owner}, DefaultReturnPolicy)
		assert.True(t, errors.Is(err, ErrInvalidHolder))
	})

	t.Run("holder from another tenant", func(t *testing.T) {
		other := identity.Holder{UserID: uuid.New(), TenantID: uuid.New(), FieldEmployee: true}
		_, _, err := Transition(f.itemIn(InInventory{}), ChangeRequest{Target: StatusWithEmployee, Holder: &other, Actor: f.owner}, DefaultReturnPolicy)
		assert.True(t, errors.Is(err, ErrInvalidHolder))
	})

	t.Run("holder without field employee capability", func(t *testing.T) {
		h := identity.Holder{UserID: uuid.New(), TenantID: f.tenantID}
		_, _, err := Transition(f.itemIn(InInventory{}), ChangeRequest{Target: StatusWithEmployee, Holder: &h, Actor: f.owner}, DefaultReturnPolicy)
		assert.True(t, errors.Is(err, ErrInvalidHolder))
	})

	t.Run("holder given for a sale", func(t *testing.T) {
		_, _, err := Transition(f.itemIn(InInventory{}), ChangeRequest{Target: StatusSold, Holder: &f.emp1, Actor: f.owner}, DefaultReturnPolicy)
		assert.True(t, errors.Is(err, ErrInvalidHolder))
	})
}

func TestTransition_RoleLayer(t *testing.T) {
	f := newFixture()
	emp := f.employee(f.emp1)

	t.Run("employee cannot take stock from inventory", func(t *testing.T) {
		_, _, err := Transition(f.itemIn(InInventory{}), ChangeRequest{Target: StatusWithEmployee, Holder: &f.emp1, Actor: emp}, DefaultReturnPolicy)
		assert.True(t, errors.Is(err, shared.ErrAccessDenied))
	})

	t.Run("employee cannot reassign held items", func(t *testing.T) {
		_, _, err := Transition(f.itemIn(WithEmployee{HolderID: f.emp1.UserID}), ChangeRequest{Target: StatusWithEmployee, Holder: &f.emp2, Actor: emp}, DefaultReturnPolicy)
		assert.True(t, errors.Is(err, shared.ErrAccessDenied))
	})

	t.Run("employee cannot touch items of others", func(t *testing.T) {
		_, _, err := Transition(f.itemIn(WithEmployee{HolderID: f.emp2.UserID}), ChangeRequest{Target: StatusSold, Actor: emp}, DefaultReturnPolicy)
		assert.True(t, errors.Is(err, shared.ErrAccessDenied))
	})

	t.Run("employee can process a return of their own sale", func(t *testing.T) {
		next, _, err := Transition(f.itemIn(Sold{HolderID: &f.emp1.UserID}), ChangeRequest{Target: StatusWithEmployee, Holder: &f.emp1, Actor: emp}, DefaultReturnPolicy)
		require.NoError(t, err)
		assert.Equal(t, StatusWithEmployee, next.Status())
	})

	t.Run("employee cannot sell a sold item again", func(t *testing.T) {
		_, _, err := Transition(f.itemIn(Sold{HolderID: &f.emp1.UserID}), ChangeRequest{Target: StatusSold, Actor: emp}, DefaultReturnPolicy)
		assert.True(t, errors.Is(err, ErrAlreadySold))
	})

	t.Run("super admin without impersonation is read only", func(t *testing.T) {
		admin := identity.NewActor(f.tenantID, uuid.New(), identity.RoleSuperAdmin)
		_, _, err := Transition(f.itemIn(InInventory{}), ChangeRequest{Target: StatusSold, Actor: admin}, DefaultReturnPolicy)
		assert.True(t, errors.Is(err, shared.ErrAccessDenied))

		admin.Impersonating = true
		_, _, err = Transition(f.itemIn(InInventory{}), ChangeRequest{Target: StatusSold, Actor: admin}, DefaultReturnPolicy)
		assert.NoError(t, err)
	})

	t.Run("actor from another tenant sees not found", func(t *testing.T) {
		stranger := identity.NewActor(uuid.New(), uuid.New(), identity.RoleOwner)
		_, _, err := Transition(f.itemIn(InInventory{}), ChangeRequest{Target: StatusSold, Actor: stranger}, DefaultReturnPolicy)
		assert.True(t, errors.Is(err, shared.ErrNotFound))
	})
}

func TestTransition_ReturnPolicy(t *testing.T) {
	f := newFixture()
	soldBy1 := func() *Item { return f.itemIn(Sold{HolderID: &f.emp1.UserID}) }

	t.Run("same holder rejects a different receiver", func(t *testing.T) {
		_, _, err := Transition(soldBy1(), ChangeRequest{Target: StatusWithEmployee, Holder: &f.emp2, Actor: f.owner}, ReturnPolicySameHolder)
		assert.True(t, errors.Is(err, ErrInvalidHolder))
	})

	t.Run("same holder accepts any receiver for direct sales", func(t *testing.T) {
		_, _, err := Transition(f.itemIn(Sold{}), ChangeRequest{Target: StatusWithEmployee, Holder: &f.emp2, Actor: f.owner}, ReturnPolicySameHolder)
		assert.NoError(t, err)
	})

	t.Run("permissive accepts a different receiver", func(t *testing.T) {
		_, _, err := Transition(soldBy1(), ChangeRequest{Target: StatusWithEmployee, Holder: &f.emp2, Actor: f.owner}, ReturnPolicyPermissive)
		assert.NoError(t, err)
	})

	t.Run("owner only refuses employees", func(t *testing.T) {
		_, _, err := Transition(soldBy1(), ChangeRequest{Target: StatusWithEmployee, Holder: &f.emp1, Actor: f.employee(f.emp1)}, ReturnPolicyOwnerOnly)
		assert.True(t, errors.Is(err, shared.ErrAccessDenied))

		_, _, err = Transition(soldBy1(), ChangeRequest{Target: StatusWithEmployee, Holder: &f.emp1, Actor: f.owner}, ReturnPolicyOwnerOnly)
		assert.NoError(t, err)
	})
}

func TestTransition_Price(t *testing.T) {
	f := newFixture()

	t.Run("negative price is rejected", func(t *testing.T) {
		_, _, err := Transition(f.itemIn(InInventory{}), ChangeRequest{Target: StatusSold, Price: price(-1), Actor: f.owner}, DefaultReturnPolicy)
		assert.True(t, errors.Is(err, ErrInvalidPrice))
	})

	t.Run("price outside a sale is rejected", func(t *testing.T) {
		_, _, err := Transition(f.itemIn(WithEmployee{HolderID: f.emp1.UserID}), ChangeRequest{Target: StatusInInventory, Price: price(3), Actor: f.owner}, DefaultReturnPolicy)
		assert.True(t, errors.Is(err, ErrInvalidPrice))
	})
}

func TestTransition_Deterministic(t *testing.T) {
	f := newFixture()
	item := f.itemIn(Sold{HolderID: &f.emp1.UserID})
	req := ChangeRequest{Target: StatusSold, Actor: f.owner}

	for i := 0; i < 3; i++ {
		_, _, err := Transition(item, req, DefaultReturnPolicy)
		assert.True(t, errors.Is(err, ErrAlreadySold))
	}
	assert.Len(t, item.History, 1)
}

func TestTransition_HistoryAppendOnly(t *testing.T) {
	f := newFixture()
	item := f.itemIn(InInventory{})
	steps := []ChangeRequest{
		{Target: StatusWithEmployee, Holder: &f.emp1, Actor: f.owner},
		{Target: StatusSold, Price: price(10), Actor: f.employee(f.emp1)},
		{Target: StatusWithEmployee, Holder: &f.emp1, Actor: f.owner},
		{Target: StatusInInventory, Actor: f.owner},
	}

	for i, step := range steps {
		prior := append([]HistoryEntry(nil), item.History...)
		next, _, err := Transition(item, step, DefaultReturnPolicy)
		require.NoError(t, err, "step %d", i)
		require.Len(t, next.History, len(prior)+1)
		assert.Equal(t, prior, next.History[:len(prior)])
		assert.Equal(t, step.Target, next.History[len(prior)].Status)
		item = next
	}
	assert.Equal(t, StatusInInventory, item.History[0].Status)
}
