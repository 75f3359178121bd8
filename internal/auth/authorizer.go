package auth

import (
	"context"
	"fmt"
	"sync"
)

// Action is one of the four permission flags. Unknown actions always deny.
type Action string

const (
	ActionView   Action = "view"
	ActionCreate Action = "create"
	ActionEdit   Action = "edit"
	ActionDelete Action = "delete"
)

// Module names used as permission table keys and route gates.
const (
	ModuleGarages   = "garages"
	ModuleCustomers = "customers"
	ModuleVehicles  = "vehicles"
	ModuleJobCards  = "job_cards"
	ModuleInvoices  = "invoices"
	ModuleInventory = "inventory"
	ModuleGatePass  = "gate_passes"
	ModuleReports   = "reports"
)

// PermissionSource loads the permission table from storage.
type PermissionSource interface {
	ListPermissions(ctx context.Context) ([]Permission, error)
}

type permKey struct {
	role   Role
	module string
}

type permFlags struct {
	view, create, edit, del bool
}

// Authorizer answers (role, module, action) questions from an in-memory copy
// of the permission table. Missing rows deny, so every grant is an explicit
// row — including grants to super_admin, which gets no implicit bypass.
type Authorizer struct {
	source PermissionSource

	mu    sync.RWMutex
	table map[permKey]permFlags
}

func NewAuthorizer(ctx context.Context, source PermissionSource) (*Authorizer, error) {
	a := &Authorizer{
		source: source,
		table:  make(map[permKey]permFlags),
	}
	if err := a.Reload(ctx); err != nil {
		return nil, err
	}
	return a, nil
}

// Reload replaces the cached table with a fresh read from storage.
func (a *Authorizer) Reload(ctx context.Context) error {
	perms, err := a.source.ListPermissions(ctx)
	if err != nil {
		return fmt.Errorf("load permissions: %w", err)
	}

	table := make(map[permKey]permFlags, len(perms))
	for _, p := range perms {
		table[permKey{role: p.Role, module: p.Module}] = permFlags{
			view:   p.CanView,
			create: p.CanCreate,
			edit:   p.CanEdit,
			del:    p.CanDelete,
		}
	}

	a.mu.Lock()
	a.table = table
	a.mu.Unlock()
	return nil
}

// HasPermission is deny-by-default: no row, unknown role and unknown action
// all answer false.
func (a *Authorizer) HasPermission(role Role, module string, action Action) bool {
	a.mu.RLock()
	flags, ok := a.table[permKey{role: role, module: module}]
	a.mu.RUnlock()
	if !ok {
		return false
	}

	switch action {
	case ActionView:
		return flags.view
	case ActionCreate:
		return flags.create
	case ActionEdit:
		return flags.edit
	case ActionDelete:
		return flags.del
	default:
		return false
	}
}
