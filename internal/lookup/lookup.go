// Package lookup provides in-memory access to read-only reference data
// (payment systems, references, accounts, PAN card types) fetched once per form.
package lookup

import (
	"sort"
	"strings"

	"github.com/investdesk/desk/internal/model"
)

// Table indexes a fetched lookup collection by id and by case-insensitive name.
type Table[T any] struct {
	items  []T
	byID   map[string]T
	byName map[string]T
}

// New builds a Table from items using key to extract id and display name.
func New[T any](items []T, key func(T) (id, name string)) *Table[T] {
	t := &Table[T]{
		items:  items,
		byID:   make(map[string]T, len(items)),
		byName: make(map[string]T, len(items)),
	}
	for _, it := range items {
		id, name := key(it)
		t.byID[id] = it
		t.byName[strings.ToLower(strings.TrimSpace(name))] = it
	}
	return t
}

// All returns all items in fetch order.
func (t *Table[T]) All() []T {
	return t.items
}

// Len returns the number of items.
func (t *Table[T]) Len() int {
	return len(t.items)
}

// Get returns an item by id.
func (t *Table[T]) Get(id string) (T, bool) {
	it, ok := t.byID[id]
	return it, ok
}

// Exists reports whether an id is present.
func (t *Table[T]) Exists(id string) bool {
	_, ok := t.byID[id]
	return ok
}

// ByName returns the item whose name matches, ignoring case and surrounding space.
func (t *Table[T]) ByName(name string) (T, bool) {
	it, ok := t.byName[strings.ToLower(strings.TrimSpace(name))]
	return it, ok
}

// Resolve accepts either an id or a name and returns the id.
func (t *Table[T]) Resolve(idOrName string, key func(T) (id, name string)) (string, bool) {
	if t.Exists(idOrName) {
		return idOrName, true
	}
	it, ok := t.ByName(idOrName)
	if !ok {
		return "", false
	}
	id, _ := key(it)
	return id, true
}

// Filter returns items whose name contains term, case-insensitively.
func (t *Table[T]) Filter(term string, key func(T) (id, name string)) []T {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return t.items
	}
	var out []T
	for _, it := range t.items {
		_, name := key(it)
		if strings.Contains(strings.ToLower(name), term) {
			out = append(out, it)
		}
	}
	return out
}

// Names returns the display names sorted alphabetically.
func (t *Table[T]) Names(key func(T) (id, name string)) []string {
	names := make([]string, 0, len(t.items))
	for _, it := range t.items {
		_, name := key(it)
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Key functions for the model lookup types.
func PaymentSystemKey(p model.PaymentSystem) (string, string) { return p.ID, p.Name }
func ReferenceKey(r model.Reference) (string, string)         { return r.ID, r.Name }
func AccountKey(a model.Account) (string, string)             { return a.ID, a.Name }
func PanCardTypeKey(p model.PanCardType) (string, string)     { return p.ID, p.Name }
func InvestorKey(i model.Investor) (string, string)           { return i.ID, i.Name }

// PaymentSystems indexes payment systems.
func PaymentSystems(items []model.PaymentSystem) *Table[model.PaymentSystem] {
	return New(items, PaymentSystemKey)
}

// References indexes references.
func References(items []model.Reference) *Table[model.Reference] {
	return New(items, ReferenceKey)
}

// Accounts indexes company accounts.
func Accounts(items []model.Account) *Table[model.Account] {
	return New(items, AccountKey)
}

// PanCardTypes indexes PAN card types.
func PanCardTypes(items []model.PanCardType) *Table[model.PanCardType] {
	return New(items, PanCardTypeKey)
}
