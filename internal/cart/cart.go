// Copyright 2024 Google LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package cart holds the device's shopping cart: an insertion-ordered list
// of line items, at most one per product ID, with quantities capped by the
// inventory figure captured in each item's product snapshot. Inventory
// enforcement here is a client-side guard only; the backend re-validates at
// order creation.
package cart

import (
	"sync"

	"github.com/FMSAccount/ecommerceapp/internal/model"
	"github.com/FMSAccount/ecommerceapp/internal/money"
)

// Result reports the outcome of a cart mutation, so callers can surface
// feedback instead of re-deriving the constraint from store state.
type Result int

const (
	// OK means the mutation was applied.
	OK Result = iota
	// OutOfStock means the product snapshot has zero inventory.
	OutOfStock
	// StockLimitReached means the requested quantity would exceed the
	// inventory captured in the product snapshot.
	StockLimitReached
	// NotInCart means no line item exists for the product ID.
	NotInCart
	// InvalidQuantity means the requested quantity is negative.
	InvalidQuantity
)

func (r Result) String() string {
	switch r {
	case OK:
		return "ok"
	case OutOfStock:
		return "out of stock"
	case StockLimitReached:
		return "stock limit reached"
	case NotInCart:
		return "not in cart"
	case InvalidQuantity:
		return "invalid quantity"
	}
	return "unknown"
}

// Item is one cart line: a product snapshot and the selected quantity
// (always >= 1 while the item exists).
type Item struct {
	Product  model.Product
	Quantity int
}

// Store is the authoritative client-side view of the shopping cart.
// Construct one per application lifecycle and pass it to consumers.
type Store struct {
	mu    sync.Mutex
	items []Item
}

// New returns an empty cart store.
func New() *Store {
	return &Store{}
}

// Add inserts a new line item with quantity 1, or increments the quantity of
// an existing line by 1. The mutation is rejected when the product is out of
// stock or the line already sits at the snapshot's inventory ceiling.
func (s *Store) Add(p model.Product) Result {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.items {
		if s.items[i].Product.ID != p.ID {
			continue
		}
		if s.items[i].Quantity+1 > s.items[i].Product.Inventory {
			return StockLimitReached
		}
		s.items[i].Quantity++
		return OK
	}
	if p.Inventory == 0 {
		return OutOfStock
	}
	s.items = append(s.items, Item{Product: p, Quantity: 1})
	return OK
}

// Remove deletes the line item for productID. Removing an absent product is
// reported as NotInCart and leaves the cart unchanged.
func (s *Store) Remove(productID string) Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.removeLocked(productID)
}

func (s *Store) removeLocked(productID string) Result {
	for i := range s.items {
		if s.items[i].Product.ID == productID {
			s.items = append(s.items[:i], s.items[i+1:]...)
			return OK
		}
	}
	return NotInCart
}

// UpdateQuantity sets the quantity of the line item for productID. A
// quantity of zero removes the line. Quantities above the snapshot's
// inventory are rejected and the prior quantity is retained.
func (s *Store) UpdateQuantity(productID string, quantity int) Result {
	s.mu.Lock()
	defer s.mu.Unlock()

	if quantity < 0 {
		return InvalidQuantity
	}
	if quantity == 0 {
		return s.removeLocked(productID)
	}
	for i := range s.items {
		if s.items[i].Product.ID != productID {
			continue
		}
		if quantity > s.items[i].Product.Inventory {
			return StockLimitReached
		}
		s.items[i].Quantity = quantity
		return OK
	}
	return NotInCart
}

// Clear empties the cart unconditionally. Used after a successful checkout
// handoff.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = nil
}

// Items returns a copy of the cart lines in insertion order.
func (s *Store) Items() []Item {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Item, len(s.items))
	copy(out, s.items)
	return out
}

// Snapshot returns the cart as backend order lines, in insertion order.
func (s *Store) Snapshot() []model.CartItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.CartItem, len(s.items))
	for i, it := range s.items {
		out[i] = model.CartItem{ProductID: it.Product.ID, Quantity: it.Quantity}
	}
	return out
}

// Total folds price*quantity over all lines. Recomputed on every call so it
// is always consistent with current state.
func (s *Store) Total() money.Money {
	s.mu.Lock()
	defer s.mu.Unlock()

	total := money.Money{CurrencyCode: currency}
	for _, it := range s.items {
		line := money.MultiplySlow(money.FromFloat(currency, it.Product.Price), uint32(it.Quantity))
		total = money.Must(money.Sum(total, line))
	}
	return total
}

// ItemCount returns the total unit count across all lines, which is distinct
// from the number of lines.
func (s *Store) ItemCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, it := range s.items {
		n += it.Quantity
	}
	return n
}

// The backend prices everything in US dollars.
const currency = "USD"
