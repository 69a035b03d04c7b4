package services

import (
	"slices"
	"sync"

	"shophub/models"
)

// CartCommand is one of AddItem, RemoveItem, UpdateQuantity or ClearCart.
type CartCommand interface {
	cartCommand()
}

// AddItem adds Quantity units of Product, appending a new line the first
// time. A Quantity below 1 adds a single unit.
type AddItem struct {
	Product  models.Product
	Quantity int
}

// RemoveItem drops the line for ProductID. Unknown ids are ignored.
type RemoveItem struct {
	ProductID int
}

// UpdateQuantity replaces the quantity of a line. Negative values count as
// zero and zero removes the line.
type UpdateQuantity struct {
	ProductID int
	Quantity  int
}

// ClearCart empties the cart.
type ClearCart struct{}

func (AddItem) cartCommand()        {}
func (RemoveItem) cartCommand()     {}
func (UpdateQuantity) cartCommand() {}
func (ClearCart) cartCommand()      {}

// ReduceCart applies cmd to state and returns the new state. It never
// modifies state; the derived totals of the result are always recomputed
// from its lines.
func ReduceCart(state models.CartState, cmd CartCommand) models.CartState {
	switch c := cmd.(type) {
	case AddItem:
		units := max(c.Quantity, 1)
		items := make([]models.CartLine, 0, len(state.Items)+1)
		found := false
		for _, item := range state.Items {
			if item.ID == c.Product.ID {
				item.Quantity += units
				found = true
			}
			items = append(items, item)
		}
		if !found {
			items = append(items, models.CartLine{Product: c.Product, Quantity: units})
		}
		return models.NewCartState(items)

	case RemoveItem:
		items := make([]models.CartLine, 0, len(state.Items))
		for _, item := range state.Items {
			if item.ID != c.ProductID {
				items = append(items, item)
			}
		}
		return models.NewCartState(items)

	case UpdateQuantity:
		quantity := max(c.Quantity, 0)
		items := make([]models.CartLine, 0, len(state.Items))
		for _, item := range state.Items {
			if item.ID == c.ProductID {
				item.Quantity = quantity
			}
			if item.Quantity > 0 {
				items = append(items, item)
			}
		}
		return models.NewCartState(items)

	case ClearCart:
		return models.EmptyCart()

	default:
		return state
	}
}

// CartObserver receives the cart state after every applied command. It runs
// synchronously on the dispatching goroutine and must not dispatch commands
// to the same store.
type CartObserver func(models.CartState)

// CartStore owns one cart. All mutations go through Dispatch, which applies
// commands one at a time.
type CartStore struct {
	dispatchMu sync.Mutex

	mu        sync.RWMutex
	state     models.CartState
	observers []subscription
	nextID    int
}

type subscription struct {
	id       int
	observer CartObserver
}

func NewCartStore() *CartStore {
	return &CartStore{
		state: models.EmptyCart(),
	}
}

// Dispatch applies cmd, notifies observers and returns the new state.
func (s *CartStore) Dispatch(cmd CartCommand) models.CartState {
	s.dispatchMu.Lock()
	defer s.dispatchMu.Unlock()

	s.mu.Lock()
	s.state = ReduceCart(s.state, cmd)
	next := s.state.Clone()
	observers := make([]CartObserver, 0, len(s.observers))
	for _, sub := range s.observers {
		observers = append(observers, sub.observer)
	}
	s.mu.Unlock()

	for _, observer := range observers {
		observer(next.Clone())
	}
	return next
}

func (s *CartStore) AddItem(product models.Product) models.CartState {
	return s.Dispatch(AddItem{Product: product})
}

// AddItems adds quantity units of product in a single dispatch. A quantity
// below 1 adds a single unit.
func (s *CartStore) AddItems(product models.Product, quantity int) models.CartState {
	return s.Dispatch(AddItem{Product: product, Quantity: quantity})
}

func (s *CartStore) RemoveItem(productID int) models.CartState {
	return s.Dispatch(RemoveItem{ProductID: productID})
}

func (s *CartStore) UpdateQuantity(productID, quantity int) models.CartState {
	return s.Dispatch(UpdateQuantity{ProductID: productID, Quantity: quantity})
}

func (s *CartStore) ClearCart() models.CartState {
	return s.Dispatch(ClearCart{})
}

// State returns a copy of the current cart.
func (s *CartStore) State() models.CartState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Clone()
}

// Subscribe registers observer and returns a func that removes it.
// Observers are notified in the order they subscribed.
func (s *CartStore) Subscribe(observer CartObserver) func() {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextID
	s.nextID++
	s.observers = append(s.observers, subscription{id: id, observer: observer})

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.observers = slices.DeleteFunc(s.observers, func(sub subscription) bool {
			return sub.id == id
		})
	}
}
