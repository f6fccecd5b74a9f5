// Package scale holds the shared quantity scale factor of one recipe.
package scale

import (
	"errors"
	"fmt"
	"math/big"
	"strings"
	"sync"
)

// ErrInvalidScale is matched by every *InvalidScaleError.
var ErrInvalidScale = errors.New("scale must be positive")

// ErrNestedSet is returned when Set is called while subscribers are still
// being notified of a previous Set.
var ErrNestedSet = errors.New("scale set during notification")

// InvalidScaleError reports a rejected scale value.
type InvalidScaleError struct {
	Value string
}

func (e *InvalidScaleError) Error() string {
	return fmt.Sprintf("invalid scale %q: must be positive", e.Value)
}

func (e *InvalidScaleError) Is(target error) bool {
	return target == ErrInvalidScale
}

// Listener receives the current scale. The value is a copy.
type Listener func(*big.Rat)

type subscription struct {
	id int
	fn Listener
}

// Store is a positive rational scale factor with ordered, synchronous
// change notification.
type Store struct {
	mu        sync.Mutex
	value     *big.Rat
	subs      []subscription
	nextID    int
	notifying bool
}

// New creates a store holding initial, or 1 when initial is nil.
func New(initial *big.Rat) (*Store, error) {
	if initial == nil {
		initial = big.NewRat(1, 1)
	}
	if initial.Sign() <= 0 {
		return nil, &InvalidScaleError{Value: initial.RatString()}
	}
	return &Store{value: new(big.Rat).Set(initial)}, nil
}

// NewDefault creates a store holding 1.
func NewDefault() *Store {
	return &Store{value: big.NewRat(1, 1)}
}

// Get returns a copy of the current scale.
func (s *Store) Get() *big.Rat {
	s.mu.Lock()
	defer s.mu.Unlock()
	return new(big.Rat).Set(s.value)
}

// Set replaces the scale and notifies every subscriber in subscription
// order before returning. Non-positive values are rejected and leave the
// store untouched.
func (s *Store) Set(v *big.Rat) error {
	if v == nil {
		return &InvalidScaleError{Value: "<nil>"}
	}
	if v.Sign() <= 0 {
		return &InvalidScaleError{Value: v.RatString()}
	}

	s.mu.Lock()
	if s.notifying {
		s.mu.Unlock()
		return ErrNestedSet
	}
	s.value = new(big.Rat).Set(v)
	subs := append([]subscription(nil), s.subs...)
	s.notifying = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.notifying = false
		s.mu.Unlock()
	}()
	for _, sub := range subs {
		sub.fn(new(big.Rat).Set(v))
	}
	return nil
}

// Parse reads a scale written as "2", "3/2" or "1.5". Non-positive values
// are rejected.
func Parse(v string) (*big.Rat, error) {
	r, ok := new(big.Rat).SetString(strings.TrimSpace(v))
	if !ok || r.Sign() <= 0 {
		return nil, &InvalidScaleError{Value: v}
	}
	return r, nil
}

// SetString parses v with Parse and sets it.
func (s *Store) SetString(v string) error {
	r, err := Parse(v)
	if err != nil {
		return err
	}
	return s.Set(r)
}

// Subscribe registers fn, calls it once with the current scale, and returns
// a function that removes the subscription.
func (s *Store) Subscribe(fn Listener) (unsubscribe func()) {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.subs = append(s.subs, subscription{id: id, fn: fn})
	current := new(big.Rat).Set(s.value)
	s.mu.Unlock()

	fn(current)

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			for i, sub := range s.subs {
				if sub.id == id {
					s.subs = append(s.subs[:i:i], s.subs[i+1:]...)
					return
				}
			}
		})
	}
}

// Subscribers returns the number of live subscriptions.
func (s *Store) Subscribers() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.subs)
}
