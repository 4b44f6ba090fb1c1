package sandbox

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Beer is the resource served under /beers.
type Beer struct {
	ID    int     `json:"id"`
	Name  string  `json:"name"`
	Style string  `json:"style,omitempty"`
	ABV   float64 `json:"abv,omitempty"`
}

func (b Beer) validate() error {
	if strings.TrimSpace(b.Name) == "" {
		return fmt.Errorf("%w: missing name", ErrBadRequest)
	}
	if b.ABV < 0 {
		return fmt.Errorf("%w: abv must not be negative", ErrBadRequest)
	}
	return nil
}

// Store is an in-memory beer collection safe for concurrent use.
type Store struct {
	mu     sync.RWMutex
	beers  map[int]Beer
	nextID int
}

// NewStore creates a store holding seed.
func NewStore(seed ...Beer) *Store {
	s := &Store{beers: make(map[int]Beer), nextID: 1}
	for _, b := range seed {
		_, _ = s.Create(context.Background(), b)
	}
	return s
}

// DefaultBeers is the seed used by cmd/sandbox.
func DefaultBeers() []Beer {
	return []Beer{
		{Name: "Pale Ale", Style: "APA", ABV: 5.2},
		{Name: "Dry Stout", Style: "Stout", ABV: 4.2},
		{Name: "Hefeweizen", Style: "Wheat", ABV: 5.4},
	}
}

// List returns one page of beers ordered by id. page is 1-based.
func (s *Store) List(_ context.Context, page, perPage int) []Beer {
	s.mu.RLock()
	defer s.mu.RUnlock()

	all := make([]Beer, 0, len(s.beers))
	for _, b := range s.beers {
		all = append(all, b)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })

	start := (page - 1) * perPage
	if start >= len(all) {
		return []Beer{}
	}
	end := start + perPage
	if end > len(all) {
		end = len(all)
	}
	return all[start:end]
}

// Get returns the beer with id.
func (s *Store) Get(_ context.Context, id int) (Beer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	b, ok := s.beers[id]
	if !ok {
		return Beer{}, ErrNotFound
	}
	return b, nil
}

// Create assigns an id to b and stores it.
func (s *Store) Create(_ context.Context, b Beer) (Beer, error) {
	if err := b.validate(); err != nil {
		return Beer{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	b.ID = s.nextID
	s.nextID++
	s.beers[b.ID] = b
	return b, nil
}

// Replace overwrites the beer with id.
func (s *Store) Replace(_ context.Context, id int, b Beer) (Beer, error) {
	if err := b.validate(); err != nil {
		return Beer{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.beers[id]; !ok {
		return Beer{}, ErrNotFound
	}
	b.ID = id
	s.beers[id] = b
	return b, nil
}

// BeerPatch holds the fields a PATCH may change.
type BeerPatch struct {
	Name  *string  `json:"name"`
	Style *string  `json:"style"`
	ABV   *float64 `json:"abv"`
}

// Patch applies the non-nil fields of p to the beer with id.
func (s *Store) Patch(_ context.Context, id int, p BeerPatch) (Beer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.beers[id]
	if !ok {
		return Beer{}, ErrNotFound
	}
	if p.Name != nil {
		b.Name = *p.Name
	}
	if p.Style != nil {
		b.Style = *p.Style
	}
	if p.ABV != nil {
		b.ABV = *p.ABV
	}
	if err := b.validate(); err != nil {
		return Beer{}, err
	}
	s.beers[id] = b
	return b, nil
}

// Delete removes the beer with id.
func (s *Store) Delete(_ context.Context, id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.beers[id]; !ok {
		return ErrNotFound
	}
	delete(s.beers, id)
	return nil
}

// Len reports how many beers are stored.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.beers)
}
