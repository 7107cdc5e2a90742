package memory

import (
	"context"
	"sync"

	"github.com/Apurer/storefront-cart/internal/domains/cart/ports"
)

var _ ports.Store = (*Store)(nil)

// Store is an in-memory key/value snapshot store.
type Store struct {
	values sync.Map
}

func NewStore() *Store {
	return &Store{}
}

func (s *Store) Read(_ context.Context, key string) (string, bool, error) {
	v, ok := s.values.Load(key)
	if !ok {
		return "", false, nil
	}
	return v.(string), true, nil
}

func (s *Store) Write(_ context.Context, key, value string) error {
	s.values.Store(key, value)
	return nil
}

// Clear removes key, mimicking storage being wiped outside the service.
func (s *Store) Clear(key string) {
	s.values.Delete(key)
}
