package memory

import (
	"fmt"
	"sync"

	"github.com/jhoicas/stock-notifier/internal/domain"
	"github.com/jhoicas/stock-notifier/internal/domain/entity"
	"github.com/jhoicas/stock-notifier/internal/domain/repository"
)

var _ repository.StockStore = (*StockStore)(nil)

// StockStore implementación en memoria de repository.StockStore, segura para uso concurrente.
type StockStore struct {
	mu    sync.RWMutex
	items []entity.StockItem
}

// NewStockStore construye el store con la lista inicial. Retorna error si algún artículo es inválido.
func NewStockStore(seed []entity.StockItem) (*StockStore, error) {
	s := &StockStore{}
	if err := s.Set(seed); err != nil {
		return nil, err
	}
	return s, nil
}

// Get devuelve un snapshot independiente del estado interno.
func (s *StockStore) Get() entity.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return entity.NewSnapshot(s.items)
}

// Set reemplaza todos los artículos. Si alguno es inválido no se modifica nada.
func (s *StockStore) Set(items []entity.StockItem) error {
	for i, it := range items {
		if !it.Validate() {
			return fmt.Errorf("item %d (%q, %d): %w", i, it.Name, it.Quantity, domain.ErrInvalidInput)
		}
	}
	cp := make([]entity.StockItem, len(items))
	copy(cp, items)

	s.mu.Lock()
	s.items = cp
	s.mu.Unlock()
	return nil
}
