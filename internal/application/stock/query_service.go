package stock

import (
	"context"

	"github.com/jhoicas/stock-notifier/internal/application/ports"
	"github.com/jhoicas/stock-notifier/internal/domain/entity"
	"github.com/jhoicas/stock-notifier/internal/domain/repository"
)

var _ ports.SnapshotSource = (*QueryService)(nil)

// QueryService acceso de solo lectura al StockStore.
type QueryService struct {
	store repository.StockStore
}

// NewQueryService construye el servicio.
func NewQueryService(store repository.StockStore) *QueryService {
	return &QueryService{store: store}
}

// Snapshot implementa ports.SnapshotSource en proceso; nunca falla.
func (s *QueryService) Snapshot(_ context.Context) (entity.Snapshot, error) {
	return s.store.Get(), nil
}

// FetchFormatted devuelve el stock como "<name>: <quantity>" por línea.
// Es el texto que GET /stock entrega con Accept: text/plain.
func (s *QueryService) FetchFormatted() string {
	return s.store.Get().Format()
}
