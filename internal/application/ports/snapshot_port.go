package ports

import (
	"context"

	"github.com/jhoicas/stock-notifier/internal/domain/entity"
)

// SnapshotSource define el puerto de lectura del stock que usa el dispatcher.
// La implementación en proceso es stock.QueryService; la remota es stockapi.Client.
// Los fallos deben envolver domain.ErrFetch.
type SnapshotSource interface {
	Snapshot(ctx context.Context) (entity.Snapshot, error)
}
