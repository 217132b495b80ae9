package ports

import (
	"context"
	"time"

	"github.com/jhoicas/stock-notifier/internal/domain/entity"
)

// StockReportGenerator genera la representación PDF de un snapshot.
type StockReportGenerator interface {
	GenerateStockReport(ctx context.Context, snapshot entity.Snapshot, generatedAt time.Time) ([]byte, error)
}
