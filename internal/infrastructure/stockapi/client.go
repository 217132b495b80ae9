package stockapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/jhoicas/stock-notifier/internal/application/dto"
	"github.com/jhoicas/stock-notifier/internal/application/ports"
	"github.com/jhoicas/stock-notifier/internal/domain"
	"github.com/jhoicas/stock-notifier/internal/domain/entity"
)

// Verificar en tiempo de compilación que Client implementa SnapshotSource.
var _ ports.SnapshotSource = (*Client)(nil)

// Client lee el stock de otra instancia vía GET {baseURL}/stock.
// Se usa cuando el bot y la API corren en procesos separados.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient construye el cliente. timeout <= 0 deja la llamada sin límite propio
// (sigue aplicando la cancelación del contexto).
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Snapshot implementa ports.SnapshotSource. Todo fallo envuelve domain.ErrFetch.
func (c *Client) Snapshot(ctx context.Context) (entity.Snapshot, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/stock", nil)
	if err != nil {
		return entity.Snapshot{}, fmt.Errorf("%w: crear request: %v", domain.ErrFetch, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return entity.Snapshot{}, fmt.Errorf("%w: GET /stock: %v", domain.ErrFetch, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return entity.Snapshot{}, fmt.Errorf("%w: leer respuesta: %v", domain.ErrFetch, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return entity.Snapshot{}, fmt.Errorf("%w: HTTP %d: %s", domain.ErrFetch, resp.StatusCode, string(body))
	}

	var items []dto.StockItemDTO
	if err := json.Unmarshal(body, &items); err != nil {
		return entity.Snapshot{}, fmt.Errorf("%w: deserializar respuesta: %v", domain.ErrFetch, err)
	}
	snap, err := dto.FromStockItemDTOs(items)
	if err != nil {
		return entity.Snapshot{}, fmt.Errorf("%w: respuesta con artículo inválido: %w", domain.ErrFetch, err)
	}
	return snap, nil
}
