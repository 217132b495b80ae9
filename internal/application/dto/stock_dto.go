package dto

import (
	"fmt"

	"github.com/jhoicas/stock-notifier/internal/domain"
	"github.com/jhoicas/stock-notifier/internal/domain/entity"
)

// StockItemDTO elemento del arreglo devuelto por GET /stock.
type StockItemDTO struct {
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
}

// ToStockItemDTOs convierte un snapshot al arreglo ordenado de la API. Nunca devuelve nil
// para que un store vacío se serialice como [] y no como null.
func ToStockItemDTOs(s entity.Snapshot) []StockItemDTO {
	items := s.Items()
	out := make([]StockItemDTO, 0, len(items))
	for _, it := range items {
		out = append(out, StockItemDTO{Name: it.Name, Quantity: it.Quantity})
	}
	return out
}

// FromStockItemDTOs convierte la respuesta de la API en un snapshot.
// Retorna domain.ErrInvalidInput si algún artículo no pasa StockItem.Validate.
func FromStockItemDTOs(in []StockItemDTO) (entity.Snapshot, error) {
	items := make([]entity.StockItem, 0, len(in))
	for i, it := range in {
		item := entity.StockItem{Name: it.Name, Quantity: it.Quantity}
		if !item.Validate() {
			return entity.Snapshot{}, fmt.Errorf("item %d (%q, %d): %w", i, it.Name, it.Quantity, domain.ErrInvalidInput)
		}
		items = append(items, item)
	}
	return entity.NewSnapshot(items), nil
}
