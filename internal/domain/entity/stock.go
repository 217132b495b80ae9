package entity

import (
	"strconv"
	"strings"
)

// StockItem representa un artículo rastreado y su cantidad disponible.
type StockItem struct {
	Name     string
	Quantity int
}

// Snapshot vista ordenada e inmutable del stock en un instante dado.
// El orden es el de inserción y coincide con el orden de presentación.
type Snapshot struct {
	items []StockItem
}

// NewSnapshot construye un snapshot copiando items; el llamador puede seguir usando su slice.
func NewSnapshot(items []StockItem) Snapshot {
	cp := make([]StockItem, len(items))
	copy(cp, items)
	return Snapshot{items: cp}
}

// Items devuelve una copia de los artículos en orden.
func (s Snapshot) Items() []StockItem {
	cp := make([]StockItem, len(s.items))
	copy(cp, s.items)
	return cp
}

// Len cantidad de artículos del snapshot.
func (s Snapshot) Len() int { return len(s.items) }

// Total suma de cantidades.
func (s Snapshot) Total() int {
	total := 0
	for _, it := range s.items {
		total += it.Quantity
	}
	return total
}

// Format renderiza cada artículo como "<name>: <quantity>" unidos por salto de línea.
// Un snapshot vacío produce texto vacío.
func (s Snapshot) Format() string {
	var b strings.Builder
	for i, it := range s.items {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(FormatItem(it))
	}
	return b.String()
}

// FormatItem línea de un artículo.
func FormatItem(it StockItem) string {
	return it.Name + ": " + strconv.Itoa(it.Quantity)
}

// Validate verifica nombre no vacío y de una sola línea, y cantidad no negativa.
// Un salto de línea en el nombre rompería la regla de una línea por artículo en Format.
func (it StockItem) Validate() bool {
	return strings.TrimSpace(it.Name) != "" &&
		!strings.ContainsAny(it.Name, "\r\n") &&
		it.Quantity >= 0
}

// CombineByName agrupa artículos con el mismo nombre sumando sus cantidades.
// Conserva la posición de la primera aparición de cada nombre.
func CombineByName(items []StockItem) []StockItem {
	index := make(map[string]int, len(items))
	out := make([]StockItem, 0, len(items))
	for _, it := range items {
		if i, ok := index[it.Name]; ok {
			out[i].Quantity += it.Quantity
			continue
		}
		index[it.Name] = len(out)
		out = append(out, it)
	}
	return out
}

// DefaultSeed lista inicial con la que arranca el store si no hay archivo de seed.
func DefaultSeed() []StockItem {
	return []StockItem{
		{Name: "Item1", Quantity: 10},
		{Name: "Item2", Quantity: 5},
		{Name: "Item3", Quantity: 20},
	}
}
