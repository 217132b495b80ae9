// Package seed carga la lista inicial de artículos desde un archivo YAML y,
// opcionalmente, la recarga en el store cuando el archivo cambia.
//
// Formato:
//
//	items:
//	  - name: Item1
//	    quantity: 10
//	  - name: Item2
//	    quantity: 5
package seed

import (
	"fmt"
	"os"
	"strings"

	"golang.org/x/text/unicode/norm"
	"gopkg.in/yaml.v3"

	"github.com/jhoicas/stock-notifier/internal/domain"
	"github.com/jhoicas/stock-notifier/internal/domain/entity"
)

type file struct {
	Items []fileItem `yaml:"items"`
}

type fileItem struct {
	Name     string `yaml:"name"`
	Quantity int    `yaml:"quantity"`
}

// Load lee y valida el archivo de seed.
func Load(path string) ([]entity.StockItem, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("seed: leer %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodifica el YAML, normaliza los nombres (NFC, sin espacios extremos) y
// combina nombres repetidos sumando cantidades.
func Parse(data []byte) ([]entity.StockItem, error) {
	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("seed: yaml inválido: %w", err)
	}
	items := make([]entity.StockItem, 0, len(f.Items))
	for i, it := range f.Items {
		item := entity.StockItem{
			Name:     norm.NFC.String(strings.TrimSpace(it.Name)),
			Quantity: it.Quantity,
		}
		if !item.Validate() {
			return nil, fmt.Errorf("seed: item %d (%q, %d): %w", i, it.Name, it.Quantity, domain.ErrInvalidInput)
		}
		items = append(items, item)
	}
	return entity.CombineByName(items), nil
}
