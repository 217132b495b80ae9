// Package pdf genera el reporte imprimible del stock actual.
//
// Layout de la página A4:
//
//	┌──────────────────────────────────────────────┐
//	│  TÍTULO                   │  Fecha de corte   │
//	│  ──────────────────────────────────────────── │
//	│  TABLA: Artículo | Cantidad                   │
//	│  ──────────────────────────────────────────── │
//	│  TOTAL: artículos / unidades                  │
//	└──────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"strconv"
	"time"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/jhoicas/stock-notifier/internal/application/ports"
	"github.com/jhoicas/stock-notifier/internal/domain/entity"
)

var _ ports.StockReportGenerator = (*MarotoStockReport)(nil)

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

// MarotoStockReport implementa ports.StockReportGenerator usando Maroto v2.
type MarotoStockReport struct {
	title string
}

// NewMarotoStockReport construye el generador; title encabeza el documento.
func NewMarotoStockReport(title string) *MarotoStockReport {
	return &MarotoStockReport{title: title}
}

// GenerateStockReport genera el PDF y devuelve sus bytes.
func (g *MarotoStockReport) GenerateStockReport(
	_ context.Context,
	snapshot entity.Snapshot,
	generatedAt time.Time,
) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(15).WithRightMargin(15).
		WithTopMargin(15).WithBottomMargin(15).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 10}).
		WithTitle(g.title, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(g.title, generatedAt))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(tableHeaderRow())
	for _, r := range tableRows(snapshot.Items()) {
		m.AddRows(r)
	}
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalsRow(snapshot))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar reporte de stock: %w", err)
	}
	return doc.GetBytes(), nil
}

func headerRow(title string, generatedAt time.Time) core.Row {
	return row.New(16).Add(
		col.New(8).Add(
			text.New(title, props.Text{
				Style: fontstyle.Bold, Size: 14, Color: colorPrimary, Top: 2,
			}),
		),
		col.New(4).Add(
			text.New("Fecha de corte", props.Text{
				Size: 8, Align: align.Right, Top: 2, Color: colorGray,
			}),
			text.New(generatedAt.Format("02/01/2006 15:04 MST"), props.Text{
				Style: fontstyle.Bold, Size: 9, Align: align.Right, Top: 7,
			}),
		),
	)
}

func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 9, Align: a, Top: 2, Color: colorPrimary,
		}))
	}
	return row.New(9).Add(
		h("#", 1, align.Center),
		h("Artículo", 8, align.Left),
		h("Cantidad", 3, align.Right),
	)
}

func tableRows(items []entity.StockItem) []core.Row {
	rows := make([]core.Row, 0, len(items))
	for i, it := range items {
		rows = append(rows, row.New(7).Add(
			col.New(1).Add(text.New(strconv.Itoa(i+1),
				props.Text{Size: 9, Align: align.Center, Top: 1, Color: colorGray})),
			col.New(8).Add(text.New(it.Name,
				props.Text{Size: 9, Align: align.Left, Top: 1})),
			col.New(3).Add(text.New(strconv.Itoa(it.Quantity),
				props.Text{Size: 9, Align: align.Right, Top: 1, Right: 1})),
		))
	}
	return rows
}

func totalsRow(snapshot entity.Snapshot) core.Row {
	return row.New(10).Add(
		col.New(9).Add(text.New(fmt.Sprintf("Total (%d artículos)", snapshot.Len()), props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right, Top: 2,
		})),
		col.New(3).Add(text.New(strconv.Itoa(snapshot.Total()), props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right, Top: 2, Right: 1,
		})),
	)
}
