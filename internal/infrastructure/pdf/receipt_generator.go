// Package pdf genera el ticket de un pedido en PDF.
//
// Layout de la página A5:
//
//	┌─────────────────────────────────────────┐
//	│  OpenBar              Pedido N° / Fecha  │
//	│  Cliente: Nombre  |  Estado              │
//	│  ───────────────────────────────────────  │
//	│  Cant | Producto | P.Unit | Subtotal     │
//	│  ───────────────────────────────────────  │
//	│                       TOTAL              │
//	│  QR del pedido + leyenda                 │
//	└─────────────────────────────────────────┘
package pdf

import (
	"fmt"
	"strconv"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/code"
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

	"github.com/jhoicas/OpenBar-api/internal/application/order"
	"github.com/jhoicas/OpenBar-api/internal/domain/entity"
	"github.com/jhoicas/OpenBar-api/internal/domain/lifecycle"
)

var _ order.ReceiptGenerator = (*ReceiptGenerator)(nil)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 120, Green: 40, Blue: 30}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

// ── Generator ─────────────────────────────────────────────────────────────────

// ReceiptGenerator implementa order.ReceiptGenerator usando Maroto v2.
type ReceiptGenerator struct {
	barName string
}

// NewReceiptGenerator construye el generador; barName encabeza el ticket.
func NewReceiptGenerator(barName string) *ReceiptGenerator {
	return &ReceiptGenerator{barName: barName}
}

// Generate genera el PDF y devuelve sus bytes.
func (g *ReceiptGenerator) Generate(o *entity.Order, client *entity.User, items []*entity.OrderLineItem) ([]byte, error) {
	total, err := lifecycle.ComputeTotal(items)
	if err != nil {
		return nil, fmt.Errorf("pdf: total del ticket: %w", err)
	}

	cfg := config.NewBuilder().
		WithPageSize(pagesize.A5).
		WithLeftMargin(8).WithRightMargin(8).
		WithTopMargin(8).WithBottomMargin(8).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle(fmt.Sprintf("Pedido %d", o.ID), true).
		WithAuthor(g.barName, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(g.headerRow(o))
	m.AddRows(clientRow(o, client))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.4}))

	m.AddRows(tableHeaderRow())
	m.AddRows(itemRows(items)...)

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalRow(total))
	m.AddRows(line.NewRow(3))
	m.AddRows(footerRow(o))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar ticket: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func (g *ReceiptGenerator) headerRow(o *entity.Order) core.Row {
	date := o.CreatedAt
	if o.ValidatedAt != nil {
		date = *o.ValidatedAt
	}
	return row.New(16).Add(
		col.New(6).Add(
			text.New(g.barName, props.Text{Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1}),
		),
		col.New(6).Add(
			text.New(fmt.Sprintf("Pedido N° %d", o.ID), props.Text{
				Style: fontstyle.Bold, Size: 10, Align: align.Right, Top: 1,
			}),
			text.New(date.Format("02/01/2006 15:04"), props.Text{
				Size: 8, Align: align.Right, Top: 8, Color: colorGray,
			}),
		),
	)
}

func clientRow(o *entity.Order, client *entity.User) core.Row {
	name := nonEmpty(client.FirstName+" "+client.Name, "—")
	return row.New(8).Add(
		col.New(8).Add(text.New("Cliente: "+name, props.Text{Size: 8, Top: 1})),
		col.New(4).Add(text.New(o.Status.String(), props.Text{
			Style: fontstyle.Bold, Size: 8, Align: align.Right, Top: 1, Color: colorGray,
		})),
	)
}

func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a, Top: 1,
		}))
	}
	return row.New(6).Add(
		h("Cant.", 2, align.Center),
		h("Producto", 4, align.Left),
		h("P. Unit.", 3, align.Right),
		h("Subtotal", 3, align.Right),
	)
}

func itemRows(items []*entity.OrderLineItem) []core.Row {
	out := make([]core.Row, 0, len(items))
	for _, it := range items {
		sub, _ := it.Subtotal()
		out = append(out, row.New(6).Add(
			col.New(2).Add(text.New(strconv.FormatInt(it.Quantity, 10), props.Text{Size: 8, Align: align.Center, Top: 1})),
			col.New(4).Add(text.New(fmt.Sprintf("Producto #%d", it.ProductID), props.Text{Size: 8, Top: 1})),
			col.New(3).Add(text.New(formatCents(it.UnitPrice), props.Text{Size: 8, Align: align.Right, Top: 1})),
			col.New(3).Add(text.New(formatCents(sub), props.Text{Size: 8, Align: align.Right, Top: 1})),
		))
	}
	return out
}

func totalRow(total int64) core.Row {
	return row.New(10).Add(
		col.New(6),
		col.New(3).Add(text.New("TOTAL:", props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right, Color: colorPrimary, Top: 2,
		})),
		col.New(3).Add(text.New(formatCents(total), props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right, Color: colorPrimary, Top: 2,
		})),
	)
}

func footerRow(o *entity.Order) core.Row {
	return row.New(30).Add(
		col.New(4).Add(code.NewQr(fmt.Sprintf("openbar:order:%d", o.ID), props.Rect{Percent: 90, Center: true})),
		col.New(8).Add(text.New("Presenta este ticket en la barra para recoger tu pedido.", props.Text{
			Size: 8, Top: 8, Left: 3, Color: colorGray,
		})),
	)
}

// ── helpers ───────────────────────────────────────────────────────────────────

func nonEmpty(s, fallback string) string {
	if s != "" && s != " " {
		return s
	}
	return fallback
}

// formatCents convierte céntimos a "1.234,50".
func formatCents(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	units := strconv.FormatInt(cents/100, 10)
	return fmt.Sprintf("%s%s,%02d", sign, thousands(units), cents%100)
}

// thousands inserta puntos de miles en un string numérico: "1000000" -> "1.000.000".
func thousands(s string) string {
	n := len(s)
	if n <= 3 {
		return s
	}
	buf := make([]byte, 0, n+n/3)
	for i, c := range []byte(s) {
		if i > 0 && (n-i)%3 == 0 {
			buf = append(buf, '.')
		}
		buf = append(buf, c)
	}
	return string(buf)
}
