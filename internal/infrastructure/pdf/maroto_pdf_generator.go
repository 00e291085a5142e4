// Package pdf implementa la representación gráfica de las facturas
// (RD 1619/2012, art. 6) con Maroto v2.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Emisor + NIF        │  Tipo + N° Factura + Fechas  │
//	│  ─────────────────────────────────────────────────────────  │
//	│  EMISOR: Domicilio                                           │
//	│  CLIENTE: Nombre + NIF + Domicilio                           │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Descripción | Cant | P.Unit | Dto | IVA | Base      │
//	│  ─────────────────────────────────────────────────────────  │
//	│  DESGLOSE: Tipo | Base | Cuota IVA | Recargo                 │
//	│  TOTALES: Base / IVA / RE / IRPF / TOTAL                     │
//	│  ─────────────────────────────────────────────────────────  │
//	│  MENCIONES LEGALES + FORMA DE PAGO + NOTAS                   │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"fmt"
	"strings"

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
	"github.com/shopspring/decimal"

	appbilling "github.com/jhoicas/recepcion-activa/internal/application/billing"
	"github.com/jhoicas/recepcion-activa/internal/domain/entity"
	"github.com/jhoicas/recepcion-activa/pkg/aeat"
)

var _ appbilling.InvoicePDFGenerator = (*MarotoPDFGenerator)(nil)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorHeader  = &props.Color{Red: 225, Green: 233, Blue: 242}
)

const fechaES = "02/01/2006"

// ── Generator ─────────────────────────────────────────────────────────────────

// MarotoPDFGenerator implementa billing.InvoicePDFGenerator usando Maroto v2.
type MarotoPDFGenerator struct{}

// NewMarotoPDFGenerator construye el generador.
func NewMarotoPDFGenerator() *MarotoPDFGenerator { return &MarotoPDFGenerator{} }

// Generate genera el PDF y devuelve sus bytes. Las menciones se imprimen tal cual.
func (g *MarotoPDFGenerator) Generate(f *entity.Factura, menciones []string) ([]byte, error) {
	if f == nil {
		return nil, fmt.Errorf("pdf: factura nil")
	}
	emisor := f.Emisor
	if emisor == nil {
		emisor = &entity.Emisor{}
	}
	cliente := f.Cliente
	if cliente == nil {
		cliente = &entity.Cliente{}
	}

	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Factura "+f.NumeroCompleto(), true).
		WithAuthor(nonEmpty(emisor.NombreORazonSocial, "RecepcionActiva"), true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(f, emisor))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(emisorRow(emisor))
	m.AddRows(clienteRow(cliente))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow())
	m.AddRows(tableDetailRows(f.Lineas, f.Moneda)...)

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(desgloseRows(f.Totales, f.Moneda)...)
	m.AddRows(totalsRow(f.Totales, f.Moneda))

	m.AddRows(line.NewRow(3))
	m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
	m.AddRows(footerRows(f, emisor, menciones)...)

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func headerRow(f *entity.Factura, emisor *entity.Emisor) core.Row {
	titulo := "FACTURA"
	switch f.TipoFactura {
	case aeat.FacturaSimplificada:
		titulo = "FACTURA SIMPLIFICADA"
	case aeat.FacturaRectificativa:
		titulo = "FACTURA RECTIFICATIVA"
	}

	fechas := "Fecha de expedición: " + nonEmpty(f.FechaExpedicion.Format(fechaES), "—")
	if !f.FechaOperacion.IsZero() && f.FechaOperacion != f.FechaExpedicion {
		fechas += "   |   Operación: " + f.FechaOperacion.Format(fechaES)
	}

	return row.New(20).Add(
		col.New(7).Add(
			text.New(nonEmpty(emisor.NombreORazonSocial, "—"), props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("NIF: "+nonEmpty(emisor.NIF, "—"), props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New(titulo, props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right,
				Color: colorPrimary, Top: 1,
			}),
			text.New(nonEmpty(f.NumeroCompleto(), "BORRADOR"), props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 7,
			}),
			text.New(fechas, props.Text{
				Size: 7, Align: align.Right, Top: 14, Color: colorGray,
			}),
		),
	)
}

func emisorRow(emisor *entity.Emisor) core.Row {
	return row.New(12).Add(
		col.New(12).Add(
			text.New("DATOS DEL EMISOR", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New("Domicilio: "+formatDomicilio(emisor.Domicilio), props.Text{
				Size: 8, Top: 7, Color: colorGray,
			}),
		),
	)
}

func clienteRow(c *entity.Cliente) core.Row {
	detalle := "NIF: " + nonEmpty(c.NIF, "—")
	if c.Domicilio != nil {
		detalle += "   |   " + formatDomicilio(c.Domicilio)
	} else if c.Pais != "" {
		detalle += "   |   " + c.Pais
	}
	if c.RecargoEquivalencia {
		detalle += "   |   Régimen de recargo de equivalencia"
	}
	return row.New(16).Add(
		col.New(12).Add(
			text.New("DESTINATARIO", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(nonEmpty(c.NombreORazonSocial, "—"), props.Text{
				Style: fontstyle.Bold, Size: 10, Top: 6,
			}),
			text.New(detalle, props.Text{Size: 8, Top: 12, Color: colorGray}),
		),
	)
}

func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Descripción", 4, align.Left),
		h("Cant.", 1, align.Center),
		h("Precio Unit.", 2, align.Right),
		h("Dto.", 1, align.Center),
		h("IVA", 1, align.Center),
		h("Base", 3, align.Right),
	).WithStyle(&props.Cell{BackgroundColor: colorHeader})
}

func tableDetailRows(lineas []entity.LineaFactura, moneda string) []core.Row {
	result := make([]core.Row, 0, len(lineas))
	for _, l := range lineas {
		result = append(result, row.New(7).Add(
			col.New(4).Add(text.New(l.Descripcion, props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1})),
			col.New(1).Add(text.New(formatNumber(l.Cantidad, 0), props.Text{Size: 8, Align: align.Center, Top: 1})),
			col.New(2).Add(text.New(formatMoney(l.PrecioUnitario, moneda), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
			col.New(1).Add(text.New(formatPct(l.DescuentoPct), props.Text{Size: 8, Align: align.Center, Top: 1})),
			col.New(1).Add(text.New(ivaLinea(l), props.Text{Size: 8, Align: align.Center, Top: 1})),
			col.New(3).Add(text.New(formatMoney(l.BaseLinea, moneda), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
		))
	}
	return result
}

// desgloseRows: una fila por tipo de IVA (RD 1619/2012, art. 6.1.g).
func desgloseRows(t entity.Totales, moneda string) []core.Row {
	if len(t.BasesPorTipo) == 0 {
		return nil
	}
	cell := func(s string, size int, bold bool) core.Col {
		p := props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1}
		if bold {
			p.Style = fontstyle.Bold
			p.Color = colorPrimary
		}
		return col.New(size).Add(text.New(s, p))
	}
	rows := []core.Row{row.New(6).Add(
		col.New(4),
		cell("Tipo IVA", 2, true),
		cell("Base", 2, true),
		cell("Cuota IVA", 2, true),
		cell("Recargo", 2, true),
	)}
	for _, b := range t.BasesPorTipo {
		rows = append(rows, row.New(5).Add(
			col.New(4),
			cell(fmt.Sprintf("%d%%", int(b.TipoIVA)), 2, false),
			cell(formatMoney(b.Base, moneda), 2, false),
			cell(formatMoney(b.CuotaIVA, moneda), 2, false),
			cell(formatMoney(b.RecargoEquivalencia, moneda), 2, false),
		))
	}
	return rows
}

func totalsRow(t entity.Totales, moneda string) core.Row {
	type fila struct{ label, value string }
	filas := []fila{
		{"Base imponible:", formatMoney(t.BaseImponibleTotal, moneda)},
		{"Cuota IVA:", formatMoney(t.CuotaIVATotal, moneda)},
	}
	if !t.CuotaRETotal.IsZero() {
		filas = append(filas, fila{"Recargo de equivalencia:", formatMoney(t.CuotaRETotal, moneda)})
	}
	if t.ImporteRetencionIRPF != nil && !t.ImporteRetencionIRPF.IsZero() {
		l := "Retención IRPF:"
		if t.RetencionIRPFPct != nil {
			l = "Retención IRPF (" + formatPct(*t.RetencionIRPFPct) + "):"
		}
		filas = append(filas, fila{l, "-" + formatMoney(*t.ImporteRetencionIRPF, moneda)})
	}

	var labels, values []core.Component
	for i, f := range filas {
		top := float64(i * 5)
		labels = append(labels, text.New(f.label, props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2, Top: top}))
		values = append(values, text.New(f.value, props.Text{Size: 9, Align: align.Right, Right: 1, Top: top}))
	}
	top := float64(len(filas) * 5)
	labels = append(labels, text.New("TOTAL FACTURA:", props.Text{
		Style: fontstyle.Bold, Size: 10, Align: align.Right, Color: colorPrimary, Right: 2, Top: top,
	}))
	values = append(values, text.New(formatMoney(t.TotalFactura, moneda), props.Text{
		Style: fontstyle.Bold, Size: 10, Align: align.Right, Color: colorPrimary, Right: 1, Top: top,
	}))

	return row.New(top + 9).Add(
		col.New(4),
		col.New(4).Add(labels...),
		col.New(4).Add(values...),
	)
}

func footerRows(f *entity.Factura, emisor *entity.Emisor, menciones []string) []core.Row {
	small := func(s string, bold bool) core.Row {
		p := props.Text{Size: 7.5, Top: 1, Color: colorGray}
		if bold {
			p.Style = fontstyle.Bold
			p.Color = colorPrimary
		}
		return row.New(5).Add(col.New(12).Add(text.New(s, p)))
	}

	var rows []core.Row
	if len(menciones) > 0 {
		rows = append(rows, small("MENCIONES LEGALES", true))
		for _, m := range menciones {
			rows = append(rows, small(m, false))
		}
	}

	var pago []string
	if f.FormaPago != "" {
		pago = append(pago, "Forma de pago: "+f.FormaPago)
	}
	if f.MedioPago != "" {
		pago = append(pago, "Medio: "+f.MedioPago)
	}
	if emisor.IBAN != "" {
		pago = append(pago, "IBAN: "+emisor.IBAN)
	}
	if !f.FechaVencimiento.IsZero() {
		pago = append(pago, "Vencimiento: "+f.FechaVencimiento.Format(fechaES))
	}
	if len(pago) > 0 {
		rows = append(rows, small("CONDICIONES DE PAGO", true), small(strings.Join(pago, "   |   "), false))
	}
	if f.Notas != "" {
		rows = append(rows, small("OBSERVACIONES", true), small(f.Notas, false))
	}
	return rows
}

// ── helpers ───────────────────────────────────────────────────────────────────

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

func ivaLinea(l entity.LineaFactura) string {
	switch {
	case l.Exenta:
		return "Exenta"
	case l.InversionSujetoPasivo:
		return "ISP"
	case l.TipoIVA == nil:
		return "—"
	}
	return fmt.Sprintf("%d%%", int(*l.TipoIVA))
}

func formatDomicilio(d *entity.Domicilio) string {
	if d == nil {
		return "—"
	}
	var parts []string
	for _, s := range []string{d.Calle, strings.TrimSpace(d.CodigoPostal + " " + d.Municipio), d.Provincia, d.Pais} {
		if s != "" {
			parts = append(parts, s)
		}
	}
	return nonEmpty(strings.Join(parts, ", "), "—")
}

// formatMoney formato es-ES con dos decimales: 1234.5 → "1.234,50 €".
func formatMoney(d decimal.Decimal, moneda string) string {
	s := formatNumber(d, 2)
	switch moneda {
	case "", "EUR":
		return s + " €"
	default:
		return s + " " + moneda
	}
}

func formatPct(d decimal.Decimal) string {
	return strings.TrimSuffix(strings.TrimRight(formatNumber(d, 2), "0"), ",") + "%"
}

// formatNumber redondea a places decimales con separador de miles "." y decimal ",".
func formatNumber(d decimal.Decimal, places int32) string {
	s := d.StringFixed(places)
	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")

	entero, frac, _ := strings.Cut(s, ".")
	n := len(entero)
	buf := make([]byte, 0, n+n/3+len(frac)+2)
	if neg {
		buf = append(buf, '-')
	}
	for i, c := range []byte(entero) {
		if i > 0 && (n-i)%3 == 0 {
			buf = append(buf, '.')
		}
		buf = append(buf, c)
	}
	if frac != "" {
		buf = append(buf, ',')
		buf = append(buf, frac...)
	}
	return string(buf)
}
