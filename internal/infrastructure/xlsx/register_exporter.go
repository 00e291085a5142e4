// Package xlsx genera el libro registro de facturas expedidas en formato Excel.
package xlsx

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	appbilling "github.com/jhoicas/recepcion-activa/internal/application/billing"
	"github.com/jhoicas/recepcion-activa/internal/domain/entity"
	"github.com/jhoicas/recepcion-activa/pkg/aeat"
)

var _ appbilling.RegisterExporter = (*RegisterExporter)(nil)

const (
	SheetRegistro = "Expedidas"
	SheetResumen  = "Resumen"
)

// Columnas de la hoja de registro.
var columnas = []string{
	"Serie", "Número", "Fecha expedición", "Fecha operación", "Tipo",
	"Destinatario", "NIF destinatario", "Tipo IVA", "Base imponible",
	"Cuota IVA", "Recargo equivalencia", "Total factura", "Estado",
}

// RegisterExporter implementa billing.RegisterExporter con excelize.
// Una fila por factura y tipo de IVA; el total de la factura solo en su primera fila.
type RegisterExporter struct{}

// NewRegisterExporter construye el exportador.
type anchoColumnas struct {
	desde, hasta string
	ancho        float64
}

var anchosRegistro = []anchoColumnas{
	{"A", "B", 12},
	{"C", "E", 16},
	{"F", "F", 32},
	{"G", "M", 16},
}

func NewRegisterExporter() *RegisterExporter { return &RegisterExporter{} }

type acumulado struct {
	base, cuota, recargo decimal.Decimal
}

// Export genera el libro con las facturas recibidas, en el orden dado.
func (e *RegisterExporter) Export(facturas []*entity.Factura, desde, hasta entity.Fecha) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetRegistro); err != nil {
		return nil, fmt.Errorf("xlsx: renombrar hoja: %w", err)
	}
	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "#00467F"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E1E9F2"}, Pattern: 1},
	})
	if err != nil {
		return nil, fmt.Errorf("xlsx: estilo cabecera: %w", err)
	}
	moneyStyle, err := f.NewStyle(&excelize.Style{NumFmt: 4})
	if err != nil {
		return nil, fmt.Errorf("xlsx: estilo importe: %w", err)
	}

	if err := f.SetSheetRow(SheetRegistro, "A1", &columnas); err != nil {
		return nil, fmt.Errorf("xlsx: cabecera: %w", err)
	}
	if err := f.SetCellStyle(SheetRegistro, "A1", "M1", headerStyle); err != nil {
		return nil, fmt.Errorf("xlsx: estilo cabecera: %w", err)
	}

	resumen := make(map[aeat.TipoIVA]*acumulado)
	var orden []aeat.TipoIVA
	total := decimal.Zero

	fila := 2
	for _, fac := range facturas {
		for i, r := range filasFactura(fac) {
			cell, err := excelize.CoordinatesToCellName(1, fila)
			if err != nil {
				return nil, err
			}
			if i > 0 {
				r[11] = nil
			}
			if err := f.SetSheetRow(SheetRegistro, cell, &r); err != nil {
				return nil, fmt.Errorf("xlsx: fila %d: %w", fila, err)
			}
			fila++
		}
		for _, b := range fac.Totales.BasesPorTipo {
			acc, ok := resumen[b.TipoIVA]
			if !ok {
				acc = &acumulado{}
				resumen[b.TipoIVA] = acc
				orden = append(orden, b.TipoIVA)
			}
			acc.base = acc.base.Add(b.Base)
			acc.cuota = acc.cuota.Add(b.CuotaIVA)
			acc.recargo = acc.recargo.Add(b.RecargoEquivalencia)
		}
		total = total.Add(fac.Totales.TotalFactura)
	}
	if fila > 2 {
		if err := f.SetCellStyle(SheetRegistro, "I2", fmt.Sprintf("L%d", fila-1), moneyStyle); err != nil {
			return nil, fmt.Errorf("xlsx: estilo importes: %w", err)
		}
	}
	for _, w := range anchosRegistro {
		if err := f.SetColWidth(SheetRegistro, w.desde, w.hasta, w.ancho); err != nil {
			return nil, fmt.Errorf("xlsx: ancho de columnas %s:%s: %w", w.desde, w.hasta, err)
		}
	}
	if err := f.SetPanes(SheetRegistro, &excelize.Panes{
		Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft",
	}); err != nil {
		return nil, fmt.Errorf("xlsx: inmovilizar cabecera: %w", err)
	}

	if err := e.writeResumen(f, resumen, orden, total, len(facturas), desde, hasta, headerStyle, moneyStyle); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx: serializar libro: %w", err)
	}
	return buf.Bytes(), nil
}

func (e *RegisterExporter) writeResumen(
	f *excelize.File,
	resumen map[aeat.TipoIVA]*acumulado,
	orden []aeat.TipoIVA,
	total decimal.Decimal,
	n int,
	desde, hasta entity.Fecha,
	headerStyle, moneyStyle int,
) error {
	if _, err := f.NewSheet(SheetResumen); err != nil {
		return fmt.Errorf("xlsx: hoja resumen: %w", err)
	}
	periodo := fmt.Sprintf("%s - %s", nonEmpty(desde.String(), "inicio"), nonEmpty(hasta.String(), "hoy"))
	rows := [][]interface{}{
		{"Periodo", periodo},
		{"Facturas", n},
		{"Tipo IVA", "Base imponible", "Cuota IVA", "Recargo equivalencia"},
	}
	for _, t := range orden {
		acc := resumen[t]
		rows = append(rows, []interface{}{
			fmt.Sprintf("%d%%", int(t)),
			acc.base.InexactFloat64(), acc.cuota.InexactFloat64(), acc.recargo.InexactFloat64(),
		})
	}
	rows = append(rows, []interface{}{"Total facturado", total.InexactFloat64()})

	for i, r := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(SheetResumen, cell, &r); err != nil {
			return fmt.Errorf("xlsx: resumen fila %d: %w", i+1, err)
		}
	}
	if err := f.SetCellStyle(SheetResumen, "A3", "D3", headerStyle); err != nil {
		return fmt.Errorf("xlsx: estilo resumen: %w", err)
	}
	if err := f.SetCellStyle(SheetResumen, "B4", fmt.Sprintf("D%d", len(rows)), moneyStyle); err != nil {
		return fmt.Errorf("xlsx: estilo resumen: %w", err)
	}
	if err := f.SetColWidth(SheetResumen, "A", "D", 20); err != nil {
		return fmt.Errorf("xlsx: ancho de columnas resumen: %w", err)
	}
	return nil
}

// filasFactura una fila por tipo de IVA; sin desglose, una única fila a cero.
func filasFactura(fac *entity.Factura) [][]interface{} {
	cabecera := func() []interface{} {
		nombre, nif := "", ""
		if fac.Cliente != nil {
			nombre, nif = fac.Cliente.NombreORazonSocial, fac.Cliente.NIF
		}
		return []interface{}{
			fac.Serie, fac.Numero, fac.FechaExpedicion.String(), fac.FechaOperacion.String(),
			string(fac.TipoFactura), nombre, nif,
		}
	}
	if len(fac.Totales.BasesPorTipo) == 0 {
		r := append(cabecera(), "", 0.0, 0.0, 0.0, fac.Totales.TotalFactura.InexactFloat64(), fac.Status)
		return [][]interface{}{r}
	}
	out := make([][]interface{}, 0, len(fac.Totales.BasesPorTipo))
	for _, b := range fac.Totales.BasesPorTipo {
		r := append(cabecera(),
			fmt.Sprintf("%d%%", int(b.TipoIVA)),
			b.Base.InexactFloat64(),
			b.CuotaIVA.InexactFloat64(),
			b.RecargoEquivalencia.InexactFloat64(),
			fac.Totales.TotalFactura.InexactFloat64(),
			fac.Status,
		)
		out = append(out, r)
	}
	return out
}

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}
