package entity_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/recepcion-activa/internal/domain/entity"
	"github.com/jhoicas/recepcion-activa/pkg/aeat"
)

func TestFecha_JSON(t *testing.T) {
	var f entity.Fecha
	require.NoError(t, json.Unmarshal([]byte(`"2024-12-10"`), &f))
	assert.Equal(t, "2024-12-10", f.String())

	b, err := json.Marshal(f)
	require.NoError(t, err)
	assert.Equal(t, `"2024-12-10"`, string(b))

	require.NoError(t, json.Unmarshal([]byte(`"2024-12-11T11:00:00Z"`), &f))
	assert.Equal(t, "2024-12-11", f.String(), "un instante RFC 3339 se reduce a su fecha")

	require.NoError(t, json.Unmarshal([]byte(`null`), &f))
	assert.True(t, f.IsZero())
	require.NoError(t, json.Unmarshal([]byte(`""`), &f))
	assert.True(t, f.IsZero())

	b, err = json.Marshal(entity.Fecha{})
	require.NoError(t, err)
	assert.Equal(t, "null", string(b))

	assert.Error(t, json.Unmarshal([]byte(`"10/12/2024"`), &f))
}

func TestFecha_FechaDeDescartaHora(t *testing.T) {
	f := entity.FechaDe(time.Date(2025, 3, 1, 23, 59, 0, 0, time.UTC))
	assert.Equal(t, entity.NewFecha(2025, time.March, 1), f)
	assert.True(t, entity.FechaDe(time.Time{}).IsZero())
}

func TestFactura_CloneNoCompartePunteros(t *testing.T) {
	iva := aeat.IVAGeneral
	re := decimal.NewFromFloat(5.2)
	orig := &entity.Factura{
		Emisor:  &entity.Emisor{NombreORazonSocial: "Taller", Domicilio: &entity.Domicilio{Calle: "Mayor 1"}},
		Cliente: &entity.Cliente{NombreORazonSocial: "Cliente"},
		Lineas: []entity.LineaFactura{
			{ID: 1, TipoIVA: &iva, RecargoEquivalenciaPct: &re},
		},
		ReferenciasFacturasRectificadas: []string{"2024-A-00001"},
	}

	c := orig.Clone()
	c.Emisor.Domicilio.Calle = "Otra"
	*c.Lineas[0].TipoIVA = aeat.IVAReducido
	c.ReferenciasFacturasRectificadas[0] = "X"

	assert.Equal(t, "Mayor 1", orig.Emisor.Domicilio.Calle)
	assert.Equal(t, aeat.IVAGeneral, *orig.Lineas[0].TipoIVA)
	assert.Equal(t, "2024-A-00001", orig.ReferenciasFacturasRectificadas[0])
	assert.Nil(t, (*entity.Factura)(nil).Clone())
}

func TestCanTransition(t *testing.T) {
	assert.True(t, entity.CanTransition(entity.FacturaStatusDraft, entity.FacturaStatusSent))
	assert.True(t, entity.CanTransition(entity.FacturaStatusSent, entity.FacturaStatusPaid))
	assert.True(t, entity.CanTransition(entity.FacturaStatusOverdue, entity.FacturaStatusPaid))
	assert.False(t, entity.CanTransition(entity.FacturaStatusPaid, entity.FacturaStatusDraft))
	assert.False(t, entity.CanTransition(entity.FacturaStatusCancelled, entity.FacturaStatusSent))
	assert.False(t, entity.CanTransition(entity.FacturaStatusDraft, entity.FacturaStatusPaid))

	assert.True(t, entity.ValidStatus("OVERDUE"))
	assert.False(t, entity.ValidStatus("ALL"))
}

func TestFactura_NumeroCompleto(t *testing.T) {
	assert.Equal(t, "2024-A-00003", (&entity.Factura{Serie: "2024-A", Numero: "00003"}).NumeroCompleto())
	assert.Equal(t, "R00001", (&entity.Factura{Numero: "R00001"}).NumeroCompleto())
}
