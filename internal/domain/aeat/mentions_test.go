package aeat_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/recepcion-activa/internal/domain/aeat"
	"github.com/jhoicas/recepcion-activa/internal/domain/entity"
	catalogo "github.com/jhoicas/recepcion-activa/pkg/aeat"
)

func exenta(motivo catalogo.MotivoExencion) entity.LineaFactura {
	l := linea("1", "200", catalogo.IVAGeneral)
	l.Exenta = true
	l.MotivoExencion = motivo
	return l
}

func TestLegalMentions_ExencionSanitaria(t *testing.T) {
	f := &entity.Factura{
		TipoFactura: catalogo.FacturaOrdinaria,
		Lineas:      []entity.LineaFactura{exenta(catalogo.ExencionSanitaria)},
	}
	assert.Equal(t, []string{"Operación exenta según Art. 20.Uno.27º LIVA - Servicios sanitarios"}, aeat.LegalMentions(f))
}

func TestLegalMentions_UnaFrasePorMotivoDistinto(t *testing.T) {
	f := &entity.Factura{Lineas: []entity.LineaFactura{
		exenta(catalogo.ExencionEnsenanza),
		exenta(catalogo.ExencionSanitaria),
		exenta(catalogo.ExencionEnsenanza),
		exenta("art99"),
		exenta(""),
	}}
	assert.Equal(t, []string{
		"Operación exenta según Art. 20.Uno.26º LIVA - Servicios de enseñanza",
		"Operación exenta según Art. 20.Uno.27º LIVA - Servicios sanitarios",
		"Operación exenta según art99",
	}, aeat.LegalMentions(f))
}

func TestLegalMentions_Rectificativa(t *testing.T) {
	f := &entity.Factura{
		TipoFactura:                     catalogo.FacturaRectificativa,
		CausaRectificacion:              catalogo.CausaDevolucion,
		ReferenciasFacturasRectificadas: []string{"2024-A-00001", "2024-A-00002"},
	}
	assert.Equal(t, []string{
		"FACTURA RECTIFICATIVA",
		"Causa: Devolución de bienes o servicios",
		"Facturas rectificadas: 2024-A-00001, 2024-A-00002",
	}, aeat.LegalMentions(f))

	f.CausaRectificacion = ""
	f.ReferenciasFacturasRectificadas = nil
	assert.Equal(t, []string{"FACTURA RECTIFICATIVA"}, aeat.LegalMentions(f))

	f.TipoFactura = catalogo.FacturaOrdinaria
	f.CausaRectificacion = catalogo.CausaError
	assert.Empty(t, aeat.LegalMentions(f), "la causa solo se menciona en rectificativas")
}

func TestLegalMentions_AvisosUnicosDeISPYRecargo(t *testing.T) {
	isp := linea("1", "100", catalogo.IVAGeneral)
	isp.InversionSujetoPasivo = true
	re := linea("1", "100", catalogo.IVAGeneral)
	re.RecargoEquivalencia = true
	reExplicito := linea("1", "100", catalogo.IVAReducido)
	reExplicito.RecargoEquivalenciaPct = decPtr("1.4")

	f := &entity.Factura{Lineas: []entity.LineaFactura{isp, re, isp, reExplicito, exenta(catalogo.ExencionExportacion)}}
	assert.Equal(t, []string{
		"Operación exenta según Art. 20.Uno.1º LIVA - Exportaciones",
		"Inversión del sujeto pasivo – art. 84.Uno.2º LIVA",
		"Recargo de equivalencia aplicado",
	}, aeat.LegalMentions(f))
}

func TestLegalMentions_RecargoSoloSiElPorcentajeEfectivoNoEsCero(t *testing.T) {
	ispConRE := linea("1", "100", catalogo.IVAGeneral)
	ispConRE.InversionSujetoPasivo = true
	ispConRE.RecargoEquivalenciaPct = decPtr("5.2")
	tipoCero := linea("1", "100", catalogo.IVACero)
	tipoCero.RecargoEquivalencia = true

	f := &entity.Factura{Lineas: []entity.LineaFactura{ispConRE, tipoCero}}
	assert.Equal(t, []string{"Inversión del sujeto pasivo – art. 84.Uno.2º LIVA"}, aeat.LegalMentions(f))
}

func TestLegalMentions_NuncaFalla(t *testing.T) {
	assert.NotPanics(t, func() {
		assert.Empty(t, aeat.LegalMentions(nil))
		assert.Empty(t, aeat.LegalMentions(&entity.Factura{}))
	})
}
