package aeat_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/recepcion-activa/internal/domain/aeat"
	"github.com/jhoicas/recepcion-activa/internal/domain/entity"
	catalogo "github.com/jhoicas/recepcion-activa/pkg/aeat"
)

// facturaValida factura ordinaria completa a un empresario.
func facturaValida() *entity.Factura {
	return &entity.Factura{
		TipoFactura:     catalogo.FacturaOrdinaria,
		Serie:           "2024-A",
		FechaExpedicion: entity.NewFecha(2024, time.December, 10),
		Moneda:          "EUR",
		Emisor: &entity.Emisor{
			NombreORazonSocial: "Taller Mecánico García S.L.",
			NIF:                "B12345678",
			Domicilio:          &entity.Domicilio{Calle: "Calle Mayor 1", CodigoPostal: "28001", Municipio: "Madrid", Provincia: "Madrid", Pais: "España"},
		},
		Cliente: &entity.Cliente{
			Tipo:               catalogo.ClienteEmpresario,
			NombreORazonSocial: "Transportes López S.A.",
			NIF:                "A87654321",
			Domicilio:          &entity.Domicilio{Calle: "Av. Industria 5", CodigoPostal: "08001", Municipio: "Barcelona", Provincia: "Barcelona", Pais: "España"},
			Pais:               "España",
		},
		Lineas: []entity.LineaFactura{linea("1", "100", catalogo.IVAGeneral)},
	}
}

func TestValidateInvoice_FacturaCompletaEsValida(t *testing.T) {
	assert.Empty(t, aeat.ValidateInvoice(facturaValida()))
}

func TestValidateInvoice_OrdinariaEmpresarioSinNIFNiDomicilio(t *testing.T) {
	f := facturaValida()
	f.Cliente.NIF = ""
	f.Cliente.Domicilio = nil

	errs := aeat.ValidateInvoice(f)

	assert.GreaterOrEqual(t, len(errs), 2)
	assert.Contains(t, errs, "El domicilio del cliente es obligatorio en facturas ordinarias")
	assert.Contains(t, errs, "El NIF del cliente es obligatorio para empresarios/profesionales")
}

func TestValidateInvoice_EmisorSinDomicilio(t *testing.T) {
	for _, tipo := range []catalogo.TipoFactura{catalogo.FacturaOrdinaria, catalogo.FacturaSimplificada} {
		t.Run(string(tipo), func(t *testing.T) {
			f := facturaValida()
			f.TipoFactura = tipo
			f.Emisor.Domicilio = nil

			assert.Equal(t, []string{"El domicilio del emisor es obligatorio"}, aeat.ValidateInvoice(f))
		})
	}
}

func TestValidateInvoice_RectificativaSinCausaNiReferencias(t *testing.T) {
	f := facturaValida()
	f.TipoFactura = catalogo.FacturaRectificativa

	errs := aeat.ValidateInvoice(f)

	assert.Equal(t, []string{
		"La causa de rectificación es obligatoria",
		"Debe especificar las facturas rectificadas",
	}, errs)
}

func TestValidateInvoice_RectificativaAdmitePrecioNegativo(t *testing.T) {
	f := facturaValida()
	f.TipoFactura = catalogo.FacturaRectificativa
	f.CausaRectificacion = catalogo.CausaDevolucion
	f.ReferenciasFacturasRectificadas = []string{"2024-A-00001"}
	f.Lineas = []entity.LineaFactura{linea("1", "-50", catalogo.IVAGeneral)}
	assert.Empty(t, aeat.ValidateInvoice(f))

	f.TipoFactura = catalogo.FacturaOrdinaria
	assert.Equal(t, []string{"El precio unitario de la línea 1 no puede ser negativo"}, aeat.ValidateInvoice(f))
}

func TestValidateInvoice_RectificativaCausaDesconocidaYReferenciasVacias(t *testing.T) {
	f := facturaValida()
	f.TipoFactura = catalogo.FacturaRectificativa
	f.CausaRectificacion = "capricho"
	f.ReferenciasFacturasRectificadas = []string{"  ", ""}

	assert.Equal(t, []string{
		`La causa de rectificación "capricho" no es válida`,
		"Debe especificar las facturas rectificadas",
	}, aeat.ValidateInvoice(f))
}

func TestValidateInvoice_SimplificadaNoExigeDatosDelCliente(t *testing.T) {
	f := facturaValida()
	f.TipoFactura = catalogo.FacturaSimplificada
	f.Cliente = &entity.Cliente{Tipo: catalogo.ClienteParticular, NombreORazonSocial: "Consumidor final"}
	assert.Empty(t, aeat.ValidateInvoice(f))
}

func TestValidateInvoice_ReglasComunes(t *testing.T) {
	f := facturaValida()
	f.Emisor.NombreORazonSocial = "  "
	f.Emisor.NIF = "123"
	f.Cliente.NombreORazonSocial = ""
	f.FechaExpedicion = entity.Fecha{}
	f.Lineas = nil

	assert.Equal(t, []string{
		"El nombre o razón social del emisor es obligatorio",
		"El NIF del emisor no es válido",
		"El nombre o razón social del cliente es obligatorio",
		"La fecha de expedición es obligatoria",
		"Debe incluir al menos una línea de factura",
	}, aeat.ValidateInvoice(f))

	f.Emisor.NIF = ""
	assert.Contains(t, aeat.ValidateInvoice(f), "El NIF del emisor es obligatorio")
}

func TestValidateInvoice_ReglasDeLinea(t *testing.T) {
	f := facturaValida()
	sinNada := entity.LineaFactura{Cantidad: dec("0"), PrecioUnitario: dec("10")}
	exentaSinMotivo := linea("1", "10", catalogo.IVAGeneral)
	exentaSinMotivo.Exenta = true
	motivoRaro := linea("1", "10", catalogo.IVAGeneral)
	motivoRaro.Exenta = true
	motivoRaro.MotivoExencion = "art99"
	tipoRaro := linea("1", "10", catalogo.TipoIVA(7))
	descuento := linea("1", "10", catalogo.IVAGeneral)
	descuento.DescuentoPct = dec("120")
	f.Lineas = []entity.LineaFactura{linea("1", "10", catalogo.IVAGeneral), sinNada, exentaSinMotivo, motivoRaro, tipoRaro, descuento}

	assert.Equal(t, []string{
		"La descripción de la línea 2 es obligatoria",
		"La cantidad de la línea 2 debe ser mayor que 0",
		"Debe especificar el tipo de IVA para la línea 2",
		"Debe especificar el motivo de exención para la línea 3",
		"El motivo de exención de la línea 4 no es válido",
		"El tipo de IVA de la línea 5 no es válido (0, 4, 10 o 21)",
		"El descuento de la línea 6 debe estar entre 0 y 100",
	}, aeat.ValidateInvoice(f))
}

func TestValidateInvoice_TipoIVACeroExplicitoEsValido(t *testing.T) {
	f := facturaValida()
	f.Lineas = []entity.LineaFactura{linea("1", "10", catalogo.IVACero)}
	assert.Empty(t, aeat.ValidateInvoice(f))
}

func TestValidateInvoice_ISPNoExigeTipo(t *testing.T) {
	f := facturaValida()
	l := entity.LineaFactura{Descripcion: "Chatarra", Cantidad: dec("1"), PrecioUnitario: dec("500"), InversionSujetoPasivo: true}
	f.Lineas = []entity.LineaFactura{l}
	assert.Empty(t, aeat.ValidateInvoice(f))
}

func TestValidateInvoice_NuncaEntraEnPanico(t *testing.T) {
	casos := []*entity.Factura{
		nil,
		{},
		{TipoFactura: catalogo.FacturaOrdinaria},
		{TipoFactura: catalogo.FacturaRectificativa},
		{TipoFactura: catalogo.FacturaOrdinaria, Cliente: &entity.Cliente{Tipo: catalogo.ClienteEmpresario}},
		{TipoFactura: "proforma", Emisor: &entity.Emisor{}, Lineas: []entity.LineaFactura{{}}},
	}
	for i, f := range casos {
		t.Run(fmt.Sprint(i), func(t *testing.T) {
			assert.NotPanics(t, func() {
				assert.NotEmpty(t, aeat.ValidateInvoice(f))
			})
		})
	}
}

func TestValidateInvoice_OrdinariaSinCliente(t *testing.T) {
	f := facturaValida()
	f.Cliente = nil
	errs := aeat.ValidateInvoice(f)
	assert.Equal(t, []string{
		"El nombre o razón social del cliente es obligatorio",
		"El domicilio del cliente es obligatorio en facturas ordinarias",
	}, errs)
}
