package entity

import (
	"fmt"

	"github.com/jhoicas/recepcion-activa/pkg/aeat"
)

// Secuencias de numeración dentro de una serie.
const (
	SecuenciaOrdinaria     = ""  // ordinarias y simplificadas comparten contador
	SecuenciaRectificativa = "R" // rectificativas llevan contador propio
)

// SecuenciaDe devuelve la secuencia que corresponde al tipo de factura.
func SecuenciaDe(t aeat.TipoFactura) string {
	if t == aeat.FacturaRectificativa {
		return SecuenciaRectificativa
	}
	return SecuenciaOrdinaria
}

// FormatNumero compone el número: prefijo de secuencia + 5 dígitos ("00042", "R00003").
func FormatNumero(t aeat.TipoFactura, n int64) string {
	return fmt.Sprintf("%s%05d", SecuenciaDe(t), n)
}
