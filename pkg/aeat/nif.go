package aeat

import (
	"regexp"
	"strings"
)

// Formatos de identificación fiscal. Solo se comprueba la forma del documento:
// el carácter de control no se recalcula.
var (
	dniPattern    = regexp.MustCompile(`^[0-9]{8}[TRWAGMYFPDXBNJZSQVHLCKE]$`)
	niePattern    = regexp.MustCompile(`^[XYZ][0-9]{7}[TRWAGMYFPDXBNJZSQVHLCKE]$`)
	cifPattern    = regexp.MustCompile(`^[ABCDEFGHJNPQRSUVW][0-9]{7}[0-9A-J]$`)
	nifIVAPattern = regexp.MustCompile(`^[A-Z]{2}[A-Z0-9]{2,12}$`)
)

// ClaseNIF identifica qué formato ha reconocido ValidateNIF.
type ClaseNIF string

const (
	NIFDesconocido      ClaseNIF = ""
	NIFPersonaFisica    ClaseNIF = "DNI"
	NIFExtranjero       ClaseNIF = "NIE"
	NIFEntidad          ClaseNIF = "CIF"
	NIFIntracomunitario ClaseNIF = "NIF-IVA"
)

// ClasificarNIF devuelve el formato español reconocido (DNI, NIE o CIF) o NIFDesconocido.
// No distingue mayúsculas de minúsculas.
func ClasificarNIF(nif string) ClaseNIF {
	if len(nif) < 8 {
		return NIFDesconocido
	}
	s := strings.ToUpper(nif)
	switch {
	case dniPattern.MatchString(s):
		return NIFPersonaFisica
	case niePattern.MatchString(s):
		return NIFExtranjero
	case cifPattern.MatchString(s):
		return NIFEntidad
	}
	return NIFDesconocido
}

// ValidateNIF indica si nif tiene forma de DNI, NIE o CIF.
func ValidateNIF(nif string) bool {
	return ClasificarNIF(nif) != NIFDesconocido
}

// ValidateNIFIVA indica si nif es un NIF español o tiene la forma genérica de
// NIF-IVA comunitario (prefijo de país de dos letras + 2 a 12 alfanuméricos).
func ValidateNIFIVA(nif string) bool {
	if nif == "" {
		return false
	}
	if ValidateNIF(nif) {
		return true
	}
	return nifIVAPattern.MatchString(strings.ToUpper(nif))
}

// ClasificarNIFIVA como ClasificarNIF, pero reconoce además la forma genérica de NIF-IVA comunitario.
func ClasificarNIFIVA(nif string) ClaseNIF {
	if c := ClasificarNIF(nif); c != NIFDesconocido {
		return c
	}
	if nif != "" && nifIVAPattern.MatchString(strings.ToUpper(nif)) {
		return NIFIntracomunitario
	}
	return NIFDesconocido
}
