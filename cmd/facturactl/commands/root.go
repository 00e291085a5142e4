// Package commands implementa la CLI de operación de facturas.
package commands

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/jhoicas/recepcion-activa/internal/application/dto"
	"github.com/jhoicas/recepcion-activa/pkg/config"
	"github.com/jhoicas/recepcion-activa/pkg/logger"
)

var version = "1.0.0"

// ErrFacturaInvalida la factura tiene violaciones; la CLI sale con código 1.
var ErrFacturaInvalida = errors.New("factura inválida")

// NewRootCmd construye el árbol de comandos con la configuración dada.
func NewRootCmd(cfg *config.Config) *cobra.Command {
	root := &cobra.Command{
		Use:   "facturactl",
		Short: "facturactl - cálculo, validación y utilidades de facturas AEAT",
		Long: `facturactl recalcula y valida facturas en formato JSON sin pasar por la API,
comprueba NIF y emite tokens de acceso para la API de RecepcionActiva.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(
		newCalcularCmd(cfg),
		newValidarCmd(cfg),
		newNIFCmd(),
		newTokenCmd(cfg),
	)
	return root
}

// Execute ejecuta la CLI y termina el proceso con código 1 si falla.
func Execute(cfg *config.Config) {
	log := logger.WithComponent("cmd")

	if err := NewRootCmd(cfg).Execute(); err != nil {
		if !errors.Is(err, ErrFacturaInvalida) {
			log.Error().Err(err).Msg("error ejecutando el comando")
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// readFactura lee la factura de path ("-" = stdin).
func readFactura(cmd *cobra.Command, path string) (dto.FacturaRequest, error) {
	var in dto.FacturaRequest
	var r io.Reader
	if path == "-" {
		r = cmd.InOrStdin()
	} else {
		f, err := os.Open(path)
		if err != nil {
			return in, fmt.Errorf("abrir %s: %w", path, err)
		}
		defer f.Close()
		r = f
	}
	if err := json.NewDecoder(r).Decode(&in); err != nil {
		return in, fmt.Errorf("leer factura: %w", err)
	}
	return in, nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
