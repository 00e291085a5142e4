package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jhoicas/recepcion-activa/pkg/aeat"
)

func newNIFCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "nif [nif]",
		Short: "Comprueba el formato de un NIF, NIE, CIF o NIF-IVA",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			nif := strings.ToUpper(strings.TrimSpace(args[0]))
			clase := aeat.ClasificarNIFIVA(nif)
			if clase == aeat.NIFDesconocido {
				return fmt.Errorf("%s: formato no reconocido", nif)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", nif, clase)
			return nil
		},
	}
}
