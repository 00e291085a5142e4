package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jhoicas/recepcion-activa/internal/application/billing"
	"github.com/jhoicas/recepcion-activa/pkg/config"
	"github.com/jhoicas/recepcion-activa/pkg/logger"
)

// calculator caso de uso sin almacén: Calculate no persiste.
func calculator(cfg *config.Config) *billing.InvoiceUseCase {
	return billing.NewInvoiceUseCase(nil, nil, billing.Defaults{
		Serie:  cfg.Facturacion.Serie,
		Moneda: cfg.Facturacion.Moneda,
	}, logger.WithComponent("facturactl"))
}

func newCalcularCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "calcular [factura.json]",
		Short: "Recalcula líneas y totales y muestra las menciones legales",
		Long: `Lee una factura en JSON (o "-" para stdin), recalcula importes de línea,
desglose por tipo de IVA y totales, y escribe el resultado junto con las
menciones legales y las violaciones detectadas.`,
		Example: `  facturactl calcular factura.json
  cat factura.json | facturactl calcular -`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := readFactura(cmd, args[0])
			if err != nil {
				return err
			}
			res := calculator(cfg).Calculate(cmd.Context(), in)
			return writeJSON(cmd.OutOrStdout(), res)
		},
	}
}

func newValidarCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "validar [factura.json]",
		Short: "Valida una factura; sale con código 1 si no cumple",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := readFactura(cmd, args[0])
			if err != nil {
				return err
			}
			res := calculator(cfg).Calculate(cmd.Context(), in)
			out := cmd.OutOrStdout()
			if res.Valida {
				fmt.Fprintln(out, "Factura válida")
				return nil
			}
			for _, v := range res.Violaciones {
				fmt.Fprintf(out, "- %s\n", v)
			}
			return fmt.Errorf("%w: %d incumplimientos", ErrFacturaInvalida, len(res.Violaciones))
		},
	}
}
