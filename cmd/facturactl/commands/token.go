package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jhoicas/recepcion-activa/pkg/config"
	"github.com/jhoicas/recepcion-activa/pkg/jwt"
)

func newTokenCmd(cfg *config.Config) *cobra.Command {
	var userID, name string
	var expMinutes int

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Emite un token de acceso para la API",
		Example: `  facturactl token --user recepcion-1 --name "Recepción Taller"
  facturactl token --user admin --exp 60`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			exp := expMinutes
			if exp <= 0 {
				exp = cfg.JWT.Expiration
			}
			tok, err := jwt.Generate(cfg.JWT.Secret, userID, name, cfg.JWT.Issuer, exp)
			if err != nil {
				return fmt.Errorf("emitir token: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), tok)
			return nil
		},
	}
	cmd.Flags().StringVar(&userID, "user", "", "Identificador del usuario (obligatorio)")
	cmd.Flags().StringVar(&name, "name", "", "Nombre visible del usuario")
	cmd.Flags().IntVar(&expMinutes, "exp", 0, "Minutos de validez (por defecto JWT_EXPIRATION_MINUTES)")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}
