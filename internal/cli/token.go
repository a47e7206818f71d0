package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jhoicas/logistica-api/pkg/jwt"
)

// TokenCmd emite un JWT de desarrollo firmado con JWT_SECRET.
func TokenCmd() *cobra.Command {
	var user, role string
	var minutes int
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Genera un token de desarrollo",
		RunE: func(cmd *cobra.Command, args []string) error {
			secret := os.Getenv("JWT_SECRET")
			if secret == "" {
				return fmt.Errorf("JWT_SECRET no definido")
			}
			tok, err := jwt.Generate(secret, user, role, "logctl", minutes)
			if err != nil {
				return err
			}
			fmt.Println(tok)
			return nil
		},
	}
	cmd.Flags().StringVar(&user, "user", "logctl", "user id")
	cmd.Flags().StringVar(&role, "role", jwt.RoleOperador, "rol: admin, facturador u operador")
	cmd.Flags().IntVar(&minutes, "minutes", 60, "vigencia en minutos")
	return cmd
}
