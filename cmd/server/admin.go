package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/iliyamo/biblioteca-doacoes/internal/config"
	"github.com/iliyamo/biblioteca-doacoes/internal/service"
)

func adminCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Administrator maintenance",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "passwd <username>",
		Short: "Set a new password for an administrator",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			newLogger(cfg.Env)

			pw, err := readPassword(cmd, "New password: ")
			if err != nil {
				return err
			}
			confirm, err := readPassword(cmd, "Confirm password: ")
			if err != nil {
				return err
			}
			if pw != confirm {
				return fmt.Errorf("passwords do not match")
			}

			db, err := openDB(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer db.Close()

			auth := service.NewAuthService(db, cfg.JWTSecret, cfg.BcryptCost)
			if err := auth.ChangePassword(cmd.Context(), args[0], pw); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "password updated for %s\n", args[0])
			return nil
		},
	})
	return cmd
}

// readPassword reads a password from the terminal without echo.
func readPassword(cmd *cobra.Command, prompt string) (string, error) {
	fmt.Fprint(cmd.OutOrStdout(), prompt)
	b, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(cmd.OutOrStdout()) // newline after masked input
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	return strings.TrimSpace(string(b)), nil
}
