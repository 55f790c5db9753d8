package cli

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/resumate/resumate/internal/tokens"
)

func newTokenCmd() *cobra.Command {
	var (
		sub, name, email string
		ttl              time.Duration
	)
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint a development bearer token signed with AUTH_JWT_SECRET",
		RunE: func(cmd *cobra.Command, _ []string) error {
			secret := os.Getenv("AUTH_JWT_SECRET")
			if secret == "" {
				return errors.New("AUTH_JWT_SECRET is not set")
			}
			tok, err := tokens.Mint(secret, sub, name, email, ttl)
			if err != nil {
				return err
			}
			fmt.Fprintln(out(cmd), tok)
			return nil
		},
	}
	cmd.Flags().StringVar(&sub, "sub", "", "Subject; becomes the resume ownerId (required)")
	cmd.Flags().StringVar(&name, "name", "", "Display name claim")
	cmd.Flags().StringVar(&email, "email", "", "Email claim")
	cmd.Flags().DurationVar(&ttl, "ttl", time.Hour, "Token lifetime")
	if err := cmd.MarkFlagRequired("sub"); err != nil {
		panic(fmt.Sprintf("failed to mark sub flag as required: %v", err))
	}
	return cmd
}
