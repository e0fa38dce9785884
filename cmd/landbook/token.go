package main

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/stwalsh4118/landbook/internal/auth"
)

var (
	tokenOwner string
	tokenTTL   time.Duration
)

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Mint a bearer token for an owner",
	Long:  "Prints a signed bearer token scoping API calls to --owner. A new owner ID is generated when none is given.",
	RunE: func(cmd *cobra.Command, args []string) error {
		owner := uuid.New()
		if tokenOwner != "" {
			parsed, err := uuid.Parse(tokenOwner)
			if err != nil {
				return fmt.Errorf("invalid --owner: %w", err)
			}
			owner = parsed
		}

		ttl := tokenTTL
		if ttl == 0 {
			ttl = cfg.Auth.TokenTTL
		}

		token, err := auth.GenerateToken(cfg.Auth.JWTSecret, owner, ttl)
		if err != nil {
			return err
		}

		log.Debug("Issued token", map[string]interface{}{"owner_id": owner, "ttl": ttl.String()})
		fmt.Fprintf(cmd.OutOrStdout(), "owner: %s\ntoken: %s\n", owner, token)
		return nil
	},
}

func init() {
	tokenCmd.Flags().StringVar(&tokenOwner, "owner", "", "owner UUID the token is issued for")
	tokenCmd.Flags().DurationVar(&tokenTTL, "ttl", 0, "token lifetime (defaults to JWT_TTL)")
	rootCmd.AddCommand(tokenCmd)
}
