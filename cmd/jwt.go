package main

import (
	"context"
	"fmt"
	"proplookup/internal/config"
	"proplookup/pkg/logger"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// JWTCommand constructs the 'jwt' subcommand that issues an RS256 token an API
// caller can send as its bearer credential. The subject must be a UUID; a new
// one is generated when none is given.
func JWTCommand(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "jwt",
		Short: "Issues an API token for a caller",
		Run: func(cmd *cobra.Command, args []string) {
			ctx := context.Background()
			subject, _ := cmd.Flags().GetString("subject")
			ttl, _ := cmd.Flags().GetDuration("ttl")

			callerID := uuid.New()
			if subject != "" {
				id, err := uuid.Parse(subject)
				if err != nil {
					logger.Fatal(ctx, "subject must be a UUID", zap.String("subject", subject), zap.Error(err))
				}
				callerID = id
			}

			key, err := jwt.ParseRSAPrivateKeyFromPEM([]byte(cfg.JWT.PrivateKey))
			if err != nil {
				logger.Fatal(ctx, "could not parse RSA private key", zap.Error(err))
			}

			now := time.Now()
			token := jwt.NewWithClaims(jwt.SigningMethodRS256, jwt.RegisteredClaims{
				Subject:   callerID.String(),
				ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
				IssuedAt:  jwt.NewNumericDate(now),
				NotBefore: jwt.NewNumericDate(now),
			})
			signed, err := token.SignedString(key)
			if err != nil {
				logger.Fatal(ctx, "could not sign JWT", zap.Error(err))
			}

			logger.Info(ctx, "issued token", zap.String("callerID", callerID.String()), zap.Duration("ttl", ttl))
			fmt.Fprintln(cmd.OutOrStdout(), signed) //nolint: errcheck
		},
	}

	cmd.Flags().String("subject", "", "Caller UUID; generated when empty")
	cmd.Flags().Duration("ttl", 24*time.Hour, "Token TTL (e.g., 30s, 15m, 1h)")

	return cmd
}
