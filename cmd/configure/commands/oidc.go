package commands

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/mwhitfield/eightball/internal/database"
	"github.com/mwhitfield/eightball/internal/models"
)

// NewOIDCCmd creates the OIDC configuration command
func NewOIDCCmd() *cobra.Command {
	var issuer, clientID, clientSecret, redirectURI, jwksURL string

	cmd := &cobra.Command{
		Use:   "oidc <provider-name>",
		Short: "Configure an OIDC provider",
		Long:  "Configure an OIDC provider for authentication (e.g. 'google', 'okta', 'auth0')",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			provider := args[0]
			if provider == "" {
				return fmt.Errorf("provider name cannot be empty")
			}
			if issuer == "" || clientID == "" || redirectURI == "" {
				return fmt.Errorf("required flags: --issuer, --client-id, --redirect-uri (--client-secret is optional for public clients)")
			}

			db, err := openDatabase()
			if err != nil {
				return err
			}
			defer closeDatabase(db)

			repo := database.NewOIDCConfigRepository(db)
			ctx := context.Background()

			if jwksURL == "" {
				jwksURL = issuer + "/.well-known/jwks.json"
			}

			existing, err := repo.GetByProvider(ctx, provider)
			if err == nil && existing != nil {
				existing.Issuer = issuer
				existing.ClientID = clientID
				if clientSecret != "" {
					existing.ClientSecret = &clientSecret
				} else {
					existing.ClientSecret = nil
				}
				existing.RedirectURI = redirectURI
				existing.JWKSUrl = &jwksURL

				if err := repo.Update(ctx, existing); err != nil {
					return fmt.Errorf("failed to update OIDC config: %w", err)
				}
				fmt.Printf("Updated OIDC configuration for provider: %s\n", provider)
				return nil
			}

			oidcConfig := &models.OIDCConfig{
				ID:          uuid.New(),
				Provider:    provider,
				Issuer:      issuer,
				ClientID:    clientID,
				RedirectURI: redirectURI,
				JWKSUrl:     &jwksURL,
			}
			if clientSecret != "" {
				oidcConfig.ClientSecret = &clientSecret
			}

			if err := repo.Create(ctx, oidcConfig); err != nil {
				return fmt.Errorf("failed to create OIDC config: %w", err)
			}
			fmt.Printf("Created OIDC configuration for provider: %s\n", provider)
			return nil
		},
	}

	cmd.Flags().StringVar(&issuer, "issuer", "", "OIDC issuer URL (required)")
	cmd.Flags().StringVar(&clientID, "client-id", "", "OAuth2 client ID (required)")
	cmd.Flags().StringVar(&clientSecret, "client-secret", "", "OAuth2 client secret (optional for public clients)")
	cmd.Flags().StringVar(&redirectURI, "redirect-uri", "", "OAuth2 redirect URI (required)")
	cmd.Flags().StringVar(&jwksURL, "jwks-url", "", "JWKS URL (defaults to <issuer>/.well-known/jwks.json)")

	return cmd
}
