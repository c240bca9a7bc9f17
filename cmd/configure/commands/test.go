package commands

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/mwhitfield/eightball/internal/database"
)

// NewTestCmd creates the test command
func NewTestCmd() *cobra.Command {
	var provider string

	cmd := &cobra.Command{
		Use:   "test",
		Short: "Test OIDC configuration",
		Long:  "Test OIDC provider configuration by validating its endpoints",
		RunE: func(_ *cobra.Command, _ []string) error {
			if provider == "" {
				return fmt.Errorf("--provider is required")
			}

			db, err := openDatabase()
			if err != nil {
				return err
			}
			defer closeDatabase(db)

			repo := database.NewOIDCConfigRepository(db)
			oidcConfig, err := repo.GetByProvider(context.Background(), provider)
			if err != nil {
				return fmt.Errorf("failed to get OIDC config: %w", err)
			}

			fmt.Printf("Testing OIDC configuration for provider: %s\n", provider)
			fmt.Printf("Issuer: %s\n", oidcConfig.Issuer)

			client := &http.Client{Timeout: 10 * time.Second}

			discoveryURL := oidcConfig.Issuer + "/.well-known/openid-configuration"
			fmt.Printf("\nTesting discovery endpoint: %s\n", discoveryURL)
			resp, err := client.Get(discoveryURL)
			if err != nil {
				return fmt.Errorf("failed to reach discovery endpoint: %w", err)
			}
			defer func() {
				if err := resp.Body.Close(); err != nil {
					fmt.Fprintf(os.Stderr, "Warning: failed to close response body: %v\n", err)
				}
			}()
			if resp.StatusCode != http.StatusOK {
				return fmt.Errorf("discovery endpoint returned status: %d", resp.StatusCode)
			}
			fmt.Println("✓ Discovery endpoint is accessible")

			if oidcConfig.JWKSUrl != nil {
				fmt.Printf("\nTesting JWKS endpoint: %s\n", *oidcConfig.JWKSUrl)
				jwksResp, err := client.Get(*oidcConfig.JWKSUrl)
				if err != nil {
					return fmt.Errorf("failed to reach JWKS endpoint: %w", err)
				}
				defer func() {
					if err := jwksResp.Body.Close(); err != nil {
						fmt.Fprintf(os.Stderr, "Warning: failed to close response body: %v\n", err)
					}
				}()
				if jwksResp.StatusCode != http.StatusOK {
					return fmt.Errorf("JWKS endpoint returned status: %d", jwksResp.StatusCode)
				}
				fmt.Println("✓ JWKS endpoint is accessible")
			}

			fmt.Println("\n✓ OIDC configuration test passed")
			return nil
		},
	}

	cmd.Flags().StringVar(&provider, "provider", "", "Provider name to test (required)")

	return cmd
}
