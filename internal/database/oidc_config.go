package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/mwhitfield/eightball/internal/models"
)

// OIDCConfigRepository handles identity provider configuration
type OIDCConfigRepository struct {
	db *DB
}

// NewOIDCConfigRepository creates a new OIDC config repository
func NewOIDCConfigRepository(db *DB) *OIDCConfigRepository {
	return &OIDCConfigRepository{db: db}
}

// Create creates a new OIDC configuration
func (r *OIDCConfigRepository) Create(ctx context.Context, config *models.OIDCConfig) error {
	query := `
		INSERT INTO oidc_config (id, provider, issuer, client_id, client_secret, redirect_uri, jwks_url, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING created_at, updated_at
	`

	now := time.Now()
	err := r.db.QueryRowContext(ctx, query,
		config.ID,
		config.Provider,
		config.Issuer,
		config.ClientID,
		config.ClientSecret,
		config.RedirectURI,
		config.JWKSUrl,
		now,
		now,
	).Scan(&config.CreatedAt, &config.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to create OIDC config: %w", err)
	}

	return nil
}

// GetByProvider retrieves an OIDC configuration by provider name
func (r *OIDCConfigRepository) GetByProvider(ctx context.Context, provider string) (*models.OIDCConfig, error) {
	config := &models.OIDCConfig{}
	query := `
		SELECT id, provider, issuer, client_id, client_secret, redirect_uri, jwks_url, created_at, updated_at
		FROM oidc_config
		WHERE provider = $1
	`

	err := r.db.QueryRowContext(ctx, query, provider).Scan(
		&config.ID,
		&config.Provider,
		&config.Issuer,
		&config.ClientID,
		&config.ClientSecret,
		&config.RedirectURI,
		&config.JWKSUrl,
		&config.CreatedAt,
		&config.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("OIDC config not found for provider %s: %w", provider, err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get OIDC config: %w", err)
	}

	return config, nil
}

// GetAll retrieves all OIDC configurations
func (r *OIDCConfigRepository) GetAll(ctx context.Context) ([]*models.OIDCConfig, error) {
	query := `
		SELECT id, provider, issuer, client_id, client_secret, redirect_uri, jwks_url, created_at, updated_at
		FROM oidc_config
		ORDER BY provider
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query OIDC configs: %w", err)
	}
	defer rows.Close()

	var configs []*models.OIDCConfig
	for rows.Next() {
		config := &models.OIDCConfig{}
		err := rows.Scan(
			&config.ID,
			&config.Provider,
			&config.Issuer,
			&config.ClientID,
			&config.ClientSecret,
			&config.RedirectURI,
			&config.JWKSUrl,
			&config.CreatedAt,
			&config.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan OIDC config: %w", err)
		}
		configs = append(configs, config)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating OIDC configs: %w", err)
	}

	return configs, nil
}

// Update updates an existing OIDC configuration
func (r *OIDCConfigRepository) Update(ctx context.Context, config *models.OIDCConfig) error {
	query := `
		UPDATE oidc_config
		SET issuer = $2, client_id = $3, client_secret = $4, redirect_uri = $5, jwks_url = $6, updated_at = $7
		WHERE provider = $1
		RETURNING updated_at
	`

	err := r.db.QueryRowContext(ctx, query,
		config.Provider,
		config.Issuer,
		config.ClientID,
		config.ClientSecret,
		config.RedirectURI,
		config.JWKSUrl,
		time.Now(),
	).Scan(&config.UpdatedAt)

	if err == sql.ErrNoRows {
		return fmt.Errorf("OIDC config not found")
	}
	if err != nil {
		return fmt.Errorf("failed to update OIDC config: %w", err)
	}

	return nil
}
