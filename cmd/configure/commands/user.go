package commands

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/mwhitfield/eightball/internal/database"
)

// NewUserCmd creates the user management command
func NewUserCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manage users",
	}
	cmd.AddCommand(newUserShowCmd())
	cmd.AddCommand(newUserDeleteCmd())
	return cmd
}

func newUserShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <user-id>",
		Short: "Show a user",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			id, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("invalid user ID: %w", err)
			}

			db, err := openDatabase()
			if err != nil {
				return err
			}
			defer closeDatabase(db)

			repo := database.NewUserRepository(db)
			user, err := repo.GetByID(context.Background(), id)
			if err != nil {
				if errors.Is(err, sql.ErrNoRows) {
					return fmt.Errorf("user %s not found", id)
				}
				return fmt.Errorf("failed to load user: %w", err)
			}

			fmt.Printf("User %s\n", user.ID)
			fmt.Printf("  Email: %s\n", user.Email)
			if user.Name != nil {
				fmt.Printf("  Name: %s\n", *user.Name)
			}
			fmt.Printf("  Provider ID: %s\n", user.ProviderID)
			fmt.Printf("  Created: %s\n", user.CreatedAt.Format("2006-01-02 15:04:05"))
			fmt.Printf("  Last login: %s\n", user.LastLoginAt.Format("2006-01-02 15:04:05"))
			return nil
		},
	}
}

func newUserDeleteCmd() *cobra.Command {
	var confirm bool

	cmd := &cobra.Command{
		Use:   "delete <user-id>",
		Short: "Delete a user and all of their decisions",
		Long:  "Delete a user. Their decision history is removed with them.",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			id, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("invalid user ID: %w", err)
			}
			if !confirm {
				return fmt.Errorf("refusing to delete without --yes")
			}

			db, err := openDatabase()
			if err != nil {
				return err
			}
			defer closeDatabase(db)

			repo := database.NewUserRepository(db)
			if err := repo.Delete(context.Background(), id); err != nil {
				if errors.Is(err, sql.ErrNoRows) {
					return fmt.Errorf("user %s not found", id)
				}
				return fmt.Errorf("failed to delete user: %w", err)
			}

			fmt.Printf("Deleted user %s and their decision history\n", id)
			return nil
		},
	}

	cmd.Flags().BoolVar(&confirm, "yes", false, "Confirm deletion")
	return cmd
}
