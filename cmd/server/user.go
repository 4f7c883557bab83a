package main

import (
	"errors"
	"fmt"

	"github.com/radioclub/internal/db"
	"github.com/spf13/cobra"
)

var (
	superuserName     string
	superuserEmail    string
	superuserPassword string
)

var createSuperuserCmd = &cobra.Command{
	Use:   "createsuperuser",
	Short: "Create an admin account if it does not exist",
	RunE: func(cmd *cobra.Command, args []string) error {
		if superuserName == "" || superuserPassword == "" {
			return errors.New("--username and --password are required")
		}
		if err := db.Init(appConfig.DatabasePath); err != nil {
			return fmt.Errorf("initialize database: %w", err)
		}
		created, err := db.EnsureUser(db.DB, superuserName, superuserEmail, superuserPassword)
		if err != nil {
			return err
		}
		if created {
			fmt.Fprintf(cmd.OutOrStdout(), "created user %s\n", superuserName)
		} else {
			fmt.Fprintf(cmd.OutOrStdout(), "user %s already exists\n", superuserName)
		}
		return nil
	},
}

func init() {
	createSuperuserCmd.Flags().StringVar(&superuserName, "username", "", "login name")
	createSuperuserCmd.Flags().StringVar(&superuserEmail, "email", "", "email address")
	createSuperuserCmd.Flags().StringVar(&superuserPassword, "password", "", "password")
}
