package main

import (
	"fmt"

	"github.com/radioclub/internal/db"
	"github.com/radioclub/internal/seed"
	"github.com/spf13/cobra"
)

var seedDemo bool

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Create the admin account, the page tree and the default settings",
	Long: `seed creates whatever is missing from the initial site: the admin account, the home
page with its sections and radio topics, the board, the contact form and the club settings.
Running it again changes nothing. With --demo it also adds sample posts, activities and a gallery.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := db.Init(appConfig.DatabasePath); err != nil {
			return fmt.Errorf("initialize database: %w", err)
		}

		report, err := seed.Run(cmd.Context(), db.DB, appConfig.Seed, logger)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "pages: %d, board members: %d, form fields: %d, settings: %d\n",
			report.PagesCreated, report.BoardMembersCreated, report.FieldsCreated, report.SettingsCreated)

		if !seedDemo {
			return nil
		}
		demo, err := seed.Demo(cmd.Context(), db.DB, logger)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "demo categories: %d, demo pages: %d\n", demo.CategoriesCreated, demo.PagesCreated)
		return nil
	},
}

func init() {
	seedCmd.Flags().BoolVar(&seedDemo, "demo", false, "also create sample content")
}
