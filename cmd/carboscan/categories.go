package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Kameltalbi/Carboscan-mobile/internal/catalog"
)

func categoriesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "categories",
		Short: "Manage the emission factor catalog",
	}
	cmd.AddCommand(categoriesListCmd())
	cmd.AddCommand(categoriesSyncCmd())
	return cmd
}

func categoriesListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List emission categories and their factors",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			country, _ := cmd.Flags().GetString("country")
			categories, err := store.GetCategoriesByCountry(ctx, country)
			if err != nil {
				return err
			}
			if len(categories) == 0 {
				fmt.Printf("No categories for %s.\n", country)
				return nil
			}
			for _, c := range categories {
				fmt.Printf("%-7s %-32s %8.3f kgCO2e/%-5s %s\n",
					c.Scope, c.ID, c.FactorKgCo2e, c.Unit, c.Label)
			}
			return nil
		},
	}
	cmd.Flags().String("country", catalog.DefaultCountry, "ISO country code")
	return cmd
}

func categoriesSyncCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Replace a country's factor set with the bundled reference data",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			country, _ := cmd.Flags().GetString("country")
			if err := catalog.SyncCountry(ctx, store, country); err != nil {
				return err
			}
			fmt.Printf("Synced factor catalog for %s\n", country)
			return nil
		},
	}
	cmd.Flags().String("country", catalog.DefaultCountry, "ISO country code")
	return cmd
}
