package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

func ratesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rates",
		Short: "Manage exchange rates",
	}
	cmd.AddCommand(ratesSyncCmd())
	cmd.AddCommand(ratesPurgeCmd())
	cmd.AddCommand(ratesConvertCmd())
	return cmd
}

func ratesSyncCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Pre-fetch rates for the common foreign currencies",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			currencyCode, _ := cmd.Flags().GetString("currency")
			if currencyCode == "" {
				org, orgErr := resolveOrg(ctx, store, "")
				if orgErr != nil {
					return orgErr
				}
				currencyCode = org.Currency
			}

			if err := newConverter(store).SyncCommonCurrencies(ctx, currencyCode); err != nil {
				return err
			}
			fmt.Printf("Synced rates into %s\n", currencyCode)
			return nil
		},
	}
	cmd.Flags().String("currency", "", "reporting currency (default: the organization's)")
	return cmd
}

func ratesPurgeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "purge",
		Short: "Delete persisted rates past the retention window",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			purged, err := newConverter(store).PurgeOldRates(ctx)
			if err != nil {
				return err
			}
			fmt.Printf("Purged %d stale rates\n", purged)
			return nil
		},
	}
}

func ratesConvertCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "convert <amount> <from> <to>",
		Short: "Convert an amount between currencies",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			amount, err := strconv.ParseFloat(args[0], 64)
			if err != nil {
				return fmt.Errorf("invalid amount %q: %w", args[0], err)
			}

			conversion, err := newConverter(store).Convert(ctx, amount, args[1], args[2])
			if err != nil {
				return err
			}

			fmt.Printf("%.2f %s = %.2f %s (rate %.6f, source %s)\n",
				conversion.OriginalAmount, conversion.FromCurrency,
				conversion.ConvertedAmount, conversion.ToCurrency,
				conversion.Rate, conversion.Source)
			if conversion.Degraded() {
				fmt.Printf("  warning: %s\n", conversion.Err)
			}
			return nil
		},
	}
}
