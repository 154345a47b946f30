package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/Kameltalbi/Carboscan-mobile/internal/entries"
)

func entriesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "entries",
		Short: "Add, review and delete classified entries",
	}
	cmd.AddCommand(entriesAddCmd())
	cmd.AddCommand(entriesReviewCmd())
	cmd.AddCommand(entriesDeleteCmd())
	return cmd
}

func entriesAddCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add <date> <label> <amount>",
		Short: "Record a hand-categorized transaction",
		Args:  cobra.ExactArgs(3),
		RunE:  runEntriesAdd,
	}
	cmd.Flags().String("org", "", "organization id")
	cmd.Flags().String("category", "", "emission category id (required)")
	cmd.Flags().String("supplier", "", "supplier name")
	cmd.Flags().String("currency", "", "transaction currency (default: the organization's)")
	cmd.Flags().String("note", "", "free-form note")
	_ = cmd.MarkFlagRequired("category")
	return cmd
}

func runEntriesAdd(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	store, err := initStorage(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	orgID, _ := cmd.Flags().GetString("org")
	org, err := resolveOrg(ctx, store, orgID)
	if err != nil {
		return err
	}

	date, err := time.Parse("2006-01-02", args[0])
	if err != nil {
		return fmt.Errorf("invalid date %q, expected YYYY-MM-DD: %w", args[0], err)
	}
	amount, err := strconv.ParseFloat(args[2], 64)
	if err != nil {
		return fmt.Errorf("invalid amount %q: %w", args[2], err)
	}

	category, _ := cmd.Flags().GetString("category")
	supplier, _ := cmd.Flags().GetString("supplier")
	currencyCode, _ := cmd.Flags().GetString("currency")
	note, _ := cmd.Flags().GetString("note")

	entry, err := newEntryService(store).AddManualEntry(ctx, org, entries.ManualEntry{
		Date:         date,
		Label:        args[1],
		SupplierName: supplier,
		Category:     category,
		Currency:     currencyCode,
		Note:         note,
		Amount:       amount,
	})
	if err != nil {
		return err
	}

	fmt.Printf("Recorded %s: %.2f %s -> %.2f kgCO2e (%s, %s)\n",
		entry.ID, entry.OriginalAmount, entry.OriginalCurrency,
		entry.KgCo2e, entry.Category, entry.Scope)
	return nil
}

func entriesReviewCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "review",
		Short: "List entries whose classification needs a second look",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			orgID, _ := cmd.Flags().GetString("org")
			org, err := resolveOrg(ctx, store, orgID)
			if err != nil {
				return err
			}

			queue, err := newEntryService(store).ReviewQueue(ctx, org.ID)
			if err != nil {
				return err
			}
			if len(queue) == 0 {
				fmt.Println("Nothing to review.")
				return nil
			}

			fmt.Printf("%d entries below %.0f%% confidence:\n", len(queue), float64(entries.ReviewThreshold)*100)
			for _, e := range queue {
				fmt.Printf("  %s  %s  %-32s %6.0f%%  %s\n",
					e.ID, e.Date.Format("2006-01-02"), e.Category,
					float64(e.Confidence)*100, e.TransactionLabel)
			}
			return nil
		},
	}
	cmd.Flags().String("org", "", "organization id")
	return cmd
}

func entriesDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <entry-id>",
		Short: "Delete an entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			if err := newEntryService(store).Delete(ctx, args[0]); err != nil {
				return err
			}
			fmt.Printf("Deleted entry %s\n", args[0])
			return nil
		},
	}
}
