package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func correctCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "correct <label>",
		Short: "Record a classification correction",
		Long: `Teach the classifier: record that a label should map to a different
category than suggested. Future classifications of similar labels replay the
correction ahead of every other rule.`,
		Args: cobra.ExactArgs(1),
		RunE: runCorrect,
	}
	cmd.Flags().String("org", "", "organization id")
	cmd.Flags().String("category", "", "corrected category id (required)")
	cmd.Flags().String("suggested", "", "category the engine had suggested")
	cmd.Flags().Float64("amount", 0, "transaction amount")
	_ = cmd.MarkFlagRequired("category")
	return cmd
}

func runCorrect(cmd *cobra.Command, args []string) error {
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

	category, _ := cmd.Flags().GetString("category")
	suggested, _ := cmd.Flags().GetString("suggested")
	amount, _ := cmd.Flags().GetFloat64("amount")

	// Reject typos before they poison the learning history.
	if _, err := store.GetCategory(ctx, category, org.Country); err != nil {
		return fmt.Errorf("unknown category %q: %w", category, err)
	}

	if err := newEngine(store).LearnFromCorrection(ctx, org, args[0], suggested, category, amount); err != nil {
		return err
	}

	if suggested == category {
		fmt.Println("Suggestion confirmed, nothing to learn.")
		return nil
	}
	fmt.Printf("Recorded: %q -> %s\n", args[0], category)
	return nil
}
