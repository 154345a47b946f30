package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func classifyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "classify <label>",
		Short: "Classify one transaction label",
		Long: `Run the classification chain against a single label and print the
suggestion without persisting anything. Useful for checking what an import
would do with a given line.`,
		Args: cobra.MinimumNArgs(1),
		RunE: runClassify,
	}
	cmd.Flags().String("org", "", "organization id")
	cmd.Flags().Float64("amount", 0, "transaction amount")
	return cmd
}

func runClassify(cmd *cobra.Command, args []string) error {
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

	label := strings.Join(args, " ")
	amount, _ := cmd.Flags().GetFloat64("amount")

	suggestion, err := newEngine(store).Classify(ctx, org, label, amount)
	if err != nil {
		return err
	}
	if suggestion == nil {
		fmt.Printf("No suggestion for %q\n", label)
		return nil
	}

	fmt.Printf("%q -> %s (scope %s)\n", label, suggestion.Category, suggestion.Scope)
	fmt.Printf("  confidence: %.2f (%s)\n", suggestion.Confidence, suggestion.Confidence.Band())
	fmt.Printf("  rationale:  %s [%s]\n", suggestion.Rationale, suggestion.Provenance)
	if suggestion.Factor != nil {
		fmt.Printf("  factor:     %.3f kgCO2e/%s (%s)\n",
			suggestion.Factor.FactorKgCo2e, suggestion.Factor.Unit, suggestion.Factor.Source)
	} else {
		fmt.Println("  factor:     none for this category, row would need review")
	}
	if suggestion.Confidence.ShouldAutoApply() {
		fmt.Println("  would be applied automatically")
	} else {
		fmt.Println("  would be queued for review")
	}
	return nil
}
