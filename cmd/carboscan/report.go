package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/Kameltalbi/Carboscan-mobile/internal/model"
)

func reportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Generate and inspect emission reports",
	}
	cmd.AddCommand(reportGenerateCmd())
	cmd.AddCommand(reportShowCmd())
	cmd.AddCommand(reportStatusCmd())
	return cmd
}

func reportGenerateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a draft report for a period",
		RunE:  runReportGenerate,
	}
	cmd.Flags().String("org", "", "organization id")
	cmd.Flags().String("from", "", "period start, YYYY-MM-DD (required)")
	cmd.Flags().String("to", "", "period end, YYYY-MM-DD (required)")
	_ = cmd.MarkFlagRequired("from")
	_ = cmd.MarkFlagRequired("to")
	return cmd
}

func runReportGenerate(cmd *cobra.Command, _ []string) error {
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

	fromStr, _ := cmd.Flags().GetString("from")
	toStr, _ := cmd.Flags().GetString("to")
	start, err := time.Parse("2006-01-02", fromStr)
	if err != nil {
		return fmt.Errorf("invalid --from date: %w", err)
	}
	end, err := time.Parse("2006-01-02", toStr)
	if err != nil {
		return fmt.Errorf("invalid --to date: %w", err)
	}

	generated, err := newReportGenerator(store).Generate(ctx, org.ID, start, end)
	if err != nil {
		return err
	}

	printReport(generated, org)
	return nil
}

func reportShowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show the latest report for an organization",
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

			latest, err := store.LatestReportForOrganization(ctx, org.ID)
			if err != nil {
				return err
			}
			printReport(latest, org)
			return nil
		},
	}
	cmd.Flags().String("org", "", "organization id")
	return cmd
}

func reportStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status <report-id> <DRAFT|UNDER_REVIEW|SIGNED|REJECTED>",
		Short: "Move a report through its verification lifecycle",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			status := model.VerificationStatus(args[1])
			switch status {
			case model.StatusDraft, model.StatusUnderReview, model.StatusSigned, model.StatusRejected:
			default:
				return fmt.Errorf("invalid status %q", args[1])
			}

			if err := store.UpdateReportStatus(ctx, args[0], status); err != nil {
				return err
			}
			fmt.Printf("Report %s is now %s\n", args[0], status)
			return nil
		},
	}
}

func printReport(r *model.Report, org *model.Organization) {
	fmt.Printf("Report %s (%s)\n", r.ID, r.Status)
	fmt.Printf("  Period:  %s to %s\n", r.PeriodStart.Format("2006-01-02"), r.PeriodEnd.Format("2006-01-02"))
	fmt.Printf("  Total:   %.1f kgCO2e over %.2f %s\n", r.TotalKgCo2e, r.TotalSpending, org.Currency)
	fmt.Printf("  Scope 1: %.1f kgCO2e\n", r.Scope1Kg)
	fmt.Printf("  Scope 2: %.1f kgCO2e\n", r.Scope2Kg)
	fmt.Printf("  Scope 3: %.1f kgCO2e\n", r.Scope3Kg)
	fmt.Printf("  Carbon intensity: %.4f kgCO2e/%s of revenue\n", r.CarbonIntensity, org.Currency)

	if len(r.TopCategories) > 0 {
		fmt.Println("  Top categories:")
		for _, line := range r.TopCategories {
			fmt.Printf("    %-32s %10.1f kgCO2e %6.1f%%\n", line.Category, line.KgCo2e, line.Percentage)
		}
	}
	if len(r.TopSuppliers) > 0 {
		fmt.Println("  Top suppliers:")
		for _, line := range r.TopSuppliers {
			fmt.Printf("    %-32s %10.1f kgCO2e over %d transactions\n",
				line.SupplierName, line.TotalKgCo2e, line.TransactionCount)
		}
	}
	if len(r.ReductionPlan) > 0 {
		fmt.Println("  Reduction plan:")
		for _, action := range r.ReductionPlan {
			fmt.Printf("    [%s] %s: save up to %.1f kgCO2e\n",
				action.Difficulty, action.Title, action.PotentialSavingKg)
		}
	}
}
