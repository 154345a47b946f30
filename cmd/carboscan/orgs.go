package main

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/Kameltalbi/Carboscan-mobile/internal/model"
)

func orgsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "orgs",
		Short: "Manage organization profiles",
	}
	cmd.AddCommand(orgsCreateCmd())
	cmd.AddCommand(orgsListCmd())
	cmd.AddCommand(orgsShowCmd())
	return cmd
}

func orgsCreateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create an organization profile",
		RunE:  runOrgsCreate,
	}
	cmd.Flags().String("name", "", "organization name (required)")
	cmd.Flags().String("sector", string(model.SectorOther), "business sector")
	cmd.Flags().String("country", "FR", "ISO country code")
	cmd.Flags().String("currency", "EUR", "reporting currency")
	cmd.Flags().Int("employees", 0, "headcount")
	cmd.Flags().Float64("revenue", 0, "annual revenue in the reporting currency")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func runOrgsCreate(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	store, err := initStorage(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	name, _ := cmd.Flags().GetString("name")
	sector, _ := cmd.Flags().GetString("sector")
	country, _ := cmd.Flags().GetString("country")
	currencyCode, _ := cmd.Flags().GetString("currency")
	employees, _ := cmd.Flags().GetInt("employees")
	revenue, _ := cmd.Flags().GetFloat64("revenue")

	org := &model.Organization{
		ID:            uuid.NewString(),
		Name:          name,
		Sector:        model.Sector(sector),
		Country:       country,
		Currency:      currencyCode,
		Employees:     employees,
		AnnualRevenue: revenue,
	}
	if err := store.SaveOrganization(ctx, org); err != nil {
		return err
	}

	fmt.Printf("Created organization %s (%s)\n", org.Name, org.ID)
	return nil
}

func orgsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List organizations",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			orgs, err := store.ListOrganizations(ctx)
			if err != nil {
				return err
			}
			if len(orgs) == 0 {
				fmt.Println("No organizations yet.")
				return nil
			}
			for _, org := range orgs {
				fmt.Printf("%s  %-30s %s %s (%d employees)\n",
					org.ID, org.Name, org.Country, org.Currency, org.Employees)
			}
			return nil
		},
	}
}

func orgsShowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show an organization's dashboard summary",
		RunE:  runOrgsShow,
	}
	cmd.Flags().String("org", "", "organization id")
	return cmd
}

func runOrgsShow(cmd *cobra.Command, _ []string) error {
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

	stats, err := newReportGenerator(store).OrganizationStats(ctx, org.ID)
	if err != nil {
		return err
	}

	fmt.Printf("%s (%s, %s)\n", org.Name, org.Sector, org.Country)
	fmt.Printf("  Entries:          %d (%d need review)\n", stats.EntryCount, stats.LowConfidenceCount)
	fmt.Printf("  Total emissions:  %.1f kgCO2e\n", stats.TotalKgCo2e)
	fmt.Printf("  Total spending:   %.2f %s\n", stats.TotalSpending, org.Currency)
	fmt.Printf("  Carbon intensity: %.4f kgCO2e/%s", stats.CarbonIntensity, org.Currency)
	if stats.AboveBenchmark() {
		fmt.Printf(" (above the %.4f sector benchmark)\n", stats.SectorBenchmark)
	} else {
		fmt.Printf(" (below the %.4f sector benchmark)\n", stats.SectorBenchmark)
	}
	return nil
}
