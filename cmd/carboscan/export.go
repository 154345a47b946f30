package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Kameltalbi/Carboscan-mobile/internal/export"
)

func exportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export entries and reports as CSV",
	}
	cmd.AddCommand(exportEntriesCmd())
	cmd.AddCommand(exportReportCmd())
	return cmd
}

func exportEntriesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "entries",
		Short: "Export an organization's entries",
		RunE:  runExportEntries,
	}
	cmd.Flags().String("org", "", "organization id")
	cmd.Flags().String("out", "", "output file (default: stdout)")
	return cmd
}

func runExportEntries(cmd *cobra.Command, _ []string) error {
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

	entries, err := store.GetEntriesByOrganization(ctx, org.ID)
	if err != nil {
		return err
	}

	out, closeOut, err := openOutput(cmd)
	if err != nil {
		return err
	}
	defer closeOut()

	return export.WriteEntries(out, entries)
}

func exportReportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Export a report (latest by default)",
		RunE:  runExportReport,
	}
	cmd.Flags().String("org", "", "organization id")
	cmd.Flags().String("id", "", "report id (default: the organization's latest)")
	cmd.Flags().String("out", "", "output file (default: stdout)")
	return cmd
}

func runExportReport(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	store, err := initStorage(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	reportID, _ := cmd.Flags().GetString("id")
	var target string
	if reportID != "" {
		target = reportID
	} else {
		orgID, _ := cmd.Flags().GetString("org")
		org, orgErr := resolveOrg(ctx, store, orgID)
		if orgErr != nil {
			return orgErr
		}
		latest, latestErr := store.LatestReportForOrganization(ctx, org.ID)
		if latestErr != nil {
			return latestErr
		}
		target = latest.ID
	}

	r, err := store.GetReport(ctx, target)
	if err != nil {
		return err
	}

	out, closeOut, err := openOutput(cmd)
	if err != nil {
		return err
	}
	defer closeOut()

	return export.WriteReport(out, r)
}

func openOutput(cmd *cobra.Command) (*os.File, func(), error) {
	path, _ := cmd.Flags().GetString("out")
	if path == "" {
		return os.Stdout, func() {}, nil
	}
	file, err := os.Create(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create output file: %w", err)
	}
	return file, func() { _ = file.Close() }, nil
}
