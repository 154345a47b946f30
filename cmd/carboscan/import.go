package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/Kameltalbi/Carboscan-mobile/internal/common"
	"github.com/Kameltalbi/Carboscan-mobile/internal/importer"
)

func importCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Import a delimited bank export",
		Long: `Parse a delimited transaction export, classify every row into an emission
category and, after confirmation, persist the rows as emission entries.

Expected columns: date;label;amount[;supplier[;category]]. A category in the
file overrides classification. Use 'import template' to print a sample file.`,
		Args: cobra.ExactArgs(1),
		RunE: runImport,
	}
	cmd.Flags().String("org", "", "organization id")
	cmd.Flags().String("currency", "", "currency the amounts are in (default: the organization's)")
	cmd.Flags().String("delimiter", ";", "field delimiter")
	cmd.Flags().Bool("no-header", false, "the file has no header row")
	cmd.Flags().Bool("yes", false, "persist without prompting")
	cmd.Flags().Bool("dry-run", false, "parse and classify only, never persist")

	cmd.AddCommand(&cobra.Command{
		Use:   "template",
		Short: "Print a sample import file",
		Run: func(_ *cobra.Command, _ []string) {
			fmt.Print(importer.Template())
		},
	})
	return cmd
}

func runImport(cmd *cobra.Command, args []string) error {
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

	file, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("failed to open import file: %w", err)
	}
	defer func() { _ = file.Close() }()

	imp := newImporter(store)
	if delimiter, _ := cmd.Flags().GetString("delimiter"); delimiter != "" {
		imp.SetDelimiter([]rune(delimiter)[0])
	}
	if noHeader, _ := cmd.Flags().GetBool("no-header"); noHeader {
		imp.SetHasHeader(false)
	}

	result, err := imp.ImportTabular(ctx, org, file)
	if err != nil {
		return err
	}

	fmt.Printf("Parsed %s: %d rows accepted, %d rejected\n", args[0], len(result.Accepted), len(result.Rejected))
	for _, rejected := range result.Rejected {
		fmt.Printf("  line %d rejected: %s\n", rejected.Line, rejected.Reason)
	}
	printClassificationSummary(result)

	if dryRun, _ := cmd.Flags().GetBool("dry-run"); dryRun {
		return nil
	}
	if len(result.Accepted) == 0 {
		return nil
	}

	if yes, _ := cmd.Flags().GetBool("yes"); !yes {
		fmt.Printf("Persist %d entries for %s? [y/N] ", len(result.Accepted), org.Name)
		reader := bufio.NewReader(os.Stdin)
		answer, _ := reader.ReadString('\n')
		if answer = strings.ToLower(strings.TrimSpace(answer)); answer != "y" && answer != "yes" {
			fmt.Println("Aborted.")
			return nil
		}
	}

	sourceCurrency, _ := cmd.Flags().GetString("currency")

	bar := progressbar.NewOptions(len(result.Accepted),
		progressbar.OptionSetDescription("Saving entries"),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
	)

	total := &importer.PersistResult{}
	for i := range result.Accepted {
		persisted, persistErr := imp.ConfirmAndPersist(ctx, org, result.Accepted[i:i+1], sourceCurrency)
		if persistErr != nil {
			common.LogError(persistErr, "import aborted", common.Fields{
				"organization": org.ID,
				"rows_saved":   total.Saved,
			})
			return persistErr
		}
		total.Saved += persisted.Saved
		total.SkippedNoFactor += persisted.SkippedNoFactor
		total.Degraded += persisted.Degraded
		_ = bar.Add(1)
	}

	fmt.Printf("Saved %d entries", total.Saved)
	if total.SkippedNoFactor > 0 {
		fmt.Printf(", skipped %d without an emission factor", total.SkippedNoFactor)
	}
	if total.Degraded > 0 {
		fmt.Printf(", %d with degraded currency conversion", total.Degraded)
	}
	fmt.Println()
	return nil
}

func printClassificationSummary(result *importer.Result) {
	var auto, review, unclassified, manual int
	for i := range result.Accepted {
		row := &result.Accepted[i]
		switch {
		case row.ManualCategory != "":
			manual++
		case row.Suggestion == nil:
			unclassified++
		case row.Suggestion.Confidence.ShouldAutoApply():
			auto++
		default:
			review++
		}
	}
	fmt.Printf("  %d auto-classified, %d need review, %d unclassified, %d manual\n",
		auto, review, unclassified, manual)
}
