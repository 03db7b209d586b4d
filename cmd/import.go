package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"inv/internal/core/services"
	"inv/pkg/attrs"
	"inv/pkg/ui"
)

var (
	importDirectory string
	importDefaults  []string
	importMessage   string
	importDryRun    bool
)

// importCmd represents the import command
var importCmd = &cobra.Command{
	Use:   "import FILE",
	Short: "Create assets from a tab-separated table",
	Long: `Bulk-create assets from a tab-separated file with a header row.
The type, make, model, serial and directory columns name the asset;
every other column becomes an attribute. The whole file is parsed and
validated before the first asset is created.

Examples:
  inv import laptops.tsv --path warehouse
  inv import delivery.tsv --default vendor=cdw --default order=2026-08
  inv import - --path inbox < assets.tsv`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

func init() {
	importCmd.Flags().StringVarP(&importDirectory, "path", "p", "", "Default container for rows without a directory column")
	importCmd.Flags().StringArrayVar(&importDefaults, "default", nil, "key=value attribute applied to every row (repeatable)")
	importCmd.Flags().StringVarP(&importMessage, "message", "m", "", "Commit message")
	importCmd.Flags().BoolVar(&importDryRun, "dry-run", false, "Show what would happen without changing anything")
}

func runImport(cmd *cobra.Command, args []string) error {
	defaults, err := attrs.ParsePairs(importDefaults)
	if err != nil {
		return err
	}

	reader := os.Stdin
	if args[0] != "-" {
		f, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("failed to open %s: %w", args[0], err)
		}
		defer f.Close()
		reader = f
	}

	resp, err := importService.Execute(getContext(), services.ImportRequest{
		Reader:    reader,
		Directory: importDirectory,
		Defaults:  defaults,
		Message:   importMessage,
		DryRun:    importDryRun,
	})
	if err != nil {
		if resp != nil && len(resp.Created) > 0 {
			fmt.Println(ui.FormatWarning(fmt.Sprintf("Imported %d asset(s) before the failure", len(resp.Created))))
		}
		fmt.Println(ui.FormatError("Import failed"))
		return err
	}

	for _, a := range resp.Created {
		fmt.Println(ui.RenderKeyValue("Created", a.Path()))
	}
	if importDryRun {
		fmt.Println(ui.FormatWarning("Dry run: no changes applied"))
		return nil
	}
	fmt.Println(ui.FormatSuccess(fmt.Sprintf("Imported %d asset(s)", len(resp.Created))))
	return nil
}
