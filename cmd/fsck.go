package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"inv/internal/core/domain"
	"inv/internal/core/services"
	"inv/pkg/ui"
)

// fsckCmd represents the fsck command
var fsckCmd = &cobra.Command{
	Use:   "fsck",
	Short: "Check the health of the vault",
	Long: `Validate the whole inventory.

Checks for:
  - Vault and config integrity
  - git availability and a clean working tree
  - Well-formed asset names and YAML content
  - Unique identities across the vault
  - Reserved keys stored as attributes`,
	RunE: runFsck,
}

func runFsck(cmd *cobra.Command, args []string) error {
	fmt.Println(ui.FormatTitle(ui.IconBox + " Inventory Fsck"))
	fmt.Println()

	checkStep("Vault Directory", func() error {
		if !appVault.Exists() {
			return fmt.Errorf("not found at %s", appVault.RootPath)
		}
		return nil
	})

	checkStep("Configuration File", func() error {
		if _, err := os.Stat(appVault.ConfigPath); os.IsNotExist(err) {
			return fmt.Errorf("missing at %s (defaults in effect)", appVault.ConfigPath)
		}
		return nil
	})

	checkStep("git (Versioning)", func() error {
		if !services.IsGitAvailable() {
			return fmt.Errorf("not found in PATH (operations will not be committed)")
		}
		return nil
	})

	checkStep("Working Tree", func() error {
		if gitService.HasUncommittedChanges(getContext()) {
			return fmt.Errorf("uncommitted changes present")
		}
		return nil
	})

	fmt.Println()
	fmt.Println(ui.FormatInfo("Checking inventory integrity..."))

	violations, err := inventoryService.Validate(getContext())
	if err != nil {
		return err
	}

	checkStep("Asset Integrity", func() error {
		if len(violations) > 0 {
			return fmt.Errorf("found %d violation(s)", len(violations))
		}
		return nil
	})

	if len(violations) > 0 {
		fmt.Println()
		for _, v := range violations {
			fmt.Printf("  %s %s\n", ui.StyleError.Render(v.Path+":"), v.Reason)
		}
		cmd.SilenceUsage = true
		cmd.SilenceErrors = true
		return &domain.ValidationError{Violations: violations}
	}

	fmt.Println()
	fmt.Println(ui.FormatSuccess("Inventory is consistent"))
	return nil
}

// checkStep runs a check function and prints the result nicely
func checkStep(name string, check func() error) {
	err := check()
	if err == nil {
		fmt.Printf("%s %s\n", ui.FormatSuccess(""), name)
	} else {
		fmt.Printf("%s %s\n", ui.FormatError(""), name)
		fmt.Printf("    %s\n", ui.StyleMuted.Render(err.Error()))
	}
}
