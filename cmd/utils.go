package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"inv/internal/core/domain"
	"inv/internal/core/services"
	"inv/pkg/ui"
)

// parseSelectors turns path pattern arguments and --filter values into
// selectors. With no patterns the whole vault is selected.
func parseSelectors(patterns, filterArgs []string) ([]domain.Selector, error) {
	if len(patterns) == 0 {
		patterns = []string{"**"}
	}
	selectors := make([]domain.Selector, 0, len(patterns))
	for _, p := range patterns {
		sel, err := domain.NewSelector(p, filterArgs)
		if err != nil {
			return nil, err
		}
		selectors = append(selectors, sel)
	}
	return selectors, nil
}

// printOperationResult shows what an operation changed, or would change
// on a dry run.
func printOperationResult(resp *services.OperationResponse, dryRun bool) {
	if resp.Record == "" {
		fmt.Println(ui.FormatInfo("Nothing to do"))
		return
	}
	fmt.Println(ui.FormatMuted(resp.Record))
	if dryRun {
		fmt.Println(ui.FormatWarning("Dry run: no changes applied"))
		return
	}
	if resp.Committed {
		fmt.Println(ui.FormatSuccess(fmt.Sprintf("Committed %d change(s)", len(resp.Paths))))
	}
}

// confirm prompts the user for a y/n answer on stdin.
func confirm(prompt string) bool {
	reader := bufio.NewReader(os.Stdin)
	fmt.Print(ui.StyleWarning.Render(prompt + " (y/n): "))
	response, err := reader.ReadString('\n')
	if err != nil {
		return false
	}
	return strings.ToLower(strings.TrimSpace(response)) == "y"
}

// formatAttr renders an attribute value for table cells.
func formatAttr(v any) string {
	if v == nil {
		return ""
	}
	return fmt.Sprintf("%v", v)
}
