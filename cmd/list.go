package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"inv/internal/core/domain"
	"inv/internal/core/services"
	"inv/pkg/ui"
)

var (
	listFilters []string
	listSortBy  string
	listReverse bool
	listDepth   int
	listKeys    []string
)

// listCmd represents the list command
var listCmd = &cobra.Command{
	Use:     "list [PATTERN]",
	Short:   "List assets in a table",
	Aliases: []string{"ls"},
	Long: `List assets matching a path pattern and key filters. An empty result
is an answer, not an error.

Examples:
  inv list
  inv list 'office/**'
  inv list --filter type=laptop --filter make=apple
  inv list --sort serial --reverse
  inv list --keys os --keys display_size`,
	Args: cobra.MaximumNArgs(1),
	RunE: runList,
}

func init() {
	listCmd.Flags().StringArrayVarP(&listFilters, "filter", "f", nil, "key=value filter on matched assets (repeatable)")
	listCmd.Flags().StringVar(&listSortBy, "sort", "path", "Sort by field (path, type, make, serial)")
	listCmd.Flags().BoolVar(&listReverse, "reverse", false, "Reverse sort order")
	listCmd.Flags().IntVar(&listDepth, "depth", 0, "Only show assets at most this many levels deep")
	listCmd.Flags().StringArrayVar(&listKeys, "keys", nil, "Extra attribute columns (repeatable)")
}

func runList(cmd *cobra.Command, args []string) error {
	pattern := "**"
	if len(args) > 0 {
		pattern = args[0]
	}
	sel, err := domain.NewSelector(pattern, listFilters)
	if err != nil {
		return err
	}

	// Flags the user did not touch fall back to the config defaults.
	if !cmd.Flags().Changed("sort") {
		listSortBy = appConfig.DefaultSort
	}
	if !cmd.Flags().Changed("reverse") {
		listReverse = appConfig.ReverseSort
	}
	keys := listKeys
	if len(keys) == 0 {
		keys = appConfig.ListKeys
	}

	resp, err := listService.Execute(getContext(), services.ListRequest{
		Selector: sel,
		Depth:    listDepth,
		SortBy:   listSortBy,
		Reverse:  listReverse,
	})
	if err != nil {
		fmt.Println(ui.FormatError("Failed to list assets"))
		return err
	}

	if resp.Total == 0 {
		fmt.Println(ui.FormatWarning("No assets found"))
		return nil
	}

	headers := []string{"Path", "Type", "Make", "Model", "Serial"}
	headers = append(headers, keys...)
	table := ui.NewTable(headers...)
	table.MaxWidth = appConfig.TableWidth

	for _, a := range resp.Assets {
		row := []string{a.Path(), a.Identity.Type, a.Identity.Make, a.Identity.Model, a.Identity.Serial}
		for _, k := range keys {
			v, _ := a.Get(k)
			row = append(row, formatAttr(v))
		}
		table.AddRow(row...)
	}

	fmt.Print(table.Render())
	fmt.Println()
	fmt.Println(ui.FormatMuted(fmt.Sprintf("Total: %d assets", resp.Total)))
	return nil
}
