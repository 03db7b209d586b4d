package cmd

import (
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	fuzzyfinder "github.com/ktr0731/go-fuzzyfinder"
	"github.com/spf13/cobra"

	"inv/internal/core/domain"
	"inv/internal/core/services"
	"inv/pkg/attrs"
	"inv/pkg/ui"
)

var catCopy bool

// catCmd represents the cat command
var catCmd = &cobra.Command{
	Use:   "cat [PATTERN]",
	Short: "Show an asset's attributes",
	Long: `Print one asset: its name keys and the YAML attribute content of its
file. With no argument, or when the pattern matches several assets, an
interactive picker opens.

Examples:
  inv cat office/desk_1/laptop_apple_macbook.9r32he
  inv cat '**' --copy
  inv cat`,
	Args: cobra.MaximumNArgs(1),
	RunE: runCat,
}

func init() {
	catCmd.Flags().BoolVarP(&catCopy, "copy", "c", false, "Copy the asset content to the clipboard")
}

func runCat(cmd *cobra.Command, args []string) error {
	ctx := getContext()

	var candidates []*domain.Asset
	if len(args) == 0 {
		resp, err := listService.Search(ctx, "")
		if err != nil {
			fmt.Println(ui.FormatError("Failed to list assets"))
			return err
		}
		candidates = resp.Assets
	} else {
		sel, err := domain.NewSelector(args[0], nil)
		if err != nil {
			return err
		}
		resp, err := listService.Execute(ctx, services.ListRequest{Selector: sel, SortBy: "path"})
		if err != nil {
			fmt.Println(ui.FormatError("Failed to list assets"))
			return err
		}
		candidates = resp.Assets
	}

	if len(candidates) == 0 {
		fmt.Println(ui.FormatWarning("No assets found"))
		return nil
	}

	asset := candidates[0]
	if len(candidates) > 1 {
		idx, err := fuzzyfinder.Find(
			candidates,
			func(i int) string { return candidates[i].Path() },
			fuzzyfinder.WithPreviewWindow(func(i, w, h int) string {
				if i == -1 {
					return ""
				}
				preview, _ := renderAsset(candidates[i])
				return preview
			}),
		)
		if err != nil {
			// User cancelled (Ctrl+C or ESC)
			fmt.Println(ui.FormatInfo("Operation cancelled."))
			return nil
		}
		asset = candidates[idx]
	}

	content, err := renderAsset(asset)
	if err != nil {
		return err
	}

	fmt.Println(ui.FormatTitle(asset.Path()))
	fmt.Println(content)

	if catCopy {
		if err := clipboard.WriteAll(content); err != nil {
			fmt.Println(ui.FormatWarning("Failed to copy to clipboard: " + err.Error()))
			return nil
		}
		fmt.Println(ui.FormatSuccess("Copied to clipboard"))
	}
	return nil
}

// renderAsset shows the name keys first, then the stored YAML content.
func renderAsset(a *domain.Asset) (string, error) {
	var b strings.Builder
	b.WriteString(ui.RenderKeyValue("type", a.Identity.Type) + "\n")
	b.WriteString(ui.RenderKeyValue("make", a.Identity.Make) + "\n")
	b.WriteString(ui.RenderKeyValue("model", a.Identity.Model) + "\n")
	b.WriteString(ui.RenderKeyValue("serial", a.Identity.Serial) + "\n")

	data, err := attrs.Marshal(a.Attributes)
	if err != nil {
		return "", err
	}
	if len(data) > 0 {
		b.WriteString("\n")
		b.Write(data)
	}
	return b.String(), nil
}
