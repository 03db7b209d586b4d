package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"inv/internal/core/domain"
	"inv/internal/core/services"
	"inv/pkg/attrs"
	"inv/pkg/ui"
)

var (
	newPath    string
	newSerials []string
	newCount   int
	newMessage string
	newDryRun  bool
)

// newCmd represents the new command
var newCmd = &cobra.Command{
	Use:   "new TYPE_MAKE_MODEL[.SERIAL] [KEY=VALUE...]",
	Short: "Create new assets",
	Long: `Create one or more assets under an existing container.

The first argument names the asset: type, make and model joined with
underscores, optionally followed by a dot and the serial. Without a
serial (or with the serial "faux") a unique faux serial is generated.
Remaining arguments become attributes of the new asset.

Examples:
  inv new laptop_apple_macbook.9r32he --path office/desk_1
  inv new monitor_dell_u2720q --path office display_size=27
  inv new headphones_JBL_pro --path storage --count 3
  inv new laptop_lenovo_thinkpad --path it --serial ABC123 --serial DEF456`,
	Args: cobra.MinimumNArgs(1),
	RunE: runNew,
}

func init() {
	newCmd.Flags().StringVarP(&newPath, "path", "p", "", "Container to create the assets in (required)")
	newCmd.Flags().StringArrayVar(&newSerials, "serial", nil, "Explicit serial (repeatable, one asset each)")
	newCmd.Flags().IntVar(&newCount, "count", 1, "Number of assets to create with faux serials")
	newCmd.Flags().StringVarP(&newMessage, "message", "m", "", "Commit message")
	newCmd.Flags().BoolVar(&newDryRun, "dry-run", false, "Show what would happen without changing anything")
	_ = newCmd.MarkFlagRequired("path")
}

func runNew(cmd *cobra.Command, args []string) error {
	id, hasSerial, err := parseNameTemplate(args[0])
	if err != nil {
		return err
	}

	attributes, err := attrs.ParsePairs(args[1:])
	if err != nil {
		return err
	}

	serials := newSerials
	if hasSerial {
		if len(serials) > 0 {
			return fmt.Errorf("cannot combine a serial in the name with --serial")
		}
		serials = []string{id.Serial}
	}
	if len(serials) > 0 && cmd.Flags().Changed("count") {
		return fmt.Errorf("cannot combine explicit serials with --count")
	}

	req := services.CreateRequest{
		Container:  newPath,
		Type:       id.Type,
		Make:       id.Make,
		Model:      id.Model,
		Serials:    serials,
		Count:      newCount,
		Attributes: attributes,
		Message:    newMessage,
		DryRun:     newDryRun,
	}

	resp, err := inventoryService.Create(getContext(), req)
	if err != nil {
		fmt.Println(ui.FormatError("Failed to create assets"))
		return err
	}

	for _, a := range resp.Assets {
		fmt.Println(ui.RenderKeyValue("Created", a.Path()))
	}
	printOperationResult(&resp.OperationResponse, newDryRun)
	return nil
}

// parseNameTemplate reads "type_make_model" or "type_make_model.serial".
func parseNameTemplate(token string) (domain.Identity, bool, error) {
	if strings.Contains(token, ".") {
		id, err := domain.ParseIdentity(token)
		if err != nil {
			return domain.Identity{}, false, err
		}
		return id, id.Serial != domain.FauxPrefix, nil
	}
	parts := strings.Split(token, "_")
	if len(parts) != 3 || parts[0] == "" || parts[1] == "" || parts[2] == "" {
		return domain.Identity{}, false, fmt.Errorf("%w: %q (want TYPE_MAKE_MODEL[.SERIAL])", domain.ErrMalformedIdentity, token)
	}
	return domain.Identity{Type: parts[0], Make: parts[1], Model: parts[2]}, false, nil
}
