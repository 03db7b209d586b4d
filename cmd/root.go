package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"inv/internal/adapters/repository"
	"inv/internal/adapters/serial"
	"inv/internal/core/services"
	"inv/pkg/config"
	"inv/pkg/ui"
	"inv/pkg/vault"
)

var (
	// Global vault instance
	appVault  *vault.Vault
	appConfig *config.Config

	// Services
	inventoryService *services.InventoryService
	listService      *services.ListService
	treeService      *services.TreeService
	importService    *services.ImportService
	gitService       *services.GitService

	// Repository
	assetRepo *repository.FileRepository
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "inv",
	Short: "inv - a plain-text inventory manager",
	Long: ui.StyleTitle.Render("INV") + " - Inventory Manager\n\n" +
		"Track assets as plain YAML files in a git-backed directory tree.\n" +
		"Filenames encode identity, directories encode location, and every\n" +
		"operation is committed with a structured record.",
	PersistentPreRunE: initializeApp,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(mkdirCmd)
	rootCmd.AddCommand(newCmd)
	rootCmd.AddCommand(setCmd)
	rootCmd.AddCommand(unsetCmd)
	rootCmd.AddCommand(mvCmd)
	rootCmd.AddCommand(rmCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(treeCmd)
	rootCmd.AddCommand(catCmd)
	rootCmd.AddCommand(fsckCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(exploreCmd)
	rootCmd.AddCommand(gitCmd)
	rootCmd.AddCommand(versionCmd)
}

// initializeApp locates the vault and wires up the services.
func initializeApp(cmd *cobra.Command, args []string) error {
	// init and version run without a vault
	if cmd.Name() == "init" || cmd.Name() == "version" {
		return nil
	}

	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("failed to determine working directory: %w", err)
	}

	v, err := vault.Discover(cwd)
	if err != nil {
		fmt.Println(ui.FormatError("Not inside an inventory vault"))
		fmt.Println(ui.FormatInfo("Run 'inv init' to create one here"))
		os.Exit(1)
	}
	appVault = v

	cfg, err := config.Load(appVault.ConfigPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	appConfig = cfg
	ui.SetTheme(appConfig.ColorTheme)

	assetRepo = repository.NewFileRepository(appVault)
	gitService = services.NewGitService(appVault.RootPath)

	inventoryService = services.NewInventoryService(
		assetRepo,
		serial.NewRandomGenerator(),
		gitService,
		appConfig.SerialLength,
	)
	listService = services.NewListService(assetRepo)
	treeService = services.NewTreeService(assetRepo)
	importService = services.NewImportService(inventoryService)

	return nil
}

// getContext returns a context for operations
func getContext() context.Context {
	return context.Background()
}
