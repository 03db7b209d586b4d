package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"inv/internal/core/services"
	"inv/pkg/config"
	"inv/pkg/ui"
	"inv/pkg/vault"
)

var initCmd = &cobra.Command{
	Use:   "init [directory]",
	Short: "Initialize a new inventory vault",
	Long: `Initialize a new inventory vault in the given directory
(default: current directory).

Creates the vault marker, a default configuration file, and a git
repository so every operation can be committed.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runInit,
}

func runInit(cmd *cobra.Command, args []string) error {
	target := "."
	if len(args) > 0 {
		target = args[0]
	}

	v := vault.At(target)
	if v.Exists() {
		fmt.Println(ui.FormatWarning("Vault already initialized at " + v.RootPath))
		return nil
	}

	if err := v.Initialize(); err != nil {
		return fmt.Errorf("failed to initialize vault: %w", err)
	}

	cfg := config.DefaultConfig()
	if err := cfg.Save(v.ConfigPath); err != nil {
		return fmt.Errorf("failed to write default config: %w", err)
	}

	if !cfg.GitAutoInit {
		fmt.Println(ui.FormatInfo("git_auto_init disabled: run 'inv git init' to version the vault"))
	} else if !services.IsGitAvailable() {
		fmt.Println(ui.FormatWarning("git not found in PATH: operations will not be committed"))
	} else {
		git := services.NewGitService(v.RootPath)
		ctx := getContext()
		if err := git.Init(ctx); err != nil {
			return fmt.Errorf("git init failed: %w", err)
		}
		if err := git.Commit(ctx, "Initialize inventory vault"); err != nil {
			return fmt.Errorf("initial commit failed: %w", err)
		}
	}

	fmt.Println(ui.FormatSuccess("Initialized empty inventory vault"))
	fmt.Println(ui.RenderKeyValue("Vault", v.RootPath))
	fmt.Println(ui.RenderKeyValue("Config", v.ConfigPath))
	return nil
}
