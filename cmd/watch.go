package cmd

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"inv/pkg/ui"
	"inv/pkg/vault"
)

var watchQuiet bool

// watchCmd represents the watch command
var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch the vault and revalidate on changes",
	Long: `Watch the vault for file changes made outside of inv (an editor, a
sync tool, a git pull) and revalidate the inventory whenever something
changes. Violations are printed as they appear.

Use --quiet to only report violations.`,
	RunE: runWatchVault,
}

func init() {
	watchCmd.Flags().BoolVarP(&watchQuiet, "quiet", "q", false, "Only report violations")
}

func runWatchVault(cmd *cobra.Command, args []string) error {
	ctx := getContext()

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Close()

	// fsnotify does not recurse, so every container directory gets its
	// own watch; new directories are added as they appear.
	if err := watchTree(watcher, appVault.RootPath); err != nil {
		return fmt.Errorf("failed to watch vault: %w", err)
	}

	if !watchQuiet {
		fmt.Println(ui.FormatInfo("Watching: " + appVault.RootPath))
		fmt.Println(ui.FormatMuted("Press Ctrl+C to stop"))
		fmt.Println()
	}

	debounce := time.Duration(appConfig.WatchDebounceMS) * time.Millisecond
	var timer *time.Timer
	pending := false

	revalidate := func() {
		if !pending {
			return
		}
		pending = false

		violations, err := inventoryService.Validate(ctx)
		if err != nil {
			fmt.Println(ui.FormatError("Validation failed: " + err.Error()))
			return
		}
		if len(violations) == 0 {
			if !watchQuiet {
				fmt.Println(ui.FormatSuccess("Inventory is consistent"))
			}
			return
		}
		fmt.Println(ui.FormatWarning(fmt.Sprintf("Found %d violation(s):", len(violations))))
		for _, v := range violations {
			fmt.Printf("  %s %s\n", ui.StyleError.Render(v.Path+":"), v.Reason)
		}
	}

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if ignoredPath(event.Name) {
				continue
			}

			if event.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					_ = watchTree(watcher, event.Name)
				}
			}
			if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) &&
				!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
				continue
			}

			pending = true
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(debounce, revalidate)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			fmt.Println(ui.FormatError("Watch error: " + err.Error()))
		}
	}
}

// watchTree adds watches for a directory and everything below it,
// skipping vault and git bookkeeping.
func watchTree(watcher *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil // unreadable entries are skipped, not fatal
		}
		if !d.IsDir() {
			return nil
		}
		if name := d.Name(); name == vault.MarkerDir || name == ".git" {
			return filepath.SkipDir
		}
		return watcher.Add(path)
	})
}

// ignoredPath filters bookkeeping and editor temp files out of the
// event stream.
func ignoredPath(p string) bool {
	base := filepath.Base(p)
	if strings.HasPrefix(base, "~") || strings.HasSuffix(base, ".swp") {
		return true
	}
	for _, part := range strings.Split(filepath.ToSlash(p), "/") {
		if part == vault.MarkerDir || part == ".git" {
			return true
		}
	}
	return false
}
