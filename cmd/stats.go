package cmd

import (
	"fmt"
	"math"
	"os"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/spf13/cobra"

	"inv/pkg/ui"
)

var statsHTML bool

// statsCmd represents the stats command
var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show inventory statistics",
	Long: `Analyze the vault and display useful statistics.

Includes:
  - Asset and container totals
  - Faux vs. real serial split
  - Top asset types and makes
  - Assets per top-level container

With --html an interactive chart report is written next to the vault
config (path from stats_report_path).`,
	RunE: runStats,
}

func init() {
	statsCmd.Flags().BoolVar(&statsHTML, "html", false, "Write an HTML chart report")
}

func runStats(cmd *cobra.Command, args []string) error {
	snap, err := assetRepo.Snapshot(getContext())
	if err != nil {
		return err
	}

	totalAssets := len(snap.Assets)
	totalContainers := len(snap.Containers)
	fauxCount := 0
	typeCounts := make(map[string]int)
	makeCounts := make(map[string]int)
	locationCounts := make(map[string]int) // top-level container

	for _, a := range snap.Assets {
		if a.Identity.IsFaux() {
			fauxCount++
		}
		typeCounts[a.Identity.Type]++
		makeCounts[a.Identity.Make]++
		top := a.Container
		if i := strings.IndexByte(top, '/'); i >= 0 {
			top = top[:i]
		}
		if top == "" {
			top = "/"
		}
		locationCounts[top]++
	}

	fmt.Println(ui.FormatTitle("Inventory Analytics"))
	fmt.Println()

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 4, ' ', 0)
	fmt.Fprintf(w, "%s\t%d\n", ui.StyleBold.Render("Total Assets:"), totalAssets)
	fmt.Fprintf(w, "%s\t%d\n", ui.StyleBold.Render("Total Containers:"), totalContainers)
	fmt.Fprintf(w, "%s\t%d\n", ui.StyleBold.Render("Faux Serials:"), fauxCount)
	fmt.Fprintf(w, "%s\t%d\n", ui.StyleBold.Render("Real Serials:"), totalAssets-fauxCount)
	if len(snap.Malformed) > 0 {
		fmt.Fprintf(w, "%s\t%d\n", ui.StyleBold.Render("Malformed Files:"), len(snap.Malformed))
	}
	w.Flush()
	fmt.Println()

	renderBars("Top Types", typeCounts)
	renderBars("Top Makes", makeCounts)
	renderBars("Assets per Location", locationCounts)

	if statsHTML {
		reportPath := appVault.AbsPath(appConfig.StatsReportPath)
		if err := writeHTMLReport(reportPath, typeCounts, locationCounts); err != nil {
			return fmt.Errorf("failed to write report: %w", err)
		}
		fmt.Println(ui.FormatSuccess("Report written to " + reportPath))
	}
	return nil
}

// renderBars displays a horizontal bar chart for the top entries.
func renderBars(title string, counts map[string]int) {
	if len(counts) == 0 {
		return
	}

	fmt.Println(ui.StyleHeader.Render(title))

	type pair struct {
		Name  string
		Count int
	}
	var sorted []pair
	for k, v := range counts {
		sorted = append(sorted, pair{k, v})
	}
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Count != sorted[j].Count {
			return sorted[i].Count > sorted[j].Count
		}
		return sorted[i].Name < sorted[j].Name
	})

	limit := 5
	if len(sorted) < limit {
		limit = len(sorted)
	}

	maxCount := sorted[0].Count
	barWidth := 20

	for i := 0; i < limit; i++ {
		p := sorted[i]
		length := int(math.Ceil(float64(p.Count) / float64(maxCount) * float64(barWidth)))
		bar := strings.Repeat("█", length)
		fmt.Printf("%s %-15s %s\n",
			ui.StyleAccent.Render(bar),
			p.Name,
			ui.StyleMuted.Render(fmt.Sprintf("%d", p.Count)),
		)
	}
	fmt.Println()
}

// writeHTMLReport renders bar charts of the aggregates into a single
// self-contained HTML page.
func writeHTMLReport(path string, typeCounts, locationCounts map[string]int) error {
	page := components.NewPage()
	page.AddCharts(
		barChart("Assets by Type", typeCounts),
		barChart("Assets by Location", locationCounts),
	)

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return page.Render(f)
}

func barChart(title string, counts map[string]int) *charts.Bar {
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	values := make([]opts.BarData, len(keys))
	for i, k := range keys {
		values[i] = opts.BarData{Value: counts[k]}
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(charts.WithTitleOpts(opts.Title{Title: title}))
	bar.SetXAxis(keys).AddSeries("assets", values)
	return bar
}
