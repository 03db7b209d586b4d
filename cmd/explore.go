package cmd

import (
	"fmt"
	"path"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"inv/internal/core/domain"
	"inv/pkg/ui"
)

// exploreCmd represents the explore command
var exploreCmd = &cobra.Command{
	Use:   "explore",
	Short: "Browse the inventory interactively",
	Long: `Walk through the container hierarchy in the terminal.

Vim Navigation:
- k / ↑ : Move Up
- j / ↓ : Move Down
- l / → : Enter container / show asset
- h / ← : Go up one level
- /     : Filter the current listing
- q     : Quit`,
	RunE: runExplore,
}

func runExplore(cmd *cobra.Command, args []string) error {
	snap, err := assetRepo.Snapshot(getContext())
	if err != nil {
		return err
	}

	if len(snap.Assets) == 0 && len(snap.Containers) == 0 {
		fmt.Println(ui.FormatWarning("Vault is empty."))
		return nil
	}

	p := tea.NewProgram(newExploreModel(snap))
	if _, err := p.Run(); err != nil {
		return err
	}
	return nil
}

// --- TUI Model ---

type exploreEntry struct {
	name        string
	isContainer bool
	asset       *domain.Asset
}

type exploreModel struct {
	snap     *domain.Snapshot
	current  string // container being browsed, "" = root
	entries  []exploreEntry
	cursor   int
	detail   *domain.Asset // non-nil while an asset is open
	filter   textinput.Model
	filtered bool
}

func newExploreModel(snap *domain.Snapshot) exploreModel {
	ti := textinput.New()
	ti.Placeholder = "filter"
	ti.CharLimit = 64

	m := exploreModel{snap: snap, filter: ti}
	m.updateEntries()
	return m
}

func (m *exploreModel) updateEntries() {
	m.entries = nil
	m.cursor = 0
	query := strings.ToLower(m.filter.Value())

	for _, c := range m.snap.Containers {
		if parentContainer(c) != m.current {
			continue
		}
		name := path.Base(c)
		if query != "" && !strings.Contains(strings.ToLower(name), query) {
			continue
		}
		m.entries = append(m.entries, exploreEntry{name: name, isContainer: true})
	}
	for _, a := range m.snap.Assets {
		if a.Container != m.current {
			continue
		}
		name := a.Identity.Filename()
		if query != "" && !strings.Contains(strings.ToLower(name), query) {
			continue
		}
		m.entries = append(m.entries, exploreEntry{name: name, asset: a})
	}

	sort.SliceStable(m.entries, func(i, j int) bool {
		a, b := m.entries[i], m.entries[j]
		if a.isContainer != b.isContainer {
			return a.isContainer
		}
		return a.name < b.name
	})
}

func parentContainer(c string) string {
	parent := path.Dir(c)
	if parent == "." {
		return ""
	}
	return parent
}

func (m exploreModel) Init() tea.Cmd {
	return nil
}

func (m exploreModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	// Filter input grabs the keyboard while active.
	if m.filtered {
		switch keyMsg.String() {
		case "enter", "esc":
			m.filtered = false
			m.filter.Blur()
			if keyMsg.String() == "esc" {
				m.filter.SetValue("")
			}
			m.updateEntries()
			return m, nil
		default:
			var cmd tea.Cmd
			m.filter, cmd = m.filter.Update(msg)
			m.updateEntries()
			return m, cmd
		}
	}

	switch keyMsg.String() {
	case "ctrl+c", "q", "esc":
		if m.detail != nil {
			m.detail = nil
			return m, nil
		}
		return m, tea.Quit

	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}

	case "down", "j":
		if m.cursor < len(m.entries)-1 {
			m.cursor++
		}

	case "right", "l", "enter":
		if m.detail != nil || m.cursor >= len(m.entries) {
			break
		}
		entry := m.entries[m.cursor]
		if entry.isContainer {
			m.current = path.Join(m.current, entry.name)
			m.filter.SetValue("")
			m.updateEntries()
		} else {
			m.detail = entry.asset
		}

	case "left", "h":
		if m.detail != nil {
			m.detail = nil
			break
		}
		if m.current != "" {
			m.current = parentContainer(m.current)
			m.filter.SetValue("")
			m.updateEntries()
		}

	case "/":
		m.filtered = true
		m.filter.Focus()
		return m, textinput.Blink
	}

	return m, nil
}

func (m exploreModel) View() string {
	var s strings.Builder

	location := m.current
	if location == "" {
		location = "/"
	}
	s.WriteString("\n")
	s.WriteString(ui.StyleTitle.Render(" " + ui.IconBox + " " + location))
	s.WriteString("\n\n")

	if m.detail != nil {
		s.WriteString(ui.StyleBold.Render(" " + m.detail.Identity.Filename()))
		s.WriteString("\n\n")
		s.WriteString(" " + ui.RenderKeyValue("type", m.detail.Identity.Type) + "\n")
		s.WriteString(" " + ui.RenderKeyValue("make", m.detail.Identity.Make) + "\n")
		s.WriteString(" " + ui.RenderKeyValue("model", m.detail.Identity.Model) + "\n")
		s.WriteString(" " + ui.RenderKeyValue("serial", m.detail.Identity.Serial) + "\n")
		for _, k := range m.detail.AttributeKeys() {
			s.WriteString(" " + ui.RenderKeyValue(k, fmt.Sprintf("%v", m.detail.Attributes[k])) + "\n")
		}
		s.WriteString("\n")
		s.WriteString(ui.StyleMuted.Render(" h: back • q: quit"))
		s.WriteString("\n")
		return s.String()
	}

	if m.filtered || m.filter.Value() != "" {
		s.WriteString(" " + m.filter.View())
		s.WriteString("\n\n")
	}

	if len(m.entries) == 0 {
		s.WriteString(ui.StyleMuted.Render("  (empty)"))
		s.WriteString("\n")
	}
	for i, entry := range m.entries {
		cursor := "  "
		style := ui.StyleMuted
		if i == m.cursor {
			cursor = ui.StyleAccent.Render("> ")
			style = ui.StyleBold
		}
		name := entry.name
		if entry.isContainer {
			name += "/"
		}
		s.WriteString(cursor + style.Render(name) + "\n")
	}

	s.WriteString("\n")
	s.WriteString(ui.StyleMuted.Render(" j/k: move • l: open • h: up • /: filter • q: quit"))
	s.WriteString("\n")
	return s.String()
}
