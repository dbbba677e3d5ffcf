package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var (
	tabStyle = lipgloss.NewStyle().
			Padding(0, 2).
			Foreground(lipgloss.Color("#666"))

	activeTabStyle = lipgloss.NewStyle().
			Padding(0, 2).
			Foreground(lipgloss.Color("#22c55e")).
			Bold(true).
			Underline(true)

	itemStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#fff"))

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#22c55e"))

	descStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#444")).
			MarginTop(1)

	countStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888"))
)

// ScopeItem is one selectable category inside a tab.
type ScopeItem struct {
	Name      string // category name, e.g. "wifi"
	Group     string // selection key, e.g. "system_properties_wifi"
	Total     int
	Applyable int
}

// ScopeTab groups the categories of one type under a tab heading.
type ScopeTab struct {
	Title string
	Items []ScopeItem
}

type SelectorModel struct {
	tabs         []ScopeTab
	selected     map[string]bool
	activeTab    int
	cursor       int
	confirmed    bool
	width        int
	height       int
	scrollOffset int
}

// NewSelector starts with every category selected, so confirming without
// touching anything means the full scope.
func NewSelector(tabs []ScopeTab) SelectorModel {
	selected := make(map[string]bool)
	for _, tab := range tabs {
		for _, item := range tab.Items {
			selected[item.Group] = true
		}
	}
	return SelectorModel{
		tabs:      tabs,
		selected:  selected,
		activeTab: 0,
		cursor:    0,
	}
}

func (m SelectorModel) Init() tea.Cmd {
	return nil
}

func (m SelectorModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Quit):
			return m, tea.Quit

		case key.Matches(msg, keys.Tab), key.Matches(msg, keys.Right):
			m.activeTab = (m.activeTab + 1) % len(m.tabs)
			m.cursor = 0
			m.scrollOffset = 0

		case key.Matches(msg, keys.ShiftTab), key.Matches(msg, keys.Left):
			m.activeTab = (m.activeTab - 1 + len(m.tabs)) % len(m.tabs)
			m.cursor = 0
			m.scrollOffset = 0

		case key.Matches(msg, keys.Up):
			if m.cursor > 0 {
				m.cursor--
				if m.cursor < m.scrollOffset {
					m.scrollOffset = m.cursor
				}
			}

		case key.Matches(msg, keys.Down):
			tab := m.tabs[m.activeTab]
			if m.cursor < len(tab.Items)-1 {
				m.cursor++
				visibleItems := m.getVisibleItems()
				if m.cursor >= m.scrollOffset+visibleItems {
					m.scrollOffset = m.cursor - visibleItems + 1
				}
			}

		case key.Matches(msg, keys.Space):
			tab := m.tabs[m.activeTab]
			if m.cursor < len(tab.Items) {
				item := tab.Items[m.cursor]
				m.selected[item.Group] = !m.selected[item.Group]
			}

		case key.Matches(msg, keys.Enter):
			m.confirmed = true
			return m, tea.Quit

		case key.Matches(msg, keys.SelectAll):
			tab := m.tabs[m.activeTab]
			allSelected := true
			for _, item := range tab.Items {
				if !m.selected[item.Group] {
					allSelected = false
					break
				}
			}
			for _, item := range tab.Items {
				m.selected[item.Group] = !allSelected
			}
		}
	}

	return m, nil
}

func (m SelectorModel) getVisibleItems() int {
	if m.height == 0 {
		return 15
	}
	available := m.height - 8
	if available < 5 {
		available = 5
	}
	if available > 20 {
		available = 20
	}
	return available
}

func (m SelectorModel) View() string {
	var lines []string

	var tabs []string
	for i, tab := range m.tabs {
		count := 0
		for _, item := range tab.Items {
			if m.selected[item.Group] {
				count++
			}
		}
		label := fmt.Sprintf("%s (%d)", tab.Title, count)
		if i == m.activeTab {
			tabs = append(tabs, activeTabStyle.Render(label))
		} else {
			tabs = append(tabs, tabStyle.Render(label))
		}
	}
	lines = append(lines, lipgloss.JoinHorizontal(lipgloss.Top, tabs...))
	lines = append(lines, "")

	tab := m.tabs[m.activeTab]
	visibleItems := m.getVisibleItems()

	if m.scrollOffset > len(tab.Items)-visibleItems {
		m.scrollOffset = len(tab.Items) - visibleItems
	}
	if m.scrollOffset < 0 {
		m.scrollOffset = 0
	}

	endIdx := m.scrollOffset + visibleItems
	if endIdx > len(tab.Items) {
		endIdx = len(tab.Items)
	}

	for i := m.scrollOffset; i < endIdx; i++ {
		item := tab.Items[i]
		cursor := "  "
		if i == m.cursor {
			cursor = "> "
		}

		checkbox := "[ ]"
		style := itemStyle
		if m.selected[item.Group] {
			checkbox = "[✓]"
			style = selectedStyle
		}

		desc := fmt.Sprintf("%d settings, %d applyable", item.Total, item.Applyable)
		line := fmt.Sprintf("%s%s %s %s", cursor, checkbox, style.Render(item.Name), descStyle.Render(desc))
		lines = append(lines, TruncateLine(line, m.width))
	}

	clearLine := strings.Repeat(" ", 80)
	for len(lines) < visibleItems+2 {
		lines = append(lines, clearLine)
	}

	totalSelected := 0
	for _, v := range m.selected {
		if v {
			totalSelected++
		}
	}

	lines = append(lines, "")
	lines = append(lines, countStyle.Render(fmt.Sprintf("Selected: %d categories", totalSelected)))
	lines = append(lines, "")
	lines = append(lines, helpStyle.Render("Tab/←→: switch type • ↑↓: navigate • Space: toggle • a: select all • Enter: confirm • q: quit"))

	return strings.Join(lines, "\n")
}

func (m SelectorModel) Selected() map[string]bool {
	return m.selected
}

func (m SelectorModel) Confirmed() bool {
	return m.confirmed
}

type keyMap struct {
	Up        key.Binding
	Down      key.Binding
	Left      key.Binding
	Right     key.Binding
	Tab       key.Binding
	ShiftTab  key.Binding
	Space     key.Binding
	Enter     key.Binding
	SelectAll key.Binding
	Quit      key.Binding
}

var keys = keyMap{
	Up:        key.NewBinding(key.WithKeys("up", "k")),
	Down:      key.NewBinding(key.WithKeys("down", "j")),
	Left:      key.NewBinding(key.WithKeys("left", "h")),
	Right:     key.NewBinding(key.WithKeys("right", "l")),
	Tab:       key.NewBinding(key.WithKeys("tab")),
	ShiftTab:  key.NewBinding(key.WithKeys("shift+tab")),
	Space:     key.NewBinding(key.WithKeys(" ")),
	Enter:     key.NewBinding(key.WithKeys("enter")),
	SelectAll: key.NewBinding(key.WithKeys("a")),
	Quit:      key.NewBinding(key.WithKeys("q", "ctrl+c")),
}

// RunScopeSelector shows the category picker and returns the chosen groups.
// The bool is false when the user backed out.
func RunScopeSelector(tabs []ScopeTab) (map[string]bool, bool, error) {
	model := NewSelector(tabs)
	p := tea.NewProgram(model, tea.WithAltScreen())

	finalModel, err := p.Run()
	if err != nil {
		return nil, false, err
	}

	m := finalModel.(SelectorModel)
	return m.Selected(), m.Confirmed(), nil
}
