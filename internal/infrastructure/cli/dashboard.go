package cli

import (
	"fmt"
	"os"
	"strconv"

	"boardkit/pkg/application"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

var dashboardProvider string

var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Interactive TUI view of the board",
	RunE: func(cmd *cobra.Command, args []string) error {
		if os.Getenv("BOARDKIT_SKIP_DASHBOARD_RUN") == "true" {
			return nil
		}
		p := tea.NewProgram(initialModel(cmd))
		if _, err := p.Run(); err != nil {
			return fmt.Errorf("dashboard run failed: %w", err)
		}
		return nil
	},
}

func init() {
	dashboardCmd.Flags().StringVar(&dashboardProvider, "provider", "",
		"Path to a board provider plugin binary")
	RootCmd.AddCommand(dashboardCmd)
}

// Styles
var baseStyle = lipgloss.NewStyle().
	BorderStyle(lipgloss.NormalBorder()).
	BorderForeground(lipgloss.Color("240"))

var headerStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(lipgloss.Color("#FAFAFA")).
	Background(lipgloss.Color("#2D7D46")).
	PaddingLeft(1).
	PaddingRight(1)

var settledStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
var pendingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("208"))
var ambiguousStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))

type model struct {
	table  table.Model
	status *application.BoardStatus
	err    error
}

func initialModel(cmd *cobra.Command) model {
	services, err := loadServices(dashboardProvider)
	if err != nil {
		return model{err: err}
	}
	defer services.Close()

	status, views, err := services.Status.Overview(cmd.Context())
	if err != nil {
		return model{err: MapError(err)}
	}

	columns := []table.Column{
		{Title: "#", Width: 5},
		{Title: "Title", Width: titleWidth},
		{Title: "Sprint", Width: 8},
		{Title: "Due", Width: 10},
		{Title: "State", Width: 10},
	}

	rows := []table.Row{}
	for _, v := range views {
		number := "-"
		if v.IssueNumber > 0 {
			number = strconv.Itoa(v.IssueNumber)
		}
		due := "-"
		if !v.DueDate.IsZero() {
			due = v.DueDate.String()
		}
		state := "pending"
		if v.Settled {
			state = "ok"
		}
		if v.Ambiguous {
			state = "ambiguous"
		}
		rows = append(rows, table.Row{number, truncateTitle(v.Title), v.TargetIteration, due, state})
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
		table.WithFocused(true),
		table.WithHeight(12),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240"))

	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229"))

	t.SetStyles(s)

	return model{table: t, status: status}
}

func (m model) Init() tea.Cmd { return nil }

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		}
	}
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m model) View() string {
	if m.err != nil {
		return fmt.Sprintf("Error loading dashboard: %v\nPress q to quit.", m.err)
	}

	header := headerStyle.Render(fmt.Sprintf("%s (%s rules)", m.status.Project, m.status.RulesSource))

	counts := fmt.Sprintf("%d items, %s unassigned, %s missing due date",
		m.status.TotalItems,
		pendingStyle.Render(strconv.Itoa(m.status.Unassigned)),
		pendingStyle.Render(strconv.Itoa(m.status.MissingDueDate)))

	ambiguousView := settledStyle.Render("\nEvery title classified.")
	if len(m.status.Ambiguous) > 0 {
		ambiguousView = ambiguousStyle.Render("\nAMBIGUOUS TITLES:\n")
		for _, title := range m.status.Ambiguous {
			ambiguousView += fmt.Sprintf("- %s\n", title)
		}
	}

	return baseStyle.Render(
		lipgloss.JoinVertical(lipgloss.Left,
			header,
			counts,
			"",
			m.table.View(),
			ambiguousView,
		),
	) + "\n(q to quit)\n"
}
