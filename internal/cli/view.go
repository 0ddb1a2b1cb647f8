package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/daygrid/daygrid/pkg/pipeline"
	"github.com/daygrid/daygrid/pkg/schedule"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// viewCommand creates the view command for browsing a schedule interactively.
func (c *CLI) viewCommand() *cobra.Command {
	var (
		noCache bool
		refresh bool
		srcs    sourceFlags
	)
	opts := pipeline.Options{}

	cmd := &cobra.Command{
		Use:   "view",
		Short: "Browse a schedule day by day in the terminal",
		Long: `Browse a schedule day by day in the terminal.

The view command loads events from a source and shows them as an interactive
day grid. Overlapping events show their column assignment so the shared
width is visible. Use the arrow keys to move between days.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runView(cmd.Context(), opts, srcs, noCache, refresh)
		},
	}

	srcs.register(cmd)
	registerGridFlags(cmd, &opts)
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "bypass the cache and fetch fresh data")

	return cmd
}

// runView starts the interactive day browser.
func (c *CLI) runView(ctx context.Context, opts pipeline.Options, srcs sourceFlags, noCache, refresh bool) error {
	runner, err := c.newRunner(noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	opts.Source, err = srcs.resolve(c, runner)
	if err != nil {
		return err
	}
	opts.Logger = c.Logger
	opts.Refresh = refresh
	if opts.Date == "" {
		opts.Date = time.Now().Format("2006-01-02")
	}

	model := newDayGridModel(ctx, runner, opts)
	p := tea.NewProgram(model, tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run viewer: %w", err)
	}
	return nil
}

// =============================================================================
// DayGridModel - Interactive day grid browser
// =============================================================================

// dayLoadedMsg carries the result of an asynchronous day load.
type dayLoadedMsg struct {
	date   string
	timed  []schedule.Event
	allDay []schedule.Event
	groups [][]string
	cached bool
	err    error
}

// DayGridModel is the bubbletea model for the day browser.
type DayGridModel struct {
	ctx    context.Context
	runner *pipeline.Runner
	opts   pipeline.Options

	date    string
	timed   []schedule.Event
	allDay  []schedule.Event
	columns map[string]string // event ID -> "k/n" column label
	cursor  int
	loading bool
	cached  bool
	err     error
}

// newDayGridModel creates a day browser starting at the options date.
func newDayGridModel(ctx context.Context, runner *pipeline.Runner, opts pipeline.Options) DayGridModel {
	return DayGridModel{
		ctx:     ctx,
		runner:  runner,
		opts:    opts,
		date:    opts.Date,
		columns: make(map[string]string),
		loading: true,
	}
}

func (m DayGridModel) Init() tea.Cmd {
	return m.loadDay(m.date)
}

// loadDay loads the schedule and day layout for the given date.
func (m DayGridModel) loadDay(date string) tea.Cmd {
	runner := m.runner
	opts := m.opts
	opts.Date = date
	ctx := m.ctx
	return func() tea.Msg {
		sched, cached, err := runner.LoadWithCacheInfo(ctx, opts)
		if err != nil {
			return dayLoadedMsg{date: date, err: err}
		}
		l, _, err := runner.BuildLayoutWithCacheInfo(ctx, sched, opts)
		if err != nil {
			return dayLoadedMsg{date: date, err: err}
		}
		msg := dayLoadedMsg{
			date:   date,
			timed:  sched.Day(date),
			allDay: sched.AllDay(date),
			cached: cached,
		}
		if l.Day != nil {
			msg.groups = l.Day.Groups
		}
		return msg
	}
}

func (m DayGridModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < len(m.timed)-1 {
				m.cursor++
			}
		case "left", "h":
			return m.shiftDay(-1)
		case "right", "l":
			return m.shiftDay(1)
		case "t":
			today := time.Now().Format("2006-01-02")
			if today != m.date {
				m.date = today
				m.loading = true
				m.cursor = 0
				return m, m.loadDay(today)
			}
		case "r":
			m.loading = true
			refreshOpts := m
			refreshOpts.opts.Refresh = true
			return m, refreshOpts.loadDay(m.date)
		}
	case dayLoadedMsg:
		if msg.date != m.date {
			return m, nil // stale load from fast navigation
		}
		m.loading = false
		m.err = msg.err
		m.timed = msg.timed
		m.allDay = msg.allDay
		m.cached = msg.cached
		m.columns = columnLabels(msg.groups)
		if m.cursor >= len(m.timed) {
			m.cursor = 0
		}
	}
	return m, nil
}

// shiftDay moves the view by the given number of days.
func (m DayGridModel) shiftDay(days int) (tea.Model, tea.Cmd) {
	t, err := time.Parse("2006-01-02", m.date)
	if err != nil {
		return m, nil
	}
	m.date = t.AddDate(0, 0, days).Format("2006-01-02")
	m.loading = true
	m.cursor = 0
	return m, m.loadDay(m.date)
}

func (m DayGridModel) View() string {
	var b strings.Builder

	title, _ := formatDayTitle(m.date)
	b.WriteString(StyleTitle.Render(title))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("←/→ change day  ↑/↓ navigate  t today  r refresh  q quit"))
	b.WriteString("\n\n")

	switch {
	case m.loading:
		b.WriteString(listDimStyle.Render("  loading..."))
		b.WriteString("\n")
	case m.err != nil:
		b.WriteString(styleIconError.Render(iconError) + " " + m.err.Error())
		b.WriteString("\n")
	case len(m.timed) == 0 && len(m.allDay) == 0:
		b.WriteString(listDimStyle.Render("  no events"))
		b.WriteString("\n")
	default:
		b.WriteString(m.renderEvents())
	}

	b.WriteString("\n")
	status := iconFresh
	if m.cached {
		status = iconCached
	}
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  %d events · %s", len(m.timed)+len(m.allDay), status)))

	return b.String()
}

// renderEvents renders the all-day banner and the timed event table.
func (m DayGridModel) renderEvents() string {
	var b strings.Builder

	for _, ev := range m.allDay {
		b.WriteString("  " + StyleHighlight.Render("◆ "+ev.DisplayTitle()))
		b.WriteString("\n")
	}
	if len(m.allDay) > 0 && len(m.timed) > 0 {
		b.WriteString("\n")
	}

	if len(m.timed) == 0 {
		return b.String()
	}

	rows := [][]string{}
	for i, ev := range m.timed {
		cursor := "  "
		if i == m.cursor {
			cursor = "▸ "
		}
		iv := ev.Interval()
		span := schedule.FormatClock(iv.Start) + "–" + schedule.FormatClock(iv.End)
		col := m.columns[ev.ID]
		rows = append(rows, []string{cursor, span, ev.DisplayTitle(), ev.Location, col})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Time", "Event", "Location", "Col").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			if row == m.cursor {
				return listSelectedStyle
			}
			if col == 3 || col == 4 {
				return listDimStyle
			}
			return lipgloss.NewStyle().Foreground(colorWhite)
		})

	b.WriteString(t.Render())
	b.WriteString("\n")
	return b.String()
}

// =============================================================================
// Helpers
// =============================================================================

// columnLabels maps each event to its "column/total" label within its
// overlap group. Events alone in their group get no label.
func columnLabels(groups [][]string) map[string]string {
	labels := make(map[string]string)
	for _, group := range groups {
		if len(group) < 2 {
			continue
		}
		for i, id := range group {
			labels[id] = fmt.Sprintf("%d/%d", i+1, len(group))
		}
	}
	return labels
}

// formatDayTitle renders a date as a readable heading.
func formatDayTitle(date string) (string, error) {
	t, err := time.Parse("2006-01-02", date)
	if err != nil {
		return date, err
	}
	return t.Format("Monday, January 2, 2006"), nil
}
