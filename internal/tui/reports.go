package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/NimbleMarkets/ntcharts/barchart"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/pomodone/internal/stats"
	"github.com/sadopc/pomodone/internal/store"
)

type reportMode int

const (
	reportDaily reportMode = iota
	reportWeekly
)

// weeksPerReport is how many weeks the weekly chart shows.
const weeksPerReport = 6

// reportBar is one bar of the chart: a day or a week.
type reportBar struct {
	label        string
	from         time.Time
	sessions     int
	focusSeconds int64
}

type reportsModel struct {
	store  *store.Store
	now    func() time.Time
	width  int
	height int

	mode      reportMode
	offset    int // periods back from the current one (0 = current)
	weekStart time.Weekday
	bars      []reportBar

	chart barchart.Model
}

func newReportsModel(s *store.Store) reportsModel {
	return reportsModel{
		store:     s,
		now:       time.Now,
		weekStart: time.Monday,
		chart:     barchart.New(60, 12),
	}
}

func (r *reportsModel) setSize(w, h int) {
	r.width = w
	r.height = h
	r.buildChart()
}

type reportsDataMsg struct {
	weekStart time.Weekday
	bars      []reportBar
	err       error
}

func (r reportsModel) refresh() tea.Cmd {
	return func() tea.Msg {
		weekStart, err := r.store.WeekStart()
		if err != nil {
			return reportsDataMsg{err: err}
		}
		from, to := r.dateRange(weekStart)
		days, err := r.store.DailySessionCounts(from, to)
		if err != nil {
			return reportsDataMsg{err: err}
		}
		return reportsDataMsg{weekStart: weekStart, bars: r.bucket(days, from, to)}
	}
}

// dateRange returns [from, to) in local time for the current mode and offset.
func (r reportsModel) dateRange(weekStart time.Weekday) (time.Time, time.Time) {
	today := stats.StartOfDay(r.now())

	switch r.mode {
	case reportWeekly:
		end := stats.StartOfWeek(today, weekStart).AddDate(0, 0, 7*(1-weeksPerReport*r.offset))
		return end.AddDate(0, 0, -7*weeksPerReport), end
	default:
		end := today.AddDate(0, 0, 1-7*r.offset)
		return end.AddDate(0, 0, -7), end
	}
}

// bucket folds the per-day counts into one bar per day or per week.
func (r reportsModel) bucket(days []store.DailyCount, from, to time.Time) []reportBar {
	step := 1
	layout := "Mon 02"
	if r.mode == reportWeekly {
		step = 7
		layout = "Jan 02"
	}

	var bars []reportBar
	for d := from; d.Before(to); d = d.AddDate(0, 0, step) {
		bars = append(bars, reportBar{label: d.Format(layout), from: d})
	}
	for _, dc := range days {
		day, err := time.ParseInLocation("2006-01-02", dc.Date, from.Location())
		if err != nil {
			continue
		}
		idx := int(day.Sub(from).Hours()/24+0.5) / step
		if idx < 0 || idx >= len(bars) {
			continue
		}
		bars[idx].sessions += dc.Sessions
		bars[idx].focusSeconds += dc.FocusSeconds
	}
	return bars
}

func (r reportsModel) update(msg tea.Msg) (reportsModel, tea.Cmd) {
	switch msg := msg.(type) {
	case reportsDataMsg:
		if msg.err != nil {
			return r, func() tea.Msg { return errorStatus("Reports", msg.err) }
		}
		r.weekStart = msg.weekStart
		r.bars = msg.bars
		r.buildChart()
		return r, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Left):
			r.offset++
			return r, r.refresh()
		case key.Matches(msg, keys.Right):
			if r.offset > 0 {
				r.offset--
			}
			return r, r.refresh()
		case key.Matches(msg, keys.Mode):
			if r.mode == reportDaily {
				r.mode = reportWeekly
			} else {
				r.mode = reportDaily
			}
			r.offset = 0
			return r, r.refresh()
		}
	}
	return r, nil
}

func (r *reportsModel) buildChart() {
	chartWidth := max(20, r.width-8)
	chartHeight := 12
	if r.height > 30 {
		chartHeight = 16
	}

	r.chart = barchart.New(chartWidth, chartHeight)
	if len(r.bars) == 0 {
		return
	}

	data := make([]barchart.BarData, 0, len(r.bars))
	for _, b := range r.bars {
		data = append(data, barchart.BarData{
			Label: b.label,
			Values: []barchart.BarValue{{
				Name:  "Sessions",
				Value: float64(b.sessions),
				Style: focusBarStyle,
			}},
		})
	}

	r.chart.PushAll(data)
	r.chart.Draw()
}

func (r reportsModel) view() string {
	w := r.width - 4

	dailyTab := inactiveTabStyle.Render("Daily")
	weeklyTab := inactiveTabStyle.Render("Weekly")
	if r.mode == reportDaily {
		dailyTab = activeTabStyle.Render("Daily")
	} else {
		weeklyTab = activeTabStyle.Render("Weekly")
	}
	modeTabs := lipgloss.JoinHorizontal(lipgloss.Bottom, dailyTab, weeklyTab)

	from, to := r.dateRange(r.weekStart)
	dateLabel := mutedStyle.Render(fmt.Sprintf("%s - %s", from.Format("Jan 02"), to.AddDate(0, 0, -1).Format("Jan 02, 2006")))

	header := lipgloss.JoinHorizontal(lipgloss.Bottom,
		titleStyle.Render("Reports"), "  ", modeTabs, "  ", dateLabel,
	)

	nav := mutedStyle.Render("  ←/→: navigate  m: daily/weekly")

	return panelStyle.Width(w).Render(
		lipgloss.JoinVertical(lipgloss.Left,
			header, "", r.chart.View(), "", r.renderSummaryTable(w), "", nav,
		),
	)
}

func (r reportsModel) renderSummaryTable(w int) string {
	var total int
	var focus int64
	for _, b := range r.bars {
		total += b.sessions
		focus += b.focusSeconds
	}
	if total == 0 {
		return mutedStyle.Render("  No sessions in this period")
	}

	period := "Day"
	if r.mode == reportWeekly {
		period = "Week of"
	}
	rows := []string{
		mutedStyle.Render(fmt.Sprintf("  %-12s %10s %12s", period, "Sessions", "Focus")),
		mutedStyle.Render("  " + strings.Repeat("─", min(w-6, 36))),
	}
	for _, b := range r.bars {
		if b.sessions == 0 {
			continue
		}
		rows = append(rows, fmt.Sprintf("  %-12s %10d %12s", b.label, b.sessions, formatHours(b.focusSeconds)))
	}
	rows = append(rows, highlightStyle.Render(fmt.Sprintf("  %-12s %10d %12s", "Total", total, formatHours(focus))))
	return strings.Join(rows, "\n")
}
