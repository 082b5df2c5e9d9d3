package ui

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// RelayRow is one relay's status line in the watch view.
type RelayRow struct {
	URL     string
	Ready   bool
	Latency time.Duration
	MinTip  string // human-readable minimum tip, e.g. "1.5 gwei"
	Version string
	Err     error
}

// ProbeFunc polls every configured relay and returns one row per relay,
// in a stable order.
type ProbeFunc func(ctx context.Context) []RelayRow

type watchModel struct {
	probe    ProbeFunc
	interval time.Duration
	rows     []RelayRow
	polls    int
	lastPoll time.Time
	polling  bool
	frame    int
}

type pollResultMsg []RelayRow
type pollTickMsg struct{}
type frameTickMsg struct{}

// NewWatchModel builds the bubbletea model behind `relayctl relay watch`.
func NewWatchModel(probe ProbeFunc, interval time.Duration) tea.Model {
	return watchModel{probe: probe, interval: interval, polling: true}
}

func (m watchModel) Init() tea.Cmd {
	return tea.Batch(m.doPoll(), frameTick())
}

func (m watchModel) doPoll() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), m.interval)
		defer cancel()
		return pollResultMsg(m.probe(ctx))
	}
}

func pollTick(after time.Duration) tea.Cmd {
	return tea.Tick(after, func(time.Time) tea.Msg { return pollTickMsg{} })
}

func frameTick() tea.Cmd {
	return tea.Tick(120*time.Millisecond, func(time.Time) tea.Msg { return frameTickMsg{} })
}

func (m watchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			return m, tea.Quit
		case "r":
			if !m.polling {
				m.polling = true
				return m, m.doPoll()
			}
		}

	case pollResultMsg:
		m.rows = msg
		m.polls++
		m.lastPoll = time.Now()
		m.polling = false
		return m, pollTick(m.interval)

	case pollTickMsg:
		m.polling = true
		return m, m.doPoll()

	case frameTickMsg:
		m.frame++
		return m, frameTick()
	}
	return m, nil
}

func (m watchModel) View() string {
	var b strings.Builder
	b.WriteString(StyleTitle.Render("Relay status"))
	b.WriteString("\n")

	if m.polls == 0 {
		b.WriteString(StyleInfo.Render(spinFrames[m.frame%len(spinFrames)] + " pinging relays…"))
		b.WriteString("\n")
		return b.String()
	}

	t := NewTable("", "RELAY", "LATENCY", "MIN TIP", "VERSION")
	for _, r := range m.rows {
		t.AddRow(statusDot(r), Addr(r.URL), latencyCell(r), minTipCell(r), Meta(r.Version))
	}
	b.WriteString(t.Render())

	b.WriteString("\n")
	status := fmt.Sprintf("poll #%d at %s", m.polls, m.lastPoll.Format("15:04:05"))
	if m.polling {
		status = spinFrames[m.frame%len(spinFrames)] + " polling…"
	}
	b.WriteString(StyleMeta.Render(status + "  ·  r refresh · q quit"))
	b.WriteString("\n")
	return b.String()
}

func statusDot(r RelayRow) string {
	switch {
	case r.Err != nil:
		return StyleError.Render("●")
	case !r.Ready:
		return StyleWarning.Render("●")
	default:
		return StyleSuccess.Render("●")
	}
}

func latencyCell(r RelayRow) string {
	if r.Err != nil {
		return StyleError.Render("down")
	}
	ms := r.Latency.Milliseconds()
	cell := fmt.Sprintf("%dms", ms)
	switch {
	case ms < 200:
		return StyleSuccess.Render(cell)
	case ms < 800:
		return StyleWarning.Render(cell)
	default:
		return StyleError.Render(cell)
	}
}

func minTipCell(r RelayRow) string {
	if r.Err != nil || r.MinTip == "" {
		return StyleMeta.Render("—")
	}
	return Val(r.MinTip)
}
