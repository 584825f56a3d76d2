package cli

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/tilecascade/pkg/cascade"
	"github.com/matzehuels/tilecascade/pkg/pipeline"
)

// Progress view styles
var (
	barFullStyle  = lipgloss.NewStyle().Foreground(colorCyan)
	barEmptyStyle = lipgloss.NewStyle().Foreground(colorDim)
	tuiDimStyle   = lipgloss.NewStyle().Foreground(colorDim)
)

const (
	barWidth        = 40
	elapsedInterval = 200 * time.Millisecond
)

// =============================================================================
// Messages
// =============================================================================

// cascadeProgressMsg carries the tick counter to the view.
type cascadeProgressMsg struct {
	visited int
	total   int
}

// cascadeDoneMsg is sent once the run returns.
type cascadeDoneMsg struct {
	result *pipeline.Result
	err    error
}

// elapsedMsg refreshes the elapsed time while no progress arrives.
type elapsedMsg time.Time

// =============================================================================
// CascadeModel - Live cascade progress
// =============================================================================

// CascadeModel is the bubbletea model for the cascade progress view.
type CascadeModel struct {
	Title     string
	Visited   int
	Total     int
	Start     time.Time
	Elapsed   time.Duration
	Done      bool
	Cancelled bool
	Err       error
	Result    *pipeline.Result
}

// NewCascadeModel creates a progress model.
func NewCascadeModel(title string) CascadeModel {
	return CascadeModel{Title: title, Start: time.Now()}
}

func (m CascadeModel) Init() tea.Cmd {
	return tickElapsed()
}

func (m CascadeModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			m.Cancelled = true
			return m, tea.Quit
		}
	case cascadeProgressMsg:
		m.Visited = msg.visited
		m.Total = msg.total
	case cascadeDoneMsg:
		m.Done = true
		m.Result = msg.result
		m.Err = msg.err
		m.Elapsed = time.Since(m.Start)
		return m, tea.Quit
	case elapsedMsg:
		if m.Done {
			return m, nil
		}
		m.Elapsed = time.Time(msg).Sub(m.Start)
		return m, tickElapsed()
	}
	return m, nil
}

func (m CascadeModel) View() string {
	if m.Done || m.Cancelled {
		return ""
	}

	var b strings.Builder
	b.WriteString(StyleTitle.Render(m.Title))
	b.WriteString("\n\n")
	b.WriteString(progressBar(m.fraction(), barWidth))
	b.WriteString(fmt.Sprintf("  %3d%%\n", int(100*m.fraction())))
	b.WriteString(tuiDimStyle.Render(fmt.Sprintf("%d/%d tiles · %s", m.Visited, m.Total, m.Elapsed.Round(time.Second))))
	b.WriteString("\n\n")
	b.WriteString(tuiDimStyle.Render("q cancel"))
	b.WriteString("\n")
	return b.String()
}

func (m CascadeModel) fraction() float64 {
	if m.Total <= 0 {
		return 0
	}
	return min(float64(m.Visited)/float64(m.Total), 1)
}

// progressBar renders a bar of width cells filled to frac.
func progressBar(frac float64, width int) string {
	full := int(frac * float64(width))
	full = max(0, min(full, width))
	return barFullStyle.Render(strings.Repeat("█", full)) + barEmptyStyle.Render(strings.Repeat("░", width-full))
}

func tickElapsed() tea.Cmd {
	return tea.Tick(elapsedInterval, func(t time.Time) tea.Msg {
		return elapsedMsg(t)
	})
}

// =============================================================================
// Progress bridge
// =============================================================================

// teaProgress forwards cascade ticks to a running program. Messages are
// throttled to about 200 per run.
type teaProgress struct {
	send    func(tea.Msg)
	counter cascade.Counter
	every   int
}

// Tick implements cascade.Progress.
func (p *teaProgress) Tick() {
	p.counter.Tick()
	v, total := p.counter.Visited(), p.counter.Total()
	if p.every <= 1 || v%p.every == 0 || v >= total {
		p.send(cascadeProgressMsg{visited: v, total: total})
	}
}

// SetTotal implements cascade.Sizer.
func (p *teaProgress) SetTotal(total int) {
	p.counter.SetTotal(total)
	p.every = max(total/200, 1)
	p.send(cascadeProgressMsg{total: total})
}

var (
	_ cascade.Progress = (*teaProgress)(nil)
	_ cascade.Sizer    = (*teaProgress)(nil)
)

// runCascadeTUI runs the cascade behind the live progress view.
func (c *CLI) runCascadeTUI(ctx context.Context, opts pipeline.Options) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	model := NewCascadeModel(fmt.Sprintf("Cascading %s from depth %d", opts.Store, opts.StartDepth))
	p := tea.NewProgram(model, tea.WithOutput(os.Stderr))
	progress := &teaProgress{send: p.Send}

	// The view owns the terminal, so the run logs nowhere.
	done := make(chan cascadeDoneMsg, 1)
	go func() {
		result, err := c.newRunner(discardLogger()).Execute(ctx, opts, progress)
		msg := cascadeDoneMsg{result: result, err: err}
		done <- msg
		p.Send(msg)
	}()

	final, runErr := p.Run()
	fm, _ := final.(CascadeModel)
	if runErr != nil || fm.Cancelled {
		cancel()
	}
	msg := <-done

	if runErr != nil {
		return runErr
	}
	if fm.Cancelled {
		printWarning("Cancelled")
		return context.Canceled
	}
	if msg.err != nil {
		return msg.err
	}
	printCascadeResult(opts, msg.result)
	return nil
}
