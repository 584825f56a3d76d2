package cli

import (
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/matzehuels/tilecascade/pkg/cascade"
	"github.com/matzehuels/tilecascade/pkg/pipeline"
)

func TestCascadeModelProgress(t *testing.T) {
	m := NewCascadeModel("Cascading")

	next, cmd := m.Update(cascadeProgressMsg{visited: 5, total: 20})
	m = next.(CascadeModel)
	if cmd != nil {
		t.Error("progress message should not schedule a command")
	}
	if m.Visited != 5 || m.Total != 20 {
		t.Errorf("Visited/Total = %d/%d, want 5/20", m.Visited, m.Total)
	}
	if f := m.fraction(); f != 0.25 {
		t.Errorf("fraction() = %v, want 0.25", f)
	}

	view := m.View()
	for _, s := range []string{"Cascading", "25%", "5/20 tiles"} {
		if !strings.Contains(view, s) {
			t.Errorf("View() missing %q:\n%s", s, view)
		}
	}
}

func TestCascadeModelDone(t *testing.T) {
	m := NewCascadeModel("Cascading")
	result := &pipeline.Result{Stats: cascade.Stats{Written: 3}}
	runErr := errors.New("boom")

	next, cmd := m.Update(cascadeDoneMsg{result: result, err: runErr})
	m = next.(CascadeModel)
	if !m.Done || m.Result != result || m.Err != runErr {
		t.Errorf("model = %+v, want done with result and error", m)
	}
	if cmd == nil {
		t.Fatal("done should quit the program")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("done should return tea.Quit")
	}
	if m.View() != "" {
		t.Error("View() should be empty once done")
	}

	// Elapsed ticks stop after completion
	if _, cmd := m.Update(elapsedMsg(time.Now())); cmd != nil {
		t.Error("elapsed tick after done should not reschedule")
	}
}

func TestCascadeModelCancel(t *testing.T) {
	for _, key := range []string{"q", "esc", "ctrl+c"} {
		t.Run(key, func(t *testing.T) {
			m := NewCascadeModel("Cascading")
			var msg tea.KeyMsg
			switch key {
			case "q":
				msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")}
			case "esc":
				msg = tea.KeyMsg{Type: tea.KeyEsc}
			case "ctrl+c":
				msg = tea.KeyMsg{Type: tea.KeyCtrlC}
			}
			next, cmd := m.Update(msg)
			if !next.(CascadeModel).Cancelled {
				t.Error("key should cancel")
			}
			if cmd == nil {
				t.Error("cancel should quit")
			}
		})
	}
}

func TestCascadeModelFraction(t *testing.T) {
	tests := []struct {
		visited, total int
		want           float64
	}{
		{0, 0, 0},
		{3, 0, 0},
		{10, 10, 1},
		{12, 10, 1},
	}
	for _, tt := range tests {
		m := CascadeModel{Visited: tt.visited, Total: tt.total}
		if got := m.fraction(); got != tt.want {
			t.Errorf("fraction(%d/%d) = %v, want %v", tt.visited, tt.total, got, tt.want)
		}
	}
}

func TestProgressBar(t *testing.T) {
	bar := progressBar(0.5, 10)
	if n := strings.Count(bar, "█"); n != 5 {
		t.Errorf("full cells = %d, want 5", n)
	}
	if n := strings.Count(bar, "░"); n != 5 {
		t.Errorf("empty cells = %d, want 5", n)
	}
	if n := strings.Count(progressBar(1.5, 10), "█"); n != 10 {
		t.Errorf("overfull bar has %d cells, want 10", n)
	}
}

func TestTeaProgressThrottle(t *testing.T) {
	var msgs []cascadeProgressMsg
	p := &teaProgress{send: func(msg tea.Msg) {
		msgs = append(msgs, msg.(cascadeProgressMsg))
	}}

	const total = 1000
	p.SetTotal(total)
	for i := 0; i < total; i++ {
		p.Tick()
	}

	// One size message plus one per 5 ticks
	if len(msgs) != 1+total/5 {
		t.Errorf("sent %d messages, want %d", len(msgs), 1+total/5)
	}
	last := msgs[len(msgs)-1]
	if last.visited != total || last.total != total {
		t.Errorf("last message = %+v, want %d/%d", last, total, total)
	}
}
