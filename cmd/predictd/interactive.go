package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/visionhost/predict/service"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	urlStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#90EE90"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

type predictionEntry struct {
	url     string
	label   string
	err     error
	elapsed time.Duration
}

type predictionMsg predictionEntry

type consoleModel struct {
	ctx       context.Context
	predictor *service.Predictor
	input     textinput.Model
	spin      spinner.Model
	history   []predictionEntry
	busy      bool
}

func newConsoleModel(ctx context.Context, p *service.Predictor) *consoleModel {
	ti := textinput.New()
	ti.Placeholder = "https://example.com/image.jpg"
	ti.Prompt = "url: "
	ti.Width = 60
	ti.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	return &consoleModel{
		ctx:       ctx,
		predictor: p,
		input:     ti,
		spin:      sp,
	}
}

func (m *consoleModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m *consoleModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit

		case "enter":
			url := strings.TrimSpace(m.input.Value())
			if m.busy || url == "" {
				return m, nil
			}
			m.busy = true
			m.input.SetValue("")
			return m, tea.Batch(m.spin.Tick, m.predictCmd(url))
		}

	case predictionMsg:
		m.busy = false
		m.history = append(m.history, predictionEntry(msg))
		return m, nil

	case spinner.TickMsg:
		if !m.busy {
			return m, nil
		}
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *consoleModel) predictCmd(url string) tea.Cmd {
	return func() tea.Msg {
		start := time.Now()
		label, err := m.predictor.Predict(m.ctx, url)
		return predictionMsg{
			url:     url,
			label:   label,
			err:     err,
			elapsed: time.Since(start),
		}
	}
}

func (m *consoleModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("predictd"))
	b.WriteString(" interactive console\n\n")

	for _, e := range m.history {
		b.WriteString(urlStyle.Render(e.url))
		b.WriteString(" → ")
		if e.err != nil {
			b.WriteString(errorStyle.Render(fmt.Sprintf("error: %v", e.err)))
		} else {
			b.WriteString(labelStyle.Render(e.label))
			b.WriteString(helpStyle.Render(fmt.Sprintf("  (%s)", e.elapsed.Round(time.Millisecond))))
		}
		b.WriteString("\n")
	}
	if len(m.history) > 0 {
		b.WriteString("\n")
	}

	if m.busy {
		b.WriteString(m.spin.View())
		b.WriteString(" predicting…\n")
	} else {
		b.WriteString(m.input.View())
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(helpStyle.Render("enter predict • esc quit"))
	return b.String()
}

func runInteractive(ctx context.Context, p *service.Predictor) error {
	prog := tea.NewProgram(newConsoleModel(ctx, p), tea.WithAltScreen())
	_, err := prog.Run()
	return err
}
