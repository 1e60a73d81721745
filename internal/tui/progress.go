// Package tui renders download progress with Bubble Tea when the installer
// runs on an interactive terminal.
package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/smart-cat-ai/smartcat-cli/internal/fetch"
)

var (
	labelStyle = lipgloss.NewStyle().Bold(true)
	barStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	trackStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

const barWidth = 30

// progressMsg carries download progress into the model.
type progressMsg struct {
	downloaded int64
	total      int64
}

// doneMsg signals that the download work finished.
type doneMsg struct {
	err error
}

type progressModel struct {
	url        string
	downloaded int64
	total      int64
	err        error
	done       bool
}

func (m progressModel) Init() tea.Cmd {
	return nil
}

func (m progressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case progressMsg:
		m.downloaded = msg.downloaded
		m.total = msg.total
		return m, nil
	case doneMsg:
		m.err = msg.err
		m.done = true
		return m, tea.Quit
	}
	return m, nil
}

func (m progressModel) View() string {
	if m.done {
		return ""
	}

	var b strings.Builder
	b.WriteString(labelStyle.Render("Downloading ") + m.url + "\n")

	if m.total > 0 {
		filled := int(float64(barWidth) * float64(m.downloaded) / float64(m.total))
		if filled > barWidth {
			filled = barWidth
		}
		bar := barStyle.Render(strings.Repeat("█", filled)) +
			trackStyle.Render(strings.Repeat("░", barWidth-filled))
		percent := float64(m.downloaded) / float64(m.total) * 100
		b.WriteString(fmt.Sprintf("%s %5.1f%%  %s / %s\n",
			bar, percent, FormatSize(m.downloaded), FormatSize(m.total)))
	} else {
		b.WriteString(fmt.Sprintf("%s downloaded\n", FormatSize(m.downloaded)))
	}
	return b.String()
}

// RunDownload executes work while rendering its progress. work receives the
// progress callback to pass into the downloader and runs on a separate
// goroutine; RunDownload returns work's error once the UI has shut down.
func RunDownload(url string, work func(progress fetch.ProgressFunc) error) error {
	program := tea.NewProgram(progressModel{url: url})

	go func() {
		err := work(func(downloaded, total int64) {
			program.Send(progressMsg{downloaded: downloaded, total: total})
		})
		program.Send(doneMsg{err: err})
	}()

	final, err := program.Run()
	if err != nil {
		return fmt.Errorf("progress display failed: %w", err)
	}
	if m, ok := final.(progressModel); ok {
		return m.err
	}
	return nil
}

// FormatSize renders a byte count in a human-readable unit.
func FormatSize(n int64) string {
	switch {
	case n >= 1<<20:
		return fmt.Sprintf("%.1f MB", float64(n)/(1<<20))
	case n >= 1<<10:
		return fmt.Sprintf("%.1f KB", float64(n)/(1<<10))
	default:
		return fmt.Sprintf("%d B", n)
	}
}
