package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"runtime"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/oratioviva/desktop/internal/sidecar"
)

type startedMsg struct {
	launch sidecar.LaunchConfig
}

type startFailedMsg struct {
	err    error
	report sidecar.Report
}

type tickMsg time.Time

type errMsg struct {
	err error
}

type phase int

const (
	phaseStarting phase = iota
	phaseRunning
	phaseFailed
)

type model struct {
	sup  *sidecar.Supervisor
	info sidecar.ShellInfo

	spinner spinner.Model
	state   phase

	launch   sidecar.LaunchConfig
	err      error
	report   sidecar.Report
	started  time.Time
	uptime   time.Duration
	status   string
	quitting bool
}

func main() {
	var resourceDir string
	var dataDir string
	flag.Usage = func() {
		out := flag.CommandLine.Output()
		fmt.Fprintf(out, "Usage:\n  %s [flags]\n\nFlags:\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.StringVar(&resourceDir, "resources", "", "bundled resources directory holding backend/server.py")
	flag.StringVar(&dataDir, "data-dir", "", "backend data directory (default <project root>/data)")
	flag.Parse()

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	sup := sidecar.New(slog.New(slog.DiscardHandler))
	m := model{
		sup:     sup,
		info:    sidecar.ShellInfo{ResourceDir: resourceDir, AppDataDir: dataDir},
		spinner: sp,
		state:   phaseStarting,
	}

	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		sup.Stop()
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	sup.Stop()
}

func (m model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.startCmd())
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch t := msg.(type) {
	case tea.KeyMsg:
		switch t.String() {
		case "ctrl+c", "q", "esc":
			if m.state == phaseStarting {
				// The start command is still in flight; quit once it
				// reports so the child cannot outlive the shell.
				m.quitting = true
				return m, nil
			}
			m.sup.Stop()
			return m, tea.Quit
		case "o":
			if m.state == phaseRunning {
				return m, m.openCmd()
			}
			return m, nil
		}
	case spinner.TickMsg:
		if m.state != phaseStarting {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(t)
		return m, cmd
	case startedMsg:
		if m.quitting {
			m.sup.Stop()
			return m, tea.Quit
		}
		m.state = phaseRunning
		m.launch = t.launch
		m.started = time.Now()
		return m, m.tickCmd()
	case startFailedMsg:
		if m.quitting {
			return m, tea.Quit
		}
		m.state = phaseFailed
		m.err = t.err
		m.report = t.report
		return m, nil
	case tickMsg:
		if m.state != phaseRunning {
			return m, nil
		}
		m.uptime = time.Since(m.started).Truncate(time.Second)
		return m, m.tickCmd()
	case errMsg:
		m.status = "error: " + t.err.Error()
		return m, nil
	}
	return m, nil
}

func (m model) View() string {
	var b strings.Builder
	b.WriteString("OratioViva backend\n\n")
	switch m.state {
	case phaseStarting:
		label := "starting backend"
		if m.quitting {
			label = "stopping"
		}
		fmt.Fprintf(&b, "%s %s\n", m.spinner.View(), label)
	case phaseRunning:
		fmt.Fprintf(&b, "running at %s\n", m.launch.URL())
		fmt.Fprintf(&b, "interpreter %s\n", m.launch.Interpreter)
		fmt.Fprintf(&b, "data dir    %s\n", m.launch.DataDir)
		fmt.Fprintf(&b, "uptime      %s\n", m.uptime)
		b.WriteString("\no open browser • q quit\n")
	case phaseFailed:
		fmt.Fprintf(&b, "start failed: %v\n", m.err)
		b.WriteString(renderReport(m.report))
		b.WriteString("\nq quit\n")
	}
	if m.status != "" {
		b.WriteString("\n" + m.status + "\n")
	}
	return b.String()
}

func renderReport(rep sidecar.Report) string {
	var b strings.Builder
	b.WriteString("\nscript candidates:\n")
	for _, c := range rep.ScriptCandidates {
		b.WriteString(candidateLine(c))
	}
	if rep.Script == "" {
		return b.String()
	}
	b.WriteString("virtualenv candidates:\n")
	for _, c := range rep.VenvCandidates {
		b.WriteString(candidateLine(c))
	}
	if rep.Interpreter == "" {
		b.WriteString("no python or python3 on PATH\n")
	}
	return b.String()
}

func candidateLine(c sidecar.Candidate) string {
	mark := " "
	if c.Exists {
		mark = "*"
	}
	return fmt.Sprintf("  [%s] %s\n", mark, c.Path)
}

func (m model) startCmd() tea.Cmd {
	return func() tea.Msg {
		launch, err := m.sup.Start(m.info)
		if err != nil {
			return startFailedMsg{err: err, report: sidecar.Diagnose(m.info)}
		}
		return startedMsg{launch: launch}
	}
}

func (m model) tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m model) openCmd() tea.Cmd {
	return func() tea.Msg {
		if err := openBrowser(m.launch.URL() + "/app/"); err != nil {
			return errMsg{err: err}
		}
		return nil
	}
}

func openBrowser(target string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", target)
	case "windows":
		cmd = exec.Command("cmd", "/c", "start", "", target)
	default:
		cmd = exec.Command("xdg-open", target)
	}
	return cmd.Start()
}
