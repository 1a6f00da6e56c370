package controller

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	m "retype.dev/pkg/retype/internal/model"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true)
	doneStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	faintStyle = lipgloss.NewStyle().Faint(true)
	noteStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("12"))
)

type (
	stageMsg   Stage
	noteMsg    string
	summaryMsg string
	doneMsg    struct{}
)

// TUI implements UI using Bubble Tea for interactive display.
type TUI struct {
	output io.Writer

	mu       sync.Mutex
	program  *tea.Program
	finished chan struct{}
	diff     string
}

// NewTUI creates a new TUI.
func NewTUI(output io.Writer) *TUI {
	return &TUI{output: output}
}

// Start launches the progress program in the background.
func (p *TUI) Start(ctx context.Context, options ...StartOption) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.program != nil {
		return nil
	}

	config := newStartConfig(options)
	p.program = tea.NewProgram(newProgressModel(config.mode), tea.WithOutput(p.output), tea.WithInput(nil), tea.WithContext(ctx))
	p.finished = make(chan struct{})

	go func(program *tea.Program, finished chan struct{}) {
		defer close(finished)

		_, _ = program.Run()
	}(p.program, p.finished)

	return nil
}

// Close stops the progress program and flushes any pending diff.
func (p *TUI) Close(ctx context.Context) {
	p.send(doneMsg{})
	p.Wait(ctx)

	p.mu.Lock()
	diff := p.diff
	p.diff = ""
	p.mu.Unlock()

	if diff != "" {
		_, _ = fmt.Fprint(p.output, diff)
	}
}

// Wait blocks until the progress program has exited.
func (p *TUI) Wait(ctx context.Context) {
	p.mu.Lock()
	finished := p.finished
	p.mu.Unlock()

	if finished == nil {
		return
	}

	select {
	case <-finished:
	case <-ctx.Done():
	}
}

// DisplayStage advances the spinner to stage.
func (p *TUI) DisplayStage(ctx context.Context, stage Stage) {
	if err := ctx.Err(); err != nil {
		return
	}

	p.send(stageMsg(stage))
}

// DisplayCoverage shows the coverage summary under the stage list.
func (p *TUI) DisplayCoverage(ctx context.Context, coverage m.Coverage) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	p.send(summaryMsg(FormatCoverage(coverage)))

	return nil
}

// DisplayDiff queues the diff for printing once the alt output is released.
func (p *TUI) DisplayDiff(ctx context.Context, diff string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if diff == "" {
		p.send(noteMsg("no changes"))
		return nil
	}

	p.mu.Lock()
	p.diff += diff
	p.mu.Unlock()

	return nil
}

// DisplayWritten reports the written output.
func (p *TUI) DisplayWritten(ctx context.Context, output m.Path, edits int) {
	if err := ctx.Err(); err != nil {
		return
	}

	p.send(noteMsg(fmt.Sprintf("applied %d edits, result saved into %s", edits, output)))
}

// DisplayIndexed reports a rebuilt symbol cache.
func (p *TUI) DisplayIndexed(ctx context.Context, symbols m.Path, modules int, classes int) {
	if err := ctx.Err(); err != nil {
		return
	}

	p.send(noteMsg(fmt.Sprintf("indexed %d modules (%d classes) into %s", modules, classes, symbols)))
}

func (p *TUI) send(msg tea.Msg) {
	p.mu.Lock()
	program := p.program
	p.mu.Unlock()

	if program != nil {
		program.Send(msg)
	}
}

type progressModel struct {
	mode    StartMode
	spinner spinner.Model
	current Stage
	stages  []Stage
	notes   []string
	summary string
	done    bool
}

func newProgressModel(mode StartMode) progressModel {
	return progressModel{
		mode:    mode,
		spinner: spinner.New(spinner.WithSpinner(spinner.Dot)),
	}
}

func (pm progressModel) Init() tea.Cmd {
	return pm.spinner.Tick
}

func (pm progressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case stageMsg:
		if pm.current != "" {
			pm.stages = append(pm.stages, pm.current)
		}

		pm.current = Stage(msg)

		return pm, nil
	case noteMsg:
		pm.notes = append(pm.notes, string(msg))
		return pm, nil
	case summaryMsg:
		pm.summary = string(msg)
		return pm, nil
	case doneMsg:
		if pm.current != "" {
			pm.stages = append(pm.stages, pm.current)
			pm.current = ""
		}

		pm.done = true

		return pm, tea.Quit
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return pm, tea.Quit
		}

		return pm, nil
	case spinner.TickMsg:
		var cmd tea.Cmd
		pm.spinner, cmd = pm.spinner.Update(msg)

		return pm, cmd
	}

	return pm, nil
}

func (pm progressModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("retype " + pm.mode.String()))
	b.WriteString("\n")

	for _, stage := range pm.stages {
		b.WriteString(doneStyle.Render("✓ "))
		b.WriteString(faintStyle.Render(string(stage)))
		b.WriteString("\n")
	}

	if pm.current != "" {
		fmt.Fprintf(&b, "%s %s\n", pm.spinner.View(), pm.current)
	}

	for _, note := range pm.notes {
		b.WriteString(noteStyle.Render(note))
		b.WriteString("\n")
	}

	if pm.summary != "" {
		b.WriteString("\n")
		b.WriteString(pm.summary)
	}

	return b.String()
}
