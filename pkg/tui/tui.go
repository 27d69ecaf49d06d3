// Package tui provides a terminal monitor that decodes MIDI captures
package tui

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/james-see/midistream/pkg/config"
	"github.com/james-see/midistream/pkg/decoder"
	"github.com/james-see/midistream/pkg/events"
	"github.com/james-see/midistream/pkg/stream"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Phosphor color scheme (old MIDI monitor aesthetic)
var (
	phosphor   = lipgloss.Color("#33FF99")
	amber      = lipgloss.Color("#FFB000")
	silverGray = lipgloss.Color("#C0C0C0")
	darkGray   = lipgloss.Color("#333333")

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(phosphor).
			Background(darkGray).
			Padding(0, 2).
			MarginBottom(1)

	menuStyle = lipgloss.NewStyle().
			Foreground(silverGray).
			PaddingLeft(2)

	selectedStyle = lipgloss.NewStyle().
			Foreground(phosphor).
			Bold(true).
			PaddingLeft(2)

	statusStyle = lipgloss.NewStyle().
			Foreground(amber).
			PaddingTop(1)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF0000")).
			Bold(true)

	kindStyle = lipgloss.NewStyle().
			Foreground(amber).
			Width(18)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666")).
			MarginTop(1)

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(phosphor).
			Padding(1, 2)
)

// State represents the current TUI state
type State int

const (
	StateMenu State = iota
	StateFilePicker
	StateDecoding
	StateResult
)

// MenuItem represents a menu option
type MenuItem struct {
	Title       string
	Description string
	Encoding    stream.Encoding
	Extensions  []string
}

var menuItems = []MenuItem{
	{Title: "SERIAL", Description: "Decode a raw serial MIDI dump (.syx, .raw, .bin)", Encoding: stream.EncodingSerial, Extensions: []string{".syx", ".raw", ".bin", ".din"}},
	{Title: "USB FRAMES", Description: "Decode a capture of 4-byte USB-MIDI event packets", Encoding: stream.EncodingFrames, Extensions: []string{".usb", ".usbmidi", ".frames", ".bin"}},
	{Title: "MIDI FILE", Description: "Replay a Standard MIDI File through the decoder", Encoding: stream.EncodingSMF, Extensions: []string{".mid", ".midi"}},
	{Title: "Exit", Description: "Exit the application"},
}

// Model represents the TUI model
type Model struct {
	cfg          config.Config
	state        State
	menuIndex    int
	filePicker   filepicker.Model
	spinner      spinner.Model
	selectedFile string
	choice       MenuItem
	result       decodeDoneMsg
	offset       int
	width        int
	height       int
}

// decodeDoneMsg carries the outcome of a decode run
type decodeDoneMsg struct {
	events []events.Event
	stats  decoder.Stats
	state  decoder.State
	res    stream.Result
	err    error
}

// Init initializes the TUI model
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick)
}

// New creates a new TUI model
func New(cfg config.Config) Model {
	fp := filepicker.New()
	fp.CurrentDirectory, _ = os.Getwd()

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(phosphor)

	return Model{
		cfg:        cfg,
		state:      StateMenu,
		filePicker: fp,
		spinner:    s,
	}
}

// Update handles TUI updates
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	// the file picker needs to receive all messages
	if m.state == StateFilePicker {
		if keyMsg, ok := msg.(tea.KeyMsg); ok {
			switch keyMsg.String() {
			case "esc":
				m.state = StateMenu
				return m, nil
			case "q", "ctrl+c":
				return m, tea.Quit
			}
		}

		var cmd tea.Cmd
		m.filePicker, cmd = m.filePicker.Update(msg)

		if didSelect, path := m.filePicker.DidSelectFile(msg); didSelect {
			m.selectedFile = path
			m.state = StateDecoding
			return m, tea.Batch(m.spinner.Tick, m.performDecode())
		}

		return m, cmd
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.filePicker.SetHeight(msg.Height - 10)
		return m, nil

	case tea.KeyMsg:
		switch m.state {
		case StateMenu:
			return m.updateMenu(msg)
		case StateResult:
			return m.updateResult(msg)
		}

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case decodeDoneMsg:
		m.state = StateResult
		m.result = msg
		m.offset = 0
		return m, nil
	}

	return m, nil
}

func (m Model) updateMenu(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if m.menuIndex > 0 {
			m.menuIndex--
		}
	case "down", "j":
		if m.menuIndex < len(menuItems)-1 {
			m.menuIndex++
		}
	case "enter":
		if m.menuIndex == len(menuItems)-1 {
			return m, tea.Quit
		}
		m.choice = menuItems[m.menuIndex]
		m.state = StateFilePicker
		m.filePicker.AllowedTypes = m.choice.Extensions
		return m, m.filePicker.Init()
	case "q", "ctrl+c":
		return m, tea.Quit
	}
	return m, nil
}

func (m Model) updateResult(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if m.offset > 0 {
			m.offset--
		}
	case "down", "j":
		if m.offset < len(m.result.events)-1 {
			m.offset++
		}
	case "enter", "esc":
		m.state = StateMenu
		m.result = decodeDoneMsg{}
		m.selectedFile = ""
		return m, nil
	case "q", "ctrl+c":
		return m, tea.Quit
	}
	return m, nil
}

func (m Model) performDecode() tea.Cmd {
	path := m.selectedFile
	enc := m.choice.Encoding
	cfg := m.cfg
	return func() tea.Msg {
		return decodeFile(path, enc, cfg)
	}
}

func decodeFile(path string, enc stream.Encoding, cfg config.Config) decodeDoneMsg {
	data, err := os.ReadFile(path)
	if err != nil {
		return decodeDoneMsg{err: err}
	}

	rec := events.NewRecorder(nil)
	d := decoder.New(rec, cfg.DecoderOptions()...)
	res, err := stream.Decode(context.Background(), enc, data, d, stream.Options{OnError: cfg.Decoder.OnError})

	return decodeDoneMsg{
		events: rec.Events(),
		stats:  d.Stats(),
		state:  d.State(),
		res:    res,
		err:    err,
	}
}

// View renders the TUI
func (m Model) View() string {
	var s strings.Builder

	s.WriteString(lipgloss.NewStyle().Foreground(phosphor).Bold(true).Render("midistream"))
	s.WriteString("\n\n")

	switch m.state {
	case StateMenu:
		s.WriteString(m.viewMenu())
	case StateFilePicker:
		s.WriteString(m.viewFilePicker())
	case StateDecoding:
		s.WriteString(m.viewDecoding())
	case StateResult:
		s.WriteString(m.viewResult())
	}

	s.WriteString("\n")
	s.WriteString(helpStyle.Render("↑/↓: navigate • enter: select • q: quit"))

	return s.String()
}

func (m Model) viewMenu() string {
	var s strings.Builder

	s.WriteString(titleStyle.Render(" SELECT INPUT "))
	s.WriteString("\n\n")

	for i, item := range menuItems {
		if i == m.menuIndex {
			s.WriteString(selectedStyle.Render(fmt.Sprintf("▸ %s", item.Title)))
			s.WriteString("\n")
			s.WriteString(lipgloss.NewStyle().Foreground(amber).PaddingLeft(4).Render(item.Description))
		} else {
			s.WriteString(menuStyle.Render(fmt.Sprintf("  %s", item.Title)))
		}
		s.WriteString("\n")
	}

	return boxStyle.Render(s.String())
}

func (m Model) viewFilePicker() string {
	var s strings.Builder

	s.WriteString(titleStyle.Render(fmt.Sprintf(" SELECT %s FILE ", m.choice.Title)))
	s.WriteString("\n\n")
	s.WriteString(m.filePicker.View())
	s.WriteString("\n")
	s.WriteString(helpStyle.Render("esc: back to menu"))

	return s.String()
}

func (m Model) viewDecoding() string {
	var s strings.Builder

	s.WriteString(titleStyle.Render(" DECODING "))
	s.WriteString("\n\n")
	s.WriteString(fmt.Sprintf("%s Decoding %s...\n", m.spinner.View(), filepath.Base(m.selectedFile)))
	s.WriteString(statusStyle.Render(fmt.Sprintf("  encoding: %s", m.choice.Encoding)))

	return boxStyle.Render(s.String())
}

// visibleRows is how many events fit under the header
func (m Model) visibleRows() int {
	rows := m.height - 16
	if rows < 5 {
		rows = 5
	}
	return rows
}

func (m Model) viewResult() string {
	var s strings.Builder
	r := m.result

	s.WriteString(titleStyle.Render(fmt.Sprintf(" %s ", filepath.Base(m.selectedFile))))
	s.WriteString("\n\n")

	if r.err != nil {
		s.WriteString(errorStyle.Render(fmt.Sprintf("✗ %s", r.err.Error())))
		s.WriteString("\n")
	}

	s.WriteString(statusStyle.Render(fmt.Sprintf("%d messages • %d sysex • %d errors • %d resets • state %s",
		r.stats.Messages, r.stats.SysEx, r.stats.Errors, r.res.Resets, r.state)))
	s.WriteString("\n\n")

	end := m.offset + m.visibleRows()
	if end > len(r.events) {
		end = len(r.events)
	}
	for _, ev := range r.events[m.offset:end] {
		s.WriteString(kindStyle.Render(kindLabel(ev.Kind)))
		s.WriteString(menuStyle.Render(ev.String()))
		s.WriteString("\n")
	}
	if len(r.events) == 0 {
		s.WriteString(menuStyle.Render("no events"))
		s.WriteString("\n")
	}

	s.WriteString("\n")
	s.WriteString(helpStyle.Render("enter: back to menu"))

	return boxStyle.Render(s.String())
}

// kindLabel turns "control_change" into "Control Change"
func kindLabel(k events.Kind) string {
	return cases.Title(language.English).String(strings.ReplaceAll(string(k), "_", " "))
}

// Run starts the TUI application
func Run(cfg config.Config) error {
	p := tea.NewProgram(New(cfg), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
