// Package tui is the interactive player: a bubbletea view over the playback
// session with a step grid, per-track mute/solo/volume control, and a
// waveform lane fed by the analyser tap at tick rate.
package tui

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/harmonica"
	"github.com/charmbracelet/lipgloss"

	"github.com/icco/groovebox"
	"github.com/icco/groovebox/internal/engine"
)

const (
	gridSixteenths = 16 // one bar of sixteenth cells per track row
	tickInterval   = time.Millisecond * 50
)

// Styles
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#7D56F4")).
			Bold(true)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#626262"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF0000")).
			Bold(true)

	activeStepStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFD700"))

	idleStepStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))

	playheadStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#00FF00")).
			Bold(true)

	mutedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF5555"))

	soloStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#55FFFF"))

	waveStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#00AAFF"))
)

// tickMsg drives playback animation and analyser polling.
type tickMsg time.Time

// Model is the player state.
type Model struct {
	session  *engine.Session
	tracks   []groovebox.Track
	tempo    float64
	filePath string
	saveFunc func([]groovebox.Track, float64) error

	cursor  int
	width   int
	height  int
	message string

	frame         groovebox.AnalyserFrame
	levelSpring   harmonica.Spring
	level         float64
	levelVelocity float64
}

// NewModel builds a player over a session and a track snapshot. saveFunc may
// be nil to disable writing changes back.
func NewModel(session *engine.Session, tracks []groovebox.Track, tempo float64, filePath string, saveFunc func([]groovebox.Track, float64) error) Model {
	return Model{
		session:     session,
		tracks:      tracks,
		tempo:       groovebox.ClampTempo(tempo),
		filePath:    filePath,
		saveFunc:    saveFunc,
		levelSpring: harmonica.NewSpring(harmonica.FPS(60), 6.0, 0.7),
	}
}

func (m Model) Init() tea.Cmd {
	return tick()
}

func tick() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tickMsg:
		m.frame = m.session.Read()
		target := frameLevel(m.frame)
		m.level, m.levelVelocity = m.levelSpring.Update(m.level, m.levelVelocity, target)
		return m, tick()

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		m.session.Stop()
		return m, tea.Quit

	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.tracks)-1 {
			m.cursor++
		}

	case " ":
		if m.session.IsPlaying() {
			m.session.Stop()
		} else if err := m.session.Play(m.tracks, m.tempo); err != nil {
			m.message = fmt.Sprintf("Playback degraded: %v", err)
		}

	case "+", "=":
		m.tempo = groovebox.ClampTempo(m.tempo + 5)
		m.session.SetTempo(m.tempo)
	case "-", "_":
		m.tempo = groovebox.ClampTempo(m.tempo - 5)
		m.session.SetTempo(m.tempo)

	case "m":
		if t := m.currentTrack(); t != nil {
			t.Muted = !t.Muted
			m.message = "Mute/solo changes apply on next play"
		}
	case "s":
		if t := m.currentTrack(); t != nil {
			t.Solo = !t.Solo
			m.message = "Mute/solo changes apply on next play"
		}

	case "[":
		if t := m.currentTrack(); t != nil {
			t.Volume = math.Max(0, t.Volume-0.1)
			m.session.SetTrackVolume(t.ID, t.Volume)
		}
	case "]":
		if t := m.currentTrack(); t != nil {
			t.Volume = math.Min(1, t.Volume+0.1)
			m.session.SetTrackVolume(t.ID, t.Volume)
		}

	case "w":
		if m.saveFunc == nil {
			m.message = "Saving disabled"
		} else if err := m.saveFunc(m.tracks, m.tempo); err != nil {
			m.message = fmt.Sprintf("Error saving: %v", err)
		} else {
			m.message = "Pattern saved"
		}
	}

	return m, nil
}

func (m *Model) currentTrack() *groovebox.Track {
	if m.cursor < 0 || m.cursor >= len(m.tracks) {
		return nil
	}
	return &m.tracks[m.cursor]
}

func (m Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("GROOVEBOX Player") + "\n\n")
	if m.filePath != "" {
		b.WriteString(fmt.Sprintf("File: %s\n", m.filePath))
	}
	b.WriteString(fmt.Sprintf("BPM: %.0f (use +/- to adjust)\n\n", m.tempo))

	b.WriteString(renderTransportBar(m.session, m.width) + "\n\n")

	for i, t := range m.tracks {
		b.WriteString(m.renderTrackRow(i, t) + "\n")
	}

	b.WriteString("\n" + renderWaveform(m.frame, m.level, m.width) + "\n")

	if m.message != "" {
		b.WriteString("\n" + errorStyle.Render(m.message) + "\n")
	}

	b.WriteString("\n" + helpStyle.Render("↑/↓: track • space: play/stop • m: mute • s: solo • [/]: volume"))
	b.WriteString("\n" + helpStyle.Render("+/-: tempo • w: save • q: quit"))

	return b.String()
}

func (m Model) renderTrackRow(index int, t groovebox.Track) string {
	var b strings.Builder

	label := fmt.Sprintf("%-10s %-7s", truncate(t.ID, 10), t.Instrument)
	if index == m.cursor {
		b.WriteString(selectedStyle.Render("> " + label))
	} else {
		b.WriteString("  " + label)
	}

	switch {
	case t.Muted:
		b.WriteString(mutedStyle.Render(" M "))
	case t.Solo:
		b.WriteString(soloStyle.Render(" S "))
	default:
		b.WriteString("   ")
	}

	b.WriteString(fmt.Sprintf("vol %3.0f%% ", t.Volume*100))

	// First bar of the track, one cell per sixteenth.
	playhead := -1
	if m.session.IsPlaying() {
		pos := m.session.Position()
		if pos.Bar == 0 {
			playhead = pos.Beat*4 + int(pos.Sixteenth)
		}
	}
	for cell := 0; cell < gridSixteenths; cell++ {
		mark := "·"
		style := idleStepStyle
		if noteStartsIn(t, cell) {
			mark = "●"
			style = activeStepStyle
		}
		if cell == playhead {
			style = playheadStyle
		}
		b.WriteString(style.Render(mark + " "))
	}

	return b.String()
}

func noteStartsIn(t groovebox.Track, cell int) bool {
	lo := float64(cell) / 4
	hi := float64(cell+1) / 4
	for _, n := range t.Notes {
		if n.Position >= lo && n.Position < hi {
			return true
		}
	}
	return false
}

func renderTransportBar(s *engine.Session, width int) string {
	barWidth := width - 30
	if barWidth < 20 {
		barWidth = 50
	}

	pos := s.Position()
	playing := s.IsPlaying()
	// Progress within the current bar.
	beats := pos.Beats() - float64(pos.Bar)*4
	filled := int(beats / 4 * float64(barWidth))

	var bar strings.Builder
	bar.WriteString("Clock: [")
	for i := 0; i < barWidth; i++ {
		switch {
		case playing && i < filled:
			bar.WriteString("█")
		case playing && i == filled:
			bar.WriteString("▶")
		default:
			bar.WriteString("─")
		}
	}
	bar.WriteString("]")

	status := "Stopped"
	if playing {
		status = fmt.Sprintf("Playing %s", pos)
	}
	return fmt.Sprintf("%s %s", bar.String(), status)
}

// renderWaveform draws the analyser frame as a five-row lane plus a smoothed
// level meter.
func renderWaveform(frame groovebox.AnalyserFrame, level float64, width int) string {
	cols := width - 4
	if cols < 20 {
		cols = 60
	}
	const rows = 5

	// Downsample the frame: peak magnitude per column.
	peaks := make([]float64, cols)
	per := len(frame) / cols
	if per < 1 {
		per = 1
	}
	for c := 0; c < cols; c++ {
		var peak float64
		for i := c * per; i < (c+1)*per && i < len(frame); i++ {
			if v := math.Abs(float64(frame[i])); v > peak {
				peak = v
			}
		}
		peaks[c] = peak
	}

	var b strings.Builder
	b.WriteString("Signal Output")
	b.WriteString(fmt.Sprintf("  level %s\n", levelMeter(level, 20)))
	for r := 0; r < rows; r++ {
		threshold := float64(rows-r) / float64(rows)
		b.WriteString("│")
		for _, p := range peaks {
			if p >= threshold {
				b.WriteString(waveStyle.Render("█"))
			} else if p >= threshold-1.0/float64(rows)/2 {
				b.WriteString(waveStyle.Render("▄"))
			} else {
				b.WriteString(" ")
			}
		}
		b.WriteString("│\n")
	}
	b.WriteString("└" + strings.Repeat("─", cols) + "┘\n")
	b.WriteString(helpStyle.Render(fmt.Sprintf("%-*s%s", cols-2, "past", "now")))
	return b.String()
}

func levelMeter(level float64, width int) string {
	if level < 0 {
		level = 0
	} else if level > 1 {
		level = 1
	}
	filled := int(level * float64(width))
	return waveStyle.Render(strings.Repeat("▮", filled)) + idleStepStyle.Render(strings.Repeat("▯", width-filled))
}

// frameLevel is the RMS magnitude of a frame, 0-1.
func frameLevel(frame groovebox.AnalyserFrame) float64 {
	var sum float64
	for _, s := range frame {
		sum += float64(s) * float64(s)
	}
	return math.Sqrt(sum / float64(len(frame)))
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-1] + "…"
}
