package viz

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/advsim/internal/grid"
)

const (
	defaultWidth  = 60
	defaultHeight = 16
	graphHeight   = 6
	playInterval  = time.Second / 10
)

type TickMsg time.Time

// Viewer steps through the snapshots of a run. The y-limits are fixed
// over the whole history so successive snapshots are comparable.
type Viewer struct {
	title     string
	domain    grid.Field
	residuals []float64
	cursor    Cursor
	lo, hi    float64
	canvas    *Canvas
	playing   bool
	theme     int
}

// NewViewer builds a viewer over history. residuals[i] is the residual of
// the timestep that produced history[i+1].
func NewViewer(domain grid.Field, history []grid.Field, residuals []float64, title string) Viewer {
	lo, hi := Limits(history)
	return Viewer{
		title:     title,
		domain:    domain,
		residuals: residuals,
		cursor:    NewCursor(history),
		lo:        lo,
		hi:        hi,
		canvas:    NewCanvas(defaultWidth, defaultHeight),
	}
}

// Run opens the viewer full screen and blocks until the user quits.
func Run(domain grid.Field, history []grid.Field, residuals []float64, title string) error {
	p := tea.NewProgram(NewViewer(domain, history, residuals, title), tea.WithAltScreen(), tea.WithMouseCellMotion())
	_, err := p.Run()
	return err
}

func (m Viewer) Index() int      { return m.cursor.Index() }
func (m Viewer) Playing() bool   { return m.playing }
func (m Viewer) Theme() Theme    { return Themes[m.theme] }
func (m Viewer) Canvas() *Canvas { return m.canvas }

func tick() tea.Cmd {
	return tea.Tick(playInterval, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Viewer) Init() tea.Cmd {
	return tick()
}

func (m Viewer) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "up", "k":
			m.cursor.Previous()
		case "down", "j":
			m.cursor.Next()
		case " ":
			m.playing = !m.playing
		case "home":
			m.cursor.Seek(0)
		case "end":
			m.cursor.Seek(m.cursor.Len() - 1)
		case "t":
			m.theme = (m.theme + 1) % len(Themes)
		}
	case tea.MouseMsg:
		switch msg.Button {
		case tea.MouseButtonWheelUp:
			m.cursor.Previous()
		case tea.MouseButtonWheelDown:
			m.cursor.Next()
		}
	case tea.WindowSizeMsg:
		w := max(msg.Width-8, 10)
		h := max(msg.Height-graphHeight-14, 4)
		m.canvas = NewCanvas(w, h)
	case TickMsg:
		if m.playing {
			m.cursor.Next()
		}
		return m, tick()
	}
	return m, nil
}

// residualSeries returns log10 of the residuals up to snapshot i, with
// zero and non-finite entries dropped.
func (m Viewer) residualSeries(i int) []float64 {
	end := min(i, len(m.residuals))
	series := make([]float64, 0, end)
	for _, r := range m.residuals[:end] {
		if r > 0 && !math.IsInf(r, 1) {
			series = append(series, math.Log10(r))
		}
	}
	return series
}

func (m Viewer) View() string {
	st := m.Theme().styles()
	i := m.cursor.Index()
	u := m.cursor.Slice()

	PlotField(m.canvas, m.domain, u, m.lo, m.hi)

	var s strings.Builder
	s.WriteString(st.header.Render(strings.ToUpper(m.title)) + "\n")

	status := "PAUSED"
	if m.playing {
		status = "PLAYING"
	}
	s.WriteString(fmt.Sprintf("%s  snapshot %d/%d\n", status, i, max(m.cursor.Len()-1, 0)))
	s.WriteString(st.canvas.Render(m.canvas.String()) + "\n")

	s.WriteString(st.label.Render("y range") + st.value.Render(fmt.Sprintf("[%.4g, %.4g]", m.lo, m.hi)) + "\n")
	if u != nil {
		lo, hi := u.Bounds()
		s.WriteString(st.label.Render("min/max") + st.value.Render(fmt.Sprintf("%.6f / %.6f", lo, hi)) + "\n")
		if !u.IsFinite() {
			s.WriteString(st.warn.Render("snapshot holds NaN or Inf") + "\n")
		}
	}
	if i > 0 && i <= len(m.residuals) {
		s.WriteString(st.label.Render("residual") + st.value.Render(fmt.Sprintf("%.6e", m.residuals[i-1])) + "\n")
	}

	if series := m.residualSeries(i); len(series) > 1 {
		chart := asciigraph.Plot(series,
			asciigraph.Height(graphHeight),
			asciigraph.Width(m.canvas.Width),
			asciigraph.Caption("log10 residual"))
		s.WriteString(st.graph.Render(chart) + "\n")
	}

	s.WriteString(st.help.Render("↑/k prev  ↓/j next  space play  home/end  t theme  q quit"))
	return s.String()
}
