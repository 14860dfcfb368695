package cli

import (
	"context"
	"fmt"
	"math/rand/v2"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/matzehuels/notediagram/pkg/catalog"
	"github.com/matzehuels/notediagram/pkg/host"
	"github.com/matzehuels/notediagram/pkg/pipeline"
	"github.com/matzehuels/notediagram/pkg/render/backend/sketch"
	"github.com/matzehuels/notediagram/pkg/render/content"
	"github.com/matzehuels/notediagram/pkg/render/pass"
	"github.com/matzehuels/notediagram/pkg/render/sink"
)

// Preview styles
var (
	previewCurrentStyle = lipgloss.NewStyle().Bold(true).Foreground(colorWhite).Background(lipgloss.Color("62")).Padding(0, 1)
	previewVisitedStyle = lipgloss.NewStyle().Foreground(colorGreen).Padding(0, 1)
	previewPendingStyle = lipgloss.NewStyle().Foreground(colorDim).Padding(0, 1)
	previewFailedStyle  = lipgloss.NewStyle().Bold(true).Foreground(colorRed).Padding(0, 1)
	previewLabelStyle   = lipgloss.NewStyle().Foreground(colorGray).Width(8)
)

// previewCommand creates the interactive preview command.
func (c *CLI) previewCommand() *cobra.Command {
	var opts pipeline.Options
	var output string

	cmd := &cobra.Command{
		Use:   "preview [diagram]",
		Short: "Interactively cycle diagrams, themes and styles",
		Long: `Preview mounts one diagram view and re-renders it on every key press,
showing the pass lifecycle as it runs. Press w to write the current
drawing as SVG.`,
		Args:              cobra.MaximumNArgs(1),
		ValidArgsFunction: completeDiagrams,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				opts.Diagram = args[0]
			}
			opts = c.applyRenderConfig(cmd, opts)
			if err := opts.ValidateAndSetDefaults(); err != nil {
				return err
			}
			engine, err := c.newEngine()
			if err != nil {
				return err
			}

			h := host.New(engine)
			m := newPreviewModel(cmd.Context(), h, opts.Params(), engine.Themes().Names(), output)
			defer m.close()

			_, err = tea.NewProgram(m, tea.WithContext(cmd.Context())).Run()
			return err
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.Theme, "theme", "t", "", "initial color theme")
	f.StringVarP(&opts.Mode, "mode", "m", "", "initial render mode: flat, sketch")
	f.StringVar(&opts.SketchStyle, "style", "", "initial sketch fill style")
	f.StringVar(&opts.Layout, "layout", "", "key point layout: vertical, horizontal")
	f.StringVarP(&output, "output", "o", "preview.svg", "file written by the w key")

	_ = cmd.RegisterFlagCompletionFunc("theme", c.completeThemes)
	_ = cmd.RegisterFlagCompletionFunc("mode", fixedCompletion("flat", "sketch"))

	return cmd
}

// =============================================================================
// previewModel - bubbletea model over one host view
// =============================================================================

// passEventMsg carries one pass transition from the host observer.
type passEventMsg pass.Event

// renderedMsg is sent when an Update call returns.
type renderedMsg struct {
	res *pass.Result
	err error
}

// savedMsg reports the result of writing the SVG.
type savedMsg struct {
	path string
	err  error
}

type previewModel struct {
	ctx    context.Context
	host   *host.Host
	handle host.Handle
	events chan pass.Event

	params pass.Params
	themes []string
	output string

	generation uint64
	trail      []pass.State
	state      pass.State
	result     *pass.Result
	err        error
	status     string
}

func newPreviewModel(ctx context.Context, h *host.Host, p pass.Params, themes []string, output string) *previewModel {
	m := &previewModel{
		ctx:    ctx,
		host:   h,
		events: make(chan pass.Event, 64),
		params: p,
		themes: themes,
		output: output,
	}
	m.handle = h.Create("preview", host.WithObserver(func(ev pass.Event) {
		select {
		case m.events <- ev:
		default:
		}
	}))
	return m
}

func (m *previewModel) close() {
	_ = m.host.Dispose(m.handle)
}

func (m *previewModel) Init() tea.Cmd {
	return tea.Batch(m.render(), m.waitForEvent())
}

func (m *previewModel) waitForEvent() tea.Cmd {
	events := m.events
	return func() tea.Msg {
		return passEventMsg(<-events)
	}
}

func (m *previewModel) render() tea.Cmd {
	ctx, h, hd, p := m.ctx, m.host, m.handle, m.params
	return func() tea.Msg {
		res, err := h.Update(ctx, hd, p)
		return renderedMsg{res: res, err: err}
	}
}

func (m *previewModel) save() tea.Cmd {
	res, path := m.result, m.output
	return func() tea.Msg {
		if res == nil {
			return savedMsg{path: path, err: fmt.Errorf("nothing rendered yet")}
		}
		data, err := sink.RenderSVG(res, sink.WithXMLHeader())
		if err == nil {
			err = os.WriteFile(path, data, 0o644)
		}
		return savedMsg{path: path, err: err}
	}
}

func (m *previewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "d", "right":
			m.params.Diagram = next(catalog.IDs(), m.params.Diagram)
		case "D", "left":
			m.params.Diagram = prev(catalog.IDs(), m.params.Diagram)
		case "t":
			m.params.Theme = next(m.themes, m.params.Theme)
		case "m":
			if m.params.Mode == pass.Sketch {
				m.params.Mode = pass.Flat
			} else {
				m.params.Mode = pass.Sketch
			}
		case "s":
			m.params.SketchStyle = next(sketch.FillStyles(), m.params.SketchStyle)
		case "l":
			if m.params.Layout == content.Horizontal {
				m.params.Layout = content.Vertical
			} else {
				m.params.Layout = content.Horizontal
			}
		case "r":
			seed := rand.Uint64()
			m.params.Seed = &seed
		case "u":
			m.params.Seed = nil
		case "w":
			return m, m.save()
		default:
			return m, nil
		}
		m.status = ""
		return m, m.render()

	case passEventMsg:
		if msg.Generation != m.generation {
			m.generation = msg.Generation
			m.trail = m.trail[:0]
		}
		m.trail = append(m.trail, msg.To)
		m.state = msg.To
		return m, m.waitForEvent()

	case renderedMsg:
		// A superseded Update returns ErrSuperseded; show the newest pass.
		if snap, err := m.host.Snapshot(m.handle); err == nil {
			m.state = snap.State
			m.result = snap.Result
			m.err = snap.Err
		} else {
			m.err = msg.err
		}

	case savedMsg:
		if msg.err != nil {
			m.status = StyleWarning.Render("write failed: " + msg.err.Error())
		} else {
			m.status = StyleSuccess.Render("wrote " + msg.path)
		}
	}
	return m, nil
}

func (m *previewModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("notediagram preview"))
	b.WriteString("\n\n")

	mode := string(m.params.Mode)
	if m.params.Mode == pass.Sketch {
		mode += " · " + string(m.params.SketchStyle)
	}
	b.WriteString(previewLabelStyle.Render("diagram") + StyleHighlight.Render(string(m.params.Diagram)) + "\n")
	b.WriteString(previewLabelStyle.Render("theme") + StyleValue.Render(m.params.Theme) + "\n")
	b.WriteString(previewLabelStyle.Render("mode") + StyleValue.Render(mode) + "\n")
	b.WriteString(previewLabelStyle.Render("layout") + StyleValue.Render(string(m.params.Layout)) + "\n\n")

	b.WriteString(m.lifecycle())
	b.WriteString("\n\n")

	if res := m.result; res != nil {
		stats := fmt.Sprintf("%d shapes · %d elements · %s · viewport %.0f×%.0f",
			res.Scene.Len(), res.Scene.Elements(), res.Backend, res.Viewport.Width(), res.Viewport.Height())
		if res.Params.Mode == pass.Sketch {
			stats += fmt.Sprintf(" · seed %d", res.Seed)
		}
		b.WriteString(StyleDim.Render(stats))
		b.WriteString("\n")
		b.WriteString(swatches(res.Theme.Colors))
		b.WriteString("\n")
	}
	if m.err != nil {
		b.WriteString(StyleWarning.Render(m.err.Error()))
		b.WriteString("\n")
	}
	if m.status != "" {
		b.WriteString(m.status)
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(StyleDim.Render("←/→ diagram  t theme  m mode  s style  l layout  r reseed  u unpin  w write  q quit"))
	return b.String()
}

// lifecycle renders the pass states in order, marking the ones the
// current generation went through.
func (m *previewModel) lifecycle() string {
	visited := make(map[pass.State]bool, len(m.trail))
	for _, s := range m.trail {
		visited[s] = true
	}
	var cells []string
	for _, s := range pass.States() {
		label := s.String()
		switch {
		case s == m.state && s == pass.Failed:
			cells = append(cells, previewFailedStyle.Render(label))
		case s == m.state:
			cells = append(cells, previewCurrentStyle.Render(label))
		case visited[s]:
			cells = append(cells, previewVisitedStyle.Render(label))
		default:
			cells = append(cells, previewPendingStyle.Render(label))
		}
	}
	return strings.Join(cells, StyleDim.Render("→"))
}

// next returns the element after cur in values, wrapping around. An
// unknown cur yields the first element.
func next[T comparable](values []T, cur T) T {
	for i, v := range values {
		if v == cur {
			return values[(i+1)%len(values)]
		}
	}
	return values[0]
}

func prev[T comparable](values []T, cur T) T {
	for i, v := range values {
		if v == cur {
			return values[(i+len(values)-1)%len(values)]
		}
	}
	return values[0]
}
