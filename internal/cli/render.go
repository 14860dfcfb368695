package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/notediagram/pkg/errors"
	"github.com/matzehuels/notediagram/pkg/pipeline"
	"github.com/matzehuels/notediagram/pkg/render"
	"github.com/matzehuels/notediagram/pkg/render/content"
	"github.com/matzehuels/notediagram/pkg/render/sink"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output     string   // output file (single format) or base path
	formats    string   // comma-separated output formats
	pointsFile string   // JSON file with key points
	points     []string // inline "Title: content" key points
	seed       uint64   // sketch seed; 0 means random
	noCache    bool     // disable the render cache
	refresh    bool     // ignore cached entries
}

// renderCommand creates the render command.
func (c *CLI) renderCommand() *cobra.Command {
	var ro renderOpts
	var opts pipeline.Options

	cmd := &cobra.Command{
		Use:   "render [diagram]",
		Short: "Render a diagram to SVG, PNG, PDF or JSON",
		Long: `Render a catalog diagram with a theme and render mode.

Flat mode is deterministic and cached. Sketch mode draws with a random seed
unless --seed pins one; pinned sketches are cached like flat renders.

Key points are placed around the diagram in document output:

  notediagram render pyramid -f document --point "Plan: Agree on scope" --point "Build: Ship it"
  notediagram render arrow -f document --points summary.json`,
		Args:              cobra.MaximumNArgs(1),
		ValidArgsFunction: completeDiagrams,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				opts.Diagram = args[0]
			}
			opts = c.applyRenderConfig(cmd, opts)
			if ro.formats != "" {
				opts.Formats = parseFormats(ro.formats)
			}
			if cmd.Flags().Changed("seed") {
				opts.Seed = &ro.seed
			}
			opts.Refresh = ro.refresh

			points, err := loadPoints(ro.pointsFile, ro.points)
			if err != nil {
				return err
			}
			if points != nil {
				opts.Points = points
			}
			return c.runRender(cmd.Context(), opts, &ro)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.Theme, "theme", "t", "", "color theme (see 'list themes')")
	f.StringVarP(&opts.Mode, "mode", "m", "", "render mode: flat (default), sketch")
	f.StringVar(&opts.SketchStyle, "style", "", "sketch fill style (see 'list styles')")
	f.StringVar(&opts.Layout, "layout", "", "key point layout: vertical (default), horizontal")
	f.Float64Var(&opts.Width, "width", 0, "SVG width attribute (default 500)")
	f.Float64Var(&opts.Scale, "scale", 0, "PNG scale factor (default 2)")
	f.StringVar(&opts.Background, "background", "", "background color, e.g. #ffffff")
	f.StringVarP(&ro.output, "output", "o", "", "output file (single format, '-' for stdout) or base path")
	f.StringVarP(&ro.formats, "format", "f", "", "output format(s): svg (default), document, json, png, pdf (comma-separated)")
	f.StringVar(&ro.pointsFile, "points", "", "JSON file with key points ('-' for stdin)")
	f.StringArrayVar(&ro.points, "point", nil, `inline key point "Title: content" (repeatable)`)
	f.Uint64Var(&ro.seed, "seed", 0, "pin the sketch seed for reproducible output")
	f.BoolVar(&ro.noCache, "no-cache", false, "disable the render cache")
	f.BoolVar(&ro.refresh, "refresh", false, "re-render even when cached")

	_ = cmd.RegisterFlagCompletionFunc("theme", c.completeThemes)
	_ = cmd.RegisterFlagCompletionFunc("mode", fixedCompletion("flat", "sketch"))
	_ = cmd.RegisterFlagCompletionFunc("layout", fixedCompletion(string(content.Horizontal), string(content.Vertical)))
	_ = cmd.RegisterFlagCompletionFunc("format", fixedCompletion(formatNames()...))

	return cmd
}

// applyRenderConfig fills options the user did not set from [render].
func (c *CLI) applyRenderConfig(cmd *cobra.Command, opts pipeline.Options) pipeline.Options {
	def := c.config().RenderOptions()
	if opts.Diagram == "" {
		opts.Diagram = def.Diagram
	}
	set := func(flag string, dst *string, v string) {
		if !cmd.Flags().Changed(flag) && v != "" {
			*dst = v
		}
	}
	set("theme", &opts.Theme, def.Theme)
	set("mode", &opts.Mode, def.Mode)
	set("style", &opts.SketchStyle, def.SketchStyle)
	set("layout", &opts.Layout, def.Layout)
	set("background", &opts.Background, def.Background)
	if !cmd.Flags().Changed("width") && def.Width > 0 {
		opts.Width = def.Width
	}
	if !cmd.Flags().Changed("scale") && def.Scale > 0 {
		opts.Scale = def.Scale
	}
	if len(def.Formats) > 0 {
		opts.Formats = def.Formats
	}
	return opts
}

func (c *CLI) runRender(ctx context.Context, opts pipeline.Options, ro *renderOpts) error {
	logger := loggerFromContext(ctx)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return err
	}
	if opts.Seed != nil && opts.Mode != "sketch" {
		printWarning("--seed only affects sketch mode")
	}
	for _, f := range opts.Formats {
		if f == string(sink.FormatPDF) && !pdfAvailable() {
			return errors.New(errors.ErrCodeUnsupported, "pdf output needs rsvg-convert (brew install librsvg, apt install librsvg2-bin)")
		}
	}

	runner, err := c.newRunner(ctx, ro.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	spinner := newSpinner(ctx, os.Stderr, "Rendering "+opts.Diagram)
	defer spinner.Watch()()
	spinner.Start()
	prog := newProgress(logger)
	res, err := runner.Execute(ctx, opts)
	spinner.Stop()
	if err != nil {
		return err
	}
	prog.done("rendered", "diagram", opts.Diagram, "backend", res.Pass.Backend)

	if res.Pass.Seed != 0 && opts.Seed == nil {
		logger.Debug("sketch seed", "seed", res.Pass.Seed)
	}

	toStdout := ro.output == "-"
	if toStdout && len(opts.Formats) > 1 {
		return errors.New(errors.ErrCodeInvalidInput, "stdout output takes a single format")
	}

	paths := outputPaths(ro.output, opts.Diagram, opts.Formats)
	for _, f := range opts.Formats {
		data := res.Artifacts[f]
		if toStdout {
			_, err := os.Stdout.Write(data)
			return err
		}
		if err := writeOutput(paths[f], data); err != nil {
			return err
		}
		logger.Debug("wrote artifact", "format", f, "bytes", len(data))
	}

	printSuccess("Rendered %s", StyleHighlight.Render(opts.Diagram))
	printStats(res.Stats.Shapes, res.Stats.Elements, res.Pass.Backend, res.CacheInfo.PassHit)
	for _, f := range opts.Formats {
		printFile(paths[f])
	}
	if opts.Mode == "sketch" && opts.Seed == nil {
		printNextStep("Reproduce this sketch", fmt.Sprintf("%s render %s -m sketch --seed %d", appName, opts.Diagram, res.Pass.Seed))
	}
	return nil
}

// pdfAvailable reports whether PDF conversion can run; tests stub it.
var pdfAvailable = render.ConverterAvailable

// outputPaths derives one file per format. A single format with an
// explicit output uses it as-is; otherwise output (or the diagram name) is
// a base path and each format gets its extension. Document output gets a
// suffix so it does not collide with plain SVG.
func outputPaths(output, diagram string, formats []string) map[string]string {
	paths := make(map[string]string, len(formats))
	if len(formats) == 1 && output != "" {
		paths[formats[0]] = output
		return paths
	}

	base := output
	if base == "" {
		base = diagram
	} else if ext := filepath.Ext(base); isFormatExt(ext) {
		base = strings.TrimSuffix(base, ext)
	}
	for _, f := range formats {
		format, _ := sink.ParseFormat(f)
		name := base
		if format == sink.FormatDocument {
			name += "-document"
		}
		paths[f] = name + "." + format.Ext()
	}
	return paths
}

func isFormatExt(ext string) bool {
	ext = strings.TrimPrefix(ext, ".")
	for _, f := range sink.Formats() {
		if f.Ext() == ext {
			return true
		}
	}
	return false
}

func writeOutput(path string, data []byte) error {
	if err := errors.ValidatePath(path); err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}
	return os.WriteFile(path, data, 0644)
}

// loadPoints reads key points from a JSON file and inline flags. Inline
// points follow file points.
func loadPoints(file string, inline []string) ([]content.BulletPoint, error) {
	var points []content.BulletPoint
	if file != "" {
		var r io.Reader
		if file == "-" {
			r = os.Stdin
		} else {
			f, err := os.Open(file)
			if err != nil {
				return nil, fmt.Errorf("open points: %w", err)
			}
			defer f.Close()
			r = f
		}
		p, err := content.ParseBulletPoints(r)
		if err != nil {
			return nil, err
		}
		points = append(points, p...)
	}
	for _, s := range inline {
		points = append(points, parsePoint(s))
	}
	if len(points) > content.Slots {
		return points[:content.Slots], nil
	}
	return points, nil
}

// parsePoint splits "Title: content". Text without a colon is a title.
func parsePoint(s string) content.BulletPoint {
	title, body, _ := strings.Cut(s, ":")
	return content.BulletPoint{Title: strings.TrimSpace(title), Content: strings.TrimSpace(body)}
}

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) []string {
	if s == "" {
		return pipeline.DefaultFormats
	}
	var out []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out
}

func formatNames() []string {
	fs := sink.Formats()
	names := make([]string, len(fs))
	for i, f := range fs {
		names[i] = string(f)
	}
	return names
}
