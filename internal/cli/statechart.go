package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/notediagram/pkg/render/pass"
	"github.com/matzehuels/notediagram/pkg/render/statechart"
)

// statechartCommand creates the statechart command, which draws the render
// pass lifecycle.
func (c *CLI) statechartCommand() *cobra.Command {
	var (
		format  string
		output  string
		current string
		reset   bool
		scale   float64
	)

	cmd := &cobra.Command{
		Use:   "statechart",
		Short: "Draw the render pass state machine",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := statechart.Options{ShowReset: reset}
			if current != "" {
				s, err := parseState(current)
				if err != nil {
					return err
				}
				opts.Current = &s
			}
			dot := statechart.ToDOT(opts)

			var data []byte
			var err error
			switch format {
			case "dot":
				data = []byte(dot)
			case "svg":
				data, err = statechart.RenderSVG(cmd.Context(), dot)
			case "png":
				data, err = statechart.RenderPNG(cmd.Context(), dot, scale)
			default:
				return fmt.Errorf("unknown format %q (valid: svg, dot, png)", format)
			}
			if err != nil {
				return err
			}

			if output == "" || output == "-" {
				_, err = os.Stdout.Write(data)
				return err
			}
			if err := writeOutput(output, data); err != nil {
				return err
			}
			printSuccess("Wrote state chart")
			printFile(output)
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVarP(&format, "format", "f", "svg", "output format: svg, dot, png")
	f.StringVarP(&output, "output", "o", "", "output file (default stdout)")
	f.StringVar(&current, "current", "", "highlight a state")
	f.BoolVar(&reset, "reset", false, "show reset edges back to idle")
	f.Float64Var(&scale, "scale", 2, "PNG scale factor")

	_ = cmd.RegisterFlagCompletionFunc("format", fixedCompletion("svg", "dot", "png"))
	_ = cmd.RegisterFlagCompletionFunc("current", fixedCompletion(stateNames()...))
	return cmd
}

func stateNames() []string {
	states := pass.States()
	out := make([]string, len(states))
	for i, s := range states {
		out[i] = s.String()
	}
	return out
}

func parseState(name string) (pass.State, error) {
	for _, s := range pass.States() {
		if s.String() == name {
			return s, nil
		}
	}
	return 0, fmt.Errorf("unknown state %q", name)
}
