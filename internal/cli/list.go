package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/matzehuels/notediagram/pkg/catalog"
	"github.com/matzehuels/notediagram/pkg/render/backend/sketch"
	"github.com/matzehuels/notediagram/pkg/theme"
)

var titleCase = cases.Title(language.English)

// displayName turns an identifier such as "cross-hatch" into "Cross Hatch".
func displayName(id string) string {
	return titleCase.String(strings.ReplaceAll(id, "-", " "))
}

// listCommand creates the list command and its subcommands.
func (c *CLI) listCommand() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List diagrams, themes and sketch styles",
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := c.config().Registry()
			if err != nil {
				return err
			}
			if asJSON {
				return printJSON(map[string]any{
					"diagrams": catalog.List(),
					"themes":   reg.All(),
					"styles":   sketch.FillStyles(),
				})
			}
			printDiagrams()
			fmt.Println()
			printThemes(reg)
			fmt.Println()
			printStyles()
			return nil
		},
	}
	cmd.PersistentFlags().BoolVar(&asJSON, "json", false, "print JSON instead of tables")

	cmd.AddCommand(&cobra.Command{
		Use:   "diagrams",
		Short: "List catalog diagrams",
		RunE: func(cmd *cobra.Command, args []string) error {
			if asJSON {
				return printJSON(catalog.List())
			}
			printDiagrams()
			return nil
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "themes",
		Short: "List color themes, including configured ones",
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := c.config().Registry()
			if err != nil {
				return err
			}
			if asJSON {
				return printJSON(reg.All())
			}
			printThemes(reg)
			return nil
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "styles",
		Short: "List sketch fill styles",
		RunE: func(cmd *cobra.Command, args []string) error {
			if asJSON {
				return printJSON(sketch.FillStyles())
			}
			printStyles()
			return nil
		},
	})

	return cmd
}

func newTable(headers ...string) *table.Table {
	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers(headers...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle.Padding(0, 1)
			}
			if col == 0 {
				return lipgloss.NewStyle().Foreground(colorCyan).Padding(0, 1)
			}
			return lipgloss.NewStyle().Padding(0, 1)
		})
}

func printDiagrams() {
	fmt.Println(StyleTitle.Render("Diagrams"))
	t := newTable("ID", "Name", "Shapes")
	for _, info := range catalog.List() {
		t.Row(string(info.ID), info.Title, fmt.Sprint(info.Shapes))
	}
	fmt.Println(t.Render())
}

func printThemes(reg *theme.Registry) {
	fmt.Println(StyleTitle.Render("Themes"))
	t := newTable("Name", "Display", "Palette")
	for _, th := range reg.All() {
		t.Row(th.Name, displayName(th.Name), swatches(th.Colors))
	}
	fmt.Println(t.Render())
}

func printStyles() {
	fmt.Println(StyleTitle.Render("Sketch styles"))
	t := newTable("ID", "Name")
	for _, fs := range sketch.FillStyles() {
		name := displayName(string(fs))
		if fs == sketch.DefaultFillStyle {
			name += StyleDim.Render(" (default)")
		}
		t.Row(string(fs), name)
	}
	fmt.Println(t.Render())
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// =============================================================================
// Shell Completion Helpers
// =============================================================================

func completeDiagrams(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	var out []string
	for _, info := range catalog.List() {
		out = append(out, string(info.ID)+"\t"+info.Title)
	}
	return out, cobra.ShellCompDirectiveNoFileComp
}

func (c *CLI) completeThemes(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	reg, err := c.config().Registry()
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}
	return reg.Names(), cobra.ShellCompDirectiveNoFileComp
}

func fixedCompletion(values ...string) func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
	return func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return values, cobra.ShellCompDirectiveNoFileComp
	}
}
