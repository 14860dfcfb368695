package cli

import (
	"github.com/spf13/cobra"
)

// completionCommand creates the completion command. Completions cover
// diagram IDs (described by their titles), configured themes, modes,
// layouts and formats.
func (c *CLI) completionCommand() *cobra.Command {
	var noDesc bool

	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for notediagram.

Bash:
  $ source <(notediagram completion bash)

Zsh:
  $ notediagram completion zsh > "${fpath[1]}/_notediagram"

Fish:
  $ notediagram completion fish > ~/.config/fish/completions/notediagram.fish

PowerShell:
  PS> notediagram completion powershell | Out-String | Invoke-Expression

Diagram completions show each diagram's title; --no-descriptions turns
that off for shells that render descriptions poorly.`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			root, out := cmd.Root(), cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return root.GenBashCompletionV2(out, !noDesc)
			case "zsh":
				if noDesc {
					return root.GenZshCompletionNoDesc(out)
				}
				return root.GenZshCompletion(out)
			case "fish":
				return root.GenFishCompletion(out, !noDesc)
			case "powershell":
				if noDesc {
					return root.GenPowerShellCompletion(out)
				}
				return root.GenPowerShellCompletionWithDesc(out)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&noDesc, "no-descriptions", false, "omit completion descriptions")

	return cmd
}
