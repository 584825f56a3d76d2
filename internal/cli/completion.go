package cli

import (
	"github.com/spf13/cobra"
)

// completionCommand prints a shell completion script for tilecascade.
// Scripts complete subcommands, --mode values and the cascade --merger.
func (c *CLI) completionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Print a shell completion script",
		Long: `Print a completion script for tilecascade to stdout.

Besides subcommands, the script completes the built-in pixel modes for
--mode (L, RGB, RGBA, ...) and the merger names accepted by --merger.
Store URIs and <dtype>x<bands> modes are not completed.

Load it in the current shell:
  bash        source <(tilecascade completion bash)
  zsh         source <(tilecascade completion zsh)
  fish        tilecascade completion fish | source
  powershell  tilecascade completion powershell | Out-String | Invoke-Expression

To keep it, write the script wherever your shell looks for completions,
for example:
  tilecascade completion zsh > "${fpath[1]}/_tilecascade"
  tilecascade completion fish > ~/.config/fish/completions/tilecascade.fish
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletionV2(out, true)
			case "zsh":
				return cmd.Root().GenZshCompletion(out)
			case "fish":
				return cmd.Root().GenFishCompletion(out, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(out)
			}
			return nil
		},
	}

	return cmd
}
