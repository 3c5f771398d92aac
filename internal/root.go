package internal

import (
	"errors"
	"os"
	"strings"

	"github.com/MrSnakeDoc/linkvault/internal/config"
	"github.com/MrSnakeDoc/linkvault/internal/logger"
	"github.com/MrSnakeDoc/linkvault/internal/middleware"

	"github.com/spf13/cobra"
)

func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "linkvault",
		Short: "GitHub-backed URL store",
		Long: `Linkvault keeps a list of shared URLs in a single JSON file on GitHub.
It serves ranked views of the list over HTTP, merges new submissions into the
file with optimistic concurrency and relays contact reports to a webhook.`,
		Example: `linkvault serve --addr :8888`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			versionFlag, _ := cmd.Flags().GetBool("version")
			if versionFlag {
				config.PrintVersion(cmd.OutOrStdout())
				return nil
			}
			return cmd.Help()
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.Flags().BoolP("version", "v", false, "Print version information")
	cmd.PersistentFlags().String("config", "", "Path to a config file (default ~/.config/linkvault/config.yml)")
	cmd.PersistentFlags().CountVarP(&logger.FlagVerboseCount, "verbose", "V", "Verbose output (debug logs)")
	cmd.PersistentFlags().BoolVarP(&logger.FlagQuiet, "quiet", "q", false, "Only print errors")
	cmd.PersistentFlags().BoolVarP(&logger.FlagSilent, "silent", "s", false, "Print nothing")
	cmd.PersistentFlags().BoolVar(&logger.FlagJSON, "json-logs", false, "Emit logs as JSON")

	RegisterSubCommands(cmd)

	return cmd
}

// Execute runs the root command. Errors already reported to the user come
// back as middleware.ErrLogged and are not printed again.
func Execute() error {
	root := NewRootCmd()

	if os.Getenv("COMP_LINE") != "" ||
		(len(os.Args) > 1 && strings.HasPrefix(os.Args[1], "__complete")) {
		return root.Execute()
	}

	if err := root.Execute(); err != nil {
		if errors.Is(err, middleware.ErrLogged) {
			return err
		}
		logger.LogError("%v", err)
		return err
	}
	return nil
}
