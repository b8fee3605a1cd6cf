package main

import (
	"fmt"
	"os"

	"github.com/arthur-debert/lares/internal/version"
	"github.com/arthur-debert/lares/pkg/config"
	"github.com/arthur-debert/lares/pkg/install"
	"github.com/arthur-debert/lares/pkg/logging"
	"github.com/arthur-debert/lares/pkg/manifest"
	"github.com/arthur-debert/lares/pkg/remote"
	"github.com/arthur-debert/lares/pkg/staging"
	"github.com/arthur-debert/lares/pkg/tags"
	"github.com/mattn/go-isatty"
	"github.com/pterm/pterm"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	verbosity int
	tagRules  []string
	listTags  bool
	dryRun    bool
	host      string
	copyLinks bool
	noColor   bool

	// softErrors is set by the root command and reduced to exit code 1
	softErrors bool

	rootCmd = &cobra.Command{
		Use:     "lares MANIFEST",
		Short:   MsgRootShort,
		Long:    MsgRootLong,
		Example: MsgExamples,
		Args:    cobra.ExactArgs(1),
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.SetupLogger(verbosity)
			log.Debug().Str("command", cmd.Name()).Msg("Command started")
		},
		RunE:          runRoot,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
)

// Execute runs the CLI and returns the process exit code: 0 for a clean
// run, 1 when soft errors occurred, 2 for a fatal error.
func Execute() int {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "%s %v\n", errorLabel(), err)
		return 2
	}
	if softErrors {
		return 1
	}
	return 0
}

func init() {
	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v", "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)")

	rootCmd.Flags().StringArrayVarP(&tagRules, "tag-rules", "t", nil, "The set of tag rules to enforce (repeatable)")
	rootCmd.Flags().BoolVarP(&listTags, "list-tags", "l", false, "List available tags and quit without installing")
	rootCmd.Flags().BoolVarP(&dryRun, "dry-run", "n", false, "Do a trial run without any permanent changes")
	rootCmd.Flags().StringVar(&host, "host", "", "Install dotfiles on another machine over SSH")
	rootCmd.Flags().BoolVar(&copyLinks, "copy", false, "Interpret link commands as copy commands")
	rootCmd.Flags().BoolVar(&noColor, "no-color", false, "Disable color output")

	rootCmd.AddCommand(versionCmd)
}

func runRoot(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if cfg.NoColor {
		noColor = true
	}

	m, err := manifest.Load(args[0])
	if err != nil {
		return err
	}

	if listTags {
		for _, tag := range m.Tags() {
			fmt.Println(tag)
		}
		return nil
	}

	opts := install.Options{
		Rules:     tags.ParseAll(tagRules),
		Host:      host,
		DryRun:    dryRun,
		CopyLinks: copyLinks,
		NoColor:   noColor,
	}

	// A dry run never stages or transfers anything, so the staging tree is
	// only needed for a real remote install.
	if host != "" && !dryRun {
		tree, err := staging.New()
		if err != nil {
			return err
		}
		defer func() {
			if err := tree.Remove(); err != nil {
				log.Warn().Err(err).Str("dir", tree.Root()).Msg("Failed to remove staging directory")
			}
		}()

		opts.Transport = remote.New(host, tree,
			remote.WithSSHArgs(cfg.Remote.SSHArgs),
			remote.WithSCPArgs(cfg.Remote.SCPArgs))
	}

	report := install.New(opts).Install(m)
	softErrors = report.HasErrors()
	return nil
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: MsgVersionShort,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("lares version %s\n", version.Version)
		fmt.Printf("  commit: %s\n", version.Commit)
		fmt.Printf("  built:  %s\n", version.Date)
	},
}

// errorLabel formats the fatal error prefix, styled only on a terminal
func errorLabel() string {
	if noColor || !isatty.IsTerminal(os.Stderr.Fd()) {
		return "Error:"
	}
	return pterm.NewStyle(pterm.FgRed, pterm.Bold).Sprint("Error:")
}
