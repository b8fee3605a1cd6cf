// Package install executes the steps of a manifest, locally or against a
// remote host.
//
// Steps run in manifest order after tag filtering. Within a step the copy
// list runs first, then the link list (materialized as copies when the
// target is remote or --copy is set), then the run list. Every action is
// announced before it is attempted; individual failures are reported
// beneath the announcement and recorded in the report, but never stop the
// run.
package install

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/arthur-debert/lares/pkg/fileops"
	"github.com/arthur-debert/lares/pkg/logging"
	"github.com/arthur-debert/lares/pkg/manifest"
	"github.com/arthur-debert/lares/pkg/remote"
	"github.com/arthur-debert/lares/pkg/tags"
	"github.com/mattn/go-isatty"
	"github.com/pterm/pterm"
	"github.com/rs/zerolog"
)

// RulesToken is the literal marker inside a run postfix that is replaced
// with the space-joined tag rules of the invocation.
const RulesToken = "$LARES_RULES"

// Transport is the remote side of an installation. It is satisfied by
// *remote.Client and by fakes in tests.
type Transport interface {
	// Stage prepares a local file for transfer to the destination path.
	Stage(src, dst string) error

	// Flush transfers everything staged so far and clears the staging tree.
	Flush() error

	// Run executes a command on the remote host inside the install directory.
	Run(command string) error
}

// Runner executes a local shell command in dir, streaming output to the
// given writers. It is satisfied by fileops.RunCommand.
type Runner func(command, dir string, stdout, stderr io.Writer) error

// Options configures an Installer.
type Options struct {
	// Rules gate which steps run and feed the RulesToken substitution.
	Rules []tags.Rule

	// Host is the remote target; empty means a local install.
	Host string

	// DryRun announces actions without performing them.
	DryRun bool

	// CopyLinks materializes link entries as copies even locally.
	CopyLinks bool

	// Transport performs staging, transfer and remote execution. Required
	// when Host is set.
	Transport Transport

	// Runner executes local run entries. Defaults to fileops.RunCommand.
	Runner Runner

	// Out and ErrOut receive announcements and soft-error reports.
	// Default to os.Stdout and os.Stderr.
	Out    io.Writer
	ErrOut io.Writer

	// NoColor disables terminal styling.
	NoColor bool
}

// Installer executes manifests. Execution is strictly single-threaded;
// every action blocks until completion before the next one starts.
type Installer struct {
	opts   Options
	styled bool
	logger zerolog.Logger
}

// New creates an Installer.
func New(opts Options) *Installer {
	if opts.Runner == nil {
		opts.Runner = fileops.RunCommand
	}
	if opts.Out == nil {
		opts.Out = os.Stdout
	}
	if opts.ErrOut == nil {
		opts.ErrOut = os.Stderr
	}
	return &Installer{
		opts:   opts,
		styled: !opts.NoColor && isatty.IsTerminal(os.Stdout.Fd()),
		logger: logging.GetLogger("install"),
	}
}

// Install executes the manifest's steps and returns a report of every
// attempted action. Steps that fail the tag check produce no output and
// no side effects; progress counters renumber over the filtered list.
func (in *Installer) Install(m *manifest.Manifest) *Report {
	report := &Report{}
	steps := m.FilterSteps(in.opts.Rules)

	in.logger.Info().
		Int("steps", len(steps)).
		Int("skipped", len(m.Steps)-len(steps)).
		Str("host", in.opts.Host).
		Bool("dry_run", in.opts.DryRun).
		Msg("Executing manifest")

	for i, step := range steps {
		label := fmt.Sprintf("[%d/%d]", i+1, len(steps))

		in.executeCopies(m, step.Copy, label, report)

		if in.remote() || in.opts.CopyLinks {
			in.executeCopies(m, step.Link, label, report)
		} else {
			in.executeLinks(m, step.Link, label, report)
		}

		in.executeRuns(m, step.Run, label, report)
	}

	return report
}

// executeCopies performs a copy list, staging to the remote host when one
// is set, and flushes the staged batch afterwards.
func (in *Installer) executeCopies(m *manifest.Manifest, entries []manifest.CopyLink, label string, report *Report) {
	for _, entry := range entries {
		src := resolveLocal(m.BaseDir, entry.Src)

		var desc string
		var action func() error
		if in.remote() {
			dst := remote.ResolveDst(entry.Dst)
			desc = fmt.Sprintf("Copy %s to %s:%s", entry.Src, in.opts.Host, dst)
			action = func() error { return in.opts.Transport.Stage(src, dst) }
		} else {
			dst := resolveLocal(m.BaseDir, entry.Dst)
			desc = fmt.Sprintf("Copy %s to %s", entry.Src, entry.Dst)
			action = func() error { return fileops.CopyFile(src, dst) }
		}

		in.attempt(label, desc, action, report)
	}

	if in.remote() && !in.opts.DryRun && len(entries) > 0 {
		desc := "Transfer staged files"
		if err := in.opts.Transport.Flush(); err != nil {
			in.reportError(err)
			report.add(desc, err)
		} else {
			report.add(desc, nil)
		}
	}
}

// executeLinks performs a link list locally.
func (in *Installer) executeLinks(m *manifest.Manifest, entries []manifest.CopyLink, label string, report *Report) {
	for _, entry := range entries {
		src := resolveLocal(m.BaseDir, entry.Src)
		dst := resolveLocal(m.BaseDir, entry.Dst)
		desc := fmt.Sprintf("Link %s to %s", entry.Src, entry.Dst)

		in.attempt(label, desc, func() error { return fileops.LinkFile(src, dst) }, report)
	}
}

// executeRuns performs a run list. Remote scripts are staged and flushed
// first so they can rely on files transferred earlier in the step.
func (in *Installer) executeRuns(m *manifest.Manifest, runs []manifest.Run, label string, report *Report) {
	if in.remote() && len(runs) > 0 {
		scripts := make([]manifest.CopyLink, 0, len(runs))
		for _, run := range runs {
			scripts = append(scripts, manifest.CopyLink{Src: run.Src, Dst: run.Src})
		}
		in.executeCopies(m, scripts, label, report)
	}

	activeRules := strings.Join(tags.Raw(in.opts.Rules), " ")

	for _, run := range runs {
		postfix := strings.ReplaceAll(run.Postfix, RulesToken, activeRules)
		command := strings.TrimSpace(fmt.Sprintf("%s %s %s", run.Prefix, run.Src, postfix))

		var desc string
		var action func() error
		if in.remote() {
			desc = fmt.Sprintf("Run %s on %s", command, in.opts.Host)
			action = func() error { return in.opts.Transport.Run(command) }
		} else {
			desc = fmt.Sprintf("Run %s", command)
			action = func() error {
				return in.opts.Runner(command, m.BaseDir, in.opts.Out, in.opts.ErrOut)
			}
		}

		in.attempt(label, desc, action, report)
	}
}

// attempt announces one action, performs it unless this is a dry run, and
// records the outcome. Failures are reported beneath the announcement.
func (in *Installer) attempt(label, desc string, action func() error, report *Report) {
	if in.opts.DryRun {
		fmt.Fprintf(in.opts.Out, "%s %s (DRY RUN)\n", in.bold(label), desc)
		report.add(desc, nil)
		return
	}

	fmt.Fprintf(in.opts.Out, "%s %s\n", in.bold(label), desc)

	err := action()
	if err != nil {
		in.reportError(err)
	}
	report.add(desc, err)
}

// reportError prints a soft error directly beneath its announcement.
func (in *Installer) reportError(err error) {
	in.logger.Error().Err(err).Msg("Action failed")
	fmt.Fprintf(in.opts.ErrOut, "  %s %v\n", in.errorLabel(), err)
}

func (in *Installer) remote() bool {
	return in.opts.Host != ""
}

func (in *Installer) bold(s string) string {
	if !in.styled {
		return s
	}
	return pterm.Bold.Sprint(s)
}

func (in *Installer) errorLabel() string {
	if !in.styled {
		return "Error:"
	}
	return pterm.NewStyle(pterm.FgRed, pterm.Bold).Sprint("Error:")
}

// resolveLocal interprets a relative path against the manifest's base
// directory. Tilde-prefixed and absolute paths pass through untouched.
func resolveLocal(baseDir, path string) string {
	if strings.HasPrefix(path, "~") || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(baseDir, path)
}
