package cli

import (
	"bufio"
	_ "embed"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/arthur-debert/repath/internal/version"
	"github.com/arthur-debert/repath/pkg/errors"
	"github.com/arthur-debert/repath/pkg/logging"
	"github.com/arthur-debert/repath/pkg/pathname"
	"github.com/arthur-debert/repath/pkg/plan"
	"github.com/arthur-debert/repath/pkg/ruleset"
	"github.com/charmbracelet/glamour"
	"github.com/fsnotify/fsnotify"
	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"
	"github.com/pelletier/go-toml/v2"
	"github.com/pterm/pterm"
	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

// NewRootCmd creates and returns the root command
func NewRootCmd() *cobra.Command {
	var verbosity int

	rootCmd := &cobra.Command{
		Use:   "repath",
		Short: "Plan path rewrites with declarative rules",
		Long: `repath plans path rewrites: it applies declarative rules to collections
of relative paths and reports where each path should go. Rules decide
placement only; repath never touches the files themselves.`,
		Version: version.Version,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Setup logging based on verbosity
			logging.SetupLogger(verbosity)
			log.Debug().Str("command", cmd.Name()).Msg("Command started")
		},
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		DisableAutoGenTag: true,
	}

	// Global flags
	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v", "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)")

	// Add all commands
	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newApplyCmd())
	rootCmd.AddCommand(newCheckCmd())
	rootCmd.AddCommand(newInitCmd())
	rootCmd.AddCommand(newGuideCmd())

	return rootCmd
}

// resolveRulesPath returns the rules file to use, discovering one when no
// explicit path was given.
func resolveRulesPath(fsys afero.Fs, path string) (string, error) {
	if path != "" {
		return path, nil
	}
	cwd, err := os.Getwd()
	if err != nil {
		return "", errors.Wrap(err, errors.ErrFileAccess, "cannot determine working directory")
	}
	return ruleset.Locate(fsys, cwd)
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Long:  `Print detailed version information including commit hash and build date`,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("repath version %s\n", version.Version)
			if version.Commit != "" {
				fmt.Printf("Commit: %s\n", version.Commit)
			}
			if version.Date != "" {
				fmt.Printf("Built:  %s\n", version.Date)
			}
		},
	}
}

func newApplyCmd() *cobra.Command {
	var (
		rulesPath   string
		inputPath   string
		format      string
		showDropped bool
		watch       bool
	)

	cmd := &cobra.Command{
		Use:   "apply [paths...]",
		Short: "Apply rewrite rules to a set of paths",
		Long: `Apply runs the rules over a set of relative paths and prints the
resulting plan. Each path is relocated, kept where it is, or dropped
when no rule accepts it. Nothing on disk is touched.

Paths come from the arguments, from a file given with --input, or from
stdin when neither is present. Input files use one path per line; blank
lines and lines starting with # are skipped.`,
		Example: `  # Plan a rewrite for two paths
  repath apply inbox/report.pdf notes/todo.md

  # Read paths from a file, one per line
  repath apply --input paths.txt

  # Read paths from stdin and emit JSON
  git ls-files | repath apply --format json

  # Re-plan whenever the rules file changes
  repath apply --input paths.txt --watch`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if inputPath == "" && len(args) == 0 && isatty.IsTerminal(os.Stdin.Fd()) {
				return errors.New(errors.ErrInvalidInput,
					"no paths to plan: pass them as arguments, with --input, or on stdin")
			}

			fs := afero.NewOsFs()

			sources, err := readSources(fs, cmd.InOrStdin(), args, inputPath)
			if err != nil {
				return err
			}

			resolved, err := resolveRulesPath(fs, rulesPath)
			if err != nil {
				return err
			}

			opts := plan.Options{
				Color:       format == plan.FormatText && useColor(os.Stdout),
				ShowDropped: showDropped,
			}

			if watch {
				return watchAndRender(cmd, fs, resolved, sources, format, opts)
			}

			rules, err := ruleset.LoadFrom(fs, resolved)
			if err != nil {
				return err
			}
			return renderPlan(cmd.OutOrStdout(), *rules, sources, format, opts)
		},
	}

	cmd.Flags().StringVarP(&rulesPath, "rules", "r", "", "Rules file (default: discovered)")
	cmd.Flags().StringVarP(&inputPath, "input", "i", "", "File with one path per line (- for stdin)")
	cmd.Flags().StringVarP(&format, "format", "f", plan.FormatText, "Output format: text, json, yaml or xml")
	cmd.Flags().BoolVar(&showDropped, "show-dropped", false, "Include dropped paths in text output")
	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "Re-plan whenever the rules file changes")

	return cmd
}

// readSources collects the paths to plan from args, an input file, or stdin.
func readSources(fsys afero.Fs, stdin io.Reader, args []string, inputPath string) ([]string, error) {
	switch {
	case inputPath == "-":
		return scanSources(stdin)
	case inputPath != "":
		f, err := fsys.Open(inputPath)
		if err != nil {
			return nil, errors.Wrapf(err, errors.ErrFileAccess, "cannot read input file %s", inputPath)
		}
		defer func() { _ = f.Close() }()
		return scanSources(f)
	case len(args) > 0:
		return args, nil
	default:
		return scanSources(stdin)
	}
}

// scanSources reads one path per line, skipping blanks and # comments.
func scanSources(r io.Reader) ([]string, error) {
	var sources []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		sources = append(sources, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, errors.ErrInvalidInput, "failed to read path list")
	}
	return sources, nil
}

// renderPlan compiles the rules, plans the sources, and writes the plan
// to w in the requested format.
func renderPlan(w io.Writer, rules ruleset.File, sources []string, format string, opts plan.Options) error {
	policy, err := ruleset.Compile(rules)
	if err != nil {
		return err
	}

	paths := make([]pathname.Path, 0, len(sources))
	for _, s := range sources {
		paths = append(paths, pathname.Parse(s))
	}

	renderer, err := plan.NewRenderer(format, opts)
	if err != nil {
		return err
	}

	out, err := renderer.Render(plan.Build(policy, paths))
	if err != nil {
		return err
	}

	_, err = io.WriteString(w, out)
	return err
}

// useColor reports whether styled output should go to f.
func useColor(f *os.File) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	if !isatty.IsTerminal(f.Fd()) && !isatty.IsCygwinTerminal(f.Fd()) {
		return false
	}
	return termenv.ColorProfile() != termenv.Ascii
}

// watchAndRender re-plans whenever the rules file changes. It blocks until
// the command context is cancelled or the watcher shuts down.
func watchAndRender(cmd *cobra.Command, fsys afero.Fs, rulesPath string, sources []string, format string, opts plan.Options) error {
	logger := logging.GetLogger("cli")

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Wrap(err, errors.ErrFileAccess, "cannot start rules watcher")
	}
	defer func() { _ = watcher.Close() }()

	// Watch the directory rather than the file: editors often replace
	// the file on save, which drops a watch on the file itself.
	if err := watcher.Add(filepath.Dir(rulesPath)); err != nil {
		return errors.Wrapf(err, errors.ErrFileAccess, "cannot watch %s", rulesPath)
	}

	render := func() {
		rules, err := ruleset.LoadFrom(fsys, rulesPath)
		if err == nil {
			err = renderPlan(cmd.OutOrStdout(), *rules, sources, format, opts)
		}
		if err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
		}
	}
	render()

	debounce := time.NewTimer(0)
	if !debounce.Stop() {
		<-debounce.C
	}
	defer debounce.Stop()

	base := filepath.Base(rulesPath)
	for {
		select {
		case <-cmd.Context().Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Base(event.Name) != base {
				continue
			}
			if !event.Op.Has(fsnotify.Write) && !event.Op.Has(fsnotify.Create) && !event.Op.Has(fsnotify.Rename) {
				continue
			}
			logger.Debug().Str("event", event.String()).Msg("Rules file changed")
			debounce.Reset(200 * time.Millisecond)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn().Err(err).Msg("Watcher error")
		case <-debounce.C:
			render()
		}
	}
}

func newCheckCmd() *cobra.Command {
	var rulesPath string

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Validate a rules file",
		Long: `Check loads a rules file, reports every rule that fails to compile,
and exits non-zero when any rule is invalid.`,
		Example: `  # Validate the discovered rules file
  repath check

  # Validate a specific file
  repath check --rules ./rules.toml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			fs := afero.NewOsFs()

			resolved, err := resolveRulesPath(fs, rulesPath)
			if err != nil {
				return err
			}
			rules, err := ruleset.LoadFrom(fs, resolved)
			if err != nil {
				return err
			}
			return runCheck(cmd.OutOrStdout(), resolved, *rules)
		},
	}

	cmd.Flags().StringVarP(&rulesPath, "rules", "r", "", "Rules file (default: discovered)")

	return cmd
}

// runCheck compiles every rule and prints one status line each.
func runCheck(w io.Writer, path string, rules ruleset.File) error {
	okStyle := pterm.NewStyle(pterm.FgGreen)
	badStyle := pterm.NewStyle(pterm.FgRed, pterm.Bold)

	fmt.Fprintf(w, "%s\n", path)

	invalid := 0
	for i, def := range rules.Rules {
		at := fmt.Sprintf("rules[%d]", i)
		if _, err := ruleset.CompileRule(def, at); err != nil {
			invalid++
			fmt.Fprintf(w, "  %s %s: %v\n", badStyle.Sprint("bad"), at, err)
			continue
		}
		fmt.Fprintf(w, "  %s  %s: %s\n", okStyle.Sprint("ok"), at, def.Kind)
	}

	if invalid > 0 {
		return errors.Newf(errors.ErrRuleInvalid, "%d of %d rules are invalid", invalid, len(rules.Rules))
	}
	if _, err := ruleset.Compile(rules); err != nil {
		return err
	}

	fmt.Fprintf(w, "%d rules, all valid\n", len(rules.Rules))
	return nil
}

func newInitCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init [path]",
		Short: "Write a starter rules file",
		Long: `Init writes a small rules file to grow from. Without a path it creates
.repath.toml in the current directory.`,
		Example: `  # Create .repath.toml here
  repath init

  # Create a named rules file
  repath init rules/docs.toml`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := ruleset.DefaultNames[0]
			if len(args) == 1 {
				path = args[0]
			}
			if err := runInit(afero.NewOsFs(), path, force); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing file")

	return cmd
}

const starterHeader = `# repath rules.
# Rules are tried top to bottom; the first one to accept a path wins.
# Run "repath guide" for the full rule language.

`

// runInit writes the starter rules file at path.
func runInit(fsys afero.Fs, path string, force bool) error {
	if ext := strings.ToLower(filepath.Ext(path)); ext != ".toml" {
		return errors.Newf(errors.ErrInvalidInput, "starter rules are written as TOML, got %s", path)
	}

	exists, err := afero.Exists(fsys, path)
	if err != nil {
		return errors.Wrapf(err, errors.ErrFileAccess, "cannot stat %s", path)
	}
	if exists && !force {
		return errors.Newf(errors.ErrAlreadyExists, "%s already exists (use --force to overwrite)", path)
	}

	starter := ruleset.File{
		Combine: ruleset.CombineAttempt,
		Rules: []ruleset.Definition{
			{Kind: ruleset.KindMoveDir, From: "inbox", To: "library"},
			{Kind: ruleset.KindGlob, Pattern: "**/*.md"},
		},
	}

	body, err := toml.Marshal(starter)
	if err != nil {
		return errors.Wrap(err, errors.ErrUnknown, "cannot encode starter rules")
	}

	content := append([]byte(starterHeader), body...)
	if err := afero.WriteFile(fsys, path, content, 0644); err != nil {
		return errors.Wrapf(err, errors.ErrFileAccess, "cannot write %s", path)
	}
	return nil
}

//go:embed guide.md
var guideText string

func newGuideCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "guide",
		Short: "Show the rule language guide",
		Long:  `Guide prints the rule language reference, rendered for the terminal.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			// Plain markdown when piped or redirected.
			if !isatty.IsTerminal(os.Stdout.Fd()) && !isatty.IsCygwinTerminal(os.Stdout.Fd()) {
				fmt.Fprint(out, guideText)
				return nil
			}

			renderer, err := glamour.NewTermRenderer(
				glamour.WithAutoStyle(),
				glamour.WithWordWrap(80),
			)
			if err != nil {
				// Fallback to plain text on error
				fmt.Fprint(out, guideText)
				return nil
			}

			rendered, err := renderer.Render(guideText)
			if err != nil {
				fmt.Fprint(out, guideText)
				return nil
			}

			fmt.Fprint(out, rendered)
			return nil
		},
	}
}
