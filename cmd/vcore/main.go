package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/funvibe/vcore/internal/config"
	"github.com/funvibe/vcore/internal/value"
	"github.com/funvibe/vcore/pkg/vcore"
)

// cli holds the state shared by every subcommand.
type cli struct {
	configPath string
	colorMode  string
	logLevel   string

	rt     *vcore.Runtime
	logger *slog.Logger
	out    *printer
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run executes the command line and returns the exit status: 1 for errors,
// 2 for a broken runtime invariant.
func run(args []string, stdout, stderr io.Writer) (code int) {
	defer func() {
		r := recover()
		if r == nil {
			return
		}
		ie, ok := value.AsInternalError(r)
		if !ok {
			panic(r)
		}
		fmt.Fprintf(stderr, "fatal: %v\n", ie)
		code = 2
	}()

	root := newRootCmd()
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)
	if err := root.Execute(); err != nil {
		return 1
	}
	return 0
}

func newRootCmd() *cobra.Command {
	c := &cli{}
	root := &cobra.Command{
		Use:          "vcore",
		Short:        "Inspect, coerce and compare runtime values",
		Long:         `vcore loads values from YAML files, snapshots, SQLite columns or protobuf messages and runs the value core on them.`,
		Version:      Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.setup(cmd)
		},
	}

	root.PersistentFlags().StringVar(&c.configPath, "config", "", "configuration file (default: nearest vcore.yaml or vcore.toml)")
	root.PersistentFlags().StringVar(&c.colorMode, "color", "auto", "colorize output (auto|on|off)")
	root.PersistentFlags().StringVar(&c.logLevel, "log-level", "", "log level (debug|info|warn|error), overrides the configuration")

	root.AddCommand(
		newCoerceCmd(c),
		newIdenticalCmd(c),
		newInspectCmd(c),
		newSQLCmd(c),
		newProtoCmd(c),
		newVersionCmd(c),
	)
	return root
}

func (c *cli) setup(cmd *cobra.Command) error {
	useColor, err := colorEnabled(c.colorMode, cmd.OutOrStdout())
	if err != nil {
		return err
	}
	c.out = newPrinter(cmd.OutOrStdout(), cmd.ErrOrStderr(), useColor)

	if c.logLevel != "" && !config.ValidLogLevel(c.logLevel) {
		return fmt.Errorf("unknown log level %q", c.logLevel)
	}

	// The logger must exist before the runtime so the engines log through it.
	level := new(slog.LevelVar)
	c.logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))

	rt, err := vcore.FromConfig(c.configPath,
		vcore.WithLogger(c.logger),
		vcore.WithWarningFunc(func(_ vcore.Warning, msg string) { c.out.warning(msg) }),
	)
	if err != nil {
		return err
	}
	c.rt = rt

	cfg := rt.Config()
	level.Set(cfg.SlogLevel())
	if c.logLevel != "" {
		level.Set(config.ParseLogLevel(c.logLevel))
	}
	c.logger.Debug("runtime ready", "cache_limit", cfg.Access.CacheLimit, "log_level", level.Level())
	return nil
}

// colorEnabled resolves the --color flag for w.
func colorEnabled(mode string, w io.Writer) (bool, error) {
	switch strings.ToLower(mode) {
	case "on":
		return true, nil
	case "off":
		return false, nil
	case "auto":
		f, ok := w.(*os.File)
		if !ok || os.Getenv("NO_COLOR") != "" {
			return false, nil
		}
		return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd()), nil
	}
	return false, fmt.Errorf("unsupported color mode %q (must be auto, on or off)", mode)
}

// printer writes results to out and warnings to errw, colouring logical
// results and NA.
type printer struct {
	out, errw io.Writer

	yes   *color.Color
	no    *color.Color
	na    *color.Color
	warn  *color.Color
	label *color.Color
}

func newPrinter(out, errw io.Writer, enabled bool) *printer {
	mk := func(attrs ...color.Attribute) *color.Color {
		c := color.New(attrs...)
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
		return c
	}
	return &printer{
		out:   out,
		errw:  errw,
		yes:   mk(color.FgGreen, color.Bold),
		no:    mk(color.FgRed, color.Bold),
		na:    mk(color.FgMagenta),
		warn:  mk(color.FgYellow),
		label: mk(color.FgCyan),
	}
}

func (p *printer) bool(b bool) {
	if b {
		p.yes.Fprintln(p.out, "[1] TRUE")
		return
	}
	p.no.Fprintln(p.out, "[1] FALSE")
}

// value prints the rendering of v with NA highlighted.
func (p *printer) value(v value.Value) {
	parts := strings.Split(v.Inspect(), "NA")
	for i, part := range parts {
		if i > 0 {
			p.na.Fprint(p.out, "NA")
		}
		fmt.Fprint(p.out, part)
	}
	fmt.Fprintln(p.out)
}

func (p *printer) field(name string, val any) {
	p.label.Fprintf(p.out, "%-10s", name+":")
	fmt.Fprintf(p.out, " %v\n", val)
}

func (p *printer) warning(msg string) {
	p.warn.Fprintf(p.errw, "Warning message:\n%s\n", msg)
}
