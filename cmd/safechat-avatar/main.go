package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/freakbeast14/SafeChat/internal/config"
	"github.com/freakbeast14/SafeChat/internal/notify"
	"github.com/freakbeast14/SafeChat/internal/theme"
)

var (
	version            = "dev"
	commit             = ""
	date               = ""
	configPathOverride = ""
)

type runnable interface{ Run() error }

type root struct {
	fs          *flag.FlagSet
	program     string
	notifier    *notify.Notifier
	config      *config.Config
	applyAlerts bool
	saveAlerts  bool
	themeName   string
	activeTheme *theme.Theme
}

func (r *root) Program() string {
	return r.program
}

func (r *root) FlagSet() *flag.FlagSet {
	return r.fs
}

func newRoot() *root {
	prefs := notify.LoadPreferences()
	loader := config.NewLoader(version, configPathOverride)
	cfg, err := loader.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: failed to load config: %v\n", err)
		cfg = config.New()
	}

	r := &root{
		fs:       flag.NewFlagSet("safechat-avatar", flag.ExitOnError),
		program:  "safechat-avatar",
		notifier: notify.New(prefs),
		config:   cfg,
	}
	r.fs.BoolVar(&r.applyAlerts, "notify-apply", cfg.Notify.Apply, "show a desktop notification after applying a new avatar")
	r.fs.BoolVar(&r.saveAlerts, "notify-save", cfg.Notify.Save, "show a desktop notification after saving an avatar file")

	// Precedence: CLI > Env > Config > Default
	// We set the default value for the flag to "", and handle fallback logic in Run if it remains empty.
	r.fs.StringVar(&r.themeName, "theme", "", "color theme to use (light, dark)")
	r.fs.Usage = usageFunc(r)
	return r
}

func (r *root) Run(args []string) error {
	if err := r.fs.Parse(args); err != nil {
		return err
	}
	if r.fs.NArg() < 1 {
		return &UsageError{of: r}
	}
	if r.notifier != nil {
		r.notifier.Enable(notify.EventApply, r.applyAlerts)
		r.notifier.Enable(notify.EventSave, r.saveAlerts)
	}

	themeName := r.themeName
	if themeName == "" {
		themeName = os.Getenv("SAFECHAT_THEME")
	}
	if themeName == "" {
		themeName = r.config.Theme
	}

	t, err := theme.Load(themeName)
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: %v. using default.\n", err)
		t = theme.Default()
	}
	r.activeTheme = t

	cmdName := r.fs.Arg(0)
	subArgs := r.fs.Args()[1:]

	var cmd runnable
	switch cmdName {
	case "crop":
		cmd, err = parseCropCmd(subArgs, r)
	case "export":
		cmd, err = parseExportCmd(subArgs, r)
	case "config":
		cmd, err = parseConfigCmd(subArgs, r)
	case "version":
		cmd = &versionCmd{r: r}
	default:
		err = &UsageError{of: r}
	}
	if err != nil {
		return err
	}
	return cmd.Run()
}

func main() {
	r := newRoot()
	if err := r.Run(os.Args[1:]); err != nil {
		var uerr *UsageError
		if errors.As(err, &uerr) {
			fmt.Fprintln(os.Stderr, uerr.Error())
		} else {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	}
}

func (r *root) notifyApply(detail string) {
	if r == nil || r.notifier == nil {
		return
	}
	r.notifier.Apply(detail)
}

func (r *root) notifySave(path string) {
	if r == nil || r.notifier == nil {
		return
	}
	r.notifier.Save(path)
}
