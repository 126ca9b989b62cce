package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"fieldnotes/internal/config"
	"fieldnotes/internal/format"
	"fieldnotes/internal/logger"
	"fieldnotes/internal/store"
	"fieldnotes/internal/workspace"
)

type App struct {
	Dir        string
	PrettyJSON bool
	Format     string
	LogLevel   string
	ConfigPath string

	Config config.Config
}

func NewRootCmd() *cobra.Command {
	app := &App{}

	cmd := &cobra.Command{
		Use:          "fieldnotes",
		Short:        "fieldnotes (local-first) research workspace CLI + TUI",
		SilenceUsage: true,
		Example: strings.TrimSpace(`
  # Start the interactive TUI
  fieldnotes

  # Create a workspace in the current directory
  fieldnotes init

  # Scriptable commands
  fieldnotes pages list --tag demo
  fieldnotes projects list --sort deadline
  fieldnotes citations export --style bibtex
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			// No subcommand => interactive TUI.
			if cmd.HasSubCommands() && len(args) == 0 {
				return runTUI(cmd, app)
			}
			return cmd.Help()
		},
	}

	cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		return app.configure(cmd)
	}
	cmd.PersistentPostRunE = func(cmd *cobra.Command, args []string) error {
		return logger.Sync()
	}

	cmd.PersistentFlags().StringVar(&app.Dir, "dir", "", "Path to the workspace dir (default: nearest .fieldnotes, or workspace.dir from config)")
	cmd.PersistentFlags().BoolVar(&app.PrettyJSON, "pretty", false, "Pretty-print JSON output")
	cmd.PersistentFlags().StringVar(&app.Format, "format", "json", "Output format (json|yaml)")
	cmd.PersistentFlags().StringVar(&app.LogLevel, "log-level", "warn", "Log level (debug|info|warn|error)")
	cmd.PersistentFlags().StringVar(&app.ConfigPath, "config", "", "Config file (default: $FIELDNOTES_CONFIG_DIR/config.yaml)")

	cmd.AddCommand(newInitCmd(app))
	cmd.AddCommand(newDashboardCmd(app))
	cmd.AddCommand(newNavCmd(app))
	cmd.AddCommand(newPagesCmd(app))
	cmd.AddCommand(newProjectsCmd(app))
	cmd.AddCommand(newFoldersCmd(app))
	cmd.AddCommand(newDocumentsCmd(app))
	cmd.AddCommand(newCitationsCmd(app))
	cmd.AddCommand(newPublishCmd(app))
	cmd.AddCommand(newDoctorCmd(app))
	cmd.AddCommand(newBackupCmd(app))
	cmd.AddCommand(newTUICmd(app))

	return cmd
}

// configure layers the config file and environment under explicitly set flags, then
// starts the logger.
func (app *App) configure(cmd *cobra.Command) error {
	cfg, err := config.Load(app.ConfigPath)
	if err != nil {
		return writeErr(cmd, err)
	}
	app.Config = cfg

	flags := cmd.Flags()
	if !flags.Changed("dir") {
		app.Dir = cfg.Workspace.Dir
	}
	if !flags.Changed("format") {
		app.Format = cfg.Output.Format
	}
	if !flags.Changed("pretty") {
		app.PrettyJSON = cfg.Output.Pretty
	}
	if !flags.Changed("log-level") {
		app.LogLevel = cfg.Log.Level
	}
	if err := logger.Init(app.LogLevel, cfg.Log.Development); err != nil {
		return writeErr(cmd, fmt.Errorf("invalid --log-level: %w", err))
	}
	return nil
}

// resolveDir picks the workspace dir: --dir (or workspace.dir), then the nearest
// .fieldnotes above the working directory. With create, a missing workspace resolves to
// ./.fieldnotes.
func resolveDir(app *App, create bool) (string, error) {
	if d := strings.TrimSpace(app.Dir); d != "" {
		return filepath.Clean(d), nil
	}
	wd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	if d, ok := store.DiscoverDir(wd); ok {
		return d, nil
	}
	if create {
		return filepath.Join(wd, store.DirName), nil
	}
	return "", errors.New("no workspace found; run `fieldnotes init` or pass --dir")
}

func openWorkspace(cmd *cobra.Command, app *App) (*workspace.Workspace, store.Store, error) {
	dir, err := resolveDir(app, false)
	if err != nil {
		return nil, store.Store{}, err
	}
	return openWorkspaceAt(cmd, dir)
}

func openWorkspaceAt(cmd *cobra.Command, dir string) (*workspace.Workspace, store.Store, error) {
	s := store.Store{Dir: dir}
	w, err := workspace.Open(cmd.Context(), s, workspace.WithLogger(logger.Get()))
	if err != nil {
		return nil, s, err
	}
	return w, s, nil
}

func writeOut(cmd *cobra.Command, app *App, v any) error {
	return format.Write(cmd.OutOrStdout(), v, app.Format, app.PrettyJSON)
}

func writeErr(cmd *cobra.Command, err error) error {
	fmt.Fprintln(cmd.ErrOrStderr(), err.Error())
	return err
}

// optionalFlag returns a pointer to value when the flag was set, so an explicit empty
// value ("--project ''") is distinguishable from an omitted flag.
func optionalFlag(cmd *cobra.Command, name, value string) *string {
	if !cmd.Flags().Changed(name) {
		return nil
	}
	v := strings.TrimSpace(value)
	return &v
}
