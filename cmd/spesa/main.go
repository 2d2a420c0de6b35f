package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"spesa/internal/backend"
	"spesa/internal/cli"
	"spesa/internal/config"
	"spesa/internal/core"
	"spesa/internal/export"
	"spesa/internal/log"
	"spesa/internal/prefs"
	"spesa/internal/records"
	"spesa/internal/render"
	"spesa/internal/session"
)

func main() {
	cli.LoadEnvFile()
	ctx, stop := cli.SignalContext(context.Background())
	err := execute(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
	stop()
	if err != nil {
		if !errors.Is(err, errSilent) {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		os.Exit(1)
	}
}

// execute runs one invocation and releases the storage backend afterwards.
func execute(ctx context.Context, args []string, in io.Reader, out, errOut io.Writer) error {
	a := &app{}
	root := newRootCmd(a)
	root.SetArgs(args)
	root.SetIn(in)
	root.SetOut(out)
	root.SetErr(errOut)

	err := root.ExecuteContext(ctx)
	if cerr := a.close(ctx); cerr != nil && err == nil {
		err = fmt.Errorf("close storage: %w", cerr)
	}
	return err
}

// app is the state shared by every sub-command for one invocation.
type app struct {
	configPath string
	assumeYes  bool

	cfg     *config.Config
	logger  *log.Logger
	backend *backend.BackendResult
	session *session.Session
	text    *render.Text
	latest  *session.View
}

// Render keeps the most recent view; it is printed once the command is done.
func (a *app) Render(v session.View) { a.latest = &v }

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "spesa",
		Short: "Track personal expenses from the terminal",
		Long: `Spesa records your expenses locally, lets you search, filter and sort them,
shows totals per category and exports everything to a plain-text report.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.open(cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.show()
		},
	}
	root.PersistentFlags().StringVar(&a.configPath, "config", "", "config file (default ./spesa.toml if present)")
	root.PersistentFlags().BoolVarP(&a.assumeYes, "yes", "y", false, "answer yes to every confirmation")

	root.AddCommand(
		newAddCmd(a),
		newEditCmd(a),
		newDeleteCmd(a),
		newClearCmd(a),
		newListCmd(a),
		newThemeCmd(a),
		newExportCmd(a),
		newCategoriesCmd(a),
	)
	return root
}

func (a *app) open(cmd *cobra.Command) error {
	cfg, err := cli.LoadAndValidateConfig(a.configPath)
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.logger = cli.SetupLogger(cfg.LogLevel, cmd.ErrOrStderr())

	res, err := cli.OpenStore(cmd.Context(), a.logger, cfg)
	if err != nil {
		return err
	}
	a.backend = res

	out := cmd.OutOrStdout()
	var confirmer session.Confirmer = render.NewPrompt(cmd.InOrStdin(), out)
	if a.assumeYes {
		confirmer = render.Assume(true)
	}
	loc := cfg.Location()
	a.text = render.NewText(out, loc, a.logger)
	a.session = session.New(
		records.New(res.Store, a.logger),
		prefs.NewStore(res.Store, a.logger),
		session.Options{
			Renderer:      a,
			Notifier:      render.NewNotifier(out),
			Confirmer:     confirmer,
			Downloader:    render.DirDownloader{Dir: cfg.ExportDir, Logger: a.logger},
			Logger:        a.logger,
			Location:      loc,
			Language:      cfg.Language(),
			ViewCacheSize: cfg.ViewCacheSize,
			ViewCacheTTL:  cfg.ViewCacheTTL,
		},
	)
	a.session.Start(cmd.Context())
	a.latest = nil
	return nil
}

func (a *app) close(ctx context.Context) error {
	if a.session != nil {
		a.session.Close(ctx)
		a.session = nil
	}
	if a.backend == nil || a.backend.Cleanup == nil {
		return nil
	}
	err := a.backend.Cleanup()
	a.backend = nil
	return err
}

// flush prints the view left by the last dispatched command, if any.
func (a *app) flush() {
	if a.latest != nil {
		a.text.Render(*a.latest)
		a.latest = nil
	}
}

func (a *app) show() error {
	a.text.Render(a.session.View())
	return nil
}

// dispatch runs one session command. Validation failures have already been
// reported to the user, so they only turn into a non-zero exit.
func (a *app) dispatch(cmd *cobra.Command, c session.Command) error {
	err := a.session.Dispatch(cmd.Context(), c)
	a.flush()
	if errors.Is(err, core.ErrInvalidExpense) || errors.Is(err, export.ErrNothingToExport) {
		return errSilent
	}
	return err
}

var errSilent = errors.New("command failed")

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid expense id %q", s)
	}
	return id, nil
}

func formFlags(cmd *cobra.Command, f *session.Form) {
	cmd.Flags().StringVarP(&f.Category, "category", "c", "", "category (default Other)")
	cmd.Flags().StringVarP(&f.Date, "date", "d", "", "date as YYYY-MM-DD (default today)")
	cmd.Flags().StringVarP(&f.Notes, "notes", "n", "", "free-text notes")
}

func newAddCmd(a *app) *cobra.Command {
	var form session.Form
	cmd := &cobra.Command{
		Use:   "add NAME AMOUNT",
		Short: "Record a new expense",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			form.Name, form.Amount = args[0], args[1]
			return a.dispatch(cmd, session.SubmitAdd{Form: form})
		},
	}
	formFlags(cmd, &form)
	cmd.RegisterFlagCompletionFunc("category", completeCategories)
	return cmd
}

func newEditCmd(a *app) *cobra.Command {
	var patch session.Form
	cmd := &cobra.Command{
		Use:   "edit ID",
		Short: "Change an existing expense",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			form, ok := a.session.EditForm(id)
			if !ok {
				return fmt.Errorf("no expense with id %d", id)
			}
			flags := cmd.Flags()
			if flags.Changed("name") {
				form.Name = patch.Name
			}
			if flags.Changed("amount") {
				form.Amount = patch.Amount
			}
			if flags.Changed("category") {
				form.Category = patch.Category
			}
			if flags.Changed("date") {
				form.Date = patch.Date
			}
			if flags.Changed("notes") {
				form.Notes = patch.Notes
			}
			return a.dispatch(cmd, session.SubmitEdit{ID: id, Form: form})
		},
	}
	cmd.Flags().StringVar(&patch.Name, "name", "", "new name")
	cmd.Flags().StringVar(&patch.Amount, "amount", "", "new amount")
	formFlags(cmd, &patch)
	cmd.RegisterFlagCompletionFunc("category", completeCategories)
	return cmd
}

func newDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "delete ID",
		Aliases: []string{"rm"},
		Short:   "Delete an expense",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if _, ok := a.session.Records().Get(id); !ok {
				return fmt.Errorf("no expense with id %d", id)
			}
			return a.dispatch(cmd, session.Delete{ID: id})
		},
	}
}

func newClearCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Delete all expenses",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.dispatch(cmd, session.ClearAll{})
		},
	}
}

func newListCmd(a *app) *cobra.Command {
	var search, category, period, sortBy string
	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "Show expenses; filter flags are remembered",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			changes := []struct {
				flag  string
				field prefs.Field
				value string
			}{
				{"search", prefs.FieldSearch, search},
				{"category", prefs.FieldCategory, category},
				{"period", prefs.FieldPeriod, period},
				{"sort", prefs.FieldSort, sortBy},
			}
			for _, c := range changes {
				if !cmd.Flags().Changed(c.flag) {
					continue
				}
				if err := a.session.Dispatch(cmd.Context(), session.ChangeFilter{Field: c.field, Value: c.value}); err != nil {
					return err
				}
			}
			a.latest = nil
			return a.show()
		},
	}
	cmd.Flags().StringVarP(&search, "search", "s", "", "match name or notes (empty clears)")
	cmd.Flags().StringVarP(&category, "category", "c", "", `category to show, or "all"`)
	cmd.Flags().StringVarP(&period, "period", "p", "", "all, this-month or last-30")
	cmd.Flags().StringVar(&sortBy, "sort", "", "date-desc, date-asc, amount-desc, amount-asc, name-asc or name-desc")
	cmd.RegisterFlagCompletionFunc("category", completeCategories)
	cmd.RegisterFlagCompletionFunc("period", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		var out []string
		for _, p := range prefs.Periods() {
			out = append(out, string(p))
		}
		return out, cobra.ShellCompDirectiveNoFileComp
	})
	cmd.RegisterFlagCompletionFunc("sort", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		var out []string
		for _, m := range prefs.SortModes() {
			out = append(out, string(m))
		}
		return out, cobra.ShellCompDirectiveNoFileComp
	})
	return cmd
}

func newThemeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "theme",
		Short: "Toggle between the dark and light theme",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.dispatch(cmd, session.ToggleTheme{}); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Theme: %s\n", a.session.Prefs().Get().Theme)
			return nil
		},
	}
}

func newExportCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "export",
		Short: "Write every expense to a plain-text report in the export directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.dispatch(cmd, session.Export{})
		},
	}
}

func newCategoriesCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "categories",
		Short: "List the suggested categories",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, c := range core.Categories {
				fmt.Fprintln(cmd.OutOrStdout(), c)
			}
			return nil
		},
	}
}

func completeCategories(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
	return core.Categories, cobra.ShellCompDirectiveNoFileComp
}
