package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/urfave/cli/v3"
	"golang.org/x/sync/errgroup"

	"github.com/tartampluch/go-wishly/internal/backup"
	"github.com/tartampluch/go-wishly/internal/cipher"
	"github.com/tartampluch/go-wishly/internal/config"
	"github.com/tartampluch/go-wishly/internal/engine"
	"github.com/tartampluch/go-wishly/internal/i18n"
	"github.com/tartampluch/go-wishly/internal/model"
	"github.com/tartampluch/go-wishly/internal/notify"
	"github.com/tartampluch/go-wishly/internal/server"
	"github.com/tartampluch/go-wishly/internal/store"
	"github.com/tartampluch/go-wishly/internal/update"
)

// app bundles the wired components for the duration of one command.
type app struct {
	dataDir   string
	kv        *store.KV
	gateway   *store.Gateway
	sink      *notify.CalendarSink
	scheduler *notify.Scheduler
	tr        *i18n.Translator
	clock     engine.Clock
	records   []model.Birthday
	logCloser io.Closer
}

// openApp mirrors the original startup sequence: logging, store open,
// load, reschedule-all. Every command goes through it so the reminder
// schedule always reflects the stored collection.
func openApp(ctx context.Context, cmd *cli.Command) (*app, error) {
	logCloser := setupLogging(cmd.Bool(config.FlagDebug))
	logStartupInfo()

	dataDir := cmd.String(config.FlagDataDir)
	if dataDir == "" {
		var err error
		if dataDir, err = defaultDataDir(); err != nil {
			return nil, err
		}
	}
	if err := os.MkdirAll(dataDir, config.DirPermUserRWX); err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrCreateDir, err)
	}

	kv, err := store.Open(filepath.Join(dataDir, config.DBFileName))
	if err != nil {
		return nil, err
	}

	tr := i18n.New(cmd.String(config.FlagLang))
	clock := engine.RealClock{}
	sink := notify.NewCalendarSink(filepath.Join(dataDir, config.FeedFileName))
	scheduler := notify.NewScheduler(sink, clock, tr)
	scheduler.Init(ctx)

	a := &app{
		dataDir:   dataDir,
		kv:        kv,
		gateway:   store.NewGateway(kv, cipher.New()),
		sink:      sink,
		scheduler: scheduler,
		tr:        tr,
		clock:     clock,
		logCloser: logCloser,
	}

	a.records = a.gateway.Load()
	a.scheduler.RescheduleAll(ctx, a.records)
	return a, nil
}

func (a *app) close() {
	_ = a.kv.Close()
	if a.logCloser != nil {
		_ = a.logCloser.Close()
	}
}

// withApp wraps a command action with app setup and teardown.
func withApp(action func(context.Context, *cli.Command, *app) error) cli.ActionFunc {
	return func(ctx context.Context, cmd *cli.Command) error {
		a, err := openApp(ctx, cmd)
		if err != nil {
			return err
		}
		defer a.close()
		return action(ctx, cmd, a)
	}
}

func newRootCommand() *cli.Command {
	return &cli.Command{
		Name:  "wishly",
		Usage: "Track birthdays, schedule yearly reminders and keep gift ideas, all on-device",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: config.FlagDebug, Usage: "Enable debug logging"},
			&cli.StringFlag{
				Name:    config.FlagDataDir,
				Usage:   "Directory holding the database and reminder feed",
				Sources: cli.EnvVars("WISHLY_DATA_DIR"),
			},
			&cli.StringFlag{
				Name:    config.FlagLang,
				Usage:   "Language for reminder texts (en, es)",
				Value:   config.DefaultLanguage,
				Sources: cli.EnvVars("WISHLY_LANG"),
			},
		},
		Commands: []*cli.Command{
			onboardCommand(),
			addCommand(),
			listCommand(),
			deleteCommand(),
			shareCommand(),
			statsCommand(),
			giftCommand(),
			exportCommand(),
			importCommand(),
			serveCommand(),
			themeCommand(),
			clearCommand(),
			logoutCommand(),
			updateCommand(),
			versionCommand(),
		},
	}
}

func versionCommand() *cli.Command {
	return &cli.Command{
		Name:  "version",
		Usage: "Show application version and exit",
		Action: func(context.Context, *cli.Command) error {
			printVersion()
			return nil
		},
	}
}

func onboardCommand() *cli.Command {
	return &cli.Command{
		Name:  "onboard",
		Usage: "Set up the user profile",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: config.FlagName, Usage: "Display name", Required: true},
			&cli.StringFlag{Name: config.FlagDOB, Usage: "Your date of birth (YYYY-MM-DD)"},
		},
		Action: withApp(func(_ context.Context, cmd *cli.Command, a *app) error {
			p := model.Profile{Name: cmd.String(config.FlagName), DOB: cmd.String(config.FlagDOB)}
			if err := p.Validate(); err != nil {
				return err
			}
			return a.gateway.SaveProfile(p)
		}),
	}
}

func addCommand() *cli.Command {
	return &cli.Command{
		Name:  "add",
		Usage: "Add a birthday and schedule its yearly reminder",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: config.FlagName, Usage: "Contact name", Required: true},
			&cli.StringFlag{Name: config.FlagDay, Usage: "Day of month (1-31)", Required: true},
			&cli.StringFlag{Name: config.FlagMonth, Usage: "Month (1-12)", Required: true},
			&cli.StringFlag{Name: config.FlagYear, Usage: "Birth year (optional)"},
			&cli.StringFlag{Name: config.FlagNotes, Usage: "Free-form notes"},
			&cli.StringFlag{Name: config.FlagGift, Usage: "Gift idea for this contact"},
			&cli.StringFlag{Name: config.FlagCategory, Usage: "Family, Friends, Work, Partner or Other"},
		},
		Action: withApp(func(ctx context.Context, cmd *cli.Command, a *app) error {
			day, err := strconv.Atoi(cmd.String(config.FlagDay))
			if err != nil {
				return fmt.Errorf("day: %w", err)
			}
			month, err := strconv.Atoi(cmd.String(config.FlagMonth))
			if err != nil {
				return fmt.Errorf("month: %w", err)
			}

			b := model.Birthday{
				ID:       model.NewID(),
				Name:     cmd.String(config.FlagName),
				Day:      day,
				Month:    month,
				Notes:    cmd.String(config.FlagNotes),
				GiftIdea: cmd.String(config.FlagGift),
				Category: model.Category(cmd.String(config.FlagCategory)),
			}
			if raw := cmd.String(config.FlagYear); raw != "" {
				year, err := strconv.Atoi(raw)
				if err != nil {
					return fmt.Errorf("year: %w", err)
				}
				b.Year = &year
			}

			// Validation failures abort before any state change.
			if err := b.Validate(); err != nil {
				return err
			}

			a.records = append(a.records, b)
			if err := a.gateway.Save(a.records); err != nil {
				return err
			}

			// Best-effort: a sink failure never rolls back the record.
			a.scheduler.ScheduleBirthday(ctx, b)

			fmt.Fprintln(cmd.Writer, b.ID)
			return nil
		}),
	}
}

func listCommand() *cli.Command {
	return &cli.Command{
		Name:  "list",
		Usage: "List birthdays sorted by upcoming occurrence",
		Action: withApp(func(_ context.Context, cmd *cli.Command, a *app) error {
			now := a.clock.Now()
			sorted := engine.SortByUpcoming(now, a.records)

			w := tabwriter.NewWriter(cmd.Writer, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "DAYS\tDATE\tNAME\tAGE\tSIGN\tID")
			for _, b := range sorted {
				next := engine.NextOccurrence(now, b.Day, b.Month)
				age := "-"
				if b.Year != nil {
					age = strconv.Itoa(next.Year() - *b.Year)
				}
				fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\n",
					engine.DaysUntil(now, b.Day, b.Month),
					next.Format(config.DateFormatFullDash),
					b.Name,
					age,
					engine.Zodiac(b.Day, b.Month).Sign,
					b.ID,
				)
			}
			return w.Flush()
		}),
	}
}

func deleteCommand() *cli.Command {
	return &cli.Command{
		Name:      "delete",
		Usage:     "Delete a birthday and cancel its reminder",
		ArgsUsage: "<record-id>",
		Action: withApp(func(ctx context.Context, cmd *cli.Command, a *app) error {
			id := cmd.Args().First()
			kept := a.records[:0:0]
			found := false
			for _, b := range a.records {
				if b.ID == id {
					found = true
					continue
				}
				kept = append(kept, b)
			}
			if !found {
				return errors.New(config.ErrRecordMissing)
			}

			a.records = kept
			if err := a.gateway.Save(a.records); err != nil {
				return err
			}

			a.scheduler.Cancel(ctx, id)
			return nil
		}),
	}
}

func shareCommand() *cli.Command {
	return &cli.Command{
		Name:      "share",
		Usage:     "Print a shareable message for a birthday",
		ArgsUsage: "<record-id>",
		Action: withApp(func(_ context.Context, cmd *cli.Command, a *app) error {
			id := cmd.Args().First()
			for _, b := range a.records {
				if b.ID == id {
					days := engine.DaysUntil(a.clock.Now(), b.Day, b.Month)
					fmt.Fprintln(cmd.Writer, notify.ShareText(a.tr, b.Name, days))
					return nil
				}
			}
			return errors.New(config.ErrRecordMissing)
		}),
	}
}

func statsCommand() *cli.Command {
	return &cli.Command{
		Name:  "stats",
		Usage: "Show collection statistics and a random gift suggestion",
		Action: withApp(func(_ context.Context, cmd *cli.Command, a *app) error {
			sign, count := engine.DominantZodiac(a.records)
			fmt.Fprintf(cmd.Writer, "Tracked birthdays: %d\n", len(a.records))
			fmt.Fprintf(cmd.Writer, "Dominant sign: %s (%d)\n", sign, count)
			fmt.Fprintf(cmd.Writer, "Average age: %d\n", engine.AverageAge(a.clock.Now(), a.records))
			fmt.Fprintf(cmd.Writer, "Gift suggestion: %s\n", engine.RandomGiftSuggestion())
			return nil
		}),
	}
}

func giftCommand() *cli.Command {
	return &cli.Command{
		Name:  "gift",
		Usage: "Manage gift ideas",
		Commands: []*cli.Command{
			{
				Name:  "add",
				Usage: "Add a gift idea",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: config.FlagName, Usage: "Gift name", Required: true},
					&cli.StringFlag{Name: config.FlagDesc, Usage: "Description"},
					&cli.StringFlag{Name: config.FlagLink, Usage: "Shop or reference URL"},
					&cli.StringFlag{Name: config.FlagRecipient, Usage: "Who it is for (free text)"},
					&cli.StringFlag{Name: config.FlagCategory, Usage: "Suggested: For me, Family, Friends, Partner, Other"},
				},
				Action: withApp(func(_ context.Context, cmd *cli.Command, a *app) error {
					g := model.GiftIdea{
						ID:          model.NewID(),
						Name:        cmd.String(config.FlagName),
						Description: cmd.String(config.FlagDesc),
						Link:        cmd.String(config.FlagLink),
						Recipient:   cmd.String(config.FlagRecipient),
						Category:    cmd.String(config.FlagCategory),
					}
					if err := g.Validate(); err != nil {
						return err
					}
					gifts := append(a.gateway.LoadGifts(), g)
					if err := a.gateway.SaveGifts(gifts); err != nil {
						return err
					}
					fmt.Fprintln(cmd.Writer, g.ID)
					return nil
				}),
			},
			{
				Name:  "list",
				Usage: "List gift ideas",
				Action: withApp(func(_ context.Context, cmd *cli.Command, a *app) error {
					w := tabwriter.NewWriter(cmd.Writer, 0, 4, 2, ' ', 0)
					fmt.Fprintln(w, "NAME\tRECIPIENT\tCATEGORY\tLINK\tID")
					for _, g := range a.gateway.LoadGifts() {
						fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", g.Name, g.Recipient, g.Category, g.Link, g.ID)
					}
					return w.Flush()
				}),
			},
			{
				Name:      "delete",
				Usage:     "Delete a gift idea",
				ArgsUsage: "<gift-id>",
				Action: withApp(func(_ context.Context, cmd *cli.Command, a *app) error {
					id := cmd.Args().First()
					gifts := a.gateway.LoadGifts()
					kept := gifts[:0:0]
					found := false
					for _, g := range gifts {
						if g.ID == id {
							found = true
							continue
						}
						kept = append(kept, g)
					}
					if !found {
						return errors.New(config.ErrGiftMissing)
					}
					return a.gateway.SaveGifts(kept)
				}),
			},
		},
	}
}

func exportCommand() *cli.Command {
	return &cli.Command{
		Name:  "export",
		Usage: "Export the collection as JSON (or an iCalendar file)",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: config.FlagOut, Usage: "Output file (default: stdout)"},
			&cli.BoolFlag{Name: config.FlagICS, Usage: "Export the reminder schedule as iCalendar instead"},
		},
		Action: withApp(func(_ context.Context, cmd *cli.Command, a *app) error {
			var w io.Writer = cmd.Writer
			if out := cmd.String(config.FlagOut); out != "" {
				f, err := os.OpenFile(out, os.O_TRUNC|os.O_CREATE|os.O_WRONLY, config.FilePermUserRW)
				if err != nil {
					return err
				}
				defer func() { _ = f.Close() }()
				w = f
			}

			if cmd.Bool(config.FlagICS) {
				return backup.ExportICS(w, a.records, a.clock.Now(), a.tr)
			}
			return backup.Export(w, a.records)
		}),
	}
}

func importCommand() *cli.Command {
	return &cli.Command{
		Name:  "import",
		Usage: "Replace the collection with records from a backup or vCard file",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: config.FlagIn, Usage: "Input file", Required: true},
			&cli.BoolFlag{Name: config.FlagVCF, Usage: "Treat the input as a vCard file"},
			&cli.BoolFlag{Name: config.FlagYes, Usage: "Skip the confirmation prompt"},
		},
		Action: withApp(func(ctx context.Context, cmd *cli.Command, a *app) error {
			f, err := os.Open(cmd.String(config.FlagIn))
			if err != nil {
				return err
			}
			defer func() { _ = f.Close() }()

			var imported []model.Birthday
			if cmd.Bool(config.FlagVCF) {
				imported, err = backup.ImportVCF(f)
			} else {
				imported, err = backup.Import(f)
			}
			if err != nil {
				return err
			}

			// Replacing the collection is destructive and needs explicit
			// confirmation.
			if !cmd.Bool(config.FlagYes) && !confirm(cmd, fmt.Sprintf(config.MsgConfirmReplace, len(imported))) {
				return errors.New(config.ErrConfirmNeeded)
			}

			a.scheduler.CancelAll(ctx, a.records)
			a.records = imported
			if err := a.gateway.Save(a.records); err != nil {
				return err
			}
			a.scheduler.RescheduleAll(ctx, a.records)

			fmt.Fprintf(cmd.Writer, "%d records imported\n", len(imported))
			return nil
		}),
	}
}

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Serve the reminder feed over localhost HTTP",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    config.FlagPort,
				Usage:   "TCP port to listen on",
				Value:   config.DefaultPort,
				Sources: cli.EnvVars("WISHLY_PORT"),
			},
		},
		Action: withApp(func(ctx context.Context, cmd *cli.Command, a *app) error {
			srv := server.NewFeedServer(cmd.String(config.FlagPort))
			// Pushes the current feed immediately, then on every change.
			a.sink.SetUpdater(srv)

			g, gCtx := errgroup.WithContext(ctx)
			g.Go(func() error { return srv.Start(gCtx) })
			g.Go(func() error {
				return refreshSchedule(gCtx, a.scheduler, a.records, config.FeedRefreshInterval)
			})
			return g.Wait()
		}),
	}
}

func themeCommand() *cli.Command {
	return &cli.Command{
		Name:      "theme",
		Usage:     "Show or set the theme preference",
		ArgsUsage: "[dark|light]",
		Action: withApp(func(_ context.Context, cmd *cli.Command, a *app) error {
			value := cmd.Args().First()
			if value == "" {
				fmt.Fprintln(cmd.Writer, a.gateway.Theme())
				return nil
			}
			if value != config.ThemeDark && value != config.ThemeLight {
				return fmt.Errorf("unknown theme %q", value)
			}
			return a.gateway.SetTheme(value)
		}),
	}
}

func clearCommand() *cli.Command {
	return &cli.Command{
		Name:  "clear",
		Usage: "Delete every stored birthday and cancel all reminders",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: config.FlagYes, Usage: "Skip the confirmation prompt"},
		},
		Action: withApp(func(ctx context.Context, cmd *cli.Command, a *app) error {
			if !cmd.Bool(config.FlagYes) && !confirm(cmd, config.MsgConfirmClear) {
				return errors.New(config.ErrConfirmNeeded)
			}

			// No bulk-cancel primitive exists: iterate the pre-clear
			// collection and cancel each reminder individually.
			a.scheduler.CancelAll(ctx, a.records)
			a.records = nil
			return a.gateway.ClearData()
		}),
	}
}

func logoutCommand() *cli.Command {
	return &cli.Command{
		Name:  "logout",
		Usage: "Remove the user profile (birthday data is kept)",
		Action: withApp(func(_ context.Context, _ *cli.Command, a *app) error {
			return a.gateway.ClearProfile()
		}),
	}
}

func updateCommand() *cli.Command {
	return &cli.Command{
		Name:  "update",
		Usage: "Check for an application update",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: config.FlagApply, Usage: "Activate a staged update bundle"},
		},
		Action: withApp(func(ctx context.Context, cmd *cli.Command, a *app) error {
			cacheDir, err := userCacheDir()
			if err != nil {
				return nil // update is best-effort, never fail the command
			}
			provider := update.NewProvider(config.DefaultUpdateURL, cacheDir)

			found, err := provider.Check(ctx)
			if err != nil {
				// Swallowed by contract: an update problem is never fatal.
				fmt.Fprintln(cmd.Writer, "no update available")
				return nil
			}
			if found && cmd.Bool(config.FlagApply) {
				if err := provider.Apply(ctx); err != nil {
					fmt.Fprintln(cmd.Writer, "update could not be applied")
					return nil
				}
				fmt.Fprintln(cmd.Writer, "update applied, restart to use it")
				return nil
			}
			if found {
				fmt.Fprintln(cmd.Writer, "update staged, run with --apply to activate")
			} else {
				fmt.Fprintln(cmd.Writer, "no update available")
			}
			return nil
		}),
	}
}

// refreshSchedule re-issues the reminder schedule on every tick so the
// served feed rolls fire times past events during a long-running serve.
// Returns nil on context cancellation.
func refreshSchedule(ctx context.Context, sched *notify.Scheduler, records []model.Birthday, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			sched.RescheduleAll(ctx, records)
		}
	}
}

// confirm prompts on stdout and reads a y/N answer from stdin.
func confirm(cmd *cli.Command, prompt string) bool {
	fmt.Fprint(cmd.Writer, prompt)
	reader := bufio.NewReader(cmd.Reader)
	line, err := reader.ReadString('\n')
	if err != nil {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes"
}
