package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Black-And-White-Club/standings-board/app"
	"github.com/Black-And-White-Club/standings-board/app/modules/standings"
	standingsservice "github.com/Black-And-White-Club/standings-board/app/modules/standings/application"
	standingsdomain "github.com/Black-And-White-Club/standings-board/app/modules/standings/domain"
	standingsexport "github.com/Black-And-White-Club/standings-board/app/modules/standings/infrastructure/exporters"
	"github.com/Black-And-White-Club/standings-board/app/observability"
	"github.com/Black-And-White-Club/standings-board/config"
	"github.com/urfave/cli/v2"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := newCLI().RunContext(ctx, os.Args); err != nil {
		log.Fatal(err)
	}
}

func newCLI() *cli.App {
	return &cli.App{
		Name:  "standings",
		Usage: "browse final tournament standings",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Value:   "config.yaml",
				Usage:   "path to the configuration file",
				EnvVars: []string{"STANDINGS_CONFIG"},
			},
		},
		Commands: []*cli.Command{
			newServeCommand(),
			newExportCommand(),
			newPrintCommand(),
			newWorkbookCommand(),
		},
	}
}

func newServeCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "serve the leaderboard over HTTP",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "addr", Usage: "listen address, overrides http.addr"},
			&cli.BoolFlag{Name: "watch", Usage: "reload when the standings or profiles change"},
		},
		Action: func(c *cli.Context) error {
			cfg, obs, err := setup(c)
			if err != nil {
				return err
			}
			if addr := c.String("addr"); addr != "" {
				cfg.HTTP.Addr = addr
			}
			if c.IsSet("watch") {
				cfg.Watch.Enabled = c.Bool("watch")
			}

			application, err := app.NewApp(c.Context, cfg, obs)
			if err != nil {
				return err
			}
			return application.Start(c.Context)
		},
	}
}

func newExportCommand() *cli.Command {
	return &cli.Command{
		Name:  "export",
		Usage: "write the leaderboard as a static site",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "out", Aliases: []string{"o"}, Value: "dist", Usage: "output directory"},
		},
		Action: func(c *cli.Context) error {
			s, err := loadStandings(c)
			if err != nil {
				return err
			}
			defer s.Close()

			exporter := standingsexport.NewSiteExporter(s.module.Renderer(), s.obs.Logger, s.obs.Tracer)
			report, err := exporter.Export(c.Context, s.snap, c.String("out"))
			if err != nil {
				return err
			}
			fmt.Fprintf(c.App.Writer, "Wrote %d files to %s\n", len(report.Files), report.Dir)
			return nil
		},
	}
}

func newPrintCommand() *cli.Command {
	return &cli.Command{
		Name:  "print",
		Usage: "print the leaderboard as a table",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "sort", Value: string(standingsdomain.SortByRank), Usage: "rank, winRate or mu"},
			&cli.StringFlag{Name: "q", Usage: "only players whose name contains this text"},
			&cli.StringFlag{Name: "pin", Usage: "player listed first"},
		},
		Action: func(c *cli.Context) error {
			sortKey, err := standingsdomain.ParseSortKey(c.String("sort"))
			if err != nil {
				return cli.Exit(err.Error(), 2)
			}

			s, err := loadStandings(c)
			if err != nil {
				return err
			}
			defer s.Close()

			rows := standingsservice.BuildLeaderboard(s.snap.Entries, standingsservice.ViewOptions{
				Sort:   sortKey,
				Pinned: c.String("pin"),
				Query:  c.String("q"),
			})
			fmt.Fprint(c.App.Writer, standingsexport.RenderTable(rows))
			return nil
		},
	}
}

func newWorkbookCommand() *cli.Command {
	return &cli.Command{
		Name:  "workbook",
		Usage: "write the enriched standings as an .xlsx workbook",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "out", Aliases: []string{"o"}, Value: "standings.xlsx", Usage: "output file"},
		},
		Action: func(c *cli.Context) error {
			s, err := loadStandings(c)
			if err != nil {
				return err
			}
			defer s.Close()

			if err := standingsexport.SaveWorkbook(c.String("out"), s.snap.Entries); err != nil {
				return err
			}
			fmt.Fprintf(c.App.Writer, "Wrote %d players to %s\n", len(s.snap.Entries), c.String("out"))
			return nil
		},
	}
}

func setup(c *cli.Context) (*config.Config, *observability.Observability, error) {
	cfg, err := config.LoadConfig(c.String("config"))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}
	obs, err := observability.InitWithWriter(c.Context, config.ToObsConfig(cfg), c.App.ErrWriter)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize observability: %w", err)
	}
	return cfg, obs, nil
}

// session is a module loaded once for a one-shot command.
type session struct {
	module *standings.Module
	obs    *observability.Observability
	snap   *standingsservice.Snapshot
}

// Close stops the module and flushes pending spans.
func (s *session) Close() {
	s.module.Close()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.obs.Shutdown(ctx); err != nil {
		s.obs.Logger.Warn("Failed to flush traces", slog.String("error", err.Error()))
	}
}

// loadStandings builds the module for a one-shot command and loads the
// standings once. Watching is forced off.
func loadStandings(c *cli.Context) (*session, error) {
	cfg, obs, err := setup(c)
	if err != nil {
		return nil, err
	}
	cfg.Watch.Enabled = false

	module, err := standings.NewModule(c.Context, cfg, obs)
	if err != nil {
		return nil, err
	}
	s := &session{module: module, obs: obs}
	s.snap, err = module.Load(c.Context)
	if err != nil {
		s.Close()
		return nil, err
	}
	return s, nil
}
