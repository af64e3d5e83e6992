// Command statsctl inspects and maintains the saved game history without
// running the server.
package main

import (
	"os"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	"github.com/courtside/scorekeeper/internal/config"
	"github.com/courtside/scorekeeper/internal/store"
)

func main() {
	var (
		cfg *config.Config
		db  store.Backend
	)

	app := &cli.App{
		Name:  "statsctl",
		Usage: "manage saved basketball game history",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "backend",
				Usage: "history store backend (sqlite or redis), overrides STORE_BACKEND",
			},
		},
		Before: func(c *cli.Context) error {
			var err error
			cfg, err = config.Load()
			if err != nil {
				return err
			}
			backend := string(cfg.StoreBackend)
			if b := c.String("backend"); b != "" {
				backend = b
			}
			log := cfg.NewLogger()
			log.SetOutput(os.Stderr)
			db, err = store.Open(store.Options{
				Backend:      backend,
				DatabasePath: cfg.DatabasePath,
				RedisURL:     cfg.RedisURL,
				RedisKey:     cfg.RedisKey,
			}, log)
			return err
		},
		After: func(c *cli.Context) error {
			if db != nil {
				return db.Close()
			}
			return nil
		},
		Commands: []*cli.Command{
			{
				Name:  "status",
				Usage: "show the store and the number of saved games",
				Action: func(c *cli.Context) error {
					return runStatus(c.Context, db, c.App.Writer)
				},
			},
			{
				Name:  "export",
				Usage: "write the history to a .json export document or an .xlsx workbook",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "out", Aliases: []string{"o"}, Usage: "output file, stdout when empty"},
				},
				Action: func(c *cli.Context) error {
					team, err := config.LoadTeam(cfg.TeamFile)
					if err != nil {
						return err
					}
					return runExport(c.Context, db, team.Season, c.String("out"), c.App.Writer)
				},
			},
			{
				Name:  "import",
				Usage: "merge an export document into the history",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "in", Aliases: []string{"i"}, Required: true, Usage: "export document to read"},
					&cli.StringFlag{Name: "mode", Value: "append", Usage: "append or replace"},
				},
				Action: func(c *cli.Context) error {
					return runImport(c.Context, db, c.String("in"), c.String("mode"), c.App.Writer)
				},
			},
			{
				Name:  "season",
				Usage: "print season totals for the team",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "sort", Value: "totalPoints", Usage: "sort column"},
					&cli.StringFlag{Name: "order", Value: "desc", Usage: "asc or desc"},
				},
				Action: func(c *cli.Context) error {
					team, err := config.LoadTeam(cfg.TeamFile)
					if err != nil {
						return err
					}
					return runSeason(c.Context, db, team.Season, c.String("sort"), c.String("order"), c.App.Writer)
				},
			},
			{
				Name:  "clear",
				Usage: "remove every saved game",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "yes", Usage: "skip the confirmation check"},
				},
				Action: func(c *cli.Context) error {
					if !c.Bool("yes") {
						return cli.Exit("refusing to clear history without --yes", 2)
					}
					return runClear(c.Context, db, c.App.Writer)
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		logrus.Fatal(err)
	}
}
