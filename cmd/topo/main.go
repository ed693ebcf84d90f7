// Command topo is a thin CLI driver over the core indexing and scoring
// engine. Flag parsing and output formatting are deliberately minimal:
// the render and stdio-server collaborators named in spec.md §6 live
// outside the core and are not reproduced here.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v2"

	"github.com/Demwunz/topo/internal/config"
	"github.com/Demwunz/topo/internal/engine"
	"github.com/Demwunz/topo/internal/logging"
)

func main() {
	app := &cli.App{
		Name:  "topo",
		Usage: "polyglot repository indexing and scoring engine",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "root", Aliases: []string{"r"}, Usage: "repository root (default: cwd or TOPO_ROOT)"},
		},
		Commands: []*cli.Command{
			indexCommand(),
			queryCommand(),
		},
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := app.RunContext(ctx, os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "topo:", err)
		os.Exit(1)
	}
}

func loadConfig(c *cli.Context) (*config.Config, error) {
	return config.Load(c.String("root"))
}

func indexCommand() *cli.Command {
	return &cli.Command{
		Name:  "index",
		Usage: "build or refresh the on-disk index",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "deep", Value: true, Usage: "chunk files and compute PageRank"},
			&cli.BoolFlag{Name: "force", Usage: "discard any prior index and rebuild fully"},
		},
		Action: func(c *cli.Context) error {
			cfg, err := loadConfig(c)
			if err != nil {
				return err
			}
			log := logging.Default()
			stats, err := engine.BuildOrRefreshIndex(c.Context, cfg, c.Bool("deep"), c.Bool("force"), log)
			if err != nil {
				return err
			}
			return json.NewEncoder(os.Stdout).Encode(stats)
		},
	}
}

func queryCommand() *cli.Command {
	return &cli.Command{
		Name:      "query",
		Usage:     "score and select files relevant to a task description",
		ArgsUsage: "<query text>",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "preset", Value: "balanced", Usage: "fast|balanced|deep|thorough"},
		},
		Action: func(c *cli.Context) error {
			cfg, err := loadConfig(c)
			if err != nil {
				return err
			}
			handle, err := engine.LoadIndex(cfg)
			if err != nil {
				return err
			}
			defer handle.Close()

			preset := config.PresetByName(c.String("preset"))

			var recency map[string]int
			if preset.UseRecency {
				recency = engine.ResolveGitRecency(c.Context, handle, cfg.Root)
			}

			query := c.Args().First()
			ranked := engine.Score(c.Context, handle, query, preset, recency)
			selection := engine.Select(handle, ranked, preset)

			return json.NewEncoder(os.Stdout).Encode(selection)
		},
	}
}
