// Package cli implements missionctl, the operator command line for the
// mission control store.
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"time"

	"github.com/urfave/cli/v3"

	"mission-control/internal/auth"
	"mission-control/internal/dataset"
	"mission-control/internal/launch"
	"mission-control/internal/planet"
	"mission-control/internal/shared/config"
	"mission-control/internal/shared/pagination"
	"mission-control/internal/spacex"
	"mission-control/internal/storage"
)

const name = "missionctl"

// Env carries what every command needs. OpenStore is called lazily so that
// commands which never touch storage do not connect.
type Env struct {
	Config    *config.Config
	OpenStore func(ctx context.Context) (*storage.Store, error)
	Out       io.Writer
	Logger    *slog.Logger
}

// NewCommand builds the root command.
func NewCommand(env *Env) *cli.Command {
	return &cli.Command{
		Name:                  name,
		Usage:                 "Operate the mission control launch and planet store",
		EnableShellCompletion: true,
		Commands: []*cli.Command{
			planetsCmd(env),
			launchesCmd(env),
			tokenCmd(env),
		},
	}
}

func planetsCmd(env *Env) *cli.Command {
	return &cli.Command{
		Name:  "planets",
		Usage: "Habitable planet catalog",
		Commands: []*cli.Command{
			{
				Name:  "load",
				Usage: "Load habitable planets from the Kepler dataset",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "dataset",
						Usage:   "dataset file path or s3://bucket/key",
						Sources: cli.EnvVars("PLANETS_DATASET"),
						Value:   env.Config.Dataset.Path,
					},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return withStore(ctx, env, func(store *storage.Store) error {
						dsCfg := env.Config.Dataset
						dsCfg.Path = cmd.String("dataset")

						source, err := dataset.Open(ctx, dsCfg, env.Logger)
						if err != nil {
							return err
						}

						stats, err := planet.NewLoader(source, store.Planets, env.Logger).Load(ctx)
						if err != nil {
							return err
						}
						return writeJSON(env.Out, stats)
					})
				},
			},
			{
				Name:  "list",
				Usage: "List habitable planets",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return withStore(ctx, env, func(store *storage.Store) error {
						planets, err := planet.NewService(store.Planets, env.Logger).GetAllPlanets(ctx)
						if err != nil {
							return err
						}
						return writeJSON(env.Out, planets)
					})
				},
			},
		},
	}
}

func launchesCmd(env *Env) *cli.Command {
	return &cli.Command{
		Name:  "launches",
		Usage: "Scheduled and historical launches",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List launches by flight number",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "page", Usage: "1-based page number"},
					&cli.StringFlag{Name: "limit", Usage: "page size, 0 for all"},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					page := pagination.Paginate(cmd.String("page"), cmd.String("limit"))
					return withLaunches(ctx, env, func(svc *launch.Service) error {
						launches, err := svc.List(ctx, page.Skip, page.Limit)
						if err != nil {
							return err
						}
						return writeJSON(env.Out, launches)
					})
				},
			},
			{
				Name:      "abort",
				Usage:     "Abort a launch by flight number",
				ArgsUsage: "<flight-number>",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					flightNumber, err := strconv.Atoi(cmd.Args().First())
					if err != nil {
						return fmt.Errorf("flight number required: %w", err)
					}

					return withLaunches(ctx, env, func(svc *launch.Service) error {
						exists, err := svc.Exists(ctx, flightNumber)
						if err != nil {
							return err
						}
						if !exists {
							return fmt.Errorf("%s: %d", launch.MsgNotFound, flightNumber)
						}

						aborted, err := svc.Abort(ctx, flightNumber)
						if err != nil {
							return err
						}
						if !aborted {
							return fmt.Errorf("%s: %d", launch.MsgNotAborted, flightNumber)
						}
						_, err = fmt.Fprintf(env.Out, "flight %d aborted\n", flightNumber)
						return err
					})
				},
			},
			{
				Name:  "seed",
				Usage: "Install the default launch record",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return withLaunches(ctx, env, func(svc *launch.Service) error {
						return svc.SeedDefault(ctx)
					})
				},
			},
			{
				Name:  "import",
				Usage: "Import launch history from the SpaceX API",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "url",
						Usage:   "SpaceX launch query endpoint",
						Sources: cli.EnvVars("SPACEX_API_URL"),
						Value:   env.Config.Launches.SpaceXAPIURL,
					},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					feed := spacex.NewClient(cmd.String("url"), env.Config.Launches.SpaceXTimeout, env.Logger)
					return withLaunches(ctx, env, func(svc *launch.Service) error {
						imported, err := svc.ImportHistory(ctx, feed)
						if err != nil {
							return err
						}
						_, err = fmt.Fprintf(env.Out, "%d launches imported\n", imported)
						return err
					})
				},
			},
		},
	}
}

func tokenCmd(env *Env) *cli.Command {
	return &cli.Command{
		Name:  "token",
		Usage: "Mint an operator token for the mutating launch routes",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "subject", Usage: "operator name", Required: true},
			&cli.StringFlag{Name: "role", Usage: "operator or admin", Value: auth.RoleOperator},
			&cli.DurationFlag{Name: "ttl", Usage: "token lifetime", Value: env.Config.Auth.TokenExpiration},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			role := cmd.String("role")
			if role != auth.RoleOperator && role != auth.RoleAdmin {
				return fmt.Errorf("unknown role %q", role)
			}

			ttl := cmd.Duration("ttl")
			if ttl <= 0 {
				ttl = 24 * time.Hour
			}

			token, err := auth.GenerateToken(env.Config.Auth.JWTSecret, cmd.String("subject"), role, ttl)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(env.Out, token)
			return err
		},
	}
}

func withStore(ctx context.Context, env *Env, fn func(*storage.Store) error) error {
	store, err := env.OpenStore(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if err := store.Close(); err != nil {
			env.Logger.Warn("Failed to close storage", "error", err)
		}
	}()
	return fn(store)
}

func withLaunches(ctx context.Context, env *Env, fn func(*launch.Service) error) error {
	return withStore(ctx, env, func(store *storage.Store) error {
		planets := planet.NewService(store.Planets, env.Logger)
		return fn(launch.NewService(store.Launches, planets, env.Logger))
	})
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
