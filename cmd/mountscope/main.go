package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v3"
	"k8s.io/utils/exec"

	"github.com/kriansa/mountscope/internal/config"
	"github.com/kriansa/mountscope/internal/inhibit"
	"github.com/kriansa/mountscope/internal/log"
	"github.com/kriansa/mountscope/internal/mount"
	"github.com/kriansa/mountscope/internal/plan"
	"github.com/kriansa/mountscope/internal/version"
)

func main() {
	cmd := &cli.Command{
		Name:      "mountscope",
		Usage:     "Mount a filesystem tree, run a command inside it, and tear it down",
		ArgsUsage: "-- COMMAND [ARGS...]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "plan",
				Aliases: []string{"p"},
				Usage:   "Mount plan file",
				Value:   config.DefaultPlanPath,
			},
			&cli.StringFlag{
				Name:    "mount-command",
				Aliases: []string{"m"},
				Usage:   "External mount utility used for entries without fstype",
			},
			&cli.BoolFlag{
				Name:    "inhibit",
				Aliases: []string{"i"},
				Usage:   "Block shutdown and sleep through logind while mounted",
			},
			&cli.BoolFlag{
				Name:    "verbose",
				Aliases: []string{"v"},
				Usage:   "Enable debug logging",
			},
			&cli.BoolFlag{
				Name:    "version",
				Aliases: []string{"V"},
				Usage:   "Print version information",
			},
		},
		Action: run,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := cmd.Run(ctx, os.Args)
	stop()

	if err != nil {
		fmt.Fprintf(os.Stderr, "install failed: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cmd *cli.Command) error {
	// Handle version flag
	if cmd.Bool("version") {
		fmt.Println(version.String())
		return nil
	}

	log.Setup(cmd.Bool("verbose"))

	cfg, err := config.Load(cmd.String("plan"))
	if err != nil {
		return fmt.Errorf("load plan: %w", err)
	}

	// Merge CLI flags (CLI takes precedence)
	cfg.Merge(cmd.String("mount-command"), cmd.Bool("inhibit"))
	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid plan: %w", err)
	}

	args := cmd.Args().Slice()
	if len(args) == 0 {
		return fmt.Errorf("no command given")
	}

	if cfg.Inhibit {
		release, err := holdInhibitor()
		if err != nil {
			return err
		}
		defer release()
	}

	mounter := mount.NewMounter(
		mount.WithCommand(cfg.MountCommand),
		mount.WithLogger(log.Logger()),
	)

	mounts, err := plan.Apply(mounter, cfg.Mounts)
	if err != nil {
		return fmt.Errorf("apply plan: %w", err)
	}
	defer mounts.Release()

	log.Info("plan mounted", "mounts", mounts.Len(), "command", args[0])

	c := exec.New().CommandContext(ctx, args[0], args[1:]...)
	c.SetStdin(os.Stdin)
	c.SetStdout(os.Stdout)
	c.SetStderr(os.Stderr)
	if err := c.Run(); err != nil {
		return fmt.Errorf("run %s: %w", args[0], err)
	}

	fmt.Println("install was successful")
	return nil
}

// holdInhibitor takes the logind lock and returns the function that drops it
// and closes the bus connection.
func holdInhibitor() (func(), error) {
	conn, err := inhibit.ConnectSystemBus()
	if err != nil {
		return nil, fmt.Errorf("connect system bus: %w", err)
	}

	lock, err := inhibit.Acquire(conn, "mountscope", "filesystems are mounted")
	if err != nil {
		_ = conn.Close()
		return nil, err
	}

	log.Debug("inhibitor lock acquired", "what", inhibit.What)

	return func() {
		if err := lock.Release(); err != nil {
			log.Warn("failed to release inhibitor lock", "error", err)
		}
		if err := conn.Close(); err != nil {
			log.Warn("failed to close system bus", "error", err)
		}
	}, nil
}
