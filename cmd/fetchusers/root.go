// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/ghuser-io/fetchusers/internal/config"
	"github.com/ghuser-io/fetchusers/internal/ctxlog"
	"github.com/ghuser-io/fetchusers/internal/fanout"
	"github.com/ghuser-io/fetchusers/internal/progress"
	"github.com/ghuser-io/fetchusers/internal/prompt"
	"github.com/ghuser-io/fetchusers/internal/tui"
	"github.com/ghuser-io/fetchusers/internal/userset"
	"github.com/urfave/cli/v3"
	"golang.org/x/term"
)

const (
	configFlag      = "config"
	intervalFlag    = "interval"
	noPostStepFlag  = "no-post-step"
	tuiFlag         = "tui"
	summaryFlag     = "summary"
	printConfigFlag = "print-config"
	interactiveFlag = "interactive"
	cliExitStr      = ""
)

// ErrNoUsers is logged when no usernames were given and none could be prompted for.
var ErrNoUsers = errors.New("no usernames given")

var (
	// readUsers prompts for usernames; replaced in tests.
	readUsers = prompt.Run
	// stdinIsTerminal decides whether to prompt when no usernames are given.
	stdinIsTerminal = func() bool {
		return term.IsTerminal(int(os.Stdin.Fd())) //nolint:gosec // fd fits in int
	}
)

func newRootCmd(stdout, stderr io.Writer) *cli.Command {
	return &cli.Command{
		Name:      "fetchusers",
		Usage:     "fetch ghuser.io user data for one or more GitHub users",
		ArgsUsage: "USER...",
		Description: `fetchusers registers each given GitHub user, then runs one fetch process per user
in parallel and prints the last output line of every process on a fixed interval.
When every fetch succeeded it runs the repository fetch once.
If any fetch fails its full output is printed and fetchusers exits non-zero.

The commands run for each step come from a YAML or HCL config file. Config file URLs use
Hashicorp's go-getter syntax, see https://github.com/hashicorp/go-getter.`,
		Writer:    stdout,
		ErrWriter: stderr,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:      configFlag,
				Aliases:   []string{"c"},
				Usage:     "Path or go-getter URL of a YAML (.yaml, .yml) or HCL (.hcl) config file",
				TakesFile: true,
				OnlyOnce:  true,
			},
			&cli.DurationFlag{
				Name:    intervalFlag,
				Aliases: []string{"i"},
				Usage:   "Time between two progress polls, overrides the config file",
				Value:   fanout.DefaultPollInterval,
			},
			&cli.BoolFlag{
				Name:  noPostStepFlag,
				Usage: "Do not run the post-step after all users were fetched",
			},
			&cli.BoolFlag{
				Name:    tuiFlag,
				Aliases: []string{"t"},
				Usage:   "Show progress in an interactive Terminal User Interface (TUI)",
			},
			&cli.BoolFlag{
				Name:  summaryFlag,
				Usage: "Print a summary of every step after the run",
			},
			&cli.BoolFlag{
				Name:  printConfigFlag,
				Usage: "Print the resolved configuration as YAML and exit",
			},
			&cli.BoolFlag{
				Name:  interactiveFlag,
				Usage: "Prompt for usernames even when stdin is not a terminal",
			},
		},
		Action: actionFunc,
	}
}

func actionFunc(ctx context.Context, cmd *cli.Command) error {
	logger := ctxlog.Logger(ctx)

	cfg, err := config.Load(ctx, cmd.String(configFlag))
	if err != nil {
		logger.Error(fmt.Sprintf("Failed to load config: %s", err.Error()))
		return cli.Exit(cliExitStr, 1)
	}

	if cmd.IsSet(intervalFlag) {
		cfg.PollInterval = cmd.Duration(intervalFlag)
	}

	if cmd.Bool(noPostStepFlag) {
		cfg.PostStep = config.StepConfig{}
	}

	if err := cfg.Validate(); err != nil {
		logger.Error(err.Error())
		return cli.Exit(cliExitStr, 1)
	}

	if cmd.Bool(printConfigFlag) {
		out, err := cfg.MarshalYAML()
		if err != nil {
			logger.Error(fmt.Sprintf("Failed to render config: %s", err.Error()))
			return cli.Exit(cliExitStr, 1)
		}

		_, _ = cmd.Writer.Write(out)

		return nil
	}

	users, err := collectUsers(ctx, cmd)
	if err != nil {
		logger.Error(err.Error())
		return cli.Exit(cliExitStr, 1)
	}

	names := users.Names()
	logger.Info("fetching users", "count", len(names), "users", names)

	pipeline := cfg.ToPipeline()

	var (
		res    fanout.Results
		runErr error
	)

	switch cmd.Bool(tuiFlag) {
	case true:
		// Logs are held back until the TUI has released the terminal.
		buf := new(bytes.Buffer)
		tuiCtx := ctxlog.NewForTUI(ctx, buf)

		res, runErr = tui.NewRunner(names).Run(tuiCtx, pipeline, names)

		buf.WriteTo(cmd.ErrWriter) //nolint:errcheck
	default:
		pipeline.Reporter = progress.NewTextReporter(cmd.Writer)
		pipeline.Post.Stdout = cmd.Writer

		res, runErr = pipeline.Run(ctx, names)
	}

	if cmd.Bool(summaryFlag) {
		if err := res.WriteText(cmd.Writer, nil); err != nil {
			logger.Error(fmt.Sprintf("Failed to write summary: %s", err.Error()))
		}
	}

	var failed *fanout.FailedError
	if errors.As(runErr, &failed) {
		if err := fanout.WriteFailures(cmd.Writer, failed.Failed); err != nil {
			logger.Error(fmt.Sprintf("Failed to write failures: %s", err.Error()))
		}
	}

	if runErr != nil {
		logger.Error(runErr.Error())
		return cli.Exit(cliExitStr, 1)
	}

	return nil
}

// collectUsers dedupes the positional arguments, prompting on a terminal when there are none.
func collectUsers(ctx context.Context, cmd *cli.Command) (*userset.Set, error) {
	users := userset.New(cmd.Args().Slice()...)
	if users.Len() > 0 {
		return users, nil
	}

	if !cmd.Bool(interactiveFlag) && !stdinIsTerminal() {
		return nil, ErrNoUsers
	}

	names, err := readUsers(ctx, cmd.Writer)
	if err != nil {
		return nil, err
	}

	for _, n := range names {
		users.Add(n)
	}

	if users.Len() == 0 {
		return nil, ErrNoUsers
	}

	return users, nil
}
