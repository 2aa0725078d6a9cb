// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package config

import (
	"errors"
	"fmt"
	"maps"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/ghuser-io/fetchusers/internal/fanout"
	"github.com/goccy/go-yaml"
)

const (
	defaultPreStep  = "./addUser.js"
	defaultWorker   = "./fetchUserDetailsAndContribs.js"
	defaultPostStep = "./fetchRepos.js"
)

var (
	// ErrInvalidConfig is returned by Validate.
	ErrInvalidConfig = errors.New("invalid configuration")
	// ErrNoWorkerCommand is returned when the worker step has no command line.
	ErrNoWorkerCommand = errors.New("worker command_line must not be empty")
	// ErrInvalidPollInterval is returned when the poll interval is not positive.
	ErrInvalidPollInterval = errors.New("poll_interval must be greater than zero")
)

// Config is the resolved configuration of a run.
type Config struct {
	PollInterval time.Duration
	PreStep      StepConfig
	Worker       StepConfig
	PostStep     StepConfig
}

// StepConfig describes one command. An empty CommandLine disables the step.
type StepConfig struct {
	Label            string            `yaml:"label,omitempty" hcl:"label,optional"`
	CommandLine      string            `yaml:"command_line" hcl:"command_line"`
	Args             []string          `yaml:"args,omitempty" hcl:"args,optional"`
	Env              map[string]string `yaml:"env,omitempty" hcl:"env,optional"`
	WorkingDirectory string            `yaml:"working_directory,omitempty" hcl:"working_directory,optional"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		PollInterval: fanout.DefaultPollInterval,
		PreStep: StepConfig{
			CommandLine: defaultPreStep,
		},
		Worker: StepConfig{
			CommandLine: defaultWorker,
			Args:        []string{"--nospin"},
		},
		PostStep: StepConfig{
			CommandLine: defaultPostStep,
			Args:        []string{"--firsttime"},
		},
	}
}

// Validate checks the configuration can be run.
func (c *Config) Validate() error {
	var errs []error

	if c.PollInterval <= 0 {
		errs = append(errs, fmt.Errorf("%w: got %s", ErrInvalidPollInterval, c.PollInterval))
	}

	if strings.TrimSpace(c.Worker.CommandLine) == "" {
		errs = append(errs, ErrNoWorkerCommand)
	}

	if len(errs) > 0 {
		return errors.Join(append([]error{ErrInvalidConfig}, errs...)...)
	}

	return nil
}

// ToPipeline maps the configuration onto a pipeline. The caller sets the reporter.
func (c *Config) ToPipeline() *fanout.Pipeline {
	return &fanout.Pipeline{
		Pre:      c.PreStep.toStep(),
		Worker:   c.Worker.toStep(),
		Post:     c.PostStep.toStep(),
		Interval: c.PollInterval,
	}
}

func (s StepConfig) toStep() fanout.Step {
	return fanout.Step{
		Label:            s.label(),
		CommandLine:      s.CommandLine,
		Args:             slices.Clone(s.Args),
		Env:              maps.Clone(s.Env),
		WorkingDirectory: s.WorkingDirectory,
	}
}

// label falls back to the script name without its extension, e.g. addUser for ./addUser.js.
func (s StepConfig) label() string {
	if s.Label != "" {
		return s.Label
	}

	fields := strings.Fields(s.CommandLine)
	if len(fields) == 0 {
		return ""
	}

	base := filepath.Base(fields[0])

	return strings.TrimSuffix(base, filepath.Ext(base))
}

// fileConfig is the on-disk shape shared by the YAML and HCL decoders.
// Nil fields keep the defaults.
type fileConfig struct {
	PollInterval *string    `yaml:"poll_interval,omitempty" hcl:"poll_interval,optional"`
	PreStep      *StepConfig `yaml:"pre_step,omitempty" hcl:"pre_step,block"`
	Worker       *StepConfig `yaml:"worker,omitempty" hcl:"worker,block"`
	PostStep     *StepConfig `yaml:"post_step,omitempty" hcl:"post_step,block"`
}

func (f *fileConfig) applyTo(c *Config) error {
	if f.PollInterval != nil {
		d, err := time.ParseDuration(*f.PollInterval)
		if err != nil {
			return fmt.Errorf("%w: poll_interval: %w", ErrInvalidConfig, err)
		}

		c.PollInterval = d
	}

	if f.PreStep != nil {
		c.PreStep = *f.PreStep
	}

	if f.Worker != nil {
		c.Worker = *f.Worker
	}

	if f.PostStep != nil {
		c.PostStep = *f.PostStep
	}

	return nil
}

// MarshalYAML renders the configuration in the YAML file format, so that
// the output of --print-config can be loaded again.
func (c *Config) MarshalYAML() ([]byte, error) {
	interval := c.PollInterval.String()
	pre, worker, post := c.PreStep, c.Worker, c.PostStep

	return yaml.Marshal(&fileConfig{
		PollInterval: &interval,
		PreStep:      &pre,
		Worker:       &worker,
		PostStep:     &post,
	})
}
