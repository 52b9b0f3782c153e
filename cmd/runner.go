package main

import (
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/SupeeerMario/LowKey/internal/shared"
	"github.com/charmbracelet/log"
	"github.com/urfave/cli/v3"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config     *shared.Config
	httpClient *http.Client
	logger     *log.Logger
	output     io.Writer
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config     *shared.Config
	HTTPClient *http.Client
	Logger     *log.Logger
	Output     io.Writer
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = http.DefaultClient
	}

	return &Runner{
		config:     opts.Config,
		httpClient: opts.HTTPClient,
		logger:     opts.Logger,
		output:     opts.Output,
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		serveCommand, setupCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// loadConfig resolves the effective configuration: an injected config wins,
// then the file at path, then embedded defaults.
func (r *Runner) loadConfig(path string) *shared.Config {
	if r.config != nil {
		return r.config
	}

	if _, err := os.Stat(path); err == nil {
		if config, err := shared.LoadConfig(path); err == nil {
			return config
		}
		r.logger.Warnf("failed to load config at %v, using defaults", path)
	}

	return shared.DefaultConfig()
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}
