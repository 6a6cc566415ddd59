package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Ramsey-B/fern/config"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

const (
	exitFailure  = 1
	exitFindings = 2
	exitUsage    = 64
	exitData     = 65
	exitNotFound = 66
)

// errFindings reports a command that ran but found errors in the definition or the documents.
var errFindings = errors.New("mapping reported errors")

type rootOptions struct {
	envFile        string
	output         string
	metricsFile    string
	definitionsDir string
	app            *app
}

// run executes the command line and returns the process exit code.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	opts := &rootOptions{}
	cmd := newRootCommand(opts)
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	err := cmd.ExecuteContext(ctx)
	// failed runs flush spans and metrics too
	if opts.app != nil {
		if closeErr := opts.app.close(context.WithoutCancel(ctx), opts.metricsFile); closeErr != nil && err == nil {
			err = closeErr
		}
	}
	if err != nil {
		printError(stderr, err)
		return exitCode(err)
	}
	return 0
}

func newRootCommand(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "fern",
		Short:         "Document to document mapping engine",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if opts.output != "json" && opts.output != "yaml" {
				return httperror.NewHTTPErrorf(http.StatusBadRequest, "unsupported output %q (use 'json' or 'yaml')", opts.output)
			}
			cfg, err := config.Load(opts.envFile)
			if err != nil {
				return err
			}
			if opts.definitionsDir != "" {
				cfg.DefinitionsDir = opts.definitionsDir
			}
			opts.app, err = newApp(cmd.Context(), cfg)
			return err
		},
	}

	cmd.PersistentFlags().StringVar(&opts.envFile, "env-file", ".env", "environment file merged into the process environment")
	cmd.PersistentFlags().StringVarP(&opts.output, "output", "o", "json", "output format: json or yaml")
	cmd.PersistentFlags().StringVar(&opts.metricsFile, "metrics-file", "", "write Prometheus metrics to this file when METRICS_ENABLED is set")
	cmd.PersistentFlags().StringVarP(&opts.definitionsDir, "definitions", "d", "", "directory holding mapping definitions (overrides DEFINITIONS_DIR)")

	cmd.AddCommand(
		newValidateCommand(opts),
		newProcessCommand(opts),
		newInspectCommand(opts),
		newActionsCommand(opts),
		newDefinitionsCommand(opts),
	)
	return cmd
}

// write renders value to out in the selected output format.
func (o *rootOptions) write(out io.Writer, value any) error {
	if o.output == "yaml" {
		encoder := yaml.NewEncoder(out)
		encoder.SetIndent(2)
		defer encoder.Close()
		// most output types only carry json tags
		data, err := json.Marshal(value)
		if err != nil {
			return err
		}
		var generic any
		if err := json.Unmarshal(data, &generic); err != nil {
			return err
		}
		return encoder.Encode(generic)
	}

	encoder := json.NewEncoder(out)
	encoder.SetIndent("", "  ")
	return encoder.Encode(value)
}

func exitCode(err error) int {
	if errors.Is(err, errFindings) {
		return exitFindings
	}
	cause := errors.Cause(err)
	if !httperror.IsHTTPError(cause) {
		return exitFailure
	}
	switch httperror.GetStatusCode(cause) {
	case http.StatusBadRequest:
		return exitUsage
	case http.StatusNotFound:
		return exitNotFound
	case http.StatusUnprocessableEntity:
		return exitData
	default:
		return exitFailure
	}
}

func printError(out io.Writer, err error) {
	fmt.Fprintf(out, "fern: %v\n", err)
}
