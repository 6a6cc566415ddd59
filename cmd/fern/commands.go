package main

import (
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Ramsey-B/fern/pkg/models"
	"github.com/Ramsey-B/fern/pkg/modules/jsonmodule"
	"github.com/Ramsey-B/fern/pkg/processor"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func newValidateCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "validate DEFINITION",
		Short: "Report the findings of a mapping definition",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			validations, err := opts.app.service.Validate(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if err := opts.write(cmd.OutOrStdout(), validations); err != nil {
				return err
			}
			blocking := validations.Count(models.StatusError)
			if opts.app.config.StrictValidation {
				blocking += validations.Count(models.StatusWarn)
			}
			if blocking > 0 {
				return errFindings
			}
			return nil
		},
	}
}

type processOptions struct {
	sources    []string
	targets    []string
	properties []string
	jobsFile   string
}

// jobOutput is the printed outcome of one job.
type jobOutput struct {
	JobID       string             `json:"job_id"`
	Targets     map[string]any     `json:"targets,omitempty"`
	Audits      []models.Audit     `json:"audits,omitempty"`
	Validations models.Validations `json:"validations,omitempty"`
	Error       string             `json:"error,omitempty"`
	DurationMs  int64              `json:"duration_ms"`
}

func newProcessCommand(opts *rootOptions) *cobra.Command {
	processOpts := &processOptions{}

	cmd := &cobra.Command{
		Use:   "process DEFINITION",
		Short: "Run a mapping definition over documents",
		Long: `Run a mapping definition over one set of documents given with --source and --target,
or over every job of a --jobs file. A jobs file is a JSON or YAML list of
{id, sources, targets, properties} objects keyed by document id.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			jobs, err := processOpts.jobs()
			if err != nil {
				return err
			}
			results, err := opts.app.service.Process(cmd.Context(), args[0], jobs)
			if err != nil {
				return err
			}

			outputs := make([]jobOutput, len(results))
			failed := false
			for i, result := range results {
				outputs[i] = toJobOutput(result)
				failed = failed || result.Failed() || (result.Session != nil && result.Session.HasErrors())
			}
			if err := opts.write(cmd.OutOrStdout(), outputs); err != nil {
				return err
			}
			if failed {
				return errFindings
			}
			return nil
		},
	}

	cmd.Flags().StringArrayVarP(&processOpts.sources, "source", "s", nil, "source document as DOC_ID=FILE")
	cmd.Flags().StringArrayVarP(&processOpts.targets, "target", "t", nil, "existing target document as DOC_ID=FILE")
	cmd.Flags().StringArrayVarP(&processOpts.properties, "property", "p", nil, "runtime property as NAME=VALUE")
	cmd.Flags().StringVar(&processOpts.jobsFile, "jobs", "", "JSON or YAML file listing the jobs to run")
	cmd.MarkFlagsMutuallyExclusive("jobs", "source")
	return cmd
}

func (o *processOptions) jobs() ([]processor.Job, error) {
	if o.jobsFile != "" {
		return readJobs(o.jobsFile)
	}

	job := processor.Job{Sources: map[string]any{}, Targets: map[string]any{}, Properties: map[string]any{}}
	for _, source := range o.sources {
		docID, document, err := readDocumentFlag(source)
		if err != nil {
			return nil, err
		}
		job.Sources[docID] = document
	}
	for _, target := range o.targets {
		docID, document, err := readDocumentFlag(target)
		if err != nil {
			return nil, err
		}
		job.Targets[docID] = document
	}
	for _, property := range o.properties {
		name, value, ok := strings.Cut(property, "=")
		if !ok || name == "" {
			return nil, httperror.NewHTTPErrorf(http.StatusBadRequest, "property %q is not NAME=VALUE", property)
		}
		job.Properties[name] = value
	}
	return []processor.Job{job}, nil
}

// readDocumentFlag reads a DOC_ID=FILE flag. The file is passed to the module as raw bytes.
func readDocumentFlag(flag string) (string, []byte, error) {
	docID, file, ok := strings.Cut(flag, "=")
	if !ok || docID == "" || file == "" {
		return "", nil, httperror.NewHTTPErrorf(http.StatusBadRequest, "document %q is not DOC_ID=FILE", flag)
	}
	data, err := os.ReadFile(file)
	if err != nil {
		return "", nil, httperror.NewHTTPErrorf(http.StatusNotFound, "document %s: %v", docID, err)
	}
	return docID, data, nil
}

type jobFile struct {
	ID         string         `json:"id" yaml:"id"`
	Sources    map[string]any `json:"sources" yaml:"sources"`
	Targets    map[string]any `json:"targets" yaml:"targets"`
	Properties map[string]any `json:"properties" yaml:"properties"`
}

func readJobs(path string) ([]processor.Job, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, httperror.NewHTTPErrorf(http.StatusNotFound, "jobs file: %v", err)
	}

	var files []jobFile
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &files)
	default:
		err = json.Unmarshal(data, &files)
	}
	if err != nil {
		return nil, httperror.NewHTTPErrorf(http.StatusUnprocessableEntity, "jobs file %s: %v", path, err)
	}

	jobs := make([]processor.Job, len(files))
	for i, file := range files {
		jobs[i] = processor.Job(file)
	}
	return jobs, nil
}

func toJobOutput(result processor.Result) jobOutput {
	out := jobOutput{
		JobID:      result.JobID,
		Targets:    map[string]any{},
		DurationMs: result.Duration.Milliseconds(),
	}
	for docID, document := range result.Targets {
		// raw targets are published as bytes; print them as JSON rather than base64
		if data, ok := document.([]byte); ok {
			document = json.RawMessage(data)
		}
		out.Targets[docID] = document
	}
	if result.Session != nil {
		out.Audits = result.Session.Audits()
		out.Validations = result.Session.Validations()
	}
	if result.Error != nil {
		out.Error = result.Error.Error()
	}
	return out
}

func newInspectCommand(opts *rootOptions) *cobra.Command {
	var scheme string

	cmd := &cobra.Command{
		Use:   "inspect FILE",
		Short: "Describe a document as the field tree a module sees",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return httperror.NewHTTPErrorf(http.StatusNotFound, "document: %v", err)
			}
			fields, err := opts.app.service.Inspect(cmd.Context(), scheme, data)
			if err != nil {
				return err
			}
			return opts.write(cmd.OutOrStdout(), fields)
		},
	}
	cmd.Flags().StringVar(&scheme, "scheme", jsonmodule.Scheme, "module scheme used to read the document")
	return cmd
}

func newActionsCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "actions",
		Short: "List the registered field actions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return opts.write(cmd.OutOrStdout(), opts.app.service.Actions())
		},
	}
}

func newDefinitionsCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "definitions",
		Short: "List the mapping definitions of the definitions directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			summaries, err := opts.app.service.Definitions(cmd.Context())
			if err != nil {
				return err
			}
			return opts.write(cmd.OutOrStdout(), summaries)
		},
	}
}
