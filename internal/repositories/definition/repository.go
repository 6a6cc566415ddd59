package definition

import (
	"context"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectolinq"
	"github.com/Gobusters/ectologger"
	"github.com/Ramsey-B/fern/pkg/loader"
	"github.com/Ramsey-B/fern/pkg/models"
	"github.com/Ramsey-B/fern/pkg/tracing"
)

type DefinitionRepository interface {
	Get(ctx context.Context, name string) (*models.MappingDefinition, error)
	List(ctx context.Context) ([]Summary, error)
}

// Summary describes one definition file.
type Summary struct {
	Name        string `json:"name"`
	Path        string `json:"path"`
	Description string `json:"description,omitempty"`
	Mappings    int    `json:"mappings"`
}

var extensions = []string{".yaml", ".yml", ".json"}

// Repository reads definitions from the YAML and JSON files of a directory.
// A definition is addressed by its file name without extension, or by a path.
type Repository struct {
	dir    string
	logger ectologger.Logger
}

func NewRepository(dir string, logger ectologger.Logger) *Repository {
	return &Repository{
		dir:    dir,
		logger: logger,
	}
}

func (r *Repository) Get(ctx context.Context, name string) (*models.MappingDefinition, error) {
	ctx, span := tracing.StartSpan(ctx, "DefinitionRepository.Get")
	defer span.End()

	if strings.TrimSpace(name) == "" {
		return nil, httperror.NewHTTPError(http.StatusBadRequest, "definition name is required")
	}

	path, ok := r.resolve(name)
	if !ok {
		return nil, httperror.NewHTTPErrorf(http.StatusNotFound, "definition %s not found", name)
	}

	def, err := loader.Load(path)
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{
			"name": name,
			"path": path,
		}).Error("error loading mapping definition")
		return nil, httperror.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}
	if def.Name == "" {
		def.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}

	r.logger.WithContext(ctx).WithFields(map[string]any{
		"name":     def.Name,
		"path":     path,
		"mappings": len(def.Mappings),
	}).Debug("Loaded mapping definition")
	return def, nil
}

// resolve accepts an existing file path, or a name looked up in the directory.
func (r *Repository) resolve(name string) (string, bool) {
	if info, err := os.Stat(name); err == nil && !info.IsDir() {
		return name, true
	}
	if r.dir == "" {
		return "", false
	}
	for _, ext := range extensions {
		path := filepath.Join(r.dir, name+ext)
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path, true
		}
	}
	return "", false
}

// List returns a summary of every definition file in the directory, sorted by name.
// Files that fail to load are logged and skipped.
func (r *Repository) List(ctx context.Context) ([]Summary, error) {
	ctx, span := tracing.StartSpan(ctx, "DefinitionRepository.List")
	defer span.End()

	entries, err := os.ReadDir(r.dir)
	if err != nil {
		return nil, httperror.NewHTTPErrorf(http.StatusNotFound, "definition directory %s: %v", r.dir, err)
	}

	summaries := []Summary{}
	for _, entry := range entries {
		if entry.IsDir() || !isDefinitionFile(entry.Name()) {
			continue
		}
		path := filepath.Join(r.dir, entry.Name())
		def, err := loader.Load(path)
		if err != nil {
			r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{
				"path": path,
			}).Warn("Skipping invalid mapping definition")
			continue
		}
		summaries = append(summaries, Summary{
			Name:        strings.TrimSuffix(entry.Name(), filepath.Ext(entry.Name())),
			Path:        path,
			Description: def.Description,
			Mappings:    len(def.Mappings),
		})
	}

	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].Name < summaries[j].Name
	})
	return summaries, nil
}

func isDefinitionFile(name string) bool {
	return ectolinq.Contains(extensions, strings.ToLower(filepath.Ext(name)))
}
