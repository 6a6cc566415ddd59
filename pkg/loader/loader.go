// Package loader reads mapping definitions from YAML or JSON files.
//
// Loading only checks the document shape. Semantic problems are reported by the
// validation package as findings.
package loader

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/Ramsey-B/fern/pkg/models"
	"github.com/Ramsey-B/fern/pkg/utils"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

var ErrUnknownFormat = errors.New("unknown definition format")

// FormatOf picks the format from a file extension.
func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".json":
		return FormatJSON, nil
	default:
		return "", errors.Wrapf(ErrUnknownFormat, "file %s", path)
	}
}

// Load reads the definition stored at path.
func Load(path string) (*models.MappingDefinition, error) {
	format, err := FormatOf(path)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read definition %s", path)
	}

	def, err := Parse(data, format)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid definition %s", path)
	}
	return def, nil
}

// Parse decodes a definition. Unknown keys are rejected so that typos surface early.
func Parse(data []byte, format Format) (*models.MappingDefinition, error) {
	def := &models.MappingDefinition{}

	switch format {
	case FormatYAML:
		decoder := yaml.NewDecoder(bytes.NewReader(data))
		decoder.KnownFields(true)
		if err := decoder.Decode(def); err != nil && !errors.Is(err, io.EOF) {
			return nil, errors.Wrap(err, "failed to decode yaml")
		}
	case FormatJSON:
		decoder := json.NewDecoder(bytes.NewReader(data))
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(def); err != nil {
			return nil, errors.Wrap(err, "failed to decode json")
		}
	default:
		return nil, errors.Wrapf(ErrUnknownFormat, "format %q", format)
	}

	if err := utils.ValidateValue(def.DataSources, "required,min=1"); err != nil {
		return nil, errors.New("definition declares no data sources")
	}
	for i := range def.Mappings {
		if def.Mappings[i].Type == "" {
			return nil, errors.Errorf("%s has no type", def.Mappings[i].Identifier(i))
		}
		def.Mappings[i].Type = models.MappingType(strings.ToUpper(string(def.Mappings[i].Type)))
	}
	return def, nil
}
