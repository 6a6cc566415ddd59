package loader_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/Gobusters/ectologger"
	"github.com/Ramsey-B/fern/pkg/engine"
	"github.com/Ramsey-B/fern/pkg/loader"
	"github.com/Ramsey-B/fern/pkg/models"
	"github.com/Ramsey-B/fern/pkg/modules/jsonmodule"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const contactYAML = `
name: person-to-contact
data_sources:
  - id: person
    uri: json:person
    type: SOURCE
  - id: contact
    uri: json:contact
    type: TARGET
mappings:
  - id: full-name
    type: combine
    delimiter: SPACE
    sources:
      - doc_id: person
        path: /first
        type: STRING
        index: 0
      - doc_id: person
        path: /last
        type: STRING
        index: 1
    targets:
      - doc_id: contact
        path: /name
        type: STRING
        actions:
          - name: to_upper
  - type: MAP
    sources:
      - doc_id: person
        path: /age
        type: INTEGER
    targets:
      - doc_id: contact
        path: /age
        type: STRING
        actions:
          - name: append
            arguments:
              value: " years"
`

const contactJSON = `{
	"name": "person-to-contact",
	"data_sources": [
		{"id": "person", "uri": "json:person", "type": "SOURCE"},
		{"id": "contact", "uri": "json:contact", "type": "TARGET"}
	],
	"mappings": [
		{
			"type": "MAP",
			"sources": [{"doc_id": "person", "path": "/first", "type": "STRING"}],
			"targets": [{"doc_id": "contact", "path": "/given", "type": "STRING"}]
		}
	],
	"constants": [{"name": "country", "value": "US", "type": "STRING"}]
}`

func TestParseYAML(t *testing.T) {
	def, err := loader.Parse([]byte(contactYAML), loader.FormatYAML)
	require.NoError(t, err)

	assert.Equal(t, "person-to-contact", def.Name)
	require.Len(t, def.DataSources, 2)
	assert.Equal(t, models.DataSourceTarget, def.DataSources[1].Type)
	require.Len(t, def.Mappings, 2)

	combine := def.Mappings[0]
	assert.Equal(t, models.MappingTypeCombine, combine.Type)
	require.Len(t, combine.Sources, 2)
	require.NotNil(t, combine.Sources[1].Index)
	assert.Equal(t, 1, *combine.Sources[1].Index)
	assert.Equal(t, "to_upper", combine.Targets[0].Actions[0].Name)

	appendArgs, ok := def.Mappings[1].Targets[0].Actions[0].Arguments.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, " years", appendArgs["value"])
}

func TestParseJSON(t *testing.T) {
	def, err := loader.Parse([]byte(contactJSON), loader.FormatJSON)
	require.NoError(t, err)

	assert.Len(t, def.Mappings, 1)
	require.Len(t, def.Constants, 1)
	assert.Equal(t, "US", def.Constants[0].Value)
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		format  loader.Format
		wantErr string
	}{
		{
			name:    "unknown yaml key",
			data:    "name: x\ndatasources: []\n",
			format:  loader.FormatYAML,
			wantErr: "failed to decode yaml",
		},
		{
			name:    "unknown json key",
			data:    `{"name": "x", "mapings": []}`,
			format:  loader.FormatJSON,
			wantErr: "failed to decode json",
		},
		{
			name:    "malformed json",
			data:    `{"name": `,
			format:  loader.FormatJSON,
			wantErr: "failed to decode json",
		},
		{
			name:    "no data sources",
			data:    "name: x\nmappings: []\n",
			format:  loader.FormatYAML,
			wantErr: "no data sources",
		},
		{
			name:    "empty document",
			data:    "",
			format:  loader.FormatYAML,
			wantErr: "no data sources",
		},
		{
			name:    "mapping without type",
			data:    "data_sources:\n  - {id: a, uri: 'json:a', type: SOURCE}\nmappings:\n  - sources: []\n",
			format:  loader.FormatYAML,
			wantErr: "mapping-1 has no type",
		},
		{
			name:    "unknown format",
			data:    "{}",
			format:  loader.Format("toml"),
			wantErr: "unknown definition format",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := loader.Parse([]byte(tt.data), tt.format)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	yamlPath := filepath.Join(dir, "contact.yml")
	jsonPath := filepath.Join(dir, "contact.json")
	require.NoError(t, os.WriteFile(yamlPath, []byte(contactYAML), 0o600))
	require.NoError(t, os.WriteFile(jsonPath, []byte(contactJSON), 0o600))

	fromYAML, err := loader.Load(yamlPath)
	require.NoError(t, err)
	assert.Len(t, fromYAML.Mappings, 2)

	fromJSON, err := loader.Load(jsonPath)
	require.NoError(t, err)
	assert.Len(t, fromJSON.Mappings, 1)

	_, err = loader.Load(filepath.Join(dir, "contact.txt"))
	assert.ErrorIs(t, err, loader.ErrUnknownFormat)

	_, err = loader.Load(filepath.Join(dir, "missing.yaml"))
	assert.ErrorContains(t, err, "failed to read definition")
}

func TestLoadedDefinitionRuns(t *testing.T) {
	def, err := loader.Parse([]byte(contactYAML), loader.FormatYAML)
	require.NoError(t, err)

	modules, err := engine.NewModuleRegistry(jsonmodule.Registration())
	require.NoError(t, err)
	logger := ectologger.NewEctoLogger(func(_ ectologger.EctoLogMessage) {})
	mappingContext, err := engine.NewFactory(logger, engine.WithModuleRegistry(modules)).CreateContext(def)
	require.NoError(t, err)

	session, err := mappingContext.CreateSession()
	require.NoError(t, err)
	require.NoError(t, session.SetSourceDocument("person", `{"first":"Ada","last":"Lovelace","age":36}`))
	require.NoError(t, mappingContext.Process(context.Background(), session))
	assert.Empty(t, session.Audits())

	document, ok := session.TargetDocument("contact")
	require.True(t, ok)
	assert.Equal(t, map[string]any{"name": "ADA LOVELACE", "age": "36 years"}, document)
}
