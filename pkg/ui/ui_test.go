package ui_test

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/arthur-debert/cargo-acap/pkg/acap"
	"github.com/arthur-debert/cargo-acap/pkg/cargo"
	"github.com/arthur-debert/cargo-acap/pkg/errors"
	"github.com/arthur-debert/cargo-acap/pkg/types"
	"github.com/arthur-debert/cargo-acap/pkg/ui"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func sampleReport() *acap.Report {
	return &acap.Report{
		Architecture: types.Aarch64,
		RunID:        "0b9e4d1c-3c0f-4a57-9a43-0d8e3c6a1f00",
		Artifacts: []acap.Artifact{
			acap.NewBundle("/ws/target/aarch64/app_1.0.0_aarch64.eap", "app"),
			acap.NewExecutable("/ws/target/aarch64-unknown-linux-gnu/debug/tool"),
		},
		Diagnostics: []cargo.Diagnostic{
			{Kind: cargo.DiagnosticDecodeFailure, Line: 3, Detail: "not json"},
		},
	}
}

func TestNewRenderer(t *testing.T) {
	for _, f := range []ui.Format{ui.FormatAuto, ui.FormatTerminal, ui.FormatText, ui.FormatJSON, ui.FormatYAML} {
		t.Run(f.String(), func(t *testing.T) {
			r, err := ui.NewRenderer(f, &bytes.Buffer{})
			require.NoError(t, err)
			assert.NotNil(t, r)
		})
	}

	r, err := ui.NewRenderer(ui.Format(999), &bytes.Buffer{})
	assert.Error(t, err)
	assert.Nil(t, r)
}

func TestTextRendersReport(t *testing.T) {
	buf := &bytes.Buffer{}
	r, err := ui.NewRenderer(ui.FormatText, buf)
	require.NoError(t, err)

	require.NoError(t, r.RenderResult(sampleReport()))

	out := buf.String()
	assert.Contains(t, out, "aarch64 run 0b9e4d1c")
	assert.Contains(t, out, "  eap  /ws/target/aarch64/app_1.0.0_aarch64.eap (app)\n")
	assert.Contains(t, out, "  exe  /ws/target/aarch64-unknown-linux-gnu/debug/tool\n")
	assert.Contains(t, out, "1 diagnostic\n")
	assert.Contains(t, out, "decode-failure (line 3): not json")
}

func TestTextRendersEmptyReport(t *testing.T) {
	buf := &bytes.Buffer{}
	r, _ := ui.NewRenderer(ui.FormatText, buf)

	require.NoError(t, r.RenderResult([]*acap.Report{
		{Architecture: types.Aarch64, RunID: "a"},
		{Architecture: types.Armv7hf, RunID: "b"},
	}))

	out := buf.String()
	assert.Contains(t, out, "aarch64 run a\n  no executables built\n\narmv7hf run b\n")
}

func TestTerminalRendersReport(t *testing.T) {
	buf := &bytes.Buffer{}
	r, _ := ui.NewRenderer(ui.FormatTerminal, buf)

	require.NoError(t, r.RenderResult(sampleReport()))
	assert.Contains(t, buf.String(), "app_1.0.0_aarch64.eap")
	assert.Contains(t, buf.String(), "(app)")
}

func TestJSONRendersReport(t *testing.T) {
	buf := &bytes.Buffer{}
	r, _ := ui.NewRenderer(ui.FormatJSON, buf)

	require.NoError(t, r.RenderResult(sampleReport()))

	var got map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, "aarch64", got["architecture"])
	artifacts := got["artifacts"].([]interface{})
	require.Len(t, artifacts, 2)
	assert.Equal(t, "eap", artifacts[0].(map[string]interface{})["kind"])
	assert.Equal(t, "app", artifacts[0].(map[string]interface{})["name"])
	assert.NotContains(t, artifacts[1].(map[string]interface{}), "name")
}

func TestYAMLRendersReport(t *testing.T) {
	buf := &bytes.Buffer{}
	r, _ := ui.NewRenderer(ui.FormatYAML, buf)

	require.NoError(t, r.RenderResult(sampleReport()))

	var got struct {
		Architecture string `yaml:"architecture"`
		Artifacts    []struct {
			Kind string `yaml:"kind"`
			Path string `yaml:"path"`
		} `yaml:"artifacts"`
		Diagnostics []struct {
			Kind string `yaml:"kind"`
			Line int    `yaml:"line"`
		} `yaml:"diagnostics"`
	}
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, "aarch64", got.Architecture)
	require.Len(t, got.Artifacts, 2)
	assert.Equal(t, "exe", got.Artifacts[1].Kind)
	require.Len(t, got.Diagnostics, 1)
	assert.Equal(t, 3, got.Diagnostics[0].Line)
}

func TestRenderError(t *testing.T) {
	err := errors.New(errors.ErrMissingResource, "LICENSE not found").WithDetail("file", "LICENSE")

	t.Run("text", func(t *testing.T) {
		buf := &bytes.Buffer{}
		r, _ := ui.NewRenderer(ui.FormatText, buf)
		require.NoError(t, r.RenderError(err))
		assert.Equal(t, "Error: [MISSING_RESOURCE] LICENSE not found\n  file: LICENSE\n", buf.String())
	})

	t.Run("json", func(t *testing.T) {
		buf := &bytes.Buffer{}
		r, _ := ui.NewRenderer(ui.FormatJSON, buf)
		require.NoError(t, r.RenderError(err))

		var got map[string]interface{}
		require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
		assert.Equal(t, "MISSING_RESOURCE", got["code"])
		assert.Equal(t, map[string]interface{}{"file": "LICENSE"}, got["details"])
	})

	t.Run("yaml", func(t *testing.T) {
		buf := &bytes.Buffer{}
		r, _ := ui.NewRenderer(ui.FormatYAML, buf)
		require.NoError(t, r.RenderError(err))
		assert.Contains(t, buf.String(), "code: MISSING_RESOURCE")
	})
}

func TestRenderMessage(t *testing.T) {
	buf := &bytes.Buffer{}
	r, _ := ui.NewRenderer(ui.FormatJSON, buf)
	require.NoError(t, r.RenderMessage("done"))
	assert.JSONEq(t, `{"message":"done"}`, buf.String())
}
