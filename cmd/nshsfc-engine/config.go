package main

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/usnistgov/nshsfc/core/jsonhelper"
	"github.com/usnistgov/nshsfc/nsh/nshplugin"
	"github.com/xeipuuv/gojsonschema"
)

//go:embed config.schema.json
var configSchema []byte

type engineConfig struct {
	Socket    string                 `json:"socket"`
	Metrics   string                 `json:"metrics"`
	GqlServer string                 `json:"gqlserver"`
	Startup   []string               `json:"startup"`
	Server    nshplugin.ServerConfig `json:"server"`
}

func defaultConfig() engineConfig {
	return engineConfig{
		Socket:    "/run/vpp/api.sock",
		Metrics:   "127.0.0.1:9191",
		GqlServer: "http://127.0.0.1:3030/",
		Startup:   []string{},
	}
}

type schemaError struct {
	*gojsonschema.Result
}

func (e schemaError) Error() string {
	var b strings.Builder
	fmt.Fprintln(&b, "JSON document failed schema validation:")
	for _, desc := range e.Result.Errors() {
		fmt.Fprintln(&b, "-", desc)
	}
	return b.String()
}

// parseConfig validates a JSON document and merges it over defaults.
func parseConfig(doc []byte) (cfg engineConfig, e error) {
	overlay := map[string]any{}
	if len(doc) > 0 {
		if e = json.Unmarshal(doc, &overlay); e != nil {
			return cfg, fmt.Errorf("config: %w", e)
		}
	}

	result, e := gojsonschema.Validate(gojsonschema.NewBytesLoader(configSchema), gojsonschema.NewGoLoader(overlay))
	if e != nil {
		return cfg, fmt.Errorf("JSON schema validator error: %w", e)
	}
	if !result.Valid() {
		return cfg, schemaError{result}
	}

	merged, e := jsonhelper.Merge(defaultConfig(), overlay)
	if e != nil {
		return cfg, e
	}
	e = jsonhelper.Roundtrip(merged, &cfg, jsonhelper.DisallowUnknownFields)
	return cfg, e
}

// loadConfig reads the config file, if any.
func loadConfig(filename string) (engineConfig, error) {
	if filename == "" {
		return parseConfig(nil)
	}

	doc, e := os.ReadFile(filename)
	if e != nil {
		if errors.Is(e, os.ErrNotExist) {
			return engineConfig{}, fmt.Errorf("config file %s not found", filename)
		}
		return engineConfig{}, e
	}
	return parseConfig(doc)
}
