// Package assets provides the embedded prompt template bundles.
//
// Each chat-completion call type (situation summary, style analysis, reply
// suggestion, styled reply suggestion, title suggestion, extension) has one
// YAML bundle under prompts/ carrying its model, sampling parameters, and
// system prompt. Bundles are embedded at compile time and parsed once; at
// request time they are read-only.
package assets

import (
	"embed"
	"fmt"
	"io/fs"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed prompts/*.yaml
var promptFS embed.FS

// Bundle names resolved by the agents.
const (
	BundleSituationSummary = "situation-summary"
	BundleStyleAnalysis    = "style-analysis"
	BundleReplySuggestion  = "reply-suggestion"
	BundleStyledReply      = "styled-reply-suggestion"
	BundleTitleSuggestion  = "title-suggestion"
	BundleExtendSuggestion = "extend-suggestion"
)

// Params are the sampling parameters sent with a chat-completion payload.
type Params struct {
	TopP          float64 `yaml:"topP"`
	TopK          int     `yaml:"topK"`
	MaxTokens     int     `yaml:"maxTokens"`
	Temperature   float64 `yaml:"temperature"`
	RepeatPenalty float64 `yaml:"repeatPenalty"`
}

// Bundle is one prompt template bundle: which model to call, how to sample,
// and the system prompt framing the user input.
type Bundle struct {
	Name   string `yaml:"name"`
	Model  string `yaml:"model"`
	System string `yaml:"system"`
	Params Params `yaml:"params"`
}

var (
	loadOnce sync.Once
	bundles  map[string]*Bundle
	loadErr  error
)

func loadAll() {
	bundles = make(map[string]*Bundle)
	entries, err := fs.ReadDir(promptFS, "prompts")
	if err != nil {
		loadErr = fmt.Errorf("read embedded prompts: %w", err)
		return
	}
	for _, e := range entries {
		if !strings.HasSuffix(e.Name(), ".yaml") {
			continue
		}
		data, err := promptFS.ReadFile("prompts/" + e.Name())
		if err != nil {
			loadErr = fmt.Errorf("read %s: %w", e.Name(), err)
			return
		}
		var b Bundle
		if err := yaml.Unmarshal(data, &b); err != nil {
			loadErr = fmt.Errorf("parse %s: %w", e.Name(), err)
			return
		}
		if b.Name == "" {
			b.Name = strings.TrimSuffix(e.Name(), ".yaml")
		}
		bundles[b.Name] = &b
	}
}

// Load returns the named prompt bundle.
func Load(name string) (*Bundle, error) {
	loadOnce.Do(loadAll)
	if loadErr != nil {
		return nil, loadErr
	}
	b, ok := bundles[name]
	if !ok {
		return nil, fmt.Errorf("unknown prompt bundle %q", name)
	}
	return b, nil
}

// MustLoad is Load for bundles known at compile time; a missing bundle is a
// packaging bug, so it panics.
func MustLoad(name string) *Bundle {
	b, err := Load(name)
	if err != nil {
		panic(err)
	}
	return b
}
