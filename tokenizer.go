package main

import (
	"fmt"
	"strings"

	tiktoken "github.com/pkoukk/tiktoken-go"
	hf "github.com/sugarme/tokenizer"
	"github.com/sugarme/tokenizer/pretrained"
	"go.uber.org/zap"
)

// Tokenizer counts tokens in the finished artifact.
type Tokenizer interface {
	CountTokens(text string) (int, error)
}

type tiktokenCounter struct {
	ttk *tiktoken.Tiktoken
}

func (w *tiktokenCounter) CountTokens(text string) (int, error) {
	return len(w.ttk.EncodeOrdinary(text)), nil
}

type hfCounter struct {
	htk *hf.Tokenizer
}

func (w *hfCounter) CountTokens(text string) (int, error) {
	en, err := w.htk.EncodeSingle(text)
	if err != nil {
		return 0, fmt.Errorf("huggingface tokenizer failed to encode text: %w", err)
	}
	return len(en.Tokens), nil
}

const (
	defaultTiktokenModel = "gpt-4o"
	defaultHFModel       = "gpt2"
)

// TokenizerConfig selects a tokenizer backend.
type TokenizerConfig struct {
	Type  string // tiktoken or huggingface
	Model string
	File  string // Local tokenizer.json, huggingface only
}

// newTokenizer loads the configured backend. Both may download model data on first use.
func newTokenizer(cfg TokenizerConfig, logger *zap.Logger) (Tokenizer, error) {
	switch strings.ToLower(cfg.Type) {
	case "", "tiktoken":
		model := cfg.Model
		if model == "" {
			model = defaultTiktokenModel
		}
		tke, err := tiktoken.EncodingForModel(model)
		if err != nil {
			logger.Warn("Tiktoken model not found, using default",
				zap.String("model", model), zap.String("default", defaultTiktokenModel), zap.Error(err))
			tke, err = tiktoken.EncodingForModel(defaultTiktokenModel)
			if err != nil {
				return nil, fmt.Errorf("failed to get tiktoken encoding for default model '%s': %w", defaultTiktokenModel, err)
			}
		}
		return &tiktokenCounter{ttk: tke}, nil

	case "huggingface":
		path := cfg.File
		if path == "" {
			model := cfg.Model
			if model == "" {
				model = defaultHFModel
			}
			logger.Info("Fetching tokenizer", zap.String("model", model))
			cached, err := hf.CachedPath(model, "tokenizer.json")
			if err != nil {
				return nil, fmt.Errorf("failed to get cache path for model %s: %w", model, err)
			}
			path = cached
		}
		ttk, err := pretrained.FromFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to load tokenizer from %s: %w", path, err)
		}
		return &hfCounter{htk: ttk}, nil

	default:
		return nil, fmt.Errorf("unsupported tokenizer type: %s. Use 'tiktoken' or 'huggingface'", cfg.Type)
	}
}
