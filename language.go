package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// LanguageInfo holds the parts of a linguist-style language entry used for file detection.
type LanguageInfo struct {
	Type       string   `yaml:"type"` // e.g., programming, data, markup
	Extensions []string `yaml:"extensions"`
	Filenames  []string `yaml:"filenames"`
}

// LanguageMap maps language names (e.g., "Go") to their details.
type LanguageMap map[string]LanguageInfo

// LoadedLanguageData holds the parsed language map plus lookup tables.
type LoadedLanguageData struct {
	Langs        LanguageMap
	extensionMap map[string]string // ".go" -> "Go"
	filenameMap  map[string]string // "Makefile" -> "Makefile"
}

// loadLanguageData reads and indexes a languages.yml file.
func loadLanguageData(path string) (*LoadedLanguageData, error) {
	yamlFile, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading language file %s: %w", path, err)
	}
	return parseLanguageData(yamlFile)
}

func parseLanguageData(raw []byte) (*LoadedLanguageData, error) {
	var langs LanguageMap
	if err := yaml.Unmarshal(raw, &langs); err != nil {
		return nil, fmt.Errorf("error parsing language definitions: %w", err)
	}

	data := &LoadedLanguageData{
		Langs:        langs,
		extensionMap: make(map[string]string),
		filenameMap:  make(map[string]string),
	}
	for langName, info := range langs {
		for _, ext := range info.Extensions {
			lowerExt := strings.ToLower(ext)
			if !strings.HasPrefix(lowerExt, ".") {
				lowerExt = "." + lowerExt
			}
			if data.extensionMap[lowerExt] == "" || langName < data.extensionMap[lowerExt] {
				// Map iteration order is random; the lexically smallest name wins ties.
				data.extensionMap[lowerExt] = langName
			}
		}
		for _, fname := range info.Filenames {
			if data.filenameMap[fname] == "" || langName < data.filenameMap[fname] {
				data.filenameMap[fname] = langName
			}
		}
	}
	return data, nil
}

// GetLanguageForFile determines the language for a path. Exact filenames win over extensions.
func (ld *LoadedLanguageData) GetLanguageForFile(filePath string) (string, bool) {
	if ld == nil {
		return "", false
	}

	baseName := filepath.Base(filePath)
	if lang, ok := ld.filenameMap[baseName]; ok {
		return lang, true
	}

	ext := strings.ToLower(filepath.Ext(baseName))
	if ext != "" {
		if lang, ok := ld.extensionMap[ext]; ok {
			return lang, true
		}
	}
	return "", false
}
