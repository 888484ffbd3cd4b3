package pipeline

import (
	"fmt"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/jchntrl/power-point-assistant/internal/core/document"
	"github.com/jchntrl/power-point-assistant/internal/core/project"
)

const (
	// MinDescriptionLength は案件説明の最小文字数
	MinDescriptionLength = 20

	// MinClientNameLength は顧客名の最小文字数
	MinClientNameLength = 2
)

// ValidationConfig は入力検証の設定
type ValidationConfig struct {
	MaxFiles            int
	AllowedTypes        []string
	Provider            string // LLMプロバイダ名（メッセージ表示用）
	APIKeyConfigured    bool
	DefaultTemplatePath string
}

// ValidateInputs は生成を始める前に入力を検証する
func ValidateInputs(desc project.Description, files []document.File, cfg ValidationConfig) Validation {
	v := Validation{Valid: true, Errors: []string{}, Warnings: []string{}}
	addError := func(msg string) {
		v.Errors = append(v.Errors, msg)
		v.Valid = false
	}

	if utf8.RuneCountInString(strings.TrimSpace(desc.Description)) < MinDescriptionLength {
		addError(fmt.Sprintf("Project description too short (minimum %d characters)", MinDescriptionLength))
	}
	if utf8.RuneCountInString(strings.TrimSpace(desc.ClientName)) < MinClientNameLength {
		addError(fmt.Sprintf("Client name too short (minimum %d characters)", MinClientNameLength))
	}

	switch {
	case len(files) == 0:
		v.Warnings = append(v.Warnings, "No reference documents provided - using default content patterns")
	case cfg.MaxFiles > 0 && len(files) > cfg.MaxFiles:
		addError(fmt.Sprintf("Too many files (%d), maximum %d", len(files), cfg.MaxFiles))
	}

	for _, f := range files {
		if !allowed(cfg.AllowedTypes, f.Ext()) {
			addError(fmt.Sprintf("Unsupported file type: %s", f.Name))
		}
	}

	if !cfg.APIKeyConfigured {
		addError(fmt.Sprintf("%s API key not properly configured", providerLabel(cfg.Provider)))
	}

	if cfg.DefaultTemplatePath != "" {
		if _, err := os.Stat(cfg.DefaultTemplatePath); err != nil {
			v.Warnings = append(v.Warnings, fmt.Sprintf("Default template not found: %s", cfg.DefaultTemplatePath))
		}
	}

	return v
}

// ValidateInputs は設定済みの制約で入力を検証する
func (o *Orchestrator) ValidateInputs(desc project.Description, files []document.File) Validation {
	return ValidateInputs(desc, files, o.cfg.Validation)
}

func allowed(types []string, ext string) bool {
	if len(types) == 0 {
		types = []string{string(document.FormatPPTX), string(document.FormatPDF)}
	}
	for _, t := range types {
		if strings.EqualFold(t, ext) {
			return true
		}
	}
	return false
}

func providerLabel(provider string) string {
	switch strings.ToLower(provider) {
	case "gemini":
		return "Gemini"
	case "", "openai":
		return "OpenAI"
	default:
		return provider
	}
}
