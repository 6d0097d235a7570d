package validation

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

const (
	MaxTitleLen   = 300
	MaxInputLen   = 50000
	MaxOutputLen  = 100000
	MaxTags       = 10
	MaxTagLen     = 32
	MaxAIModelLen = 100
)

// PromptFields is the user-supplied part of a prompt.
type PromptFields struct {
	Title   string
	Input   string
	Tags    []string
	AIModel string
	Output  string
}

// NormalizeTags trims tags and drops empty and repeated entries, keeping first-seen order.
func NormalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))
	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		if tag == "" {
			continue
		}
		key := strings.ToLower(tag)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, tag)
	}
	return out
}

// ValidatePrompt checks required fields and length limits. Tags must already be
// normalized.
func ValidatePrompt(f PromptFields) error {
	if strings.TrimSpace(f.Title) == "" {
		return fmt.Errorf("title is required")
	}
	if utf8.RuneCountInString(f.Title) > MaxTitleLen {
		return fmt.Errorf("title too long (max %d characters)", MaxTitleLen)
	}
	if strings.TrimSpace(f.Input) == "" {
		return fmt.Errorf("input is required")
	}
	if utf8.RuneCountInString(f.Input) > MaxInputLen {
		return fmt.Errorf("input too long (max %d characters)", MaxInputLen)
	}
	if len(f.Tags) == 0 {
		return fmt.Errorf("at least one tag is required")
	}
	if len(f.Tags) > MaxTags {
		return fmt.Errorf("too many tags (max %d)", MaxTags)
	}
	for _, tag := range f.Tags {
		if utf8.RuneCountInString(tag) > MaxTagLen {
			return fmt.Errorf("tag %q too long (max %d characters)", tag, MaxTagLen)
		}
	}
	if strings.TrimSpace(f.AIModel) == "" {
		return fmt.Errorf("ai_model is required")
	}
	if utf8.RuneCountInString(f.AIModel) > MaxAIModelLen {
		return fmt.Errorf("ai_model too long (max %d characters)", MaxAIModelLen)
	}
	return ValidateOutput(f.Output)
}

// ValidateOutput checks a prompt's recorded model output.
func ValidateOutput(output string) error {
	if strings.TrimSpace(output) == "" {
		return fmt.Errorf("output is required")
	}
	if utf8.RuneCountInString(output) > MaxOutputLen {
		return fmt.Errorf("output too long (max %d characters)", MaxOutputLen)
	}
	return nil
}
