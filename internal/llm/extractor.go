// Package llm - extractor.go provides generic LLM-based structured extraction.
package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
	"go.uber.org/zap"

	"github.com/jonathan/job-scout/internal/logger"
	"github.com/jonathan/job-scout/internal/schemas"
	"github.com/jonathan/job-scout/internal/utils"
)

// FieldKind is the JSON type an extracted field is coerced to.
type FieldKind string

// Field kinds
const (
	KindString     FieldKind = "string"
	KindStringList FieldKind = "string_list"
	KindInteger    FieldKind = "integer"
)

// ExtractionSchema defines the structure for LLM-based content extraction.
// It provides a reusable way to define what information to extract from text.
type ExtractionSchema struct {
	Name        string        // Schema name (e.g., "CandidateProfile", "MatchResult")
	Description string        // System prompt preamble describing the extraction task
	Fields      []SchemaField // Expected output fields
}

// SchemaField defines a single field in the extraction output.
type SchemaField struct {
	Name        string    // JSON field name
	Kind        FieldKind // Output type
	Description string    // Description for the LLM
	Required    bool      // Whether the prompt marks this field as required
	Default     any       // Value used when the field is missing; nil means the kind's zero value
}

func (f SchemaField) typeHint() string {
	switch f.Kind {
	case KindStringList:
		return `["string"]`
	case KindInteger:
		return "integer"
	default:
		return `"string"`
	}
}

func (f SchemaField) defaultValue() any {
	if f.Default != nil {
		return f.Default
	}
	switch f.Kind {
	case KindStringList:
		return []any{}
	case KindInteger:
		return 0
	default:
		return ""
	}
}

// JSONSchema renders the schema as a JSON Schema document. Every field is
// required because defaults are applied before validation.
func (s ExtractionSchema) JSONSchema() string {
	properties := make(map[string]any, len(s.Fields))
	required := make([]string, 0, len(s.Fields))
	for _, f := range s.Fields {
		switch f.Kind {
		case KindStringList:
			properties[f.Name] = map[string]any{"type": "array", "items": map[string]any{"type": "string"}}
		case KindInteger:
			properties[f.Name] = map[string]any{"type": "integer"}
		default:
			properties[f.Name] = map[string]any{"type": "string"}
		}
		required = append(required, f.Name)
	}

	doc := map[string]any{
		"$schema":    "http://json-schema.org/draft-07/schema#",
		"title":      s.Name,
		"type":       "object",
		"properties": properties,
		"required":   required,
	}
	data, _ := json.Marshal(doc)
	return string(data)
}

// BuildExtractionPrompt constructs the LLM prompt from schema and input text.
func BuildExtractionPrompt(schema ExtractionSchema, inputText string) string {
	var sb strings.Builder

	// System description
	sb.WriteString(schema.Description)
	sb.WriteString("\n\n")

	// Output schema
	sb.WriteString("Return ONLY valid JSON matching this exact structure:\n{\n")
	for i, field := range schema.Fields {
		requiredHint := ""
		if field.Required {
			requiredHint = " (required)"
		}
		sb.WriteString(fmt.Sprintf("  \"%s\": %s%s", field.Name, field.typeHint(), requiredHint))
		if field.Description != "" {
			sb.WriteString(fmt.Sprintf(" // %s", field.Description))
		}
		if i < len(schema.Fields)-1 {
			sb.WriteString(",")
		}
		sb.WriteString("\n")
	}
	sb.WriteString("}\n\n")

	// Instructions
	sb.WriteString("IMPORTANT:\n")
	sb.WriteString("- Extract information directly from the text, do not invent details.\n")
	sb.WriteString("- Use empty arrays for missing lists and 0 for unknown numbers.\n")
	sb.WriteString("- Return ONLY the JSON object, no markdown, no explanation, no code blocks.\n\n")

	// Input text
	sb.WriteString("Input text:\n\"\"\"\n")
	sb.WriteString(inputText)
	sb.WriteString("\n\"\"\"\n")

	return sb.String()
}

// ParseResponse turns raw model output into a JSON object conforming to schema.
// Fences are stripped, missing fields get defaults, values are coerced to their
// declared kind, and the result is validated. Unknown keys are kept.
func ParseResponse(raw string, schema ExtractionSchema) (map[string]any, []string, error) {
	cleaned := CleanJSONBlock(raw)

	var decoded any
	if err := json.Unmarshal([]byte(cleaned), &decoded); err != nil {
		return nil, nil, &ExtractionParseError{Raw: raw, Message: "response is not valid JSON", Cause: err}
	}
	obj, ok := decoded.(map[string]any)
	if !ok {
		return nil, nil, &ExtractionParseError{Raw: raw, Message: fmt.Sprintf("expected a JSON object, got %T", decoded)}
	}

	var missing []string
	for _, f := range schema.Fields {
		v, present := obj[f.Name]
		if !present || v == nil {
			obj[f.Name] = f.defaultValue()
			missing = append(missing, f.Name)
			continue
		}
		if coerced, ok := coerce(f.Kind, v); ok {
			obj[f.Name] = coerced
		}
	}

	if err := schemas.ValidateObject(schema.Name, schema.JSONSchema(), obj); err != nil {
		return nil, missing, &ExtractionParseError{Raw: raw, Message: "response does not match " + schema.Name, Cause: err}
	}

	return obj, missing, nil
}

// DecodeInto copies a parsed object into a typed struct, matching keys
// against the struct's json tags.
func DecodeInto(obj map[string]any, out any) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "json",
		WeaklyTypedInput: true,
		Result:           out,
	})
	if err != nil {
		return err
	}
	return decoder.Decode(obj)
}

func coerce(kind FieldKind, v any) (any, bool) {
	switch kind {
	case KindInteger:
		return coerceInt(v)
	case KindStringList:
		return coerceStringList(v), true
	default:
		return coerceString(v), true
	}
}

func coerceInt(v any) (any, bool) {
	switch val := v.(type) {
	case float64:
		return int(math.Round(val)), true
	case string:
		s := strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(val), "%"))
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return int(math.Round(f)), true
		}
	}
	return nil, false
}

func coerceString(v any) string {
	switch val := v.(type) {
	case string:
		return strings.TrimSpace(val)
	case []any:
		items := coerceStringList(val)
		parts := make([]string, 0, len(items))
		for _, item := range items {
			parts = append(parts, item.(string))
		}
		return strings.Join(parts, ", ")
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(val)
	default:
		data, err := json.Marshal(val)
		if err != nil {
			return fmt.Sprint(val)
		}
		return string(data)
	}
}

func coerceStringList(v any) []any {
	switch val := v.(type) {
	case []any:
		out := make([]any, 0, len(val))
		for _, item := range val {
			if item == nil {
				continue
			}
			if s := coerceString(item); s != "" {
				out = append(out, s)
			}
		}
		return out
	case string:
		if s := strings.TrimSpace(val); s != "" {
			return []any{s}
		}
		return []any{}
	default:
		return []any{coerceString(val)}
	}
}

// Extractor calls a model and returns schema-checked JSON objects.
type Extractor struct {
	client  Client
	tier    ModelTier
	retry   RetryPolicy
	timeout time.Duration
	sleep   utils.SleepFunc
	logger  *zap.Logger
}

// NewExtractor creates an extractor over client using cfg's retry policy and timeout.
func NewExtractor(client Client, cfg *Config, log *zap.Logger) *Extractor {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	retry := cfg.Retry
	if retry.MaxAttempts < 1 {
		retry.MaxAttempts = 1
	}
	fields := logger.CommonFields(string(cfg.Provider), client.GetModel(TierStandard))
	return &Extractor{
		client:  client,
		tier:    TierStandard,
		retry:   retry,
		timeout: cfg.Timeout,
		sleep:   utils.WaitFor,
		logger:  logger.WithFields(log, fields...),
	}
}

// Extract sends prompt to the model and parses the answer against schema.
// Transport failures are retried with exponential backoff and end in
// ExtractionAPIError; unusable answers end in ExtractionParseError.
func (e *Extractor) Extract(ctx context.Context, prompt string, schema ExtractionSchema) (map[string]any, error) {
	raw, err := e.generate(ctx, prompt)
	if err != nil {
		return nil, err
	}

	obj, missing, err := ParseResponse(raw, schema)
	if err != nil {
		e.logger.Warn("unusable model response",
			zap.String("schema", schema.Name),
			zap.String("raw", logger.TruncateForLog(raw, 300)),
			zap.Error(err))
		return nil, err
	}
	if len(missing) > 0 {
		e.logger.Debug("defaulted missing fields", zap.String("schema", schema.Name), zap.Strings("fields", missing))
	}
	return obj, nil
}

func (e *Extractor) generate(ctx context.Context, prompt string) (string, error) {
	var lastErr error
	attempts := 0
	for attempt := 0; attempt < e.retry.MaxAttempts; attempt++ {
		attempts = attempt + 1

		callCtx, cancel := ctx, context.CancelFunc(func() {})
		if e.timeout > 0 {
			callCtx, cancel = context.WithTimeout(ctx, e.timeout)
		}
		raw, err := e.client.GenerateJSON(callCtx, prompt, e.tier)
		cancel()
		if err == nil {
			return raw, nil
		}
		lastErr = err

		e.logger.Warn("LLM call failed",
			zap.Int("attempt", attempts),
			zap.Int("max_attempts", e.retry.MaxAttempts),
			zap.Error(err))

		if ctx.Err() != nil {
			break
		}
		if attempt < e.retry.MaxAttempts-1 {
			if werr := e.sleep(ctx, e.retry.Backoff(attempt)); werr != nil {
				break
			}
		}
	}
	return "", &ExtractionAPIError{Attempts: attempts, Cause: lastErr}
}

// --- Predefined Schemas ---

// CandidateProfileSchema returns the extraction schema for resumes.
func CandidateProfileSchema() ExtractionSchema {
	return ExtractionSchema{
		Name: "CandidateProfile",
		Description: `You are a professional resume parser. Extract key information from this resume.
Include technical and soft skills. Estimate years of experience from the work history.
Infer preferred role types from the experience when they are not stated.`,
		Fields: []SchemaField{
			{Name: "skills", Kind: KindStringList, Description: "Technical and soft skills", Required: true},
			{Name: "experience_years", Kind: KindInteger, Description: "Total years of professional experience", Required: true},
			{Name: "education", Kind: KindStringList, Description: "Degrees and certifications"},
			{Name: "previous_titles", Kind: KindStringList, Description: "Previous job titles, most recent first"},
			{Name: "industries", Kind: KindStringList, Description: "Industries worked in"},
			{Name: "achievements", Kind: KindStringList, Description: "Key achievements"},
			{Name: "preferred_roles", Kind: KindStringList, Description: "Preferred role types"},
			{Name: "location", Kind: KindString, Description: "Location, or Unknown", Default: "Unknown"},
		},
	}
}

// MatchResultSchema returns the schema for job match scoring responses.
// A missing recommendation is left empty so callers can derive it from the score.
func MatchResultSchema() ExtractionSchema {
	return ExtractionSchema{
		Name:        "MatchResult",
		Description: "You are an expert career advisor and recruiter. Score how well a job matches a candidate's profile.",
		Fields: []SchemaField{
			{Name: "score", Kind: KindInteger, Description: "Overall match from 0 to 100", Required: true},
			{Name: "reasoning", Kind: KindString, Description: "Clear 2-3 sentence explanation of the score", Required: true, Default: "No reasoning provided"},
			{Name: "pros", Kind: KindStringList, Description: "Specific reasons the job fits"},
			{Name: "cons", Kind: KindStringList, Description: "Specific reasons the job does not fit"},
			{Name: "skill_match_percentage", Kind: KindInteger, Description: "Share of required skills the candidate has, 0 to 100"},
			{Name: "strong_matches", Kind: KindStringList, Description: "Requirements the candidate clearly meets"},
			{Name: "gaps", Kind: KindStringList, Description: "Requirements the candidate is missing"},
			{Name: "recommendation", Kind: KindString, Description: `One of "Strong Match", "Good Match", "Moderate Match", "Weak Match"`},
			{Name: "strategic_considerations", Kind: KindStringList, Description: "Things to weigh before applying"},
		},
	}
}

// StructuredExtractor is the contract shared by resume parsing and match
// scoring. *Extractor implements it.
type StructuredExtractor interface {
	Extract(ctx context.Context, prompt string, schema ExtractionSchema) (map[string]any, error)
}

var _ StructuredExtractor = (*Extractor)(nil)
