package usecase

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"unihelper/internal/academic/domain"
	"unihelper/pkg/ai"

	"github.com/go-playground/validator/v10"
)

// Intent is the coarse category assigned to an inbound message.
type Intent string

const (
	IntentAssignment Intent = "ASSIGNMENT"
	IntentNote       Intent = "NOTE"
	IntentQuery      Intent = "QUERY"
	IntentGeneral    Intent = "GENERAL"
)

// ExtractionError wraps a failed classification or entity extraction.
type ExtractionError struct {
	Stage string
	Err   error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("extraction failed at %s: %v", e.Stage, e.Err)
}

func (e *ExtractionError) Unwrap() error {
	return e.Err
}

// AssignmentEntities is the validated output of assignment extraction.
type AssignmentEntities struct {
	ClassName   string
	Title       string
	Description string
	DueDate     time.Time
	Priority    domain.Priority
}

// NoteEntities is the validated output of note extraction.
type NoteEntities struct {
	ClassName string
	Content   string
	NoteType  string
	Tags      []string
}

// QueryAnalysis is the structured understanding of a QUERY email.
type QueryAnalysis struct {
	QueryType   string   `json:"query_type" validate:"required"`
	TimeFilter  string   `json:"time_filter"`
	ClassFilter string   `json:"class_filter"`
	SearchTerms []string `json:"search_terms"`
}

// Extractor turns free-text email content into classified intents and
// typed entity records via the AI backend. Malformed structured output
// is retried once with a stricter prompt, then surfaced as an
// ExtractionError.
type Extractor struct {
	client   ai.Client
	validate *validator.Validate
	now      func() time.Time
}

// NewExtractor creates an Extractor on top of an AI client.
func NewExtractor(client ai.Client) *Extractor {
	return &Extractor{
		client:   client,
		validate: validator.New(),
		now:      time.Now,
	}
}

type intentResult struct {
	Intent     string  `json:"intent" validate:"required,oneof=ASSIGNMENT NOTE QUERY GENERAL"`
	Confidence float64 `json:"confidence"`
	Reasoning  string  `json:"reasoning"`
}

// ClassifyIntent classifies an email into one of the four intents.
// Callers fall back to IntentGeneral on error; the pipeline never
// blocks on a classification failure.
func (e *Extractor) ClassifyIntent(ctx context.Context, subject, body string) (Intent, error) {
	var result intentResult
	if err := e.generateValidatedJSON(ctx, formatIntentPrompt(subject, body), &result); err != nil {
		return IntentGeneral, &ExtractionError{Stage: "intent classification", Err: err}
	}
	log.Printf("[Extractor] Intent: %s (confidence: %.2f)", result.Intent, result.Confidence)
	return Intent(result.Intent), nil
}

type assignmentResult struct {
	ClassName   string `json:"class_name"`
	DueDate     string `json:"due_date"`
	Title       string `json:"title" validate:"required"`
	Description string `json:"description"`
	Priority    string `json:"priority" validate:"omitempty,oneof=high medium low"`
}

// ExtractAssignment extracts assignment entities. A missing or
// unparsable due date is a domain validation failure, never silently
// defaulted: the caller sends an error reply and writes no row.
func (e *Extractor) ExtractAssignment(ctx context.Context, subject, body string) (*AssignmentEntities, error) {
	prompt := formatAssignmentPrompt(subject, body, e.now().UTC().Format(time.RFC3339))

	var result assignmentResult
	if err := e.generateValidatedJSON(ctx, prompt, &result); err != nil {
		return nil, &ExtractionError{Stage: "assignment extraction", Err: err}
	}

	if result.DueDate == "" || strings.EqualFold(result.DueDate, "null") {
		return nil, fmt.Errorf("%w: no due date found", domain.ErrValidation)
	}
	dueDate, err := ParseDueDate(result.DueDate)
	if err != nil {
		return nil, fmt.Errorf("%w: unparsable due date %q", domain.ErrValidation, result.DueDate)
	}

	priority := domain.Priority(result.Priority)
	if priority == "" {
		priority = domain.PriorityMedium
	}

	return &AssignmentEntities{
		ClassName:   result.ClassName,
		Title:       result.Title,
		Description: result.Description,
		DueDate:     dueDate,
		Priority:    priority,
	}, nil
}

type noteResult struct {
	ClassName string   `json:"class_name"`
	Content   string   `json:"content" validate:"required"`
	NoteType  string   `json:"note_type"`
	Tags      []string `json:"tags"`
}

// ExtractNote extracts note entities.
func (e *Extractor) ExtractNote(ctx context.Context, subject, body string) (*NoteEntities, error) {
	var result noteResult
	if err := e.generateValidatedJSON(ctx, formatNotePrompt(subject, body), &result); err != nil {
		return nil, &ExtractionError{Stage: "note extraction", Err: err}
	}

	noteType := result.NoteType
	if noteType == "" {
		noteType = "general"
	}
	return &NoteEntities{
		ClassName: result.ClassName,
		Content:   result.Content,
		NoteType:  noteType,
		Tags:      result.Tags,
	}, nil
}

// AnalyzeQuery classifies a QUERY email into a query type with filters.
func (e *Extractor) AnalyzeQuery(ctx context.Context, query string) (*QueryAnalysis, error) {
	var result QueryAnalysis
	if err := e.generateValidatedJSON(ctx, formatQueryUnderstandingPrompt(query), &result); err != nil {
		return nil, &ExtractionError{Stage: "query understanding", Err: err}
	}
	return &result, nil
}

// GenerateText proxies a plain text call to the backend.
func (e *Extractor) GenerateText(ctx context.Context, prompt string) (string, error) {
	return e.client.GenerateText(ctx, jarvisSystemPrompt, prompt)
}

// generateValidatedJSON performs one structured call, validates the
// decoded value, and on a malformed answer retries exactly once with a
// stricter prompt.
func (e *Extractor) generateValidatedJSON(ctx context.Context, prompt string, out any) error {
	err := e.callAndValidate(ctx, prompt, out)
	if err == nil {
		return nil
	}
	if !errors.Is(err, ai.ErrMalformedOutput) {
		return err
	}

	log.Printf("[Extractor] Malformed output, retrying with strict prompt: %v", err)
	return e.callAndValidate(ctx, prompt+strictJSONSuffix, out)
}

func (e *Extractor) callAndValidate(ctx context.Context, prompt string, out any) error {
	if err := e.client.GenerateJSON(ctx, jarvisSystemPrompt, prompt, out); err != nil {
		return err
	}
	if err := e.validate.Struct(out); err != nil {
		return fmt.Errorf("%w: %v", ai.ErrMalformedOutput, err)
	}
	return nil
}

// dueDateLayouts are the formats the model is allowed to answer with.
var dueDateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
}

// ParseDueDate parses a model-produced due date into UTC. A bare date
// gets the original's end-of-day default.
func ParseDueDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	for _, layout := range dueDateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t.UTC(), nil
		}
	}
	if t, err := time.Parse("2006-01-02", value); err == nil {
		return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 0, 0, time.UTC), nil
	}
	return time.Time{}, fmt.Errorf("unrecognized date format: %q", value)
}
