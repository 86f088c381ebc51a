package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"

	"unihelper/internal/academic/domain"
	"unihelper/internal/academic/repository"
	"unihelper/pkg/mailbox"
)

const generalClassName = "General"

// Result is the outcome of processing one email. Reply is always set;
// Success is false when the message could not be fully handled and the
// reply explains why.
type Result struct {
	Reply   string
	Success bool
}

// Processor is the intent-classification → entity-extraction →
// persistence pipeline. All per-message failures are contained here
// and turned into polite replies; nothing escapes to the poller.
type Processor struct {
	classes       repository.ClassRepository
	notes         repository.NoteRepository
	assignments   repository.AssignmentRepository
	extractor     *Extractor
	reminderHours int
}

// NewProcessor wires the pipeline with its store and extractor handles.
func NewProcessor(
	classes repository.ClassRepository,
	notes repository.NoteRepository,
	assignments repository.AssignmentRepository,
	extractor *Extractor,
	reminderHours int,
) *Processor {
	if reminderHours <= 0 {
		reminderHours = 24
	}
	return &Processor{
		classes:       classes,
		notes:         notes,
		assignments:   assignments,
		extractor:     extractor,
		reminderHours: reminderHours,
	}
}

// ProcessEmail runs one email through the pipeline and returns the
// reply to send.
func (p *Processor) ProcessEmail(ctx context.Context, msg mailbox.Message) Result {
	intent, err := p.extractor.ClassifyIntent(ctx, msg.Subject, msg.Body)
	if err != nil {
		// Never block the pipeline on a classification failure
		log.Printf("[Processor] Intent classification failed, defaulting to GENERAL: %v", err)
		intent = IntentGeneral
	}

	switch intent {
	case IntentAssignment:
		return p.processAssignment(ctx, msg)
	case IntentNote:
		return p.processNote(ctx, msg)
	case IntentQuery:
		return p.processQuery(ctx, msg)
	default:
		return Result{Reply: generalReply, Success: true}
	}
}

func (p *Processor) processAssignment(ctx context.Context, msg mailbox.Message) Result {
	entities, err := p.extractor.ExtractAssignment(ctx, msg.Subject, msg.Body)
	if err != nil {
		if errors.Is(err, domain.ErrValidation) {
			return Result{
				Reply: errorReply(
					"I couldn't find a usable due date in your email.",
					"Please include the deadline (e.g. 'due October 20th at 11:59 PM').",
				),
			}
		}
		// Backend glitch: acknowledge generically rather than fail the user
		log.Printf("[Processor] Assignment extraction failed: %v", err)
		return Result{Reply: generalReply, Success: true}
	}

	className := entities.ClassName
	if className == "" {
		className = generalClassName
	}
	class, err := p.classes.GetOrCreate(className)
	if err != nil {
		log.Printf("[Processor] Class lookup failed for %q: %v", className, err)
		return Result{Reply: errorReply("I couldn't file this under a class.", "Please try again.")}
	}

	assignment := &domain.Assignment{
		ClassID:       &class.ID,
		Title:         entities.Title,
		Description:   entities.Description,
		DueDate:       entities.DueDate,
		Priority:      entities.Priority,
		ReminderHours: p.reminderHours,
	}
	if err := p.assignments.Create(assignment); err != nil {
		log.Printf("[Processor] Assignment insert failed: %v", err)
		return Result{Reply: errorReply("I couldn't save the assignment.", "Please try again.")}
	}

	return Result{Reply: assignmentReply(class.Name, assignment), Success: true}
}

func (p *Processor) processNote(ctx context.Context, msg mailbox.Message) Result {
	entities, err := p.extractor.ExtractNote(ctx, msg.Subject, msg.Body)
	if err != nil {
		log.Printf("[Processor] Note extraction failed: %v", err)
		return Result{Reply: generalReply, Success: true}
	}

	className := entities.ClassName
	if className == "" {
		className = generalClassName
	}
	class, err := p.classes.GetOrCreate(className)
	if err != nil {
		log.Printf("[Processor] Class lookup failed for %q: %v", className, err)
		return Result{Reply: errorReply("I couldn't file this under a class.", "Please try again.")}
	}

	metadata, _ := json.Marshal(map[string]any{
		"note_type":   entities.NoteType,
		"tags":        entities.Tags,
		"source":      "email",
		"subject":     msg.Subject,
		"message_id":  msg.MessageID,
		"received_at": msg.Date,
	})

	note := &domain.Note{
		ClassID:  &class.ID,
		Content:  entities.Content,
		NoteType: entities.NoteType,
		Metadata: string(metadata),
	}
	if err := p.notes.Create(note); err != nil {
		log.Printf("[Processor] Note insert failed: %v", err)
		return Result{Reply: errorReply("I couldn't save the note.", "Please try again.")}
	}

	return Result{Reply: noteReply(class.Name, entities.Content), Success: true}
}

func (p *Processor) processQuery(ctx context.Context, msg mailbox.Message) Result {
	analysis, err := p.extractor.AnalyzeQuery(ctx, msg.Body)
	if err != nil {
		log.Printf("[Processor] Query understanding failed: %v", err)
		analysis = &QueryAnalysis{QueryType: "general"}
	}

	data := p.lookupQueryData(analysis)

	response, err := p.extractor.GenerateText(ctx, formatQueryResponsePrompt(msg.Body, data))
	if err != nil {
		log.Printf("[Processor] Query response generation failed: %v", err)
		response = data + "\n\n- Jarvis"
	}
	return Result{Reply: response, Success: true}
}

func (p *Processor) lookupQueryData(analysis *QueryAnalysis) string {
	switch analysis.QueryType {
	case "assignments_due":
		days := daysForTimeFilter(analysis.TimeFilter)
		assignments, err := p.assignments.GetUpcoming(days)
		if err != nil {
			log.Printf("[Processor] Upcoming lookup failed: %v", err)
			return "I couldn't look up assignments right now."
		}
		if analysis.ClassFilter != "" {
			assignments = p.filterByClass(assignments, analysis.ClassFilter)
		}
		if len(assignments) == 0 {
			return "No upcoming assignments found."
		}
		var b strings.Builder
		b.WriteString("Upcoming Assignments:\n")
		for _, a := range assignments {
			fmt.Fprintf(&b, "- %s (Due: %s)\n", a.Title, a.DueDate.Format(dueDateDisplayLayout))
		}
		return b.String()

	case "notes_search":
		if len(analysis.SearchTerms) == 0 {
			// "my stats notes" style queries carry a class but no terms
			if analysis.ClassFilter != "" {
				return p.classNotes(analysis.ClassFilter)
			}
			return "Please specify what you'd like to search for."
		}
		query := strings.Join(analysis.SearchTerms, " ")
		notes, err := p.notes.Search(query, 10)
		if err != nil {
			log.Printf("[Processor] Note search failed: %v", err)
			return "I couldn't search notes right now."
		}
		if len(notes) == 0 {
			return fmt.Sprintf("No notes found matching %q.", query)
		}
		var b strings.Builder
		b.WriteString("Found Notes:\n")
		for _, n := range notes {
			preview := n.Content
			if len(preview) > 100 {
				preview = preview[:100] + "..."
			}
			fmt.Fprintf(&b, "- %s\n", preview)
		}
		return b.String()

	case "class_info":
		if analysis.ClassFilter != "" {
			return p.classInfo(analysis.ClassFilter)
		}
		classes, err := p.classes.GetAll()
		if err != nil {
			log.Printf("[Processor] Class listing failed: %v", err)
			return "I couldn't look up classes right now."
		}
		if len(classes) == 0 {
			return "No classes found in your system yet."
		}
		var b strings.Builder
		b.WriteString("Your Classes:\n")
		for _, c := range classes {
			fmt.Fprintf(&b, "- %s\n", c.Name)
		}
		return b.String()

	default:
		return "General query - no specific data retrieved."
	}
}

// filterByClass narrows assignments to the named class. An unknown
// class name filters everything out rather than erroring: the reply
// reads "no upcoming assignments" either way.
func (p *Processor) filterByClass(assignments []*domain.Assignment, className string) []*domain.Assignment {
	class, err := p.classes.FindByName(className)
	if err != nil || class == nil {
		return nil
	}
	var filtered []*domain.Assignment
	for _, a := range assignments {
		if a.ClassID != nil && *a.ClassID == class.ID {
			filtered = append(filtered, a)
		}
	}
	return filtered
}

// classNotes lists the most recent notes filed under a class.
func (p *Processor) classNotes(className string) string {
	class, err := p.classes.FindByName(className)
	if err != nil {
		log.Printf("[Processor] Class lookup failed for %q: %v", className, err)
		return "I couldn't look up that class right now."
	}
	if class == nil {
		return fmt.Sprintf("No class named %q found.", className)
	}

	notes, err := p.notes.FindByClass(class.ID, 10)
	if err != nil {
		log.Printf("[Processor] Class notes lookup failed: %v", err)
		return "I couldn't look up notes right now."
	}
	if len(notes) == 0 {
		return fmt.Sprintf("No notes filed under %s yet.", class.Name)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Notes for %s:\n", class.Name)
	for _, n := range notes {
		preview := n.Content
		if len(preview) > 100 {
			preview = preview[:100] + "..."
		}
		fmt.Fprintf(&b, "- %s\n", preview)
	}
	return b.String()
}

// classInfo summarizes one class and its assignments.
func (p *Processor) classInfo(className string) string {
	class, err := p.classes.FindByName(className)
	if err != nil {
		log.Printf("[Processor] Class lookup failed for %q: %v", className, err)
		return "I couldn't look up that class right now."
	}
	if class == nil {
		return fmt.Sprintf("No class named %q found.", className)
	}

	assignments, err := p.assignments.FindByClass(class.ID)
	if err != nil {
		log.Printf("[Processor] Class assignments lookup failed: %v", err)
		return "I couldn't look up assignments right now."
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Class: %s\n", class.Name)
	if len(assignments) == 0 {
		b.WriteString("No assignments on record.\n")
		return b.String()
	}
	b.WriteString("Assignments:\n")
	for _, a := range assignments {
		fmt.Fprintf(&b, "- %s (%s, due %s)\n", a.Title, a.Status, a.DueDate.Format(dueDateDisplayLayout))
	}
	return b.String()
}

func daysForTimeFilter(filter string) int {
	switch filter {
	case "today", "tomorrow":
		return 1
	case "this_week":
		return 7
	case "next_week":
		return 14
	default:
		return 30
	}
}

// ErrorReply is the best-effort reply the poller sends when the
// pipeline itself failed unexpectedly.
func ErrorReply() string {
	return errorReply("Something went wrong while processing your message.", "Please try again in a moment.")
}

// ReplySubject prefixes the original subject for the response thread.
func ReplySubject(original string) string {
	if original == "" {
		return "Jarvis Response"
	}
	if strings.HasPrefix(strings.ToLower(original), "re:") {
		return original
	}
	return "Re: " + original
}
