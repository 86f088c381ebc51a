package usecase

import "fmt"

// jarvisSystemPrompt sets the assistant persona for every model call.
const jarvisSystemPrompt = `You are Jarvis, a concise, professional, and witty AI academic assistant.

Responsibilities:
- Organize notes/assignments, track deadlines/reminders, answer queries fast.
- Ask for clarification if details are missing; confirm when tasks are logged.

Style:
- Address the user as "sir" once per message.
- Keep replies brief, prefer bullets, use emojis sparingly.
- Always sign off with "- Jarvis".`

const intentClassificationPrompt = `Classify the email intent as NOTE, ASSIGNMENT, QUERY, or GENERAL.

Subject: %s
Body: %s

Return JSON:
{
  "intent": "NOTE|ASSIGNMENT|QUERY|GENERAL",
  "confidence": 0.0-1.0,
  "reasoning": "brief explanation"
}`

const assignmentExtractionPrompt = `Extract assignment details.

Subject: %s
Body: %s
Current date: %s

Return JSON:
{
  "class_name": "string or null",
  "due_date": "YYYY-MM-DDTHH:MM:SS or null (if date only, set 23:59:00)",
  "title": "brief title",
  "description": "summary or null",
  "priority": "high|medium|low"
}`

const noteExtractionPrompt = `Extract note details.

Subject: %s
Body: %s

Return JSON:
{
  "class_name": "string or null",
  "content": "clean summary",
  "note_type": "concept|definition|example|general",
  "tags": ["tag1", "tag2", "tag3"]
}`

const queryUnderstandingPrompt = `Analyze the query.

Query: %s

Return JSON:
{
  "query_type": "assignments_due|notes_search|class_info|general",
  "time_filter": "today|tomorrow|this_week|next_week|all|null",
  "class_filter": "class name or null",
  "search_terms": ["term1", "term2"]
}`

const queryResponsePrompt = `Respond as Jarvis.

Original Query: %s
Retrieved Data: %s

Guidelines: concise, bullet-first, one "sir", sign "- Jarvis", mention if no data and suggest next steps.`

// strictJSONSuffix tightens the instruction when a first structured
// call came back unparsable.
const strictJSONSuffix = "\n\nIMPORTANT: Respond with ONLY the JSON value. No markdown fences, no explanation, no text before or after."

func formatIntentPrompt(subject, body string) string {
	return fmt.Sprintf(intentClassificationPrompt, subject, body)
}

func formatAssignmentPrompt(subject, body, currentDate string) string {
	return fmt.Sprintf(assignmentExtractionPrompt, subject, body, currentDate)
}

func formatNotePrompt(subject, body string) string {
	return fmt.Sprintf(noteExtractionPrompt, subject, body)
}

func formatQueryUnderstandingPrompt(query string) string {
	return fmt.Sprintf(queryUnderstandingPrompt, query)
}

func formatQueryResponsePrompt(query, data string) string {
	return fmt.Sprintf(queryResponsePrompt, query, data)
}
