package usecase

import (
	"fmt"
	"time"

	"unihelper/internal/academic/domain"
)

const dueDateDisplayLayout = "January 2, 2006 at 3:04 PM"

const generalReply = `Acknowledged, sir.

I've received your message. If you need me to:
- Save an assignment: Include the due date
- Save notes: Share the content you'd like filed
- Query information: Ask me what you'd like to know

How may I assist you?

- Jarvis`

func assignmentReply(className string, a *domain.Assignment) string {
	dueFormatted := a.DueDate.Format(dueDateDisplayLayout)
	reminderAt := a.DueDate.Add(-time.Duration(a.ReminderHours) * time.Hour)

	reply := fmt.Sprintf(`Assignment logged, sir.

📚 %s - %s
📅 Due: %s
⏰ Reminder set for %s

`, className, a.Title, dueFormatted, reminderAt.Format("January 2 at 3:04 PM"))

	if a.Priority == domain.PriorityHigh {
		reply += "⚠️ This appears to be high priority. I recommend starting soon.\n\n"
	}
	return reply + "- Jarvis"
}

func noteReply(className, content string) string {
	preview := content
	if len(preview) > 100 {
		preview = preview[:100] + "..."
	}
	return fmt.Sprintf(`Noted under %s, sir.

📝 %s

Filed in your knowledge base for future reference.

- Jarvis`, className, preview)
}

func errorReply(message, suggestion string) string {
	return fmt.Sprintf(`I encountered an issue processing your request, sir.

❌ %s

%s

- Jarvis`, message, suggestion)
}
