package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/javiermolinar/timetable/internal/grid"
	"github.com/javiermolinar/timetable/internal/session"
)

const evaluatorSystemPrompt = `You are a warm but concise study coach for a school student. Output ONLY the exact format shown - no markdown, no extra text.`

const userPromptTemplate = `Review this student's study day and output EXACTLY this format (no markdown, no code blocks):

FOCUS: [ 2-4 word theme ]

📚 BALANCE: One sentence on how time was split across subjects.
⏱️  RHYTHM: One sentence on session lengths and gaps between them.
🌙 LATE NIGHT: Mention study after midnight if any (sessions marked 🌙).

TOMORROW:
➜  First specific suggestion.
➜  Second specific suggestion.

Study Data:
%s

Rules:
- Use the exact emoji prefixes shown (📚, ⏱️, 🌙, ➜)
- Keep each line under 70 characters
- Be specific with times and durations from the data
- If no issue exists for a category, omit that line
- Output plain text only, no markdown formatting`

// Evaluator provides LLM-based feedback on a study day.
type Evaluator struct {
	client Client
}

// NewEvaluator creates a new Evaluator with the given LLM client.
func NewEvaluator(client Client) *Evaluator {
	return &Evaluator{client: client}
}

// EvaluateDay sends the planner day's sessions to the LLM for coaching.
func (e *Evaluator) EvaluateDay(ctx context.Context, anchor time.Time, sessions []session.Session) (string, error) {
	prompt := fmt.Sprintf(userPromptTemplate, FormatDayData(anchor, sessions))

	return e.client.Chat(ctx, []Message{
		{Role: RoleSystem, Content: evaluatorSystemPrompt},
		{Role: RoleUser, Content: prompt},
	})
}

// FormatDayData formats sessions in the CLI-style format for LLM consumption.
func FormatDayData(anchor time.Time, sessions []session.Session) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Planner day: %s (06:00 - 02:00)\n\n", anchor.Format("Mon Jan 2, 2006")))

	if len(sessions) == 0 {
		sb.WriteString("  (no sessions)\n")
		return sb.String()
	}

	for _, s := range sessions {
		marker := "  "
		if grid.TimeToMinutes(s.StartSlot) < grid.DayStartMinutes {
			marker = "🌙"
		}

		subject := s.Subject
		if subject == "" {
			subject = "other"
		}

		sb.WriteString(fmt.Sprintf("  %s %s-%s  [%s]  %s  %s\n",
			marker,
			s.StartSlot,
			s.EndSlot,
			subject,
			s.ContentLabel,
			FormatDuration(s.Minutes())))
	}

	return sb.String()
}

// FormatDuration formats minutes as a human-readable duration.
func FormatDuration(minutes int) string {
	if minutes == 0 {
		return "0m"
	}
	hours := minutes / 60
	mins := minutes % 60
	if hours == 0 {
		return fmt.Sprintf("%dm", mins)
	}
	if mins == 0 {
		return fmt.Sprintf("%dh", hours)
	}
	return fmt.Sprintf("%dh%dm", hours, mins)
}
