// Package advisory produces the two suggestion texts shown next to a project: a risk
// assessment and a reply suggestion for its discussion. Nothing here fails; errors degrade
// to fixed fallback values.
package advisory

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"math/rand"
	"strings"
	"time"

	"github.com/mentorflow/mentorflow/internal/domain"
)

type RiskLevel string

const (
	RiskHigh    RiskLevel = "High"
	RiskMedium  RiskLevel = "Medium"
	RiskLow     RiskLevel = "Low"
	RiskUnknown RiskLevel = "Unknown"
)

type Risk struct {
	Level  RiskLevel `json:"riskLevel"`
	Reason string    `json:"reason"`
}

// Completer sends a prompt to a text model and returns its answer.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

var cannedReplies = []string{
	"I've updated the checklist with the latest findings.",
	"Can you review the attached documents?",
	"I'm on track to meet the deadline.",
}

const (
	fallbackReply     = "I'm working on it."
	reasonUnparsable  = "Could not parse AI response"
	reasonUnavailable = "AI Service unavailable"
	reasonApproaching = "Deadline is approaching and project is not started."
	reasonOnTrack     = "Project is on track."
	highRiskDaysLeft  = 3
	day               = 24 * time.Hour
)

type Service struct {
	completer Completer
	now       func() time.Time
	pick      func(n int) int
}

// NewService returns a service backed by completer. With a nil completer it answers from
// local heuristics and canned replies.
func NewService(completer Completer) *Service {
	return &Service{
		completer: completer,
		now:       time.Now,
		pick:      rand.Intn,
	}
}

// AnalyzeRisk rates how likely the project is to miss its deadline.
func (s *Service) AnalyzeRisk(ctx context.Context, title string, status domain.ProjectStatus, deadline time.Time, completed, total int) Risk {
	now := s.now()

	if s.completer == nil {
		daysLeft := int(math.Ceil(float64(deadline.Sub(now)) / float64(day)))
		if daysLeft < highRiskDaysLeft && status == domain.StatusTodo {
			return Risk{Level: RiskHigh, Reason: reasonApproaching}
		}
		return Risk{Level: RiskLow, Reason: reasonOnTrack}
	}

	prompt := fmt.Sprintf(`Analyze the risk of this project:
Title: %s
Status: %s
Deadline: %s
Progress: %d/%d tasks completed.
Current Date: %s

Return a JSON object with "riskLevel" (High, Medium, Low) and "reason" (short explanation).`,
		title, status, deadline.UTC().Format(time.RFC3339), completed, total, now.UTC().Format(time.RFC3339))

	text, err := s.completer.Complete(ctx, prompt)
	if err != nil {
		slog.Error("risk analysis failed", "title", title, "error", err)
		return Risk{Level: RiskUnknown, Reason: reasonUnavailable}
	}

	return parseRisk(text)
}

// parseRisk reads the JSON object out of a model answer, which may be wrapped in a
// markdown code fence.
func parseRisk(text string) Risk {
	text = strings.ReplaceAll(text, "```json", "")
	text = strings.ReplaceAll(text, "```", "")
	text = strings.TrimSpace(text)

	var risk Risk
	if err := json.Unmarshal([]byte(text), &risk); err != nil || risk.Level == "" {
		return Risk{Level: RiskUnknown, Reason: reasonUnparsable}
	}
	return risk
}

// GenerateSmartReply suggests a reply to lastComment. about is the project description.
func (s *Service) GenerateSmartReply(ctx context.Context, about, lastComment string) string {
	if s.completer == nil {
		return cannedReplies[s.pick(len(cannedReplies))]
	}

	prompt := fmt.Sprintf(`Context: %s
Last Comment: %q

Generate a professional, helpful, and concise reply suggestion for a medical intern or supervisor.
Return only the reply text.`, about, lastComment)

	text, err := s.completer.Complete(ctx, prompt)
	if err != nil {
		slog.Error("reply suggestion failed", "error", err)
		return fallbackReply
	}

	return strings.TrimSpace(text)
}
