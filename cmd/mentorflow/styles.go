package main

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/mentorflow/mentorflow/internal/advisory"
	"github.com/mentorflow/mentorflow/internal/domain"
)

// Theme is the color scheme of the terminal output.
type Theme struct {
	Foreground    lipgloss.Color
	ForegroundDim lipgloss.Color

	Primary   lipgloss.Color
	Secondary lipgloss.Color

	Success lipgloss.Color
	Warning lipgloss.Color
	Error   lipgloss.Color
	Info    lipgloss.Color

	Border lipgloss.Color
}

var Clinic = Theme{
	Foreground:    lipgloss.Color("#e2e8f0"),
	ForegroundDim: lipgloss.Color("#64748b"),

	Primary:   lipgloss.Color("#38bdf8"),
	Secondary: lipgloss.Color("#a78bfa"),

	Success: lipgloss.Color("#4ade80"),
	Warning: lipgloss.Color("#fbbf24"),
	Error:   lipgloss.Color("#f87171"),
	Info:    lipgloss.Color("#60a5fa"),

	Border: lipgloss.Color("#334155"),
}

const cardWidth = 18

type Styles struct {
	Title   lipgloss.Style
	Section lipgloss.Style
	Muted   lipgloss.Style
	ID      lipgloss.Style

	Card      lipgloss.Style
	CardValue lipgloss.Style
	Box       lipgloss.Style

	Success lipgloss.Style
	Warning lipgloss.Style
	Error   lipgloss.Style

	status map[domain.ProjectStatus]lipgloss.Style
	risk   map[advisory.RiskLevel]lipgloss.Style
}

func NewStyles(t Theme) *Styles {
	return &Styles{
		Title: lipgloss.NewStyle().
			Foreground(t.Primary).
			Bold(true),

		Section: lipgloss.NewStyle().
			Foreground(t.Secondary).
			Bold(true).
			MarginTop(1),

		Muted: lipgloss.NewStyle().
			Foreground(t.ForegroundDim),

		ID: lipgloss.NewStyle().
			Foreground(t.ForegroundDim).
			Italic(true),

		Card: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(t.Border).
			Padding(0, 1).
			Width(cardWidth),

		CardValue: lipgloss.NewStyle().
			Foreground(t.Foreground).
			Bold(true),

		Box: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(t.Border).
			Padding(0, 1),

		Success: lipgloss.NewStyle().Foreground(t.Success),
		Warning: lipgloss.NewStyle().Foreground(t.Warning),
		Error:   lipgloss.NewStyle().Foreground(t.Error).Bold(true),

		status: map[domain.ProjectStatus]lipgloss.Style{
			domain.StatusTodo:       lipgloss.NewStyle().Foreground(t.ForegroundDim),
			domain.StatusInProgress: lipgloss.NewStyle().Foreground(t.Info),
			domain.StatusReview:     lipgloss.NewStyle().Foreground(t.Warning),
			domain.StatusDone:       lipgloss.NewStyle().Foreground(t.Success),
		},
		risk: map[advisory.RiskLevel]lipgloss.Style{
			advisory.RiskHigh:    lipgloss.NewStyle().Foreground(t.Error).Bold(true),
			advisory.RiskMedium:  lipgloss.NewStyle().Foreground(t.Warning),
			advisory.RiskLow:     lipgloss.NewStyle().Foreground(t.Success),
			advisory.RiskUnknown: lipgloss.NewStyle().Foreground(t.ForegroundDim),
		},
	}
}

func (s *Styles) Status(status domain.ProjectStatus) string {
	return s.status[status].Render(status.Label())
}

func (s *Styles) Risk(level advisory.RiskLevel) string {
	return s.risk[level].Render(string(level))
}
