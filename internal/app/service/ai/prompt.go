package ai

import (
	"fmt"
	"strings"

	"github.com/fatflowers/karma/internal/models"
	"github.com/fatflowers/karma/internal/platform/openai"
)

const insightSystem = `You are a calm mentor helping a person keep a karmic diary built on ten principles.
Read their recent entries and stats and reply with a short reflection: one pattern you notice,
one thing they do well, and one gentle suggestion for tomorrow. At most 120 words.`

const adviceSystem = `You are a calm mentor helping a person live by the principle below.
Answer their message with practical, kind advice grounded in the principle and their recent entries.
At most 150 words. Do not give medical, legal or financial advice.`

func languageLine(u *models.User) string {
	switch u.Language {
	case "", "uk":
		return "Reply in Ukrainian."
	case "en":
		return "Reply in English."
	default:
		return fmt.Sprintf("Reply in the language with code %q.", u.Language)
	}
}

func writeEntries(b *strings.Builder, entries []*models.JournalEntry) {
	if len(entries) == 0 {
		b.WriteString("No entries yet.\n")
		return
	}
	for _, e := range entries {
		fmt.Fprintf(b, "- %s, principle %d", e.CreatedAt.Format("2006-01-02"), e.PrincipleID)
		if e.Mood != nil {
			fmt.Fprintf(b, ", mood %d", *e.Mood)
		}
		if e.Energy != nil {
			fmt.Fprintf(b, ", energy %d", *e.Energy)
		}
		switch {
		case e.IsSkipped:
			b.WriteString(": skipped\n")
		case e.Content == "":
			b.WriteString(": done\n")
		default:
			fmt.Fprintf(b, ": %s\n", e.Content)
		}
	}
}

func insightPrompt(u *models.User, entries []*models.JournalEntry, st *models.UserStats) []openai.Message {
	var b strings.Builder
	if st != nil {
		fmt.Fprintf(&b, "Total entries: %d. Current streak: %d days. Longest streak: %d days.\n",
			st.TotalEntries, st.StreakDays, st.LongestStreak)
		if st.AverageMood != nil {
			fmt.Fprintf(&b, "Average mood: %.1f/10.\n", *st.AverageMood)
		}
		if st.AverageEnergy != nil {
			fmt.Fprintf(&b, "Average energy: %.1f/10.\n", *st.AverageEnergy)
		}
	}
	b.WriteString("Recent entries, newest first:\n")
	writeEntries(&b, entries)
	return []openai.Message{
		{Role: openai.RoleSystem, Content: insightSystem + "\n" + languageLine(u)},
		{Role: openai.RoleUser, Content: b.String()},
	}
}

func advicePrompt(u *models.User, p *models.Principle, entries []*models.JournalEntry, message string) []openai.Message {
	var b strings.Builder
	fmt.Fprintf(&b, "Principle %d: %s. %s\n", p.Number, p.Title, p.Description)
	b.WriteString("Recent entries, newest first:\n")
	writeEntries(&b, entries)
	return []openai.Message{
		{Role: openai.RoleSystem, Content: adviceSystem + "\n" + languageLine(u) + "\n" + b.String()},
		{Role: openai.RoleUser, Content: message},
	}
}
