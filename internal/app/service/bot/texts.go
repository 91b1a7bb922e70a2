package bot

import (
	"fmt"
	"strings"

	"github.com/fatflowers/karma/internal/app/service/notify"
	"github.com/fatflowers/karma/internal/models"
	"github.com/fatflowers/karma/pkg/types"
)

const helpText = `Karma Diary keeps a daily reflection on one of ten principles.

/today - today's principle
/principle - the principle with questions to reflect on
/next - move to the next principle
/stats - your streak and entries
/settings - reminder settings
/help - this message`

func welcomeText(u *models.User, p *models.Principle) string {
	name := u.FirstName
	if name == "" {
		name = "friend"
	}
	return fmt.Sprintf("Welcome, %s!\n\nEvery day you focus on one principle and write a short reflection. I will remind you.\n\n%s",
		name, todayText(p))
}

func todayText(p *models.Principle) string {
	return fmt.Sprintf("Today's principle %d: «%s»\n\n%s", p.Number, p.Title, p.Description)
}

func principleText(p *models.Principle) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Principle %d: «%s»\n\n%s", p.Number, p.Title, p.Description)
	if refl := []string(p.Reflections); len(refl) > 0 {
		b.WriteString("\n\nQuestions to reflect on:")
		for _, r := range refl {
			b.WriteString("\n• " + r)
		}
	}
	return b.String()
}

func statsText(st *models.UserStats) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Entries: %d\nCurrent streak: %d days\nLongest streak: %d days", st.TotalEntries, st.StreakDays, st.LongestStreak)
	if st.AverageMood != nil {
		fmt.Fprintf(&b, "\nAverage mood: %.1f/10", *st.AverageMood)
	}
	if st.AverageEnergy != nil {
		fmt.Fprintf(&b, "\nAverage energy: %.1f/10", *st.AverageEnergy)
	}
	return b.String()
}

var achievementTitles = map[types.AchievementType]string{
	types.AchievementFirstEntry:        "First entry",
	types.AchievementEntries50:         "50 entries",
	types.AchievementEntries100:        "100 entries",
	types.AchievementStreak7:           "7-day streak",
	types.AchievementStreak30:          "30-day streak",
	types.AchievementGratitude20:       "Grateful heart",
	types.AchievementPrincipleExplorer: "Principle explorer",
}

func savedText(streak int, unlocked []types.AchievementType) string {
	s := fmt.Sprintf("Saved. Streak: %d days.", streak)
	for _, a := range unlocked {
		s += "\n🏆 " + achievementTitles[a]
	}
	return s
}

func entryButtons(principle int) [][]notify.Button {
	return [][]notify.Button{
		{
			{Text: "✍️ Write", Data: Callback{Action: ActionWrite, Principle: principle}.String()},
			{Text: "✅ Done", Data: Callback{Action: ActionDone, Principle: principle}.String()},
		},
		{{Text: "Skip today", Data: Callback{Action: ActionSkip, Principle: principle}.String()}},
	}
}

func moodButtons(principle int, entryID string) [][]notify.Button {
	rows := make([][]notify.Button, 2)
	for score := types.MinScale; score <= types.MaxScale; score++ {
		row := (score - 1) / 5
		rows[row] = append(rows[row], notify.Button{
			Text: fmt.Sprint(score),
			Data: Callback{Action: ActionMood, Principle: principle, Extra: MoodExtra(entryID, score)}.String(),
		})
	}
	return rows
}

var notificationChoices = []struct {
	Type  types.NotificationType
	Label string
}{
	{types.NotificationTypeDaily, "Daily"},
	{types.NotificationTypeIntensive, "Intensive"},
	{types.NotificationTypeCustom, "Custom time"},
	{types.NotificationTypeNone, "Off"},
}

func settingsText(u *models.User) string {
	s := fmt.Sprintf("Reminders: %s\nMode: %s\nTimezone: %s", u.NotificationType, u.ReminderMode, u.Timezone)
	if u.NotificationType == types.NotificationTypeCustom {
		s += fmt.Sprintf("\nMorning: %s, evening: %s", u.MorningTime, u.EveningTime)
	}
	return s
}

func settingsButtons(u *models.User) [][]notify.Button {
	var row []notify.Button
	for _, c := range notificationChoices {
		label := c.Label
		if u.NotificationType == c.Type {
			label = "• " + label
		}
		row = append(row, notify.Button{Text: label, Data: Callback{Action: ActionNotif, Extra: string(c.Type)}.String()})
	}
	return [][]notify.Button{row[:2], row[2:]}
}
