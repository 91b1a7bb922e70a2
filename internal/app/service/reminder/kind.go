package reminder

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/fatflowers/karma/internal/app/service/notify"
	"github.com/fatflowers/karma/internal/models"
	"github.com/fatflowers/karma/pkg/types"
)

type Kind string

const (
	KindMorning         Kind = "morning"
	KindAfternoon       Kind = "afternoon"
	KindEvening         Kind = "evening"
	KindMorningAntidote Kind = "morning_antidote"
	KindEveningAntidote Kind = "evening_antidote"
	KindCustom          Kind = "custom"
)

var Kinds = []Kind{KindMorning, KindAfternoon, KindEvening, KindMorningAntidote, KindEveningAntidote, KindCustom}

func ParseKind(s string) (Kind, error) {
	for _, k := range Kinds {
		if string(k) == s {
			return k, nil
		}
	}
	return "", types.InvalidInput("unknown reminder kind %q", s)
}

func receivesDaily(u *models.User) bool {
	return u.NotificationType == types.NotificationTypeDaily || u.NotificationType == types.NotificationTypeIntensive
}

// Due reports whether u gets a reminder of kind at now and which template to render.
// Custom users get the morning or evening template when their clock matches.
func Due(u *models.User, kind Kind, now time.Time, fallback *time.Location) (Kind, bool) {
	if u == nil || !u.IsActive {
		return "", false
	}
	switch kind {
	case KindMorning, KindEvening:
		return kind, receivesDaily(u)
	case KindAfternoon:
		return kind, u.NotificationType == types.NotificationTypeIntensive
	case KindMorningAntidote, KindEveningAntidote:
		return kind, receivesDaily(u) && u.ReminderMode == types.ReminderModeAntidote
	case KindCustom:
		if u.NotificationType != types.NotificationTypeCustom {
			return "", false
		}
		clock := now.In(u.Location(fallback)).Format("15:04")
		switch clock {
		case u.MorningTime:
			return KindMorning, true
		case u.EveningTime:
			return KindEvening, true
		}
	}
	return "", false
}

// Render builds the reminder for the user's principle.
func Render(kind Kind, principle int, title, baseURL string) notify.Message {
	n := strconv.Itoa(principle)
	m := notify.Message{URL: strings.TrimRight(baseURL, "/") + "/journal"}
	switch kind {
	case KindMorning:
		m.Title = "Good morning"
		m.Body = fmt.Sprintf("Today's principle is «%s». Notice where it shows up in your day.", title)
		m.Buttons = [][]notify.Button{{{Text: "Principle", Data: "principle_" + n}}}
	case KindAfternoon:
		m.Title = "Midday check-in"
		m.Body = fmt.Sprintf("How is «%s» going so far?", title)
		m.Buttons = [][]notify.Button{{{Text: "Write", Data: "write_" + n}, {Text: "Done", Data: "done_" + n}}}
	case KindEvening:
		m.Title = "Evening reflection"
		m.Body = fmt.Sprintf("Take a minute to write about «%s» today.", title)
		m.Buttons = [][]notify.Button{
			{{Text: "Write", Data: "write_" + n}, {Text: "Done", Data: "done_" + n}},
			{{Text: "Skip today", Data: "skip_" + n}},
		}
	case KindMorningAntidote:
		m.Title = "Antidote"
		m.Body = fmt.Sprintf("Before the day starts: where might you act against «%s»? Choose the opposite once today.", title)
	case KindEveningAntidote:
		m.Title = "Antidote"
		m.Body = fmt.Sprintf("Before you reflect: when did you drift from «%s» today, and what would the antidote have been?", title)
	}
	return m
}
