package bot

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/fatflowers/karma/pkg/types"
)

// Callback actions carried in inline keyboard data as action_principle_extra.
const (
	ActionWrite     = "write"
	ActionDone      = "done"
	ActionSkip      = "skip"
	ActionMood      = "mood"
	ActionNotif     = "notif"
	ActionPrinciple = "principle"
)

type Callback struct {
	Action    string
	Principle int
	Extra     string
}

// ParseCallback splits data into at most three parts; the extra part may itself contain underscores.
func ParseCallback(data string) (Callback, error) {
	parts := strings.SplitN(data, "_", 3)
	cb := Callback{Action: parts[0]}
	switch cb.Action {
	case ActionWrite, ActionDone, ActionSkip, ActionMood, ActionNotif, ActionPrinciple:
	default:
		return Callback{}, fmt.Errorf("unknown callback action %q", cb.Action)
	}
	if len(parts) > 1 {
		n, err := strconv.Atoi(parts[1])
		if err != nil {
			return Callback{}, fmt.Errorf("callback %q: bad principle: %w", data, err)
		}
		cb.Principle = n
	}
	if len(parts) > 2 {
		cb.Extra = parts[2]
	}
	if cb.Action != ActionNotif && !types.ValidPrinciple(cb.Principle) {
		return Callback{}, fmt.Errorf("callback %q: principle out of range", data)
	}
	return cb, nil
}

func (c Callback) String() string {
	s := c.Action + "_" + strconv.Itoa(c.Principle)
	if c.Extra != "" {
		s += "_" + c.Extra
	}
	return s
}

// MoodExtra encodes the entry and score of a mood button.
func MoodExtra(entryID string, score int) string {
	return entryID + ":" + strconv.Itoa(score)
}

func ParseMoodExtra(extra string) (entryID string, score int, err error) {
	id, raw, ok := strings.Cut(extra, ":")
	if !ok || id == "" {
		return "", 0, fmt.Errorf("mood callback %q: missing score", extra)
	}
	score, err = strconv.Atoi(raw)
	if err != nil || score < types.MinScale || score > types.MaxScale {
		return "", 0, fmt.Errorf("mood callback %q: bad score", extra)
	}
	return id, score, nil
}
