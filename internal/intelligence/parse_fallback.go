package intelligence

import (
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/alexanderramin/braindump/internal/domain"
)

// MaxParsedTasks bounds how many tasks a single brain dump can produce.
const MaxParsedTasks = 50

var (
	bulletPrefix = regexp.MustCompile(`^\s*(?:[-*•+]|\d+[.)]|\[[ xX]?\])\s*`)
	isoDate      = regexp.MustCompile(`\b(\d{4}-\d{2}-\d{2})\b`)
	hashtag      = regexp.MustCompile(`(?:^|\s)#([\p{L}\p{N}_-]+)`)
	byWeekday    = regexp.MustCompile(`(?i)\b(?:by|on|before|due)\s+(monday|tuesday|wednesday|thursday|friday|saturday|sunday)\b`)
)

var (
	highUrgencyWords = []string{"urgent", "asap", "today", "tonight", "tomorrow", "overdue", "immediately", "!!"}
	lowUrgencyWords  = []string{"someday", "eventually", "maybe", "whenever", "low priority", "at some point"}
	smallEffortWords = []string{"quick", "call", "email", "text", "reply", "pay", "buy", "book", "send", "cancel", "renew"}
	largeEffortWords = []string{"project", "write", "build", "research", "redesign", "migrate", "prepare", "plan", "organize", "organise", "deep clean", "refactor"}
)

// DeterministicParse splits a brain dump into one task per non-empty line or
// bullet, with keyword heuristics for urgency and effort, ISO dates and
// relative day words for deadlines, and a #tag for category. Tasks get IDs
// t1..tn in input order.
func DeterministicParse(dump string, now time.Time) []domain.CandidateTask {
	var tasks []domain.CandidateTask
	for _, line := range splitDump(dump) {
		if len(tasks) == MaxParsedTasks {
			break
		}
		task, ok := parseLine(line, now)
		if !ok {
			continue
		}
		task.ID = fmt.Sprintf("t%d", len(tasks)+1)
		tasks = append(tasks, task)
	}
	return tasks
}

func splitDump(dump string) []string {
	var out []string
	for _, line := range strings.Split(dump, "\n") {
		for _, part := range strings.Split(line, ";") {
			if p := strings.TrimSpace(part); p != "" {
				out = append(out, p)
			}
		}
	}
	return out
}

func parseLine(line string, now time.Time) (domain.CandidateTask, bool) {
	text := bulletPrefix.ReplaceAllString(line, "")
	lower := strings.ToLower(text)

	task := domain.CandidateTask{
		Urgency: domain.UrgencyMedium,
		Effort:  domain.EffortMedium,
	}

	if m := hashtag.FindStringSubmatch(text); m != nil {
		task.Category = strings.ToLower(m[1])
		text = hashtag.ReplaceAllString(text, "")
	}

	if m := isoDate.FindStringSubmatch(text); m != nil {
		if d, err := domain.ParseDeadline(m[1], now.Location()); err == nil {
			task.Deadline = d
			text = strings.Replace(text, m[1], "", 1)
		}
	} else if d := relativeDeadline(lower, now); d != nil {
		task.Deadline = d
	}

	words := wordSet(lower)
	switch {
	case containsAny(lower, words, highUrgencyWords):
		task.Urgency = domain.UrgencyHigh
	case containsAny(lower, words, lowUrgencyWords):
		task.Urgency = domain.UrgencyLow
	}
	switch {
	case containsAny(lower, words, smallEffortWords):
		task.Effort = domain.EffortSmall
	case containsAny(lower, words, largeEffortWords):
		task.Effort = domain.EffortLarge
	}

	task.Title = cleanTitle(text)
	if task.Title == "" || strings.HasSuffix(task.Title, ":") {
		return domain.CandidateTask{}, false
	}
	return task, true
}

// relativeDeadline resolves "today", "tomorrow" and "by <weekday>".
func relativeDeadline(lower string, now time.Time) *time.Time {
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	at := func(days int) *time.Time {
		d := midnight.AddDate(0, 0, days)
		return &d
	}
	switch {
	case strings.Contains(lower, "tomorrow"):
		return at(1)
	case strings.Contains(lower, "today"), strings.Contains(lower, "tonight"):
		return at(0)
	}
	if m := byWeekday.FindStringSubmatch(lower); m != nil {
		for wd := time.Sunday; wd <= time.Saturday; wd++ {
			if strings.EqualFold(wd.String(), m[1]) {
				return at((int(wd) - int(now.Weekday()) + 7) % 7)
			}
		}
	}
	return nil
}

func cleanTitle(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	s = strings.Trim(s, " ,.!-")
	if s == "" {
		return ""
	}
	r, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToUpper(r)) + s[size:]
}

func wordSet(s string) map[string]bool {
	set := map[string]bool{}
	for _, w := range strings.FieldsFunc(s, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	}) {
		set[w] = true
	}
	return set
}

// containsAny matches single keywords as whole words and multi-word or
// punctuation keywords as substrings.
func containsAny(s string, words map[string]bool, keywords []string) bool {
	for _, k := range keywords {
		if strings.ContainsFunc(k, func(r rune) bool { return !unicode.IsLetter(r) }) {
			if strings.Contains(s, k) {
				return true
			}
			continue
		}
		if words[k] {
			return true
		}
	}
	return false
}
