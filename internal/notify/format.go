package notify

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/smartworkmark/seo-content-portal/internal/model"
)

// MaxMessageLen is Telegram's limit for a text message.
const MaxMessageLen = 4096

// FormatError renders one error record as an alert entry.
func FormatError(rec model.Record) string {
	var b strings.Builder
	switch e := rec.(type) {
	case model.BlogError:
		fmt.Fprintf(&b, "[Blog] %s, %s\n", e.PracticeName, e.Date)
		b.WriteString(e.ErrorMessage)
	case model.GmbPostError:
		fmt.Fprintf(&b, "[GMB post] %s, %s\n", e.PracticeName, e.Date)
		if e.IsProcessing() && e.PostTitle != "" {
			fmt.Fprintf(&b, "%s (still processing)", e.PostTitle)
		} else {
			b.WriteString(e.Reason)
		}
	default:
		fmt.Fprintf(&b, "[%s] %s, %s", rec.Kind(), rec.GroupName(), rec.DateValue())
	}
	return b.String()
}

// FormatDigest renders new error records as messages that each fit in
// MaxMessageLen. It returns nil when there is nothing to report.
func FormatDigest(records []model.Record) []string {
	if len(records) == 0 {
		return nil
	}

	var msgs []string
	var b strings.Builder
	fmt.Fprintf(&b, "%d new content error(s)\n", len(records))

	for _, rec := range records {
		entry := "\n" + truncate(FormatError(rec), MaxMessageLen-2) + "\n"
		if b.Len()+len(entry) > MaxMessageLen {
			msgs = append(msgs, strings.Trim(b.String(), "\n"))
			b.Reset()
		}
		b.WriteString(entry)
	}
	return append(msgs, strings.Trim(b.String(), "\n"))
}

// truncate shortens s to at most n bytes without splitting a UTF-8 sequence.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	cut := n - 3
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "..."
}
