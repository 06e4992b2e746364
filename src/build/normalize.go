package build

import (
	"encoding/json"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"moirai-dashboard/src/provider"
)

var pullRefPattern = regexp.MustCompile(`refs/pull/(\d+)`)

// Normalize maps a raw backend record onto a Build. It never fails: missing
// or malformed fields resolve to zero values, and identity falls back to
// UnknownAuthor. Status is copied verbatim.
func Normalize(raw Raw, kind provider.Kind) Build {
	b := Build{
		Number:  raw.int("number"),
		Status:  raw.str("status"),
		Event:   raw.str("event", "trigger"),
		Branch:  raw.str("branch", "target"),
		Commit:  raw.str("commit", "after"),
		Message: raw.str("message", "commit_message"),
		PRTitle: raw.str("title", "pr_title"),
		Cron:    raw.str("cron"),

		Created:  raw.timestamp("created", "created_at"),
		Started:  raw.timestamp("started", "started_at"),
		Finished: raw.timestamp("finished", "finished_at"),
	}

	b.IsPR = b.Event == EventPullRequest || b.Event == "pull-request"

	b.PRNumber = raw.str("pull_request_number", "pr")
	if b.PRNumber == "" && b.IsPR {
		if m := pullRefPattern.FindStringSubmatch(raw.str("ref")); m != nil {
			b.PRNumber = m[1]
		}
	}

	switch kind {
	case provider.KindDrone:
		b.AuthorLogin = raw.str("author_login", "sender")
		b.AuthorDisplayName = raw.str("author_name")
		if b.AuthorDisplayName == "" {
			b.AuthorDisplayName = b.AuthorLogin
		}
	default:
		// Woodpecker only reports a login.
		b.AuthorLogin = raw.str("author")
		b.AuthorDisplayName = b.AuthorLogin
	}
	if b.AuthorLogin == "" {
		b.AuthorLogin = UnknownAuthor
	}
	if b.AuthorDisplayName == "" {
		b.AuthorDisplayName = UnknownAuthor
	}
	b.Author = b.AuthorLogin
	b.AuthorAvatar = raw.str("author_avatar", "sender_avatar", "avatar_url")
	b.AuthorEmail = raw.str("author_email", "sender_email", "email")

	return b
}

// NormalizeAll normalizes a page or a whole fetch in order.
func NormalizeAll(raws []Raw, kind provider.Kind) []Build {
	out := make([]Build, 0, len(raws))
	for _, r := range raws {
		out = append(out, Normalize(r, kind))
	}
	return out
}

// DecodeRaw decodes a JSON array of build objects. Elements that are not
// objects are skipped.
func DecodeRaw(data []byte) ([]Raw, error) {
	raws, _, err := DecodePage(data)
	return raws, err
}

// DecodePage is DecodeRaw that also reports how many array elements the
// page held, skipped ones included. Pagination decides the last page from
// that count.
func DecodePage(data []byte) ([]Raw, int, error) {
	var items []json.RawMessage
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, 0, fmt.Errorf("decode builds: %w", err)
	}
	raws := make([]Raw, 0, len(items))
	for _, item := range items {
		var r Raw
		if err := json.Unmarshal(item, &r); err != nil || r == nil {
			continue
		}
		raws = append(raws, r)
	}
	return raws, len(items), nil
}

// CreatedAt returns the raw created timestamp (created, then created_at).
func (r Raw) CreatedAt() (int64, bool) {
	ts := r.timestamp("created", "created_at")
	if ts == nil {
		return 0, false
	}
	return *ts, true
}

// str returns the first key holding a non-empty scalar, rendered as a string.
func (r Raw) str(keys ...string) string {
	for _, k := range keys {
		if s := scalarString(r[k]); s != "" {
			return s
		}
	}
	return ""
}

func (r Raw) int(keys ...string) int64 {
	for _, k := range keys {
		if n, ok := scalarInt(r[k]); ok {
			return n
		}
	}
	return 0
}

// timestamp treats zero as absent; both backends report 0 for phases that
// have not happened yet.
func (r Raw) timestamp(keys ...string) *int64 {
	for _, k := range keys {
		if n, ok := scalarInt(r[k]); ok && n != 0 {
			return &n
		}
	}
	return nil
}

func scalarString(v any) string {
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	case float64:
		if t == math.Trunc(t) {
			return strconv.FormatInt(int64(t), 10)
		}
		return strconv.FormatFloat(t, 'f', -1, 64)
	case json.Number:
		return t.String()
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	}
	return ""
}

func scalarInt(v any) (int64, bool) {
	switch t := v.(type) {
	case float64:
		if math.IsNaN(t) || math.IsInf(t, 0) {
			return 0, false
		}
		return int64(t), true
	case json.Number:
		n, err := t.Int64()
		return n, err == nil
	case int:
		return int64(t), true
	case int64:
		return t, true
	case string:
		n, err := strconv.ParseInt(strings.TrimSpace(t), 10, 64)
		return n, err == nil
	}
	return 0, false
}
