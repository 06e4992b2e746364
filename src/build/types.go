// Package build defines the canonical CI build record and the normalizer
// that maps raw Woodpecker and Drone payloads onto it.
package build

// Status values reported by both backends.
const (
	StatusSuccess  = "success"
	StatusFailure  = "failure"
	StatusError    = "error"
	StatusRunning  = "running"
	StatusPending  = "pending"
	StatusKilled   = "killed"
	StatusSkipped  = "skipped"
	StatusBlocked  = "blocked"
	StatusDeclined = "declined"
)

// Event values that get special treatment downstream.
const (
	EventPush        = "push"
	EventPullRequest = "pull_request"
	EventCron        = "cron"
)

// UnknownAuthor is used when no identity field resolves.
const UnknownAuthor = "Unknown"

// Raw is an undecoded build record as returned by either backend.
type Raw map[string]any

// Build is the backend-agnostic build record every engine works on.
// Timestamps are Unix seconds; nil means the backend did not report it.
type Build struct {
	Number   int64  `json:"number"`
	Branch   string `json:"branch,omitempty"`
	Status   string `json:"status"`
	Event    string `json:"event"`
	IsPR     bool   `json:"is_pr"`
	PRNumber string `json:"pr_number,omitempty"`
	PRTitle  string `json:"pr_title,omitempty"`
	Commit   string `json:"commit,omitempty"`
	Message  string `json:"message,omitempty"`
	Created  *int64 `json:"created,omitempty"`
	Started  *int64 `json:"started,omitempty"`
	Finished *int64 `json:"finished,omitempty"`
	Cron     string `json:"cron,omitempty"`

	Author            string `json:"author"`
	AuthorLogin       string `json:"author_login"`
	AuthorDisplayName string `json:"author_display_name"`
	AuthorAvatar      string `json:"author_avatar,omitempty"`
	AuthorEmail       string `json:"author_email,omitempty"`
}

// Duration returns finished-started in seconds. ok is false unless both
// timestamps are present.
func (b Build) Duration() (seconds int64, ok bool) {
	if b.Started == nil || b.Finished == nil {
		return 0, false
	}
	return *b.Finished - *b.Started, true
}

// CreatedAt returns the creation time or 0 when unknown.
func (b Build) CreatedAt() int64 {
	if b.Created == nil {
		return 0
	}
	return *b.Created
}
