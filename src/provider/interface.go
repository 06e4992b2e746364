package provider

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"
)

var (
	ErrInvalidRepo     = errors.New("invalid repository reference")
	ErrProviderUnknown = errors.New("unknown CI provider")
)

// Kind identifies the CI backend a server speaks.
type Kind string

const (
	KindWoodpecker Kind = "woodpecker"
	KindDrone      Kind = "drone"
	KindAuto       Kind = "auto"
)

// ParseKind accepts the server type as configured. Empty means auto.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "auto":
		return KindAuto, nil
	case "woodpecker":
		return KindWoodpecker, nil
	case "drone":
		return KindDrone, nil
	}
	return "", fmt.Errorf("%w: %s", ErrProviderUnknown, s)
}

// PageSize is the maximum per_page both backends document.
const PageSize = 50

// Fetcher is the one capability the dashboard needs from a CI server:
// GET a path relative to the server's /api root and return the JSON body.
type Fetcher interface {
	FetchPage(ctx context.Context, serverID, path string) (json.RawMessage, error)
}

var repoPattern = regexp.MustCompile(`^([^/\s]+)/([^/\s]+)$`)

// ParseRepo parses "owner/name" or a numeric Woodpecker repository id.
func ParseRepo(s string) (Repo, error) {
	s = strings.Trim(strings.TrimSpace(s), "/")
	if id, err := strconv.ParseInt(s, 10, 64); err == nil && id > 0 {
		return Repo{ID: id}, nil
	}
	if matches := repoPattern.FindStringSubmatch(s); matches != nil {
		return Repo{Owner: matches[1], Name: matches[2]}, nil
	}
	return Repo{}, fmt.Errorf("%w: %q", ErrInvalidRepo, s)
}

// BuildsPath returns the paginated build listing for the backend.
// Woodpecker calls builds "pipelines".
func BuildsPath(kind Kind, repo Repo, page, perPage int) string {
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("per_page", strconv.Itoa(perPage))
	resource := "builds"
	if kind == KindWoodpecker {
		resource = "pipelines"
	}
	return fmt.Sprintf("%s/%s?%s", repo.apiPath(kind), resource, q.Encode())
}

// BranchesPath lists the repository's branches. Woodpecker only.
func BranchesPath(repo Repo) string {
	return repo.apiPath(KindWoodpecker) + "/branches"
}

// PullRequestsPath lists open pull requests. Woodpecker only.
func PullRequestsPath(repo Repo) string {
	return repo.apiPath(KindWoodpecker) + "/pull_requests"
}

// ReposPath lists repositories visible to the token on either backend.
const ReposPath = "user/repos"

// VersionPath is probed to tell the backends apart.
const VersionPath = "version"
