package types

import (
	"log/slog"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"github.com/m-mizutani/goerr/v2"
)

type (
	// RepoName is a two-segment "owner/repo" identifier.
	RepoName string

	// OrgName is a single GitHub organization (or user) name.
	OrgName string

	// MatchPattern is a RepoName where either segment may be the
	// wildcard "*", e.g. "my-org/*" or "*/*".
	MatchPattern string

	GitHubUser    string
	GitHubToken   string
	WebhookSecret string

	RequestID string
)

func NewRequestID() RequestID {
	return RequestID(uuid.NewString())
}

// ptnSafeName approximates what GitHub allows in owner and repository
// names. Anything stricter is fine; anything looser risks a name like
// "../x" escaping the mirror directory.
var ptnSafeName = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_.-]*$`)

func validateSegment(s string) error {
	if !ptnSafeName.MatchString(s) {
		return goerr.Wrap(ErrInvalidName, "illegal name segment", goerr.V("segment", s))
	}
	return nil
}

// Validate fails unless the name splits into exactly two non-empty safe
// segments on "/". Wildcards are not accepted here; see MatchPattern.
func (x RepoName) Validate() error {
	parts := strings.Split(string(x), "/")
	if len(parts) != 2 {
		return goerr.Wrap(ErrInvalidName, "repository name must be owner/repo", goerr.V("name", x))
	}
	for _, part := range parts {
		if err := validateSegment(part); err != nil {
			return goerr.Wrap(err, "illegal repository name", goerr.V("name", x))
		}
	}
	return nil
}

// Owner returns the first segment of the name. Call Validate first.
func (x RepoName) Owner() string {
	owner, _, _ := strings.Cut(string(x), "/")
	return owner
}

// Repo returns the second segment of the name. Call Validate first.
func (x RepoName) Repo() string {
	_, repo, _ := strings.Cut(string(x), "/")
	return repo
}

func (x RepoName) String() string { return string(x) }

func (x OrgName) Validate() error {
	if err := validateSegment(string(x)); err != nil {
		return goerr.Wrap(err, "illegal organization name", goerr.V("org", x))
	}
	return nil
}

func (x OrgName) String() string { return string(x) }

// Match returns the pattern covering every repository of the organization.
func (x OrgName) Match() MatchPattern {
	return MatchPattern(string(x) + "/*")
}

// Validate fails unless the pattern splits into exactly two segments, each
// either the wildcard "*" or a safe name segment.
func (x MatchPattern) Validate() error {
	parts := strings.Split(string(x), "/")
	if len(parts) != 2 {
		return goerr.Wrap(ErrInvalidName, "match pattern must be owner/repo with optional wildcards", goerr.V("pattern", x))
	}
	for _, part := range parts {
		if part == "*" {
			continue
		}
		if err := validateSegment(part); err != nil {
			return goerr.Wrap(err, "illegal match pattern", goerr.V("pattern", x))
		}
	}
	return nil
}

func (x MatchPattern) Owner() string {
	owner, _, _ := strings.Cut(string(x), "/")
	return owner
}

func (x MatchPattern) Repo() string {
	_, repo, _ := strings.Cut(string(x), "/")
	return repo
}

func (x GitHubToken) LogValue() slog.Value {
	return slog.StringValue("***********")
}

func (x GitHubToken) String() string {
	return "***********"
}

func (x WebhookSecret) LogValue() slog.Value {
	return slog.StringValue("***********")
}

func (x WebhookSecret) String() string {
	return "***********"
}
