package types_test

import (
	"errors"
	"testing"

	"github.com/m-mizutani/gt"

	"github.com/ghmirror/ghmirror/pkg/domain/types"
)

func TestRepoNameValidate(t *testing.T) {
	valid := []string{
		"my-org/My_Repo.js",
		"a/b",
		"0day/x.y.z",
		"owner/repo-with-dash",
	}
	for _, name := range valid {
		t.Run("accepts "+name, func(t *testing.T) {
			gt.NoError(t, types.RepoName(name).Validate())
		})
	}

	invalid := []string{
		"",
		"../etc",
		"a/b/c",
		"/abs",
		"owner/",
		"/repo",
		"owner/../../etc",
		"owner/.hidden",
		"-owner/repo",
		"owner/re po",
		"owner",
		"owner/*",
		"owner/re\x00po",
	}
	for _, name := range invalid {
		t.Run("rejects "+name, func(t *testing.T) {
			err := types.RepoName(name).Validate()
			gt.Error(t, err)
			gt.True(t, errors.Is(err, types.ErrInvalidName))
		})
	}
}

func TestRepoNameSegments(t *testing.T) {
	name := types.RepoName("my-org/my-repo")
	gt.NoError(t, name.Validate())
	gt.V(t, name.Owner()).Equal("my-org")
	gt.V(t, name.Repo()).Equal("my-repo")
}

func TestMatchPatternValidate(t *testing.T) {
	valid := []string{
		"my-org/*",
		"*/*",
		"*/repo",
		"my-org/my-repo",
	}
	for _, pattern := range valid {
		t.Run("accepts "+pattern, func(t *testing.T) {
			gt.NoError(t, types.MatchPattern(pattern).Validate())
		})
	}

	invalid := []string{
		"",
		"*",
		"*/*/*",
		"../*",
		"org/**",
		"org/.*",
	}
	for _, pattern := range invalid {
		t.Run("rejects "+pattern, func(t *testing.T) {
			gt.Error(t, types.MatchPattern(pattern).Validate())
		})
	}
}

func TestOrgNameMatch(t *testing.T) {
	org := types.OrgName("my-org")
	gt.NoError(t, org.Validate())
	gt.V(t, org.Match()).Equal(types.MatchPattern("my-org/*"))
}

func TestSecretsAreMasked(t *testing.T) {
	gt.V(t, types.GitHubToken("ghp_secret").String()).Equal("***********")
	gt.V(t, types.WebhookSecret("hush").String()).Equal("***********")
}
