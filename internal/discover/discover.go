// Package discover lists the schema files available upstream, as a starting
// point for editing the partition manifests by hand.
package discover

import (
	"context"
	"net/http"
	"sort"
	"strings"

	"github.com/galaxy-steam/buildtool"
	"github.com/galaxy-steam/buildtool/internal/config"
	"github.com/google/go-github/v27/github"
	"golang.org/x/oauth2"
	"golang.org/x/xerrors"
)

// NewClient returns a GitHub API client, authenticated if token is
// non-empty. Unauthenticated clients are limited to 60 requests per hour,
// which is plenty for one directory listing.
func NewClient(ctx context.Context, token string) *github.Client {
	var hc *http.Client
	if token != "" {
		ts := oauth2.StaticTokenSource(
			&oauth2.Token{AccessToken: token},
		)
		hc = oauth2.NewClient(ctx, ts)
	}
	return github.NewClient(hc)
}

// List returns the raw download URLs of all schema files in the upstream
// directory, sorted.
func List(ctx context.Context, client *github.Client, up config.Upstream) ([]string, error) {
	subject := up.Owner + "/" + up.Repo + "/" + up.Path + "@" + up.Ref
	file, dir, _, err := client.Repositories.GetContents(ctx, up.Owner, up.Repo, up.Path, &github.RepositoryContentGetOptions{
		Ref: up.Ref,
	})
	if err != nil {
		return nil, &buildtool.Error{Kind: buildtool.NetworkFailure, Subject: subject, Err: err}
	}
	if file != nil {
		return nil, xerrors.Errorf("%s: is a file, not a directory", subject)
	}
	var urls []string
	for _, c := range dir {
		if c.GetType() != "file" || !strings.HasSuffix(c.GetName(), ".proto") {
			continue
		}
		if c.GetDownloadURL() == "" {
			return nil, xerrors.Errorf("%s: %s has no download URL", subject, c.GetName())
		}
		urls = append(urls, c.GetDownloadURL())
	}
	sort.Strings(urls)
	return urls, nil
}
