// Package repoinfo reads repository facts used for edit links.
package repoinfo

import (
	"net/url"
	"strings"

	"github.com/go-git/go-git/v5"

	"git.home.luguber.info/inful/navbuilder/internal/foundation/errors"
)

// Info describes the repository a site is built from.
type Info struct {
	Host   string
	Owner  string
	Name   string
	Branch string
}

// Repo returns the value theme-hope expects for theme.repo: owner/name on
// GitHub and a full URL elsewhere.
func (i Info) Repo() string {
	if i.Host == "github.com" {
		return i.Owner + "/" + i.Name
	}
	return "https://" + i.Host + "/" + i.Owner + "/" + i.Name
}

// Detect opens the git repository containing dir and reads its origin remote
// and checked out branch.
func Detect(dir string) (Info, error) {
	repo, err := git.PlainOpenWithOptions(dir, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return Info{}, errors.GitError("no git repository found").WithCause(err).
			WithContext("path", dir).
			Build()
	}

	remote, err := repo.Remote("origin")
	if err != nil {
		return Info{}, errors.GitError("repository has no origin remote").WithCause(err).
			WithContext("path", dir).
			Build()
	}
	urls := remote.Config().URLs
	if len(urls) == 0 {
		return Info{}, errors.GitError("origin remote has no URL").WithContext("path", dir).Build()
	}

	info, ok := ParseRemote(urls[0])
	if !ok {
		return Info{}, errors.GitError("unrecognized origin URL").
			WithContext("url", urls[0]).
			Build()
	}
	if head, err := repo.Head(); err == nil && head.Name().IsBranch() {
		info.Branch = head.Name().Short()
	}
	return info, nil
}

// ParseRemote extracts host, owner and name from an https or ssh remote URL.
func ParseRemote(remote string) (Info, bool) {
	remote = strings.TrimSpace(remote)
	var host, repoPath string

	switch {
	case strings.Contains(remote, "://"):
		u, err := url.Parse(remote)
		if err != nil || u.Host == "" {
			return Info{}, false
		}
		host, repoPath = u.Hostname(), u.Path
	case strings.Contains(remote, ":"):
		// scp-like syntax: git@github.com:owner/name.git
		at := strings.LastIndex(remote, "@")
		hostAndPath := remote[at+1:]
		i := strings.Index(hostAndPath, ":")
		host, repoPath = hostAndPath[:i], hostAndPath[i+1:]
	default:
		return Info{}, false
	}

	repoPath = strings.TrimSuffix(strings.Trim(repoPath, "/"), ".git")
	slash := strings.LastIndex(repoPath, "/")
	if host == "" || slash <= 0 || slash == len(repoPath)-1 {
		return Info{}, false
	}
	return Info{
		Host:  strings.ToLower(host),
		Owner: repoPath[:slash],
		Name:  repoPath[slash+1:],
	}, true
}
