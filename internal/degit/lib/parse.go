package lib

import (
	"fmt"
	"strings"

	giturls "github.com/whilp/git-urls"

	"github.com/gingerrexayers/degit-go/internal/degit/types"
)

// ParseRepo turns a free-form source descriptor into a structured repository
// reference. Accepted forms:
//
//	user/name
//	host:user/name
//	git@host:user/name[.git]
//	https://host/user/name[.git]
//
// each optionally followed by /sub/directory segments and a #ref suffix.
// When no host is given, GitHub is assumed.
func ParseRepo(src string, subgroup bool, subDirOpt string) (*types.Repo, error) {
	rest := strings.TrimSpace(src)
	if rest == "" {
		return nil, NewError(CodeBadSrc, "could not parse empty source descriptor")
	}

	// The ref is everything after the first "#". It may itself contain a
	// "#" (the two-part "HEAD#<hash>" form), which stays opaque here and
	// is split by the ref resolver.
	ref := "HEAD"
	if i := strings.Index(rest, "#"); i >= 0 {
		ref = rest[i+1:]
		rest = rest[:i]
		if ref == "" {
			return nil, NewError(CodeBadSrc, fmt.Sprintf("could not parse %q: empty ref", src))
		}
	}

	hostToken, path, err := splitHostPath(rest)
	if err != nil {
		return nil, err
	}

	host, ok := LookupHost(hostToken)
	if !ok {
		return nil, NewError(CodeUnsupportedHost, fmt.Sprintf("%q is not a supported host", hostToken))
	}

	segments := strings.Split(strings.Trim(path, "/"), "/")
	if len(segments) < 2 {
		return nil, NewError(CodeBadSrc, fmt.Sprintf("could not parse %q: expected user/name", src))
	}
	for _, seg := range segments {
		if seg == "" || seg == "." || strings.ContainsAny(seg, " \t") {
			return nil, NewError(CodeBadSrc, fmt.Sprintf("could not parse %q: bad path segment %q", src, seg))
		}
	}

	user := segments[0]
	name := strings.TrimSuffix(segments[1], ".git")
	subDir := ""
	if len(segments) > 2 {
		subDir = "/" + strings.Join(segments[2:], "/")
	}

	repo := &types.Repo{
		Site:     host.Name,
		User:     user,
		Name:     name,
		Ref:      ref,
		URL:      fmt.Sprintf("https://%s/%s/%s", host.Domain, user, name),
		SSH:      fmt.Sprintf("git@%s:%s/%s", host.Domain, user, name),
		SubDir:   subDir,
		Subgroup: subgroup,
	}

	if subgroup && subDir != "" {
		// GitLab nested-namespace addressing: the whole path belongs to
		// the repository, so the last segment becomes the name and the
		// requested sub-directory comes from the dedicated option.
		repo.Name = segments[len(segments)-1]
		repo.URL += subDir + ".git"
		repo.SSH += subDir + ".git"
		repo.SubDir = ""
	}
	if subgroup && subDirOpt != "" {
		repo.SubDir = "/" + strings.Trim(subDirOpt, "/")
	}

	return repo, nil
}

// splitHostPath separates an optional host prefix from the user/name path.
func splitHostPath(src string) (host, path string, err error) {
	if strings.HasPrefix(src, "https://") || strings.HasPrefix(src, "http://") || strings.HasPrefix(src, "git@") {
		u, perr := giturls.Parse(src)
		if perr != nil {
			return "", "", &Error{
				Code:    CodeBadSrc,
				Message: fmt.Sprintf("could not parse %q", src),
				Err:     perr,
			}
		}
		host = u.Hostname()
		if host == "" {
			host = u.Host
		}
		return host, strings.Trim(u.Path, "/"), nil
	}
	if i := strings.Index(src, ":"); i >= 0 {
		return src[:i], src[i+1:], nil
	}
	return "", src, nil
}
