package types

// Repo is the fully resolved description of a remote source, produced once
// by the descriptor parser and treated as read-only afterwards.
type Repo struct {
	// Site is the short identifier of the hosting service, e.g. "github".
	Site string
	// User is the owning user or organization.
	User string
	// Name is the repository name, with any ".git" suffix stripped.
	Name string
	// Ref is the raw requested ref. Defaults to "HEAD". It may carry an
	// embedded "#" in the two-part "HEAD#<hash>" form.
	Ref string
	// URL is the HTTPS base URL of the repository.
	URL string
	// SSH is the SCP-style URL of the repository.
	SSH string
	// SubDir is the requested sub-directory inside the repository. It is
	// either empty or starts with "/".
	SubDir string
	// Subgroup marks GitLab nested-namespace addressing.
	Subgroup bool
}

// CacheMap is the persisted ref -> commit hash mapping for one repository.
type CacheMap map[string]string

// AccessLog is the persisted ref -> last-access timestamp (RFC 3339)
// mapping for one repository.
type AccessLog map[string]string
