package fluentdoc

import "strings"

// VersionEntry maps a logical ANSYS release name to the version code used
// in portal URL paths.
type VersionEntry struct {
	Release string `json:"release"`
	Code    string `json:"code"`
}

// releases is the static release table. Newest first.
var releases = []VersionEntry{
	{Release: "2025 R2", Code: "v252"},
	{Release: "2025 R1", Code: "v251"},
	{Release: "2024 R2", Code: "v242"},
	{Release: "2024 R1", Code: "v241"},
	{Release: "2023 R2", Code: "v232"},
	{Release: "2023 R1", Code: "v231"},
}

// DefaultRelease is the release assumed when the caller does not specify one.
const DefaultRelease = "2025 R2"

// Releases returns the known release table, newest first.
// The returned slice is a copy and may be modified by the caller.
func Releases() []VersionEntry {
	out := make([]VersionEntry, len(releases))
	copy(out, releases)
	return out
}

// VersionCode resolves a release identifier to the portal's version code.
// It accepts a release name ("2025 R2", "2025r2") or an already-coded value
// ("v252"), case-insensitively. Unknown identifiers return EINVALID.
func VersionCode(release string) (string, error) {
	normalized := strings.ToLower(strings.ReplaceAll(release, " ", ""))
	if normalized == "" {
		return "", Errorf(EINVALID, "release required")
	}

	for _, entry := range releases {
		if normalized == entry.Code {
			return entry.Code, nil
		}
		if normalized == strings.ToLower(strings.ReplaceAll(entry.Release, " ", "")) {
			return entry.Code, nil
		}
	}

	return "", Errorf(EINVALID, "unknown release %q", release)
}
