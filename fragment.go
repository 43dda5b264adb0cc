package fluentdoc

import (
	"encoding/binary"
	"encoding/hex"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"
)

// Fragment is the extracted plain-text content of one documentation page.
// Fragments are immutable values; they are never cached across runs.
type Fragment struct {
	URL       string    `json:"url"`
	Title     string    `json:"title"`
	Text      string    `json:"text"`
	Checksum  string    `json:"checksum"`
	FetchedAt time.Time `json:"fetchedAt"`
}

// Validate returns an error if the fragment contains invalid fields.
func (f *Fragment) Validate() error {
	if f.URL == "" {
		return Errorf(EINVALID, "fragment URL required")
	}
	if f.Text == "" {
		return Errorf(EINVALID, "fragment text required")
	}
	return nil
}

// Checksum computes the xxHash of text and returns it as a hex string.
func Checksum(text string) string {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], xxhash.Sum64String(text))
	return hex.EncodeToString(b[:])
}

// chromeMarker separates the portal's TOC chrome from the section content
// in the rendered frame text.
const chromeMarker = "PRINT PAGE"

// TrimChrome removes the portal navigation chrome from rendered frame
// text. Everything up to and including the marker is chrome; text without
// the marker is returned unchanged.
func TrimChrome(text string) string {
	if idx := strings.Index(text, chromeMarker); idx != -1 {
		return strings.TrimSpace(text[idx+len(chromeMarker):])
	}
	return text
}

// Denial and not-found signatures observed on the portal. The exact
// detection surface is undocumented and shifts; keep these tables isolated
// here so they can be extended without touching navigation code.
var (
	notFoundBodySignatures = []string{
		"page cannot be found",
	}
	notFoundURLSignatures = []string{
		"PageNotfound",
	}
	blockedBodySignatures = []string{
		"access denied",
		"request unsuccessful",
	}
)

// ClassifyBody inspects a rendered frame body and its final URL for the
// portal's error-page signatures. It returns nil for normal content,
// ENOTFOUND for a missing page, and EBLOCKED for an access-denial
// interstitial. A denied body must never be passed through as content.
func ClassifyBody(url, text string) error {
	for _, sig := range notFoundURLSignatures {
		if strings.Contains(url, sig) {
			return Errorf(ENOTFOUND, "page not found at %s", url)
		}
	}

	lower := strings.ToLower(text)
	for _, sig := range notFoundBodySignatures {
		if strings.Contains(lower, sig) {
			return Errorf(ENOTFOUND, "page not found at %s", url)
		}
	}
	for _, sig := range blockedBodySignatures {
		if strings.Contains(lower, sig) {
			return Errorf(EBLOCKED, "access denied at %s", url)
		}
	}

	return nil
}

// TitleFromPath humanizes a content path into a display title when no TOC
// title is known: "flu_th/flu_th_sec_turb_kw_sst.html" becomes
// "Flu Th Sec Turb Kw Sst".
func TitleFromPath(relPath string) string {
	name := relPath
	if idx := strings.LastIndex(name, "/"); idx != -1 {
		name = name[idx+1:]
	}
	name = strings.TrimSuffix(name, ".html")
	name = strings.ReplaceAll(name, "_", " ")

	words := strings.Fields(name)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
