// Package assets maps prospects, schools, teams, leagues and nationalities onto image
// paths, substituting a short text badge for any image that is not on disk.
package assets

import (
	"io/fs"
	"strings"
	"sync"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// Kind selects an image family and its path template.
type Kind string

const (
	Cutout  Kind = "cutouts"
	School  Kind = "schools"
	NBA     Kind = "nba"
	League  Kind = "leagues"
	Flag    Kind = "flags"
	urlRoot      = "/assets/"
)

// Image is a resolved image reference. Src is empty when the file is missing, in which
// case the view renders Fallback as a badge.
type Image struct {
	Src      string
	Alt      string
	Fallback string
}

// Missing reports whether the image should render as its text fallback.
func (i Image) Missing() bool { return i.Src == "" }

// Resolver resolves images against an asset tree. A nil FS resolves every path
// without checking, leaving the browser's error handler to swap in the fallback.
type Resolver struct {
	fsys fs.FS

	mu     sync.RWMutex
	exists map[string]bool
}

// NewResolver creates a resolver over fsys, which is rooted at the assets directory.
func NewResolver(fsys fs.FS) *Resolver {
	return &Resolver{fsys: fsys, exists: make(map[string]bool)}
}

// Resolve maps a display value onto its image.
func (r *Resolver) Resolve(kind Kind, value string) Image {
	value = strings.TrimSpace(value)
	img := Image{Alt: value, Fallback: Badge(value)}
	if value == "" || strings.EqualFold(value, "N/A") {
		return img
	}
	rel := Path(kind, value)
	if r.present(rel) {
		img.Src = urlRoot + rel
	}
	return img
}

// Reset forgets cached lookups, for when the asset tree changes.
func (r *Resolver) Reset() {
	r.mu.Lock()
	r.exists = make(map[string]bool)
	r.mu.Unlock()
}

func (r *Resolver) present(rel string) bool {
	if r == nil || r.fsys == nil {
		return true
	}
	r.mu.RLock()
	ok, cached := r.exists[rel]
	r.mu.RUnlock()
	if cached {
		return ok
	}
	_, err := fs.Stat(r.fsys, rel)
	ok = err == nil
	r.mu.Lock()
	r.exists[rel] = ok
	r.mu.Unlock()
	return ok
}

// Path is the asset-relative path of an image. NBA logos are keyed on the upper-case
// abbreviation; every other family on a slug of the value.
func Path(kind Kind, value string) string {
	if kind == NBA {
		return string(kind) + "/" + strings.ToUpper(strings.TrimSpace(value)) + ".png"
	}
	return string(kind) + "/" + Slug(value) + ".png"
}

// Slug lower-cases value, strips accents and joins words with hyphens.
func Slug(value string) string {
	var b strings.Builder
	dash := false
	for _, r := range norm.NFD.String(value) {
		switch {
		case unicode.Is(unicode.Mn, r):
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			if dash && b.Len() > 0 {
				b.WriteByte('-')
			}
			dash = false
			b.WriteRune(unicode.ToLower(r))
		default:
			dash = true
		}
	}
	return b.String()
}

// Badge is the text shown in place of a missing image: short values as-is, otherwise
// the initials of up to three words.
func Badge(value string) string {
	value = strings.TrimSpace(value)
	if value == "" || strings.EqualFold(value, "N/A") {
		return "?"
	}
	if len([]rune(value)) <= 4 && !strings.Contains(value, " ") {
		return strings.ToUpper(value)
	}
	var b strings.Builder
	for _, w := range strings.Fields(value) {
		r := []rune(w)[0]
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			continue
		}
		b.WriteRune(unicode.ToUpper(r))
		if b.Len() >= 3 {
			break
		}
	}
	if b.Len() == 0 {
		return "?"
	}
	return b.String()
}
