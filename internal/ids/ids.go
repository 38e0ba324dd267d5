// Package ids generates the short random identifiers used throughout a
// document: item-xxxxxxxx, ckl-xxxxxxxx, grp-xxxxxxxx, file-xxxxxxxx.
package ids

import (
	"crypto/rand"
	"encoding/base32"
	"strings"
)

const (
	PrefixItem      = "item"
	PrefixChecklist = "ckl"
	PrefixGroup     = "grp"
	PrefixFile      = "file"
)

// New returns prefix-<suffix> where suffix is 8 chars of base32 (lowercase,
// no padding). 8 chars base32 ~= 40 bits of space, plenty for ids scoped to
// a single document; callers that must guarantee uniqueness retry against
// their own id set.
func New(prefix string) string {
	var b [5]byte // 40 bits -> 8 base32 chars
	// crypto/rand.Read never returns an error as of Go 1.24.
	_, _ = rand.Read(b[:])
	enc := base32.StdEncoding.WithPadding(base32.NoPadding)
	return prefix + "-" + strings.ToLower(enc.EncodeToString(b[:]))
}
