// Package content holds the ordered block sequence that feeds pagination,
// together with the loaders that build it from .folio documents or HTML.
package content

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Reserved keys of the two header markers.
const (
	HeaderFirstKey = "__header_first"
	HeaderRestKey  = "__header_rest"
)

// ErrInvalidSequence is returned by Sequence.Validate.
var ErrInvalidSequence = errors.New("content: invalid block sequence")

// Variant selects the visual wrapper of a block.
type Variant string

const (
	VariantBlock  Variant = "block"
	VariantSubtle Variant = "subtle"
)

// ElementKind enumerates the renderable element types.
type ElementKind string

const (
	KindText    ElementKind = "text"
	KindHeading ElementKind = "heading"
	KindTable   ElementKind = "table"
	KindImage   ElementKind = "image"
	KindSpacer  ElementKind = "spacer"
)

// Text styles understood by the layout wrapper.
const (
	StyleBody  = "body"
	StyleSmall = "small"
)

// Row is one label/value line of a table.
type Row struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// Image references an image resource with its declared size in mm.
type Image struct {
	Src    string  `json:"src"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Element is one renderable piece of a block.
type Element struct {
	Kind   ElementKind `json:"kind"`
	Text   string      `json:"text,omitempty"`
	Style  string      `json:"style,omitempty"`
	Align  string      `json:"align,omitempty"`
	Rows   []Row       `json:"rows,omitempty"`
	Image  *Image      `json:"image,omitempty"`
	Height float64     `json:"height,omitempty"` // spacer height in mm
}

// Block is an atomic, unsplittable unit of document content.
type Block struct {
	Key      string    `json:"key"`
	Variant  Variant   `json:"variant"`
	Title    string    `json:"title,omitempty"`
	Elements []Element `json:"elements"`
}

// IsHeader reports whether b is one of the two header markers.
func (b Block) IsHeader() bool {
	return b.Key == HeaderFirstKey || b.Key == HeaderRestKey
}

// Sequence is the ordered block list including the two header markers.
type Sequence struct {
	Blocks []Block `json:"blocks"`
}

// Placeable returns the non-header blocks in original order.
func (s Sequence) Placeable() []Block {
	out := make([]Block, 0, len(s.Blocks))
	for _, b := range s.Blocks {
		if !b.IsHeader() {
			out = append(out, b)
		}
	}
	return out
}

// Header returns the first-page or continuation header marker.
func (s Sequence) Header(first bool) (Block, bool) {
	key := HeaderRestKey
	if first {
		key = HeaderFirstKey
	}
	for _, b := range s.Blocks {
		if b.Key == key {
			return b, true
		}
	}
	return Block{}, false
}

// Validate checks key uniqueness, that both header markers are present
// exactly once and that every variant is known.
func (s Sequence) Validate() error {
	seen := make(map[string]bool, len(s.Blocks))
	for i, b := range s.Blocks {
		if strings.TrimSpace(b.Key) == "" {
			return fmt.Errorf("%w: block %d has an empty key", ErrInvalidSequence, i)
		}
		if seen[b.Key] {
			return fmt.Errorf("%w: duplicate key %q", ErrInvalidSequence, b.Key)
		}
		seen[b.Key] = true
		if b.Variant != VariantBlock && b.Variant != VariantSubtle {
			return fmt.Errorf("%w: block %q has unknown variant %q", ErrInvalidSequence, b.Key, b.Variant)
		}
	}
	for _, key := range []string{HeaderFirstKey, HeaderRestKey} {
		if !seen[key] {
			return fmt.Errorf("%w: missing header marker %s", ErrInvalidSequence, key)
		}
	}
	return nil
}

// Signature fingerprints everything that can change the rendered height of
// the sequence: keys, variants, titles and the full element payloads.
func (s Sequence) Signature() string {
	h := sha256.New()
	enc := json.NewEncoder(h)
	for _, b := range s.Blocks {
		// Block only holds strings, numbers and slices of them; encoding cannot fail.
		_ = enc.Encode(b)
	}
	return hex.EncodeToString(h.Sum(nil))
}

// TitleSignature is the narrow fingerprint over (key, title, variant) only.
// Content changes that keep titles intact do not change it.
func (s Sequence) TitleSignature() string {
	var b strings.Builder
	b.WriteByte('[')
	for i, blk := range s.Blocks {
		if i > 0 {
			b.WriteByte(',')
		}
		fmt.Fprintf(&b, "[%s,%s,%s]", strconv.Quote(blk.Key), strconv.Quote(blk.Title), strconv.Quote(string(blk.Variant)))
	}
	b.WriteByte(']')
	return b.String()
}
