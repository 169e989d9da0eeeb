package keyvalues3

import (
	"fmt"
	"unicode"

	"github.com/google/uuid"
	"github.com/kristiker/keyvalues3/wire"
)

// HeaderPiece is one half of a document header: a user-chosen name paired
// with the UUID that actually identifies the variant on the wire. Both
// Encoding and Format are shaped this way.
type HeaderPiece struct {
	Name string
	UUID uuid.UUID
}

// String renders the piece as it appears in a text header:
// "<name>:version{<uuid>}".
func (p HeaderPiece) String() string {
	return fmt.Sprintf("%s:version{%s}", p.Name, p.UUID)
}

// IsIdentifier reports whether name is a valid KV3 identifier: a
// non-empty string of letters, digits, and underscores, not starting with
// a digit. HeaderPiece names must satisfy this; Object keys need not (see
// Validate).
func IsIdentifier(name string) bool {
	if name == "" {
		return false
	}
	for i, r := range name {
		switch {
		case r == '_' || unicode.IsLetter(r):
		case unicode.IsDigit(r) && i > 0:
		default:
			return false
		}
	}

	return true
}

// Known encodings and the generic format, by name, for convenient
// construction (mirrors wire's UUID constants).
var (
	EncodingText                  = HeaderPiece{Name: "text", UUID: wire.EncodingText}
	EncodingBinaryUncompressed    = HeaderPiece{Name: "binary", UUID: wire.EncodingBinaryUncompressed}
	EncodingBinaryBlockCompressed = HeaderPiece{Name: "binary", UUID: wire.EncodingBinaryBlockCompressed}
	EncodingBinaryBlockLZ4        = HeaderPiece{Name: "binary", UUID: wire.EncodingBinaryBlockLZ4}
	FormatGeneric                 = HeaderPiece{Name: "generic", UUID: wire.FormatGeneric}
)

// Document pairs a decoded/constructed Value with the header that describes
// it. Decoded documents retain the Encoding observed on the wire so they
// can be re-encoded with the same wrapping.
type Document struct {
	Value    Value
	Encoding HeaderPiece
	Format   HeaderPiece
}

// NewDocument builds a Document with the generic format and the
// EncodingBinaryUncompressed encoding.
func NewDocument(value Value) Document {
	return Document{Value: value, Encoding: EncodingBinaryUncompressed, Format: FormatGeneric}
}
