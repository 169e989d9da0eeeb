package text

import (
	"errors"

	"github.com/kristiker/keyvalues3"
	"github.com/kristiker/keyvalues3/binary"
	"github.com/kristiker/keyvalues3/errs"
)

// Decode implements the top-level file-level policy of §7: attempt a binary
// decode first; InvalidMagic alone falls back to a text decode, and any
// other binary error surfaces unmodified. It lives in this package (rather
// than the module root or binary) because it needs to import both binary
// and keyvalues3, and text is the only package that can do so without
// creating an import cycle.
func Decode(data []byte) (keyvalues3.Document, error) {
	doc, err := binary.Decode(data)
	if err == nil {
		return doc, nil
	}
	if !errors.Is(err, errs.ErrInvalidMagic) {
		return keyvalues3.Document{}, err
	}

	return Parse(string(data))
}
