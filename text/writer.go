package text

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/kristiker/keyvalues3"
)

// Write renders doc as KV3 text: the header comment followed by the root
// value, using tab indentation the way the reference writer does.
func Write(doc keyvalues3.Document) (string, error) {
	var sb strings.Builder

	fmt.Fprintf(&sb, "<!-- kv3 encoding:%s format:%s -->\n", doc.Encoding, doc.Format)

	w := &writer{sb: &sb}
	if err := w.writeValue(doc.Value, 0); err != nil {
		return "", err
	}
	sb.WriteByte('\n')

	return sb.String(), nil
}

type writer struct {
	sb *strings.Builder
}

func (w *writer) indent(depth int) {
	for i := 0; i < depth; i++ {
		w.sb.WriteByte('\t')
	}
}

func (w *writer) writeValue(v keyvalues3.Value, depth int) error {
	inner, flags := keyvalues3.Unwrap(v)

	if flags != 0 {
		if s, ok := flags.Single(); ok && s == keyvalues3.FlagMultiLineString {
			return w.writeMultilineString(inner, depth)
		}
		w.sb.WriteString(flags.String())
		w.sb.WriteByte(':')
	}

	return w.writeInner(inner, depth)
}

func (w *writer) writeMultilineString(v keyvalues3.Value, depth int) error {
	s, ok := v.(keyvalues3.String)
	if !ok {
		return fmt.Errorf("text: MultiLineString flag on non-string value")
	}
	w.sb.WriteString(`"""`)
	w.sb.WriteByte('\n')
	w.sb.WriteString(string(s))
	w.sb.WriteString(`"""`)

	return nil
}

func (w *writer) writeInner(v keyvalues3.Value, depth int) error {
	switch val := v.(type) {
	case keyvalues3.Null:
		w.sb.WriteString("null")
	case keyvalues3.Bool:
		if val {
			w.sb.WriteString("true")
		} else {
			w.sb.WriteString("false")
		}
	case keyvalues3.Int64:
		w.sb.WriteString(strconv.FormatInt(int64(val), 10))
	case keyvalues3.UInt64:
		w.sb.WriteString(strconv.FormatUint(uint64(val), 10))
	case keyvalues3.Int32:
		w.sb.WriteString(strconv.FormatInt(int64(val), 10))
	case keyvalues3.UInt32:
		w.sb.WriteString(strconv.FormatUint(uint64(val), 10))
	case keyvalues3.Int16:
		w.sb.WriteString(strconv.FormatInt(int64(val), 10))
	case keyvalues3.UInt16:
		w.sb.WriteString(strconv.FormatUint(uint64(val), 10))
	case keyvalues3.Int8:
		w.sb.WriteString(strconv.FormatInt(int64(val), 10))
	case keyvalues3.UInt8:
		w.sb.WriteString(strconv.FormatUint(uint64(val), 10))
	case keyvalues3.Double:
		w.writeFloat(float64(val))
	case keyvalues3.Float:
		w.writeFloat(float64(val))
	case keyvalues3.String:
		w.writeQuotedString(string(val))
	case keyvalues3.Blob:
		w.writeBlob(val)
	case keyvalues3.Array:
		return w.writeArray(val, depth)
	case keyvalues3.TypedArray:
		return w.writeTypedArray(val, depth)
	case keyvalues3.Object:
		return w.writeObject(val, depth)
	default:
		return fmt.Errorf("text: unsupported value type %T", v)
	}

	return nil
}

func (w *writer) writeFloat(f float64) {
	switch {
	case math.IsNaN(f):
		w.sb.WriteString("nan")
	case math.IsInf(f, 1):
		w.sb.WriteString("inf")
	case math.IsInf(f, -1):
		w.sb.WriteString("-inf")
	default:
		s := strconv.FormatFloat(f, 'g', -1, 64)
		if !strings.ContainsAny(s, ".eE") {
			s += ".0"
		}
		w.sb.WriteString(s)
	}
}

func (w *writer) writeQuotedString(s string) {
	w.sb.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			w.sb.WriteString(`\"`)
		case '\\':
			w.sb.WriteString(`\\`)
		case '\n':
			w.sb.WriteString(`\n`)
		case '\t':
			w.sb.WriteString(`\t`)
		case '\r':
			w.sb.WriteString(`\r`)
		default:
			w.sb.WriteRune(r)
		}
	}
	w.sb.WriteByte('"')
}

func (w *writer) writeBlob(b []byte) {
	w.sb.WriteString("#[")
	for i, c := range b {
		if i > 0 {
			w.sb.WriteByte(' ')
		}
		fmt.Fprintf(w.sb, "%02x", c)
	}
	w.sb.WriteByte(']')
}

func (w *writer) writeArray(a keyvalues3.Array, depth int) error {
	if len(a) == 0 {
		w.sb.WriteString("[]")

		return nil
	}
	w.sb.WriteString("[\n")
	for _, e := range a {
		w.indent(depth + 1)
		if err := w.writeValue(e, depth+1); err != nil {
			return err
		}
		w.sb.WriteString(",\n")
	}
	w.indent(depth)
	w.sb.WriteByte(']')

	return nil
}

func (w *writer) writeTypedArray(a keyvalues3.TypedArray, depth int) error {
	arr := make(keyvalues3.Array, len(a.Elems))
	copy(arr, a.Elems)

	return w.writeArray(arr, depth)
}

func (w *writer) writeObject(o keyvalues3.Object, depth int) error {
	if len(o) == 0 {
		w.sb.WriteString("{}")

		return nil
	}
	w.sb.WriteString("{\n")
	for _, m := range o {
		w.indent(depth + 1)
		w.writeKey(m.Key)
		w.sb.WriteString(" = ")
		if err := w.writeValue(m.Value, depth+1); err != nil {
			return err
		}
		w.sb.WriteByte('\n')
	}
	w.indent(depth)
	w.sb.WriteByte('}')

	return nil
}

func (w *writer) writeKey(key string) {
	if keyvalues3.IsIdentifier(key) {
		w.sb.WriteString(key)

		return
	}
	w.writeQuotedString(key)
}
