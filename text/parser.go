// Package text implements KV3's text grammar (§4.6): the human-readable
// form every binary variant can losslessly stand in for. It also hosts the
// combined decode policy of §7 (try binary first, fall back to text only on
// InvalidMagic) since that dispatcher needs to import both keyvalues3 and
// binary, and living here — rather than in the module root — keeps the
// dependency graph acyclic.
package text

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode"

	"github.com/google/uuid"
	"github.com/kristiker/keyvalues3"
	"github.com/kristiker/keyvalues3/errs"
)

// Parse reads a complete text document: the header comment followed by one
// value.
func Parse(src string) (keyvalues3.Document, error) {
	p := &parser{src: src}
	p.skipWhitespaceAndComments()

	encoding, format, err := p.parseHeader()
	if err != nil {
		return keyvalues3.Document{}, err
	}

	p.skipWhitespaceAndComments()
	v, err := p.parseValue()
	if err != nil {
		return keyvalues3.Document{}, err
	}

	return keyvalues3.Document{Value: v, Encoding: encoding, Format: format}, nil
}

type parser struct {
	src string
	pos int
}

func (p *parser) errorf(format string, args ...any) error {
	return errs.NewInvalidValue(fmt.Sprintf("text: offset %d: %s", p.pos, fmt.Sprintf(format, args...)))
}

func (p *parser) eof() bool { return p.pos >= len(p.src) }

func (p *parser) peek() byte {
	if p.eof() {
		return 0
	}

	return p.src[p.pos]
}

func (p *parser) advance() byte {
	b := p.src[p.pos]
	p.pos++

	return b
}

func (p *parser) skipWhitespaceAndComments() {
	for !p.eof() {
		c := p.src[p.pos]
		switch {
		case c == ' ' || c == '\t' || c == '\r' || c == '\n':
			p.pos++
		case c == '/' && p.pos+1 < len(p.src) && p.src[p.pos+1] == '/':
			for !p.eof() && p.src[p.pos] != '\n' {
				p.pos++
			}
		case c == '/' && p.pos+1 < len(p.src) && p.src[p.pos+1] == '*':
			p.pos += 2
			for !p.eof() && !(p.src[p.pos] == '*' && p.pos+1 < len(p.src) && p.src[p.pos+1] == '/') {
				p.pos++
			}
			if !p.eof() {
				p.pos += 2
			}
		default:
			return
		}
	}
}

func (p *parser) consumeLiteral(lit string) bool {
	if strings.HasPrefix(p.src[p.pos:], lit) {
		p.pos += len(lit)

		return true
	}

	return false
}

// parseHeader reads "<!-- kv3 encoding:<id>:version{<uuid>} format:<id>:version{<uuid>} -->".
func (p *parser) parseHeader() (encoding, format keyvalues3.HeaderPiece, err error) {
	if !p.consumeLiteral("<!--") {
		return keyvalues3.HeaderPiece{}, keyvalues3.HeaderPiece{}, p.errorf("expected header comment")
	}
	p.skipSpacesOnly()
	if !p.consumeLiteral("kv3") {
		return keyvalues3.HeaderPiece{}, keyvalues3.HeaderPiece{}, p.errorf("expected 'kv3'")
	}
	p.skipSpacesOnly()

	encoding, err = p.parseHeaderPiece("encoding")
	if err != nil {
		return keyvalues3.HeaderPiece{}, keyvalues3.HeaderPiece{}, err
	}
	p.skipSpacesOnly()

	format, err = p.parseHeaderPiece("format")
	if err != nil {
		return keyvalues3.HeaderPiece{}, keyvalues3.HeaderPiece{}, err
	}
	p.skipSpacesOnly()

	if !p.consumeLiteral("-->") {
		return keyvalues3.HeaderPiece{}, keyvalues3.HeaderPiece{}, p.errorf("expected '-->'")
	}

	return encoding, format, nil
}

func (p *parser) skipSpacesOnly() {
	for !p.eof() && (p.src[p.pos] == ' ' || p.src[p.pos] == '\t') {
		p.pos++
	}
}

// parseHeaderPiece reads "<label>:<id>:version{<uuid>}".
func (p *parser) parseHeaderPiece(label string) (keyvalues3.HeaderPiece, error) {
	if !p.consumeLiteral(label + ":") {
		return keyvalues3.HeaderPiece{}, p.errorf("expected '%s:'", label)
	}
	name := p.readIdentifier()
	if !p.consumeLiteral(":version{") {
		return keyvalues3.HeaderPiece{}, p.errorf("expected ':version{'")
	}
	idStr := p.readUntil('}')
	if !p.consumeLiteral("}") {
		return keyvalues3.HeaderPiece{}, p.errorf("expected '}'")
	}
	id, err := uuid.Parse(idStr)
	if err != nil {
		return keyvalues3.HeaderPiece{}, p.errorf("invalid uuid %q: %v", idStr, err)
	}

	return keyvalues3.HeaderPiece{Name: name, UUID: id}, nil
}

func (p *parser) readIdentifier() string {
	start := p.pos
	for !p.eof() && (unicode.IsLetter(rune(p.src[p.pos])) || unicode.IsDigit(rune(p.src[p.pos])) || p.src[p.pos] == '_' || p.src[p.pos] == '-') {
		p.pos++
	}

	return p.src[start:p.pos]
}

func (p *parser) readUntil(delim byte) string {
	start := p.pos
	for !p.eof() && p.src[p.pos] != delim {
		p.pos++
	}

	return p.src[start:p.pos]
}

// parseValue reads one value, including an optional flag prefix.
func (p *parser) parseValue() (keyvalues3.Value, error) {
	p.skipWhitespaceAndComments()

	if flags, ok, err := p.tryParseFlagPrefix(); err != nil {
		return nil, err
	} else if ok {
		inner, err := p.parseValue()
		if err != nil {
			return nil, err
		}

		return keyvalues3.Flagged{Inner: inner, Flags: flags}, nil
	}

	switch c := p.peek(); {
	case c == 'n' && strings.HasPrefix(p.src[p.pos:], "null"):
		p.pos += 4

		return keyvalues3.Null{}, nil
	case c == 't' && strings.HasPrefix(p.src[p.pos:], "true"):
		p.pos += 4

		return keyvalues3.Bool(true), nil
	case c == 'f' && strings.HasPrefix(p.src[p.pos:], "false"):
		p.pos += 5

		return keyvalues3.Bool(false), nil
	case c == '"':
		return p.parseString()
	case c == '#':
		return p.parseBlob()
	case c == '[':
		return p.parseArray()
	case c == '{':
		return p.parseObject()
	case (c == '-' || c == '+') && p.looksLikeSignedNonFiniteWord():
		return p.parseSignedNonFiniteWord()
	case c == '-' || c == '+' || (c >= '0' && c <= '9') || c == '.':
		return p.parseNumber()
	case unicode.IsLetter(rune(c)):
		return p.parseBareNumberWord()
	default:
		return nil, p.errorf("unexpected character %q", c)
	}
}

// looksLikeSignedNonFiniteWord reports whether the character right after a
// leading sign starts a letter, i.e. this is "-inf"/"+nan" rather than an
// ordinary signed numeric literal.
func (p *parser) looksLikeSignedNonFiniteWord() bool {
	return p.pos+1 < len(p.src) && unicode.IsLetter(rune(p.src[p.pos+1]))
}

func (p *parser) parseSignedNonFiniteWord() (keyvalues3.Value, error) {
	neg := p.advance() == '-'
	v, err := p.parseBareNumberWord()
	if err != nil {
		return nil, err
	}
	if neg {
		return keyvalues3.Double(-float64(v.(keyvalues3.Double))), nil
	}

	return v, nil
}

// tryParseFlagPrefix speculatively parses "flag (\"|\" flag)* \":\"" and
// backtracks cleanly if the colon never shows up (so it never misfires on
// a bare identifier that happens to start a number word like "inf").
func (p *parser) tryParseFlagPrefix() (keyvalues3.FlagSet, bool, error) {
	start := p.pos
	var flags keyvalues3.FlagSet
	any := false

	for {
		name := p.readIdentifier()
		if name == "" {
			p.pos = start

			return 0, false, nil
		}
		bit, ok := flagByName[strings.ToLower(name)]
		if !ok {
			p.pos = start

			return 0, false, nil
		}
		flags |= bit
		any = true

		if p.peek() == '|' {
			p.pos++

			continue
		}

		break
	}

	if !any || p.peek() != ':' {
		p.pos = start

		return 0, false, nil
	}
	p.pos++ // consume ':'

	return flags, true, nil
}

var flagByName = map[string]keyvalues3.FlagSet{
	"resource":        keyvalues3.FlagResource,
	"resource_name":   keyvalues3.FlagResourceName,
	"panorama":        keyvalues3.FlagPanorama,
	"soundevent":      keyvalues3.FlagSoundEvent,
	"subclass":        keyvalues3.FlagSubClass,
	"entityname":      keyvalues3.FlagEntityName,
	"multilinestring": keyvalues3.FlagMultiLineString,
	"localize":        keyvalues3.FlagLocalize,
}

func (p *parser) parseString() (keyvalues3.Value, error) {
	if strings.HasPrefix(p.src[p.pos:], `"""`) {
		return p.parseMultilineString()
	}

	p.pos++ // opening quote
	var sb strings.Builder
	for {
		if p.eof() {
			return nil, p.errorf("unterminated string")
		}
		c := p.advance()
		if c == '"' {
			break
		}
		if c == '\\' {
			if p.eof() {
				return nil, p.errorf("unterminated escape")
			}
			sb.WriteByte(unescape(p.advance()))

			continue
		}
		sb.WriteByte(c)
	}

	return keyvalues3.String(sb.String()), nil
}

func unescape(c byte) byte {
	switch c {
	case 'n':
		return '\n'
	case 't':
		return '\t'
	case 'r':
		return '\r'
	default:
		return c
	}
}

// parseMultilineString reads """\n ... """, flagging the in-memory value
// with MultiLineString so a re-emit round-trips back to triple-quote form.
func (p *parser) parseMultilineString() (keyvalues3.Value, error) {
	p.pos += 3
	if p.peek() == '\n' {
		p.pos++
	}
	start := p.pos
	for {
		if p.eof() {
			return nil, p.errorf("unterminated multiline string")
		}
		if strings.HasPrefix(p.src[p.pos:], `"""`) {
			break
		}
		p.pos++
	}
	content := p.src[start:p.pos]
	p.pos += 3

	return keyvalues3.Flagged{Inner: keyvalues3.String(content), Flags: keyvalues3.FlagMultiLineString}, nil
}

// parseBlob reads "#[" hexbyte* "]".
func (p *parser) parseBlob() (keyvalues3.Value, error) {
	if !p.consumeLiteral("#[") {
		return nil, p.errorf("expected '#['")
	}
	var out []byte
	for {
		p.skipWhitespaceAndComments()
		if p.consumeLiteral("]") {
			break
		}
		if p.pos+2 > len(p.src) {
			return nil, p.errorf("truncated blob literal")
		}
		hex := p.src[p.pos : p.pos+2]
		b, err := strconv.ParseUint(hex, 16, 8)
		if err != nil {
			return nil, p.errorf("invalid hex byte %q", hex)
		}
		out = append(out, byte(b))
		p.pos += 2
	}

	return keyvalues3.Blob(out), nil
}

func (p *parser) parseArray() (keyvalues3.Value, error) {
	p.pos++ // '['
	var out keyvalues3.Array
	for {
		p.skipWhitespaceAndComments()
		if p.consumeLiteral("]") {
			break
		}
		v, err := p.parseValue()
		if err != nil {
			return nil, err
		}
		out = append(out, v)
		p.skipWhitespaceAndComments()
		if p.consumeLiteral(",") {
			continue
		}
	}

	return out, nil
}

func (p *parser) parseObject() (keyvalues3.Value, error) {
	p.pos++ // '{'
	var out keyvalues3.Object
	for {
		p.skipWhitespaceAndComments()
		if p.consumeLiteral("}") {
			break
		}
		key, err := p.parseKey()
		if err != nil {
			return nil, err
		}
		p.skipWhitespaceAndComments()
		if !p.consumeLiteral("=") {
			return nil, p.errorf("expected '=' after key %q", key)
		}
		v, err := p.parseValue()
		if err != nil {
			return nil, err
		}
		out = append(out, keyvalues3.ObjectMember{Key: key, Value: v})
		p.skipWhitespaceAndComments()
	}

	return out, nil
}

func (p *parser) parseKey() (string, error) {
	if p.peek() == '"' {
		v, err := p.parseString()
		if err != nil {
			return "", err
		}

		return string(v.(keyvalues3.String)), nil
	}
	name := p.readIdentifier()
	if name == "" {
		return "", p.errorf("expected object key")
	}

	return name, nil
}

func (p *parser) parseNumber() (keyvalues3.Value, error) {
	start := p.pos
	if p.peek() == '+' || p.peek() == '-' {
		p.pos++
	}
	isFloat := false
	for !p.eof() {
		c := p.src[p.pos]
		switch {
		case c >= '0' && c <= '9':
			p.pos++
		case c == '.':
			isFloat = true
			p.pos++
		case c == 'e' || c == 'E':
			isFloat = true
			p.pos++
			if !p.eof() && (p.src[p.pos] == '+' || p.src[p.pos] == '-') {
				p.pos++
			}
		default:
			goto done
		}
	}
done:
	lit := p.src[start:p.pos]
	if isFloat {
		f, err := strconv.ParseFloat(lit, 64)
		if err != nil {
			return nil, p.errorf("invalid number %q", lit)
		}

		return keyvalues3.Double(f), nil
	}
	n, err := strconv.ParseInt(lit, 10, 64)
	if err != nil {
		u, uerr := strconv.ParseUint(lit, 10, 64)
		if uerr != nil {
			return nil, p.errorf("invalid integer %q", lit)
		}

		return keyvalues3.UInt64(u), nil
	}

	return keyvalues3.Int64(n), nil
}

// parseBareNumberWord handles the case-insensitive bareword numeric
// literals "nan" and "inf"/"-inf" (the sign is consumed by
// parseSignedNonFiniteWord when present, so this only ever sees the
// unsigned word).
func (p *parser) parseBareNumberWord() (keyvalues3.Value, error) {
	word := p.readIdentifier()
	switch strings.ToLower(word) {
	case "nan":
		return keyvalues3.Double(math.NaN()), nil
	case "inf":
		return keyvalues3.Double(math.Inf(1)), nil
	default:
		return nil, p.errorf("unexpected identifier %q", word)
	}
}
