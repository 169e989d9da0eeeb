// Package errs defines the error taxonomy shared by every reader and writer
// in this module. Each variant is a distinguishable sentinel or constructor
// so callers can branch with errors.Is/errors.As; nothing in the decode path
// panics on malformed input.
package errs

import (
	"errors"
	"fmt"
)

// Sentinel errors usable with errors.Is. Constructors below wrap these with
// the offending value/offset so errors.As can recover structured detail.
var (
	ErrInvalidMagic           = errors.New("kv3: invalid magic")
	ErrUnsupportedVersion     = errors.New("kv3: unsupported version")
	ErrUnsupportedEncoding    = errors.New("kv3: unsupported legacy encoding")
	ErrUnsupportedCompression = errors.New("kv3: unsupported compression method")
	ErrTruncatedInput         = errors.New("kv3: truncated input")
	ErrDecompressionFailure   = errors.New("kv3: decompression failed")
	ErrBadSentinel            = errors.New("kv3: bad sentinel")
	ErrStringIndexOutOfRange  = errors.New("kv3: string index out of range")
	ErrUnknownKind            = errors.New("kv3: unknown kind")
	ErrReservedFlagSet        = errors.New("kv3: reserved flag bit set")
	ErrInvalidSpecifier       = errors.New("kv3: invalid specifier")
	ErrInvalidValue           = errors.New("kv3: invalid value")
	ErrWriteSink              = errors.New("kv3: write sink failure")
)

// InvalidMagicError carries the unrecognized 4-byte prefix.
type InvalidMagicError struct {
	Bytes [4]byte
}

func (e *InvalidMagicError) Error() string {
	return fmt.Sprintf("%s: %02x %02x %02x %02x", ErrInvalidMagic, e.Bytes[0], e.Bytes[1], e.Bytes[2], e.Bytes[3])
}

func (e *InvalidMagicError) Unwrap() error { return ErrInvalidMagic }

// NewInvalidMagic builds an InvalidMagicError.
func NewInvalidMagic(prefix [4]byte) error {
	return &InvalidMagicError{Bytes: prefix}
}

// UnsupportedEncodingError carries the unknown legacy encoding UUID.
type UnsupportedEncodingError struct {
	UUID string
}

func (e *UnsupportedEncodingError) Error() string {
	return fmt.Sprintf("%s: %s", ErrUnsupportedEncoding, e.UUID)
}

func (e *UnsupportedEncodingError) Unwrap() error { return ErrUnsupportedEncoding }

// NewUnsupportedEncoding builds an UnsupportedEncodingError.
func NewUnsupportedEncoding(uuidStr string) error {
	return &UnsupportedEncodingError{UUID: uuidStr}
}

// UnsupportedCompressionError carries the rejected method and the lane/group
// it was found in.
type UnsupportedCompressionError struct {
	Method uint32
	Where  string
}

func (e *UnsupportedCompressionError) Error() string {
	return fmt.Sprintf("%s: method=%d where=%s", ErrUnsupportedCompression, e.Method, e.Where)
}

func (e *UnsupportedCompressionError) Unwrap() error { return ErrUnsupportedCompression }

// NewUnsupportedCompression builds an UnsupportedCompressionError.
func NewUnsupportedCompression(method uint32, where string) error {
	return &UnsupportedCompressionError{Method: method, Where: where}
}

// TruncatedInputError carries the offset at which a lane read ran past its
// end and the number of bytes it still needed.
type TruncatedInputError struct {
	Offset int
	Need   int
}

func (e *TruncatedInputError) Error() string {
	return fmt.Sprintf("%s: offset=%d need=%d", ErrTruncatedInput, e.Offset, e.Need)
}

func (e *TruncatedInputError) Unwrap() error { return ErrTruncatedInput }

// NewTruncatedInput builds a TruncatedInputError.
func NewTruncatedInput(offset, need int) error {
	return &TruncatedInputError{Offset: offset, Need: need}
}

// DecompressionFailureError wraps the inner codec error with the codec name.
type DecompressionFailureError struct {
	Codec string
	Inner error
}

func (e *DecompressionFailureError) Error() string {
	return fmt.Sprintf("%s: codec=%s: %v", ErrDecompressionFailure, e.Codec, e.Inner)
}

func (e *DecompressionFailureError) Unwrap() error { return ErrDecompressionFailure }

// NewDecompressionFailure builds a DecompressionFailureError.
func NewDecompressionFailure(codec string, inner error) error {
	return &DecompressionFailureError{Codec: codec, Inner: inner}
}

// BadSentinelError carries the offset and the value actually found.
type BadSentinelError struct {
	Offset   int
	Expected uint32
	Got      uint32
}

func (e *BadSentinelError) Error() string {
	return fmt.Sprintf("%s: offset=%d expected=%#x got=%#x", ErrBadSentinel, e.Offset, e.Expected, e.Got)
}

func (e *BadSentinelError) Unwrap() error { return ErrBadSentinel }

// NewBadSentinel builds a BadSentinelError.
func NewBadSentinel(offset int, expected, got uint32) error {
	return &BadSentinelError{Offset: offset, Expected: expected, Got: got}
}

// StringIndexOutOfRangeError carries the bad index and the table size.
type StringIndexOutOfRangeError struct {
	Index     int32
	TableSize int
}

func (e *StringIndexOutOfRangeError) Error() string {
	return fmt.Sprintf("%s: index=%d table_size=%d", ErrStringIndexOutOfRange, e.Index, e.TableSize)
}

func (e *StringIndexOutOfRangeError) Unwrap() error { return ErrStringIndexOutOfRange }

// NewStringIndexOutOfRange builds a StringIndexOutOfRangeError.
func NewStringIndexOutOfRange(index int32, tableSize int) error {
	return &StringIndexOutOfRangeError{Index: index, TableSize: tableSize}
}

// UnknownKindError carries the raw type byte.
type UnknownKindError struct {
	Byte byte
}

func (e *UnknownKindError) Error() string {
	return fmt.Sprintf("%s: %#x", ErrUnknownKind, e.Byte)
}

func (e *UnknownKindError) Unwrap() error { return ErrUnknownKind }

// NewUnknownKind builds an UnknownKindError.
func NewUnknownKind(b byte) error {
	return &UnknownKindError{Byte: b}
}

// ReservedFlagSetError carries the offending type byte (V5's 0x40 bit).
type ReservedFlagSetError struct {
	Byte byte
}

func (e *ReservedFlagSetError) Error() string {
	return fmt.Sprintf("%s: %#x", ErrReservedFlagSet, e.Byte)
}

func (e *ReservedFlagSetError) Unwrap() error { return ErrReservedFlagSet }

// NewReservedFlagSet builds a ReservedFlagSetError.
func NewReservedFlagSet(b byte) error {
	return &ReservedFlagSetError{Byte: b}
}

// InvalidSpecifierError carries the raw specifier byte.
type InvalidSpecifierError struct {
	Byte byte
}

func (e *InvalidSpecifierError) Error() string {
	return fmt.Sprintf("%s: %#x", ErrInvalidSpecifier, e.Byte)
}

func (e *InvalidSpecifierError) Unwrap() error { return ErrInvalidSpecifier }

// NewInvalidSpecifier builds an InvalidSpecifierError.
func NewInvalidSpecifier(b byte) error {
	return &InvalidSpecifierError{Byte: b}
}

// InvalidValueError carries a human-readable reason, used by the validator
// on encode (out-of-range int, cyclic graph, non-string key, ...).
type InvalidValueError struct {
	Reason string
}

func (e *InvalidValueError) Error() string {
	return fmt.Sprintf("%s: %s", ErrInvalidValue, e.Reason)
}

func (e *InvalidValueError) Unwrap() error { return ErrInvalidValue }

// NewInvalidValue builds an InvalidValueError.
func NewInvalidValue(reason string) error {
	return &InvalidValueError{Reason: reason}
}

// NewWriteSink wraps a sink (io.Writer) failure.
func NewWriteSink(inner error) error {
	return fmt.Errorf("%w: %v", ErrWriteSink, inner)
}
