package cardano

import "fmt"

// DecodeKind classifies a DecodeError.
type DecodeKind int

const (
	// DecodeMalformed means the input is not well-formed for the wire format,
	// e.g. truncated CBOR or a length prefix pointing past the end.
	DecodeMalformed DecodeKind = iota
	// DecodeUnsupportedFormat means the input is well-formed but uses a shape
	// or version this codec does not recognize.
	DecodeUnsupportedFormat
	// DecodeConstraintViolation means the input decoded structurally but a
	// domain constraint is broken, e.g. a negative quantity.
	DecodeConstraintViolation
)

func (k DecodeKind) String() string {
	switch k {
	case DecodeMalformed:
		return "malformed"
	case DecodeUnsupportedFormat:
		return "unsupported format"
	case DecodeConstraintViolation:
		return "constraint violation"
	default:
		return "unknown"
	}
}

// DecodeError is returned by all Decode* functions. It is never downgraded to
// a zero value: a failed decode yields no entity at all.
type DecodeError struct {
	Kind   DecodeKind
	Entity string
	Detail string
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("%s: %s: %s", e.Entity, e.Kind, e.Detail)
}

func malformedErr(entity, format string, args ...interface{}) *DecodeError {
	return &DecodeError{Kind: DecodeMalformed, Entity: entity, Detail: fmt.Sprintf(format, args...)}
}

func unsupportedErr(entity, format string, args ...interface{}) *DecodeError {
	return &DecodeError{Kind: DecodeUnsupportedFormat, Entity: entity, Detail: fmt.Sprintf(format, args...)}
}

func constraintErr(entity, format string, args ...interface{}) *DecodeError {
	return &DecodeError{Kind: DecodeConstraintViolation, Entity: entity, Detail: fmt.Sprintf(format, args...)}
}
