package jetjson

import (
	"errors"

	"github.com/biggeezerdevelopment/jetjson/internal/errs"
)

// Error is the positioned error returned by parsing, navigation and number
// decoding. It carries a code, the byte offset at which the problem was
// detected, and derives (line, column) from the offset on demand.
type Error = errs.Error

// ErrorCode identifies the failure.
type ErrorCode = errs.Code

const (
	ErrEofWhileParsing          = errs.EofWhileParsing
	ErrExpectedColon            = errs.ExpectedColon
	ErrExpectedArrayCommaOrEnd  = errs.ExpectedArrayCommaOrEnd
	ErrExpectedObjectCommaOrEnd = errs.ExpectedObjectCommaOrEnd
	ErrExpectObjectKeyOrEnd     = errs.ExpectObjectKeyOrEnd
	ErrExpectedObjectStart      = errs.ExpectedObjectStart
	ErrExpectedArrayStart       = errs.ExpectedArrayStart
	ErrInvalidLiteral           = errs.InvalidLiteral
	ErrInvalidJSONValue         = errs.InvalidJSONValue
	ErrInvalidEscape            = errs.InvalidEscape
	ErrInvalidNumber            = errs.InvalidNumber
	ErrInvalidUnicodeCodePoint  = errs.InvalidUnicodeCodePoint
	ErrInvalidSurrogate         = errs.InvalidSurrogate
	ErrInvalidUTF8              = errs.InvalidUTF8
	ErrControlCharacterInString = errs.ControlCharacterInString
	ErrTrailingComma            = errs.TrailingComma
	ErrTrailingCharacters       = errs.TrailingCharacters
	ErrRecursionLimitExceeded   = errs.RecursionLimitExceeded
	ErrNumberOutOfRange         = errs.NumberOutOfRange
	ErrFloatMustBeFinite        = errs.FloatMustBeFinite
	ErrNodeBoundExceeded        = errs.NodeBoundExceeded
	ErrGetInEmptyObject         = errs.GetInEmptyObject
	ErrGetUnknownKeyInObject    = errs.GetUnknownKeyInObject
	ErrGetInEmptyArray          = errs.GetInEmptyArray
	ErrGetIndexOutOfArray       = errs.GetIndexOutOfArray
	ErrGetTypeMismatch          = errs.GetTypeMismatch
)

func category(err error) (errs.Category, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Category(), true
	}
	return 0, false
}

// IsSyntaxError reports whether err describes input that is not valid JSON.
func IsSyntaxError(err error) bool {
	c, ok := category(err)
	return ok && c == errs.CategorySyntax
}

// IsNotFound reports whether err came from a getter path that did not
// resolve: unknown key, index past the end, or a step applied to the wrong
// value type.
func IsNotFound(err error) bool {
	c, ok := category(err)
	return ok && c == errs.CategoryNotFound
}

// IsEOF reports whether err was caused by input ending mid-document.
func IsEOF(err error) bool {
	c, ok := category(err)
	return ok && c == errs.CategoryEof
}

// IsSemanticError reports whether err describes well-formed input with
// out-of-range numbers or an impossible node count.
func IsSemanticError(err error) bool {
	c, ok := category(err)
	return ok && c == errs.CategorySemantic
}
