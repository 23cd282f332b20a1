package querykit

import (
	"errors"
	"fmt"
)

// Standard sentinel errors for statement building and mapping.
var (
	// ErrInvalidIdentifier is returned when a raw SQL identifier fails the
	// allow-list grammar.
	ErrInvalidIdentifier = errors.New("querykit: invalid identifier")

	// ErrUnsupportedExpression is returned when a predicate or projection
	// tree contains a shape the compiler cannot lower.
	ErrUnsupportedExpression = errors.New("querykit: unsupported expression")

	// ErrMissingPredicate is returned when an UPDATE or DELETE is built
	// without a WHERE predicate.
	ErrMissingPredicate = errors.New("querykit: missing predicate")

	// ErrUnorderedPaging is returned when Skip/Take is requested on a
	// dialect that requires a deterministic row order for paging and no
	// OrderBy has been configured.
	ErrUnorderedPaging = errors.New("querykit: paging requires order by")

	// ErrUnknownMapping is returned when a type or member lookup fails
	// where the caller required it to exist.
	ErrUnknownMapping = errors.New("querykit: unknown mapping")
)

// InvalidIdentifierError reports a raw identifier rejected by ValidateIdent.
type InvalidIdentifierError struct {
	Ident string
}

// Error returns the error string.
func (e *InvalidIdentifierError) Error() string {
	return fmt.Sprintf("querykit: invalid identifier %q", e.Ident)
}

// Is reports whether the target matches ErrInvalidIdentifier.
func (e *InvalidIdentifierError) Is(err error) bool {
	return err == ErrInvalidIdentifier
}

// NewInvalidIdentifierError returns a new InvalidIdentifierError for the
// given raw input.
func NewInvalidIdentifierError(ident string) *InvalidIdentifierError {
	return &InvalidIdentifierError{Ident: ident}
}

// IsInvalidIdentifier returns true if the error is an InvalidIdentifierError.
func IsInvalidIdentifier(err error) bool {
	if err == nil {
		return false
	}
	var e *InvalidIdentifierError
	return errors.As(err, &e) || errors.Is(err, ErrInvalidIdentifier)
}

// UnsupportedExpressionError reports a predicate or projection node the
// compiler rejected.
type UnsupportedExpressionError struct {
	Reason string
}

// Error returns the error string.
func (e *UnsupportedExpressionError) Error() string {
	return fmt.Sprintf("querykit: unsupported expression: %s", e.Reason)
}

// Is reports whether the target matches ErrUnsupportedExpression.
func (e *UnsupportedExpressionError) Is(err error) bool {
	return err == ErrUnsupportedExpression
}

// NewUnsupportedExpressionError returns a new UnsupportedExpressionError.
func NewUnsupportedExpressionError(format string, args ...any) *UnsupportedExpressionError {
	return &UnsupportedExpressionError{Reason: fmt.Sprintf(format, args...)}
}

// IsUnsupportedExpression returns true if the error is an UnsupportedExpressionError.
func IsUnsupportedExpression(err error) bool {
	if err == nil {
		return false
	}
	var e *UnsupportedExpressionError
	return errors.As(err, &e) || errors.Is(err, ErrUnsupportedExpression)
}

// MissingPredicateError reports an UPDATE or DELETE built without a WHERE
// clause.
type MissingPredicateError struct {
	Op string // "update" or "delete"
}

// Error returns the error string.
func (e *MissingPredicateError) Error() string {
	return fmt.Sprintf("querykit: %s without predicate refused", e.Op)
}

// Is reports whether the target matches ErrMissingPredicate.
func (e *MissingPredicateError) Is(err error) bool {
	return err == ErrMissingPredicate
}

// NewMissingPredicateError returns a new MissingPredicateError for the
// given operation.
func NewMissingPredicateError(op string) *MissingPredicateError {
	return &MissingPredicateError{Op: op}
}

// IsMissingPredicate returns true if the error is a MissingPredicateError.
func IsMissingPredicate(err error) bool {
	if err == nil {
		return false
	}
	var e *MissingPredicateError
	return errors.As(err, &e) || errors.Is(err, ErrMissingPredicate)
}

// UnorderedPagingError reports Skip/Take without OrderBy on a dialect whose
// paging needs a deterministic row order.
type UnorderedPagingError struct {
	Dialect string
}

// Error returns the error string.
func (e *UnorderedPagingError) Error() string {
	return fmt.Sprintf("querykit: %s paging requires an order by clause", e.Dialect)
}

// Is reports whether the target matches ErrUnorderedPaging.
func (e *UnorderedPagingError) Is(err error) bool {
	return err == ErrUnorderedPaging
}

// NewUnorderedPagingError returns a new UnorderedPagingError for the
// given dialect.
func NewUnorderedPagingError(dialect string) *UnorderedPagingError {
	return &UnorderedPagingError{Dialect: dialect}
}

// IsUnorderedPaging returns true if the error is an UnorderedPagingError.
func IsUnorderedPaging(err error) bool {
	if err == nil {
		return false
	}
	var e *UnorderedPagingError
	return errors.As(err, &e) || errors.Is(err, ErrUnorderedPaging)
}

// UnknownMappingError reports a failed type, member or join-entity lookup.
type UnknownMappingError struct {
	Name string
	Err  error // underlying resolution error, if any
}

// Error returns the error string.
func (e *UnknownMappingError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("querykit: unknown mapping %q: %v", e.Name, e.Err)
	}
	return fmt.Sprintf("querykit: unknown mapping %q", e.Name)
}

// Is reports whether the target matches ErrUnknownMapping.
func (e *UnknownMappingError) Is(err error) bool {
	return err == ErrUnknownMapping
}

// Unwrap returns the underlying error.
func (e *UnknownMappingError) Unwrap() error {
	return e.Err
}

// NewUnknownMappingError returns a new UnknownMappingError.
func NewUnknownMappingError(name string, err error) *UnknownMappingError {
	return &UnknownMappingError{Name: name, Err: err}
}

// IsUnknownMapping returns true if the error is an UnknownMappingError.
func IsUnknownMapping(err error) bool {
	if err == nil {
		return false
	}
	var e *UnknownMappingError
	return errors.As(err, &e) || errors.Is(err, ErrUnknownMapping)
}
