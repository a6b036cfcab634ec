package fulltext

import (
	"fmt"

	"github.com/pkg/errors"
)

// Kind categorizes the sentinel error conditions the engine can raise.
// Internal invariant violations (stale postings hit during remove) are
// never represented here: they are logged at warn level and the
// operation proceeds best-effort, per the engine's propagation policy.
type Kind int

const (
	_ Kind = iota
	KindMissingFieldsOption
	KindMissingIdField
	KindDuplicateId
	KindUnknownDocument
	KindInvalidArgument
	KindInvalidCombinator
	KindUnknownOption
	KindMissingLoadOptions
	KindIncompatibleIndexVersion
)

func (k Kind) String() string {
	switch k {
	case KindMissingFieldsOption:
		return "MissingFieldsOption"
	case KindMissingIdField:
		return "MissingIdField"
	case KindDuplicateId:
		return "DuplicateId"
	case KindUnknownDocument:
		return "UnknownDocument"
	case KindInvalidArgument:
		return "InvalidArgument"
	case KindInvalidCombinator:
		return "InvalidCombinator"
	case KindUnknownOption:
		return "UnknownOption"
	case KindMissingLoadOptions:
		return "MissingLoadOptions"
	case KindIncompatibleIndexVersion:
		return "IncompatibleIndexVersion"
	default:
		return "Unknown"
	}
}

// Error is the concrete type behind every sentinel below. It satisfies
// errors.Is against the matching sentinel via Kind equality.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

func newError(k Kind, format string, args ...any) error {
	return errors.WithStack(&Error{Kind: k, Message: fmt.Sprintf(format, args...)})
}

var (
	ErrMissingFieldsOption     = &Error{Kind: KindMissingFieldsOption, Message: "fields option is required"}
	ErrMissingIdField          = &Error{Kind: KindMissingIdField, Message: "document is missing its id field"}
	ErrDuplicateId             = &Error{Kind: KindDuplicateId, Message: "document id already exists"}
	ErrUnknownDocument         = &Error{Kind: KindUnknownDocument, Message: "unknown document id"}
	ErrInvalidArgument         = &Error{Kind: KindInvalidArgument, Message: "invalid argument"}
	ErrInvalidCombinator       = &Error{Kind: KindInvalidCombinator, Message: "invalid combine_with value"}
	ErrUnknownOption           = &Error{Kind: KindUnknownOption, Message: "unknown option"}
	ErrMissingLoadOptions      = &Error{Kind: KindMissingLoadOptions, Message: "load requires options"}
	ErrIncompatibleIndexVersion = &Error{Kind: KindIncompatibleIndexVersion, Message: "incompatible serialization_version"}
)
