package core

// Support codes shown to the user next to a batch failure. Row-level
// problems are never mapped here; they travel as contacts.RowError.
//
//	FILE001  file too large            split the file
//	FILE002  spreadsheet               export as CSV
//	FILE004  no file provided          select a file
//	FILE005  empty file                upload a file with rows
//	UPL001   import not found          result expired, import again
//	UPL002   too many imports          retry shortly
//	UPL003   invalid merge option      fix the option value
//	UPL004   context canceled          retry
//	UPL005   context deadline exceeded retry with a smaller file
//	DB001    connection refused
//	DB002    connection reset
//	DB003    timeout
//	DB004    deadlock
//	DB005    relation does not exist   run migrations
//	RATE001  rate limit
//	ERR000   anything else; check the logs for the technical error
//
// Errors raised by this service are matched with errors.Is against their
// sentinels, so text in a wrapped message (a user's file name, say) never
// selects the code. Only errors from the store driver fall through to
// substring patterns, matched case-insensitively in order.

import (
	"context"
	"errors"
	"strings"
)

// UserMessage provides user-friendly error information with actionable guidance.
type UserMessage struct {
	Message string `json:"message"`
	Action  string `json:"action"`
	Code    string `json:"code"`
}

// ErrRateLimited is returned to clients that exceed the request rate.
var ErrRateLimited = errors.New("rate limit exceeded")

type sentinelMessage struct {
	err error
	msg UserMessage
}

var sentinelMessages = []sentinelMessage{
	{ErrFileTooLarge, UserMessage{
		Message: "File exceeds the maximum upload size",
		Action:  "Split the file into smaller files",
		Code:    "FILE001",
	}},
	{ErrSpreadsheetNotSupported, UserMessage{
		Message: "Spreadsheet files are not supported",
		Action:  "Please export your spreadsheet as CSV and upload the CSV file",
		Code:    "FILE002",
	}},
	{ErrNoFile, UserMessage{
		Message: "No file was selected",
		Action:  "Please select a CSV file to import",
		Code:    "FILE004",
	}},
	{ErrEmptyFile, UserMessage{
		Message: "The uploaded file is empty",
		Action:  "Please upload a CSV file with a header row and contacts",
		Code:    "FILE005",
	}},
	{ErrImportNotFound, UserMessage{
		Message: "Import result not found",
		Action:  "The result may have expired. Run the import again to see it",
		Code:    "UPL001",
	}},
	{ErrTooManyImports, UserMessage{
		Message: "System is busy processing other imports",
		Action:  "Please wait a moment and try again",
		Code:    "UPL002",
	}},
	{ErrInvalidMergeOption, UserMessage{
		Message: "Import options are not valid",
		Action:  "Use true or false for removeDuplicates and updateExisting",
		Code:    "UPL003",
	}},
	{context.Canceled, UserMessage{
		Message: "Request was cancelled",
		Action:  "Please try again",
		Code:    "UPL004",
	}},
	{context.DeadlineExceeded, UserMessage{
		Message: "Request timed out",
		Action:  "Try a smaller file or check your connection",
		Code:    "UPL005",
	}},
	{ErrRateLimited, UserMessage{
		Message: "Too many requests",
		Action:  "Please wait a moment before trying again",
		Code:    "RATE001",
	}},
}

type errorPattern struct {
	pattern string
	msg     UserMessage
}

// driverPatterns classify store failures, which arrive as pgx or net errors.
var driverPatterns = []errorPattern{
	{"connection refused", UserMessage{
		Message: "Unable to connect to the contact store",
		Action:  "Please try again in a few moments",
		Code:    "DB001",
	}},
	{"connection reset", UserMessage{
		Message: "Connection to the contact store was interrupted",
		Action:  "Please try again",
		Code:    "DB002",
	}},
	{"timeout", UserMessage{
		Message: "Operation timed out",
		Action:  "Try a smaller file or try again later",
		Code:    "DB003",
	}},
	{"deadlock", UserMessage{
		Message: "The contact store was busy with a conflicting operation",
		Action:  "Please try again",
		Code:    "DB004",
	}},
	{"does not exist", UserMessage{
		Message: "The contact store is not initialised",
		Action:  "Contact support",
		Code:    "DB005",
	}},
}

var defaultMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Please try again or contact support",
	Code:    "ERR000",
}

// MapError converts a technical error to a user-facing message. Unknown
// errors map to ERR000. A nil error maps to the zero UserMessage.
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
	}

	for _, sm := range sentinelMessages {
		if errors.Is(err, sm.err) {
			return sm.msg
		}
	}

	errStr := strings.ToLower(err.Error())
	for _, ep := range driverPatterns {
		if strings.Contains(errStr, ep.pattern) {
			return ep.msg
		}
	}
	return defaultMessage
}

// UserError pairs a technical error (for logs) with its user message.
type UserError struct {
	Technical error
	User      UserMessage
}

func (e *UserError) Error() string {
	return e.User.Message
}

func (e *UserError) Unwrap() error {
	return e.Technical
}

// NewUserError maps err. Returns nil if err is nil.
func NewUserError(err error) *UserError {
	if err == nil {
		return nil
	}
	return &UserError{Technical: err, User: MapError(err)}
}
