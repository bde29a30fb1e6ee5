// Package errors provides structured error types for bilicli.
// These errors provide context about what operation failed and where.
package errors

import (
	"errors"
	"fmt"
)

// Op describes an operation, usually as "package.function".
type Op string

// Kind categorizes the type of error.
type Kind int

const (
	KindUnknown Kind = iota
	KindNotFound
	KindInvalid
	KindPermission
	KindIO
	KindNetwork
	KindDecode
	KindConfig
	KindAuth
	KindTimeout
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not found"
	case KindInvalid:
		return "invalid"
	case KindPermission:
		return "permission denied"
	case KindIO:
		return "I/O error"
	case KindNetwork:
		return "network error"
	case KindDecode:
		return "decode error"
	case KindConfig:
		return "configuration error"
	case KindAuth:
		return "not authenticated"
	case KindTimeout:
		return "timeout"
	default:
		return "unknown error"
	}
}

// Error is the structured error type for bilicli.
type Error struct {
	Op      Op     // Operation that failed
	Kind    Kind   // Category of error
	Err     error  // Underlying error
	Context string // Additional context
}

// Error returns the error message.
func (e *Error) Error() string {
	if e.Context != "" {
		return fmt.Sprintf("%s: %s: %s", e.Op, e.Context, e.Err)
	}
	if e.Op != "" {
		return fmt.Sprintf("%s: %s", e.Op, e.Err)
	}
	return e.Err.Error()
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Err
}

// E creates a new Error. Arguments can be:
// - Op: the operation name
// - Kind: the error kind
// - string: context message
// - error: the underlying error
func E(args ...any) error {
	e := &Error{}
	for _, arg := range args {
		switch a := arg.(type) {
		case Op:
			e.Op = a
		case Kind:
			e.Kind = a
		case string:
			e.Context = a
		case error:
			e.Err = a
		}
	}
	if e.Err == nil {
		e.Err = errors.New(e.Context)
		e.Context = ""
	}
	return e
}

// Is reports whether err is of the given Kind.
func Is(err error, kind Kind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == kind
	}
	return false
}

// GetKind returns the Kind of an error.
func GetKind(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// UserMessage returns the text shown to the viewer for err: the outermost
// context message, or the innermost cause when no context was attached.
// Op names never leak into the UI.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	var e *Error
	if !errors.As(err, &e) {
		return err.Error()
	}
	if e.Context != "" {
		return e.Context
	}
	if e.Err == nil {
		return e.Kind.String()
	}
	return UserMessage(e.Err)
}

// Room errors
func RoomNotFound(roomID int64, message string) error {
	return E(Op("api.GetRoomInfo"), KindNotFound, fmt.Sprintf("room %d: %s", roomID, message))
}

func RoomFetchFailed(roomID int64, err error) error {
	return E(Op("api.GetRoomInfo"), KindNetwork, fmt.Sprintf("failed to fetch room %d", roomID), err)
}

// Send errors
func NotAuthenticated() error {
	return E(Op("app.Send"), KindAuth, "未登录")
}

func CSRFTokenMissing() error {
	return E(Op("api.SendDanmu"), KindAuth, "无法找到 csrf token")
}

func SendRejected(message string) error {
	return E(Op("api.SendDanmu"), KindPermission, message)
}

func SendFailed(err error) error {
	return E(Op("api.SendDanmu"), KindNetwork, "发送失败", err)
}

// Config errors
func ConfigLoadFailed(path string, err error) error {
	return E(Op("config.Load"), KindConfig, fmt.Sprintf("failed to load config from %s", path), err)
}

func ConfigInvalid(reason string) error {
	return E(Op("config.Validate"), KindInvalid, reason)
}

// Feed errors
func PayloadDecodeFailed(category string, err error) error {
	return E(Op("room.Decode"), KindDecode, fmt.Sprintf("failed to decode %s payload", category), err)
}

func FeedConnectFailed(host string, err error) error {
	return E(Op("live.Connect"), KindNetwork, fmt.Sprintf("failed to connect to %s", host), err)
}
