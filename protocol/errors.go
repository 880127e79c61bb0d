package protocol

import (
	"errors"
	"fmt"
)

const (
	E_NO_ERROR int32 = iota
	E_MALFORMED_MESSAGE
	E_OPERATION_FAILED
	E_CLOCK_MOVED_BACKWARD
	E_INVALID_ARGUMENT
	E_UNKNOWN_MESSAGE
	E_MAINTENANCE
)

var errorCodeNames = map[int32]string{
	E_NO_ERROR:             "no error",
	E_MALFORMED_MESSAGE:    "malformed message",
	E_OPERATION_FAILED:     "operation failed",
	E_CLOCK_MOVED_BACKWARD: "clock moved backward",
	E_INVALID_ARGUMENT:     "invalid argument",
	E_UNKNOWN_MESSAGE:      "unknown message",
	E_MAINTENANCE:          "server in maintenance mode",
}

var (
	ErrConnectionClosed  = errors.New("connection closed")
	ErrTimeout           = errors.New("input/output timeout")
	ErrInvalidHeader     = errors.New("invalid packet header")
	ErrUnsupportedVer    = errors.New("unsupported protocol version")
	ErrMessageTooLarge   = errors.New("message exceeds max. size of 65530 bytes")
	ErrUnknownMessage    = errors.New("unknown message")
	ErrTokenMismatch     = errors.New("response token doesn't match request")
	ErrUnexpectedMessage = errors.New("unexpected response message")
	ErrInvalidCount      = errors.New("id count out of range")
)

func ErrorCodeString(code int32) string {
	if name, ok := errorCodeNames[code]; ok {
		return name
	}
	return fmt.Sprintf("error code %d", code)
}

// RemoteError is an M_ERROR response received for a request.
type RemoteError struct {
	Request PacketType
	Code    int32
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("%v failed: %v", e.Request, ErrorCodeString(e.Code))
}
