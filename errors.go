package main

import (
	"errors"

	"github.com/d3ce1t/flakeid/api"
	"github.com/d3ce1t/flakeid/idgen"
	proto "github.com/d3ce1t/flakeid/protocol"
)

var (
	ErrUnhandledMessage = errors.New("unhandled message")
	ErrMalformedMessage = errors.New("malformed message")
	ErrInvalidCount     = errors.New("invalid id count")
	ErrServerClosed     = errors.New("server closed")
	ErrActiveIdentity   = errors.New("identity in use by this server")
)

func getNetErrorCode(err error, defaultCode int32) int32 {

	var errCode int32

	switch {

	case errors.Is(err, idgen.ErrClockMovedBackward):
		errCode = proto.E_CLOCK_MOVED_BACKWARD

	case errors.Is(err, ErrInvalidCount),
		errors.Is(err, api.ErrInvalidArg):
		errCode = proto.E_INVALID_ARGUMENT

	case errors.Is(err, ErrMalformedMessage):
		errCode = proto.E_MALFORMED_MESSAGE

	case errors.Is(err, api.ErrMaintenanceMode):
		errCode = proto.E_MAINTENANCE

	case errors.Is(err, ErrUnhandledMessage),
		errors.Is(err, proto.ErrUnknownMessage):
		errCode = proto.E_UNKNOWN_MESSAGE

	default:
		errCode = defaultCode
	}

	return errCode
}
