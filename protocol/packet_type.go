package protocol

import "fmt"

type PacketType uint8

const (
	// Responses
	M_OK PacketType = iota
	M_ERROR
	M_PONG
	M_IDS
	M_DECODED_ID
	M_CLOCK_RESPONSE
	M_GENERATOR_INFO_RESPONSE
)

const (
	// Requests
	M_PING PacketType = iota + 0x40
	M_NEXT_ID
	M_DECODE_ID
	M_CLOCK_REQUEST
	M_GENERATOR_INFO
)

var packetTypeNames = map[PacketType]string{
	M_OK:                      "OK",
	M_ERROR:                   "ERROR",
	M_PONG:                    "PONG",
	M_IDS:                     "IDS",
	M_DECODED_ID:              "DECODED_ID",
	M_CLOCK_RESPONSE:          "CLOCK_RESPONSE",
	M_GENERATOR_INFO_RESPONSE: "GENERATOR_INFO_RESPONSE",
	M_PING:                    "PING",
	M_NEXT_ID:                 "NEXT_ID",
	M_DECODE_ID:               "DECODE_ID",
	M_CLOCK_REQUEST:           "CLOCK_REQUEST",
	M_GENERATOR_INFO:          "GENERATOR_INFO",
}

func (t PacketType) String() string {
	if name, ok := packetTypeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("UNKNOWN(%d)", uint8(t))
}

func (t PacketType) IsRequest() bool {
	return t >= M_PING
}
