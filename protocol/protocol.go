package protocol

import (
	"encoding/binary"
	"errors"
	"io"
	"net"
	"syscall"
)

type Message interface {
	Reset()
	String() string
	ProtoMessage()
}

func NewMessage() *PacketBuilder {
	pb := &PacketBuilder{}
	pb.message = &Packet{}
	pb.message.Header.Version = ProtocolVersion
	pb.message.Header.Token = 0
	pb.message.Header.Type = M_ERROR
	pb.message.Header.Size = HeaderSize
	return pb
}

// Reads a packet from an io.Reader
func ReadPacket(reader io.Reader) (*Packet, error) {

	packet := &Packet{}

	// Read header
	if err := binary.Read(reader, binary.BigEndian, &packet.Header); err != nil {
		return nil, getError(err)
	}

	if packet.Header.Version != ProtocolVersion {
		return nil, ErrUnsupportedVer
	}

	if packet.Header.Size < HeaderSize {
		return nil, ErrInvalidHeader
	}

	// Read Payload
	packet.Data = make([]uint8, packet.Header.PayloadSize())
	if _, err := io.ReadFull(reader, packet.Data); err != nil {
		return nil, getError(err)
	}

	return packet, nil
}

func WriteBytes(data []byte, writer io.Writer) (int, error) {
	n, err := writer.Write(data)
	if err != nil {
		return n, getError(err)
	}
	return n, nil
}

func getError(err error) error {

	if err == io.EOF || err == io.ErrUnexpectedEOF || errors.Is(err, syscall.ECONNRESET) ||
		errors.Is(err, net.ErrClosed) || errors.Is(err, io.ErrClosedPipe) {
		return ErrConnectionClosed
	}

	if netErr, ok := err.(net.Error); ok && netErr.Timeout() {
		return ErrTimeout
	}

	return err
}

func createEmptyMessage(packetType PacketType) Message {

	var message Message

	switch packetType {
	// Requests
	case M_PING:
		message = &TimeInfo{}
	case M_NEXT_ID:
		message = &NextID{}
	case M_DECODE_ID:
		message = &DecodeID{}
	case M_CLOCK_REQUEST:
		fallthrough
	case M_GENERATOR_INFO:
		message = &Empty{}

	// Responses
	case M_OK:
		message = &Ok{}
	case M_ERROR:
		message = &Error{}
	case M_PONG:
		fallthrough
	case M_CLOCK_RESPONSE:
		message = &TimeInfo{}
	case M_IDS:
		message = &IDs{}
	case M_DECODED_ID:
		message = &DecodedID{}
	case M_GENERATOR_INFO_RESPONSE:
		message = &GeneratorInfo{}
	}

	return message
}
