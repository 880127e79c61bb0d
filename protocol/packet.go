package protocol

import (
	"bytes"
	"encoding/binary"
	"fmt"

	proto "github.com/golang/protobuf/proto"
)

const (
	ProtocolVersion = 1
	HeaderSize      = 6
	MaxPayloadSize  = 65530
)

type Header struct { // 6 bytes
	Version uint8
	Token   uint16 // Request ID, echoed in the response
	Type    PacketType
	Size    uint16 // Header + Payload size
}

func (h *Header) PayloadSize() int {
	return int(h.Size) - HeaderSize
}

func (h *Header) String() string {
	return fmt.Sprintf("Version: %v Token: %v Type: %v Size: %v", h.Version, h.Token, h.Type, h.Size)
}

// A Packet is a network container for a message
type Packet struct {
	Header Header
	Data   []uint8 // Holds a message encoded as binary data
}

func (packet *Packet) Type() PacketType {
	return packet.Header.Type
}

func (packet *Packet) Token() uint16 {
	return packet.Header.Token
}

func (packet *Packet) String() string {
	return packet.Header.String()
}

// DecodeMessage unmarshals the payload into the message registered for the
// packet type.
func (packet *Packet) DecodeMessage() (Message, error) {

	message := createEmptyMessage(packet.Type())
	if message == nil {
		return nil, ErrUnknownMessage
	}

	if err := proto.Unmarshal(packet.Data, message); err != nil {
		return nil, err
	}

	return message, nil
}

func (packet *Packet) SetMessage(message Message) error {

	data, err := proto.Marshal(message)
	if err != nil {
		return err
	}

	if len(data) > MaxPayloadSize {
		return ErrMessageTooLarge
	}

	packet.Data = data
	packet.Header.Size = HeaderSize + uint16(len(data))
	return nil
}

func (packet *Packet) Marshal() []byte {

	buf := bytes.NewBuffer(make([]byte, 0, HeaderSize+len(packet.Data)))

	// Writing into a bytes.Buffer never fails
	binary.Write(buf, binary.BigEndian, packet.Header)

	if len(packet.Data) > 0 {
		buf.Write(packet.Data)
	}

	return buf.Bytes()
}
