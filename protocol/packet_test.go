package protocol

import (
	"bytes"
	"testing"

	"github.com/d3ce1t/flakeid/idgen"

	pb "github.com/golang/protobuf/proto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOkMessage(t *testing.T) {

	msg := &Ok{Type: 234}
	data, err := pb.Marshal(msg)
	require.NoError(t, err)
	assert.NotEmpty(t, data)

	// Zero values are not encoded in proto3
	data, err = pb.Marshal(&Ok{Type: 0})
	require.NoError(t, err)
	assert.Empty(t, data)
}

func TestPacketHeader(t *testing.T) {

	packet := NewMessage().WithToken(77).NextID(12)
	data := packet.Marshal()

	require.True(t, len(data) > HeaderSize)
	assert.Equal(t, uint8(ProtocolVersion), data[0])
	assert.Equal(t, []byte{0, 77}, data[1:3])
	assert.Equal(t, uint8(M_NEXT_ID), data[3])
	assert.Equal(t, len(data), int(data[4])<<8|int(data[5]))
}

func TestReadPacket(t *testing.T) {

	buf := &bytes.Buffer{}
	buf.Write(NewMessage().WithToken(3).DecodeID(987654321).Marshal())
	buf.Write(NewMessage().WithToken(4).ClockRequest().Marshal())

	packet, err := ReadPacket(buf)
	require.NoError(t, err)
	assert.Equal(t, M_DECODE_ID, packet.Type())
	assert.Equal(t, uint16(3), packet.Token())

	msg, err := packet.DecodeMessage()
	require.NoError(t, err)
	assert.Equal(t, int64(987654321), msg.(*DecodeID).Id)

	packet, err = ReadPacket(buf)
	require.NoError(t, err)
	assert.Equal(t, M_CLOCK_REQUEST, packet.Type())
	assert.Empty(t, packet.Data)

	_, err = ReadPacket(buf)
	assert.Equal(t, ErrConnectionClosed, err)
}

func TestReadPacketErrors(t *testing.T) {

	_, err := ReadPacket(bytes.NewReader([]byte{9, 0, 1, byte(M_PING), 0, 6}))
	assert.Equal(t, ErrUnsupportedVer, err)

	_, err = ReadPacket(bytes.NewReader([]byte{ProtocolVersion, 0, 1, byte(M_PING), 0, 2}))
	assert.Equal(t, ErrInvalidHeader, err)

	// Payload shorter than announced
	_, err = ReadPacket(bytes.NewReader([]byte{ProtocolVersion, 0, 1, byte(M_PING), 0, 10, 1}))
	assert.Equal(t, ErrConnectionClosed, err)

	// Truncated header
	_, err = ReadPacket(bytes.NewReader([]byte{ProtocolVersion, 0}))
	assert.Equal(t, ErrConnectionClosed, err)
}

func TestDecodeUnknownMessage(t *testing.T) {
	packet := &Packet{Header: Header{Version: ProtocolVersion, Type: PacketType(0x7f), Size: HeaderSize}}
	_, err := packet.DecodeMessage()
	assert.Equal(t, ErrUnknownMessage, err)
}

func TestIDsMessage(t *testing.T) {

	ids := make([]int64, MaxBatchSize)
	for i := range ids {
		ids[i] = int64(1)<<62 + int64(i)
	}

	packet := NewMessage().IDs(ids)
	read, err := ReadPacket(bytes.NewReader(packet.Marshal()))
	require.NoError(t, err)

	msg, err := read.DecodeMessage()
	require.NoError(t, err)
	assert.Equal(t, ids, msg.(*IDs).Ids)
}

func TestDecodedIDMessage(t *testing.T) {

	d := idgen.DecodedID{ID: 42, Timestamp: idgen.Epoch + 5, DataCenterID: 31, MachineID: 2, Sequence: 4095}
	packet := NewMessage().DecodedID(d)

	msg, err := packet.DecodeMessage()
	require.NoError(t, err)

	decoded := msg.(*DecodedID)
	assert.Equal(t, int64(42), decoded.Id)
	assert.Equal(t, idgen.Epoch+5, decoded.Timestamp)
	assert.Equal(t, uint32(31), decoded.DataCenterId)
	assert.Equal(t, uint32(2), decoded.MachineId)
	assert.Equal(t, uint32(4095), decoded.Sequence)
}

func TestPacketTypeString(t *testing.T) {
	assert.Equal(t, "NEXT_ID", M_NEXT_ID.String())
	assert.Equal(t, "UNKNOWN(200)", PacketType(200).String())
	assert.True(t, M_PING.IsRequest())
	assert.False(t, M_IDS.IsRequest())
}
