package protocol

import (
	"github.com/d3ce1t/flakeid/idgen"
	"github.com/d3ce1t/flakeid/utils"
)

const MaxBatchSize = 4096

type PacketBuilder struct {
	message *Packet
}

func (pb *PacketBuilder) WithToken(token uint16) *PacketBuilder {
	pb.message.Header.Token = token
	return pb
}

// build sets the packet type and payload. Messages built here are always
// below the size limit, so a failure is a programming error.
func (pb *PacketBuilder) build(packetType PacketType, message Message) *Packet {
	pb.message.Header.Type = packetType
	if err := pb.message.SetMessage(message); err != nil {
		panic(err)
	}
	return pb.message
}

// Requests
func (pb *PacketBuilder) Ping() *Packet {
	return pb.build(M_PING, &TimeInfo{CurrentTime: utils.GetCurrentTimeMillis()})
}

func (pb *PacketBuilder) NextID(count uint32) *Packet {
	return pb.build(M_NEXT_ID, &NextID{Count: count})
}

func (pb *PacketBuilder) DecodeID(id int64) *Packet {
	return pb.build(M_DECODE_ID, &DecodeID{Id: id})
}

func (pb *PacketBuilder) ClockRequest() *Packet {
	return pb.build(M_CLOCK_REQUEST, &Empty{})
}

func (pb *PacketBuilder) GeneratorInfoRequest() *Packet {
	return pb.build(M_GENERATOR_INFO, &Empty{})
}

// Responses
func (pb *PacketBuilder) Ok(msgType PacketType) *Packet {
	return pb.build(M_OK, &Ok{Type: uint32(msgType)})
}

func (pb *PacketBuilder) Error(msgType PacketType, errorCode int32) *Packet {
	return pb.build(M_ERROR, &Error{Type: uint32(msgType), Error: errorCode})
}

func (pb *PacketBuilder) Pong() *Packet {
	return pb.build(M_PONG, &TimeInfo{CurrentTime: utils.GetCurrentTimeMillis()})
}

func (pb *PacketBuilder) IDs(ids []int64) *Packet {
	return pb.build(M_IDS, &IDs{Ids: ids})
}

func (pb *PacketBuilder) DecodedID(d idgen.DecodedID) *Packet {
	return pb.build(M_DECODED_ID, &DecodedID{
		Id:           d.ID,
		Timestamp:    d.Timestamp,
		DataCenterId: uint32(d.DataCenterID),
		MachineId:    uint32(d.MachineID),
		Sequence:     uint32(d.Sequence),
	})
}

func (pb *PacketBuilder) ClockResponse() *Packet {
	return pb.build(M_CLOCK_RESPONSE, &TimeInfo{CurrentTime: utils.GetCurrentTimeMillis()})
}

func (pb *PacketBuilder) GeneratorInfo(info *GeneratorInfo) *Packet {
	return pb.build(M_GENERATOR_INFO_RESPONSE, info)
}
