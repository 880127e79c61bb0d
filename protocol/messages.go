package protocol

import (
	proto "github.com/golang/protobuf/proto"
)

type Empty struct{}

func (m *Empty) Reset()         { *m = Empty{} }
func (m *Empty) String() string { return proto.CompactTextString(m) }
func (*Empty) ProtoMessage()    {}

type Ok struct {
	Type uint32 `protobuf:"varint,1,opt,name=type,proto3" json:"type,omitempty"`
}

func (m *Ok) Reset()         { *m = Ok{} }
func (m *Ok) String() string { return proto.CompactTextString(m) }
func (*Ok) ProtoMessage()    {}

type Error struct {
	Type  uint32 `protobuf:"varint,1,opt,name=type,proto3" json:"type,omitempty"`
	Error int32  `protobuf:"varint,2,opt,name=error,proto3" json:"error,omitempty"`
}

func (m *Error) Reset()         { *m = Error{} }
func (m *Error) String() string { return proto.CompactTextString(m) }
func (*Error) ProtoMessage()    {}

type TimeInfo struct {
	CurrentTime int64 `protobuf:"varint,1,opt,name=current_time,json=currentTime,proto3" json:"current_time,omitempty"`
}

func (m *TimeInfo) Reset()         { *m = TimeInfo{} }
func (m *TimeInfo) String() string { return proto.CompactTextString(m) }
func (*TimeInfo) ProtoMessage()    {}

type NextID struct {
	Count uint32 `protobuf:"varint,1,opt,name=count,proto3" json:"count,omitempty"`
}

func (m *NextID) Reset()         { *m = NextID{} }
func (m *NextID) String() string { return proto.CompactTextString(m) }
func (*NextID) ProtoMessage()    {}

type IDs struct {
	Ids []int64 `protobuf:"varint,1,rep,packed,name=ids,proto3" json:"ids,omitempty"`
}

func (m *IDs) Reset()         { *m = IDs{} }
func (m *IDs) String() string { return proto.CompactTextString(m) }
func (*IDs) ProtoMessage()    {}

type DecodeID struct {
	Id int64 `protobuf:"varint,1,opt,name=id,proto3" json:"id,omitempty"`
}

func (m *DecodeID) Reset()         { *m = DecodeID{} }
func (m *DecodeID) String() string { return proto.CompactTextString(m) }
func (*DecodeID) ProtoMessage()    {}

type DecodedID struct {
	Id           int64  `protobuf:"varint,1,opt,name=id,proto3" json:"id,omitempty"`
	Timestamp    int64  `protobuf:"varint,2,opt,name=timestamp,proto3" json:"timestamp,omitempty"`
	DataCenterId uint32 `protobuf:"varint,3,opt,name=data_center_id,json=dataCenterId,proto3" json:"data_center_id,omitempty"`
	MachineId    uint32 `protobuf:"varint,4,opt,name=machine_id,json=machineId,proto3" json:"machine_id,omitempty"`
	Sequence     uint32 `protobuf:"varint,5,opt,name=sequence,proto3" json:"sequence,omitempty"`
}

func (m *DecodedID) Reset()         { *m = DecodedID{} }
func (m *DecodedID) String() string { return proto.CompactTextString(m) }
func (*DecodedID) ProtoMessage()    {}

type GeneratorInfo struct {
	DataCenterId   uint32 `protobuf:"varint,1,opt,name=data_center_id,json=dataCenterId,proto3" json:"data_center_id,omitempty"`
	MachineId      uint32 `protobuf:"varint,2,opt,name=machine_id,json=machineId,proto3" json:"machine_id,omitempty"`
	Epoch          int64  `protobuf:"varint,3,opt,name=epoch,proto3" json:"epoch,omitempty"`
	LastTimestamp  int64  `protobuf:"varint,4,opt,name=last_timestamp,json=lastTimestamp,proto3" json:"last_timestamp,omitempty"`
	Issued         uint64 `protobuf:"varint,5,opt,name=issued,proto3" json:"issued,omitempty"`
	SequenceWaits  uint64 `protobuf:"varint,6,opt,name=sequence_waits,json=sequenceWaits,proto3" json:"sequence_waits,omitempty"`
	ClockRollbacks uint64 `protobuf:"varint,7,opt,name=clock_rollbacks,json=clockRollbacks,proto3" json:"clock_rollbacks,omitempty"`
	BootId         string `protobuf:"bytes,8,opt,name=boot_id,json=bootId,proto3" json:"boot_id,omitempty"`
}

func (m *GeneratorInfo) Reset()         { *m = GeneratorInfo{} }
func (m *GeneratorInfo) String() string { return proto.CompactTextString(m) }
func (*GeneratorInfo) ProtoMessage()    {}
