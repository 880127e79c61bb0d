package main

import (
	"log"

	proto "github.com/d3ce1t/flakeid/protocol"
	"github.com/d3ce1t/flakeid/utils"
)

// Responses echo the token of the request they answer
func replyTo(packet *proto.Packet) *proto.PacketBuilder {
	return proto.NewMessage().WithToken(packet.Token())
}

func onPing(packet *proto.Packet, message proto.Message, session *Session) {
	msg := message.(*proto.TimeInfo)
	log.Printf("> (%v) PING %v\n", session, msg.CurrentTime)
	session.Write(replyTo(packet).Pong())
}

func onNextID(packet *proto.Packet, message proto.Message, session *Session) {

	server := session.Server
	msg := message.(*proto.NextID)

	count := int(msg.Count)
	if count == 0 {
		count = 1
	}

	ids, err := server.NextIDs(count)
	if err != nil {
		session.Write(replyTo(packet).Error(packet.Type(), getNetErrorCode(err, proto.E_OPERATION_FAILED)))
		log.Printf("< (%v) NEXT ID ERROR: %v\n", session, err)
		return
	}

	session.Write(replyTo(packet).IDs(ids))
}

func onDecodeID(packet *proto.Packet, message proto.Message, session *Session) {

	server := session.Server
	msg := message.(*proto.DecodeID)

	if msg.Id < 0 {
		session.Write(replyTo(packet).Error(packet.Type(), proto.E_INVALID_ARGUMENT))
		log.Printf("< (%v) DECODE ID ERROR: negative id %v\n", session, msg.Id)
		return
	}

	decoded := server.Generator().Decode(msg.Id)
	session.Write(replyTo(packet).DecodedID(decoded))
}

func onClockRequest(packet *proto.Packet, message proto.Message, session *Session) {
	session.Write(replyTo(packet).ClockResponse())
}

func onGeneratorInfo(packet *proto.Packet, message proto.Message, session *Session) {
	log.Printf("> (%v) GENERATOR INFO\n", session)
	session.Write(replyTo(packet).GeneratorInfo(session.Server.generatorInfo()))
}

func (s *Server) generatorInfo() *proto.GeneratorInfo {
	gen := s.generator
	state := gen.State()
	stats := gen.Stats()
	return &proto.GeneratorInfo{
		DataCenterId:   uint32(gen.DataCenterID()),
		MachineId:      uint32(gen.MachineID()),
		Epoch:          gen.Epoch(),
		LastTimestamp:  utils.MaxInt64(state.LastTimestamp, 0),
		Issued:         stats.Issued,
		SequenceWaits:  stats.SequenceWaits,
		ClockRollbacks: stats.ClockRollbacks,
		BootId:         s.bootID,
	}
}
