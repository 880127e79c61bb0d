package main

import (
	"log"
	"net"
	"sync"
	"time"

	proto "github.com/d3ce1t/flakeid/protocol"
)

const (
	MAX_IDLE_TIME      = 5 * time.Minute
	WRITE_TIMEOUT      = 10 * time.Second
	WRITE_CHANNEL_SIZE = 16
)

// Creates a new session with an already connected client
func NewSession(conn net.Conn, server *Server) *Session {
	return &Session{
		Conn:      conn,
		Server:    server,
		writeChan: make(chan []byte, WRITE_CHANNEL_SIZE),
		writeDone: make(chan struct{}),
		IdleTime:  MAX_IDLE_TIME,
		Connected: time.Now().UTC(),
	}
}

type Session struct {
	Conn      net.Conn
	Server    *Server
	IdleTime  time.Duration
	Connected time.Time
	OnRead    func(s *Session, packet *proto.Packet)
	OnError   func(s *Session, err error)
	OnClosed  func(s *Session, peer bool)
	writeChan chan []byte
	writeDone chan struct{}
	mu        sync.Mutex
	closed    bool
}

func (s *Session) String() string {
	return s.Conn.RemoteAddr().String()
}

func (s *Session) IsClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// Write queues a packet for the writer goroutine. Returns false if the
// session is already closed.
func (s *Session) Write(packet *proto.Packet) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return false
	}
	s.writeChan <- packet.Marshal()
	return true
}

// Exit closes the session. Pending writes are flushed before the socket is
// closed.
func (s *Session) Exit() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	close(s.writeChan)
	s.mu.Unlock()

	<-s.writeDone
	s.Conn.Close()
}

// RunLoop reads packets until the connection is closed or stays idle for
// longer than IdleTime. Packets are served in order.
func (s *Session) RunLoop() {

	go s.writeLoop()

	peer := false

	for !s.IsClosed() {

		if s.IdleTime > 0 {
			s.Conn.SetReadDeadline(time.Now().Add(s.IdleTime))
		}

		packet, err := proto.ReadPacket(s.Conn) // Blocked here

		if err == nil {
			if s.OnRead != nil {
				s.OnRead(s, packet)
			}
			continue
		}

		if err == proto.ErrConnectionClosed {
			peer = !s.IsClosed()
		} else if err == proto.ErrTimeout {
			log.Println("Connection IDLE", s)
		} else if s.OnError != nil {
			s.OnError(s, err)
		}

		break
	}

	s.Exit()

	if s.OnClosed != nil {
		s.OnClosed(s, peer)
	}
}

func (s *Session) writeLoop() {

	defer close(s.writeDone)

	for data := range s.writeChan {
		s.Conn.SetWriteDeadline(time.Now().Add(WRITE_TIMEOUT))
		if _, err := proto.WriteBytes(data, s.Conn); err != nil {
			if err != proto.ErrConnectionClosed {
				log.Printf("Session %v Write Error: %v\n", s, err)
			}
			// Drain so that writers never block on a dead connection
			for range s.writeChan {
			}
			return
		}
	}
}
