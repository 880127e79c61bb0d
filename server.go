package main

import (
	"errors"
	"fmt"
	"log"
	"net"
	"sync"
	"time"

	"github.com/d3ce1t/flakeid/api"
	"github.com/d3ce1t/flakeid/idgen"
	"github.com/d3ce1t/flakeid/monitor"
	proto "github.com/d3ce1t/flakeid/protocol"

	"github.com/twinj/uuid"
)

type Callback func(*proto.Packet, proto.Message, *Session)

type Server struct {
	Config    api.Config
	generator *idgen.Generator
	monitor   *monitor.Monitor
	stateDAO  api.StateDAO
	bootID    string
	started   time.Time
	callbacks map[proto.PacketType]Callback
	sessions  *SessionsMap
	listener  net.Listener
	wg        sync.WaitGroup
	mu        sync.Mutex
	closed    bool
	lastSaved int64

	savedIssued uint64 // Issued count at the last save
}

func NewServer(config api.Config, generator *idgen.Generator, stateDAO api.StateDAO, mon *monitor.Monitor) *Server {
	server := &Server{
		Config:    config,
		generator: generator,
		monitor:   mon,
		stateDAO:  stateDAO,
		bootID:    uuid.NewV4().String(),
		started:   time.Now().UTC(),
		callbacks: make(map[proto.PacketType]Callback),
		sessions:  NewSessionsMap(),
		lastSaved: -1,
	}
	server.registerCallbacks()
	return server
}

func (s *Server) registerCallbacks() {
	s.RegisterCallback(proto.M_PING, onPing)
	s.RegisterCallback(proto.M_NEXT_ID, onNextID)
	s.RegisterCallback(proto.M_DECODE_ID, onDecodeID)
	s.RegisterCallback(proto.M_CLOCK_REQUEST, onClockRequest)
	s.RegisterCallback(proto.M_GENERATOR_INFO, onGeneratorInfo)
}

func (s *Server) RegisterCallback(command proto.PacketType, f Callback) {
	s.callbacks[command] = f
}

func (s *Server) Generator() *idgen.Generator {
	return s.generator
}

func (s *Server) Monitor() *monitor.Monitor {
	return s.monitor
}

func (s *Server) BootID() string {
	return s.bootID
}

func (s *Server) Uptime() time.Duration {
	return time.Since(s.started)
}

// Sessions lists the remote address of every connected client.
func (s *Server) Sessions() []string {
	sessions := s.sessions.Values()
	result := make([]string, 0, len(sessions))
	for _, session := range sessions {
		result = append(result, fmt.Sprintf("%v (since %v)", session, session.Connected.Format(time.RFC3339)))
	}
	return result
}

// NextIDs generates count IDs. Every front end (TCP, HTTP and shell) goes
// through here so that clock rollbacks always raise an alert and maintenance
// mode stops them all.
func (s *Server) NextIDs(count int) ([]int64, error) {

	if s.Config.MaintenanceMode() {
		return nil, api.ErrMaintenanceMode
	}

	if count < 1 || count > proto.MaxBatchSize {
		return nil, ErrInvalidCount
	}

	ids := make([]int64, 0, count)

	for i := 0; i < count; i++ {
		id, err := s.generator.NextID()
		if err != nil {
			var rollback *idgen.ClockMovedBackwardError
			if errors.As(err, &rollback) {
				s.monitor.Raise(monitor.AlertClockMovedBackward,
					"clock is %v behind the last generated id", rollback.Behind())
			}
			return nil, err
		}
		ids = append(ids, id)
	}

	return ids, nil
}

// Listen opens the TCP listener configured for the ID protocol.
func (s *Server) Listen() error {
	addr := fmt.Sprintf("%v:%v", s.Config.ListenAddress(), s.Config.ListenPort())
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.listener = listener
	s.mu.Unlock()
	return nil
}

func (s *Server) Addr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

// Run accepts connections until Close is called. Listen must be called first.
func (s *Server) Run() error {

	s.mu.Lock()
	listener := s.listener
	s.mu.Unlock()

	if listener == nil {
		return errors.New("server is not listening")
	}

	log.Printf("Listening for clients on %v (dc: %v, machine: %v)\n",
		listener.Addr(), s.generator.DataCenterID(), s.generator.MachineID())

	// Main Loop
	for {
		client, err := listener.Accept()

		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				return ErrServerClosed
			}
			log.Println("Couldn't accept:", err.Error())
			time.Sleep(100 * time.Millisecond)
			continue
		}

		s.mu.Lock()
		if s.closed {
			s.mu.Unlock()
			client.Close()
			return ErrServerClosed
		}
		session := NewSession(client, s)
		s.sessions.Put(session)
		s.wg.Add(1)
		s.mu.Unlock()

		go s.handleSession(session)
	}
}

// Close stops accepting clients and closes every open session.
func (s *Server) Close() {

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	if s.listener != nil {
		s.listener.Close()
	}
	s.mu.Unlock()

	for _, session := range s.sessions.Values() {
		session.Exit()
	}

	s.wg.Wait()
}

func (s *Server) handleSession(session *Session) {

	defer s.wg.Done()

	defer func() { // session.RunLoop() may throw panic
		if r := recover(); r != nil {
			log.Printf("Session %v Panic: %v\n", session, r)
			session.Exit()
			s.sessions.Remove(session)
		}
	}()

	log.Println("New connection from", session)

	session.OnRead = func(session *Session, packet *proto.Packet) {
		if err := s.serveMessage(packet, session); err != nil {
			log.Printf("ServeMessage %v Error: %v\n", packet, err)
			code := getNetErrorCode(err, proto.E_OPERATION_FAILED)
			session.Write(proto.NewMessage().WithToken(packet.Token()).Error(packet.Type(), code))
		}
	}

	session.OnError = func(session *Session, err error) {
		log.Println("Session Error:", err)
	}

	session.OnClosed = func(session *Session, peer bool) {
		s.sessions.Remove(session)
		if peer {
			log.Printf("Session closed by client: %v\n", session)
		} else {
			log.Printf("Session closed %v\n", session)
		}
	}

	session.RunLoop() // Block here
}

func (s *Server) serveMessage(packet *proto.Packet, session *Session) (err error) {

	if s.Config.MaintenanceMode() {
		return api.ErrMaintenanceMode
	}

	message, err := packet.DecodeMessage()
	if err == proto.ErrUnknownMessage {
		return err
	} else if err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedMessage, err)
	}

	// Defer recovery
	defer func() {
		if r := recover(); r != nil {
			if errTmp, ok := r.(error); ok {
				err = errTmp
			} else {
				err = fmt.Errorf("%v", r)
			}
		}
	}()

	// Call function to manage this message
	if f, ok := s.callbacks[packet.Type()]; ok {
		f(packet, message, session)
	} else {
		err = ErrUnhandledMessage
	}

	return
}
