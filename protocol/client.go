package protocol

import (
	"net"
	"sync"
	"time"
)

const DefaultTimeout = 5 * time.Second

// Client issues requests to an ID server over a single connection. Requests
// are serialized, so a Client is safe for concurrent use but callers wanting
// parallelism should open several clients.
type Client struct {
	conn    net.Conn
	mu      sync.Mutex
	token   uint16
	Timeout time.Duration
}

func Dial(addr string) (*Client, error) {
	conn, err := net.DialTimeout("tcp", addr, DefaultTimeout)
	if err != nil {
		return nil, err
	}
	return NewClient(conn), nil
}

func NewClient(conn net.Conn) *Client {
	return &Client{conn: conn, Timeout: DefaultTimeout}
}

func (c *Client) String() string {
	return c.conn.RemoteAddr().String()
}

func (c *Client) Close() error {
	return c.conn.Close()
}

func (c *Client) roundTrip(build func(*PacketBuilder) *Packet, expected PacketType) (Message, error) {

	defer c.mu.Unlock()
	c.mu.Lock()

	c.token++
	request := build(NewMessage().WithToken(c.token))

	if c.Timeout > 0 {
		c.conn.SetDeadline(time.Now().Add(c.Timeout))
	}

	if _, err := WriteBytes(request.Marshal(), c.conn); err != nil {
		return nil, err
	}

	response, err := ReadPacket(c.conn)
	if err != nil {
		return nil, err
	}

	if response.Token() != request.Token() {
		return nil, ErrTokenMismatch
	}

	message, err := response.DecodeMessage()
	if err != nil {
		return nil, err
	}

	if response.Type() == M_ERROR {
		errMsg := message.(*Error)
		return nil, &RemoteError{Request: PacketType(errMsg.Type), Code: errMsg.Error}
	}

	if response.Type() != expected {
		return nil, ErrUnexpectedMessage
	}

	return message, nil
}

// Ping returns the server time in millis.
func (c *Client) Ping() (int64, error) {
	msg, err := c.roundTrip(func(pb *PacketBuilder) *Packet { return pb.Ping() }, M_PONG)
	if err != nil {
		return 0, err
	}
	return msg.(*TimeInfo).CurrentTime, nil
}

func (c *Client) NextID() (int64, error) {
	ids, err := c.NextIDs(1)
	if err != nil {
		return 0, err
	}
	if len(ids) != 1 {
		return 0, ErrUnexpectedMessage
	}
	return ids[0], nil
}

// NextIDs requests count IDs, between 1 and MaxBatchSize, in one round trip.
func (c *Client) NextIDs(count int) ([]int64, error) {
	if count < 1 || count > MaxBatchSize {
		return nil, ErrInvalidCount
	}
	msg, err := c.roundTrip(func(pb *PacketBuilder) *Packet { return pb.NextID(uint32(count)) }, M_IDS)
	if err != nil {
		return nil, err
	}
	return msg.(*IDs).Ids, nil
}

func (c *Client) Decode(id int64) (*DecodedID, error) {
	msg, err := c.roundTrip(func(pb *PacketBuilder) *Packet { return pb.DecodeID(id) }, M_DECODED_ID)
	if err != nil {
		return nil, err
	}
	return msg.(*DecodedID), nil
}

func (c *Client) Clock() (int64, error) {
	msg, err := c.roundTrip(func(pb *PacketBuilder) *Packet { return pb.ClockRequest() }, M_CLOCK_RESPONSE)
	if err != nil {
		return 0, err
	}
	return msg.(*TimeInfo).CurrentTime, nil
}

func (c *Client) Info() (*GeneratorInfo, error) {
	msg, err := c.roundTrip(func(pb *PacketBuilder) *Packet { return pb.GeneratorInfoRequest() }, M_GENERATOR_INFO_RESPONSE)
	if err != nil {
		return nil, err
	}
	return msg.(*GeneratorInfo), nil
}
