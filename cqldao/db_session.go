package cqldao

import (
	"time"

	"github.com/gocql/gocql"
)

// NewSession configures a session for checkpoint traffic, a few conditional
// writes per second on the generator_state table.
func NewSession(keyspace string, cqlVersion int, hosts ...string) *GocqlSession {
	session := &GocqlSession{}
	session.cluster = gocql.NewCluster(hosts...)
	session.cluster.Keyspace = keyspace
	session.cluster.Consistency = gocql.LocalQuorum
	session.cluster.SerialConsistency = gocql.LocalSerial // LWT on generator_state
	session.cluster.Timeout = 3 * time.Second
	session.cluster.ConnectTimeout = 5 * time.Second
	session.cluster.ProtoVersion = cqlVersion
	session.cluster.NumConns = 1
	session.cluster.RetryPolicy = &gocql.SimpleRetryPolicy{NumRetries: 2}
	session.cluster.PoolConfig.HostSelectionPolicy = gocql.TokenAwareHostPolicy(gocql.RoundRobinHostPolicy())
	return session
}

type GocqlSession struct {
	*gocql.Session
	cluster *gocql.ClusterConfig
}

func (self *GocqlSession) Connect() error {
	if session, err := self.cluster.CreateSession(); err == nil {
		self.Session = session
		return nil
	} else {
		return err
	}
}

func (self *GocqlSession) IsValid() bool {
	return self.Session != nil
}

// Keyspace is where the generator_state table lives.
func (self *GocqlSession) Keyspace() string {
	return self.cluster.Keyspace
}
