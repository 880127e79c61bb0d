package cqldao

import (
	"github.com/d3ce1t/flakeid/api"
)

func NewStateDAO(session api.DbSession) api.StateDAO {
	reconnectIfNeeded(session)
	return &StateDAO{session: session.(*GocqlSession)}
}

func checkSession(session *GocqlSession) {
	if session == nil || !session.IsValid() {
		panic(ErrNoSession)
	}
}

func reconnectIfNeeded(session api.DbSession) {
	if session != nil && (!session.IsValid() || session.Closed()) {
		session.Connect()
	}
}
