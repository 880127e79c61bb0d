package cqldao

const stateTableSchema = `CREATE TABLE IF NOT EXISTS generator_state (
	data_center_id int,
	machine_id int,
	last_timestamp bigint,
	boot_id text,
	updated_at bigint,
	PRIMARY KEY ((data_center_id, machine_id))
)`

// CreateSchema creates the tables used by this package in the session keyspace.
func CreateSchema(session *GocqlSession) error {
	checkSession(session)
	return session.Query(stateTableSchema).Exec()
}
