package cqldao

import (
	"github.com/d3ce1t/flakeid/api"
	"github.com/d3ce1t/flakeid/idgen"
	"github.com/d3ce1t/flakeid/utils"
)

// Number of times Save retries when it races with another writer creating
// the row for the same identity.
const maxSaveAttempts = 2

type StateDAO struct {
	session *GocqlSession
}

func (d *StateDAO) Load(dataCenterID int, machineID int) (*api.GeneratorStateDTO, error) {

	checkSession(d.session)

	if !validIdentity(dataCenterID, machineID) {
		return nil, api.ErrInvalidArg
	}

	stmt := `SELECT last_timestamp, boot_id, updated_at FROM generator_state
		WHERE data_center_id = ? AND machine_id = ? LIMIT 1`

	q := d.session.Query(stmt, dataCenterID, machineID)

	dto := &api.GeneratorStateDTO{DataCenterID: dataCenterID, MachineID: machineID}

	err := q.Scan(&dto.LastTimestamp, &dto.BootID, &dto.UpdatedAt)
	if err != nil {
		return nil, convErr(err)
	}

	return dto, nil
}

func (d *StateDAO) LoadAll() ([]*api.GeneratorStateDTO, error) {

	checkSession(d.session)

	stmt := `SELECT data_center_id, machine_id, last_timestamp, boot_id, updated_at
		FROM generator_state`

	iter := d.session.Query(stmt).Iter()

	var results []*api.GeneratorStateDTO
	dto := &api.GeneratorStateDTO{}

	for iter.Scan(&dto.DataCenterID, &dto.MachineID, &dto.LastTimestamp, &dto.BootID, &dto.UpdatedAt) {
		results = append(results, dto)
		dto = &api.GeneratorStateDTO{}
	}

	if err := iter.Close(); err != nil {
		return nil, convErr(err)
	}

	return results, nil
}

/*
  Save stores the state only if it moves the last timestamp of the identity
  forward (or keeps it). When a newer timestamp is already stored it returns
  api.ErrStaleState and leaves the row untouched.
*/
func (d *StateDAO) Save(state *api.GeneratorStateDTO) error {

	checkSession(d.session)

	if state == nil || !validIdentity(state.DataCenterID, state.MachineID) || state.LastTimestamp < 0 {
		return api.ErrInvalidArg
	}

	updatedAt := state.UpdatedAt
	if updatedAt == 0 {
		updatedAt = utils.GetCurrentTimeMillis()
	}

	for attempt := 0; attempt < maxSaveAttempts; attempt++ {

		stmt := `UPDATE generator_state SET last_timestamp = ?, boot_id = ?, updated_at = ?
			WHERE data_center_id = ? AND machine_id = ? IF last_timestamp <= ?`

		current := make(map[string]interface{})
		applied, err := d.session.Query(stmt, state.LastTimestamp, state.BootID, updatedAt,
			state.DataCenterID, state.MachineID, state.LastTimestamp).MapScanCAS(current)

		if err != nil {
			return convErr(err)
		}

		if applied {
			return nil
		}

		if stored, ok := current["last_timestamp"].(int64); ok && stored > 0 {
			return api.ErrStaleState
		}

		// Row doesn't exist yet
		stmt = `INSERT INTO generator_state (data_center_id, machine_id, last_timestamp,
			boot_id, updated_at) VALUES (?, ?, ?, ?, ?) IF NOT EXISTS`

		current = make(map[string]interface{})
		applied, err = d.session.Query(stmt, state.DataCenterID, state.MachineID,
			state.LastTimestamp, state.BootID, updatedAt).MapScanCAS(current)

		if err != nil {
			return convErr(err)
		}

		if applied {
			return nil
		}
	}

	return ErrInconsistency
}

func (d *StateDAO) Delete(dataCenterID int, machineID int) error {

	checkSession(d.session)

	if !validIdentity(dataCenterID, machineID) {
		return api.ErrInvalidArg
	}

	stmt := `DELETE FROM generator_state WHERE data_center_id = ? AND machine_id = ?`
	err := d.session.Query(stmt, dataCenterID, machineID).Exec()
	return convErr(err)
}

func validIdentity(dataCenterID int, machineID int) bool {
	return dataCenterID >= 0 && dataCenterID <= idgen.MaxDataCenterID &&
		machineID >= 0 && machineID <= idgen.MaxMachineID
}
