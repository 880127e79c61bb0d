// Package memdao keeps generator state in process memory. It is used when no
// database is configured and in tests.
package memdao

import (
	"sort"
	"sync"

	"github.com/d3ce1t/flakeid/api"
	"github.com/d3ce1t/flakeid/idgen"
	"github.com/d3ce1t/flakeid/utils"
)

type stateKey struct {
	dataCenterID int
	machineID    int
}

type StateDAO struct {
	sync.RWMutex
	states map[stateKey]api.GeneratorStateDTO
}

func NewStateDAO() *StateDAO {
	return &StateDAO{states: make(map[stateKey]api.GeneratorStateDTO)}
}

func (d *StateDAO) Load(dataCenterID int, machineID int) (*api.GeneratorStateDTO, error) {

	if !validIdentity(dataCenterID, machineID) {
		return nil, api.ErrInvalidArg
	}

	defer d.RUnlock()
	d.RLock()

	dto, ok := d.states[stateKey{dataCenterID, machineID}]
	if !ok {
		return nil, api.ErrNotFound
	}

	return &dto, nil
}

func (d *StateDAO) LoadAll() ([]*api.GeneratorStateDTO, error) {

	defer d.RUnlock()
	d.RLock()

	results := make([]*api.GeneratorStateDTO, 0, len(d.states))
	for _, dto := range d.states {
		dto := dto
		results = append(results, &dto)
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].DataCenterID != results[j].DataCenterID {
			return results[i].DataCenterID < results[j].DataCenterID
		}
		return results[i].MachineID < results[j].MachineID
	})

	return results, nil
}

func (d *StateDAO) Save(state *api.GeneratorStateDTO) error {

	if state == nil || !validIdentity(state.DataCenterID, state.MachineID) || state.LastTimestamp < 0 {
		return api.ErrInvalidArg
	}

	defer d.Unlock()
	d.Lock()

	key := stateKey{state.DataCenterID, state.MachineID}

	if stored, ok := d.states[key]; ok && stored.LastTimestamp > state.LastTimestamp {
		return api.ErrStaleState
	}

	dto := *state
	if dto.UpdatedAt == 0 {
		dto.UpdatedAt = utils.GetCurrentTimeMillis()
	}

	d.states[key] = dto
	return nil
}

func (d *StateDAO) Delete(dataCenterID int, machineID int) error {

	if !validIdentity(dataCenterID, machineID) {
		return api.ErrInvalidArg
	}

	defer d.Unlock()
	d.Lock()

	delete(d.states, stateKey{dataCenterID, machineID})
	return nil
}

func validIdentity(dataCenterID int, machineID int) bool {
	return dataCenterID >= 0 && dataCenterID <= idgen.MaxDataCenterID &&
		machineID >= 0 && machineID <= idgen.MaxMachineID
}
