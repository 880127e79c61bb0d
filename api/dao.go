package api

type DbSession interface {
	Connect() error
	IsValid() bool
	Closed() bool
}

// StateDAO persists the last timestamp handed out by each generator identity.
type StateDAO interface {
	Load(dataCenterID int, machineID int) (*GeneratorStateDTO, error)
	LoadAll() ([]*GeneratorStateDTO, error)
	Save(state *GeneratorStateDTO) error
	Delete(dataCenterID int, machineID int) error
}
