package api

type GeneratorStateDTO struct {
	DataCenterID  int
	MachineID     int
	LastTimestamp int64  // Unix millis of the last ID handed out
	BootID        string // Identifies the process run that saved the state
	UpdatedAt     int64
}
