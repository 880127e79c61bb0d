package api

type Config interface {
	DataCenterID() int
	MachineID() int
	Epoch() int64
	MaintenanceMode() bool
	ShowTestModeWarning() bool
	ListenAddress() string
	ListenPort() int
	HTTPEnabled() bool
	HTTPListenPort() int
	SSHEnabled() bool
	SSHListenAddress() string
	SSHListenPort() int
	SSHHostKey() string
	SSHUser() string
	SSHPassword() string
	DbEnabled() bool
	DbAddress() []string
	DbKeyspace() string
	DbCQLVersion() int
	CheckpointIntervalMs() int
}
