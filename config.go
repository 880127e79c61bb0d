package main

import (
	"os"
	"strconv"

	"github.com/d3ce1t/flakeid/idgen"

	"gopkg.in/yaml.v2"
)

const (
	envDataCenterID = "FLAKEID_DATA_CENTER_ID"
	envMachineID    = "FLAKEID_MACHINE_ID"
)

type Config struct {
	data ConfigDTO
}

func (c *Config) DataCenterID() int {
	return c.data.DataCenterID
}

func (c *Config) MachineID() int {
	return c.data.MachineID
}

func (c *Config) Epoch() int64 {
	return c.data.EpochMs
}

func (c *Config) MaintenanceMode() bool {
	return c.data.MaintenanceMode
}

func (c *Config) ShowTestModeWarning() bool {
	return c.data.ShowTestModeWarning
}

func (c *Config) ListenAddress() string {
	return c.data.ListenAddress
}

func (c *Config) ListenPort() int {
	return c.data.ListenPort
}

func (c *Config) HTTPEnabled() bool {
	return c.data.HTTPEnabled
}

func (c *Config) HTTPListenPort() int {
	return c.data.HTTPListenPort
}

func (c *Config) SSHEnabled() bool {
	return c.data.SSHEnabled
}

func (c *Config) SSHListenAddress() string {
	return c.data.SSHListenAddress
}

func (c *Config) SSHListenPort() int {
	return c.data.SSHListenPort
}

func (c *Config) SSHHostKey() string {
	return c.data.SSHHostKey
}

func (c *Config) SSHUser() string {
	return c.data.SSHUser
}

func (c *Config) SSHPassword() string {
	return c.data.SSHPassword
}

func (c *Config) DbEnabled() bool {
	return c.data.DbEnabled
}

func (c *Config) DbAddress() []string {
	return c.data.DbAddress
}

func (c *Config) DbKeyspace() string {
	return c.data.DbKeyspace
}

func (c *Config) DbCQLVersion() int {
	return c.data.DbCQLVersion
}

func (c *Config) CheckpointIntervalMs() int {
	return c.data.CheckpointIntervalMs
}

type ConfigDTO struct {
	DataCenterID         int      `yaml:"data_center_id"`
	MachineID            int      `yaml:"machine_id"`
	EpochMs              int64    `yaml:"epoch_ms,omitempty"`
	MaintenanceMode      bool     `yaml:"maintenance_mode,omitempty"`
	ShowTestModeWarning  bool     `yaml:"test_mode_warning,omitempty"`
	ListenAddress        string   `yaml:"listen_address,omitempty"`
	ListenPort           int      `yaml:"listen_port,omitempty"`
	HTTPEnabled          bool     `yaml:"http_enabled"`
	HTTPListenPort       int      `yaml:"http_listen_port,omitempty"`
	SSHEnabled           bool     `yaml:"ssh_enabled"`
	SSHListenAddress     string   `yaml:"ssh_listen_address,omitempty"`
	SSHListenPort        int      `yaml:"ssh_listen_port,omitempty"`
	SSHHostKey           string   `yaml:"ssh_host_key,omitempty"`
	SSHUser              string   `yaml:"ssh_user,omitempty"`
	SSHPassword          string   `yaml:"ssh_password,omitempty"`
	DbEnabled            bool     `yaml:"db_enabled"`
	DbAddress            []string `yaml:"db_address,flow"`
	DbKeyspace           string   `yaml:"db_keyspace"`
	DbCQLVersion         int      `yaml:"db_cql_version,omitempty"`
	CheckpointIntervalMs int      `yaml:"checkpoint_interval_ms,omitempty"`
}

func loadConfigFromFile(file string) (*Config, error) {

	data, err := os.ReadFile(file)
	if err != nil {
		return nil, err
	}

	return parseConfig(data)
}

func parseConfig(data []byte) (*Config, error) {

	config := &Config{}

	err := yaml.UnmarshalStrict(data, &config.data)
	if err != nil {
		return nil, err
	}

	if err := config.applyEnv(); err != nil {
		return nil, err
	}

	config.setDefaults()

	return config, nil
}

// Identity from the environment wins over the file so that one config can
// be shared by every node of a deployment.
func (c *Config) applyEnv() error {

	if value, ok := os.LookupEnv(envDataCenterID); ok {
		id, err := strconv.Atoi(value)
		if err != nil {
			return err
		}
		c.data.DataCenterID = id
	}

	if value, ok := os.LookupEnv(envMachineID); ok {
		id, err := strconv.Atoi(value)
		if err != nil {
			return err
		}
		c.data.MachineID = id
	}

	return nil
}

// Set defaults if values are unset
func (c *Config) setDefaults() {

	if c.data.EpochMs == 0 {
		c.data.EpochMs = idgen.Epoch
	}

	if c.data.ListenPort == 0 {
		c.data.ListenPort = 1822
	}

	if c.data.HTTPListenPort == 0 {
		c.data.HTTPListenPort = 40187
	}

	if c.data.SSHListenPort == 0 {
		c.data.SSHListenPort = 2022
	}

	if c.data.SSHHostKey == "" {
		c.data.SSHHostKey = "cert/server_rsa"
	}

	if c.data.SSHUser == "" {
		c.data.SSHUser = "admin"
	}

	if c.data.DbKeyspace == "" {
		c.data.DbKeyspace = "flakeid"
	}

	if c.data.DbCQLVersion == 0 {
		c.data.DbCQLVersion = 4
	}

	if c.data.CheckpointIntervalMs == 0 {
		c.data.CheckpointIntervalMs = 1000
	}
}
