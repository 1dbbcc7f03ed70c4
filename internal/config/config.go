package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"

	"github.com/openbms/OpenBatteryCore/internal/canbus"
)

type Config struct {
	Server     ServerConfig  `mapstructure:"server"`
	Adapter    AdapterConfig `mapstructure:"adapter"`
	Addressing AddressConfig `mapstructure:"addressing"`
	Monitor    MonitorConfig `mapstructure:"monitor"`
}

type ServerConfig struct {
	HTTPPort        int           `mapstructure:"http_port"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

type AdapterConfig struct {
	Kind           string `mapstructure:"kind"`
	SerialPort     string `mapstructure:"serial_port"`
	SerialBaud     int    `mapstructure:"serial_baud"`
	CANBaud        int    `mapstructure:"can_baud"`
	VCIDeviceType  uint32 `mapstructure:"vci_device_type"`
	VCIDeviceIndex uint32 `mapstructure:"vci_device_index"`
	VCIChannel     uint32 `mapstructure:"vci_channel"`
}

// AddressConfig trägt die Protokolladressen auf dem Bus
type AddressConfig struct {
	HostAddress uint8 `mapstructure:"host_address"`
	BMSAddress  uint8 `mapstructure:"bms_address"`
}

type MonitorConfig struct {
	AutoConnect  bool          `mapstructure:"auto_connect"`
	AutoPoll     bool          `mapstructure:"auto_poll"`
	PollInterval time.Duration `mapstructure:"poll_interval"`
}

func Load(path string) (*Config, error) {
	viper.SetConfigFile(path)
	viper.SetConfigType("yaml")

	// Defaults setzen
	viper.SetDefault("server.http_port", 8090)
	viper.SetDefault("server.shutdown_timeout", "30s")

	viper.SetDefault("adapter.kind", "simulation")
	viper.SetDefault("adapter.serial_baud", 115200)
	viper.SetDefault("adapter.can_baud", 125000)
	viper.SetDefault("adapter.vci_device_type", 21)
	viper.SetDefault("adapter.vci_device_index", 0)
	viper.SetDefault("adapter.vci_channel", 0)

	viper.SetDefault("addressing.host_address", 0x80)
	viper.SetDefault("addressing.bms_address", 0x01)

	viper.SetDefault("monitor.auto_connect", false)
	viper.SetDefault("monitor.auto_poll", false)
	viper.SetDefault("monitor.poll_interval", "1s")

	// Environment Variables automatisch binden (Viper Feature)
	viper.AutomaticEnv()
	viper.SetEnvPrefix("OBC") // Environment Variables mit Prefix OBC_

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &config, nil
}

// TransportConfig baut die Adapterkonfiguration für eine neue Session.
func (c *Config) TransportConfig() (canbus.Config, error) {
	kind, err := canbus.ParseKind(c.Adapter.Kind)
	if err != nil {
		return canbus.Config{}, err
	}

	return canbus.Config{
		Kind:           kind,
		SerialPort:     c.Adapter.SerialPort,
		SerialBaud:     c.Adapter.SerialBaud,
		CANBaud:        c.Adapter.CANBaud,
		VCIDeviceType:  c.Adapter.VCIDeviceType,
		VCIDeviceIndex: c.Adapter.VCIDeviceIndex,
		VCIChannel:     c.Adapter.VCIChannel,
		LocalAddress:   c.Addressing.HostAddress,
		RemoteAddress:  c.Addressing.BMSAddress,
	}, nil
}
