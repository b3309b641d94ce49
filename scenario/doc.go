/*
NAME
  doc.go - YAML document shape for a scenario.

DESCRIPTION
  Mirrors the recognized scenario fields of spec.md §6 one-to-one as a
  gopkg.in/yaml.v3 unmarshal target: name, duration_s, start_time_utc,
  seed, bus.{packet_bytes_target, time_packet_interval_s}, defaults, and
  per-message field generator bindings. Load converts it into the
  validated scenario.Scenario model in loader.go.

LICENSE
  Copyright (C) 2024 the ch10gen project contributors.
*/

package scenario

// document is the raw YAML shape of a scenario file.
type document struct {
	Name           string                    `yaml:"name"`
	DurationS      float64                   `yaml:"duration_s"`
	StartTimeUTC   string                    `yaml:"start_time_utc"`
	Seed           *uint64                   `yaml:"seed"`
	Bus            busDoc                    `yaml:"bus"`
	Defaults       *defaultsDoc              `yaml:"defaults"`
	Messages       map[string]messageBindDoc `yaml:"messages"`
}

type busDoc struct {
	PacketBytesTarget  *int     `yaml:"packet_bytes_target"`
	TimePacketIntervalS *float64 `yaml:"time_packet_interval_s"`
	JitterMS           *float64 `yaml:"jitter_ms"`
}

type defaultsDoc struct {
	DataMode      string                 `yaml:"data_mode"`
	DefaultConfig map[string]interface{} `yaml:"default_config"`
}

type messageBindDoc struct {
	DefaultMode   string                 `yaml:"default_mode"`
	DefaultConfig map[string]interface{} `yaml:"default_config"`
	Fields        map[string]fieldBindDoc `yaml:"fields"`
}

type fieldBindDoc struct {
	Mode   string                 `yaml:"mode"`
	Params map[string]interface{} `yaml:",inline"`
}
