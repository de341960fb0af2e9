// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package saga

import (
	"bytes"
	"io"
	"os"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"
)

// Config is the file form of scheduler options.
//
//	queue_capacity: 128
//	log_level: debug
//	log_development: true
type Config struct {
	QueueCapacity  int    `yaml:"queue_capacity"`
	LogLevel       string `yaml:"log_level"`
	LogDevelopment bool   `yaml:"log_development"`
}

// ParseConfig decodes a YAML config. Unknown keys are rejected.
func ParseConfig(data []byte) (Config, error) {
	var c Config
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&c); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, errors.Wrap(err, "saga: parse config")
	}
	if err := c.validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// LoadConfig reads and decodes the YAML config at path.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, errors.Wrapf(err, "saga: read config %s", path)
	}
	return ParseConfig(data)
}

func (c Config) validate() error {
	if c.QueueCapacity < 0 {
		return errors.Errorf("saga: queue_capacity %d is negative", c.QueueCapacity)
	}
	if c.QueueCapacity > MaxQueueCapacity {
		return errors.Errorf("saga: queue_capacity %d exceeds %d", c.QueueCapacity, MaxQueueCapacity)
	}
	if c.LogLevel != "" {
		if _, err := c.level(); err != nil {
			return err
		}
	}
	return nil
}

func (c Config) level() (zapcore.Level, error) {
	var lvl zapcore.Level
	if err := lvl.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return lvl, errors.Wrapf(err, "saga: log_level %q", c.LogLevel)
	}
	return lvl, nil
}

// Options converts c into scheduler options. A logger is built only when
// log_level is set.
func (c Config) Options() ([]Option, error) {
	if err := c.validate(); err != nil {
		return nil, err
	}
	var opts []Option
	if c.QueueCapacity > 0 {
		opts = append(opts, WithQueueCapacity(c.QueueCapacity))
	}
	if c.LogLevel != "" {
		lvl, _ := c.level()
		zc := zap.NewProductionConfig()
		if c.LogDevelopment {
			zc = zap.NewDevelopmentConfig()
		}
		zc.Level = zap.NewAtomicLevelAt(lvl)
		logger, err := zc.Build()
		if err != nil {
			return nil, errors.Wrap(err, "saga: build logger")
		}
		opts = append(opts, WithLogger(logger))
	}
	return opts, nil
}
