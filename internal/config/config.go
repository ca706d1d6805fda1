// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

// Package config loads the settings of a sync run: an optional YAML file
// overridden by environment variables, then validated.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/linuxfoundation/lfx-v2-mailing-list-sync/pkg/constants"
	"github.com/linuxfoundation/lfx-v2-mailing-list-sync/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Config holds the settings shared by every command
type Config struct {
	// SourceGroup identifies the authoritative group (a Google group address or a committee UID)
	SourceGroup string `yaml:"source_group" validate:"required"`

	// TargetListName is the display name of the subscriber list
	TargetListName string `yaml:"target_list_name" validate:"required"`

	// Interval is the wait between the end of a cycle and the start of the next one
	Interval time.Duration `yaml:"interval" validate:"gt=0"`

	// SourceDirectory selects the source implementation
	SourceDirectory string `yaml:"source_directory" validate:"required,oneof=google nats mock"`

	// SubscriberList selects the sink implementation
	SubscriberList string `yaml:"subscriber_list" validate:"required,oneof=mailchimp groupsio mock"`
}

// DefaultConfig returns the defaults: Google source, Mailchimp sink, hourly cycles
func DefaultConfig() Config {
	return Config{
		Interval:        constants.DefaultSyncInterval,
		SourceDirectory: constants.SourceDirectoryGoogle,
		SubscriberList:  constants.SubscriberListMailchimp,
	}
}

// Load reads the YAML file at path (skipped when path is empty) on top of
// DefaultConfig and applies the environment. The result is not validated,
// so that command line flags can still be applied; call Validate afterwards.
func Load(path string) (Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, errors.NewConfiguration(fmt.Sprintf("failed to read config file %s", path), err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, errors.NewConfiguration(fmt.Sprintf("failed to parse config file %s", path), err)
		}
		slog.Debug("loaded configuration file", "path", path)
	}

	if err := cfg.applyEnv(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// applyEnv overrides the fields set in the environment. The legacy variable
// names are read first so the current names win when both are set.
func (c *Config) applyEnv() error {
	overrides := []struct {
		name   string
		target *string
	}{
		{constants.EnvGoogleGroupAddress, &c.SourceGroup},
		{constants.EnvSourceGroup, &c.SourceGroup},
		{constants.EnvMailchimpListName, &c.TargetListName},
		{constants.EnvTargetListName, &c.TargetListName},
		{constants.EnvSourceDirectory, &c.SourceDirectory},
		{constants.EnvSubscriberList, &c.SubscriberList},
	}

	for _, o := range overrides {
		if value := os.Getenv(o.name); value != "" {
			*o.target = value
		}
	}

	if raw := os.Getenv(constants.EnvSyncInterval); raw != "" {
		interval, err := time.ParseDuration(raw)
		if err != nil {
			return errors.NewConfiguration(fmt.Sprintf("invalid %s value %q", constants.EnvSyncInterval, raw), err)
		}
		c.Interval = interval
	}

	return nil
}

// Validate checks the configuration, returning an errors.Configuration
func (c Config) Validate() error {
	if err := GetValidator().Struct(c); err != nil {
		return errors.NewConfiguration("invalid configuration: " + formatValidationError(err))
	}
	return nil
}
