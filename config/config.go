/*
   Velociraptor - Dig Deeper
   Copyright (C) 2019-2025 Rapid7 Inc.

   This program is free software: you can redistribute it and/or modify
   it under the terms of the GNU Affero General Public License as published
   by the Free Software Foundation, either version 3 of the License, or
   (at your option) any later version.

   This program is distributed in the hope that it will be useful,
   but WITHOUT ANY WARRANTY; without even the implied warranty of
   MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
   GNU Affero General Public License for more details.

   You should have received a copy of the GNU Affero General Public License
   along with this program.  If not, see <https://www.gnu.org/licenses/>.
*/
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/Velocidex/yaml/v2"
	"github.com/go-errors/errors"
	config_proto "www.velocidex.com/golang/changelog/config/proto"
	"www.velocidex.com/golang/changelog/constants"
	"www.velocidex.com/golang/changelog/glob"
	"www.velocidex.com/golang/changelog/utils"
)

// Embed build time constants into here for reporting client version.
// https://husobee.github.io/golang/compile/time/variables/2015/12/03/compile-time-const.html
var (
	build_time  string
	commit_hash string
)

func GetVersion() *config_proto.Version {
	return &config_proto.Version{
		Name:      "changelog",
		Version:   constants.VERSION,
		Commit:    commit_hash,
		BuildTime: build_time,
	}
}

func GetDefaultConfig() *config_proto.Config {
	return &config_proto.Config{
		Version: GetVersion(),
		Logging: &config_proto.LoggingConfig{
			RotationTime: 7 * 24 * 60 * 60,
			MaxAge:       365 * 24 * 60 * 60,
		},
		ChangeLog: &config_proto.ChangeLogConfig{
			Glob:       constants.DEFAULT_CHANGELOG_GLOB,
			Accessor:   constants.DEFAULT_ACCESSOR,
			Timezone:   constants.DEFAULT_TIMEZONE,
			BufferSize: constants.DEFAULT_BUFFER_SIZE,
		},
	}
}

// Load the config stored in the YAML file and returns a config object.
func LoadConfig(filename string) (*config_proto.Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, errors.Wrap(err, 0)
	}

	return ParseConfigFromString(data)
}

// Fields missing from the YAML keep their default values.
func ParseConfigFromString(serialized []byte) (*config_proto.Config, error) {
	result := GetDefaultConfig()
	err := yaml.UnmarshalStrict(serialized, result)
	if err != nil {
		return nil, errors.Wrap(err, 0)
	}
	ensureDefaults(result)

	return result, nil
}

func Encode(config_obj *config_proto.Config) ([]byte, error) {
	return yaml.Marshal(config_obj)
}

func WriteConfigToFile(filename string, config_obj *config_proto.Config) error {
	bytes, err := Encode(config_obj)
	if err != nil {
		return err
	}

	return os.WriteFile(filename, bytes, 0600)
}

// A YAML file may null out whole sections.
func ensureDefaults(config_obj *config_proto.Config) {
	defaults := GetDefaultConfig()
	if config_obj.Version == nil {
		config_obj.Version = defaults.Version
	}
	if config_obj.Logging == nil {
		config_obj.Logging = defaults.Logging
	}
	if config_obj.ChangeLog == nil {
		config_obj.ChangeLog = defaults.ChangeLog
	}

	changelog := config_obj.ChangeLog
	changelog.Glob = utils.FirstNonEmpty(
		changelog.Glob, defaults.ChangeLog.Glob)
	changelog.Accessor = utils.FirstNonEmpty(
		changelog.Accessor, defaults.ChangeLog.Accessor)
	changelog.Timezone = utils.FirstNonEmpty(
		changelog.Timezone, defaults.ChangeLog.Timezone)
	if changelog.BufferSize == 0 {
		changelog.BufferSize = defaults.ChangeLog.BufferSize
	}
}

func ValidateConfig(config_obj *config_proto.Config) error {
	if config_obj == nil {
		return errors.Wrap(utils.InvalidConfigError, 0)
	}
	ensureDefaults(config_obj)

	changelog := config_obj.ChangeLog
	_, err := time.LoadLocation(changelog.Timezone)
	if err != nil {
		return fmt.Errorf("%w: ChangeLog.timezone %v: %v",
			utils.InvalidConfigError, changelog.Timezone, err)
	}

	_, err = glob.NewNameMatcher(changelog.Glob)
	if err != nil {
		return fmt.Errorf("%w: ChangeLog.glob %v: %v",
			utils.InvalidConfigError, changelog.Glob, err)
	}

	if changelog.BufferSize < 0 {
		return fmt.Errorf("%w: ChangeLog.buffer_size must be positive",
			utils.InvalidConfigError)
	}

	return nil
}
