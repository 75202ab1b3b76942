/*
 * Copyright (c) 2025, WSO2 LLC. (http://www.wso2.com).
 *
 * WSO2 LLC. licenses this file to you under the Apache License,
 * Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.
 * You may obtain a copy of the License at
 *
 * http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing,
 * software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY
 * KIND, either express or implied.  See the License for the
 * specific language governing permissions and limitations
 * under the License.
 */

package config

import (
	"os"
	"path"

	pkgerrors "github.com/pkg/errors"
	"gopkg.in/yaml.v2"
)

type AddrConfig struct {
	Port int    `yaml:"port"`
	Host string `yaml:"host"`
}

type LogConfig struct {
	LogLevel string `yaml:"log_level"`
}

type AuthServerConfig struct {
	AdminUsername string `yaml:"admin_username"`
	AdminPassword string `yaml:"admin_password"`
	JWTSecret     string `yaml:"jwt_secret"`
}

type DataSourceConfig struct {
	Hostname string `yaml:"hostname"`
	Port     int    `yaml:"port"`
	Name     string `yaml:"name"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	SSLMode  string `yaml:"sslmode"`
}

// SyncConfig carries the reconciliation settings for one deployment. The
// engine receives these explicitly instead of reading a process-global.
type SyncConfig struct {
	InstanceID         int64  `yaml:"id_instance"`
	CommunityID        int64  `yaml:"id_community"`
	DefaultPhoneRegion string `yaml:"default_phone_region"`
	FieldMappingFile   string `yaml:"field_mapping_file"`
	Production         bool   `yaml:"production"`
}

type DataSourcesConfig struct {
	Production  DataSourceConfig `yaml:"production"`
	Development DataSourceConfig `yaml:"development"`
}

type Config struct {
	Addr        AddrConfig        `yaml:"addr"`
	Log         LogConfig         `yaml:"log"`
	AuthServer  AuthServerConfig  `yaml:"auth_server"`
	DataSources DataSourcesConfig `yaml:"datasources"`
	Sync        SyncConfig        `yaml:"sync"`
}

// ActiveDataSource returns the datasource selected by the sync environment.
func (c *Config) ActiveDataSource() DataSourceConfig {
	if c.Sync.Production {
		return c.DataSources.Production
	}
	return c.DataSources.Development
}

// LoadConfig reads the deployment configuration relative to the service home
// directory, expanding environment variable references in the file.
func LoadConfig(rdsHome, configFile string) (*Config, error) {
	file, err := os.ReadFile(path.Join(rdsHome, configFile))
	if err != nil {
		return nil, pkgerrors.Wrap(err, "failed to read deployment configuration")
	}

	expanded := os.ExpandEnv(string(file))

	var config Config
	if err := yaml.Unmarshal([]byte(expanded), &config); err != nil {
		return nil, pkgerrors.Wrap(err, "failed to parse deployment configuration")
	}

	return &config, nil
}
