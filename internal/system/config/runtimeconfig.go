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

import "sync"

// RDSRuntime holds the runtime configuration for the RDS server.
type RDSRuntime struct {
	RDSHome string `yaml:"rds_home"`
	Config  Config `yaml:"config"`
}

var (
	runtimeConfig *RDSRuntime
	once          sync.Once
)

// InitializeRDSRuntime initializes the RDSRuntime configuration.
func InitializeRDSRuntime(rdsHome string, config *Config) error {

	once.Do(func() {
		runtimeConfig = &RDSRuntime{
			RDSHome: rdsHome,
			Config:  *config,
		}
	})

	return nil
}

// OverrideRDSRuntime replaces the runtime configuration. Intended for tests.
func OverrideRDSRuntime(rdsHome string, config Config) {

	runtimeConfig = &RDSRuntime{
		RDSHome: rdsHome,
		Config:  config,
	}
}

// GetRDSRuntime returns the RDSRuntime configuration.
func GetRDSRuntime() *RDSRuntime {

	if runtimeConfig == nil {
		panic("RDSRuntime is not initialized")
	}
	return runtimeConfig
}
