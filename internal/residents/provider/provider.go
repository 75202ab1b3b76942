/*
 * Copyright (c) 2026, WSO2 LLC. (http://www.wso2.com).
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

package provider

import (
	"sync"
	"time"

	"github.com/wso2/identity-resident-data-service/internal/residents/service"
	"github.com/wso2/identity-resident-data-service/internal/residents/store"
	"github.com/wso2/identity-resident-data-service/internal/system/cache"
	"github.com/wso2/identity-resident-data-service/internal/system/config"
)

var (
	mu          sync.Mutex
	instance    *service.ResidentSyncService
	initialized bool
)

// ResidentSyncProvider hands out the process-wide sync service.
type ResidentSyncProvider struct{}

func NewResidentSyncProvider() *ResidentSyncProvider {
	return &ResidentSyncProvider{}
}

// GetResidentSyncService returns the engine, running its Init on first use.
// A failed Init is not latched; the next call retries it.
func (p *ResidentSyncProvider) GetResidentSyncService() (service.ResidentSyncServiceInterface, error) {
	mu.Lock()
	defer mu.Unlock()
	if instance == nil {
		cfg := config.GetRDSRuntime().Config.Sync
		instance = service.NewResidentSyncService(store.NewPostgresStore(), cfg, cache.NewCache(15*time.Minute))
	}
	if !initialized {
		if err := instance.Init(); err != nil {
			return nil, err
		}
		initialized = true
	}
	return instance, nil
}
