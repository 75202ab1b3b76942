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

package integration

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wso2/identity-resident-data-service/internal/residents/model"
	"github.com/wso2/identity-resident-data-service/internal/residents/service"
	"github.com/wso2/identity-resident-data-service/internal/residents/store"
	"github.com/wso2/identity-resident-data-service/internal/system/cache"
	"github.com/wso2/identity-resident-data-service/internal/system/config"
	"github.com/wso2/identity-resident-data-service/internal/system/constants"
	"github.com/wso2/identity-resident-data-service/internal/system/errors"
)

const (
	instanceID  int64 = 1
	communityID int64 = 1
)

func newSyncService(t *testing.T) (*service.ResidentSyncService, store.Store) {
	t.Helper()
	if pg == nil {
		t.Skip("integration environment not available; set RDS_INTEGRATION_TESTS=true")
	}

	pgStore := store.NewPostgresStore()
	existing, err := pgStore.RoleGroups(instanceID)
	require.NoError(t, err)
	present := make(map[string]bool, len(existing))
	for _, group := range existing {
		present[group.Name] = true
	}
	for _, name := range constants.RequiredRoleGroups {
		if !present[name] {
			_, err := pgStore.InsertRoleGroup(instanceID, name)
			require.NoError(t, err)
		}
	}

	svc := service.NewResidentSyncService(pgStore, config.SyncConfig{
		InstanceID:         instanceID,
		CommunityID:        communityID,
		DefaultPhoneRegion: "US",
		FieldMappingFile:   "repository/conf/field_mappings.yaml",
	}, cache.NewCache(time.Minute))
	require.NoError(t, svc.Init())
	return svc, pgStore
}

func TestResidentSync_EndToEnd(t *testing.T) {
	svc, pgStore := newSyncService(t)

	records := []model.FeedRecord{
		{
			ExternalID: "101", Email: "ana@example.com",
			FirstName: "Ana", LastName: "Silva",
			UnitTitle: "A-1", LeaseID: "L-100",
			ResidentType: "owner", IsResident: true,
			Extra: map[string]string{"move_in_date": "2026-01-15"},
		},
		{
			ExternalID: "102", Email: "ben@example.com",
			FirstName: "Ben", LastName: "Okafor",
			UnitTitle: "A-2", LeaseID: "L-200",
			ResidentType: "tenant", IsResident: true,
		},
	}

	result, err := svc.Sync(records)
	require.NoError(t, err)
	assert.True(t, result.Success, result.Errors)
	assert.True(t, result.SyncComplete)

	profiles, err := pgStore.ProfilesByCommunity(communityID)
	require.NoError(t, err)
	byExternalID := make(map[string]int64, len(profiles))
	for _, profile := range profiles {
		byExternalID[profile.ExternalID] = profile.AccountID
		assert.False(t, profile.IsDeleted)
		assert.Positive(t, profile.RegisteredDate, "registered_date must round-trip as epoch seconds")
	}
	require.Contains(t, byExternalID, "101")
	require.Contains(t, byExternalID, "102")

	groups, err := pgStore.AccountGroups([]int64{byExternalID["101"], byExternalID["102"]})
	require.NoError(t, err)
	names := make(map[int64]map[string]bool)
	for _, membership := range groups {
		if names[membership.AccountID] == nil {
			names[membership.AccountID] = make(map[string]bool)
		}
		names[membership.AccountID][membership.GroupName] = true
	}
	assert.True(t, names[byExternalID["101"]][constants.GroupOwners])
	assert.True(t, names[byExternalID["102"]][constants.GroupTenants])

	// A second run over the same batch changes nothing.
	accountsBefore := len(profiles)
	result, err = svc.Sync(records)
	require.NoError(t, err)
	assert.True(t, result.Success, result.Errors)
	profiles, err = pgStore.ProfilesByCommunity(communityID)
	require.NoError(t, err)
	assert.Len(t, profiles, accountsBefore)

	// Dropping a resident deactivates them.
	result, err = svc.Sync(records[:1])
	require.NoError(t, err)
	assert.True(t, result.Success, result.Errors)
	profiles, err = pgStore.ProfilesByCommunity(communityID)
	require.NoError(t, err)
	for _, profile := range profiles {
		if profile.ExternalID == "102" {
			assert.True(t, profile.IsDeleted)
		}
	}
}

func TestResidentSync_ImportGuard(t *testing.T) {
	svc, pgStore := newSyncService(t)

	require.NoError(t, pgStore.BeginImport(instanceID))
	defer func() {
		require.NoError(t, pgStore.ReleaseImport(instanceID))
	}()

	_, err := svc.Sync(nil)
	require.Error(t, err)
	conflict, ok := errors.IsImportConflict(err)
	require.True(t, ok)
	assert.False(t, conflict.StartedAt.IsZero())
}
