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

package service

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	accountmodel "github.com/wso2/identity-resident-data-service/internal/accounts/model"
	fieldmodel "github.com/wso2/identity-resident-data-service/internal/custom_fields/model"
	profilemodel "github.com/wso2/identity-resident-data-service/internal/profiles/model"
	"github.com/wso2/identity-resident-data-service/internal/residents/model"
	"github.com/wso2/identity-resident-data-service/internal/residents/store"
	"github.com/wso2/identity-resident-data-service/internal/system/cache"
	"github.com/wso2/identity-resident-data-service/internal/system/config"
	"github.com/wso2/identity-resident-data-service/internal/system/constants"
	"github.com/wso2/identity-resident-data-service/internal/system/errors"
	groupmodel "github.com/wso2/identity-resident-data-service/internal/role_groups/model"
	"github.com/wso2/identity-resident-data-service/internal/system/log"
)

var _ store.Store = (*fakeStore)(nil)

func TestMain(m *testing.M) {
	_ = log.Init("ERROR")
	os.Exit(m.Run())
}

const (
	testInstanceID  int64 = 1
	testCommunityID int64 = 1
)

func newTestService(f *fakeStore) *ResidentSyncService {
	svc := NewResidentSyncService(f, config.SyncConfig{
		InstanceID:         testInstanceID,
		CommunityID:        testCommunityID,
		DefaultPhoneRegion: "US",
	}, cache.NewCache(time.Minute))
	svc.initialized = true
	return svc
}

func tenantRecord(externalID, email, firstName, lastName, unitTitle, leaseID string) model.FeedRecord {
	return model.FeedRecord{
		ExternalID:   externalID,
		Email:        email,
		FirstName:    firstName,
		LastName:     lastName,
		UnitTitle:    unitTitle,
		LeaseID:      leaseID,
		ResidentType: "tenant",
		IsResident:   true,
	}
}

func groupNamesOf(t *testing.T, f *fakeStore, accountID int64) map[string]bool {
	t.Helper()
	memberships, err := f.AccountGroups([]int64{accountID})
	require.NoError(t, err)
	names := make(map[string]bool, len(memberships))
	for _, membership := range memberships {
		names[membership.GroupName] = true
	}
	return names
}

// ---------------------------------------------------------------------------
// Init
// ---------------------------------------------------------------------------

func TestInit_RejectsWhenRunInFlight(t *testing.T) {
	f := newFakeStore()
	f.importStarted[testInstanceID] = time.Now()
	svc := newTestService(f)
	svc.initialized = false

	err := svc.Init()
	require.Error(t, err)
	clientErr, ok := err.(*errors.ClientError)
	require.True(t, ok)
	assert.Equal(t, errors.ErrImportAlreadyRunning.Code, clientErr.Code)
	assert.Equal(t, 409, clientErr.StatusCode)
	assert.False(t, svc.initialized)
}

func TestInit_FailsWhenRoleGroupsMissing(t *testing.T) {
	f := newFakeStore()
	svc := newTestService(f)
	svc.initialized = false

	err := svc.Init()
	require.Error(t, err)
	clientErr, ok := err.(*errors.ClientError)
	require.True(t, ok)
	assert.Equal(t, errors.ErrMissingRoleGroups.Code, clientErr.Code)
	assert.Equal(t, 412, clientErr.StatusCode)
}

func TestInit_FailsWhenFieldMappingFileMissing(t *testing.T) {
	f := newFakeStore()
	f.seedRequiredGroups(testInstanceID)
	config.OverrideRDSRuntime(t.TempDir(), config.Config{})

	svc := newTestService(f)
	svc.initialized = false
	svc.cfg.FieldMappingFile = "missing.yaml"

	err := svc.Init()
	require.Error(t, err)
	clientErr, ok := err.(*errors.ClientError)
	require.True(t, ok)
	assert.Equal(t, errors.ErrMissingFieldMappings.Code, clientErr.Code)
}

func TestInit_SeedsAuthActionsAndCustomFields(t *testing.T) {
	f := newFakeStore()
	f.seedRequiredGroups(testInstanceID)

	home := t.TempDir()
	mapping := "- field: \"move_in_date\"\n  tag_label: \"Move In Date\"\n  field_type: 1\n  entity: 2\n"
	require.NoError(t, os.WriteFile(filepath.Join(home, "mappings.yaml"), []byte(mapping), 0o600))
	config.OverrideRDSRuntime(home, config.Config{})

	svc := newTestService(f)
	svc.initialized = false
	svc.cfg.FieldMappingFile = "mappings.yaml"

	require.NoError(t, svc.Init())
	assert.True(t, svc.initialized)
	assert.Len(t, f.authActions, len(requiredAuthActions))
	assert.Len(t, f.grants, len(requiredAuthActions)*len(constants.RequiredRoleGroups))
	require.Len(t, f.fields, 1)
	assert.Equal(t, "move_in_date", f.fields[0].SourceField)
	assert.Equal(t, "Move In Date", f.fields[0].TagLabel)
}

// ---------------------------------------------------------------------------
// Sync preconditions
// ---------------------------------------------------------------------------

func TestSync_RequiresInit(t *testing.T) {
	f := newFakeStore()
	svc := newTestService(f)
	svc.initialized = false

	_, err := svc.Sync(nil)
	require.Error(t, err)
	clientErr, ok := err.(*errors.ClientError)
	require.True(t, ok)
	assert.Equal(t, errors.ErrInitRequired.Code, clientErr.Code)
}

func TestSync_RejectsConcurrentRun(t *testing.T) {
	f := newFakeStore()
	f.seedRequiredGroups(testInstanceID)
	startedAt := time.Now().Add(-time.Minute)
	f.importStarted[testInstanceID] = startedAt
	svc := newTestService(f)

	_, err := svc.Sync(nil)
	require.Error(t, err)
	conflict, ok := errors.IsImportConflict(err)
	require.True(t, ok)
	assert.Equal(t, startedAt.Unix(), conflict.StartedAt.Unix())
}

func TestSync_ReleasesImportMarker(t *testing.T) {
	f := newFakeStore()
	f.seedRequiredGroups(testInstanceID)
	svc := newTestService(f)

	result, err := svc.Sync([]model.FeedRecord{tenantRecord("1", "ana@example.com", "Ana", "Silva", "A-1", "")})
	require.NoError(t, err)
	assert.True(t, result.SyncComplete)
	assert.Empty(t, f.importStarted)
}

// ---------------------------------------------------------------------------
// Create pipeline
// ---------------------------------------------------------------------------

func TestSync_CreatesNewResidents(t *testing.T) {
	f := newFakeStore()
	f.seedRequiredGroups(testInstanceID)
	svc := newTestService(f)

	records := []model.FeedRecord{
		tenantRecord("1", "ana@example.com", "Ana", "Silva", "A-1", "L-100"),
		tenantRecord("2", "", "Ben", "Okafor", "A-2", ""),
	}
	result, err := svc.Sync(records)
	require.NoError(t, err)
	assert.True(t, result.Success, result.Errors)

	require.Len(t, f.accounts, 2)
	require.Len(t, f.profiles, 2)
	assert.Len(t, f.units, 2)
	assert.Len(t, f.memberships, 2)

	ana := f.profileByExternalID("1")
	require.NotNil(t, ana)
	assert.Equal(t, "ana@example.com", ana.Email)
	assert.True(t, ana.ValidEmail)
	assert.False(t, ana.IsLocal)

	ben := f.profileByExternalID("2")
	require.NotNil(t, ben)
	assert.True(t, ben.IsLocal)
	assert.False(t, ben.ValidEmail)
	benAccount := f.accountByID(ben.AccountID)
	require.NotNil(t, benAccount)
	assert.Equal(t, "resident_2", benAccount.Username)
	assert.Empty(t, benAccount.ExternalRef, "cross-reference must be cleared after the run")

	require.Len(t, f.contracts, 1)
	assert.Equal(t, "L-100", f.contracts[0].LeaseRef)
	assert.Equal(t, ana.AccountID, f.contracts[0].AccountID)
	assert.True(t, f.contracts[0].IsActive)

	anaGroups := groupNamesOf(t, f, ana.AccountID)
	assert.True(t, anaGroups[constants.GroupResidents])
	assert.True(t, anaGroups[constants.GroupTenants])
	assert.False(t, anaGroups[constants.GroupOwners])
}

func TestSync_EmailHeldByProfileReusesItsAccount(t *testing.T) {
	f := newFakeStore()
	f.seedRequiredGroups(testInstanceID)

	// An emailless account whose profile already carries the address, as an
	// earlier import leaves behind when the feed row had no usable login.
	accounts, err := f.InsertAccounts([]accountmodel.NewAccount{
		{Username: "resident_99", DisplayName: "Lena Vogel"},
	})
	require.NoError(t, err)
	_, err = f.InsertProfiles([]profilemodel.NewProfile{
		{CommunityID: testCommunityID, AccountID: accounts[0].ID, ExternalID: "99",
			FirstName: "Lena", LastName: "Vogel", DisplayName: "Lena Vogel",
			Email: "lena@example.com"},
	})
	require.NoError(t, err)

	svc := newTestService(f)
	_, err = svc.Sync([]model.FeedRecord{
		tenantRecord("4", "lena@example.com", "Lena", "Vogel", "A-4", ""),
	})
	require.NoError(t, err)

	require.Len(t, f.accounts, 1, "the stored linkage must be reused, not duplicated")
	account := f.accountByID(accounts[0].ID)
	require.NotNil(t, account)
	assert.Equal(t, "lena@example.com", account.Email)
	assert.Equal(t, "lena@example.com", account.Username)
	assert.True(t, account.IsValidEmail)

	profile := f.profileByExternalID("4")
	require.NotNil(t, profile)
	assert.Equal(t, accounts[0].ID, profile.AccountID)
}

func TestSync_SkipsRecordsWithoutExternalID(t *testing.T) {
	f := newFakeStore()
	f.seedRequiredGroups(testInstanceID)
	svc := newTestService(f)

	records := []model.FeedRecord{
		tenantRecord("", "ghost@example.com", "No", "ID", "A-1", ""),
		tenantRecord("not-a-number", "alsoghost@example.com", "Bad", "ID", "A-1", ""),
		tenantRecord("3", "real@example.com", "Real", "Resident", "A-1", ""),
	}
	result, err := svc.Sync(records)
	require.NoError(t, err)
	assert.True(t, result.Success, result.Errors)
	assert.Len(t, f.profiles, 1)
	assert.Equal(t, "3", f.profiles[0].ExternalID)
}

func TestSync_IsIdempotent(t *testing.T) {
	f := newFakeStore()
	f.seedRequiredGroups(testInstanceID)
	require.NoError(t, f.UpsertCustomFields([]fieldmodel.FieldMappingConfig{
		{Field: "move_in_date", TagLabel: "Move In Date", FieldType: 1, Entity: constants.EntityTypeUsers},
	}))
	svc := newTestService(f)

	records := []model.FeedRecord{
		tenantRecord("1", "ana@example.com", "Ana", "Silva", "A-1", "L-100"),
		tenantRecord("2", "ben@example.com", "Ben", "Okafor", "A-2", "L-200"),
	}
	records[0].Extra = map[string]string{"move_in_date": "2026-01-15"}

	_, err := svc.Sync(records)
	require.NoError(t, err)

	accounts := len(f.accounts)
	profiles := len(f.profiles)
	memberships := len(f.memberships)
	groupMembers := len(f.groupMembers)
	contracts := len(f.contracts)
	metadata := len(f.metadata)

	result, err := svc.Sync(records)
	require.NoError(t, err)
	assert.True(t, result.Success, result.Errors)

	assert.Equal(t, accounts, len(f.accounts))
	assert.Equal(t, profiles, len(f.profiles))
	assert.Equal(t, memberships, len(f.memberships))
	assert.Equal(t, groupMembers, len(f.groupMembers))
	assert.Equal(t, contracts, len(f.contracts))
	assert.Equal(t, metadata, len(f.metadata))
	assert.Equal(t, 2, f.activeProfileCount())
}

// ---------------------------------------------------------------------------
// Update pipeline
// ---------------------------------------------------------------------------

func TestSync_EmailChangeTransfersIdentity(t *testing.T) {
	f := newFakeStore()
	f.seedRequiredGroups(testInstanceID)
	svc := newTestService(f)

	_, err := svc.Sync([]model.FeedRecord{tenantRecord("7", "old@example.com", "Maya", "Chen", "B-4", "L-700")})
	require.NoError(t, err)
	profile := f.profileByExternalID("7")
	require.NotNil(t, profile)
	oldAccountID := profile.AccountID

	_, err = svc.Sync([]model.FeedRecord{tenantRecord("7", "new@example.com", "Maya", "Chen", "B-4", "L-700")})
	require.NoError(t, err)

	profile = f.profileByExternalID("7")
	require.NotNil(t, profile)
	assert.NotEqual(t, oldAccountID, profile.AccountID, "profile must be relinked to a fresh account")
	assert.Equal(t, "new@example.com", profile.Email)

	oldAccount := f.accountByID(oldAccountID)
	require.NotNil(t, oldAccount)
	assert.Equal(t, "old@example.com", oldAccount.Email, "the replaced account keeps its address")

	newAccount := f.accountByID(profile.AccountID)
	require.NotNil(t, newAccount)
	assert.Equal(t, "new@example.com", newAccount.Email)
	assert.Empty(t, newAccount.ExternalRef)

	// The lease follows the person, not the abandoned login.
	require.Len(t, f.contracts, 1)
	assert.Equal(t, profile.AccountID, f.contracts[0].AccountID)
	assert.True(t, f.contracts[0].IsActive)
}

func TestSync_LeaseChangeUpdatesContractInPlace(t *testing.T) {
	f := newFakeStore()
	f.seedRequiredGroups(testInstanceID)
	svc := newTestService(f)

	_, err := svc.Sync([]model.FeedRecord{tenantRecord("7", "maya@example.com", "Maya", "Chen", "B-4", "L-100")})
	require.NoError(t, err)
	require.Len(t, f.contracts, 1)
	firstRowID := f.contracts[0].ID

	_, err = svc.Sync([]model.FeedRecord{tenantRecord("7", "maya@example.com", "Maya", "Chen", "B-4", "L-200")})
	require.NoError(t, err)

	require.Len(t, f.contracts, 1, "a lease change must not add a second contract row")
	assert.Equal(t, firstRowID, f.contracts[0].ID)
	assert.Equal(t, "L-200", f.contracts[0].LeaseRef)
	assert.True(t, f.contracts[0].IsActive)
	assert.EqualValues(t, 7, f.contracts[0].ContractRef)
	profile := f.profileByExternalID("7")
	require.NotNil(t, profile)
	assert.Equal(t, profile.AccountID, f.contracts[0].AccountID)
}

func TestSync_DisplayNameChangeUpdatesAccount(t *testing.T) {
	f := newFakeStore()
	f.seedRequiredGroups(testInstanceID)
	svc := newTestService(f)

	_, err := svc.Sync([]model.FeedRecord{tenantRecord("7", "maya@example.com", "Maya", "Chen", "B-4", "")})
	require.NoError(t, err)

	_, err = svc.Sync([]model.FeedRecord{tenantRecord("7", "maya@example.com", "Maya", "Chen-Reyes", "B-4", "")})
	require.NoError(t, err)

	profile := f.profileByExternalID("7")
	require.NotNil(t, profile)
	account := f.accountByID(profile.AccountID)
	require.NotNil(t, account)
	assert.Equal(t, "Maya Chen-Reyes", account.DisplayName)
}

func TestSync_BlankEmailKeepsStoredAddress(t *testing.T) {
	f := newFakeStore()
	f.seedRequiredGroups(testInstanceID)
	svc := newTestService(f)

	_, err := svc.Sync([]model.FeedRecord{tenantRecord("7", "maya@example.com", "Maya", "Chen", "B-4", "")})
	require.NoError(t, err)
	accounts := len(f.accounts)

	_, err = svc.Sync([]model.FeedRecord{tenantRecord("7", "", "Maya", "Chen", "B-4", "")})
	require.NoError(t, err)

	profile := f.profileByExternalID("7")
	require.NotNil(t, profile)
	assert.Equal(t, "maya@example.com", profile.Email)
	assert.False(t, profile.IsDeleted)
	assert.Equal(t, accounts, len(f.accounts), "a blank email must not mint a replacement account")
}

func TestSync_ReactivatesReturningResident(t *testing.T) {
	f := newFakeStore()
	f.seedRequiredGroups(testInstanceID)
	svc := newTestService(f)

	record := tenantRecord("5", "rui@example.com", "Rui", "Costa", "C-2", "")
	_, err := svc.Sync([]model.FeedRecord{record})
	require.NoError(t, err)

	// The resident drops out and is swept.
	_, err = svc.Sync([]model.FeedRecord{tenantRecord("6", "other@example.com", "Someone", "Else", "C-3", "")})
	require.NoError(t, err)
	require.True(t, f.profileByExternalID("5").IsDeleted)

	// The resident comes back in a later batch.
	_, err = svc.Sync([]model.FeedRecord{record, tenantRecord("6", "other@example.com", "Someone", "Else", "C-3", "")})
	require.NoError(t, err)
	assert.False(t, f.profileByExternalID("5").IsDeleted)
}

func TestSync_OwnerToTenantTransition(t *testing.T) {
	f := newFakeStore()
	f.seedRequiredGroups(testInstanceID)
	svc := newTestService(f)

	record := tenantRecord("9", "sam@example.com", "Sam", "Reyes", "D-1", "")
	record.ResidentType = "owner"
	_, err := svc.Sync([]model.FeedRecord{record})
	require.NoError(t, err)

	profile := f.profileByExternalID("9")
	require.NotNil(t, profile)
	require.Len(t, f.memberships, 1)
	assert.Equal(t, constants.ResidentTypeResidentOwner, f.memberships[0].ResidentTypeID)
	groups := groupNamesOf(t, f, profile.AccountID)
	assert.True(t, groups[constants.GroupOwners])
	assert.False(t, groups[constants.GroupTenants])

	record.ResidentType = "tenant"
	_, err = svc.Sync([]model.FeedRecord{record})
	require.NoError(t, err)

	require.Len(t, f.memberships, 1)
	assert.Equal(t, constants.ResidentTypeTenant, f.memberships[0].ResidentTypeID)
	assert.Equal(t, constants.GroupTypeTenant, f.memberships[0].GroupTypeID)
	groups = groupNamesOf(t, f, profile.AccountID)
	assert.True(t, groups[constants.GroupTenants])
	assert.False(t, groups[constants.GroupOwners], "the stale owner membership must be removed")
	assert.True(t, groups[constants.GroupResidents])
}

// ---------------------------------------------------------------------------
// Deactivation sweep
// ---------------------------------------------------------------------------

func TestSync_DeactivatesDroppedResidents(t *testing.T) {
	f := newFakeStore()
	f.seedRequiredGroups(testInstanceID)
	svc := newTestService(f)

	_, err := svc.Sync([]model.FeedRecord{
		tenantRecord("1", "ana@example.com", "Ana", "Silva", "A-1", "L-100"),
		tenantRecord("2", "ben@example.com", "Ben", "Okafor", "A-2", "L-200"),
	})
	require.NoError(t, err)
	ben := f.profileByExternalID("2")
	require.NotNil(t, ben)

	_, err = svc.Sync([]model.FeedRecord{
		tenantRecord("1", "ana@example.com", "Ana", "Silva", "A-1", "L-100"),
	})
	require.NoError(t, err)

	ben = f.profileByExternalID("2")
	require.NotNil(t, ben)
	assert.True(t, ben.IsDeleted)
	assert.False(t, f.profileByExternalID("1").IsDeleted)

	benGroups := groupNamesOf(t, f, ben.AccountID)
	assert.True(t, benGroups[constants.GroupResidents], "a swept resident keeps the Residents group")
	assert.True(t, benGroups[constants.GroupTenants], "the sweep never touches role groups")
	for _, membership := range f.memberships {
		assert.NotEqual(t, ben.AccountID, membership.AccountID, "stale unit memberships are removed")
	}
	for _, contract := range f.contracts {
		if contract.AccountID == ben.AccountID {
			assert.False(t, contract.IsActive)
		}
	}
}

func TestSync_AdminAccountsExemptFromSweep(t *testing.T) {
	f := newFakeStore()
	f.seedRequiredGroups(testInstanceID)
	svc := newTestService(f)

	_, err := svc.Sync([]model.FeedRecord{
		tenantRecord("1", "ana@example.com", "Ana", "Silva", "A-1", ""),
		tenantRecord("2", "staff@example.com", "Staff", "Member", "A-2", ""),
	})
	require.NoError(t, err)
	staff := f.profileByExternalID("2")
	require.NotNil(t, staff)

	adminGroupID, err := f.InsertRoleGroup(testInstanceID, "Admins")
	require.NoError(t, err)
	require.NoError(t, f.InsertGroupMemberships([]groupmodel.GroupMembership{
		{GroupID: adminGroupID, AccountID: staff.AccountID},
	}))

	_, err = svc.Sync([]model.FeedRecord{
		tenantRecord("1", "ana@example.com", "Ana", "Silva", "A-1", ""),
	})
	require.NoError(t, err)

	assert.False(t, f.profileByExternalID("2").IsDeleted,
		"accounts holding administrative groups are never swept")
	assert.True(t, groupNamesOf(t, f, staff.AccountID)["Admins"])
}

func TestSync_DuplicateEmailsCollapseToLastMatched(t *testing.T) {
	f := newFakeStore()
	f.seedRequiredGroups(testInstanceID)

	accounts, err := f.InsertAccounts([]accountmodel.NewAccount{
		{Username: "dup@example.com", Email: "dup@example.com", IsValidEmail: true},
		{Username: "resident_2", DisplayName: "Second Holder"},
	})
	require.NoError(t, err)
	_, err = f.InsertProfiles([]profilemodel.NewProfile{
		{CommunityID: testCommunityID, AccountID: accounts[0].ID, ExternalID: "1",
			FirstName: "First", LastName: "Holder", DisplayName: "First Holder",
			Email: "dup@example.com", ValidEmail: true},
		{CommunityID: testCommunityID, AccountID: accounts[1].ID, ExternalID: "2",
			FirstName: "Second", LastName: "Holder", DisplayName: "Second Holder",
			Email: "dup@example.com", ValidEmail: true},
	})
	require.NoError(t, err)

	svc := newTestService(f)
	_, err = svc.Sync([]model.FeedRecord{
		tenantRecord("1", "dup@example.com", "First", "Holder", "", ""),
		tenantRecord("2", "dup@example.com", "Second", "Holder", "", ""),
	})
	require.NoError(t, err)

	assert.True(t, f.profileByExternalID("1").IsDeleted, "earlier holder of the address is retired")
	assert.False(t, f.profileByExternalID("2").IsDeleted, "last matched profile keeps the address")
}

// ---------------------------------------------------------------------------
// Custom field metadata
// ---------------------------------------------------------------------------

func TestSync_MetadataSingleRowPerField(t *testing.T) {
	f := newFakeStore()
	f.seedRequiredGroups(testInstanceID)
	require.NoError(t, f.UpsertCustomFields([]fieldmodel.FieldMappingConfig{
		{Field: "move_in_date", TagLabel: "Move In Date", FieldType: 1, Entity: constants.EntityTypeUsers},
	}))
	svc := newTestService(f)

	record := tenantRecord("1", "ana@example.com", "Ana", "Silva", "A-1", "")
	record.Extra = map[string]string{"move_in_date": "2026-01-15"}
	_, err := svc.Sync([]model.FeedRecord{record})
	require.NoError(t, err)

	require.Len(t, f.metadata, 1)
	firstRowID := f.metadata[0].ID
	assert.Equal(t, "2026-01-15", f.metadata[0].Value)

	record.Extra["move_in_date"] = "2026-03-01"
	_, err = svc.Sync([]model.FeedRecord{record})
	require.NoError(t, err)

	require.Len(t, f.metadata, 1, "a drifted value updates the row instead of adding one")
	assert.Equal(t, firstRowID, f.metadata[0].ID)
	assert.Equal(t, "2026-03-01", f.metadata[0].Value)
}

func TestSync_MetadataLastRecordWinsWithinBatch(t *testing.T) {
	f := newFakeStore()
	f.seedRequiredGroups(testInstanceID)
	require.NoError(t, f.UpsertCustomFields([]fieldmodel.FieldMappingConfig{
		{Field: "building", TagLabel: "Building", FieldType: 1, Entity: constants.EntityTypeUnits},
	}))
	svc := newTestService(f)

	first := tenantRecord("1", "ana@example.com", "Ana", "Silva", "A-1", "")
	first.Extra = map[string]string{"building": "North"}
	second := tenantRecord("2", "ben@example.com", "Ben", "Okafor", "A-1", "")
	second.Extra = map[string]string{"building": "South"}

	_, err := svc.Sync([]model.FeedRecord{first, second})
	require.NoError(t, err)

	require.Len(t, f.metadata, 1)
	assert.Equal(t, constants.EntityTypeUnits, f.metadata[0].EntityTypeID)
	assert.Equal(t, "South", f.metadata[0].Value)
}

func TestLastResult_EmptyBeforeFirstRun(t *testing.T) {
	svc := newTestService(newFakeStore())

	result, ok := svc.LastResult()
	assert.False(t, ok)
	assert.Nil(t, result)
}

func TestLastResult_ReturnsLatestOutcome(t *testing.T) {
	f := newFakeStore()
	f.seedRequiredGroups(testInstanceID)
	svc := newTestService(f)

	result, err := svc.Sync([]model.FeedRecord{
		tenantRecord("1", "ana@example.com", "Ana", "Silva", "A-1", ""),
	})
	require.NoError(t, err)

	cached, ok := svc.LastResult()
	require.True(t, ok)
	assert.Equal(t, result, cached)
}
