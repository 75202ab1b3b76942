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

package store

import (
	"time"

	accountmodel "github.com/wso2/identity-resident-data-service/internal/accounts/model"
	accountstore "github.com/wso2/identity-resident-data-service/internal/accounts/store"
	contractmodel "github.com/wso2/identity-resident-data-service/internal/contracts/model"
	contractstore "github.com/wso2/identity-resident-data-service/internal/contracts/store"
	fieldmodel "github.com/wso2/identity-resident-data-service/internal/custom_fields/model"
	fieldstore "github.com/wso2/identity-resident-data-service/internal/custom_fields/store"
	profilemodel "github.com/wso2/identity-resident-data-service/internal/profiles/model"
	profilestore "github.com/wso2/identity-resident-data-service/internal/profiles/store"
	groupmodel "github.com/wso2/identity-resident-data-service/internal/role_groups/model"
	groupstore "github.com/wso2/identity-resident-data-service/internal/role_groups/store"
	"github.com/wso2/identity-resident-data-service/internal/system/database/lock"
	unitmodel "github.com/wso2/identity-resident-data-service/internal/units/model"
	unitstore "github.com/wso2/identity-resident-data-service/internal/units/store"
)

// PostgresStore adapts the per-feature stores to the engine's Store contract.
type PostgresStore struct {
	importLock lock.ImportLock
}

// NewPostgresStore returns the production store.
func NewPostgresStore() *PostgresStore {
	return &PostgresStore{importLock: lock.NewPostgresImportLock()}
}

func (s *PostgresStore) ImportStartedAt(instanceID int64) (*time.Time, error) {
	return s.importLock.StartedAt(instanceID)
}

func (s *PostgresStore) BeginImport(instanceID int64) error {
	return s.importLock.Begin(instanceID)
}

func (s *PostgresStore) ReleaseImport(instanceID int64) error {
	return s.importLock.Release(instanceID)
}

func (s *PostgresStore) AccountsByEmails(emails []string) ([]accountmodel.Account, error) {
	return accountstore.GetAccountsByEmails(emails)
}

func (s *PostgresStore) AccountsByExternalRefs(refs []string) ([]accountmodel.Account, error) {
	return accountstore.GetAccountsByExternalRefs(refs)
}

func (s *PostgresStore) AccountsByIDs(accountIDs []int64) ([]accountmodel.Account, error) {
	return accountstore.GetAccountsByIDs(accountIDs)
}

func (s *PostgresStore) InsertAccounts(newAccounts []accountmodel.NewAccount) ([]accountmodel.Account, error) {
	return accountstore.InsertAccounts(newAccounts)
}

func (s *PostgresStore) UpdateAccountDisplayNames(displayNames map[int64]string) error {
	return accountstore.UpdateAccountDisplayNames(displayNames)
}

func (s *PostgresStore) AssignAccountEmail(accountID int64, email, displayName string) error {
	return accountstore.AssignAccountEmail(accountID, email, displayName)
}

func (s *PostgresStore) ClearAccountExternalRefs(accountIDs []int64) error {
	return accountstore.ClearAccountExternalRefs(accountIDs)
}

func (s *PostgresStore) ProfilesByCommunity(communityID int64) ([]profilemodel.Profile, error) {
	return profilestore.GetProfilesByCommunity(communityID)
}

func (s *PostgresStore) InsertProfiles(newProfiles []profilemodel.NewProfile) ([]profilemodel.Profile, error) {
	return profilestore.InsertProfiles(newProfiles)
}

func (s *PostgresStore) UpdateProfileContact(update profilemodel.ContactUpdate) error {
	return profilestore.UpdateProfileContact(update)
}

func (s *PostgresStore) UpdateProfileAccount(profileID, accountID int64) error {
	return profilestore.UpdateProfileAccount(profileID, accountID)
}

func (s *PostgresStore) ReactivateProfiles(profileIDs []int64) error {
	return profilestore.ReactivateProfiles(profileIDs)
}

func (s *PostgresStore) SoftDeleteProfiles(profileIDs []int64) error {
	return profilestore.SoftDeleteProfiles(profileIDs)
}

func (s *PostgresStore) UpsertUnits(communityID int64, titles []string) error {
	return unitstore.UpsertUnits(communityID, titles)
}

func (s *PostgresStore) UnitsByCommunity(communityID int64) ([]unitmodel.Unit, error) {
	return unitstore.GetUnitsByCommunity(communityID)
}

func (s *PostgresStore) MembershipsByCommunity(communityID int64) ([]unitmodel.UnitMembership, error) {
	return unitstore.GetMembershipsByCommunity(communityID)
}

func (s *PostgresStore) MembershipsByAccountIDs(communityID int64, accountIDs []int64) ([]unitmodel.UnitMembership, error) {
	return unitstore.GetMembershipsByAccountIDs(communityID, accountIDs)
}

func (s *PostgresStore) InsertUnitMemberships(memberships []unitmodel.NewUnitMembership) error {
	return unitstore.InsertUnitMemberships(memberships)
}

func (s *PostgresStore) UpdateMembershipClassification(membershipID int64, isResident bool, groupTypeID, residentTypeID int64) error {
	return unitstore.UpdateMembershipClassification(membershipID, isResident, groupTypeID, residentTypeID)
}

func (s *PostgresStore) DeleteUnitMemberships(membershipIDs []int64) error {
	return unitstore.DeleteUnitMemberships(membershipIDs)
}

func (s *PostgresStore) RoleGroups(instanceID int64) ([]groupmodel.RoleGroup, error) {
	return groupstore.GetRoleGroups(instanceID)
}

func (s *PostgresStore) InsertRoleGroup(instanceID int64, name string) (int64, error) {
	return groupstore.InsertRoleGroup(instanceID, name)
}

func (s *PostgresStore) AccountGroups(accountIDs []int64) ([]groupmodel.AccountGroup, error) {
	return groupstore.GetAccountGroups(accountIDs)
}

func (s *PostgresStore) InsertGroupMemberships(memberships []groupmodel.GroupMembership) error {
	return groupstore.InsertGroupMemberships(memberships)
}

func (s *PostgresStore) DeleteGroupMembership(groupID, accountID int64) error {
	return groupstore.DeleteGroupMembership(groupID, accountID)
}

func (s *PostgresStore) AuthActions(names []string) ([]groupmodel.AuthAction, error) {
	return groupstore.GetAuthActions(names)
}

func (s *PostgresStore) InsertAuthAction(name string) (int64, error) {
	return groupstore.InsertAuthAction(name)
}

func (s *PostgresStore) GrantActionsToGroups(groupIDs, actionIDs []int64) error {
	return groupstore.GrantActionsToGroups(groupIDs, actionIDs)
}

func (s *PostgresStore) CustomFields(entityTypeID int64) ([]fieldmodel.CustomField, error) {
	return fieldstore.GetCustomFields(entityTypeID)
}

func (s *PostgresStore) UpsertCustomFields(mappings []fieldmodel.FieldMappingConfig) error {
	return fieldstore.UpsertCustomFields(mappings)
}

func (s *PostgresStore) MetadataByObjectIDs(entityTypeID int64, objectIDs []int64) ([]fieldmodel.MetadataValue, error) {
	return fieldstore.GetMetadataByObjectIDs(entityTypeID, objectIDs)
}

func (s *PostgresStore) InsertMetadata(values []fieldmodel.MetadataValue) error {
	return fieldstore.UpsertMetadata(values)
}

func (s *PostgresStore) UpdateMetadataValues(values []fieldmodel.MetadataValue) error {
	return fieldstore.UpdateMetadataValues(values)
}

func (s *PostgresStore) ContractsByAccountIDs(communityID int64, accountIDs []int64) ([]contractmodel.Contract, error) {
	return contractstore.GetContractsByAccountIDs(communityID, accountIDs)
}

func (s *PostgresStore) InsertContracts(contracts []contractmodel.Contract) error {
	return contractstore.InsertContracts(contracts)
}

func (s *PostgresStore) UpdateContract(contractID, accountID int64, leaseRef string, isActive bool, modifiedDate int64) error {
	return contractstore.UpdateContract(contractID, accountID, leaseRef, isActive, modifiedDate)
}

func (s *PostgresStore) DeactivateContractsByAccountIDs(communityID int64, accountIDs []int64, modifiedDate int64) error {
	return contractstore.DeactivateContractsByAccountIDs(communityID, accountIDs, modifiedDate)
}
