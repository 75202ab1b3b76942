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
	contractmodel "github.com/wso2/identity-resident-data-service/internal/contracts/model"
	fieldmodel "github.com/wso2/identity-resident-data-service/internal/custom_fields/model"
	profilemodel "github.com/wso2/identity-resident-data-service/internal/profiles/model"
	groupmodel "github.com/wso2/identity-resident-data-service/internal/role_groups/model"
	unitmodel "github.com/wso2/identity-resident-data-service/internal/units/model"
)

// Store is the persistence surface the reconciliation engine works against.
// The production implementation delegates to the per-feature stores; tests
// substitute an in-memory fake.
type Store interface {
	// Import guard
	ImportStartedAt(instanceID int64) (*time.Time, error)
	BeginImport(instanceID int64) error
	ReleaseImport(instanceID int64) error

	// Accounts
	AccountsByEmails(emails []string) ([]accountmodel.Account, error)
	AccountsByExternalRefs(refs []string) ([]accountmodel.Account, error)
	AccountsByIDs(accountIDs []int64) ([]accountmodel.Account, error)
	InsertAccounts(newAccounts []accountmodel.NewAccount) ([]accountmodel.Account, error)
	UpdateAccountDisplayNames(displayNames map[int64]string) error
	AssignAccountEmail(accountID int64, email, displayName string) error
	ClearAccountExternalRefs(accountIDs []int64) error

	// Profiles
	ProfilesByCommunity(communityID int64) ([]profilemodel.Profile, error)
	InsertProfiles(newProfiles []profilemodel.NewProfile) ([]profilemodel.Profile, error)
	UpdateProfileContact(update profilemodel.ContactUpdate) error
	UpdateProfileAccount(profileID, accountID int64) error
	ReactivateProfiles(profileIDs []int64) error
	SoftDeleteProfiles(profileIDs []int64) error

	// Units and memberships
	UpsertUnits(communityID int64, titles []string) error
	UnitsByCommunity(communityID int64) ([]unitmodel.Unit, error)
	MembershipsByCommunity(communityID int64) ([]unitmodel.UnitMembership, error)
	MembershipsByAccountIDs(communityID int64, accountIDs []int64) ([]unitmodel.UnitMembership, error)
	InsertUnitMemberships(memberships []unitmodel.NewUnitMembership) error
	UpdateMembershipClassification(membershipID int64, isResident bool, groupTypeID, residentTypeID int64) error
	DeleteUnitMemberships(membershipIDs []int64) error

	// Role groups
	RoleGroups(instanceID int64) ([]groupmodel.RoleGroup, error)
	InsertRoleGroup(instanceID int64, name string) (int64, error)
	AccountGroups(accountIDs []int64) ([]groupmodel.AccountGroup, error)
	InsertGroupMemberships(memberships []groupmodel.GroupMembership) error
	DeleteGroupMembership(groupID, accountID int64) error
	AuthActions(names []string) ([]groupmodel.AuthAction, error)
	InsertAuthAction(name string) (int64, error)
	GrantActionsToGroups(groupIDs, actionIDs []int64) error

	// Custom fields
	CustomFields(entityTypeID int64) ([]fieldmodel.CustomField, error)
	UpsertCustomFields(mappings []fieldmodel.FieldMappingConfig) error
	MetadataByObjectIDs(entityTypeID int64, objectIDs []int64) ([]fieldmodel.MetadataValue, error)
	InsertMetadata(values []fieldmodel.MetadataValue) error
	UpdateMetadataValues(values []fieldmodel.MetadataValue) error

	// Contracts
	ContractsByAccountIDs(communityID int64, accountIDs []int64) ([]contractmodel.Contract, error)
	InsertContracts(contracts []contractmodel.Contract) error
	UpdateContract(contractID, accountID int64, leaseRef string, isActive bool, modifiedDate int64) error
	DeactivateContractsByAccountIDs(communityID int64, accountIDs []int64, modifiedDate int64) error
}
