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
	"strings"
	"time"

	accountmodel "github.com/wso2/identity-resident-data-service/internal/accounts/model"
	contractmodel "github.com/wso2/identity-resident-data-service/internal/contracts/model"
	fieldmodel "github.com/wso2/identity-resident-data-service/internal/custom_fields/model"
	profilemodel "github.com/wso2/identity-resident-data-service/internal/profiles/model"
	groupmodel "github.com/wso2/identity-resident-data-service/internal/role_groups/model"
	"github.com/wso2/identity-resident-data-service/internal/system/constants"
	"github.com/wso2/identity-resident-data-service/internal/system/errors"
	unitmodel "github.com/wso2/identity-resident-data-service/internal/units/model"
)

// fakeStore is an in-memory store.Store used by the pipeline tests. It keeps
// the same uniqueness rules the schema enforces so the engine is exercised
// against realistic persistence semantics.
type fakeStore struct {
	importStarted map[int64]time.Time

	accounts      []accountmodel.Account
	nextAccountID int64

	profiles      []profilemodel.Profile
	nextProfileID int64

	units      []unitmodel.Unit
	nextUnitID int64

	memberships      []unitmodel.UnitMembership
	nextMembershipID int64

	roleGroups  []groupmodel.RoleGroup
	nextGroupID int64

	groupMembers      []groupmodel.GroupMembership
	nextGroupMemberID int64

	authActions  []groupmodel.AuthAction
	nextActionID int64
	grants       map[[2]int64]bool

	fields      []fieldmodel.CustomField
	nextFieldID int64

	metadata   []fieldmodel.MetadataValue
	nextMetaID int64

	contracts      []contractmodel.Contract
	nextContractID int64
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		importStarted: make(map[int64]time.Time),
		grants:        make(map[[2]int64]bool),
	}
}

// seedRequiredGroups registers the three groups init verifies.
func (f *fakeStore) seedRequiredGroups(instanceID int64) map[string]int64 {
	ids := make(map[string]int64, len(constants.RequiredRoleGroups))
	for _, name := range constants.RequiredRoleGroups {
		id, _ := f.InsertRoleGroup(instanceID, name)
		ids[name] = id
	}
	return ids
}

func (f *fakeStore) accountByID(id int64) *accountmodel.Account {
	for i := range f.accounts {
		if f.accounts[i].ID == id {
			return &f.accounts[i]
		}
	}
	return nil
}

func (f *fakeStore) profileByExternalID(externalID string) *profilemodel.Profile {
	for i := range f.profiles {
		if f.profiles[i].ExternalID == externalID {
			return &f.profiles[i]
		}
	}
	return nil
}

func (f *fakeStore) activeProfileCount() int {
	count := 0
	for _, profile := range f.profiles {
		if !profile.IsDeleted {
			count++
		}
	}
	return count
}

// Import guard

func (f *fakeStore) ImportStartedAt(instanceID int64) (*time.Time, error) {
	if startedAt, ok := f.importStarted[instanceID]; ok {
		return &startedAt, nil
	}
	return nil, nil
}

func (f *fakeStore) BeginImport(instanceID int64) error {
	if startedAt, ok := f.importStarted[instanceID]; ok {
		return errors.NewImportConflictError(startedAt)
	}
	f.importStarted[instanceID] = time.Now()
	return nil
}

func (f *fakeStore) ReleaseImport(instanceID int64) error {
	delete(f.importStarted, instanceID)
	return nil
}

// Accounts

func (f *fakeStore) AccountsByEmails(emails []string) ([]accountmodel.Account, error) {
	wanted := make(map[string]bool, len(emails))
	for _, email := range emails {
		wanted[strings.ToLower(email)] = true
	}
	var matched []accountmodel.Account
	for _, account := range f.accounts {
		if account.Email != "" && wanted[strings.ToLower(account.Email)] {
			matched = append(matched, account)
		}
	}
	return matched, nil
}

func (f *fakeStore) AccountsByExternalRefs(refs []string) ([]accountmodel.Account, error) {
	wanted := make(map[string]bool, len(refs))
	for _, ref := range refs {
		wanted[ref] = true
	}
	var matched []accountmodel.Account
	for _, account := range f.accounts {
		if account.ExternalRef != "" && wanted[account.ExternalRef] {
			matched = append(matched, account)
		}
	}
	return matched, nil
}

func (f *fakeStore) AccountsByIDs(accountIDs []int64) ([]accountmodel.Account, error) {
	wanted := make(map[int64]bool, len(accountIDs))
	for _, id := range accountIDs {
		wanted[id] = true
	}
	var matched []accountmodel.Account
	for _, account := range f.accounts {
		if wanted[account.ID] {
			matched = append(matched, account)
		}
	}
	return matched, nil
}

func (f *fakeStore) InsertAccounts(newAccounts []accountmodel.NewAccount) ([]accountmodel.Account, error) {
	inserted := make([]accountmodel.Account, 0, len(newAccounts))
	for _, staged := range newAccounts {
		f.nextAccountID++
		account := accountmodel.Account{
			ID:           f.nextAccountID,
			Username:     staged.Username,
			Email:        staged.Email,
			DisplayName:  staged.DisplayName,
			IsValidEmail: staged.IsValidEmail,
			ExternalRef:  staged.ExternalRef,
		}
		f.accounts = append(f.accounts, account)
		inserted = append(inserted, account)
	}
	return inserted, nil
}

func (f *fakeStore) UpdateAccountDisplayNames(displayNames map[int64]string) error {
	for accountID, displayName := range displayNames {
		if account := f.accountByID(accountID); account != nil {
			account.DisplayName = displayName
		}
	}
	return nil
}

func (f *fakeStore) AssignAccountEmail(accountID int64, email, displayName string) error {
	if account := f.accountByID(accountID); account != nil {
		account.Username = email
		account.Email = email
		account.DisplayName = displayName
		account.IsValidEmail = true
	}
	return nil
}

func (f *fakeStore) ClearAccountExternalRefs(accountIDs []int64) error {
	for _, id := range accountIDs {
		if account := f.accountByID(id); account != nil {
			account.ExternalRef = ""
		}
	}
	return nil
}

// Profiles

func (f *fakeStore) ProfilesByCommunity(communityID int64) ([]profilemodel.Profile, error) {
	var matched []profilemodel.Profile
	for _, profile := range f.profiles {
		if profile.CommunityID == communityID {
			matched = append(matched, profile)
		}
	}
	return matched, nil
}

func (f *fakeStore) InsertProfiles(newProfiles []profilemodel.NewProfile) ([]profilemodel.Profile, error) {
	inserted := make([]profilemodel.Profile, 0, len(newProfiles))
	for _, staged := range newProfiles {
		f.nextProfileID++
		profile := profilemodel.Profile{
			ID:             f.nextProfileID,
			CommunityID:    staged.CommunityID,
			AccountID:      staged.AccountID,
			ExternalID:     staged.ExternalID,
			FirstName:      staged.FirstName,
			LastName:       staged.LastName,
			DisplayName:    staged.DisplayName,
			Email:          staged.Email,
			ValidEmail:     staged.ValidEmail,
			HomePhone:      staged.HomePhone,
			ValidHomePhone: staged.ValidHomePhone,
			CellPhone:      staged.CellPhone,
			ValidCellPhone: staged.ValidCellPhone,
			IsLocal:        staged.IsLocal,
			RegisteredDate: staged.RegisteredDate,
		}
		f.profiles = append(f.profiles, profile)
		inserted = append(inserted, profile)
	}
	return inserted, nil
}

func (f *fakeStore) UpdateProfileContact(update profilemodel.ContactUpdate) error {
	for i := range f.profiles {
		if f.profiles[i].ID != update.ProfileID {
			continue
		}
		f.profiles[i].FirstName = update.FirstName
		f.profiles[i].LastName = update.LastName
		f.profiles[i].DisplayName = update.DisplayName
		f.profiles[i].Email = update.Email
		f.profiles[i].ValidEmail = update.ValidEmail
		f.profiles[i].HomePhone = update.HomePhone
		f.profiles[i].ValidHomePhone = update.ValidHomePhone
		f.profiles[i].CellPhone = update.CellPhone
		f.profiles[i].ValidCellPhone = update.ValidCellPhone
	}
	return nil
}

func (f *fakeStore) UpdateProfileAccount(profileID, accountID int64) error {
	for i := range f.profiles {
		if f.profiles[i].ID == profileID {
			f.profiles[i].AccountID = accountID
		}
	}
	return nil
}

func (f *fakeStore) ReactivateProfiles(profileIDs []int64) error {
	return f.setProfilesDeleted(profileIDs, false)
}

func (f *fakeStore) SoftDeleteProfiles(profileIDs []int64) error {
	return f.setProfilesDeleted(profileIDs, true)
}

func (f *fakeStore) setProfilesDeleted(profileIDs []int64, deleted bool) error {
	wanted := make(map[int64]bool, len(profileIDs))
	for _, id := range profileIDs {
		wanted[id] = true
	}
	for i := range f.profiles {
		if wanted[f.profiles[i].ID] {
			f.profiles[i].IsDeleted = deleted
		}
	}
	return nil
}

// Units and memberships

func (f *fakeStore) UpsertUnits(communityID int64, titles []string) error {
	for _, title := range titles {
		found := false
		for i := range f.units {
			if f.units[i].CommunityID == communityID && f.units[i].Title == title {
				f.units[i].IsActive = true
				found = true
				break
			}
		}
		if found {
			continue
		}
		f.nextUnitID++
		f.units = append(f.units, unitmodel.Unit{
			ID:          f.nextUnitID,
			CommunityID: communityID,
			Title:       title,
			IsActive:    true,
		})
	}
	return nil
}

func (f *fakeStore) UnitsByCommunity(communityID int64) ([]unitmodel.Unit, error) {
	var matched []unitmodel.Unit
	for _, unit := range f.units {
		if unit.CommunityID == communityID {
			matched = append(matched, unit)
		}
	}
	return matched, nil
}

func (f *fakeStore) MembershipsByCommunity(communityID int64) ([]unitmodel.UnitMembership, error) {
	var matched []unitmodel.UnitMembership
	for _, membership := range f.memberships {
		if membership.CommunityID == communityID {
			matched = append(matched, membership)
		}
	}
	return matched, nil
}

func (f *fakeStore) MembershipsByAccountIDs(communityID int64, accountIDs []int64) ([]unitmodel.UnitMembership, error) {
	wanted := make(map[int64]bool, len(accountIDs))
	for _, id := range accountIDs {
		wanted[id] = true
	}
	var matched []unitmodel.UnitMembership
	for _, membership := range f.memberships {
		if membership.CommunityID == communityID && wanted[membership.AccountID] {
			matched = append(matched, membership)
		}
	}
	return matched, nil
}

func (f *fakeStore) InsertUnitMemberships(newMemberships []unitmodel.NewUnitMembership) error {
	for _, staged := range newMemberships {
		f.nextMembershipID++
		f.memberships = append(f.memberships, unitmodel.UnitMembership{
			ID:             f.nextMembershipID,
			CommunityID:    staged.CommunityID,
			UnitID:         staged.UnitID,
			AccountID:      staged.AccountID,
			IsResident:     staged.IsResident,
			GroupTypeID:    staged.GroupTypeID,
			ResidentTypeID: staged.ResidentTypeID,
			CreatedDate:    staged.CreatedDate,
		})
	}
	return nil
}

func (f *fakeStore) UpdateMembershipClassification(membershipID int64, isResident bool, groupTypeID, residentTypeID int64) error {
	for i := range f.memberships {
		if f.memberships[i].ID == membershipID {
			f.memberships[i].IsResident = isResident
			f.memberships[i].GroupTypeID = groupTypeID
			f.memberships[i].ResidentTypeID = residentTypeID
		}
	}
	return nil
}

func (f *fakeStore) DeleteUnitMemberships(membershipIDs []int64) error {
	wanted := make(map[int64]bool, len(membershipIDs))
	for _, id := range membershipIDs {
		wanted[id] = true
	}
	kept := f.memberships[:0]
	for _, membership := range f.memberships {
		if !wanted[membership.ID] {
			kept = append(kept, membership)
		}
	}
	f.memberships = kept
	return nil
}

// Role groups

func (f *fakeStore) RoleGroups(instanceID int64) ([]groupmodel.RoleGroup, error) {
	var matched []groupmodel.RoleGroup
	for _, group := range f.roleGroups {
		if group.InstanceID == instanceID {
			matched = append(matched, group)
		}
	}
	return matched, nil
}

func (f *fakeStore) InsertRoleGroup(instanceID int64, name string) (int64, error) {
	f.nextGroupID++
	f.roleGroups = append(f.roleGroups, groupmodel.RoleGroup{
		ID:         f.nextGroupID,
		InstanceID: instanceID,
		Name:       name,
	})
	return f.nextGroupID, nil
}

func (f *fakeStore) groupName(groupID int64) string {
	for _, group := range f.roleGroups {
		if group.ID == groupID {
			return group.Name
		}
	}
	return ""
}

func (f *fakeStore) AccountGroups(accountIDs []int64) ([]groupmodel.AccountGroup, error) {
	wanted := make(map[int64]bool, len(accountIDs))
	for _, id := range accountIDs {
		wanted[id] = true
	}
	var matched []groupmodel.AccountGroup
	for _, member := range f.groupMembers {
		if wanted[member.AccountID] {
			matched = append(matched, groupmodel.AccountGroup{
				AccountID: member.AccountID,
				GroupID:   member.GroupID,
				GroupName: f.groupName(member.GroupID),
			})
		}
	}
	return matched, nil
}

func (f *fakeStore) InsertGroupMemberships(newMembers []groupmodel.GroupMembership) error {
	for _, staged := range newMembers {
		duplicate := false
		for _, member := range f.groupMembers {
			if member.GroupID == staged.GroupID && member.AccountID == staged.AccountID {
				duplicate = true
				break
			}
		}
		if duplicate {
			continue
		}
		f.nextGroupMemberID++
		f.groupMembers = append(f.groupMembers, groupmodel.GroupMembership{
			ID:        f.nextGroupMemberID,
			GroupID:   staged.GroupID,
			AccountID: staged.AccountID,
		})
	}
	return nil
}

func (f *fakeStore) DeleteGroupMembership(groupID, accountID int64) error {
	kept := f.groupMembers[:0]
	for _, member := range f.groupMembers {
		if member.GroupID == groupID && member.AccountID == accountID {
			continue
		}
		kept = append(kept, member)
	}
	f.groupMembers = kept
	return nil
}

func (f *fakeStore) AuthActions(names []string) ([]groupmodel.AuthAction, error) {
	wanted := make(map[string]bool, len(names))
	for _, name := range names {
		wanted[name] = true
	}
	var matched []groupmodel.AuthAction
	for _, action := range f.authActions {
		if wanted[action.Name] {
			matched = append(matched, action)
		}
	}
	return matched, nil
}

func (f *fakeStore) InsertAuthAction(name string) (int64, error) {
	f.nextActionID++
	f.authActions = append(f.authActions, groupmodel.AuthAction{ID: f.nextActionID, Name: name})
	return f.nextActionID, nil
}

func (f *fakeStore) GrantActionsToGroups(groupIDs, actionIDs []int64) error {
	for _, groupID := range groupIDs {
		for _, actionID := range actionIDs {
			f.grants[[2]int64{groupID, actionID}] = true
		}
	}
	return nil
}

// Custom fields

func (f *fakeStore) CustomFields(entityTypeID int64) ([]fieldmodel.CustomField, error) {
	var matched []fieldmodel.CustomField
	for _, field := range f.fields {
		if field.EntityTypeID == entityTypeID {
			matched = append(matched, field)
		}
	}
	return matched, nil
}

func (f *fakeStore) UpsertCustomFields(mappings []fieldmodel.FieldMappingConfig) error {
	for _, mapping := range mappings {
		found := false
		for i := range f.fields {
			if f.fields[i].EntityTypeID == mapping.Entity && f.fields[i].TagLabel == mapping.TagLabel {
				f.fields[i].SourceField = mapping.Field
				found = true
				break
			}
		}
		if found {
			continue
		}
		f.nextFieldID++
		f.fields = append(f.fields, fieldmodel.CustomField{
			ID:           f.nextFieldID,
			EntityTypeID: mapping.Entity,
			FieldTypeID:  mapping.FieldType,
			TagLabel:     mapping.TagLabel,
			SourceField:  mapping.Field,
		})
	}
	return nil
}

func (f *fakeStore) MetadataByObjectIDs(entityTypeID int64, objectIDs []int64) ([]fieldmodel.MetadataValue, error) {
	wanted := make(map[int64]bool, len(objectIDs))
	for _, id := range objectIDs {
		wanted[id] = true
	}
	var matched []fieldmodel.MetadataValue
	for _, value := range f.metadata {
		if value.EntityTypeID == entityTypeID && wanted[value.ObjectID] {
			matched = append(matched, value)
		}
	}
	return matched, nil
}

func (f *fakeStore) InsertMetadata(values []fieldmodel.MetadataValue) error {
	for _, staged := range values {
		replaced := false
		for i := range f.metadata {
			if f.metadata[i].FieldID == staged.FieldID && f.metadata[i].ObjectID == staged.ObjectID {
				f.metadata[i].Value = staged.Value
				replaced = true
				break
			}
		}
		if replaced {
			continue
		}
		f.nextMetaID++
		staged.ID = f.nextMetaID
		f.metadata = append(f.metadata, staged)
	}
	return nil
}

func (f *fakeStore) UpdateMetadataValues(values []fieldmodel.MetadataValue) error {
	for _, staged := range values {
		for i := range f.metadata {
			if f.metadata[i].ID == staged.ID {
				f.metadata[i].Value = staged.Value
			}
		}
	}
	return nil
}

// Contracts

func (f *fakeStore) ContractsByAccountIDs(communityID int64, accountIDs []int64) ([]contractmodel.Contract, error) {
	wanted := make(map[int64]bool, len(accountIDs))
	for _, id := range accountIDs {
		wanted[id] = true
	}
	var matched []contractmodel.Contract
	for _, contract := range f.contracts {
		if contract.CommunityID == communityID && wanted[contract.AccountID] {
			matched = append(matched, contract)
		}
	}
	return matched, nil
}

func (f *fakeStore) InsertContracts(contracts []contractmodel.Contract) error {
	for _, contract := range contracts {
		f.nextContractID++
		contract.ID = f.nextContractID
		f.contracts = append(f.contracts, contract)
	}
	return nil
}

func (f *fakeStore) UpdateContract(contractID, accountID int64, leaseRef string, isActive bool, modifiedDate int64) error {
	for i := range f.contracts {
		if f.contracts[i].ID == contractID {
			f.contracts[i].AccountID = accountID
			f.contracts[i].LeaseRef = leaseRef
			f.contracts[i].IsActive = isActive
			f.contracts[i].ModifiedDate = modifiedDate
		}
	}
	return nil
}

func (f *fakeStore) DeactivateContractsByAccountIDs(communityID int64, accountIDs []int64, modifiedDate int64) error {
	wanted := make(map[int64]bool, len(accountIDs))
	for _, id := range accountIDs {
		wanted[id] = true
	}
	for i := range f.contracts {
		if f.contracts[i].CommunityID == communityID && wanted[f.contracts[i].AccountID] {
			f.contracts[i].IsActive = false
			f.contracts[i].ModifiedDate = modifiedDate
		}
	}
	return nil
}
