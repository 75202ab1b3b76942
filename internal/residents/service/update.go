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
	"time"

	accountmodel "github.com/wso2/identity-resident-data-service/internal/accounts/model"
	contractmodel "github.com/wso2/identity-resident-data-service/internal/contracts/model"
	profilemodel "github.com/wso2/identity-resident-data-service/internal/profiles/model"
	"github.com/wso2/identity-resident-data-service/internal/residents/model"
	"github.com/wso2/identity-resident-data-service/internal/system/constants"
	"github.com/wso2/identity-resident-data-service/internal/system/errors"
	"github.com/wso2/identity-resident-data-service/internal/system/utils"
	unitmodel "github.com/wso2/identity-resident-data-service/internal/units/model"
)

// pendingUpdate pairs a feed record with the stored identity it matched.
type pendingUpdate struct {
	record  model.FeedRecord
	profile profilemodel.Profile
	account accountmodel.Account
}

// updateResidents diffs the existing partition against stored state and
// applies minimal field-level mutations. An email change is an identity
// transfer: the profile is relinked to a freshly created account and the old
// account is left untouched, preserving historical identity.
func (s *ResidentSyncService) updateResidents(records []model.FeedRecord, unitsByTitle map[string]int64) ([]string, error) {
	if len(records) == 0 {
		return nil, nil
	}
	var recordErrors []string
	now := time.Now().Unix()

	byExternalID, err := s.loadProfilesByExternalID()
	if err != nil {
		return nil, err
	}
	accountByID, err := s.loadAccounts(byExternalID)
	if err != nil {
		return nil, err
	}

	pending := make([]pendingUpdate, 0, len(records))
	stagedTransfers := make([]accountmodel.NewAccount, 0)
	transferRefs := make([]string, 0)
	displayNameUpdates := make(map[int64]string)
	for _, record := range records {
		id, _ := utils.ParseExternalID(record.ExternalID)
		profile, ok := byExternalID[id]
		if !ok {
			recordErrors = append(recordErrors, recordError(record.ExternalID, "no stored profile"))
			continue
		}
		account := accountByID[profile.AccountID]
		name := utils.FormatName(record.FirstName, record.LastName)
		email := utils.NormalizeEmail(record.Email)

		switch {
		case email != "" && email != utils.NormalizeEmail(account.Email) && email != utils.NormalizeEmail(profile.Email):
			stagedTransfers = append(stagedTransfers, accountmodel.NewAccount{
				Username:     email,
				Email:        email,
				DisplayName:  name.DisplayName,
				IsValidEmail: true,
				ExternalRef:  record.ExternalID,
			})
			transferRefs = append(transferRefs, record.ExternalID)
		case email == "" && (profile.Email != "") != (account.Email != ""):
			// Profile and account disagree on having an email; bridge them
			// with an emailless linking account under the stored name.
			stagedTransfers = append(stagedTransfers, accountmodel.NewAccount{
				Username:    "resident_" + record.ExternalID,
				DisplayName: account.DisplayName,
				ExternalRef: record.ExternalID,
			})
			transferRefs = append(transferRefs, record.ExternalID)
		}
		if !utils.DisplayNameMatches(name.DisplayName, account.DisplayName) {
			displayNameUpdates[account.ID] = name.DisplayName
		}
		pending = append(pending, pendingUpdate{record: record, profile: profile, account: account})
	}

	transfers, err := s.insertTransferAccounts(stagedTransfers, transferRefs)
	if err != nil {
		return nil, err
	}
	if err := s.store.UpdateAccountDisplayNames(displayNameUpdates); err != nil {
		return nil, errors.NewServerError(errors.UPDATE_ACCOUNTS, err)
	}
	byExternalID, err = s.loadProfilesByExternalID()
	if err != nil {
		return nil, err
	}

	accountIDs, err := s.applyProfileUpdates(pending, byExternalID, transfers)
	if err != nil {
		return nil, err
	}
	if err := s.upsertContracts(pending, byExternalID, accountIDs, now); err != nil {
		return nil, err
	}
	if err := s.applyMembershipTransitions(pending, byExternalID, unitsByTitle, accountIDs, now); err != nil {
		return nil, err
	}

	transferIDs := make([]int64, 0, len(transfers))
	for _, account := range transfers {
		transferIDs = append(transferIDs, account.ID)
	}
	if err := s.store.ClearAccountExternalRefs(transferIDs); err != nil {
		return nil, errors.NewServerError(errors.UPDATE_ACCOUNTS, err)
	}
	return recordErrors, nil
}

func (s *ResidentSyncService) loadProfilesByExternalID() (map[int64]profilemodel.Profile, error) {
	profiles, err := s.store.ProfilesByCommunity(s.cfg.CommunityID)
	if err != nil {
		return nil, errors.NewServerError(errors.FETCH_PROFILES, err)
	}
	byExternalID := make(map[int64]profilemodel.Profile, len(profiles))
	for _, profile := range profiles {
		if id, ok := utils.ParseExternalID(profile.ExternalID); ok {
			byExternalID[id] = profile
		}
	}
	return byExternalID, nil
}

func (s *ResidentSyncService) loadAccounts(byExternalID map[int64]profilemodel.Profile) (map[int64]accountmodel.Account, error) {
	accountIDs := make([]int64, 0, len(byExternalID))
	for _, profile := range byExternalID {
		accountIDs = append(accountIDs, profile.AccountID)
	}
	accounts, err := s.store.AccountsByIDs(accountIDs)
	if err != nil {
		return nil, errors.NewServerError(errors.FETCH_ACCOUNTS, err)
	}
	accountByID := make(map[int64]accountmodel.Account, len(accounts))
	for _, account := range accounts {
		accountByID[account.ID] = account
	}
	return accountByID, nil
}

func (s *ResidentSyncService) insertTransferAccounts(staged []accountmodel.NewAccount, refs []string) (map[string]accountmodel.Account, error) {
	if _, err := s.store.InsertAccounts(staged); err != nil {
		return nil, errors.NewServerError(errors.ADD_ACCOUNTS, err)
	}
	inserted, err := s.store.AccountsByExternalRefs(refs)
	if err != nil {
		return nil, errors.NewServerError(errors.FETCH_ACCOUNTS, err)
	}
	transfers := make(map[string]accountmodel.Account, len(inserted))
	for _, account := range inserted {
		transfers[account.ExternalRef] = account
	}
	return transfers, nil
}

// applyProfileUpdates reactivates returning profiles, relinks identity
// transfers and writes contact diffs. It returns the final account id per
// external id for the later steps.
func (s *ResidentSyncService) applyProfileUpdates(pending []pendingUpdate,
	byExternalID map[int64]profilemodel.Profile, transfers map[string]accountmodel.Account) (map[int64]int64, error) {

	reactivate := make([]int64, 0)
	finalAccountIDs := make(map[int64]int64, len(pending))
	for _, item := range pending {
		id, _ := utils.ParseExternalID(item.record.ExternalID)
		profile, ok := byExternalID[id]
		if !ok {
			continue
		}
		if profile.IsDeleted {
			reactivate = append(reactivate, profile.ID)
		}

		accountID := profile.AccountID
		if transfer, ok := transfers[item.record.ExternalID]; ok && transfer.ID != profile.AccountID {
			if err := s.store.UpdateProfileAccount(profile.ID, transfer.ID); err != nil {
				return nil, errors.NewServerError(errors.UPDATE_PROFILES, err)
			}
			accountID = transfer.ID
		}
		finalAccountIDs[id] = accountID

		name := utils.FormatName(item.record.FirstName, item.record.LastName)
		email := utils.NormalizeEmail(item.record.Email)
		if email == "" {
			// A feed row without an email never clears a stored address.
			email = utils.NormalizeEmail(profile.Email)
		}
		homePhone, validHome := utils.NormalizePhone(item.record.HomePhone, s.cfg.DefaultPhoneRegion)
		cellPhone, validCell := utils.NormalizePhone(item.record.CellPhone, s.cfg.DefaultPhoneRegion)
		changed := name.FirstName != profile.FirstName ||
			name.LastName != profile.LastName ||
			!utils.DisplayNameMatches(name.DisplayName, profile.DisplayName) ||
			email != utils.NormalizeEmail(profile.Email) ||
			homePhone != profile.HomePhone ||
			cellPhone != profile.CellPhone
		if !changed {
			continue
		}
		err := s.store.UpdateProfileContact(profilemodel.ContactUpdate{
			ProfileID:      profile.ID,
			FirstName:      name.FirstName,
			LastName:       name.LastName,
			DisplayName:    name.DisplayName,
			Email:          email,
			ValidEmail:     email != "",
			HomePhone:      homePhone,
			ValidHomePhone: validHome,
			CellPhone:      cellPhone,
			ValidCellPhone: validCell,
		})
		if err != nil {
			return nil, errors.NewServerError(errors.UPDATE_PROFILES, err)
		}
	}
	if err := s.store.ReactivateProfiles(reactivate); err != nil {
		return nil, errors.NewServerError(errors.UPDATE_PROFILES, err)
	}
	return finalAccountIDs, nil
}

// upsertContracts reconciles each resident's single contract row, keyed by
// the external id. A lease change, a holder change or a reactivation updates
// the row in place; residents the store holds no contract for get one
// inserted. Contracts are never deleted here. Both the pre-transfer and
// post-transfer accounts are queried so a contract held by a replaced login
// can follow the person to the new one.
func (s *ResidentSyncService) upsertContracts(pending []pendingUpdate,
	byExternalID map[int64]profilemodel.Profile, finalAccountIDs map[int64]int64, now int64) error {

	accountIDs := make([]int64, 0, len(pending))
	seen := make(map[int64]bool)
	add := func(accountID int64) {
		if accountID != 0 && !seen[accountID] {
			seen[accountID] = true
			accountIDs = append(accountIDs, accountID)
		}
	}
	for _, item := range pending {
		id, _ := utils.ParseExternalID(item.record.ExternalID)
		if profile, ok := byExternalID[id]; ok {
			add(profile.AccountID)
		}
		add(finalAccountIDs[id])
	}
	existing, err := s.store.ContractsByAccountIDs(s.cfg.CommunityID, accountIDs)
	if err != nil {
		return errors.NewServerError(errors.FETCH_CONTRACTS, err)
	}
	byRef := make(map[int64]contractmodel.Contract, len(existing))
	for _, contract := range existing {
		byRef[contract.ContractRef] = contract
	}

	inserts := make([]contractmodel.Contract, 0)
	for _, item := range pending {
		if item.record.LeaseID == "" {
			continue
		}
		id, _ := utils.ParseExternalID(item.record.ExternalID)
		profile, ok := byExternalID[id]
		if !ok {
			continue
		}
		accountID, ok := finalAccountIDs[id]
		if !ok {
			accountID = profile.AccountID
		}
		contract, found := byRef[id]
		if found {
			if contract.AccountID != accountID || contract.LeaseRef != item.record.LeaseID || !contract.IsActive {
				if err := s.store.UpdateContract(contract.ID, accountID, item.record.LeaseID, true, now); err != nil {
					return errors.NewServerError(errors.SAVE_CONTRACTS, err)
				}
			}
			continue
		}
		newContract := contractmodel.Contract{
			CommunityID:  s.cfg.CommunityID,
			AccountID:    accountID,
			ContractRef:  id,
			LeaseRef:     item.record.LeaseID,
			IsActive:     true,
			CreatedDate:  now,
			ModifiedDate: now,
		}
		byRef[id] = newContract
		inserts = append(inserts, newContract)
	}
	if err := s.store.InsertContracts(inserts); err != nil {
		return errors.NewServerError(errors.SAVE_CONTRACTS, err)
	}
	return nil
}

// applyMembershipTransitions reconciles (unit, user) memberships for the
// existing partition. Owner and tenant group memberships are mutually
// exclusive; a type change removes the stale one here, while the base
// residents group is never removed by this phase. Removals run before
// creates, creates before classification updates.
func (s *ResidentSyncService) applyMembershipTransitions(pending []pendingUpdate,
	byExternalID map[int64]profilemodel.Profile, unitsByTitle map[string]int64,
	finalAccountIDs map[int64]int64, now int64) error {

	groups, err := s.store.RoleGroups(s.cfg.InstanceID)
	if err != nil {
		return errors.NewServerError(errors.FETCH_ROLE_GROUPS, err)
	}
	groupIDs := make(map[string]int64, len(groups))
	for _, group := range groups {
		groupIDs[group.Name] = group.ID
	}

	accountIDs := make([]int64, 0, len(finalAccountIDs))
	for _, accountID := range finalAccountIDs {
		accountIDs = append(accountIDs, accountID)
	}
	stored, err := s.store.MembershipsByAccountIDs(s.cfg.CommunityID, accountIDs)
	if err != nil {
		return errors.NewServerError(errors.FETCH_UNIT_PROFILES, err)
	}
	type pairKey struct {
		unitID    int64
		accountID int64
	}
	membershipByPair := make(map[pairKey]unitmodel.UnitMembership, len(stored))
	for _, membership := range stored {
		membershipByPair[pairKey{membership.UnitID, membership.AccountID}] = membership
	}

	type groupRemoval struct {
		groupID   int64
		accountID int64
	}
	type classUpdate struct {
		membershipID   int64
		isResident     bool
		groupTypeID    int64
		residentTypeID int64
	}
	removals := make([]groupRemoval, 0)
	creates := make([]unitmodel.NewUnitMembership, 0)
	updates := make([]classUpdate, 0)
	seenPair := make(map[pairKey]bool)

	for _, item := range pending {
		id, _ := utils.ParseExternalID(item.record.ExternalID)
		accountID, ok := finalAccountIDs[id]
		if !ok {
			continue
		}
		unitID, ok := unitsByTitle[item.record.UnitTitle]
		if !ok {
			continue
		}
		pair := pairKey{unitID, accountID}
		if seenPair[pair] {
			continue
		}
		seenPair[pair] = true

		residentTypeID := constants.ResidentTypeID(item.record.ResidentType, item.record.IsResident)
		groupTypeID := constants.GroupTypeID(item.record.ResidentType, item.record.IsResident)
		membership, exists := membershipByPair[pair]
		if !exists {
			creates = append(creates, unitmodel.NewUnitMembership{
				CommunityID:    s.cfg.CommunityID,
				UnitID:         unitID,
				AccountID:      accountID,
				IsResident:     item.record.IsResident,
				GroupTypeID:    groupTypeID,
				ResidentTypeID: residentTypeID,
				CreatedDate:    now,
			})
			continue
		}
		if membership.ResidentTypeID == residentTypeID && membership.IsResident == item.record.IsResident {
			continue
		}
		updates = append(updates, classUpdate{membership.ID, item.record.IsResident, groupTypeID, residentTypeID})
		wasOwner := constants.IsOwnerTypeID(membership.ResidentTypeID)
		isOwner := constants.IsOwnerTypeID(residentTypeID)
		if wasOwner && !isOwner {
			removals = append(removals, groupRemoval{groupIDs[constants.GroupOwners], accountID})
		}
		if !wasOwner && isOwner {
			removals = append(removals, groupRemoval{groupIDs[constants.GroupTenants], accountID})
		}
	}

	for _, removal := range removals {
		if err := s.store.DeleteGroupMembership(removal.groupID, removal.accountID); err != nil {
			return errors.NewServerError(errors.DELETE_ROLE_GROUPS, err)
		}
	}
	if err := s.store.InsertUnitMemberships(creates); err != nil {
		return errors.NewServerError(errors.SAVE_UNIT_PROFILES, err)
	}
	for _, update := range updates {
		if err := s.store.UpdateMembershipClassification(update.membershipID,
			update.isResident, update.groupTypeID, update.residentTypeID); err != nil {
			return errors.NewServerError(errors.SAVE_UNIT_PROFILES, err)
		}
	}
	return nil
}
