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

// createResidents materializes accounts, profiles, unit memberships and
// contract records for the batch's new partition. Records that cannot be
// resolved to an account or unit are skipped and reported; only store
// failures abort the phase.
func (s *ResidentSyncService) createResidents(newRecords, allRecords []model.FeedRecord, unitsByTitle map[string]int64) ([]string, error) {
	if len(newRecords) == 0 {
		return nil, nil
	}
	var recordErrors []string
	now := time.Now().Unix()

	// Deduplicate by normalized email; the last record in batch order wins,
	// matching the duplicate-email collapse applied later in the sweep.
	emailRecords := make(map[string]model.FeedRecord)
	emailOrder := make([]string, 0)
	withoutEmail := make([]model.FeedRecord, 0)
	for _, record := range newRecords {
		email := utils.NormalizeEmail(record.Email)
		if email == "" {
			withoutEmail = append(withoutEmail, record)
			continue
		}
		if _, seen := emailRecords[email]; !seen {
			emailOrder = append(emailOrder, email)
		}
		emailRecords[email] = record
	}

	batchEmails := uniqueNormalizedEmails(allRecords)
	storedAccounts, err := s.store.AccountsByEmails(batchEmails)
	if err != nil {
		return nil, errors.NewServerError(errors.FETCH_ACCOUNTS, err)
	}
	accountByEmail := make(map[string]accountmodel.Account, len(storedAccounts))
	for _, account := range storedAccounts {
		accountByEmail[utils.NormalizeEmail(account.Email)] = account
	}

	// An email no account carries can still sit on a stored profile whose
	// account was provisioned without one. Reuse that linkage instead of
	// creating a second identity for the same person.
	profiles, err := s.store.ProfilesByCommunity(s.cfg.CommunityID)
	if err != nil {
		return nil, errors.NewServerError(errors.FETCH_PROFILES, err)
	}
	profileAccountByEmail := make(map[string]int64)
	for _, profile := range profiles {
		email := utils.NormalizeEmail(profile.Email)
		if profile.IsDeleted || email == "" {
			continue
		}
		if _, ok := profileAccountByEmail[email]; !ok {
			profileAccountByEmail[email] = profile.AccountID
		}
	}

	stagedAccounts := make([]accountmodel.NewAccount, 0)
	for _, email := range emailOrder {
		if _, ok := accountByEmail[email]; ok {
			continue
		}
		record := emailRecords[email]
		name := utils.FormatName(record.FirstName, record.LastName)
		if accountID, ok := profileAccountByEmail[email]; ok {
			if err := s.store.AssignAccountEmail(accountID, email, name.DisplayName); err != nil {
				return nil, errors.NewServerError(errors.UPDATE_ACCOUNTS, err)
			}
			continue
		}
		stagedAccounts = append(stagedAccounts, accountmodel.NewAccount{
			Username:     email,
			Email:        email,
			DisplayName:  name.DisplayName,
			IsValidEmail: true,
		})
	}
	if _, err := s.store.InsertAccounts(stagedAccounts); err != nil {
		return nil, errors.NewServerError(errors.ADD_ACCOUNTS, err)
	}
	storedAccounts, err = s.store.AccountsByEmails(batchEmails)
	if err != nil {
		return nil, errors.NewServerError(errors.FETCH_ACCOUNTS, err)
	}
	for _, account := range storedAccounts {
		accountByEmail[utils.NormalizeEmail(account.Email)] = account
	}

	// Records without an email get a placeholder account carrying the
	// external id as a temporary cross-reference, used only to read back the
	// freshly assigned internal id.
	stagedLocal := make([]accountmodel.NewAccount, 0, len(withoutEmail))
	localRefs := make([]string, 0, len(withoutEmail))
	for _, record := range withoutEmail {
		stagedLocal = append(stagedLocal, accountmodel.NewAccount{
			Username:    "resident_" + record.ExternalID,
			DisplayName: utils.FormatName(record.FirstName, record.LastName).DisplayName,
			ExternalRef: record.ExternalID,
		})
		localRefs = append(localRefs, record.ExternalID)
	}
	if _, err := s.store.InsertAccounts(stagedLocal); err != nil {
		return nil, errors.NewServerError(errors.ADD_ACCOUNTS, err)
	}
	localAccounts, err := s.store.AccountsByExternalRefs(localRefs)
	if err != nil {
		return nil, errors.NewServerError(errors.FETCH_ACCOUNTS, err)
	}
	accountByRef := make(map[string]accountmodel.Account, len(localAccounts))
	for _, account := range localAccounts {
		accountByRef[account.ExternalRef] = account
	}

	resolveAccount := func(record model.FeedRecord) (accountmodel.Account, bool) {
		if email := utils.NormalizeEmail(record.Email); email != "" {
			account, ok := accountByEmail[email]
			return account, ok
		}
		account, ok := accountByRef[record.ExternalID]
		return account, ok
	}

	newProfiles := make([]profilemodel.NewProfile, 0, len(emailOrder)+len(withoutEmail))
	buildProfile := func(record model.FeedRecord, isLocal bool) {
		account, ok := resolveAccount(record)
		if !ok {
			recordErrors = append(recordErrors, recordError(record.ExternalID, "no account resolved"))
			return
		}
		name := utils.FormatName(record.FirstName, record.LastName)
		homePhone, validHome := utils.NormalizePhone(record.HomePhone, s.cfg.DefaultPhoneRegion)
		cellPhone, validCell := utils.NormalizePhone(record.CellPhone, s.cfg.DefaultPhoneRegion)
		newProfiles = append(newProfiles, profilemodel.NewProfile{
			CommunityID:    s.cfg.CommunityID,
			AccountID:      account.ID,
			ExternalID:     record.ExternalID,
			FirstName:      name.FirstName,
			LastName:       name.LastName,
			DisplayName:    name.DisplayName,
			Email:          utils.NormalizeEmail(record.Email),
			ValidEmail:     !isLocal,
			HomePhone:      homePhone,
			ValidHomePhone: validHome,
			CellPhone:      cellPhone,
			ValidCellPhone: validCell,
			IsLocal:        isLocal,
			RegisteredDate: now,
		})
	}
	for _, email := range emailOrder {
		buildProfile(emailRecords[email], false)
	}
	for _, record := range withoutEmail {
		buildProfile(record, true)
	}
	if _, err := s.store.InsertProfiles(newProfiles); err != nil {
		return nil, errors.NewServerError(errors.ADD_PROFILES, err)
	}

	// Unit memberships, deduplicated by (unit, user). A record with no unit
	// or no resolved account is skipped silently.
	memberships := make([]unitmodel.NewUnitMembership, 0, len(newRecords))
	seenPair := make(map[[2]int64]bool)
	accountIDs := make([]int64, 0, len(newRecords))
	seenAccount := make(map[int64]bool)
	for _, record := range newRecords {
		account, ok := resolveAccount(record)
		if !ok {
			continue
		}
		if !seenAccount[account.ID] {
			seenAccount[account.ID] = true
			accountIDs = append(accountIDs, account.ID)
		}
		unitID, ok := unitsByTitle[record.UnitTitle]
		if !ok {
			continue
		}
		pair := [2]int64{unitID, account.ID}
		if seenPair[pair] {
			continue
		}
		seenPair[pair] = true
		memberships = append(memberships, unitmodel.NewUnitMembership{
			CommunityID:    s.cfg.CommunityID,
			UnitID:         unitID,
			AccountID:      account.ID,
			IsResident:     record.IsResident,
			GroupTypeID:    constants.GroupTypeID(record.ResidentType, record.IsResident),
			ResidentTypeID: constants.ResidentTypeID(record.ResidentType, record.IsResident),
			CreatedDate:    now,
		})
	}
	if err := s.store.InsertUnitMemberships(memberships); err != nil {
		return nil, errors.NewServerError(errors.SAVE_UNIT_PROFILES, err)
	}

	if err := s.createContracts(newRecords, resolveAccount, accountIDs, now); err != nil {
		return nil, err
	}

	localIDs := make([]int64, 0, len(localAccounts))
	for _, account := range localAccounts {
		localIDs = append(localIDs, account.ID)
	}
	if err := s.store.ClearAccountExternalRefs(localIDs); err != nil {
		return nil, errors.NewServerError(errors.UPDATE_ACCOUNTS, err)
	}
	return recordErrors, nil
}

// createContracts inserts contract rows for feed residents the store holds no
// contract for yet. One contract per resident, keyed by the external id; the
// lease reference is just a mutable attribute of it.
func (s *ResidentSyncService) createContracts(records []model.FeedRecord,
	resolveAccount func(model.FeedRecord) (accountmodel.Account, bool), accountIDs []int64, now int64) error {

	existing, err := s.store.ContractsByAccountIDs(s.cfg.CommunityID, accountIDs)
	if err != nil {
		return errors.NewServerError(errors.FETCH_CONTRACTS, err)
	}
	held := make(map[int64]bool, len(existing))
	for _, contract := range existing {
		held[contract.ContractRef] = true
	}
	inserts := make([]contractmodel.Contract, 0)
	for _, record := range records {
		if record.LeaseID == "" {
			continue
		}
		account, ok := resolveAccount(record)
		if !ok {
			continue
		}
		ref, ok := utils.ParseExternalID(record.ExternalID)
		if !ok || held[ref] {
			continue
		}
		held[ref] = true
		inserts = append(inserts, contractmodel.Contract{
			CommunityID:  s.cfg.CommunityID,
			AccountID:    account.ID,
			ContractRef:  ref,
			LeaseRef:     record.LeaseID,
			IsActive:     true,
			CreatedDate:  now,
			ModifiedDate: now,
		})
	}
	if err := s.store.InsertContracts(inserts); err != nil {
		return errors.NewServerError(errors.SAVE_CONTRACTS, err)
	}
	return nil
}

// uniqueNormalizedEmails collects the distinct normalized emails present in a
// batch, preserving first-seen order.
func uniqueNormalizedEmails(records []model.FeedRecord) []string {
	seen := make(map[string]bool)
	emails := make([]string, 0, len(records))
	for _, record := range records {
		email := utils.NormalizeEmail(record.Email)
		if email == "" || seen[email] {
			continue
		}
		seen[email] = true
		emails = append(emails, email)
	}
	return emails
}
