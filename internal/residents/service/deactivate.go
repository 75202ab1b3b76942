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

	profilemodel "github.com/wso2/identity-resident-data-service/internal/profiles/model"
	"github.com/wso2/identity-resident-data-service/internal/residents/model"
	"github.com/wso2/identity-resident-data-service/internal/system/constants"
	"github.com/wso2/identity-resident-data-service/internal/system/errors"
	"github.com/wso2/identity-resident-data-service/internal/system/utils"
)

// residentGroupNames are the groups managed by the engine itself; membership
// in any other group marks an account as administratively managed and exempt
// from the drop-out sweep.
var residentGroupNames = map[string]bool{
	constants.GroupOwners:    true,
	constants.GroupResidents: true,
	constants.GroupTenants:   true,
}

// deactivateResidents removes store state the batch no longer implies.
// Unit memberships are cheap to regenerate and are hard-deleted; profiles
// carry identity history and are only soft-deleted, with their contracts
// marked inactive. Role group membership is left untouched so a dropped
// resident keeps the Residents group.
func (s *ResidentSyncService) deactivateResidents(records []model.FeedRecord, unitsByTitle map[string]int64) error {
	now := time.Now().Unix()

	byExternalID, err := s.loadProfilesByExternalID()
	if err != nil {
		return err
	}

	type pairKey struct {
		unitID    int64
		accountID int64
	}
	batchPairs := make(map[pairKey]bool)
	batchAccounts := make(map[int64]bool)
	lastMatchedProfileByEmail := make(map[string]int64)
	for _, record := range records {
		id, _ := utils.ParseExternalID(record.ExternalID)
		profile, ok := byExternalID[id]
		if !ok {
			continue
		}
		batchAccounts[profile.AccountID] = true
		if unitID, ok := unitsByTitle[record.UnitTitle]; ok {
			batchPairs[pairKey{unitID, profile.AccountID}] = true
		}
		if email := utils.NormalizeEmail(record.Email); email != "" {
			lastMatchedProfileByEmail[email] = profile.ID
		}
	}

	// 1. Unit memberships whose (unit, user) pair the batch no longer implies.
	memberships, err := s.store.MembershipsByCommunity(s.cfg.CommunityID)
	if err != nil {
		return errors.NewServerError(errors.FETCH_UNIT_PROFILES, err)
	}
	stale := make([]int64, 0)
	for _, membership := range memberships {
		if !batchPairs[pairKey{membership.UnitID, membership.AccountID}] {
			stale = append(stale, membership.ID)
		}
	}
	if err := s.store.DeleteUnitMemberships(stale); err != nil {
		return errors.NewServerError(errors.DELETE_UNIT_PROFILES, err)
	}

	// 2. Duplicate emails: keep only the profile the batch matched last.
	profiles, err := s.store.ProfilesByCommunity(s.cfg.CommunityID)
	if err != nil {
		return errors.NewServerError(errors.FETCH_PROFILES, err)
	}
	activeByEmail := make(map[string][]profilemodel.Profile)
	for _, profile := range profiles {
		email := utils.NormalizeEmail(profile.Email)
		if profile.IsDeleted || email == "" {
			continue
		}
		activeByEmail[email] = append(activeByEmail[email], profile)
	}
	duplicates := make([]int64, 0)
	for email, sharing := range activeByEmail {
		if len(sharing) < 2 {
			continue
		}
		keeper, matched := lastMatchedProfileByEmail[email]
		if !matched {
			continue
		}
		for _, profile := range sharing {
			if profile.ID != keeper {
				duplicates = append(duplicates, profile.ID)
			}
		}
	}
	if err := s.store.SoftDeleteProfiles(duplicates); err != nil {
		return errors.NewServerError(errors.DELETE_PROFILES, err)
	}

	// 3. Feed-managed profiles that dropped out of the batch, unless the
	// account also belongs to an administrative group.
	candidates := make([]profilemodel.Profile, 0)
	candidateAccounts := make([]int64, 0)
	for _, profile := range profiles {
		if profile.IsDeleted || batchAccounts[profile.AccountID] {
			continue
		}
		if _, ok := utils.ParseExternalID(profile.ExternalID); !ok {
			continue
		}
		candidates = append(candidates, profile)
		candidateAccounts = append(candidateAccounts, profile.AccountID)
	}
	groups, err := s.store.AccountGroups(candidateAccounts)
	if err != nil {
		return errors.NewServerError(errors.FETCH_ROLE_GROUPS, err)
	}
	exempt := make(map[int64]bool)
	for _, membership := range groups {
		if !residentGroupNames[membership.GroupName] {
			exempt[membership.AccountID] = true
		}
	}

	droppedProfiles := make([]int64, 0, len(candidates))
	droppedAccounts := make([]int64, 0, len(candidates))
	for _, profile := range candidates {
		if exempt[profile.AccountID] {
			continue
		}
		droppedProfiles = append(droppedProfiles, profile.ID)
		droppedAccounts = append(droppedAccounts, profile.AccountID)
	}
	if err := s.store.SoftDeleteProfiles(droppedProfiles); err != nil {
		return errors.NewServerError(errors.DELETE_PROFILES, err)
	}
	if err := s.store.DeactivateContractsByAccountIDs(s.cfg.CommunityID, droppedAccounts, now); err != nil {
		return errors.NewServerError(errors.SAVE_CONTRACTS, err)
	}
	return nil
}
