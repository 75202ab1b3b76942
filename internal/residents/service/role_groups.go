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
	"github.com/wso2/identity-resident-data-service/internal/residents/model"
	groupmodel "github.com/wso2/identity-resident-data-service/internal/role_groups/model"
	"github.com/wso2/identity-resident-data-service/internal/system/constants"
	"github.com/wso2/identity-resident-data-service/internal/system/errors"
	"github.com/wso2/identity-resident-data-service/internal/system/utils"
)

// assignRoleGroups ensures every resident resolved by the batch holds a
// residents-group membership plus the owner or tenant group matching its
// type. Memberships are only added here; removal on a type change belongs to
// the update pipeline so the two phases never race on the same rows.
func (s *ResidentSyncService) assignRoleGroups(records []model.FeedRecord) error {
	groups, err := s.store.RoleGroups(s.cfg.InstanceID)
	if err != nil {
		return errors.NewServerError(errors.FETCH_ROLE_GROUPS, err)
	}
	groupIDs := make(map[string]int64, len(groups))
	for _, group := range groups {
		groupIDs[group.Name] = group.ID
	}

	byExternalID, err := s.loadProfilesByExternalID()
	if err != nil {
		return err
	}

	accountIDs := make([]int64, 0, len(records))
	seen := make(map[int64]bool)
	for _, record := range records {
		id, _ := utils.ParseExternalID(record.ExternalID)
		profile, ok := byExternalID[id]
		if !ok || seen[profile.AccountID] {
			continue
		}
		seen[profile.AccountID] = true
		accountIDs = append(accountIDs, profile.AccountID)
	}

	memberships, err := s.store.AccountGroups(accountIDs)
	if err != nil {
		return errors.NewServerError(errors.FETCH_ROLE_GROUPS, err)
	}
	type membershipKey struct {
		accountID int64
		groupID   int64
	}
	held := make(map[membershipKey]bool, len(memberships))
	for _, membership := range memberships {
		held[membershipKey{membership.AccountID, membership.GroupID}] = true
	}

	queued := make([]groupmodel.GroupMembership, 0)
	queue := func(accountID, groupID int64) {
		key := membershipKey{accountID, groupID}
		if held[key] {
			return
		}
		held[key] = true
		queued = append(queued, groupmodel.GroupMembership{GroupID: groupID, AccountID: accountID})
	}

	for _, record := range records {
		id, _ := utils.ParseExternalID(record.ExternalID)
		profile, ok := byExternalID[id]
		if !ok {
			continue
		}
		queue(profile.AccountID, groupIDs[constants.GroupResidents])
		typeGroup := constants.GroupTenants
		if constants.IsOwnerTypeID(constants.ResidentTypeID(record.ResidentType, record.IsResident)) {
			typeGroup = constants.GroupOwners
		}
		queue(profile.AccountID, groupIDs[typeGroup])
	}

	if err := s.store.InsertGroupMemberships(queued); err != nil {
		return errors.NewServerError(errors.SAVE_ROLE_GROUPS, err)
	}
	return nil
}
