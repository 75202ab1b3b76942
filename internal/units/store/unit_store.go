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
	"fmt"

	"github.com/wso2/identity-resident-data-service/internal/system/database/client"
	"github.com/wso2/identity-resident-data-service/internal/system/database/provider"
	"github.com/wso2/identity-resident-data-service/internal/units/model"
)

// UpsertUnits inserts any of the given unit titles that the community does
// not yet have and reactivates titles that were previously deactivated.
func UpsertUnits(communityID int64, titles []string) error {
	if len(titles) == 0 {
		return nil
	}
	dbClient, err := provider.NewDBProvider().GetDBClient()
	if err != nil {
		return fmt.Errorf("failed to get DB client: %w", err)
	}
	defer dbClient.Close()

	query := client.BulkInsertQuery("units", []string{"id_community", "title", "is_active"}, len(titles)) +
		" ON CONFLICT (id_community, title) DO UPDATE SET is_active = TRUE"
	args := make([]interface{}, 0, len(titles)*3)
	for _, title := range titles {
		args = append(args, communityID, title, true)
	}
	if _, err := dbClient.ExecuteStatement(query, args...); err != nil {
		return fmt.Errorf("failed to upsert units: %w", err)
	}
	return nil
}

// GetUnitsByCommunity retrieves every unit of a community.
func GetUnitsByCommunity(communityID int64) ([]model.Unit, error) {
	dbClient, err := provider.NewDBProvider().GetDBClient()
	if err != nil {
		return nil, fmt.Errorf("failed to get DB client: %w", err)
	}
	defer dbClient.Close()

	query := `SELECT id, id_community, title, is_active FROM units WHERE id_community = $1`
	rows, err := dbClient.ExecuteQuery(query, communityID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch units: %w", err)
	}
	units := make([]model.Unit, 0, len(rows))
	for _, row := range rows {
		units = append(units, model.Unit{
			ID:          client.RowInt64(row, "id"),
			CommunityID: client.RowInt64(row, "id_community"),
			Title:       client.RowString(row, "title"),
			IsActive:    client.RowBool(row, "is_active"),
		})
	}
	return units, nil
}

// GetMembershipsByCommunity retrieves every unit membership of a community
// joined with the unit title it points at.
func GetMembershipsByCommunity(communityID int64) ([]model.UnitMembership, error) {
	dbClient, err := provider.NewDBProvider().GetDBClient()
	if err != nil {
		return nil, fmt.Errorf("failed to get DB client: %w", err)
	}
	defer dbClient.Close()

	query := `SELECT up.id, up.id_community, up.id_unit, up.id_user, u.title AS unit_title,
			up.is_resident, up.id_group_type, up.id_resident_type, up.created_date
		FROM unit_profiles up JOIN units u ON u.id = up.id_unit
		WHERE up.id_community = $1`
	rows, err := dbClient.ExecuteQuery(query, communityID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch community unit memberships: %w", err)
	}
	return mapRowsToMemberships(rows), nil
}

// GetMembershipsByAccountIDs retrieves unit memberships of the given accounts
// joined with the unit title they point at.
func GetMembershipsByAccountIDs(communityID int64, accountIDs []int64) ([]model.UnitMembership, error) {
	if len(accountIDs) == 0 {
		return nil, nil
	}
	dbClient, err := provider.NewDBProvider().GetDBClient()
	if err != nil {
		return nil, fmt.Errorf("failed to get DB client: %w", err)
	}
	defer dbClient.Close()

	args := make([]interface{}, 0, len(accountIDs)+1)
	args = append(args, communityID)
	for _, id := range accountIDs {
		args = append(args, id)
	}
	query := fmt.Sprintf(
		`SELECT up.id, up.id_community, up.id_unit, up.id_user, u.title AS unit_title,
			up.is_resident, up.id_group_type, up.id_resident_type, up.created_date
		 FROM unit_profiles up JOIN units u ON u.id = up.id_unit
		 WHERE up.id_community = $1 AND up.id_user IN (%s)`,
		client.InClausePlaceholders(2, len(accountIDs)))
	rows, err := dbClient.ExecuteQuery(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch unit memberships: %w", err)
	}
	return mapRowsToMemberships(rows), nil
}

// InsertUnitMemberships bulk-inserts membership rows.
func InsertUnitMemberships(memberships []model.NewUnitMembership) error {
	if len(memberships) == 0 {
		return nil
	}
	dbClient, err := provider.NewDBProvider().GetDBClient()
	if err != nil {
		return fmt.Errorf("failed to get DB client: %w", err)
	}
	defer dbClient.Close()

	columns := []string{"id_community", "id_unit", "id_user", "is_resident",
		"id_group_type", "id_resident_type", "created_date"}
	query := client.BulkInsertQuery("unit_profiles", columns, len(memberships))
	args := make([]interface{}, 0, len(memberships)*len(columns))
	for _, membership := range memberships {
		args = append(args, membership.CommunityID, membership.UnitID, membership.AccountID,
			membership.IsResident, membership.GroupTypeID, membership.ResidentTypeID,
			membership.CreatedDate)
	}
	if _, err := dbClient.ExecuteStatement(query, args...); err != nil {
		return fmt.Errorf("failed to insert unit memberships: %w", err)
	}
	return nil
}

// UpdateMembershipClassification rewrites the occupancy classification of a
// single membership row.
func UpdateMembershipClassification(membershipID int64, isResident bool, groupTypeID, residentTypeID int64) error {
	dbClient, err := provider.NewDBProvider().GetDBClient()
	if err != nil {
		return fmt.Errorf("failed to get DB client: %w", err)
	}
	defer dbClient.Close()

	query := `UPDATE unit_profiles SET is_resident = $1, id_group_type = $2, id_resident_type = $3 WHERE id = $4`
	if _, err := dbClient.ExecuteStatement(query, isResident, groupTypeID, residentTypeID, membershipID); err != nil {
		return fmt.Errorf("failed to update membership classification: %w", err)
	}
	return nil
}

// DeleteUnitMemberships removes the given membership rows.
func DeleteUnitMemberships(membershipIDs []int64) error {
	if len(membershipIDs) == 0 {
		return nil
	}
	dbClient, err := provider.NewDBProvider().GetDBClient()
	if err != nil {
		return fmt.Errorf("failed to get DB client: %w", err)
	}
	defer dbClient.Close()

	args := make([]interface{}, 0, len(membershipIDs))
	for _, id := range membershipIDs {
		args = append(args, id)
	}
	query := fmt.Sprintf(`DELETE FROM unit_profiles WHERE id IN (%s)`,
		client.InClausePlaceholders(1, len(membershipIDs)))
	if _, err := dbClient.ExecuteStatement(query, args...); err != nil {
		return fmt.Errorf("failed to delete unit memberships: %w", err)
	}
	return nil
}

func mapRowsToMemberships(rows []map[string]interface{}) []model.UnitMembership {
	memberships := make([]model.UnitMembership, 0, len(rows))
	for _, row := range rows {
		memberships = append(memberships, model.UnitMembership{
			ID:             client.RowInt64(row, "id"),
			CommunityID:    client.RowInt64(row, "id_community"),
			UnitID:         client.RowInt64(row, "id_unit"),
			AccountID:      client.RowInt64(row, "id_user"),
			UnitTitle:      client.RowString(row, "unit_title"),
			IsResident:     client.RowBool(row, "is_resident"),
			GroupTypeID:    client.RowInt64(row, "id_group_type"),
			ResidentTypeID: client.RowInt64(row, "id_resident_type"),
			CreatedDate:    client.RowInt64(row, "created_date"),
		})
	}
	return memberships
}
