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

	"github.com/wso2/identity-resident-data-service/internal/profiles/model"
	"github.com/wso2/identity-resident-data-service/internal/system/database/client"
	"github.com/wso2/identity-resident-data-service/internal/system/database/provider"
)

const profileColumns = `id, id_community, id_user, external_id, first_name, last_name, display_name,
	email, valid_email, home_phone, valid_home_phone, cell_phone, valid_cell_phone,
	is_local, is_deleted, registered_date`

// GetProfilesByCommunity retrieves every profile of a community, including
// soft-deleted ones. Callers filter on IsDeleted where it matters; deleted
// profiles stay visible so a returning resident can be reactivated.
func GetProfilesByCommunity(communityID int64) ([]model.Profile, error) {
	dbClient, err := provider.NewDBProvider().GetDBClient()
	if err != nil {
		return nil, fmt.Errorf("failed to get DB client: %w", err)
	}
	defer dbClient.Close()

	query := fmt.Sprintf(`SELECT %s FROM profiles WHERE id_community = $1`, profileColumns)
	rows, err := dbClient.ExecuteQuery(query, communityID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch community profiles: %w", err)
	}
	return mapRowsToProfiles(rows), nil
}

// InsertProfiles bulk-inserts profile rows and returns the stored records.
func InsertProfiles(newProfiles []model.NewProfile) ([]model.Profile, error) {
	if len(newProfiles) == 0 {
		return nil, nil
	}
	dbClient, err := provider.NewDBProvider().GetDBClient()
	if err != nil {
		return nil, fmt.Errorf("failed to get DB client: %w", err)
	}
	defer dbClient.Close()

	columns := []string{"id_community", "id_user", "external_id", "first_name", "last_name",
		"display_name", "email", "valid_email", "home_phone", "valid_home_phone",
		"cell_phone", "valid_cell_phone", "is_local", "is_deleted", "registered_date"}
	query := client.BulkInsertQuery("profiles", columns, len(newProfiles)) +
		" RETURNING " + profileColumns
	args := make([]interface{}, 0, len(newProfiles)*len(columns))
	for _, profile := range newProfiles {
		args = append(args, profile.CommunityID, profile.AccountID, profile.ExternalID,
			profile.FirstName, profile.LastName, profile.DisplayName,
			profile.Email, profile.ValidEmail, profile.HomePhone, profile.ValidHomePhone,
			profile.CellPhone, profile.ValidCellPhone, profile.IsLocal, false, profile.RegisteredDate)
	}
	rows, err := dbClient.ExecuteQuery(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to insert profiles: %w", err)
	}
	return mapRowsToProfiles(rows), nil
}

// UpdateProfileContact rewrites names, email and phone attributes.
func UpdateProfileContact(update model.ContactUpdate) error {
	dbClient, err := provider.NewDBProvider().GetDBClient()
	if err != nil {
		return fmt.Errorf("failed to get DB client: %w", err)
	}
	defer dbClient.Close()

	query := `UPDATE profiles SET first_name = $1, last_name = $2, display_name = $3,
		email = $4, valid_email = $5, home_phone = $6, valid_home_phone = $7,
		cell_phone = $8, valid_cell_phone = $9 WHERE id = $10`
	_, err = dbClient.ExecuteStatement(query,
		update.FirstName, update.LastName, update.DisplayName,
		update.Email, update.ValidEmail, update.HomePhone, update.ValidHomePhone,
		update.CellPhone, update.ValidCellPhone, update.ProfileID)
	if err != nil {
		return fmt.Errorf("failed to update profile contact: %w", err)
	}
	return nil
}

// UpdateProfileAccount relinks a profile to a different account. Used when the
// identity behind an external id moves to another login.
func UpdateProfileAccount(profileID int64, accountID int64) error {
	dbClient, err := provider.NewDBProvider().GetDBClient()
	if err != nil {
		return fmt.Errorf("failed to get DB client: %w", err)
	}
	defer dbClient.Close()

	query := `UPDATE profiles SET id_user = $1 WHERE id = $2`
	if _, err := dbClient.ExecuteStatement(query, accountID, profileID); err != nil {
		return fmt.Errorf("failed to relink profile account: %w", err)
	}
	return nil
}

// ReactivateProfiles clears the deleted flag on profiles that have come back
// in a feed.
func ReactivateProfiles(profileIDs []int64) error {
	if len(profileIDs) == 0 {
		return nil
	}
	dbClient, err := provider.NewDBProvider().GetDBClient()
	if err != nil {
		return fmt.Errorf("failed to get DB client: %w", err)
	}
	defer dbClient.Close()

	args := make([]interface{}, 0, len(profileIDs))
	for _, id := range profileIDs {
		args = append(args, id)
	}
	query := fmt.Sprintf(`UPDATE profiles SET is_deleted = FALSE WHERE id IN (%s)`,
		client.InClausePlaceholders(1, len(profileIDs)))
	if _, err := dbClient.ExecuteStatement(query, args...); err != nil {
		return fmt.Errorf("failed to reactivate profiles: %w", err)
	}
	return nil
}

// SoftDeleteProfiles marks the given profiles deleted without removing rows.
func SoftDeleteProfiles(profileIDs []int64) error {
	if len(profileIDs) == 0 {
		return nil
	}
	dbClient, err := provider.NewDBProvider().GetDBClient()
	if err != nil {
		return fmt.Errorf("failed to get DB client: %w", err)
	}
	defer dbClient.Close()

	args := make([]interface{}, 0, len(profileIDs))
	for _, id := range profileIDs {
		args = append(args, id)
	}
	query := fmt.Sprintf(`UPDATE profiles SET is_deleted = TRUE WHERE id IN (%s)`,
		client.InClausePlaceholders(1, len(profileIDs)))
	if _, err := dbClient.ExecuteStatement(query, args...); err != nil {
		return fmt.Errorf("failed to soft delete profiles: %w", err)
	}
	return nil
}

func mapRowsToProfiles(rows []map[string]interface{}) []model.Profile {
	profiles := make([]model.Profile, 0, len(rows))
	for _, row := range rows {
		profiles = append(profiles, model.Profile{
			ID:             client.RowInt64(row, "id"),
			CommunityID:    client.RowInt64(row, "id_community"),
			AccountID:      client.RowInt64(row, "id_user"),
			ExternalID:     client.RowString(row, "external_id"),
			FirstName:      client.RowString(row, "first_name"),
			LastName:       client.RowString(row, "last_name"),
			DisplayName:    client.RowString(row, "display_name"),
			Email:          client.RowString(row, "email"),
			ValidEmail:     client.RowBool(row, "valid_email"),
			HomePhone:      client.RowString(row, "home_phone"),
			ValidHomePhone: client.RowBool(row, "valid_home_phone"),
			CellPhone:      client.RowString(row, "cell_phone"),
			ValidCellPhone: client.RowBool(row, "valid_cell_phone"),
			IsLocal:        client.RowBool(row, "is_local"),
			IsDeleted:      client.RowBool(row, "is_deleted"),
			RegisteredDate: client.RowInt64(row, "registered_date"),
		})
	}
	return profiles
}
