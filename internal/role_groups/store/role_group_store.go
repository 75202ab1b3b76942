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

	"github.com/wso2/identity-resident-data-service/internal/role_groups/model"
	"github.com/wso2/identity-resident-data-service/internal/system/database/client"
	"github.com/wso2/identity-resident-data-service/internal/system/database/provider"
)

// GetRoleGroups retrieves every role group of an instance.
func GetRoleGroups(instanceID int64) ([]model.RoleGroup, error) {
	dbClient, err := provider.NewDBProvider().GetDBClient()
	if err != nil {
		return nil, fmt.Errorf("failed to get DB client: %w", err)
	}
	defer dbClient.Close()

	query := `SELECT id, id_instance, name FROM role_groups WHERE id_instance = $1`
	rows, err := dbClient.ExecuteQuery(query, instanceID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch role groups: %w", err)
	}
	groups := make([]model.RoleGroup, 0, len(rows))
	for _, row := range rows {
		groups = append(groups, model.RoleGroup{
			ID:         client.RowInt64(row, "id"),
			InstanceID: client.RowInt64(row, "id_instance"),
			Name:       client.RowString(row, "name"),
		})
	}
	return groups, nil
}

// InsertRoleGroup creates a role group and returns its identifier.
func InsertRoleGroup(instanceID int64, name string) (int64, error) {
	dbClient, err := provider.NewDBProvider().GetDBClient()
	if err != nil {
		return 0, fmt.Errorf("failed to get DB client: %w", err)
	}
	defer dbClient.Close()

	query := `INSERT INTO role_groups (id_instance, name) VALUES ($1, $2) RETURNING id`
	rows, err := dbClient.ExecuteQuery(query, instanceID, name)
	if err != nil || len(rows) == 0 {
		return 0, fmt.Errorf("failed to insert role group: %w", err)
	}
	return client.RowInt64(rows[0], "id"), nil
}

// GetAccountGroups retrieves, for the given accounts, every role-group
// membership flattened with the group name.
func GetAccountGroups(accountIDs []int64) ([]model.AccountGroup, error) {
	if len(accountIDs) == 0 {
		return nil, nil
	}
	dbClient, err := provider.NewDBProvider().GetDBClient()
	if err != nil {
		return nil, fmt.Errorf("failed to get DB client: %w", err)
	}
	defer dbClient.Close()

	args := make([]interface{}, 0, len(accountIDs))
	for _, id := range accountIDs {
		args = append(args, id)
	}
	query := fmt.Sprintf(
		`SELECT m.id_user, m.id_group, g.name AS group_name
		 FROM role_group_members m JOIN role_groups g ON g.id = m.id_group
		 WHERE m.id_user IN (%s)`, client.InClausePlaceholders(1, len(accountIDs)))
	rows, err := dbClient.ExecuteQuery(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch account groups: %w", err)
	}
	memberships := make([]model.AccountGroup, 0, len(rows))
	for _, row := range rows {
		memberships = append(memberships, model.AccountGroup{
			AccountID: client.RowInt64(row, "id_user"),
			GroupID:   client.RowInt64(row, "id_group"),
			GroupName: client.RowString(row, "group_name"),
		})
	}
	return memberships, nil
}

// InsertGroupMemberships bulk-adds accounts to role groups. Existing
// memberships are skipped rather than duplicated.
func InsertGroupMemberships(memberships []model.GroupMembership) error {
	if len(memberships) == 0 {
		return nil
	}
	dbClient, err := provider.NewDBProvider().GetDBClient()
	if err != nil {
		return fmt.Errorf("failed to get DB client: %w", err)
	}
	defer dbClient.Close()

	query := client.BulkInsertQuery("role_group_members", []string{"id_group", "id_user"}, len(memberships)) +
		" ON CONFLICT (id_group, id_user) DO NOTHING"
	args := make([]interface{}, 0, len(memberships)*2)
	for _, membership := range memberships {
		args = append(args, membership.GroupID, membership.AccountID)
	}
	if _, err := dbClient.ExecuteStatement(query, args...); err != nil {
		return fmt.Errorf("failed to insert group memberships: %w", err)
	}
	return nil
}

// DeleteGroupMembership removes one account from one role group.
func DeleteGroupMembership(groupID, accountID int64) error {
	dbClient, err := provider.NewDBProvider().GetDBClient()
	if err != nil {
		return fmt.Errorf("failed to get DB client: %w", err)
	}
	defer dbClient.Close()

	query := `DELETE FROM role_group_members WHERE id_group = $1 AND id_user = $2`
	if _, err := dbClient.ExecuteStatement(query, groupID, accountID); err != nil {
		return fmt.Errorf("failed to delete group membership: %w", err)
	}
	return nil
}

// GetAuthActions retrieves the login-flow actions with the given names.
func GetAuthActions(names []string) ([]model.AuthAction, error) {
	if len(names) == 0 {
		return nil, nil
	}
	dbClient, err := provider.NewDBProvider().GetDBClient()
	if err != nil {
		return nil, fmt.Errorf("failed to get DB client: %w", err)
	}
	defer dbClient.Close()

	args := make([]interface{}, 0, len(names))
	for _, name := range names {
		args = append(args, name)
	}
	query := fmt.Sprintf(`SELECT id, name FROM resource_actions WHERE name IN (%s)`,
		client.InClausePlaceholders(1, len(names)))
	rows, err := dbClient.ExecuteQuery(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch auth actions: %w", err)
	}
	actions := make([]model.AuthAction, 0, len(rows))
	for _, row := range rows {
		actions = append(actions, model.AuthAction{
			ID:   client.RowInt64(row, "id"),
			Name: client.RowString(row, "name"),
		})
	}
	return actions, nil
}

// InsertAuthAction creates a login-flow action and returns its identifier.
func InsertAuthAction(name string) (int64, error) {
	dbClient, err := provider.NewDBProvider().GetDBClient()
	if err != nil {
		return 0, fmt.Errorf("failed to get DB client: %w", err)
	}
	defer dbClient.Close()

	query := `INSERT INTO resource_actions (name) VALUES ($1) RETURNING id`
	rows, err := dbClient.ExecuteQuery(query, name)
	if err != nil || len(rows) == 0 {
		return 0, fmt.Errorf("failed to insert auth action: %w", err)
	}
	return client.RowInt64(rows[0], "id"), nil
}

// GrantActionsToGroups permits every given action to every given group.
// Grants that already exist are skipped.
func GrantActionsToGroups(groupIDs []int64, actionIDs []int64) error {
	if len(groupIDs) == 0 || len(actionIDs) == 0 {
		return nil
	}
	dbClient, err := provider.NewDBProvider().GetDBClient()
	if err != nil {
		return fmt.Errorf("failed to get DB client: %w", err)
	}
	defer dbClient.Close()

	rowCount := len(groupIDs) * len(actionIDs)
	query := client.BulkInsertQuery("group_permissions", []string{"id_group", "id_action"}, rowCount) +
		" ON CONFLICT (id_group, id_action) DO NOTHING"
	args := make([]interface{}, 0, rowCount*2)
	for _, groupID := range groupIDs {
		for _, actionID := range actionIDs {
			args = append(args, groupID, actionID)
		}
	}
	if _, err := dbClient.ExecuteStatement(query, args...); err != nil {
		return fmt.Errorf("failed to grant actions to groups: %w", err)
	}
	return nil
}
