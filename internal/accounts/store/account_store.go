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
	"strings"

	"github.com/wso2/identity-resident-data-service/internal/accounts/model"
	"github.com/wso2/identity-resident-data-service/internal/system/database/client"
	"github.com/wso2/identity-resident-data-service/internal/system/database/provider"
)

// GetAccountsByEmails retrieves accounts whose email matches any of the given
// addresses. Matching is case-insensitive.
func GetAccountsByEmails(emails []string) ([]model.Account, error) {
	if len(emails) == 0 {
		return nil, nil
	}
	dbClient, err := provider.NewDBProvider().GetDBClient()
	if err != nil {
		return nil, fmt.Errorf("failed to get DB client: %w", err)
	}
	defer dbClient.Close()

	args := make([]interface{}, 0, len(emails))
	for _, email := range emails {
		args = append(args, strings.ToLower(email))
	}
	query := fmt.Sprintf(
		`SELECT id, username, email, display_name, is_valid_email, external_ref FROM accounts
		 WHERE LOWER(email) IN (%s)`, client.InClausePlaceholders(1, len(emails)))
	rows, err := dbClient.ExecuteQuery(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch accounts by email: %w", err)
	}
	return mapRowsToAccounts(rows), nil
}

// GetAccountsByExternalRefs retrieves accounts carrying one of the given
// transient cross-reference values.
func GetAccountsByExternalRefs(refs []string) ([]model.Account, error) {
	if len(refs) == 0 {
		return nil, nil
	}
	dbClient, err := provider.NewDBProvider().GetDBClient()
	if err != nil {
		return nil, fmt.Errorf("failed to get DB client: %w", err)
	}
	defer dbClient.Close()

	args := make([]interface{}, 0, len(refs))
	for _, ref := range refs {
		args = append(args, ref)
	}
	query := fmt.Sprintf(
		`SELECT id, username, email, display_name, is_valid_email, external_ref FROM accounts
		 WHERE external_ref IN (%s)`, client.InClausePlaceholders(1, len(refs)))
	rows, err := dbClient.ExecuteQuery(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch accounts by external ref: %w", err)
	}
	return mapRowsToAccounts(rows), nil
}

// GetAccountsByIDs retrieves accounts by their internal identifiers.
func GetAccountsByIDs(accountIDs []int64) ([]model.Account, error) {
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
		`SELECT id, username, email, display_name, is_valid_email, external_ref FROM accounts
		 WHERE id IN (%s)`, client.InClausePlaceholders(1, len(accountIDs)))
	rows, err := dbClient.ExecuteQuery(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch accounts by id: %w", err)
	}
	return mapRowsToAccounts(rows), nil
}

// InsertAccounts bulk-inserts account rows and returns the stored records
// including their generated identifiers.
func InsertAccounts(newAccounts []model.NewAccount) ([]model.Account, error) {
	if len(newAccounts) == 0 {
		return nil, nil
	}
	dbClient, err := provider.NewDBProvider().GetDBClient()
	if err != nil {
		return nil, fmt.Errorf("failed to get DB client: %w", err)
	}
	defer dbClient.Close()

	columns := []string{"username", "email", "display_name", "is_valid_email", "external_ref"}
	query := client.BulkInsertQuery("accounts", columns, len(newAccounts)) +
		" RETURNING id, username, email, display_name, is_valid_email, external_ref"
	args := make([]interface{}, 0, len(newAccounts)*len(columns))
	for _, account := range newAccounts {
		args = append(args, account.Username, account.Email, account.DisplayName,
			account.IsValidEmail, account.ExternalRef)
	}
	rows, err := dbClient.ExecuteQuery(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to insert accounts: %w", err)
	}
	return mapRowsToAccounts(rows), nil
}

// UpdateAccountDisplayNames rewrites the stored display names of the given
// accounts in a single statement.
func UpdateAccountDisplayNames(displayNames map[int64]string) error {
	if len(displayNames) == 0 {
		return nil
	}
	dbClient, err := provider.NewDBProvider().GetDBClient()
	if err != nil {
		return fmt.Errorf("failed to get DB client: %w", err)
	}
	defer dbClient.Close()

	values := make([]string, 0, len(displayNames))
	args := make([]interface{}, 0, len(displayNames)*2)
	idx := 1
	for accountID, displayName := range displayNames {
		values = append(values, fmt.Sprintf("($%d::BIGINT, $%d)", idx, idx+1))
		args = append(args, accountID, displayName)
		idx += 2
	}
	query := fmt.Sprintf(
		`UPDATE accounts SET display_name = v.display_name
		 FROM (VALUES %s) AS v(id, display_name) WHERE accounts.id = v.id`,
		strings.Join(values, ", "))
	if _, err := dbClient.ExecuteStatement(query, args...); err != nil {
		return fmt.Errorf("failed to update account display names: %w", err)
	}
	return nil
}

// AssignAccountEmail attaches an email identity to an account that was
// provisioned without one. The username follows the email, matching how
// accounts with emails are created.
func AssignAccountEmail(accountID int64, email, displayName string) error {
	dbClient, err := provider.NewDBProvider().GetDBClient()
	if err != nil {
		return fmt.Errorf("failed to get DB client: %w", err)
	}
	defer dbClient.Close()

	query := `UPDATE accounts SET username = $1, email = $2, display_name = $3, is_valid_email = TRUE WHERE id = $4`
	if _, err := dbClient.ExecuteStatement(query, email, email, displayName, accountID); err != nil {
		return fmt.Errorf("failed to assign account email: %w", err)
	}
	return nil
}

// ClearAccountExternalRefs wipes the transient cross-reference from the given
// accounts once an import run no longer needs it.
func ClearAccountExternalRefs(accountIDs []int64) error {
	if len(accountIDs) == 0 {
		return nil
	}
	dbClient, err := provider.NewDBProvider().GetDBClient()
	if err != nil {
		return fmt.Errorf("failed to get DB client: %w", err)
	}
	defer dbClient.Close()

	args := make([]interface{}, 0, len(accountIDs))
	for _, id := range accountIDs {
		args = append(args, id)
	}
	query := fmt.Sprintf(`UPDATE accounts SET external_ref = NULL WHERE id IN (%s)`,
		client.InClausePlaceholders(1, len(accountIDs)))
	if _, err := dbClient.ExecuteStatement(query, args...); err != nil {
		return fmt.Errorf("failed to clear account external refs: %w", err)
	}
	return nil
}

func mapRowsToAccounts(rows []map[string]interface{}) []model.Account {
	accounts := make([]model.Account, 0, len(rows))
	for _, row := range rows {
		accounts = append(accounts, mapRowToAccount(row))
	}
	return accounts
}

func mapRowToAccount(row map[string]interface{}) model.Account {
	return model.Account{
		ID:           client.RowInt64(row, "id"),
		Username:     client.RowString(row, "username"),
		Email:        client.RowString(row, "email"),
		DisplayName:  client.RowString(row, "display_name"),
		IsValidEmail: client.RowBool(row, "is_valid_email"),
		ExternalRef:  client.RowString(row, "external_ref"),
	}
}
