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

	"github.com/wso2/identity-resident-data-service/internal/contracts/model"
	"github.com/wso2/identity-resident-data-service/internal/system/database/client"
	"github.com/wso2/identity-resident-data-service/internal/system/database/provider"
)

// GetContractsByAccountIDs retrieves the contracts of the given accounts
// within a community.
func GetContractsByAccountIDs(communityID int64, accountIDs []int64) ([]model.Contract, error) {
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
		`SELECT id, id_community, id_user, contract_ref, lease_ref, is_active, created_date, modified_date
		 FROM contracts WHERE id_community = $1 AND id_user IN (%s)`,
		client.InClausePlaceholders(2, len(accountIDs)))
	rows, err := dbClient.ExecuteQuery(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch contracts: %w", err)
	}
	contracts := make([]model.Contract, 0, len(rows))
	for _, row := range rows {
		contracts = append(contracts, model.Contract{
			ID:           client.RowInt64(row, "id"),
			CommunityID:  client.RowInt64(row, "id_community"),
			AccountID:    client.RowInt64(row, "id_user"),
			ContractRef:  client.RowInt64(row, "contract_ref"),
			LeaseRef:     client.RowString(row, "lease_ref"),
			IsActive:     client.RowBool(row, "is_active"),
			CreatedDate:  client.RowInt64(row, "created_date"),
			ModifiedDate: client.RowInt64(row, "modified_date"),
		})
	}
	return contracts, nil
}

// InsertContracts records new lease agreements in a single statement.
func InsertContracts(contracts []model.Contract) error {
	if len(contracts) == 0 {
		return nil
	}
	dbClient, err := provider.NewDBProvider().GetDBClient()
	if err != nil {
		return fmt.Errorf("failed to get DB client: %w", err)
	}
	defer dbClient.Close()

	columns := []string{"id_community", "id_user", "contract_ref", "lease_ref", "is_active",
		"created_date", "modified_date"}
	args := make([]interface{}, 0, len(contracts)*len(columns))
	for _, contract := range contracts {
		args = append(args, contract.CommunityID, contract.AccountID, contract.ContractRef,
			contract.LeaseRef, contract.IsActive, contract.CreatedDate, contract.ModifiedDate)
	}
	query := client.BulkInsertQuery("contracts", columns, len(contracts))
	if _, err := dbClient.ExecuteStatement(query, args...); err != nil {
		return fmt.Errorf("failed to insert contracts: %w", err)
	}
	return nil
}

// UpdateContract rewrites the holder, lease reference and active state of a
// contract. The holder changes when an identity transfer moves the lease to a
// new account.
func UpdateContract(contractID, accountID int64, leaseRef string, isActive bool, modifiedDate int64) error {
	dbClient, err := provider.NewDBProvider().GetDBClient()
	if err != nil {
		return fmt.Errorf("failed to get DB client: %w", err)
	}
	defer dbClient.Close()

	query := `UPDATE contracts SET id_user = $1, lease_ref = $2, is_active = $3, modified_date = $4 WHERE id = $5`
	if _, err := dbClient.ExecuteStatement(query, accountID, leaseRef, isActive, modifiedDate, contractID); err != nil {
		return fmt.Errorf("failed to update contract: %w", err)
	}
	return nil
}

// DeactivateContractsByAccountIDs marks the contracts of deactivated accounts
// inactive without deleting them.
func DeactivateContractsByAccountIDs(communityID int64, accountIDs []int64, modifiedDate int64) error {
	if len(accountIDs) == 0 {
		return nil
	}
	dbClient, err := provider.NewDBProvider().GetDBClient()
	if err != nil {
		return fmt.Errorf("failed to get DB client: %w", err)
	}
	defer dbClient.Close()

	args := make([]interface{}, 0, len(accountIDs)+2)
	args = append(args, modifiedDate, communityID)
	for _, id := range accountIDs {
		args = append(args, id)
	}
	query := fmt.Sprintf(
		`UPDATE contracts SET is_active = FALSE, modified_date = $1 WHERE id_community = $2 AND id_user IN (%s)`,
		client.InClausePlaceholders(3, len(accountIDs)))
	if _, err := dbClient.ExecuteStatement(query, args...); err != nil {
		return fmt.Errorf("failed to deactivate contracts: %w", err)
	}
	return nil
}
