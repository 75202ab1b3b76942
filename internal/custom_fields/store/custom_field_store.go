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

	"github.com/wso2/identity-resident-data-service/internal/custom_fields/model"
	"github.com/wso2/identity-resident-data-service/internal/system/database/client"
	"github.com/wso2/identity-resident-data-service/internal/system/database/provider"
)

// GetCustomFields retrieves every custom field defined for an entity type.
func GetCustomFields(entityTypeID int64) ([]model.CustomField, error) {
	dbClient, err := provider.NewDBProvider().GetDBClient()
	if err != nil {
		return nil, fmt.Errorf("failed to get DB client: %w", err)
	}
	defer dbClient.Close()

	query := `SELECT id, id_entity_type, id_field_type, tag_label, source_field
		FROM custom_fields WHERE id_entity_type = $1`
	rows, err := dbClient.ExecuteQuery(query, entityTypeID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch custom fields: %w", err)
	}
	fields := make([]model.CustomField, 0, len(rows))
	for _, row := range rows {
		fields = append(fields, model.CustomField{
			ID:           client.RowInt64(row, "id"),
			EntityTypeID: client.RowInt64(row, "id_entity_type"),
			FieldTypeID:  client.RowInt64(row, "id_field_type"),
			TagLabel:     client.RowString(row, "tag_label"),
			SourceField:  client.RowString(row, "source_field"),
		})
	}
	return fields, nil
}

// UpsertCustomFields seeds custom-field definitions from the mapping
// configuration. Definitions that already exist keep their identifiers.
func UpsertCustomFields(mappings []model.FieldMappingConfig) error {
	if len(mappings) == 0 {
		return nil
	}
	dbClient, err := provider.NewDBProvider().GetDBClient()
	if err != nil {
		return fmt.Errorf("failed to get DB client: %w", err)
	}
	defer dbClient.Close()

	columns := []string{"id_entity_type", "id_field_type", "tag_label", "source_field"}
	query := client.BulkInsertQuery("custom_fields", columns, len(mappings)) +
		" ON CONFLICT (id_entity_type, tag_label) DO UPDATE SET source_field = EXCLUDED.source_field"
	args := make([]interface{}, 0, len(mappings)*len(columns))
	for _, mapping := range mappings {
		args = append(args, mapping.Entity, mapping.FieldType, mapping.TagLabel, mapping.Field)
	}
	if _, err := dbClient.ExecuteStatement(query, args...); err != nil {
		return fmt.Errorf("failed to upsert custom fields: %w", err)
	}
	return nil
}

// GetMetadataByObjectIDs retrieves stored values of an entity type's custom
// fields for the given objects.
func GetMetadataByObjectIDs(entityTypeID int64, objectIDs []int64) ([]model.MetadataValue, error) {
	if len(objectIDs) == 0 {
		return nil, nil
	}
	dbClient, err := provider.NewDBProvider().GetDBClient()
	if err != nil {
		return nil, fmt.Errorf("failed to get DB client: %w", err)
	}
	defer dbClient.Close()

	args := make([]interface{}, 0, len(objectIDs)+1)
	args = append(args, entityTypeID)
	for _, id := range objectIDs {
		args = append(args, id)
	}
	query := fmt.Sprintf(
		`SELECT id, id_field, id_entity_type, id_object, value FROM custom_field_values
		 WHERE id_entity_type = $1 AND id_object IN (%s)`,
		client.InClausePlaceholders(2, len(objectIDs)))
	rows, err := dbClient.ExecuteQuery(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch custom field values: %w", err)
	}
	values := make([]model.MetadataValue, 0, len(rows))
	for _, row := range rows {
		values = append(values, model.MetadataValue{
			ID:           client.RowInt64(row, "id"),
			FieldID:      client.RowInt64(row, "id_field"),
			EntityTypeID: client.RowInt64(row, "id_entity_type"),
			ObjectID:     client.RowInt64(row, "id_object"),
			Value:        client.RowString(row, "value"),
		})
	}
	return values, nil
}

// UpsertMetadata writes custom-field values, overwriting any previous value
// of the same field on the same object.
func UpsertMetadata(values []model.MetadataValue) error {
	if len(values) == 0 {
		return nil
	}
	dbClient, err := provider.NewDBProvider().GetDBClient()
	if err != nil {
		return fmt.Errorf("failed to get DB client: %w", err)
	}
	defer dbClient.Close()

	columns := []string{"id_field", "id_entity_type", "id_object", "value"}
	query := client.BulkInsertQuery("custom_field_values", columns, len(values)) +
		" ON CONFLICT (id_field, id_object) DO UPDATE SET value = EXCLUDED.value"
	args := make([]interface{}, 0, len(values)*len(columns))
	for _, value := range values {
		args = append(args, value.FieldID, value.EntityTypeID, value.ObjectID, value.Value)
	}
	if _, err := dbClient.ExecuteStatement(query, args...); err != nil {
		return fmt.Errorf("failed to upsert custom field values: %w", err)
	}
	return nil
}

// UpdateMetadataValues rewrites only the value column of existing rows,
// leaving every other stored attribute untouched.
func UpdateMetadataValues(values []model.MetadataValue) error {
	if len(values) == 0 {
		return nil
	}
	dbClient, err := provider.NewDBProvider().GetDBClient()
	if err != nil {
		return fmt.Errorf("failed to get DB client: %w", err)
	}
	defer dbClient.Close()

	tx, err := dbClient.BeginTx()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	query := `UPDATE custom_field_values SET value = $1 WHERE id = $2`
	for _, value := range values {
		if _, err := tx.Exec(query, value.Value, value.ID); err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to update custom field value: %w", err)
		}
	}
	return tx.Commit()
}
