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
	fieldmodel "github.com/wso2/identity-resident-data-service/internal/custom_fields/model"
	"github.com/wso2/identity-resident-data-service/internal/residents/model"
	"github.com/wso2/identity-resident-data-service/internal/system/constants"
	"github.com/wso2/identity-resident-data-service/internal/system/errors"
	"github.com/wso2/identity-resident-data-service/internal/system/utils"
)

// syncCustomFields projects configured feed fields onto unit and user
// metadata rows. A row is unique per (entity, object, field): missing rows
// are inserted, rows whose stored value drifted are updated value-only, and
// matching rows are left alone so repeated imports write nothing.
func (s *ResidentSyncService) syncCustomFields(records []model.FeedRecord, unitsByTitle map[string]int64) error {
	byExternalID, err := s.loadProfilesByExternalID()
	if err != nil {
		return err
	}

	resolveObjectID := func(entityTypeID int64, record model.FeedRecord) (int64, bool) {
		if entityTypeID == constants.EntityTypeUnits {
			unitID, ok := unitsByTitle[record.UnitTitle]
			return unitID, ok
		}
		id, _ := utils.ParseExternalID(record.ExternalID)
		profile, ok := byExternalID[id]
		return profile.ID, ok
	}

	for _, entityTypeID := range []int64{constants.EntityTypeUnits, constants.EntityTypeUsers} {
		fields, err := s.store.CustomFields(entityTypeID)
		if err != nil {
			return errors.NewServerError(errors.FETCH_CUSTOM_FIELDS, err)
		}
		mapped := fields[:0]
		for _, field := range fields {
			if field.SourceField != "" {
				mapped = append(mapped, field)
			}
		}
		if len(mapped) == 0 {
			continue
		}

		// Later records overwrite earlier ones, so within one batch the last
		// value per (field, object) wins.
		type valueKey struct {
			fieldID  int64
			objectID int64
		}
		pendingValues := make(map[valueKey]string)
		pendingOrder := make([]valueKey, 0)
		objectIDs := make([]int64, 0)
		seenObject := make(map[int64]bool)
		for _, record := range records {
			objectID, ok := resolveObjectID(entityTypeID, record)
			if !ok {
				continue
			}
			if !seenObject[objectID] {
				seenObject[objectID] = true
				objectIDs = append(objectIDs, objectID)
			}
			for _, field := range mapped {
				key := valueKey{field.ID, objectID}
				if _, seen := pendingValues[key]; !seen {
					pendingOrder = append(pendingOrder, key)
				}
				pendingValues[key] = record.Field(field.SourceField)
			}
		}

		stored, err := s.store.MetadataByObjectIDs(entityTypeID, objectIDs)
		if err != nil {
			return errors.NewServerError(errors.FETCH_CUSTOM_FIELDS, err)
		}
		existing := make(map[valueKey]fieldmodel.MetadataValue, len(stored))
		for _, value := range stored {
			existing[valueKey{value.FieldID, value.ObjectID}] = value
		}

		inserts := make([]fieldmodel.MetadataValue, 0)
		updates := make([]fieldmodel.MetadataValue, 0)
		for _, key := range pendingOrder {
			value := pendingValues[key]
			if current, ok := existing[key]; ok {
				if current.Value != value {
					current.Value = value
					updates = append(updates, current)
				}
				continue
			}
			inserts = append(inserts, fieldmodel.MetadataValue{
				FieldID:      key.fieldID,
				EntityTypeID: entityTypeID,
				ObjectID:     key.objectID,
				Value:        value,
			})
		}
		if err := s.store.InsertMetadata(inserts); err != nil {
			return errors.NewServerError(errors.SAVE_CUSTOM_FIELDS, err)
		}
		if err := s.store.UpdateMetadataValues(updates); err != nil {
			return errors.NewServerError(errors.SAVE_CUSTOM_FIELDS, err)
		}
	}
	return nil
}
