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

package model

import (
	"encoding/json"
	"fmt"

	"github.com/wso2/identity-resident-data-service/internal/system/utils"
)

// FeedRecord is one row of an import batch. The recognized fields are bound
// to struct members; anything else the feed supplies is preserved in Extra
// for custom-field projection. Upstream feeds are loose about types, so
// scalar values are coerced rather than rejected.
type FeedRecord struct {
	ExternalID   string
	Email        string
	FirstName    string
	LastName     string
	HomePhone    string
	CellPhone    string
	UnitTitle    string
	LeaseID      string
	ResidentType string
	IsResident   bool
	Extra        map[string]string
}

// Recognized feed field names.
const (
	fieldExternalID   = "tenant_id"
	fieldEmail        = "email"
	fieldFirstName    = "first_name"
	fieldLastName     = "last_name"
	fieldHomePhone    = "phone"
	fieldCellPhone    = "cell_phone"
	fieldUnitTitle    = "unit_title"
	fieldLeaseID      = "unit_id"
	fieldResidentType = "resident_type"
	fieldIsResident   = "is_resident"
)

// UnmarshalJSON binds recognized fields with scalar coercion and collects
// the rest into Extra.
func (r *FeedRecord) UnmarshalJSON(data []byte) error {
	var raw map[string]interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	r.Extra = make(map[string]string)
	r.IsResident = true
	for name, value := range raw {
		switch name {
		case fieldExternalID:
			r.ExternalID = utils.CoerceToString(value)
		case fieldEmail:
			r.Email = utils.CoerceToString(value)
		case fieldFirstName:
			r.FirstName = utils.CoerceToString(value)
		case fieldLastName:
			r.LastName = utils.CoerceToString(value)
		case fieldHomePhone:
			r.HomePhone = utils.CoerceToString(value)
		case fieldCellPhone:
			r.CellPhone = utils.CoerceToString(value)
		case fieldUnitTitle:
			r.UnitTitle = utils.CoerceToString(value)
		case fieldLeaseID:
			r.LeaseID = utils.CoerceToString(value)
		case fieldResidentType:
			r.ResidentType = utils.CoerceToString(value)
		case fieldIsResident:
			r.IsResident = utils.CoerceToBool(value, true)
		default:
			r.Extra[name] = utils.CoerceToString(value)
		}
	}
	return nil
}

// Field returns the value of a named feed field, recognized or extra.
func (r *FeedRecord) Field(name string) string {
	switch name {
	case fieldExternalID:
		return r.ExternalID
	case fieldEmail:
		return r.Email
	case fieldFirstName:
		return r.FirstName
	case fieldLastName:
		return r.LastName
	case fieldHomePhone:
		return r.HomePhone
	case fieldCellPhone:
		return r.CellPhone
	case fieldUnitTitle:
		return r.UnitTitle
	case fieldLeaseID:
		return r.LeaseID
	case fieldResidentType:
		return r.ResidentType
	case fieldIsResident:
		if r.IsResident {
			return "true"
		}
		return "false"
	default:
		return r.Extra[name]
	}
}

// DecodeBatch accepts either a single feed record object or an array of them.
func DecodeBatch(data []byte) ([]FeedRecord, error) {
	var records []FeedRecord
	if err := json.Unmarshal(data, &records); err == nil {
		return records, nil
	}
	var single FeedRecord
	if err := json.Unmarshal(data, &single); err != nil {
		return nil, fmt.Errorf("request body is neither a record nor an array of records: %w", err)
	}
	return []FeedRecord{single}, nil
}

// SyncResult is the outcome reported to the caller of a sync run.
type SyncResult struct {
	Success      bool   `json:"success"`
	SyncComplete bool   `json:"syncComplete"`
	Errors       string `json:"errors,omitempty"`
}
