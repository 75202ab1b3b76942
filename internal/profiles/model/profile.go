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

// Profile is the per-community person record linked to an account.
// ExternalID holds the upstream system's identifier for the person and is
// what batch imports match on; it is empty for locally created profiles.
type Profile struct {
	ID             int64  `json:"id"`
	CommunityID    int64  `json:"id_community"`
	AccountID      int64  `json:"id_user"`
	ExternalID     string `json:"external_id"`
	FirstName      string `json:"first_name"`
	LastName       string `json:"last_name"`
	DisplayName    string `json:"display_name"`
	Email          string `json:"email"`
	ValidEmail     bool   `json:"valid_email"`
	HomePhone      string `json:"home_phone"`
	ValidHomePhone bool   `json:"valid_home_phone"`
	CellPhone      string `json:"cell_phone"`
	ValidCellPhone bool   `json:"valid_cell_phone"`
	IsLocal        bool   `json:"is_local"`
	IsDeleted      bool   `json:"is_deleted"`
	RegisteredDate int64  `json:"registered_date"`
}

// NewProfile carries the values needed to insert a profile row.
type NewProfile struct {
	CommunityID    int64
	AccountID      int64
	ExternalID     string
	FirstName      string
	LastName       string
	DisplayName    string
	Email          string
	ValidEmail     bool
	HomePhone      string
	ValidHomePhone bool
	CellPhone      string
	ValidCellPhone bool
	IsLocal        bool
	RegisteredDate int64
}

// ContactUpdate rewrites the mutable contact attributes of a profile.
type ContactUpdate struct {
	ProfileID      int64
	FirstName      string
	LastName       string
	DisplayName    string
	Email          string
	ValidEmail     bool
	HomePhone      string
	ValidHomePhone bool
	CellPhone      string
	ValidCellPhone bool
}
