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

// Unit is a physical unit (apartment, lot) within a community, keyed by its
// title as supplied by the upstream feed.
type Unit struct {
	ID          int64  `json:"id"`
	CommunityID int64  `json:"id_community"`
	Title       string `json:"title"`
	IsActive    bool   `json:"is_active"`
}

// UnitMembership links an account to a unit together with its occupancy
// classification.
type UnitMembership struct {
	ID             int64  `json:"id"`
	CommunityID    int64  `json:"id_community"`
	UnitID         int64  `json:"id_unit"`
	AccountID      int64  `json:"id_user"`
	UnitTitle      string `json:"unit_title"`
	IsResident     bool   `json:"is_resident"`
	GroupTypeID    int64  `json:"id_group_type"`
	ResidentTypeID int64  `json:"id_resident_type"`
	CreatedDate    int64  `json:"created_date"`
}

// NewUnitMembership carries the values needed to insert a membership row.
type NewUnitMembership struct {
	CommunityID    int64
	UnitID         int64
	AccountID      int64
	IsResident     bool
	GroupTypeID    int64
	ResidentTypeID int64
	CreatedDate    int64
}
