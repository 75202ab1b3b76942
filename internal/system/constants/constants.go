/*
 * Copyright (c) 2025-2026, WSO2 LLC. (http://www.wso2.com).
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

package constants

import "strings"

const ApiBasePath = "/api/v1"

type ContextKey string

const TraceIDContextKey ContextKey = "trace_id"

// Role groups every deployment must define before imports run.
const (
	GroupOwners    = "Owners"
	GroupResidents = "Residents"
	GroupTenants   = "Tenants"
)

// RequiredRoleGroups lists the groups init verifies, in no particular order.
var RequiredRoleGroups = []string{GroupOwners, GroupResidents, GroupTenants}

// Resident type identifiers stored on unit memberships.
const (
	ResidentTypeResidentOwner    int64 = 1
	ResidentTypeNonResidentOwner int64 = 2
	ResidentTypeTenant           int64 = 3
)

// Group type identifiers stored on unit memberships.
const (
	GroupTypeOwner  int64 = 1
	GroupTypeTenant int64 = 2
)

// Entity types for custom field metadata rows.
const (
	EntityTypeUnits int64 = 1
	EntityTypeUsers int64 = 2
)

// ResidentTypeID maps a feed resident type to its stored identifier. A bare
// "owner" is split into resident/non-resident kinds by the is_resident flag.
// Unrecognized values classify as tenant, matching the import contract.
func ResidentTypeID(residentType string, isResident bool) int64 {
	switch strings.ToLower(strings.TrimSpace(residentType)) {
	case "owner", "resident owner":
		if !isResident {
			return ResidentTypeNonResidentOwner
		}
		return ResidentTypeResidentOwner
	case "non-resident owner", "nonresident owner", "non resident owner":
		return ResidentTypeNonResidentOwner
	case "tenant":
		return ResidentTypeTenant
	default:
		return ResidentTypeTenant
	}
}

// GroupTypeID derives the membership group type from the feed resident type.
func GroupTypeID(residentType string, isResident bool) int64 {
	if IsOwnerTypeID(ResidentTypeID(residentType, isResident)) {
		return GroupTypeOwner
	}
	return GroupTypeTenant
}

// IsOwnerTypeID reports whether the resident type id is one of the owner kinds.
func IsOwnerTypeID(residentTypeID int64) bool {
	return residentTypeID == ResidentTypeResidentOwner ||
		residentTypeID == ResidentTypeNonResidentOwner
}
