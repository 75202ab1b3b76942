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

// RoleGroup is a named permission group scoped to an instance.
type RoleGroup struct {
	ID         int64  `json:"id"`
	InstanceID int64  `json:"id_instance"`
	Name       string `json:"name"`
}

// GroupMembership places an account in a role group.
type GroupMembership struct {
	ID        int64 `json:"id"`
	GroupID   int64 `json:"id_group"`
	AccountID int64 `json:"id_user"`
}

// AccountGroup is a flattened membership row carrying the group name,
// used to inspect which named groups an account already belongs to.
type AccountGroup struct {
	AccountID int64  `json:"id_user"`
	GroupID   int64  `json:"id_group"`
	GroupName string `json:"group_name"`
}

// AuthAction is a permittable login-flow action.
type AuthAction struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}
