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

// Account is a login-capable identity record. ExternalRef is a transient
// cross-reference populated while a batch import is in flight so newly
// created accounts can be matched back to their feed records; it is
// cleared once the run finishes with them.
type Account struct {
	ID           int64  `json:"id"`
	Username     string `json:"username"`
	Email        string `json:"email"`
	DisplayName  string `json:"display_name"`
	IsValidEmail bool   `json:"is_valid_email"`
	ExternalRef  string `json:"external_ref,omitempty"`
}

// NewAccount carries the values needed to insert an account row.
type NewAccount struct {
	Username     string
	Email        string
	DisplayName  string
	IsValidEmail bool
	ExternalRef  string
}
