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

// Contract records a lease agreement for an account within a community.
// ContractRef mirrors the feed's external account identifier, so a community
// holds at most one contract row per upstream resident. LeaseRef is the
// upstream lease identifier when the feed supplies one.
type Contract struct {
	ID           int64  `json:"id"`
	CommunityID  int64  `json:"id_community"`
	AccountID    int64  `json:"id_user"`
	ContractRef  int64  `json:"contract_ref"`
	LeaseRef     string `json:"lease_ref"`
	IsActive     bool   `json:"is_active"`
	CreatedDate  int64  `json:"created_date"`
	ModifiedDate int64  `json:"modified_date"`
}
