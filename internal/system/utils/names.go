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

package utils

import "strings"

// FormattedName holds the normalized name triple for a feed record.
type FormattedName struct {
	FirstName   string
	LastName    string
	DisplayName string
}

// FormatName trims the raw name parts and derives the display name. Either
// part may be empty; the display name collapses to the non-empty one.
func FormatName(firstName, lastName string) FormattedName {
	first := strings.Join(strings.Fields(firstName), " ")
	last := strings.Join(strings.Fields(lastName), " ")

	display := strings.TrimSpace(first + " " + last)
	return FormattedName{
		FirstName:   first,
		LastName:    last,
		DisplayName: display,
	}
}

// DisplayNameMatches compares a computed display name against a stored one,
// tolerating trailing whitespace and casing drift.
func DisplayNameMatches(computed, stored string) bool {
	c := strings.ToLower(strings.TrimSpace(computed))
	s := strings.ToLower(strings.TrimSpace(stored))
	if c == s {
		return true
	}
	return s != "" && strings.HasSuffix(c, s)
}
