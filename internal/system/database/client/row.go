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

package client

import (
	"strconv"
	"time"
)

// Row value accessors. ExecuteQuery scans into interface{} so the driver
// decides the concrete type; text may arrive as string or []byte and
// numerics as int64 or float64 depending on the column.

// RowString returns the named column as a string, or "" for NULL.
func RowString(row map[string]interface{}, column string) string {
	switch v := row[column].(type) {
	case string:
		return v
	case []byte:
		return string(v)
	default:
		return ""
	}
}

// RowInt64 returns the named column as an int64, or 0 for NULL.
func RowInt64(row map[string]interface{}, column string) int64 {
	switch v := row[column].(type) {
	case int64:
		return v
	case float64:
		return int64(v)
	case []byte:
		parsed, err := strconv.ParseInt(string(v), 10, 64)
		if err != nil {
			return 0
		}
		return parsed
	case string:
		parsed, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return 0
		}
		return parsed
	default:
		return 0
	}
}

// RowBool returns the named column as a bool. Integer-backed flags, where
// any non-zero value means true, are supported as well.
func RowBool(row map[string]interface{}, column string) bool {
	switch v := row[column].(type) {
	case bool:
		return v
	case int64:
		return v != 0
	case []byte:
		return string(v) == "t" || string(v) == "true" || string(v) == "1"
	case string:
		return v == "t" || v == "true" || v == "1"
	default:
		return false
	}
}

// RowTime returns the named column as a time.Time, or the zero value.
func RowTime(row map[string]interface{}, column string) time.Time {
	if v, ok := row[column].(time.Time); ok {
		return v
	}
	return time.Time{}
}
