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

package errors

import (
	stderrors "errors"
	"fmt"
	"time"
)

// ImportConflictError reports that a reconciliation run is already in flight
// for the instance. It is an expected condition, not a server failure, so
// callers can match on it instead of inspecting error strings.
type ImportConflictError struct {
	StartedAt time.Time
}

func (e *ImportConflictError) Error() string {
	return fmt.Sprintf("[%s] a running import process already started at %s",
		ErrImportAlreadyRunning.Code, e.StartedAt.UTC().Format(time.RFC3339))
}

func NewImportConflictError(startedAt time.Time) *ImportConflictError {
	return &ImportConflictError{StartedAt: startedAt}
}

// IsImportConflict reports whether err wraps an ImportConflictError.
func IsImportConflict(err error) (*ImportConflictError, bool) {
	var conflict *ImportConflictError
	if stderrors.As(err, &conflict) {
		return conflict, true
	}
	return nil, false
}
