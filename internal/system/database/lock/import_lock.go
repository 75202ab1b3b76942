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

package lock

import (
	"fmt"
	"time"

	"github.com/wso2/identity-resident-data-service/internal/system/database/client"
	"github.com/wso2/identity-resident-data-service/internal/system/database/provider"
	"github.com/wso2/identity-resident-data-service/internal/system/errors"
	"github.com/wso2/identity-resident-data-service/internal/system/log"
)

// ImportLock guards against concurrent reconciliation runs for one instance.
// The marker is a persisted row so a second process sees it too. A stuck run
// has no timeout; the marker must be cleared externally.
type ImportLock interface {
	StartedAt(instanceID int64) (*time.Time, error)
	Begin(instanceID int64) error
	Release(instanceID int64) error
}

// PostgresImportLock implements ImportLock on the import_locks table.
type PostgresImportLock struct{}

func NewPostgresImportLock() *PostgresImportLock {
	return &PostgresImportLock{}
}

// StartedAt returns the start time of an in-flight import, or nil when no
// import is running.
func (l *PostgresImportLock) StartedAt(instanceID int64) (*time.Time, error) {

	dbClient, err := provider.NewDBProvider().GetDBClient()
	logger := log.GetLogger()
	if err != nil {
		errorMsg := "Failed during DB client creation for reading the import marker."
		logger.Error(errorMsg, log.Error(err))
		return nil, errors.NewServerError(errors.ErrorMessage{
			Code:        errors.DB_CLIENT_INIT.Code,
			Message:     errors.DB_CLIENT_INIT.Message,
			Description: errorMsg,
		}, err)
	}
	defer dbClient.Close()

	results, err := dbClient.ExecuteQuery(
		"SELECT time_started FROM import_locks WHERE id_instance = $1", instanceID)
	if err != nil {
		errorMsg := "Failed to read the import marker."
		logger.Error(errorMsg, log.Error(err))
		return nil, errors.NewServerError(errors.ErrorMessage{
			Code:        errors.IMPORT_MARKER.Code,
			Message:     errors.IMPORT_MARKER.Message,
			Description: errorMsg,
		}, err)
	}
	if len(results) == 0 {
		return nil, nil
	}

	startedAt := client.RowTime(results[0], "time_started")
	if startedAt.IsZero() {
		errorMsg := fmt.Sprintf("Import marker for instance %d holds an unexpected value.", instanceID)
		logger.Error(errorMsg)
		return nil, errors.NewServerError(errors.ErrorMessage{
			Code:        errors.IMPORT_MARKER.Code,
			Message:     errors.IMPORT_MARKER.Message,
			Description: errorMsg,
		}, nil)
	}
	return &startedAt, nil
}

// Begin sets the marker for the instance. When a marker is already present
// it returns an ImportConflictError carrying the original start time.
func (l *PostgresImportLock) Begin(instanceID int64) error {

	dbClient, err := provider.NewDBProvider().GetDBClient()
	logger := log.GetLogger()
	if err != nil {
		errorMsg := "Failed during DB client creation for setting the import marker."
		logger.Error(errorMsg, log.Error(err))
		return errors.NewServerError(errors.ErrorMessage{
			Code:        errors.DB_CLIENT_INIT.Code,
			Message:     errors.DB_CLIENT_INIT.Message,
			Description: errorMsg,
		}, err)
	}
	defer dbClient.Close()

	affected, err := dbClient.ExecuteStatement(
		"INSERT INTO import_locks (id_instance, time_started) VALUES ($1, NOW()) "+
			"ON CONFLICT (id_instance) DO NOTHING", instanceID)
	if err != nil {
		errorMsg := "Failed to set the import marker."
		logger.Error(errorMsg, log.Error(err))
		return errors.NewServerError(errors.ErrorMessage{
			Code:        errors.IMPORT_MARKER.Code,
			Message:     errors.IMPORT_MARKER.Message,
			Description: errorMsg,
		}, err)
	}
	if affected == 1 {
		return nil
	}

	startedAt, err := l.StartedAt(instanceID)
	if err != nil {
		return err
	}
	if startedAt == nil {
		// The competing run released between our insert and read; retry once.
		return l.Begin(instanceID)
	}
	logger.Info("Import already running.", log.Any("started_at", *startedAt))
	return errors.NewImportConflictError(*startedAt)
}

// Release clears the marker unconditionally.
func (l *PostgresImportLock) Release(instanceID int64) error {

	dbClient, err := provider.NewDBProvider().GetDBClient()
	logger := log.GetLogger()
	if err != nil {
		errorMsg := "Failed during DB client creation for clearing the import marker."
		logger.Error(errorMsg, log.Error(err))
		return errors.NewServerError(errors.ErrorMessage{
			Code:        errors.DB_CLIENT_INIT.Code,
			Message:     errors.DB_CLIENT_INIT.Message,
			Description: errorMsg,
		}, err)
	}
	defer dbClient.Close()

	if _, err := dbClient.ExecuteStatement(
		"DELETE FROM import_locks WHERE id_instance = $1", instanceID); err != nil {
		errorMsg := "Failed to clear the import marker."
		logger.Error(errorMsg, log.Error(err))
		return errors.NewServerError(errors.ErrorMessage{
			Code:        errors.IMPORT_MARKER.Code,
			Message:     errors.IMPORT_MARKER.Message,
			Description: errorMsg,
		}, err)
	}
	logger.Debug(fmt.Sprintf("Import marker cleared for instance: %d", instanceID))
	return nil
}
