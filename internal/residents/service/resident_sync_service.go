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

package service

import (
	"fmt"
	"net/http"
	"os"
	"path"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v2"

	fieldmodel "github.com/wso2/identity-resident-data-service/internal/custom_fields/model"
	"github.com/wso2/identity-resident-data-service/internal/residents/model"
	"github.com/wso2/identity-resident-data-service/internal/residents/store"
	"github.com/wso2/identity-resident-data-service/internal/system/cache"
	"github.com/wso2/identity-resident-data-service/internal/system/config"
	"github.com/wso2/identity-resident-data-service/internal/system/constants"
	"github.com/wso2/identity-resident-data-service/internal/system/errors"
	"github.com/wso2/identity-resident-data-service/internal/system/log"
	"github.com/wso2/identity-resident-data-service/internal/system/utils"
)

// Login-flow actions every resident role group must be permitted to perform.
var requiredAuthActions = []string{"login", "login-with-code", "reset-password"}

// ResidentSyncServiceInterface reconciles import batches against the store.
type ResidentSyncServiceInterface interface {
	Init() error
	Sync(records []model.FeedRecord) (*model.SyncResult, error)
	LastResult() (*model.SyncResult, bool)
}

// lastResultCacheKey holds the outcome of the most recent completed run.
const lastResultCacheKey = "sync:last-result"

// ResidentSyncService is the reconciliation engine. It is single-threaded by
// contract: the import guard rejects a second concurrent run per instance.
type ResidentSyncService struct {
	store       store.Store
	cfg         config.SyncConfig
	resultCache *cache.Cache
	initialized bool
}

// NewResidentSyncService wires the engine with its store and configuration.
func NewResidentSyncService(engineStore store.Store, cfg config.SyncConfig, resultCache *cache.Cache) *ResidentSyncService {
	return &ResidentSyncService{
		store:       engineStore,
		cfg:         cfg,
		resultCache: resultCache,
	}
}

// Init verifies the import prerequisites: no reconciliation may be running,
// the required role groups must exist, the login-flow actions are ensured and
// permitted to those groups, and the custom-field mapping file is seeded into
// the store. It must complete once before Sync is called.
func (s *ResidentSyncService) Init() error {
	logger := log.GetLogger()

	startedAt, err := s.store.ImportStartedAt(s.cfg.InstanceID)
	if err != nil {
		return errors.NewServerError(errors.IMPORT_INIT, err)
	}
	if startedAt != nil {
		logger.Info("Init rejected, a reconciliation run is in flight",
			log.String("startedAt", startedAt.Format(time.RFC3339)))
		return errors.NewClientError(errors.ErrImportAlreadyRunning, http.StatusConflict)
	}

	groupIDs, err := s.verifyRoleGroups()
	if err != nil {
		return err
	}
	if err := s.ensureAuthActions(groupIDs); err != nil {
		return err
	}
	if err := s.seedCustomFields(); err != nil {
		return err
	}

	s.initialized = true
	logger.Audit(log.AuditEvent{
		RecordedAt:    time.Now().Format(time.RFC3339),
		InitiatorID:   "system",
		InitiatorType: log.InitiatorTypeSystem,
		TargetID:      strconv.FormatInt(s.cfg.InstanceID, 10),
		TargetType:    log.TargetTypeImport,
		ActionID:      log.ActionImportInit,
	})
	return nil
}

// verifyRoleGroups checks that every required group exists and returns their
// identifiers keyed by name.
func (s *ResidentSyncService) verifyRoleGroups() (map[string]int64, error) {
	groups, err := s.store.RoleGroups(s.cfg.InstanceID)
	if err != nil {
		return nil, errors.NewServerError(errors.FETCH_ROLE_GROUPS, err)
	}
	groupIDs := make(map[string]int64, len(groups))
	for _, group := range groups {
		groupIDs[group.Name] = group.ID
	}
	for _, name := range constants.RequiredRoleGroups {
		if _, ok := groupIDs[name]; !ok {
			return nil, errors.NewClientError(errors.ErrMissingRoleGroups, http.StatusPreconditionFailed)
		}
	}
	return groupIDs, nil
}

// ensureAuthActions creates any missing login-flow actions and permits all of
// them to the required role groups.
func (s *ResidentSyncService) ensureAuthActions(groupIDs map[string]int64) error {
	existing, err := s.store.AuthActions(requiredAuthActions)
	if err != nil {
		return errors.NewServerError(errors.GRANT_PERMISSIONS, err)
	}
	actionIDs := make(map[string]int64, len(existing))
	for _, action := range existing {
		actionIDs[action.Name] = action.ID
	}
	for _, name := range requiredAuthActions {
		if _, ok := actionIDs[name]; ok {
			continue
		}
		id, err := s.store.InsertAuthAction(name)
		if err != nil {
			return errors.NewServerError(errors.GRANT_PERMISSIONS, err)
		}
		actionIDs[name] = id
	}
	if len(actionIDs) < len(requiredAuthActions) {
		return errors.NewClientError(errors.ErrMissingAuthActions, http.StatusPreconditionFailed)
	}

	groups := make([]int64, 0, len(constants.RequiredRoleGroups))
	for _, name := range constants.RequiredRoleGroups {
		groups = append(groups, groupIDs[name])
	}
	actions := make([]int64, 0, len(actionIDs))
	for _, name := range requiredAuthActions {
		actions = append(actions, actionIDs[name])
	}
	if err := s.store.GrantActionsToGroups(groups, actions); err != nil {
		return errors.NewServerError(errors.GRANT_PERMISSIONS, err)
	}
	return nil
}

// seedCustomFields loads the field-mapping file and upserts the definitions.
func (s *ResidentSyncService) seedCustomFields() error {
	if s.cfg.FieldMappingFile == "" {
		return errors.NewClientError(errors.ErrMissingFieldMappings, http.StatusPreconditionFailed)
	}
	mappingPath := path.Join(config.GetRDSRuntime().RDSHome, s.cfg.FieldMappingFile)
	content, err := os.ReadFile(mappingPath)
	if err != nil {
		return errors.NewClientError(errors.ErrMissingFieldMappings, http.StatusPreconditionFailed)
	}
	var mappings []fieldmodel.FieldMappingConfig
	if err := yaml.Unmarshal(content, &mappings); err != nil {
		return errors.NewClientError(errors.ErrMissingFieldMappings, http.StatusPreconditionFailed)
	}
	if len(mappings) == 0 {
		return errors.NewClientError(errors.ErrMissingFieldMappings, http.StatusPreconditionFailed)
	}
	if err := s.store.UpsertCustomFields(mappings); err != nil {
		return errors.NewServerError(errors.SAVE_CUSTOM_FIELDS, err)
	}
	return nil
}

// Sync reconciles one import batch. The feed is treated as current truth: the
// store is mutated until it matches, including deactivating residents that
// dropped out. Phases run strictly in order and each re-reads the state it
// needs, so later phases observe the writes of earlier ones.
func (s *ResidentSyncService) Sync(records []model.FeedRecord) (*model.SyncResult, error) {
	logger := log.GetLogger()

	if !s.initialized {
		return nil, errors.NewClientError(errors.ErrInitRequired, http.StatusPreconditionFailed)
	}

	if err := s.store.BeginImport(s.cfg.InstanceID); err != nil {
		if conflict, ok := errors.IsImportConflict(err); ok {
			logger.Info("Sync rejected, a reconciliation run is in flight",
				log.String("startedAt", conflict.StartedAt.Format(time.RFC3339)))
			s.audit(log.ActionImportConflict, nil)
			return nil, conflict
		}
		return nil, errors.NewServerError(errors.IMPORT_MARKER, err)
	}
	defer func() {
		if err := s.store.ReleaseImport(s.cfg.InstanceID); err != nil {
			logger.Error("Failed to release the import marker", log.Error(err))
		}
	}()

	s.audit(log.ActionImportStarted, map[string]interface{}{"records": len(records)})
	logger.Info("Reconciliation run started", log.Int("records", len(records)))

	result, err := s.runPipeline(filterIdentifiable(records))
	if err != nil {
		logger.Error("Reconciliation run failed", log.Error(err))
		s.audit(log.ActionImportFailed, map[string]interface{}{"error": err.Error()})
		return nil, err
	}

	s.resultCache.Clear()
	s.resultCache.Set(lastResultCacheKey, result)
	s.audit(log.ActionImportCompleted, map[string]interface{}{"success": result.Success})
	logger.Info("Reconciliation run completed", log.Bool("success", result.Success))
	return result, nil
}

// LastResult returns the outcome of the most recent completed run, if one is
// still cached.
func (s *ResidentSyncService) LastResult() (*model.SyncResult, bool) {
	value, ok := s.resultCache.Get(lastResultCacheKey)
	if !ok {
		return nil, false
	}
	result, ok := value.(*model.SyncResult)
	return result, ok
}

// runPipeline executes the ordered reconciliation phases over a batch whose
// records all carry a well-formed external id.
func (s *ResidentSyncService) runPipeline(records []model.FeedRecord) (*model.SyncResult, error) {
	var recordErrors []string

	if err := s.saveUnits(records); err != nil {
		return nil, err
	}
	unitsByTitle, err := s.loadUnitsByTitle()
	if err != nil {
		return nil, err
	}

	profiles, err := s.store.ProfilesByCommunity(s.cfg.CommunityID)
	if err != nil {
		return nil, errors.NewServerError(errors.FETCH_PROFILES, err)
	}
	profileIDs := make([]int64, 0, len(profiles))
	for _, profile := range profiles {
		if id, ok := utils.ParseExternalID(profile.ExternalID); ok {
			profileIDs = append(profileIDs, id)
		}
	}
	newRecords, existingRecords := partitionRecords(records, newOrderedSet(profileIDs))

	createErrors, err := s.createResidents(newRecords, records, unitsByTitle)
	if err != nil {
		return nil, err
	}
	recordErrors = append(recordErrors, createErrors...)
	s.audit(log.ActionCreateResidents, map[string]interface{}{"records": len(newRecords)})

	updateErrors, err := s.updateResidents(existingRecords, unitsByTitle)
	if err != nil {
		return nil, err
	}
	recordErrors = append(recordErrors, updateErrors...)
	s.audit(log.ActionUpdateResidents, map[string]interface{}{"records": len(existingRecords)})

	if err := s.syncCustomFields(records, unitsByTitle); err != nil {
		return nil, err
	}
	s.audit(log.ActionSyncCustomFields, nil)

	if err := s.assignRoleGroups(records); err != nil {
		return nil, err
	}
	s.audit(log.ActionAssignRoleGroups, nil)

	if err := s.deactivateResidents(records, unitsByTitle); err != nil {
		return nil, err
	}
	s.audit(log.ActionDeactivateResidents, nil)

	result := &model.SyncResult{Success: len(recordErrors) == 0, SyncComplete: true}
	if len(recordErrors) > 0 {
		result.Errors = strings.Join(recordErrors, "; ")
	}
	return result, nil
}

// saveUnits upserts every distinct unit title the batch mentions.
func (s *ResidentSyncService) saveUnits(records []model.FeedRecord) error {
	seen := make(map[string]bool)
	titles := make([]string, 0)
	for _, record := range records {
		title := strings.TrimSpace(record.UnitTitle)
		if title == "" || seen[title] {
			continue
		}
		seen[title] = true
		titles = append(titles, title)
	}
	if err := s.store.UpsertUnits(s.cfg.CommunityID, titles); err != nil {
		return errors.NewServerError(errors.SAVE_UNITS, err)
	}
	return nil
}

func (s *ResidentSyncService) loadUnitsByTitle() (map[string]int64, error) {
	units, err := s.store.UnitsByCommunity(s.cfg.CommunityID)
	if err != nil {
		return nil, errors.NewServerError(errors.FETCH_UNITS, err)
	}
	unitsByTitle := make(map[string]int64, len(units))
	for _, unit := range units {
		unitsByTitle[unit.Title] = unit.ID
	}
	return unitsByTitle, nil
}

func (s *ResidentSyncService) audit(actionID string, data map[string]interface{}) {
	log.GetLogger().Audit(log.AuditEvent{
		RecordedAt:    time.Now().Format(time.RFC3339),
		InitiatorID:   "system",
		InitiatorType: log.InitiatorTypeSystem,
		TargetID:      strconv.FormatInt(s.cfg.InstanceID, 10),
		TargetType:    log.TargetTypeImport,
		ActionID:      actionID,
		Data:          data,
	})
}

func recordError(externalID, detail string) string {
	return fmt.Sprintf("record %s: %s", externalID, detail)
}
