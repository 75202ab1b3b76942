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

package handler

import (
	"io"
	"net/http"
	"time"

	"github.com/wso2/identity-resident-data-service/internal/residents/model"
	"github.com/wso2/identity-resident-data-service/internal/residents/provider"
	rdscontext "github.com/wso2/identity-resident-data-service/internal/system/context"
	"github.com/wso2/identity-resident-data-service/internal/system/errors"
	"github.com/wso2/identity-resident-data-service/internal/system/security"
	"github.com/wso2/identity-resident-data-service/internal/system/utils"
)

// ResidentSyncHandler accepts import batches over HTTP.
type ResidentSyncHandler struct{}

func NewResidentSyncHandler() *ResidentSyncHandler {
	return &ResidentSyncHandler{}
}

// SyncResidents handles POST requests carrying one feed record or an array
// of them. A run already in flight answers 409 with its start time.
func (h *ResidentSyncHandler) SyncResidents(w http.ResponseWriter, r *http.Request) {
	if err := security.AuthnRequest(r, "residents:sync"); err != nil {
		utils.HandleError(w, err)
		return
	}

	traceID := rdscontext.GetOrGenerateTraceID(r.Context())
	body, err := io.ReadAll(r.Body)
	if err != nil {
		utils.HandleError(w, errors.NewClientErrorWithTraceID(errors.ErrInvalidRequestFormat, http.StatusBadRequest, traceID))
		return
	}
	records, err := model.DecodeBatch(body)
	if err != nil {
		utils.HandleError(w, errors.NewClientErrorWithTraceID(errors.ErrInvalidRequestFormat, http.StatusBadRequest, traceID))
		return
	}

	syncProvider := provider.NewResidentSyncProvider()
	syncService, err := syncProvider.GetResidentSyncService()
	if err != nil {
		utils.HandleError(w, err)
		return
	}

	result, err := syncService.Sync(records)
	if err != nil {
		if conflict, ok := errors.IsImportConflict(err); ok {
			utils.WriteJSONResponse(w, http.StatusConflict, struct {
				Code      string `json:"code"`
				Message   string `json:"message"`
				StartedAt string `json:"startedAt"`
			}{
				Code:      errors.ErrImportAlreadyRunning.Code,
				Message:   errors.ErrImportAlreadyRunning.Message,
				StartedAt: conflict.StartedAt.Format(time.RFC3339),
			})
			return
		}
		utils.HandleError(w, err)
		return
	}
	utils.WriteJSONResponse(w, http.StatusOK, result)
}

// GetSyncStatus reports the outcome of the most recent completed run.
func (h *ResidentSyncHandler) GetSyncStatus(w http.ResponseWriter, r *http.Request) {
	if err := security.AuthnRequest(r, "residents:sync"); err != nil {
		utils.HandleError(w, err)
		return
	}

	syncProvider := provider.NewResidentSyncProvider()
	syncService, err := syncProvider.GetResidentSyncService()
	if err != nil {
		utils.HandleError(w, err)
		return
	}

	result, ok := syncService.LastResult()
	if !ok {
		utils.WriteJSONResponse(w, http.StatusNotFound, struct {
			Message string `json:"message"`
		}{Message: "No completed reconciliation run is on record."})
		return
	}
	utils.WriteJSONResponse(w, http.StatusOK, result)
}
