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

package errors

const errorPrefix = "RDS-"

var (
	// Server error codes

	DB_CLIENT_INIT = ErrorMessage{
		Code:    errorPrefix + "15001",
		Message: "Error while initializing the database client.",
	}

	FETCH_ACCOUNTS = ErrorMessage{
		Code:    errorPrefix + "15002",
		Message: "Error while fetching accounts.",
	}

	ADD_ACCOUNTS = ErrorMessage{
		Code:    errorPrefix + "15003",
		Message: "Error while adding accounts.",
	}

	UPDATE_ACCOUNTS = ErrorMessage{
		Code:    errorPrefix + "15004",
		Message: "Error while updating accounts.",
	}

	FETCH_PROFILES = ErrorMessage{
		Code:    errorPrefix + "15005",
		Message: "Error while fetching profiles.",
	}

	ADD_PROFILES = ErrorMessage{
		Code:    errorPrefix + "15006",
		Message: "Error while adding profiles.",
	}

	UPDATE_PROFILES = ErrorMessage{
		Code:    errorPrefix + "15007",
		Message: "Error while updating profiles.",
	}

	DELETE_PROFILES = ErrorMessage{
		Code:    errorPrefix + "15008",
		Message: "Error while deactivating profiles.",
	}

	FETCH_UNITS = ErrorMessage{
		Code:    errorPrefix + "15009",
		Message: "Error while fetching units.",
	}

	SAVE_UNITS = ErrorMessage{
		Code:    errorPrefix + "15010",
		Message: "Error while saving units.",
	}

	FETCH_UNIT_PROFILES = ErrorMessage{
		Code:    errorPrefix + "15011",
		Message: "Error while fetching unit memberships.",
	}

	SAVE_UNIT_PROFILES = ErrorMessage{
		Code:    errorPrefix + "15012",
		Message: "Error while saving unit memberships.",
	}

	DELETE_UNIT_PROFILES = ErrorMessage{
		Code:    errorPrefix + "15013",
		Message: "Error while removing unit memberships.",
	}

	FETCH_ROLE_GROUPS = ErrorMessage{
		Code:    errorPrefix + "15014",
		Message: "Error while fetching role groups.",
	}

	SAVE_ROLE_GROUPS = ErrorMessage{
		Code:    errorPrefix + "15015",
		Message: "Error while saving role group memberships.",
	}

	DELETE_ROLE_GROUPS = ErrorMessage{
		Code:    errorPrefix + "15016",
		Message: "Error while removing role group memberships.",
	}

	FETCH_CUSTOM_FIELDS = ErrorMessage{
		Code:    errorPrefix + "15017",
		Message: "Error while fetching custom fields.",
	}

	SAVE_CUSTOM_FIELDS = ErrorMessage{
		Code:    errorPrefix + "15018",
		Message: "Error while saving custom field values.",
	}

	FETCH_CONTRACTS = ErrorMessage{
		Code:    errorPrefix + "15019",
		Message: "Error while fetching contract records.",
	}

	SAVE_CONTRACTS = ErrorMessage{
		Code:    errorPrefix + "15020",
		Message: "Error while saving contract records.",
	}

	IMPORT_MARKER = ErrorMessage{
		Code:    errorPrefix + "15021",
		Message: "Error while accessing the import marker.",
	}

	IMPORT_INIT = ErrorMessage{
		Code:    errorPrefix + "15022",
		Message: "Error while initializing the resident import.",
	}

	GRANT_PERMISSIONS = ErrorMessage{
		Code:    errorPrefix + "15024",
		Message: "Error while granting auth permissions to role groups.",
	}

	// Client error codes

	ErrImportAlreadyRunning = ErrorMessage{
		Code:    errorPrefix + "11001",
		Message: "An import is already running for this instance.",
	}

	ErrMissingRoleGroups = ErrorMessage{
		Code:        errorPrefix + "11002",
		Message:     "Required role groups are missing.",
		Description: "All role groups Owners, Residents and Tenants must exist before running imports.",
	}

	ErrMissingFieldMappings = ErrorMessage{
		Code:        errorPrefix + "11003",
		Message:     "Custom field mapping configuration is missing.",
		Description: "At least one custom field mapping must be configured before running imports.",
	}

	ErrMissingAuthActions = ErrorMessage{
		Code:        errorPrefix + "11004",
		Message:     "Auth login actions are missing.",
		Description: "The login, logout and default auth actions must exist before running imports.",
	}

	ErrInitRequired = ErrorMessage{
		Code:    errorPrefix + "11005",
		Message: "Init must complete successfully before sync is called.",
	}

	ErrInvalidRequestFormat = ErrorMessage{
		Code:    errorPrefix + "11006",
		Message: "Invalid request body.",
	}

	UN_AUTHORIZED = ErrorMessage{
		Code:    errorPrefix + "11007",
		Message: "Unauthorized request.",
	}

	FORBIDDEN = ErrorMessage{
		Code:        errorPrefix + "11008",
		Message:     "Forbidden.",
		Description: "The authenticated principal is not allowed to perform this operation.",
	}
)
