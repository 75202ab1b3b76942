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

// CustomField is an extensible attribute definition attached to an entity
// type. SourceField names the upstream feed field whose value populates it;
// fields without a source are maintained locally and never touched by sync.
type CustomField struct {
	ID           int64  `json:"id"`
	EntityTypeID int64  `json:"id_entity_type"`
	FieldTypeID  int64  `json:"id_field_type"`
	TagLabel     string `json:"tag_label"`
	SourceField  string `json:"source_field,omitempty"`
}

// FieldMappingConfig is one entry of the custom-field mapping file.
type FieldMappingConfig struct {
	Field     string `yaml:"field" json:"field"`
	TagLabel  string `yaml:"tag_label" json:"tag_label"`
	FieldType int64  `yaml:"field_type" json:"field_type"`
	Entity    int64  `yaml:"entity" json:"entity"`
}

// MetadataValue is a stored value of a custom field on one object.
type MetadataValue struct {
	ID           int64  `json:"id"`
	FieldID      int64  `json:"id_field"`
	EntityTypeID int64  `json:"id_entity_type"`
	ObjectID     int64  `json:"id_object"`
	Value        string `json:"value"`
}
