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
	"sort"

	"github.com/wso2/identity-resident-data-service/internal/residents/model"
	"github.com/wso2/identity-resident-data-service/internal/system/utils"
)

// orderedSet is a sorted slice of identifiers with binary-search membership
// and removal. It is built fresh for each sync run; nothing survives the call.
type orderedSet struct {
	ids []int64
}

func newOrderedSet(ids []int64) *orderedSet {
	sorted := make([]int64, len(ids))
	copy(sorted, ids)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
	deduped := sorted[:0]
	for i, id := range sorted {
		if i == 0 || id != deduped[len(deduped)-1] {
			deduped = append(deduped, id)
		}
	}
	return &orderedSet{ids: deduped}
}

func (s *orderedSet) contains(id int64) bool {
	i := sort.Search(len(s.ids), func(i int) bool { return s.ids[i] >= id })
	return i < len(s.ids) && s.ids[i] == id
}

// remove deletes id from the set, reporting whether it was present.
func (s *orderedSet) remove(id int64) bool {
	i := sort.Search(len(s.ids), func(i int) bool { return s.ids[i] >= id })
	if i >= len(s.ids) || s.ids[i] != id {
		return false
	}
	s.ids = append(s.ids[:i], s.ids[i+1:]...)
	return true
}

func (s *orderedSet) size() int {
	return len(s.ids)
}

// partitionRecords splits a batch into records whose external id matches a
// stored profile (existing) and those that do not (new). A matched id is
// removed from the set so a batch listing the same id twice cannot match the
// same profile twice; the duplicate classifies as new. Batch order is
// preserved within each partition.
func partitionRecords(records []model.FeedRecord, profileIDs *orderedSet) (newRecords, existingRecords []model.FeedRecord) {
	for _, record := range records {
		id, ok := utils.ParseExternalID(record.ExternalID)
		if !ok {
			continue
		}
		if profileIDs.remove(id) {
			existingRecords = append(existingRecords, record)
		} else {
			newRecords = append(newRecords, record)
		}
	}
	return newRecords, existingRecords
}

// filterIdentifiable drops records whose external id is not a well-formed
// positive integer. Such rows cannot be matched or created safely.
func filterIdentifiable(records []model.FeedRecord) []model.FeedRecord {
	usable := make([]model.FeedRecord, 0, len(records))
	for _, record := range records {
		if _, ok := utils.ParseExternalID(record.ExternalID); ok {
			usable = append(usable, record)
		}
	}
	return usable
}
