// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package enrich

import (
	"encoding/json"
	"strings"

	"github.com/poiesic/procurit/core"
)

const (
	// defaultConfidence applies when a provider omits the confidence field.
	defaultConfidence = 0.5

	// fallbackConfidence marks records no provider could verify.
	fallbackConfidence = 0.3
)

// Payload is the structured assessment embedded in a provider response.
// Every field is optional; absent fields fall back to candidate data or
// defaults.
type Payload struct {
	Name           string            `json:"name"`
	Location       string            `json:"location"`
	Confidence     *float64          `json:"confidence_score"`
	Certifications []string          `json:"certifications"`
	Specialties    []string          `json:"specialties"`
	CompanySize    string            `json:"company_size"`
	Status         string            `json:"verification_status"`
	ContactInfo    map[string]string `json:"contact_info"`
	Description    string            `json:"description"`
	Rating         *float64          `json:"rating"`
}

// DecodeObject unmarshals the JSON object embedded in a raw provider
// response into v. The first '{' through the last '}' is taken as the
// object, code fences are stripped, and common key-quoting mistakes are
// repaired.
func DecodeObject(response string, v any) error {
	text := strings.TrimSpace(response)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	text = strings.TrimSpace(text)

	first := strings.Index(text, "{")
	last := strings.LastIndex(text, "}")
	if first < 0 || last <= first {
		return ErrNoPayload
	}
	return json.Unmarshal([]byte(repairJSON(text[first:last+1])), v)
}

// ParsePayload extracts the structured assessment from a raw provider
// response. A response with no parseable object yields the zero Payload;
// parsing never hard-fails.
func ParsePayload(response string) Payload {
	var payload Payload
	if err := DecodeObject(response, &payload); err != nil {
		return Payload{}
	}
	return payload
}

// supplierFromPayload merges a parsed assessment over the candidate's own
// data. Candidate fields survive wherever the payload is silent.
func supplierFromPayload(candidate core.Candidate, payload Payload) core.VerifiedSupplier {
	supplier := core.VerifiedSupplier{Candidate: candidate}

	if payload.Name != "" {
		supplier.Name = payload.Name
	}
	if payload.Location != "" {
		supplier.Location = payload.Location
	}
	if payload.Description != "" {
		supplier.Description = payload.Description
	}

	supplier.ConfidenceScore = defaultConfidence
	if payload.Confidence != nil {
		supplier.ConfidenceScore = clamp01(*payload.Confidence)
	}

	supplier.Certifications = payload.Certifications
	if supplier.Certifications == nil {
		supplier.Certifications = []string{}
	}
	supplier.Specialties = payload.Specialties
	if supplier.Specialties == nil {
		supplier.Specialties = []string{}
	}
	supplier.ContactInfo = payload.ContactInfo
	if supplier.ContactInfo == nil {
		supplier.ContactInfo = map[string]string{}
	}

	supplier.CompanySize = payload.CompanySize
	supplier.Status = core.ParseStatus(payload.Status)
	supplier.Rating = payload.Rating

	return supplier
}

// fallbackSupplier builds the deterministic record used when every provider
// failed: candidate fields carried over, low confidence, unverified.
func fallbackSupplier(candidate core.Candidate) core.VerifiedSupplier {
	return core.VerifiedSupplier{
		Candidate:       candidate,
		ConfidenceScore: fallbackConfidence,
		Certifications:  []string{},
		Specialties:     []string{},
		Status:          core.StatusUnverified,
		ContactInfo:     map[string]string{},
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
