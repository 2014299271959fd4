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
	"fmt"
	"strings"

	"github.com/poiesic/procurit/core"
)

// verificationSchema is embedded verbatim in every verification prompt so
// providers return a machine-parseable assessment.
const verificationSchema = `{
    "name": "verified company name",
    "location": "verified location",
    "confidence_score": 0.0-1.0,
    "certifications": ["list", "of", "certifications"],
    "specialties": ["list", "of", "specialties"],
    "company_size": "Small/Medium/Large/Enterprise",
    "verification_status": "verified/unverified/pending",
    "contact_info": {"email": "", "phone": "", "address": ""},
    "description": "brief company description",
    "rating": 0.0-5.0 or null
}`

// buildVerificationPrompt renders the assessment request for one candidate.
// The product and requirements give the model procurement context without
// leaking anything beyond the search results themselves.
func buildVerificationPrompt(candidate core.Candidate, product string, requirements []string) string {
	data, err := json.MarshalIndent(candidate, "", "  ")
	if err != nil {
		data = []byte(fmt.Sprintf("%+v", candidate))
	}

	var b strings.Builder
	b.WriteString("Analyze the following supplier information and provide a structured assessment:\n\n")
	b.WriteString("Supplier Data: ")
	b.Write(data)
	b.WriteString("\n")
	fmt.Fprintf(&b, "Search Context: Product: %s, Requirements: %s\n\n", product, strings.Join(requirements, ", "))
	b.WriteString("Please provide a JSON response with the following structure:\n")
	b.WriteString(verificationSchema)
	b.WriteString("\n\nFocus on:\n")
	b.WriteString("1. Data accuracy and consistency\n")
	b.WriteString("2. Extracting relevant certifications (ISO, industry-specific)\n")
	b.WriteString("3. Determining company size indicators\n")
	b.WriteString("4. Assessing data reliability\n")
	b.WriteString("5. Identifying key specialties\n")
	return b.String()
}
