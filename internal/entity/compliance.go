package entity

import "strings"

type ComplianceTag string

const (
	TagNIS2     ComplianceTag = "NIS2"
	TagGDPR     ComplianceTag = "GDPR"
	TagISO27001 ComplianceTag = "ISO27001"
	TagDORA     ComplianceTag = "DORA"
	TagSOC2     ComplianceTag = "SOC2"
	TagHIPAA    ComplianceTag = "HIPAA"
)

var complianceVocabulary = map[string]ComplianceTag{
	"NIS2":     TagNIS2,
	"GDPR":     TagGDPR,
	"ISO27001": TagISO27001,
	"DORA":     TagDORA,
	"SOC2":     TagSOC2,
	"HIPAA":    TagHIPAA,
}

// FilterComplianceTags keeps recognised tags in input order, dropping unknown
// values and duplicates.
func FilterComplianceTags(tags []string) []ComplianceTag {
	out := make([]ComplianceTag, 0, len(tags))
	seen := make(map[ComplianceTag]bool, len(tags))
	for _, raw := range tags {
		tag, ok := complianceVocabulary[strings.TrimSpace(raw)]
		if !ok || seen[tag] {
			continue
		}
		seen[tag] = true
		out = append(out, tag)
	}
	return out
}
