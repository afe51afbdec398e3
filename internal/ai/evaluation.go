package ai

import (
	"encoding/json"
	"os"
	"strconv"
)

// Evaluations is the ordered output of a screening run: one item per
// input lead, in input order.
type Evaluations struct {
	Items []*Evaluation
}

func (e *Evaluations) Len() int {
	if e == nil {
		return 0
	}
	return len(e.Items)
}

// QualifiedCount returns the number of qualified evaluations.
func (e *Evaluations) QualifiedCount() int {
	count := 0
	for _, item := range e.Items {
		if item.Qualified {
			count++
		}
	}
	return count
}

// FailedCount returns the number of evaluations that carry an error.
func (e *Evaluations) FailedCount() int {
	count := 0
	for _, item := range e.Items {
		if item.Error != "" {
			count++
		}
	}
	return count
}

// ToFile writes the evaluations as an indented JSON array.
func (e *Evaluations) ToFile(path string) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	return enc.Encode(e.Items)
}

// DumpToTmpFile writes the evaluations to a temporary JSON file and
// returns its name.
func (e *Evaluations) DumpToTmpFile() (string, error) {
	file, err := os.CreateTemp("", "evaluations_*.json")
	if err != nil {
		return "", err
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	if err := enc.Encode(e.Items); err != nil {
		return "", err
	}
	return file.Name(), nil
}

// ReportByQualification groups evaluation summaries into qualified,
// unqualified and failed buckets.
func (e *Evaluations) ReportByQualification() map[string][]map[string]string {
	report := make(map[string][]map[string]string)

	for _, item := range e.Items {
		entry := map[string]string{
			"company_name":          item.CompanyName,
			"website_url":           item.WebsiteURL,
			"website_quality_score": strconv.Itoa(item.WebsiteQualityScore),
			"online_presence_score": strconv.Itoa(item.OnlinePresenceScore),
			"branding_need":         item.BrandingNeed,
			"brand_value_match":     item.BrandValueMatch,
		}

		if len(item.Reasons) > 0 {
			entry["reason"] = item.Reasons[0]
		}

		bucket := "unqualified"
		switch {
		case item.Error != "":
			bucket = "failed"
			entry["error"] = item.Error
		case item.Qualified:
			bucket = "qualified"
		}

		report[bucket] = append(report[bucket], entry)
	}

	return report
}
