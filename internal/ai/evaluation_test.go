package ai

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

func sampleEvaluations() *Evaluations {
	return &Evaluations{Items: []*Evaluation{
		{
			CompanyName:         "Acme",
			WebsiteURL:          "acme.com",
			WebsiteQualityScore: 72,
			BrandingNeed:        LevelHigh,
			OnlinePresenceScore: 40,
			BrandValueMatch:     LevelMedium,
			Qualified:           true,
			Reasons:             []string{"Strong need"},
		},
		{
			CompanyName:     "Globex",
			WebsiteURL:      "globex.io",
			BrandingNeed:    LevelLow,
			BrandValueMatch: LevelLow,
			Reasons:         []string{"Already strong brand"},
		},
		{
			CompanyName: "Initech",
			WebsiteURL:  "initech.net",
			Reasons:     []string{"Evaluation failed: LLM evaluation failed: timeout"},
			Error:       "LLM evaluation failed: timeout",
		},
	}}
}

func TestReportByQualification(t *testing.T) {
	report := sampleEvaluations().ReportByQualification()

	if len(report["qualified"]) != 1 {
		t.Fatalf("expected 1 qualified entry, got %d", len(report["qualified"]))
	}
	if len(report["unqualified"]) != 1 {
		t.Fatalf("expected 1 unqualified entry, got %d", len(report["unqualified"]))
	}
	if len(report["failed"]) != 1 {
		t.Fatalf("expected 1 failed entry, got %d", len(report["failed"]))
	}

	qualified := report["qualified"][0]
	if qualified["company_name"] != "Acme" || qualified["website_quality_score"] != "72" {
		t.Fatalf("unexpected qualified entry: %v", qualified)
	}

	failed := report["failed"][0]
	if failed["error"] != "LLM evaluation failed: timeout" {
		t.Fatalf("unexpected failed entry: %v", failed)
	}
}

func TestEvaluationsCounts(t *testing.T) {
	evals := sampleEvaluations()

	if evals.Len() != 3 {
		t.Fatalf("expected 3 evaluations, got %d", evals.Len())
	}
	if evals.QualifiedCount() != 1 {
		t.Fatalf("expected 1 qualified, got %d", evals.QualifiedCount())
	}
	if evals.FailedCount() != 1 {
		t.Fatalf("expected 1 failed, got %d", evals.FailedCount())
	}
}

func TestEvaluationsToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "evaluations.json")

	if err := sampleEvaluations().ToFile(path); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	var decoded []*Evaluation
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}

	if len(decoded) != 3 {
		t.Fatalf("expected 3 records, got %d", len(decoded))
	}
	if decoded[0].CompanyName != "Acme" || decoded[2].Error == "" {
		t.Fatalf("unexpected order or content: %+v", decoded)
	}
}

func TestEvaluationsDumpToTmpFile(t *testing.T) {
	name, err := sampleEvaluations().DumpToTmpFile()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer os.Remove(name)

	data, err := os.ReadFile(name)
	if err != nil {
		t.Fatal(err)
	}

	var decoded []*Evaluation
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("dump is not valid JSON: %v", err)
	}
}
