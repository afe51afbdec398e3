package lead

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
)

// Lead is a single candidate company to evaluate. Fields beyond the
// company name and website URL are optional and may be empty.
type Lead struct {
	CompanyName  string   `json:"company_name"`
	WebsiteURL   string   `json:"website_url"`
	Industry     string   `json:"industry,omitempty"`
	Location     string   `json:"location,omitempty"`
	SocialLinks  []string `json:"social_links,omitempty"`
	HomepageText string   `json:"homepage_text,omitempty"`
	AboutText    string   `json:"about_text,omitempty"`
}

// Leads is the input envelope. Model, when set, overrides the configured
// model for the whole run.
type Leads struct {
	Items []*Lead `json:"leads"`
	Model string  `json:"model,omitempty"`
}

// Validate checks the required fields of a lead.
func (l *Lead) Validate() error {
	if l == nil {
		return errors.New("lead is nil")
	}
	if strings.TrimSpace(l.CompanyName) == "" {
		return errors.New("company_name is required")
	}
	if strings.TrimSpace(l.WebsiteURL) == "" {
		return errors.New("website_url is required")
	}
	return nil
}

func (l *Leads) Len() int {
	if l == nil {
		return 0
	}
	return len(l.Items)
}

// FromFile reads a leads envelope from a JSON file.
func FromFile(path string) (*Leads, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open leads file: %w", err)
	}
	defer file.Close()

	var leads Leads
	if err := json.NewDecoder(file).Decode(&leads); err != nil {
		return nil, fmt.Errorf("decode leads file %q: %w", path, err)
	}

	if len(leads.Items) == 0 {
		return nil, fmt.Errorf("leads file %q contains no leads", path)
	}

	return &leads, nil
}
