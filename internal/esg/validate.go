package esg

import (
	"strings"

	"github.com/pulseesg/pulse/internal/errors"
)

// Validation messages shown next to the offending form.
const (
	MsgCompanyFieldsRequired = "All fields are required"
	MsgAnalyzeInputRequired  = "Please select a company and enter ESG-related news"
)

// Normalize trims surrounding whitespace from every field.
func (in CompanyInput) Normalize() CompanyInput {
	return CompanyInput{
		Name:    strings.TrimSpace(in.Name),
		Sector:  strings.TrimSpace(in.Sector),
		Country: strings.TrimSpace(in.Country),
	}
}

// Validate rejects the input if any field is blank.
func (in CompanyInput) Validate() error {
	n := in.Normalize()
	for _, f := range []struct{ name, value string }{
		{"name", n.Name},
		{"sector", n.Sector},
		{"country", n.Country},
	} {
		if f.value == "" {
			return errors.Validation(f.name, MsgCompanyFieldsRequired)
		}
	}
	return nil
}

// Validate rejects a request without a company or without text.
func (r AnalyzeRequest) Validate() error {
	if r.CompanyID <= 0 {
		return errors.Validation("companyId", MsgAnalyzeInputRequired)
	}
	if strings.TrimSpace(r.NewsText) == "" {
		return errors.Validation("newsText", MsgAnalyzeInputRequired)
	}
	return nil
}
