package jsonld

// Severity classifies a validation finding.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Finding is one validation result for a document key.
type Finding struct {
	Severity Severity `json:"severity"`
	Key      string   `json:"key"`
	Message  string   `json:"message"`
}

// Validate checks the document against schema.org Organization expectations.
// Hard errors (the document is unusable) come first in a fixed check order,
// then the best-practice warnings in theirs. An empty list means a clean
// document.
func Validate(doc *Document) []Finding {
	findings := []Finding{}
	if doc == nil {
		doc = &Document{}
	}

	if doc.Name == "" {
		findings = append(findings, Finding{SeverityError, "name", "organization name is required"})
	}
	if doc.Type == "" {
		findings = append(findings, Finding{SeverityError, "@type", "@type is required"})
	}
	if doc.Context == "" {
		findings = append(findings, Finding{SeverityError, "@context", "@context is required"})
	}

	if doc.URL == "" {
		findings = append(findings, Finding{SeverityWarning, "url", "url recommended for entity disambiguation"})
	}
	if doc.Logo == nil {
		findings = append(findings, Finding{SeverityWarning, "logo", "logo recommended for rich results"})
	}
	if len(doc.SameAs) == 0 {
		findings = append(findings, Finding{SeverityWarning, "sameAs", "sameAs links strengthen entity identity"})
	}
	if doc.Description == "" {
		findings = append(findings, Finding{SeverityWarning, "description", "description recommended"})
	}
	if doc.Address == nil {
		findings = append(findings, Finding{SeverityWarning, "address", "address recommended for local presence"})
	}

	return findings
}

// Errors filters the hard errors out of a findings list.
func Errors(findings []Finding) []Finding {
	return bySeverity(findings, SeverityError)
}

// Warnings filters the soft warnings out of a findings list.
func Warnings(findings []Finding) []Finding {
	return bySeverity(findings, SeverityWarning)
}

func bySeverity(findings []Finding, severity Severity) []Finding {
	var out []Finding
	for _, f := range findings {
		if f.Severity == severity {
			out = append(out, f)
		}
	}
	return out
}
