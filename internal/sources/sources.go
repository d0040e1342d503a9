// Package sources defines the closed set of ECMS search variants the scraper knows how to read.
package sources

import (
	"net/url"
	"strings"
)

// DefaultBaseURL is the ECMS portal root all search endpoints hang off.
const DefaultBaseURL = "https://www.ecms.penndot.pa.gov/ECMS/"

// Source identifies one of the four public ECMS search variants by its display name.
type Source string

const (
	// Agreements is the executed legal agreements search
	Agreements Source = "Executed Legal Agreements"
	// Supplements is the executed legal supplements search
	Supplements Source = "Executed Legal Supplements"
	// WorkOrders is the executed legal work orders search
	WorkOrders Source = "Executed Legal Work Orders"
	// WorkOrderAmendments is the executed work order amendments search
	WorkOrderAmendments Source = "Executed Legal Work Order Amendments"
)

// Config holds the per-source extraction policy.
type Config struct {
	URLSuffix      string
	AgreementLabel string
	CostLabel      string
	Description    string
	HasSupplement  bool
	HasWorkOrder   bool
	HasAmendment   bool
}

// All returns the known sources in display order.
func All() []Source {
	return []Source{Agreements, Supplements, WorkOrders, WorkOrderAmendments}
}

// Lookup resolves a display name to a Source. Matching is exact after trimming.
func Lookup(name string) (Source, bool) {
	s := Source(strings.TrimSpace(name))
	return s, s.Valid()
}

// Valid reports whether s is one of the four known sources.
func (s Source) Valid() bool {
	switch s {
	case Agreements, Supplements, WorkOrders, WorkOrderAmendments:
		return true
	default:
		return false
	}
}

// Config returns the extraction policy for s. Unknown sources yield the zero Config.
func (s Source) Config() Config {
	switch s {
	case Agreements:
		return Config{
			URLSuffix:      "SVLGLSearch?action=SearchPublicAgr",
			AgreementLabel: "Project Specific Agreement",
			CostLabel:      "Maximum Agreement Cost",
			Description:    "Standard agreement documents",
		}
	case Supplements:
		return Config{
			URLSuffix:      "SVLGLSearch?action=SearchPublicSuppl",
			AgreementLabel: "Project Specific Agreement",
			CostLabel:      "Supplemental Agreement Cost",
			Description:    "Supplements to prior agreements (long runtime beyond two years)",
			HasSupplement:  true,
		}
	case WorkOrders:
		return Config{
			URLSuffix:      "SVLGLSearch?action=SearchPublicWO",
			AgreementLabel: "Open End / Project Specific Agreement",
			CostLabel:      "Maximum Work Order Cost",
			Description:    "Work orders tied to agreements",
			HasWorkOrder:   true,
		}
	case WorkOrderAmendments:
		return Config{
			URLSuffix:      "SVLGLSearch?action=SearchPublicWOA",
			AgreementLabel: "Open End / Project Specific Agreement",
			CostLabel:      "Work Order Amendment Cost",
			Description:    "Amendments to prior work orders",
			HasWorkOrder:   true,
			HasAmendment:   true,
		}
	default:
		return Config{}
	}
}

// SearchURL joins the source's endpoint suffix onto baseURL.
func (s Source) SearchURL(baseURL string) string {
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}
	return baseURL + s.Config().URLSuffix
}

// FileStem returns the name used for exported files, e.g. "Executed_Legal_Agreements".
func (s Source) FileStem() string {
	return strings.ReplaceAll(string(s), " ", "_")
}

// ResolveLink turns a listing href into an absolute detail address rooted at baseURL.
// Returns false when href is empty, unparsable, or does not resolve to an http(s) URL.
func ResolveLink(baseURL, href string) (string, bool) {
	href = strings.TrimSpace(href)
	if href == "" {
		return "", false
	}

	base, err := url.Parse(baseURL)
	if err != nil || base.Scheme == "" || base.Host == "" {
		return "", false
	}

	ref, err := url.Parse(href)
	if err != nil {
		return "", false
	}

	resolved := base.ResolveReference(ref)
	if resolved.Scheme != "http" && resolved.Scheme != "https" {
		return "", false
	}
	return resolved.String(), true
}
