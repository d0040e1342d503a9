package extract

import (
	"regexp"
	"strings"
	"time"

	"github.com/jonathan/ecms-scraper/internal/sources"
	"github.com/jonathan/ecms-scraper/internal/types"
)

// Labels that are the same on every detail page.
const (
	LabelInitiatingOrg = "Initiating Organization"
	LabelConsultant    = "Consultant - FID"
)

var (
	agreementPattern  = regexp.MustCompile(`E\d{5}`)
	supplementPattern = regexp.MustCompile(`Supplement #\s*(\d+)`)
	workOrderPattern  = regexp.MustCompile(`Work Order #\s*(\d+)`)
	amendmentPattern  = regexp.MustCompile(`Amendment #\s*(\d+)`)

	engineeringPrefix = regexp.MustCompile(`(?i)^Engineering\s*`)
	federalIDPattern  = regexp.MustCompile(`\b\d{2}-\d{7}\b|\b\d{9}\b`)

	consultantRowPattern = regexp.MustCompile(`(?i)Consultant.*FID`)
	paymentRowPattern    = regexp.MustCompile(`(?i)Method\(s\) of Payment`)
)

// Fields are the values recovered from one detail page. Optional numbers are
// nil unless the source config enables them.
type Fields struct {
	AgreementNo    string
	SupplementNo   *string
	WorkOrderNo    *string
	AmendmentNo    *string
	InitiatingOrg  string
	Cost           string
	Consultant     string
	PaymentMethods string
}

// ExtractFields reads every field for cfg out of doc. Lookups that fail
// produce empty strings; it never returns an error.
func ExtractFields(doc *Document, cfg sources.Config) Fields {
	text := doc.Text()

	f := Fields{
		AgreementNo:    agreementPattern.FindString(text),
		InitiatingOrg:  engineeringPrefix.ReplaceAllString(doc.TextAbove(LabelInitiatingOrg), ""),
		Consultant:     CleanConsultant(doc.TextAbove(LabelConsultant)),
		PaymentMethods: doc.TextBetweenRows(consultantRowPattern, paymentRowPattern),
	}

	if cfg.HasSupplement {
		f.SupplementNo = firstGroup(supplementPattern, text)
	}
	if cfg.HasWorkOrder {
		f.WorkOrderNo = firstGroup(workOrderPattern, text)
	}
	if cfg.HasAmendment {
		f.AmendmentNo = firstGroup(amendmentPattern, text)
	}

	if cfg.CostLabel != "" {
		f.Cost = doc.TextAbove(cfg.CostLabel)
	}

	return f
}

// CleanConsultant strips federal ID numbers (NN-NNNNNNN or nine digits) and trims the rest.
func CleanConsultant(s string) string {
	return strings.TrimSpace(federalIDPattern.ReplaceAllString(s, ""))
}

// Record merges the extracted fields with the values known from the listing row.
func (f Fields) Record(link string, executed time.Time, source sources.Source) types.Record {
	return types.Record{
		Link:           link,
		ExecutedDate:   executed.Format(types.ExecutedDateLayout),
		Source:         string(source),
		AgreementNo:    f.AgreementNo,
		SupplementNo:   f.SupplementNo,
		WorkOrderNo:    f.WorkOrderNo,
		AmendmentNo:    f.AmendmentNo,
		InitiatingOrg:  f.InitiatingOrg,
		Cost:           f.Cost,
		Consultant:     f.Consultant,
		PaymentMethods: f.PaymentMethods,
	}
}

// firstGroup returns a pointer to the first capture group of re in text, or to "" when absent.
func firstGroup(re *regexp.Regexp, text string) *string {
	value := ""
	if m := re.FindStringSubmatch(text); m != nil {
		value = m[1]
	}
	return &value
}
