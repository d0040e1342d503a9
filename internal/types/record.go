// Package types provides type definitions for the records and tables produced by a scrape run.
//
//nolint:revive // types is a standard Go package name pattern
package types

import (
	"github.com/jonathan/ecms-scraper/internal/sources"
)

// Column names, in output order.
const (
	ColumnLink           = "Link"
	ColumnExecutedDate   = "Executed Date"
	ColumnSource         = "Source"
	ColumnAgreementNo    = "Agreement No."
	ColumnSupplementNo   = "Supplement No."
	ColumnWorkOrderNo    = "Work Order No."
	ColumnAmendmentNo    = "Amendment No."
	ColumnInitiatingOrg  = "Initiating Org/BP"
	ColumnCost           = "Cost"
	ColumnConsultant     = "Consultant"
	ColumnPaymentMethods = "Method(s) of Payment"
)

// ExecutedDateLayout is the ISO layout of Record.ExecutedDate.
const ExecutedDateLayout = "2006-01-02"

// Record is one extracted agreement. Optional numbers are nil when the
// source does not carry them and non-nil (possibly empty) when it does.
type Record struct {
	Link           string  `json:"Link"`
	ExecutedDate   string  `json:"Executed Date"`
	Source         string  `json:"Source"`
	AgreementNo    string  `json:"Agreement No."`
	SupplementNo   *string `json:"Supplement No.,omitempty"`
	WorkOrderNo    *string `json:"Work Order No.,omitempty"`
	AmendmentNo    *string `json:"Amendment No.,omitempty"`
	InitiatingOrg  string  `json:"Initiating Org/BP"`
	Cost           string  `json:"Cost"`
	Consultant     string  `json:"Consultant"`
	PaymentMethods string  `json:"Method(s) of Payment"`
}

// Value returns the record's value for a column name, or "" for unknown columns.
func (r Record) Value(column string) string {
	switch column {
	case ColumnLink:
		return r.Link
	case ColumnExecutedDate:
		return r.ExecutedDate
	case ColumnSource:
		return r.Source
	case ColumnAgreementNo:
		return r.AgreementNo
	case ColumnSupplementNo:
		return deref(r.SupplementNo)
	case ColumnWorkOrderNo:
		return deref(r.WorkOrderNo)
	case ColumnAmendmentNo:
		return deref(r.AmendmentNo)
	case ColumnInitiatingOrg:
		return r.InitiatingOrg
	case ColumnCost:
		return r.Cost
	case ColumnConsultant:
		return r.Consultant
	case ColumnPaymentMethods:
		return r.PaymentMethods
	default:
		return ""
	}
}

// Row returns the record's values in the given column order.
func (r Record) Row(columns []string) []string {
	row := make([]string, len(columns))
	for i, c := range columns {
		row[i] = r.Value(c)
	}
	return row
}

// ColumnsFor returns the output columns for a source. Optional number
// columns appear only when the source's config enables them.
func ColumnsFor(s sources.Source) []string {
	cfg := s.Config()
	cols := []string{ColumnLink, ColumnExecutedDate, ColumnSource, ColumnAgreementNo}
	if cfg.HasSupplement {
		cols = append(cols, ColumnSupplementNo)
	}
	if cfg.HasWorkOrder {
		cols = append(cols, ColumnWorkOrderNo)
	}
	if cfg.HasAmendment {
		cols = append(cols, ColumnAmendmentNo)
	}
	return append(cols, ColumnInitiatingOrg, ColumnCost, ColumnConsultant, ColumnPaymentMethods)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
