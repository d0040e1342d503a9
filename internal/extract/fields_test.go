package extract

import (
	"regexp"
	"testing"
	"time"

	"github.com/jonathan/ecms-scraper/internal/sources"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const detailHTML = `
<html>
	<head><script>var legacy = "E99999";</script></head>
	<body>
		<table>
			<tr><td>Agreement E01234 Supplement # 3 Work Order # 12 Amendment # 2</td></tr>
		</table>
		<div class="block">
			<div>Engineering District 6-0</div>
			<div>  </div>
			<div>Initiating Organization</div>
		</div>
		<table>
			<tr><td>$1,250,000.00</td><td>Maximum Agreement Cost</td></tr>
		</table>
		<table>
			<tr><td>12-3456789 XYZ Corp</td><td>Consultant - FID</td></tr>
			<tr><td>Lump Sum</td></tr>
			<tr><td> </td></tr>
			<tr><td>Cost Plus <b>Fixed Fee</b></td></tr>
			<tr><td>Method(s) of Payment</td></tr>
			<tr><td>Specific Rate of Compensation</td></tr>
		</table>
	</body>
</html>`

func mustParse(t *testing.T, raw string) *Document {
	t.Helper()
	doc, err := ParseDocument(raw)
	require.NoError(t, err)
	return doc
}

func TestExtractFields_Agreements(t *testing.T) {
	doc := mustParse(t, detailHTML)

	f := ExtractFields(doc, sources.Agreements.Config())

	assert.Equal(t, "E01234", f.AgreementNo)
	assert.Equal(t, "District 6-0", f.InitiatingOrg)
	assert.Equal(t, "$1,250,000.00", f.Cost)
	assert.Equal(t, "XYZ Corp", f.Consultant)
	assert.Equal(t, "Lump Sum Cost Plus Fixed Fee", f.PaymentMethods)
	assert.Nil(t, f.SupplementNo)
	assert.Nil(t, f.WorkOrderNo)
	assert.Nil(t, f.AmendmentNo)
}

func TestExtractFields_OptionalNumbers(t *testing.T) {
	doc := mustParse(t, detailHTML)

	f := ExtractFields(doc, sources.WorkOrderAmendments.Config())

	assert.Nil(t, f.SupplementNo)
	require.NotNil(t, f.WorkOrderNo)
	require.NotNil(t, f.AmendmentNo)
	assert.Equal(t, "12", *f.WorkOrderNo)
	assert.Equal(t, "2", *f.AmendmentNo)

	// Cost label for amendments is not on this page.
	assert.Equal(t, "", f.Cost)

	sup := ExtractFields(doc, sources.Supplements.Config())
	require.NotNil(t, sup.SupplementNo)
	assert.Equal(t, "3", *sup.SupplementNo)
}

func TestExtractFields_EnabledButMissingNumbersAreEmpty(t *testing.T) {
	doc := mustParse(t, `<html><body><p>Nothing to see</p></body></html>`)

	f := ExtractFields(doc, sources.WorkOrderAmendments.Config())

	require.NotNil(t, f.WorkOrderNo)
	require.NotNil(t, f.AmendmentNo)
	assert.Equal(t, "", *f.WorkOrderNo)
	assert.Equal(t, "", *f.AmendmentNo)
	assert.Equal(t, "", f.AgreementNo)
	assert.Equal(t, "", f.InitiatingOrg)
	assert.Equal(t, "", f.Consultant)
	assert.Equal(t, "", f.PaymentMethods)
}

func TestExtractFields_Idempotent(t *testing.T) {
	doc := mustParse(t, detailHTML)
	cfg := sources.WorkOrders.Config()

	first := ExtractFields(doc, cfg)
	second := ExtractFields(doc, cfg)
	assert.Equal(t, first, second)
}

func TestExtractFields_AgreementIgnoresScripts(t *testing.T) {
	doc := mustParse(t, `<html><head><script>var id = "E77777";</script></head><body>none</body></html>`)
	assert.Equal(t, "", ExtractFields(doc, sources.Agreements.Config()).AgreementNo)
}

func TestExtractFields_AgreementMatchesShape(t *testing.T) {
	pattern := regexp.MustCompile(`^E\d{5}$`)
	for _, raw := range []string{
		`<p>Ref E1234 and E123456</p>`,
		`<p>Agreement No. E54321</p>`,
		`<p>e12345</p>`,
	} {
		got := ExtractFields(mustParse(t, raw), sources.Agreements.Config()).AgreementNo
		assert.True(t, got == "" || pattern.MatchString(got), "unexpected agreement %q", got)
	}
}

func TestCleanConsultant(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"dashed id", "12-3456789 XYZ Corp", "XYZ Corp"},
		{"nine digits", "ABC Engineering 123456789", "ABC Engineering"},
		{"no id", "Plain Consulting LLC", "Plain Consulting LLC"},
		{"longer digit run kept", "Firm 1234567890", "Firm 1234567890"},
		{"empty", "", ""},
	}

	idPattern := regexp.MustCompile(`\d{2}-\d{7}|\b\d{9}\b`)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CleanConsultant(tt.input)
			assert.Equal(t, tt.expected, got)
			if tt.name != "longer digit run kept" {
				assert.False(t, idPattern.MatchString(got))
			}
		})
	}
}

func TestFields_Record(t *testing.T) {
	wo := "12"
	f := Fields{AgreementNo: "E01234", WorkOrderNo: &wo, Consultant: "XYZ Corp"}
	executed := time.Date(2023, time.April, 15, 0, 0, 0, 0, time.UTC)

	rec := f.Record("https://example.com/d/1", executed, sources.WorkOrders)

	assert.Equal(t, "https://example.com/d/1", rec.Link)
	assert.Equal(t, "2023-04-15", rec.ExecutedDate)
	assert.Equal(t, "Executed Legal Work Orders", rec.Source)
	assert.Equal(t, "E01234", rec.AgreementNo)
	require.NotNil(t, rec.WorkOrderNo)
	assert.Equal(t, "12", *rec.WorkOrderNo)
	assert.Equal(t, "XYZ Corp", rec.Consultant)
}
