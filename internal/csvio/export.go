package csvio

import "strings"

// ExportColumns is the export header, kept in the original report order.
var ExportColumns = []string{
	"fullName", "email", "phone", "city", "propertyType", "bhk", "purpose",
	"budgetMin", "budgetMax", "timeline", "source", "notes", "tags", "status",
}

// ExportRecord is one lead flattened to export strings. Numeric fields are
// pre-rendered by the caller; empty means absent.
type ExportRecord struct {
	FullName     string
	Email        string
	Phone        string
	City         string
	PropertyType string
	BHK          string
	Purpose      string
	BudgetMin    string
	BudgetMax    string
	Timeline     string
	Source       string
	Notes        string
	Tags         []string
	Status       string
}

// Export renders records as CSV: the fixed header followed by one line per
// record, every field double-quoted, tags joined with semicolons.
func Export(records []ExportRecord) string {
	lines := make([]string, 0, 1+len(records))
	lines = append(lines, strings.Join(ExportColumns, ","))
	for _, rec := range records {
		lines = append(lines, quoteJoin([]string{
			rec.FullName, rec.Email, rec.Phone, rec.City, rec.PropertyType, rec.BHK,
			rec.Purpose, rec.BudgetMin, rec.BudgetMax, rec.Timeline, rec.Source,
			rec.Notes, strings.Join(rec.Tags, ";"), rec.Status,
		}))
	}
	return strings.Join(lines, "\n")
}
