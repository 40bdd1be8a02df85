package csvio

import "strings"

// sampleRows cover each property type variant plus the optional fields, so a
// downloaded template doubles as documentation of the format.
var sampleRows = [][]string{
	{"John Doe", "john@email.com", "9876543210", "Chandigarh", "apartment", "3", "investment", "5000000", "7000000", "1-3 months", "website", "Looking for modern apartment", "urgent;premium", "new"},
	{"Jane Smith", "jane.smith@gmail.com", "9123456789", "Mohali", "villa", "4", "end-use", "8000000", "12000000", "immediate", "referral", "Family of 4 needs spacious villa", "family;spacious", "contacted"},
	{"Rajesh Kumar", "rajesh.k@yahoo.com", "9988776655", "Panchkula", "plot", "", "investment", "2000000", "3000000", "3-6 months", "social media", "Looking for plot in good location", "investment;commercial", "new"},
	{"Priya Sharma", "priya.sharma@outlook.com", "9876123456", "Zirakpur", "apartment", "2", "end-use", "3500000", "4500000", "1-3 months", "advertisement", "First time buyer", "first-time;urgent", "qualified"},
	{"Amit Singh", "", "9654321098", "Other", "office", "", "investment", "1500000", "2500000", "6+ months", "walk-in", "Small office space needed", "office;small", "new"},
}

// Template renders the import template: the recognized header row followed by
// five illustrative sample rows, every field double-quoted.
func Template() string {
	lines := make([]string, 0, 1+len(sampleRows))
	lines = append(lines, strings.Join(ImportColumns, ","))
	for _, row := range sampleRows {
		lines = append(lines, quoteJoin(row))
	}
	return strings.Join(lines, "\n")
}

// quoteJoin renders one CSV line with every field quoted; embedded quotes are
// doubled per RFC 4180.
func quoteJoin(fields []string) string {
	quoted := make([]string, len(fields))
	for i, f := range fields {
		quoted[i] = `"` + strings.ReplaceAll(f, `"`, `""`) + `"`
	}
	return strings.Join(quoted, ",")
}
