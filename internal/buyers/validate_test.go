package buyers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validRow() map[string]string {
	return map[string]string{
		"full_name":     "John Doe",
		"email":         "john@email.com",
		"phone":         "9876543210",
		"city":          "Chandigarh",
		"property_type": "apartment",
		"bhk":           "3",
		"purpose":       "investment",
		"budget_min":    "5000000",
		"budget_max":    "7000000",
		"timeline":      "1-3 months",
		"source":        "website",
		"notes":         "Looking for modern apartment",
		"tags":          "urgent;premium",
		"status":        "new",
	}
}

func fieldsOf(violations []Violation) []string {
	fields := make([]string, 0, len(violations))
	for _, v := range violations {
		fields = append(fields, v.Field)
	}
	return fields
}

func TestValidateRowValid(t *testing.T) {
	assert.Empty(t, ValidateRow(validRow()))
}

func TestValidateRowRequiredFields(t *testing.T) {
	row := validRow()
	row["full_name"] = "  "
	row["phone"] = ""
	row["city"] = ""

	fields := fieldsOf(ValidateRow(row))
	assert.Contains(t, fields, "full_name")
	assert.Contains(t, fields, "phone")
	assert.Contains(t, fields, "city")
}

func TestValidateRowPhoneExactlyTenDigits(t *testing.T) {
	tests := []struct {
		name  string
		phone string
		ok    bool
	}{
		{"ten digits", "9876543210", true},
		{"formatted ten digits", "(987) 654-3210", true},
		{"too short", "123", false},
		{"eleven digits", "98765432101", false},
		{"letters only", "phone", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			row := validRow()
			row["phone"] = tt.phone
			fields := fieldsOf(ValidateRow(row))
			if tt.ok {
				assert.NotContains(t, fields, "phone")
			} else {
				assert.Contains(t, fields, "phone")
			}
		})
	}
}

func TestValidateRowEmailShape(t *testing.T) {
	row := validRow()
	row["email"] = "not-an-email"
	violations := ValidateRow(row)
	require.Len(t, violations, 1)
	assert.Equal(t, Violation{Field: "email", Message: "Invalid email format"}, violations[0])

	row["email"] = ""
	assert.Empty(t, ValidateRow(row), "email is optional")
}

func TestValidateRowEnumsCaseInsensitive(t *testing.T) {
	row := validRow()
	row["property_type"] = "Apartment"
	row["purpose"] = "INVESTMENT"
	row["timeline"] = "Immediate"
	row["source"] = "Walk-In"
	row["timeline"] = "1-3 Months"
	assert.Empty(t, ValidateRow(row))
}

func TestValidateRowRejectsUnknownEnums(t *testing.T) {
	row := validRow()
	row["property_type"] = "castle"
	row["purpose"] = "speculation"
	row["timeline"] = "someday"
	row["source"] = "carrier pigeon"

	fields := fieldsOf(ValidateRow(row))
	assert.Contains(t, fields, "property_type")
	assert.Contains(t, fields, "purpose")
	assert.Contains(t, fields, "timeline")
	assert.Contains(t, fields, "source")
}

func TestValidateRowBudgets(t *testing.T) {
	row := validRow()
	row["budget_min"] = "abc"
	row["budget_max"] = "xyz"
	fields := fieldsOf(ValidateRow(row))
	assert.Contains(t, fields, "budget_min")
	assert.Contains(t, fields, "budget_max")

	row = validRow()
	row["budget_min"] = "7000000"
	row["budget_max"] = "5000000"
	violations := ValidateRow(row)
	require.Len(t, violations, 1)
	assert.Equal(t, "budget_max", violations[0].Field)
	assert.Equal(t, "Budget max must be greater than budget min", violations[0].Message)

	row = validRow()
	row["budget_min"] = ""
	row["budget_max"] = ""
	assert.Empty(t, ValidateRow(row), "budgets are optional")
}

func TestValidateRowBHKRequiredForApartmentAndVilla(t *testing.T) {
	for _, propertyType := range []string{"apartment", "villa", "Apartment", "VILLA"} {
		row := validRow()
		row["property_type"] = propertyType

		row["bhk"] = ""
		assert.Contains(t, fieldsOf(ValidateRow(row)), "bhk", "missing bhk for %s", propertyType)

		row["bhk"] = "studio"
		assert.Contains(t, fieldsOf(ValidateRow(row)), "bhk", "non-numeric bhk for %s", propertyType)
	}

	for _, propertyType := range []string{"plot", "office", "shop", "warehouse"} {
		row := validRow()
		row["property_type"] = propertyType
		row["bhk"] = ""
		assert.NotContains(t, fieldsOf(ValidateRow(row)), "bhk", "bhk not required for %s", propertyType)
	}
}

// Mirrors the documented scenario: a one-character name passes batch
// validation (no length rule there), while phone and bhk fail.
func TestValidateRowShortNamePassesBatch(t *testing.T) {
	row := map[string]string{
		"full_name":     "A",
		"phone":         "123",
		"city":          "Mohali",
		"property_type": "apartment",
		"purpose":       "investment",
		"timeline":      "immediate",
		"source":        "website",
	}
	violations := ValidateRow(row)

	fields := fieldsOf(violations)
	assert.NotContains(t, fields, "full_name")
	assert.Contains(t, fields, "phone")
	assert.Contains(t, fields, "bhk")

	for _, v := range violations {
		switch v.Field {
		case "phone":
			assert.Equal(t, "Phone must be 10 digits", v.Message)
		case "bhk":
			assert.Equal(t, "BHK is required for apartment", v.Message)
		}
	}
}

func TestValidateRowIsPure(t *testing.T) {
	row := validRow()
	row["phone"] = "12"
	row["property_type"] = "villa"
	row["bhk"] = ""

	first := ValidateRow(row)
	second := ValidateRow(row)
	assert.Equal(t, first, second, "same row must yield identical violations")
}

func TestValidateInputFormRules(t *testing.T) {
	three := 3
	mkInput := func() BuyerInput {
		return BuyerInput{
			FullName:     "John Doe",
			Email:        "john@email.com",
			Phone:        "9876543210",
			City:         "Chandigarh",
			PropertyType: "apartment",
			BHK:          &three,
			Purpose:      "investment",
			Timeline:     "1-3 months",
			Source:       "website",
			Status:       "new",
		}
	}

	in := mkInput()
	assert.Empty(t, ValidateInput(&in))

	in = mkInput()
	in.FullName = "A"
	assert.Contains(t, fieldsOf(ValidateInput(&in)), "full_name", "form enforces name length")

	in = mkInput()
	in.Phone = "987654321012345" // 15 digits
	assert.Empty(t, ValidateInput(&in), "form allows up to 15 digits")

	in = mkInput()
	in.Phone = "9876543210123456" // 16 digits
	assert.Contains(t, fieldsOf(ValidateInput(&in)), "phone")

	in = mkInput()
	in.City = "Delhi"
	assert.Contains(t, fieldsOf(ValidateInput(&in)), "city", "form enforces city enum")

	in = mkInput()
	bad := 7
	in.BHK = &bad
	assert.Contains(t, fieldsOf(ValidateInput(&in)), "bhk")

	in = mkInput()
	in.Status = "interested"
	assert.Contains(t, fieldsOf(ValidateInput(&in)), "status")
}

func TestValidateInputCrossFieldRefinements(t *testing.T) {
	in := BuyerInput{
		FullName:     "Jane Smith",
		Phone:        "9123456789",
		City:         "Mohali",
		PropertyType: "villa",
		Purpose:      "end-use",
		Timeline:     "immediate",
		Source:       "referral",
		Status:       "new",
	}
	violations := ValidateInput(&in)
	require.Len(t, violations, 1)
	assert.Equal(t, "bhk", violations[0].Field)
	assert.Equal(t, "BHK is required for apartment and villa properties", violations[0].Message)

	four := 4
	lo, hi := int64(8000000), int64(5000000)
	in.BHK = &four
	in.BudgetMin = &lo
	in.BudgetMax = &hi
	violations = ValidateInput(&in)
	require.Len(t, violations, 1)
	assert.Equal(t, "budget_max", violations[0].Field)
	assert.Equal(t, "Maximum budget must be greater than or equal to minimum budget", violations[0].Message)
}

func TestValidateInputNotesLength(t *testing.T) {
	three := 3
	in := BuyerInput{
		FullName:     "John Doe",
		Phone:        "9876543210",
		City:         "Chandigarh",
		PropertyType: "apartment",
		BHK:          &three,
		Purpose:      "investment",
		Timeline:     "1-3 months",
		Source:       "website",
		Status:       "new",
	}
	for i := 0; i < 1001; i++ {
		in.Notes += "x"
	}
	assert.Contains(t, fieldsOf(ValidateInput(&in)), "notes")
}
