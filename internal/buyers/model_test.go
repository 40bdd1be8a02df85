package buyers

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitTags(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{"semicolons", "urgent;premium", []string{"urgent", "premium"}},
		{"commas", "family, spacious", []string{"family", "spacious"}},
		{"mixed", "a;b,c", []string{"a", "b", "c"}},
		{"duplicates suppressed", "hot;hot;cold", []string{"hot", "cold"}},
		{"empties dropped", "a;;b; ", []string{"a", "b"}},
		{"empty input", "", []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SplitTags(tt.in))
		})
	}
}

func TestNormalizeTagsPreservesOrder(t *testing.T) {
	got := NormalizeTags([]string{" b ", "a", "b", "", "c", "a"})
	assert.Equal(t, []string{"b", "a", "c"}, got)
}

func TestCanonicalize(t *testing.T) {
	in := BuyerInput{
		FullName:     "  John Doe  ",
		Email:        " john@email.com ",
		Phone:        " 9876543210 ",
		City:         "mohali",
		PropertyType: "Apartment",
		Purpose:      "INVESTMENT",
		Timeline:     "Immediate",
		Source:       "Walk-In",
		Status:       "",
		Notes:        " note ",
		Tags:         []string{"x", "x", " y "},
	}
	in.Canonicalize()

	assert.Equal(t, "John Doe", in.FullName)
	assert.Equal(t, "john@email.com", in.Email)
	assert.Equal(t, "9876543210", in.Phone)
	assert.Equal(t, "Mohali", in.City, "known cities map to display casing")
	assert.Equal(t, "apartment", in.PropertyType)
	assert.Equal(t, "investment", in.Purpose)
	assert.Equal(t, "immediate", in.Timeline)
	assert.Equal(t, "walk-in", in.Source)
	assert.Equal(t, StatusNew, in.Status, "status defaults to new")
	assert.Equal(t, "note", in.Notes)
	assert.Equal(t, []string{"x", "y"}, in.Tags)
}

func TestCanonicalizeUnknownCityPassesThrough(t *testing.T) {
	in := BuyerInput{City: " Kharar "}
	in.Canonicalize()
	assert.Equal(t, "Kharar", in.City)
}
