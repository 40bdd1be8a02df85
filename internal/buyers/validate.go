package buyers

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Violation is one field-level validation failure. A row or form submission
// collects every violation, not just the first.
type Violation struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// emailRe matches the basic local@domain.tld shape. Intentionally loose;
// deliverability is not this service's problem.
var emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// ruleSet parameterizes the canonical rule set per validation context. Form
// submissions and CSV rows share every cross-field rule; they differ only in
// the phone digit range and in which shape checks apply.
type ruleSet struct {
	phoneMinDigits int
	phoneMaxDigits int
	checkNameLen   bool
	checkCityEnum  bool
	checkBHKRange  bool
	checkNotesLen  bool
	checkStatus    bool
}

var (
	// formRules cover interactive create/edit submissions.
	formRules = ruleSet{
		phoneMinDigits: 10,
		phoneMaxDigits: 15,
		checkNameLen:   true,
		checkCityEnum:  true,
		checkBHKRange:  true,
		checkNotesLen:  true,
		checkStatus:    true,
	}
	// batchRules cover CSV rows: names and cities only need to be present,
	// but phones must be exactly 10 digits.
	batchRules = ruleSet{
		phoneMinDigits: 10,
		phoneMaxDigits: 10,
	}
)

// ValidateRow applies the batch rule set to one raw CSV row mapping. The
// returned violations are ordered and exhaustive; an empty slice means the
// row is importable. The function is pure: the row is never mutated.
func ValidateRow(row map[string]string) []Violation {
	var out []Violation
	add := func(field, message string) {
		out = append(out, Violation{Field: field, Message: message})
	}

	fullName := strings.TrimSpace(row["full_name"])
	phone := strings.TrimSpace(row["phone"])
	city := strings.TrimSpace(row["city"])
	email := strings.TrimSpace(row["email"])

	if fullName == "" {
		add("full_name", "Full name is required")
	}
	if phone == "" {
		add("phone", "Phone is required")
	}
	if city == "" {
		add("city", "City is required")
	}
	if email != "" && !emailRe.MatchString(email) {
		add("email", "Invalid email format")
	}
	if phone != "" {
		digits := stripNonDigits(phone)
		if len(digits) < batchRules.phoneMinDigits || len(digits) > batchRules.phoneMaxDigits {
			add("phone", "Phone must be 10 digits")
		}
	}

	propertyType := strings.TrimSpace(row["property_type"])
	if !isOneOf(PropertyTypes, strings.ToLower(propertyType)) || propertyType == "" {
		add("property_type", "Property type must be one of: "+strings.Join(PropertyTypes, ", "))
	}
	purpose := strings.TrimSpace(row["purpose"])
	if !isOneOf(Purposes, strings.ToLower(purpose)) || purpose == "" {
		add("purpose", "Purpose must be one of: "+strings.Join(Purposes, ", "))
	}
	timeline := strings.TrimSpace(row["timeline"])
	if !isOneOf(Timelines, strings.ToLower(timeline)) || timeline == "" {
		add("timeline", "Timeline must be one of: "+strings.Join(Timelines, ", "))
	}
	source := strings.TrimSpace(row["source"])
	if !isOneOf(Sources, strings.ToLower(source)) || source == "" {
		add("source", "Source must be one of: "+strings.Join(Sources, ", "))
	}

	budgetMinRaw := strings.TrimSpace(row["budget_min"])
	budgetMaxRaw := strings.TrimSpace(row["budget_max"])
	budgetMin, minErr := strconv.ParseInt(budgetMinRaw, 10, 64)
	budgetMax, maxErr := strconv.ParseInt(budgetMaxRaw, 10, 64)
	if budgetMinRaw != "" && minErr != nil {
		add("budget_min", "Budget min must be a number")
	}
	if budgetMaxRaw != "" && maxErr != nil {
		add("budget_max", "Budget max must be a number")
	}
	if budgetMinRaw != "" && budgetMaxRaw != "" && minErr == nil && maxErr == nil && budgetMin > budgetMax {
		add("budget_max", "Budget max must be greater than budget min")
	}

	bhkRaw := strings.TrimSpace(row["bhk"])
	if isOneOf([]string{"apartment", "villa"}, strings.ToLower(propertyType)) {
		if _, err := strconv.Atoi(bhkRaw); bhkRaw == "" || err != nil {
			add("bhk", fmt.Sprintf("BHK is required for %s", propertyType))
		}
	}

	return out
}

// ValidateInput applies the form rule set to an already canonicalized input.
// Field names in violations match the JSON representation.
func ValidateInput(in *BuyerInput) []Violation {
	return validateInput(in, formRules)
}

func validateInput(in *BuyerInput, rules ruleSet) []Violation {
	var out []Violation
	add := func(field, message string) {
		out = append(out, Violation{Field: field, Message: message})
	}

	if rules.checkNameLen {
		switch n := len(in.FullName); {
		case n < 2:
			add("full_name", "Full name must be at least 2 characters")
		case n > 80:
			add("full_name", "Full name must be less than 80 characters")
		}
	} else if in.FullName == "" {
		add("full_name", "Full name is required")
	}

	if in.Email != "" && !emailRe.MatchString(in.Email) {
		add("email", "Invalid email format")
	}

	digits := stripNonDigits(in.Phone)
	if len(digits) < rules.phoneMinDigits || len(digits) > rules.phoneMaxDigits {
		if rules.phoneMinDigits == rules.phoneMaxDigits {
			add("phone", fmt.Sprintf("Phone must be %d digits", rules.phoneMinDigits))
		} else {
			add("phone", fmt.Sprintf("Phone must be %d-%d digits", rules.phoneMinDigits, rules.phoneMaxDigits))
		}
	}

	if rules.checkCityEnum {
		if !isOneOf(Cities, in.City) {
			add("city", "City must be one of: "+strings.Join(Cities, ", "))
		}
	} else if in.City == "" {
		add("city", "City is required")
	}

	if !isOneOf(PropertyTypes, in.PropertyType) {
		add("property_type", "Property type must be one of: "+strings.Join(PropertyTypes, ", "))
	}
	if !isOneOf(Purposes, in.Purpose) {
		add("purpose", "Purpose must be one of: "+strings.Join(Purposes, ", "))
	}
	if !isOneOf(Timelines, in.Timeline) {
		add("timeline", "Timeline must be one of: "+strings.Join(Timelines, ", "))
	}
	if !isOneOf(Sources, in.Source) {
		add("source", "Source must be one of: "+strings.Join(Sources, ", "))
	}
	if rules.checkStatus && !isOneOf(Statuses, in.Status) {
		add("status", "Status must be one of: "+strings.Join(Statuses, ", "))
	}

	if in.BudgetMin != nil && *in.BudgetMin <= 0 {
		add("budget_min", "Budget min must be a positive number")
	}
	if in.BudgetMax != nil && *in.BudgetMax <= 0 {
		add("budget_max", "Budget max must be a positive number")
	}

	if rules.checkNotesLen && len(in.Notes) > 1000 {
		add("notes", "Notes must be less than 1000 characters")
	}

	if rules.checkBHKRange && in.BHK != nil && (*in.BHK < 1 || *in.BHK > 5) {
		add("bhk", "BHK must be between 1 and 5")
	}

	// Cross-field refinements, shared by every context.
	if (in.PropertyType == "apartment" || in.PropertyType == "villa") && in.BHK == nil {
		add("bhk", "BHK is required for apartment and villa properties")
	}
	if in.BudgetMin != nil && in.BudgetMax != nil && *in.BudgetMax < *in.BudgetMin {
		add("budget_max", "Maximum budget must be greater than or equal to minimum budget")
	}

	return out
}
