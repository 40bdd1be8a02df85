// Package buyers holds the buyer lead entity, its validation rules and the
// owner-scoped persistence layer.
package buyers

import (
	"strings"
	"time"
)

// Enum values accepted for buyer fields. Cities keep their display casing;
// everything else is stored lowercase.
var (
	Cities        = []string{"Chandigarh", "Mohali", "Zirakpur", "Panchkula", "Other"}
	PropertyTypes = []string{"apartment", "villa", "plot", "office", "shop", "warehouse"}
	Purposes      = []string{"investment", "end-use"}
	Timelines     = []string{"immediate", "1-3 months", "3-6 months", "6+ months"}
	Sources       = []string{"website", "referral", "social media", "advertisement", "walk-in", "phone", "other"}
	Statuses      = []string{"new", "contacted", "qualified", "viewing", "negotiating", "closed", "lost"}
)

// StatusNew is the default status for freshly captured leads.
const StatusNew = "new"

// Buyer is a prospective property buyer owned by the actor that created it.
type Buyer struct {
	ID           string    `json:"id"`
	OwnerID      string    `json:"owner_id"`
	FullName     string    `json:"full_name"`
	Email        string    `json:"email,omitempty"`
	Phone        string    `json:"phone"`
	City         string    `json:"city"`
	PropertyType string    `json:"property_type"`
	BHK          *int      `json:"bhk,omitempty"`
	Purpose      string    `json:"purpose"`
	BudgetMin    *int64    `json:"budget_min,omitempty"`
	BudgetMax    *int64    `json:"budget_max,omitempty"`
	Timeline     string    `json:"timeline"`
	Source       string    `json:"source"`
	Status       string    `json:"status"`
	Notes        string    `json:"notes,omitempty"`
	Tags         []string  `json:"tags"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// BuyerInput carries the mutable fields of a buyer for create and full-replace
// updates. Owner and id are never part of the input.
type BuyerInput struct {
	FullName     string   `json:"full_name"`
	Email        string   `json:"email"`
	Phone        string   `json:"phone"`
	City         string   `json:"city"`
	PropertyType string   `json:"property_type"`
	BHK          *int     `json:"bhk"`
	Purpose      string   `json:"purpose"`
	BudgetMin    *int64   `json:"budget_min"`
	BudgetMax    *int64   `json:"budget_max"`
	Timeline     string   `json:"timeline"`
	Source       string   `json:"source"`
	Status       string   `json:"status"`
	Notes        string   `json:"notes"`
	Tags         []string `json:"tags"`
}

// Canonicalize trims free text, lowercases enum fields and defaults the
// status, producing the representation that gets persisted.
func (in *BuyerInput) Canonicalize() {
	in.FullName = strings.TrimSpace(in.FullName)
	in.Email = strings.TrimSpace(in.Email)
	in.Phone = strings.TrimSpace(in.Phone)
	in.City = canonicalCity(in.City)
	in.PropertyType = strings.ToLower(strings.TrimSpace(in.PropertyType))
	in.Purpose = strings.ToLower(strings.TrimSpace(in.Purpose))
	in.Timeline = strings.ToLower(strings.TrimSpace(in.Timeline))
	in.Source = strings.ToLower(strings.TrimSpace(in.Source))
	in.Status = strings.ToLower(strings.TrimSpace(in.Status))
	if in.Status == "" {
		in.Status = StatusNew
	}
	in.Notes = strings.TrimSpace(in.Notes)
	in.Tags = NormalizeTags(in.Tags)
}

// NormalizeTags trims each tag, drops empties and suppresses duplicates while
// preserving first-seen order.
func NormalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))
	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		if tag == "" {
			continue
		}
		if _, ok := seen[tag]; ok {
			continue
		}
		seen[tag] = struct{}{}
		out = append(out, tag)
	}
	return out
}

// SplitTags breaks a single delimited tag cell (semicolons or commas) into a
// normalized tag list.
func SplitTags(raw string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return []string{}
	}
	parts := strings.FieldsFunc(raw, func(r rune) bool {
		return r == ';' || r == ','
	})
	return NormalizeTags(parts)
}

// canonicalCity maps a case-insensitive city value to its display form when it
// matches a known city; unknown values pass through trimmed so validation can
// reject or accept them per context.
func canonicalCity(raw string) string {
	raw = strings.TrimSpace(raw)
	for _, city := range Cities {
		if strings.EqualFold(raw, city) {
			return city
		}
	}
	return raw
}

func isOneOf(set []string, value string) bool {
	for _, v := range set {
		if v == value {
			return true
		}
	}
	return false
}

// stripNonDigits keeps only ASCII digits, used for phone normalization.
func stripNonDigits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
