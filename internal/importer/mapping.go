package importer

import (
	"regexp"
	"strings"
)

// Canonical product field names the import engine can populate.
const (
	FieldCompanyName        = "company_name"
	FieldProductName        = "product_name"
	FieldBrandName          = "brand_name"
	FieldProductDescription = "product_description"
	FieldProductType        = "product_type"
	FieldSubType            = "sub_type"
	FieldAppliedSeasons     = "applied_seasons"
	FieldSuitableCrops      = "suitable_crops"
	FieldBenefits           = "benefits"
	FieldDosage             = "dosage"
	FieldApplicationMethod  = "application_method"
	FieldPackSizes          = "pack_sizes"
	FieldPriceRange         = "price_range"
	FieldAvailableStates    = "available_states"
	FieldOrganicCertified   = "organic_certified"
	FieldISOCertified       = "iso_certified"
	FieldGovtApproved       = "govt_approved"
	FieldProductImageURL    = "product_image_url"
	FieldSourceURL          = "source_url"
	FieldNotes              = "notes"
)

// fieldAliases maps every accepted header spelling (after normalization) to
// its canonical field. The canonical names map to themselves so exports from
// this system re-import cleanly.
var fieldAliases = map[string]string{
	FieldCompanyName: FieldCompanyName,
	"company":        FieldCompanyName,
	"manufacturer":   FieldCompanyName,

	FieldProductName: FieldProductName,
	"product":        FieldProductName,
	"name":           FieldProductName,

	FieldBrandName: FieldBrandName,
	"brand":        FieldBrandName,

	FieldProductDescription: FieldProductDescription,
	"description":           FieldProductDescription,
	"details":               FieldProductDescription,

	FieldProductType: FieldProductType,
	"type":           FieldProductType,
	"category":       FieldProductType,

	FieldSubType:   FieldSubType,
	"subtype":      FieldSubType,
	"sub_category": FieldSubType,

	FieldAppliedSeasons: FieldAppliedSeasons,
	"seasons":           FieldAppliedSeasons,
	"season":            FieldAppliedSeasons,

	FieldSuitableCrops: FieldSuitableCrops,
	"crops":            FieldSuitableCrops,
	"crop":             FieldSuitableCrops,

	FieldBenefits: FieldBenefits,

	FieldDosage: FieldDosage,
	"dose":     FieldDosage,

	FieldApplicationMethod: FieldApplicationMethod,
	"application":          FieldApplicationMethod,
	"method":               FieldApplicationMethod,

	FieldPackSizes: FieldPackSizes,
	"pack_size":   FieldPackSizes,
	"packs":       FieldPackSizes,
	"packing":     FieldPackSizes,

	FieldPriceRange: FieldPriceRange,
	"price":         FieldPriceRange,
	"prices":        FieldPriceRange,

	FieldAvailableStates: FieldAvailableStates,
	"states":             FieldAvailableStates,
	"state":              FieldAvailableStates,

	FieldOrganicCertified: FieldOrganicCertified,
	"organic":             FieldOrganicCertified,

	FieldISOCertified: FieldISOCertified,
	"iso":             FieldISOCertified,

	FieldGovtApproved:      FieldGovtApproved,
	"government_approved": FieldGovtApproved,
	"approved":            FieldGovtApproved,

	FieldProductImageURL: FieldProductImageURL,
	"image":              FieldProductImageURL,
	"image_url":          FieldProductImageURL,

	FieldSourceURL: FieldSourceURL,
	"source":       FieldSourceURL,
	"url":          FieldSourceURL,

	FieldNotes: FieldNotes,
	"remarks": FieldNotes,
}

// arrayFields holds the canonical fields parsed as delimited lists.
var arrayFields = map[string]bool{
	FieldAppliedSeasons:  true,
	FieldSuitableCrops:   true,
	FieldPackSizes:       true,
	FieldAvailableStates: true,
}

// boolFields holds the canonical fields parsed as booleans.
var boolFields = map[string]bool{
	FieldOrganicCertified: true,
	FieldISOCertified:     true,
	FieldGovtApproved:     true,
}

var (
	whitespaceRe = regexp.MustCompile(`\s+`)
	listSplitRe  = regexp.MustCompile(`[,;|]`)
)

// NormalizeHeader lowercases a header cell and collapses interior whitespace
// to underscores, so "Product Name", "product name" and "product_name" all
// resolve identically. A leading BOM from Excel CSV exports is stripped.
func NormalizeHeader(header string) string {
	header = strings.TrimPrefix(header, "\uFEFF")
	header = strings.ToLower(strings.TrimSpace(header))
	return whitespaceRe.ReplaceAllString(header, "_")
}

// ResolveField maps a raw header to its canonical product field.
func ResolveField(header string) (string, bool) {
	field, ok := fieldAliases[NormalizeHeader(header)]
	return field, ok
}

// IsArrayField reports whether the canonical field holds a list.
func IsArrayField(field string) bool {
	return arrayFields[field]
}

// IsBoolField reports whether the canonical field holds a boolean.
func IsBoolField(field string) bool {
	return boolFields[field]
}

// ParseList splits a cell on commas, semicolons, or pipes, trimming each
// element and dropping empties.
func ParseList(value string) []string {
	parts := listSplitRe.Split(value, -1)
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// ParseFlag interprets the affirmative spellings used by supplier sheets.
// Anything else, including empty, is false.
func ParseFlag(value string) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "true", "yes", "1", "y":
		return true
	default:
		return false
	}
}
