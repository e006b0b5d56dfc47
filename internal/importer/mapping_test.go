package importer

import (
	"reflect"
	"testing"
)

func TestNormalizeHeader(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Product Name", "product_name"},
		{"  COMPANY  ", "company"},
		{"Suitable\tCrops", "suitable_crops"},
		{"\uFEFFcompany_name", "company_name"},
		{"pack   sizes", "pack_sizes"},
		{"", ""},
	}
	for _, tc := range cases {
		if got := NormalizeHeader(tc.in); got != tc.want {
			t.Errorf("NormalizeHeader(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestResolveFieldAliases(t *testing.T) {
	cases := []struct {
		header string
		want   string
	}{
		{"Manufacturer", FieldCompanyName},
		{"Name", FieldProductName},
		{"Category", FieldProductType},
		{"Season", FieldAppliedSeasons},
		{"Crop", FieldSuitableCrops},
		{"Pack Size", FieldPackSizes},
		{"Organic", FieldOrganicCertified},
		{"Government Approved", FieldGovtApproved},
		{"Image URL", FieldProductImageURL},
		{"Remarks", FieldNotes},
		{"company_name", FieldCompanyName},
	}
	for _, tc := range cases {
		got, ok := ResolveField(tc.header)
		if !ok || got != tc.want {
			t.Errorf("ResolveField(%q) = %q, %v; want %q", tc.header, got, ok, tc.want)
		}
	}

	if _, ok := ResolveField("shoe_size"); ok {
		t.Error("expected unknown header to stay unresolved")
	}
}

func TestParseList(t *testing.T) {
	cases := []struct {
		in   string
		want []string
	}{
		{"Kharif, Rabi", []string{"Kharif", "Rabi"}},
		{"Wheat;Rice|Maize", []string{"Wheat", "Rice", "Maize"}},
		{" ,  , Cotton ", []string{"Cotton"}},
		{"", nil},
	}
	for _, tc := range cases {
		got := ParseList(tc.in)
		if len(got) == 0 && len(tc.want) == 0 {
			continue
		}
		if !reflect.DeepEqual(got, tc.want) {
			t.Errorf("ParseList(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestParseFlag(t *testing.T) {
	for _, truthy := range []string{"true", "Yes", " 1 ", "y", "TRUE"} {
		if !ParseFlag(truthy) {
			t.Errorf("ParseFlag(%q) = false, want true", truthy)
		}
	}
	for _, falsy := range []string{"false", "no", "0", "", "maybe"} {
		if ParseFlag(falsy) {
			t.Errorf("ParseFlag(%q) = true, want false", falsy)
		}
	}
}
