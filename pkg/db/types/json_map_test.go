package dbtypes

import "testing"

func TestJSONMapRoundTrip(t *testing.T) {
	m := JSONMap{"moisture": "12%", "grade": "A"}
	val, err := m.Value()
	if err != nil {
		t.Fatalf("Value: %v", err)
	}

	var out JSONMap
	if err := out.Scan(val); err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if out["moisture"] != "12%" || out["grade"] != "A" {
		t.Fatalf("unexpected round trip result: %v", out)
	}
}

func TestJSONMapNil(t *testing.T) {
	var m JSONMap
	val, err := m.Value()
	if err != nil {
		t.Fatalf("Value: %v", err)
	}
	if val != nil {
		t.Fatalf("expected nil driver value, got %v", val)
	}

	var out JSONMap
	if err := out.Scan(nil); err != nil {
		t.Fatalf("Scan nil: %v", err)
	}
	if out != nil {
		t.Fatalf("expected nil map, got %v", out)
	}
}

func TestJSONMapScanRejectsUnknownType(t *testing.T) {
	var out JSONMap
	if err := out.Scan(42); err == nil {
		t.Fatal("expected error for unsupported type")
	}
}

func TestJSONRawRoundTrip(t *testing.T) {
	raw := JSONRaw(`[{"row":3,"message":"missing company_name"}]`)
	val, err := raw.Value()
	if err != nil {
		t.Fatalf("Value: %v", err)
	}

	var out JSONRaw
	if err := out.Scan(val); err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if string(out) != string(raw) {
		t.Fatalf("unexpected round trip: %s", out)
	}

	var empty JSONRaw
	if v, err := empty.Value(); err != nil || v != nil {
		t.Fatalf("expected nil value for nil raw, got %v err %v", v, err)
	}
}
