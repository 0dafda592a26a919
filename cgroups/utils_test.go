package cgroups

import "testing"

func TestConvertCpuSharesToCgroupV2Value(t *testing.T) {
	cases := map[uint64]uint64{
		0:      0,
		1:      1,
		2:      1,
		26:     1,
		260:    10,
		1024:   39,
		262144: 10000,
		300000: 10000,
	}
	for shares, expected := range cases {
		if got := ConvertCpuSharesToCgroupV2Value(shares); got != expected {
			t.Errorf("ConvertCpuSharesToCgroupV2Value(%d) = %d, want %d", shares, got, expected)
		}
	}
}

func TestConvertBlkIOToIOWeightValue(t *testing.T) {
	cases := map[uint16]uint64{
		0:     0,
		10:    10,
		1000:  1000,
		65535: 10000,
	}
	for weight, expected := range cases {
		if got := ConvertBlkIOToIOWeightValue(weight); got != expected {
			t.Errorf("ConvertBlkIOToIOWeightValue(%d) = %d, want %d", weight, got, expected)
		}
	}
}

func TestConvertMemoryToCgroupV2Value(t *testing.T) {
	if v := ConvertMemoryToCgroupV2Value(-1); v != "max" {
		t.Errorf("expected -1 to render as max, got %q", v)
	}
	if v := ConvertMemoryToCgroupV2Value(134217728); v != "134217728" {
		t.Errorf("expected decimal byte count, got %q", v)
	}
}

func TestParseKeyValue(t *testing.T) {
	name, value, err := ParseKeyValue("usage_usec 27418395")
	if err != nil {
		t.Fatal(err)
	}
	if name != "usage_usec" || value != 27418395 {
		t.Fatalf("unexpected parse result %s=%d", name, value)
	}

	if _, _, err := ParseKeyValue("malformed"); err == nil {
		t.Fatal("expected error for line without a value")
	}
}
