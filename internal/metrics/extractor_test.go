package metrics

import "testing"

func TestParseFullOutput(t *testing.T) {
	stdout := `WT-HALI simulator v2
Loading dataset: clustered (500,000 keys)
Build Time: 1250.5 ms
Mean Lookup: 54.7 ns
Insert Throughput: 14700000 ops/sec
Space per Key: 17.25 bytes/key
Done.
`
	rec := Parse(stdout)

	if rec.LookupNS == nil || *rec.LookupNS != 54.7 {
		t.Fatalf("expected lookup_ns 54.7, got %v", rec.LookupNS)
	}
	if rec.InsertOpsSec == nil || *rec.InsertOpsSec != 14700000 {
		t.Fatalf("expected insert_ops_sec 14700000, got %v", rec.InsertOpsSec)
	}
	if rec.BytesPerKey == nil || *rec.BytesPerKey != 17.25 {
		t.Fatalf("expected bytes_per_key 17.25, got %v", rec.BytesPerKey)
	}
	if rec.BuildMS == nil || *rec.BuildMS != 1250.5 {
		t.Fatalf("expected build_ms 1250.5, got %v", rec.BuildMS)
	}
}

func TestParseMissingLabelLeavesFieldAbsent(t *testing.T) {
	rec := Parse("Mean Lookup: 54.7 ns\n")

	if rec.LookupNS == nil || *rec.LookupNS != 54.7 {
		t.Fatalf("expected lookup_ns 54.7, got %v", rec.LookupNS)
	}
	if rec.InsertOpsSec != nil {
		t.Fatalf("expected insert_ops_sec to be absent, got %v", *rec.InsertOpsSec)
	}
	if rec.BytesPerKey != nil {
		t.Fatalf("expected bytes_per_key to be absent, got %v", *rec.BytesPerKey)
	}
	if rec.BuildMS != nil {
		t.Fatalf("expected build_ms to be absent, got %v", *rec.BuildMS)
	}
}

func TestParseEmptyOutput(t *testing.T) {
	rec := Parse("")
	if rec.LookupNS != nil || rec.InsertOpsSec != nil || rec.BytesPerKey != nil || rec.BuildMS != nil {
		t.Fatalf("expected all metrics absent for empty output, got %+v", rec)
	}
}

func TestParseTolerantOfNoise(t *testing.T) {
	stdout := `[2026-08-30 12:00:01] INFO starting
warning: cache cold, Mean Lookup: 90.2 ns (first pass)
garbage line with no colon
Insert Throughput: not_a_number ops/sec
`
	rec := Parse(stdout)

	// Label matched mid-line still parses.
	if rec.LookupNS == nil || *rec.LookupNS != 90.2 {
		t.Fatalf("expected lookup_ns 90.2, got %v", rec.LookupNS)
	}
	// Unparseable value is treated as missing, not an error.
	if rec.InsertOpsSec != nil {
		t.Fatalf("expected unparseable insert_ops_sec to be absent, got %v", *rec.InsertOpsSec)
	}
}

func TestParseLastOccurrenceWins(t *testing.T) {
	stdout := "Mean Lookup: 100.0 ns\nMean Lookup: 80.0 ns\n"
	rec := Parse(stdout)
	if rec.LookupNS == nil || *rec.LookupNS != 80.0 {
		t.Fatalf("expected last occurrence 80.0, got %v", rec.LookupNS)
	}
}
