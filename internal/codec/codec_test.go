package codec

import (
	"bytes"
	"io"
	"testing"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		rec  Record
	}{
		{"set", NewSet("key1", "value1")},
		{"remove", NewRemove("key1")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			if err := Encode(&buf, tt.rec); err != nil {
				t.Fatalf("Encode failed: %v", err)
			}

			got, err := DecodeOne(buf.Bytes())
			if err != nil {
				t.Fatalf("DecodeOne failed: %v", err)
			}
			if got != tt.rec {
				t.Errorf("got %+v, want %+v", got, tt.rec)
			}
		})
	}
}

func TestEncodeRejectsInvalidRecords(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		rec  Record
	}{
		{"empty key", NewSet("", "value")},
		{"empty value on set", NewSet("key", "")},
		{"unknown kind", Record{Kind: "bogus", Key: "key"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			if err := Encode(&buf, tt.rec); err == nil {
				t.Fatal("expected an error, got nil")
			}
		})
	}
}

func TestDecoderStreamsMultipleRecords(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	want := []Record{NewSet("a", "1"), NewSet("b", "2"), NewRemove("a")}
	for _, rec := range want {
		if err := Encode(&buf, rec); err != nil {
			t.Fatalf("Encode failed: %v", err)
		}
	}

	dec := NewDecoder(&buf)
	var got []Record
	var lastOffset int64
	for {
		rec, offset, err := dec.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("Next failed: %v", err)
		}
		if offset <= lastOffset {
			t.Errorf("offset did not advance: got %d after %d", offset, lastOffset)
		}
		lastOffset = offset
		got = append(got, rec)
	}

	if len(got) != len(want) {
		t.Fatalf("got %d records, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("record %d: got %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestDecoderReportsTruncatedTrailingRecord(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	if err := Encode(&buf, NewSet("a", "1")); err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	// Truncate mid-record to simulate a crash during a write.
	truncated := buf.Bytes()[:buf.Len()-3]

	dec := NewDecoder(bytes.NewReader(truncated))
	if _, _, err := dec.Next(); err == nil || err == io.EOF {
		t.Fatalf("expected a truncation error, got %v", err)
	}
}
