package marker

import (
	"reflect"
	"testing"
)

func TestStoreAddOverwriteRemove(t *testing.T) {
	s := NewStore()
	s.Add(1, "23,50", "red")
	if got := s.Get(1); got["23,50"] != "red" {
		t.Fatalf("expected 23,50->red, got %v", got)
	}

	s.Add(1, "23,50", "blue")
	got := s.Get(1)
	if len(got) != 1 || got["23,50"] != "blue" {
		t.Fatalf("expected single overwritten entry, got %v", got)
	}

	s.Remove(1, "23,50")
	if _, ok := s.Get(1)["23,50"]; ok {
		t.Fatalf("expected marker removed")
	}
}

func TestStoreRemoveAbsentIsNoop(t *testing.T) {
	s := NewStore()
	s.Add(2, "e3", "yellow")
	before := s.Snapshot()

	s.Remove(2, "e4")
	s.Remove(9, "1,1")

	if !reflect.DeepEqual(before, s.Snapshot()) {
		t.Fatalf("store changed after removing absent specs: before=%v after=%v", before, s.Snapshot())
	}
}

func TestStoreGetReturnsCopy(t *testing.T) {
	s := NewStore()
	s.Add(1, "1", "red")
	got := s.Get(1)
	got["1"] = "mutated"
	if c := s.Get(1)["1"]; c != "red" {
		t.Fatalf("Get must not expose internal map, got %q", c)
	}
}

func TestStoreSnapshotReplaceRoundTrip(t *testing.T) {
	s := NewStore()
	s.Add(1, "1,2", "red")
	s.Add(1, "e5", "blue")
	s.Add(3, "v1,v2", "#fff")
	s.Add(7, "42", "green")

	saved := s.Snapshot()
	fresh := NewStore()
	fresh.Add(99, "0,0", "stale")
	fresh.Replace(saved)

	if !reflect.DeepEqual(fresh.Snapshot(), saved) {
		t.Fatalf("replace mismatch: got=%v want=%v", fresh.Snapshot(), saved)
	}
	if fresh.Len() != 4 {
		t.Fatalf("expected 4 markers, got %d", fresh.Len())
	}
	saved[1]["1,2"] = "mutated"
	if c := fresh.Get(1)["1,2"]; c != "red" {
		t.Fatalf("replace must copy its input, got %q", c)
	}
}

func TestStoreSpecsSorted(t *testing.T) {
	s := NewStore()
	s.Add(1, "e2", "a")
	s.Add(1, "10,3", "b")
	s.Add(1, "1", "c")
	want := []string{"1", "10,3", "e2"}
	if got := s.Specs(1); !reflect.DeepEqual(got, want) {
		t.Fatalf("Specs=%v want %v", got, want)
	}
}

func TestNormalize(t *testing.T) {
	cases := map[string]string{
		" V8 ":     "v8",
		"v8":       "v8",
		"1, 2":     "1,2",
		"E 13":     "e13",
		"\tv4 ,10": "v4,10",
	}
	for in, want := range cases {
		if got := Normalize(in); got != want {
			t.Fatalf("Normalize(%q)=%q want %q", in, got, want)
		}
		if again := Normalize(Normalize(in)); again != want {
			t.Fatalf("Normalize is not idempotent for %q: %q", in, again)
		}
	}
}
