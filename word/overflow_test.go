/*
NAME
  overflow_test.go - tests for overflow.go.

LICENSE
  Copyright (C) 2024 the ch10gen project contributors.
*/

package word

import "testing"

func TestEncodeWithPolicyInRangeNoWarning(t *testing.T) {
	words, warned, err := EncodeWithPolicy(100, U16, 1, 0, LSWMSW, Clamp)
	if err != nil {
		t.Fatal(err)
	}
	if warned {
		t.Fatal("value within range should not warn")
	}
	if words[0] != 100 {
		t.Fatalf("got %d, want 100", words[0])
	}
}

func TestEncodeWithPolicyClamps(t *testing.T) {
	words, warned, err := EncodeWithPolicy(70000, U16, 1, 0, LSWMSW, Clamp)
	if err != nil {
		t.Fatal(err)
	}
	if !warned {
		t.Fatal("out-of-range value should warn under Clamp")
	}
	if words[0] != 65535 {
		t.Fatalf("got %d, want clamp to 65535", words[0])
	}
}

func TestEncodeWithPolicyStrictFails(t *testing.T) {
	_, _, err := EncodeWithPolicy(70000, U16, 1, 0, LSWMSW, Strict)
	if err == nil {
		t.Fatal("expected an error for an out-of-range value under Strict")
	}
}

func TestEncodeWithPolicyWraps(t *testing.T) {
	words, warned, err := EncodeWithPolicy(65536, U16, 1, 0, LSWMSW, Wrap)
	if err != nil {
		t.Fatal(err)
	}
	if !warned {
		t.Fatal("out-of-range value should warn under Wrap")
	}
	if words[0] != 0 {
		t.Fatalf("got %d, want wrap to 0", words[0])
	}
}

func TestEncodeWithPolicyBoundaryDoesNotWarn(t *testing.T) {
	_, warned, err := EncodeWithPolicy(65535, U16, 1, 0, LSWMSW, Clamp)
	if err != nil {
		t.Fatal(err)
	}
	if warned {
		t.Fatal("a value exactly at the encoding's max should not warn")
	}
}
