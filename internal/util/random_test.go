package util

import (
	"sort"
	"testing"
)

func TestShufflePreservesElements(t *testing.T) {
	in := []int{1, 2, 3, 4, 5, 6, 7, 8}
	out := Shuffle(in)

	if len(out) != len(in) {
		t.Fatalf("expected %d elements, got %d", len(in), len(out))
	}
	sorted := append([]int(nil), out...)
	sort.Ints(sorted)
	for i, v := range sorted {
		if v != i+1 {
			t.Fatalf("element set changed: %v", out)
		}
	}
}

func TestShuffleDoesNotMutateInput(t *testing.T) {
	in := []string{"a", "b", "c", "d"}
	_ = Shuffle(in)
	if in[0] != "a" || in[1] != "b" || in[2] != "c" || in[3] != "d" {
		t.Fatalf("input mutated: %v", in)
	}
}

func TestRandomSubset(t *testing.T) {
	in := []int{1, 2, 3, 4, 5}

	sub := RandomSubset(in, 3)
	if len(sub) != 3 {
		t.Fatalf("expected 3 elements, got %d", len(sub))
	}
	seen := map[int]bool{}
	for _, v := range sub {
		if seen[v] {
			t.Fatalf("duplicate element %d in subset", v)
		}
		seen[v] = true
	}

	all := RandomSubset(in, 10)
	if len(all) != 5 {
		t.Fatalf("oversized request should return everything, got %d", len(all))
	}
}

func TestSuccessRate(t *testing.T) {
	tests := []struct {
		correct, total, want int
	}{
		{0, 0, 0},
		{1, 2, 50},
		{2, 3, 67},
		{3, 3, 100},
		{0, 5, 0},
	}
	for _, tt := range tests {
		if got := SuccessRate(tt.correct, tt.total); got != tt.want {
			t.Fatalf("SuccessRate(%d, %d) = %d, want %d", tt.correct, tt.total, got, tt.want)
		}
	}
}
