package triples

import (
	"reflect"
	"testing"

	"defi-path-finder/internal/domain"
)

func ids(v ...int) []domain.TokenID {
	out := make([]domain.TokenID, len(v))
	for i, x := range v {
		out[i] = domain.TokenID(x)
	}
	return out
}

func TestCount(t *testing.T) {
	tests := []struct{ n, want int }{
		{0, 0}, {2, 0}, {3, 1}, {4, 4}, {10, 120},
	}
	for _, tt := range tests {
		if got := Count(tt.n); got != tt.want {
			t.Errorf("Count(%d): expected %d, got %d", tt.n, tt.want, got)
		}
	}
}

func TestEnumerate_Lexicographic(t *testing.T) {
	got := Enumerate(ids(3, 0, 2, 1))
	want := []domain.TokenTriple{
		{0, 1, 2},
		{0, 1, 3},
		{0, 2, 3},
		{1, 2, 3},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Expected %v, got %v", want, got)
	}
}

func TestEnumerate_SizeMatchesCount(t *testing.T) {
	for n := 0; n <= 12; n++ {
		tokens := make([]domain.TokenID, n)
		for i := range tokens {
			tokens[i] = domain.TokenID(i * 7)
		}

		got := Enumerate(tokens)
		if len(got) != Count(n) {
			t.Fatalf("n=%d: expected %d triples, got %d", n, Count(n), len(got))
		}

		seen := make(map[domain.TokenTriple]bool, len(got))
		for _, tr := range got {
			if !(tr[0] < tr[1] && tr[1] < tr[2]) {
				t.Errorf("triple %v not canonical", tr)
			}
			if seen[tr] {
				t.Errorf("duplicate triple %v", tr)
			}
			seen[tr] = true
		}
	}
}

func TestEnumerate_DuplicatesInUniverse(t *testing.T) {
	got := Enumerate(ids(1, 1, 2, 3, 3))
	if want := []domain.TokenTriple{{1, 2, 3}}; !reflect.DeepEqual(got, want) {
		t.Errorf("Expected %v, got %v", want, got)
	}
}

func TestEnumerate_DoesNotMutateInput(t *testing.T) {
	in := ids(5, 1, 3)
	Enumerate(in)
	if want := ids(5, 1, 3); !reflect.DeepEqual(in, want) {
		t.Errorf("Input mutated: %v", in)
	}
}

func TestEnumerate_TwoTokens(t *testing.T) {
	if got := Enumerate(ids(0, 1)); len(got) != 0 {
		t.Errorf("Expected no triples, got %v", got)
	}
}

func TestContainsAll(t *testing.T) {
	tr := domain.TokenTriple{1, 4, 9}
	tests := []struct {
		tokens []domain.TokenID
		want   bool
	}{
		{nil, true},
		{ids(4), true},
		{ids(9, 1), true},
		{ids(4, 5), false},
		{ids(1, 4, 9, 2), false},
	}
	for _, tt := range tests {
		if got := ContainsAll(tr, tt.tokens); got != tt.want {
			t.Errorf("ContainsAll(%v, %v): expected %v, got %v", tr, tt.tokens, tt.want, got)
		}
	}
}
