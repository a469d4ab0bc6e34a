package parallel

import (
	"errors"
	"reflect"
	"testing"
)

func seq(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i
	}
	return out
}

func TestPartition_Sizes(t *testing.T) {
	chunks, err := Partition(seq(11), 4)
	if err != nil {
		t.Fatalf("Partition failed: %v", err)
	}

	want := [][]int{{0, 1, 2}, {3, 4, 5}, {6, 7, 8}, {9, 10}}
	if !reflect.DeepEqual(chunks, want) {
		t.Errorf("Expected %v, got %v", want, chunks)
	}
}

func TestPartition_LosslessAndOrdered(t *testing.T) {
	for n := 0; n <= 40; n++ {
		for workers := 1; workers <= 9; workers++ {
			items := seq(n)
			chunks, err := Partition(items, workers)
			if err != nil {
				t.Fatalf("n=%d workers=%d: %v", n, workers, err)
			}
			if len(chunks) != workers {
				t.Fatalf("n=%d workers=%d: expected %d chunks, got %d", n, workers, workers, len(chunks))
			}

			joined := []int{}
			for i, c := range chunks {
				joined = append(joined, c...)

				start, end := Bounds(n, workers, i)
				if len(c) != end-start {
					t.Errorf("n=%d workers=%d chunk=%d: expected len %d, got %d", n, workers, i, end-start, len(c))
				}
				if len(c) > 0 && c[0] != start {
					t.Errorf("n=%d workers=%d chunk=%d: expected start %d, got %d", n, workers, i, start, c[0])
				}
				// near-equal sizes
				if len(c) < n/workers || len(c) > n/workers+1 {
					t.Errorf("n=%d workers=%d chunk=%d: unbalanced len %d", n, workers, i, len(c))
				}
			}
			if !reflect.DeepEqual(joined, items) {
				t.Errorf("n=%d workers=%d: chunks do not reassemble input: %v", n, workers, joined)
			}
		}
	}
}

func TestPartition_MoreWorkersThanItems(t *testing.T) {
	chunks, err := Partition([]string{"a", "b"}, 5)
	if err != nil {
		t.Fatalf("Partition failed: %v", err)
	}
	if len(chunks) != 5 {
		t.Fatalf("Expected 5 chunks, got %d", len(chunks))
	}

	if !reflect.DeepEqual(chunks[0], []string{"a"}) || !reflect.DeepEqual(chunks[1], []string{"b"}) {
		t.Errorf("Unexpected leading chunks: %v", chunks[:2])
	}
	for i, c := range chunks[2:] {
		if len(c) != 0 {
			t.Errorf("Expected chunk %d empty, got %v", i+2, c)
		}
	}
}

func TestPartition_Empty(t *testing.T) {
	chunks, err := Partition([]int(nil), 3)
	if err != nil {
		t.Fatalf("Partition failed: %v", err)
	}
	if len(chunks) != 3 {
		t.Fatalf("Expected 3 chunks, got %d", len(chunks))
	}
	for i, c := range chunks {
		if len(c) != 0 {
			t.Errorf("Expected chunk %d empty, got %v", i, c)
		}
	}
}

func TestPartition_InvalidWorkers(t *testing.T) {
	for _, workers := range []int{0, -2} {
		if _, err := Partition(seq(3), workers); !errors.Is(err, ErrInvalidWorkerCount) {
			t.Errorf("workers=%d: expected ErrInvalidWorkerCount, got %v", workers, err)
		}
	}
}

func TestPartition_ChunkAppendDoesNotClobber(t *testing.T) {
	chunks, err := Partition(seq(6), 2)
	if err != nil {
		t.Fatalf("Partition failed: %v", err)
	}

	_ = append(chunks[0], 99)
	if chunks[1][0] != 3 {
		t.Errorf("Expected neighbouring chunk untouched, got %v", chunks[1])
	}
}
