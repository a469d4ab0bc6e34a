package parallel

import (
	"errors"
	"reflect"
	"strings"
	"testing"
)

func TestMap_ResultsInChunkOrder(t *testing.T) {
	chunks, err := Partition(seq(10), 3)
	if err != nil {
		t.Fatalf("Partition failed: %v", err)
	}

	sums, err := Map(chunks, func(_ int, chunk []int) (int, error) {
		s := 0
		for _, v := range chunk {
			s += v
		}
		return s, nil
	})
	if err != nil {
		t.Fatalf("Map failed: %v", err)
	}

	// chunks: [0..3], [4..6], [7..9]
	if want := []int{6, 15, 24}; !reflect.DeepEqual(sums, want) {
		t.Errorf("Expected %v, got %v", want, sums)
	}
}

func TestMap_WorkerErrorAbortsAll(t *testing.T) {
	boom := errors.New("boom")
	chunks := [][]int{{1}, {2}, {3}}

	res, err := Map(chunks, func(worker int, _ []int) (int, error) {
		if worker == 1 {
			return 0, boom
		}
		return worker, nil
	})

	if res != nil {
		t.Errorf("Expected nil results on failure, got %v", res)
	}
	if !errors.Is(err, boom) {
		t.Fatalf("Expected boom, got %v", err)
	}

	var we *WorkerError
	if !errors.As(err, &we) {
		t.Fatalf("Expected *WorkerError, got %T", err)
	}
	if we.Worker != 1 {
		t.Errorf("Expected worker 1, got %d", we.Worker)
	}
}

func TestMap_PanicBecomesWorkerError(t *testing.T) {
	chunks := [][]int{{1}, {2}}

	_, err := Map(chunks, func(worker int, _ []int) (int, error) {
		if worker == 0 {
			panic("index out of range")
		}
		return 0, nil
	})

	var we *WorkerError
	if !errors.As(err, &we) {
		t.Fatalf("Expected *WorkerError, got %v", err)
	}
	if we.Worker != 0 {
		t.Errorf("Expected worker 0, got %d", we.Worker)
	}
	if !strings.Contains(we.Error(), "index out of range") {
		t.Errorf("Expected panic value in error, got %q", we.Error())
	}
	if len(we.Stack) == 0 {
		t.Error("Expected stack trace")
	}
}

func TestMap_NoChunks(t *testing.T) {
	res, err := Map([][]int{}, func(_ int, _ []int) (int, error) { return 1, nil })
	if err != nil {
		t.Fatalf("Map failed: %v", err)
	}
	if len(res) != 0 {
		t.Errorf("Expected no results, got %v", res)
	}
}

func TestMergeDisjoint(t *testing.T) {
	merged, err := MergeDisjoint(
		map[string]int{"a": 1, "b": 2},
		map[string]int{},
		map[string]int{"c": 3},
	)
	if err != nil {
		t.Fatalf("MergeDisjoint failed: %v", err)
	}
	if want := map[string]int{"a": 1, "b": 2, "c": 3}; !reflect.DeepEqual(merged, want) {
		t.Errorf("Expected %v, got %v", want, merged)
	}
}

func TestMergeDisjoint_DuplicateKey(t *testing.T) {
	_, err := MergeDisjoint(
		map[string]int{"a": 1},
		map[string]int{"a": 2},
	)
	if !errors.Is(err, ErrDuplicateKey) {
		t.Errorf("Expected ErrDuplicateKey, got %v", err)
	}
}
