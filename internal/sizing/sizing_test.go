package sizing

import (
	"math/rand"
	"testing"
)

func TestDepthQty(t *testing.T) {
	cases := []struct {
		depth int
		want  int
	}{
		{0, 1},   // empty book floors to 1
		{1, 1},   // 1^0.35 = 1
		{2, 1},   // round(1.27)
		{100, 5}, // round(5.01)
		{500, 9}, // round(8.80)
	}
	for _, tc := range cases {
		if got := DepthQty(tc.depth); got != tc.want {
			t.Fatalf("DepthQty(%d) = %d, want %d", tc.depth, got, tc.want)
		}
	}
}

func TestDepthQtyNeverZero(t *testing.T) {
	for depth := -5; depth < 1000; depth++ {
		if got := DepthQty(depth); got < 1 {
			t.Fatalf("DepthQty(%d) = %d, below 1", depth, got)
		}
	}
}

func TestSampleQtyPositiveAndRounded(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 10000; i++ {
		qty := SampleQty(rng)
		if qty < 1 {
			t.Fatalf("sampled quantity %d below 1", qty)
		}
	}
}

func TestSampleQtyDeterministicUnderSeed(t *testing.T) {
	first := make([]int, 100)
	rng := rand.New(rand.NewSource(7))
	for i := range first {
		first[i] = SampleQty(rng)
	}
	rng = rand.New(rand.NewSource(7))
	for i := range first {
		if got := SampleQty(rng); got != first[i] {
			t.Fatalf("draw %d: %d != %d under same seed", i, got, first[i])
		}
	}
}

func TestSampleQtyFloorAt70(t *testing.T) {
	// X lies in (0,1], so ceil(70/X) is at least 70; rounding to the nearest
	// ten cannot bring it below that.
	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 1000; i++ {
		if qty := SampleQty(rng); qty < 70 {
			t.Fatalf("sampled quantity %d below distribution floor", qty)
		}
	}
}
