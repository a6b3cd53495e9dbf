package engine

import "testing"

func TestRoll_Bounds(t *testing.T) {
	rng := NewRNG(42)
	for i := 0; i < 1000; i++ {
		v := rng.Roll(6)
		if v < 1 || v > 6 {
			t.Fatalf("roll out of range: %d", v)
		}
	}
}

func TestRoll_MaxBelowOne(t *testing.T) {
	rng := NewRNG(1)
	for i := 0; i < 10; i++ {
		if v := rng.Roll(0); v != 1 {
			t.Errorf("Roll(0) = %d, want 1", v)
		}
	}
}

func TestRNG_Deterministic(t *testing.T) {
	rng1 := NewRNG(99)
	rng2 := NewRNG(99)
	for i := 0; i < 50; i++ {
		if v1, v2 := rng1.Roll(20), rng2.Roll(20); v1 != v2 {
			t.Fatalf("iteration %d: %d != %d", i, v1, v2)
		}
	}
}

func TestChance_Degenerate(t *testing.T) {
	rng := NewRNG(7)
	for i := 0; i < 100; i++ {
		if rng.Chance(0) {
			t.Fatal("Chance(0) fired")
		}
		if !rng.Chance(1) {
			t.Fatal("Chance(1) did not fire")
		}
	}
	// Degenerate probabilities must not consume draws.
	if rng.Position() != 0 {
		t.Errorf("position = %d after degenerate draws, want 0", rng.Position())
	}
}

func TestChance_Distribution(t *testing.T) {
	rng := NewRNG(42)
	hits := 0
	for i := 0; i < 10000; i++ {
		if rng.Chance(0.05) {
			hits++
		}
	}
	// ~500 expected.
	if hits < 350 || hits > 650 {
		t.Errorf("Chance(0.05) fired %d/10000 times", hits)
	}
}

func TestRestoreRNG_ResumesStream(t *testing.T) {
	rng := NewRNG(1234)
	for i := 0; i < 17; i++ {
		rng.Roll(100)
	}
	pos := rng.Position()

	restored := RestoreRNG(1234, pos)
	for i := 0; i < 20; i++ {
		v1 := rng.Roll(100)
		v2 := restored.Roll(100)
		if v1 != v2 {
			t.Fatalf("draw %d after restore: %d != %d", i, v1, v2)
		}
	}
}
