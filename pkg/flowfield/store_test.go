package flowfield

import (
	"testing"

	"github.com/decker502/mossfield/pkg/config"
)

func TestParticleCount(t *testing.T) {
	s := config.DefaultSettings()

	tests := []struct {
		name          string
		width, height float64
		density       float64
		minCount      int
		want          int
	}{
		{"1000x1000 下限生效", 1000, 1000, 100000, 140, 140},
		{"2000x2000 下限生效", 2000, 2000, 100000, 140, 140},
		{"4000x3000 下限生效", 4000, 3000, 100000, 140, 140},
		{"面积主导", 4000, 4000, 100000, 140, 160},
		{"向下取整", 1000, 999, 5000, 10, 199},
		{"零视口", 0, 0, 100000, 140, 140},
		{"负视口", -100, 500, 100000, 3, 3},
		{"零下限", 100, 100, 100000, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s.Density = tt.density
			s.MinCount = tt.minCount
			if got := ParticleCount(tt.width, tt.height, s); got != tt.want {
				t.Errorf("ParticleCount(%v, %v) = %d, want %d", tt.width, tt.height, got, tt.want)
			}
		})
	}
}

func TestStoreRebuild(t *testing.T) {
	s := config.DefaultSettings()
	store := NewStore(s, newTestRandom())

	if store.Len() != 0 {
		t.Fatalf("new store Len() = %d, want 0", store.Len())
	}

	store.Rebuild(1000, 1000)
	if store.Len() != 140 {
		t.Fatalf("Len() = %d, want 140", store.Len())
	}
	w, h := store.Bounds()
	if w != 1000 || h != 1000 {
		t.Errorf("Bounds() = (%v, %v), want (1000, 1000)", w, h)
	}

	for i, p := range store.Particles() {
		if p.Age != 0 {
			t.Errorf("particle %d Age = %d, want 0", i, p.Age)
		}
		if p.MaxAge <= 0 || p.Speed <= 0 || p.Len <= 0 || p.Alpha <= 0 {
			t.Errorf("particle %d has zero sentinel fields: %+v", i, p)
		}
	}
}

// Rebuild 必须分配新数组，而不是原地调整大小
func TestStoreRebuild_ReplacesArray(t *testing.T) {
	s := config.DefaultSettings()
	s.Density = 1000
	store := NewStore(s, newTestRandom())

	store.Rebuild(400, 400)
	before := store.Particles()
	if len(before) != 160 {
		t.Fatalf("Len() = %d, want 160", len(before))
	}
	before[0].Age = 77

	store.Rebuild(200, 200)
	after := store.Particles()
	if len(after) != 140 {
		t.Fatalf("Len() after rebuild = %d, want 140", len(after))
	}
	if before[0].Age != 77 {
		t.Error("Rebuild mutated the previous particle array")
	}
	for i, p := range after {
		if p.X >= 200 || p.Y >= 200 {
			t.Errorf("particle %d at (%v, %v) outside new viewport", i, p.X, p.Y)
		}
	}
}

func TestStore_NilLen(t *testing.T) {
	var s *Store
	if s.Len() != 0 {
		t.Errorf("nil Store Len() = %d, want 0", s.Len())
	}
}
