package cursorpagination

import "testing"

func Test_IsNormalizedLimitMax(t *testing.T) {
	tests := []struct {
		name     string
		limit    int
		def      int
		max      int
		want     int
		isStrict bool
	}{
		{"zero uses default", 0, DefaultLimit, 50, DefaultLimit, false},
		{"negative uses default", -10, 5, 50, 5, false},
		{"within max unchanged", 7, DefaultLimit, 50, 7, true},
		{"equal max unchanged", 50, DefaultLimit, 50, 50, true},
		{"above max clamped", 51, DefaultLimit, 50, 50, false},
		{"no max", 5000, DefaultLimit, 0, 5000, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, strict := IsNormalizedLimitMax(tt.limit, tt.def, tt.max)
			if got != tt.want || strict != tt.isStrict {
				t.Errorf("%s: got=(%d,%v) want=(%d,%v)", tt.name, got, strict, tt.want, tt.isStrict)
			}
		})
	}
}

func Test_NormalizeLimit(t *testing.T) {
	tests := []struct {
		name  string
		limit int
		want  int
	}{
		{"zero -> default", 0, DefaultLimit},
		{"negative -> default", -1, DefaultLimit},
		{"clamp to MaxLimit", MaxLimit + 1, MaxLimit},
		{"keep when ok", 17, 17},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeLimit(tt.limit); got != tt.want {
				t.Errorf("%s: got %d want %d", tt.name, got, tt.want)
			}
		})
	}
}

func Test_Spec_requestLimit(t *testing.T) {
	tests := []struct {
		name      string
		limit     int
		maxLimit  int
		requested int
		want      int
	}{
		{"configured limit", 3, 0, 0, 3},
		{"requested overrides", 3, 0, 7, 7},
		{"requested capped", 3, 10, 70, 10},
		{"unlimited spec", NoLimit, 0, 0, NoLimit},
		{"unlimited spec, requested", NoLimit, 20, 5, 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := &Spec{limit: tt.limit, maxLimit: tt.maxLimit}
			if got := s.requestLimit(tt.requested); got != tt.want {
				t.Errorf("%s: got %d want %d", tt.name, got, tt.want)
			}
		})
	}
}
