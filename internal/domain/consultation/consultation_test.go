package consultation

import "testing"

func f(v float64) *float64 { return &v }

func TestComputeBMI(t *testing.T) {
	tests := []struct {
		name     string
		weightKg *float64
		heightCm *float64
		want     *float64
	}{
		{"normal adult", f(70), f(175), f(22.9)},
		{"rounding up", f(80), f(170), f(27.7)},
		{"child", f(20), f(110), f(16.5)},
		{"missing weight", nil, f(175), nil},
		{"missing height", f(70), nil, nil},
		{"zero height", f(70), f(0), nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeBMI(tt.weightKg, tt.heightCm)
			switch {
			case got == nil && tt.want == nil:
			case got == nil || tt.want == nil:
				t.Errorf("ComputeBMI = %v, want %v", got, tt.want)
			case *got != *tt.want:
				t.Errorf("ComputeBMI = %v, want %v", *got, *tt.want)
			}
		})
	}
}
