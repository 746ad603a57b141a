package playback

import "testing"

func TestAspectClassFor(t *testing.T) {
	tests := []struct {
		name   string
		width  int
		height int
		want   AspectClass
	}{
		{"very wide frame", 1920, 540, AspectWide},
		{"ratio exactly 2 is not wide", 2560, 1280, AspectNormal},
		{"standard 16:9", 1920, 1080, AspectNormal},
		{"portrait", 1080, 1920, AspectTall},
		{"4:3 is tall", 640, 480, AspectTall},
		{"zero height falls back to normal", 1920, 0, AspectNormal},
		{"zero width falls back to normal", 0, 1080, AspectNormal},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := AspectClassFor(tt.width, tt.height); got != tt.want {
				t.Errorf("AspectClassFor(%d, %d) = %v, want %v", tt.width, tt.height, got, tt.want)
			}
		})
	}
}

func TestAspectClass_String(t *testing.T) {
	if AspectWide.String() != "wide" || AspectTall.String() != "tall" || AspectNormal.String() != "normal" {
		t.Errorf("unexpected labels: %q %q %q", AspectWide, AspectTall, AspectNormal)
	}
}
