package phone

import "testing"

func TestNormalizeE164(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  string
	}{
		{"us national format", "(919) 555-0142", "+19195550142"},
		{"already e164", "+19195550142", "+19195550142"},
		{"with country code no plus", "1 919 555 0142", "+19195550142"},
		{"garbage passes through", "not-a-number", "not-a-number"},
		{"empty", "  ", ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := NormalizeE164(tc.input)
			if got != tc.want {
				t.Fatalf("NormalizeE164(%q) = %q, want %q", tc.input, got, tc.want)
			}
		})
	}
}
