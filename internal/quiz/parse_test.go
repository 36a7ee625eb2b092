package quiz

import "testing"

func TestParseUserInput(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		want   int
		wantOK bool
	}{
		{"plain integer", "59", 59, true},
		{"surrounding whitespace", "  42 \n", 42, true},
		{"zero", "0", 0, true},
		{"negative", "-3", -3, true},
		{"explicit plus", "+8", 8, true},
		{"leading integer with junk", "12abc", 12, true},
		{"empty", "", 0, false},
		{"garbage", "abc", 0, false},
		{"sign only", "-", 0, false},
		{"single chinese digit", "七", 7, true},
		{"chinese ten", "十", 10, true},
		{"chinese teens", "十五", 15, true},
		{"chinese tens and units", "二十三", 23, true},
		{"chinese thirty five", "三十五", 35, true},
		{"chinese hundreds", "三百五十", 350, true},
		{"chinese thousand with zero", "一千零五", 1005, true},
		{"liang", "两百", 200, true},
		{"chinese zero is absent", "零", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseUserInput(tt.input)
			if ok != tt.wantOK {
				t.Fatalf("ParseUserInput(%q) ok = %v, want %v", tt.input, ok, tt.wantOK)
			}
			if ok && got != tt.want {
				t.Errorf("ParseUserInput(%q) = %d, want %d", tt.input, got, tt.want)
			}
		})
	}
}
