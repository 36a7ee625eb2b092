package quiz

import (
	"strconv"
	"strings"
)

// chineseDigits maps single numeral characters to their values.
var chineseDigits = map[rune]int{
	'零': 0, '一': 1, '二': 2, '两': 2, '三': 3, '四': 4,
	'五': 5, '六': 6, '七': 7, '八': 8, '九': 9,
	'十': 10, '百': 100, '千': 1000,
}

// ParseUserInput extracts an integer answer from raw player input.
// It accepts a leading base-10 integer ("42", "-3", "12abc") and falls back to
// simple Chinese numerals ("二十三", "三百五十"). ok is false when nothing usable
// was recognised.
func ParseUserInput(raw string) (value int, ok bool) {
	cleaned := strings.TrimSpace(raw)

	if n, found := leadingInt(cleaned); found {
		return n, true
	}

	result, pending := 0, 0
	for _, r := range cleaned {
		v, known := chineseDigits[r]
		if !known {
			continue
		}
		if v >= 10 {
			if pending == 0 {
				pending = 1
			}
			result += pending * v
			pending = 0
		} else {
			pending = v
		}
	}
	result += pending

	if result <= 0 {
		return 0, false
	}
	return result, true
}

// leadingInt parses an optional sign followed by the longest run of ASCII digits.
func leadingInt(s string) (int, bool) {
	end := 0
	if end < len(s) && (s[end] == '+' || s[end] == '-') {
		end++
	}
	digitsStart := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digitsStart {
		return 0, false
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0, false
	}
	return n, true
}
