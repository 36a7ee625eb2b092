package quiz

import (
	"fmt"
	"strconv"
	"strings"
	"testing"
)

func TestBuild(t *testing.T) {
	tests := []struct {
		name       string
		num1, num2 int
		op         Op
		wantExpr   string
		wantAnswer int
	}{
		{"two-digit addition", 47, 12, OpAdd, "47 + 12", 59},
		{"subtraction keeps order", 50, 8, OpSub, "50 - 8", 42},
		{"subtraction swaps negative", 8, 50, OpSub, "50 - 8", 42},
		{"subtraction equal operands", 9, 9, OpSub, "9 - 9", 0},
		{"multiplication", 12, 11, OpMul, "12 * 11", 132},
		{"exact division", 7, 6, OpDiv, "42 / 6", 7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			expr, answer := Build(tt.num1, tt.num2, tt.op)
			if expr != tt.wantExpr {
				t.Errorf("Build(%d, %d, %s) expr = %q, want %q", tt.num1, tt.num2, tt.op, expr, tt.wantExpr)
			}
			if answer != tt.wantAnswer {
				t.Errorf("Build(%d, %d, %s) answer = %d, want %d", tt.num1, tt.num2, tt.op, answer, tt.wantAnswer)
			}
		})
	}
}

// evaluate recomputes an expression so generated answers can be checked.
func evaluate(t *testing.T, expr string) int {
	t.Helper()
	parts := strings.Fields(expr)
	if len(parts) != 3 {
		t.Fatalf("expression %q is not <num> <op> <num>", expr)
	}
	a, err := strconv.Atoi(parts[0])
	if err != nil {
		t.Fatalf("bad operand in %q: %v", expr, err)
	}
	b, err := strconv.Atoi(parts[2])
	if err != nil {
		t.Fatalf("bad operand in %q: %v", expr, err)
	}
	switch Op(parts[1]) {
	case OpAdd:
		return a + b
	case OpSub:
		return a - b
	case OpMul:
		return a * b
	case OpDiv:
		if b == 0 || a%b != 0 {
			t.Fatalf("division %q is not exact", expr)
		}
		return a / b
	}
	t.Fatalf("unknown operator in %q", expr)
	return 0
}

func TestGenerateAnswersAreExact(t *testing.T) {
	g := NewGenerator(42)

	for _, d := range Difficulties {
		t.Run(string(d), func(t *testing.T) {
			questions := g.Generate(200, d, 1)
			for _, q := range questions {
				if got := evaluate(t, q.Expression); got != q.Answer {
					t.Errorf("%q: answer %d, evaluated %d", q.Expression, q.Answer, got)
				}
				if q.Answer < 0 {
					t.Errorf("%q: negative answer %d", q.Expression, q.Answer)
				}
			}
		})
	}
}

func TestGenerateInitialState(t *testing.T) {
	g := NewGenerator(7)
	questions := g.Generate(15, DifficultyMedium, 1)

	if len(questions) != 15 {
		t.Fatalf("expected 15 questions, got %d", len(questions))
	}
	for i, q := range questions {
		if q.Index != i {
			t.Errorf("question %d has index %d", i, q.Index)
		}
		if q.Result != ResultPending || q.Attempts != 0 || q.UserValue != nil {
			t.Errorf("question %d not fresh: %+v", i, q)
		}
	}
}

func TestGenerateBossPlacement(t *testing.T) {
	tests := []struct {
		count     int
		bossCount int
		wantBoss  int
	}{
		{10, 1, 1},
		{10, 2, 2},
		{10, 3, 3},
		{10, 5, 3},
		{10, 0, 0},
		{2, 3, 2},
		{1, 1, 1},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("count=%d/boss=%d", tt.count, tt.bossCount), func(t *testing.T) {
			for seed := int64(1); seed <= 50; seed++ {
				questions := NewGenerator(seed).Generate(tt.count, DifficultyHard, tt.bossCount)
				if len(questions) != tt.count {
					t.Fatalf("expected %d questions, got %d", tt.count, len(questions))
				}

				bosses := 0
				for _, q := range questions {
					if !q.IsBoss {
						continue
					}
					bosses++
					if q.Index < max(0, tt.count-3) {
						t.Errorf("seed %d: boss at index %d, outside last three", seed, q.Index)
					}
				}
				if bosses != tt.wantBoss {
					t.Errorf("seed %d: expected %d bosses, got %d", seed, tt.wantBoss, bosses)
				}
			}
		})
	}
}

func TestGenerateZeroCount(t *testing.T) {
	if got := NewGenerator(1).Generate(0, DifficultyEasy, 1); len(got) != 0 {
		t.Errorf("expected no questions, got %d", len(got))
	}
}

func TestGenerateDeterministicWithSeed(t *testing.T) {
	a := NewGenerator(99).Generate(10, DifficultyHard, 1)
	b := NewGenerator(99).Generate(10, DifficultyHard, 1)
	for i := range a {
		if a[i].Expression != b[i].Expression || a[i].IsBoss != b[i].IsBoss {
			t.Fatalf("question %d differs between identical seeds: %+v vs %+v", i, a[i], b[i])
		}
	}
}

func TestParseMode(t *testing.T) {
	for _, in := range []string{"main", "quick", "time_attack", "time-attack"} {
		if _, err := ParseMode(in); err != nil {
			t.Errorf("ParseMode(%q) failed: %v", in, err)
		}
	}
	if _, err := ParseMode("marathon"); err == nil {
		t.Error("expected error for unknown mode")
	}
	if _, err := ParseDifficulty("insane"); err == nil {
		t.Error("expected error for unknown difficulty")
	}
}
