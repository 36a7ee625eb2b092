package quiz

import (
	"fmt"
	"math/rand"
	"time"
)

// Op is an arithmetic operator used in generated expressions.
type Op string

const (
	OpAdd Op = "+"
	OpSub Op = "-"
	OpMul Op = "*"
	OpDiv Op = "/"
)

// Range is an inclusive integer interval.
type Range struct {
	Min int
	Max int
}

// Template restricts the operand ranges and operators for one kind of question.
type Template struct {
	Name string
	Num1 Range
	Num2 Range
	Ops  []Op
}

// templates holds the template sets keyed by difficulty.
var templates = map[Difficulty][]Template{
	DifficultyEasy: {
		{Name: "two-digit addition", Num1: Range{10, 99}, Num2: Range{1, 99}, Ops: []Op{OpAdd}},
		{Name: "two-digit subtraction", Num1: Range{10, 99}, Num2: Range{1, 50}, Ops: []Op{OpSub}},
		{Name: "single-digit addition", Num1: Range{1, 9}, Num2: Range{1, 9}, Ops: []Op{OpAdd}},
	},
	DifficultyMedium: {
		{Name: "three-digit addition", Num1: Range{100, 999}, Num2: Range{10, 999}, Ops: []Op{OpAdd}},
		{Name: "three-digit subtraction", Num1: Range{100, 999}, Num2: Range{10, 500}, Ops: []Op{OpSub}},
		{Name: "simple multiplication", Num1: Range{2, 12}, Num2: Range{2, 12}, Ops: []Op{OpMul}},
		{Name: "two-digit mixed", Num1: Range{10, 99}, Num2: Range{10, 99}, Ops: []Op{OpAdd, OpSub}},
	},
	DifficultyHard: {
		{Name: "larger multiplication", Num1: Range{2, 20}, Num2: Range{2, 20}, Ops: []Op{OpMul}},
		{Name: "three-digit mixed", Num1: Range{100, 999}, Num2: Range{100, 999}, Ops: []Op{OpAdd, OpSub}},
		{Name: "exact division", Num1: Range{2, 12}, Num2: Range{2, 12}, Ops: []Op{OpDiv}},
		{Name: "complex multiplication", Num1: Range{11, 25}, Num2: Range{2, 15}, Ops: []Op{OpMul}},
	},
}

// Templates returns the template set for a difficulty.
// Unknown difficulties fall back to easy.
func Templates(d Difficulty) []Template {
	if ts, ok := templates[d]; ok {
		return ts
	}
	return templates[DifficultyEasy]
}

// maxBossSlots is the size of the trailing window boss questions are drawn from.
const maxBossSlots = 3

// Generator builds question sequences. It is not safe for concurrent use;
// each game engine owns its own generator.
type Generator struct {
	rng *rand.Rand
}

// NewGenerator creates a generator. A zero seed uses the current time.
func NewGenerator(seed int64) *Generator {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Generator{rng: rand.New(rand.NewSource(seed))}
}

// Generate returns count questions for the difficulty, with up to
// min(bossCount, 3) of the last three positions flagged as boss questions.
func (g *Generator) Generate(count int, difficulty Difficulty, bossCount int) []Question {
	if count <= 0 {
		return nil
	}

	bosses := g.bossIndices(count, bossCount)

	questions := make([]Question, count)
	for i := 0; i < count; i++ {
		expr, answer := g.Expression(difficulty)
		questions[i] = Question{
			Index:      i,
			Expression: expr,
			Answer:     answer,
			IsBoss:     bosses[i],
			Result:     ResultPending,
		}
	}
	return questions
}

// bossIndices picks distinct positions uniformly from the trailing window.
func (g *Generator) bossIndices(count, bossCount int) map[int]bool {
	start := max(0, count-maxBossSlots)
	window := count - start
	n := min(bossCount, maxBossSlots, window)

	picked := make(map[int]bool, max(n, 0))
	if n <= 0 {
		return picked
	}
	for _, offset := range g.rng.Perm(window)[:n] {
		picked[start+offset] = true
	}
	return picked
}

// Expression draws one template and operator for the difficulty and returns
// the rendered expression with its exact integer answer.
func (g *Generator) Expression(difficulty Difficulty) (string, int) {
	ts := Templates(difficulty)
	t := ts[g.rng.Intn(len(ts))]
	op := t.Ops[g.rng.Intn(len(t.Ops))]

	num1 := g.between(t.Num1)
	num2 := g.between(t.Num2)
	return Build(num1, num2, op)
}

// Build applies operator semantics to drawn operands.
// Subtraction swaps operands so the result is never negative; division treats
// num1 as the quotient and rebuilds the dividend so there is no remainder.
func Build(num1, num2 int, op Op) (string, int) {
	var answer int
	switch op {
	case OpSub:
		if num1 < num2 {
			num1, num2 = num2, num1
		}
		answer = num1 - num2
	case OpMul:
		answer = num1 * num2
	case OpDiv:
		quotient := num1
		num1 = quotient * num2
		answer = quotient
	default:
		op = OpAdd
		answer = num1 + num2
	}
	return fmt.Sprintf("%d %s %d", num1, op, num2), answer
}

func (g *Generator) between(r Range) int {
	if r.Max <= r.Min {
		return r.Min
	}
	return r.Min + g.rng.Intn(r.Max-r.Min+1)
}
