package audio

import (
	"io"
	"os"
	"strings"
	"sync"
)

// Bell renders sounds as terminal bell characters.
// The output is opened lazily on the first sound and closed once.
type Bell struct {
	open func() (io.Writer, func() error, error)

	once   sync.Once
	mu     sync.Mutex
	out    io.Writer
	close  func() error
	closed bool
}

// NewBell writes bells to w, which the caller keeps ownership of.
func NewBell(w io.Writer) *Bell {
	return &Bell{
		open: func() (io.Writer, func() error, error) {
			return w, func() error { return nil }, nil
		},
	}
}

// NewTTYBell writes bells to the controlling terminal so they do not mix
// with the TUI's stdout.
func NewTTYBell() *Bell {
	return &Bell{
		open: func() (io.Writer, func() error, error) {
			f, err := os.OpenFile("/dev/tty", os.O_WRONLY, 0)
			if err != nil {
				return nil, nil, err
			}
			return f, f.Close, nil
		},
	}
}

// beeps is how many bell characters each sound rings.
var beeps = map[Sound]int{
	SoundCorrect:   1,
	SoundWrong:     2,
	SoundShield:    2,
	SoundSpeedStar: 1,
	SoundFinish:    3,
	SoundBoss:      2,
}

// comboBeeps scales with the combo level.
func comboBeeps(level int) int {
	switch {
	case level >= 5:
		return 3
	case level >= 3:
		return 2
	default:
		return 1
	}
}

func (b *Bell) ring(n int) {
	b.once.Do(func() {
		out, closeFn, err := b.open()
		if err != nil {
			return
		}
		b.mu.Lock()
		b.out, b.close = out, closeFn
		b.mu.Unlock()
	})

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed || b.out == nil {
		return
	}
	//nolint:errcheck // Sounds are best-effort
	io.WriteString(b.out, strings.Repeat("\a", n))
}

func (b *Bell) PlayCorrect()        { b.ring(beeps[SoundCorrect]) }
func (b *Bell) PlayWrong()          { b.ring(beeps[SoundWrong]) }
func (b *Bell) PlayCombo(level int) { b.ring(comboBeeps(level)) }
func (b *Bell) PlayShield()         { b.ring(beeps[SoundShield]) }
func (b *Bell) PlaySpeedStar()      { b.ring(beeps[SoundSpeedStar]) }
func (b *Bell) PlayFinish()         { b.ring(beeps[SoundFinish]) }
func (b *Bell) PlayBoss()           { b.ring(beeps[SoundBoss]) }

// Close releases the output. Later sounds are dropped.
func (b *Bell) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return nil
	}
	b.closed = true
	if b.close != nil {
		return b.close()
	}
	return nil
}
