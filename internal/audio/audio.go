// Package audio defines the sound-effect port the game engine notifies and
// a couple of terminal-friendly implementations.
//
// Sounds are pure notifications: players must never block the caller and
// their failures are ignored.
package audio

import (
	"sync"
	"time"
)

// Sound identifies one effect.
type Sound int

const (
	SoundCorrect Sound = iota
	SoundWrong
	SoundCombo
	SoundShield
	SoundSpeedStar
	SoundFinish
	SoundBoss
)

// String returns a human-readable name for the sound.
func (s Sound) String() string {
	switch s {
	case SoundCorrect:
		return "correct"
	case SoundWrong:
		return "wrong"
	case SoundCombo:
		return "combo"
	case SoundShield:
		return "shield"
	case SoundSpeedStar:
		return "speed_star"
	case SoundFinish:
		return "finish"
	case SoundBoss:
		return "boss"
	default:
		return "unknown"
	}
}

// Player is the audio port.
type Player interface {
	PlayCorrect()
	PlayWrong()
	PlayCombo(level int)
	PlayShield()
	PlaySpeedStar()
	PlayFinish()
	PlayBoss()
	Close() error
}

// Cue is a sound scheduled relative to the state change that caused it.
type Cue struct {
	Sound Sound
	Level int // combo level, only for SoundCombo
	Delay time.Duration
}

// Play invokes the matching Player method.
func (c Cue) Play(p Player) {
	switch c.Sound {
	case SoundCorrect:
		p.PlayCorrect()
	case SoundWrong:
		p.PlayWrong()
	case SoundCombo:
		p.PlayCombo(c.Level)
	case SoundShield:
		p.PlayShield()
	case SoundSpeedStar:
		p.PlaySpeedStar()
	case SoundFinish:
		p.PlayFinish()
	case SoundBoss:
		p.PlayBoss()
	}
}

// Scheduler fires cues on background timers so the caller never waits.
type Scheduler struct {
	player Player

	mu      sync.Mutex
	pending map[*time.Timer]struct{}
	stopped bool
}

// NewScheduler wraps a player. A nil player is replaced by Nop.
func NewScheduler(p Player) *Scheduler {
	if p == nil {
		p = Nop{}
	}
	return &Scheduler{
		player:  p,
		pending: make(map[*time.Timer]struct{}),
	}
}

// Schedule plays each cue after its delay.
func (s *Scheduler) Schedule(cues ...Cue) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stopped {
		return
	}

	for _, cue := range cues {
		cue := cue
		var t *time.Timer
		t = time.AfterFunc(cue.Delay, func() {
			s.mu.Lock()
			_, live := s.pending[t]
			delete(s.pending, t)
			s.mu.Unlock()
			if !live {
				return
			}
			defer func() { _ = recover() }()
			cue.Play(s.player)
		})
		s.pending[t] = struct{}{}
	}
}

// Stop cancels cues that have not fired yet and closes the player.
// Safe to call more than once.
func (s *Scheduler) Stop() error {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return nil
	}
	s.stopped = true
	for t := range s.pending {
		t.Stop()
	}
	clear(s.pending)
	s.mu.Unlock()

	return s.player.Close()
}

// Nop discards every sound.
type Nop struct{}

func (Nop) PlayCorrect()   {}
func (Nop) PlayWrong()     {}
func (Nop) PlayCombo(int)  {}
func (Nop) PlayShield()    {}
func (Nop) PlaySpeedStar() {}
func (Nop) PlayFinish()    {}
func (Nop) PlayBoss()      {}
func (Nop) Close() error   { return nil }
