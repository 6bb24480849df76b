package monitor

import (
	"context"
	"errors"
)

// ErrCircuitOpen is reported by a BreakerProbe while its breaker is open.
var ErrCircuitOpen = errors.New("circuit breaker open")

// Probe checks one backend.
type Probe interface {
	Name() string
	Check(ctx context.Context) error
}

// Breaker is anything guarded by a circuit breaker.
type Breaker interface {
	IsOpen() bool
}

// Pinger is anything that can be pinged, such as the result cache.
type Pinger interface {
	Ping(ctx context.Context) error
}

type breakerProbe struct {
	name string
	b    Breaker
}

// BreakerProbe fails while b's circuit breaker is open.
func BreakerProbe(name string, b Breaker) Probe {
	return breakerProbe{name: name, b: b}
}

func (p breakerProbe) Name() string { return p.name }

func (p breakerProbe) Check(context.Context) error {
	if p.b.IsOpen() {
		return ErrCircuitOpen
	}
	return nil
}

type pingProbe struct {
	name string
	p    Pinger
}

// PingProbe fails when p does not answer.
func PingProbe(name string, p Pinger) Probe {
	return pingProbe{name: name, p: p}
}

func (p pingProbe) Name() string { return p.name }

func (p pingProbe) Check(ctx context.Context) error { return p.p.Ping(ctx) }

type funcProbe struct {
	name string
	fn   func(ctx context.Context) error
}

// FuncProbe adapts a function.
func FuncProbe(name string, fn func(ctx context.Context) error) Probe {
	return funcProbe{name: name, fn: fn}
}

func (p funcProbe) Name() string { return p.name }

func (p funcProbe) Check(ctx context.Context) error { return p.fn(ctx) }
