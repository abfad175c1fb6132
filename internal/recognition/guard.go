package recognition

import (
	"context"
	"errors"
	"sync"
)

// ErrSuperseded is returned for a request that finished after a newer one
// had started. Its result must be ignored.
var ErrSuperseded = errors.New("request superseded by a newer one")

// Guard lets only the most recent request deliver a result. Starting a
// request cancels the one before it.
type Guard struct {
	mu     sync.Mutex
	seq    uint64
	cancel context.CancelFunc
}

// Ticket identifies one request started through a Guard.
type Ticket struct {
	g   *Guard
	seq uint64
}

// Begin starts a request, cancelling any request still in flight.
func (g *Guard) Begin(ctx context.Context) (context.Context, Ticket) {
	ctx, cancel := context.WithCancel(ctx)

	g.mu.Lock()
	defer g.mu.Unlock()
	if g.cancel != nil {
		g.cancel()
	}
	g.seq++
	g.cancel = cancel
	return ctx, Ticket{g: g, seq: g.seq}
}

// Current reports whether no newer request has started.
func (t Ticket) Current() bool {
	t.g.mu.Lock()
	defer t.g.mu.Unlock()
	return t.g.seq == t.seq
}

// Done releases the request's context.
func (t Ticket) Done() {
	t.g.mu.Lock()
	defer t.g.mu.Unlock()
	if t.g.seq == t.seq && t.g.cancel != nil {
		t.g.cancel()
		t.g.cancel = nil
	}
}

// Cancel aborts whatever request is in flight.
func (g *Guard) Cancel() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.seq++
	if g.cancel != nil {
		g.cancel()
		g.cancel = nil
	}
}

// Session serialises one user's requests: a new analysis supersedes the
// previous analysis, a new conversion the previous conversion.
type Session struct {
	r       Recognizer
	analyze Guard
	convert Guard
}

func NewSession(r Recognizer) *Session {
	return &Session{r: r}
}

// Analyze runs r.Analyze unless superseded.
func (s *Session) Analyze(ctx context.Context, png []byte, subject string) (AnalysisResult, error) {
	ctx, t := s.analyze.Begin(ctx)
	defer t.Done()

	res, err := s.r.Analyze(ctx, png, subject)
	if !t.Current() {
		return AnalysisResult{}, ErrSuperseded
	}
	return res, err
}

// Convert runs r.Convert unless superseded.
func (s *Session) Convert(ctx context.Context, png []byte) (ConversionResult, error) {
	ctx, t := s.convert.Begin(ctx)
	defer t.Done()

	res, err := s.r.Convert(ctx, png)
	if !t.Current() {
		return ConversionResult{}, ErrSuperseded
	}
	return res, err
}

// Close cancels anything in flight.
func (s *Session) Close() {
	s.analyze.Cancel()
	s.convert.Cancel()
}
