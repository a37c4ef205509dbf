package circuitbreaker

import (
	"errors"
	"testing"
	"time"

	"github.com/DappGoose-Labs/arbagent/internal/apperror"
)

func TestCircuitBreaker_PassThrough(t *testing.T) {
	cb := New[int](DefaultConfig("test"))

	got, err := cb.Execute(func() (int, error) { return 42, nil })
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if got != 42 {
		t.Errorf("Execute() = %d, want 42", got)
	}
}

func TestCircuitBreaker_PropagatesError(t *testing.T) {
	cb := New[int](DefaultConfig("test"))
	sentinel := errors.New("boom")

	_, err := cb.Execute(func() (int, error) { return 0, sentinel })
	if !errors.Is(err, sentinel) {
		t.Errorf("Execute() error = %v, want %v", err, sentinel)
	}
}

func TestCircuitBreaker_OpensAfterConsecutiveFailures(t *testing.T) {
	cfg := Config{
		Name:             "failing-source",
		MaxRequests:      1,
		Interval:         time.Minute,
		Timeout:          time.Minute,
		FailureThreshold: 3,
	}
	cb := New[string](cfg)

	for i := 0; i < 3; i++ {
		if _, err := cb.Execute(func() (string, error) { return "", errors.New("down") }); err == nil {
			t.Fatal("expected failure")
		}
	}

	if cb.State() != "open" {
		t.Fatalf("State() = %q, want open", cb.State())
	}

	called := false
	_, err := cb.Execute(func() (string, error) {
		called = true
		return "ok", nil
	})
	if called {
		t.Error("fn invoked while breaker open")
	}
	if !apperror.HasCode(err, apperror.CodeCircuitOpen) {
		t.Errorf("error code = %v, want CIRCUIT_OPEN", apperror.GetCode(err))
	}
}
