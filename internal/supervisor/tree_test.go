// Reelmatch - Content-Based Movie Recommender
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package supervisor

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"
)

// testService blocks until canceled, after failing the first failures
// starts.
type testService struct {
	name     string
	failures int32
	starts   atomic.Int32
	started  chan struct{}
}

func newTestService(name string, failures int32) *testService {
	return &testService{name: name, failures: failures, started: make(chan struct{}, 16)}
}

func (s *testService) Serve(ctx context.Context) error {
	n := s.starts.Add(1)
	select {
	case s.started <- struct{}{}:
	default:
	}
	if n <= s.failures {
		return errors.New("simulated failure")
	}
	<-ctx.Done()
	return ctx.Err()
}

func (s *testService) String() string { return s.name }

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func waitStarts(t *testing.T, s *testService, n int32) {
	t.Helper()

	deadline := time.After(2 * time.Second)
	for s.starts.Load() < n {
		select {
		case <-s.started:
		case <-deadline:
			t.Fatalf("%s started %d times, want %d", s.name, s.starts.Load(), n)
		}
	}
}

func TestNewSupervisorTree_Defaults(t *testing.T) {
	t.Parallel()

	tree := NewSupervisorTree(quietLogger(), TreeConfig{})
	if tree.Config() != DefaultTreeConfig() {
		t.Errorf("Config() = %+v, want %+v", tree.Config(), DefaultTreeConfig())
	}

	custom := NewSupervisorTree(quietLogger(), TreeConfig{FailureBackoff: time.Second})
	if custom.Config().FailureBackoff != time.Second {
		t.Errorf("FailureBackoff = %v, want 1s", custom.Config().FailureBackoff)
	}
	if custom.Config().FailureThreshold != 5 {
		t.Errorf("FailureThreshold = %v, want default 5", custom.Config().FailureThreshold)
	}
}

func TestSupervisorTree_StartsAndStops(t *testing.T) {
	t.Parallel()

	tree := NewSupervisorTree(quietLogger(), TreeConfig{ShutdownTimeout: time.Second})
	janitor := newTestService("janitor", 0)
	server := newTestService("server", 0)
	tree.AddMaintenanceService(janitor)
	tree.AddAPIService(server)

	ctx, cancel := context.WithCancel(context.Background())
	errCh := tree.ServeBackground(ctx)

	waitStarts(t, janitor, 1)
	waitStarts(t, server, 1)
	cancel()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			t.Errorf("Serve() error = %v", err)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("tree did not shut down")
	}

	report, err := tree.UnstoppedServiceReport()
	if err != nil {
		t.Fatalf("UnstoppedServiceReport() error = %v", err)
	}
	if len(report) != 0 {
		t.Errorf("unstopped services = %v, want none", report)
	}
}

func TestSupervisorTree_RestartIsolation(t *testing.T) {
	t.Parallel()

	tree := NewSupervisorTree(quietLogger(), TreeConfig{
		FailureThreshold: 10,
		FailureBackoff:   10 * time.Millisecond,
		ShutdownTimeout:  time.Second,
	})
	flaky := newTestService("flaky-janitor", 2)
	server := newTestService("server", 0)
	tree.AddMaintenanceService(flaky)
	tree.AddAPIService(server)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	errCh := tree.ServeBackground(ctx)

	// Two failures, then a third start that stays up.
	waitStarts(t, flaky, 3)
	waitStarts(t, server, 1)

	if got := server.starts.Load(); got != 1 {
		t.Errorf("server restarted %d times because of a maintenance failure", got-1)
	}

	cancel()
	select {
	case <-errCh:
	case <-time.After(3 * time.Second):
		t.Fatal("tree did not shut down")
	}
}
