package scheduler

import (
	"sync/atomic"
	"testing"
	"time"
)

func waitFired(t *testing.T, fired <-chan string, want string) {
	t.Helper()
	select {
	case got := <-fired:
		if got != want {
			t.Fatalf("fired %q, want %q", got, want)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("task %q did not fire", want)
	}
}

func TestScheduleFiresAtTime(t *testing.T) {
	s := New()
	defer s.Stop()

	fired := make(chan string, 1)
	s.Schedule("a", time.Now().Add(10*time.Millisecond), func() { fired <- "a" })

	waitFired(t, fired, "a")
}

func TestSchedulePastTimeFiresImmediately(t *testing.T) {
	s := New()
	defer s.Stop()

	fired := make(chan string, 1)
	s.Schedule("past", time.Now().Add(-time.Hour), func() { fired <- "past" })

	waitFired(t, fired, "past")
}

func TestCancelPreventsRun(t *testing.T) {
	s := New()
	defer s.Stop()

	var ran atomic.Bool
	s.Schedule("a", time.Now().Add(50*time.Millisecond), func() { ran.Store(true) })

	if !s.Cancel("a") {
		t.Fatal("Cancel returned false for scheduled task")
	}

	time.Sleep(100 * time.Millisecond)
	if ran.Load() {
		t.Fatal("canceled task still ran")
	}
}

func TestCancelUnknownKey(t *testing.T) {
	s := New()
	defer s.Stop()

	if s.Cancel("missing") {
		t.Fatal("Cancel returned true for unknown key")
	}
}

func TestScheduleSameKeySupersedes(t *testing.T) {
	s := New()
	defer s.Stop()

	fired := make(chan string, 2)
	s.Schedule("a", time.Now().Add(30*time.Millisecond), func() { fired <- "first" })
	s.Schedule("a", time.Now().Add(30*time.Millisecond), func() { fired <- "second" })

	waitFired(t, fired, "second")

	select {
	case got := <-fired:
		t.Fatalf("superseded task fired: %q", got)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestScheduleReusesKeyRightAfterFire(t *testing.T) {
	s := New()
	defer s.Stop()

	// Ключ переиспользуется сразу после срабатывания: новая задача
	// должна остаться отменяемой независимо от того, успела ли
	// обёртка старого таймера убрать свою запись из карты.
	for i := 0; i < 50; i++ {
		s.Schedule("k", time.Now().Add(200*time.Microsecond), func() {})
		time.Sleep(time.Millisecond)
		s.Schedule("k", time.Now().Add(time.Hour), func() {})
		if !s.Cancel("k") {
			t.Fatalf("iteration %d: rescheduled task lost, Cancel returned false", i)
		}
	}
}

func TestRunNowDoesNotOccupyKey(t *testing.T) {
	s := New()
	defer s.Stop()

	fired := make(chan string, 2)
	s.RunNow("a", func() { fired <- "now" })
	waitFired(t, fired, "now")

	// Ключ свободен: немедленный запуск не регистрирует таймер
	if s.Cancel("a") {
		t.Fatal("RunNow left a cancelable timer behind")
	}
}

func TestStopWaitsForRunningTask(t *testing.T) {
	s := New()

	var done atomic.Bool
	s.RunNow("a", func() {
		time.Sleep(20 * time.Millisecond)
		done.Store(true)
	})

	s.Stop()
	if !done.Load() {
		t.Fatal("Stop returned before running task finished")
	}
}

func TestStopCancelsPending(t *testing.T) {
	s := New()

	var ran atomic.Bool
	s.Schedule("a", time.Now().Add(time.Hour), func() { ran.Store(true) })

	s.Stop()
	if ran.Load() {
		t.Fatal("Stop ran a pending task")
	}
}
