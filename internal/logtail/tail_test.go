package logtail_test

import (
	"context"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"nomen/internal/logtail"
)

func writeLog(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "nomen.log")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write log: %v", err)
	}
	return path
}

func TestLastReturnsTrailingLines(t *testing.T) {
	path := writeLog(t, "one\ntwo\nthree\n")

	lines, _, err := logtail.Last(path, 2)
	if err != nil {
		t.Fatalf("Last: %v", err)
	}
	if !reflect.DeepEqual(lines, []string{"two", "three"}) {
		t.Fatalf("lines = %v", lines)
	}
}

func TestLastOnShortFile(t *testing.T) {
	path := writeLog(t, "only\n")

	lines, _, err := logtail.Last(path, 10)
	if err != nil {
		t.Fatalf("Last: %v", err)
	}
	if !reflect.DeepEqual(lines, []string{"only"}) {
		t.Fatalf("lines = %v", lines)
	}
}

func TestLastMissingFile(t *testing.T) {
	lines, offset, err := logtail.Last(filepath.Join(t.TempDir(), "absent.log"), 5)
	if err != nil || lines != nil || offset != 0 {
		t.Fatalf("lines=%v offset=%d err=%v", lines, offset, err)
	}
}

func TestReadFromPicksUpAppends(t *testing.T) {
	path := writeLog(t, "first\n")

	_, offset, err := logtail.Last(path, 0)
	if err != nil {
		t.Fatalf("Last: %v", err)
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		t.Fatalf("open append: %v", err)
	}
	if _, err := f.WriteString("second\n"); err != nil {
		t.Fatalf("append: %v", err)
	}
	f.Close()

	lines, _, err := logtail.ReadFrom(path, offset)
	if err != nil {
		t.Fatalf("ReadFrom: %v", err)
	}
	if !reflect.DeepEqual(lines, []string{"second"}) {
		t.Fatalf("lines = %v", lines)
	}
}

func TestFollowEmitsNewLines(t *testing.T) {
	path := writeLog(t, "start\n")

	_, offset, err := logtail.Last(path, 0)
	if err != nil {
		t.Fatalf("Last: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	got := make(chan string, 4)
	done := make(chan error, 1)
	go func() {
		done <- logtail.Follow(ctx, path, offset, func(line string) { got <- line })
	}()

	time.Sleep(50 * time.Millisecond)
	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		t.Fatalf("open append: %v", err)
	}
	if _, err := f.WriteString("followed\n"); err != nil {
		t.Fatalf("append: %v", err)
	}
	f.Close()

	select {
	case line := <-got:
		if line != "followed" {
			t.Fatalf("line = %q", line)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("no line emitted")
	}

	cancel()
	if err := <-done; err != context.Canceled {
		t.Fatalf("Follow returned %v", err)
	}
}
