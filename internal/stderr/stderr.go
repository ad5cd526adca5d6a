//go:build !windows

package stderr

import (
	"bufio"
	"fmt"
	"os"
	"sync"
	"syscall"

	"github.com/rs/zerolog"
)

// redirect is an active capture: fd 2 points at w, and saved holds the
// terminal's original fd 2.
type redirect struct {
	saved int
	r, w  *os.File
	done  chan struct{}
}

var (
	mu     sync.Mutex
	active *redirect
)

// Start points fd 2 at a pipe and forwards each line written to it. Call
// it before the audio device is opened. On error fd 2 is left alone.
func Start(logger zerolog.Logger) error {
	mu.Lock()
	defer mu.Unlock()
	if active != nil {
		return nil
	}

	rd, err := redirectFD2()
	if err != nil {
		return fmt.Errorf("capture stderr: %w", err)
	}
	active = rd

	logger = logger.With().Str("component", "stderr").Logger()
	go func() {
		defer close(rd.done)
		sc := bufio.NewScanner(rd.r)
		for sc.Scan() {
			forward(logger, sc.Text())
		}
	}()
	return nil
}

func redirectFD2() (*redirect, error) {
	r, w, err := os.Pipe()
	if err != nil {
		return nil, err
	}
	fd := int(os.Stderr.Fd())
	saved, err := syscall.Dup(fd)
	if err == nil {
		if err = syscall.Dup2(int(w.Fd()), fd); err != nil {
			syscall.Close(saved)
		}
	}
	if err != nil {
		r.Close()
		w.Close()
		return nil, err
	}
	return &redirect{saved: saved, r: r, w: w, done: make(chan struct{})}, nil
}

// Stop gives fd 2 back to the terminal once pending lines are forwarded.
func Stop() {
	mu.Lock()
	defer mu.Unlock()
	if active == nil {
		return
	}

	_ = syscall.Dup2(active.saved, int(os.Stderr.Fd()))
	_ = syscall.Close(active.saved)
	// With fd 2 restored, w is the pipe's last writer.
	active.w.Close()
	<-active.done
	active.r.Close()
	active = nil
}
