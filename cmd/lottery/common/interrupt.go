package common

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

var ErrCanceled = errors.New("canceled")

type InterruptedError struct {
	Signal os.Signal
}

func (e InterruptedError) Error() string {
	return fmt.Sprintf("received signal %s", e.Signal)
}

// Interrupt blocks until SIGINT or SIGTERM arrives or `cancel` is closed. It is
// the last actor of the `run.Group` of the commands.
func Interrupt(cancel <-chan struct{}) error {
	c := make(chan os.Signal, 1)
	signal.Notify(c, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(c)

	select {
	case sig := <-c:
		return InterruptedError{Signal: sig}
	case <-cancel:
		return ErrCanceled
	}
}
