package main

import (
	"context"

	"github.com/nsf/termbox-go"
)

// screen is an io.Writer that draws text on the termbox back buffer. '\n'
// moves to the next line and '\r' back to the start of the current one, so
// the monitor's overwritten rows render in place.
type screen struct {
	x, y int
}

func (s *screen) Write(p []byte) (int, error) {
	w, h := termbox.Size()
	for _, r := range string(p) {
		switch r {
		case '\n':
			s.x, s.y = 0, s.y+1
		case '\r':
			s.x = 0
		case '\t':
			s.x += 4
		default:
			if s.x < w && s.y < h {
				termbox.SetCell(s.x, s.y, r, termbox.ColorDefault, termbox.ColorDefault)
			}
			s.x++
		}
	}
	return len(p), termbox.Flush()
}

// openScreen starts termbox and cancels ctx on the first key press or
// Ctrl+C. The returned func restores the terminal.
func openScreen(cancel context.CancelFunc) (*screen, func(), error) {
	if err := termbox.Init(); err != nil {
		return nil, nil, err
	}
	termbox.SetInputMode(termbox.InputEsc)
	termbox.Clear(termbox.ColorDefault, termbox.ColorDefault)

	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			switch ev := termbox.PollEvent(); ev.Type {
			case termbox.EventKey:
				cancel()
				return
			case termbox.EventInterrupt, termbox.EventError:
				return
			}
		}
	}()

	closeFn := func() {
		select {
		case <-done:
		default:
			// Interrupt blocks if the poller has already returned.
			go termbox.Interrupt()
			<-done
		}
		termbox.Close()
	}
	return &screen{}, closeFn, nil
}
