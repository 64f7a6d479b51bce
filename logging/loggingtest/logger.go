/*
Package loggingtest implements a logger that tests can wait on, to see
that a component reached a given state.
*/
package loggingtest

import (
	"errors"
	"fmt"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
)

type logSubscription struct {
	exp      string
	n        int
	response chan<- struct{}
}

type countMessage struct {
	expression string
	response   chan<- int
}

type logWatch struct {
	entries []string
	reqs    []*logSubscription
	mute    bool
}

// Logger implements logging.Logger. It stores the entries, and forwards
// them to the logrus standard logger unless muted.
type Logger struct {
	save   chan string
	notify chan<- logSubscription
	count  chan<- countMessage
	mute   chan<- bool
	clear  chan<- struct{}
	quit   chan<- struct{}
}

// ErrWaitTimeout is returned when an expected entry doesn't appear in time.
var ErrWaitTimeout = errors.New("timeout")

func (lw *logWatch) save(e string) {
	if lw.mute {
		return
	}

	log.Info(e)
	lw.entries = append(lw.entries, e)
	for i := len(lw.reqs) - 1; i >= 0; i-- {
		req := lw.reqs[i]
		if strings.Contains(e, req.exp) {
			req.n--
			if req.n <= 0 {
				close(req.response)
				lw.reqs = append(lw.reqs[:i], lw.reqs[i+1:]...)
			}
		}
	}
}

func (lw *logWatch) notify(req logSubscription) {
	for i := len(lw.entries) - 1; i >= 0; i-- {
		if strings.Contains(lw.entries[i], req.exp) {
			req.n--
			if req.n == 0 {
				break
			}
		}
	}

	if req.n <= 0 {
		close(req.response)
	} else {
		lw.reqs = append(lw.reqs, &req)
	}
}

func (lw *logWatch) count(m countMessage) {
	var count int
	for _, e := range lw.entries {
		if strings.Contains(e, m.expression) {
			count++
		}
	}

	m.response <- count
}

func (lw *logWatch) clear() {
	lw.entries = nil
	lw.reqs = nil
}

// New creates a test logger. Close needs to be called when it is not used
// anymore.
func New() *Logger {
	lw := &logWatch{}
	save := make(chan string)
	notify := make(chan logSubscription)
	count := make(chan countMessage)
	mute := make(chan bool)
	clear := make(chan struct{})
	quit := make(chan struct{})

	go func() {
		for {
			select {
			case e := <-save:
				lw.save(e)
			case req := <-notify:
				lw.notify(req)
			case m := <-count:
				lw.count(m)
			case m := <-mute:
				lw.mute = m
			case <-clear:
				lw.clear()
			case <-quit:
				return
			}
		}
	}()

	return &Logger{
		save:   save,
		notify: notify,
		count:  count,
		mute:   mute,
		clear:  clear,
		quit:   quit,
	}
}

func (tl *Logger) logf(f string, a ...interface{}) {
	tl.save <- fmt.Sprintf(f, a...)
}

func (tl *Logger) log(a ...interface{}) {
	tl.save <- fmt.Sprint(a...)
}

// WaitForN waits until n entries containing exp were logged, counting the
// entries logged before the call, too.
func (tl *Logger) WaitForN(exp string, n int, to time.Duration) error {
	found := make(chan struct{})
	tl.notify <- logSubscription{exp, n, found}

	select {
	case <-found:
		return nil
	case <-time.After(to):
		return ErrWaitTimeout
	}
}

// WaitFor waits until an entry containing exp was logged.
func (tl *Logger) WaitFor(exp string, to time.Duration) error {
	return tl.WaitForN(exp, 1, to)
}

// Count returns the number of entries containing exp.
func (tl *Logger) Count(exp string) int {
	rsp := make(chan int)
	tl.count <- countMessage{exp, rsp}
	return <-rsp
}

// Reset clears the stored entries.
func (tl *Logger) Reset() {
	tl.clear <- struct{}{}
}

// Mute stops both forwarding and storing the entries.
func (tl *Logger) Mute() {
	tl.mute <- true
}

func (tl *Logger) Unmute() {
	tl.mute <- false
}

func (tl *Logger) Close() {
	close(tl.quit)
}

func (tl *Logger) Error(a ...interface{})            { tl.log(a...) }
func (tl *Logger) Errorf(f string, a ...interface{}) { tl.logf(f, a...) }
func (tl *Logger) Warn(a ...interface{})             { tl.log(a...) }
func (tl *Logger) Warnf(f string, a ...interface{})  { tl.logf(f, a...) }
func (tl *Logger) Info(a ...interface{})             { tl.log(a...) }
func (tl *Logger) Infof(f string, a ...interface{})  { tl.logf(f, a...) }
func (tl *Logger) Debug(a ...interface{})            { tl.log(a...) }
func (tl *Logger) Debugf(f string, a ...interface{}) { tl.logf(f, a...) }
