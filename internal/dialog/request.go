// Package dialog models native picker dialogs as single-shot requests.
//
// A request has exactly one producer (the dialog callback) and one consumer
// (the waiting command). The first of Resolve, Cancel or Drop wins; the
// channel is closed afterwards and later calls are ignored.
package dialog

import (
	"context"
	"fmt"
	"sync"

	"github.com/starford/memopad/internal/apperr"
)

type selection struct {
	path string
	ok   bool
}

// Responder completes a pending dialog request.
type Responder struct {
	ch   chan selection
	once sync.Once
}

func newResponder() *Responder {
	return &Responder{ch: make(chan selection, 1)}
}

// Resolve completes the request with the chosen path.
func (r *Responder) Resolve(path string) {
	r.once.Do(func() {
		r.ch <- selection{path: path, ok: true}
		close(r.ch)
	})
}

// Cancel completes the request with "nothing selected". This is not an error.
func (r *Responder) Cancel() {
	r.once.Do(func() {
		r.ch <- selection{}
		close(r.ch)
	})
}

// Drop abandons the request without an answer; the waiter gets dialog_cancelled.
func (r *Responder) Drop() {
	r.once.Do(func() { close(r.ch) })
}

// Await starts launch on its own goroutine and blocks until the responder is
// completed or ctx is done. ok is false when the user dismissed the dialog.
func Await(ctx context.Context, launch func(*Responder)) (path string, ok bool, err error) {
	r := newResponder()
	go func() {
		defer func() {
			if p := recover(); p != nil {
				r.Drop()
			}
		}()
		launch(r)
	}()

	select {
	case sel, open := <-r.ch:
		if !open {
			return "", false, apperr.DialogCancelled("dialog closed without a response")
		}
		return sel.path, sel.ok, nil
	case <-ctx.Done():
		// A late producer still completes into the buffered channel without blocking.
		return "", false, apperr.DialogCancelled(fmt.Sprintf("request abandoned: %v", ctx.Err()))
	}
}
