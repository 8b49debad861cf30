package api

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/matt-g-everett/ledstep/anim"
	"github.com/matt-g-everett/ledstep/frameclock"
	"github.com/matt-g-everett/ledstep/stream"
)

// State is the response body of GET /state.
type State struct {
	Click   int                  `json:"click"`
	Total   int                  `json:"total"`
	Page    int                  `json:"page"`
	Running bool                 `json:"running"`
	Targets []stream.FrameUpdate `json:"targets"`
}

// Api serves a small HTTP control surface for a Controller. Every handler
// runs its controller work on the clock goroutine.
type Api struct {
	listen     string
	clock      frameclock.Clock
	controller *stream.Controller
}

func NewApi(listen string, clock frameclock.Clock, controller *stream.Controller) *Api {
	a := new(Api)
	a.listen = listen
	a.clock = clock
	a.controller = controller
	return a
}

// Handler returns the API routes.
func (a *Api) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /state", a.handleState)
	mux.HandleFunc("POST /advance", a.handleAdvance)
	mux.HandleFunc("POST /page", a.handlePage)
	return mux
}

// Serve listens until ctx is cancelled.
func (a *Api) Serve(ctx context.Context) error {
	server := &http.Server{Addr: a.listen, Handler: a.Handler()}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		server.Shutdown(shutdownCtx)
	}()

	log.Printf("Listening on %s", a.listen)
	if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// call runs fn on the clock goroutine and waits for it.
func (a *Api) call(ctx context.Context, fn func()) error {
	done := make(chan struct{})
	a.clock.Post(func() {
		fn()
		close(done)
	})

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (a *Api) snapshot() State {
	s := State{
		Click:   a.controller.Click(),
		Total:   a.controller.Total(),
		Page:    a.controller.Page(),
		Running: a.controller.Running(),
	}
	for _, t := range a.controller.Targets() {
		values := anim.Props{}
		for k := range anim.CumulativeState(t, len(t.Steps)-1) {
			if v, ok := t.Object.Get(k); ok {
				values[k] = v
			}
		}
		s.Targets = append(s.Targets, stream.FrameUpdate{Target: stream.TargetName(t.Object), Values: values})
	}
	return s
}

func (a *Api) respond(w http.ResponseWriter, r *http.Request, fn func()) {
	var s State
	err := a.call(r.Context(), func() {
		if fn != nil {
			fn()
		}
		s = a.snapshot()
	})
	if err != nil {
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(s)
}

func (a *Api) handleState(w http.ResponseWriter, r *http.Request) {
	a.respond(w, r, nil)
}

// handleAdvance moves to ?click=n, or one step forward without it.
func (a *Api) handleAdvance(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("click")
	if q == "" {
		a.respond(w, r, a.controller.Next)
		return
	}

	click, err := strconv.Atoi(q)
	if err != nil {
		http.Error(w, "click must be an integer", http.StatusBadRequest)
		return
	}
	a.respond(w, r, func() { a.controller.Advance(click) })
}

// handlePage reports a page change. Without ?page=n the targets are reset
// in place.
func (a *Api) handlePage(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("page")
	if q == "" {
		a.respond(w, r, a.controller.PageChanged)
		return
	}

	page, err := strconv.Atoi(q)
	if err != nil {
		http.Error(w, "page must be an integer", http.StatusBadRequest)
		return
	}
	a.respond(w, r, func() { a.controller.SetPage(page) })
}
