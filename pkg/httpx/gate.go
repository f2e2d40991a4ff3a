package httpx

import (
	"errors"
	"net/http"

	"github.com/aussiebroadwan/soapbox/pkg/slogx"
)

// Stage is one step of the authorization gate. It returns the request to
// hand to the next stage, possibly enriched, or an error. A *Rejection ends
// the request with its status; any other error is a 500.
type Stage func(*http.Request) (*http.Request, error)

// Rejection is the terminal state of a gate. Reason is for logs and
// metrics only, Message goes to the client.
type Rejection struct {
	Stage     string
	Status    int
	Reason    string
	Message   string
	Challenge string
}

func (r *Rejection) Error() string {
	return "httpx: " + r.Stage + " rejected: " + r.Reason
}

// HTTPError converts the rejection into the error written to the client.
func (r *Rejection) HTTPError() *Error {
	return &Error{Status: r.Status, Message: r.Message, Err: r, Challenge: r.Challenge}
}

// RejectionObserver is told about every rejection, e.g. to count them.
type RejectionObserver func(*http.Request, *Rejection)

// Gate runs stages in order and only calls the wrapped handler once every
// stage has passed.
func Gate(stages ...Stage) Middleware {
	return GateWith(nil, stages...)
}

// GateWith is Gate with an observer for rejections.
func GateWith(observe RejectionObserver, stages ...Stage) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			for _, stage := range stages {
				nr, err := stage(r)
				if err != nil {
					var rej *Rejection
					if !errors.As(err, &rej) {
						WriteError(w, r, err)
						return
					}

					slogx.FromContext(r.Context()).Debug("request rejected",
						"stage", rej.Stage,
						"reason", rej.Reason,
						"status", rej.Status,
					)
					if observe != nil {
						observe(r, rej)
					}
					WriteError(w, r, rej.HTTPError())
					return
				}
				r = nr
			}
			next.ServeHTTP(w, r)
		})
	}
}
