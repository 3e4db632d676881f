package fractal

import (
	"fmt"

	rterrors "github.com/tuirun/fractal/internal/errors"
	"github.com/tuirun/fractal/internal/validate"
)

// Outlet is the one-way channel a Custom callable uses to publish messages
// back into the inbox (spec.md §3, §4.2). It wraps a send function rather
// than exposing the inbox directly: a callable gets exactly the capability
// it needs (publish) and nothing else (no read access, no lifecycle
// control).
type Outlet struct {
	send     func(Msg)
	validate bool
}

// NewOutlet builds an Outlet around send. send receives whole Msg values —
// the same sink System commands push their result structs into directly —
// so the inbox never needs to distinguish "a Tagged from an Outlet" from
// "a SystemResult from the dispatcher." validate turns on the deep
// immutability check from internal/validate for every payload value —
// expensive, so Run only enables it when config.Options.ValidateImmutability
// is set (spec.md §4.2, SPEC_FULL.md Ambient Stack).
func NewOutlet(send func(Msg), validate bool) Outlet {
	return Outlet{send: send, validate: validate}
}

// Put enqueues a Tagged message built from tag and payload. It returns an
// *errors.InvariantError when immutability validation is on and a payload
// value fails the check; the message is not enqueued in that case.
func (o Outlet) Put(tag string, payload ...any) error {
	if o.validate {
		for i, v := range payload {
			if err := validate.Immutable(v); err != nil {
				return &rterrors.InvariantError{
					Reason: fmt.Sprintf("outlet payload[%d] for tag %q is not immutable", i, tag),
					Err:    err,
				}
			}
		}
	}

	o.send(Tagged{Tag: tag, Payload: payload})

	return nil
}
