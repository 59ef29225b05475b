package http

import "errors"

var (
	errNotSummoned    = errors.New("guild: not yet summoned")
	errNoSuchMember   = errors.New("guild: no such member")
	errNoSuchProposal = errors.New("guild: no such proposal")
)
