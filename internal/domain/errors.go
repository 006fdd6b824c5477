package domain

import "errors"

var (
	// ErrNoActiveSession is returned when a player asks for the current
	// question or answer before ever having started.
	ErrNoActiveSession = errors.New("no active session for player")
	// ErrEmptyCorpus indicates the corpus parsed to zero entries.
	ErrEmptyCorpus = errors.New("corpus contains no question blocks")
	// ErrStoreUnavailable wraps session store failures that survived retries.
	ErrStoreUnavailable = errors.New("session store unavailable")
)
