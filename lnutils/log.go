package lnutils

import (
	"log/slog"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btclog/v2"
	"github.com/davecgh/go-spew/spew"
)

// LogClosure is used to provide a closure over expensive logging operations so
// don't have to be performed when the logging level doesn't warrant it.
type LogClosure func() string

// String invokes the underlying function and returns the result.
func (c LogClosure) String() string {
	return c()
}

// SpewLogClosure takes an interface and returns the string of it created from
// `spew.Sdump` in a LogClosure.
func SpewLogClosure(a any) LogClosure {
	return func() string {
		return spew.Sdump(a)
	}
}

// LogHash returns a slog attribute for logging a block hash in the usual
// byte-reversed hex format.
func LogHash(key string, hash *chainhash.Hash) slog.Attr {
	if hash == nil {
		return btclog.Fmt(key, "<nil>")
	}

	return btclog.Fmt(key, "%v", hash)
}
