// Package tally implements the counter document core: the sequence
// engine, the tape entry normalizer, the daily rollover manager, the state
// migrator that repairs arbitrary persisted data, and the Session that owns
// one State and applies every counter and tape mutation to it.
//
// Data flow:
//
//	Gateway.Get -> decodeDocument -> Migrate -> Session -> mutators -> Gateway.Set
//
// Migrate and NormalizeEntry are total: any input, including nil, yields a
// structurally valid value and neither returns an error.
package tally
