// Package types defines the counter document (State, TapeEntry), the
// closed enumerations it uses (SeqMode, Theme), the Gateway and Store
// interfaces for persistence, backend configuration, and the standard
// error values for the tally storage system.
package types
