package common

import "fmt"

// The run distinguishes two error categories: fatal errors (FetchError,
// LoadError) abort the run, while RecordError is recovered by skipping the
// offending record and continuing with the rest of the batch.

// FetchError is a failed upstream API call: a transport error, a non-2xx
// status, or a provider error payload embedded in a 200 response.
type FetchError struct {
	Provider string
	Message  string
	Err      error
}

func (e *FetchError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Provider, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Provider, e.Message)
}

func (e *FetchError) Unwrap() error { return e.Err }

// RecordError is a single malformed record found during transformation.
// It never aborts the run; transformers log it and skip the record.
type RecordError struct {
	Source string // dataset the record belongs to, e.g. "stock" or "weather"
	Key    string // natural key of the offending record, usually a date string
	Err    error
}

func (e *RecordError) Error() string {
	return fmt.Sprintf("%s record %q: %v", e.Source, e.Key, e.Err)
}

func (e *RecordError) Unwrap() error { return e.Err }

// LoadError is a database statement failure while loading a dataset. The
// dataset's transaction is rolled back; nothing from it is committed.
type LoadError struct {
	Table string
	Err   error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load %s: %v", e.Table, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }
