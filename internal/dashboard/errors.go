package dashboard

import "fmt"

// InputError indicates invalid caller input (e.g. a missing required field).
// Transport layers map this to 400.
type InputError string

func (e InputError) Error() string { return string(e) }

// UnknownProjectKeyError indicates a projectKey that resolves to no project
// record. Transport layers map this to 400; no write is issued when it occurs.
type UnknownProjectKeyError struct {
	Key string
}

func (e *UnknownProjectKeyError) Error() string {
	return fmt.Sprintf("unknown project key %q", e.Key)
}
