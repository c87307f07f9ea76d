package domain

import "errors"

// ErrNotFound is the store-level signal for a missing record. Repositories
// return it (possibly wrapped) when a lookup matches nothing; the service
// layer decides what that means for the caller.
var ErrNotFound = errors.New("record not found")

// Anime is the catalog entry exposed by the API.
// ID is zero on create requests and assigned by the store on first save;
// the store is the only writer of ID. Name must be non-empty whenever the
// record is submitted for creation or update.
type Anime struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}
