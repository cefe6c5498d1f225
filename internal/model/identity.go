package model

// IdentityRef is the opaque identifier for a user account. The boundary layer
// mints one per account (uuid text) and resolves authenticated callers to it;
// the core only compares, orders, and hashes it.
type IdentityRef string

func (id IdentityRef) String() string { return string(id) }

// IsZero reports whether the identity is unset.
func (id IdentityRef) IsZero() bool { return id == "" }

// Less is the fixed total order over identities. Canonical conversation keys
// and any other pair normalization must go through it.
func (id IdentityRef) Less(other IdentityRef) bool { return id < other }
