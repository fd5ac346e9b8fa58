// Package domain contains the canonical entities of the lookup pipeline:
// structured addresses, skip-trace results, phone validations and the
// per-lookup and per-batch outcomes handed to presentation layers. These types
// carry no transport or provider concerns so they can be shared across packages.
package domain
