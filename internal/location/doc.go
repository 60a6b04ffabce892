// Package location models the cloud locations a state can be replicated to.
//
// A [Location] pairs a [Vendor] with one of that vendor's regions. Locations
// are parsed from either the bare region code ("us-west-2") or the qualified
// form ("aws:us-west-2"); a bare code that more than one vendor accepts is
// rejected as ambiguous.
package location
