// Package registry owns all hotkey and hotstring definitions.
//
// The uniqueness key for a hotkey is its composite identity: the
// canonical key identity combined with the fingerprint of its window
// condition context. The same physical key can therefore carry
// several mutually exclusive bindings, disambiguated at dispatch time
// by which condition currently holds.
//
// Registration is atomic: either a well-formed definition is inserted
// or updated, or the registry is left unchanged. All state changes
// (enable, disable, toggle, unregister) go through the registry.
package registry
