package wincond

// NopQuery is a WindowQuery for environments without a window oracle
// (dry runs, tests). It reports no window as active or existing, so
// match slots never hold and non-match slots always do.
type NopQuery struct{}

// ActiveMatches always reports false.
func (NopQuery) ActiveMatches(title, text string) bool { return false }

// ExistsMatching always reports false.
func (NopQuery) ExistsMatching(title, text string) bool { return false }
