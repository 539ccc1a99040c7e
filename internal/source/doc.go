// Package source resolves repository locators (local paths or git URLs)
// into readable local directory roots.
package source
