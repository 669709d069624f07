// Package core contains the stargazer domain contracts, entities, errors and
// configuration. Transport, storage and metrics adapters depend on this
// package; core must not depend on any of them.
package core
