// Package testutil provides shared helpers for tests: a seeded thread-safe
// RNG, feature and value generators, and an exact O(n^2) Gaussian transform
// used as the accuracy reference for the lattice approximation.
package testutil
