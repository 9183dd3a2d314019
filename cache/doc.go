// Package cache holds decoded read responses for the lifetime of a client
// session. Entries expire lazily: an expired entry is removed by the
// lookup that finds it, and nothing sweeps in the background. The cache
// has no size bound.
package cache
