// Package testutil holds fakes and helpers shared by the package tests.
package testutil

// Ptr returns a pointer to v, for optional fields such as the modifier
// flags of accelerator.Input.
func Ptr[T any](v T) *T { return &v }
