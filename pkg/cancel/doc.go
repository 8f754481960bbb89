// Package cancel provides cancellable handles and the containers that
// compose them.
//
// A Handle is anything that can be cancelled once and report whether it has
// been. The containers in this package follow the same terminal rule: once a
// Group, List or Serial is cancelled it stays cancelled, and any handle added
// afterwards is cancelled on the spot instead of being stored.
//
// Basic usage:
//
//	g := cancel.NewGroup()
//	g.Add(cancel.Func(func() { fmt.Println("released") }))
//	g.Cancel() // prints "released"
//	g.Cancel() // no-op
//
// None of the containers holds its lock while calling into a handle's
// Cancel method, so a handle may safely call Remove on the container that is
// cancelling it.
package cancel
