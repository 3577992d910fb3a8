/*
Package crdt implements the state-based last-writer-wins register (LWW-Register)
structure together with the logical timestamp that orders its writes.

CAUTION! Consider these two requirements:
* The identifier inside a timestamp is expected to be unique per register
  instance. Replicas therefore each construct their own register via
  InitLWWRegister and reconcile through Merged or Merge; two copies that
  tick the very same timestamp concurrently leave the domain this package
  guarantees convergence for.
* Access to the functions this package provides is expected to be synchronized
  explicitly by some outside measures, e.g. by wrapping calls to this package
  with a mutex lock if concurrent access to one register is possible. This
  package does not(!) synchronize access by itself. Registers are plain value
  types: assignment yields an independent replica, and independent replicas
  held by independent goroutines need no synchronization at all.

The state-based LWW-Register implementation of this package is a practical
derivation from its specification by Shapiro, Preguiça, Baquero and Zawirski,
available under: https://hal.inria.fr/inria-00555588/document
*/
package crdt
