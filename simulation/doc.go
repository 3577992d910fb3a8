/*
Package simulation exercises the crdt package the way a real deployment
would: a configurable number of replicas each construct an independent
register, write to it concurrently without any coordination, and afterwards
reconcile by exchanging serialized register states over randomized gossip
rounds. Snapshots stay in process, no sockets are involved. At the end of a
run every replica has to hold an observationally identical register, which
the orchestrator verifies before reporting the winning write.
*/
package simulation
