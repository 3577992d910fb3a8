/*
Package verification implements a randomized self-check harness for the
algebraic laws the crdt package guarantees: commutativity, associativity
and idempotence of merging, winner selection by greatest timestamp, write
monotonicity, and purity of advancing a timestamp. Every case constructs
fresh registers, drives them through randomly many writes, and checks the
laws through the public operations only. The harness backs the -verify
mode of the main binary.
*/
package verification
