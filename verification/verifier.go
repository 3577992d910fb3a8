package verification

import (
	"fmt"
	"time"

	"math/rand"

	"github.com/gernb/CRDT/config"
	"github.com/gernb/CRDT/crdt"
	"github.com/go-kit/kit/log"
	"github.com/go-kit/kit/log/level"
)

// Structs

// Verifier drives randomized checks of the register's
// merge laws through its public operations.
type Verifier struct {
	logger log.Logger
	conf   config.Verification
	rng    *rand.Rand
}

// Functions

// NewVerifier prepares a verification run over the
// configured number of randomized cases.
func NewVerifier(logger log.Logger, conf config.Verification) *Verifier {

	seed := conf.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	level.Info(logger).Log(
		"msg", "verification prepared",
		"cases", conf.Cases,
		"seed", seed,
	)

	return &Verifier{
		logger: logger,
		conf:   conf,
		rng:    rand.New(rand.NewSource(seed)),
	}
}

// Run executes all configured cases and returns an error
// if any case found a violated law.
func (v *Verifier) Run() error {

	failures := 0

	for num := 1; num <= v.conf.Cases; num++ {

		err := v.runCase(num)
		if err != nil {

			failures++

			level.Error(v.logger).Log(
				"msg", "merge law violated",
				"case", num,
				"err", err,
			)
		}
	}

	if failures > 0 {
		return fmt.Errorf("%d of %d verification cases failed", failures, v.conf.Cases)
	}

	level.Info(v.logger).Log(
		"msg", "all verification cases passed",
		"cases", v.conf.Cases,
	)

	return nil
}

// runCase constructs three independently written registers
// and checks every law on them.
func (v *Verifier) runCase(num int) error {

	a, writesA := v.randomRegister(num, "a")
	b, _ := v.randomRegister(num, "b")
	c, _ := v.randomRegister(num, "c")

	// Writes advance the register's timestamp by exactly
	// one count each, on a stable identifier.
	if a.Timestamp().Count() != uint64(writesA) {
		return fmt.Errorf("write monotonicity violated: %d writes led to count %d", writesA, a.Timestamp().Count())
	}

	// Advancing a timestamp returns a successor and leaves
	// the receiver untouched.
	ts := a.Timestamp()
	next := ts.Tick()

	if ts.Equal(a.Timestamp()) != true {
		return fmt.Errorf("tick purity violated: receiver changed from %s to %s", a.Timestamp(), ts)
	}

	if next.Count() != (ts.Count() + 1) {
		return fmt.Errorf("tick count violated: %s followed by %s", ts, next)
	}

	if next.After(ts) != true {
		return fmt.Errorf("tick ordering violated: %s does not order after %s", next, ts)
	}

	// Merging is commutative.
	if crdt.Equal(a.Merged(b), b.Merged(a)) != true {
		return fmt.Errorf("commutativity violated: %s does not match %s", a.Merged(b), b.Merged(a))
	}

	// Merging is associative.
	left := a.Merged(b).Merged(c)
	right := a.Merged(b.Merged(c))

	if crdt.Equal(left, right) != true {
		return fmt.Errorf("associativity violated: %s does not match %s", left, right)
	}

	// Merging is idempotent.
	if crdt.Equal(a.Merged(a), a) != true {
		return fmt.Errorf("idempotence violated: %s does not match %s", a.Merged(a), a)
	}

	// Merging selects the operand carrying the greater
	// timestamp and discards the other one entirely.
	winner := a
	if b.Timestamp().After(a.Timestamp()) {
		winner = b
	}

	merged := a.Merged(b)

	if crdt.Equal(merged, winner) != true {
		return fmt.Errorf("winner selection violated: expected %s but found %s", winner, merged)
	}

	// The merge result never orders below either operand.
	if merged.Timestamp().Before(a.Timestamp()) || merged.Timestamp().Before(b.Timestamp()) {
		return fmt.Errorf("upper bound violated: %s orders below an operand", merged)
	}

	// Merging leaves both operands untouched.
	before := b

	a.Merged(b)

	if crdt.Equal(b, before) != true {
		return fmt.Errorf("operand mutation violated: %s changed to %s", before, b)
	}

	return nil
}

// randomRegister constructs a register under a fresh identifier
// and performs a random number of writes on it.
func (v *Verifier) randomRegister(num int, name string) (crdt.LWWRegister[string], int) {

	reg := crdt.InitLWWRegister(fmt.Sprintf("case-%d-%s", num, name))

	writes := v.rng.Intn(8)

	for i := 1; i <= writes; i++ {
		reg.SetValue(fmt.Sprintf("case-%d-%s-%d", num, name, i))
	}

	return reg, writes
}
