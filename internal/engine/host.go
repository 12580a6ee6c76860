package engine

import (
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/concave-dev/gfnprobe/internal/device"
	"github.com/concave-dev/gfnprobe/internal/logging"
)

// Largest exponent the host engine accepts. Kept wider than the command-line
// range so small exponents can be checked by hand.
const hostMaxExponent = 24

// Fermat test base. 2 is unusable when b is a power of two.
var prpBase = big.NewInt(3)

var (
	one    = big.NewInt(1)
	mask64 = new(big.Int).SetUint64(^uint64(0))
)

// hostEngine is the reference engine: plain math/big on the CPU. It has no
// transform arithmetic and no checkpoints, but honors the full contract.
type hostEngine struct {
	info     device.Info
	n        int
	prepared bool
	released bool
}

// HostFactory builds the reference engine on a host platform device.
func HostFactory(c *device.Catalog, h device.Handle) (Engine, error) {
	info, err := c.Resolve(h)
	if err != nil {
		return nil, err
	}
	logging.Info("Using %s: %s (%d units)", h, info.Name, info.Units)
	return &hostEngine{info: info}, nil
}

func (e *hostEngine) Device() device.Info {
	return e.info
}

func (e *hostEngine) Prepare(n int) error {
	if e.released {
		return errors.New("engine already released")
	}
	if n < 0 || n > hostMaxExponent {
		return fmt.Errorf("exponent %d outside host engine range 0..%d", n, hostMaxExponent)
	}
	e.n = n
	e.prepared = true
	return nil
}

// modulus returns b^(2^n)+1.
func (e *hostEngine) modulus(b uint64) *big.Int {
	bb := new(big.Int).SetUint64(b)
	m := new(big.Int).Exp(bb, big.NewInt(1<<e.n), nil)
	return m.Add(m, one)
}

func (e *hostEngine) ready(b uint64) error {
	if e.released {
		return errors.New("engine already released")
	}
	if !e.prepared {
		return errors.New("engine not prepared")
	}
	if b < 2 {
		return fmt.Errorf("base %d is too small", b)
	}
	return nil
}

// Test computes 3^(N-1) mod N with N-1 = b^(2^n), as 2^n successive
// powerings by b. The stop flag is polled before every round.
func (e *hostEngine) Test(b uint64, stop Stopper) (Result, error) {
	if err := e.ready(b); err != nil {
		return Result{}, err
	}
	start := time.Now()
	res := Result{B: b, N: e.n}

	// Odd b gives an even N
	if b%2 == 1 {
		res.Elapsed = time.Since(start)
		return res, nil
	}

	m := e.modulus(b)
	x, err := e.power(b, m, 1<<e.n, stop)
	if err != nil {
		return Result{}, err
	}

	res.Prime = x.Cmp(one) == 0
	res.Residue = new(big.Int).And(x, mask64).Uint64()
	res.Elapsed = time.Since(start)
	return res, nil
}

func (e *hostEngine) power(b uint64, m *big.Int, rounds int, stop Stopper) (*big.Int, error) {
	bb := new(big.Int).SetUint64(b)
	x := new(big.Int).Set(prpBase)
	for i := 0; i < rounds; i++ {
		if stop != nil && stop.Requested() {
			return nil, ErrInterrupted
		}
		x.Exp(x, bb, m)
	}
	return x, nil
}

func (e *hostEngine) Time(b uint64, rounds int, stop Stopper) (time.Duration, error) {
	if err := e.ready(b); err != nil {
		return 0, err
	}
	if rounds < 1 {
		return 0, fmt.Errorf("rounds must be positive, got %d", rounds)
	}
	m := e.modulus(b)
	start := time.Now()
	if _, err := e.power(b, m, rounds, stop); err != nil {
		return 0, err
	}
	return time.Since(start), nil
}

func (e *hostEngine) Release() error {
	if e.released {
		return nil
	}
	e.released = true
	logging.Debug("Released host engine on %s", e.info.Name)
	return nil
}
