// Package fees reconciles client-desired EIP-1559 fee parameters against the
// minimums a relay server advertises. Negotiation is pure arithmetic: it
// raises each desired value to the server minimum where needed and reports
// how far the server pushed the client, as a percentage. Whether that push is
// acceptable stays a caller decision (a configured tolerance).
package fees

import (
	"fmt"
	"math/big"
)

// Canonical parameter names used on the wire.
const (
	MaxPriorityFeePerGas = "maxPriorityFeePerGas"
	MaxFeePerGas         = "maxFeePerGas"
)

// Parameter is one named fee quantity in wei.
type Parameter struct {
	Name  string
	Value *big.Int
}

// Negotiated is one parameter after negotiation.
type Negotiated struct {
	Name      string
	Value     *big.Int // resolved value: max(desired, server minimum)
	Deviation int64    // percent increase over the desired value, 0 if unchanged
}

// Result holds the resolved parameters of one negotiation plus the worst-case
// deviation across them. A single badly-deviating parameter is enough to sink
// a candidate, so the maximum is what callers compare against a tolerance.
type Result struct {
	Params       []Negotiated
	MaxDeviation int64
}

// Within reports whether every parameter stayed inside tolerancePct.
func (r *Result) Within(tolerancePct int64) bool {
	return r.MaxDeviation <= tolerancePct
}

// Get returns the resolved value for a parameter name, or nil when the
// negotiation did not include it.
func (r *Result) Get(name string) *big.Int {
	for _, p := range r.Params {
		if p.Name == name {
			return p.Value
		}
	}
	return nil
}

// Negotiate matches desired parameters against server minimums pairwise by
// name. Every desired name must have a matching minimum; a missing name means
// client and server disagree on the parameter set and nothing is negotiable.
func Negotiate(desired, minimums []Parameter) (*Result, error) {
	mins := make(map[string]*big.Int, len(minimums))
	for _, m := range minimums {
		mins[m.Name] = m.Value
	}

	res := &Result{Params: make([]Negotiated, 0, len(desired))}
	for _, d := range desired {
		min, ok := mins[d.Name]
		if !ok {
			return nil, fmt.Errorf("server declared no minimum for fee parameter %q", d.Name)
		}

		n := Negotiated{Name: d.Name, Value: d.Value}
		if d.Value.Cmp(min) < 0 {
			n.Value = new(big.Int).Set(min)
			n.Deviation = deviationPct(d.Value, min)
		}
		res.Params = append(res.Params, n)

		if n.Deviation > res.MaxDeviation {
			res.MaxDeviation = n.Deviation
		}
	}
	return res, nil
}

// deviationPct computes round-half-up((min-desired)*100/desired) for
// desired < min. A zero desired value cannot express a relative increase, so
// any raise from zero counts as 100%.
func deviationPct(desired, min *big.Int) int64 {
	if desired.Sign() == 0 {
		return 100
	}

	num := new(big.Int).Sub(min, desired)
	num.Mul(num, big.NewInt(100))

	q, r := new(big.Int).QuoRem(num, desired, new(big.Int))
	// Round half up: bump when remainder*2 >= desired.
	r.Mul(r, big.NewInt(2))
	if r.Cmp(desired) >= 0 {
		q.Add(q, big.NewInt(1))
	}
	return q.Int64()
}
