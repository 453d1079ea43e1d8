package pipeline

import (
	"github.com/preflight-ml/preflight/internal/ops"
)

// fuseTransforms rewrites an operator sequence into a functionally equivalent
// but faster one: a Normalize immediately followed by HWC2CHW becomes a single
// NormalizeAndPermute carrying the same mean/std/scale. The fused operator is
// the only one eligible for the accelerated device path.
//
// The rule is applied left to right in a single non-overlapping pass; the
// relative order of all other operators is preserved.
func fuseTransforms(seq []ops.Operator) []ops.Operator {
	out := make([]ops.Operator, 0, len(seq))
	for i := 0; i < len(seq); i++ {
		if i+1 < len(seq) {
			if n, ok := seq[i].(*ops.Normalize); ok {
				if _, ok := seq[i+1].(*ops.HWC2CHW); ok {
					fused, err := ops.NewNormalizeAndPermute(n.Mean, n.Std, n.Scale)
					if err == nil {
						out = append(out, fused)
						i++
						continue
					}
					// Parameters were validated at build time; an error here
					// means leaving the pair unfused, which is still correct.
				}
			}
		}
		out = append(out, seq[i])
	}
	return out
}
