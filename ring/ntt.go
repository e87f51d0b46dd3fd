package ring

// NTT sets out to the negacyclic number-theoretic transform of p.
// Output coefficients are in bit-reversed order. out may alias p.
func (r *Ring) NTT(p, out Poly) {
	r.checkPoly(p, out)
	if &out[0] != &p[0] {
		copy(out, p)
	}
	k := 1
	for length := r.N / 2; length >= 1; length /= 2 {
		for start := 0; start < r.N; start += 2 * length {
			zeta := r.zetas[k]
			k++
			lo := out[start : start+length]
			hi := out[start+length : start+2*length]
			for j := 0; j < length; j++ {
				t := r.MulMod(zeta, hi[j])
				hi[j] = r.SubMod(lo[j], t)
				lo[j] = r.AddMod(lo[j], t)
			}
		}
	}
}

// InvNTT sets out to the inverse transform of p, the exact inverse of
// NTT. out may alias p.
func (r *Ring) InvNTT(p, out Poly) {
	r.checkPoly(p, out)
	if &out[0] != &p[0] {
		copy(out, p)
	}
	k := r.N - 1
	for length := 1; length < r.N; length *= 2 {
		for start := 0; start < r.N; start += 2 * length {
			zeta := r.Q - r.zetas[k]
			k--
			lo := out[start : start+length]
			hi := out[start+length : start+2*length]
			for j := 0; j < length; j++ {
				t := lo[j]
				lo[j] = r.AddMod(t, hi[j])
				hi[j] = r.MulMod(zeta, r.SubMod(t, hi[j]))
			}
		}
	}
	for i := range out {
		out[i] = r.MulMod(out[i], r.nInv)
	}
}
