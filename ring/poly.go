package ring

// NewPoly allocates a zero polynomial of the ring's dimension.
func (r *Ring) NewPoly() Poly {
	return make(Poly, r.N)
}

// Copy copies p into out.
func (r *Ring) Copy(p, out Poly) {
	r.checkPoly(p, out)
	copy(out, p)
}

// Add sets out = p1 + p2. out may alias either input.
func (r *Ring) Add(p1, p2, out Poly) {
	r.checkPoly(p1, p2, out)
	for i := range out {
		out[i] = r.AddMod(p1[i], p2[i])
	}
}

// Sub sets out = p1 - p2. out may alias either input.
func (r *Ring) Sub(p1, p2, out Poly) {
	r.checkPoly(p1, p2, out)
	for i := range out {
		out[i] = r.SubMod(p1[i], p2[i])
	}
}

// Neg sets out = -p.
func (r *Ring) Neg(p, out Poly) {
	r.checkPoly(p, out)
	for i := range out {
		out[i] = r.reduceOnce(r.Q - p[i])
	}
}

// MulCoeffs sets out to the pointwise product of two NTT-domain
// polynomials. out may alias either input.
func (r *Ring) MulCoeffs(p1, p2, out Poly) {
	r.checkPoly(p1, p2, out)
	for i := range out {
		out[i] = r.MulMod(p1[i], p2[i])
	}
}

// MulScalar sets out = scalar * p.
func (r *Ring) MulScalar(p Poly, scalar uint32, out Poly) {
	r.checkPoly(p, out)
	for i := range out {
		out[i] = r.MulMod(p[i], scalar)
	}
}

// MulPoly sets out to the negacyclic convolution of p1 and p2, computed
// as InvNTT(MulCoeffs(NTT(p1), NTT(p2))).
func (r *Ring) MulPoly(p1, p2, out Poly) {
	r.checkPoly(p1, p2, out)
	t1 := r.NewPoly()
	t2 := r.NewPoly()
	r.NTT(p1, t1)
	r.NTT(p2, t2)
	r.MulCoeffs(t1, t2, t1)
	r.InvNTT(t1, out)
}

// InfNorm returns the infinity norm of p, with coefficients interpreted
// in the symmetric interval (-q/2, q/2].
func (r *Ring) InfNorm(p Poly) uint32 {
	r.checkPoly(p)
	var max uint32
	half := (r.Q - 1) / 2
	for _, c := range p {
		v := c
		if v > half {
			v = r.Q - v
		}
		if v > max {
			max = v
		}
	}
	return max
}

// Equal reports whether p1 and p2 have identical coefficients. It is not
// constant time; secret-derived data must be compared at the byte level
// with utils.ConstantTimeEqual.
func (r *Ring) Equal(p1, p2 Poly) bool {
	r.checkPoly(p1, p2)
	for i := range p1 {
		if p1[i] != p2[i] {
			return false
		}
	}
	return true
}
