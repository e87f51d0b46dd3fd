package ring

// NewPolyVec allocates a vector of k zero polynomials.
func (r *Ring) NewPolyVec(k int) PolyVec {
	v := make(PolyVec, k)
	for i := range v {
		v[i] = r.NewPoly()
	}
	return v
}

// NewPolyMat allocates a rows x cols matrix of zero polynomials.
func (r *Ring) NewPolyMat(rows, cols int) PolyMat {
	m := make(PolyMat, rows)
	for i := range m {
		m[i] = r.NewPolyVec(cols)
	}
	return m
}

// CopyVec copies v into out element-wise.
func (r *Ring) CopyVec(v, out PolyVec) {
	for i := range v {
		r.Copy(v[i], out[i])
	}
}

// AddVec sets out = a + b element-wise.
func (r *Ring) AddVec(a, b, out PolyVec) {
	for i := range out {
		r.Add(a[i], b[i], out[i])
	}
}

// SubVec sets out = a - b element-wise.
func (r *Ring) SubVec(a, b, out PolyVec) {
	for i := range out {
		r.Sub(a[i], b[i], out[i])
	}
}

// NTTVec transforms every element of v into out.
func (r *Ring) NTTVec(v, out PolyVec) {
	for i := range v {
		r.NTT(v[i], out[i])
	}
}

// InvNTTVec inverse-transforms every element of v into out.
func (r *Ring) InvNTTVec(v, out PolyVec) {
	for i := range v {
		r.InvNTT(v[i], out[i])
	}
}

// DotNTT sets out to the NTT-domain inner product of a and b.
func (r *Ring) DotNTT(a, b PolyVec, out Poly) {
	r.checkPoly(out)
	tmp := r.NewPoly()
	for i := range out {
		out[i] = 0
	}
	for i := range a {
		r.MulCoeffs(a[i], b[i], tmp)
		r.Add(out, tmp, out)
	}
}

// MatVecNTT sets out = m * v with all operands in the NTT domain.
func (r *Ring) MatVecNTT(m PolyMat, v PolyVec, out PolyVec) {
	for i := range m {
		r.DotNTT(m[i], v, out[i])
	}
}

// InfNormVec returns the maximum infinity norm across the vector.
func (r *Ring) InfNormVec(v PolyVec) uint32 {
	var max uint32
	for i := range v {
		if n := r.InfNorm(v[i]); n > max {
			max = n
		}
	}
	return max
}

// EqualVec reports element-wise equality. Not constant time.
func (r *Ring) EqualVec(a, b PolyVec) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !r.Equal(a[i], b[i]) {
			return false
		}
	}
	return true
}
