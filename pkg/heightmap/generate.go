package heightmap

import "math"

// Generate builds a deterministic fractal value-noise heightmap.
// The same size, seed and octave count always produce the same samples.
func Generate(size int, seed int64, octaves int) (*Heightmap, error) {
	h, err := New(size)
	if err != nil {
		return nil, err
	}
	if octaves < 1 {
		octaves = 1
	}

	// base frequency: four lattice cells across the map
	scale := 4.0 / float64(size-1)
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			v := fbm(float64(x)*scale, float64(y)*scale, seed, octaves)
			h.Set(x, y, uint16(v*MaxValue))
		}
	}
	return h, nil
}

// fbm sums octaves of value noise and normalizes the result to [0, 1].
func fbm(x, y float64, seed int64, octaves int) float64 {
	var sum, norm float64
	amp, freq := 1.0, 1.0
	for i := 0; i < octaves; i++ {
		sum += amp * valueNoise(x*freq, y*freq, seed+int64(i)*1013)
		norm += amp
		amp *= 0.5
		freq *= 2
	}
	return sum / norm
}

func valueNoise(x, y float64, seed int64) float64 {
	x0, y0 := math.Floor(x), math.Floor(y)
	fx, fy := fade(x-x0), fade(y-y0)
	ix, iy := int64(x0), int64(y0)

	v00 := lattice(ix, iy, seed)
	v10 := lattice(ix+1, iy, seed)
	v01 := lattice(ix, iy+1, seed)
	v11 := lattice(ix+1, iy+1, seed)

	top := v00 + fx*(v10-v00)
	bottom := v01 + fx*(v11-v01)
	return top + fy*(bottom-top)
}

// fade is the quintic smoothstep 6t^5 - 15t^4 + 10t^3.
func fade(t float64) float64 {
	return t * t * t * (t*(t*6-15) + 10)
}

// lattice hashes a lattice point to [0, 1] (SplitMix64 finalizer).
func lattice(x, y, seed int64) float64 {
	v := uint64(x) + uint64(y)<<1 + uint64(seed)*0x9E3779B97F4A7C15
	v += 0x9E3779B97F4A7C15
	v = (v ^ (v >> 30)) * 0xBF58476D1CE4E5B9
	v = (v ^ (v >> 27)) * 0x94D049BB133111EB
	v ^= v >> 31
	return float64(v&0xFFFFFFFF) / float64(0xFFFFFFFF)
}
