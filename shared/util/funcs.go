package util

import "math"

// Lerp realiza interpolação linear entre dois floats.
func Lerp(start, end, amount float64) float64 {
	return start + amount*(end-start)
}

// Clamp limita um valor ao intervalo [low, high].
func Clamp(v, low, high float64) float64 {
	if v < low {
		return low
	}
	if v > high {
		return high
	}
	return v
}

// DistSqPlanar retorna a distância quadrada entre dois pontos no plano XY.
func DistSqPlanar(x1, y1, x2, y2 float64) float64 {
	dx := x1 - x2
	dy := y1 - y2
	return dx*dx + dy*dy
}

// AngleDelta retorna a diferença absoluta entre dois ângulos em graus,
// normalizada para [0, 180].
func AngleDelta(a, b float64) float64 {
	d := math.Mod(math.Abs(a-b), 360)
	if d > 180 {
		d = 360 - d
	}
	return d
}

// FloorDiv retorna floor(v / size) como int32, saturado nos limites do tipo.
// NaN vira 0.
func FloorDiv(v, size float64) int32 {
	f := math.Floor(v / size)
	switch {
	case math.IsNaN(f):
		return 0
	case f >= math.MaxInt32:
		return math.MaxInt32
	case f <= math.MinInt32:
		return math.MinInt32
	}
	return int32(f)
}

// AbsDiff retorna |a - b| sem estouro.
func AbsDiff(a, b int32) int64 {
	d := int64(a) - int64(b)
	if d < 0 {
		return -d
	}
	return d
}

// SpanAround retorna [c-r, c+r] limitado ao intervalo de int32.
func SpanAround(c, r int32) (lo, hi int64) {
	lo = max(int64(c)-int64(r), math.MinInt32)
	hi = min(int64(c)+int64(r), math.MaxInt32)
	return lo, hi
}
