package landmark

import (
	"sort"

	"LandmarkVision/shared/util"
)

// ScalePolicy calcula escala e opacidade a partir da altitude da câmera.
type ScalePolicy func(altitude float64) (scale, alpha float64)

// ConstantPolicy retorna sempre os mesmos valores (comportamento padrão: 1.0, 1.0).
func ConstantPolicy(scale, alpha float64) ScalePolicy {
	return func(float64) (float64, float64) {
		return scale, alpha
	}
}

// CurveKey é um ponto de uma curva.
type CurveKey struct {
	Time  float64
	Value float64
}

// Curve é uma curva linear por partes, ordenada por Time.
type Curve []CurveKey

// NewCurve cria uma curva ordenando as chaves.
func NewCurve(keys ...CurveKey) Curve {
	c := make(Curve, len(keys))
	copy(c, keys)
	sort.Slice(c, func(i, j int) bool { return c[i].Time < c[j].Time })
	return c
}

// Eval avalia a curva em t. Fora do intervalo, repete a chave da ponta.
func (c Curve) Eval(t float64) float64 {
	if len(c) == 0 {
		return 0
	}
	if t <= c[0].Time {
		return c[0].Value
	}
	last := c[len(c)-1]
	if t >= last.Time {
		return last.Value
	}
	for i := 1; i < len(c); i++ {
		if t <= c[i].Time {
			a, b := c[i-1], c[i]
			span := b.Time - a.Time
			if span <= 0 {
				return b.Value
			}
			return util.Lerp(a.Value, b.Value, (t-a.Time)/span)
		}
	}
	return last.Value
}

// ZoomFactor converte altitude em fator 0 (chão) .. 1 (espaço).
func ZoomFactor(altitude, minAltitude, maxAltitude float64) float64 {
	if maxAltitude <= minAltitude {
		return 0
	}
	return util.Clamp((altitude-minAltitude)/(maxAltitude-minAltitude), 0, 1)
}

// CurvePolicy mistura escala/alpha por curvas indexadas pelo fator de zoom.
// Curvas sem chaves caem no fallback linear: escala 0.5→2.0 e
// alpha com fade-in rápido no início.
func CurvePolicy(scaleCurve, alphaCurve Curve, minAltitude, maxAltitude float64) ScalePolicy {
	return func(altitude float64) (float64, float64) {
		zoom := ZoomFactor(altitude, minAltitude, maxAltitude)

		scale := util.Lerp(0.5, 2.0, zoom)
		if len(scaleCurve) > 0 {
			scale = scaleCurve.Eval(zoom)
		}

		alpha := util.Clamp(util.Lerp(0, 1, zoom*5), 0, 1)
		if len(alphaCurve) > 0 {
			alpha = alphaCurve.Eval(zoom)
		}
		return scale, alpha
	}
}
