// Package camera fornece a primitiva de projeção mundo -> tela usada pelo
// resolvedor de visibilidade. O mundo é Z-up.
package camera

import (
	"math"

	"LandmarkVision/shared/landmark"

	"github.com/go-gl/mathgl/mgl64"
)

// Perspective é uma câmera em perspectiva independente de janela.
type Perspective struct {
	FovY   float64 // Graus
	Width  float64
	Height float64
	Near   float64
	Far    float64

	eye    mgl64.Vec3
	target mgl64.Vec3
	vp     mgl64.Mat4
}

// NewPerspective cria a câmera com os planos near/far padrão.
func NewPerspective(fovY, width, height float64) *Perspective {
	p := &Perspective{
		FovY:   fovY,
		Width:  width,
		Height: height,
		Near:   1.0,
		Far:    1e7,
		target: mgl64.Vec3{1, 0, 0},
	}
	p.rebuild()
	return p
}

// toMgl converte um vetor do mundo.
func toMgl(v landmark.Vec3) mgl64.Vec3 {
	return mgl64.Vec3{v.X, v.Y, v.Z}
}

// Direction retorna o vetor unitário para onde a rotação aponta.
// Yaw gira em torno de Z a partir de +X; pitch negativo olha para baixo.
func Direction(rot landmark.Rotator) landmark.Vec3 {
	pitch := mgl64.DegToRad(rot.Pitch)
	yaw := mgl64.DegToRad(rot.Yaw)
	return landmark.Vec3{
		X: math.Cos(pitch) * math.Cos(yaw),
		Y: math.Cos(pitch) * math.Sin(yaw),
		Z: math.Sin(pitch),
	}
}

// SetViewport atualiza o tamanho da tela (ex: janela redimensionada).
func (p *Perspective) SetViewport(width, height float64) {
	p.Width = width
	p.Height = height
	p.rebuild()
}

// LookAt posiciona a câmera olhando para target.
func (p *Perspective) LookAt(eye, target landmark.Vec3) {
	p.eye = toMgl(eye)
	p.target = toMgl(target)
	p.rebuild()
}

// SetPose posiciona a câmera a partir de posição e rotação.
func (p *Perspective) SetPose(pos landmark.Vec3, rot landmark.Rotator) {
	dir := toMgl(Direction(rot))
	p.eye = toMgl(pos)
	p.target = p.eye.Add(dir)
	p.rebuild()
}

// Eye retorna a posição atual da câmera.
func (p *Perspective) Eye() landmark.Vec3 {
	return landmark.Vec3{X: p.eye.X(), Y: p.eye.Y(), Z: p.eye.Z()}
}

// Rotation deriva pitch/yaw (graus) da direção de visão.
func (p *Perspective) Rotation() landmark.Rotator {
	dir := p.target.Sub(p.eye)
	if dir.Len() == 0 {
		return landmark.Rotator{}
	}
	dir = dir.Normalize()
	return landmark.Rotator{
		Pitch: mgl64.RadToDeg(math.Asin(mgl64.Clamp(dir.Z(), -1, 1))),
		Yaw:   mgl64.RadToDeg(math.Atan2(dir.Y(), dir.X())),
	}
}

// rebuild recalcula a matriz view-projection.
func (p *Perspective) rebuild() {
	aspect := 1.0
	if p.Height > 0 {
		aspect = p.Width / p.Height
	}
	proj := mgl64.Perspective(mgl64.DegToRad(p.FovY), aspect, p.Near, p.Far)

	// Up = Z; quando a visão é quase vertical usa Y para não degenerar
	up := mgl64.Vec3{0, 0, 1}
	dir := p.target.Sub(p.eye)
	if dir.Len() > 0 && math.Abs(dir.Normalize().Dot(up)) > 0.999 {
		up = mgl64.Vec3{0, 1, 0}
	}
	view := mgl64.LookAtV(p.eye, p.target, up)
	p.vp = proj.Mul4(view)
}

// ProjectToScreen implementa landmark.Projector. Pontos atrás da câmera ou
// fora do frustum retornam false.
func (p *Perspective) ProjectToScreen(world landmark.Vec3) (landmark.Vec2, bool) {
	clip := p.vp.Mul4x1(toMgl(world).Vec4(1))
	w := clip.W()
	if w <= 0 {
		return landmark.Vec2{}, false
	}
	ndc := clip.Vec3().Mul(1 / w)
	if ndc.X() < -1 || ndc.X() > 1 || ndc.Y() < -1 || ndc.Y() > 1 || ndc.Z() < -1 || ndc.Z() > 1 {
		return landmark.Vec2{}, false
	}
	return landmark.Vec2{
		X: (ndc.X() + 1) * 0.5 * p.Width,
		Y: (1 - ndc.Y()) * 0.5 * p.Height,
	}, true
}
