package camera

import (
	"math"

	"LandmarkVision/shared/landmark"
	"LandmarkVision/shared/util"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/go-gl/mathgl/mgl64"
)

// CameraController gerencia a movimentação da câmera sobre o mapa.
// O mundo é Z-up: X/Y no chão e Z é a altitude.
// Movimento suave e zoom que afeta a velocidade.
type CameraController struct {
	// Configurações
	MinAltitude  float64
	MaxAltitude  float64
	MoveSpeed    float64 // Unidades/s na altitude de referência
	RotateSpeed  float64
	ZoomSpeed    float64 // Fração da altitude por clique da roda
	SmoothFactor float64 // 0.0 a 1.0 (quanto menor, mais suave/lento)

	// Estado Alvo (para interpolação suave)
	TargetPos   mgl64.Vec3
	TargetPitch float64 // Graus, negativo olha para baixo
	TargetYaw   float64 // Graus, a partir de +X

	// Estado Atual (interpolado)
	CurrentPos   mgl64.Vec3
	CurrentPitch float64
	CurrentYaw   float64
}

const referenceAltitude = 5000.0

// New cria um novo controlador de câmera.
func New(minAltitude, maxAltitude float64) *CameraController {
	c := &CameraController{
		MinAltitude:  minAltitude,
		MaxAltitude:  maxAltitude,
		MoveSpeed:    2000.0,
		RotateSpeed:  2.0,
		ZoomSpeed:    0.15,
		SmoothFactor: 0.1, // Ajuste fino para sensação de peso

		TargetPos:   mgl64.Vec3{0, 0, referenceAltitude},
		TargetPitch: -60.0,
		TargetYaw:   90.0, // Olhando para o norte (+Y)
	}
	c.TargetPos[2] = c.clampAltitude(c.TargetPos[2])
	c.snap()
	return c
}

func (c *CameraController) clampAltitude(z float64) float64 {
	return util.Clamp(z, c.MinAltitude, c.MaxAltitude)
}

// snap copia o estado alvo para o atual.
func (c *CameraController) snap() {
	c.CurrentPos = c.TargetPos
	c.CurrentPitch = c.TargetPitch
	c.CurrentYaw = c.TargetYaw
}

// SetTarget posiciona a câmera imediatamente (sem suavização) sobre um ponto.
func (c *CameraController) SetTarget(pos landmark.Vec3) {
	c.TargetPos = mgl64.Vec3{pos.X, pos.Y, c.clampAltitude(pos.Z)}
	c.snap()
}

// Pose retorna posição e rotação atuais no formato do resolvedor.
func (c *CameraController) Pose() (landmark.Vec3, landmark.Rotator) {
	return landmark.Vec3{X: c.CurrentPos.X(), Y: c.CurrentPos.Y(), Z: c.CurrentPos.Z()},
		landmark.Rotator{Pitch: c.CurrentPitch, Yaw: c.CurrentYaw}
}

// Update interpola o estado atual em direção ao alvo. Chamado a cada frame.
func (c *CameraController) Update(dt float64) {
	factor := c.SmoothFactor * 60.0 * dt // Normaliza para 60 FPS
	if factor > 1.0 {
		factor = 1.0
	}

	c.CurrentPos = c.CurrentPos.Add(c.TargetPos.Sub(c.CurrentPos).Mul(factor))
	c.CurrentPitch = util.Lerp(c.CurrentPitch, c.TargetPitch, factor)
	c.CurrentYaw = util.Lerp(c.CurrentYaw, c.TargetYaw, factor)
}

// Zoom sobe ou desce a câmera. A variação é proporcional à altitude.
func (c *CameraController) Zoom(wheel float64) {
	if wheel == 0 {
		return
	}
	z := c.TargetPos.Z() * math.Pow(1-c.ZoomSpeed, wheel)
	c.TargetPos[2] = c.clampAltitude(z)
}

// Rotate gira a câmera (pixels de arrasto do mouse).
func (c *CameraController) Rotate(dx, dy float64) {
	c.TargetYaw -= dx * c.RotateSpeed * 0.1
	c.TargetPitch -= dy * c.RotateSpeed * 0.1

	// Limite entre -89 graus (quase topo) e -5 graus (quase horizonte)
	c.TargetPitch = util.Clamp(c.TargetPitch, -89.0, -5.0)
}

// Move desloca o alvo no plano do chão, relativo ao yaw atual.
// Quanto mais alto, mais rápido.
func (c *CameraController) Move(forward, right, dt float64) bool {
	yaw := mgl64.DegToRad(c.TargetYaw)
	fwd := mgl64.Vec3{math.Cos(yaw), math.Sin(yaw), 0}
	rgt := mgl64.Vec3{math.Sin(yaw), -math.Cos(yaw), 0}

	delta := fwd.Mul(forward).Add(rgt.Mul(right))
	if delta.Len() == 0 {
		return false
	}

	speed := c.MoveSpeed * (c.TargetPos.Z() / referenceAltitude) * dt
	c.TargetPos = c.TargetPos.Add(delta.Normalize().Mul(speed))
	return true
}

// HandleInput processa entrada do usuário. Retorna true se houve input de movimento.
func (c *CameraController) HandleInput(dt float64) bool {
	moved := false

	if wheel := rl.GetMouseWheelMove(); wheel != 0 {
		c.Zoom(float64(wheel))
		moved = true
	}

	// Rotação com botão direito
	if rl.IsMouseButtonDown(rl.MouseRightButton) {
		delta := rl.GetMouseDelta()
		if delta.X != 0 || delta.Y != 0 {
			c.Rotate(float64(delta.X), float64(delta.Y))
			moved = true
		}
	}

	var forward, right float64
	if rl.IsKeyDown(rl.KeyW) {
		forward++
	}
	if rl.IsKeyDown(rl.KeyS) {
		forward--
	}
	if rl.IsKeyDown(rl.KeyD) {
		right++
	}
	if rl.IsKeyDown(rl.KeyA) {
		right--
	}
	if c.Move(forward, right, dt) {
		moved = true
	}

	return moved
}
