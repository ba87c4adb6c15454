// Package landmark mantém o registro de pontos nomeados do mapa (cidades,
// rios, marcos estratégicos), o índice espacial em grade uniforme e a
// resolução de visibilidade por câmera.
package landmark

import "fmt"

// Position é a posição planar de um landmark (X/Y do mundo).
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Vec2 é uma posição em espaço de tela (pixels).
type Vec2 struct {
	X float64
	Y float64
}

// Vec3 é um vetor no espaço do mundo. Z é a altura.
type Vec3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Add soma dois vetores.
func (v Vec3) Add(o Vec3) Vec3 {
	return Vec3{X: v.X + o.X, Y: v.Y + o.Y, Z: v.Z + o.Z}
}

// String retorna a representação em string do vetor.
func (v Vec3) String() string {
	return fmt.Sprintf("(%.1f, %.1f, %.1f)", v.X, v.Y, v.Z)
}

// Rotator é a orientação da câmera em graus.
type Rotator struct {
	Pitch float64
	Yaw   float64
	Roll  float64
}

// EntityRef é uma referência fraca a uma entidade externa (não pertence ao registro).
type EntityRef struct {
	ID uint64
}

// Handle é o identificador opaco de uma entidade criada pelo spawn em lote.
type Handle uint64

// NoHandle indica que o landmark ainda não participou do spawn em lote.
const NoHandle Handle = 0

// Record é um landmark registrado.
type Record struct {
	ID           string
	DisplayName  string
	Type         string
	Position     Position
	HeightMin    float64
	HeightMax    float64
	VisualOffset Vec3
	Value        int32 // 0 = sem selo numérico

	// LinkedEntity, se presente e válida, substitui Position na consulta.
	LinkedEntity *EntityRef
	// ExternalHandle é preenchido pelo coordenador de spawn (apenas runtime).
	ExternalHandle Handle
}

// VisibleInHeight verifica se a altura da câmera está na faixa do landmark.
func (r *Record) VisibleInHeight(cameraZ float64) bool {
	return cameraZ >= r.HeightMin && cameraZ <= r.HeightMax
}

// Anchor retorna a posição armazenada no espaço 3D (Z = 0).
func (r *Record) Anchor() Vec3 {
	return Vec3{X: r.Position.X, Y: r.Position.Y}
}

// Projector é a primitiva de projeção mundo -> tela fornecida pela câmera.
// Deve retornar false para pontos atrás da câmera ou fora do frustum.
type Projector interface {
	ProjectToScreen(world Vec3) (Vec2, bool)
}

// ProjectorFunc adapta uma função para Projector.
type ProjectorFunc func(world Vec3) (Vec2, bool)

// ProjectToScreen implementa Projector.
func (f ProjectorFunc) ProjectToScreen(world Vec3) (Vec2, bool) {
	return f(world)
}

// EntityResolver é fornecido pelo host para resolver entidades vinculadas.
type EntityResolver interface {
	IsValid(ref EntityRef) bool
	PositionOf(ref EntityRef) Vec3
}
