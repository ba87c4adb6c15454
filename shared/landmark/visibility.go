package landmark

import (
	"math"

	"LandmarkVision/shared/util"
)

// ResolverSettings controla o raio de busca e o portão de mudança da câmera.
type ResolverSettings struct {
	MaxSearchRadius   int     // Em células; limita o custo em altitudes altas
	FootprintFactor   float64 // Raio no chão por unidade de altura da câmera
	MoveToleranceSq   float64 // Distância quadrada abaixo da qual a câmera "não andou"
	RotationTolerance float64 // Graus
}

// Visible é o conjunto visível materializado para desenho.
// Os quatro slices são sempre alinhados por índice.
type Visible struct {
	Records         []Record
	ScreenPositions []Vec2
	Scales          []float64
	Alphas          []float64
}

// Len retorna o número de landmarks visíveis.
func (v Visible) Len() int {
	return len(v.Records)
}

// Resolver calcula, por atualização de câmera, quais landmarks estão
// visíveis e onde projetam na tela.
type Resolver struct {
	reg       *Registry
	projector Projector
	entities  EntityResolver
	policy    ScalePolicy
	settings  ResolverSettings

	hasBaseline bool
	lastPos     Vec3
	lastRot     Rotator
	recomputes  int

	// Cache visível (substituído por inteiro a cada recomputação)
	ids    []string
	screen []Vec2
	scales []float64
	alphas []float64
}

// NewResolver cria o resolvedor sobre um registro.
func NewResolver(reg *Registry, settings ResolverSettings) *Resolver {
	return &Resolver{
		reg:      reg,
		policy:   ConstantPolicy(1.0, 1.0),
		settings: settings,
	}
}

// SetProjector define a primitiva de projeção.
func (v *Resolver) SetProjector(p Projector) {
	v.projector = p
}

// SetEntityResolver define o resolvedor de entidades vinculadas.
func (v *Resolver) SetEntityResolver(e EntityResolver) {
	v.entities = e
}

// SetPolicy troca a política de escala/alpha. nil volta ao padrão constante.
func (v *Resolver) SetPolicy(p ScalePolicy) {
	if p == nil {
		p = ConstantPolicy(1.0, 1.0)
	}
	v.policy = p
}

// Invalidate força a próxima atualização de câmera a recomputar.
func (v *Resolver) Invalidate() {
	v.hasBaseline = false
}

// Recomputes retorna quantas vezes o conjunto visível foi recalculado.
func (v *Resolver) Recomputes() int {
	return v.recomputes
}

// SearchRadius retorna o raio de busca em células para a altura da câmera.
func (v *Resolver) SearchRadius(cameraZ float64) int {
	grid := v.reg.Grid()
	if grid == nil {
		return 0
	}
	height := math.Max(cameraZ, 0)
	radius := int(math.Ceil(height * v.settings.FootprintFactor / grid.CellSize()))
	if v.settings.MaxSearchRadius > 0 && radius > v.settings.MaxSearchRadius {
		radius = v.settings.MaxSearchRadius
	}
	return radius
}

// cameraMoved aplica o portão de mudança (posição e rotação).
func (v *Resolver) cameraMoved(pos Vec3, rot Rotator) bool {
	if !v.hasBaseline {
		return true
	}
	tol := v.settings.MoveToleranceSq
	if util.DistSqPlanar(pos.X, pos.Y, v.lastPos.X, v.lastPos.Y) >= tol {
		return true
	}
	dz := pos.Z - v.lastPos.Z
	if dz*dz >= tol {
		return true
	}
	rt := v.settings.RotationTolerance
	return util.AngleDelta(rot.Pitch, v.lastRot.Pitch) >= rt ||
		util.AngleDelta(rot.Yaw, v.lastRot.Yaw) >= rt ||
		util.AngleDelta(rot.Roll, v.lastRot.Roll) >= rt
}

// UpdateCameraState recalcula o conjunto visível se a câmera mudou.
// Retorna false quando o portão manteve o cache anterior.
func (v *Resolver) UpdateCameraState(pos Vec3, rot Rotator) bool {
	if !v.cameraMoved(pos, rot) {
		return false
	}

	v.hasBaseline = true
	v.lastPos = pos
	v.lastRot = rot
	v.recomputes++

	v.ids = v.ids[:0]
	v.screen = v.screen[:0]
	v.scales = v.scales[:0]
	v.alphas = v.alphas[:0]

	scale, alpha := v.policy(pos.Z)

	grid := v.reg.Grid()
	if grid == nil {
		for rec := range v.reg.records() {
			v.consider(rec, pos.Z, scale, alpha)
		}
		return true
	}

	// Reconstrução preguiçosa (após carga em lote ou primeiro uso)
	if grid.Len() == 0 && v.reg.Len() > 0 {
		grid.Rebuild(v.reg.records())
	}

	center := Position{X: pos.X, Y: pos.Y}
	for id := range grid.Query(center, v.SearchRadius(pos.Z)) {
		rec, ok := v.reg.lookup(id)
		if !ok {
			continue
		}
		v.consider(rec, pos.Z, scale, alpha)
	}
	return true
}

// consider aplica filtro de altura, resolve a âncora e projeta.
func (v *Resolver) consider(rec *Record, cameraZ, scale, alpha float64) {
	if !rec.VisibleInHeight(cameraZ) {
		return
	}
	if v.projector == nil {
		return
	}

	screen, onScreen := v.projector.ProjectToScreen(v.anchorOf(rec))
	if !onScreen {
		return
	}

	v.ids = append(v.ids, rec.ID)
	v.screen = append(v.screen, screen)
	v.scales = append(v.scales, scale)
	v.alphas = append(v.alphas, alpha)
}

// anchorOf usa a posição viva da entidade vinculada quando válida;
// caso contrário, a posição armazenada mais o offset visual.
func (v *Resolver) anchorOf(rec *Record) Vec3 {
	if rec.LinkedEntity != nil && v.entities != nil && v.entities.IsValid(*rec.LinkedEntity) {
		return v.entities.PositionOf(*rec.LinkedEntity)
	}
	return rec.Anchor().Add(rec.VisualOffset)
}

// VisibleLandmarks retorna cópias do cache. Os registros são resolvidos por id
// no momento da chamada; ids que sumiram são pulados em todos os slices.
func (v *Resolver) VisibleLandmarks() Visible {
	out := Visible{
		Records:         make([]Record, 0, len(v.ids)),
		ScreenPositions: make([]Vec2, 0, len(v.ids)),
		Scales:          make([]float64, 0, len(v.ids)),
		Alphas:          make([]float64, 0, len(v.ids)),
	}
	for i, id := range v.ids {
		rec, ok := v.reg.Get(id)
		if !ok {
			continue
		}
		out.Records = append(out.Records, rec)
		out.ScreenPositions = append(out.ScreenPositions, v.screen[i])
		out.Scales = append(out.Scales, v.scales[i])
		out.Alphas = append(out.Alphas, v.alphas[i])
	}
	return out
}

// CachedIDs retorna uma cópia dos ids do último cálculo.
func (v *Resolver) CachedIDs() []string {
	out := make([]string, len(v.ids))
	copy(out, v.ids)
	return out
}
