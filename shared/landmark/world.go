package landmark

import (
	"log"
	"sync"

	"LandmarkVision/shared/config"
	"LandmarkVision/shared/util"
)

// Settings reúne a configuração do mundo de landmarks.
type Settings struct {
	SpatialIndexing bool
	CellSize        float64
	Resolver        ResolverSettings
	Files           FileOptions
	Policy          ScalePolicy // nil = constante 1.0
}

// SettingsFromConfig monta Settings a partir da configuração global.
func SettingsFromConfig(cfg *config.Config) Settings {
	defaults := make(map[string]TypeDefaults, len(cfg.CityLevels))
	for _, lvl := range cfg.CityLevels {
		defaults[lvl.TypeName] = TypeDefaults{
			Value:        lvl.DefaultValue,
			LabelZOffset: cfg.CityLabelZOffset,
		}
	}

	var policy ScalePolicy
	if len(cfg.ScaleCurve) > 0 || len(cfg.AlphaCurve) > 0 {
		policy = CurvePolicy(toCurve(cfg.ScaleCurve), toCurve(cfg.AlphaCurve), cfg.MinAltitude, cfg.MaxAltitude)
	}

	return Settings{
		SpatialIndexing: cfg.SpatialIndexing,
		CellSize:        cfg.CellSize,
		Resolver: ResolverSettings{
			MaxSearchRadius:   cfg.MaxSearchRadius,
			FootprintFactor:   cfg.FootprintFactor,
			MoveToleranceSq:   cfg.MoveToleranceSq,
			RotationTolerance: cfg.RotationTolerance,
		},
		Files: FileOptions{
			Dir:      cfg.MapDataDir,
			SwapAxes: cfg.SwapImportAxes,
			Defaults: defaults,
		},
		Policy: policy,
	}
}

func toCurve(keys []config.CurveKey) Curve {
	out := make([]CurveKey, 0, len(keys))
	for _, k := range keys {
		out = append(out, CurveKey{Time: k.Time, Value: k.Value})
	}
	return NewCurve(out...)
}

// commandKind identifica um comando enfileirado por outra goroutine.
type commandKind uint8

const (
	cmdRegister commandKind = iota
	cmdUpdate
	cmdUnregister
)

type command struct {
	kind commandKind
	id   string
	rec  Record
}

// World é o estado de landmarks de uma sessão: registro, índice e resolvedor.
// Criado explicitamente pelo dono da sessão (sem singleton global).
// Todas as operações passam pelo mesmo mutex, então uma atualização de câmera
// nunca intercala com uma mutação do registro.
type World struct {
	mu       sync.Mutex
	reg      *Registry
	resolver *Resolver
	files    *FileStore
	inbox    *util.ThreadSafeQueue[command]
	ready    bool
}

// NewWorld cria o mundo e já o inicializa.
func NewWorld(s Settings) *World {
	var grid *Grid
	if s.SpatialIndexing {
		grid = NewGrid(s.CellSize)
	}
	reg := NewRegistry(grid)
	resolver := NewResolver(reg, s.Resolver)
	resolver.SetPolicy(s.Policy)

	w := &World{
		reg:      reg,
		resolver: resolver,
		files:    NewFileStore(s.Files),
		inbox:    util.NewThreadSafeQueue[command](),
	}
	w.Init()
	return w
}

// Init marca o mundo como pronto para receber produtores.
func (w *World) Init() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.ready = true
}

// Teardown descarta todos os landmarks e comandos pendentes.
func (w *World) Teardown() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.inbox.Drain()
	w.reg.UnregisterAll()
	w.resolver.Invalidate()
	w.ready = false
}

// Ready indica se o mundo está entre Init e Teardown.
func (w *World) Ready() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.ready
}

// SetProjector define a primitiva de projeção da câmera.
func (w *World) SetProjector(p Projector) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.resolver.SetProjector(p)
}

// SetEntityResolver define o resolvedor de entidades vinculadas.
func (w *World) SetEntityResolver(e EntityResolver) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.reg.SetEntityResolver(e)
	w.resolver.SetEntityResolver(e)
}

// SetPolicy troca a política de escala/alpha.
func (w *World) SetPolicy(p ScalePolicy) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.resolver.SetPolicy(p)
}

// Register registra (ou faz merge de) um landmark e retorna o id efetivo.
func (w *World) Register(rec Record) string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.reg.Register(rec)
}

// Update substitui um landmark existente. Id desconhecido é ignorado.
func (w *World) Update(id string, rec Record) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.reg.Update(id, rec)
}

// Unregister remove um landmark. Idempotente.
func (w *World) Unregister(id string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.reg.Unregister(id)
}

// UnregisterAll remove todos os landmarks.
func (w *World) UnregisterAll() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.reg.UnregisterAll()
}

// PostRegister enfileira um registro vindo de outra goroutine.
// Aplicado no início da próxima UpdateCameraState (ou em FlushPending).
func (w *World) PostRegister(rec Record) {
	w.inbox.Push(command{kind: cmdRegister, rec: rec})
}

// PostUpdate enfileira uma atualização vinda de outra goroutine.
func (w *World) PostUpdate(id string, rec Record) {
	w.inbox.Push(command{kind: cmdUpdate, id: id, rec: rec})
}

// PostUnregister enfileira uma remoção vinda de outra goroutine.
func (w *World) PostUnregister(id string) {
	w.inbox.Push(command{kind: cmdUnregister, id: id})
}

// FlushPending aplica os comandos enfileirados e retorna quantos foram aplicados.
func (w *World) FlushPending() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.applyPending()
}

func (w *World) applyPending() int {
	cmds := w.inbox.Drain()
	for _, c := range cmds {
		switch c.kind {
		case cmdRegister:
			w.reg.Register(c.rec)
		case cmdUpdate:
			w.reg.Update(c.id, c.rec)
		case cmdUnregister:
			w.reg.Unregister(c.id)
		}
	}
	return len(cmds)
}

// SetExternalHandle grava o handle do spawn em lote.
func (w *World) SetExternalHandle(id string, h Handle) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.reg.SetExternalHandle(id, h)
}

// Get retorna uma cópia do landmark.
func (w *World) Get(id string) (Record, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.reg.Get(id)
}

// Len retorna o número de landmarks registrados.
func (w *World) Len() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.reg.Len()
}

// All retorna cópias de todos os landmarks em ordem de registro.
func (w *World) All() []Record {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.reg.All()
}

// UpdateCameraState aplica comandos pendentes e recalcula a visibilidade.
// Retorna false quando o portão de mudança manteve o cache.
func (w *World) UpdateCameraState(pos Vec3, rot Rotator) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.applyPending()
	return w.resolver.UpdateCameraState(pos, rot)
}

// Resolve aplica a pose no projetor (via apply), atualiza a câmera e
// retorna o conjunto visível, tudo sob o mesmo lock. Usado quando vários
// chamadores compartilham o mesmo projetor.
func (w *World) Resolve(pos Vec3, rot Rotator, apply func(Vec3, Rotator)) Visible {
	w.mu.Lock()
	defer w.mu.Unlock()
	if apply != nil {
		apply(pos, rot)
	}
	w.applyPending()
	w.resolver.UpdateCameraState(pos, rot)
	return w.resolver.VisibleLandmarks()
}

// VisibleLandmarks retorna o último conjunto visível para desenho.
func (w *World) VisibleLandmarks() Visible {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.resolver.VisibleLandmarks()
}

// Invalidate força a próxima atualização de câmera a recomputar.
func (w *World) Invalidate() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.resolver.Invalidate()
}

// Recomputes retorna o contador de recomputações do resolvedor.
func (w *World) Recomputes() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.resolver.Recomputes()
}

// SearchRadius expõe o raio de busca (em células) para uma altura de câmera.
func (w *World) SearchRadius(cameraZ float64) int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.resolver.SearchRadius(cameraZ)
}

// LoadFromFile carrega um arquivo do diretório de dados do mapa e registra
// cada landmark. Em falha o registro não é alterado.
func (w *World) LoadFromFile(name string) error {
	records, err := w.files.Load(name)
	if err != nil {
		log.Printf("[Persistence] ERRO ao carregar %s: %v", name, err)
		return err
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	for _, rec := range records {
		w.reg.Register(rec)
	}
	w.resolver.Invalidate()
	log.Printf("[Persistence] %d landmarks carregados de %s", len(records), w.files.Path(name))
	return nil
}

// SaveToFile grava a lista informada no diretório de dados do mapa.
func (w *World) SaveToFile(name string, records []Record) error {
	if err := w.files.Save(name, records); err != nil {
		log.Printf("[Persistence] ERRO ao salvar %s: %v", name, err)
		return err
	}
	log.Printf("[Persistence] %d landmarks salvos em %s", len(records), w.files.Path(name))
	return nil
}

// Files expõe o adaptador de arquivos (resolução de nomes).
func (w *World) Files() *FileStore {
	return w.files
}
