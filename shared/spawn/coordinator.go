// Package spawn coordena o spawn em lote de agentes externos para os
// landmarks carregados, agrupando por tipo.
package spawn

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"

	"LandmarkVision/shared/config"
	"LandmarkVision/shared/landmark"
)

// Spawner é o serviço externo de spawn em lote.
// Deve retornar um handle por posição, na mesma ordem.
type Spawner interface {
	SpawnMany(ctx context.Context, template string, positions []landmark.Vec3) ([]landmark.Handle, error)
}

// ErrHandleCount indica que o serviço devolveu um número de handles diferente do pedido.
var ErrHandleCount = errors.New("quantidade de handles diferente do pedido")

// TypeConfig associa um tipo de landmark ao template de agente.
type TypeConfig struct {
	TypeName    string
	Template    string
	CommandGrid string
}

// GroupResult é o resultado do spawn de um tipo.
type GroupResult struct {
	Type      string
	Template  string
	Requested int
	Spawned   int
	Err       error
}

// Report resume uma execução do coordenador.
type Report struct {
	Groups  []GroupResult
	Skipped int // Registros que já tinham handle
}

// Spawned retorna o total de handles gravados.
func (r Report) Spawned() int {
	total := 0
	for _, g := range r.Groups {
		total += g.Spawned
	}
	return total
}

// Coordinator executa um spawn por tipo e mantém os mapas auxiliares
// handle -> tipo e id -> handle.
type Coordinator struct {
	spawner Spawner
	types   map[string]TypeConfig // chave em minúsculas

	mu         sync.RWMutex
	handleType map[landmark.Handle]string
	idHandle   map[string]landmark.Handle
}

// NewCoordinator cria o coordenador a partir dos tipos configurados.
func NewCoordinator(spawner Spawner, types []TypeConfig) *Coordinator {
	c := &Coordinator{
		spawner:    spawner,
		types:      make(map[string]TypeConfig, len(types)),
		handleType: make(map[landmark.Handle]string),
		idHandle:   make(map[string]landmark.Handle),
	}
	for _, t := range types {
		c.types[strings.ToLower(t.TypeName)] = t
	}
	return c
}

// TypesFromConfig converte os níveis de cidade da configuração.
func TypesFromConfig(cfg *config.Config) []TypeConfig {
	out := make([]TypeConfig, 0, len(cfg.CityLevels))
	for _, lvl := range cfg.CityLevels {
		out = append(out, TypeConfig{
			TypeName:    lvl.TypeName,
			Template:    lvl.Template,
			CommandGrid: lvl.CommandGrid,
		})
	}
	return out
}

type group struct {
	typeName  string
	ids       []string
	positions []landmark.Vec3
}

// Run agrupa os registros do mundo por tipo (em ordem de registro) e chama
// o Spawner uma vez por tipo com template configurado. A falha de um grupo
// não impede os outros; os erros são reunidos no retorno.
func (c *Coordinator) Run(ctx context.Context, w *landmark.World) (Report, error) {
	var report Report

	groups := make(map[string]*group)
	var order []string
	for _, rec := range w.All() {
		if rec.ExternalHandle != landmark.NoHandle {
			report.Skipped++
			continue
		}
		key := strings.ToLower(rec.Type)
		cfg, ok := c.types[key]
		if !ok || cfg.Template == "" {
			continue
		}
		g, ok := groups[key]
		if !ok {
			g = &group{typeName: cfg.TypeName}
			groups[key] = g
			order = append(order, key)
		}
		g.ids = append(g.ids, rec.ID)
		g.positions = append(g.positions, rec.Anchor())
	}

	var errs []error
	for _, key := range order {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}
		res := c.spawnGroup(ctx, w, groups[key])
		if res.Err != nil {
			errs = append(errs, res.Err)
		}
		report.Groups = append(report.Groups, res)
	}

	log.Printf("[Spawn] %d grupos, %d handles gravados, %d ignorados",
		len(report.Groups), report.Spawned(), report.Skipped)
	return report, errors.Join(errs...)
}

func (c *Coordinator) spawnGroup(ctx context.Context, w *landmark.World, g *group) GroupResult {
	cfg := c.types[strings.ToLower(g.typeName)]
	res := GroupResult{Type: g.typeName, Template: cfg.Template, Requested: len(g.ids)}

	handles, err := c.spawner.SpawnMany(ctx, cfg.Template, g.positions)
	if err != nil {
		res.Err = fmt.Errorf("spawn do tipo %s: %w", g.typeName, err)
		log.Printf("[Spawn] ERRO: %v", res.Err)
		return res
	}
	if len(handles) != len(g.ids) {
		res.Err = fmt.Errorf("spawn do tipo %s: %w (pedido %d, recebido %d)",
			g.typeName, ErrHandleCount, len(g.ids), len(handles))
		log.Printf("[Spawn] ERRO: %v", res.Err)
		return res
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	for i, h := range handles {
		if !w.SetExternalHandle(g.ids[i], h) {
			// Removido durante o spawn
			continue
		}
		c.handleType[h] = g.typeName
		c.idHandle[g.ids[i]] = h
		res.Spawned++
	}
	return res
}

// FindTypeByHandle retorna o tipo do landmark que originou o handle.
func (c *Coordinator) FindTypeByHandle(h landmark.Handle) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	t, ok := c.handleType[h]
	return t, ok
}

// HandleOf retorna o handle gravado para um landmark.
func (c *Coordinator) HandleOf(id string) (landmark.Handle, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	h, ok := c.idHandle[id]
	return h, ok
}

// CommandGrid retorna o painel de comandos do tipo (sem diferenciar maiúsculas).
func (c *Coordinator) CommandGrid(typeName string) (string, bool) {
	cfg, ok := c.types[strings.ToLower(typeName)]
	if !ok || cfg.CommandGrid == "" {
		return "", false
	}
	return cfg.CommandGrid, true
}

// Template retorna o template de agente do tipo.
func (c *Coordinator) Template(typeName string) (string, bool) {
	cfg, ok := c.types[strings.ToLower(typeName)]
	if !ok || cfg.Template == "" {
		return "", false
	}
	return cfg.Template, true
}
