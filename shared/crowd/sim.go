// Package crowd implementa o simulador de multidão que recebe o spawn em
// lote dos landmarks: uma simulação em processo, o protocolo binário e o
// transporte websocket (servidor e cliente).
package crowd

import (
	"context"
	"errors"
	"sync"

	"LandmarkVision/shared/landmark"
)

// ErrEmptyTemplate indica pedido de spawn sem template.
var ErrEmptyTemplate = errors.New("template de agente vazio")

// Agent é uma entidade viva da simulação.
type Agent struct {
	Handle   landmark.Handle
	Template string
	Position landmark.Vec3
}

// Simulation guarda os agentes em memória. Handles começam em 1
// (0 é landmark.NoHandle) e nunca são reutilizados.
type Simulation struct {
	mu     sync.RWMutex
	next   landmark.Handle
	agents map[landmark.Handle]*Agent
}

// NewSimulation cria uma simulação vazia.
func NewSimulation() *Simulation {
	return &Simulation{
		next:   1,
		agents: make(map[landmark.Handle]*Agent),
	}
}

// SpawnMany cria um agente por posição e retorna os handles na mesma ordem.
func (s *Simulation) SpawnMany(ctx context.Context, template string, positions []landmark.Vec3) ([]landmark.Handle, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if template == "" {
		return nil, ErrEmptyTemplate
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	handles := make([]landmark.Handle, 0, len(positions))
	for _, pos := range positions {
		h := s.next
		s.next++
		s.agents[h] = &Agent{Handle: h, Template: template, Position: pos}
		handles = append(handles, h)
	}
	return handles, nil
}

// Move altera a posição de um agente.
func (s *Simulation) Move(h landmark.Handle, pos landmark.Vec3) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.agents[h]
	if !ok {
		return false
	}
	a.Position = pos
	return true
}

// Despawn remove agentes e retorna quantos existiam.
func (s *Simulation) Despawn(handles ...landmark.Handle) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, h := range handles {
		if _, ok := s.agents[h]; ok {
			delete(s.agents, h)
			n++
		}
	}
	return n
}

// Get retorna uma cópia do agente.
func (s *Simulation) Get(h landmark.Handle) (Agent, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.agents[h]
	if !ok {
		return Agent{}, false
	}
	return *a, true
}

// Len retorna o número de agentes vivos.
func (s *Simulation) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.agents)
}

// Handles retorna os handles vivos (sem ordem).
func (s *Simulation) Handles() []landmark.Handle {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]landmark.Handle, 0, len(s.agents))
	for h := range s.agents {
		out = append(out, h)
	}
	return out
}

// Nudge desloca todos os agentes por delta(h). Usado pelo servidor para
// simular movimento.
func (s *Simulation) Nudge(delta func(h landmark.Handle) landmark.Vec3) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for h, a := range s.agents {
		a.Position = a.Position.Add(delta(h))
	}
}

// RefOf converte um handle em referência de entidade para vínculo.
func RefOf(h landmark.Handle) landmark.EntityRef {
	return landmark.EntityRef{ID: uint64(h)}
}

// IsValid implementa landmark.EntityResolver.
func (s *Simulation) IsValid(ref landmark.EntityRef) bool {
	_, ok := s.Get(landmark.Handle(ref.ID))
	return ok
}

// PositionOf implementa landmark.EntityResolver.
func (s *Simulation) PositionOf(ref landmark.EntityRef) landmark.Vec3 {
	a, _ := s.Get(landmark.Handle(ref.ID))
	return a.Position
}
