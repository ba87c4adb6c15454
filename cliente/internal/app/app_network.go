package app

import (
	"context"
	"fmt"
	"log"
	"time"

	"LandmarkVision/shared/crowd"
	"LandmarkVision/shared/landmark"
)

const (
	crowdTimeout    = 5 * time.Second
	refreshInterval = 500 * time.Millisecond
)

// connectCrowd conecta ao simulador de multidão, faz o spawn em lote dos
// landmarks e passa a acompanhar a posição dos agentes.
func (a *App) connectCrowd(ctx context.Context) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[PANIC] Erro em connectCrowd: %v", r)
		}
	}()

	a.setCrowdState("Conectando...")
	if err := a.crowdClient.Connect(ctx); err != nil {
		log.Printf("[Crowd] Erro ao conectar: %v", err)
		a.setCrowdState("Offline")
		return
	}
	log.Println("[Network] Conectado ao simulador de multidão!")

	a.runSpawn(ctx)

	ticker := time.NewTicker(refreshInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			a.refreshEntities(ctx)
		}
	}
}

// runSpawn roda o coordenador e vincula cada landmark ao agente criado.
func (a *App) runSpawn(ctx context.Context) {
	report, err := a.coordinator.Run(ctx, a.world)
	if err != nil {
		log.Printf("[Crowd] Spawn parcial: %v", err)
	}
	linked := linkSpawned(a.world)
	a.setCrowdState(fmt.Sprintf("%d agentes (%d vinculados)", report.Spawned(), linked))
}

// refreshEntities troca o resolvedor de entidades por uma foto nova das
// posições dos agentes.
func (a *App) refreshEntities(ctx context.Context) {
	handles := spawnedHandles(a.world)
	if len(handles) == 0 || !a.crowdClient.IsConnected() {
		return
	}

	reqCtx, cancel := context.WithTimeout(ctx, crowdTimeout)
	defer cancel()
	snap, err := a.crowdClient.Snapshot(reqCtx, handles)
	if err != nil {
		log.Printf("[Crowd] Erro ao consultar agentes: %v", err)
		return
	}
	a.world.SetEntityResolver(snap)
	a.world.Invalidate()
}

// despawn remove agentes do simulador.
func (a *App) despawn(ctx context.Context, handles []landmark.Handle) {
	if len(handles) == 0 {
		return
	}
	n, err := a.crowdClient.Despawn(ctx, handles)
	if err != nil {
		log.Printf("[Crowd] Erro ao remover agentes: %v", err)
		return
	}
	log.Printf("[Crowd] %d agentes removidos", n)
}

func (a *App) setCrowdState(s string) {
	a.statusMu.Lock()
	a.crowdState = s
	a.statusMu.Unlock()
}

func (a *App) crowdStatus() string {
	a.statusMu.Lock()
	defer a.statusMu.Unlock()
	return a.crowdState
}

// spawnedHandles retorna os handles gravados pelo spawn em lote.
func spawnedHandles(w *landmark.World) []landmark.Handle {
	var out []landmark.Handle
	for _, rec := range w.All() {
		if rec.ExternalHandle != landmark.NoHandle {
			out = append(out, rec.ExternalHandle)
		}
	}
	return out
}

// linkSpawned vincula cada landmark com handle ao agente correspondente.
// As atualizações passam pela caixa de entrada do mundo e valem a partir
// da próxima atualização de câmera.
func linkSpawned(w *landmark.World) int {
	n := 0
	for _, rec := range w.All() {
		if rec.ExternalHandle == landmark.NoHandle || rec.LinkedEntity != nil {
			continue
		}
		ref := crowd.RefOf(rec.ExternalHandle)
		rec.LinkedEntity = &ref
		w.PostUpdate(rec.ID, rec)
		n++
	}
	return n
}
