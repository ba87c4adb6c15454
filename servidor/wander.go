package main

import (
	"log"
	"math"
	"time"

	"LandmarkVision/shared/crowd"
	"LandmarkVision/shared/landmark"
)

// Wanderer movimenta os agentes do simulador em pequenos círculos, para que
// landmarks vinculados acompanhem entidades vivas.
type Wanderer struct {
	sim      *crowd.Simulation
	interval time.Duration
	radius   float64
	tick     uint64
	stop     chan struct{}
}

func NewWanderer(sim *crowd.Simulation, interval time.Duration, radius float64) *Wanderer {
	return &Wanderer{
		sim:      sim,
		interval: interval,
		radius:   radius,
		stop:     make(chan struct{}),
	}
}

func (w *Wanderer) Start() {
	go w.loop()
}

func (w *Wanderer) Stop() {
	close(w.stop)
}

func (w *Wanderer) loop() {
	log.Println("[Wander] Iniciando movimentação dos agentes...")
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-w.stop:
			return
		case <-ticker.C:
			func() {
				defer func() {
					if r := recover(); r != nil {
						log.Printf("[Wander] Recuperado de pânico: %v", r)
					}
				}()
				w.Step()
			}()
		}
	}
}

// Step avança um passo. Cada agente tem sua própria fase (pelo handle).
func (w *Wanderer) Step() {
	w.tick++
	t := float64(w.tick)
	w.sim.Nudge(func(h landmark.Handle) landmark.Vec3 {
		return drift(t, float64(h), w.radius)
	})
}

// drift é a derivada discreta de um círculo de raio r: somar os deslocamentos
// de uma volta completa devolve o agente à posição inicial.
func drift(t, phase, r float64) landmark.Vec3 {
	const steps = 64.0
	a0 := 2 * math.Pi * (t - 1 + phase) / steps
	a1 := 2 * math.Pi * (t + phase) / steps
	return landmark.Vec3{
		X: r * (math.Cos(a1) - math.Cos(a0)),
		Y: r * (math.Sin(a1) - math.Sin(a0)),
	}
}
