package app

import (
	"log"

	"LandmarkVision/shared/landmark"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// updateCamera atualiza a câmera baseado no input.
func (a *App) updateCamera() {
	dt := float64(rl.GetFrameTime())

	// Processa input (WASD, Mouse, Zoom)
	a.Cam.HandleInput(dt)

	// Atualiza interpolação da câmera
	a.Cam.Update(dt)

	// Voltar para a origem
	if rl.IsKeyPressed(rl.KeyHome) {
		a.Cam.SetTarget(landmark.Vec3{Z: a.Cam.CurrentPos.Z()})
		log.Println("[Camera] Voltando para a origem")
	}
}

// updateInput processa entradas de teclado gerais.
func (a *App) updateInput() {
	if rl.IsKeyPressed(rl.KeyF3) {
		a.Config.ShowDebugInfo = !a.Config.ShowDebugInfo
	}

	if rl.IsKeyPressed(rl.KeyF11) {
		rl.ToggleFullscreen()
	}

	if a.State == StateViewing {
		if rl.IsKeyPressed(rl.KeyR) {
			log.Printf("[App] Recarregando %s", a.fileName)
			a.reloadFromFile()
		}
		if rl.IsKeyPressed(rl.KeyF5) {
			if err := a.world.SaveToFile(a.fileName, a.world.All()); err != nil {
				a.LoadingStatus = "Erro ao salvar landmarks"
			}
		}
	}

	// ESC: Alternar Pausa/Menu
	if rl.IsKeyPressed(rl.KeyEscape) {
		if a.State == StateViewing {
			a.State = StatePaused
			log.Println("[App] Pausado")
		} else if a.State == StatePaused {
			a.State = StateViewing
			log.Println("[App] Retomando")
		}
	}
}
