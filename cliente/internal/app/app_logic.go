package app

import (
	"context"
	"log"

	"LandmarkVision/shared/config"
	"LandmarkVision/shared/landmark"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// newWorld monta o mundo de landmarks e os carrega do arquivo configurado.
// Sem arquivo, emite os produtores de demonstração.
func newWorld(cfg *config.Config, projector landmark.Projector) (*landmark.World, string) {
	world := landmark.NewWorld(landmark.SettingsFromConfig(cfg))
	world.SetProjector(projector)

	fileName := cfg.MapFile
	if fileName == "" {
		fileName = landmark.FileNameForWorld(cfg.WorldName)
	}

	if err := world.LoadFromFile(fileName); err != nil {
		log.Printf("[App] Sem arquivo de landmarks, usando demonstração")
		for _, p := range demoProducers() {
			p.Emit(world)
		}
	}
	return world, fileName
}

// demoProducers gera uma estrada e um punhado de cidades em volta da origem.
func demoProducers() []landmark.LandmarkProducer {
	road := &landmark.PathProducer{
		Name:        "Estrada",
		DisplayName: "Estrada Real",
		Type:        "Road",
		Points: []landmark.Position{
			{X: -20000, Y: 0},
			{X: 0, Y: 5000},
			{X: 20000, Y: 0},
		},
		Spacing:   4000,
		HeightMin: 0,
		HeightMax: 60000,
	}

	cloud := &landmark.CloudProducer{}
	cloud.Import([]landmark.Record{
		{ID: "Capital", DisplayName: "Capital", Type: "City1", HeightMax: landmark.DefaultHeightMax, VisualOffset: landmark.Vec3{Z: 147}, Value: 11},
		{ID: "Porto", DisplayName: "Porto", Type: "City2", Position: landmark.Position{X: 12000, Y: -8000}, HeightMax: 80000, VisualOffset: landmark.Vec3{Z: 147}, Value: 22},
		{ID: "Vila", DisplayName: "Vila", Type: "City3", Position: landmark.Position{X: -9000, Y: 7000}, HeightMax: 30000, VisualOffset: landmark.Vec3{Z: 147}, Value: 33},
	}, false)

	return []landmark.LandmarkProducer{road, cloud}
}

func (a *App) setupWorld() {
	a.world, a.fileName = newWorld(a.Config, a.projector)
	a.LoadingStatus = ""
}

// reloadFromFile descarta o registro atual e recarrega o arquivo.
func (a *App) reloadFromFile() {
	orphans := spawnedHandles(a.world)
	a.world.UnregisterAll()
	a.world.Invalidate()
	if err := a.world.LoadFromFile(a.fileName); err != nil {
		a.LoadingStatus = "Erro ao recarregar landmarks"
		return
	}
	a.LoadingStatus = ""

	if a.crowdClient.IsConnected() {
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), crowdTimeout)
			defer cancel()
			a.despawn(ctx, orphans)
			a.runSpawn(ctx)
		}()
	}
}

// updateVisibility sincroniza o projetor com a câmera e recalcula o
// conjunto visível (o portão de mudança evita trabalho com a câmera parada).
func (a *App) updateVisibility() {
	if rl.IsWindowResized() {
		a.projector.SetViewport(float64(rl.GetScreenWidth()), float64(rl.GetScreenHeight()))
		a.world.Invalidate()
	}

	pos, rot := a.Cam.Pose()
	a.projector.SetPose(pos, rot)
	a.recomputed = a.world.UpdateCameraState(pos, rot)
	if a.recomputed || a.frameCount == 1 {
		a.visible = a.world.VisibleLandmarks()
	}
}
