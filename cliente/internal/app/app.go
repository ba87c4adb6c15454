package app

import (
	"context"
	"log"
	"sync"

	"LandmarkVision/cliente/internal/camera"
	sharedcam "LandmarkVision/shared/camera"
	"LandmarkVision/shared/config"
	"LandmarkVision/shared/crowd"
	"LandmarkVision/shared/landmark"
	"LandmarkVision/shared/spawn"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// AppState representa os estados possíveis da aplicação.
type AppState int

const (
	StateLoading AppState = iota // Carregando landmarks
	StateViewing                 // Visualizando o mapa
	StatePaused                  // Pausado
)

// App é a aplicação principal do LandmarkVision.
type App struct {
	Config *config.Config
	State  AppState

	// Controlador de Câmera
	Cam       *camera.CameraController
	projector *sharedcam.Perspective

	// Landmarks
	world    *landmark.World
	fileName string
	visible  landmark.Visible

	// Multidão (spawn em lote)
	crowdClient *crowd.Client
	coordinator *spawn.Coordinator
	cancel      context.CancelFunc

	// Informações de debug
	frameCount int
	recomputed bool

	statusMu   sync.Mutex
	crowdState string

	LoadingStatus string
	quit          bool
}

// New cria uma nova instância da aplicação.
func New(cfg *config.Config) *App {
	return &App{
		Config:        cfg,
		State:         StateLoading,
		LoadingStatus: "Carregando landmarks...",
		crowdState:    "Offline",
	}
}

// Run inicia o loop principal da aplicação.
func (a *App) Run() {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[PANIC] Erro fatal recuperado: %v", r)
			panic(r)
		}
	}()

	// Inicializar janela raylib
	rl.SetConfigFlags(rl.FlagMsaa4xHint | rl.FlagWindowResizable)
	rl.InitWindow(a.Config.WindowWidth, a.Config.WindowHeight, a.Config.WindowTitle)
	rl.SetTraceLogLevel(rl.LogWarning) // Reduz ruído no terminal

	if a.Config.Fullscreen {
		rl.ToggleFullscreen()
	}

	rl.SetTargetFPS(a.Config.TargetFPS)
	rl.SetExitKey(0) // ESC abre o menu de pausa

	a.Cam = camera.New(a.Config.MinAltitude, a.Config.MaxAltitude)
	a.projector = sharedcam.NewPerspective(a.Config.FOV,
		float64(rl.GetScreenWidth()), float64(rl.GetScreenHeight()))

	log.Println("[App] Janela inicializada com sucesso")
	log.Printf("[App] Resolução: %dx%d", a.Config.WindowWidth, a.Config.WindowHeight)

	a.setupWorld()
	a.State = StateViewing

	a.crowdClient = crowd.NewClient(a.Config.CrowdServerURL)
	a.coordinator = spawn.NewCoordinator(a.crowdClient, spawn.TypesFromConfig(a.Config))

	ctx, cancel := context.WithCancel(context.Background())
	a.cancel = cancel
	go a.connectCrowd(ctx)

	// Loop principal
	for !rl.WindowShouldClose() && !a.quit {
		a.update()
		a.draw()
	}

	a.shutdown()
	rl.CloseWindow()
}

// update atualiza a lógica a cada frame.
func (a *App) update() {
	a.frameCount++

	switch a.State {
	case StateViewing:
		a.updateCamera()
		a.updateInput()
		a.updateVisibility()
	case StatePaused:
		a.updateInput() // Permite detectar ESC para despausar
	}
}

// shutdown realiza a limpeza de recursos.
func (a *App) shutdown() {
	log.Println("[App] Finalizando aplicação...")

	if a.cancel != nil {
		a.cancel()
	}
	if a.crowdClient.IsConnected() {
		ctx, cancel := context.WithTimeout(context.Background(), crowdTimeout)
		a.despawn(ctx, spawnedHandles(a.world))
		cancel()
	}
	a.crowdClient.Close()
	a.world.Teardown()

	if err := a.Config.Save(); err != nil {
		log.Printf("[App] Erro ao salvar configurações: %v", err)
	}
}
