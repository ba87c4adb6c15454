package main

import (
	"flag"
	"io"
	"log"
	"os"
	"path/filepath"

	"LandmarkVision/editor/internal/api"
	"LandmarkVision/shared/camera"
	"LandmarkVision/shared/config"
	"LandmarkVision/shared/landmark"
	"LandmarkVision/shared/store"
)

func main() {
	if exePath, err := os.Executable(); err == nil {
		os.Chdir(filepath.Dir(exePath))
	}

	log.SetFlags(log.Ltime | log.Lshortfile)
	if err := os.MkdirAll("tmp", 0755); err == nil {
		logFile, err := os.OpenFile("tmp/editor.log", os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err == nil {
			log.SetOutput(io.MultiWriter(os.Stdout, logFile))
		}
	}

	configPath := flag.String("config", "", "arquivo de configuração (vazio = ao lado do executável)")
	flag.Parse()

	cfg := config.Load()
	if *configPath != "" {
		cfg = config.LoadFrom(*configPath)
	}

	log.Println("╔══════════════════════════════════════╗")
	log.Println("║    LandmarkVision EDITOR v0.1.0      ║")
	log.Println("╚══════════════════════════════════════╝")

	world := landmark.NewWorld(landmark.SettingsFromConfig(cfg))
	defer world.Teardown()

	fileName := cfg.MapFile
	if fileName == "" {
		fileName = landmark.FileNameForWorld(cfg.WorldName)
	}
	if err := world.LoadFromFile(fileName); err != nil {
		log.Printf("[Editor] Começando com registro vazio: %v", err)
	}

	snap, err := store.Open(cfg.SaveDir, cfg.WorldName)
	if err != nil {
		log.Printf("[Editor] Snapshot SQLite desabilitado: %v", err)
		snap = nil
	} else {
		defer snap.Close()
	}

	cam := camera.NewPerspective(cfg.FOV, float64(cfg.WindowWidth), float64(cfg.WindowHeight))
	app := api.NewApp(api.NewHandler(world, fileName, snap, cam))

	addr := cfg.EditorAddr
	if v := os.Getenv("EDITOR_ADDR"); v != "" {
		addr = v
	}
	log.Printf("[Editor] Ouvindo em %s (%d landmarks)", addr, world.Len())
	if err := app.Listen(addr); err != nil {
		log.Fatalf("[Editor] Erro fatal: %v", err)
	}
}
