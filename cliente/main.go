package main

import (
	"flag"
	"log"
	"os"
	"runtime"

	"LandmarkVision/cliente/internal/app"
	"LandmarkVision/shared/config"
)

func main() {
	// Raylib/OpenGL exige rodar na thread principal do SO
	runtime.LockOSThread()

	// Flags de linha de comando
	crowdURL := flag.String("crowd", "", "URL do simulador de multidão (padrão: ws://127.0.0.1:8090/ws)")
	world := flag.String("world", "", "Nome do mundo (define o arquivo <mundo>_Landmarks.json)")
	mapFile := flag.String("file", "", "Arquivo de landmarks (sobrescreve -world)")
	fullscreen := flag.Bool("fullscreen", false, "Iniciar em tela cheia")
	debug := flag.Bool("debug", false, "Mostrar informações de debug")
	width := flag.Int("width", 0, "Largura da janela")
	height := flag.Int("height", 0, "Altura da janela")
	flag.Parse()

	// Configurar Log em Arquivo
	f, err := os.OpenFile("debug_lv.log", os.O_RDWR|os.O_CREATE|os.O_APPEND, 0666)
	if err == nil {
		log.SetOutput(f)
		log.Println("--- INICIANDO LANDMARKVISION ---")
	}

	log.SetFlags(log.Ltime | log.Lshortfile)
	log.Println("╔══════════════════════════════════════╗")
	log.Println("║       LandmarkVision v0.1.0          ║")
	log.Println("╚══════════════════════════════════════╝")

	// Carregar configurações
	cfg := config.Load()

	// Aplicar flags de linha de comando (sobrescrevem o config salvo)
	if *crowdURL != "" {
		cfg.CrowdServerURL = *crowdURL
	}
	if *world != "" {
		cfg.WorldName = *world
	}
	if *mapFile != "" {
		cfg.MapFile = *mapFile
	}
	if *fullscreen {
		cfg.Fullscreen = true
	}
	if *debug {
		cfg.ShowDebugInfo = true
	}
	if *width > 0 {
		cfg.WindowWidth = int32(*width)
	}
	if *height > 0 {
		cfg.WindowHeight = int32(*height)
	}

	application := app.New(cfg)
	application.Run()
}
