package main

import (
	"io"
	"log"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"LandmarkVision/shared/crowd"
)

func main() {
	// Garante que o working directory é o mesmo diretório do executável,
	// para que caminhos relativos (tmp/) funcionem corretamente.
	if exePath, err := os.Executable(); err == nil {
		os.Chdir(filepath.Dir(exePath))
	}

	log.SetFlags(log.Ltime | log.Lshortfile)

	// Configurar Log em Arquivo para depuração de crash
	if err := os.MkdirAll("tmp", 0755); err == nil {
		logFile, err := os.OpenFile("tmp/server.log", os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err == nil {
			log.SetOutput(io.MultiWriter(os.Stdout, logFile))
		}
	}
	log.Println("╔══════════════════════════════════════╗")
	log.Println("║    LandmarkVision CROWD v0.1.0       ║")
	log.Println("╚══════════════════════════════════════╝")

	sim := crowd.NewSimulation()
	server := crowd.NewServer(sim)

	wanderer := NewWanderer(sim, 100*time.Millisecond, 200.0)
	wanderer.Start()
	defer wanderer.Stop()

	// Status periódico
	go func() {
		for {
			func() {
				defer func() {
					if r := recover(); r != nil {
						log.Printf("[Status-Loop] Recuperado de pânico: %v", r)
					}
				}()
				log.Printf("[Status] %d agentes, %d clientes", sim.Len(), server.Clients())
			}()
			time.Sleep(30 * time.Second)
		}
	}()

	http.Handle("/ws", server)

	port := "8090"
	if p := os.Getenv("PORT"); p != "" {
		port = p
	}

	// Iniciar Servidor WebSocket com verificação de porta
	addr := "127.0.0.1:" + port
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		log.Printf("ERRO CRÍTICO: Não foi possível abrir a porta %s. Há outra instância rodando?", port)
		log.Fatalf("Erro ao iniciar servidor: %v", err)
	}

	log.Printf("Servidor de multidão iniciado em %s", addr)
	if err := http.Serve(ln, nil); err != nil {
		log.Fatalf("Erro fatal no servidor HTTP: %v", err)
	}
}
