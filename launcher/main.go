package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"time"
)

// binary resolve o caminho de um executável ao lado do launcher.
func binary(dir, name, goos string) string {
	if goos == "windows" {
		name += ".exe"
	}
	return filepath.Join(dir, name)
}

// start inicia um processo com o diretório de trabalho na sua pasta.
func start(label, path string, args ...string) (*exec.Cmd, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolver caminho de %s: %w", label, err)
	}
	cmd := exec.Command(abs, args...)
	cmd.Dir = filepath.Dir(abs)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("iniciar %s (%s): %w", label, abs, err)
	}
	return cmd, nil
}

func main() {
	withEditor := flag.Bool("editor", false, "Também iniciar o editor HTTP")
	world := flag.String("world", "", "Nome do mundo repassado ao cliente")
	flag.Parse()

	fmt.Println("╔══════════════════════════════════════╗")
	fmt.Println("║      LandmarkVision Launcher         ║")
	fmt.Println("╚══════════════════════════════════════╝")

	goos := runtime.GOOS

	fmt.Println("[1/3] Iniciando Servidor de multidão...")
	server, err := start("servidor", binary("servidor", "server", goos))
	if err != nil {
		log.Fatalf("Erro ao iniciar servidor: %v", err)
	}
	defer server.Process.Kill()

	if *withEditor {
		fmt.Println("[2/3] Iniciando Editor...")
		editor, err := start("editor", binary("editor", "editor", goos))
		if err != nil {
			log.Printf("Aviso: editor não iniciado: %v", err)
		} else {
			defer editor.Process.Kill()
		}
	} else {
		fmt.Println("[2/3] Editor desabilitado (-editor para habilitar)")
	}

	// Aguardar o servidor abrir a porta
	time.Sleep(1 * time.Second)

	fmt.Println("[3/3] Abrindo Cliente...")
	var clientArgs []string
	if *world != "" {
		clientArgs = append(clientArgs, "-world", *world)
	}
	client, err := start("cliente", binary("cliente", "client", goos), clientArgs...)
	if err != nil {
		log.Printf("ERRO CRÍTICO: %v", err)
		return
	}

	fmt.Println("\nSucesso! LandmarkVision foi iniciado.")
	if err := client.Wait(); err != nil {
		log.Printf("Cliente encerrou com erro: %v", err)
	}
	fmt.Println("Cliente fechado, encerrando serviços...")
}
