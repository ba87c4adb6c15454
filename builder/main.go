package main

import (
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"strings"
	"time"
)

// Cores para o terminal (ANSI)
const (
	ColorReset  = "\033[0m"
	ColorRed    = "\033[31m"
	ColorGreen  = "\033[32m"
	ColorYellow = "\033[33m"
	ColorCyan   = "\033[36m"
)

// component descreve um binário do projeto.
type component struct {
	Name   string
	Dir    string
	Output string // Sem extensão
	Cgo    bool   // raylib e SQLite exigem CGO
	GUI    bool
}

var components = []component{
	{Name: "SERVIDOR DE MULTIDÃO (Pure Go)", Dir: "servidor", Output: "servidor/server"},
	{Name: "EDITOR (CGO + SQLite)", Dir: "editor", Output: "editor/editor", Cgo: true},
	{Name: "CLIENTE (CGO + raylib)", Dir: "cliente", Output: "cliente/client", Cgo: true, GUI: true},
	{Name: "LAUNCHER (Pure Go)", Dir: "launcher", Output: "LandmarkVision"},
}

func main() {
	fmt.Println(ColorCyan + "╔══════════════════════════════════════╗" + ColorReset)
	fmt.Println(ColorCyan + "║    LandmarkVision Native Builder     ║" + ColorReset)
	fmt.Println(ColorCyan + "╚══════════════════════════════════════╝" + ColorReset)

	start := time.Now()

	setupEnvironment()

	for i, c := range components {
		fmt.Printf(ColorYellow+"\n[%d/%d] Compilando %s..."+ColorReset+"\n", i+1, len(components), c.Name)
		if err := buildComponent(c, runtime.GOOS); err != nil {
			fatal(err)
		}
	}

	fmt.Printf("\n"+ColorCyan+"Build finalizada com sucesso em %v!"+ColorReset+"\n", time.Since(start).Round(time.Second))
	fmt.Println(ColorYellow + "Dica: Execute o 'LandmarkVision' para abrir o visualizador." + ColorReset)
}

func setupEnvironment() {
	fmt.Println(ColorYellow + "\n[0] Configurando ambiente de compilação..." + ColorReset)

	// Adicionar MSYS2 ao PATH se estiver no Windows
	if runtime.GOOS == "windows" {
		msysPath := `C:\msys64\mingw64\bin`
		currentPath := os.Getenv("PATH")
		if !strings.Contains(currentPath, msysPath) {
			os.Setenv("PATH", msysPath+";"+currentPath)
			fmt.Printf("  - PATH atualizado: %s adicionado.\n", msysPath)
		}
		os.Setenv("CC", "gcc")
		fmt.Println("  - Compilador C: gcc (MSYS2)")
	}
}

// outputPath adiciona .exe no Windows.
func outputPath(c component, goos string) string {
	if goos == "windows" {
		return c.Output + ".exe"
	}
	return c.Output
}

// ldflags monta as flags de link. Static e windowsgui só fazem sentido no Windows.
func ldflags(c component, goos string) string {
	flags := []string{"-s", "-w"}
	if goos == "windows" {
		if c.Cgo {
			flags = append(flags, "-extldflags=-static")
		}
		if c.GUI {
			flags = append(flags, "-H=windowsgui")
		}
	}
	return strings.Join(flags, " ")
}

// buildArgs monta a linha de comando do go build.
func buildArgs(c component, goos string) []string {
	return []string{"build", "-ldflags", ldflags(c, goos), "-o", outputPath(c, goos), "./" + c.Dir}
}

func buildComponent(c component, goos string) error {
	cgoValue := "0"
	if c.Cgo {
		cgoValue = "1"
	}

	cmd := exec.Command("go", buildArgs(c, goos)...)
	cmd.Env = append(os.Environ(), "CGO_ENABLED="+cgoValue)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("falha ao compilar %s: %v", c.Name, err)
	}

	fmt.Printf(ColorGreen+"  - %s compilado com sucesso -> %s"+ColorReset+"\n", c.Name, outputPath(c, goos))
	return nil
}

func fatal(err error) {
	fmt.Printf("\n"+ColorRed+"[ERRO FATAL] %v"+ColorReset+"\n", err)
	os.Exit(1)
}
