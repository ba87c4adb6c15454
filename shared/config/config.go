package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
)

// CityLevelConfig é a configuração de cada nível de cidade (City1 ~ City5).
type CityLevelConfig struct {
	// TypeName casa com o campo "type" do JSON (ex: "City1")
	TypeName string `json:"type_name"`
	// Template do agente usado no spawn em lote do simulador de multidão
	Template string `json:"template"`
	// CommandGrid é o layout do painel de comandos associado ao tipo
	CommandGrid string `json:"command_grid"`
	// DefaultValue é o valor numérico aplicado quando o registro vem com 0
	DefaultValue int32 `json:"default_value"`
}

// CurveKey é um ponto de uma curva (tempo -> valor).
type CurveKey struct {
	Time  float64 `json:"time"`
	Value float64 `json:"value"`
}

// Config armazena as configurações do LandmarkVision.
type Config struct {
	// Janela
	WindowWidth  int32  `json:"window_width"`
	WindowHeight int32  `json:"window_height"`
	WindowTitle  string `json:"window_title"`
	Fullscreen   bool   `json:"fullscreen"`
	TargetFPS    int32  `json:"target_fps"`

	// Câmera
	FOV         float64 `json:"fov"`
	CameraSpeed float32 `json:"camera_speed"`
	ZoomSpeed   float32 `json:"zoom_speed"`
	MinAltitude float64 `json:"min_altitude"`
	MaxAltitude float64 `json:"max_altitude"`

	// Dados do mapa
	MapDataDir     string `json:"map_data_dir"`
	MapFile        string `json:"map_file"` // Vazio = derivado do nome do mundo
	WorldName      string `json:"world_name"`
	SaveDir        string `json:"save_dir"`
	SwapImportAxes bool   `json:"swap_import_axes"`

	// Índice espacial
	SpatialIndexing bool    `json:"spatial_indexing"`
	CellSize        float64 `json:"cell_size"`
	MaxSearchRadius int     `json:"max_search_radius"` // Em células
	FootprintFactor float64 `json:"footprint_factor"`  // Raio no chão por unidade de altura

	// Portão de mudança da câmera
	MoveToleranceSq   float64 `json:"move_tolerance_sq"`
	RotationTolerance float64 `json:"rotation_tolerance"` // Graus

	// Escala/Alpha por altitude (vazio = constante 1.0)
	ScaleCurve []CurveKey `json:"scale_curve"`
	AlphaCurve []CurveKey `json:"alpha_curve"`

	// Cidades
	CityLabelZOffset float64           `json:"city_label_z_offset"`
	CityLevels       []CityLevelConfig `json:"city_levels"`

	// Serviços
	CrowdServerURL string `json:"crowd_server_url"`
	EditorAddr     string `json:"editor_addr"`

	// Debug
	ShowDebugInfo bool `json:"show_debug_info"`
}

// DefaultConfig retorna a configuração padrão.
func DefaultConfig() *Config {
	return &Config{
		WindowWidth:  1280,
		WindowHeight: 720,
		WindowTitle:  "LandmarkVision",
		Fullscreen:   false,
		TargetFPS:    60,

		FOV:         60.0,
		CameraSpeed: 2000.0,
		ZoomSpeed:   4000.0,
		MinAltitude: 500.0,
		MaxAltitude: 400000.0,

		MapDataDir: "MapData",
		WorldName:  "Default",
		SaveDir:    "saves",

		SpatialIndexing: true,
		CellSize:        5000.0,
		MaxSearchRadius: 32,
		FootprintFactor: 2.0,

		MoveToleranceSq:   1.0,
		RotationTolerance: 0.1,

		CityLabelZOffset: 147.0,
		CityLevels:       defaultCityLevels(),

		CrowdServerURL: "ws://127.0.0.1:8090/ws",
		EditorAddr:     "127.0.0.1:3050",

		ShowDebugInfo: true,
	}
}

const defaultCityTemplate = "AgentConfig_SK_Flag_A"

func defaultCityLevels() []CityLevelConfig {
	levels := make([]CityLevelConfig, 0, 5)
	for i, name := range []string{"City1", "City2", "City3", "City4", "City5"} {
		levels = append(levels, CityLevelConfig{
			TypeName:     name,
			Template:     defaultCityTemplate,
			CommandGrid:  "CommandGrid_" + name,
			DefaultValue: int32(11 * (i + 1)),
		})
	}
	return levels
}

// FindCityConfig encontra a configuração de um tipo (sem diferenciar maiúsculas).
func (c *Config) FindCityConfig(typeName string) (CityLevelConfig, bool) {
	for _, lvl := range c.CityLevels {
		if strings.EqualFold(lvl.TypeName, typeName) {
			return lvl, true
		}
	}
	return CityLevelConfig{}, false
}

// DefaultValues retorna a tabela tipo -> valor padrão.
func (c *Config) DefaultValues() map[string]int32 {
	out := make(map[string]int32, len(c.CityLevels))
	for _, lvl := range c.CityLevels {
		if lvl.DefaultValue != 0 {
			out[lvl.TypeName] = lvl.DefaultValue
		}
	}
	return out
}

// configPath retorna o caminho do arquivo de configuração.
func configPath() string {
	execDir, err := os.Executable()
	if err != nil {
		return "landmarks_config.json"
	}
	return filepath.Join(filepath.Dir(execDir), "landmarks_config.json")
}

// Load carrega as configurações do arquivo ao lado do executável.
// Se o arquivo não existir, retorna as configurações padrão.
func Load() *Config {
	return LoadFrom(configPath())
}

// LoadFrom carrega as configurações de um arquivo JSON específico.
func LoadFrom(path string) *Config {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg
	}

	if err := json.Unmarshal(data, cfg); err != nil {
		return DefaultConfig()
	}

	return cfg
}

// Save salva as configurações ao lado do executável.
func (c *Config) Save() error {
	return c.SaveTo(configPath())
}

// SaveTo salva as configurações em um arquivo JSON específico.
func (c *Config) SaveTo(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
