package landmark

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// Categorias de falha da persistência (distinguíveis com errors.Is).
var (
	ErrRead  = errors.New("falha ao ler arquivo de landmarks")
	ErrWrite = errors.New("falha ao gravar arquivo de landmarks")
	ErrParse = errors.New("arquivo de landmarks malformado")
)

// DefaultHeightMax é a altura máxima aplicada quando o arquivo não define a faixa.
const DefaultHeightMax = 100000.0

// TypeDefaults são os valores preenchidos pelo loader para um tipo.
type TypeDefaults struct {
	Value        int32
	LabelZOffset float64
}

// FileOptions configura o adaptador de arquivo.
type FileOptions struct {
	Dir      string // Diretório "map data"
	SwapAxes bool   // Correção de eixo para arquivos de ferramentas externas (X <-> Y)
	Defaults map[string]TypeDefaults
}

// FileStore traduz registros de/para o formato JSON (array de objetos).
type FileStore struct {
	dir      string
	swapAxes bool
	defaults map[string]TypeDefaults // chave em minúsculas
}

// fileRecord é o formato em disco. Campos de runtime não são gravados.
type fileRecord struct {
	ID           string   `json:"id"`
	DisplayName  string   `json:"displayName"`
	Type         string   `json:"type"`
	Position     Position `json:"position"`
	HeightMin    *float64 `json:"heightMin"` // nil = chave ausente
	HeightMax    *float64 `json:"heightMax"`
	Value        int32    `json:"value"`
	VisualOffset Vec3     `json:"visualOffset"`
}

// NewFileStore cria o adaptador.
func NewFileStore(opts FileOptions) *FileStore {
	defaults := make(map[string]TypeDefaults, len(opts.Defaults))
	for k, v := range opts.Defaults {
		defaults[strings.ToLower(k)] = v
	}
	return &FileStore{
		dir:      opts.Dir,
		swapAxes: opts.SwapAxes,
		defaults: defaults,
	}
}

// FileNameForWorld deriva o nome do arquivo a partir do identificador do mundo.
func FileNameForWorld(world string) string {
	if world == "" {
		world = "Default"
	}
	return world + "_Landmarks.json"
}

// Path resolve um nome lógico no diretório de dados do mapa.
func (s *FileStore) Path(name string) string {
	if filepath.Ext(name) == "" {
		name += ".json"
	}
	return filepath.Join(s.dir, filepath.Clean(name))
}

// Load lê e decodifica um arquivo, aplicando correção de eixo e valores padrão.
// Em caso de erro nenhum registro é retornado.
func (s *FileStore) Load(name string) ([]Record, error) {
	path := s.Path(name)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrRead, path, err)
	}

	var raw []fileRecord
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrParse, path, err)
	}

	out := make([]Record, 0, len(raw))
	for _, fr := range raw {
		out = append(out, s.fromFile(fr))
	}
	return out, nil
}

// fromFile converte um registro do disco e aplica os padrões.
func (s *FileStore) fromFile(fr fileRecord) Record {
	rec := Record{
		ID:           fr.ID,
		DisplayName:  fr.DisplayName,
		Type:         fr.Type,
		Position:     fr.Position,
		Value:        fr.Value,
		VisualOffset: fr.VisualOffset,
	}
	if fr.HeightMin != nil {
		rec.HeightMin = *fr.HeightMin
	}
	if fr.HeightMax != nil {
		rec.HeightMax = *fr.HeightMax
	}
	if s.swapAxes {
		rec.Position.X, rec.Position.Y = rec.Position.Y, rec.Position.X
	}
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	// Arquivos antigos não têm a faixa de altura
	if fr.HeightMin == nil && fr.HeightMax == nil {
		rec.HeightMax = DefaultHeightMax
	}
	if def, ok := s.defaults[strings.ToLower(rec.Type)]; ok {
		if rec.Value == 0 {
			rec.Value = def.Value
		}
		if rec.VisualOffset == (Vec3{}) {
			rec.VisualOffset.Z = def.LabelZOffset
		}
	}
	return rec
}

// Save serializa a lista e grava no diretório de dados do mapa.
func (s *FileStore) Save(name string, records []Record) error {
	raw := make([]fileRecord, 0, len(records))
	for _, rec := range records {
		fr := fileRecord{
			ID:           rec.ID,
			DisplayName:  rec.DisplayName,
			Type:         rec.Type,
			Position:     rec.Position,
			HeightMin:    &rec.HeightMin,
			HeightMax:    &rec.HeightMax,
			Value:        rec.Value,
			VisualOffset: rec.VisualOffset,
		}
		if s.swapAxes {
			fr.Position.X, fr.Position.Y = fr.Position.Y, fr.Position.X
		}
		raw = append(raw, fr)
	}

	data, err := json.MarshalIndent(raw, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: %v", ErrWrite, err)
	}

	path := s.Path(name)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrWrite, path, err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrWrite, path, err)
	}
	return nil
}
