package landmark

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func cityDefaults() map[string]TypeDefaults {
	return map[string]TypeDefaults{
		"City1": {Value: 11, LabelZOffset: 147},
		"City2": {Value: 22, LabelZOffset: 147},
	}
}

func TestFileStorePath(t *testing.T) {
	s := NewFileStore(FileOptions{Dir: "MapData"})
	tests := []struct {
		name string
		want string
	}{
		{"Cities", filepath.Join("MapData", "Cities.json")},
		{"Cities.json", filepath.Join("MapData", "Cities.json")},
		{FileNameForWorld("Europa"), filepath.Join("MapData", "Europa_Landmarks.json")},
		{FileNameForWorld(""), filepath.Join("MapData", "Default_Landmarks.json")},
	}
	for _, tt := range tests {
		if got := s.Path(tt.name); got != tt.want {
			t.Errorf("Path(%q) = %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	s := NewFileStore(FileOptions{Dir: t.TempDir()})
	in := []Record{
		{
			ID: "p1", DisplayName: "Porto", Type: "Harbor",
			Position:  Position{X: 12.5, Y: -40},
			HeightMin: 10, HeightMax: 9000,
			Value:        3,
			VisualOffset: Vec3{X: 1, Y: 2, Z: 3},
		},
		{
			ID: "p2", DisplayName: "Serra", Type: "Mountain",
			Position:  Position{X: -1000, Y: 2000},
			HeightMin: 0, HeightMax: 50000,
		},
	}

	if err := s.Save("roundtrip", in); err != nil {
		t.Fatalf("Save: %v", err)
	}
	out, err := s.Load("roundtrip")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(out) != len(in) {
		t.Fatalf("Load retornou %d registros, want %d", len(out), len(in))
	}
	for i := range in {
		if out[i] != in[i] {
			t.Errorf("registro %d = %+v, want %+v", i, out[i], in[i])
		}
	}
}

func TestLoadAppliesCityDefaults(t *testing.T) {
	dir := t.TempDir()
	data := `[{"type":"city1","displayName":"Vila","position":{"x":1,"y":2}}]`
	if err := os.WriteFile(filepath.Join(dir, "cities.json"), []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	s := NewFileStore(FileOptions{Dir: dir, Defaults: cityDefaults()})
	out, err := s.Load("cities")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(out) != 1 {
		t.Fatalf("Load retornou %d registros, want 1", len(out))
	}

	rec := out[0]
	if rec.ID == "" {
		t.Errorf("id não foi gerado")
	}
	if rec.Value != 11 {
		t.Errorf("Value = %d, want 11", rec.Value)
	}
	if rec.VisualOffset.Z != 147 {
		t.Errorf("VisualOffset.Z = %v, want 147", rec.VisualOffset.Z)
	}
	if rec.HeightMax != DefaultHeightMax {
		t.Errorf("HeightMax = %v, want %v", rec.HeightMax, DefaultHeightMax)
	}
}

func TestLoadKeepsExplicitValue(t *testing.T) {
	dir := t.TempDir()
	data := `[{"id":"c","type":"City2","value":7,"heightMax":10,"visualOffset":{"x":0,"y":0,"z":5}}]`
	if err := os.WriteFile(filepath.Join(dir, "c.json"), []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	out, err := NewFileStore(FileOptions{Dir: dir, Defaults: cityDefaults()}).Load("c")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if out[0].Value != 7 || out[0].VisualOffset.Z != 5 || out[0].HeightMax != 10 {
		t.Errorf("valores explícitos foram sobrescritos: %+v", out[0])
	}
}

func TestZeroHeightBandRoundTrip(t *testing.T) {
	dir := t.TempDir()
	s := NewFileStore(FileOptions{Dir: dir})
	if err := s.Save("zero", []Record{{ID: "z", Type: "River"}}); err != nil {
		t.Fatalf("Save: %v", err)
	}

	out, err := s.Load("zero")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if out[0].HeightMin != 0 || out[0].HeightMax != 0 {
		t.Errorf("faixa gravada como 0/0 voltou %v/%v", out[0].HeightMin, out[0].HeightMax)
	}
}

func TestAxisSwap(t *testing.T) {
	dir := t.TempDir()
	data := `[{"id":"s","position":{"x":1,"y":2}}]`
	if err := os.WriteFile(filepath.Join(dir, "swap.json"), []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	s := NewFileStore(FileOptions{Dir: dir, SwapAxes: true})
	out, err := s.Load("swap")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if out[0].Position != (Position{X: 2, Y: 1}) {
		t.Errorf("Position = %+v, want {X:2 Y:1}", out[0].Position)
	}

	if err := s.Save("swap2", out); err != nil {
		t.Fatalf("Save: %v", err)
	}
	raw, err := os.ReadFile(filepath.Join(dir, "swap2.json"))
	if err != nil {
		t.Fatal(err)
	}
	var back []fileRecord
	if err := json.Unmarshal(raw, &back); err != nil {
		t.Fatal(err)
	}
	if back[0].Position != (Position{X: 1, Y: 2}) {
		t.Errorf("arquivo salvo com Position = %+v, want {X:1 Y:2}", back[0].Position)
	}
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "broken.json"), []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "object.json"), []byte(`{"id":"x"}`), 0644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		want error
	}{
		{"missing", ErrRead},
		{"broken", ErrParse},
		{"object", ErrParse},
	}

	w := NewWorld(Settings{SpatialIndexing: true, CellSize: 100, Files: FileOptions{Dir: dir}})
	w.Register(Record{ID: "existente"})

	for _, tt := range tests {
		err := w.LoadFromFile(tt.name)
		if !errors.Is(err, tt.want) {
			t.Errorf("LoadFromFile(%q) = %v, want %v", tt.name, err, tt.want)
		}
		if w.Len() != 1 {
			t.Errorf("LoadFromFile(%q) alterou o registro: Len() = %d", tt.name, w.Len())
		}
	}
}

func TestSaveError(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "arquivo")
	if err := os.WriteFile(blocker, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	// O diretório de destino é um arquivo comum
	s := NewFileStore(FileOptions{Dir: blocker})
	err := s.Save("x", []Record{{ID: "a"}})
	if !errors.Is(err, ErrWrite) {
		t.Errorf("Save = %v, want ErrWrite", err)
	}
}

func TestSaveOmitsRuntimeFields(t *testing.T) {
	dir := t.TempDir()
	s := NewFileStore(FileOptions{Dir: dir})
	rec := Record{ID: "h", ExternalHandle: 9, LinkedEntity: &EntityRef{ID: 3}}
	if err := s.Save("h", []Record{rec}); err != nil {
		t.Fatalf("Save: %v", err)
	}

	raw, err := os.ReadFile(filepath.Join(dir, "h.json"))
	if err != nil {
		t.Fatal(err)
	}
	for _, field := range []string{"ExternalHandle", "LinkedEntity", "externalHandle", "linkedEntity"} {
		if strings.Contains(string(raw), field) {
			t.Errorf("arquivo contém campo de runtime %q", field)
		}
	}
}
