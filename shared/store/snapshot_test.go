package store

import (
	"path/filepath"
	"testing"

	"LandmarkVision/shared/landmark"
)

func TestSnapshotSaveLoad(t *testing.T) {
	dir := t.TempDir()
	s, err := Open(dir, "Teste")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer s.Close()

	if s.Path != filepath.Join(dir, "Teste.lv") {
		t.Errorf("Path = %q", s.Path)
	}
	if v, ok := s.Meta("WorldName"); !ok || v != "Teste" {
		t.Errorf("Meta(WorldName) = %q, %v", v, ok)
	}

	in := []landmark.Record{
		{ID: "z", DisplayName: "Zeta", Type: "City1", Position: landmark.Position{X: 1, Y: 2}, HeightMax: 100, Value: 11},
		{ID: "a", DisplayName: "Alfa", Type: "River", Position: landmark.Position{X: -3, Y: 4}, VisualOffset: landmark.Vec3{Z: 147}},
		{ID: "m", DisplayName: "Mi", Type: "City1", HeightMin: 5, HeightMax: 50},
	}
	if err := s.Save(in); err != nil {
		t.Fatalf("Save: %v", err)
	}

	out, err := s.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(out) != len(in) {
		t.Fatalf("Load retornou %d, want %d", len(out), len(in))
	}
	for i := range in {
		if out[i] != in[i] {
			t.Errorf("registro %d = %+v, want %+v", i, out[i], in[i])
		}
	}

	cities, err := s.ByType("City1")
	if err != nil || len(cities) != 2 {
		t.Errorf("ByType(City1) = %d, %v", len(cities), err)
	}

	// Save substitui a foto anterior
	if err := s.Save(in[:1]); err != nil {
		t.Fatalf("segundo Save: %v", err)
	}
	if n, _ := s.Count(); n != 1 {
		t.Errorf("Count() = %d, want 1", n)
	}
	if v, _ := s.Meta("Count"); v != "1" {
		t.Errorf("Meta(Count) = %q, want 1", v)
	}
	if _, ok := s.Meta("inexistente"); ok {
		t.Errorf("Meta(inexistente) deveria falhar")
	}
}

func TestSnapshotReopen(t *testing.T) {
	dir := t.TempDir()
	s, err := Open(dir, "")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := s.Save([]landmark.Record{{ID: "x", Type: "City2"}}); err != nil {
		t.Fatal(err)
	}
	s.Close()

	s, err = Open(dir, "")
	if err != nil {
		t.Fatalf("reabrir: %v", err)
	}
	defer s.Close()
	if s.Path != filepath.Join(dir, "Default.lv") {
		t.Errorf("Path = %q", s.Path)
	}
	out, err := s.Load()
	if err != nil || len(out) != 1 || out[0].ID != "x" {
		t.Errorf("Load depois de reabrir = %+v, %v", out, err)
	}
}
