package landmark

import (
	"math"
	"testing"
)

func TestPathProducerGenerate(t *testing.T) {
	tests := []struct {
		name    string
		points  []Position
		spacing float64
		wantN   int
		wantX0  float64
	}{
		{"linha reta", []Position{{0, 0}, {1000, 0}}, 200, 5, 100},
		{"espaçamento mínimo", []Position{{0, 0}, {1000, 0}}, 10, 10, 50},
		{"curto demais", []Position{{0, 0}, {50, 0}}, 100, 0, 0},
		{"sem pontos", nil, 100, 0, 0},
	}

	for _, tt := range tests {
		p := &PathProducer{Name: "Rio", Type: "River", Points: tt.points, Spacing: tt.spacing, HeightMax: 1000}
		got := p.Generate()
		if len(got) != tt.wantN {
			t.Errorf("%s: %d pontos, want %d", tt.name, len(got), tt.wantN)
			continue
		}
		if tt.wantN == 0 {
			continue
		}
		if got[0].ID != "Rio_0" || got[tt.wantN-1].Type != "River" {
			t.Errorf("%s: primeiro registro = %+v", tt.name, got[0])
		}
		if got[0].Position.X != tt.wantX0 {
			t.Errorf("%s: primeiro X = %v, want %v", tt.name, got[0].Position.X, tt.wantX0)
		}
	}
}

func TestPathProducerPolyline(t *testing.T) {
	p := &PathProducer{Points: []Position{{0, 0}, {300, 0}, {300, 300}}}
	if got := p.Length(); got != 600 {
		t.Errorf("Length() = %v, want 600", got)
	}

	tests := []struct {
		d    float64
		want Position
	}{
		{-10, Position{0, 0}},
		{150, Position{150, 0}},
		{400, Position{300, 100}},
		{9999, Position{300, 300}},
	}
	for _, tt := range tests {
		got := p.PositionAt(tt.d)
		if math.Abs(got.X-tt.want.X) > 1e-9 || math.Abs(got.Y-tt.want.Y) > 1e-9 {
			t.Errorf("PositionAt(%v) = %+v, want %+v", tt.d, got, tt.want)
		}
	}
}

func TestCloudProducerDissolves(t *testing.T) {
	w := newTestWorld(t)
	c := &CloudProducer{}
	c.Import([]Record{{ID: "a"}, {ID: "b"}}, false)
	c.Import([]Record{{ID: "c"}}, true)
	if c.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", c.Len())
	}

	c.Import([]Record{{ID: "d"}, {ID: "e"}}, false)
	if c.Len() != 2 {
		t.Fatalf("Import sem append deveria substituir: Len() = %d", c.Len())
	}

	c.Emit(w)
	if w.Len() != 2 {
		t.Errorf("World.Len() = %d, want 2", w.Len())
	}
	if c.Len() != 0 {
		t.Errorf("nuvem deveria ficar vazia depois de Emit: Len() = %d", c.Len())
	}

	c.Emit(w)
	if w.Len() != 2 {
		t.Errorf("segundo Emit não deveria registrar nada")
	}

	c.Import([]Record{{ID: "f"}}, true)
	c.Clear()
	if c.Len() != 0 {
		t.Errorf("Clear não esvaziou a nuvem")
	}
}

func TestEntityProducerDefaults(t *testing.T) {
	p := &EntityProducer{Owner: "Cidade_7", Entity: EntityRef{ID: 7}}
	rec := p.Record()
	if rec.ID != "Cidade_7" || rec.DisplayName != "Cidade_7" {
		t.Errorf("padrões = %q/%q, want Cidade_7/Cidade_7", rec.ID, rec.DisplayName)
	}
	if rec.LinkedEntity == nil || rec.LinkedEntity.ID != 7 {
		t.Errorf("LinkedEntity = %+v, want ID 7", rec.LinkedEntity)
	}

	p = &EntityProducer{Owner: "x", ID: "porto", Entity: EntityRef{ID: 1}}
	if rec := p.Record(); rec.ID != "porto" || rec.DisplayName != "porto" {
		t.Errorf("padrões = %q/%q, want porto/porto", rec.ID, rec.DisplayName)
	}
}

func TestProducersImplementInterface(t *testing.T) {
	w := newTestWorld(t)
	producers := []LandmarkProducer{
		&StaticProducer{Records: []Record{{ID: "s1"}, {ID: "s2"}}},
		&PathProducer{Name: "p", Points: []Position{{0, 0}, {250, 0}}, Spacing: 100},
		&EntityProducer{Owner: "e", Entity: EntityRef{ID: 1}},
	}
	for _, p := range producers {
		p.Emit(w)
	}
	if w.Len() != 5 {
		t.Errorf("Len() = %d, want 5", w.Len())
	}
}
