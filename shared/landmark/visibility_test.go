package landmark

import (
	"reflect"
	"slices"
	"testing"
)

// flatProjector projeta o plano XY direto na tela e guarda a última âncora.
type flatProjector struct {
	anchors []Vec3
}

func (p *flatProjector) ProjectToScreen(world Vec3) (Vec2, bool) {
	p.anchors = append(p.anchors, world)
	return Vec2{X: world.X, Y: world.Y}, true
}

func testSettings() ResolverSettings {
	return ResolverSettings{
		MaxSearchRadius:   32,
		FootprintFactor:   2.0,
		MoveToleranceSq:   1.0,
		RotationTolerance: 0.1,
	}
}

func newTestResolver(cellSize float64) (*Registry, *Resolver, *flatProjector) {
	reg := NewRegistry(NewGrid(cellSize))
	res := NewResolver(reg, testSettings())
	proj := &flatProjector{}
	res.SetProjector(proj)
	return reg, res, proj
}

func visibleIDs(v Visible) []string {
	ids := make([]string, 0, v.Len())
	for _, rec := range v.Records {
		ids = append(ids, rec.ID)
	}
	return ids
}

func TestHeightBand(t *testing.T) {
	tests := []struct {
		cameraZ float64
		want    bool
	}{
		{50, false},
		{100, true},
		{150, true},
		{200, true},
		{250, false},
	}

	for _, tt := range tests {
		reg, res, _ := newTestResolver(1000)
		reg.Register(Record{ID: "band", HeightMin: 100, HeightMax: 200})

		res.UpdateCameraState(Vec3{Z: tt.cameraZ}, Rotator{})
		got := res.VisibleLandmarks().Len() == 1
		if got != tt.want {
			t.Errorf("camera z=%.0f: visível=%v, want %v", tt.cameraZ, got, tt.want)
		}
	}
}

func TestChangeGate(t *testing.T) {
	reg, res, _ := newTestResolver(1000)
	reg.Register(Record{ID: "g", Position: Position{X: 15, Y: 10}, HeightMax: DefaultHeightMax})
	pos := Vec3{X: 10, Y: 10, Z: 500}

	steps := []struct {
		name string
		pos  Vec3
		rot  Rotator
		inv  bool
		want int
	}{
		{"primeira chamada", pos, Rotator{}, false, 1},
		{"mesmo estado", pos, Rotator{}, false, 1},
		{"movimento abaixo da tolerância", Vec3{X: 10.5, Y: 10, Z: 500}, Rotator{}, false, 1},
		{"movimento planar", Vec3{X: 20, Y: 10, Z: 500}, Rotator{}, false, 2},
		{"movimento de altura", Vec3{X: 20, Y: 10, Z: 510}, Rotator{}, false, 3},
		{"rotação", Vec3{X: 20, Y: 10, Z: 510}, Rotator{Yaw: 5}, false, 4},
		{"rotação abaixo da tolerância", Vec3{X: 20, Y: 10, Z: 510}, Rotator{Yaw: 5.05}, false, 4},
		{"invalidate", Vec3{X: 20, Y: 10, Z: 510}, Rotator{Yaw: 5.05}, true, 5},
	}

	for _, s := range steps {
		if s.inv {
			res.Invalidate()
		}
		before := res.VisibleLandmarks()
		prev := res.Recomputes()
		res.UpdateCameraState(s.pos, s.rot)
		if res.Recomputes() != s.want {
			t.Errorf("%s: Recomputes() = %d, want %d", s.name, res.Recomputes(), s.want)
		}
		if res.Recomputes() == prev {
			if after := res.VisibleLandmarks(); !reflect.DeepEqual(before, after) {
				t.Errorf("%s: cache mudou sem recomputar: %+v -> %+v", s.name, before, after)
			}
		}
	}
}

func TestGridScenarioAB(t *testing.T) {
	reg, res, proj := newTestResolver(256)
	reg.Register(Record{ID: "A", Position: Position{X: 0, Y: 0}, HeightMax: 1000})
	reg.Register(Record{ID: "B", Position: Position{X: 10000, Y: 10000}, HeightMax: 1000})

	if r := res.SearchRadius(500); r != 4 {
		t.Errorf("SearchRadius(500) = %d, want 4", r)
	}

	res.UpdateCameraState(Vec3{X: 0, Y: 0, Z: 500}, Rotator{})
	got := visibleIDs(res.VisibleLandmarks())
	if !slices.Equal(got, []string{"A"}) {
		t.Errorf("visíveis = %v, want [A]", got)
	}

	// A célula de B nem chega a ser varrida: nada dela é projetado
	if len(proj.anchors) != 1 {
		t.Errorf("projeções = %v, want só a de A", proj.anchors)
	}
	for _, a := range proj.anchors {
		if a.X == 10000 && a.Y == 10000 {
			t.Errorf("B foi projetado: %v", a)
		}
	}
}

func TestSearchRadiusClamp(t *testing.T) {
	_, res, _ := newTestResolver(100)
	tests := []struct {
		z    float64
		want int
	}{
		{-50, 0},
		{0, 0},
		{49, 1},
		{100, 2},
		{1e9, 32},
	}
	for _, tt := range tests {
		if got := res.SearchRadius(tt.z); got != tt.want {
			t.Errorf("SearchRadius(%v) = %d, want %d", tt.z, got, tt.want)
		}
	}
}

func TestLazyRebuild(t *testing.T) {
	reg, res, _ := newTestResolver(100)
	reg.Register(Record{ID: "r", HeightMax: DefaultHeightMax})
	reg.Grid().Clear()

	res.UpdateCameraState(Vec3{Z: 10}, Rotator{})
	if reg.Grid().Len() != 1 {
		t.Errorf("índice não foi reconstruído: Len() = %d", reg.Grid().Len())
	}
	if res.VisibleLandmarks().Len() != 1 {
		t.Errorf("landmark não ficou visível depois da reconstrução")
	}
}

func TestWithoutIndexScansRegistry(t *testing.T) {
	reg := NewRegistry(nil)
	res := NewResolver(reg, testSettings())
	res.SetProjector(&flatProjector{})
	reg.Register(Record{ID: "longe", Position: Position{X: 1e7, Y: 1e7}, HeightMax: DefaultHeightMax})

	res.UpdateCameraState(Vec3{Z: 10}, Rotator{})
	if got := visibleIDs(res.VisibleLandmarks()); !slices.Equal(got, []string{"longe"}) {
		t.Errorf("visíveis = %v, want [longe]", got)
	}
}

func TestOffscreenSkipped(t *testing.T) {
	reg := NewRegistry(NewGrid(100))
	res := NewResolver(reg, testSettings())
	res.SetProjector(ProjectorFunc(func(w Vec3) (Vec2, bool) {
		return Vec2{X: w.X}, w.X >= 0
	}))
	reg.Register(Record{ID: "in", Position: Position{X: 5}, HeightMax: DefaultHeightMax})
	reg.Register(Record{ID: "out", Position: Position{X: -5}, HeightMax: DefaultHeightMax})

	res.UpdateCameraState(Vec3{Z: 10}, Rotator{})
	if got := visibleIDs(res.VisibleLandmarks()); !slices.Equal(got, []string{"in"}) {
		t.Errorf("visíveis = %v, want [in]", got)
	}
}

func TestVisibleSkipsRemovedIDs(t *testing.T) {
	reg, res, _ := newTestResolver(1000)
	res.SetPolicy(ConstantPolicy(2, 0.5))
	reg.Register(Record{ID: "a", Position: Position{X: 1, Y: 1}, HeightMax: DefaultHeightMax})
	reg.Register(Record{ID: "b", Position: Position{X: 2, Y: 2}, HeightMax: DefaultHeightMax})

	res.UpdateCameraState(Vec3{Z: 10}, Rotator{})
	if len(res.CachedIDs()) != 2 {
		t.Fatalf("CachedIDs() = %v, want 2 ids", res.CachedIDs())
	}

	reg.Unregister("a")
	v := res.VisibleLandmarks()
	if v.Len() != 1 || len(v.ScreenPositions) != 1 || len(v.Scales) != 1 || len(v.Alphas) != 1 {
		t.Fatalf("slices desalinhados: %d %d %d %d",
			v.Len(), len(v.ScreenPositions), len(v.Scales), len(v.Alphas))
	}
	if v.Records[0].ID != "b" {
		t.Errorf("Records[0].ID = %q, want b", v.Records[0].ID)
	}
	if v.ScreenPositions[0] != (Vec2{X: 2, Y: 2}) {
		t.Errorf("ScreenPositions[0] = %+v, want {2 2}", v.ScreenPositions[0])
	}
	if v.Scales[0] != 2 || v.Alphas[0] != 0.5 {
		t.Errorf("escala/alpha = %v/%v, want 2/0.5", v.Scales[0], v.Alphas[0])
	}
}

func TestLinkedEntityAnchor(t *testing.T) {
	reg, res, proj := newTestResolver(1000)
	entities := &fakeEntities{positions: map[uint64]Vec3{1: {X: 30, Y: 40, Z: 5}}}
	res.SetEntityResolver(entities)

	reg.Register(Record{
		ID:           "vivo",
		Position:     Position{X: 1, Y: 1},
		HeightMax:    DefaultHeightMax,
		LinkedEntity: &EntityRef{ID: 1},
	})
	reg.Register(Record{
		ID:           "velho",
		Position:     Position{X: 2, Y: 2},
		VisualOffset: Vec3{Z: 147},
		HeightMax:    DefaultHeightMax,
		LinkedEntity: &EntityRef{ID: 2},
	})

	res.UpdateCameraState(Vec3{Z: 10}, Rotator{})

	want := map[Vec3]bool{
		{X: 30, Y: 40, Z: 5}: true, // posição viva
		{X: 2, Y: 2, Z: 147}: true, // vínculo inválido: posição armazenada + offset
	}
	if len(proj.anchors) != 2 {
		t.Fatalf("projeções = %d, want 2", len(proj.anchors))
	}
	for _, a := range proj.anchors {
		if !want[a] {
			t.Errorf("âncora inesperada %v", a)
		}
	}
}

func TestNoProjectorYieldsNothing(t *testing.T) {
	reg := NewRegistry(NewGrid(100))
	res := NewResolver(reg, testSettings())
	reg.Register(Record{ID: "a", HeightMax: DefaultHeightMax})

	res.UpdateCameraState(Vec3{Z: 10}, Rotator{})
	if res.VisibleLandmarks().Len() != 0 {
		t.Errorf("sem projetor nada deveria ser visível")
	}
}
