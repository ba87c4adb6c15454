package landmark

import (
	"fmt"
	"math"
	"slices"
	"testing"
)

func TestCellOf(t *testing.T) {
	g := NewGrid(100)
	tests := []struct {
		pos  Position
		want Cell
	}{
		{Position{0, 0}, Cell{0, 0}},
		{Position{99.9, 99.9}, Cell{0, 0}},
		{Position{100, 0}, Cell{1, 0}},
		{Position{-0.1, -0.1}, Cell{-1, -1}},
		{Position{-100, 250}, Cell{-1, 2}},
		{Position{-100.5, -250}, Cell{-2, -3}},
	}

	for _, tt := range tests {
		got := g.CellOf(tt.pos)
		if got != tt.want {
			t.Errorf("CellOf(%+v) = %+v, want %+v", tt.pos, got, tt.want)
		}
	}
}

func TestRebuildQueryZero(t *testing.T) {
	reg := NewRegistry(nil)
	reg.Register(Record{ID: "a", Position: Position{X: 10, Y: 10}})
	reg.Register(Record{ID: "b", Position: Position{X: 20, Y: 30}})
	reg.Register(Record{ID: "c", Position: Position{X: 150, Y: 10}})

	g := NewGrid(100)
	g.Rebuild(reg.records())
	g.Rebuild(reg.records())

	if g.Len() != 3 {
		t.Errorf("Len() = %d, want 3 (rebuild is idempotent)", g.Len())
	}

	got := slices.Sorted(g.Query(Position{X: 50, Y: 50}, 0))
	if !slices.Equal(got, []string{"a", "b"}) {
		t.Errorf("Query(r=0) = %v, want [a b]", got)
	}
}

func TestQueryDenseAndSparseAgree(t *testing.T) {
	g := NewGrid(10)
	for x := -5; x <= 5; x++ {
		for y := -5; y <= 5; y++ {
			pos := Position{X: float64(x) * 10, Y: float64(y) * 10}
			g.Insert(fmt.Sprintf("%d,%d", x, y), pos)
		}
	}

	// r=1: 9 células <= 121 ocupadas, varre o quadrado
	dense := slices.Sorted(g.Query(Position{}, 1))
	if len(dense) != 9 {
		t.Errorf("Query(r=1) retornou %d ids, want 9", len(dense))
	}

	// r=20: quadrado maior que as células ocupadas, varre as ocupadas
	sparse := slices.Sorted(g.Query(Position{}, 20))
	if len(sparse) != 121 {
		t.Errorf("Query(r=20) retornou %d ids, want 121", len(sparse))
	}
}

func TestQueryStopsEarly(t *testing.T) {
	g := NewGrid(10)
	g.Insert("a", Position{X: 1, Y: 1})
	g.Insert("b", Position{X: 2, Y: 2})

	n := 0
	for range g.Query(Position{}, 0) {
		n++
		break
	}
	if n != 1 {
		t.Errorf("iteração não parou no break: n=%d", n)
	}
}

func TestMoveAndRemove(t *testing.T) {
	g := NewGrid(100)
	g.Insert("m", Position{X: 10, Y: 10})
	g.Move("m", Position{X: 10, Y: 10}, Position{X: 20, Y: 20})
	if g.CellCount() != 1 || g.Len() != 1 {
		t.Errorf("Move na mesma célula alterou o índice: cells=%d len=%d", g.CellCount(), g.Len())
	}

	g.Move("m", Position{X: 20, Y: 20}, Position{X: 320, Y: 20})
	if got := slices.Collect(g.Query(Position{X: 320, Y: 20}, 0)); !slices.Equal(got, []string{"m"}) {
		t.Errorf("Query depois de Move = %v, want [m]", got)
	}
	if g.CellCount() != 1 {
		t.Errorf("célula vazia não foi descartada: cells=%d", g.CellCount())
	}

	if g.Remove("m", Position{X: 10, Y: 10}) {
		t.Errorf("Remove com posição errada deveria retornar false")
	}
	if !g.Remove("m", Position{X: 320, Y: 20}) {
		t.Errorf("Remove retornou false")
	}
	if g.Len() != 0 || g.CellCount() != 0 {
		t.Errorf("índice não ficou vazio: len=%d cells=%d", g.Len(), g.CellCount())
	}
}

func TestQueryAtInt32Limits(t *testing.T) {
	far := Position{X: 1e300, Y: 1e300}
	near := Position{X: -1e300, Y: -1e300}

	tests := []struct {
		name    string
		fillers int
	}{
		{"esparsa", 0},
		{"densa", 10},
	}
	for _, tt := range tests {
		g := NewGrid(100)
		g.Insert("far", far)
		g.Insert("near", near)
		for i := range tt.fillers {
			g.Insert(fmt.Sprintf("f%d", i), Position{X: float64(i) * 100})
		}

		if c := g.CellOf(far); c != (Cell{X: math.MaxInt32, Y: math.MaxInt32}) {
			t.Fatalf("%s: CellOf(far) = %+v", tt.name, c)
		}

		got := slices.Sorted(g.Query(far, 1))
		if !slices.Equal(got, []string{"far"}) {
			t.Errorf("%s: Query(far, 1) = %v, want [far]", tt.name, got)
		}
		got = slices.Sorted(g.Query(near, 1))
		if !slices.Equal(got, []string{"near"}) {
			t.Errorf("%s: Query(near, 1) = %v, want [near]", tt.name, got)
		}
	}
}
