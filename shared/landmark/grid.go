package landmark

import (
	"iter"
	"math"

	"LandmarkVision/shared/util"
)

// Cell é a coordenada inteira de uma célula da grade.
type Cell struct {
	X, Y int32
}

// Grid é o índice espacial em grade uniforme.
// Guarda apenas IDs; o registro é a única fonte de verdade dos dados.
type Grid struct {
	cellSize float64
	cells    map[Cell]map[string]struct{}
	count    int
}

// NewGrid cria um índice com o tamanho de célula fixo.
func NewGrid(cellSize float64) *Grid {
	if cellSize <= 0 {
		cellSize = 1
	}
	return &Grid{
		cellSize: cellSize,
		cells:    make(map[Cell]map[string]struct{}),
	}
}

// CellSize retorna o tamanho de célula configurado.
func (g *Grid) CellSize() float64 {
	return g.cellSize
}

// CellOf retorna a célula que contém a posição.
func (g *Grid) CellOf(pos Position) Cell {
	return Cell{
		X: util.FloorDiv(pos.X, g.cellSize),
		Y: util.FloorDiv(pos.Y, g.cellSize),
	}
}

// Insert adiciona o id ao balde da posição.
func (g *Grid) Insert(id string, pos Position) {
	cell := g.CellOf(pos)
	bucket, ok := g.cells[cell]
	if !ok {
		bucket = make(map[string]struct{})
		g.cells[cell] = bucket
	}
	if _, exists := bucket[id]; !exists {
		bucket[id] = struct{}{}
		g.count++
	}
}

// Remove tira o id do balde da posição. Baldes vazios são descartados.
func (g *Grid) Remove(id string, pos Position) bool {
	cell := g.CellOf(pos)
	bucket, ok := g.cells[cell]
	if !ok {
		return false
	}
	if _, exists := bucket[id]; !exists {
		return false
	}
	delete(bucket, id)
	g.count--
	if len(bucket) == 0 {
		delete(g.cells, cell)
	}
	return true
}

// Move re-indexa o id quando a célula muda.
func (g *Grid) Move(id string, from, to Position) {
	if g.CellOf(from) == g.CellOf(to) {
		return
	}
	g.Remove(id, from)
	g.Insert(id, to)
}

// Clear esvazia o índice.
func (g *Grid) Clear() {
	g.cells = make(map[Cell]map[string]struct{})
	g.count = 0
}

// Len retorna o número de IDs indexados.
func (g *Grid) Len() int {
	return g.count
}

// CellCount retorna o número de células ocupadas.
func (g *Grid) CellCount() int {
	return len(g.cells)
}

// Rebuild limpa e re-insere todos os registros. Idempotente.
func (g *Grid) Rebuild(records iter.Seq[*Record]) {
	g.Clear()
	for rec := range records {
		g.Insert(rec.ID, rec.Position)
	}
}

// Query percorre os IDs das células no quadrado (2r+1)x(2r+1) centrado na
// célula de center. Sem ordem garantida.
func (g *Grid) Query(center Position, radius int) iter.Seq[string] {
	return func(yield func(string) bool) {
		if radius < 0 {
			radius = 0
		}
		c := g.CellOf(center)
		r := int32(min(radius, math.MaxInt32))

		// Grade esparsa: mais barato varrer as células ocupadas
		side := 2*radius + 1
		if side*side > len(g.cells) {
			for cell, bucket := range g.cells {
				if util.AbsDiff(cell.X, c.X) > int64(r) || util.AbsDiff(cell.Y, c.Y) > int64(r) {
					continue
				}
				for id := range bucket {
					if !yield(id) {
						return
					}
				}
			}
			return
		}

		x0, x1 := util.SpanAround(c.X, r)
		y0, y1 := util.SpanAround(c.Y, r)
		for x := x0; x <= x1; x++ {
			for y := y0; y <= y1; y++ {
				bucket, ok := g.cells[Cell{X: int32(x), Y: int32(y)}]
				if !ok {
					continue
				}
				for id := range bucket {
					if !yield(id) {
						return
					}
				}
			}
		}
	}
}
