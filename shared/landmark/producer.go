package landmark

import (
	"fmt"
	"log"
	"math"
)

// LandmarkProducer é qualquer fonte de landmarks que alimenta o World.
type LandmarkProducer interface {
	Emit(w *World)
}

// StaticProducer registra uma lista fixa de landmarks.
type StaticProducer struct {
	Records []Record
}

// Emit implementa LandmarkProducer.
func (p *StaticProducer) Emit(w *World) {
	for _, rec := range p.Records {
		w.Register(rec)
	}
}

// MinPathSpacing é o espaçamento mínimo entre pontos gerados ao longo de um caminho.
const MinPathSpacing = 100.0

// PathProducer gera um landmark a cada Spacing unidades ao longo de uma polilinha.
type PathProducer struct {
	Name        string // Base dos ids gerados: <Name>_<i>
	DisplayName string
	Type        string
	Points      []Position
	Spacing     float64
	HeightMin   float64
	HeightMax   float64
}

// Length retorna o comprimento total da polilinha.
func (p *PathProducer) Length() float64 {
	total := 0.0
	for i := 1; i < len(p.Points); i++ {
		total += math.Hypot(p.Points[i].X-p.Points[i-1].X, p.Points[i].Y-p.Points[i-1].Y)
	}
	return total
}

// PositionAt retorna o ponto a uma distância do início (limitado às pontas).
func (p *PathProducer) PositionAt(distance float64) Position {
	if len(p.Points) == 0 {
		return Position{}
	}
	if distance <= 0 {
		return p.Points[0]
	}
	for i := 1; i < len(p.Points); i++ {
		a, b := p.Points[i-1], p.Points[i]
		seg := math.Hypot(b.X-a.X, b.Y-a.Y)
		if distance <= seg && seg > 0 {
			t := distance / seg
			return Position{X: a.X + (b.X-a.X)*t, Y: a.Y + (b.Y-a.Y)*t}
		}
		distance -= seg
	}
	return p.Points[len(p.Points)-1]
}

// Generate calcula os registros sem registrá-los.
// O primeiro ponto é deslocado meio espaçamento para não cair no início.
func (p *PathProducer) Generate() []Record {
	spacing := math.Max(p.Spacing, MinPathSpacing)
	count := int(math.Floor(p.Length() / spacing))

	out := make([]Record, 0, count)
	for i := 0; i < count; i++ {
		distance := float64(i) * spacing
		if i == 0 {
			distance += spacing * 0.5
		}
		out = append(out, Record{
			ID:          fmt.Sprintf("%s_%d", p.Name, i),
			DisplayName: p.DisplayName,
			Type:        p.Type,
			Position:    p.PositionAt(distance),
			HeightMin:   p.HeightMin,
			HeightMax:   p.HeightMax,
		})
	}
	return out
}

// Emit implementa LandmarkProducer.
func (p *PathProducer) Emit(w *World) {
	records := p.Generate()
	for _, rec := range records {
		w.Register(rec)
	}
	log.Printf("[Registry] Caminho %s gerou %d landmarks", p.Name, len(records))
}

// CloudProducer guarda uma lista grande de pontos (importada de arquivo ou
// ferramenta externa). Ao emitir, entrega tudo ao World e se esvazia.
type CloudProducer struct {
	records []Record
}

// Import substitui (ou acrescenta a) lista de pontos.
func (p *CloudProducer) Import(records []Record, appendMode bool) {
	if !appendMode {
		p.records = nil
	}
	p.records = append(p.records, records...)
}

// Clear descarta a lista de pontos.
func (p *CloudProducer) Clear() {
	p.records = nil
}

// Len retorna quantos pontos ainda não foram emitidos.
func (p *CloudProducer) Len() int {
	return len(p.records)
}

// Emit implementa LandmarkProducer. Depois de entregar os dados a nuvem fica vazia.
func (p *CloudProducer) Emit(w *World) {
	if len(p.records) == 0 {
		return
	}
	for _, rec := range p.records {
		w.Register(rec)
	}
	log.Printf("[Registry] Nuvem entregou %d landmarks", len(p.records))
	p.records = nil
}

// EntityProducer registra um landmark preso a uma entidade viva (ex: cidade).
type EntityProducer struct {
	Owner       string // Nome da entidade dona
	Entity      EntityRef
	ID          string
	DisplayName string
	Type        string
	Position    Position
	HeightMin   float64
	HeightMax   float64
}

// Record monta o registro aplicando os padrões: id = nome do dono,
// nome de exibição = id.
func (p *EntityProducer) Record() Record {
	id := p.ID
	if id == "" {
		id = p.Owner
	}
	name := p.DisplayName
	if name == "" {
		name = id
	}
	ref := p.Entity
	return Record{
		ID:           id,
		DisplayName:  name,
		Type:         p.Type,
		Position:     p.Position,
		HeightMin:    p.HeightMin,
		HeightMax:    p.HeightMax,
		LinkedEntity: &ref,
	}
}

// Emit implementa LandmarkProducer.
func (p *EntityProducer) Emit(w *World) {
	w.Register(p.Record())
}
