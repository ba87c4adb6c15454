package landmark

import (
	"iter"
	"sort"

	"github.com/google/uuid"
)

// entry guarda o registro e sua ordem de registro.
type entry struct {
	rec Record
	seq uint64
}

// Registry é o mapa chave -> registro, dono exclusivo dos dados.
// Não é thread-safe; World serializa o acesso.
type Registry struct {
	entries  map[string]*entry
	nextSeq  uint64
	grid     *Grid // nil = indexação desligada
	resolver EntityResolver
}

// NewRegistry cria um registro vazio. grid pode ser nil.
func NewRegistry(grid *Grid) *Registry {
	return &Registry{
		entries: make(map[string]*entry),
		grid:    grid,
	}
}

// SetEntityResolver define o resolvedor usado para validar vínculos no merge.
func (r *Registry) SetEntityResolver(res EntityResolver) {
	r.resolver = res
}

// Grid retorna o índice espacial (nil se desligado).
func (r *Registry) Grid() *Grid {
	return r.grid
}

// Register insere um novo landmark ou faz merge com um existente.
// Retorna o ID efetivo (gerado se vazio).
func (r *Registry) Register(rec Record) string {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}

	if existing, ok := r.entries[rec.ID]; ok {
		r.merge(&existing.rec, &rec)
		return rec.ID
	}

	r.entries[rec.ID] = &entry{rec: rec, seq: r.nextSeq}
	r.nextSeq++
	if r.grid != nil {
		r.grid.Insert(rec.ID, rec.Position)
	}
	return rec.ID
}

// merge aplica somente os campos fornecidos pelo registro novo,
// preservando estado derivado (ex: ExternalHandle).
func (r *Registry) merge(dst, src *Record) {
	if src.LinkedEntity != nil && r.linkValid(*src.LinkedEntity) {
		ref := *src.LinkedEntity
		dst.LinkedEntity = &ref
	}
	if src.DisplayName != "" {
		dst.DisplayName = src.DisplayName
	}
	if src.Value != 0 {
		dst.Value = src.Value
	}
}

func (r *Registry) linkValid(ref EntityRef) bool {
	if r.resolver == nil {
		return true
	}
	return r.resolver.IsValid(ref)
}

// Update substitui o conteúdo do registro se o id existir.
// Retorna false (sem erro) se o id não existir.
func (r *Registry) Update(id string, rec Record) bool {
	existing, ok := r.entries[id]
	if !ok {
		return false
	}

	rec.ID = id
	if rec.ExternalHandle == NoHandle {
		rec.ExternalHandle = existing.rec.ExternalHandle
	}
	if r.grid != nil {
		r.grid.Move(id, existing.rec.Position, rec.Position)
	}
	existing.rec = rec
	return true
}

// Unregister remove o landmark. O índice é atualizado com a posição
// armazenada antes da remoção do registro.
func (r *Registry) Unregister(id string) bool {
	existing, ok := r.entries[id]
	if !ok {
		return false
	}
	if r.grid != nil {
		r.grid.Remove(id, existing.rec.Position)
	}
	delete(r.entries, id)
	return true
}

// UnregisterAll esvazia registro e índice.
func (r *Registry) UnregisterAll() {
	r.entries = make(map[string]*entry)
	if r.grid != nil {
		r.grid.Clear()
	}
}

// SetExternalHandle grava o handle do spawn em lote no registro.
func (r *Registry) SetExternalHandle(id string, h Handle) bool {
	existing, ok := r.entries[id]
	if !ok {
		return false
	}
	existing.rec.ExternalHandle = h
	return true
}

// Get retorna uma cópia do registro.
func (r *Registry) Get(id string) (Record, bool) {
	existing, ok := r.entries[id]
	if !ok {
		return Record{}, false
	}
	return existing.rec, true
}

// lookup retorna o ponteiro interno (uso do resolvedor de visibilidade).
func (r *Registry) lookup(id string) (*Record, bool) {
	existing, ok := r.entries[id]
	if !ok {
		return nil, false
	}
	return &existing.rec, true
}

// Len retorna o número de landmarks registrados.
func (r *Registry) Len() int {
	return len(r.entries)
}

// All retorna cópias de todos os registros em ordem de registro.
func (r *Registry) All() []Record {
	ordered := make([]*entry, 0, len(r.entries))
	for _, e := range r.entries {
		ordered = append(ordered, e)
	}
	sort.Slice(ordered, func(i, j int) bool {
		return ordered[i].seq < ordered[j].seq
	})

	out := make([]Record, 0, len(ordered))
	for _, e := range ordered {
		out = append(out, e.rec)
	}
	return out
}

// records percorre os registros internos sem ordem (uso do índice).
func (r *Registry) records() iter.Seq[*Record] {
	return func(yield func(*Record) bool) {
		for _, e := range r.entries {
			if !yield(&e.rec) {
				return
			}
		}
	}
}
