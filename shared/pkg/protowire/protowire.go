// Package protowire é um encoder/decoder minimalista de campos protobuf
// usado pelo protocolo do simulador de multidão. A codificação de baixo
// nível fica por conta de google.golang.org/protobuf/encoding/protowire.
package protowire

import (
	"fmt"
	"math"

	"google.golang.org/protobuf/encoding/protowire"
)

// WireType constantes do protobuf
const (
	WireVarint          = int(protowire.VarintType)
	Wire64Bit           = int(protowire.Fixed64Type)
	WireLengthDelimited = int(protowire.BytesType)
	Wire32Bit           = int(protowire.Fixed32Type)
)

// ---------- ENCODER ----------

// Encoder acumula bytes no formato protobuf.
type Encoder struct {
	buf []byte
}

// NewEncoder cria um encoder vazio.
func NewEncoder() *Encoder {
	return &Encoder{buf: make([]byte, 0, 256)}
}

// Bytes retorna o buffer serializado.
func (e *Encoder) Bytes() []byte {
	return e.buf
}

// Reset limpa o buffer.
func (e *Encoder) Reset() {
	e.buf = e.buf[:0]
}

// EncodeUvarint codifica uint64. Zero não é serializado (proto3).
func (e *Encoder) EncodeUvarint(fieldNum int, v uint64) {
	if v == 0 {
		return
	}
	e.buf = protowire.AppendTag(e.buf, protowire.Number(fieldNum), protowire.VarintType)
	e.buf = protowire.AppendVarint(e.buf, v)
}

// EncodeUvarintForce codifica varint mesmo que seja zero (campos repetidos).
func (e *Encoder) EncodeUvarintForce(fieldNum int, v uint64) {
	e.buf = protowire.AppendTag(e.buf, protowire.Number(fieldNum), protowire.VarintType)
	e.buf = protowire.AppendVarint(e.buf, v)
}

// EncodeString codifica uma string.
func (e *Encoder) EncodeString(fieldNum int, v string) {
	if v == "" {
		return
	}
	e.buf = protowire.AppendTag(e.buf, protowire.Number(fieldNum), protowire.BytesType)
	e.buf = protowire.AppendString(e.buf, v)
}

// EncodeSubmessage codifica uma submensagem (length-delimited).
// Submensagens vazias são gravadas para preservar a posição em campos repetidos.
func (e *Encoder) EncodeSubmessage(fieldNum int, sub []byte) {
	e.buf = protowire.AppendTag(e.buf, protowire.Number(fieldNum), protowire.BytesType)
	e.buf = protowire.AppendBytes(e.buf, sub)
}

// EncodeDouble codifica um float64 como fixed64.
func (e *Encoder) EncodeDouble(fieldNum int, v float64) {
	if v == 0 {
		return
	}
	e.buf = protowire.AppendTag(e.buf, protowire.Number(fieldNum), protowire.Fixed64Type)
	e.buf = protowire.AppendFixed64(e.buf, math.Float64bits(v))
}

// ---------- DECODER ----------

// Decoder lê campos protobuf de um buffer.
type Decoder struct {
	buf []byte
}

// NewDecoder cria um decoder sobre um buffer.
func NewDecoder(buf []byte) *Decoder {
	return &Decoder{buf: buf}
}

// Done retorna true se não há mais bytes.
func (d *Decoder) Done() bool {
	return len(d.buf) == 0
}

// Remaining retorna os bytes restantes.
func (d *Decoder) Remaining() int {
	return len(d.buf)
}

// advance consome n bytes ou converte n negativo em erro.
func (d *Decoder) advance(n int) error {
	if n < 0 {
		return fmt.Errorf("protowire: %w", protowire.ParseError(n))
	}
	d.buf = d.buf[n:]
	return nil
}

// ReadTag lê o número do campo e o tipo de wire do próximo campo.
func (d *Decoder) ReadTag() (fieldNum int, wireType int, err error) {
	num, typ, n := protowire.ConsumeTag(d.buf)
	if err := d.advance(n); err != nil {
		return 0, 0, err
	}
	return int(num), int(typ), nil
}

// ReadUvarint lê um valor varint (após o tag já ter sido lido).
func (d *Decoder) ReadUvarint() (uint64, error) {
	v, n := protowire.ConsumeVarint(d.buf)
	if err := d.advance(n); err != nil {
		return 0, err
	}
	return v, nil
}

// ReadBytes lê um campo length-delimited.
func (d *Decoder) ReadBytes() ([]byte, error) {
	v, n := protowire.ConsumeBytes(d.buf)
	if err := d.advance(n); err != nil {
		return nil, err
	}
	return v, nil
}

// ReadString lê uma string.
func (d *Decoder) ReadString() (string, error) {
	v, n := protowire.ConsumeString(d.buf)
	if err := d.advance(n); err != nil {
		return "", err
	}
	return v, nil
}

// ReadDouble lê um float64 gravado como fixed64.
func (d *Decoder) ReadDouble() (float64, error) {
	v, n := protowire.ConsumeFixed64(d.buf)
	if err := d.advance(n); err != nil {
		return 0, err
	}
	return math.Float64frombits(v), nil
}

// SkipField pula o valor de um campo desconhecido.
func (d *Decoder) SkipField(fieldNum, wireType int) error {
	n := protowire.ConsumeFieldValue(protowire.Number(fieldNum), protowire.Type(wireType), d.buf)
	return d.advance(n)
}
