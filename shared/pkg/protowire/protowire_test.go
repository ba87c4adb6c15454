package protowire

import "testing"

func TestEncodeDecode(t *testing.T) {
	sub := NewEncoder()
	sub.EncodeDouble(1, -12.5)

	e := NewEncoder()
	e.EncodeUvarint(1, 300)
	e.EncodeString(2, "AgentConfig_SK_Flag_A")
	e.EncodeSubmessage(3, sub.Bytes())
	e.EncodeUvarint(9, 7) // campo desconhecido pelo leitor abaixo
	e.EncodeUvarintForce(4, 0)

	d := NewDecoder(e.Bytes())
	var (
		gotVarint uint64
		gotString string
		gotDouble float64
		gotZero   = uint64(99)
	)
	for !d.Done() {
		num, typ, err := d.ReadTag()
		if err != nil {
			t.Fatalf("ReadTag: %v", err)
		}
		switch num {
		case 1:
			gotVarint, err = d.ReadUvarint()
		case 2:
			gotString, err = d.ReadString()
		case 3:
			var b []byte
			b, err = d.ReadBytes()
			if err == nil {
				sd := NewDecoder(b)
				if _, _, err = sd.ReadTag(); err == nil {
					gotDouble, err = sd.ReadDouble()
				}
			}
		case 4:
			gotZero, err = d.ReadUvarint()
		default:
			err = d.SkipField(num, typ)
		}
		if err != nil {
			t.Fatalf("campo %d: %v", num, err)
		}
	}

	if gotVarint != 300 || gotString != "AgentConfig_SK_Flag_A" || gotDouble != -12.5 || gotZero != 0 {
		t.Errorf("decodificado = %d %q %v %d", gotVarint, gotString, gotDouble, gotZero)
	}
}

func TestDecodeTruncated(t *testing.T) {
	e := NewEncoder()
	e.EncodeString(1, "landmark")
	data := e.Bytes()

	d := NewDecoder(data[:len(data)-3])
	if _, _, err := d.ReadTag(); err != nil {
		t.Fatalf("ReadTag: %v", err)
	}
	if _, err := d.ReadString(); err == nil {
		t.Errorf("ReadString em buffer truncado deveria falhar")
	}
}

func TestZeroValuesOmitted(t *testing.T) {
	e := NewEncoder()
	e.EncodeUvarint(1, 0)
	e.EncodeString(2, "")
	e.EncodeDouble(3, 0)
	if len(e.Bytes()) != 0 {
		t.Errorf("zeros foram serializados: %v", e.Bytes())
	}
	e.EncodeUvarint(1, 1)
	e.Reset()
	if !NewDecoder(e.Bytes()).Done() {
		t.Errorf("Reset não limpou o buffer")
	}
}
