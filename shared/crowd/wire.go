package crowd

import (
	"LandmarkVision/shared/landmark"
	"LandmarkVision/shared/pkg/protowire"
)

// MsgType identifica o conteúdo de um Envelope.
type MsgType uint64

const (
	MsgPing MsgType = iota + 1
	MsgPong
	MsgSpawn
	MsgSpawnReply
	MsgQuery
	MsgQueryReply
	MsgDespawn
	MsgDespawnReply
	MsgError
)

// Envelope é a única mensagem trocada entre cliente e servidor.
// Campos não usados por um tipo ficam vazios.
type Envelope struct {
	Type      MsgType
	RequestID uint64
	Template  string
	Positions []landmark.Vec3
	Handles   []landmark.Handle
	Count     uint64
	Error     string
}

// Marshal serializa o envelope no formato protobuf.
func (m *Envelope) Marshal() []byte {
	e := protowire.NewEncoder()
	e.EncodeUvarint(1, uint64(m.Type))
	e.EncodeUvarint(2, m.RequestID)
	e.EncodeString(3, m.Template)
	for _, p := range m.Positions {
		pe := protowire.NewEncoder()
		pe.EncodeDouble(1, p.X)
		pe.EncodeDouble(2, p.Y)
		pe.EncodeDouble(3, p.Z)
		e.EncodeSubmessage(4, pe.Bytes())
	}
	for _, h := range m.Handles {
		e.EncodeUvarintForce(5, uint64(h))
	}
	e.EncodeUvarint(6, m.Count)
	e.EncodeString(7, m.Error)
	return e.Bytes()
}

// Unmarshal decodifica um envelope. Campos desconhecidos são ignorados.
func (m *Envelope) Unmarshal(data []byte) error {
	d := protowire.NewDecoder(data)
	for !d.Done() {
		fieldNum, wireType, err := d.ReadTag()
		if err != nil {
			return err
		}
		switch fieldNum {
		case 1:
			v, err := d.ReadUvarint()
			if err != nil {
				return err
			}
			m.Type = MsgType(v)
		case 2:
			v, err := d.ReadUvarint()
			if err != nil {
				return err
			}
			m.RequestID = v
		case 3:
			v, err := d.ReadString()
			if err != nil {
				return err
			}
			m.Template = v
		case 4:
			sub, err := d.ReadBytes()
			if err != nil {
				return err
			}
			p, err := unmarshalVec3(sub)
			if err != nil {
				return err
			}
			m.Positions = append(m.Positions, p)
		case 5:
			v, err := d.ReadUvarint()
			if err != nil {
				return err
			}
			m.Handles = append(m.Handles, landmark.Handle(v))
		case 6:
			v, err := d.ReadUvarint()
			if err != nil {
				return err
			}
			m.Count = v
		case 7:
			v, err := d.ReadString()
			if err != nil {
				return err
			}
			m.Error = v
		default:
			if err := d.SkipField(fieldNum, wireType); err != nil {
				return err
			}
		}
	}
	return nil
}

func unmarshalVec3(data []byte) (landmark.Vec3, error) {
	var v landmark.Vec3
	d := protowire.NewDecoder(data)
	for !d.Done() {
		fieldNum, wireType, err := d.ReadTag()
		if err != nil {
			return v, err
		}
		switch fieldNum {
		case 1:
			v.X, err = d.ReadDouble()
		case 2:
			v.Y, err = d.ReadDouble()
		case 3:
			v.Z, err = d.ReadDouble()
		default:
			err = d.SkipField(fieldNum, wireType)
		}
		if err != nil {
			return v, err
		}
	}
	return v, nil
}
