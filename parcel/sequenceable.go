package parcel

import "idlgen/errors"

// Sequenceable is a value type that carries its own encoding. Generated code
// passes pointers, so implementations use pointer receivers.
type Sequenceable interface {
	Marshal(p *Parcel) error
	Unmarshal(p *Parcel) error
}

// WriteSequenceable writes a presence flag followed by v's own encoding.
func (p *Parcel) WriteSequenceable(v Sequenceable) {
	if v == nil {
		p.WriteInt32(0)
		return
	}
	p.WriteInt32(1)
	if p.err != nil {
		return
	}
	if err := v.Marshal(p); err != nil {
		p.fail(errors.Wrap(errors.PhaseEncode, errors.KindInvalidData, err, "sequenceable"))
	}
}

// ReadSequenceable reads a value written by WriteSequenceable. An absent value
// is invalid data: generated signatures carry sequenceables by value.
func ReadSequenceable[T any, PT interface {
	*T
	Sequenceable
}](p *Parcel) T {
	var v T
	present := p.ReadInt32()
	if p.err != nil {
		return v
	}
	if present == 0 {
		p.fail(errors.InvalidData(errors.PhaseDecode, []string{"sequenceable"}, "null sequenceable"))
		return v
	}
	if err := PT(&v).Unmarshal(p); err != nil {
		p.fail(errors.Wrap(errors.PhaseDecode, errors.KindInvalidData, err, "sequenceable"))
	}
	return v
}
