package parcel

import (
	"fmt"

	"idlgen/errors"
)

// Option flags for SendRequest.
const (
	FlagSync   uint32 = 0x00
	FlagOneway uint32 = 0x01
)

// Reserved transaction codes answered by DefaultHandler.
const (
	PingTransaction      uint32 = '_'<<24 | 'P'<<16 | 'N'<<8 | 'G'
	InterfaceTransaction uint32 = '_'<<24 | 'N'<<16 | 'T'<<8 | 'F'
)

type Option struct {
	Flags uint32
}

// IsOneway reports whether the caller does not wait for a reply.
func (o Option) IsOneway() bool {
	return o.Flags&FlagOneway != 0
}

// RemoteObject is the transport primitive a proxy sends requests through.
// For oneway requests reply is nil.
type RemoteObject interface {
	SendRequest(code uint32, data, reply *Parcel, option Option) error
}

// Handler receives requests on the server side.
type Handler interface {
	OnRemoteRequest(code uint32, data, reply *Parcel, option Option) error
}

// HandlerFunc adapts a function to Handler.
type HandlerFunc func(code uint32, data, reply *Parcel, option Option) error

func (f HandlerFunc) OnRemoteRequest(code uint32, data, reply *Parcel, option Option) error {
	return f(code, data, reply, option)
}

// DefaultHandler answers transaction codes a stub does not recognise. Ping is
// acknowledged with StatusOK; every other code is StatusUnknownTransaction.
var DefaultHandler Handler = HandlerFunc(defaultRequest)

func defaultRequest(code uint32, data, reply *Parcel, option Option) error {
	if code == PingTransaction {
		if reply != nil {
			reply.WriteStatus(nil)
		}
		return nil
	}
	return StatusUnknownTransaction
}

// WriteRemoteObject appends obj to the object table and writes its index.
func (p *Parcel) WriteRemoteObject(obj RemoteObject) {
	if obj == nil {
		p.WriteInt32(-1)
		return
	}
	if p.err != nil {
		return
	}
	p.objects = append(p.objects, obj)
	p.WriteInt32(int32(len(p.objects) - 1))
}

// ReadRemoteObject resolves an object table index written by WriteRemoteObject.
func (p *Parcel) ReadRemoteObject() RemoteObject {
	i := p.ReadInt32()
	if p.err != nil || i == -1 {
		return nil
	}
	if i < 0 || int(i) >= len(p.objects) {
		p.fail(errors.OutOfBounds(errors.PhaseDecode, []string{"object"}, int(i), len(p.objects)))
		return nil
	}
	return p.objects[i]
}

// Loopback returns a RemoteObject that delivers requests to h through fresh
// parcels, so that only the encoded bytes and the object table cross the call.
func Loopback(h Handler) RemoteObject {
	return &loopback{handler: h}
}

type loopback struct {
	handler Handler
}

func (l *loopback) SendRequest(code uint32, data, reply *Parcel, option Option) error {
	if data == nil {
		return errors.InvalidInput(errors.PhaseEncode, "nil request parcel")
	}
	in := FromBytes(data.Bytes(), data.Objects())
	defer in.Recycle()

	if option.IsOneway() || reply == nil {
		return l.handler.OnRemoteRequest(code, in, nil, option)
	}

	out := New()
	defer out.Recycle()
	if err := l.handler.OnRemoteRequest(code, in, out, option); err != nil {
		return err
	}
	reply.Reset()
	reply.data = append(reply.data, out.data...)
	reply.objects = append(reply.objects, out.objects...)
	return nil
}

func (l *loopback) String() string {
	return fmt.Sprintf("loopback(%T)", l.handler)
}
