package parcel

import (
	stderrors "errors"
	"strconv"

	"idlgen/errors"
)

// Status is the code that opens every reply. Zero is success; it also
// implements error so implementations can return a specific code.
type Status int32

const (
	StatusOK                 Status = 0
	StatusUnknown            Status = -1
	StatusInvalidValue       Status = -2
	StatusInvalidData        Status = -3
	StatusTransactionFailed  Status = -4
	StatusUnknownTransaction Status = -5
	StatusDeadObject         Status = -6
)

var statusNames = map[Status]string{
	StatusOK:                 "ok",
	StatusUnknown:            "unknown error",
	StatusInvalidValue:       "invalid value",
	StatusInvalidData:        "invalid data",
	StatusTransactionFailed:  "transaction failed",
	StatusUnknownTransaction: "unknown transaction",
	StatusDeadObject:         "dead object",
}

func (s Status) Error() string {
	if name, ok := statusNames[s]; ok {
		return "parcel: " + name
	}
	return "parcel: status " + strconv.Itoa(int(s))
}

// StatusCode maps an error to the code written into a reply.
func StatusCode(err error) Status {
	if err == nil {
		return StatusOK
	}
	var s Status
	if stderrors.As(err, &s) {
		return s
	}
	var e *errors.Error
	if stderrors.As(err, &e) && e.Phase == errors.PhaseDecode {
		return StatusInvalidData
	}
	return StatusUnknown
}

// StatusError is the inverse of StatusCode: StatusOK yields nil.
func StatusError(code Status) error {
	if code == StatusOK {
		return nil
	}
	return code
}

// WriteStatus writes the reply status for err.
func (p *Parcel) WriteStatus(err error) {
	p.WriteInt32(int32(StatusCode(err)))
}

// ReadStatus reads a reply status. A decode failure is returned as is.
func (p *Parcel) ReadStatus() error {
	code := p.ReadInt32()
	if p.err != nil {
		return p.err
	}
	return StatusError(Status(code))
}
