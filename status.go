package tezos

import "fmt"

// Status is the status word closing every reply. Handlers return it as an
// error; the dispatcher appends it big endian after the reply data.
type Status uint16

const (
	// ExecutionError is returned when a handler failed for an internal reason.
	ExecutionError Status = 0x6400
	// WrongLength is returned when the command or its payload has a bad size.
	WrongLength Status = 0x6700
	// ApduCodeEmptyBuffer is returned when there is no data to work on.
	ApduCodeEmptyBuffer Status = 0x6982
	// OutputBufferTooSmall is returned when the reply does not fit the buffer.
	OutputBufferTooSmall Status = 0x6983
	// DataInvalid is returned when the payload could not be decoded or is refused.
	DataInvalid Status = 0x6984
	// ApduCodeConditionsNotSatisfied is returned when the command is out of sequence.
	ApduCodeConditionsNotSatisfied Status = 0x6985
	// CommandNotAllowed is returned for unknown instructions and user rejections.
	CommandNotAllowed Status = 0x6986
	BadKeyExample     Status = 0x6A80
	// InvalidP1P2 is returned for unsupported parameters.
	InvalidP1P2     Status = 0x6B00
	InsNotSupported Status = 0x6D00
	// ClaNotSupported is returned when the class byte is not 0x80.
	ClaNotSupported Status = 0x6E00
	Unknown         Status = 0x6F00
	SignVerifyError Status = 0x6F01
	// Success closes every successful reply.
	Success Status = 0x9000
	// Busy is returned when a shared resource is held by another command family.
	Busy Status = 0x9001
)

var statusNames = map[Status]string{
	ExecutionError:                 "ExecutionError",
	WrongLength:                    "WrongLength",
	ApduCodeEmptyBuffer:            "ApduCodeEmptyBuffer",
	OutputBufferTooSmall:           "OutputBufferTooSmall",
	DataInvalid:                    "DataInvalid",
	ApduCodeConditionsNotSatisfied: "ApduCodeConditionsNotSatisfied",
	CommandNotAllowed:              "CommandNotAllowed",
	BadKeyExample:                  "BadKeyExample",
	InvalidP1P2:                    "InvalidP1P2",
	InsNotSupported:                "InsNotSupported",
	ClaNotSupported:                "ClaNotSupported",
	Unknown:                        "Unknown",
	SignVerifyError:                "SignVerifyError",
	Success:                        "Success",
	Busy:                           "Busy",
}

func (status Status) String() string {

	if name, ok := statusNames[status]; ok {
		return name
	}

	return fmt.Sprintf("Status(%#04x)", uint16(status))

}

func (status Status) Error() string {

	return fmt.Sprintf("status %04x (%s)", uint16(status), status.String())

}

// StatusFromBytes decodes a big endian status word.
func StatusFromBytes(sw1, sw2 byte) Status {

	return Status(uint16(sw1)<<8 | uint16(sw2))

}
