package bolos

import (
	"fmt"
	"log/slog"
)

// Exception is a fault raised by the system layer.
type Exception uint16

const (
	ExceptionGeneric Exception = iota + 1
	ExceptionPaging
	ExceptionOverflow
	ExceptionSecurity
	ExceptionPic
	ExceptionAppExit
	ExceptionIoOverflow
	ExceptionIoHeader
	ExceptionIoState
	ExceptionIoReset
	ExceptionCxPort
	ExceptionSystem
	ExceptionNotEnoughSpace
)

var exceptionNames = map[Exception]string{
	ExceptionGeneric:        "Generic",
	ExceptionPaging:         "Paging",
	ExceptionOverflow:       "Overflow",
	ExceptionSecurity:       "Security",
	ExceptionPic:            "Pic",
	ExceptionAppExit:        "AppExit",
	ExceptionIoOverflow:     "IoOverflow",
	ExceptionIoHeader:       "IoHeader",
	ExceptionIoState:        "IoState",
	ExceptionIoReset:        "IoReset",
	ExceptionCxPort:         "CxPort",
	ExceptionSystem:         "System",
	ExceptionNotEnoughSpace: "NotEnoughSpace",
}

// ExceptionFromCode returns the exception with the given code.
func ExceptionFromCode(code uint16) (Exception, bool) {

	exception := Exception(code)
	_, ok := exceptionNames[exception]

	return exception, ok

}

func (exception Exception) Error() string {

	if name, ok := exceptionNames[exception]; ok {
		return fmt.Sprintf("exception %s (%d)", name, uint16(exception))
	}

	return fmt.Sprintf("exception %d", uint16(exception))

}

// Throw raises exception. It unwinds to the nearest Catch.
func Throw(exception Exception) {

	panic(exception)

}

// Catch runs fn and returns the exception it threw, if any.
// Panics carrying anything other than an Exception are not recovered.
func Catch(fn func()) (err error) {

	defer func() {

		recovered := recover()
		if recovered == nil {
			return
		}

		exception, ok := recovered.(Exception)
		if !ok {
			panic(recovered)
		}

		slog.Debug("CAUGHT", "Exception", exception.Error())
		err = exception

	}()

	fn()

	return nil

}
