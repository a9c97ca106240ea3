package cli

import (
	"errors"

	"github.com/orgforge/orgforge/pkg/core"
	"github.com/orgforge/orgforge/pkg/multierr"
	"go.uber.org/zap"
)

type ErrorHandler struct {
	Verbose       bool
	PostPrintHook func()
}

func (h ErrorHandler) PrintErr(err error) {
	h.printErr(err, 0)
	if h.PostPrintHook != nil {
		h.PostPrintHook()
	}
}

func (h ErrorHandler) printErr(err error, num int) (nextNum int) {
	log := zap.L()

	errFmt := "%v"
	if h.Verbose {
		errFmt = "%+v"
	}

	merr, ok := err.(multierr.Error)
	if ok {
		switch len(merr) {
		case 0:
			return

		case 1:
			err = merr[0]

		default:
			log.Sugar().Errorf("%d errors:", len(merr))
			for _, err := range merr {
				num = h.printErr(err, num+1)
			}
			return num
		}
	}

	var wrapped *core.WrappedError
	if errors.As(err, &wrapped) && !h.Verbose {
		// The short form reads better without the wrap frames.
		log.Sugar().Errorf("[err %d] %v", num, wrapped)
		return num
	}

	log.Sugar().Errorf("[err %d] "+errFmt, num, err)

	return num
}
