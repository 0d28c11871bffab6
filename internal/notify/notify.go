// Package notify turns aborted cart mutations into user-facing messages.
package notify

import (
	"errors"
	"fmt"
	"io"

	"github.com/nikolayk812/cartstore/internal/domain"
	"github.com/sirupsen/logrus"
)

const (
	MsgStockExceeded = "Requested quantity is out of stock"
	MsgAddFailed     = "Failed to add product"
	MsgRemoveFailed  = "Failed to remove product"
	MsgUpdateFailed  = "Failed to update product amount"
	MsgUnknown       = "Something went wrong"
)

// Message picks the text to show for err. Stock problems share one message;
// everything else is reported per operation.
func Message(err error) string {
	if err == nil {
		return ""
	}
	if errors.Is(err, domain.ErrStockExceeded) {
		return MsgStockExceeded
	}

	var opErr *domain.OpError
	if !errors.As(err, &opErr) {
		return MsgUnknown
	}

	switch opErr.Op {
	case domain.OpAdd:
		return MsgAddFailed
	case domain.OpRemove:
		return MsgRemoveFailed
	case domain.OpUpdate:
		return MsgUpdateFailed
	default:
		return MsgUnknown
	}
}

// Toaster prints messages to out and logs the underlying cause.
type Toaster struct {
	out io.Writer
	log logrus.FieldLogger
}

func NewToaster(out io.Writer, log logrus.FieldLogger) *Toaster {
	return &Toaster{out: out, log: log}
}

// Notify reports err and returns whether anything was shown.
func (t *Toaster) Notify(err error) bool {
	msg := Message(err)
	if msg == "" {
		return false
	}

	t.log.WithError(err).WithField("toast", msg).Error("cart operation failed")
	_, _ = fmt.Fprintln(t.out, msg)

	return true
}
