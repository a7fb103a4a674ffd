package power

import "github.com/loongson-community/yeeloong-laptop/internal/ec"

// AC reports the external power adapter.
type AC struct {
	ec ec.RegisterIO
}

// NewAC wraps the EC register backend.
func NewAC(rw ec.RegisterIO) *AC {
	return &AC{ec: rw}
}

// Name implements Supply.
func (a *AC) Name() string { return "yeeloong-ac" }

// Online reports whether the adapter feeds the board.
func (a *AC) Online() bool {
	return a.ec.ReadReg(ec.RegBatPower)&ec.BatPowerACIn != 0
}

var _ Supply = (*AC)(nil)
