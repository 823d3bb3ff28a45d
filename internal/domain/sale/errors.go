package sale

import (
	"errors"
	"fmt"
)

var (
	ErrSaleNotFound          = errors.New("sale not found")
	ErrInvalidCommissionData = errors.New("invalid commission data")
	ErrInvalidSaleAmount     = fmt.Errorf("%w: sale amount must be greater than zero", ErrInvalidCommissionData)
)
