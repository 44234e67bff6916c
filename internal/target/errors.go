package target

import "errors"

var (
	ErrBadCovariance = errors.New("target: covariance is not positive definite")
	ErrBadParameter  = errors.New("target: invalid parameter")
	ErrDimension     = errors.New("target: state dimension does not match target")
	ErrNoData        = errors.New("target: no observations")
)
