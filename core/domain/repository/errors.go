package repository

import "errors"

var (
	ErrGameRecordNotFound  = errors.New("game record not found")
	ErrRoundRecordNotFound = errors.New("round record not found")
	ErrMongodb             = errors.New("mongodb error happen")
)
