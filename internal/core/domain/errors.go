package domain

import "errors"

var (
	ErrGameNotFound     = errors.New("game not found")
	ErrCardNotFound     = errors.New("card not found")
	ErrMissingBack      = errors.New("game folder has no " + BackCardName + " card")
	ErrNoFronts         = errors.New("game folder has no front cards")
	ErrNothingSelected  = errors.New("select at least one card to generate the document")
	ErrInvalidCount     = errors.New("invalid card count")
	ErrDocumentNotFound = errors.New("document not found")
	ErrInvalidLayout    = errors.New("invalid layout")

	ErrImageNotFound = errors.New("image not found")
	ErrImageMismatch = errors.New("image does not match the expected runtime contract")
)
