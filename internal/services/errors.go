package services

import "errors"

var (
	ErrAllocationExhausted  = errors.New("no free quest code found")
	ErrImportFailed         = errors.New("import failed")
	ErrTitleRequired        = errors.New("title is required")
	ErrQuestionTextRequired = errors.New("question text is required")
	ErrInvalidLocation      = errors.New("location must be \"lat,lon\"")
	ErrQRTooLarge           = errors.New("quest is too large for a qr code")
)
