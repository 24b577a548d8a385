package catalog

import "github.com/m-mizutani/goerr/v2"

var (
	ErrInvalidCatalog      = goerr.New("invalid field catalog")
	ErrDuplicateFieldID    = goerr.New("duplicate field ID")
	ErrDuplicateFieldKey   = goerr.New("duplicate field label within section")
	ErrInvalidFieldKind    = goerr.New("invalid field kind")
	ErrMissingOptions      = goerr.New("choice field requires at least one option")
	ErrUnknownGroup        = goerr.New("field references an undeclared validation group")
	ErrInvalidCondition    = goerr.New("condition must reference an earlier choice field")
	ErrInvalidFieldDefault = goerr.New("invalid field default")
)
