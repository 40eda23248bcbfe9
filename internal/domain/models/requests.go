package models

// ScanRequest carries the optional comma-separated symbol list for /scan.
type ScanRequest struct {
	Symbols string `query:"symbols" validate:"omitempty,max=512"`
}

// SymbolRequest carries the path symbol for /analyze and /quick.
type SymbolRequest struct {
	Symbol string `param:"symbol" validate:"required,min=1,max=12"`
}
