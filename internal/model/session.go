package model

type Action int

const (
	DefaultAction Action = iota
	ExpectingImportFile
)

// Session is the per-chat state kept between updates.
type Session struct {
	Action Action
}
