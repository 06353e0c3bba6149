package form

// Key is a decoded input symbol.
type Key uint8

// Input symbols. Bindings to physical keys live in the terminal adapter.
const (
	// KeyNone carries a plain rune.
	KeyNone Key = iota
	KeyUp
	KeyDown
	KeyPageNext
	KeyPagePrev
	KeyToggleAdvanced
	KeyEdit
	KeyDelete
	KeySearch
	KeySearchNext
	KeyConfigure
	KeyGenerate
	KeyHelp
	KeyErrors
	KeyQuit
	KeyConfirm
	KeyCancel
	KeyBackspace
)

// Input is one input event. Rune is set for printable keys, including bound
// ones, so that text modes can treat them as characters.
type Input struct {
	Key  Key
	Rune rune
}

// EffectKind names a request the dispatcher hands back to its caller.
type EffectKind uint8

const (
	// EffectNone requests nothing.
	EffectNone EffectKind = iota
	// EffectConfigure requests a configure run.
	EffectConfigure
	// EffectGenerate requests a generate run.
	EffectGenerate
	// EffectPersist requests the entry list be committed, after a deletion.
	EffectPersist
	// EffectQuit requests the form to close.
	EffectQuit
)

// Effect is a side effect requested by Dispatch.
type Effect struct {
	Kind EffectKind
	// Entry names the entry the effect concerns, if any.
	Entry string
}
