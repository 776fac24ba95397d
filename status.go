package airlink

// Indicator reflects connection state on some externally visible
// output, typically a status LED. It is a projection of state, never a
// state holder of its own.
type Indicator interface {
	Set(on bool)
}

// IndicatorFunc adapts a function to the Indicator interface.
type IndicatorFunc func(on bool)

func (f IndicatorFunc) Set(on bool) {
	f(on)
}

// NopIndicator discards all state changes.
func NopIndicator() Indicator {
	return IndicatorFunc(func(bool) {})
}
