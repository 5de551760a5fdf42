package timerlog

// tee delivers each event to every logger in order.
type tee []Logger

func (t tee) Log(event Event) {
	for _, l := range t {
		l.Log(event)
	}
}

// Tee combines loggers. Nil and NoopLogger entries are dropped and nested
// tees are flattened, so Tee() is a NoopLogger and a single logger is
// returned as is.
func Tee(loggers ...Logger) Logger {
	var out tee
	for _, l := range loggers {
		switch l := l.(type) {
		case nil, NoopLogger:
		case tee:
			out = append(out, l...)
		default:
			out = append(out, l)
		}
	}

	switch len(out) {
	case 0:
		return NoopLogger{}
	case 1:
		return out[0]
	}
	return out
}
