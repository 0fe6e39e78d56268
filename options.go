package encryption

// Option configures an algorithm at construction.
type Option func(*options)

type options struct {
	window Windowing
}

// WithWindowing selects the windowing strategy. The default is WordWindow.
func WithWindowing(w Windowing) Option {
	return func(o *options) { o.window = w }
}

func buildOptions(opts []Option) options {
	o := options{window: WordWindow}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// checkKey reports whether key can back an engine reading words words of size
// bytes each.
func checkKey(key *KeyMaterial, words, size int) error {
	if key == nil {
		return ErrNilKey
	}
	if key.Len() == 0 {
		return ErrEmptyKey
	}
	if key.Len()/size < words {
		return ErrKeyTooShort
	}
	return nil
}
