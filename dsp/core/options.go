package core

// DefaultSampleRate is the rate assumed when a caller does not state one.
const DefaultSampleRate = 48000

// DefaultBlockSize is the block length of block-based engines.
const DefaultBlockSize = 256

// ApplyOptions runs functional options against cfg in order and stops at
// the first error. Nil options are skipped.
func ApplyOptions[C any, O ~func(*C) error](cfg *C, opts []O) error {
	for _, opt := range opts {
		fn := (func(*C) error)(opt)
		if fn == nil {
			continue
		}
		if err := fn(cfg); err != nil {
			return err
		}
	}
	return nil
}
