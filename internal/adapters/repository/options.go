package repository

// Option applies a configuration option to the Changelog.
type Option func(*Changelog)

// WithMaxPerWidget bounds the changes retained per widget.
func WithMaxPerWidget(n int) Option {
	return func(s *Changelog) {
		if n > 0 {
			s.maxPerWidget = n
		}
	}
}
