// Package reverb provides the short and long multi-tap reverbs.
//
// Both are parallel feedback echoes summed into a wet signal rather than
// Schroeder or feedback-delay-network designs; they give a sense of space
// for sound-effect work, not a dense diffuse tail. Use
// github.com/cwbudde/algo-sfx/dsp/mfn when a real feedback network is
// needed.
package reverb
