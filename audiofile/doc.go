// Package audiofile reads and writes the files that enter and leave the
// effect library.
//
// WAV files are decoded into buffer.Audio whatever their subtype, and the
// decoded WAVInfo keeps the on-disk description (sample rate, bit depth,
// PCM or IEEE float) so callers such as the validator can check it. Output
// is written either as 32-bit IEEE float (the delivery format) or as integer
// PCM for tools that cannot read float WAV. FLAC and MP3 are decode-only.
//
// WriteFileAtomic wraps every file write so a crashed or failed render never
// leaves a truncated file at the destination path.
package audiofile
