package audio

import "errors"

var (
	ErrAudioNotFound       = errors.New("audio file not found")
	ErrAudioAlreadyExists  = errors.New("audio file already uploaded for this appointment")
	ErrAlreadyTranscribed  = errors.New("audio file already transcribed")
	ErrTranscriptionActive = errors.New("transcription already in progress")
	ErrUnsupportedFormat   = errors.New("unsupported audio format")
)
