package util

import (
	"bufio"
	"bytes"
	"io"
)

// SafeReadLine blocks until a whole line can be read or
// r returns an error.
// ***warning: expects lines to be \n separated***
func SafeReadLine(r *bufio.Reader) (line []byte, err error) {
	line, err = r.ReadBytes('\n')
	if len(line) > 0 && line[len(line)-1] == '\n' {
		// strip the \n
		line = line[:len(line)-1]
	}
	return
}

// ReadMessages reads every \n separated message from r.
// A trailing \r is stripped and empty lines are kept so that
// line k is always message k.
func ReadMessages(r io.Reader) ([][]byte, error) {
	var messages [][]byte
	src := bufio.NewReader(r)
	for {
		line, err := SafeReadLine(src)
		if err == io.EOF {
			if len(line) != 0 {
				messages = append(messages, bytes.TrimSuffix(line, []byte{'\r'}))
			}
			return messages, nil
		}
		if err != nil {
			return nil, err
		}
		messages = append(messages, bytes.TrimSuffix(line, []byte{'\r'}))
	}
}
