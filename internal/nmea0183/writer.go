// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package nmea0183

import (
	"fmt"
	"io"

	serial "github.com/jacobsa/go-serial/serial"
)

// Writer emits sentences terminated by CRLF.
type Writer struct {
	w io.Writer
}

func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

// WriteSentence writes one encoded sentence.
func (w *Writer) WriteSentence(s string) error {
	if _, err := io.WriteString(w.w, s+"\r\n"); err != nil {
		return fmt.Errorf("nmea write %q: %w", s, err)
	}
	return nil
}

// OpenSerial opens an 8N1 serial port for NMEA output.
func OpenSerial(portName string, baudRate int) (io.ReadWriteCloser, error) {
	opts := serial.OpenOptions{
		PortName:              portName,
		BaudRate:              uint(baudRate),
		DataBits:              8,
		StopBits:              1,
		MinimumReadSize:       1,
		ParityMode:            serial.PARITY_NONE,
		InterCharacterTimeout: 0,
	}
	port, err := serial.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open NMEA port %s: %w", portName, err)
	}
	return port, nil
}
