/*
 * MIT License
 *
 * Copyright (c) 2020 Nicolas JUHEL
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 *
 */

// Package level defines the logging severity scale gellog uses.
package level

import "github.com/sirupsen/logrus"

// Level is a logging severity, ordered from most to least severe.
type Level uint8

const (
	PanicLevel Level = iota
	FatalLevel
	ErrorLevel
	WarnLevel
	InfoLevel
	DebugLevel
	NilLevel
)

// String renders the human-readable level name.
func (l Level) String() string {
	switch l {
	case PanicLevel:
		return "Critical"
	case FatalLevel:
		return "Fatal"
	case ErrorLevel:
		return "Error"
	case WarnLevel:
		return "Warning"
	case InfoLevel:
		return "Info"
	case DebugLevel:
		return "Debug"
	default:
		return ""
	}
}

// Logrus converts the level into its logrus equivalent.
func (l Level) Logrus() logrus.Level {
	switch l {
	case PanicLevel:
		return logrus.PanicLevel
	case FatalLevel:
		return logrus.FatalLevel
	case ErrorLevel:
		return logrus.ErrorLevel
	case WarnLevel:
		return logrus.WarnLevel
	case InfoLevel:
		return logrus.InfoLevel
	case DebugLevel:
		return logrus.DebugLevel
	default:
		return logrus.TraceLevel
	}
}

// Parse reads a level from its capitalized or lower-case name (plus the
// aliases "panic" and "warn"); any other spelling yields InfoLevel.
func Parse(s string) Level {
	switch s {
	case "Critical", "critical", "panic":
		return PanicLevel
	case "Fatal", "fatal":
		return FatalLevel
	case "Error", "error":
		return ErrorLevel
	case "Warning", "warning", "warn":
		return WarnLevel
	case "Debug", "debug":
		return DebugLevel
	default:
		return InfoLevel
	}
}
