// Package cloakproj synthesizes protection project descriptors from build artifacts and hands them to a protection engine.
//
// A build first calls Synthesize which merges the artifacts of the current build into a descriptor file,
// afterwards Run loads that file and drives the engine. Both operate on their own descriptor instance
// and persist or consume it before returning.
package cloakproj

import (
	"io"

	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
)

// CreateConfig holds a set of common switches that concern all calls to the cloakproj API.
// The zero value is a sensible default.
type CreateConfig struct {
	Fs      afero.Fs       //filesystem holding descriptors, defaults to the OS filesystem
	Logger  *logrus.Logger //diagnostics, discarded if nil
	Escapes bool           //terminal escape sequences allowed in rendered output
}

func (c CreateConfig) fs() afero.Fs {
	if c.Fs == nil {
		return afero.NewOsFs()
	}
	return c.Fs
}

func (c CreateConfig) logger() *logrus.Logger {
	if c.Logger == nil {
		silent := logrus.New()
		silent.Out = io.Discard
		return silent
	}
	return c.Logger
}
